package storage

import (
	"context"

	"github.com/fleet/ledger/internal/domain/finance"
	"go.uber.org/zap"
)

// ArchivedAuditSink records to the primary audit store and copies every
// entry to the archive. Only primary failures are returned; the archive is
// best-effort and its failures are logged.
type ArchivedAuditSink struct {
	primary finance.AuditSink
	archive finance.AuditSink
	logger  *zap.Logger
}

// NewArchivedAuditSink combines a primary sink with an archive
func NewArchivedAuditSink(primary, archive finance.AuditSink, logger *zap.Logger) *ArchivedAuditSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ArchivedAuditSink{primary: primary, archive: archive, logger: logger}
}

// Record writes to the primary sink first and archives only what it accepted
func (s *ArchivedAuditSink) Record(ctx context.Context, entry finance.AuditEntry) error {
	if err := s.primary.Record(ctx, entry); err != nil {
		return err
	}
	if err := s.archive.Record(ctx, entry); err != nil {
		s.logger.Warn("audit archive write failed",
			zap.String("audit_id", entry.ID.String()),
			zap.String("entity_type", entry.EntityType),
			zap.String("entity_id", entry.EntityID.String()),
			zap.Error(err))
	}
	return nil
}

var _ finance.AuditSink = (*ArchivedAuditSink)(nil)
