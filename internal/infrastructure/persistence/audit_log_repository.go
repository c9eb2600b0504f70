package persistence

import (
	"context"

	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditSink writes audit entries to the audit_logs table
type GormAuditSink struct {
	db *gorm.DB
}

// NewGormAuditSink creates a new GormAuditSink
func NewGormAuditSink(db *gorm.DB) *GormAuditSink {
	return &GormAuditSink{db: db}
}

// Record appends one audit entry
func (s *GormAuditSink) Record(ctx context.Context, entry finance.AuditEntry) error {
	model, err := models.AuditLogModelFromDomain(entry)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Create(model).Error
}

var _ finance.AuditSink = (*GormAuditSink)(nil)
