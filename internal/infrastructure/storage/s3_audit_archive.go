// Package storage archives the ledger audit trail to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultRegion = "us-east-1"

// objectPutter is the slice of the S3 client the archive needs
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// archivedEntry is the JSON document written per audit entry
type archivedEntry struct {
	ID         uuid.UUID           `json:"id"`
	EntityType string              `json:"entity_type"`
	EntityID   uuid.UUID           `json:"entity_id"`
	Action     finance.AuditAction `json:"action"`
	ActorID    uuid.UUID           `json:"actor_id"`
	CompanyID  uuid.UUID           `json:"company_id"`
	BranchID   uuid.UUID           `json:"branch_id"`
	Before     any                 `json:"before,omitempty"`
	After      any                 `json:"after,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// S3AuditArchive writes each audit entry as an immutable JSON object keyed by
// company, day and entity
type S3AuditArchive struct {
	client objectPutter
	bucket string
	prefix string
	logger *zap.Logger
}

// ArchiveOption configures an S3AuditArchive
type ArchiveOption func(*S3AuditArchive)

// WithLogger sets the archive logger
func WithLogger(logger *zap.Logger) ArchiveOption {
	return func(a *S3AuditArchive) {
		a.logger = logger
	}
}

// NewS3AuditArchive builds an S3 client from the storage configuration
func NewS3AuditArchive(ctx context.Context, cfg config.StorageConfig, opts ...ArchiveOption) (*S3AuditArchive, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("audit archive bucket is required")
	}

	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})
	return newS3AuditArchive(client, cfg.Bucket, cfg.Prefix, opts...), nil
}

func newS3AuditArchive(client objectPutter, bucket, prefix string, opts ...ArchiveOption) *S3AuditArchive {
	a := &S3AuditArchive{
		client: client,
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Record uploads one audit entry
func (a *S3AuditArchive) Record(ctx context.Context, entry finance.AuditEntry) error {
	body, err := json.Marshal(archivedEntry{
		ID:         entry.ID,
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		ActorID:    entry.ActorID,
		CompanyID:  entry.CompanyID,
		BranchID:   entry.BranchID,
		Before:     entry.Before,
		After:      entry.After,
		CreatedAt:  entry.CreatedAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode audit entry: %w", err)
	}

	key := a.key(entry)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"entity-type": entry.EntityType,
			"action":      string(entry.Action),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive audit entry %s: %w", entry.ID, err)
	}
	a.logger.Debug("audit entry archived", zap.String("bucket", a.bucket), zap.String("key", key))
	return nil
}

// key lays entries out as <prefix>/<company>/<yyyy>/<mm>/<dd>/<entity_type>/<entity_id>/<entry_id>.json
func (a *S3AuditArchive) key(entry finance.AuditEntry) string {
	at := entry.CreatedAt.UTC()
	return path.Join(
		a.prefix,
		entry.CompanyID.String(),
		at.Format("2006/01/02"),
		strings.ToLower(entry.EntityType),
		entry.EntityID.String(),
		entry.ID.String()+".json",
	)
}

var _ finance.AuditSink = (*S3AuditArchive)(nil)
