package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/fleet/ledger/internal/domain/finance"
	"github.com/fleet/ledger/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockPutter struct {
	mock.Mock
	bodies [][]byte
}

func (m *mockPutter) PutObject(ctx context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	body, _ := io.ReadAll(params.Body)
	m.bodies = append(m.bodies, body)
	args := m.Called(*params.Bucket, *params.Key)
	if err := args.Error(0); err != nil {
		return nil, err
	}
	return &s3.PutObjectOutput{}, nil
}

type mockSink struct {
	mock.Mock
}

func (m *mockSink) Record(ctx context.Context, entry finance.AuditEntry) error {
	return m.Called(ctx, entry).Error(0)
}

func sampleEntry() finance.AuditEntry {
	entry := finance.NewAuditEntry(finance.EntityTypeAccountPayable, uuid.New(), finance.AuditActionSettle,
		uuid.New(), uuid.New(), uuid.New(), map[string]string{"status": "PENDING"}, map[string]string{"status": "PAID"})
	entry.CreatedAt = time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	return entry
}

func TestNewS3AuditArchive_RequiresBucket(t *testing.T) {
	_, err := NewS3AuditArchive(context.Background(), config.StorageConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bucket is required")
}

func TestNewS3AuditArchive_StaticCredentials(t *testing.T) {
	archive, err := NewS3AuditArchive(context.Background(), config.StorageConfig{
		Bucket:       "ledger-audit",
		Prefix:       "/audit/",
		AccessKey:    "key",
		SecretKey:    "secret",
		Endpoint:     "http://localhost:9000",
		UsePathStyle: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "audit", archive.prefix)
}

func TestS3AuditArchive_Record(t *testing.T) {
	entry := sampleEntry()
	putter := new(mockPutter)
	wantKey := "audit/" + entry.CompanyID.String() + "/2024/03/20/accountpayable/" +
		entry.EntityID.String() + "/" + entry.ID.String() + ".json"
	putter.On("PutObject", "ledger-audit", wantKey).Return(nil)

	archive := newS3AuditArchive(putter, "ledger-audit", "audit/", WithLogger(zap.NewNop()))
	require.NoError(t, archive.Record(context.Background(), entry))
	putter.AssertExpectations(t)

	require.Len(t, putter.bodies, 1)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(putter.bodies[0], &doc))
	assert.Equal(t, "SETTLE", doc["action"])
	assert.Equal(t, entry.EntityID.String(), doc["entity_id"])
	assert.Equal(t, map[string]any{"status": "PAID"}, doc["after"])
}

func TestS3AuditArchive_RecordFailure(t *testing.T) {
	putter := new(mockPutter)
	putter.On("PutObject", mock.Anything, mock.Anything).Return(errors.New("access denied"))

	archive := newS3AuditArchive(putter, "ledger-audit", "")
	err := archive.Record(context.Background(), sampleEntry())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access denied")
}

func TestArchivedAuditSink(t *testing.T) {
	ctx := context.Background()
	entry := sampleEntry()

	t.Run("archive failure is swallowed", func(t *testing.T) {
		primary, archive := new(mockSink), new(mockSink)
		primary.On("Record", ctx, entry).Return(nil)
		archive.On("Record", ctx, entry).Return(errors.New("bucket gone"))

		require.NoError(t, NewArchivedAuditSink(primary, archive, zap.NewNop()).Record(ctx, entry))
		archive.AssertExpectations(t)
	})

	t.Run("primary failure skips the archive", func(t *testing.T) {
		primary, archive := new(mockSink), new(mockSink)
		primary.On("Record", ctx, entry).Return(errors.New("db down"))

		err := NewArchivedAuditSink(primary, archive, nil).Record(ctx, entry)
		assert.EqualError(t, err, "db down")
		archive.AssertNotCalled(t, "Record", mock.Anything, mock.Anything)
	})
}
