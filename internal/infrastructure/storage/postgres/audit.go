package postgres

import (
	"context"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/klauspost/compress/zstd"

	"stockpilot/internal/domain/audit"
)

const auditTable = "audit_log"

// CompressionAlgo specifies the compression algorithm used for a payload.
type CompressionAlgo string

const (
	CompressionNone CompressionAlgo = "none"
	CompressionZstd CompressionAlgo = "zstd"
)

// AuditStore persists audit entries. Change payloads larger than the
// threshold are zstd-compressed before insert.
type AuditStore struct {
	txManager *TxManager
	builder   squirrel.StatementBuilderType

	encoder           *zstd.Encoder
	compressThreshold int // bytes
}

var _ audit.Recorder = (*AuditStore)(nil)

// NewAuditStore creates an audit store.
func NewAuditStore(txManager *TxManager) (*AuditStore, error) {
	encoder, err := zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return nil, fmt.Errorf("create zstd encoder: %w", err)
	}
	return &AuditStore{
		txManager:         txManager,
		builder:           squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
		encoder:           encoder,
		compressThreshold: 10 * 1024, // 10KB
	}, nil
}

// Record inserts one audit entry.
func (s *AuditStore) Record(ctx context.Context, entry *audit.Entry) error {
	var (
		changes    []byte
		compressed []byte
		algo       = CompressionNone
	)

	if len(entry.Changes) > s.compressThreshold {
		compressed = s.encoder.EncodeAll(entry.Changes, nil)
		algo = CompressionZstd
	} else {
		changes = entry.Changes
	}

	q := s.builder.Insert(auditTable).
		Columns("id", "action", "entity", "entity_id", "actor_id",
			"changes", "changes_compressed", "compression_algo", "created_at").
		Values(entry.ID, string(entry.Action), entry.Entity, entry.EntityID, entry.ActorID,
			changes, compressed, string(algo), entry.CreatedAt)

	sql, args, err := q.ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	querier := s.txManager.GetQuerier(ctx)
	if _, err := querier.Exec(ctx, sql, args...); err != nil {
		return fmt.Errorf("insert audit entry: %w", err)
	}

	return nil
}

// Close releases the encoder resources.
func (s *AuditStore) Close() {
	if s.encoder != nil {
		s.encoder.Close()
	}
}
