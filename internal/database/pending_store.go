package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/yotamfogel/Dress-App/internal/analysis"
	"github.com/yotamfogel/Dress-App/internal/vision"
)

// PendingStore persists pending selections in sqlite. It implements
// analysis.PendingStore with the same TTL semantics as the in-memory
// store; expired rows are purged lazily on reads and writes.
type PendingStore struct {
	db *DB
}

func NewPendingStore(db *DB) *PendingStore {
	return &PendingStore{db: db}
}

func (s *PendingStore) Put(ctx context.Context, p *analysis.PendingSelection) error {
	candidatesJSON, err := json.Marshal(p.Candidates)
	if err != nil {
		return fmt.Errorf("failed to marshal candidates: %w", err)
	}

	query := `
		INSERT OR REPLACE INTO pending_selections (id, candidates, created_at, expires_at)
		VALUES (?, ?, ?, ?)`

	_, err = s.db.conn.ExecContext(ctx, query,
		p.ID,
		string(candidatesJSON),
		p.CreatedAt.UnixNano(),
		p.ExpiresAt.UnixNano(),
	)
	if err != nil {
		return err
	}

	// Writes are a convenient moment to sweep what has expired.
	return s.purgeExpired(ctx, time.Now())
}

func (s *PendingStore) Get(ctx context.Context, id string) (*analysis.PendingSelection, error) {
	query := `
		SELECT candidates, created_at, expires_at
		FROM pending_selections WHERE id = ?`

	var candidatesJSON string
	var createdAt, expiresAt int64
	err := s.db.conn.QueryRowContext(ctx, query, id).Scan(&candidatesJSON, &createdAt, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, analysis.ErrPendingNotFound
	}
	if err != nil {
		return nil, err
	}

	p := &analysis.PendingSelection{
		ID:        id,
		CreatedAt: time.Unix(0, createdAt),
		ExpiresAt: time.Unix(0, expiresAt),
	}
	if p.Expired(time.Now()) {
		_ = s.Delete(ctx, id)
		return nil, analysis.ErrPendingNotFound
	}

	var candidates []vision.Candidate
	if err := json.Unmarshal([]byte(candidatesJSON), &candidates); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidates: %w", err)
	}
	p.Candidates = candidates
	return p, nil
}

func (s *PendingStore) Delete(ctx context.Context, id string) error {
	_, err := s.db.conn.ExecContext(ctx, `DELETE FROM pending_selections WHERE id = ?`, id)
	return err
}

// Close closes the underlying database handle.
func (s *PendingStore) Close() error {
	return s.db.Close()
}

func (s *PendingStore) purgeExpired(ctx context.Context, now time.Time) error {
	_, err := s.db.conn.ExecContext(ctx,
		`DELETE FROM pending_selections WHERE expires_at < ?`, now.UnixNano())
	return err
}
