package repository

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync"

	"github.com/lib/pq"
)

// ExpiryNotice identifies one subscription period of one owner.
type ExpiryNotice struct {
	OwnerID int
	EndDate string
}

// NoticeRepository remembers which expiry reminders were already sent.
type NoticeRepository interface {
	// Unsent returns the notices from candidates that have not been recorded yet.
	Unsent(ctx context.Context, candidates []ExpiryNotice) ([]ExpiryNotice, error)
	MarkSent(ctx context.Context, notices []ExpiryNotice) error
}

type JobRepository struct {
	DB *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{DB: db}
}

func (r *JobRepository) Unsent(ctx context.Context, candidates []ExpiryNotice) ([]ExpiryNotice, error) {
	if len(candidates) == 0 {
		return nil, nil
	}
	ids := make([]int64, len(candidates))
	for i, c := range candidates {
		ids[i] = int64(c.OwnerID)
	}
	rows, err := r.DB.QueryContext(ctx, `SELECT owner_id, end_date FROM expiry_notices WHERE owner_id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return nil, fmt.Errorf("error querying expiry notices: %w", err)
	}
	defer rows.Close()

	sent := map[ExpiryNotice]bool{}
	for rows.Next() {
		var n ExpiryNotice
		if err := rows.Scan(&n.OwnerID, &n.EndDate); err != nil {
			return nil, fmt.Errorf("error scanning expiry notice: %w", err)
		}
		sent[n] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating rows: %w", err)
	}

	var out []ExpiryNotice
	for _, c := range candidates {
		if !sent[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *JobRepository) MarkSent(ctx context.Context, notices []ExpiryNotice) error {
	if len(notices) == 0 {
		return nil
	}
	ids := make([]int64, len(notices))
	dates := make([]string, len(notices))
	for i, n := range notices {
		ids[i] = int64(n.OwnerID)
		dates[i] = n.EndDate
	}
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO expiry_notices (owner_id, end_date)
		SELECT * FROM UNNEST($1::int[], $2::text[])
		ON CONFLICT DO NOTHING`, pq.Array(ids), pq.Array(dates))
	if err != nil {
		return fmt.Errorf("error recording expiry notices: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil {
		slog.Info("recorded expiry notices", slog.Int64("rows", n))
	}
	return nil
}

type MemoryNoticeRepository struct {
	mu   sync.Mutex
	sent map[ExpiryNotice]bool
}

func NewMemoryNoticeRepository() *MemoryNoticeRepository {
	return &MemoryNoticeRepository{sent: map[ExpiryNotice]bool{}}
}

func (r *MemoryNoticeRepository) Unsent(_ context.Context, candidates []ExpiryNotice) ([]ExpiryNotice, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []ExpiryNotice
	for _, c := range candidates {
		if !r.sent[c] {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *MemoryNoticeRepository) MarkSent(_ context.Context, notices []ExpiryNotice) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range notices {
		r.sent[n] = true
	}
	return nil
}
