package journal

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// OutcomeOK marks a request that returned without error. Failed requests
// record their failure kind.
const OutcomeOK = "ok"

type Entry struct {
	ID         string    `db:"id" json:"id"`
	Operation  string    `db:"operation" json:"operation"`
	Target     string    `db:"target" json:"target,omitempty"`
	Outcome    string    `db:"outcome" json:"outcome"`
	DurationMs int64     `db:"duration_ms" json:"durationMs"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}

func (e Entry) Duration() time.Duration { return time.Duration(e.DurationMs) * time.Millisecond }

// Store is the SQLite-backed request journal.
type Store struct {
	db     *sqlx.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewStore(db *sqlx.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger, now: time.Now}
}

func (s *Store) Append(ctx context.Context, entry Entry) error {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}
	entry.CreatedAt = entry.CreatedAt.UTC()

	_, err := s.db.NamedExecContext(ctx,
		`INSERT INTO request_journal (id, operation, target, outcome, duration_ms, created_at)
		 VALUES (:id, :operation, :target, :outcome, :duration_ms, :created_at)`,
		entry,
	)
	return err
}

// ListRecent returns up to limit entries, newest first.
func (s *Store) ListRecent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	entries := []Entry{}
	err := s.db.SelectContext(ctx, &entries,
		`SELECT id, operation, target, outcome, duration_ms, created_at
		 FROM request_journal ORDER BY created_at DESC, id LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Prune deletes entries older than the given age and reports how many
// were removed.
func (s *Store) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := s.now().Add(-olderThan).UTC()
	result, err := s.db.ExecContext(ctx, "DELETE FROM request_journal WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

// ObserveRequest records one adapter request. Journal failures are logged
// and never surface to the caller.
func (s *Store) ObserveRequest(ctx context.Context, operation, target, outcome string, elapsed time.Duration) {
	err := s.Append(context.WithoutCancel(ctx), Entry{
		Operation:  operation,
		Target:     target,
		Outcome:    outcome,
		DurationMs: elapsed.Milliseconds(),
	})
	if err != nil {
		s.logger.Warn("journal append failed", "operation", operation, "error", err)
	}
}
