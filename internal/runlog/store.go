package runlog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"

	"github.com/insurelens/policy-extract/internal/batch"
	"github.com/insurelens/policy-extract/internal/normalize"
	"github.com/insurelens/policy-extract/internal/pipeline"
	"github.com/insurelens/policy-extract/internal/schema"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS document_log (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		batch_id      TEXT    NOT NULL,
		source_file   TEXT    NOT NULL,
		outcome       TEXT    NOT NULL,
		total_premium REAL    NOT NULL DEFAULT 0,
		detail        TEXT,
		processed_at  TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_document_log_batch ON document_log (batch_id)`,
}

// Store is the batch audit log: one row per processed document, success or
// not, with the reconciled total premium for the successes. It backs the
// summary totals the batch command prints.
type Store struct {
	db  *sql.DB
	log *slog.Logger
}

// Open opens (or creates) the run log at path. Use ":memory:" for an
// ephemeral log.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open run log: %w", err)
	}
	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("init run log schema: %w", err)
		}
	}
	return &Store{db: db, log: logger}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// RecordBatch appends one row per document of a finished batch.
func (s *Store) RecordBatch(ctx context.Context, res *batch.Result) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO document_log (batch_id, source_file, outcome, total_premium, detail, processed_at)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	now := time.Now().UTC()
	for _, doc := range res.Documents {
		var premium float64
		if doc.Outcome == pipeline.Succeeded {
			premium = normalize.Numeric(doc.Record[schema.TotalPremium])
		}
		if _, err := stmt.ExecContext(ctx, res.BatchID, doc.Source, doc.Outcome.String(), premium, doc.Failure, now); err != nil {
			return fmt.Errorf("insert document row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	s.log.Info("runlog.batch_recorded", "batch_id", res.BatchID, "documents", len(res.Documents))
	return nil
}

// TotalPremium sums the recorded premium over successful documents, all time
// when since is nil, otherwise from since onward.
func (s *Store) TotalPremium(ctx context.Context, since *time.Time) (float64, error) {
	q := `SELECT COALESCE(SUM(total_premium), 0) FROM document_log WHERE outcome = 'succeeded'`
	args := []any{}
	if since != nil {
		q += ` AND processed_at >= ?`
		args = append(args, since.UTC())
	}
	var total float64
	if err := s.db.QueryRowContext(ctx, q, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("sum premiums: %w", err)
	}
	return total, nil
}

// OutcomeCounts returns the per-outcome document counts for one batch.
func (s *Store) OutcomeCounts(ctx context.Context, batchID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT outcome, COUNT(*) FROM document_log WHERE batch_id = ? GROUP BY outcome`, batchID)
	if err != nil {
		return nil, fmt.Errorf("count outcomes: %w", err)
	}
	defer func() { _ = rows.Close() }()

	out := make(map[string]int)
	for rows.Next() {
		var outcome string
		var n int
		if err := rows.Scan(&outcome, &n); err != nil {
			return nil, fmt.Errorf("scan outcome row: %w", err)
		}
		out[outcome] = n
	}
	return out, rows.Err()
}
