package movecheck

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/park285/oh-my-chess/internal/rules"
)

const DefaultRecentLimit = 20

// Schema creates the audit table used by NewRepository.
const Schema = `
CREATE TABLE IF NOT EXISTS move_checks (
	check_id    uuid PRIMARY KEY,
	fingerprint text        NOT NULL,
	from_file   bigint      NOT NULL,
	from_rank   bigint      NOT NULL,
	to_file     bigint      NOT NULL,
	to_rank     bigint      NOT NULL,
	mover       text        NOT NULL,
	legal       boolean     NOT NULL,
	reason      text        NOT NULL,
	cached      boolean     NOT NULL DEFAULT false,
	checked_at  timestamptz NOT NULL
);
CREATE INDEX IF NOT EXISTS move_checks_checked_at_idx ON move_checks (checked_at DESC);`

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// OpenPostgres opens and pings databaseURL and ensures the schema exists.
func OpenPostgres(ctx context.Context, databaseURL string) (*sql.DB, error) {
	if strings.TrimSpace(databaseURL) == "" {
		return nil, errors.New("DATABASE_URL is required")
	}
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(16)
	db.SetMaxIdleConns(8)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return db, nil
}

func (r *repository) InsertCheck(ctx context.Context, rec *AuditRecord) error {
	if rec == nil {
		return fmt.Errorf("nil audit record")
	}
	const query = `
		INSERT INTO move_checks (
			check_id,
			fingerprint,
			from_file,
			from_rank,
			to_file,
			to_rank,
			mover,
			legal,
			reason,
			cached,
			checked_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (check_id) DO NOTHING
		RETURNING check_id`

	var id string
	err := r.db.QueryRowContext(
		ctx,
		query,
		rec.CheckID.String(),
		rec.Fingerprint,
		rec.Move.From.File,
		rec.Move.From.Rank,
		rec.Move.To.File,
		rec.Move.To.Rank,
		rec.Mover.String(),
		rec.Legal,
		rec.Reason.String(),
		rec.Cached,
		rec.CheckedAt,
	).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrDuplicateCheck
	}
	if err != nil {
		return fmt.Errorf("insert move check: %w", err)
	}
	return nil
}

func (r *repository) RecentChecks(ctx context.Context, limit int) ([]*AuditRecord, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	const query = `
		SELECT
			check_id,
			fingerprint,
			from_file,
			from_rank,
			to_file,
			to_rank,
			mover,
			legal,
			reason,
			cached,
			checked_at
		FROM move_checks
		ORDER BY checked_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select move checks: %w", err)
	}
	defer rows.Close()

	out := make([]*AuditRecord, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate move checks: %w", err)
	}
	return out, nil
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(rows rowScanner) (*AuditRecord, error) {
	var (
		rec            AuditRecord
		id             string
		ff, fr, tf, tr int64
		mover, reason  string
	)
	if err := rows.Scan(&id, &rec.Fingerprint, &ff, &fr, &tf, &tr, &mover, &rec.Legal, &reason, &rec.Cached, &rec.CheckedAt); err != nil {
		return nil, fmt.Errorf("scan move check: %w", err)
	}
	if err := rec.CheckID.UnmarshalText([]byte(id)); err != nil {
		return nil, fmt.Errorf("scan move check id: %w", err)
	}
	rec.Move = rules.M(int(ff), int(fr), int(tf), int(tr))
	p, ok := rules.ParsePlayer(mover)
	if !ok {
		return nil, fmt.Errorf("scan move check: unknown mover %q", mover)
	}
	rec.Mover = p
	r, ok := rules.ParseReason(reason)
	if !ok {
		return nil, fmt.Errorf("scan move check: unknown reason %q", reason)
	}
	rec.Reason = r
	return &rec, nil
}
