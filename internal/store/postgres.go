package store

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresMeta implements NewsletterMeta against PostgreSQL.
//
// Schema:
//
//	CREATE TABLE newsletter_meta (
//	    newsletter_id BIGINT NOT NULL,
//	    meta_key      TEXT   NOT NULL,
//	    meta_value    BIGINT NOT NULL DEFAULT 0,
//	    PRIMARY KEY (newsletter_id, meta_key)
//	);
//
// The increment is a single upsert so concurrent clicks on the same
// newsletter never lose counts.
type PostgresMeta struct{ db *sql.DB }

// NewPostgresMeta creates a Postgres-backed newsletter metadata store.
func NewPostgresMeta(db *sql.DB) *PostgresMeta { return &PostgresMeta{db: db} }

const clicksKey = "tracking_clicks"

func (s *PostgresMeta) IncrementClicks(ctx context.Context, newsletterID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO newsletter_meta (newsletter_id, meta_key, meta_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (newsletter_id, meta_key)
		DO UPDATE SET meta_value = newsletter_meta.meta_value + 1
		RETURNING meta_value
	`, newsletterID, clicksKey).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("increment clicks for newsletter %d: %w", newsletterID, err)
	}
	return count, nil
}

func (s *PostgresMeta) GetClicks(ctx context.Context, newsletterID int64) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `
		SELECT meta_value FROM newsletter_meta
		WHERE newsletter_id = $1 AND meta_key = $2
	`, newsletterID, clicksKey).Scan(&count)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("get clicks for newsletter %d: %w", newsletterID, err)
	}
	return count, nil
}
