// Package postgres implements the repository interfaces against PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/domain"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/service/layout"
)

// LayoutRepo implements layout.Repository against PostgreSQL. Layout meta
// is stored as a JSONB column.
type LayoutRepo struct{ db *sql.DB }

// NewLayoutRepo creates a Postgres-backed layout repository.
func NewLayoutRepo(db *sql.DB) *LayoutRepo { return &LayoutRepo{db: db} }

func (r *LayoutRepo) Get(ctx context.Context, id string) (*domain.Layout, error) {
	l := &domain.Layout{}
	var meta []byte
	err := r.db.QueryRowContext(ctx, `
		SELECT id, title, content, meta, created_at, updated_at
		FROM newsletter_layouts
		WHERE id = $1
	`, id).Scan(&l.ID, &l.Title, &l.Content, &meta, &l.CreatedAt, &l.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, layout.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get layout: %w", err)
	}
	if err := unmarshalMeta(meta, &l.Meta); err != nil {
		return nil, err
	}
	return l, nil
}

func (r *LayoutRepo) List(ctx context.Context) ([]domain.Layout, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, title, content, meta, created_at, updated_at
		FROM newsletter_layouts
		ORDER BY updated_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list layouts: %w", err)
	}
	defer rows.Close()

	var out []domain.Layout
	for rows.Next() {
		var l domain.Layout
		var meta []byte
		if err := rows.Scan(&l.ID, &l.Title, &l.Content, &meta, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan layout: %w", err)
		}
		if err := unmarshalMeta(meta, &l.Meta); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *LayoutRepo) Create(ctx context.Context, l *domain.Layout) (string, error) {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	meta, err := json.Marshal(l.Meta)
	if err != nil {
		return "", fmt.Errorf("marshal layout meta: %w", err)
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO newsletter_layouts (id, title, content, meta, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
	`, l.ID, l.Title, l.Content, meta)
	if err != nil {
		return "", fmt.Errorf("create layout: %w", err)
	}
	return l.ID, nil
}

func (r *LayoutRepo) Update(ctx context.Context, id string, u layout.UpdateFields) error {
	sets := []string{}
	args := []interface{}{}
	idx := 1

	if u.Title != nil {
		sets = append(sets, fmt.Sprintf("title = $%d", idx))
		args = append(args, *u.Title)
		idx++
	}
	if u.Content != nil {
		sets = append(sets, fmt.Sprintf("content = $%d", idx))
		args = append(args, *u.Content)
		idx++
	}
	if u.Meta != nil {
		meta, err := json.Marshal(u.Meta)
		if err != nil {
			return fmt.Errorf("marshal layout meta: %w", err)
		}
		sets = append(sets, fmt.Sprintf("meta = $%d", idx))
		args = append(args, meta)
		idx++
	}
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "updated_at = NOW()")

	q := fmt.Sprintf("UPDATE newsletter_layouts SET %s WHERE id = $%d",
		strings.Join(sets, ", "), idx)
	args = append(args, id)

	res, err := r.db.ExecContext(ctx, q, args...)
	if err != nil {
		return fmt.Errorf("update layout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return layout.ErrNotFound
	}
	return nil
}

func (r *LayoutRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM newsletter_layouts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete layout: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return layout.ErrNotFound
	}
	return nil
}

func unmarshalMeta(raw []byte, dst *map[string]string) error {
	if len(raw) == 0 {
		*dst = map[string]string{}
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal layout meta: %w", err)
	}
	return nil
}
