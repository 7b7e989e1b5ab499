package postgres

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/service/layout"
)

func TestLayoutRepoGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, title, content, meta, created_at, updated_at`).
		WithArgs("abc").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "content", "meta", "created_at", "updated_at"},
		).AddRow("abc", "Weekly digest", "<p>hi</p>", []byte(`{"background_color":"#fff"}`), now, now))

	repo := NewLayoutRepo(db)
	l, err := repo.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Weekly digest", l.Title)
	assert.Equal(t, "#fff", l.Meta["background_color"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoutRepoGetMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT id, title, content, meta, created_at, updated_at`).
		WithArgs("nope").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "title", "content", "meta", "created_at", "updated_at"},
		))

	repo := NewLayoutRepo(db)
	_, err = repo.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, layout.ErrNotFound)
}

func TestLayoutRepoUpdateBuildsPartialSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	title := "Renamed"
	mock.ExpectExec(`UPDATE newsletter_layouts SET title = \$1, updated_at = NOW\(\) WHERE id = \$2`).
		WithArgs("Renamed", "abc").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := NewLayoutRepo(db)
	require.NoError(t, repo.Update(context.Background(), "abc", layout.UpdateFields{Title: &title}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoutRepoUpdateNoFieldsIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	repo := NewLayoutRepo(db)
	require.NoError(t, repo.Update(context.Background(), "abc", layout.UpdateFields{}))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLayoutRepoDeleteMissing(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM newsletter_layouts`).
		WithArgs("nope").
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewLayoutRepo(db)
	assert.ErrorIs(t, repo.Delete(context.Background(), "nope"), layout.ErrNotFound)
}
