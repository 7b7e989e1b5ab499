package layout_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/domain"
	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/service/layout"
)

// memRepo is an in-memory layout repository for unit testing.
type memRepo struct {
	mu      sync.Mutex
	layouts map[string]*domain.Layout
}

func newMemRepo() *memRepo {
	return &memRepo{layouts: make(map[string]*domain.Layout)}
}

func (m *memRepo) Get(_ context.Context, id string) (*domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[id]
	if !ok {
		return nil, layout.ErrNotFound
	}
	cp := *l
	return &cp, nil
}

func (m *memRepo) List(_ context.Context) ([]domain.Layout, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Layout
	for _, l := range m.layouts {
		out = append(out, *l)
	}
	return out, nil
}

func (m *memRepo) Create(_ context.Context, l *domain.Layout) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if l.ID == "" {
		return "", fmt.Errorf("id required")
	}
	cp := *l
	m.layouts[cp.ID] = &cp
	return cp.ID, nil
}

func (m *memRepo) Update(_ context.Context, id string, u layout.UpdateFields) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	l, ok := m.layouts[id]
	if !ok {
		return layout.ErrNotFound
	}
	if u.Title != nil {
		l.Title = *u.Title
	}
	if u.Content != nil {
		l.Content = *u.Content
	}
	if u.Meta != nil {
		l.Meta = u.Meta
	}
	return nil
}

func (m *memRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.layouts[id]; !ok {
		return layout.ErrNotFound
	}
	delete(m.layouts, id)
	return nil
}

func TestCreateRequiresTitle(t *testing.T) {
	svc := layout.NewService(newMemRepo())

	_, err := svc.Create(context.Background(), layout.CreateInput{Content: "<p>hi</p>"})
	assert.Error(t, err)
}

func TestCreateAndGet(t *testing.T) {
	svc := layout.NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, layout.CreateInput{
		Title:   "Weekly digest",
		Content: "<!-- wp:paragraph --><p>Hello</p><!-- /wp:paragraph -->",
		Meta:    map[string]string{"background_color": "#ffffff"},
	})
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Weekly digest", got.Title)
	assert.Equal(t, "#ffffff", got.Meta["background_color"])
}

func TestGetMissing(t *testing.T) {
	svc := layout.NewService(newMemRepo())

	_, err := svc.Get(context.Background(), "nope")
	assert.ErrorIs(t, err, layout.ErrNotFound)
}

func TestUpdateAppliesOnlySetFields(t *testing.T) {
	svc := layout.NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, layout.CreateInput{Title: "Before", Content: "body"})
	require.NoError(t, err)

	title := "After"
	require.NoError(t, svc.Update(ctx, created.ID, layout.UpdateFields{Title: &title}))

	got, err := svc.Get(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "After", got.Title)
	assert.Equal(t, "body", got.Content)
}

func TestDelete(t *testing.T) {
	svc := layout.NewService(newMemRepo())
	ctx := context.Background()

	created, err := svc.Create(ctx, layout.CreateInput{Title: "Gone soon"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))

	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, layout.ErrNotFound)
}
