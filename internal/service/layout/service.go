package layout

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/enshittification/inevitable-newspack-newsletters-backup/internal/domain"
)

// Service implements layout business logic. All public methods are safe
// for concurrent use if the underlying repository is concurrency-safe.
type Service struct {
	repo Repository
}

// NewService creates a layout service backed by the given repository.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Get returns a single layout.
func (s *Service) Get(ctx context.Context, id string) (*domain.Layout, error) {
	return s.repo.Get(ctx, id)
}

// List returns all layouts.
func (s *Service) List(ctx context.Context) ([]domain.Layout, error) {
	return s.repo.List(ctx)
}

// Create validates and persists a new layout.
func (s *Service) Create(ctx context.Context, input CreateInput) (*domain.Layout, error) {
	if input.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	l := &domain.Layout{
		ID:      uuid.New().String(),
		Title:   input.Title,
		Content: input.Content,
		Meta:    input.Meta,
	}
	if l.Meta == nil {
		l.Meta = map[string]string{}
	}

	id, err := s.repo.Create(ctx, l)
	if err != nil {
		return nil, err
	}
	l.ID = id
	return l, nil
}

// Update modifies mutable layout fields.
func (s *Service) Update(ctx context.Context, id string, u UpdateFields) error {
	return s.repo.Update(ctx, id, u)
}

// Delete removes a layout.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// CreateInput holds the fields for creating a new layout.
type CreateInput struct {
	Title   string            `json:"title"`
	Content string            `json:"content"`
	Meta    map[string]string `json:"meta"`
}
