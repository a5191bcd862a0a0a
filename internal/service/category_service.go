package service

import (
	"context"
	"errors"
	"strings"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"
	"github.com/MuhsinADA/ese-backend/internal/repo"
	"github.com/MuhsinADA/ese-backend/internal/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

var ErrCategoryNameTaken = errors.New("category name already taken")

// TaskListCache is the slice of the task cache that category writes
// need: cached task pages carry the category name, so a rename or
// delete makes them stale.
type TaskListCache interface {
	InvalidateUser(ctx context.Context, userID uuid.UUID) error
}

type CategoryService struct {
	repo  repo.CategoryRepo
	cache TaskListCache
}

// NewCategoryService creates a CategoryService. If c is nil, task list
// caching is not touched on writes.
func NewCategoryService(r repo.CategoryRepo, c TaskListCache) *CategoryService {
	return &CategoryService{repo: r, cache: c}
}

func (s *CategoryService) List(ctx context.Context, userID uuid.UUID) ([]dom.Category, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Create validates the name and color and inserts the category. Names
// are unique per user, case-insensitive.
func (s *CategoryService) Create(ctx context.Context, userID uuid.UUID, name, color string) (dom.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return dom.Category{}, dom.Invalid("name", "name is required")
	}
	if color == "" {
		color = dom.DefaultCategoryColor
	}
	if !dom.ValidHexColor(color) {
		return dom.Category{}, dom.Invalid("color", "must be a hex code like #6366f1")
	}

	c, err := s.repo.Create(ctx, dom.Category{UserID: userID, Name: name, Color: color})
	if err != nil {
		if errors.Is(err, repo.ErrNameTaken) || utils.IsPGUniqueViolation(err) {
			return dom.Category{}, ErrCategoryNameTaken
		}
		return dom.Category{}, err
	}
	return c, nil
}

// Update applies a partial update with the same uniqueness and color
// rules, excluding the category itself from the name check.
func (s *CategoryService) Update(ctx context.Context, userID, id uuid.UUID, name, color *string) (dom.Category, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Category{}, ErrNotFound
		}
		return dom.Category{}, err
	}

	newName := existing.Name
	if name != nil {
		newName = strings.TrimSpace(*name)
		if newName == "" {
			return dom.Category{}, dom.Invalid("name", "name is required")
		}
	}
	newColor := existing.Color
	if color != nil {
		newColor = *color
		if !dom.ValidHexColor(newColor) {
			return dom.Category{}, dom.Invalid("color", "must be a hex code like #6366f1")
		}
	}

	c, err := s.repo.Update(ctx, userID, id, newName, newColor)
	if err != nil {
		if errors.Is(err, repo.ErrNameTaken) || utils.IsPGUniqueViolation(err) {
			return dom.Category{}, ErrCategoryNameTaken
		}
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Category{}, ErrNotFound
		}
		return dom.Category{}, err
	}
	// Cached task pages embed the category name, so a rename makes
	// them stale.
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
	return c, nil
}

// Delete detaches the category from any referencing tasks and removes
// it. Task list caches go stale on the detach, so they are invalidated.
func (s *CategoryService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
	return nil
}
