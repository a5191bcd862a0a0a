package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/MuhsinADA/ese-backend/internal/cache"
	dom "github.com/MuhsinADA/ese-backend/internal/domain"
	"github.com/MuhsinADA/ese-backend/internal/repo"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/singleflight"
)

var ErrNotFound = errors.New("not found")

// CreateTaskInput carries raw client values; enum and reference fields
// are validated here, not in the handler.
type CreateTaskInput struct {
	Title       string
	Description string
	Status      *string
	Priority    *string
	DueDate     *time.Time
	Category    *string // category UUID
}

// UpdateTaskInput is a partial update. DueDateSet distinguishes "clear
// the due date" from "leave it alone"; Category follows the same
// convention with the empty string meaning detach.
type UpdateTaskInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	DueDateSet  bool
	DueDate     *time.Time
	Category    *string
}

type TaskService struct {
	repo       repo.TaskRepo
	categories repo.CategoryRepo
	cache      *cache.TaskCache
	sf         singleflight.Group
}

// NewTaskService creates a TaskService. If c is nil, caching is disabled.
func NewTaskService(r repo.TaskRepo, cats repo.CategoryRepo, c *cache.TaskCache) *TaskService {
	return &TaskService{repo: r, categories: cats, cache: c}
}

// Create validates and stores a new task. Status defaults to todo,
// priority to medium. The due date, if given, must not be before today;
// the category, if given, must belong to the same user.
func (s *TaskService) Create(ctx context.Context, userID uuid.UUID, in CreateTaskInput) (dom.Task, error) {
	t := dom.Task{
		UserID:      userID,
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      dom.StatusTodo,
		Priority:    dom.PriorityMedium,
		DueDate:     in.DueDate,
	}

	if in.Status != nil {
		st, err := dom.ParseStatus(*in.Status)
		if err != nil {
			return dom.Task{}, dom.Invalid("status", err.Error())
		}
		t.Status = st
	}
	if in.Priority != nil {
		p, err := dom.ParsePriority(*in.Priority)
		if err != nil {
			return dom.Task{}, dom.Invalid("priority", err.Error())
		}
		t.Priority = p
	}
	if t.DueDate != nil && t.DueDate.Before(dom.Today(time.Now())) {
		return dom.Task{}, dom.Invalid("due_date", "due date cannot be in the past")
	}
	if in.Category != nil && *in.Category != "" {
		catID, err := s.resolveCategory(ctx, userID, *in.Category)
		if err != nil {
			return dom.Task{}, err
		}
		t.CategoryID = catID
	}

	created, err := s.repo.Create(ctx, t)
	if err != nil {
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return created, nil
}

func (s *TaskService) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Task, error) {
	t, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	return t, nil
}

// Update applies a partial update. Status changes must follow the
// lifecycle (todo -> in_progress -> done, self-transitions allowed).
// The due date is not re-validated here: an open task may already have
// drifted past it.
func (s *TaskService) Update(ctx context.Context, userID, id uuid.UUID, in UpdateTaskInput) (dom.Task, error) {
	existing, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}

	patch := existing
	if in.Title != nil {
		patch.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		patch.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		next, err := dom.ParseStatus(*in.Status)
		if err != nil {
			return dom.Task{}, dom.Invalid("status", err.Error())
		}
		if !existing.Status.CanTransitionTo(next) {
			return dom.Task{}, dom.Invalid("status",
				fmt.Sprintf("invalid transition from %q to %q", existing.Status, next))
		}
		patch.Status = next
	}
	if in.Priority != nil {
		p, err := dom.ParsePriority(*in.Priority)
		if err != nil {
			return dom.Task{}, dom.Invalid("priority", err.Error())
		}
		patch.Priority = p
	}
	if in.DueDateSet {
		patch.DueDate = in.DueDate
	}
	if in.Category != nil {
		if *in.Category == "" {
			patch.CategoryID = nil
		} else {
			catID, err := s.resolveCategory(ctx, userID, *in.Category)
			if err != nil {
				return dom.Task{}, err
			}
			patch.CategoryID = catID
		}
	}

	t, err := s.repo.Update(ctx, userID, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return dom.Task{}, ErrNotFound
		}
		return dom.Task{}, err
	}
	s.invalidateCache(ctx, userID)
	return t, nil
}

func (s *TaskService) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	s.invalidateCache(ctx, userID)
	return nil
}

// List runs the task query engine for one page of results. Identical
// concurrent reads collapse onto one DB round trip, and pages are
// cached until the next write by the same user.
func (s *TaskService) List(ctx context.Context, userID uuid.UUID, q dom.TaskQuery) (dom.TaskPage, error) {
	if s.cache == nil {
		items, total, err := s.repo.List(ctx, userID, q)
		if err != nil {
			return dom.TaskPage{}, err
		}
		return dom.TaskPage{Items: items, Total: total, Page: q.Page}, nil
	}

	key := cache.ListKey(userID, q)
	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		if page, ok, err := s.cache.GetList(ctx, userID, key); err == nil && ok {
			return page, nil
		}
		items, total, err := s.repo.List(ctx, userID, q)
		if err != nil {
			return nil, err
		}
		page := dom.TaskPage{Items: items, Total: total, Page: q.Page}
		_ = s.cache.SetList(ctx, userID, key, page)
		return page, nil
	})
	if err != nil {
		return dom.TaskPage{}, err
	}
	return v.(dom.TaskPage), nil
}

// Stats aggregates the user's tasks by status and priority. Always
// computed from the store; maps carry every enum value, zero-filled.
func (s *TaskService) Stats(ctx context.Context, userID uuid.UUID) (dom.Stats, error) {
	byStatus, err := s.repo.CountByStatus(ctx, userID)
	if err != nil {
		return dom.Stats{}, err
	}
	byPriority, err := s.repo.CountByPriority(ctx, userID)
	if err != nil {
		return dom.Stats{}, err
	}
	overdue, err := s.repo.CountOverdue(ctx, userID)
	if err != nil {
		return dom.Stats{}, err
	}

	stats := dom.Stats{
		ByStatus:   make(map[dom.Status]int, len(dom.Statuses)),
		ByPriority: make(map[dom.Priority]int, len(dom.Priorities)),
		Overdue:    overdue,
	}
	for _, st := range dom.Statuses {
		stats.ByStatus[st] = byStatus[st]
		stats.Total += byStatus[st]
	}
	for _, p := range dom.Priorities {
		stats.ByPriority[p] = byPriority[p]
	}
	return stats, nil
}

// resolveCategory parses and owner-checks a category reference. The
// lookup is owner-scoped, so another user's category is simply never
// found.
func (s *TaskService) resolveCategory(ctx context.Context, userID uuid.UUID, raw string) (*uuid.UUID, error) {
	catID, err := uuid.Parse(raw)
	if err != nil {
		return nil, dom.Invalid("category", "must be a valid UUID")
	}
	if _, err := s.categories.GetByID(ctx, userID, catID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, dom.Invalid("category", "you can only assign your own categories")
		}
		return nil, err
	}
	return &catID, nil
}

func (s *TaskService) invalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.cache != nil {
		_ = s.cache.InvalidateUser(ctx, userID)
	}
}
