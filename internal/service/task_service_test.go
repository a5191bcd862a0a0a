package service

import (
	"context"
	"errors"
	"testing"
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type fakeTaskRepo struct {
	createFn          func(ctx context.Context, t dom.Task) (dom.Task, error)
	getByIDFn         func(ctx context.Context, userID, id uuid.UUID) (dom.Task, error)
	updateFn          func(ctx context.Context, userID, id uuid.UUID, patch dom.Task) (dom.Task, error)
	deleteFn          func(ctx context.Context, userID, id uuid.UUID) error
	listFn            func(ctx context.Context, userID uuid.UUID, q dom.TaskQuery) ([]dom.Task, int, error)
	countByStatusFn   func(ctx context.Context, userID uuid.UUID) (map[dom.Status]int, error)
	countByPriorityFn func(ctx context.Context, userID uuid.UUID) (map[dom.Priority]int, error)
	countOverdueFn    func(ctx context.Context, userID uuid.UUID) (int, error)
}

func (f *fakeTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	return f.createFn(ctx, t)
}
func (f *fakeTaskRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Task, error) {
	return f.getByIDFn(ctx, userID, id)
}
func (f *fakeTaskRepo) Update(ctx context.Context, userID, id uuid.UUID, patch dom.Task) (dom.Task, error) {
	return f.updateFn(ctx, userID, id, patch)
}
func (f *fakeTaskRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return f.deleteFn(ctx, userID, id)
}
func (f *fakeTaskRepo) List(ctx context.Context, userID uuid.UUID, q dom.TaskQuery) ([]dom.Task, int, error) {
	return f.listFn(ctx, userID, q)
}
func (f *fakeTaskRepo) CountByStatus(ctx context.Context, userID uuid.UUID) (map[dom.Status]int, error) {
	return f.countByStatusFn(ctx, userID)
}
func (f *fakeTaskRepo) CountByPriority(ctx context.Context, userID uuid.UUID) (map[dom.Priority]int, error) {
	return f.countByPriorityFn(ctx, userID)
}
func (f *fakeTaskRepo) CountOverdue(ctx context.Context, userID uuid.UUID) (int, error) {
	return f.countOverdueFn(ctx, userID)
}

type fakeCategoryRepo struct {
	listByUserFn func(ctx context.Context, userID uuid.UUID) ([]dom.Category, error)
	getByIDFn    func(ctx context.Context, userID, id uuid.UUID) (dom.Category, error)
	createFn     func(ctx context.Context, c dom.Category) (dom.Category, error)
	updateFn     func(ctx context.Context, userID, id uuid.UUID, name, color string) (dom.Category, error)
	deleteFn     func(ctx context.Context, userID, id uuid.UUID) error
}

func (f *fakeCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]dom.Category, error) {
	return f.listByUserFn(ctx, userID)
}
func (f *fakeCategoryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Category, error) {
	return f.getByIDFn(ctx, userID, id)
}
func (f *fakeCategoryRepo) Create(ctx context.Context, c dom.Category) (dom.Category, error) {
	return f.createFn(ctx, c)
}
func (f *fakeCategoryRepo) Update(ctx context.Context, userID, id uuid.UUID, name, color string) (dom.Category, error) {
	return f.updateFn(ctx, userID, id, name, color)
}
func (f *fakeCategoryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	return f.deleteFn(ctx, userID, id)
}

func strPtr(s string) *string { return &s }

func TestCreateTaskDefaults(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTaskRepo{
		createFn: func(_ context.Context, task dom.Task) (dom.Task, error) {
			task.ID = uuid.New()
			return task, nil
		},
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	created, err := svc.Create(context.Background(), userID, CreateTaskInput{Title: "  Write tests  "})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if created.Title != "Write tests" {
		t.Errorf("title = %q, want trimmed", created.Title)
	}
	if created.Status != dom.StatusTodo {
		t.Errorf("status = %s, want todo", created.Status)
	}
	if created.Priority != dom.PriorityMedium {
		t.Errorf("priority = %s, want medium", created.Priority)
	}
}

func TestCreateTaskRejectsPastDueDate(t *testing.T) {
	svc := NewTaskService(&fakeTaskRepo{}, &fakeCategoryRepo{}, nil)

	past := dom.Today(time.Now()).AddDate(0, 0, -1)
	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{Title: "x", DueDate: &past})
	var verr *dom.ValidationError
	if !errors.As(err, &verr) || verr.Field != "due_date" {
		t.Fatalf("expected due_date validation error, got %v", err)
	}
}

func TestCreateTaskAcceptsTodayDueDate(t *testing.T) {
	repo := &fakeTaskRepo{
		createFn: func(_ context.Context, task dom.Task) (dom.Task, error) { return task, nil },
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	today := dom.Today(time.Now())
	if _, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{Title: "x", DueDate: &today}); err != nil {
		t.Fatalf("today must be accepted: %v", err)
	}
}

func TestCreateTaskRejectsUnknownEnum(t *testing.T) {
	svc := NewTaskService(&fakeTaskRepo{}, &fakeCategoryRepo{}, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{Title: "x", Status: strPtr("archived")})
	var verr *dom.ValidationError
	if !errors.As(err, &verr) || verr.Field != "status" {
		t.Fatalf("expected status validation error, got %v", err)
	}

	_, err = svc.Create(context.Background(), uuid.New(), CreateTaskInput{Title: "x", Priority: strPtr("severe")})
	if !errors.As(err, &verr) || verr.Field != "priority" {
		t.Fatalf("expected priority validation error, got %v", err)
	}
}

func TestCreateTaskRejectsForeignCategory(t *testing.T) {
	cats := &fakeCategoryRepo{
		getByIDFn: func(_ context.Context, _, _ uuid.UUID) (dom.Category, error) {
			return dom.Category{}, pgx.ErrNoRows // owner-scoped lookup finds nothing
		},
	}
	svc := NewTaskService(&fakeTaskRepo{}, cats, nil)

	_, err := svc.Create(context.Background(), uuid.New(), CreateTaskInput{
		Title:    "x",
		Category: strPtr(uuid.NewString()),
	})
	var verr *dom.ValidationError
	if !errors.As(err, &verr) || verr.Field != "category" {
		t.Fatalf("expected category validation error, got %v", err)
	}
}

func TestUpdateTaskTransitions(t *testing.T) {
	cases := []struct {
		from dom.Status
		to   string
		ok   bool
	}{
		{dom.StatusTodo, "in_progress", true},
		{dom.StatusTodo, "done", false},
		{dom.StatusInProgress, "done", true},
		{dom.StatusInProgress, "todo", false},
		{dom.StatusDone, "in_progress", false},
		{dom.StatusDone, "done", true},
	}
	for _, c := range cases {
		repo := &fakeTaskRepo{
			getByIDFn: func(_ context.Context, _, id uuid.UUID) (dom.Task, error) {
				return dom.Task{ID: id, Status: c.from, Priority: dom.PriorityMedium}, nil
			},
			updateFn: func(_ context.Context, _, _ uuid.UUID, patch dom.Task) (dom.Task, error) {
				return patch, nil
			},
		}
		svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

		updated, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateTaskInput{Status: &c.to})
		if c.ok {
			if err != nil {
				t.Errorf("%s -> %s: unexpected error %v", c.from, c.to, err)
			} else if string(updated.Status) != c.to {
				t.Errorf("%s -> %s: status = %s", c.from, c.to, updated.Status)
			}
			continue
		}
		var verr *dom.ValidationError
		if !errors.As(err, &verr) || verr.Field != "status" {
			t.Errorf("%s -> %s: expected status validation error, got %v", c.from, c.to, err)
		}
	}
}

func TestUpdateTaskDueDateNotRevalidated(t *testing.T) {
	past := dom.Today(time.Now()).AddDate(0, 0, -30)
	repo := &fakeTaskRepo{
		getByIDFn: func(_ context.Context, _, id uuid.UUID) (dom.Task, error) {
			return dom.Task{ID: id, Status: dom.StatusTodo, Priority: dom.PriorityMedium}, nil
		},
		updateFn: func(_ context.Context, _, _ uuid.UUID, patch dom.Task) (dom.Task, error) {
			return patch, nil
		},
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	updated, err := svc.Update(context.Background(), uuid.New(), uuid.New(),
		UpdateTaskInput{DueDateSet: true, DueDate: &past})
	if err != nil {
		t.Fatalf("past due date must be allowed on update: %v", err)
	}
	if updated.DueDate == nil || !updated.DueDate.Equal(past) {
		t.Errorf("due date = %v, want %v", updated.DueDate, past)
	}
}

func TestUpdateTaskClearDueDateAndCategory(t *testing.T) {
	due := dom.Today(time.Now())
	catID := uuid.New()
	repo := &fakeTaskRepo{
		getByIDFn: func(_ context.Context, _, id uuid.UUID) (dom.Task, error) {
			return dom.Task{ID: id, Status: dom.StatusTodo, Priority: dom.PriorityMedium,
				DueDate: &due, CategoryID: &catID}, nil
		},
		updateFn: func(_ context.Context, _, _ uuid.UUID, patch dom.Task) (dom.Task, error) {
			return patch, nil
		},
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	updated, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateTaskInput{
		DueDateSet: true, DueDate: nil,
		Category: strPtr(""),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if updated.DueDate != nil {
		t.Errorf("due date = %v, want cleared", updated.DueDate)
	}
	if updated.CategoryID != nil {
		t.Errorf("category = %v, want detached", updated.CategoryID)
	}
}

func TestTaskNotFoundMapping(t *testing.T) {
	repo := &fakeTaskRepo{
		getByIDFn: func(_ context.Context, _, _ uuid.UUID) (dom.Task, error) {
			return dom.Task{}, pgx.ErrNoRows
		},
		deleteFn: func(_ context.Context, _, _ uuid.UUID) error {
			return pgx.ErrNoRows
		},
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	if _, err := svc.GetByID(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetByID: got %v, want ErrNotFound", err)
	}
	if _, err := svc.Update(context.Background(), uuid.New(), uuid.New(), UpdateTaskInput{}); !errors.Is(err, ErrNotFound) {
		t.Errorf("Update: got %v, want ErrNotFound", err)
	}
	if err := svc.Delete(context.Background(), uuid.New(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
}

func TestListWithoutCache(t *testing.T) {
	userID := uuid.New()
	repo := &fakeTaskRepo{
		listFn: func(_ context.Context, gotUser uuid.UUID, q dom.TaskQuery) ([]dom.Task, int, error) {
			if gotUser != userID {
				t.Errorf("user = %s, want %s", gotUser, userID)
			}
			return make([]dom.Task, 10), 15, nil
		},
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	page, err := svc.List(context.Background(), userID, dom.TaskQuery{Page: 1})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if page.Total != 15 || page.Page != 1 || len(page.Items) != 10 {
		t.Errorf("page = total=%d page=%d items=%d", page.Total, page.Page, len(page.Items))
	}
	if !page.HasNext() || page.HasPrevious() {
		t.Errorf("page 1 of 15: HasNext=%v HasPrevious=%v", page.HasNext(), page.HasPrevious())
	}
}

func TestStatsZeroFilled(t *testing.T) {
	repo := &fakeTaskRepo{
		countByStatusFn: func(_ context.Context, _ uuid.UUID) (map[dom.Status]int, error) {
			return map[dom.Status]int{dom.StatusTodo: 3, dom.StatusDone: 1}, nil
		},
		countByPriorityFn: func(_ context.Context, _ uuid.UUID) (map[dom.Priority]int, error) {
			return map[dom.Priority]int{dom.PriorityHigh: 4}, nil
		},
		countOverdueFn: func(_ context.Context, _ uuid.UUID) (int, error) {
			return 2, nil
		},
	}
	svc := NewTaskService(repo, &fakeCategoryRepo{}, nil)

	stats, err := svc.Stats(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.Total != 4 {
		t.Errorf("total = %d, want 4", stats.Total)
	}
	if stats.Overdue != 2 {
		t.Errorf("overdue = %d, want 2", stats.Overdue)
	}
	if got := stats.ByStatus[dom.StatusInProgress]; got != 0 {
		t.Errorf("in_progress = %d, want zero-filled 0", got)
	}
	if len(stats.ByStatus) != 3 {
		t.Errorf("by_status has %d keys, want all 3", len(stats.ByStatus))
	}
	if len(stats.ByPriority) != 4 {
		t.Errorf("by_priority has %d keys, want all 4", len(stats.ByPriority))
	}
	if stats.ByPriority[dom.PriorityHigh] != 4 {
		t.Errorf("high = %d, want 4", stats.ByPriority[dom.PriorityHigh])
	}
}
