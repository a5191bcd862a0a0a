package cache

import (
	"testing"
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
)

func TestListKeyDistinguishesQueries(t *testing.T) {
	userID := uuid.New()
	catID := uuid.New()
	overdue := true

	dueMin := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	dueMax := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)

	base := dom.TaskQuery{OrderBy: "created_at", Descending: true, Page: 1}
	variants := []dom.TaskQuery{
		base,
		{Statuses: []dom.Status{dom.StatusTodo}, OrderBy: "created_at", Descending: true, Page: 1},
		{Priorities: []dom.Priority{dom.PriorityHigh}, OrderBy: "created_at", Descending: true, Page: 1},
		{CategoryID: &catID, OrderBy: "created_at", Descending: true, Page: 1},
		{DueDateMin: &dueMin, OrderBy: "created_at", Descending: true, Page: 1},
		{DueDateMax: &dueMax, OrderBy: "created_at", Descending: true, Page: 1},
		{Search: "report", OrderBy: "created_at", Descending: true, Page: 1},
		{Overdue: &overdue, OrderBy: "created_at", Descending: true, Page: 1},
		{OrderBy: "title", Descending: false, Page: 1},
		{OrderBy: "created_at", Descending: true, Page: 2},
	}

	seen := make(map[string]int)
	for i, q := range variants {
		key := ListKey(userID, q)
		if prev, dup := seen[key]; dup {
			t.Errorf("variants %d and %d collide on key %q", prev, i, key)
		}
		seen[key] = i
	}
}

func TestListKeyDeterministic(t *testing.T) {
	userID := uuid.New()
	q := dom.TaskQuery{
		Statuses: []dom.Status{dom.StatusTodo, dom.StatusInProgress},
		Search:   "Report",
		OrderBy:  "due_date", Descending: true, Page: 3,
	}
	if ListKey(userID, q) != ListKey(userID, q) {
		t.Error("same query must produce the same key")
	}
}

func TestListKeyScopedToUser(t *testing.T) {
	q := dom.TaskQuery{OrderBy: "created_at", Descending: true, Page: 1}
	a, b := uuid.New(), uuid.New()
	if ListKey(a, q) == ListKey(b, q) {
		t.Error("different users must not share keys")
	}
}
