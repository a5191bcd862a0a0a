package dto

import (
	"errors"
	"net/url"
	"testing"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"
)

func TestParseTaskListQueryDefaults(t *testing.T) {
	q, err := ParseTaskListQuery(url.Values{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.OrderBy != "created_at" || !q.Descending {
		t.Errorf("default ordering = %s/%v, want created_at/desc", q.OrderBy, q.Descending)
	}
	if q.Page != 1 {
		t.Errorf("default page = %d, want 1", q.Page)
	}
	if q.Statuses != nil || q.Priorities != nil || q.CategoryID != nil || q.Overdue != nil || q.Search != "" {
		t.Errorf("expected no filters by default, got %+v", q)
	}
}

func TestParseTaskListQueryFilters(t *testing.T) {
	v := url.Values{}
	v.Set("status", "todo,in_progress")
	v.Set("priority", "high, urgent")
	v.Set("search", "  report ")
	v.Set("overdue", "true")
	v.Set("ordering", "-due_date")
	v.Set("page", "3")

	q, err := ParseTaskListQuery(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(q.Statuses) != 2 || q.Statuses[0] != dom.StatusTodo || q.Statuses[1] != dom.StatusInProgress {
		t.Errorf("statuses = %v", q.Statuses)
	}
	if len(q.Priorities) != 2 || q.Priorities[0] != dom.PriorityHigh || q.Priorities[1] != dom.PriorityUrgent {
		t.Errorf("priorities = %v", q.Priorities)
	}
	if q.Search != "report" {
		t.Errorf("search = %q, want trimmed %q", q.Search, "report")
	}
	if q.Overdue == nil || !*q.Overdue {
		t.Errorf("overdue = %v, want true", q.Overdue)
	}
	if q.OrderBy != "due_date" || !q.Descending {
		t.Errorf("ordering = %s/%v, want due_date/desc", q.OrderBy, q.Descending)
	}
	if q.Page != 3 {
		t.Errorf("page = %d, want 3", q.Page)
	}
}

func TestParseTaskListQueryDueDateRange(t *testing.T) {
	v := url.Values{}
	v.Set("due_date_min", "2026-01-01")
	v.Set("due_date_max", "2026-12-31")

	q, err := ParseTaskListQuery(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.DueDateMin == nil || q.DueDateMin.Format("2006-01-02") != "2026-01-01" {
		t.Errorf("due_date_min = %v", q.DueDateMin)
	}
	if q.DueDateMax == nil || q.DueDateMax.Format("2006-01-02") != "2026-12-31" {
		t.Errorf("due_date_max = %v", q.DueDateMax)
	}
}

func TestParseTaskListQueryUnknownOrderingFallsBack(t *testing.T) {
	v := url.Values{}
	v.Set("ordering", "password_hash")
	q, err := ParseTaskListQuery(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.OrderBy != "created_at" || !q.Descending {
		t.Errorf("ordering = %s/%v, want fallback created_at/desc", q.OrderBy, q.Descending)
	}
}

func TestParseTaskListQueryAscendingOrdering(t *testing.T) {
	v := url.Values{}
	v.Set("ordering", "title")
	q, err := ParseTaskListQuery(v)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if q.OrderBy != "title" || q.Descending {
		t.Errorf("ordering = %s/%v, want title/asc", q.OrderBy, q.Descending)
	}
}

func TestParseTaskListQueryRejectsBadValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
		field string
	}{
		{"unknown status", "status", "todo,archived", "status"},
		{"unknown priority", "priority", "severe", "priority"},
		{"bad category", "category", "not-a-uuid", "category"},
		{"bad due_date_min", "due_date_min", "01/01/2026", "due_date_min"},
		{"bad due_date_max", "due_date_max", "soon", "due_date_max"},
		{"bad overdue", "overdue", "maybe", "overdue"},
		{"zero page", "page", "0", "page"},
		{"negative page", "page", "-2", "page"},
		{"non-numeric page", "page", "two", "page"},
		{"page beyond ceiling", "page", "1000001", "page"},
		{"absurd page", "page", "922337203685477580", "page"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			v := url.Values{}
			v.Set(c.key, c.value)
			_, err := ParseTaskListQuery(v)
			var verr *dom.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
			if verr.Field != c.field {
				t.Errorf("field = %q, want %q", verr.Field, c.field)
			}
		})
	}
}
