package dto

import (
	"encoding/json"
	"testing"
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
)

func TestDueDateUnmarshal(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want *time.Time
		ok   bool
	}{
		{"date only", `"2026-02-19"`, timePtr(2026, 2, 19), true},
		{"rfc3339", `"2026-02-19T15:04:05Z"`, timePtr(2026, 2, 19), true},
		{"rfc3339 with offset", `"2026-02-19T23:30:00+05:00"`, timePtr(2026, 2, 19), true},
		{"null", `null`, nil, true},
		{"empty string", `""`, nil, true},
		{"garbage", `"next tuesday"`, nil, false},
		{"wrong order", `"19-02-2026"`, nil, false},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			var d DueDate
			err := json.Unmarshal([]byte(c.in), &d)
			if c.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !c.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			got := d.Ptr()
			if (got == nil) != (c.want == nil) {
				t.Fatalf("got %v, want %v", got, c.want)
			}
			if got != nil && !got.Equal(*c.want) {
				t.Errorf("got %v, want %v", got, c.want)
			}
		})
	}
}

func TestTaskToResponse(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)
	due := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	catID := uuid.New()
	task := dom.Task{
		ID:           uuid.New(),
		Title:        "Quarterly report",
		Status:       dom.StatusInProgress,
		Priority:     dom.PriorityHigh,
		DueDate:      &due,
		CategoryID:   &catID,
		CategoryName: "Work",
	}

	resp := TaskToResponse(task, now)
	if resp.DueDate == nil || *resp.DueDate != "2026-03-10" {
		t.Errorf("due_date = %v, want 2026-03-10", resp.DueDate)
	}
	if !resp.IsOverdue {
		t.Error("expected is_overdue to be true")
	}
	if resp.Category == nil || *resp.Category != catID.String() {
		t.Errorf("category = %v, want %s", resp.Category, catID)
	}
	if resp.CategoryName == nil || *resp.CategoryName != "Work" {
		t.Errorf("category_name = %v, want Work", resp.CategoryName)
	}

	bare := TaskToResponse(dom.Task{ID: uuid.New(), Status: dom.StatusTodo}, now)
	if bare.DueDate != nil || bare.Category != nil || bare.CategoryName != nil {
		t.Errorf("expected null due_date/category for bare task, got %+v", bare)
	}
}

func TestTaskPageToResponse(t *testing.T) {
	now := time.Now()

	// 15 matches, page 1 of 2: next but no previous.
	p := dom.TaskPage{Items: make([]dom.Task, 10), Total: 15, Page: 1}
	resp := TaskPageToResponse(p, now)
	if resp.Count != 15 {
		t.Errorf("count = %d, want 15", resp.Count)
	}
	if resp.Next == nil || *resp.Next != 2 {
		t.Errorf("next = %v, want 2", resp.Next)
	}
	if resp.Previous != nil {
		t.Errorf("previous = %v, want null", resp.Previous)
	}

	// Page 2 of 2: previous but no next.
	p = dom.TaskPage{Items: make([]dom.Task, 5), Total: 15, Page: 2}
	resp = TaskPageToResponse(p, now)
	if resp.Next != nil {
		t.Errorf("next = %v, want null", resp.Next)
	}
	if resp.Previous == nil || *resp.Previous != 1 {
		t.Errorf("previous = %v, want 1", resp.Previous)
	}
	if len(resp.Results) != 5 {
		t.Errorf("results = %d items, want 5", len(resp.Results))
	}
}

func timePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}
