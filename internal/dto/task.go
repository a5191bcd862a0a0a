package dto

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"
)

// DueDate parses due_date from JSON as either a date ("2006-01-02") or
// RFC3339. Either way it is kept at date precision, midnight UTC.
type DueDate struct{ t *time.Time }

func (d *DueDate) UnmarshalJSON(data []byte) error {
	var raw *string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil || strings.TrimSpace(*raw) == "" {
		d.t = nil
		return nil
	}
	s := strings.TrimSpace(*raw)
	layouts := []string{
		"2006-01-02", // date only
		time.RFC3339,
	}
	for _, layout := range layouts {
		parsed, err := time.Parse(layout, s)
		if err == nil {
			day := dom.Today(parsed)
			d.t = &day
			return nil
		}
	}
	return fmt.Errorf("due_date: use date (YYYY-MM-DD) or RFC3339 datetime")
}

// Ptr returns *time.Time for use in service/domain.
func (d DueDate) Ptr() *time.Time { return d.t }

type CreateTaskRequest struct {
	Title       string  `json:"title" binding:"required,min=1,max=200"`
	Description string  `json:"description" binding:"max=2000"`
	Status      *string `json:"status"`   // optional, defaults to todo
	Priority    *string `json:"priority"` // optional, defaults to medium
	DueDate     DueDate `json:"due_date"` // optional: "2026-02-19" or RFC3339
	Category    *string `json:"category"` // optional category UUID
}

type UpdateTaskRequest struct {
	Title       *string  `json:"title" binding:"omitempty,min=1,max=200"`
	Description *string  `json:"description" binding:"omitempty,max=2000"`
	Status      *string  `json:"status"`
	Priority    *string  `json:"priority"`
	DueDate     *DueDate `json:"due_date"` // nil = keep, value = set
	Category    *string  `json:"category"` // nil = keep, "" = detach, uuid = set
}

type TaskResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Status       string    `json:"status"`
	Priority     string    `json:"priority"`
	DueDate      *string   `json:"due_date"`
	Category     *string   `json:"category"`
	CategoryName *string   `json:"category_name"`
	IsOverdue    bool      `json:"is_overdue"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ListTasksResponse is the paginated list envelope: item count plus
// next/previous page numbers (null when absent).
type ListTasksResponse struct {
	Count    int            `json:"count"`
	Next     *int           `json:"next"`
	Previous *int           `json:"previous"`
	Results  []TaskResponse `json:"results"`
}

type StatsResponse struct {
	Total      int            `json:"total"`
	ByStatus   map[string]int `json:"by_status"`
	ByPriority map[string]int `json:"by_priority"`
	Overdue    int            `json:"overdue"`
}

// TaskToResponse maps the domain task to its wire shape. now is the
// reference time for the derived is_overdue flag.
func TaskToResponse(t dom.Task, now time.Time) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		IsOverdue:   t.IsOverdue(now),
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.DueDate != nil {
		s := t.DueDate.Format("2006-01-02")
		resp.DueDate = &s
	}
	if t.CategoryID != nil {
		id := t.CategoryID.String()
		resp.Category = &id
		name := t.CategoryName
		resp.CategoryName = &name
	}
	return resp
}

// TaskPageToResponse builds the list envelope from one result page.
func TaskPageToResponse(p dom.TaskPage, now time.Time) ListTasksResponse {
	resp := ListTasksResponse{
		Count:   p.Total,
		Results: make([]TaskResponse, len(p.Items)),
	}
	for i := range p.Items {
		resp.Results[i] = TaskToResponse(p.Items[i], now)
	}
	if p.HasNext() {
		n := p.Page + 1
		resp.Next = &n
	}
	if p.HasPrevious() {
		n := p.Page - 1
		resp.Previous = &n
	}
	return resp
}

// StatsToResponse maps the aggregate to its wire shape.
func StatsToResponse(s dom.Stats) StatsResponse {
	resp := StatsResponse{
		Total:      s.Total,
		ByStatus:   make(map[string]int, len(s.ByStatus)),
		ByPriority: make(map[string]int, len(s.ByPriority)),
		Overdue:    s.Overdue,
	}
	for k, v := range s.ByStatus {
		resp.ByStatus[string(k)] = v
	}
	for k, v := range s.ByPriority {
		resp.ByPriority[string(k)] = v
	}
	return resp
}
