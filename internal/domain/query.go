package domain

import (
	"time"

	"github.com/google/uuid"
)

// PageSize is the fixed page size for task lists.
const PageSize = 10

// TaskQuery is the validated query-parameter set for listing tasks.
// All filters are optional and combined with AND; multi-value filters
// match any of their values.
type TaskQuery struct {
	Statuses   []Status
	Priorities []Priority
	CategoryID *uuid.UUID
	DueDateMin *time.Time // inclusive, date precision
	DueDateMax *time.Time // inclusive, date precision
	Search     string
	Overdue    *bool
	OrderBy    string // column name from the ordering whitelist
	Descending bool
	Page       int // 1-based
}

// Orderable columns for task lists. Anything else falls back to the
// default ordering (created_at desc) instead of failing.
var taskOrderColumns = map[string]bool{
	"title":      true,
	"status":     true,
	"priority":   true,
	"due_date":   true,
	"created_at": true,
	"updated_at": true,
}

// OrderableTaskColumn reports whether col may be used for sorting.
func OrderableTaskColumn(col string) bool {
	return taskOrderColumns[col]
}

// TaskPage is one page of task list results with totals for pagination
// metadata.
type TaskPage struct {
	Items []Task
	Total int
	Page  int
}

// HasNext reports whether a further page exists.
func (p TaskPage) HasNext() bool {
	return p.Page*PageSize < p.Total
}

// HasPrevious reports whether a preceding page exists.
func (p TaskPage) HasPrevious() bool {
	return p.Page > 1
}
