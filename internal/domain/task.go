package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Task status lifecycle: todo -> in_progress -> done.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusTodo, StatusInProgress, StatusDone}

// ParseStatus validates a raw status value.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusInProgress, StatusDone:
		return Status(s), nil
	}
	return "", fmt.Errorf("unknown status %q", s)
}

// CanTransitionTo reports whether the move from s to next is legal.
// Only forward one-step moves and self-transitions are allowed:
// todo -> in_progress, in_progress -> done. Skipping a stage or
// moving backward is rejected.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}
	switch s {
	case StatusTodo:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusDone
	}
	return false
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Priorities lists every priority from lowest to highest.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

// ParsePriority validates a raw priority value.
func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return Priority(s), nil
	}
	return "", fmt.Errorf("unknown priority %q", s)
}

// Task is the core domain entity. CategoryID is optional and, when set,
// must reference a category of the same user.
type Task struct {
	ID           uuid.UUID
	UserID       uuid.UUID
	Title        string
	Description  string
	Status       Status
	Priority     Priority
	DueDate      *time.Time // date precision, midnight UTC
	CategoryID   *uuid.UUID
	CategoryName string // joined from categories on reads, empty if none

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOverdue reports whether the task is past its due date and not done.
// Derived, never stored.
func (t Task) IsOverdue(now time.Time) bool {
	if t.DueDate == nil || t.Status == StatusDone {
		return false
	}
	return t.DueDate.Before(Today(now))
}

// Today truncates now to midnight UTC, the precision due dates are kept at.
func Today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Stats is the aggregate returned by the stats endpoint. Both maps carry
// every enum value, zero-filled.
type Stats struct {
	Total      int
	ByStatus   map[Status]int
	ByPriority map[Priority]int
	Overdue    int
}
