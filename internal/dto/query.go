package dto

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
)

// maxPage bounds the page number so the OFFSET computed from it can
// never overflow.
const maxPage = 1_000_000

// ParseTaskListQuery builds the validated query struct for GET /tasks
// from raw query parameters. Unknown status/priority values are
// rejected; an unknown ordering field silently falls back to the
// default (created_at desc).
func ParseTaskListQuery(values url.Values) (dom.TaskQuery, error) {
	q := dom.TaskQuery{
		OrderBy:    "created_at",
		Descending: true,
		Page:       1,
	}

	for _, raw := range splitCSV(values.Get("status")) {
		s, err := dom.ParseStatus(raw)
		if err != nil {
			return dom.TaskQuery{}, dom.Invalid("status", err.Error())
		}
		q.Statuses = append(q.Statuses, s)
	}

	for _, raw := range splitCSV(values.Get("priority")) {
		p, err := dom.ParsePriority(raw)
		if err != nil {
			return dom.TaskQuery{}, dom.Invalid("priority", err.Error())
		}
		q.Priorities = append(q.Priorities, p)
	}

	if raw := strings.TrimSpace(values.Get("category")); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return dom.TaskQuery{}, dom.Invalid("category", "must be a valid UUID")
		}
		q.CategoryID = &id
	}

	var err error
	if q.DueDateMin, err = parseDateParam(values, "due_date_min"); err != nil {
		return dom.TaskQuery{}, err
	}
	if q.DueDateMax, err = parseDateParam(values, "due_date_max"); err != nil {
		return dom.TaskQuery{}, err
	}

	q.Search = strings.TrimSpace(values.Get("search"))

	if raw := strings.TrimSpace(values.Get("overdue")); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return dom.TaskQuery{}, dom.Invalid("overdue", "must be true or false")
		}
		q.Overdue = &b
	}

	if raw := strings.TrimSpace(values.Get("ordering")); raw != "" {
		col := raw
		desc := false
		if strings.HasPrefix(col, "-") {
			col = col[1:]
			desc = true
		}
		if dom.OrderableTaskColumn(col) {
			q.OrderBy = col
			q.Descending = desc
		}
	}

	if raw := strings.TrimSpace(values.Get("page")); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > maxPage {
			return dom.TaskQuery{}, dom.Invalid("page", "must be an integer between 1 and 1000000")
		}
		q.Page = page
	}

	return q, nil
}

func parseDateParam(values url.Values, name string) (*time.Time, error) {
	raw := strings.TrimSpace(values.Get(name))
	if raw == "" {
		return nil, nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return nil, dom.Invalid(name, "must be a date (YYYY-MM-DD)")
	}
	return &day, nil
}

func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
