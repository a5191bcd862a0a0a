package repo

import (
	"fmt"
	"strings"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
)

// overduePredicate is the SQL form of the derived overdue attribute.
const overduePredicate = "(t.due_date IS NOT NULL AND t.due_date < CURRENT_DATE AND t.status <> 'done')"

// buildTaskFilter composes the WHERE clause for a task list query.
// Filters are ANDed; multi-value filters become IN lists. The owner
// condition always comes first so no query can escape its scope.
func buildTaskFilter(userID uuid.UUID, q dom.TaskQuery) (string, []any) {
	conds := []string{"t.user_id = $1"}
	args := []any{userID}

	if len(q.Statuses) > 0 {
		args = append(args, statusStrings(q.Statuses))
		conds = append(conds, fmt.Sprintf("t.status = ANY($%d)", len(args)))
	}
	if len(q.Priorities) > 0 {
		args = append(args, priorityStrings(q.Priorities))
		conds = append(conds, fmt.Sprintf("t.priority = ANY($%d)", len(args)))
	}
	if q.CategoryID != nil {
		args = append(args, *q.CategoryID)
		conds = append(conds, fmt.Sprintf("t.category_id = $%d", len(args)))
	}
	if q.DueDateMin != nil {
		args = append(args, *q.DueDateMin)
		conds = append(conds, fmt.Sprintf("t.due_date >= $%d", len(args)))
	}
	if q.DueDateMax != nil {
		args = append(args, *q.DueDateMax)
		conds = append(conds, fmt.Sprintf("t.due_date <= $%d", len(args)))
	}
	if q.Search != "" {
		args = append(args, "%"+q.Search+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(t.title ILIKE $%d OR t.description ILIKE $%d)", n, n))
	}
	if q.Overdue != nil {
		if *q.Overdue {
			conds = append(conds, overduePredicate)
		} else {
			conds = append(conds, "NOT "+overduePredicate)
		}
	}

	return strings.Join(conds, " AND "), args
}

// buildTaskOrder renders the ORDER BY clause. The column comes from the
// domain whitelist, never from raw input. Ties are broken by id so
// paging stays deterministic.
func buildTaskOrder(q dom.TaskQuery) string {
	dir := "ASC"
	if q.Descending {
		dir = "DESC"
	}
	return fmt.Sprintf("ORDER BY t.%s %s, t.id ASC", q.OrderBy, dir)
}

func statusStrings(in []dom.Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func priorityStrings(in []dom.Priority) []string {
	out := make([]string, len(in))
	for i, p := range in {
		out[i] = string(p)
	}
	return out
}
