package repo

import (
	"context"
	"fmt"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type TaskRepo interface {
	Create(ctx context.Context, t dom.Task) (dom.Task, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Task, error)
	Update(ctx context.Context, userID, id uuid.UUID, patch dom.Task) (dom.Task, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
	List(ctx context.Context, userID uuid.UUID, q dom.TaskQuery) ([]dom.Task, int, error)
	CountByStatus(ctx context.Context, userID uuid.UUID) (map[dom.Status]int, error)
	CountByPriority(ctx context.Context, userID uuid.UUID) (map[dom.Priority]int, error)
	CountOverdue(ctx context.Context, userID uuid.UUID) (int, error)
}

const taskColumns = `t.id, t.user_id, t.title, t.description, t.status, t.priority,
	t.due_date, t.category_id, COALESCE(c.name, ''), t.created_at, t.updated_at`

const taskJoin = `FROM tasks t LEFT JOIN categories c ON c.id = t.category_id`

type PGTaskRepo struct {
	db *pgxpool.Pool
}

func NewPGTaskRepo(db *pgxpool.Pool) *PGTaskRepo {
	return &PGTaskRepo{db: db}
}

func (r *PGTaskRepo) Create(ctx context.Context, t dom.Task) (dom.Task, error) {
	query := `
		WITH inserted AS (
			INSERT INTO tasks (id, user_id, title, description, status, priority, due_date, category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING *
		)
		SELECT ` + taskColumns + ` FROM inserted t LEFT JOIN categories c ON c.id = t.category_id`
	row := r.db.QueryRow(ctx, query,
		uuid.New(), t.UserID, t.Title, t.Description, t.Status, t.Priority, t.DueDate, t.CategoryID)
	return scanTask(row)
}

func (r *PGTaskRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Task, error) {
	query := `SELECT ` + taskColumns + ` ` + taskJoin + ` WHERE t.id = $1 AND t.user_id = $2`
	return scanTask(r.db.QueryRow(ctx, query, id, userID))
}

func (r *PGTaskRepo) Update(ctx context.Context, userID, id uuid.UUID, patch dom.Task) (dom.Task, error) {
	query := `
		WITH updated AS (
			UPDATE tasks SET title = $3, description = $4, status = $5, priority = $6,
				due_date = $7, category_id = $8, updated_at = NOW()
			WHERE id = $1 AND user_id = $2
			RETURNING *
		)
		SELECT ` + taskColumns + ` FROM updated t LEFT JOIN categories c ON c.id = t.category_id`
	row := r.db.QueryRow(ctx, query, id, userID,
		patch.Title, patch.Description, patch.Status, patch.Priority, patch.DueDate, patch.CategoryID)
	return scanTask(row)
}

func (r *PGTaskRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// List returns one page of the owner's tasks matching q, plus the total
// match count for pagination metadata.
func (r *PGTaskRepo) List(ctx context.Context, userID uuid.UUID, q dom.TaskQuery) ([]dom.Task, int, error) {
	where, args := buildTaskFilter(userID, q)

	var total int
	countQuery := `SELECT COUNT(*) FROM tasks t WHERE ` + where
	if err := r.db.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count tasks: %w", err)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s %s LIMIT %d OFFSET %d",
		taskColumns, taskJoin, where, buildTaskOrder(q),
		dom.PageSize, (q.Page-1)*dom.PageSize)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var list []dom.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, t)
	}
	return list, total, rows.Err()
}

func (r *PGTaskRepo) CountByStatus(ctx context.Context, userID uuid.UUID) (map[dom.Status]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY status`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[dom.Status]int)
	for rows.Next() {
		var s string
		var n int
		if err := rows.Scan(&s, &n); err != nil {
			return nil, err
		}
		counts[dom.Status(s)] = n
	}
	return counts, rows.Err()
}

func (r *PGTaskRepo) CountByPriority(ctx context.Context, userID uuid.UUID) (map[dom.Priority]int, error) {
	rows, err := r.db.Query(ctx,
		`SELECT priority, COUNT(*) FROM tasks WHERE user_id = $1 GROUP BY priority`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[dom.Priority]int)
	for rows.Next() {
		var p string
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			return nil, err
		}
		counts[dom.Priority(p)] = n
	}
	return counts, rows.Err()
}

func (r *PGTaskRepo) CountOverdue(ctx context.Context, userID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks t WHERE t.user_id = $1 AND `+overduePredicate, userID).Scan(&n)
	return n, err
}

func scanTask(row pgx.Row) (dom.Task, error) {
	var t dom.Task
	var status, priority string
	err := row.Scan(&t.ID, &t.UserID, &t.Title, &t.Description, &status, &priority,
		&t.DueDate, &t.CategoryID, &t.CategoryName, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return dom.Task{}, err
	}
	t.Status = dom.Status(status)
	t.Priority = dom.Priority(priority)
	return t, nil
}
