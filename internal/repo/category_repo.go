package repo

import (
	"context"
	"errors"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNameTaken is returned when a category name already exists for the
// same user (case-insensitive).
var ErrNameTaken = errors.New("category name already taken")

type CategoryRepo interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]dom.Category, error)
	GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Category, error)
	Create(ctx context.Context, c dom.Category) (dom.Category, error)
	Update(ctx context.Context, userID, id uuid.UUID, name, color string) (dom.Category, error)
	Delete(ctx context.Context, userID, id uuid.UUID) error
}

type PGCategoryRepo struct {
	db *pgxpool.Pool
}

func NewPGCategoryRepo(db *pgxpool.Pool) *PGCategoryRepo {
	return &PGCategoryRepo{db: db}
}

// ListByUser returns the user's categories ordered by name, each
// annotated with the number of tasks referencing it.
func (r *PGCategoryRepo) ListByUser(ctx context.Context, userID uuid.UUID) ([]dom.Category, error) {
	query := `
		SELECT c.id, c.user_id, c.name, c.color, COUNT(t.id), c.created_at
		FROM categories c
		LEFT JOIN tasks t ON t.category_id = c.id
		WHERE c.user_id = $1
		GROUP BY c.id
		ORDER BY c.name ASC`
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []dom.Category
	for rows.Next() {
		var c dom.Category
		if err := rows.Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.TaskCount, &c.CreatedAt); err != nil {
			return nil, err
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

func (r *PGCategoryRepo) GetByID(ctx context.Context, userID, id uuid.UUID) (dom.Category, error) {
	var c dom.Category
	err := r.db.QueryRow(ctx,
		`SELECT id, user_id, name, color, created_at FROM categories WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&c.ID, &c.UserID, &c.Name, &c.Color, &c.CreatedAt)
	return c, err
}

// Create checks name uniqueness and inserts in a single transaction so
// concurrent creates cannot slip in a duplicate. A unique index on
// (user_id, lower(name)) backs this up at the storage level.
func (r *PGCategoryRepo) Create(ctx context.Context, c dom.Category) (dom.Category, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Category{}, err
	}
	defer tx.Rollback(ctx)

	taken, err := nameTaken(ctx, tx, c.UserID, c.Name, uuid.Nil)
	if err != nil {
		return dom.Category{}, err
	}
	if taken {
		return dom.Category{}, ErrNameTaken
	}

	var out dom.Category
	err = tx.QueryRow(ctx, `
		INSERT INTO categories (id, user_id, name, color)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, name, color, created_at`,
		uuid.New(), c.UserID, c.Name, c.Color,
	).Scan(&out.ID, &out.UserID, &out.Name, &out.Color, &out.CreatedAt)
	if err != nil {
		return dom.Category{}, err
	}
	return out, tx.Commit(ctx)
}

// Update applies the same uniqueness check, excluding the row being
// updated.
func (r *PGCategoryRepo) Update(ctx context.Context, userID, id uuid.UUID, name, color string) (dom.Category, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return dom.Category{}, err
	}
	defer tx.Rollback(ctx)

	taken, err := nameTaken(ctx, tx, userID, name, id)
	if err != nil {
		return dom.Category{}, err
	}
	if taken {
		return dom.Category{}, ErrNameTaken
	}

	var out dom.Category
	err = tx.QueryRow(ctx, `
		UPDATE categories SET name = $3, color = $4
		WHERE id = $1 AND user_id = $2
		RETURNING id, user_id, name, color, created_at`,
		id, userID, name, color,
	).Scan(&out.ID, &out.UserID, &out.Name, &out.Color, &out.CreatedAt)
	if err != nil {
		return dom.Category{}, err
	}
	return out, tx.Commit(ctx)
}

// Delete detaches referencing tasks (category_id set to NULL) and then
// removes the category, in one transaction. The detach is an explicit
// step, not a storage trigger.
func (r *PGCategoryRepo) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`UPDATE tasks SET category_id = NULL, updated_at = NOW() WHERE category_id = $1 AND user_id = $2`,
		id, userID)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM categories WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return tx.Commit(ctx)
}

func nameTaken(ctx context.Context, tx pgx.Tx, userID uuid.UUID, name string, exclude uuid.UUID) (bool, error) {
	var taken bool
	err := tx.QueryRow(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM categories
			WHERE user_id = $1 AND lower(name) = lower($2) AND id <> $3
		)`, userID, name, exclude).Scan(&taken)
	return taken, err
}
