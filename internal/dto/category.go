package dto

import (
	"time"

	dom "github.com/MuhsinADA/ese-backend/internal/domain"
)

type CreateCategoryRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=100"`
	Color string `json:"color" binding:"omitempty,max=7"`
}

type UpdateCategoryRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=100"`
	Color *string `json:"color" binding:"omitempty,max=7"`
}

type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	TaskCount int       `json:"task_count"`
	CreatedAt time.Time `json:"created_at"`
}

type ListCategoriesResponse struct {
	Items []CategoryResponse `json:"items"`
}

func CategoryToResponse(c dom.Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID.String(),
		Name:      c.Name,
		Color:     c.Color,
		TaskCount: c.TaskCount,
		CreatedAt: c.CreatedAt,
	}
}

func CategoriesToResponses(list []dom.Category) []CategoryResponse {
	out := make([]CategoryResponse, len(list))
	for i := range list {
		out[i] = CategoryToResponse(list[i])
	}
	return out
}
