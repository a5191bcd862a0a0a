package handlers

import (
	"errors"
	"net/http"

	"github.com/MuhsinADA/ese-backend/internal/auth"
	dom "github.com/MuhsinADA/ese-backend/internal/domain"
	"github.com/MuhsinADA/ese-backend/internal/service"

	"github.com/gin-gonic/gin"
)

// writeError translates service errors into structured client
// responses. Nothing internal leaks: unknown errors become a generic
// 500.
func writeError(c *gin.Context, err error) {
	var verr *dom.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Reason, "field": verr.Field})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, service.ErrCategoryNameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "you already have a category with this name"})
	case errors.Is(err, service.ErrUsernameTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "username already taken"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid username or password"})
	case errors.Is(err, auth.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
