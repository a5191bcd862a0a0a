package domain

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// DefaultCategoryColor is used when the client omits the color.
const DefaultCategoryColor = "#6366f1"

var hexColorRe = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ValidHexColor reports whether s is a hex color code like #6366f1.
func ValidHexColor(s string) bool {
	return hexColorRe.MatchString(s)
}

// Category groups tasks for a single user. Names are unique per user.
type Category struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Name      string
	Color     string
	TaskCount int // annotation on list reads, not stored
	CreatedAt time.Time
}
