package progress

import (
	"time"

	"github.com/irsalhamdi/eduverse/core/content"
)

// Record marks one content item as completed by a user.
type Record struct {
	UserID string `json:"userId" db:"user_id"`
	content.Ref
	CompletedAt time.Time `json:"completedAt" db:"completed_at"`
}
