package progress

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/content"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

// HandleComplete marks an item as done and sends the learner back to the
// course page.
func HandleComplete(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		kind, err := content.ParseKind(web.Param(r, "kind"))
		if err != nil {
			return weberr.NotFound(err)
		}

		id := web.Param(r, "id")
		if err := validate.CheckID(id); err != nil {
			return weberr.NotFound(err)
		}

		it, err := content.Resolve(ctx, db, content.Ref{Kind: kind, ID: id})
		if errors.Is(err, database.ErrDBNotFound) {
			return weberr.NotFound(err)
		}
		if err != nil {
			return fmt.Errorf("resolving content: %w", err)
		}

		userID := claims.UserID(ctx)

		enrolled, err := enrollment.InCourse(ctx, db, userID, it.CourseID)
		if err != nil {
			return fmt.Errorf("checking enrollment: %w", err)
		}
		if !enrolled {
			err := fmt.Errorf("user[%s] is not enrolled in course[%s]", userID, it.CourseID)
			return weberr.Forbidden(err, "you must enroll in this course first")
		}

		rec := Record{
			UserID:      userID,
			Ref:         it.Ref,
			CompletedAt: time.Now().UTC(),
		}

		if _, err := Create(ctx, db, rec); err != nil {
			return fmt.Errorf("completing %s[%s]: %w", kind, id, err)
		}

		return web.Redirect(ctx, w, r, "/courses/"+it.CourseID)
	}
}
