package enrollment

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/jmoiron/sqlx"
)

// RecentLiveWindow bounds the live enrollments shown to a student.
const RecentLiveWindow = 3 * 24 * time.Hour

func HandleListCourses(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		ee, err := QueryCourses(ctx, db, claims.UserID(ctx))
		if err != nil {
			return fmt.Errorf("querying course enrollments: %w", err)
		}

		return web.Respond(ctx, w, ee, http.StatusOK)
	}
}

func HandleListLive(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		since := time.Now().UTC().Add(-RecentLiveWindow)

		ee, err := QueryLiveSince(ctx, db, claims.UserID(ctx), since)
		if err != nil {
			return fmt.Errorf("querying live enrollments: %w", err)
		}

		return web.Respond(ctx, w, ee, http.StatusOK)
	}
}
