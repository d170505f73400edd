// Package catalog serves the detail pages of courses and live classes,
// combining the outline, enrollment and review state for the caller.
package catalog

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/core/outline"
	"github.com/irsalhamdi/eduverse/core/review"
	"github.com/jmoiron/sqlx"
)

type CourseDetail struct {
	outline.Outline
	review.CourseState
	Rating review.Summary `json:"rating"`
}

type LiveDetail struct {
	Class live.Class `json:"class"`
	review.LiveState
	Rating review.Summary `json:"rating"`
}

func HandleShowCourse(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := course.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		o, err := outline.Load(ctx, db, c, userID)
		if err != nil {
			return fmt.Errorf("loading outline: %w", err)
		}

		st, err := review.CourseEligibility(ctx, db, o, userID)
		if err != nil {
			return err
		}

		sum, err := review.Summarize(ctx, db, review.TargetCourse, c.ID)
		if err != nil {
			return err
		}

		// Instructors see their own material in full.
		if course.Authorize(ctx, c) != nil {
			o = o.Redact(o.Enrolled)
		}

		d := CourseDetail{
			Outline:     o,
			CourseState: st,
			Rating:      sum,
		}

		return web.Respond(ctx, w, d, http.StatusOK)
	}
}

func HandleShowLive(db *sqlx.DB, delay time.Duration) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := live.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		st, err := review.LiveEligibility(ctx, db, claims.UserID(ctx), c.ID, time.Now().UTC(), delay)
		if err != nil {
			return err
		}

		sum, err := review.Summarize(ctx, db, review.TargetLive, c.ID)
		if err != nil {
			return err
		}

		d := LiveDetail{
			Class:     c,
			LiveState: st,
			Rating:    sum,
		}

		return web.Respond(ctx, w, d, http.StatusOK)
	}
}
