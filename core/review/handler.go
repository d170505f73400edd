package review

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/irsalhamdi/eduverse/api/web"
	"github.com/irsalhamdi/eduverse/api/weberr"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/core/outline"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
)

func HandleCreateCourse(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := course.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		var rn ReviewNew
		if err := decode(w, r, &rn); err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		o, err := outline.Load(ctx, db, c, userID)
		if err != nil {
			return fmt.Errorf("loading course outline: %w", err)
		}

		st, err := CourseEligibility(ctx, db, o, userID)
		if err != nil {
			return err
		}

		if st.Reviewed {
			return respondExisting(ctx, w, db, userID, TargetCourse, c.ID)
		}

		if !st.CanReview {
			err := fmt.Errorf("user[%s] cannot review course[%s]: enrolled=%v completed=%d/%d", userID, c.ID, o.Enrolled, o.Done, o.Total)
			return weberr.Forbidden(err, "you need to complete the full course before reviewing")
		}

		return create(ctx, w, db, userID, TargetCourse, c.ID, rn)
	}
}

func HandleCreateLive(db *sqlx.DB, delay time.Duration) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := live.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		var rn ReviewNew
		if err := decode(w, r, &rn); err != nil {
			return err
		}

		userID := claims.UserID(ctx)

		st, err := LiveEligibility(ctx, db, userID, c.ID, time.Now().UTC(), delay)
		if err != nil {
			return err
		}

		if st.Reviewed {
			return respondExisting(ctx, w, db, userID, TargetLive, c.ID)
		}

		if !st.CanReview {
			err := fmt.Errorf("user[%s] cannot review live class[%s]: enrolled=%v opens=%v", userID, c.ID, st.Enrolled, st.OpensAt)
			msg := "you can review this class some time after messaging the instructor"
			if !st.Enrolled {
				msg = "you must enroll in this class before reviewing"
			}
			return weberr.Forbidden(err, msg)
		}

		return create(ctx, w, db, userID, TargetLive, c.ID, rn)
	}
}

func HandleListCourse(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := course.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		return list(ctx, w, db, TargetCourse, c.ID)
	}
}

func HandleListLive(db *sqlx.DB) web.Handler {
	return func(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
		c, err := live.Load(ctx, db, web.Param(r, "id"))
		if err != nil {
			return err
		}

		return list(ctx, w, db, TargetLive, c.ID)
	}
}

func decode(w http.ResponseWriter, r *http.Request, rn *ReviewNew) error {
	if err := web.Decode(w, r, rn); err != nil {
		return weberr.BadRequest(fmt.Errorf("unable to decode payload: %w", err))
	}

	if err := validate.Check(*rn); err != nil {
		return weberr.InvalidInput(err)
	}
	return nil
}

func create(ctx context.Context, w http.ResponseWriter, db *sqlx.DB, userID string, kind TargetKind, targetID string, rn ReviewNew) error {
	rv := Review{
		ID:         validate.GenerateID(),
		UserID:     userID,
		TargetKind: kind,
		TargetID:   targetID,
		Rating:     rn.Rating,
		Comment:    rn.Comment,
		CreatedAt:  time.Now().UTC(),
	}

	created, err := Create(ctx, db, rv)
	if err != nil {
		return fmt.Errorf("creating review: %w", err)
	}
	if !created {
		return respondExisting(ctx, w, db, userID, kind, targetID)
	}

	return web.Respond(ctx, w, rv, http.StatusCreated)
}

func respondExisting(ctx context.Context, w http.ResponseWriter, db *sqlx.DB, userID string, kind TargetKind, targetID string) error {
	rv, err := Fetch(ctx, db, userID, kind, targetID)
	if errors.Is(err, database.ErrDBNotFound) {
		return weberr.NotFound(err)
	}
	if err != nil {
		return fmt.Errorf("fetching existing review: %w", err)
	}

	return web.Respond(ctx, w, rv, http.StatusOK)
}

func list(ctx context.Context, w http.ResponseWriter, db *sqlx.DB, kind TargetKind, targetID string) error {
	rr, err := QueryByTarget(ctx, db, kind, targetID)
	if err != nil {
		return fmt.Errorf("querying reviews: %w", err)
	}

	return web.Respond(ctx, w, rr, http.StatusOK)
}
