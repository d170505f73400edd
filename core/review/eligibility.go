package review

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/outline"
	"github.com/irsalhamdi/eduverse/core/unlock"
	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

// CourseState is the review state of a course for one learner.
type CourseState struct {
	Reviewed  bool `json:"reviewed"`
	CanReview bool `json:"canReview"`
}

type LiveState struct {
	Enrolled  bool       `json:"enrolled"`
	Reviewed  bool       `json:"reviewed"`
	CanReview bool       `json:"canReview"`
	OpensAt   *time.Time `json:"reviewOpensAt"`
}

func CourseEligibility(ctx context.Context, db sqlx.ExtContext, o outline.Outline, userID string) (CourseState, error) {
	reviewed, err := Reviewed(ctx, db, userID, TargetCourse, o.Course.ID)
	if err != nil {
		return CourseState{}, fmt.Errorf("checking existing review: %w", err)
	}

	return CourseState{
		Reviewed:  reviewed,
		CanReview: unlock.CourseReviewable(o.Enrolled, o.Total, o.Done, reviewed),
	}, nil
}

func LiveEligibility(ctx context.Context, db sqlx.ExtContext, userID, classID string, now time.Time, delay time.Duration) (LiveState, error) {
	if userID == "" {
		return LiveState{}, nil
	}

	var (
		enrolled bool
		first    *time.Time
	)

	e, err := enrollment.FetchLive(ctx, db, userID, classID)
	switch {
	case err == nil:
		enrolled = true
		first = e.FirstMessageSentAt
	case errors.Is(err, database.ErrDBNotFound):
	default:
		return LiveState{}, fmt.Errorf("checking enrollment: %w", err)
	}

	reviewed, err := Reviewed(ctx, db, userID, TargetLive, classID)
	if err != nil {
		return LiveState{}, fmt.Errorf("checking existing review: %w", err)
	}

	return LiveState{
		Enrolled:  enrolled,
		Reviewed:  reviewed,
		CanReview: unlock.LiveReviewable(enrolled, first, now, delay, reviewed),
		OpensAt:   unlock.LiveReviewOpensAt(first, delay),
	}, nil
}
