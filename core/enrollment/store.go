package enrollment

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/irsalhamdi/eduverse/database"
	"github.com/jmoiron/sqlx"
)

const (
	courseColumns = `enrollment_id, user_id, course_id, amount_paid, instructor_share, platform_fee, enrolled_at`
	liveColumns   = `enrollment_id, user_id, live_class_id, amount_paid, instructor_share, platform_fee, first_message_sent_at, enrolled_at`
)

// CreateCourse inserts e unless the user already holds an enrollment for
// the course. It reports whether a row was created; on false the stored
// enrollment is left untouched.
func CreateCourse(ctx context.Context, db sqlx.ExtContext, e Enrollment) (bool, error) {
	const q = `
	INSERT INTO enrollments (enrollment_id, user_id, course_id, amount_paid, instructor_share, platform_fee, enrolled_at)
	VALUES (:enrollment_id, :user_id, :course_id, :amount_paid, :instructor_share, :platform_fee, :enrolled_at)
	ON CONFLICT (user_id, course_id) DO NOTHING`

	n, err := database.NamedExecContext(ctx, db, q, e)
	if err != nil {
		return false, fmt.Errorf("inserting enrollment: %w", err)
	}
	return n == 1, nil
}

func CreateLive(ctx context.Context, db sqlx.ExtContext, e LiveEnrollment) (bool, error) {
	const q = `
	INSERT INTO live_class_enrollments (enrollment_id, user_id, live_class_id, amount_paid, instructor_share, platform_fee, first_message_sent_at, enrolled_at)
	VALUES (:enrollment_id, :user_id, :live_class_id, :amount_paid, :instructor_share, :platform_fee, :first_message_sent_at, :enrolled_at)
	ON CONFLICT (user_id, live_class_id) DO NOTHING`

	n, err := database.NamedExecContext(ctx, db, q, e)
	if err != nil {
		return false, fmt.Errorf("inserting live enrollment: %w", err)
	}
	return n == 1, nil
}

func FetchCourse(ctx context.Context, db sqlx.ExtContext, userID, courseID string) (Enrollment, error) {
	q := `SELECT ` + courseColumns + ` FROM enrollments WHERE user_id = :user_id AND course_id = :course_id`

	data := map[string]any{"user_id": userID, "course_id": courseID}

	var e Enrollment
	if err := database.NamedQueryStruct(ctx, db, q, data, &e); err != nil {
		return Enrollment{}, fmt.Errorf("selecting enrollment of user[%s] in course[%s]: %w", userID, courseID, err)
	}
	return e, nil
}

func FetchLive(ctx context.Context, db sqlx.ExtContext, userID, liveClassID string) (LiveEnrollment, error) {
	q := `SELECT ` + liveColumns + ` FROM live_class_enrollments WHERE user_id = :user_id AND live_class_id = :live_class_id`

	data := map[string]any{"user_id": userID, "live_class_id": liveClassID}

	var e LiveEnrollment
	if err := database.NamedQueryStruct(ctx, db, q, data, &e); err != nil {
		return LiveEnrollment{}, fmt.Errorf("selecting enrollment of user[%s] in live class[%s]: %w", userID, liveClassID, err)
	}
	return e, nil
}

// InCourse reports whether the user is enrolled in the course.
func InCourse(ctx context.Context, db sqlx.ExtContext, userID, courseID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	_, err := FetchCourse(ctx, db, userID, courseID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrDBNotFound):
		return false, nil
	default:
		return false, err
	}
}

func InLive(ctx context.Context, db sqlx.ExtContext, userID, liveClassID string) (bool, error) {
	if userID == "" {
		return false, nil
	}

	_, err := FetchLive(ctx, db, userID, liveClassID)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, database.ErrDBNotFound):
		return false, nil
	default:
		return false, err
	}
}

func QueryCourses(ctx context.Context, db sqlx.ExtContext, userID string) ([]CourseEntry, error) {
	const q = `
	SELECT e.enrollment_id, e.user_id, e.course_id, e.amount_paid, e.instructor_share, e.platform_fee, e.enrolled_at,
		c.title, c.image_url
	FROM enrollments e JOIN courses c ON c.course_id = e.course_id
	WHERE e.user_id = :user_id
	ORDER BY e.enrolled_at DESC`

	var ee []CourseEntry
	if err := database.NamedQuerySlice(ctx, db, q, map[string]any{"user_id": userID}, &ee); err != nil {
		return nil, fmt.Errorf("selecting enrollments of user[%s]: %w", userID, err)
	}
	return ee, nil
}

// QueryLiveSince lists the live enrollments made at or after since.
func QueryLiveSince(ctx context.Context, db sqlx.ExtContext, userID string, since time.Time) ([]LiveEntry, error) {
	const q = `
	SELECT e.enrollment_id, e.user_id, e.live_class_id, e.amount_paid, e.instructor_share, e.platform_fee,
		e.first_message_sent_at, e.enrolled_at, l.title, l.start_time
	FROM live_class_enrollments e JOIN live_classes l ON l.live_class_id = e.live_class_id
	WHERE e.user_id = :user_id AND e.enrolled_at >= :since
	ORDER BY e.enrolled_at DESC`

	data := map[string]any{"user_id": userID, "since": since}

	var ee []LiveEntry
	if err := database.NamedQuerySlice(ctx, db, q, data, &ee); err != nil {
		return nil, fmt.Errorf("selecting live enrollments of user[%s]: %w", userID, err)
	}
	return ee, nil
}

// StampFirstMessage records the first message time on the live enrollment.
// Only the call that flips the column from NULL reports true.
func StampFirstMessage(ctx context.Context, db sqlx.ExtContext, userID, liveClassID string, now time.Time) (bool, error) {
	const q = `
	UPDATE live_class_enrollments SET first_message_sent_at = :now
	WHERE user_id = :user_id AND live_class_id = :live_class_id AND first_message_sent_at IS NULL`

	data := map[string]any{"user_id": userID, "live_class_id": liveClassID, "now": now}

	n, err := database.NamedExecContext(ctx, db, q, data)
	if err != nil {
		return false, fmt.Errorf("stamping first message of user[%s] in live class[%s]: %w", userID, liveClassID, err)
	}
	return n == 1, nil
}
