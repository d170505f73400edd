package enrollment_test

import (
	"context"
	"testing"
	"time"

	"github.com/irsalhamdi/eduverse/core/coretest"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/database/dbtest"
	"github.com/irsalhamdi/eduverse/validate"
)

func TestCreateCourseOnce(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	c := coretest.Course(t, db, teacher.ID, 1000)

	e := enrollment.Enrollment{
		ID:              validate.GenerateID(),
		UserID:          student.ID,
		CourseID:        c.ID,
		AmountPaid:      1000,
		InstructorShare: 800,
		PlatformFee:     200,
		EnrolledAt:      time.Now().UTC(),
	}

	created, err := enrollment.CreateCourse(ctx, db, e)
	if err != nil || !created {
		t.Fatalf("first enrollment: created=%v err=%v", created, err)
	}

	dup := e
	dup.ID = validate.GenerateID()
	dup.AmountPaid = 0
	created, err = enrollment.CreateCourse(ctx, db, dup)
	if err != nil || created {
		t.Fatalf("duplicate enrollment: created=%v err=%v", created, err)
	}

	stored, err := enrollment.FetchCourse(ctx, db, student.ID, c.ID)
	if err != nil {
		t.Fatal(err)
	}
	if stored.ID != e.ID || stored.AmountPaid != 1000 {
		t.Errorf("expected the original enrollment to survive, got %+v", stored)
	}

	in, err := enrollment.InCourse(ctx, db, student.ID, c.ID)
	if err != nil || !in {
		t.Errorf("expected student to be enrolled: in=%v err=%v", in, err)
	}

	in, err = enrollment.InCourse(ctx, db, "", c.ID)
	if err != nil || in {
		t.Errorf("expected anonymous caller not to be enrolled: in=%v err=%v", in, err)
	}

	ee, err := enrollment.QueryCourses(ctx, db, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ee) != 1 || ee[0].Title != c.Title {
		t.Errorf("expected one entry titled %q, got %+v", c.Title, ee)
	}
}

func TestLiveEnrollments(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	recent := coretest.Live(t, db, teacher.ID, 0)
	old := coretest.Live(t, db, teacher.ID, 0)

	for _, e := range []enrollment.LiveEnrollment{
		{ID: validate.GenerateID(), UserID: student.ID, LiveClassID: recent.ID, EnrolledAt: now.Add(-time.Hour)},
		{ID: validate.GenerateID(), UserID: student.ID, LiveClassID: old.ID, EnrolledAt: now.Add(-5 * 24 * time.Hour)},
	} {
		if _, err := enrollment.CreateLive(ctx, db, e); err != nil {
			t.Fatal(err)
		}
	}

	ee, err := enrollment.QueryLiveSince(ctx, db, student.ID, now.Add(-enrollment.RecentLiveWindow))
	if err != nil {
		t.Fatal(err)
	}
	if len(ee) != 1 || ee[0].LiveClassID != recent.ID {
		t.Fatalf("expected only the recent class, got %+v", ee)
	}

	stamped, err := enrollment.StampFirstMessage(ctx, db, student.ID, recent.ID, now)
	if err != nil || !stamped {
		t.Fatalf("first stamp: stamped=%v err=%v", stamped, err)
	}

	stamped, err = enrollment.StampFirstMessage(ctx, db, student.ID, recent.ID, now.Add(time.Minute))
	if err != nil || stamped {
		t.Fatalf("second stamp: stamped=%v err=%v", stamped, err)
	}

	e, err := enrollment.FetchLive(ctx, db, student.ID, recent.ID)
	if err != nil {
		t.Fatal(err)
	}
	if e.FirstMessageSentAt == nil || !e.FirstMessageSentAt.Equal(now) {
		t.Errorf("expected first message at %v, got %v", now, e.FirstMessageSentAt)
	}
}
