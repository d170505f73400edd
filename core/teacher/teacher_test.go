package teacher_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/coretest"
	"github.com/irsalhamdi/eduverse/core/teacher"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/database/dbtest"
)

func application(u user.User) teacher.ApplicationNew {
	return teacher.ApplicationNew{
		FullName:        u.Name,
		Email:           u.Email,
		Expertise:       "distributed systems",
		YearsExperience: 7,
		Bio:             "I build things.",
	}
}

func TestSubmitOnePending(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	u := coretest.Student(t, db)

	a, err := teacher.Submit(ctx, db, u, application(u), time.Now().UTC())
	if err != nil {
		t.Fatalf("submitting: %v", err)
	}
	if a.Status != teacher.Pending {
		t.Errorf("expected a pending application, got %s", a.Status)
	}

	if _, err := teacher.Submit(ctx, db, u, application(u), time.Now().UTC()); !errors.Is(err, teacher.ErrAlreadyPending) {
		t.Errorf("expected ErrAlreadyPending, got %v", err)
	}

	latest, err := teacher.FetchLatest(ctx, db, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != a.ID {
		t.Errorf("expected latest application %s, got %s", a.ID, latest.ID)
	}
}

func TestSubmitRejectsInstructors(t *testing.T) {
	db := dbtest.NewDatabase(t)

	u := coretest.Instructor(t, db)

	_, err := teacher.Submit(context.Background(), db, u, application(u), time.Now().UTC())
	if !errors.Is(err, teacher.ErrAlreadyTeaching) {
		t.Errorf("expected ErrAlreadyTeaching, got %v", err)
	}
}

func TestDecide(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	tests := []struct {
		name   string
		status teacher.Status
		role   string
	}{
		{"approve promotes", teacher.Approved, claims.RoleInstructor},
		{"reject keeps role", teacher.Rejected, claims.RoleUser},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := coretest.Student(t, db)

			a, err := teacher.Submit(ctx, db, u, application(u), time.Now().UTC())
			if err != nil {
				t.Fatal(err)
			}

			got, err := teacher.Decide(ctx, db, a.ID, tc.status, time.Now().UTC())
			if err != nil {
				t.Fatalf("deciding: %v", err)
			}
			if got.Status != tc.status || got.ProcessedAt == nil {
				t.Errorf("unexpected application after decision: %+v", got)
			}

			stored, err := user.Fetch(ctx, db, u.ID)
			if err != nil {
				t.Fatal(err)
			}
			if stored.Role != tc.role {
				t.Errorf("expected role %s, got %s", tc.role, stored.Role)
			}

			if _, err := teacher.Decide(ctx, db, a.ID, teacher.Approved, time.Now().UTC()); !errors.Is(err, teacher.ErrNotPending) {
				t.Errorf("expected a second decision to fail with ErrNotPending, got %v", err)
			}
		})
	}
}

func TestQueryByStatus(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	var ids []string
	for i := 0; i < 3; i++ {
		u := coretest.Student(t, db)
		a, err := teacher.Submit(ctx, db, u, application(u), time.Now().UTC().Add(time.Duration(i)*time.Second))
		if err != nil {
			t.Fatal(err)
		}
		ids = append(ids, a.ID)
	}

	if _, err := teacher.Decide(ctx, db, ids[0], teacher.Rejected, time.Now().UTC()); err != nil {
		t.Fatal(err)
	}

	all, err := teacher.QueryByStatus(ctx, db, "")
	if err != nil {
		t.Fatal(err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 applications, got %d", len(all))
	}

	pending, err := teacher.QueryByStatus(ctx, db, teacher.Pending)
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 2 || pending[0].ID != ids[1] {
		t.Errorf("expected the 2 remaining applications oldest first, got %+v", pending)
	}
}
