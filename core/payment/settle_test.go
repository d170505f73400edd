package payment_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/irsalhamdi/eduverse/core/coretest"
	"github.com/irsalhamdi/eduverse/core/earning"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/payment"
	"github.com/irsalhamdi/eduverse/database/dbtest"
)

func TestSettleCourse(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	c := coretest.Course(t, db, teacher.ID, 10000)

	tranID := payment.NewTransaction(payment.KindCourse, student.ID, c.ID).String()

	s, err := payment.Settle(ctx, db, tranID, time.Now().UTC())
	if err != nil {
		t.Fatalf("settling: %v", err)
	}
	if !s.Created || s.Share != 8000 || s.Fee != 2000 {
		t.Fatalf("unexpected settlement: created=%v share=%d fee=%d", s.Created, s.Share, s.Fee)
	}

	e, err := enrollment.FetchCourse(ctx, db, student.ID, c.ID)
	if err != nil {
		t.Fatalf("fetching enrollment: %v", err)
	}

	got := []int{e.AmountPaid, e.InstructorShare, e.PlatformFee}
	if diff := cmp.Diff([]int{10000, 8000, 2000}, got); diff != "" {
		t.Errorf("unexpected money fields (-want +got):\n%s", diff)
	}
	if e.ID != s.EnrollmentID {
		t.Errorf("settlement points to enrollment %s, stored %s", s.EnrollmentID, e.ID)
	}

	ee, err := earning.QueryByEnrollment(ctx, db, earning.SourceCourse, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ee) != 1 || ee[0].Amount != 8000 || ee[0].InstructorID != teacher.ID {
		t.Fatalf("expected one earning of 8000 for the instructor, got %+v", ee)
	}

	// Redelivery of the same callback and a second purchase attempt.
	again := []string{tranID, payment.NewTransaction(payment.KindCourse, student.ID, c.ID).String()}
	for _, id := range again {
		s, err := payment.Settle(ctx, db, id, time.Now().UTC())
		if err != nil {
			t.Fatalf("settling %s again: %v", id, err)
		}
		if s.Created || s.EnrollmentID != e.ID {
			t.Errorf("expected the existing enrollment, got created=%v id=%s", s.Created, s.EnrollmentID)
		}
	}

	ee, err = earning.QueryByEnrollment(ctx, db, earning.SourceCourse, e.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ee) != 1 {
		t.Errorf("expected redelivery to add no earning, got %d", len(ee))
	}

	bal, err := earning.Balance(ctx, db, teacher.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 8000 {
		t.Errorf("got balance %d, want 8000", bal)
	}
}

func TestSettleLive(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	paid := coretest.Live(t, db, teacher.ID, 555)
	free := coretest.Live(t, db, teacher.ID, 0)

	s, err := payment.Settle(ctx, db, payment.NewTransaction(payment.KindLive, student.ID, paid.ID).String(), time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if !s.Created || s.Share != 444 || s.Fee != 111 {
		t.Errorf("unexpected settlement: created=%v share=%d fee=%d", s.Created, s.Share, s.Fee)
	}

	s, err = payment.Settle(ctx, db, payment.NewTransaction(payment.KindLive, student.ID, free.ID).String(), time.Now().UTC())
	if err != nil {
		t.Fatal(err)
	}
	if !s.Created {
		t.Error("expected free live class enrollment to be created")
	}

	ee, err := earning.QueryByEnrollment(ctx, db, earning.SourceLive, s.EnrollmentID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ee) != 0 {
		t.Errorf("free enrollments must not credit the instructor, got %+v", ee)
	}

	e, err := enrollment.FetchLive(ctx, db, student.ID, free.ID)
	if err != nil {
		t.Fatal(err)
	}
	if e.FirstMessageSentAt != nil {
		t.Errorf("a new live enrollment has no first message, got %v", e.FirstMessageSentAt)
	}
}

func TestSettleRejectsInvalidTransactions(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	c := coretest.Course(t, db, teacher.ID, 10000)

	tests := map[string]string{
		"malformed":      "course_" + student.ID + "_" + c.ID,
		"unknown user":   payment.NewTransaction(payment.KindCourse, uuid.NewString(), c.ID).String(),
		"unknown course": payment.NewTransaction(payment.KindCourse, student.ID, uuid.NewString()).String(),
		"wrong kind":     payment.NewTransaction(payment.KindLive, student.ID, c.ID).String(),
	}

	for name, tranID := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := payment.Settle(ctx, db, tranID, time.Now().UTC())
			if !errors.Is(err, payment.ErrInvalidTransaction) {
				t.Fatalf("expected ErrInvalidTransaction, got %v", err)
			}
		})
	}

	ee, err := enrollment.QueryCourses(ctx, db, student.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(ee) != 0 {
		t.Errorf("invalid transactions must not enroll, got %+v", ee)
	}

	bal, err := earning.Balance(ctx, db, teacher.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 0 {
		t.Errorf("invalid transactions must not credit, got balance %d", bal)
	}
}

func TestSettleMarksPayment(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	c := coretest.Course(t, db, teacher.ID, 2500)

	tranID := payment.NewTransaction(payment.KindCourse, student.ID, c.ID).String()
	now := time.Now().UTC()

	p := payment.Payment{
		ID:          uuid.NewString(),
		TranID:      tranID,
		Provider:    payment.PaypalProvider,
		ProviderRef: "ORDER-1",
		UserID:      student.ID,
		ProductKind: payment.KindCourse,
		ProductID:   c.ID,
		Amount:      c.Price,
		Status:      payment.Pending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := payment.Create(ctx, db, p); err != nil {
		t.Fatal(err)
	}

	if _, err := payment.Settle(ctx, db, tranID, now); err != nil {
		t.Fatal(err)
	}

	got, err := payment.FetchByProviderRef(ctx, db, payment.PaypalProvider, "ORDER-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != payment.Success {
		t.Errorf("got payment status %q, want %q", got.Status, payment.Success)
	}
}

func TestSettleConcurrentDeliveries(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)
	c := coretest.Course(t, db, teacher.ID, 10000)

	tranID := payment.NewTransaction(payment.KindCourse, student.ID, c.ID).String()

	const n = 6
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		errs    []error
	)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			s, err := payment.Settle(ctx, db, tranID, time.Now().UTC())

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if s.Created {
				created++
			}
		}()
	}
	wg.Wait()

	if len(errs) > 0 {
		t.Fatalf("concurrent settlement failed: %v", errs)
	}
	if created != 1 {
		t.Errorf("expected exactly one delivery to enroll, got %d", created)
	}

	bal, err := earning.Balance(ctx, db, teacher.ID)
	if err != nil {
		t.Fatal(err)
	}
	if bal != 8000 {
		t.Errorf("got balance %d, want 8000", bal)
	}
}

func TestSettleUsesCheckoutAmount(t *testing.T) {
	db := dbtest.NewDatabase(t)
	ctx := context.Background()

	teacher := coretest.Instructor(t, db)
	student := coretest.Student(t, db)

	// The course became more expensive after the buyer was billed 2500.
	c := coretest.Course(t, db, teacher.ID, 4000)

	tranID := payment.NewTransaction(payment.KindCourse, student.ID, c.ID).String()
	now := time.Now().UTC()

	p := payment.Payment{
		ID:          uuid.NewString(),
		TranID:      tranID,
		Provider:    payment.SSLCommerzProvider,
		ProviderRef: "SESSION-1",
		UserID:      student.ID,
		ProductKind: payment.KindCourse,
		ProductID:   c.ID,
		Amount:      2500,
		Status:      payment.Pending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := payment.Create(ctx, db, p); err != nil {
		t.Fatal(err)
	}

	s, err := payment.Settle(ctx, db, tranID, now)
	if err != nil {
		t.Fatal(err)
	}
	if s.Paid != 2500 {
		t.Errorf("got paid %d, want 2500", s.Paid)
	}

	e, err := enrollment.FetchCourse(ctx, db, student.ID, c.ID)
	if err != nil {
		t.Fatal(err)
	}

	got := []int{e.AmountPaid, e.InstructorShare, e.PlatformFee}
	if diff := cmp.Diff([]int{2500, 2000, 500}, got); diff != "" {
		t.Errorf("unexpected money fields (-want +got):\n%s", diff)
	}
}
