package payment

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func TestTransactionRoundTrip(t *testing.T) {
	userID := uuid.NewString()
	productID := uuid.NewString()

	for _, kind := range []Kind{KindCourse, KindLive} {
		want := NewTransaction(kind, userID, productID)
		if want.Nonce == "" || strings.Contains(want.Nonce, "_") {
			t.Fatalf("unexpected nonce %q", want.Nonce)
		}

		got, err := ParseTransaction(want.String())
		if err != nil {
			t.Fatalf("parsing %q: %v", want.String(), err)
		}

		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected transaction (-want +got):\n%s", diff)
		}
	}
}

func TestTransactionNoncesDiffer(t *testing.T) {
	a := NewTransaction(KindCourse, uuid.NewString(), uuid.NewString())
	b := NewTransaction(KindCourse, a.UserID, a.ProductID)
	if a.String() == b.String() {
		t.Errorf("two transactions for the same purchase share the id %q", a)
	}
}

func TestParseTransactionRejects(t *testing.T) {
	u := uuid.NewString()
	p := uuid.NewString()

	tests := map[string]string{
		"empty":           "",
		"too few":         "course_" + u + "_" + p,
		"too many":        "course_" + u + "_" + p + "_abc_def",
		"empty nonce":     "course_" + u + "_" + p + "_",
		"empty kind":      "_" + u + "_" + p + "_abc",
		"unknown kind":    "bundle_" + u + "_" + p + "_abc",
		"malformed user":  "course_42_" + p + "_abc",
		"malformed item":  "live_" + u + "_xyz_abc",
		"garbage":         "not-a-transaction",
		"only separators": "___",
	}

	for name, tranID := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseTransaction(tranID)
			if !errors.Is(err, ErrInvalidTransaction) {
				t.Errorf("expected ErrInvalidTransaction for %q, got %v", tranID, err)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		amount, share, fee int
	}{
		{amount: 10000, share: 8000, fee: 2000},
		{amount: 0, share: 0, fee: 0},
		{amount: 1, share: 0, fee: 1},
		{amount: 999, share: 799, fee: 200},
		{amount: 12345, share: 9876, fee: 2469},
	}

	for _, tc := range tests {
		share, fee := Split(tc.amount)
		if share != tc.share || fee != tc.fee {
			t.Errorf("Split(%d) = %d, %d; want %d, %d", tc.amount, share, fee, tc.share, tc.fee)
		}
		if share+fee != tc.amount {
			t.Errorf("Split(%d) loses money: %d + %d", tc.amount, share, fee)
		}
	}
}

func TestAmounts(t *testing.T) {
	for cents, s := range map[int]string{0: "0.00", 5: "0.05", 10000: "100.00", 12345: "123.45"} {
		if got := FormatAmount(cents); got != s {
			t.Errorf("FormatAmount(%d) = %q, want %q", cents, got, s)
		}

		got, err := ParseAmount(s)
		if err != nil || got != cents {
			t.Errorf("ParseAmount(%q) = %d, %v; want %d", s, got, err, cents)
		}
	}

	if got, err := ParseAmount("100"); err != nil || got != 10000 {
		t.Errorf("ParseAmount(100) = %d, %v", got, err)
	}

	for _, bad := range []string{"", "abc", "-1"} {
		if _, err := ParseAmount(bad); err == nil {
			t.Errorf("expected an error parsing %q", bad)
		}
	}
}
