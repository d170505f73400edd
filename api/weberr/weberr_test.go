package weberr

import (
	"errors"
	"net/http"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestNewErrorCarriesResponseAndFields(t *testing.T) {
	base := errors.New("course[42] not found")
	err := NotFound(base, WithFields(map[string]interface{}{"course_id": "42"}))

	if !errors.Is(err, base) {
		t.Fatal("wrapped error lost its cause")
	}

	body, status, ok := Response(err)
	if !ok {
		t.Fatal("expected a response")
	}
	if status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", status)
	}
	if diff := cmp.Diff(&ErrorResponse{"the resource could not be found"}, body); diff != "" {
		t.Fatalf("unexpected body (-want +got):\n%s", diff)
	}

	fields, ok := Fields(err)
	if !ok {
		t.Fatal("expected fields")
	}
	if fields["course_id"] != "42" {
		t.Fatalf("unexpected fields %v", fields)
	}
}

func TestForbiddenKeepsMessage(t *testing.T) {
	err := Forbidden(errors.New("user[1] is not the owner"), "you are not authorized to manage this course")

	body, status, ok := Response(err)
	if !ok || status != http.StatusForbidden {
		t.Fatalf("unexpected response %v %d", ok, status)
	}
	if got := body.(*ErrorResponse).Error; got != "you are not authorized to manage this course" {
		t.Fatalf("unexpected message %q", got)
	}
}

func TestPlainErrorHasNoResponse(t *testing.T) {
	if _, _, ok := Response(errors.New("plain")); ok {
		t.Fatal("plain errors must not carry a response")
	}
}
