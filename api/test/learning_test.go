package test

import (
	"net/http"
	"testing"

	"github.com/irsalhamdi/eduverse/core/catalog"
	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/content"
	"github.com/irsalhamdi/eduverse/core/module"
	"github.com/irsalhamdi/eduverse/core/payment"
	"github.com/irsalhamdi/eduverse/core/review"
)

func TestLearningFlow(t *testing.T) {
	env := NewTestEnv(t)

	teacher := env.As(t, claims.RoleInstructor)
	student := env.As(t, claims.RoleUser)
	visitor := env.NewClient(t)

	c := createCourse(t, teacher, 0)

	var mods []module.Module
	for i, title := range []string{"Basics", "Advanced"} {
		var m module.Module
		teacher.Expect(http.MethodPost, "/courses/"+c.ID+"/modules", module.ModuleNew{Title: title, Position: i + 1}, http.StatusCreated, &m)
		mods = append(mods, m)
	}

	var v1, v2 content.Video
	var t1 content.Text
	teacher.Expect(http.MethodPost, "/modules/"+mods[0].ID+"/videos", content.VideoNew{Title: "Hello", URL: "https://cdn.test/hello.mp4"}, http.StatusCreated, &v1)
	teacher.Expect(http.MethodPost, "/modules/"+mods[0].ID+"/texts", content.TextNew{Title: "Notes", Body: "read me"}, http.StatusCreated, &t1)
	teacher.Expect(http.MethodPost, "/modules/"+mods[1].ID+"/videos", content.VideoNew{Title: "Deep dive", URL: "https://cdn.test/deep.mp4"}, http.StatusCreated, &v2)

	// Students cannot add material to someone else's course.
	student.Expect(http.MethodPost, "/modules/"+mods[0].ID+"/videos", content.VideoNew{Title: "x", URL: "https://cdn.test/x.mp4"}, http.StatusForbidden, nil)

	detail := func(cl *Client) catalog.CourseDetail {
		t.Helper()
		var d catalog.CourseDetail
		cl.Expect(http.MethodGet, "/courses/"+c.ID, nil, http.StatusOK, &d)
		return d
	}

	d := detail(visitor)
	if d.Enrolled || len(d.Modules) != 2 || d.Total != 3 {
		t.Fatalf("unexpected detail for a visitor: enrolled=%v modules=%d total=%d", d.Enrolled, len(d.Modules), d.Total)
	}
	if d.Modules[0].Items[0].URL != "" {
		t.Errorf("expected the visitor not to see video urls")
	}

	d = detail(teacher)
	if d.Modules[1].Items[0].URL != v2.URL {
		t.Errorf("expected the owner to see every item in full")
	}

	complete := func(kind content.Kind, id string, status int) {
		t.Helper()
		w := student.Expect(http.MethodPost, "/content/"+string(kind)+"/"+id+"/complete", nil, status, nil)
		if status == http.StatusSeeOther && w.Header.Get("Location") != "/courses/"+c.ID {
			t.Errorf("expected redirect to the course, got %q", w.Header.Get("Location"))
		}
	}

	complete(content.KindVideo, v1.ID, http.StatusForbidden)
	complete("ebook", v1.ID, http.StatusNotFound)
	complete(content.KindText, v1.ID, http.StatusNotFound)

	var page payment.Page
	student.Expect(http.MethodPost, "/payments/initiate/course/"+c.ID, nil, http.StatusOK, &page)
	if page.Status != payment.PageEnrolled {
		t.Fatalf("expected free enrollment, got %+v", page)
	}

	d = detail(student)
	if !d.Enrolled || !d.Modules[0].Unlocked || d.Modules[1].Unlocked {
		t.Fatalf("expected only the first module open: enrolled=%v unlocked=%v,%v", d.Enrolled, d.Modules[0].Unlocked, d.Modules[1].Unlocked)
	}
	if d.Modules[0].Items[0].URL == "" || d.Modules[1].Items[0].URL != "" {
		t.Errorf("expected payload only for the open module")
	}

	rv := review.ReviewNew{Rating: 5, Comment: "great"}
	student.Expect(http.MethodPost, "/courses/"+c.ID+"/reviews", rv, http.StatusForbidden, nil)

	complete(content.KindVideo, v1.ID, http.StatusSeeOther)
	complete(content.KindVideo, v1.ID, http.StatusSeeOther)
	complete(content.KindText, t1.ID, http.StatusSeeOther)

	d = detail(student)
	if !d.Modules[1].Unlocked || d.Done != 2 {
		t.Fatalf("expected the second module open after 2 items, got unlocked=%v done=%d", d.Modules[1].Unlocked, d.Done)
	}
	if d.CanReview {
		t.Errorf("expected no review before the last item")
	}

	complete(content.KindVideo, v2.ID, http.StatusSeeOther)

	d = detail(student)
	if !d.CanReview || d.Done != d.Total {
		t.Fatalf("expected a finished course to be reviewable: %d/%d canReview=%v", d.Done, d.Total, d.CanReview)
	}

	var first, second review.Review
	student.Expect(http.MethodPost, "/courses/"+c.ID+"/reviews", rv, http.StatusCreated, &first)
	student.Expect(http.MethodPost, "/courses/"+c.ID+"/reviews", review.ReviewNew{Rating: 1}, http.StatusOK, &second)
	if second.ID != first.ID || second.Rating != 5 {
		t.Errorf("expected the existing review back, got %+v", second)
	}

	student.Expect(http.MethodPost, "/courses/"+c.ID+"/reviews", review.ReviewNew{Rating: 9}, http.StatusBadRequest, nil)

	var rr []review.Review
	visitor.Expect(http.MethodGet, "/courses/"+c.ID+"/reviews", nil, http.StatusOK, &rr)
	if len(rr) != 1 {
		t.Fatalf("expected one review, got %d", len(rr))
	}

	d = detail(visitor)
	if d.Rating.Count != 1 || d.Rating.Average != 5 {
		t.Errorf("unexpected rating %+v", d.Rating)
	}
}

func TestCourseManagement(t *testing.T) {
	env := NewTestEnv(t)

	teacher := env.As(t, claims.RoleInstructor)
	rival := env.As(t, claims.RoleInstructor)
	student := env.As(t, claims.RoleUser)

	student.Expect(http.MethodPost, "/courses", map[string]any{"title": "x", "description": "y", "price": 1}, http.StatusForbidden, nil)

	c := createCourse(t, teacher, 1500)

	title := "Practical Go, 2nd edition"
	up := map[string]any{"title": title, "version": c.Version}

	rival.Expect(http.MethodPut, "/courses/"+c.ID, up, http.StatusForbidden, nil)
	teacher.Expect(http.MethodPut, "/courses/"+c.ID, up, http.StatusOK, nil)
	teacher.Expect(http.MethodPut, "/courses/"+c.ID, up, http.StatusConflict, nil)

	var found []map[string]any
	student.Expect(http.MethodGet, "/courses?q=2nd", nil, http.StatusOK, &found)
	if len(found) != 1 || found[0]["title"] != title {
		t.Errorf("expected the renamed course in search results, got %v", found)
	}

	var managed []map[string]any
	rival.Expect(http.MethodGet, "/courses/manage", nil, http.StatusOK, &managed)
	if len(managed) != 0 {
		t.Errorf("expected a rival to manage no course, got %d", len(managed))
	}

	teacher.Expect(http.MethodDelete, "/courses/"+c.ID, nil, http.StatusNoContent, nil)
	student.Expect(http.MethodGet, "/courses/"+c.ID, nil, http.StatusNotFound, nil)
}
