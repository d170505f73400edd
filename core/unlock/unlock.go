// Package unlock decides which modules of a course a learner may open and
// when a course or live class becomes reviewable. It has no storage of its
// own: callers load the state and ask.
package unlock

import (
	"time"

	"github.com/irsalhamdi/eduverse/core/content"
)

type Module struct {
	ID    string
	Items []content.Ref
}

// Modules walks mods in order. The first module is always open; a later
// one opens only when every item of every module before it is in done.
// Once a module is found incomplete everything after it stays locked.
func Modules(mods []Module, done content.Set) []bool {
	unlocked := make([]bool, len(mods))

	open := true
	for i, m := range mods {
		unlocked[i] = open
		if !open {
			continue
		}

		for _, it := range m.Items {
			if !done.Has(it) {
				open = false
				break
			}
		}
	}

	return unlocked
}

// Completed counts the items of mods present in done. Progress on items of
// other courses is ignored.
func Completed(mods []Module, done content.Set) (completed, total int) {
	for _, m := range mods {
		for _, it := range m.Items {
			total++
			if done.Has(it) {
				completed++
			}
		}
	}
	return completed, total
}

// CourseReviewable requires a finished, non-empty course.
func CourseReviewable(enrolled bool, total, completed int, reviewed bool) bool {
	return enrolled && total > 0 && completed == total && !reviewed
}

// LiveReviewable opens a live class for review once delay has passed since
// the student's first message to the instructor.
func LiveReviewable(enrolled bool, firstMessageAt *time.Time, now time.Time, delay time.Duration, reviewed bool) bool {
	if !enrolled || reviewed || firstMessageAt == nil {
		return false
	}
	return now.Sub(*firstMessageAt) >= delay
}

// LiveReviewOpensAt is the moment LiveReviewable turns true, or nil while
// no message was sent.
func LiveReviewOpensAt(firstMessageAt *time.Time, delay time.Duration) *time.Time {
	if firstMessageAt == nil {
		return nil
	}
	t := firstMessageAt.Add(delay)
	return &t
}
