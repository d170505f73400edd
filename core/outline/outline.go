// Package outline assembles what a learner sees of a course: modules in
// order, their items, which modules are open and how far the learner got.
package outline

import (
	"context"
	"fmt"

	"github.com/irsalhamdi/eduverse/core/content"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/enrollment"
	"github.com/irsalhamdi/eduverse/core/module"
	"github.com/irsalhamdi/eduverse/core/progress"
	"github.com/irsalhamdi/eduverse/core/unlock"
	"github.com/jmoiron/sqlx"
)

type Module struct {
	module.Module
	Items    []content.Item `json:"items"`
	Unlocked bool           `json:"unlocked"`
}

type Outline struct {
	Course    course.Course `json:"course"`
	Modules   []Module      `json:"modules"`
	Enrolled  bool          `json:"enrolled"`
	Completed []content.Ref `json:"completed"`
	Total     int           `json:"totalItems"`
	Done      int           `json:"completedItems"`
}

// Load builds the outline of c for userID, which may be empty for
// anonymous visitors.
func Load(ctx context.Context, db sqlx.ExtContext, c course.Course, userID string) (Outline, error) {
	mods, err := module.QueryByCourse(ctx, db, c.ID)
	if err != nil {
		return Outline{}, fmt.Errorf("loading modules: %w", err)
	}

	items, err := content.QueryByCourse(ctx, db, c.ID)
	if err != nil {
		return Outline{}, fmt.Errorf("loading items: %w", err)
	}

	done := content.NewSet()
	enrolled := false
	if userID != "" {
		if enrolled, err = enrollment.InCourse(ctx, db, userID, c.ID); err != nil {
			return Outline{}, fmt.Errorf("checking enrollment: %w", err)
		}
		if done, err = progress.QueryCompleted(ctx, db, userID); err != nil {
			return Outline{}, fmt.Errorf("loading progress: %w", err)
		}
	}

	return build(c, mods, items, done, enrolled), nil
}

func build(c course.Course, mods []module.Module, items []content.Item, done content.Set, enrolled bool) Outline {
	byModule := make(map[string][]content.Item, len(mods))
	for _, it := range items {
		byModule[it.ModuleID] = append(byModule[it.ModuleID], it)
	}

	steps := make([]unlock.Module, len(mods))
	for i, m := range mods {
		refs := make([]content.Ref, 0, len(byModule[m.ID]))
		for _, it := range byModule[m.ID] {
			refs = append(refs, it.Ref)
		}
		steps[i] = unlock.Module{ID: m.ID, Items: refs}
	}

	open := unlock.Modules(steps, done)
	completed, total := unlock.Completed(steps, done)

	o := Outline{
		Course:    c,
		Modules:   make([]Module, len(mods)),
		Enrolled:  enrolled,
		Completed: []content.Ref{},
		Total:     total,
		Done:      completed,
	}

	for i, m := range mods {
		its := byModule[m.ID]
		if its == nil {
			its = []content.Item{}
		}
		o.Modules[i] = Module{Module: m, Items: its, Unlocked: open[i]}

		for _, it := range its {
			if done.Has(it.Ref) {
				o.Completed = append(o.Completed, it.Ref)
			}
		}
	}

	return o
}

// Finished reports whether every item of a non-empty course is done.
func (o Outline) Finished() bool {
	return o.Total > 0 && o.Done == o.Total
}

// Redact hides the payload of items the viewer may not open: everything
// unless canView, and items of locked modules otherwise.
func (o Outline) Redact(canView bool) Outline {
	mods := make([]Module, len(o.Modules))
	for i, m := range o.Modules {
		items := make([]content.Item, len(m.Items))
		for j, it := range m.Items {
			if canView && m.Unlocked {
				items[j] = it
				continue
			}
			items[j] = it.Hidden()
		}
		m.Items = items
		mods[i] = m
	}
	o.Modules = mods
	return o
}
