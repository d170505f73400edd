// Package content holds the learning items of a module. Items of every
// kind are addressed through a Ref so that progress and the unlock rules
// never depend on a concrete table.
package content

import (
	"errors"
	"time"
)

type Kind string

const (
	KindVideo Kind = "video"
	KindText  Kind = "text"
)

// Kinds lists every kind in the order items are shown inside a module.
var Kinds = []Kind{KindVideo, KindText}

var ErrUnknownKind = errors.New("unknown content kind")

func ParseKind(s string) (Kind, error) {
	for _, k := range Kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", ErrUnknownKind
}

type Ref struct {
	Kind Kind   `json:"kind" db:"content_kind"`
	ID   string `json:"id" db:"content_id"`
}

type Set map[Ref]struct{}

func NewSet(refs ...Ref) Set {
	s := make(Set, len(refs))
	for _, r := range refs {
		s[r] = struct{}{}
	}
	return s
}

func (s Set) Has(r Ref) bool {
	_, ok := s[r]
	return ok
}

// Item is the kind independent view of a video or a text.
type Item struct {
	Ref
	ModuleID  string    `json:"moduleId" db:"module_id"`
	CourseID  string    `json:"courseId" db:"course_id"`
	Title     string    `json:"title" db:"title"`
	URL       string    `json:"url,omitempty" db:"url"`
	Body      string    `json:"body,omitempty" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// Hidden strips the payload, leaving what a locked item may show.
func (it Item) Hidden() Item {
	it.URL = ""
	it.Body = ""
	return it
}

type Video struct {
	ID        string    `json:"id" db:"video_id"`
	ModuleID  string    `json:"moduleId" db:"module_id"`
	Title     string    `json:"title" db:"title"`
	URL       string    `json:"url" db:"url"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type VideoNew struct {
	Title string `json:"title" validate:"required,max=200"`
	URL   string `json:"url" validate:"required,url"`
}

type Text struct {
	ID        string    `json:"id" db:"text_id"`
	ModuleID  string    `json:"moduleId" db:"module_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type TextNew struct {
	Title string `json:"title" validate:"required,max=200"`
	Body  string `json:"body" validate:"required"`
}
