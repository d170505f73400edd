// Package coretest seeds rows the core packages depend on, for tests.
package coretest

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/irsalhamdi/eduverse/core/claims"
	"github.com/irsalhamdi/eduverse/core/content"
	"github.com/irsalhamdi/eduverse/core/course"
	"github.com/irsalhamdi/eduverse/core/live"
	"github.com/irsalhamdi/eduverse/core/module"
	"github.com/irsalhamdi/eduverse/core/user"
	"github.com/irsalhamdi/eduverse/random"
	"github.com/irsalhamdi/eduverse/validate"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"
)

// Password is the clear text password of every seeded user.
const Password = "password123"

var hash []byte

func init() {
	var err error
	hash, err = bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
}

func User(t *testing.T, db sqlx.ExtContext, role string) user.User {
	t.Helper()

	now := time.Now().UTC()
	u := user.User{
		ID:           validate.GenerateID(),
		Name:         "user " + random.String(6),
		Email:        strings.ToLower(random.String(10)) + "@example.com",
		Role:         role,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := user.Create(context.Background(), db, u); err != nil {
		t.Fatalf("seeding user: %v", err)
	}
	return u
}

func Student(t *testing.T, db sqlx.ExtContext) user.User {
	t.Helper()
	return User(t, db, claims.RoleUser)
}

func Instructor(t *testing.T, db sqlx.ExtContext) user.User {
	t.Helper()
	return User(t, db, claims.RoleInstructor)
}

func Course(t *testing.T, db sqlx.ExtContext, instructorID string, price int) course.Course {
	t.Helper()

	now := time.Now().UTC()
	c := course.Course{
		ID:           validate.GenerateID(),
		InstructorID: instructorID,
		Title:        "course " + random.String(6),
		Description:  "a course",
		Price:        price,
		Category:     course.ProgrammingTech,
		CreatedAt:    now,
		UpdatedAt:    now,
		Version:      1,
	}

	if err := course.Create(context.Background(), db, c); err != nil {
		t.Fatalf("seeding course: %v", err)
	}
	return c
}

func Module(t *testing.T, db sqlx.ExtContext, courseID string, position int) module.Module {
	t.Helper()

	m := module.Module{
		ID:        validate.GenerateID(),
		CourseID:  courseID,
		Title:     fmt.Sprintf("module %d", position),
		Position:  position,
		CreatedAt: time.Now().UTC(),
	}

	if err := module.Create(context.Background(), db, m); err != nil {
		t.Fatalf("seeding module: %v", err)
	}
	return m
}

func Video(t *testing.T, db sqlx.ExtContext, moduleID string) content.Ref {
	t.Helper()

	v := content.Video{
		ID:        validate.GenerateID(),
		ModuleID:  moduleID,
		Title:     "video " + random.String(4),
		URL:       "https://videos.example.com/" + random.String(8),
		CreatedAt: time.Now().UTC(),
	}

	if err := content.CreateVideo(context.Background(), db, v); err != nil {
		t.Fatalf("seeding video: %v", err)
	}
	return content.Ref{Kind: content.KindVideo, ID: v.ID}
}

func Text(t *testing.T, db sqlx.ExtContext, moduleID string) content.Ref {
	t.Helper()

	tx := content.Text{
		ID:        validate.GenerateID(),
		ModuleID:  moduleID,
		Title:     "text " + random.String(4),
		Body:      "lorem ipsum",
		CreatedAt: time.Now().UTC(),
	}

	if err := content.CreateText(context.Background(), db, tx); err != nil {
		t.Fatalf("seeding text: %v", err)
	}
	return content.Ref{Kind: content.KindText, ID: tx.ID}
}

func Live(t *testing.T, db sqlx.ExtContext, instructorID string, price int) live.Class {
	t.Helper()

	now := time.Now().UTC()
	c := live.Class{
		ID:           validate.GenerateID(),
		InstructorID: instructorID,
		Title:        "live " + random.String(6),
		Description:  "a live class",
		Price:        price,
		StartTime:    now.Add(48 * time.Hour),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := live.Create(context.Background(), db, c); err != nil {
		t.Fatalf("seeding live class: %v", err)
	}
	return c
}
