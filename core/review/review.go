package review

import "time"

type TargetKind string

const (
	TargetCourse TargetKind = "course"
	TargetLive   TargetKind = "live"
)

type Review struct {
	ID         string     `json:"id" db:"review_id"`
	UserID     string     `json:"userId" db:"user_id"`
	TargetKind TargetKind `json:"targetKind" db:"target_kind"`
	TargetID   string     `json:"targetId" db:"target_id"`
	Rating     int        `json:"rating" db:"rating"`
	Comment    string     `json:"comment" db:"comment"`
	CreatedAt  time.Time  `json:"createdAt" db:"created_at"`
}

type ReviewNew struct {
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type Summary struct {
	Count   int     `json:"count" db:"count"`
	Average float64 `json:"average" db:"average"`
}
