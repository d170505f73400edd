// Package teacher handles applications from users who want to teach.
package teacher

import "time"

type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case Pending, Approved, Rejected:
		return true
	}
	return false
}

type Application struct {
	ID              string     `json:"id" db:"application_id"`
	UserID          string     `json:"userId" db:"user_id"`
	FullName        string     `json:"fullName" db:"full_name"`
	Email           string     `json:"email" db:"email"`
	Expertise       string     `json:"expertise" db:"expertise"`
	YearsExperience int        `json:"yearsExperience" db:"years_experience"`
	Bio             string     `json:"bio" db:"bio"`
	LinkedinURL     string     `json:"linkedinUrl" db:"linkedin_url"`
	Status          Status     `json:"status" db:"status"`
	SubmittedAt     time.Time  `json:"submittedAt" db:"submitted_at"`
	ProcessedAt     *time.Time `json:"processedAt" db:"processed_at"`
}

type ApplicationNew struct {
	FullName        string `json:"fullName" validate:"required,max=120"`
	Email           string `json:"email" validate:"required,email"`
	Expertise       string `json:"expertise" validate:"required,max=200"`
	YearsExperience int    `json:"yearsExperience" validate:"gte=0,lte=80"`
	Bio             string `json:"bio" validate:"max=4000"`
	LinkedinURL     string `json:"linkedinUrl" validate:"omitempty,url"`
}
