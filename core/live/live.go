package live

import "time"

// Class is a scheduled live session sold by an instructor.
type Class struct {
	ID           string    `json:"id" db:"live_class_id"`
	InstructorID string    `json:"instructorId" db:"instructor_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	Price        int       `json:"price" db:"price"`
	StartTime    time.Time `json:"startTime" db:"start_time"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
}

type ClassNew struct {
	Title       string    `json:"title" validate:"required,max=200"`
	Description string    `json:"description" validate:"required"`
	ImageURL    string    `json:"imageUrl" validate:"omitempty,url"`
	Price       int       `json:"price" validate:"gte=0,lte=100000000"`
	StartTime   time.Time `json:"startTime" validate:"required"`
}

type ClassUp struct {
	Title       *string    `json:"title" validate:"omitempty,max=200"`
	Description *string    `json:"description"`
	ImageURL    *string    `json:"imageUrl" validate:"omitempty,url"`
	Price       *int       `json:"price" validate:"omitempty,gte=0,lte=100000000"`
	StartTime   *time.Time `json:"startTime"`
}
