package module

import "time"

type Module struct {
	ID          string    `json:"id" db:"module_id"`
	CourseID    string    `json:"courseId" db:"course_id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Position    int       `json:"position" db:"position"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}

type ModuleNew struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description"`
	Position    int    `json:"position" validate:"gte=0"`
}
