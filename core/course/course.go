package course

import "time"

type Category string

const (
	ProgrammingTech    Category = "programming-tech"
	GraphicsDesign     Category = "graphics-design"
	DigitalMarketing   Category = "digital-marketing"
	WritingTranslation Category = "writing-translation"
	VideoAnimation     Category = "video-animation"
	Other              Category = "other"
)

var Categories = []Category{
	ProgrammingTech,
	GraphicsDesign,
	DigitalMarketing,
	WritingTranslation,
	VideoAnimation,
	Other,
}

type Course struct {
	ID           string    `json:"id" db:"course_id"`
	InstructorID string    `json:"instructorId" db:"instructor_id"`
	Title        string    `json:"title" db:"title"`
	Description  string    `json:"description" db:"description"`
	ImageURL     string    `json:"imageUrl" db:"image_url"`
	Price        int       `json:"price" db:"price"`
	Category     Category  `json:"category" db:"category"`
	CreatedAt    time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" db:"updated_at"`
	Version      int       `json:"version" db:"version"`
}

type CourseNew struct {
	Title       string   `json:"title" validate:"required,max=200"`
	Description string   `json:"description" validate:"required"`
	Price       int      `json:"price" validate:"gte=0,lte=100000000"`
	ImageURL    string   `json:"imageUrl" validate:"omitempty,url"`
	Category    Category `json:"category" validate:"omitempty,oneof=programming-tech graphics-design digital-marketing writing-translation video-animation other"`
}

type CourseUp struct {
	Title       *string   `json:"title" validate:"omitempty,max=200"`
	Description *string   `json:"description"`
	Price       *int      `json:"price" validate:"omitempty,gte=0,lte=100000000"`
	ImageURL    *string   `json:"imageUrl" validate:"omitempty,url"`
	Category    *Category `json:"category" validate:"omitempty,oneof=programming-tech graphics-design digital-marketing writing-translation video-animation other"`
	Version     int       `json:"version" validate:"required"`
}

type Filter struct {
	Query    string
	Category Category
}
