package enrollment

import "time"

// Enrollment grants a user access to a course. The money fields hold the
// settled split of AmountPaid.
type Enrollment struct {
	ID              string    `json:"id" db:"enrollment_id"`
	UserID          string    `json:"userId" db:"user_id"`
	CourseID        string    `json:"courseId" db:"course_id"`
	AmountPaid      int       `json:"amountPaid" db:"amount_paid"`
	InstructorShare int       `json:"instructorShare" db:"instructor_share"`
	PlatformFee     int       `json:"platformFee" db:"platform_fee"`
	EnrolledAt      time.Time `json:"enrolledAt" db:"enrolled_at"`
}

type LiveEnrollment struct {
	ID                 string     `json:"id" db:"enrollment_id"`
	UserID             string     `json:"userId" db:"user_id"`
	LiveClassID        string     `json:"liveClassId" db:"live_class_id"`
	AmountPaid         int        `json:"amountPaid" db:"amount_paid"`
	InstructorShare    int        `json:"instructorShare" db:"instructor_share"`
	PlatformFee        int        `json:"platformFee" db:"platform_fee"`
	FirstMessageSentAt *time.Time `json:"firstMessageSentAt" db:"first_message_sent_at"`
	EnrolledAt         time.Time  `json:"enrolledAt" db:"enrolled_at"`
}

// CourseEntry is a course enrollment joined with what a student list shows.
type CourseEntry struct {
	Enrollment
	Title    string `json:"title" db:"title"`
	ImageURL string `json:"imageUrl" db:"image_url"`
}

type LiveEntry struct {
	LiveEnrollment
	Title     string    `json:"title" db:"title"`
	StartTime time.Time `json:"startTime" db:"start_time"`
}
