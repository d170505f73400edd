package earning

import "time"

type SourceKind string

const (
	SourceCourse SourceKind = "course"
	SourceLive   SourceKind = "live"
)

type Status string

const (
	Pending  Status = "pending"
	Approved Status = "approved"
	Rejected Status = "rejected"
)

// Earning is an append only ledger entry crediting an instructor for one
// enrollment.
type Earning struct {
	ID           string     `json:"id" db:"earning_id"`
	InstructorID string     `json:"instructorId" db:"instructor_id"`
	Amount       int        `json:"amount" db:"amount"`
	SourceKind   SourceKind `json:"sourceKind" db:"source_kind"`
	EnrollmentID string     `json:"enrollmentId" db:"enrollment_id"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
}

type Withdrawal struct {
	ID           string     `json:"id" db:"withdrawal_id"`
	InstructorID string     `json:"instructorId" db:"instructor_id"`
	Amount       int        `json:"amount" db:"amount"`
	Status       Status     `json:"status" db:"status"`
	RequestedAt  time.Time  `json:"requestedAt" db:"requested_at"`
	ProcessedAt  *time.Time `json:"processedAt" db:"processed_at"`
}

type WithdrawalNew struct {
	Amount int `json:"amount" validate:"required,gt=0"`
}

type Summary struct {
	TotalEarned    int          `json:"totalEarned"`
	TotalWithdrawn int          `json:"totalWithdrawn"`
	Pending        int          `json:"pending"`
	Balance        int          `json:"balance"`
	Recent         []Earning    `json:"recent"`
	Withdrawals    []Withdrawal `json:"withdrawals"`
}
