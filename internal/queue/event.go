// Package queue defines the lifecycle event payloads exchanged over the
// message broker and the background consumer that records them to
// logs/academic.log.
package queue

// Durable queue names for academic lifecycle events.
const (
	RegisteredQueueName = "student.registered"
	PromotedQueueName   = "student.promoted"
)

// StudentRegisteredEvent is published when an admin enrolls a new student.
// It carries enough information for downstream consumers to log or notify
// without querying the primary database.
type StudentRegisteredEvent struct {
	StudentID     uint64 `json:"student_id"`
	UserID        uint64 `json:"user_id"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	StudentCode   string `json:"student_code"`
	Department    string `json:"department"`
	Level         string `json:"level"`
	AdmissionYear int    `json:"admission_year"`
	RegisteredAt  string `json:"registered_at"`
}

// StudentPromotedEvent is published when a promotion succeeds, including
// the terminal promotion into graduated status.
type StudentPromotedEvent struct {
	StudentID   uint64 `json:"student_id"`
	StudentCode string `json:"student_code"`
	FromLevel   string `json:"from_level"`
	ToLevel     string `json:"to_level"`
	Status      string `json:"status"`
	PromotedAt  string `json:"promoted_at"`
}
