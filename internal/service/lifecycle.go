// Package service holds the business flows that sit between the HTTP
// handlers and the repositories: student registration, the academic
// level-promotion state machine, and domain event publishing.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/roetechhub/college-lms/internal/repository"
)

// ErrAlreadyGraduated is returned when promoting a student whose status
// is already graduated. Graduation is absorbing: repeated promotion
// attempts keep failing with this error and never touch the record.
var ErrAlreadyGraduated = errors.New("student already graduated")

// StudentStore is the slice of the student repository the services
// depend on. Declared here so tests can substitute an in-memory fake.
type StudentStore interface {
	GetByID(ctx context.Context, id uint64) (repository.Student, error)
	CreateWithUser(ctx context.Context, u *repository.User, s *repository.Student) error
	UpdateLevelStatus(ctx context.Context, id uint64, fromLevel, fromStatus, toLevel, toStatus string) error
}

// nextLevel is the promotion table. The final entry maps level 500 to
// graduation rather than another level.
var nextLevel = map[string]string{
	repository.Level100: repository.Level200,
	repository.Level200: repository.Level300,
	repository.Level300: repository.Level400,
	repository.Level400: repository.Level500,
	repository.Level500: repository.StatusGraduated,
}

// Lifecycle is the only writer of a student's level and status.
type Lifecycle struct {
	Students StudentStore
}

func NewLifecycle(students StudentStore) *Lifecycle {
	return &Lifecycle{Students: students}
}

// Promotion is the outcome of a successful promote: the updated profile
// plus the level it moved from, which event consumers want to see.
type Promotion struct {
	Student   repository.Student
	FromLevel string
}

// Promote advances a student one academic level: 100 through 500, then
// graduation. A non-terminal promotion also resets status to active, so
// a carry_over student who is promoted re-enters good standing. Reaching
// the end of the table sets status to graduated and leaves the level at
// 500. The write is a compare-and-swap against the state read here; if a
// concurrent promotion got there first the repository reports
// repository.ErrVersionConflict and no second advance happens.
func (l *Lifecycle) Promote(ctx context.Context, studentID uint64) (Promotion, error) {
	s, err := l.Students.GetByID(ctx, studentID)
	if err != nil {
		return Promotion{}, err
	}
	if s.Status == repository.StatusGraduated {
		return Promotion{}, ErrAlreadyGraduated
	}
	next, ok := nextLevel[s.Level]
	if !ok {
		return Promotion{}, fmt.Errorf("student %d has unknown level %q", s.ID, s.Level)
	}

	fromLevel := s.Level
	toLevel, toStatus := next, repository.StatusActive
	if next == repository.StatusGraduated {
		// Graduation keeps the last level; only the status records it.
		toLevel, toStatus = s.Level, repository.StatusGraduated
	}
	if err := l.Students.UpdateLevelStatus(ctx, s.ID, s.Level, s.Status, toLevel, toStatus); err != nil {
		return Promotion{}, err
	}
	s.Level, s.Status = toLevel, toStatus
	return Promotion{Student: s, FromLevel: fromLevel}, nil
}
