package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/utils"
)

// codeRetries bounds the regenerate-and-retry loop on student code
// collisions. The random space (48 bits per admission year) dwarfs any
// realistic student population, so exhausting the retries points at a
// broken random source or database, not bad luck.
const codeRetries = 3

// ErrCodeExhausted is returned when every code generation attempt
// collided. It should be treated as a server fault, not a user error.
var ErrCodeExhausted = errors.New("could not generate a unique student code")

// ErrInvalidLevel is returned when a registration names an academic
// level outside 100-500.
var ErrInvalidLevel = errors.New("invalid academic level")

// Registration carries the admin-supplied fields for enrolling a new
// student. Level is optional and defaults to 100.
type Registration struct {
	Name       string
	Email      string
	Department string
	Level      string
}

// Registrar creates student identities together with their academic
// profiles.
type Registrar struct {
	Students StudentStore
}

func NewRegistrar(students StudentStore) *Registrar {
	return &Registrar{Students: students}
}

// RegisterStudent creates the identity row and the student profile in
// one transaction. The identity gets role student and the NoPassword
// sentinel in place of a hash, since students authenticate with their
// code. A duplicate email fails with repository.ErrEmailExists and
// leaves nothing behind; a duplicate generated code is retried with a
// fresh code up to codeRetries times.
func (r *Registrar) RegisterStudent(ctx context.Context, in Registration) (repository.User, repository.Student, error) {
	level := in.Level
	if level == "" {
		level = repository.Level100
	}
	if !repository.ValidLevel(level) {
		return repository.User{}, repository.Student{}, ErrInvalidLevel
	}
	year := time.Now().UTC().Year()

	for attempt := 0; attempt < codeRetries; attempt++ {
		code, err := utils.NewStudentCode(year)
		if err != nil {
			return repository.User{}, repository.Student{}, err
		}
		u := repository.User{
			Name:         strings.TrimSpace(in.Name),
			Email:        strings.ToLower(strings.TrimSpace(in.Email)),
			PasswordHash: repository.NoPassword,
			Role:         repository.RoleStudent,
		}
		s := repository.Student{
			StudentCode:   code,
			Department:    strings.TrimSpace(in.Department),
			Level:         level,
			CGPA:          0.0,
			Status:        repository.StatusActive,
			AdmissionYear: year,
		}
		err = r.Students.CreateWithUser(ctx, &u, &s)
		if errors.Is(err, repository.ErrCodeExists) {
			continue // regenerate and try again
		}
		if err != nil {
			return repository.User{}, repository.Student{}, err
		}
		return u, s, nil
	}
	return repository.User{}, repository.Student{}, ErrCodeExhausted
}
