package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roetechhub/college-lms/internal/repository"
)

func TestRegisterStudentDefaults(t *testing.T) {
	store := newMockStudentStore()
	reg := NewRegistrar(store)

	u, s, err := reg.RegisterStudent(context.Background(), Registration{
		Name:       "  Ada Obi  ",
		Email:      "Ada.Obi@College.com",
		Department: "Computer Science",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ada Obi", u.Name)
	assert.Equal(t, "ada.obi@college.com", u.Email)
	assert.Equal(t, repository.RoleStudent, u.Role)
	assert.Equal(t, repository.NoPassword, u.PasswordHash)

	assert.Equal(t, repository.Level100, s.Level)
	assert.Equal(t, repository.StatusActive, s.Status)
	assert.Zero(t, s.CGPA)
	assert.Equal(t, time.Now().UTC().Year(), s.AdmissionYear)
	assert.Regexp(t, regexp.MustCompile(`^STU\d{2}-[0-9A-F]{4}-[0-9A-F]{4}-[0-9A-F]{4}$`), s.StudentCode)
	assert.NotZero(t, u.ID)
	assert.Equal(t, u.ID, s.UserID)
}

func TestRegisterStudentExplicitLevel(t *testing.T) {
	store := newMockStudentStore()
	reg := NewRegistrar(store)

	_, s, err := reg.RegisterStudent(context.Background(), Registration{
		Name:       "Ada Obi",
		Email:      "ada@college.com",
		Department: "Physics",
		Level:      repository.Level300,
	})
	require.NoError(t, err)
	assert.Equal(t, repository.Level300, s.Level)
}

func TestRegisterStudentInvalidLevel(t *testing.T) {
	store := newMockStudentStore()
	reg := NewRegistrar(store)

	_, _, err := reg.RegisterStudent(context.Background(), Registration{
		Name:       "Ada Obi",
		Email:      "ada@college.com",
		Department: "Physics",
		Level:      "600",
	})
	assert.ErrorIs(t, err, ErrInvalidLevel)
	assert.Zero(t, store.createCalls, "no create attempt for invalid input")
}

func TestRegisterStudentDuplicateEmail(t *testing.T) {
	store := newMockStudentStore()
	store.emails["ada@college.com"] = true
	reg := NewRegistrar(store)

	_, _, err := reg.RegisterStudent(context.Background(), Registration{
		Name:       "Ada Obi",
		Email:      "ada@college.com",
		Department: "Physics",
	})
	assert.ErrorIs(t, err, repository.ErrEmailExists)
	// The transactional create failed, so no profile exists either.
	assert.Empty(t, store.students)
	assert.Equal(t, 1, store.createCalls, "duplicate email is not retried")
}

func TestRegisterStudentRetriesCodeCollision(t *testing.T) {
	store := newMockStudentStore()
	// Two collisions, then success on the third generated code.
	store.createErrs = []error{repository.ErrCodeExists, repository.ErrCodeExists}
	reg := NewRegistrar(store)

	_, s, err := reg.RegisterStudent(context.Background(), Registration{
		Name:       "Ada Obi",
		Email:      "ada@college.com",
		Department: "Physics",
	})
	require.NoError(t, err)
	require.Equal(t, 3, store.createCalls)
	// A fresh code is generated for every attempt.
	assert.NotEqual(t, store.triedCodes[0], store.triedCodes[1])
	assert.Equal(t, store.triedCodes[2], s.StudentCode)
}

func TestRegisterStudentCodeExhaustion(t *testing.T) {
	store := newMockStudentStore()
	store.createErrs = []error{
		repository.ErrCodeExists,
		repository.ErrCodeExists,
		repository.ErrCodeExists,
	}
	reg := NewRegistrar(store)

	_, _, err := reg.RegisterStudent(context.Background(), Registration{
		Name:       "Ada Obi",
		Email:      "ada@college.com",
		Department: "Physics",
	})
	assert.ErrorIs(t, err, ErrCodeExhausted)
	assert.Equal(t, 3, store.createCalls, "retries are bounded")
}
