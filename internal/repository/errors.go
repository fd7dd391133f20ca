// Package repository defines error types that are reused across multiple
// repositories. These sentinel values allow higher layers such as
// handlers to distinguish between different failure scenarios. For
// example, ErrEmailExists signals that a registration cannot proceed
// because another identity already owns the email address, while
// ErrVersionConflict reports that an optimistic-concurrency write found
// the record changed underneath it.
package repository

import "errors"

// ErrEmailExists is returned when an insert would violate the unique
// email constraint on the users table. Handlers should translate this
// into an HTTP 400 response on registration.
var ErrEmailExists = errors.New("email already exists")

// ErrCodeExists is returned when a generated student code collides with
// an existing one. The registration flow treats it as a signal to
// regenerate the code and retry.
var ErrCodeExists = errors.New("student code already exists")

// ErrCourseCodeExists is returned when creating a course whose code is
// already taken. Handlers should translate this into an HTTP 409.
var ErrCourseCodeExists = errors.New("course code already exists")

// ErrUserNotFound is returned when a user lookup matches no row.
var ErrUserNotFound = errors.New("user not found")

// ErrStudentNotFound is returned when a student lookup matches no row.
var ErrStudentNotFound = errors.New("student not found")

// ErrVersionConflict is returned when a compare-and-swap update affects
// zero rows because the record no longer matches the state it was read
// in. Exactly one of two concurrent promotions of the same student
// receives this error.
var ErrVersionConflict = errors.New("record changed concurrently")

// ErrInvalidCGPA is returned when a write carries a CGPA outside the
// [0.0, 5.0] scale.
var ErrInvalidCGPA = errors.New("cgpa out of range")
