package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roetechhub/college-lms/internal/queue"
	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/service"
)

// StudentLister lists student profiles with optional filters.
type StudentLister interface {
	List(ctx context.Context, level, department string) ([]repository.StudentListItem, error)
}

// StudentHandler bundles the registration flow, the lifecycle engine and
// the listing queries for student endpoints.
type StudentHandler struct {
	Registrar *service.Registrar
	Lifecycle *service.Lifecycle
	Students  StudentLister
}

func NewStudentHandler(reg *service.Registrar, lc *service.Lifecycle, students StudentLister) *StudentHandler {
	return &StudentHandler{Registrar: reg, Lifecycle: lc, Students: students}
}

type registerReq struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Level      string `json:"level"` // optional, defaults to 100
}

type studentListItem struct {
	profilePart
	UserID uint64 `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
}

// Register handles POST /v1/students (admin only). It creates the
// identity and profile in one transaction and answers with the freshly
// generated student code, which the admin hands to the student as their
// login credential.
func (h *StudentHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Name == "" || req.Email == "" || req.Department == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name/email/department required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, s, err := h.Registrar.RegisterStudent(ctx, service.Registration{
		Name:       req.Name,
		Email:      req.Email,
		Department: req.Department,
		Level:      req.Level,
	})
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrEmailExists):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "email already exists"})
		case errors.Is(err, service.ErrInvalidLevel):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "register student failed"})
		}
	}

	// Best-effort notification; registration already committed.
	_ = service.PublishStudentRegistered(ctx, queue.StudentRegisteredEvent{
		StudentID:     s.ID,
		UserID:        u.ID,
		Name:          u.Name,
		Email:         u.Email,
		StudentCode:   s.StudentCode,
		Department:    s.Department,
		Level:         s.Level,
		AdmissionYear: s.AdmissionYear,
		RegisteredAt:  time.Now().UTC().Format(time.RFC3339),
	})

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "student registered successfully",
		"student": echo.Map{
			"name":         u.Name,
			"email":        u.Email,
			"student_code": s.StudentCode,
			"level":        s.Level,
		},
	})
}

// List handles GET /v1/students with optional ?level= and ?department=
// filters. Any authenticated caller may list; the dashboard uses it for
// staff and students alike.
func (h *StudentHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	items, err := h.Students.List(ctx, c.QueryParam("level"), c.QueryParam("department"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list students failed"})
	}

	out := make([]studentListItem, 0, len(items))
	for _, it := range items {
		out = append(out, studentListItem{
			profilePart: *toProfilePart(it.Student),
			UserID:      it.UserID,
			Name:        it.Name,
			Email:       it.Email,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Promote handles POST /v1/students/:id/promote (admin only). A student
// advances one level, or graduates from level 500. Promoting an already
// graduated student is a 409; so is losing the race against a concurrent
// promotion, in which case the admin can re-read and decide whether
// another promotion is actually wanted.
func (h *StudentHandler) Promote(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Lifecycle.Promote(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrStudentNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "student not found"})
		case errors.Is(err, service.ErrAlreadyGraduated):
			return c.JSON(http.StatusConflict, echo.Map{"error": "student already graduated"})
		case errors.Is(err, repository.ErrVersionConflict):
			return c.JSON(http.StatusConflict, echo.Map{"error": "student changed concurrently, retry"})
		default:
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "promote failed"})
		}
	}
	s := p.Student

	_ = service.PublishStudentPromoted(ctx, queue.StudentPromotedEvent{
		StudentID:   s.ID,
		StudentCode: s.StudentCode,
		FromLevel:   p.FromLevel,
		ToLevel:     s.Level,
		Status:      s.Status,
		PromotedAt:  time.Now().UTC().Format(time.RFC3339),
	})

	msg := "student promoted to " + s.Level + "L"
	if s.Status == repository.StatusGraduated {
		msg = "student graduated"
	}
	return c.JSON(http.StatusOK, echo.Map{
		"message": msg,
		"student": toProfilePart(s),
	})
}
