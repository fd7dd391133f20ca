package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/roetechhub/college-lms/internal/middleware"
	"github.com/roetechhub/college-lms/internal/repository"
)

// CourseStore is the slice of the course repository the handlers need.
type CourseStore interface {
	Create(ctx context.Context, c *repository.Course) error
	List(ctx context.Context, level, department string) ([]repository.Course, error)
}

// CourseHandler serves the course catalog endpoints.
type CourseHandler struct {
	Courses CourseStore
}

func NewCourseHandler(courses CourseStore) *CourseHandler {
	return &CourseHandler{Courses: courses}
}

type courseReq struct {
	CourseCode  string `json:"course_code"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Units       int    `json:"units"`
	Level       string `json:"level"`
	Department  string `json:"department"`
	LecturerID  uint64 `json:"lecturer_id"`
}

type courseResp struct {
	ID           uint64 `json:"id"`
	CourseCode   string `json:"course_code"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Units        int    `json:"units"`
	Level        string `json:"level"`
	Department   string `json:"department"`
	LecturerID   uint64 `json:"lecturer_id,omitempty"`
	LecturerName string `json:"lecturer_name,omitempty"`
}

func toCourseResp(c repository.Course) courseResp {
	return courseResp{
		ID:           c.ID,
		CourseCode:   c.CourseCode,
		Title:        c.Title,
		Description:  c.Description,
		Units:        c.Units,
		Level:        c.Level,
		Department:   c.Department,
		LecturerID:   c.LecturerID,
		LecturerName: c.LecturerName,
	}
}

// Create handles POST /v1/courses (lecturer or admin). A lecturer who
// omits lecturer_id gets the course assigned to themselves.
func (h *CourseHandler) Create(c echo.Context) error {
	var req courseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.CourseCode = strings.ToUpper(strings.TrimSpace(req.CourseCode))
	req.Title = strings.TrimSpace(req.Title)
	if req.CourseCode == "" || req.Title == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "course_code/title required"})
	}
	if req.Units <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "units must be positive"})
	}
	if !repository.ValidLevel(req.Level) {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid level"})
	}

	if req.LecturerID == 0 {
		if u, ok := middleware.CurrentUser(c); ok && u.Role == repository.RoleLecturer {
			req.LecturerID = u.ID
		}
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	course := repository.Course{
		CourseCode:  req.CourseCode,
		Title:       req.Title,
		Description: req.Description,
		Units:       req.Units,
		Level:       req.Level,
		Department:  strings.TrimSpace(req.Department),
		LecturerID:  req.LecturerID,
	}
	if err := h.Courses.Create(ctx, &course); err != nil {
		if errors.Is(err, repository.ErrCourseCodeExists) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "course code already exists"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create course failed"})
	}
	return c.JSON(http.StatusCreated, toCourseResp(course))
}

// List handles GET /v1/courses with optional ?level= and ?department=
// filters. Responses are cached by the Redis middleware.
func (h *CourseHandler) List(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	courses, err := h.Courses.List(ctx, c.QueryParam("level"), c.QueryParam("department"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "list courses failed"})
	}
	out := make([]courseResp, 0, len(courses))
	for _, course := range courses {
		out = append(out, toCourseResp(course))
	}
	return c.JSON(http.StatusOK, out)
}
