package handler

import (
	"context"  // provides context with cancellation for DB calls
	"errors"   // sentinel error matching
	"net/http" // HTTP status codes and primitives
	"strings"  // string manipulation utilities
	"time"     // timeouts for DB calls

	"github.com/labstack/echo/v4" // Echo framework for HTTP routing

	"github.com/roetechhub/college-lms/internal/config"
	"github.com/roetechhub/college-lms/internal/middleware"
	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/utils"
)

// UserStore is the slice of the user repository the auth handlers need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
}

// ProfileStore looks up student profiles for logins and /me.
type ProfileStore interface {
	GetByCode(ctx context.Context, code string) (repository.Student, error)
	GetByUserID(ctx context.Context, userID uint64) (repository.Student, error)
}

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Cfg      config.Config
	Users    UserStore
	Students ProfileStore
}

func NewAuthHandler(cfg config.Config, users UserStore, students ProfileStore) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Students: students}
}

// ----- DTOs -----

type staffLoginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type studentLoginReq struct {
	StudentCode string `json:"student_code"`
}

type userPart struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}
type profilePart struct {
	ID            uint64  `json:"id"`
	StudentCode   string  `json:"student_code"`
	Department    string  `json:"department"`
	Level         string  `json:"level"`
	CGPA          float64 `json:"cgpa"`
	Status        string  `json:"status"`
	AdmissionYear int     `json:"admission_year"`
}
type authResp struct {
	User    userPart     `json:"user"`
	Profile *profilePart `json:"profile,omitempty"`
	Token   string       `json:"token"`
	Expires time.Time    `json:"expires"`
}

func toUserPart(u repository.User) userPart {
	return userPart{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}

func toProfilePart(s repository.Student) *profilePart {
	return &profilePart{
		ID:            s.ID,
		StudentCode:   s.StudentCode,
		Department:    s.Department,
		Level:         s.Level,
		CGPA:          s.CGPA,
		Status:        s.Status,
		AdmissionYear: s.AdmissionYear,
	}
}

// StaffLogin verifies email+password for lecturer and admin accounts and
// returns a bearer token. Students have no password and are rejected here
// with the same "invalid credentials" answer as a wrong password, so the
// endpoint does not leak which emails exist or what role they hold.
func (h *AuthHandler) StaffLogin(c echo.Context) error {
	var req staffLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "email/password required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if u.Role != repository.RoleLecturer && u.Role != repository.RoleAdmin {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}
	if !u.IsActive || !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Token:   access.Token,
		Expires: access.Exp,
	})
}

// StudentLogin authenticates a student by their unique code and returns
// the identity, the academic profile, and a bearer token.
func (h *AuthHandler) StudentLogin(c echo.Context) error {
	var req studentLoginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	code := strings.ToUpper(strings.TrimSpace(req.StudentCode))
	if code == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "student_code required"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Students.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrStudentNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid student ID"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	u, err := h.Users.GetByID(ctx, s.UserID)
	if err != nil || !u.IsActive {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid student ID"})
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, h.Cfg.AccessTTLDays)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue token failed"})
	}
	return c.JSON(http.StatusOK, authResp{
		User:    toUserPart(u),
		Profile: toProfilePart(s),
		Token:   access.Token,
		Expires: access.Exp,
	})
}

// Me returns the authenticated identity, plus the academic profile when
// the caller is a student. Profile is null for staff.
func (h *AuthHandler) Me(c echo.Context) error {
	u, ok := middleware.CurrentUser(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}

	var profile *profilePart
	if u.Role == repository.RoleStudent {
		ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
		defer cancel()
		if s, err := h.Students.GetByUserID(ctx, u.ID); err == nil {
			profile = toProfilePart(s)
		}
	}
	return c.JSON(http.StatusOK, echo.Map{
		"user":    toUserPart(u),
		"profile": profile,
	})
}
