package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/utils"
)

const testSecret = "test-secret"

type stubIdentitySource struct {
	users map[uint64]repository.User
}

func (s *stubIdentitySource) GetByID(ctx context.Context, id uint64) (repository.User, error) {
	u, ok := s.users[id]
	if !ok {
		return repository.User{}, repository.ErrUserNotFound
	}
	return u, nil
}

// runGate sends a request with the given Authorization header through
// JWTAuth and a handler that reports the loaded identity.
func runGate(t *testing.T, src IdentitySource, authHeader string) (*httptest.ResponseRecorder, *repository.User) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/me", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var loaded *repository.User
	h := JWTAuth(testSecret, src)(func(c echo.Context) error {
		if u, ok := CurrentUser(c); ok {
			loaded = &u
		}
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec, loaded
}

func TestJWTAuthMissingHeader(t *testing.T) {
	src := &stubIdentitySource{users: map[uint64]repository.User{}}

	rec, loaded := runGate(t, src, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
	assert.Nil(t, loaded)

	rec, _ = runGate(t, src, "Basic dXNlcjpwYXNz")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "missing bearer token")
}

func TestJWTAuthMalformedToken(t *testing.T) {
	src := &stubIdentitySource{users: map[uint64]repository.User{}}

	rec, _ := runGate(t, src, "Bearer not-a-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid token")
}

func TestJWTAuthExpiredToken(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 1, -1)
	require.NoError(t, err)
	src := &stubIdentitySource{users: map[uint64]repository.User{
		1: {ID: 1, Role: repository.RoleAdmin, IsActive: true},
	}}

	rec, loaded := runGate(t, src, "Bearer "+access.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "token expired")
	assert.Nil(t, loaded)
}

func TestJWTAuthUnknownOrInactiveIdentity(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 5, 7)
	require.NoError(t, err)

	// Identity vanished after the token was issued.
	src := &stubIdentitySource{users: map[uint64]repository.User{}}
	rec, _ := runGate(t, src, "Bearer "+access.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authentication")

	// Identity exists but was deactivated; the token outlives nothing.
	src.users[5] = repository.User{ID: 5, Role: repository.RoleLecturer, IsActive: false}
	rec, _ = runGate(t, src, "Bearer "+access.Token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "invalid authentication")
}

func TestJWTAuthLoadsIdentity(t *testing.T) {
	access, err := utils.NewAccessToken(testSecret, 5, 7)
	require.NoError(t, err)
	src := &stubIdentitySource{users: map[uint64]repository.User{
		5: {ID: 5, Name: "Dr. John Smith", Role: repository.RoleLecturer, IsActive: true},
	}}

	rec, loaded := runGate(t, src, "Bearer "+access.Token)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, loaded)
	assert.Equal(t, uint64(5), loaded.ID)
	assert.Equal(t, repository.RoleLecturer, loaded.Role)
}

// runRole invokes RequireRole with an identity (or none) preloaded into
// the context, the way JWTAuth would leave it.
func runRole(t *testing.T, identity *repository.User, allowed ...string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/v1/students", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if identity != nil {
		c.Set(identityKey, *identity)
	}

	h := RequireRole(allowed...)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, h(c))
	return rec
}

func TestRequireRole(t *testing.T) {
	student := repository.User{ID: 1, Role: repository.RoleStudent, IsActive: true}
	admin := repository.User{ID: 2, Role: repository.RoleAdmin, IsActive: true}
	lecturer := repository.User{ID: 3, Role: repository.RoleLecturer, IsActive: true}

	// A student can never pass an admin-only guard.
	rec := runRole(t, &student, repository.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// An admin passes a guard that admits admins and lecturers.
	rec = runRole(t, &admin, repository.RoleAdmin, repository.RoleLecturer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runRole(t, &lecturer, repository.RoleAdmin, repository.RoleLecturer)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = runRole(t, &lecturer, repository.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleWithoutIdentity(t *testing.T) {
	// No identity in context (gate skipped or rejected) always forbids.
	rec := runRole(t, nil, repository.RoleAdmin)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
