package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/service"
)

// fakeStudentStore implements service.StudentStore and StudentLister
// with repository-equivalent semantics.
type fakeStudentStore struct {
	students map[uint64]repository.Student
	emails   map[string]bool
	nextID   uint64
}

func newFakeStudentStore() *fakeStudentStore {
	return &fakeStudentStore{
		students: make(map[uint64]repository.Student),
		emails:   make(map[string]bool),
		nextID:   1,
	}
}

func (f *fakeStudentStore) add(s repository.Student) repository.Student {
	s.ID = f.nextID
	f.nextID++
	f.students[s.ID] = s
	return s
}

func (f *fakeStudentStore) GetByID(ctx context.Context, id uint64) (repository.Student, error) {
	s, ok := f.students[id]
	if !ok {
		return repository.Student{}, repository.ErrStudentNotFound
	}
	return s, nil
}

func (f *fakeStudentStore) CreateWithUser(ctx context.Context, u *repository.User, s *repository.Student) error {
	if f.emails[u.Email] {
		return repository.ErrEmailExists
	}
	u.ID = f.nextID
	f.nextID++
	s.UserID = u.ID
	*s = f.add(*s)
	f.emails[u.Email] = true
	return nil
}

func (f *fakeStudentStore) UpdateLevelStatus(ctx context.Context, id uint64, fromLevel, fromStatus, toLevel, toStatus string) error {
	s, ok := f.students[id]
	if !ok || s.Level != fromLevel || s.Status != fromStatus {
		return repository.ErrVersionConflict
	}
	s.Level, s.Status = toLevel, toStatus
	f.students[id] = s
	return nil
}

func (f *fakeStudentStore) List(ctx context.Context, level, department string) ([]repository.StudentListItem, error) {
	items := []repository.StudentListItem{}
	for _, s := range f.students {
		if level != "" && s.Level != level {
			continue
		}
		if department != "" && s.Department != department {
			continue
		}
		items = append(items, repository.StudentListItem{Student: s})
	}
	return items, nil
}

func newStudentHandler(store *fakeStudentStore) *StudentHandler {
	return NewStudentHandler(service.NewRegistrar(store), service.NewLifecycle(store), store)
}

func TestRegisterStudentHandler(t *testing.T) {
	store := newFakeStudentStore()
	h := newStudentHandler(store)
	e := echo.New()

	c, rec := postJSON(e, "/v1/students",
		`{"name":"Ada Obi","email":"ada@college.com","department":"Computer Science"}`)
	require.NoError(t, h.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Message string `json:"message"`
		Student struct {
			Name        string `json:"name"`
			Email       string `json:"email"`
			StudentCode string `json:"student_code"`
			Level       string `json:"level"`
		} `json:"student"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Ada Obi", resp.Student.Name)
	assert.Equal(t, repository.Level100, resp.Student.Level)
	assert.Regexp(t, `^STU\d{2}-`, resp.Student.StudentCode)
	assert.Len(t, store.students, 1)
}

func TestRegisterStudentHandlerDuplicateEmail(t *testing.T) {
	store := newFakeStudentStore()
	store.emails["ada@college.com"] = true
	h := newStudentHandler(store)
	e := echo.New()

	c, rec := postJSON(e, "/v1/students",
		`{"name":"Ada Obi","email":"ada@college.com","department":"Physics"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "email already exists")
	assert.Empty(t, store.students, "no partial creation")
}

func TestRegisterStudentHandlerMissingFields(t *testing.T) {
	h := newStudentHandler(newFakeStudentStore())
	e := echo.New()

	c, rec := postJSON(e, "/v1/students", `{"name":"Ada Obi"}`)
	require.NoError(t, h.Register(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func promoteReq(e *echo.Echo, id string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/v1/students/"+id+"/promote", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(id)
	return c, rec
}

func TestPromoteHandler(t *testing.T) {
	store := newFakeStudentStore()
	s := store.add(repository.Student{
		StudentCode: "STU26-AAAA-BBBB-CCCC",
		Level:       repository.Level400,
		Status:      repository.StatusActive,
	})
	h := newStudentHandler(store)
	e := echo.New()

	c, rec := promoteReq(e, "1")
	require.NoError(t, h.Promote(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "500L")

	// Next promotion graduates the student.
	c, rec = promoteReq(e, "1")
	require.NoError(t, h.Promote(c))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "graduated")

	got := store.students[s.ID]
	assert.Equal(t, repository.Level500, got.Level)
	assert.Equal(t, repository.StatusGraduated, got.Status)
}

func TestPromoteHandlerNotFound(t *testing.T) {
	h := newStudentHandler(newFakeStudentStore())
	e := echo.New()

	c, rec := promoteReq(e, "42")
	require.NoError(t, h.Promote(c))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPromoteHandlerAlreadyGraduated(t *testing.T) {
	store := newFakeStudentStore()
	store.add(repository.Student{
		StudentCode: "STU26-AAAA-BBBB-CCCC",
		Level:       repository.Level500,
		Status:      repository.StatusGraduated,
	})
	h := newStudentHandler(store)
	e := echo.New()

	c, rec := promoteReq(e, "1")
	require.NoError(t, h.Promote(c))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already graduated")
}

func TestPromoteHandlerBadID(t *testing.T) {
	h := newStudentHandler(newFakeStudentStore())
	e := echo.New()

	c, rec := promoteReq(e, "abc")
	require.NoError(t, h.Promote(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListStudentsFilters(t *testing.T) {
	store := newFakeStudentStore()
	store.add(repository.Student{StudentCode: "STU26-AAAA-BBBB-CCCC",
		Level: repository.Level100, Status: repository.StatusActive, Department: "Physics"})
	store.add(repository.Student{StudentCode: "STU26-DDDD-EEEE-FFFF",
		Level: repository.Level200, Status: repository.StatusActive, Department: "Computer Science"})
	h := newStudentHandler(store)
	e := echo.New()

	req := httptest.NewRequest(http.MethodGet, "/v1/students?level=200", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	require.NoError(t, h.List(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var out []studentListItem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	require.Len(t, out, 1)
	assert.Equal(t, "STU26-DDDD-EEEE-FFFF", out[0].StudentCode)
}
