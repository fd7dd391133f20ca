package repository

import (
	"context"
	"database/sql"
	"time"
)

// Academic levels a student moves through. Level stays at "500" when the
// student graduates; graduation is recorded in the status column.
const (
	Level100 = "100"
	Level200 = "200"
	Level300 = "300"
	Level400 = "400"
	Level500 = "500"
)

// Enrollment statuses. StatusCarryOver is a valid stored state but is only
// written by external academic-performance tooling; promotion never
// produces it.
const (
	StatusActive    = "active"
	StatusCarryOver = "carry_over"
	StatusGraduated = "graduated"
)

// ValidLevel reports whether s is one of the recognised academic levels.
func ValidLevel(s string) bool {
	switch s {
	case Level100, Level200, Level300, Level400, Level500:
		return true
	}
	return false
}

// Student mirrors the 'students' table. Each row is the academic profile
// attached one-to-one to a users row with role student. Level and status
// are written only through UpdateLevelStatus after creation.
type Student struct {
	ID            uint64
	UserID        uint64
	StudentCode   string
	Department    string
	Level         string
	CGPA          float64
	Status        string
	AdmissionYear int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// StudentListItem is a students row joined with the owning user's name
// and email for listing endpoints.
type StudentListItem struct {
	Student
	Name  string
	Email string
}

type StudentRepo struct{ DB *sql.DB }

func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{DB: db} }

const studentCols = "id,user_id,student_code,department,level,cgpa,status,admission_year,created_at,updated_at"

func scanStudent(row *sql.Row) (Student, error) {
	var s Student
	err := row.Scan(&s.ID, &s.UserID, &s.StudentCode, &s.Department, &s.Level,
		&s.CGPA, &s.Status, &s.AdmissionYear, &s.CreatedAt, &s.UpdatedAt)
	if err == sql.ErrNoRows {
		return Student{}, ErrStudentNotFound
	}
	return s, err
}

// GetByID fetches a student profile by its primary key.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (Student, error) {
	return scanStudent(r.DB.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE id=? LIMIT 1", id))
}

// GetByUserID fetches the profile attached to a user identity.
func (r *StudentRepo) GetByUserID(ctx context.Context, userID uint64) (Student, error) {
	return scanStudent(r.DB.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE user_id=? LIMIT 1", userID))
}

// GetByCode fetches a student profile by its unique student code.
func (r *StudentRepo) GetByCode(ctx context.Context, code string) (Student, error) {
	return scanStudent(r.DB.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE student_code=? LIMIT 1", code))
}

// List returns student profiles joined with user name/email, optionally
// filtered by level and department. Results are ordered by level then
// newest first, matching the admin dashboard's expectations.
func (r *StudentRepo) List(ctx context.Context, level, department string) ([]StudentListItem, error) {
	query := `SELECT s.id,s.user_id,s.student_code,s.department,s.level,s.cgpa,s.status,
		s.admission_year,s.created_at,s.updated_at,u.name,u.email
		FROM students s JOIN users u ON u.id = s.user_id WHERE 1=1`
	args := []any{}
	if level != "" {
		query += " AND s.level=?"
		args = append(args, level)
	}
	if department != "" {
		query += " AND s.department=?"
		args = append(args, department)
	}
	query += " ORDER BY s.level ASC, s.created_at DESC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []StudentListItem{}
	for rows.Next() {
		var it StudentListItem
		if err := rows.Scan(&it.ID, &it.UserID, &it.StudentCode, &it.Department, &it.Level,
			&it.CGPA, &it.Status, &it.AdmissionYear, &it.CreatedAt, &it.UpdatedAt,
			&it.Name, &it.Email); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CreateWithUser inserts the identity and its student profile in a single
// transaction so a duplicate on either unique column leaves nothing
// behind. On success the generated IDs are written back into u and s.
// A duplicate email maps to ErrEmailExists and a duplicate student code
// to ErrCodeExists; the caller regenerates the code and retries on the
// latter.
func (r *StudentRepo) CreateWithUser(ctx context.Context, u *User, s *Student) error {
	if s.CGPA < 0 || s.CGPA > 5 {
		return ErrInvalidCGPA
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		u.Name, u.Email, u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicate(err) {
			return ErrEmailExists
		}
		return err
	}
	uid, err := res.LastInsertId()
	if err != nil {
		return err
	}

	res, err = tx.ExecContext(ctx,
		"INSERT INTO students (user_id, student_code, department, level, cgpa, status, admission_year) VALUES (?,?,?,?,?,?,?)",
		uint64(uid), s.StudentCode, s.Department, s.Level, s.CGPA, s.Status, s.AdmissionYear)
	if err != nil {
		if isDuplicate(err) {
			return ErrCodeExists
		}
		return err
	}
	sid, err := res.LastInsertId()
	if err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return err
	}
	u.ID = uint64(uid)
	s.ID = uint64(sid)
	s.UserID = u.ID
	return nil
}

// UpdateLevelStatus advances a student's level/status pair with an
// optimistic compare-and-swap: the write only lands if the row still
// holds the level and status the caller read. Zero affected rows means
// the student changed underneath the caller (or disappeared) and is
// reported as ErrVersionConflict.
func (r *StudentRepo) UpdateLevelStatus(ctx context.Context, id uint64, fromLevel, fromStatus, toLevel, toStatus string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE students SET level=?, status=? WHERE id=? AND level=? AND status=?",
		toLevel, toStatus, id, fromLevel, fromStatus)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrVersionConflict
	}
	return nil
}
