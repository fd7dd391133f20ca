package repository

import (
	"context"
	"database/sql"
	"time"
)

// Course mirrors the 'courses' table. LecturerName is populated on list
// queries from the joined users row and is empty otherwise.
type Course struct {
	ID           uint64
	CourseCode   string
	Title        string
	Description  string
	Units        int
	Level        string
	Department   string
	LecturerID   uint64
	LecturerName string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type CourseRepo struct{ DB *sql.DB }

func NewCourseRepo(db *sql.DB) *CourseRepo { return &CourseRepo{DB: db} }

// Create inserts a course and returns its ID. A duplicate course code is
// reported as ErrCourseCodeExists.
func (r *CourseRepo) Create(ctx context.Context, c *Course) error {
	var lecturer any // NULL when the course has no assigned lecturer
	if c.LecturerID != 0 {
		lecturer = c.LecturerID
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO courses (course_code, title, description, units, level, department, lecturer_id) VALUES (?,?,?,?,?,?,?)",
		c.CourseCode, c.Title, c.Description, c.Units, c.Level, c.Department, lecturer)
	if err != nil {
		if isDuplicate(err) {
			return ErrCourseCodeExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	c.ID = uint64(id)
	return nil
}

// List returns courses joined with the lecturer's name, optionally
// filtered by level and department, ordered by course code.
func (r *CourseRepo) List(ctx context.Context, level, department string) ([]Course, error) {
	query := `SELECT c.id,c.course_code,c.title,COALESCE(c.description,''),c.units,c.level,
		COALESCE(c.department,''),COALESCE(c.lecturer_id,0),COALESCE(u.name,''),c.created_at,c.updated_at
		FROM courses c LEFT JOIN users u ON u.id = c.lecturer_id WHERE 1=1`
	args := []any{}
	if level != "" {
		query += " AND c.level=?"
		args = append(args, level)
	}
	if department != "" {
		query += " AND c.department=?"
		args = append(args, department)
	}
	query += " ORDER BY c.course_code ASC"

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := []Course{}
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.CourseCode, &c.Title, &c.Description, &c.Units,
			&c.Level, &c.Department, &c.LecturerID, &c.LecturerName, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, err
		}
		courses = append(courses, c)
	}
	return courses, rows.Err()
}
