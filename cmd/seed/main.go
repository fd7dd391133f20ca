// Command seed initializes the database schema and loads a starter data
// set: one admin, one lecturer, one enrolled student and a small course
// catalog. It is destructive and meant for development environments.
package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/roetechhub/college-lms/internal/config"
	"github.com/roetechhub/college-lms/internal/database"
	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/service"
	"github.com/roetechhub/college-lms/internal/utils"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password_hash VARCHAR(255) NOT NULL,
		role ENUM('student','lecturer','admin') NOT NULL,
		is_active TINYINT(1) NOT NULL DEFAULT 1,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS students (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL UNIQUE,
		student_code VARCHAR(20) NOT NULL UNIQUE,
		department VARCHAR(255) NOT NULL,
		level ENUM('100','200','300','400','500') NOT NULL DEFAULT '100',
		cgpa DECIMAL(3,2) NOT NULL DEFAULT 0.00,
		status ENUM('active','carry_over','graduated') NOT NULL DEFAULT 'active',
		admission_year INT NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_students_user FOREIGN KEY (user_id) REFERENCES users(id)
	)`,
	`CREATE TABLE IF NOT EXISTS courses (
		id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
		course_code VARCHAR(16) NOT NULL UNIQUE,
		title VARCHAR(255) NOT NULL,
		description TEXT,
		units INT NOT NULL,
		level ENUM('100','200','300','400','500') NOT NULL,
		department VARCHAR(255),
		lecturer_id BIGINT UNSIGNED NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		CONSTRAINT fk_courses_lecturer FOREIGN KEY (lecturer_id) REFERENCES users(id)
	)`,
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Fatalf("schema: %v", err)
		}
	}
	log.Print("schema ready")

	// Clear existing data, children first.
	for _, table := range []string{"courses", "students", "users"} {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			log.Fatalf("clear %s: %v", table, err)
		}
	}
	log.Print("cleared existing data")

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	courses := repository.NewCourseRepo(db)

	adminHash, err := utils.HashPassword("admin123", cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	adminID, err := users.Create(ctx, "System Administrator", "admin@college.com", adminHash, repository.RoleAdmin)
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}

	lecturerHash, err := utils.HashPassword("lecturer123", cfg.BcryptCost)
	if err != nil {
		log.Fatalf("hash: %v", err)
	}
	lecturerID, err := users.Create(ctx, "Dr. John Smith", "lecturer@college.com", lecturerHash, repository.RoleLecturer)
	if err != nil {
		log.Fatalf("create lecturer: %v", err)
	}

	registrar := service.NewRegistrar(students)
	_, profile, err := registrar.RegisterStudent(ctx, service.Registration{
		Name:       "Test Student",
		Email:      "student@college.com",
		Department: "Computer Science",
		Level:      repository.Level100,
	})
	if err != nil {
		log.Fatalf("register student: %v", err)
	}

	catalog := []repository.Course{
		{CourseCode: "CSC101", Title: "Introduction to Computer Science",
			Description: "Fundamentals of programming and computer systems",
			Units:       3, Level: repository.Level100, Department: "Computer Science", LecturerID: lecturerID},
		{CourseCode: "CSC201", Title: "Data Structures & Algorithms",
			Description: "Advanced data structures and algorithm design",
			Units:       4, Level: repository.Level200, Department: "Computer Science", LecturerID: lecturerID},
		{CourseCode: "MTH101", Title: "Mathematics I",
			Description: "Calculus and linear algebra fundamentals",
			Units:       3, Level: repository.Level100, Department: "Computer Science", LecturerID: lecturerID},
		{CourseCode: "PHY101", Title: "Physics I",
			Description: "Mechanics and properties of matter",
			Units:       3, Level: repository.Level100, Department: "Computer Science", LecturerID: lecturerID},
	}
	for i := range catalog {
		if err := courses.Create(ctx, &catalog[i]); err != nil {
			log.Fatalf("create course %s: %v", catalog[i].CourseCode, err)
		}
	}

	log.Printf("seeded: admin id=%d, lecturer id=%d, student code=%s, %d courses",
		adminID, lecturerID, profile.StudentCode, len(catalog))
	log.Print("staff logins: admin@college.com/admin123, lecturer@college.com/lecturer123")
}
