package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // Load .env files in development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/roetechhub/college-lms/internal/config"
	"github.com/roetechhub/college-lms/internal/database"
	"github.com/roetechhub/college-lms/internal/handler"
	"github.com/roetechhub/college-lms/internal/queue"
	"github.com/roetechhub/college-lms/internal/repository"
	"github.com/roetechhub/college-lms/internal/router"
	"github.com/roetechhub/college-lms/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	// Load exits the process when a required variable (including
	// JWT_SECRET) is missing, so a misconfigured service never serves a
	// single request.
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis is optional; a nil client disables rate limiting and the
	// course catalog cache.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Print("redis unavailable; rate limiting and response cache disabled")
	}

	users := repository.NewUserRepo(db)
	students := repository.NewStudentRepo(db)
	courses := repository.NewCourseRepo(db)

	registrar := service.NewRegistrar(students)
	lifecycle := service.NewLifecycle(students)

	authHandler := handler.NewAuthHandler(cfg, users, students)
	studentHandler := handler.NewStudentHandler(registrar, lifecycle, students)
	courseHandler := handler.NewCourseHandler(courses)

	// Background consumer appending lifecycle events to logs/academic.log.
	// It maintains its own reconnect loop and never brings the API down.
	go func() {
		if err := queue.StartAcademicConsumer(); err != nil {
			log.Printf("academic consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	router.Register(e, cfg, rdb, users, authHandler, studentHandler, courseHandler)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
