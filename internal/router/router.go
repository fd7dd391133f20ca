package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // import the Echo web framework to handle routing
	"github.com/redis/go-redis/v9"

	"github.com/roetechhub/college-lms/internal/config"
	"github.com/roetechhub/college-lms/internal/handler"
	"github.com/roetechhub/college-lms/internal/middleware"
	"github.com/roetechhub/college-lms/internal/repository"
)

// Register wires every route of the API onto the Echo instance.
//
// Unauthenticated routes live under /v1/auth behind the login rate
// limiter. Everything else under /v1 passes the JWTAuth gate, which
// verifies the bearer token and loads the caller's identity, before any
// per-route role requirement is checked. Role sets per operation:
// registration and promotion are admin-only, course creation is open to
// lecturers and admins, and the listings plus /me accept any
// authenticated caller.
func Register(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	users middleware.IdentitySource, a *handler.AuthHandler,
	st *handler.StudentHandler, co *handler.CourseHandler) {

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	// Login endpoints. Both credential schemes are throttled so neither
	// passwords nor student codes can be guessed at line rate.
	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	auth := e.Group("/v1/auth", limiter)
	auth.POST("/login", a.StaffLogin)
	auth.POST("/login-student", a.StudentLogin)

	// Protected routes: token verification plus identity load.
	protected := e.Group("/v1", middleware.JWTAuth(cfg.JWTSecret, users))
	protected.GET("/me", a.Me)

	students := protected.Group("/students")
	students.GET("", st.List)
	students.POST("", st.Register, middleware.RequireRole(repository.RoleAdmin))
	students.POST("/:id/promote", st.Promote, middleware.RequireRole(repository.RoleAdmin))

	// The course catalog is read-heavy; GETs go through the Redis
	// response cache.
	cache := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)
	courses := protected.Group("/courses")
	courses.GET("", co.List, cache)
	courses.POST("", co.Create, middleware.RequireRole(repository.RoleLecturer, repository.RoleAdmin))
}
