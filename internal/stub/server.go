// Package stub is a seeded in-memory double of the portal API, used by the
// console in development mode and by the test suites. It speaks the exact
// envelope convention of the production backend, including its inconsistent
// field casing: PascalCase rows on most endpoints, snake_case on a few. The
// production API itself stays an external collaborator.
package stub

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// Config holds the stub's settings.
type Config struct {
	JWTSecret   string
	DatabaseURL string
}

// Server is the stub portal backend.
type Server struct {
	app      *fiber.App
	db       *gorm.DB
	cfg      Config
	validate *validator.Validate
	logger   zerolog.Logger
}

// New builds a seeded stub server.
func New(cfg Config, logger zerolog.Logger) (*Server, error) {
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-only-secret"
	}

	db, err := openStore(cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	if err := seed(db); err != nil {
		return nil, err
	}

	s := &Server{
		app:      fiber.New(fiber.Config{AppName: "SIRA Stub", DisableStartupMessage: true}),
		db:       db,
		cfg:      cfg,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		logger:   logger.With().Str("component", "stub").Logger(),
	}
	s.routes()

	return s, nil
}

// App exposes the underlying fiber app for tests and custom listeners.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves the stub on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown stops the stub gracefully.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

func (s *Server) routes() {
	app := s.app

	app.Get("/health", func(c *fiber.Ctx) error {
		return okPayload(c, fiber.Map{})
	})

	app.Post("/api/login", s.handleLogin)
	app.Post("/api/login/guest", s.handleGuestLogin)
	app.Post("/api/logout", s.handleLogout)
	app.Get("/api/me", s.requireSession, s.handleMe)
	app.Post("/api/me", s.requireSession, s.handleProfileEdit)

	app.Get("/api/public/courses", s.handlePublicCourses)
	app.Post("/api/role-requests", s.requireSession, s.handleSubmitRoleRequest)

	student := app.Group("/api/student", s.requireSession, s.requireRole("Student"))
	student.Get("/profile", s.handleStudentProfile)
	student.Get("/own-data", s.handleStudentOwnData)
	student.Get("/grades", s.handleStudentGrades)
	student.Get("/attendance", s.handleStudentAttendance)

	instructor := app.Group("/api/instructor", s.requireSession, s.requireRole("Instructor", "Admin"))
	instructor.Get("/students", s.handleInstructorStudents)
	instructor.Post("/students", s.handleAddStudent)
	instructor.Get("/student-profile", s.handleStudentProfileLookup)
	instructor.Get("/grades", s.handleGradesByCourse)
	instructor.Post("/grades", s.handleInsertGrade)
	instructor.Get("/grades/aggregate", s.handleAggregateGrades)
	instructor.Post("/grades/publish", s.handlePublishGrade)
	instructor.Get("/attendance", s.handleAttendanceByCourse)
	instructor.Post("/attendance/record", s.handleRecordAttendance)

	ta := app.Group("/api/ta", s.requireSession, s.requireRole("TA"))
	ta.Get("/students", s.handleTAStudents)
	ta.Get("/attendance", s.handleAttendanceByCourse)
	ta.Post("/attendance/record", s.handleRecordAttendance)
	ta.Post("/attendance/update", s.handleUpdateAttendance)

	admin := app.Group("/api/admin", s.requireSession, s.requireRole("Admin"))
	admin.Get("/users", s.handleListUsers)
	admin.Post("/users", s.handleCreateUser)
	admin.Post("/users/:username/role", s.handleUpdateUserRole)
	admin.Get("/role-requests/pending", s.handlePendingRequests)
	admin.Post("/role-requests/:id/approve", s.handleApproveRequest)
	admin.Post("/role-requests/:id/deny", s.handleDenyRequest)
	admin.Get("/grades", s.handleAdminGrades)
	admin.Post("/grades/insert", s.handleInsertGrade)
	admin.Post("/grades/publish", s.handlePublishGrade)
	admin.Get("/attendance", s.handleAdminAttendance)
	admin.Post("/attendance/record", s.handleRecordAttendance)
	admin.Get("/audit", s.handleAudit)
}

// okPayload sends a success envelope with extra payload fields.
func okPayload(c *fiber.Ctx, payload fiber.Map) error {
	body := fiber.Map{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	return c.JSON(body)
}

// fail sends a failure envelope with the given status and message.
func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"ok": false, "error": message})
}

func (s *Server) requireSession(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookie)
	if token == "" {
		return fail(c, fiber.StatusUnauthorized, "Not logged in")
	}

	claims, err := parseSession(s.cfg.JWTSecret, token)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Not logged in")
	}

	c.Locals("session", claims)
	return c.Next()
}

func (s *Server) requireRole(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims := sessionFrom(c)
		if claims == nil {
			return fail(c, fiber.StatusUnauthorized, "Not logged in")
		}
		if _, ok := allowed[claims.Role]; !ok {
			return fail(c, fiber.StatusForbidden, "Forbidden")
		}
		return c.Next()
	}
}

func sessionFrom(c *fiber.Ctx) *sessionClaims {
	claims, _ := c.Locals("session").(*sessionClaims)
	return claims
}
