package stub

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sira-console/internal/dto"
)

func (s *Server) handlePublicCourses(c *fiber.Ctx) error {
	var courses []Course
	if err := s.db.Order("course_id").Find(&courses).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load courses")
	}

	rows := make([]fiber.Map, 0, len(courses))
	for _, course := range courses {
		rows = append(rows, fiber.Map{
			"CourseID":   course.CourseID,
			"CourseName": course.CourseName,
			"PublicInfo": course.PublicInfo,
		})
	}
	return okPayload(c, fiber.Map{"courses": rows})
}

func (s *Server) handleSubmitRoleRequest(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.RoleRequestCreate
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "A requested role and a reason are required")
	}
	if req.RequestedRole == claims.Role {
		return fail(c, fiber.StatusBadRequest, "You already have that role")
	}

	request := RoleRequest{
		Username:      claims.Username,
		CurrentRole:   claims.Role,
		RequestedRole: req.RequestedRole,
		Reason:        req.Reason,
		Status:        "Pending",
		RequestDate:   time.Now().Format("2006-01-02"),
	}
	if err := s.db.Create(&request).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not submit the request")
	}

	writeAudit(s.db, claims.Username, "SUBMIT_ROLE_REQUEST", "role_requests", request.RequestID, map[string]any{
		"requested_role": req.RequestedRole,
	})
	return okPayload(c, fiber.Map{"request_id": request.RequestID})
}
