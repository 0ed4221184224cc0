package stub

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/sira-console/internal/dto"
)

// TA endpoints reuse the instructor attendance handlers; only the roster view
// and the status flip are TA-specific. TAs see a trimmed student roster with
// no contact details.

func (s *Server) handleTAStudents(c *fiber.Ctx) error {
	var students []Student
	if err := s.db.Order("pk_id").Find(&students).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load students")
	}

	rows := make([]fiber.Map, 0, len(students))
	for _, st := range students {
		rows = append(rows, fiber.Map{
			"Student_PK_ID":  st.PKID,
			"StudentID":      st.StudentID,
			"FullName":       st.FullName,
			"Department":     st.Department,
			"Classification": st.Classification,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handleUpdateAttendance(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.AttendanceUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "An attendance ID is required")
	}

	var record Attendance
	if err := s.db.First(&record, "attendance_id = ?", req.AttendanceID).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "Attendance record not found")
	}

	updates := map[string]any{"status": req.NewStatus, "recorded_by": claims.Username}
	if err := s.db.Model(&record).Updates(updates).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not update attendance")
	}

	writeAudit(s.db, claims.Username, "UPDATE_ATTENDANCE", "attendance", record.AttendanceID, map[string]any{
		"new_status": req.NewStatus,
	})
	return okPayload(c, fiber.Map{})
}
