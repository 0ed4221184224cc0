package stub

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/sira-console/internal/dto"
)

func (s *Server) handleListUsers(c *fiber.Ctx) error {
	var users []User
	if err := s.db.Order("username").Find(&users).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load users")
	}

	rows := make([]fiber.Map, 0, len(users))
	for _, u := range users {
		rows = append(rows, fiber.Map{
			"Username":       u.Username,
			"Role":           u.Role,
			"ClearanceLevel": u.ClearanceLevel,
			"Student_PK_ID":  u.StudentPKID,
			"InstructorID":   u.InstructorID,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

func (s *Server) handleCreateUser(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "A username, a password and a valid role are required")
	}

	var existing int64
	s.db.Model(&User{}).Where("username = ?", req.Username).Count(&existing)
	if existing > 0 {
		return fail(c, fiber.StatusConflict, "Username already exists")
	}

	clearance := 0
	if req.Clearance != nil {
		clearance = *req.Clearance
	}
	user := User{
		Username:       req.Username,
		PasswordHash:   hashPassword(req.Password),
		Role:           req.Role,
		ClearanceLevel: clearance,
		StudentPKID:    req.StudentPKID,
		InstructorID:   req.InstructorID,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not create the user")
	}

	writeAudit(s.db, claims.Username, "CREATE_USER", "users", 0, map[string]any{
		"username": req.Username,
		"role":     req.Role,
	})
	return okPayload(c, fiber.Map{})
}

func (s *Server) handleUpdateUserRole(c *fiber.Ctx) error {
	claims := sessionFrom(c)
	username := c.Params("username")

	var req dto.UpdateUserRoleRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "A valid role is required")
	}

	var user User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		return fail(c, fiber.StatusNotFound, "User not found")
	}

	updates := map[string]any{"role": req.Role}
	if req.Clearance != nil {
		updates["clearance_level"] = *req.Clearance
	}
	if err := s.db.Model(&user).Updates(updates).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not update the role")
	}

	writeAudit(s.db, claims.Username, "UPDATE_USER_ROLE", "users", 0, map[string]any{
		"username": username,
		"role":     req.Role,
	})
	return okPayload(c, fiber.Map{})
}

func (s *Server) handlePendingRequests(c *fiber.Ctx) error {
	var requests []RoleRequest
	err := s.db.Where("status = ?", "Pending").Order("request_id").Find(&requests).Error
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load role requests")
	}

	rows := make([]fiber.Map, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, fiber.Map{
			"RequestID":     r.RequestID,
			"Username":      r.Username,
			"CurrentRole":   r.CurrentRole,
			"RequestedRole": r.RequestedRole,
			"Reason":        r.Reason,
			"Status":        r.Status,
			"RequestDate":   r.RequestDate,
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}

// decideRequest resolves a pending role request. Pending is the only state a
// decision can move away from; a second decision on the same request fails.
func (s *Server) decideRequest(c *fiber.Ctx, approve bool) error {
	claims := sessionFrom(c)

	requestID, err := c.ParamsInt("id")
	if err != nil || requestID <= 0 {
		return fail(c, fiber.StatusBadRequest, "Invalid request ID")
	}

	var req dto.RoleRequestDecision
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return fail(c, fiber.StatusBadRequest, "Invalid request body")
		}
	}

	var request RoleRequest
	findErr := s.db.First(&request, "request_id = ?", requestID).Error
	if errors.Is(findErr, gorm.ErrRecordNotFound) {
		return fail(c, fiber.StatusNotFound, "Role request not found")
	}
	if findErr != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load the request")
	}
	if request.Status != "Pending" {
		return fail(c, fiber.StatusConflict, "Request has already been resolved")
	}

	status := "Denied"
	action := "DENY_ROLE_REQUEST"
	if approve {
		status = "Approved"
		action = "APPROVE_ROLE_REQUEST"
	}

	txErr := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]any{"status": status}
		if req.Comments != nil {
			updates["comments"] = *req.Comments
		}
		if err := tx.Model(&request).Updates(updates).Error; err != nil {
			return err
		}
		if approve {
			return tx.Model(&User{}).Where("username = ?", request.Username).
				Update("role", request.RequestedRole).Error
		}
		return nil
	})
	if txErr != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not resolve the request")
	}

	writeAudit(s.db, claims.Username, action, "role_requests", request.RequestID, map[string]any{
		"username":       request.Username,
		"requested_role": request.RequestedRole,
	})
	return okPayload(c, fiber.Map{})
}

func (s *Server) handleApproveRequest(c *fiber.Ctx) error {
	return s.decideRequest(c, true)
}

func (s *Server) handleDenyRequest(c *fiber.Ctx) error {
	return s.decideRequest(c, false)
}

func (s *Server) handleAdminGrades(c *fiber.Ctx) error {
	return s.handleGradesByCourse(c)
}

func (s *Server) handleAdminAttendance(c *fiber.Ctx) error {
	return s.handleAttendanceByCourse(c)
}

func (s *Server) handleAudit(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 100)
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	var entries []AuditLog
	err := s.db.Order("log_id DESC").Limit(limit).Find(&entries).Error
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Could not load the audit log")
	}

	rows := make([]fiber.Map, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, fiber.Map{
			"LogID":     e.LogID,
			"Username":  e.Username,
			"Action":    e.Action,
			"TableName": e.TableName,
			"RecordID":  e.RecordID,
			"Timestamp": e.Timestamp,
			"Detail":    string(e.Detail),
		})
	}
	return okPayload(c, fiber.Map{"rows": rows})
}
