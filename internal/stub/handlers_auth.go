package stub

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"

	"github.com/noah-isme/sira-console/internal/dto"
)

func userPayload(username, role string, clearance int, studentPK, instructorID *int64) fiber.Map {
	return fiber.Map{
		"username":      username,
		"role":          role,
		"clearance":     clearance,
		"student_pk_id": studentPK,
		"instructor_id": instructorID,
	}
}

func (s *Server) setSessionCookie(c *fiber.Ctx, user User) error {
	token, err := signSession(s.cfg.JWTSecret, user)
	if err != nil {
		return err
	}
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    token,
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(sessionTTL),
	})
	return nil
}

func (s *Server) handleLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Username and password are required")
	}

	var user User
	err := s.db.First(&user, "username = ?", req.Username).Error
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && !checkPassword(user.PasswordHash, req.Password)) {
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	}
	if err != nil {
		return fail(c, fiber.StatusInternalServerError, "Login failed")
	}

	if err := s.setSessionCookie(c, user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Login failed")
	}

	s.logger.Info().Str("username", user.Username).Str("role", user.Role).Msg("login")
	return okPayload(c, fiber.Map{
		"user": userPayload(user.Username, user.Role, user.ClearanceLevel, user.StudentPKID, user.InstructorID),
	})
}

func (s *Server) handleGuestLogin(c *fiber.Ctx) error {
	var user User
	if err := s.db.First(&user, "username = ?", "guest").Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Guest access unavailable")
	}
	if err := s.setSessionCookie(c, user); err != nil {
		return fail(c, fiber.StatusInternalServerError, "Guest access unavailable")
	}
	return okPayload(c, fiber.Map{
		"user": userPayload(user.Username, user.Role, user.ClearanceLevel, nil, nil),
	})
}

func (s *Server) handleLogout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookie,
		Value:    "",
		HTTPOnly: true,
		Expires:  time.Now().Add(-time.Hour),
	})
	return okPayload(c, fiber.Map{})
}

func (s *Server) handleMe(c *fiber.Ctx) error {
	claims := sessionFrom(c)

	profile := fiber.Map{
		"Username":       claims.Username,
		"Role":           claims.Role,
		"ClearanceLevel": claims.Clearance,
	}
	switch {
	case claims.StudentPKID != nil:
		var student Student
		if err := s.db.First(&student, "pk_id = ?", *claims.StudentPKID).Error; err == nil {
			profile["FullName"] = student.FullName
			profile["Email"] = student.Email
			profile["Department"] = student.Department
		}
	case claims.Role == "Guest":
		profile["Note"] = "Guest has no editable profile."
	default:
		var user User
		if err := s.db.First(&user, "username = ?", claims.Username).Error; err == nil {
			profile["FullName"] = user.FullName
			profile["Email"] = user.Email
		}
	}

	return okPayload(c, fiber.Map{
		"user":    userPayload(claims.Username, claims.Role, claims.Clearance, claims.StudentPKID, claims.InstructorID),
		"profile": profile,
	})
}

func (s *Server) handleProfileEdit(c *fiber.Ctx) error {
	claims := sessionFrom(c)
	if claims.Role == "Guest" {
		return fail(c, fiber.StatusForbidden, "Guest has no editable profile.")
	}

	var req dto.ProfileEditRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}
	if err := s.validate.Struct(req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Full name and email are required.")
	}

	if claims.StudentPKID != nil {
		updates := map[string]any{"full_name": req.FullName, "email": req.Email}
		if req.DOB != "" {
			updates["dob"] = req.DOB
		}
		if req.Department != "" {
			updates["department"] = req.Department
		}
		if err := s.db.Model(&Student{}).Where("pk_id = ?", *claims.StudentPKID).Updates(updates).Error; err != nil {
			return fail(c, fiber.StatusInternalServerError, "Profile update failed")
		}
		writeAudit(s.db, claims.Username, "UPDATE_PROFILE", "students", *claims.StudentPKID, map[string]any{
			"full_name": req.FullName,
			"email":     req.Email,
		})
		return okPayload(c, fiber.Map{})
	}

	// Accounts without a linked student record edit their user-level fields.
	updates := map[string]any{"full_name": req.FullName, "email": req.Email}
	if err := s.db.Model(&User{}).Where("username = ?", claims.Username).Updates(updates).Error; err != nil {
		return fail(c, fiber.StatusInternalServerError, "Profile update failed")
	}
	writeAudit(s.db, claims.Username, "UPDATE_PROFILE", "users", 0, map[string]any{
		"full_name": req.FullName,
		"email":     req.Email,
	})
	return okPayload(c, fiber.Map{})
}
