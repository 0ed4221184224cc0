package dto

import "strings"

// Role enumerates the portal access tiers.
type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleInstructor Role = "Instructor"
	RoleTA         Role = "TA"
	RoleStudent    Role = "Student"
	RoleGuest      Role = "Guest"
)

// ParseRole normalizes a server-provided role string into a known Role.
// Unknown values map to Guest, the lowest tier.
func ParseRole(value string) Role {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "admin":
		return RoleAdmin
	case "instructor":
		return RoleInstructor
	case "ta":
		return RoleTA
	case "student":
		return RoleStudent
	default:
		return RoleGuest
	}
}

// LandingPath returns the dashboard path a freshly authenticated user of this
// role is sent to. Unknown roles fall back to the login page.
func (r Role) LandingPath() string {
	switch r {
	case RoleAdmin:
		return "/admin"
	case RoleInstructor:
		return "/instructor"
	case RoleTA:
		return "/ta"
	case RoleStudent:
		return "/student"
	case RoleGuest:
		return "/guest"
	default:
		return "/login"
	}
}

// User mirrors the identity payload returned by /api/login and /api/me.
type User struct {
	Username     string `json:"username"`
	Role         Role   `json:"role"`
	Clearance    int    `json:"clearance"`
	StudentPKID  *int64 `json:"student_pk_id"`
	InstructorID *int64 `json:"instructor_id"`
}

// LoginRequest is the credential payload for /api/login.
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// ProfileEditRequest is the payload for POST /api/me.
type ProfileEditRequest struct {
	FullName   string `json:"full_name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	DOB        string `json:"dob,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Department string `json:"department,omitempty"`
}

// RoleRequestCreate is the payload for POST /api/role-requests.
type RoleRequestCreate struct {
	RequestedRole string `json:"requested_role" validate:"required,oneof=Admin Instructor TA Student Guest"`
	Reason        string `json:"reason" validate:"required"`
}
