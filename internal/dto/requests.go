package dto

// Mutation payloads posted by the dashboards. Field names follow the wire
// contract of the mutation endpoints, which is snake_case throughout.

// CreateUserRequest is the payload for POST /api/admin/users.
type CreateUserRequest struct {
	Username     string `json:"username" validate:"required"`
	Password     string `json:"password" validate:"required"`
	Role         string `json:"role" validate:"required,oneof=Admin Instructor TA Student Guest"`
	Clearance    *int   `json:"clearance,omitempty" validate:"omitempty,gte=0,lte=3"`
	StudentPKID  *int64 `json:"student_pk_id,omitempty"`
	InstructorID *int64 `json:"instructor_id,omitempty"`
}

// UpdateUserRoleRequest is the payload for POST /api/admin/users/:username/role.
type UpdateUserRoleRequest struct {
	Role      string `json:"role" validate:"required,oneof=Admin Instructor TA Student Guest"`
	Clearance *int   `json:"clearance,omitempty" validate:"omitempty,gte=0,lte=3"`
}

// RoleRequestDecision is the payload for approve/deny of a role request.
type RoleRequestDecision struct {
	Comments *string `json:"comments"`
}

// GradeInsertRequest is the payload for POST /api/admin/grades/insert and
// POST /api/instructor/grades (which names the student field differently).
type GradeInsertRequest struct {
	StudentID  int64   `json:"student_id,omitempty" validate:"required_without=StudentPK,omitempty,gt=0"`
	StudentPK  int64   `json:"student_pk_id,omitempty" validate:"required_without=StudentID,omitempty,gt=0"`
	CourseID   int64   `json:"course_id" validate:"required,gt=0"`
	GradeValue float64 `json:"grade_value,omitempty"`
	Grade      float64 `json:"grade,omitempty"`
}

// GradePublishRequest toggles a grade's publish flag.
type GradePublishRequest struct {
	GradeID int64 `json:"grade_id" validate:"required,gt=0"`
	Publish bool  `json:"publish"`
}

// AttendanceRecordRequest is the payload shared by the TA, instructor and
// admin attendance-record endpoints.
type AttendanceRecordRequest struct {
	StudentID int64 `json:"student_id" validate:"required,gt=0"`
	CourseID  int64 `json:"course_id" validate:"required,gt=0"`
	Status    bool  `json:"status"`
}

// AttendanceUpdateRequest flips an existing attendance record's status.
type AttendanceUpdateRequest struct {
	AttendanceID int64 `json:"attendance_id" validate:"required,gt=0"`
	NewStatus    bool  `json:"new_status"`
}

// AddStudentRequest is the payload for POST /api/instructor/students.
type AddStudentRequest struct {
	StudentID      string `json:"student_id" validate:"required"`
	FullName       string `json:"full_name" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	DOB            string `json:"dob" validate:"required,datetime=2006-01-02"`
	Department     string `json:"department" validate:"required"`
	Classification int    `json:"classification" validate:"omitempty,gte=1"`
}
