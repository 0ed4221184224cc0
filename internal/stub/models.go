package stub

import "gorm.io/datatypes"

// Storage models for the stub portal backend. They mirror the table layout
// the real backend exposes through its stored procedures, close enough for
// the dashboards to be indistinguishable from the production API.

// User is an account row. Passwords are bcrypt hashes even in the stub.
type User struct {
	Username       string `gorm:"primaryKey"`
	PasswordHash   string
	Role           string
	ClearanceLevel int
	FullName       string
	Email          string
	StudentPKID    *int64 `gorm:"column:student_pk_id"`
	InstructorID   *int64
}

// Student is a student master record.
type Student struct {
	PKID           int64  `gorm:"column:pk_id;primaryKey;autoIncrement"`
	StudentID      string
	FullName       string
	Email          string
	Phone          string
	DOB            string
	Department     string
	Classification int
}

// Course is a course row; PublicInfo is visible without authentication.
type Course struct {
	CourseID   int64 `gorm:"primaryKey;autoIncrement"`
	CourseName string
	PublicInfo string
}

// Grade is one grade entry. The publish flag gates student visibility.
type Grade struct {
	GradeID       int64   `gorm:"primaryKey;autoIncrement"`
	StudentPKID   int64   `gorm:"column:student_pk_id"`
	CourseID      int64
	GradeValue    float64
	IsPublished   bool
	DateEntered   string
	PublishedDate *string
}

// Attendance is one append-only attendance record.
type Attendance struct {
	AttendanceID int64 `gorm:"primaryKey;autoIncrement"`
	StudentPKID  int64 `gorm:"column:student_pk_id"`
	CourseID     int64
	Status       bool
	DateRecorded string
	RecordedBy   string
}

// RoleRequest is a pending/resolved role change ask. Pending is the only
// non-terminal status.
type RoleRequest struct {
	RequestID     int64 `gorm:"primaryKey;autoIncrement"`
	Username      string
	CurrentRole   string
	RequestedRole string
	Reason        string
	Status        string
	RequestDate   string
	Comments      *string
}

// AuditLog records every mutation with a structured detail payload.
type AuditLog struct {
	LogID     int64 `gorm:"primaryKey;autoIncrement"`
	Username  string
	Action    string
	TableName string
	RecordID  int64
	Timestamp string
	Detail    datatypes.JSON
}
