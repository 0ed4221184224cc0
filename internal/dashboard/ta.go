package dashboard

import (
	"context"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

// TAPage wires the teaching-assistant dashboard: assigned students, per-course
// attendance, attendance recording and updates, and role requests.
type TAPage struct {
	*Page

	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger

	students *Loader
	att      *Loader

	courseID int64
}

// NewTAPage builds the TA dashboard against the given client.
func NewTAPage(client *api.Client, validate *validator.Validate, logger zerolog.Logger) *TAPage {
	p := &TAPage{
		Page:     newPage("ta", dto.RoleTA, logger),
		client:   client,
		validate: validate,
		logger:   logger.With().Str("page", "ta").Logger(),
	}

	studentsTable := view.NewTable("assignedStudents",
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "StudentID", Field: "StudentID"},
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Department", Field: "Department"},
	)
	attTable := view.NewTable("attendance",
		view.Column{Title: "ID", Field: "AttendanceID"},
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Status", Field: "Status"},
		view.Column{Title: "Recorded", Field: "DateRecorded"},
	)

	p.students = NewLoader(client, p.surface, studentsTable, LoaderSpec{
		Path: "/api/ta/students", Fallback: "Failed to load assigned students.",
	}, logger)
	p.att = NewLoader(client, p.surface, attTable, LoaderSpec{
		PathFunc: func() string { return "/api/ta/attendance?course_id=" + strconv.FormatInt(p.courseID, 10) },
		Fallback: "Failed to load attendance.",
	}, logger)

	p.loaders = []*Loader{p.students}
	return p
}

// SelectCourse scopes the attendance load to a course.
func (p *TAPage) SelectCourse(courseID string) bool {
	id, ok := intField(p.surface, "CourseID", courseID)
	if !ok {
		return false
	}

	p.courseID = id
	if len(p.loaders) == 1 {
		p.loaders = append(p.loaders, p.att)
	}
	return true
}

// LoadStudents refreshes the assigned students table.
func (p *TAPage) LoadStudents(ctx context.Context) bool { return p.students.Load(ctx) }

// LoadAttendance refreshes the per-course attendance table.
func (p *TAPage) LoadAttendance(ctx context.Context) bool { return p.att.Load(ctx) }

// RecordAttendance appends an attendance record. Empty or non-numeric IDs are
// rejected locally without touching the network.
func (p *TAPage) RecordAttendance(ctx context.Context, studentID, courseID string, present bool) bool {
	sid, ok := intField(p.surface, "StudentID", studentID)
	if !ok {
		return false
	}
	cid, ok := intField(p.surface, "CourseID", courseID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Attendance recorded successfully.",
		Reload:  []*Loader{p.att},
	}, p.logger)
	return d.Submit(ctx, "/api/ta/attendance/record", dto.AttendanceRecordRequest{
		StudentID: sid,
		CourseID:  cid,
		Status:    present,
	})
}

// UpdateAttendance flips an existing record's present/absent status.
func (p *TAPage) UpdateAttendance(ctx context.Context, attendanceID string, present bool) bool {
	id, ok := intField(p.surface, "AttendanceID", attendanceID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Attendance updated.",
		Reload:  []*Loader{p.att},
	}, p.logger)
	return d.Submit(ctx, "/api/ta/attendance/update", dto.AttendanceUpdateRequest{
		AttendanceID: id,
		NewStatus:    present,
	})
}

// SubmitRoleRequest asks for a role change, subject to admin approval.
func (p *TAPage) SubmitRoleRequest(ctx context.Context, requestedRole, reason string) bool {
	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Role request submitted.",
	}, p.logger)
	return d.Submit(ctx, "/api/role-requests", dto.RoleRequestCreate{
		RequestedRole: requestedRole,
		Reason:        reason,
	})
}
