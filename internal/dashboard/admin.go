package dashboard

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

// AdminPage wires the admin dashboard: user management, pending role
// requests, grades, attendance, public courses and the audit log.
type AdminPage struct {
	*Page

	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger

	users    *Loader
	requests *Loader
	grades   *Loader
	att      *Loader
	courses  *Loader
	audit    *Loader
	me       *Loader

	auditLimit       int
	attStudentFilter string
	attCourseFilter  string
}

// NewAdminPage builds the admin dashboard against the given client.
func NewAdminPage(client *api.Client, validate *validator.Validate, auditLimit int, logger zerolog.Logger) *AdminPage {
	p := &AdminPage{
		Page:       newPage("admin", dto.RoleAdmin, logger),
		client:     client,
		validate:   validate,
		logger:     logger.With().Str("page", "admin").Logger(),
		auditLimit: auditLimit,
	}
	if p.auditLimit <= 0 {
		p.auditLimit = 100
	}

	usersTable := view.NewTable("users",
		view.Column{Title: "Username", Field: "Username"},
		view.Column{Title: "Role", Field: "Role"},
		view.Column{Title: "Clearance", Field: "ClearanceLevel"},
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "InstructorID", Field: "InstructorID"},
	)
	requestsTable := view.NewTable("roleRequests",
		view.Column{Title: "ID", Field: "RequestID"},
		view.Column{Title: "User", Field: "Username"},
		view.Column{Title: "Current", Field: "CurrentRole"},
		view.Column{Title: "Requested", Field: "RequestedRole"},
		view.Column{Title: "Reason", Field: "Reason"},
		view.Column{Title: "Date", Field: "RequestDate"},
		view.Column{Title: "Status", Field: "Status"},
	)
	gradesTable := view.NewTable("grades",
		view.Column{Title: "ID", Field: "GradeID"},
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Grade", Field: "GradeValue"},
		view.Column{Title: "Published", Field: "IsPublished"},
		view.Column{Title: "Entered", Field: "DateEntered"},
		view.Column{Title: "PublishedDate", Field: "PublishedDate"},
	)
	attTable := view.NewTable("attendance",
		view.Column{Title: "ID", Field: "AttendanceID"},
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Status", Field: "Status"},
		view.Column{Title: "Recorded", Field: "DateRecorded"},
		view.Column{Title: "By", Field: "RecordedBy"},
	)
	coursesTable := view.NewTable("publicCourses",
		view.Column{Title: "ID", Field: "CourseID"},
		view.Column{Title: "Course", Field: "CourseName"},
		view.Column{Title: "Info", Field: "PublicInfo", Rich: true},
	)
	auditTable := view.NewTable("audit",
		view.Column{Title: "ID", Field: "LogID"},
		view.Column{Title: "User", Field: "Username"},
		view.Column{Title: "Action", Field: "Action"},
		view.Column{Title: "Table", Field: "TableName"},
		view.Column{Title: "Record", Field: "RecordID"},
		view.Column{Title: "At", Field: "Timestamp"},
	)
	auditTable.MarkSecret()
	meTable := view.NewTable("myProfile",
		view.Column{Title: "Username", Field: "Username"},
		view.Column{Title: "Role", Field: "Role"},
		view.Column{Title: "Clearance", Field: "ClearanceLevel"},
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Email", Field: "Email"},
	)

	p.users = NewLoader(client, p.surface, usersTable, LoaderSpec{
		Path: "/api/admin/users", Fallback: "Failed to load users.",
	}, logger)
	p.requests = NewLoader(client, p.surface, requestsTable, LoaderSpec{
		Path: "/api/admin/role-requests/pending", Fallback: "Failed to load role requests.",
	}, logger)
	p.grades = NewLoader(client, p.surface, gradesTable, LoaderSpec{
		Path: "/api/admin/grades", Fallback: "Failed to load grades.",
	}, logger)
	p.att = NewLoader(client, p.surface, attTable, LoaderSpec{
		PathFunc: p.attendancePath, Fallback: "Failed to load attendance.",
	}, logger)
	p.courses = NewLoader(client, p.surface, coursesTable, LoaderSpec{
		Path: "/api/public/courses", Keys: []string{"rows", "courses"}, Fallback: "Failed to load public courses.",
	}, logger)
	p.audit = NewLoader(client, p.surface, auditTable, LoaderSpec{
		PathFunc: p.auditPath, Fallback: "Failed to load audit logs.",
	}, logger)
	p.me = NewLoader(client, p.surface, meTable, LoaderSpec{
		Path: "/api/me", Keys: []string{"rows", "profile"}, Fallback: "Failed to load profile.",
	}, logger)

	p.loaders = []*Loader{p.users, p.requests, p.grades, p.att, p.courses, p.audit, p.me}
	return p
}

func (p *AdminPage) attendancePath() string {
	q := url.Values{}
	if s := strings.TrimSpace(p.attStudentFilter); s != "" {
		q.Set("student_id", s)
	}
	if c := strings.TrimSpace(p.attCourseFilter); c != "" {
		q.Set("course_id", c)
	}
	if len(q) == 0 {
		return "/api/admin/attendance"
	}
	return "/api/admin/attendance?" + q.Encode()
}

func (p *AdminPage) auditPath() string {
	return "/api/admin/audit?limit=" + strconv.Itoa(p.auditLimit)
}

// SetAuditLimit changes how many audit rows the next load fetches.
func (p *AdminPage) SetAuditLimit(limit int) {
	if limit > 0 {
		p.auditLimit = limit
	}
}

// SetAttendanceFilter scopes the attendance load to a student and/or course.
func (p *AdminPage) SetAttendanceFilter(studentID, courseID string) {
	p.attStudentFilter = studentID
	p.attCourseFilter = courseID
}

// Stats returns the count displays for the stat cards.
func (p *AdminPage) Stats() map[string]int {
	return map[string]int{
		"users":    p.users.Table().Len(),
		"requests": p.requests.Table().Len(),
		"grades":   p.grades.Table().Len(),
		"audit":    p.audit.Table().Len(),
	}
}

// LoadUsers refreshes the users table.
func (p *AdminPage) LoadUsers(ctx context.Context) bool { return p.users.Load(ctx) }

// LoadRequests refreshes the pending role requests table.
func (p *AdminPage) LoadRequests(ctx context.Context) bool { return p.requests.Load(ctx) }

// LoadGrades refreshes the grades table.
func (p *AdminPage) LoadGrades(ctx context.Context) bool { return p.grades.Load(ctx) }

// LoadAttendance refreshes the attendance table with the active filters.
func (p *AdminPage) LoadAttendance(ctx context.Context) bool { return p.att.Load(ctx) }

// LoadAudit refreshes the audit log table.
func (p *AdminPage) LoadAudit(ctx context.Context) bool { return p.audit.Load(ctx) }

// LoadProfile refreshes the admin's own profile panel.
func (p *AdminPage) LoadProfile(ctx context.Context) bool { return p.me.Load(ctx) }

// EditProfile saves the admin's own name and email, then reloads the panel.
func (p *AdminPage) EditProfile(ctx context.Context, req dto.ProfileEditRequest) bool {
	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Profile updated.",
		Reload:  []*Loader{p.me},
	}, p.logger)
	return d.Submit(ctx, "/api/me", req)
}

// CreateUser posts a new user account and reloads the users table.
func (p *AdminPage) CreateUser(ctx context.Context, req dto.CreateUserRequest) bool {
	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Created successfully.",
		Reload:  []*Loader{p.users},
	}, p.logger)
	return d.Submit(ctx, "/api/admin/users", req)
}

// UpdateUserRole changes a user's role and clearance.
func (p *AdminPage) UpdateUserRole(ctx context.Context, username string, req dto.UpdateUserRoleRequest) bool {
	if strings.TrimSpace(username) == "" {
		p.surface.Set("Please enter a valid username.", false)
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "User updated successfully.",
		Reload:  []*Loader{p.users},
	}, p.logger)
	path := fmt.Sprintf("/api/admin/users/%s/role", url.PathEscape(username))
	return d.Submit(ctx, path, req)
}

// ApproveRequest approves a pending role request, then reloads both the
// requests and users tables since the approval may have changed a role.
func (p *AdminPage) ApproveRequest(ctx context.Context, requestID, comments string) bool {
	id, ok := intField(p.surface, "RequestID", requestID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Request approved.",
		Reload:  []*Loader{p.requests, p.users},
	}, p.logger)
	return d.Submit(ctx, fmt.Sprintf("/api/admin/role-requests/%d/approve", id), decision(comments))
}

// DenyRequest denies a pending role request.
func (p *AdminPage) DenyRequest(ctx context.Context, requestID, comments string) bool {
	id, ok := intField(p.surface, "RequestID", requestID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Request denied.",
		Reload:  []*Loader{p.requests},
	}, p.logger)
	return d.Submit(ctx, fmt.Sprintf("/api/admin/role-requests/%d/deny", id), decision(comments))
}

// InsertGrade records a new grade and reloads the grades table.
func (p *AdminPage) InsertGrade(ctx context.Context, studentID, courseID, grade string) bool {
	sid, ok := intField(p.surface, "StudentID", studentID)
	if !ok {
		return false
	}
	cid, ok := intField(p.surface, "CourseID", courseID)
	if !ok {
		return false
	}
	value, ok := floatField(p.surface, "Grade", grade)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Grade inserted.",
		Reload:  []*Loader{p.grades},
	}, p.logger)
	return d.Submit(ctx, "/api/admin/grades/insert", dto.GradeInsertRequest{
		StudentID: sid,
		CourseID:  cid,
		Grade:     value,
	})
}

// PublishGrade toggles a grade's publish flag.
func (p *AdminPage) PublishGrade(ctx context.Context, gradeID string, publish bool) bool {
	id, ok := intField(p.surface, "GradeID", gradeID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Publish flag updated.",
		Reload:  []*Loader{p.grades},
	}, p.logger)
	return d.Submit(ctx, "/api/admin/grades/publish", dto.GradePublishRequest{GradeID: id, Publish: publish})
}

// RecordAttendance appends an attendance record.
func (p *AdminPage) RecordAttendance(ctx context.Context, studentID, courseID string, present bool) bool {
	sid, ok := intField(p.surface, "StudentID", studentID)
	if !ok {
		return false
	}
	cid, ok := intField(p.surface, "CourseID", courseID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Attendance recorded.",
		Reload:  []*Loader{p.att},
	}, p.logger)
	return d.Submit(ctx, "/api/admin/attendance/record", dto.AttendanceRecordRequest{
		StudentID: sid,
		CourseID:  cid,
		Status:    present,
	})
}

func decision(comments string) dto.RoleRequestDecision {
	trimmed := strings.TrimSpace(comments)
	if trimmed == "" {
		return dto.RoleRequestDecision{}
	}
	return dto.RoleRequestDecision{Comments: &trimmed}
}
