package dashboard

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

// StudentPage wires the student dashboard: own profile and data, published
// grades, attendance, profile editing and role requests.
type StudentPage struct {
	*Page

	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger

	profile *Loader
	ownData *Loader
	grades  *Loader
	att     *Loader
}

// NewStudentPage builds the student dashboard against the given client.
func NewStudentPage(client *api.Client, validate *validator.Validate, logger zerolog.Logger) *StudentPage {
	p := &StudentPage{
		Page:     newPage("student", dto.RoleStudent, logger),
		client:   client,
		validate: validate,
		logger:   logger.With().Str("page", "student").Logger(),
	}

	profileTable := view.NewTable("profile",
		view.Column{Title: "StudentID", Field: "StudentID"},
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Email", Field: "Email"},
		view.Column{Title: "Department", Field: "Department"},
		view.Column{Title: "Classification", Field: "Classification"},
	)
	// The own-data view serves snake_case fields; the PascalCase column
	// bindings still resolve through the record fallback.
	ownDataTable := view.NewTable("ownData",
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Email", Field: "Email"},
		view.Column{Title: "Phone", Field: "Phone"},
		view.Column{Title: "DOB", Field: "DOB"},
		view.Column{Title: "Department", Field: "Department"},
	)
	ownDataTable.MarkSecret()
	gradesTable := view.NewTable("grades",
		view.Column{Title: "ID", Field: "GradeID"},
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Grade", Field: "GradeValue"},
		view.Column{Title: "Published", Field: "IsPublished"},
		view.Column{Title: "PublishedDate", Field: "PublishedDate"},
	)
	attTable := view.NewTable("attendance",
		view.Column{Title: "ID", Field: "AttendanceID"},
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Status", Field: "Status"},
		view.Column{Title: "Recorded", Field: "DateRecorded"},
	)

	p.profile = NewLoader(client, p.surface, profileTable, LoaderSpec{
		Path: "/api/student/profile", Keys: []string{"rows", "profile"}, Fallback: "Failed to load profile.",
	}, logger)
	p.ownData = NewLoader(client, p.surface, ownDataTable, LoaderSpec{
		Path: "/api/student/own-data", Fallback: "Failed to load personal data.",
	}, logger)
	p.grades = NewLoader(client, p.surface, gradesTable, LoaderSpec{
		Path: "/api/student/grades", Fallback: "Failed to load grades.",
	}, logger)
	p.att = NewLoader(client, p.surface, attTable, LoaderSpec{
		Path: "/api/student/attendance", Fallback: "Failed to load attendance.",
	}, logger)

	p.loaders = []*Loader{p.profile, p.ownData, p.grades, p.att}
	return p
}

// LoadProfile refreshes the profile table.
func (p *StudentPage) LoadProfile(ctx context.Context) bool { return p.profile.Load(ctx) }

// LoadOwnData refreshes the personal data table.
func (p *StudentPage) LoadOwnData(ctx context.Context) bool { return p.ownData.Load(ctx) }

// LoadGrades refreshes the published grades table.
func (p *StudentPage) LoadGrades(ctx context.Context) bool { return p.grades.Load(ctx) }

// LoadAttendance refreshes the attendance table.
func (p *StudentPage) LoadAttendance(ctx context.Context) bool { return p.att.Load(ctx) }

// EditProfile saves the editable profile fields and reloads the profile.
func (p *StudentPage) EditProfile(ctx context.Context, req dto.ProfileEditRequest) bool {
	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Profile updated.",
		Reload:  []*Loader{p.profile, p.ownData},
	}, p.logger)
	return d.Submit(ctx, "/api/me", req)
}

// SubmitRoleRequest asks for a role change, subject to admin approval.
func (p *StudentPage) SubmitRoleRequest(ctx context.Context, requestedRole, reason string) bool {
	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Role request submitted.",
	}, p.logger)
	return d.Submit(ctx, "/api/role-requests", dto.RoleRequestCreate{
		RequestedRole: requestedRole,
		Reason:        reason,
	})
}
