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

// InstructorPage wires the instructor dashboard: the course roster, per-course
// grades with aggregates, attendance, and the grade entry/publish forms.
type InstructorPage struct {
	*Page

	client   *api.Client
	validate *validator.Validate
	logger   zerolog.Logger

	students  *Loader
	grades    *Loader
	aggregate *Loader
	att       *Loader
	profile   *Loader

	courseID     int64
	courseJoined bool

	profileID     int64
	profileJoined bool
}

// NewInstructorPage builds the instructor dashboard against the given client.
func NewInstructorPage(client *api.Client, validate *validator.Validate, logger zerolog.Logger) *InstructorPage {
	p := &InstructorPage{
		Page:     newPage("instructor", dto.RoleInstructor, logger),
		client:   client,
		validate: validate,
		logger:   logger.With().Str("page", "instructor").Logger(),
	}

	studentsTable := view.NewTable("students",
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "StudentID", Field: "StudentID"},
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Email", Field: "Email"},
		view.Column{Title: "Department", Field: "Department"},
		view.Column{Title: "Classification", Field: "Classification"},
	)
	gradesTable := view.NewTable("grades",
		view.Column{Title: "ID", Field: "GradeID"},
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Grade", Field: "GradeValue"},
		view.Column{Title: "Published", Field: "IsPublished"},
		view.Column{Title: "Entered", Field: "DateEntered"},
	)
	aggregateTable := view.NewTable("aggregateGrades",
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Average", Field: "AvgGrade"},
		view.Column{Title: "Min", Field: "MinGrade"},
		view.Column{Title: "Max", Field: "MaxGrade"},
		view.Column{Title: "Count", Field: "GradeCount"},
	)
	profileTable := view.NewTable("studentProfile",
		view.Column{Title: "StudentID", Field: "StudentID"},
		view.Column{Title: "Name", Field: "FullName"},
		view.Column{Title: "Email", Field: "Email"},
		view.Column{Title: "DOB", Field: "DOB"},
		view.Column{Title: "Department", Field: "Department"},
		view.Column{Title: "Classification", Field: "Classification"},
	)
	attTable := view.NewTable("attendance",
		view.Column{Title: "ID", Field: "AttendanceID"},
		view.Column{Title: "StudentPK", Field: "Student_PK_ID"},
		view.Column{Title: "Course", Field: "CourseID"},
		view.Column{Title: "Status", Field: "Status"},
		view.Column{Title: "Recorded", Field: "DateRecorded"},
	)

	p.students = NewLoader(client, p.surface, studentsTable, LoaderSpec{
		Path: "/api/instructor/students", Fallback: "Failed to load students.",
	}, logger)
	p.grades = NewLoader(client, p.surface, gradesTable, LoaderSpec{
		PathFunc: func() string { return "/api/instructor/grades?course_id=" + strconv.FormatInt(p.courseID, 10) },
		Fallback: "Failed to load grades.",
	}, logger)
	p.aggregate = NewLoader(client, p.surface, aggregateTable, LoaderSpec{
		PathFunc: func() string { return "/api/instructor/grades/aggregate?course_id=" + strconv.FormatInt(p.courseID, 10) },
		Fallback: "Failed to load aggregate grades.",
	}, logger)
	p.att = NewLoader(client, p.surface, attTable, LoaderSpec{
		PathFunc: func() string { return "/api/instructor/attendance?course_id=" + strconv.FormatInt(p.courseID, 10) },
		Fallback: "Failed to load attendance.",
	}, logger)
	p.profile = NewLoader(client, p.surface, profileTable, LoaderSpec{
		PathFunc: func() string {
			return "/api/instructor/student-profile?student_id=" + strconv.FormatInt(p.profileID, 10)
		},
		Keys:     []string{"rows", "profile"},
		Fallback: "No access or student not found.",
	}, logger)

	// The roster is the only load that works before a course is chosen.
	p.loaders = []*Loader{p.students}
	return p
}

// SelectCourse scopes the grade, aggregate and attendance loads to a course.
// The course-scoped loaders join the refresh set on first selection.
func (p *InstructorPage) SelectCourse(courseID string) bool {
	id, ok := intField(p.surface, "CourseID", courseID)
	if !ok {
		return false
	}

	p.courseID = id
	if !p.courseJoined {
		p.courseJoined = true
		p.loaders = append(p.loaders, p.grades, p.aggregate, p.att)
	}
	return true
}

// LookupStudent fetches one student's profile by their record ID. The profile
// loader joins the refresh set on first lookup, like the course loaders do.
func (p *InstructorPage) LookupStudent(ctx context.Context, studentID string) bool {
	id, ok := intField(p.surface, "StudentID", studentID)
	if !ok {
		return false
	}

	p.profileID = id
	if !p.profileJoined {
		p.profileJoined = true
		p.loaders = append(p.loaders, p.profile)
	}
	return p.profile.Load(ctx)
}

// LoadStudents refreshes the course roster.
func (p *InstructorPage) LoadStudents(ctx context.Context) bool { return p.students.Load(ctx) }

// LoadGrades refreshes the per-course grades table.
func (p *InstructorPage) LoadGrades(ctx context.Context) bool { return p.grades.Load(ctx) }

// LoadAggregate refreshes the per-course aggregate table.
func (p *InstructorPage) LoadAggregate(ctx context.Context) bool { return p.aggregate.Load(ctx) }

// LoadAttendance refreshes the per-course attendance table.
func (p *InstructorPage) LoadAttendance(ctx context.Context) bool { return p.att.Load(ctx) }

// AddStudent registers a student and reloads the roster.
func (p *InstructorPage) AddStudent(ctx context.Context, req dto.AddStudentRequest) bool {
	if req.Classification == 0 {
		req.Classification = 1
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Student added.",
		Reload:  []*Loader{p.students},
	}, p.logger)
	return d.Submit(ctx, "/api/instructor/students", req)
}

// InsertGrade records a grade for a student in the selected course.
func (p *InstructorPage) InsertGrade(ctx context.Context, studentPK, courseID, value string) bool {
	spk, ok := intField(p.surface, "StudentPK", studentPK)
	if !ok {
		return false
	}
	cid, ok := intField(p.surface, "CourseID", courseID)
	if !ok {
		return false
	}
	grade, ok := floatField(p.surface, "GradeValue", value)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Grade inserted.",
		Reload:  []*Loader{p.grades},
	}, p.logger)
	return d.Submit(ctx, "/api/instructor/grades", dto.GradeInsertRequest{
		StudentPK:  spk,
		CourseID:   cid,
		GradeValue: grade,
	})
}

// PublishGrade toggles a grade's publish flag.
func (p *InstructorPage) PublishGrade(ctx context.Context, gradeID string, publish bool) bool {
	id, ok := intField(p.surface, "GradeID", gradeID)
	if !ok {
		return false
	}

	d := NewDispatcher(p.client, p.surface, p.validate, DispatcherSpec{
		Success: "Publish flag updated.",
		Reload:  []*Loader{p.grades},
	}, p.logger)
	return d.Submit(ctx, "/api/instructor/grades/publish", dto.GradePublishRequest{GradeID: id, Publish: publish})
}

// RecordAttendance appends an attendance record for the selected course.
func (p *InstructorPage) RecordAttendance(ctx context.Context, studentPK, courseID string, present bool) bool {
	spk, ok := intField(p.surface, "StudentPK", studentPK)
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
	return d.Submit(ctx, "/api/instructor/attendance/record", dto.AttendanceRecordRequest{
		StudentID: spk,
		CourseID:  cid,
		Status:    present,
	})
}
