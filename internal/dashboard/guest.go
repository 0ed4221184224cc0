package dashboard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

// GuestPage is the minimal unauthenticated-tier dashboard: public courses only.
type GuestPage struct {
	*Page

	courses *Loader
}

// NewGuestPage builds the guest dashboard against the given client.
func NewGuestPage(client *api.Client, logger zerolog.Logger) *GuestPage {
	p := &GuestPage{
		Page: newPage("guest", dto.RoleGuest, logger),
	}

	coursesTable := view.NewTable("publicCourses",
		view.Column{Title: "ID", Field: "CourseID"},
		view.Column{Title: "Course", Field: "CourseName"},
		view.Column{Title: "Info", Field: "PublicInfo", Rich: true},
	)

	p.courses = NewLoader(client, p.surface, coursesTable, LoaderSpec{
		Path: "/api/public/courses", Keys: []string{"rows", "courses"}, Fallback: "Failed to load public courses.",
	}, logger)

	p.loaders = []*Loader{p.courses}
	return p
}

// LoadCourses refreshes the public courses table.
func (p *GuestPage) LoadCourses(ctx context.Context) bool { return p.courses.Load(ctx) }
