package dto_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-console/internal/dto"
)

func TestSnakeCase(t *testing.T) {
	cases := map[string]string{
		"CourseName":       "course_name",
		"StudentID":        "student_id",
		"Student_PK_ID":    "student_pk_id",
		"IsPublished":      "is_published",
		"RecordedByUserID": "recorded_by_user_id",
		"DOB":              "dob",
		"username":         "username",
	}

	for in, want := range cases {
		require.Equal(t, want, dto.SnakeCase(in), "input %q", in)
	}
}

func TestRecordLookupCasingFallback(t *testing.T) {
	rec := dto.Record{
		"CourseName": "Databases",
		"student_id": float64(7),
	}

	require.Equal(t, "Databases", rec.Text("CourseName"))
	// PascalCase key resolves against the snake_case field.
	require.Equal(t, "7", rec.Text("StudentID"))

	id, ok := rec.Int("StudentID")
	require.True(t, ok)
	require.Equal(t, int64(7), id)
}

func TestRecordTextPlaceholder(t *testing.T) {
	rec := dto.Record{"Reason": nil, "Comments": "  "}

	require.Equal(t, dto.Placeholder, rec.Text("Reason"))
	require.Equal(t, dto.Placeholder, rec.Text("Comments"))
	require.Equal(t, dto.Placeholder, rec.Text("Missing"))
}

func TestRecordBoolAndNumberRendering(t *testing.T) {
	rec := dto.Record{
		"IsPublished": true,
		"Status":      float64(0),
		"GradeValue":  float64(92.5),
	}

	require.Equal(t, "Yes", rec.Text("IsPublished"))
	require.Equal(t, "92.5", rec.Text("GradeValue"))

	status, ok := rec.Bool("Status")
	require.True(t, ok)
	require.False(t, status)
}

func TestParseRoleAndLanding(t *testing.T) {
	require.Equal(t, dto.RoleAdmin, dto.ParseRole(" admin "))
	require.Equal(t, dto.RoleGuest, dto.ParseRole("visitor"))
	require.Equal(t, "/admin", dto.RoleAdmin.LandingPath())
	require.Equal(t, "/guest", dto.RoleGuest.LandingPath())
	require.Equal(t, "/login", dto.Role("").LandingPath())
}
