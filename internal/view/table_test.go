package view_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

func coursesTable() *view.Table {
	return view.NewTable("publicCourses",
		view.Column{Title: "ID", Field: "CourseID"},
		view.Column{Title: "Course", Field: "CourseName"},
		view.Column{Title: "Info", Field: "PublicInfo", Rich: true},
	)
}

func TestSetRecordsRendersWithFallbacks(t *testing.T) {
	table := coursesTable()
	table.SetRecords([]dto.Record{
		{"CourseID": float64(1), "CourseName": "Databases", "PublicInfo": "Intro to SQL"},
		{"course_id": float64(2), "course_name": "Networks"},
	})

	rows := table.VisibleRows()
	require.Len(t, rows, 2)
	require.Equal(t, []string{"1", "Databases", "Intro to SQL"}, rows[0])
	require.Equal(t, []string{"2", "Networks", "-"}, rows[1])
	require.Equal(t, 2, table.Len())
}

func TestHTMLEscapesScriptContent(t *testing.T) {
	table := coursesTable()
	table.SetRecords([]dto.Record{
		{"CourseID": float64(9), "CourseName": "<script>alert(1)</script>", "PublicInfo": "ok"},
	})

	markup := table.HTML()
	require.NotContains(t, markup, "<script>")
	require.Contains(t, markup, "&lt;script&gt;alert(1)&lt;/script&gt;")
}

func TestRichColumnsAreSanitized(t *testing.T) {
	table := coursesTable()
	table.SetRecords([]dto.Record{
		{"CourseID": float64(3), "CourseName": "Security", "PublicInfo": `<img src=x onerror=alert(1)>open to all`},
	})

	rows := table.VisibleRows()
	require.Equal(t, "open to all", rows[0][2])
}

func TestFilterIdempotentAndOrderIndependent(t *testing.T) {
	table := coursesTable()
	records := []dto.Record{
		{"CourseID": float64(1), "CourseName": "Algorithms"},
		{"CourseID": float64(2), "CourseName": "Linear Algebra"},
		{"CourseID": float64(3), "CourseName": "Databases"},
	}
	table.SetRecords(records)

	table.Filter("Ali")
	first := table.VisibleRows()

	table.Filter("")
	require.Len(t, table.VisibleRows(), 3)

	table.Filter("ali")
	require.Equal(t, first, table.VisibleRows())
	require.Len(t, first, 0)

	table.Filter("alg")
	require.Len(t, table.VisibleRows(), 2)

	// Reload re-applies the sticky query against fresh rows.
	table.SetRecords(records)
	require.Len(t, table.VisibleRows(), 2)
	require.Equal(t, 3, table.Len())
}

func TestWriteTextShowsOnlyVisibleRows(t *testing.T) {
	table := coursesTable()
	table.SetRecords([]dto.Record{
		{"CourseID": float64(1), "CourseName": "Algorithms"},
		{"CourseID": float64(2), "CourseName": "Databases"},
	})
	table.Filter("data")

	var buf bytes.Buffer
	require.NoError(t, table.WriteText(&buf))

	out := buf.String()
	require.Contains(t, out, "Databases")
	require.NotContains(t, out, "Algorithms")
}
