package view

import (
	"fmt"
	"html"
	"io"
	"strings"
	"sync"
	"text/tabwriter"

	"github.com/microcosm-cc/bluemonday"

	"github.com/noah-isme/sira-console/internal/dto"
)

// richPolicy strips markup from free-text columns such as course PublicInfo,
// which the backend stores as operator-entered text.
var richPolicy = bluemonday.StrictPolicy()

// Column maps a table column to a row field. Field is the PascalCase name;
// the record lookup covers the snake_case fallback. Rich columns are
// sanitized on ingestion.
type Column struct {
	Title string
	Field string
	Rich  bool
}

type row struct {
	cells   []string
	visible bool
}

// Table is the render target of a data loader: an ordered set of rows with
// per-row visibility for client-side filtering. Rendering replaces the whole
// row set; there is no partial update.
type Table struct {
	mu      sync.Mutex
	name    string
	secret  bool
	columns []Column
	rows    []row
	query   string
}

// NewTable constructs an empty table with the given column layout.
func NewTable(name string, columns ...Column) *Table {
	return &Table{name: name, columns: columns}
}

// Name returns the table's identifier.
func (t *Table) Name() string {
	return t.name
}

// MarkSecret flags the table for best-effort content protection.
func (t *Table) MarkSecret() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.secret = true
}

// Secret reports whether the table is flagged for content protection.
func (t *Table) Secret() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.secret
}

// SetRecords clears the table and renders one row per record, re-applying
// the active filter query against the fresh row set.
func (t *Table) SetRecords(records []dto.Record) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.rows = make([]row, 0, len(records))
	for _, rec := range records {
		cells := make([]string, len(t.columns))
		for i, col := range t.columns {
			text := rec.Text(col.Field)
			if col.Rich && text != dto.Placeholder {
				text = strings.TrimSpace(richPolicy.Sanitize(text))
				if text == "" {
					text = dto.Placeholder
				}
			}
			cells[i] = text
		}
		t.rows = append(t.rows, row{cells: cells, visible: true})
	}

	t.applyFilter()
}

// Clear removes all rows.
func (t *Table) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.rows = nil
}

// Len returns the total row count, filtered or not. Count displays use it.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.rows)
}

// VisibleRows returns the cells of rows the active filter keeps visible.
func (t *Table) VisibleRows() [][]string {
	t.mu.Lock()
	defer t.mu.Unlock()

	out := make([][]string, 0, len(t.rows))
	for _, r := range t.rows {
		if !r.visible {
			continue
		}
		cells := make([]string, len(r.cells))
		copy(cells, r.cells)
		out = append(out, cells)
	}
	return out
}

// WriteText renders the visible rows as an aligned text table.
func (t *Table) WriteText(w io.Writer) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)

	titles := make([]string, len(t.columns))
	for i, col := range t.columns {
		titles[i] = col.Title
	}
	fmt.Fprintln(tw, strings.Join(titles, "\t"))

	for _, r := range t.rows {
		if !r.visible {
			continue
		}
		fmt.Fprintln(tw, strings.Join(r.cells, "\t"))
	}

	return tw.Flush()
}

// HTML renders the visible rows as escaped table markup. Cell content is
// always inert text; a value like "<script>" comes out as entities.
func (t *Table) HTML() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var b strings.Builder
	b.WriteString("<table>\n<thead><tr>")
	for _, col := range t.columns {
		b.WriteString("<th>")
		b.WriteString(html.EscapeString(col.Title))
		b.WriteString("</th>")
	}
	b.WriteString("</tr></thead>\n<tbody>\n")

	for _, r := range t.rows {
		if !r.visible {
			continue
		}
		b.WriteString("<tr>")
		for _, cell := range r.cells {
			b.WriteString("<td>")
			b.WriteString(html.EscapeString(cell))
			b.WriteString("</td>")
		}
		b.WriteString("</tr>\n")
	}

	b.WriteString("</tbody>\n</table>\n")
	return b.String()
}
