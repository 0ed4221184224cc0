package view

import "strings"

// Filter toggles row visibility by case-insensitive substring match against
// the row's full text. An empty query shows every row. The query sticks to
// the table and is re-applied when a reload replaces the rows, but it is not
// persisted anywhere beyond that.
func (t *Table) Filter(query string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.query = strings.ToLower(strings.TrimSpace(query))
	t.applyFilter()
}

// Query returns the active filter query.
func (t *Table) Query() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.query
}

// applyFilter assumes the caller holds the lock.
func (t *Table) applyFilter() {
	for i := range t.rows {
		if t.query == "" {
			t.rows[i].visible = true
			continue
		}
		joined := strings.ToLower(strings.Join(t.rows[i].cells, " "))
		t.rows[i].visible = strings.Contains(joined, t.query)
	}
}
