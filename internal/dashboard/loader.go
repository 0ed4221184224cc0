package dashboard

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/view"
)

// LoaderSpec binds a collection endpoint to its render target.
type LoaderSpec struct {
	// Path is the endpoint for fixed reads.
	Path string
	// PathFunc supersedes Path when the query depends on page state
	// (attendance filters, audit limit).
	PathFunc func() string
	// Keys are the envelope payload fields tried for the collection,
	// defaulting to "rows".
	Keys []string
	// Fallback is shown when the failure carries no server message.
	Fallback string
}

// Loader fetches one resource collection and replaces its table's rows.
// Failures never propagate: the table is left empty and the error goes to
// the message surface. Callers treat the returned bool as advisory.
type Loader struct {
	client  *api.Client
	surface *view.MessageSurface
	table   *view.Table
	spec    LoaderSpec
	logger  zerolog.Logger
}

// NewLoader constructs a data loader.
func NewLoader(client *api.Client, surface *view.MessageSurface, table *view.Table, spec LoaderSpec, logger zerolog.Logger) *Loader {
	if len(spec.Keys) == 0 {
		spec.Keys = []string{"rows"}
	}
	if spec.Fallback == "" {
		spec.Fallback = "Failed to load " + table.Name() + "."
	}

	return &Loader{
		client:  client,
		surface: surface,
		table:   table,
		spec:    spec,
		logger:  logger.With().Str("component", "loader").Str("table", table.Name()).Logger(),
	}
}

// Table returns the loader's render target.
func (l *Loader) Table() *view.Table {
	return l.table
}

// Load refreshes the table from the endpoint. The previous rows are cleared
// first, so a failed load leaves the section empty rather than stale.
func (l *Loader) Load(ctx context.Context) bool {
	l.table.Clear()

	path := l.spec.Path
	if l.spec.PathFunc != nil {
		path = l.spec.PathFunc()
	}

	env, err := l.client.Get(ctx, path)
	if err != nil {
		l.logger.Warn().Err(err).Str("path", path).Msg("load failed")
		l.surface.Set(err.Error(), false)
		return false
	}

	rows, err := env.Rows(l.spec.Keys...)
	if err != nil {
		l.logger.Warn().Err(err).Str("path", path).Msg("unexpected payload shape")
		l.surface.Set(l.spec.Fallback, false)
		return false
	}

	l.table.SetRecords(rows)
	return true
}
