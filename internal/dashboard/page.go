package dashboard

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

// Page is the shared shape of a role dashboard: a required role, one message
// surface, and the loaders that populate its tables.
type Page struct {
	name    string
	role    dto.Role
	surface *view.MessageSurface
	loaders []*Loader
	logger  zerolog.Logger
}

func newPage(name string, role dto.Role, logger zerolog.Logger) *Page {
	return &Page{
		name:    name,
		role:    role,
		surface: view.NewMessageSurface(),
		logger:  logger.With().Str("page", name).Logger(),
	}
}

// Name returns the page identifier.
func (p *Page) Name() string {
	return p.name
}

// Role returns the role the session guard requires for this page.
func (p *Page) Role() dto.Role {
	return p.role
}

// Surface returns the page's message surface.
func (p *Page) Surface() *view.MessageSurface {
	return p.surface
}

// Tables returns the render targets of the page's loaders.
func (p *Page) Tables() []*view.Table {
	tables := make([]*view.Table, 0, len(p.loaders))
	for _, l := range p.loaders {
		tables = append(tables, l.Table())
	}
	return tables
}

// Table returns the named table, or nil.
func (p *Page) Table(name string) *view.Table {
	for _, l := range p.loaders {
		if l.Table().Name() == name {
			return l.Table()
		}
	}
	return nil
}

// RefreshAll fires every loader concurrently and waits for all of them to
// settle. Each load is independent: a failure leaves its own section empty
// without cancelling or blocking the others.
func (p *Page) RefreshAll(ctx context.Context) {
	p.surface.Set("Refreshing...", true)

	var wg sync.WaitGroup
	for _, loader := range p.loaders {
		wg.Add(1)
		go func(l *Loader) {
			defer wg.Done()
			l.Load(ctx)
		}(loader)
	}
	wg.Wait()

	p.surface.Set("Updated.", true)
}
