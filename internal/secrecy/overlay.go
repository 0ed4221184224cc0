// Package secrecy implements best-effort content protection for tables
// flagged secret. It intercepts application-level copy/export events and
// key chords and cancels them with a warning. It cannot prevent anything
// outside the process, such as an operating-system screen capture; that
// limitation is inherent and documented, not a bug.
package secrecy

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/view"
)

// EventKind identifies an interceptable user action.
type EventKind string

const (
	EventCopy        EventKind = "copy"
	EventCut         EventKind = "cut"
	EventPaste       EventKind = "paste"
	EventContextMenu EventKind = "contextmenu"
	EventKeyDown     EventKind = "keydown"
	EventExport      EventKind = "export"
)

// Event is one user action over a named target table.
type Event struct {
	Kind   EventKind
	Target string
	// Key and modifiers apply to keydown events only.
	Key  string
	Ctrl bool
	Meta bool
}

// Overlay installs once per page lifetime and stays for its whole lifetime;
// there is no teardown, consistent with a page that is discarded on
// navigation. A long-lived host embedding this in a single process across
// page switches would need an explicit uninstall added.
type Overlay struct {
	mu        sync.Mutex
	surface   *view.MessageSurface
	secret    map[string]bool
	installed bool
	logger    zerolog.Logger
}

// NewOverlay constructs an overlay writing warnings to the given surface.
func NewOverlay(surface *view.MessageSurface, logger zerolog.Logger) *Overlay {
	return &Overlay{
		surface: surface,
		secret:  make(map[string]bool),
		logger:  logger.With().Str("component", "secrecy_overlay").Logger(),
	}
}

// Protect flags a table as secret. Protected tables refuse export and have
// their copy-class events cancelled.
func (o *Overlay) Protect(t *view.Table) {
	t.MarkSecret()

	o.mu.Lock()
	defer o.mu.Unlock()
	o.secret[t.Name()] = true
}

// Install activates the overlay. Calling it again is a no-op.
func (o *Overlay) Install() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.installed {
		return
	}
	o.installed = true
	o.logger.Debug().Msg("secrecy overlay installed")
}

// Protected reports whether the named table is flagged secret.
func (o *Overlay) Protected(target string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.secret[target]
}

// Intercept inspects an event and reports whether it must be cancelled.
// Events over unprotected targets always pass. PrintScreen cannot actually
// be cancelled, so it only draws a warning.
func (o *Overlay) Intercept(e Event) bool {
	o.mu.Lock()
	installed := o.installed
	protected := o.secret[e.Target]
	o.mu.Unlock()

	if !installed || !protected {
		return false
	}

	switch e.Kind {
	case EventCopy, EventCut, EventPaste, EventExport:
		o.surface.Set("Copy/Export is blocked on Secret panels.", false)
		return true
	case EventContextMenu:
		return true
	case EventKeyDown:
		key := strings.ToLower(e.Key)
		if (e.Ctrl || e.Meta) && (key == "c" || key == "x" || key == "s" || key == "p") {
			o.surface.Set("Copy/Save/Print is blocked on Secret panels.", false)
			return true
		}
		if key == "printscreen" {
			o.surface.Set("Screenshots are not allowed for Secret panels.", false)
			return false
		}
	}

	return false
}
