package session

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

// Guard runs the identity check a page performs before loading anything.
// A failed check or role mismatch navigates to the login page and is
// terminal: the page skips all loads and the user has to re-authenticate.
// There is no retry. None of this is a security boundary; the server
// enforces authorization on every call regardless.
type Guard struct {
	client *api.Client
	nav    view.Navigator
	logger zerolog.Logger
}

// NewGuard constructs a session guard.
func NewGuard(client *api.Client, nav view.Navigator, logger zerolog.Logger) *Guard {
	return &Guard{
		client: client,
		nav:    nav,
		logger: logger.With().Str("component", "session_guard").Logger(),
	}
}

// Require checks the session against the page's required role. It returns
// the identity and true when the page may proceed; otherwise it has already
// navigated to the login page and returns false.
func (g *Guard) Require(ctx context.Context, role dto.Role) (*dto.User, bool) {
	user, err := Identity(ctx, g.client)
	if err != nil {
		g.logger.Warn().Err(err).Msg("identity check failed")
		g.nav.Navigate(LoginPath)
		return nil, false
	}

	if user.Role != role {
		g.logger.Warn().
			Str("have", string(user.Role)).
			Str("want", string(role)).
			Msg("role mismatch")
		g.nav.Navigate(LoginPath)
		return nil, false
	}

	return user, true
}
