package session

import (
	"context"

	"github.com/noah-isme/sira-console/internal/api"
	"github.com/noah-isme/sira-console/internal/dto"
)

// Seeded guest account. The guest entry point on the login page signs in with
// these fixed credentials rather than asking for any.
const (
	GuestUsername = "guest"
	GuestPassword = "guest123"
)

// LoginPath is where every auth failure navigates to.
const LoginPath = "/login"

// Login authenticates against /api/login and returns the session identity.
func Login(ctx context.Context, client *api.Client, username, password string) (*dto.User, error) {
	env, err := client.Post(ctx, "/api/login", dto.LoginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	return env.User()
}

// GuestLogin signs in with the seeded guest account. Deployments that expose
// /api/login/guest are tried first; older ones fall back to a normal login
// with the fixed credentials.
func GuestLogin(ctx context.Context, client *api.Client) (*dto.User, error) {
	if env, err := client.Post(ctx, "/api/login/guest", nil); err == nil {
		if user, uerr := env.User(); uerr == nil {
			return user, nil
		}
		return &dto.User{Username: GuestUsername, Role: dto.RoleGuest, Clearance: 1}, nil
	}

	return Login(ctx, client, GuestUsername, GuestPassword)
}

// Logout ends the session. The server error, if any, is ignored: the caller
// navigates back to the login page either way.
func Logout(ctx context.Context, client *api.Client) {
	_, _ = client.Post(ctx, "/api/logout", nil)
}

// Identity fetches the current session profile from /api/me.
func Identity(ctx context.Context, client *api.Client) (*dto.User, error) {
	env, err := client.Get(ctx, "/api/me")
	if err != nil {
		return nil, err
	}
	return env.User()
}
