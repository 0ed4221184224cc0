package dashboard

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-console/internal/dto"
	"github.com/noah-isme/sira-console/internal/view"
)

func TestSubmitRejectsInvalidPayloadWithoutNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	surface := view.NewMessageSurface()
	d := NewDispatcher(newClient(t, srv.URL), surface, validator.New(validator.WithRequiredStructEnabled()),
		DispatcherSpec{Success: "User created."}, zerolog.Nop())

	payload := dto.CreateUserRequest{Username: "x", Password: "", Role: "Wizard"}
	require.False(t, d.Submit(context.Background(), "/api/admin/users", payload))
	require.Equal(t, int32(0), calls.Load(), "invalid input must not reach the network")
	require.False(t, surface.OK())
	require.Contains(t, surface.Text(), "Please provide a valid")
}

func TestSubmitSurfacesServerErrorAndSkipsReload(t *testing.T) {
	var reloads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			reloads.Add(1)
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"ok":true,"rows":[]}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"ok":false,"error":"Username already exists"}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL)
	surface := view.NewMessageSurface()
	users := NewLoader(client, surface, rosterTable(), LoaderSpec{Path: "/api/admin/users"}, zerolog.Nop())
	d := NewDispatcher(client, surface, validator.New(validator.WithRequiredStructEnabled()),
		DispatcherSpec{Success: "User created.", Reload: []*Loader{users}}, zerolog.Nop())

	payload := dto.CreateUserRequest{Username: "taken", Password: "pw", Role: "Student"}
	require.False(t, d.Submit(context.Background(), "/api/admin/users", payload))
	require.Equal(t, "Username already exists", surface.Text())
	require.Equal(t, int32(0), reloads.Load(), "failed mutation must not trigger reloads")
}

func TestSubmitReloadsOnceAndResets(t *testing.T) {
	var reloads atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodGet {
			reloads.Add(1)
			w.Write([]byte(`{"ok":true,"rows":[{"FullName":"Ali Hassan"}]}`))
			return
		}
		w.Write([]byte(`{"ok":true}`))
	}))
	defer srv.Close()

	client := newClient(t, srv.URL)
	surface := view.NewMessageSurface()
	users := NewLoader(client, surface, rosterTable(), LoaderSpec{Path: "/api/admin/users"}, zerolog.Nop())

	resets := 0
	d := NewDispatcher(client, surface, validator.New(validator.WithRequiredStructEnabled()), DispatcherSpec{
		Success: "User created.",
		Reload:  []*Loader{users},
		Reset:   func() { resets++ },
	}, zerolog.Nop())

	payload := dto.CreateUserRequest{Username: "new", Password: "pw", Role: "Student"}
	require.True(t, d.Submit(context.Background(), "/api/admin/users", payload))
	require.Equal(t, "User created.", surface.Text())
	require.True(t, surface.OK())
	require.Equal(t, int32(1), reloads.Load(), "each bound loader reloads exactly once")
	require.Equal(t, 1, resets)
	require.Equal(t, 1, users.Table().Len())
}

func TestIntFieldRejectsGarbage(t *testing.T) {
	surface := view.NewMessageSurface()

	_, ok := intField(surface, "course ID", "abc")
	require.False(t, ok)
	require.Equal(t, "Please enter a valid course ID.", surface.Text())

	_, ok = intField(surface, "course ID", "0")
	require.False(t, ok)

	n, ok := intField(surface, "course ID", " 7 ")
	require.True(t, ok)
	require.Equal(t, int64(7), n)
}

func TestFloatFieldParsesDecimals(t *testing.T) {
	surface := view.NewMessageSurface()

	f, ok := floatField(surface, "grade", "88.5")
	require.True(t, ok)
	require.Equal(t, 88.5, f)

	_, ok = floatField(surface, "grade", "not-a-number")
	require.False(t, ok)
	require.Equal(t, "Please enter a valid grade.", surface.Text())
}
