package api_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-console/internal/api"
)

func newClient(t *testing.T, baseURL string) *api.Client {
	t.Helper()
	client, err := api.New(baseURL, 5*time.Second, zerolog.Nop())
	require.NoError(t, err)
	return client
}

func TestDoSuccessEnvelope(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NotEmpty(t, r.Header.Get("X-Correlation-ID"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"rows":[{"CourseID":1,"CourseName":"Databases"}]}`))
	}))
	defer srv.Close()

	env, err := newClient(t, srv.URL).Get(context.Background(), "/api/public/courses")
	require.NoError(t, err)
	require.True(t, env.OK)

	rows, err := env.Rows("rows", "courses")
	require.NoError(t, err)
	require.Len(t, rows, 1)
	require.Equal(t, "Databases", rows[0].Text("CourseName"))
}

func TestBaseURLSubpathPreserved(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"ok":true,"user":{"username":"admin","role":"Admin","clearance":3}}`))
	}))
	defer srv.Close()

	// a deployment mounted under a path prefix keeps that prefix on every call
	client := newClient(t, srv.URL+"/portal")

	_, err := client.Get(context.Background(), "/api/me?limit=5")
	require.NoError(t, err)
	require.Equal(t, "/portal/api/me", gotPath)
}

func TestDoServerErrorVerbatim(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"ok":false,"error":"Forbidden"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Get(context.Background(), "/api/admin/users")
	require.Error(t, err)

	apiErr, ok := err.(*api.Error)
	require.True(t, ok)
	require.Equal(t, "Forbidden", apiErr.Message)
	require.Equal(t, http.StatusForbidden, apiErr.Status)
	require.Equal(t, api.KindApplication, apiErr.Kind)
}

func TestDoOkFalseOnSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"ok":false,"error":"Invalid credentials"}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Post(context.Background(), "/api/login", map[string]string{"username": "x", "password": "y"})
	require.EqualError(t, err, "Invalid credentials")
}

func TestDoGenericStatusFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"ok":false}`))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Get(context.Background(), "/api/me")
	require.EqualError(t, err, "HTTP 502")
}

func TestDoNonJSONResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway timeout</html>"))
	}))
	defer srv.Close()

	_, err := newClient(t, srv.URL).Get(context.Background(), "/api/me")
	require.EqualError(t, err, "Non-JSON response")
}

func TestDoTransportFailure(t *testing.T) {
	client := newClient(t, "http://127.0.0.1:1")

	_, err := client.Get(context.Background(), "/api/me")
	require.Error(t, err)

	apiErr, ok := err.(*api.Error)
	require.True(t, ok)
	require.Equal(t, api.KindTransport, apiErr.Kind)
}

func TestClientKeepsSessionCookie(t *testing.T) {
	var sawCookie bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/login":
			http.SetCookie(w, &http.Cookie{Name: "sira_session", Value: "tok", Path: "/"})
			w.Write([]byte(`{"ok":true,"user":{"username":"stud1","role":"Student","clearance":1}}`))
		default:
			if c, err := r.Cookie("sira_session"); err == nil && c.Value == "tok" {
				sawCookie = true
			}
			w.Write([]byte(`{"ok":true,"rows":[]}`))
		}
	}))
	defer srv.Close()

	client := newClient(t, srv.URL)

	env, err := client.Post(context.Background(), "/api/login", map[string]string{"username": "stud1", "password": "pw"})
	require.NoError(t, err)

	user, err := env.User()
	require.NoError(t, err)
	require.Equal(t, "stud1", user.Username)

	_, err = client.Get(context.Background(), "/api/student/grades")
	require.NoError(t, err)
	require.True(t, sawCookie)
}
