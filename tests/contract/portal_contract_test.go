package contract_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sira-console/internal/stub"
)

func loadSchema(t *testing.T, name string) *jsonschema.Schema {
	t.Helper()

	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", name))
	require.NoError(t, err)

	schema, err := jsonschema.NewCompiler().Compile("file://" + schemaPath)
	require.NoError(t, err)
	return schema
}

func newPortal(t *testing.T) *stub.Server {
	t.Helper()

	dsn := "file:contract_" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	server, err := stub.New(stub.Config{JWTSecret: "contract-secret", DatabaseURL: dsn}, zerolog.Nop())
	require.NoError(t, err)
	return server
}

func responseJSON(t *testing.T, server *stub.Server, req *http.Request) (interface{}, *http.Response) {
	t.Helper()

	resp, err := server.App().Test(req, -1)
	require.NoError(t, err)

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	return payload, resp
}

func TestLoginResponseContract(t *testing.T) {
	schema := loadSchema(t, "login.schema.json")
	server := newPortal(t)

	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	req.Header.Set("Content-Type", "application/json")

	payload, resp := responseJSON(t, server, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(payload))
}

func TestPublicCoursesContract(t *testing.T) {
	schema := loadSchema(t, "public_courses.schema.json")
	server := newPortal(t)

	payload, resp := responseJSON(t, server, httptest.NewRequest(http.MethodGet, "/api/public/courses", nil))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(payload))
}

func TestAdminUsersContract(t *testing.T) {
	schema := loadSchema(t, "admin_users.schema.json")
	server := newPortal(t)

	loginReq := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"admin123"}`))
	loginReq.Header.Set("Content-Type", "application/json")
	loginResp, err := server.App().Test(loginReq, -1)
	require.NoError(t, err)
	io.Copy(io.Discard, loginResp.Body)
	loginResp.Body.Close()

	var session string
	for _, c := range loginResp.Cookies() {
		if c.Name == stub.SessionCookie {
			session = c.Value
		}
	}
	require.NotEmpty(t, session)

	req := httptest.NewRequest(http.MethodGet, "/api/admin/users", nil)
	req.Header.Set("Cookie", stub.SessionCookie+"="+session)

	payload, resp := responseJSON(t, server, req)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, schema.Validate(payload))
}

// Every failure shape across the API is the same envelope: ok plus a single
// error string a client can show as-is.
func TestFailureEnvelopeContract(t *testing.T) {
	schema := loadSchema(t, "envelope.schema.json")
	server := newPortal(t)

	failures := []*http.Request{
		httptest.NewRequest(http.MethodGet, "/api/me", nil),
		httptest.NewRequest(http.MethodGet, "/api/admin/users", nil),
		httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(`{"username":"admin","password":"nope"}`)),
	}
	failures[2].Header.Set("Content-Type", "application/json")

	for _, req := range failures {
		payload, resp := responseJSON(t, server, req)
		require.GreaterOrEqual(t, resp.StatusCode, 400)
		require.NoError(t, schema.Validate(payload))

		body, ok := payload.(map[string]interface{})
		require.True(t, ok)
		require.Equal(t, false, body["ok"])
		require.NotEmpty(t, body["error"])
	}
}
