package stub

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dsn := "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"
	s, err := New(Config{JWTSecret: "test-secret", DatabaseURL: dsn}, zerolog.Nop())
	require.NoError(t, err)
	return s
}

func doJSON(t *testing.T, s *Server, method, path, body, cookie string) (int, map[string]any, *http.Response) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if cookie != "" {
		req.Header.Set("Cookie", SessionCookie+"="+cookie)
	}

	resp, err := s.App().Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	return resp.StatusCode, decoded, resp
}

func login(t *testing.T, s *Server, username, password string) string {
	t.Helper()

	body := `{"username":"` + username + `","password":"` + password + `"}`
	status, decoded, resp := doJSON(t, s, http.MethodPost, "/api/login", body, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])

	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c.Value
		}
	}
	t.Fatal("no session cookie set")
	return ""
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := newTestServer(t)

	status, decoded, _ := doJSON(t, s, http.MethodPost, "/api/login",
		`{"username":"admin","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, status)
	require.Equal(t, false, decoded["ok"])
	require.Equal(t, "Invalid credentials", decoded["error"])
}

func TestLoginReturnsUserEnvelope(t *testing.T) {
	s := newTestServer(t)

	status, decoded, _ := doJSON(t, s, http.MethodPost, "/api/login",
		`{"username":"stud1","password":"stud123"}`, "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])

	user, ok := decoded["user"].(map[string]any)
	require.True(t, ok)
	require.Equal(t, "stud1", user["username"])
	require.Equal(t, "Student", user["role"])
}

func TestRoleEnforcement(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "stud1", "stud123")

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/admin/users", "", cookie)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, false, decoded["ok"])

	status, _, _ = doJSON(t, s, http.MethodGet, "/api/admin/users", "", "")
	require.Equal(t, http.StatusUnauthorized, status)
}

func TestStudentSeesOnlyPublishedGrades(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "stud1", "stud123")

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/student/grades", "", cookie)
	require.Equal(t, http.StatusOK, status)

	rows, ok := decoded["rows"].([]any)
	require.True(t, ok)
	for _, row := range rows {
		m := row.(map[string]any)
		require.NotNil(t, m["PublishedDate"], "unpublished grade leaked to student view")
	}
}

func TestOwnDataUsesSnakeCaseFields(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "stud1", "stud123")

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/student/own-data", "", cookie)
	require.Equal(t, http.StatusOK, status)

	rows := decoded["rows"].([]any)
	require.Len(t, rows, 1)
	row := rows[0].(map[string]any)
	require.Contains(t, row, "full_name")
	require.NotContains(t, row, "FullName")
}

func TestPublicCoursesNeedNoSession(t *testing.T) {
	s := newTestServer(t)

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/public/courses", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])

	courses := decoded["courses"].([]any)
	require.NotEmpty(t, courses)
	first := courses[0].(map[string]any)
	require.Contains(t, first, "CourseName")
}

func TestRoleRequestDecisionIsTerminal(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "admin", "admin123")

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/admin/role-requests/pending", "", cookie)
	require.Equal(t, http.StatusOK, status)
	rows := decoded["rows"].([]any)
	require.NotEmpty(t, rows)
	id := int(rows[0].(map[string]any)["RequestID"].(float64))

	status, decoded, _ = doJSON(t, s, http.MethodPost,
		"/api/admin/role-requests/"+strconv.Itoa(id)+"/approve", `{"comments":"ok"}`, cookie)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])

	status, decoded, _ = doJSON(t, s, http.MethodPost,
		"/api/admin/role-requests/"+strconv.Itoa(id)+"/deny", "", cookie)
	require.Equal(t, http.StatusConflict, status)
	require.Equal(t, "Request has already been resolved", decoded["error"])

	// the approval must take effect on the user row
	status, decoded, _ = doJSON(t, s, http.MethodGet, "/api/admin/users", "", cookie)
	require.Equal(t, http.StatusOK, status)
	for _, row := range decoded["rows"].([]any) {
		m := row.(map[string]any)
		if m["Username"] == "stud1" {
			require.Equal(t, "TA", m["Role"])
		}
	}
}

func TestMutationsLandInAuditLog(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "admin", "admin123")

	status, decoded, _ := doJSON(t, s, http.MethodPost, "/api/admin/grades/insert",
		`{"student_id":1,"course_id":2,"grade":88.5}`, cookie)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])

	status, decoded, _ = doJSON(t, s, http.MethodGet, "/api/admin/audit?limit=5", "", cookie)
	require.Equal(t, http.StatusOK, status)

	rows := decoded["rows"].([]any)
	require.NotEmpty(t, rows)
	latest := rows[0].(map[string]any)
	require.Equal(t, "INSERT_GRADE", latest["Action"])
	require.Equal(t, "admin", latest["Username"])
}

func TestStudentProfileLookup(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "instr1", "instr123")

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/instructor/student-profile?student_id=1", "", cookie)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])
	profile := decoded["profile"].(map[string]any)
	require.Equal(t, "Ali Hassan", profile["FullName"])
	require.Equal(t, "S-1001", profile["StudentID"])

	status, decoded, _ = doJSON(t, s, http.MethodGet, "/api/instructor/student-profile?student_id=999", "", cookie)
	require.Equal(t, http.StatusNotFound, status)
	require.Equal(t, "No access or student not found.", decoded["error"])

	status, decoded, _ = doJSON(t, s, http.MethodGet, "/api/instructor/student-profile", "", cookie)
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, "student_id is required and must be a number.", decoded["error"])
}

func TestOwnProfileForAccountsWithoutStudentLink(t *testing.T) {
	s := newTestServer(t)
	cookie := login(t, s, "admin", "admin123")

	status, decoded, _ := doJSON(t, s, http.MethodGet, "/api/me", "", cookie)
	require.Equal(t, http.StatusOK, status)
	profile := decoded["profile"].(map[string]any)
	require.Equal(t, "Portal Admin", profile["FullName"])
	require.Equal(t, "Admin", profile["Role"])

	status, decoded, _ = doJSON(t, s, http.MethodPost, "/api/me",
		`{"full_name":"Renamed Admin","email":"renamed@example.edu"}`, cookie)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])

	_, decoded, _ = doJSON(t, s, http.MethodGet, "/api/me", "", cookie)
	profile = decoded["profile"].(map[string]any)
	require.Equal(t, "Renamed Admin", profile["FullName"])
	require.Equal(t, "renamed@example.edu", profile["Email"])
}

func TestGuestProfileIsReadOnly(t *testing.T) {
	s := newTestServer(t)

	status, decoded, resp := doJSON(t, s, http.MethodPost, "/api/login/guest", "", "")
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, decoded["ok"])
	var cookie string
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			cookie = c.Value
		}
	}
	require.NotEmpty(t, cookie)

	_, decoded, _ = doJSON(t, s, http.MethodGet, "/api/me", "", cookie)
	profile := decoded["profile"].(map[string]any)
	require.Equal(t, "Guest has no editable profile.", profile["Note"])

	status, decoded, _ = doJSON(t, s, http.MethodPost, "/api/me",
		`{"full_name":"Sneaky Guest","email":"guest@example.edu"}`, cookie)
	require.Equal(t, http.StatusForbidden, status)
	require.Equal(t, "Guest has no editable profile.", decoded["error"])
}
