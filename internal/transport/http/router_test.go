package httpserver

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edubridge/university-lms/internal/everycred"
	"github.com/edubridge/university-lms/internal/handlers"
	mwauth "github.com/edubridge/university-lms/internal/middleware/auth"
	"github.com/edubridge/university-lms/internal/models"
	"github.com/edubridge/university-lms/internal/repo"
	"github.com/edubridge/university-lms/internal/service"
	"github.com/edubridge/university-lms/internal/tokens"
)

type nullMailer struct{}

func (nullMailer) Send(context.Context, string, string, string) error { return nil }

type testServer struct {
	E  *echo.Echo
	DB *gorm.DB
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.Course{}, &models.Student{},
		&models.CredentialRecord{}, &models.UsedResetToken{},
	))

	ts, err := tokens.New([]byte("test-secret"), "HS256")
	require.NoError(t, err)
	r := repo.New(db)

	authService := &service.AuthService{
		Repo:        r,
		Tokens:      ts,
		Mailer:      nullMailer{},
		FrontendURL: "http://localhost:3000",
		RenderReset: func(name, link string) (string, error) { return link, nil },
	}
	authenticator := &mwauth.Authenticator{Repo: r, Tokens: ts, Permissions: mwauth.DefaultPermissions()}

	e := echo.New()
	Register(e, &Deps{
		Auth:           authenticator,
		AuthHandler:    &handlers.AuthHandler{Service: authService},
		CourseHandler:  &handlers.CourseHandler{Service: &service.CourseService{Repo: r}},
		StudentHandler: &handlers.StudentHandler{Service: &service.StudentService{Repo: r}},
		CredentialHandler: &handlers.CredentialHandler{Service: &service.CredentialService{
			Repo:        r,
			Issuer:      everycred.New(everycred.Config{MockMode: true}),
			Institution: "University LMS",
		}},
	})
	return &testServer{E: e, DB: db}
}

func (s *testServer) request(t *testing.T, method, path, token, body string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, req)

	var env map[string]interface{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec, env
}

// registerUser creates an account over the API, assigns the role
// directly and returns a fresh access token carrying it.
func (s *testServer) registerUser(t *testing.T, email, role string) string {
	t.Helper()
	rec, env := s.request(t, http.MethodPost, "/api/v1/auth/register", "",
		`{"email":"`+email+`","password":"Secret123!"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	if role != "" {
		require.NoError(t, s.DB.Model(&models.User{}).
			Where("email = ?", email).
			Update("role", role).Error)
	}

	data := env["data"].(map[string]interface{})
	toks := data["tokens"].(map[string]interface{})
	return toks["access_token"].(string)
}

func TestHealthEndpoints(t *testing.T) {
	s := newTestServer(t)
	rec, _ := s.request(t, http.MethodGet, "/health/live", "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
	rec, _ = s.request(t, http.MethodGet, "/health/ready", "", "")
	require.Equal(t, http.StatusNoContent, rec.Code)
}

func TestProtectedRoutesRequireAuth(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/v1/courses", "/api/v1/students", "/api/v1/auth/me"} {
		rec, env := s.request(t, http.MethodGet, path, "", "")
		require.Equal(t, http.StatusUnauthorized, rec.Code, path)
		require.Equal(t, "fail", env["status"])
	}
}

func TestCourseRoutePermissions(t *testing.T) {
	s := newTestServer(t)
	instructor := s.registerUser(t, "teach@example.com", "instructor")
	staff := s.registerUser(t, "staff@example.com", "staff")
	admin := s.registerUser(t, "admin@example.com", "admin")

	// Instructors create courses, staff may only read.
	rec, env := s.request(t, http.MethodPost, "/api/v1/courses", instructor,
		`{"name":"Go Fundamentals","instructor":"Dr. Who"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	courseID := env["data"].(map[string]interface{})["id"].(float64)

	rec, _ = s.request(t, http.MethodPost, "/api/v1/courses", staff,
		`{"name":"Denied"}`)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.request(t, http.MethodGet, "/api/v1/courses", staff, "")
	require.Equal(t, http.StatusOK, rec.Code)

	// Deletion is reserved for management/admin.
	path := "/api/v1/courses/" + idStr(courseID)
	rec, _ = s.request(t, http.MethodDelete, path, instructor, "")
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, _ = s.request(t, http.MethodDelete, path, admin, "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func idStr(id float64) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestMeEndpoint(t *testing.T) {
	s := newTestServer(t)
	token := s.registerUser(t, "ann@example.com", "")

	rec, env := s.request(t, http.MethodGet, "/api/v1/auth/me", token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	user := env["data"].(map[string]interface{})["user"].(map[string]interface{})
	require.Equal(t, "ann@example.com", user["email"])
}

func TestCredentialRoutes(t *testing.T) {
	s := newTestServer(t)
	admin := s.registerUser(t, "admin@example.com", "admin")
	staff := s.registerUser(t, "staff@example.com", "staff")

	rec, env := s.request(t, http.MethodPost, "/api/v1/courses", admin,
		`{"name":"Go Fundamentals"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	courseID := env["data"].(map[string]interface{})["id"].(float64)

	rec, env = s.request(t, http.MethodPost, "/api/v1/students", admin,
		`{"name":"Bo","email":"bo@example.com"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	studentID := env["data"].(map[string]interface{})["id"].(float64)

	// Staff cannot issue credentials.
	body := `{"student_id":` + idStr(studentID) + `,"course_id":` + idStr(courseID) + `}`
	rec, _ = s.request(t, http.MethodPost, "/api/v1/credentials/issue", staff, body)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec, env = s.request(t, http.MethodPost, "/api/v1/credentials/issue", admin, body)
	require.Equal(t, http.StatusCreated, rec.Code)
	credID := env["data"].(map[string]interface{})["credential_id"].(string)
	require.True(t, strings.HasPrefix(credID, "mock-"))

	rec, _ = s.request(t, http.MethodGet, "/api/v1/credentials/list", staff, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec, env = s.request(t, http.MethodGet, "/api/v1/credentials/verify/"+credID, staff, "")
	require.Equal(t, http.StatusOK, rec.Code)
}
