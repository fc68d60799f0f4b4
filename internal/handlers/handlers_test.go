package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"alfredoptarigan/job-portal/internal/apperror"
	"alfredoptarigan/job-portal/internal/models"
	"alfredoptarigan/job-portal/internal/services"
)

type stubAuth struct {
	services.AuthService
	users       map[string]*models.User
	registered  []models.RegisterRequest
	forgotCalls int
}

func (s *stubAuth) Authenticate(_ context.Context, token string) (*models.User, error) {
	if user, ok := s.users[token]; ok {
		return user, nil
	}
	return nil, apperror.Unauthorized("invalid or expired token")
}

func (s *stubAuth) Register(_ context.Context, req models.RegisterRequest) (*models.AuthResponse, error) {
	s.registered = append(s.registered, req)
	return &models.AuthResponse{Token: "t", User: &models.User{Email: req.Email}}, nil
}

func (s *stubAuth) Login(context.Context, models.LoginRequest) (*models.AuthResponse, error) {
	return nil, apperror.Unauthorized("invalid credentials")
}

func (s *stubAuth) ForgotPassword(context.Context, string) (string, error) {
	s.forgotCalls++
	return "", apperror.NotFound("user not found")
}

type stubJobs struct {
	services.JobService
	viewer *models.User
}

func (s *stubJobs) Get(_ context.Context, id uuid.UUID, viewer *models.User) (*models.Job, error) {
	s.viewer = viewer
	return &models.Job{ID: id, Title: "Go Engineer"}, nil
}

func (s *stubJobs) Create(_ context.Context, recruiter *models.User, req models.JobRequest) (*models.Job, error) {
	return &models.Job{ID: uuid.New(), Title: req.Title, PostedBy: recruiter.ID}, nil
}

type stubApps struct {
	services.ApplicationService
	statusErr error
	pipeline  *uuid.UUID
}

func (s *stubApps) Apply(_ context.Context, applicant *models.User, jobID uuid.UUID, _ models.ApplyRequest) (*models.Application, error) {
	return &models.Application{ID: uuid.New(), JobID: jobID, ApplicantID: applicant.ID}, nil
}

func (s *stubApps) UpdateStatus(_ context.Context, _ *models.User, id uuid.UUID, req models.UpdateStatusRequest) (*models.Application, error) {
	if s.statusErr != nil {
		return nil, s.statusErr
	}
	return &models.Application{ID: id, Status: req.Status}, nil
}

func (s *stubApps) Pipeline(_ context.Context, _ *models.User, jobID *uuid.UUID) (*models.PipelineSummary, error) {
	s.pipeline = jobID
	return &models.PipelineSummary{}, nil
}

type stubProfiles struct {
	services.ProfileService
	uploaded string
}

func (s *stubProfiles) UploadResume(_ context.Context, _ *models.User, file *multipart.FileHeader) (*models.UploadResponse, error) {
	s.uploaded = file.Filename
	return &models.UploadResponse{OriginalName: file.Filename}, nil
}

type testServer struct {
	app      *fiber.App
	auth     *stubAuth
	jobs     *stubJobs
	apps     *stubApps
	profiles *stubProfiles
}

var (
	seekerUser     = &models.User{ID: uuid.New(), Role: models.RoleJobSeeker, IsVerified: true}
	unverifiedUser = &models.User{ID: uuid.New(), Role: models.RoleJobSeeker}
	recruiterUser  = &models.User{ID: uuid.New(), Role: models.RoleRecruiter, IsVerified: true, RecruiterProfile: models.RecruiterProfile{IsVerifiedRecruiter: true}}
	pendingUser    = &models.User{ID: uuid.New(), Role: models.RoleRecruiter, IsVerified: true}
)

func newTestServer() *testServer {
	s := &testServer{
		auth: &stubAuth{users: map[string]*models.User{
			"seeker":     seekerUser,
			"unverified": unverifiedUser,
			"recruiter":  recruiterUser,
			"pending":    pendingUser,
		}},
		jobs:     &stubJobs{},
		apps:     &stubApps{},
		profiles: &stubProfiles{},
	}

	s.app = fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(s.app.Group("/api/v1"), &Handlers{
		Auth:        NewAuthHandler(s.auth),
		Profile:     NewProfileHandler(s.profiles),
		Upload:      NewUploadHandler(s.profiles, 1024),
		Jobs:        NewJobHandler(s.jobs, s.apps, nil),
		Application: NewApplicationHandler(s.apps),
		Admin:       NewAdminHandler(nil),
		Analytics:   NewAnalyticsHandler(nil),
	}, s.auth, Throttle{
		Limiter:          services.NewMemoryRateLimiter(),
		LoginMaxAttempts: 5,
		LoginWindow:      15 * time.Minute,
		ResetMaxAttempts: 3,
		ResetWindow:      time.Hour,
	})
	return s
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	return s.send(t, req)
}

func (s *testServer) send(t *testing.T, req *http.Request) (int, map[string]interface{}) {
	t.Helper()
	resp, err := s.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return resp.StatusCode, out
}

func TestErrorHandler_Shape(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, fiber.StatusUnauthorized, code)
	assert.Equal(t, "unauthorized", body["kind"])
	assert.EqualValues(t, fiber.StatusUnauthorized, body["code"])
	assert.NotEmpty(t, body["error"])

	code, body = s.do(t, http.MethodGet, "/api/v1/nowhere", "", nil)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Equal(t, "not_found", body["kind"])
}

func TestRegister(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodPost, "/api/v1/auth/register", "", models.RegisterRequest{Email: "new@example.com", Password: "secret1"})

	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, true, body["success"])
	require.Len(t, s.auth.registered, 1)
	assert.Equal(t, "new@example.com", s.auth.registered[0].Email)
}

func TestLogin_Throttled(t *testing.T) {
	s := newTestServer()
	creds := models.LoginRequest{Email: "who@example.com", Password: "nope"}

	for i := 0; i < 5; i++ {
		code, _ := s.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
		require.Equal(t, fiber.StatusUnauthorized, code)
	}
	code, body := s.do(t, http.MethodPost, "/api/v1/auth/login", "", creds)
	assert.Equal(t, fiber.StatusTooManyRequests, code)
	assert.Equal(t, "rate_limited", body["kind"])
}

func TestForgotPassword_HidesUnknownEmail(t *testing.T) {
	s := newTestServer()

	code, body := s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", models.ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, true, body["success"])

	for i := 0; i < 2; i++ {
		s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", models.ForgotPasswordRequest{Email: "ghost@example.com"})
	}
	code, _ = s.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", models.ForgotPasswordRequest{Email: "ghost@example.com"})
	assert.Equal(t, fiber.StatusTooManyRequests, code)
	assert.Equal(t, 3, s.auth.forgotCalls)
}

func TestGetJob_OptionalViewer(t *testing.T) {
	s := newTestServer()
	path := "/api/v1/jobs/" + uuid.NewString()

	code, _ := s.do(t, http.MethodGet, path, "", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Nil(t, s.jobs.viewer)

	code, _ = s.do(t, http.MethodGet, path, "seeker", nil)
	assert.Equal(t, fiber.StatusOK, code)
	assert.Equal(t, seekerUser, s.jobs.viewer)

	code, body := s.do(t, http.MethodGet, "/api/v1/jobs/not-a-uuid", "", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "validation", body["kind"])
}

func TestCreateJob_RequiresVerifiedRecruiter(t *testing.T) {
	s := newTestServer()
	req := models.JobRequest{Title: "Go Engineer"}

	tests := []struct {
		token string
		code  int
	}{
		{"", fiber.StatusUnauthorized},
		{"seeker", fiber.StatusForbidden},
		{"pending", fiber.StatusForbidden},
		{"recruiter", fiber.StatusCreated},
	}
	for _, tt := range tests {
		code, _ := s.do(t, http.MethodPost, "/api/v1/jobs", tt.token, req)
		assert.Equal(t, tt.code, code, "token %q", tt.token)
	}
}

func TestApply_Roles(t *testing.T) {
	s := newTestServer()
	path := "/api/v1/applications/" + uuid.NewString()
	body := models.ApplyRequest{CoverLetter: "hello"}

	code, _ := s.do(t, http.MethodPost, path, "recruiter", body)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, _ = s.do(t, http.MethodPost, path, "unverified", body)
	assert.Equal(t, fiber.StatusForbidden, code)

	code, resp := s.do(t, http.MethodPost, path, "seeker", body)
	assert.Equal(t, fiber.StatusCreated, code)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, seekerUser.ID.String(), data["applicant_id"])
}

func TestUpdateStatus_Conflict(t *testing.T) {
	s := newTestServer()
	s.apps.statusErr = apperror.Conflict("application was modified concurrently")
	path := "/api/v1/applications/" + uuid.NewString() + "/status"

	code, body := s.do(t, http.MethodPatch, path, "recruiter", models.UpdateStatusRequest{Status: models.StatusShortlisted})

	assert.Equal(t, fiber.StatusConflict, code)
	assert.Equal(t, "conflict", body["kind"])
	assert.Equal(t, "application was modified concurrently", body["error"])

	code, _ = s.do(t, http.MethodPatch, path, "seeker", models.UpdateStatusRequest{Status: models.StatusShortlisted})
	assert.Equal(t, fiber.StatusForbidden, code)
}

func TestPipeline_JobFilter(t *testing.T) {
	s := newTestServer()
	jobID := uuid.New()

	code, _ := s.do(t, http.MethodGet, "/api/v1/applications/pipeline?job_id="+jobID.String(), "recruiter", nil)
	assert.Equal(t, fiber.StatusOK, code)
	require.NotNil(t, s.apps.pipeline)
	assert.Equal(t, jobID, *s.apps.pipeline)

	code, _ = s.do(t, http.MethodGet, "/api/v1/applications/pipeline?job_id=bad", "recruiter", nil)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	s := newTestServer()

	code, _ := s.do(t, http.MethodGet, "/api/v1/admin/users", "recruiter", nil)
	assert.Equal(t, fiber.StatusForbidden, code)
}

func resumeRequest(t *testing.T, field, name string, size int) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile(field, name)
	require.NoError(t, err)
	_, err = part.Write([]byte(strings.Repeat("x", size)))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/profile/resume", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	req.Header.Set(fiber.HeaderAuthorization, "Bearer seeker")
	return req
}

func TestUploadResume(t *testing.T) {
	s := newTestServer()

	code, _ := s.send(t, resumeRequest(t, "resume", "cv.pdf", 10))
	assert.Equal(t, fiber.StatusCreated, code)
	assert.Equal(t, "cv.pdf", s.profiles.uploaded)

	code, body := s.send(t, resumeRequest(t, "cv", "cv.pdf", 10))
	assert.Equal(t, fiber.StatusBadRequest, code)
	assert.Equal(t, "validation", body["kind"])

	code, _ = s.send(t, resumeRequest(t, "resume", "big.pdf", 2048))
	assert.Equal(t, fiber.StatusBadRequest, code)
}
