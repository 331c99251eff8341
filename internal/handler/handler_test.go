package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/adilnd/portfolio-api/internal/handler"
	"github.com/adilnd/portfolio-api/internal/mailer"
	"github.com/adilnd/portfolio-api/internal/model"
	"github.com/adilnd/portfolio-api/internal/repository"
	"github.com/adilnd/portfolio-api/internal/service"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "testsecret"

// Stubs embed the service interfaces so each test only fills in the methods
// the route under test will hit.

type stubRegStore struct {
	service.RegistrationStore
	registerFn func(ctx context.Context, reg *model.Registration) (*model.Formation, error)
	verifyFn   func(ctx context.Context, token string) (*model.Registration, error)
	cancelFn   func(ctx context.Context, id, email, reason string) (*model.Registration, error)
	statsFn    func(ctx context.Context) (*model.RegistrationStats, error)
}

func (s *stubRegStore) Register(ctx context.Context, reg *model.Registration) (*model.Formation, error) {
	return s.registerFn(ctx, reg)
}

func (s *stubRegStore) Verify(ctx context.Context, token string) (*model.Registration, error) {
	return s.verifyFn(ctx, token)
}

func (s *stubRegStore) Cancel(ctx context.Context, id, email, reason string) (*model.Registration, error) {
	return s.cancelFn(ctx, id, email, reason)
}

func (s *stubRegStore) Stats(ctx context.Context) (*model.RegistrationStats, error) {
	return s.statsFn(ctx)
}

type stubFormations struct {
	service.FormationStore
	getFn func(ctx context.Context, id string) (*model.Formation, error)
}

func (s *stubFormations) GetByID(ctx context.Context, id string) (*model.Formation, error) {
	return s.getFn(ctx, id)
}

type stubMessages struct {
	service.MessageStore
	createFn       func(ctx context.Context, m *model.Message) error
	updateStatusFn func(ctx context.Context, id, status string) (*model.Message, error)
}

func (s *stubMessages) Create(ctx context.Context, m *model.Message) error {
	return s.createFn(ctx, m)
}

func (s *stubMessages) UpdateStatus(ctx context.Context, id, status string) (*model.Message, error) {
	return s.updateStatusFn(ctx, id, status)
}

func newTestRouter(regs service.RegistrationStore, formations *stubFormations, messages service.MessageStore) http.Handler {
	return newTestRouterWithProjects(regs, formations, messages, nil)
}

func newTestRouterWithProjects(regs service.RegistrationStore, formations *stubFormations, messages service.MessageStore, projects service.ProjectStore) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mail := mailer.NewLog(logger)

	h := handler.Handlers{
		Auth:       handler.NewAuthHandler(service.NewAuthService(nil, testSecret, time.Hour, logger)),
		Formations: handler.NewFormationHandler(service.NewFormationService(formations, logger)),
		Registrations: handler.NewRegistrationHandler(
			service.NewRegistrationService(regs, formations, mail, logger,
				"http://localhost:8080", ""),
		),
		Messages: handler.NewMessageHandler(service.NewMessageService(messages, mail, logger, "")),
		Projects: handler.NewProjectHandler(service.NewProjectService(projects, logger)),
		Books:    handler.NewBookHandler(service.NewBookService(nil)),
	}
	return handler.NewRouter(h, testSecret, logger)
}

func adminToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"email": "admin@example.com",
		"role":  "admin",
		"exp":   exp.Unix(),
	})
	signed, err := token.SignedString([]byte(testSecret))
	require.NoError(t, err)
	return signed
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func registerBody(email string) map[string]any {
	return map[string]any{
		"formation_id":   "f1",
		"full_name":      "Alice Martin",
		"email":          email,
		"terms_accepted": true,
	}
}

func TestRegistrationCreateStatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		registerFn func(ctx context.Context, reg *model.Registration) (*model.Formation, error)
		body       any
		wantStatus int
		wantOK     bool
	}{
		{
			name: "created",
			registerFn: func(_ context.Context, reg *model.Registration) (*model.Formation, error) {
				return &model.Formation{ID: reg.FormationID, Title: "Go avancé"}, nil
			},
			body:       registerBody("a@example.com"),
			wantStatus: http.StatusCreated,
			wantOK:     true,
		},
		{
			name: "formation missing",
			registerFn: func(context.Context, *model.Registration) (*model.Formation, error) {
				return nil, repository.ErrNotFound
			},
			body:       registerBody("a@example.com"),
			wantStatus: http.StatusNotFound,
		},
		{
			name: "capacity exceeded",
			registerFn: func(context.Context, *model.Registration) (*model.Formation, error) {
				return nil, repository.ErrCapacityExceeded
			},
			body:       registerBody("a@example.com"),
			wantStatus: http.StatusConflict,
		},
		{
			name: "duplicate",
			registerFn: func(context.Context, *model.Registration) (*model.Formation, error) {
				return nil, repository.ErrDuplicateRegistration
			},
			body:       registerBody("a@example.com"),
			wantStatus: http.StatusConflict,
		},
		{
			name:       "validation",
			registerFn: nil,
			body:       map[string]any{"formation_id": "f1"},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed json",
			registerFn: nil,
			body:       "not json",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(
				&stubRegStore{registerFn: tt.registerFn},
				&stubFormations{}, &stubMessages{},
			)
			rec := doJSON(t, router, http.MethodPost, "/api/registrations", tt.body, "")
			require.Equal(t, tt.wantStatus, rec.Code)

			env := decodeEnvelope(t, rec)
			require.Equal(t, tt.wantOK, env.Success)
			if !tt.wantOK {
				require.NotEmpty(t, env.Message)
			}
		})
	}
}

func TestVerifyInvalidToken(t *testing.T) {
	router := newTestRouter(&stubRegStore{
		verifyFn: func(context.Context, string) (*model.Registration, error) {
			return nil, repository.ErrInvalidToken
		},
	}, &stubFormations{}, &stubMessages{})

	rec := doJSON(t, router, http.MethodGet, "/api/registrations/verify/deadbeef", nil, "")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.False(t, decodeEnvelope(t, rec).Success)
}

func TestCancelEmailMismatchStatus(t *testing.T) {
	router := newTestRouter(&stubRegStore{
		cancelFn: func(context.Context, string, string, string) (*model.Registration, error) {
			return nil, repository.ErrEmailMismatch
		},
	}, &stubFormations{}, &stubMessages{})

	rec := doJSON(t, router, http.MethodPost, "/api/registrations/r1/cancel",
		map[string]string{"email": "intruder@example.com"}, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	router := newTestRouter(&stubRegStore{
		statsFn: func(context.Context) (*model.RegistrationStats, error) {
			return &model.RegistrationStats{Total: 3}, nil
		},
	}, &stubFormations{}, &stubMessages{})

	// No token.
	rec := doJSON(t, router, http.MethodGet, "/api/registrations/stats", nil, "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Garbage token.
	rec = doJSON(t, router, http.MethodGet, "/api/registrations/stats", nil, "garbage")
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Expired token.
	rec = doJSON(t, router, http.MethodGet, "/api/registrations/stats", nil,
		adminToken(t, time.Now().Add(-time.Hour)))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	// Valid token.
	rec = doJSON(t, router, http.MethodGet, "/api/registrations/stats", nil,
		adminToken(t, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	require.True(t, env.Success)
	var stats model.RegistrationStats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	require.Equal(t, 3, stats.Total)
}

func TestAuthMe(t *testing.T) {
	router := newTestRouter(&stubRegStore{}, &stubFormations{}, &stubMessages{})

	rec := doJSON(t, router, http.MethodGet, "/api/auth/me", nil,
		adminToken(t, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusOK, rec.Code)

	env := decodeEnvelope(t, rec)
	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Equal(t, "admin@example.com", data["email"])
}

func TestMessageCreateAndStatusUpdate(t *testing.T) {
	messages := &stubMessages{
		createFn: func(_ context.Context, m *model.Message) error {
			m.ID = "m1"
			m.Status = model.MessageUnread
			return nil
		},
		updateStatusFn: func(_ context.Context, id, status string) (*model.Message, error) {
			return &model.Message{ID: id, Status: status}, nil
		},
	}
	router := newTestRouter(&stubRegStore{}, &stubFormations{}, messages)

	rec := doJSON(t, router, http.MethodPost, "/api/messages", map[string]any{
		"full_name":    "Bob Diallo",
		"email":        "bob@example.com",
		"message":      "Bonjour, je cherche un devis.",
		"message_type": "project",
		"project_type": "Web Apps",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	env := decodeEnvelope(t, rec)
	var m model.Message
	require.NoError(t, json.Unmarshal(env.Data, &m))
	require.Equal(t, model.MessageUnread, m.Status)

	token := adminToken(t, time.Now().Add(time.Hour))

	// Invalid enum value is rejected before hitting the store.
	rec = doJSON(t, router, http.MethodPatch, "/api/messages/m1/status",
		map[string]string{"status": "pinned"}, token)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, router, http.MethodPatch, "/api/messages/m1/status",
		map[string]string{"status": "read"}, token)
	require.Equal(t, http.StatusOK, rec.Code)
}

type stubProjects struct {
	service.ProjectStore
	createFn func(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error)
}

func (s *stubProjects) Create(ctx context.Context, req model.CreateProjectRequest) (*model.Project, error) {
	return s.createFn(ctx, req)
}

func TestProjectCreateDuplicateSlug(t *testing.T) {
	projects := &stubProjects{
		createFn: func(context.Context, model.CreateProjectRequest) (*model.Project, error) {
			return nil, repository.ErrDuplicateSlug
		},
	}
	router := newTestRouterWithProjects(&stubRegStore{}, &stubFormations{}, &stubMessages{}, projects)

	rec := doJSON(t, router, http.MethodPost, "/api/projects",
		map[string]any{"title": "Portfolio v2"},
		adminToken(t, time.Now().Add(time.Hour)))
	require.Equal(t, http.StatusConflict, rec.Code)

	env := decodeEnvelope(t, rec)
	require.False(t, env.Success)
	require.Contains(t, env.Message, "slug")
}

func TestHealth(t *testing.T) {
	router := newTestRouter(&stubRegStore{}, &stubFormations{}, &stubMessages{})

	rec := doJSON(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
