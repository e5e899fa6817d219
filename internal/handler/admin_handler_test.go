package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/acrlib/library-kiosk-api/internal/config"
	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/middleware"
	"github.com/acrlib/library-kiosk-api/internal/repository"
)

func newAdminApp(t *testing.T, svc *stubStudentService, cfg config.Config) *fiber.App {
	t.Helper()

	app := fiber.New()
	h := NewAdminHandler(svc, validator.New(validator.WithRequiredStructEnabled()), cfg, zerolog.Nop())
	h.Register(app.Group("/api/admin"), middleware.AdminOnly(cfg.AdminSessionToken))

	return app
}

func adminTestConfig() config.Config {
	return config.Config{AdminPassword: "secret", AdminSessionToken: "tok-123"}
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func TestAdminLoginSetsSessionCookie(t *testing.T) {
	app := newAdminApp(t, &stubStudentService{}, adminTestConfig())

	status, body := postJSON(t, app, "/api/admin/login", fiber.Map{"password": "wrong"})
	require.Equal(t, fiber.StatusUnauthorized, status)
	require.NotEmpty(t, body["error"])

	status, body = postJSON(t, app, "/api/admin/login", fiber.Map{"password": ""})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotEmpty(t, body["error"])

	req := httptest.NewRequest(fiber.MethodPost, "/api/admin/login", jsonBody(t, fiber.Map{"password": "secret"}))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := findCookie(resp, middleware.AdminSessionCookie)
	require.NotNil(t, cookie)
	require.Equal(t, "tok-123", cookie.Value)
	require.True(t, cookie.HttpOnly)
	require.Equal(t, http.SameSiteLaxMode, cookie.SameSite)
	require.Equal(t, 8*3600, cookie.MaxAge)
}

func TestAdminLoginWithoutConfiguredPassword(t *testing.T) {
	app := newAdminApp(t, &stubStudentService{}, config.Config{AdminSessionToken: "tok"})

	status, body := postJSON(t, app, "/api/admin/login", fiber.Map{"password": "anything"})
	require.Equal(t, fiber.StatusInternalServerError, status)
	require.NotEmpty(t, body["error"])
}

func TestAdminSessionEndpoint(t *testing.T) {
	app := newAdminApp(t, &stubStudentService{}, adminTestConfig())

	req := httptest.NewRequest(fiber.MethodGet, "/api/admin/session", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	req = httptest.NewRequest(fiber.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "tok-123"})
	status, body := doJSON(t, app, req)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["authenticated"])

	req = httptest.NewRequest(fiber.MethodGet, "/api/admin/session", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "forged"})
	status, body = doJSON(t, app, req)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, false, body["authenticated"])
}

func TestAdminLogoutExpiresCookie(t *testing.T) {
	app := newAdminApp(t, &stubStudentService{}, adminTestConfig())

	req := httptest.NewRequest(fiber.MethodPost, "/api/admin/logout", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	cookie := findCookie(resp, middleware.AdminSessionCookie)
	require.NotNil(t, cookie)
	require.Empty(t, cookie.Value)
	require.True(t, cookie.Expires.Before(time.Now()))
}

func TestAdminRoutesRequireSession(t *testing.T) {
	app := newAdminApp(t, &stubStudentService{}, adminTestConfig())

	status, body := postJSON(t, app, "/api/admin/scores", fiber.Map{"studentCode": "S001", "change": 5, "note": "x"})
	require.Equal(t, fiber.StatusUnauthorized, status)
	require.Equal(t, "unauthorized", body["error"])
}

func TestAdminImportStudents(t *testing.T) {
	svc := &stubStudentService{
		importFn: func(_ context.Context, rows []dto.StudentImportRow) (int, error) {
			return len(rows), nil
		},
	}
	app := newAdminApp(t, svc, adminTestConfig())

	req := httptest.NewRequest(fiber.MethodPost, "/api/admin/students/import", jsonBody(t, fiber.Map{
		"rows": []fiber.Map{{"studentCode": "S001", "firstName": "Anan", "lastName": "Srisuk"}},
	}))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "tok-123"})
	status, body := doJSON(t, app, req)
	require.Equal(t, fiber.StatusOK, status)
	require.EqualValues(t, 1, body["processed"])

	// An empty batch never reaches the service.
	req = httptest.NewRequest(fiber.MethodPost, "/api/admin/students/import", jsonBody(t, fiber.Map{"rows": []fiber.Map{}}))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "tok-123"})
	status, _ = doJSON(t, app, req)
	require.Equal(t, fiber.StatusBadRequest, status)
}

func TestAdminAdjustScoreUnsupportedBackend(t *testing.T) {
	svc := &stubStudentService{
		adjustFn: func(context.Context, dto.ScoreAdjustment) error {
			return repository.ErrScoresUnsupported
		},
	}
	app := newAdminApp(t, svc, adminTestConfig())

	req := httptest.NewRequest(fiber.MethodPost, "/api/admin/scores", jsonBody(t, fiber.Map{
		"studentCode": "S001", "change": 5, "note": "quiz winner",
	}))
	req.Header.Set("Content-Type", "application/json")
	req.AddCookie(&http.Cookie{Name: middleware.AdminSessionCookie, Value: "tok-123"})
	status, body := doJSON(t, app, req)
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotEmpty(t, body["error"])
}
