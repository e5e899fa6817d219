package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/repository"
	"github.com/acrlib/library-kiosk-api/internal/rfid"
	"github.com/acrlib/library-kiosk-api/internal/service"
)

type stubAttendanceService struct {
	recordFn func(ctx context.Context, studentCode string, purposes []string) error
	listFn   func(ctx context.Context, month, search string) (dto.AttendanceReport, error)
	deleteFn func(ctx context.Context, id int64) error
}

func (s *stubAttendanceService) RecordVisit(ctx context.Context, studentCode string, purposes []string) error {
	return s.recordFn(ctx, studentCode, purposes)
}

func (s *stubAttendanceService) ListVisits(ctx context.Context, month, search string) (dto.AttendanceReport, error) {
	return s.listFn(ctx, month, search)
}

func (s *stubAttendanceService) DeleteVisit(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

func allowAll(c *fiber.Ctx) error { return c.Next() }

func newAttendanceApp(t *testing.T, svc service.AttendanceService) *fiber.App {
	t.Helper()

	app := fiber.New()
	h := NewAttendanceHandler(svc, rfid.NewDebouncer(2*time.Second), zerolog.Nop())
	h.Register(app.Group("/api/attendance"), allowAll)

	return app
}

func jsonBody(t *testing.T, payload any) *bytes.Reader {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	return bytes.NewReader(body)
}

func doJSON(t *testing.T, app *fiber.App, req *http.Request) (int, map[string]any) {
	t.Helper()

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return resp.StatusCode, decoded
}

func postJSON(t *testing.T, app *fiber.App, path string, payload any) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(fiber.MethodPost, path, jsonBody(t, payload))
	req.Header.Set("Content-Type", "application/json")

	return doJSON(t, app, req)
}

func TestRecordVisitEndpoint(t *testing.T) {
	var gotCode string
	var gotPurposes []string
	svc := &stubAttendanceService{
		recordFn: func(_ context.Context, studentCode string, purposes []string) error {
			gotCode = studentCode
			gotPurposes = purposes
			return nil
		},
	}
	app := newAttendanceApp(t, svc)

	status, body := postJSON(t, app, "/api/attendance", fiber.Map{
		"studentCode": "S001",
		"purposes":    []string{"reading"},
		"purpose":     "homework",
	})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, "S001", gotCode)
	// The legacy single-purpose field folds into the list.
	require.Equal(t, []string{"reading", "homework"}, gotPurposes)
}

func TestRecordVisitEndpointErrors(t *testing.T) {
	svc := &stubAttendanceService{
		recordFn: func(_ context.Context, studentCode string, _ []string) error {
			if studentCode == "S404" {
				return service.ErrUnknownStudent
			}
			return service.ErrEmptyInput
		},
	}
	app := newAttendanceApp(t, svc)

	status, body := postJSON(t, app, "/api/attendance", fiber.Map{"studentCode": "S404", "purpose": "reading"})
	require.Equal(t, fiber.StatusNotFound, status)
	require.NotEmpty(t, body["error"])

	status, body = postJSON(t, app, "/api/attendance", fiber.Map{"studentCode": ""})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotEmpty(t, body["error"])
}

func TestScanEndpointSuppressesRepeatCards(t *testing.T) {
	calls := 0
	svc := &stubAttendanceService{
		recordFn: func(context.Context, string, []string) error {
			calls++
			return nil
		},
	}
	app := newAttendanceApp(t, svc)

	payload := fiber.Map{"cardId": "card-1", "purpose": "reading"}

	status, body := postJSON(t, app, "/api/attendance/scan", payload)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["success"])

	// The same card inside the cooldown is acknowledged but not recorded.
	status, body = postJSON(t, app, "/api/attendance/scan", payload)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, false, body["success"])
	require.Equal(t, true, body["ignored"])
	require.Equal(t, 1, calls)

	// A different card passes straight through.
	status, _ = postJSON(t, app, "/api/attendance/scan", fiber.Map{"cardId": "card-2", "purpose": "reading"})
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, 2, calls)
}

func TestScanEndpointAllowsRetryAfterFailedRecord(t *testing.T) {
	calls := 0
	svc := &stubAttendanceService{
		recordFn: func(context.Context, string, []string) error {
			calls++
			if calls == 1 {
				return service.ErrUnknownStudent
			}
			return nil
		},
	}
	app := newAttendanceApp(t, svc)

	payload := fiber.Map{"cardId": "card-9", "purpose": "reading"}

	status, body := postJSON(t, app, "/api/attendance/scan", payload)
	require.Equal(t, fiber.StatusNotFound, status)
	require.NotEmpty(t, body["error"])

	// The failed swipe does not occupy the cooldown: once the student is
	// added to the roster, the same card records on the next attempt.
	status, body = postJSON(t, app, "/api/attendance/scan", payload)
	require.Equal(t, fiber.StatusOK, status)
	require.Equal(t, true, body["success"])
	require.Equal(t, 2, calls)
}

func TestScanEndpointRequiresCardID(t *testing.T) {
	svc := &stubAttendanceService{}
	app := newAttendanceApp(t, svc)

	status, body := postJSON(t, app, "/api/attendance/scan", fiber.Map{"cardId": "  "})
	require.Equal(t, fiber.StatusBadRequest, status)
	require.NotEmpty(t, body["error"])
}

func TestListVisitsEndpoint(t *testing.T) {
	svc := &stubAttendanceService{
		listFn: func(_ context.Context, month, search string) (dto.AttendanceReport, error) {
			require.Equal(t, "2026-01", month)
			require.Equal(t, "anan", search)
			return dto.AttendanceReport{
				Records: []repository.VisitRecord{{ID: 7, StudentCode: "S001"}},
				Stats:   dto.AttendanceStats{TotalRecords: 1, UniqueStudents: 1, PurposeCounts: map[string]int{"reading": 1}},
			}, nil
		},
	}
	app := newAttendanceApp(t, svc)

	req := httptest.NewRequest(fiber.MethodGet, "/api/attendance?month=2026-01&search=anan", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var report dto.AttendanceReport
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&report))
	require.Len(t, report.Records, 1)
	require.Equal(t, "S001", report.Records[0].StudentCode)
	require.Equal(t, 1, report.Stats.TotalRecords)
}

func TestDeleteVisitEndpoint(t *testing.T) {
	var gotID int64
	svc := &stubAttendanceService{
		deleteFn: func(_ context.Context, id int64) error {
			gotID = id
			return nil
		},
	}
	app := newAttendanceApp(t, svc)

	req := httptest.NewRequest(fiber.MethodDelete, "/api/attendance/42", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.EqualValues(t, 42, gotID)

	req = httptest.NewRequest(fiber.MethodDelete, "/api/attendance/not-a-number", nil)
	resp, err = app.Test(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
