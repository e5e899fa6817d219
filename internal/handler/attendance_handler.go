package handler

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/observability"
	"github.com/acrlib/library-kiosk-api/internal/rfid"
	"github.com/acrlib/library-kiosk-api/internal/service"
	"github.com/acrlib/library-kiosk-api/internal/utils"
)

// AttendanceHandler exposes the visit log over HTTP: the kiosk posts
// check-ins, the dashboard reads monthly reports.
type AttendanceHandler struct {
	attendance service.AttendanceService
	debouncer  *rfid.Debouncer
	logger     zerolog.Logger
}

func NewAttendanceHandler(attendance service.AttendanceService, debouncer *rfid.Debouncer, logger zerolog.Logger) *AttendanceHandler {
	return &AttendanceHandler{
		attendance: attendance,
		debouncer:  debouncer,
		logger:     logger.With().Str("component", "attendance_handler").Logger(),
	}
}

// Register mounts the attendance routes. Deleting a record is an admin
// action, so that route sits behind the supplied guard.
func (h *AttendanceHandler) Register(router fiber.Router, adminGuard fiber.Handler) {
	router.Get("", h.list)
	router.Post("", h.record)
	router.Post("/scan", h.scan)
	router.Delete("/:id", adminGuard, h.remove)
}

func (h *AttendanceHandler) list(c *fiber.Ctx) error {
	month := strings.TrimSpace(c.Query("month"))
	search := strings.TrimSpace(c.Query("search"))

	report, err := h.attendance.ListVisits(c.Context(), month, search)
	if err != nil {
		h.logger.Error().Err(err).Str("month", month).Msg("failed to load attendance report")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(report)
}

func (h *AttendanceHandler) record(c *fiber.Ctx) error {
	var req dto.RecordVisitRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.attendance.RecordVisit(c.Context(), req.StudentCode, req.AllPurposes()); err != nil {
		return h.recordError(c, err)
	}
	return utils.SendSuccess(c)
}

// scan handles check-ins coming straight from the RFID reader. Repeated
// reads of the same card inside the cooldown window are acknowledged but
// not recorded, so a card resting on the reader logs a single visit.
func (h *AttendanceHandler) scan(c *fiber.Ctx) error {
	var req dto.ScanRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "card id is required")
	}

	if !h.debouncer.Accept(cardID) {
		observability.ScansSuppressed().Inc()
		h.logger.Debug().Str("card_id", cardID).Msg("duplicate scan suppressed")
		return c.JSON(fiber.Map{"success": false, "ignored": true})
	}

	if err := h.attendance.RecordVisit(c.Context(), cardID, req.AllPurposes()); err != nil {
		// A failed scan must not hold the cooldown: a card rejected here
		// (e.g. not in the roster yet) can be re-swiped immediately.
		h.debouncer.Reset()
		return h.recordError(c, err)
	}
	return utils.SendSuccess(c)
}

func (h *AttendanceHandler) remove(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid attendance id")
	}

	if err := h.attendance.DeleteVisit(c.Context(), id); err != nil {
		if errors.Is(err, service.ErrInvalidVisitID) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		h.logger.Error().Err(err).Int64("id", id).Msg("failed to delete attendance record")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return utils.SendSuccess(c)
}

func (h *AttendanceHandler) recordError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrEmptyInput):
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrUnknownStudent):
		return utils.SendError(c, fiber.StatusNotFound, err.Error())
	default:
		h.logger.Error().Err(err).Msg("failed to record visit")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
}
