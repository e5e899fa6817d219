package handler

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/service"
	"github.com/acrlib/library-kiosk-api/internal/utils"
)

// StudentHandler serves the student directory. Single-student lookup is
// open to the kiosk; the paginated listing is an admin view.
type StudentHandler struct {
	students service.StudentService
	logger   zerolog.Logger
}

func NewStudentHandler(students service.StudentService, logger zerolog.Logger) *StudentHandler {
	return &StudentHandler{
		students: students,
		logger:   logger.With().Str("component", "student_handler").Logger(),
	}
}

// Register mounts the student routes. "/codes" goes first so the static
// segment is not swallowed by the ":code" parameter. Lookup by code stays
// open for the kiosk; listings are admin views.
func (h *StudentHandler) Register(router fiber.Router, adminGuard fiber.Handler) {
	router.Get("/codes", adminGuard, h.codes)
	router.Get("/:code", h.getByCode)
	router.Get("", adminGuard, h.list)
}

func (h *StudentHandler) getByCode(c *fiber.Ctx) error {
	code := strings.TrimSpace(c.Params("code"))

	student, err := h.students.FindByCode(c.Context(), code)
	if err != nil {
		if errors.Is(err, service.ErrUnknownStudent) {
			return utils.SendError(c, fiber.StatusNotFound, "student not found")
		}
		h.logger.Error().Err(err).Str("code", code).Msg("failed to look up student")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"student": student})
}

func (h *StudentHandler) list(c *fiber.Ctx) error {
	query := dto.StudentListQuery{
		Search:     strings.TrimSpace(c.Query("search")),
		ClassLevel: strings.TrimSpace(c.Query("classLevel")),
		Page:       parseQueryInt(c, "page", 1),
		Limit:      parseQueryInt(c, "limit", 50),
	}
	// A present-but-empty room parameter means "students with no room
	// assigned", which is distinct from not filtering on room at all.
	if hasQueryParam(c, "room") {
		room := strings.TrimSpace(c.Query("room"))
		query.Room = &room
	}

	page, err := h.students.List(c.Context(), query)
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list students")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(page)
}

func (h *StudentHandler) codes(c *fiber.Ctx) error {
	codes, err := h.students.Codes(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list student codes")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"codes": codes})
}

// ClassRooms lists the distinct class level / room pairs present in the
// directory. Mounted at the API root rather than under /students.
func (h *StudentHandler) ClassRooms(c *fiber.Ctx) error {
	rooms, err := h.students.ClassRooms(c.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("failed to list classrooms")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	return c.JSON(fiber.Map{"classRooms": rooms})
}
