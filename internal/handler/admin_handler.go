package handler

import (
	"crypto/subtle"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acrlib/library-kiosk-api/internal/config"
	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/middleware"
	"github.com/acrlib/library-kiosk-api/internal/repository"
	"github.com/acrlib/library-kiosk-api/internal/service"
	"github.com/acrlib/library-kiosk-api/internal/utils"
)

const adminSessionTTL = 8 * time.Hour

// AdminHandler covers the single shared admin account: session login and
// the maintenance operations behind it (roster import, deletion, score
// adjustments).
type AdminHandler struct {
	students service.StudentService
	validate *validator.Validate
	cfg      config.Config
	logger   zerolog.Logger
}

func NewAdminHandler(students service.StudentService, validate *validator.Validate, cfg config.Config, logger zerolog.Logger) *AdminHandler {
	return &AdminHandler{
		students: students,
		validate: validate,
		cfg:      cfg,
		logger:   logger.With().Str("component", "admin_handler").Logger(),
	}
}

func (h *AdminHandler) Register(router fiber.Router, adminGuard fiber.Handler) {
	router.Post("/login", h.login)
	router.Post("/logout", h.logout)
	router.Get("/session", h.session)
	router.Post("/students/import", adminGuard, h.importStudents)
	router.Delete("/students", adminGuard, h.deleteStudents)
	router.Post("/scores", adminGuard, h.adjustScore)
}

type loginRequest struct {
	Password string `json:"password"`
}

func (h *AdminHandler) login(c *fiber.Ctx) error {
	if h.cfg.AdminPassword == "" {
		h.logger.Error().Msg("admin login attempted without a configured password")
		return utils.SendError(c, fiber.StatusInternalServerError, "admin password is not configured")
	}

	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if req.Password == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "password is required")
	}
	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.cfg.AdminPassword)) != 1 {
		h.logger.Warn().Str("ip", c.IP()).Msg("admin login rejected")
		return utils.SendError(c, fiber.StatusUnauthorized, "invalid password")
	}

	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    h.cfg.AdminSessionToken,
		Path:     "/",
		MaxAge:   int(adminSessionTTL.Seconds()),
		HTTPOnly: true,
		Secure:   h.cfg.AppEnv == "production",
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.SendSuccess(c)
}

func (h *AdminHandler) logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:     middleware.AdminSessionCookie,
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
	return utils.SendSuccess(c)
}

func (h *AdminHandler) session(c *fiber.Ctx) error {
	authenticated := c.Cookies(middleware.AdminSessionCookie) == h.cfg.AdminSessionToken
	return c.JSON(fiber.Map{"authenticated": authenticated})
}

func (h *AdminHandler) importStudents(c *fiber.Ctx) error {
	var req dto.StudentImportRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "no rows to import")
	}

	processed, err := h.students.BulkImport(c.Context(), req.Rows)
	if err != nil {
		h.logger.Error().Err(err).Msg("student import failed")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	h.logger.Info().Int("processed", processed).Msg("student roster imported")
	return c.JSON(fiber.Map{"success": true, "processed": processed})
}

func (h *AdminHandler) deleteStudents(c *fiber.Ctx) error {
	var req dto.StudentDeleteRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if err := h.validate.Struct(req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "no student codes provided")
	}

	if err := h.students.DeleteByCodes(c.Context(), req.Codes); err != nil {
		h.logger.Error().Err(err).Msg("student deletion failed")
		return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
	}
	h.logger.Info().Int("count", len(req.Codes)).Msg("students deleted")
	return utils.SendSuccess(c)
}

func (h *AdminHandler) adjustScore(c *fiber.Ctx) error {
	var req dto.ScoreAdjustment
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	if err := h.students.AdjustScore(c.Context(), req); err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, repository.ErrScoresUnsupported):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		default:
			h.logger.Error().Err(err).Str("student_code", req.StudentCode).Msg("score adjustment failed")
			return utils.SendError(c, fiber.StatusInternalServerError, err.Error())
		}
	}
	return utils.SendSuccess(c)
}
