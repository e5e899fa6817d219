package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/acrlib/library-kiosk-api/internal/config"
	"github.com/acrlib/library-kiosk-api/internal/database"
	"github.com/acrlib/library-kiosk-api/internal/handler"
	"github.com/acrlib/library-kiosk-api/internal/middleware"
	"github.com/acrlib/library-kiosk-api/internal/repository"
	"github.com/acrlib/library-kiosk-api/internal/rfid"
	"github.com/acrlib/library-kiosk-api/internal/router"
	"github.com/acrlib/library-kiosk-api/internal/service"
	"github.com/acrlib/library-kiosk-api/internal/sheets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	loc, err := cfg.Location()
	if err != nil {
		log.Fatalf("failed to resolve timezone: %v", err)
	}

	students, visits, scores, ping, err := buildRepositories(cfg)
	if err != nil {
		log.Fatalf("failed to initialise %s storage: %v", cfg.StoreBackend, err)
	}
	logger.Info().Str("backend", cfg.StoreBackend).Msg("storage backend ready")

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	attendanceService := service.NewAttendanceService(visits, students, redisClient, cfg.ReportCacheTTL, loc, logger)
	studentService := service.NewStudentService(students, scores, validate, logger)

	debouncer := rfid.NewDebouncer(cfg.ScanCooldown)

	attendanceHandler := handler.NewAttendanceHandler(attendanceService, debouncer, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	adminHandler := handler.NewAdminHandler(studentService, validate, cfg, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, router.Dependencies{
		Attendance: attendanceHandler,
		Students:   studentHandler,
		Admin:      adminHandler,
		HealthPing: ping,
		AdminGuard: middleware.AdminOnly(cfg.AdminSessionToken),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

// buildRepositories wires the storage adapters for the configured backend.
// Both backends expose the same repository interfaces, so everything above
// this point is backend-agnostic.
func buildRepositories(cfg config.Config) (
	repository.StudentRepository,
	repository.AttendanceRepository,
	repository.ScoreRepository,
	func(ctx context.Context) error,
	error,
) {
	switch cfg.StoreBackend {
	case config.BackendSheets:
		client, err := sheets.NewClient(sheets.Config{
			SpreadsheetID:   cfg.SheetsSpreadsheetID,
			StudentsSheet:   cfg.SheetsStudentsSheet,
			AttendanceSheet: cfg.SheetsAttendanceSheet,
			ServiceAccount:  cfg.ServiceAccountEmail,
			PrivateKey:      cfg.ServiceAccountKey,
		})
		if err != nil {
			return nil, nil, nil, nil, err
		}

		students := repository.NewSheetsStudentRepository(client)
		return students,
			repository.NewSheetsAttendanceRepository(client),
			repository.NewSheetsScoreRepository(),
			students.Ping,
			nil

	default:
		db, err := database.ConnectMySQL(cfg.MySQLDSN)
		if err != nil {
			return nil, nil, nil, nil, err
		}

		students := repository.NewGormStudentRepository(db)
		return students,
			repository.NewGormAttendanceRepository(db),
			repository.NewGormScoreRepository(db),
			students.Ping,
			nil
	}
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
