package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"

	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/models"
	"github.com/acrlib/library-kiosk-api/internal/observability"
	"github.com/acrlib/library-kiosk-api/internal/repository"
)

var (
	// ErrEmptyInput indicates a check-in without a student code or purposes.
	ErrEmptyInput = errors.New("student code and purposes are required")
	// ErrUnknownStudent indicates the student code is not in the roster.
	ErrUnknownStudent = errors.New("student not found")
	// ErrInvalidVisitID indicates a delete request with a non-positive id.
	ErrInvalidVisitID = errors.New("invalid attendance id")
)

// AttendanceService records library visits and produces monthly reports.
type AttendanceService interface {
	RecordVisit(ctx context.Context, studentCode string, purposes []string) error
	ListVisits(ctx context.Context, month, search string) (dto.AttendanceReport, error)
	DeleteVisit(ctx context.Context, id int64) error
}

type attendanceService struct {
	visits   repository.AttendanceRepository
	students repository.StudentRepository
	cache    *redis.Client
	cacheTTL time.Duration
	loc      *time.Location
	logger   zerolog.Logger
	tracer   trace.Tracer
	now      func() time.Time
}

// NewAttendanceService constructs the attendance service. The cache client
// may be nil to disable report caching.
func NewAttendanceService(
	visits repository.AttendanceRepository,
	students repository.StudentRepository,
	cache *redis.Client,
	cacheTTL time.Duration,
	loc *time.Location,
	logger zerolog.Logger,
) AttendanceService {
	return &attendanceService{
		visits:   visits,
		students: students,
		cache:    cache,
		cacheTTL: cacheTTL,
		loc:      loc,
		logger:   logger.With().Str("component", "attendance_service").Logger(),
		tracer:   otel.Tracer("github.com/acrlib/library-kiosk-api/internal/service/attendance"),
		now:      time.Now,
	}
}

// RecordVisit finds or creates today's entry for the student and merges the
// submitted purposes into it. Date resolution uses the configured timezone
// so every kiosk agrees on what "today" means. Exactly one write reaches the
// attendance collection.
func (s *attendanceService) RecordVisit(ctx context.Context, studentCode string, purposes []string) error {
	ctx, span := s.tracer.Start(ctx, "attendance.record_visit")
	defer span.End()

	code := strings.TrimSpace(studentCode)
	cleaned := normalizePurposes(purposes)
	if code == "" || len(cleaned) == 0 {
		span.SetStatus(codes.Error, "missing code or purposes")
		return ErrEmptyInput
	}

	student, err := s.students.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			span.SetStatus(codes.Error, "unknown student")
			return ErrUnknownStudent
		}
		span.RecordError(err)
		return err
	}
	span.SetAttributes(attribute.String("student.code", student.StudentCode))

	now := s.now().In(s.loc)
	today := now.Format("2006-01-02")

	entry := models.AttendanceLog{
		StudentID:      student.ID,
		AttendanceDate: today,
		AttendanceTime: now.Format("15:04"),
		Purposes:       datatypes.NewJSONSlice(cleaned),
	}

	existing, err := s.visits.FindForDate(ctx, student.ID, today)
	switch {
	case err == nil:
		entry.ID = existing.ID
		entry.CreatedAt = existing.CreatedAt
		entry.Purposes = datatypes.NewJSONSlice(unionPurposes(existing.Purposes, cleaned))
	case !errors.Is(err, repository.ErrNotFound):
		span.RecordError(err)
		return err
	}

	if err := s.visits.Upsert(ctx, &entry); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "persistence failed")
		return err
	}

	for _, purpose := range cleaned {
		observability.VisitsRecorded().WithLabelValues(purpose).Inc()
	}

	s.logger.Info().
		Str("student_code", student.StudentCode).
		Str("date", today).
		Int("purposes", len(entry.Purposes)).
		Msg("visit recorded")
	span.SetStatus(codes.Ok, "recorded")

	return nil
}

// ListVisits returns the visit records of one calendar month with aggregate
// stats. A malformed month is silently replaced by the current month.
func (s *attendanceService) ListVisits(ctx context.Context, month, search string) (dto.AttendanceReport, error) {
	start := time.Now()
	defer func() {
		observability.ReportLatency().Observe(time.Since(start).Seconds())
	}()

	startDate, endDate := resolveMonthRange(month, s.now().In(s.loc))
	trimmedSearch := strings.TrimSpace(search)
	cacheKey := fmt.Sprintf("attendance:report:%s:%s", startDate, strings.ToLower(trimmedSearch))

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var report dto.AttendanceReport
			if unmarshalErr := json.Unmarshal([]byte(cached), &report); unmarshalErr == nil {
				s.logger.Debug().Str("month", startDate[:7]).Msg("report cache hit")
				return report, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read report cache")
		}
	}

	records, err := s.visits.List(ctx, repository.VisitFilter{
		StartDate: startDate,
		EndDate:   endDate,
		Search:    trimmedSearch,
	})
	if err != nil {
		return dto.AttendanceReport{}, err
	}
	if records == nil {
		records = []repository.VisitRecord{}
	}

	report := dto.AttendanceReport{Records: records, Stats: buildStats(records)}

	if s.cache != nil {
		if payload, err := json.Marshal(report); err == nil {
			if err := s.cache.Set(ctx, cacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store report cache")
			}
		}
	}

	return report, nil
}

// DeleteVisit removes one entry by id. Deleting an id that no longer exists
// succeeds; resubmitting a delete must not error.
func (s *attendanceService) DeleteVisit(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidVisitID
	}

	return s.visits.Delete(ctx, uint(id))
}

func buildStats(records []repository.VisitRecord) dto.AttendanceStats {
	purposeCounts := make(map[string]int)
	studentIDs := make(map[uint]struct{})

	for _, record := range records {
		studentIDs[record.StudentID] = struct{}{}
		for _, purpose := range record.Purposes {
			if purpose == "" {
				continue
			}
			purposeCounts[purpose]++
		}
	}

	return dto.AttendanceStats{
		TotalRecords:   len(records),
		UniqueStudents: len(studentIDs),
		PurposeCounts:  purposeCounts,
	}
}

// normalizePurposes trims entries and collapses duplicates, keeping the
// first-seen order.
func normalizePurposes(purposes []string) []string {
	seen := make(map[string]struct{}, len(purposes))
	cleaned := make([]string, 0, len(purposes))
	for _, purpose := range purposes {
		trimmed := strings.TrimSpace(purpose)
		if trimmed == "" {
			continue
		}
		if _, dup := seen[trimmed]; dup {
			continue
		}
		seen[trimmed] = struct{}{}
		cleaned = append(cleaned, trimmed)
	}

	return cleaned
}

// unionPurposes appends the new purposes that are not already present,
// preserving the stored order ahead of the additions.
func unionPurposes(existing, incoming []string) []string {
	merged := make([]string, 0, len(existing)+len(incoming))
	seen := make(map[string]struct{}, len(existing)+len(incoming))
	for _, purpose := range existing {
		if _, dup := seen[purpose]; dup || purpose == "" {
			continue
		}
		seen[purpose] = struct{}{}
		merged = append(merged, purpose)
	}
	for _, purpose := range incoming {
		if _, dup := seen[purpose]; dup {
			continue
		}
		seen[purpose] = struct{}{}
		merged = append(merged, purpose)
	}

	return merged
}
