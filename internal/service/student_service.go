package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"github.com/acrlib/library-kiosk-api/internal/dto"
	"github.com/acrlib/library-kiosk-api/internal/models"
	"github.com/acrlib/library-kiosk-api/internal/repository"
)

// StudentService exposes roster lookups and admin roster management.
type StudentService interface {
	FindByCode(ctx context.Context, code string) (models.Student, error)
	List(ctx context.Context, query dto.StudentListQuery) (dto.StudentPage, error)
	BulkImport(ctx context.Context, rows []dto.StudentImportRow) (int, error)
	DeleteByCodes(ctx context.Context, codes []string) error
	Codes(ctx context.Context) ([]string, error)
	ClassRooms(ctx context.Context) ([]repository.ClassRoom, error)
	AdjustScore(ctx context.Context, adjustment dto.ScoreAdjustment) error
}

type studentService struct {
	students repository.StudentRepository
	scores   repository.ScoreRepository
	validate *validator.Validate
	logger   zerolog.Logger
}

// NewStudentService constructs the student directory service.
func NewStudentService(
	students repository.StudentRepository,
	scores repository.ScoreRepository,
	validate *validator.Validate,
	logger zerolog.Logger,
) StudentService {
	return &studentService{
		students: students,
		scores:   scores,
		validate: validate,
		logger:   logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) FindByCode(ctx context.Context, code string) (models.Student, error) {
	student, err := s.students.GetByCode(ctx, strings.TrimSpace(code))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return models.Student{}, ErrUnknownStudent
		}
		return models.Student{}, err
	}

	totals, err := s.scores.TotalsByCode(ctx, []string{student.StudentCode})
	if err != nil {
		return models.Student{}, err
	}
	student.Points = totals[student.StudentCode]

	return student, nil
}

func (s *studentService) List(ctx context.Context, query dto.StudentListQuery) (dto.StudentPage, error) {
	filter := repository.StudentFilter{
		Search:     strings.TrimSpace(query.Search),
		ClassLevel: strings.TrimSpace(query.ClassLevel),
		Room:       query.Room,
		Page:       query.Page,
		Limit:      query.Limit,
	}

	students, total, err := s.students.List(ctx, filter)
	if err != nil {
		return dto.StudentPage{}, err
	}
	if students == nil {
		students = []models.Student{}
	}

	if len(students) > 0 {
		codes := make([]string, len(students))
		for i, student := range students {
			codes[i] = student.StudentCode
		}
		totals, err := s.scores.TotalsByCode(ctx, codes)
		if err != nil {
			return dto.StudentPage{}, err
		}
		for i := range students {
			students[i].Points = totals[students[i].StudentCode]
		}
	}

	return dto.StudentPage{Students: students, Total: total}, nil
}

// BulkImport normalizes and upserts roster rows, keyed by student code.
// Rows missing a code or name are dropped, not treated as errors, so one
// bad spreadsheet line cannot sink a whole import.
func (s *studentService) BulkImport(ctx context.Context, rows []dto.StudentImportRow) (int, error) {
	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		normalized, ok := s.normalizeImportRow(row)
		if !ok {
			continue
		}
		students = append(students, normalized)
	}
	if len(students) == 0 {
		return 0, nil
	}

	if _, err := s.students.UpsertBatch(ctx, students); err != nil {
		return 0, err
	}

	s.logger.Info().Int("processed", len(students)).Msg("roster import applied")

	return len(students), nil
}

func (s *studentService) normalizeImportRow(row dto.StudentImportRow) (models.Student, bool) {
	row.StudentCode = strings.TrimSpace(row.StudentCode)
	row.ClassLevel = strings.TrimSpace(row.ClassLevel)
	row.Room = strings.TrimSpace(row.Room)
	row.Number = strings.TrimSpace(row.Number)
	row.Title = strings.TrimSpace(row.Title)
	row.FirstName = strings.TrimSpace(row.FirstName)
	row.LastName = strings.TrimSpace(row.LastName)

	if err := s.validate.Struct(row); err != nil {
		return models.Student{}, false
	}

	if row.ClassLevel == "" {
		row.ClassLevel = "-"
	}

	return models.Student{
		StudentCode: row.StudentCode,
		ClassLevel:  row.ClassLevel,
		Room:        models.NullableString(row.Room),
		Number:      models.NullableString(row.Number),
		Title:       models.NullableString(row.Title),
		FirstName:   row.FirstName,
		LastName:    row.LastName,
	}, true
}

func (s *studentService) DeleteByCodes(ctx context.Context, codes []string) error {
	return s.students.DeleteByCodes(ctx, codes)
}

func (s *studentService) Codes(ctx context.Context) ([]string, error) {
	return s.students.Codes(ctx)
}

func (s *studentService) ClassRooms(ctx context.Context) ([]repository.ClassRoom, error) {
	return s.students.ClassRooms(ctx)
}

func (s *studentService) AdjustScore(ctx context.Context, adjustment dto.ScoreAdjustment) error {
	adjustment.StudentCode = strings.TrimSpace(adjustment.StudentCode)
	adjustment.Note = strings.TrimSpace(adjustment.Note)
	if err := s.validate.Struct(adjustment); err != nil {
		return err
	}

	return s.scores.Add(ctx, &models.LibraryScore{
		StudentCode: adjustment.StudentCode,
		Change:      adjustment.Change,
		Note:        adjustment.Note,
	})
}
