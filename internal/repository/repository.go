package repository

import (
	"context"
	"errors"

	"github.com/acrlib/library-kiosk-api/internal/models"
)

var (
	// ErrNotFound indicates the requested row does not exist in the backend.
	ErrNotFound = errors.New("record not found")
	// ErrScoresUnsupported indicates the active backend has no score storage.
	ErrScoresUnsupported = errors.New("library scores are not supported by this backend")
)

// StudentFilter narrows roster listings.
type StudentFilter struct {
	Search     string
	ClassLevel string
	// Room filters by exact room when set. A pointer to the empty string
	// matches students with a blank or missing room.
	Room  *string
	Page  int
	Limit int
}

// ClassRoom is one distinct (class level, room) combination in the roster.
type ClassRoom struct {
	ClassLevel string  `json:"classLevel"`
	Room       *string `json:"room"`
}

// VisitFilter narrows attendance listings to an inclusive date range plus an
// optional case-insensitive student search.
type VisitFilter struct {
	StartDate string
	EndDate   string
	Search    string
}

// VisitRecord is an attendance entry joined with its student for reporting.
type VisitRecord struct {
	ID             uint     `json:"id"`
	StudentID      uint     `json:"studentId"`
	StudentCode    string   `json:"studentCode"`
	AttendanceDate string   `json:"attendanceDate"`
	AttendanceTime string   `json:"attendanceTime"`
	Purposes       []string `json:"purposes"`
	ClassLevel     string   `json:"classLevel"`
	Room           *string  `json:"room"`
	Title          *string  `json:"title"`
	Number         *string  `json:"number"`
	FirstName      string   `json:"firstName"`
	LastName       string   `json:"lastName"`
}

// StudentRepository provides row-level access to the student roster.
type StudentRepository interface {
	GetByCode(ctx context.Context, code string) (models.Student, error)
	List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error)
	UpsertBatch(ctx context.Context, students []models.Student) (int64, error)
	DeleteByCodes(ctx context.Context, codes []string) error
	Codes(ctx context.Context) ([]string, error)
	ClassRooms(ctx context.Context) ([]ClassRoom, error)
	Ping(ctx context.Context) error
}

// AttendanceRepository provides row-level access to attendance entries.
// Upsert is keyed by (student, date): inserting a row for a pair that
// already exists overwrites its time and purposes.
type AttendanceRepository interface {
	FindForDate(ctx context.Context, studentID uint, date string) (models.AttendanceLog, error)
	Upsert(ctx context.Context, entry *models.AttendanceLog) error
	List(ctx context.Context, filter VisitFilter) ([]VisitRecord, error)
	Delete(ctx context.Context, id uint) error
}

// ScoreRepository provides access to library point adjustments.
type ScoreRepository interface {
	// TotalsByCode sums adjustments per student code. An empty code list
	// returns totals for every student that has adjustments.
	TotalsByCode(ctx context.Context, codes []string) (map[string]int, error)
	Add(ctx context.Context, score *models.LibraryScore) error
}
