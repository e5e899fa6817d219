package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/acrlib/library-kiosk-api/internal/database"
	"github.com/acrlib/library-kiosk-api/internal/models"
)

type gormAttendanceRepository struct {
	db *gorm.DB
}

// NewGormAttendanceRepository constructs the relational attendance adapter.
func NewGormAttendanceRepository(db *gorm.DB) AttendanceRepository {
	return &gormAttendanceRepository{db: db}
}

func (r *gormAttendanceRepository) FindForDate(ctx context.Context, studentID uint, date string) (models.AttendanceLog, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return models.AttendanceLog{}, err
	}

	var entry models.AttendanceLog
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND attendance_date = ?", studentID, date).
		First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.AttendanceLog{}, ErrNotFound
		}
		return models.AttendanceLog{}, err
	}

	return entry, nil
}

// Upsert hands the find-or-create race to the storage engine: the unique
// (student_id, attendance_date) key resolves concurrent first check-ins by
// turning the losing insert into an update of time and purposes.
func (r *gormAttendanceRepository) Upsert(ctx context.Context, entry *models.AttendanceLog) error {
	if err := database.EnsureSchema(r.db); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id"}, {Name: "attendance_date"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"attendance_time", "purposes", "updated_at",
		}),
	}).Create(entry).Error
}

// visitRow mirrors the reporting SELECT; purposes stay raw until decoded.
type visitRow struct {
	ID             uint
	StudentID      uint
	StudentCode    string
	AttendanceDate string
	AttendanceTime string
	Purposes       string
	ClassLevel     string
	Room           *string
	Title          *string
	Number         *string
	FirstName      string
	LastName       string
}

func (r *gormAttendanceRepository) List(ctx context.Context, filter VisitFilter) ([]VisitRecord, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return nil, err
	}

	query := r.db.WithContext(ctx).
		Table("attendance_logs AS a").
		Select(`a.id, a.student_id, s.student_code, a.attendance_date, a.attendance_time, a.purposes,
			s.class_level, NULLIF(s.room, '') AS room, NULLIF(s.title, '') AS title,
			NULLIF(s.student_number, '') AS number, s.first_name, s.last_name`).
		Joins("INNER JOIN students s ON s.id = a.student_id").
		Where("a.attendance_date BETWEEN ? AND ?", filter.StartDate, filter.EndDate)

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(s.student_code) LIKE ? OR LOWER(s.first_name) LIKE ? OR LOWER(s.last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var rows []visitRow
	if err := query.Order("a.attendance_date DESC, a.attendance_time DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}

	records := make([]VisitRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, VisitRecord{
			ID:             row.ID,
			StudentID:      row.StudentID,
			StudentCode:    row.StudentCode,
			AttendanceDate: row.AttendanceDate,
			AttendanceTime: row.AttendanceTime,
			Purposes:       DecodePurposes(row.Purposes),
			ClassLevel:     row.ClassLevel,
			Room:           row.Room,
			Title:          row.Title,
			Number:         row.Number,
			FirstName:      row.FirstName,
			LastName:       row.LastName,
		})
	}

	return records, nil
}

// Delete is idempotent: removing an id that no longer exists is not an error.
func (r *gormAttendanceRepository) Delete(ctx context.Context, id uint) error {
	if err := database.EnsureSchema(r.db); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Delete(&models.AttendanceLog{}, id).Error
}
