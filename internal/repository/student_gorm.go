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

type gormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository constructs the relational student adapter.
func NewGormStudentRepository(db *gorm.DB) StudentRepository {
	return &gormStudentRepository{db: db}
}

func (r *gormStudentRepository) GetByCode(ctx context.Context, code string) (models.Student, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return models.Student{}, err
	}

	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return models.Student{}, ErrNotFound
	}

	var student models.Student
	err := r.db.WithContext(ctx).Where("student_code = ?", trimmed).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Student{}, ErrNotFound
		}
		return models.Student{}, err
	}

	normalizeStudent(&student)

	return student, nil
}

func (r *gormStudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return nil, 0, err
	}

	query := r.db.WithContext(ctx).Model(&models.Student{})

	if filter.ClassLevel != "" {
		query = query.Where("class_level = ?", filter.ClassLevel)
		if filter.Room != nil {
			if *filter.Room != "" {
				query = query.Where("COALESCE(room, '') = ?", *filter.Room)
			} else {
				query = query.Where("room IS NULL OR room = ''")
			}
		}
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + strings.ToLower(search) + "%"
		query = query.Where(
			"LOWER(student_code) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	countQuery := query.Session(&gorm.Session{})
	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	limit := clampLimit(filter.Limit)
	page := filter.Page
	if page < 1 {
		page = 1
	}

	var students []models.Student
	err := query.
		Order("class_level, room, student_number + 0, student_number, first_name, last_name").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&students).Error
	if err != nil {
		return nil, 0, err
	}

	for i := range students {
		normalizeStudent(&students[i])
	}

	return students, total, nil
}

func (r *gormStudentRepository) UpsertBatch(ctx context.Context, students []models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	if err := database.EnsureSchema(r.db); err != nil {
		return 0, err
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_code"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"class_level", "room", "student_number", "title",
			"first_name", "last_name", "updated_at",
		}),
	})

	result := tx.Create(&students)

	return result.RowsAffected, result.Error
}

// DeleteByCodes removes students and their attendance entries in one
// transaction. The schema also declares ON DELETE CASCADE; the explicit
// delete keeps the cascade observable on engines that leave foreign keys off.
func (r *gormStudentRepository) DeleteByCodes(ctx context.Context, codes []string) error {
	trimmed := make([]string, 0, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			trimmed = append(trimmed, code)
		}
	}
	if len(trimmed) == 0 {
		return nil
	}

	if err := database.EnsureSchema(r.db); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []uint
		if err := tx.Model(&models.Student{}).Where("student_code IN ?", trimmed).Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("student_id IN ?", ids).Delete(&models.AttendanceLog{}).Error; err != nil {
			return err
		}

		return tx.Where("id IN ?", ids).Delete(&models.Student{}).Error
	})
}

func (r *gormStudentRepository) Codes(ctx context.Context) ([]string, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return nil, err
	}

	var codes []string
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Distinct("student_code").
		Order("student_code").
		Pluck("student_code", &codes).Error

	return codes, err
}

func (r *gormStudentRepository) ClassRooms(ctx context.Context) ([]ClassRoom, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return nil, err
	}

	var rows []ClassRoom
	err := r.db.WithContext(ctx).
		Model(&models.Student{}).
		Distinct().
		Select("class_level, NULLIF(room, '') AS room").
		Order("class_level, room").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	return dedupClassRooms(rows), nil
}

func (r *gormStudentRepository) Ping(ctx context.Context) error {
	return r.db.WithContext(ctx).Exec("SELECT 1").Error
}

func clampLimit(limit int) int {
	if limit < 1 {
		return 50
	}
	if limit > 500 {
		return 500
	}
	return limit
}

// normalizeStudent maps blank nullable columns to nil so both backends
// surface the same shape.
func normalizeStudent(student *models.Student) {
	if student.Room != nil && strings.TrimSpace(*student.Room) == "" {
		student.Room = nil
	}
	if student.Number != nil && strings.TrimSpace(*student.Number) == "" {
		student.Number = nil
	}
	if student.Title != nil && strings.TrimSpace(*student.Title) == "" {
		student.Title = nil
	}
}

// dedupClassRooms collapses combinations that differ only by NULL-vs-blank room.
func dedupClassRooms(rows []ClassRoom) []ClassRoom {
	seen := make(map[string]bool, len(rows))
	result := make([]ClassRoom, 0, len(rows))
	for _, row := range rows {
		if row.Room != nil && *row.Room == "" {
			row.Room = nil
		}
		key := row.ClassLevel + "::" + models.StringValue(row.Room)
		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, row)
	}

	return result
}
