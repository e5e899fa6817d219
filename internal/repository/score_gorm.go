package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/acrlib/library-kiosk-api/internal/database"
	"github.com/acrlib/library-kiosk-api/internal/models"
)

type gormScoreRepository struct {
	db *gorm.DB
}

// NewGormScoreRepository constructs the relational score adapter.
func NewGormScoreRepository(db *gorm.DB) ScoreRepository {
	return &gormScoreRepository{db: db}
}

func (r *gormScoreRepository) TotalsByCode(ctx context.Context, codes []string) (map[string]int, error) {
	if err := database.EnsureSchema(r.db); err != nil {
		return nil, err
	}

	type totalRow struct {
		StudentCode string
		Total       int
	}

	query := r.db.WithContext(ctx).
		Model(&models.LibraryScore{}).
		Select("student_id AS student_code, SUM(change_value) AS total").
		Group("student_id")
	if len(codes) > 0 {
		query = query.Where("student_id IN ?", codes)
	}

	var rows []totalRow
	if err := query.Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]int, len(rows))
	for _, row := range rows {
		totals[row.StudentCode] = row.Total
	}

	return totals, nil
}

func (r *gormScoreRepository) Add(ctx context.Context, score *models.LibraryScore) error {
	if err := database.EnsureSchema(r.db); err != nil {
		return err
	}

	return r.db.WithContext(ctx).Create(score).Error
}
