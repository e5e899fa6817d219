package repository

import (
	"context"

	"github.com/acrlib/library-kiosk-api/internal/models"
)

type sheetsScoreRepository struct{}

// NewSheetsScoreRepository constructs the spreadsheet score adapter. The
// spreadsheet layout has no score sheet, so totals are always zero and
// adjustments are rejected.
func NewSheetsScoreRepository() ScoreRepository {
	return &sheetsScoreRepository{}
}

func (r *sheetsScoreRepository) TotalsByCode(ctx context.Context, codes []string) (map[string]int, error) {
	return map[string]int{}, nil
}

func (r *sheetsScoreRepository) Add(ctx context.Context, score *models.LibraryScore) error {
	return ErrScoresUnsupported
}
