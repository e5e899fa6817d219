package dto

import "github.com/acrlib/library-kiosk-api/internal/models"

// StudentImportRow is one roster row from an admin import. Rows missing a
// code or name are skipped during normalization rather than failing the batch.
type StudentImportRow struct {
	StudentCode string `json:"studentCode" validate:"required"`
	ClassLevel  string `json:"classLevel"`
	Room        string `json:"room"`
	Number      string `json:"number"`
	Title       string `json:"title"`
	FirstName   string `json:"firstName" validate:"required"`
	LastName    string `json:"lastName" validate:"required"`
}

// StudentImportRequest wraps a roster import batch.
type StudentImportRequest struct {
	Rows []StudentImportRow `json:"rows" validate:"required,min=1"`
}

// StudentDeleteRequest names the student codes to remove.
type StudentDeleteRequest struct {
	Codes []string `json:"codes" validate:"required,min=1"`
}

// StudentListQuery carries roster listing parameters.
type StudentListQuery struct {
	Search     string
	ClassLevel string
	// Room filters by exact room; a pointer to "" selects blank rooms.
	Room  *string
	Page  int
	Limit int
}

// StudentPage is one page of roster results.
type StudentPage struct {
	Students []models.Student `json:"students"`
	Total    int64            `json:"total"`
}

// ScoreAdjustment is an admin point adjustment for a student.
type ScoreAdjustment struct {
	StudentCode string `json:"studentCode" validate:"required"`
	Change      int    `json:"change" validate:"required"`
	Note        string `json:"note" validate:"required"`
}
