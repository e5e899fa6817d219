package models

import "time"

// LibraryScore is a single point adjustment for a student, keyed by student
// code so score history survives roster re-imports.
type LibraryScore struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentCode string    `gorm:"column:student_id;size:32;index:idx_scores_student;not null" json:"studentCode"`
	Change      int       `gorm:"column:change_value;not null" json:"change"`
	Note        string    `gorm:"size:255;not null" json:"note"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TableName keeps the historical table name used by the kiosk database.
func (LibraryScore) TableName() string {
	return "library_scores"
}
