package models

import "time"

// Student is one roster row. Students are created by admin imports only;
// the check-in flow never creates them.
type Student struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	StudentCode string    `gorm:"size:32;uniqueIndex:uniq_student_code;not null" json:"studentCode"`
	ClassLevel  string    `gorm:"size:32;not null" json:"classLevel"`
	Room        *string   `gorm:"size:16" json:"room"`
	Number      *string   `gorm:"column:student_number;size:16" json:"number"`
	Title       *string   `gorm:"size:64" json:"title"`
	FirstName   string    `gorm:"size:128;not null" json:"firstName"`
	LastName    string    `gorm:"size:128;not null" json:"lastName"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`

	// Points is the accumulated library score, summed at read time.
	Points int `gorm:"-" json:"points"`
}

// NullableString maps blank strings to nil the way blank roster cells are
// surfaced as null in API payloads.
func NullableString(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}

// StringValue unwraps a nullable column for storage layers that only hold text.
func StringValue(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
