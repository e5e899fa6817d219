package models

import (
	"time"

	"gorm.io/datatypes"
)

// AttendanceLog records one library visit per student per calendar date.
// Repeated check-ins on the same date merge into the existing row.
type AttendanceLog struct {
	ID             uint                        `gorm:"primaryKey" json:"id"`
	StudentID      uint                        `gorm:"not null;uniqueIndex:uniq_student_date" json:"studentId"`
	AttendanceDate string                      `gorm:"size:10;not null;uniqueIndex:uniq_student_date" json:"attendanceDate"`
	AttendanceTime string                      `gorm:"size:5;not null" json:"attendanceTime"`
	Purposes       datatypes.JSONSlice[string] `gorm:"not null" json:"purposes"`
	CreatedAt      time.Time                   `json:"createdAt"`
	UpdatedAt      time.Time                   `json:"updatedAt"`

	Student Student `gorm:"foreignKey:StudentID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName keeps the historical table name used by the kiosk database.
func (AttendanceLog) TableName() string {
	return "attendance_logs"
}
