package dto

import "github.com/acrlib/library-kiosk-api/internal/repository"

// RecordVisitRequest is the check-in payload. Older kiosk builds send a
// single purpose string; both forms are accepted.
type RecordVisitRequest struct {
	StudentCode string   `json:"studentCode" validate:"required"`
	Purposes    []string `json:"purposes"`
	Purpose     string   `json:"purpose"`
}

// AllPurposes folds the legacy single-purpose field into the purpose list.
func (r RecordVisitRequest) AllPurposes() []string {
	purposes := append([]string(nil), r.Purposes...)
	if r.Purpose != "" {
		purposes = append(purposes, r.Purpose)
	}
	return purposes
}

// ScanRequest is the RFID card-scan payload. The card id doubles as the
// student code.
type ScanRequest struct {
	CardID   string   `json:"cardId" validate:"required"`
	Purposes []string `json:"purposes"`
	Purpose  string   `json:"purpose"`
}

// AllPurposes folds the legacy single-purpose field into the purpose list.
func (r ScanRequest) AllPurposes() []string {
	purposes := append([]string(nil), r.Purposes...)
	if r.Purpose != "" {
		purposes = append(purposes, r.Purpose)
	}
	return purposes
}

// AttendanceStats aggregates a set of matched visit records.
type AttendanceStats struct {
	TotalRecords   int            `json:"totalRecords"`
	UniqueStudents int            `json:"uniqueStudents"`
	PurposeCounts  map[string]int `json:"purposeCounts"`
}

// AttendanceReport is the monthly listing response.
type AttendanceReport struct {
	Records []repository.VisitRecord `json:"records"`
	Stats   AttendanceStats          `json:"stats"`
}
