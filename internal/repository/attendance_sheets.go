package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/acrlib/library-kiosk-api/internal/models"
	"github.com/acrlib/library-kiosk-api/internal/sheets"
)

// Column offsets within the attendance sheet, matching sheets.AttendanceHeaders.
const (
	attendanceColID = iota
	attendanceColStudentID
	attendanceColDate
	attendanceColTime
	attendanceColPurposes
	attendanceColCreatedAt
	attendanceColUpdatedAt
)

type sheetsAttendanceRepository struct {
	client *sheets.Client
}

// NewSheetsAttendanceRepository constructs the spreadsheet attendance adapter.
// The read-modify-write cycle is not atomic across the network round trip:
// simultaneous check-ins can race and the earlier write is lost. This is an
// accepted limitation of the single-kiosk deployment, not something the
// adapter tries to repair.
func NewSheetsAttendanceRepository(client *sheets.Client) AttendanceRepository {
	return &sheetsAttendanceRepository{client: client}
}

func (r *sheetsAttendanceRepository) readAll(ctx context.Context) ([][]string, error) {
	return r.client.ReadRows(ctx, r.client.AttendanceSheet(), len(sheets.AttendanceHeaders))
}

func (r *sheetsAttendanceRepository) writeAll(ctx context.Context, rows [][]string) error {
	return r.client.WriteRows(ctx, r.client.AttendanceSheet(), len(sheets.AttendanceHeaders), rows)
}

func entryFromRow(row []string) (models.AttendanceLog, bool) {
	id, err := strconv.ParseUint(row[attendanceColID], 10, 64)
	if err != nil {
		return models.AttendanceLog{}, false
	}
	studentID, err := strconv.ParseUint(row[attendanceColStudentID], 10, 64)
	if err != nil {
		return models.AttendanceLog{}, false
	}

	return models.AttendanceLog{
		ID:             uint(id),
		StudentID:      uint(studentID),
		AttendanceDate: row[attendanceColDate],
		AttendanceTime: row[attendanceColTime],
		Purposes:       DecodePurposes(row[attendanceColPurposes]),
		CreatedAt:      parseSheetTime(row[attendanceColCreatedAt]),
		UpdatedAt:      parseSheetTime(row[attendanceColUpdatedAt]),
	}, true
}

func entryToRow(entry models.AttendanceLog) []string {
	return []string{
		strconv.FormatUint(uint64(entry.ID), 10),
		strconv.FormatUint(uint64(entry.StudentID), 10),
		entry.AttendanceDate,
		entry.AttendanceTime,
		EncodePurposes(entry.Purposes),
		formatSheetTime(entry.CreatedAt),
		formatSheetTime(entry.UpdatedAt),
	}
}

func (r *sheetsAttendanceRepository) FindForDate(ctx context.Context, studentID uint, date string) (models.AttendanceLog, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return models.AttendanceLog{}, err
	}

	target := strconv.FormatUint(uint64(studentID), 10)
	for _, row := range rows {
		if row[attendanceColStudentID] == target && row[attendanceColDate] == date {
			if entry, ok := entryFromRow(row); ok {
				return entry, nil
			}
		}
	}

	return models.AttendanceLog{}, ErrNotFound
}

func (r *sheetsAttendanceRepository) Upsert(ctx context.Context, entry *models.AttendanceLog) error {
	rows, err := r.readAll(ctx)
	if err != nil {
		return err
	}

	usedIDs := make(map[uint]struct{}, len(rows))
	for _, row := range rows {
		if id, err := strconv.ParseUint(row[attendanceColID], 10, 64); err == nil {
			usedIDs[uint(id)] = struct{}{}
		}
	}

	now := time.Now().UTC()
	timestamp := now.Format(time.RFC3339)
	target := strconv.FormatUint(uint64(entry.StudentID), 10)

	for _, row := range rows {
		if row[attendanceColStudentID] != target || row[attendanceColDate] != entry.AttendanceDate {
			continue
		}
		if id, err := strconv.ParseUint(row[attendanceColID], 10, 64); err == nil {
			entry.ID = uint(id)
		}
		row[attendanceColTime] = entry.AttendanceTime
		row[attendanceColPurposes] = EncodePurposes(entry.Purposes)
		row[attendanceColUpdatedAt] = timestamp
		return r.writeAll(ctx, rows)
	}

	entry.ID = sheets.GenerateRecordID(usedIDs)
	entry.CreatedAt = now
	entry.UpdatedAt = now
	rows = append(rows, entryToRow(*entry))

	return r.writeAll(ctx, rows)
}

func (r *sheetsAttendanceRepository) List(ctx context.Context, filter VisitFilter) ([]VisitRecord, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	studentRows, err := r.client.ReadRows(ctx, r.client.StudentsSheet(), len(sheets.StudentHeaders))
	if err != nil {
		return nil, err
	}
	studentByID := make(map[uint]models.Student, len(studentRows))
	for _, row := range studentRows {
		if student, ok := studentFromRow(row); ok {
			studentByID[student.ID] = student
		}
	}

	return collectVisitRecords(rows, studentByID, filter), nil
}

// collectVisitRecords joins attendance rows against the roster, applies the
// date range and search filters and orders visits newest first. Entries whose
// student is missing from the roster are dropped.
func collectVisitRecords(rows [][]string, studentByID map[uint]models.Student, filter VisitFilter) []VisitRecord {
	search := normalizeSearch(filter.Search)
	records := make([]VisitRecord, 0, len(rows))
	for _, row := range rows {
		entry, ok := entryFromRow(row)
		if !ok {
			continue
		}
		if entry.AttendanceDate < filter.StartDate || entry.AttendanceDate > filter.EndDate {
			continue
		}
		student, known := studentByID[entry.StudentID]
		if !known {
			continue
		}
		record := VisitRecord{
			ID:             entry.ID,
			StudentID:      student.ID,
			StudentCode:    student.StudentCode,
			AttendanceDate: entry.AttendanceDate,
			AttendanceTime: entry.AttendanceTime,
			Purposes:       entry.Purposes,
			ClassLevel:     student.ClassLevel,
			Room:           student.Room,
			Title:          student.Title,
			Number:         student.Number,
			FirstName:      student.FirstName,
			LastName:       student.LastName,
		}
		if !recordMatchesSearch(record, search) {
			continue
		}
		records = append(records, record)
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].AttendanceDate != records[j].AttendanceDate {
			return records[i].AttendanceDate > records[j].AttendanceDate
		}
		return records[i].AttendanceTime > records[j].AttendanceTime
	})

	return records
}

func normalizeSearch(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

func recordMatchesSearch(record VisitRecord, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(record.StudentCode), search) ||
		strings.Contains(strings.ToLower(record.FirstName), search) ||
		strings.Contains(strings.ToLower(record.LastName), search)
}

func (r *sheetsAttendanceRepository) Delete(ctx context.Context, id uint) error {
	rows, err := r.readAll(ctx)
	if err != nil {
		return err
	}

	target := strconv.FormatUint(uint64(id), 10)
	remaining := make([][]string, 0, len(rows))
	for _, row := range rows {
		if row[attendanceColID] == target {
			continue
		}
		remaining = append(remaining, row)
	}
	if len(remaining) == len(rows) {
		return nil
	}

	return r.writeAll(ctx, remaining)
}
