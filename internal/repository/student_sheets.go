package repository

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/acrlib/library-kiosk-api/internal/models"
	"github.com/acrlib/library-kiosk-api/internal/sheets"
)

// Column offsets within the students sheet, matching sheets.StudentHeaders.
const (
	studentColID = iota
	studentColCode
	studentColClassLevel
	studentColRoom
	studentColNumber
	studentColTitle
	studentColFirstName
	studentColLastName
	studentColCreatedAt
	studentColUpdatedAt
)

type sheetsStudentRepository struct {
	client *sheets.Client
}

// NewSheetsStudentRepository constructs the spreadsheet student adapter.
// Every write reads the whole sheet, mutates it in memory and rewrites the
// full range; concurrent writers can lose updates (last writer wins).
func NewSheetsStudentRepository(client *sheets.Client) StudentRepository {
	return &sheetsStudentRepository{client: client}
}

func (r *sheetsStudentRepository) readAll(ctx context.Context) ([][]string, error) {
	return r.client.ReadRows(ctx, r.client.StudentsSheet(), len(sheets.StudentHeaders))
}

func (r *sheetsStudentRepository) writeAll(ctx context.Context, rows [][]string) error {
	return r.client.WriteRows(ctx, r.client.StudentsSheet(), len(sheets.StudentHeaders), rows)
}

// studentFromRow converts a sheet row, rejecting rows without an id, code or
// name. Rejected rows are ignored rather than surfaced as errors.
func studentFromRow(row []string) (models.Student, bool) {
	id, err := strconv.ParseUint(row[studentColID], 10, 64)
	if err != nil || row[studentColCode] == "" || row[studentColFirstName] == "" || row[studentColLastName] == "" {
		return models.Student{}, false
	}

	classLevel := row[studentColClassLevel]
	if classLevel == "" {
		classLevel = "-"
	}

	createdAt := parseSheetTime(row[studentColCreatedAt])
	updatedAt := parseSheetTime(row[studentColUpdatedAt])
	if createdAt.IsZero() {
		createdAt = updatedAt
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}

	return models.Student{
		ID:          uint(id),
		StudentCode: row[studentColCode],
		ClassLevel:  classLevel,
		Room:        models.NullableString(strings.TrimSpace(row[studentColRoom])),
		Number:      models.NullableString(strings.TrimSpace(row[studentColNumber])),
		Title:       models.NullableString(strings.TrimSpace(row[studentColTitle])),
		FirstName:   row[studentColFirstName],
		LastName:    row[studentColLastName],
		CreatedAt:   createdAt,
		UpdatedAt:   updatedAt,
	}, true
}

func studentToRow(student models.Student) []string {
	return []string{
		strconv.FormatUint(uint64(student.ID), 10),
		student.StudentCode,
		student.ClassLevel,
		models.StringValue(student.Room),
		models.StringValue(student.Number),
		models.StringValue(student.Title),
		student.FirstName,
		student.LastName,
		formatSheetTime(student.CreatedAt),
		formatSheetTime(student.UpdatedAt),
	}
}

func parseSheetTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func formatSheetTime(value time.Time) string {
	if value.IsZero() {
		value = time.Now().UTC()
	}
	return value.UTC().Format(time.RFC3339)
}

func (r *sheetsStudentRepository) allStudents(ctx context.Context) ([]models.Student, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	students := make([]models.Student, 0, len(rows))
	for _, row := range rows {
		if student, ok := studentFromRow(row); ok {
			students = append(students, student)
		}
	}

	return students, nil
}

func (r *sheetsStudentRepository) GetByCode(ctx context.Context, code string) (models.Student, error) {
	trimmed := strings.TrimSpace(code)
	if trimmed == "" {
		return models.Student{}, ErrNotFound
	}

	students, err := r.allStudents(ctx)
	if err != nil {
		return models.Student{}, err
	}

	for _, student := range students {
		if student.StudentCode == trimmed {
			return student, nil
		}
	}

	return models.Student{}, ErrNotFound
}

func (r *sheetsStudentRepository) List(ctx context.Context, filter StudentFilter) ([]models.Student, int64, error) {
	students, err := r.allStudents(ctx)
	if err != nil {
		return nil, 0, err
	}

	page, total := selectStudentPage(students, filter)
	return page, total, nil
}

// selectStudentPage applies the roster filters, the collation order and the
// paging window to an in-memory student list.
func selectStudentPage(students []models.Student, filter StudentFilter) ([]models.Student, int64) {
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	filtered := make([]models.Student, 0, len(students))
	for _, student := range students {
		if !matchesClassFilter(student, filter) || !matchesSearch(student, search) {
			continue
		}
		filtered = append(filtered, student)
	}

	sortStudents(filtered)

	limit := clampLimit(filter.Limit)
	page := filter.Page
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	total := int64(len(filtered))
	if offset >= len(filtered) {
		return []models.Student{}, total
	}
	end := offset + limit
	if end > len(filtered) {
		end = len(filtered)
	}

	return filtered[offset:end], total
}

func matchesClassFilter(student models.Student, filter StudentFilter) bool {
	if filter.ClassLevel == "" {
		return true
	}
	if student.ClassLevel != filter.ClassLevel {
		return false
	}
	if filter.Room == nil {
		return true
	}
	if *filter.Room != "" {
		return models.StringValue(student.Room) == *filter.Room
	}
	return student.Room == nil
}

func matchesSearch(student models.Student, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(student.StudentCode), search) ||
		strings.Contains(strings.ToLower(student.FirstName), search) ||
		strings.Contains(strings.ToLower(student.LastName), search)
}

// newCollator builds a fresh locale-aware, numeric collator per call; a
// collate.Collator is not safe for concurrent use.
func newCollator() *collate.Collator {
	return collate.New(language.Thai, collate.Numeric)
}

// sortStudents orders by class level, room (blank first), number, then name.
func sortStudents(students []models.Student) {
	collator := newCollator()

	compareNullable := func(a, b *string) int {
		left := strings.TrimSpace(models.StringValue(a))
		right := strings.TrimSpace(models.StringValue(b))
		if left == "" && right != "" {
			return -1
		}
		if left != "" && right == "" {
			return 1
		}
		return collator.CompareString(left, right)
	}

	sort.SliceStable(students, func(i, j int) bool {
		a, b := students[i], students[j]
		if result := collator.CompareString(a.ClassLevel, b.ClassLevel); result != 0 {
			return result < 0
		}
		if result := compareNullable(a.Room, b.Room); result != 0 {
			return result < 0
		}
		if result := compareNullable(a.Number, b.Number); result != 0 {
			return result < 0
		}
		if result := collator.CompareString(a.FirstName, b.FirstName); result != 0 {
			return result < 0
		}
		return collator.CompareString(a.LastName, b.LastName) < 0
	})
}

func (r *sheetsStudentRepository) UpsertBatch(ctx context.Context, students []models.Student) (int64, error) {
	if len(students) == 0 {
		return 0, nil
	}

	rows, err := r.readAll(ctx)
	if err != nil {
		return 0, err
	}

	usedIDs := make(map[uint]struct{}, len(rows))
	rowByCode := make(map[string]int, len(rows))
	for i, row := range rows {
		if id, err := strconv.ParseUint(row[studentColID], 10, 64); err == nil {
			usedIDs[uint(id)] = struct{}{}
		}
		if row[studentColCode] != "" {
			rowByCode[row[studentColCode]] = i
		}
	}

	now := time.Now().UTC()
	var processed int64
	for _, student := range students {
		processed++
		timestamp := now.Format(time.RFC3339)
		if index, exists := rowByCode[student.StudentCode]; exists {
			row := rows[index]
			row[studentColClassLevel] = student.ClassLevel
			row[studentColRoom] = models.StringValue(student.Room)
			row[studentColNumber] = models.StringValue(student.Number)
			row[studentColTitle] = models.StringValue(student.Title)
			row[studentColFirstName] = student.FirstName
			row[studentColLastName] = student.LastName
			row[studentColUpdatedAt] = timestamp
			continue
		}

		id := sheets.GenerateRecordID(usedIDs)
		usedIDs[id] = struct{}{}
		student.ID = id
		student.CreatedAt = now
		student.UpdatedAt = now
		rows = append(rows, studentToRow(student))
		rowByCode[student.StudentCode] = len(rows) - 1
	}

	if err := r.writeAll(ctx, rows); err != nil {
		return 0, err
	}

	return processed, nil
}

// DeleteByCodes removes matching roster rows, then filters the attendance
// sheet by the removed student ids. No referential integrity exists here, so
// the cascade is explicit.
func (r *sheetsStudentRepository) DeleteByCodes(ctx context.Context, codes []string) error {
	codeSet := make(map[string]struct{}, len(codes))
	for _, code := range codes {
		if code = strings.TrimSpace(code); code != "" {
			codeSet[code] = struct{}{}
		}
	}
	if len(codeSet) == 0 {
		return nil
	}

	rows, err := r.readAll(ctx)
	if err != nil {
		return err
	}

	removedIDs := make(map[string]struct{})
	remaining := make([][]string, 0, len(rows))
	for _, row := range rows {
		if _, removed := codeSet[row[studentColCode]]; removed {
			if row[studentColID] != "" {
				removedIDs[row[studentColID]] = struct{}{}
			}
			continue
		}
		remaining = append(remaining, row)
	}
	if len(remaining) == len(rows) {
		return nil
	}

	if err := r.writeAll(ctx, remaining); err != nil {
		return err
	}
	if len(removedIDs) == 0 {
		return nil
	}

	attendanceRows, err := r.client.ReadRows(ctx, r.client.AttendanceSheet(), len(sheets.AttendanceHeaders))
	if err != nil {
		return err
	}

	keptEntries := make([][]string, 0, len(attendanceRows))
	for _, row := range attendanceRows {
		if _, removed := removedIDs[row[attendanceColStudentID]]; removed {
			continue
		}
		keptEntries = append(keptEntries, row)
	}
	if len(keptEntries) == len(attendanceRows) {
		return nil
	}

	return r.client.WriteRows(ctx, r.client.AttendanceSheet(), len(sheets.AttendanceHeaders), keptEntries)
}

func (r *sheetsStudentRepository) Codes(ctx context.Context) ([]string, error) {
	rows, err := r.readAll(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(rows))
	codes := make([]string, 0, len(rows))
	for _, row := range rows {
		code := strings.TrimSpace(row[studentColCode])
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		codes = append(codes, code)
	}

	collator := newCollator()
	sort.Slice(codes, func(i, j int) bool {
		return collator.CompareString(codes[i], codes[j]) < 0
	})

	return codes, nil
}

func (r *sheetsStudentRepository) ClassRooms(ctx context.Context) ([]ClassRoom, error) {
	students, err := r.allStudents(ctx)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(students))
	combos := make([]ClassRoom, 0, len(students))
	for _, student := range students {
		key := student.ClassLevel + "::" + models.StringValue(student.Room)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		combos = append(combos, ClassRoom{ClassLevel: student.ClassLevel, Room: student.Room})
	}

	collator := newCollator()
	sort.SliceStable(combos, func(i, j int) bool {
		if result := collator.CompareString(combos[i].ClassLevel, combos[j].ClassLevel); result != 0 {
			return result < 0
		}
		left := models.StringValue(combos[i].Room)
		right := models.StringValue(combos[j].Room)
		if left == "" && right != "" {
			return true
		}
		if left != "" && right == "" {
			return false
		}
		return collator.CompareString(left, right) < 0
	})

	return combos, nil
}

func (r *sheetsStudentRepository) Ping(ctx context.Context) error {
	_, err := r.readAll(ctx)
	return err
}
