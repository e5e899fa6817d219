package repository

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/acrlib/library-kiosk-api/internal/models"
)

func TestEntryFromRowRoundTrip(t *testing.T) {
	row := []string{"500", "123", "2026-01-15", "09:30", `["reading","homework"]`, "2026-01-15T02:30:00Z", "2026-01-15T02:31:00Z"}

	entry, ok := entryFromRow(row)
	require.True(t, ok)
	require.EqualValues(t, 500, entry.ID)
	require.EqualValues(t, 123, entry.StudentID)
	require.Equal(t, "2026-01-15", entry.AttendanceDate)
	require.Equal(t, "09:30", entry.AttendanceTime)
	require.EqualValues(t, []string{"reading", "homework"}, []string(entry.Purposes))

	require.Equal(t, row, entryToRow(entry))
}

func TestEntryFromRowRejectsUnparsableIDs(t *testing.T) {
	bad := [][]string{
		{"", "123", "2026-01-15", "09:30", "[]", "", ""},
		{"abc", "123", "2026-01-15", "09:30", "[]", "", ""},
		{"500", "", "2026-01-15", "09:30", "[]", "", ""},
		{"500", "abc", "2026-01-15", "09:30", "[]", "", ""},
	}
	for _, row := range bad {
		_, ok := entryFromRow(row)
		require.False(t, ok, "row %v should be rejected", row)
	}
}

func TestEntryFromRowDecodesLegacyPurposeCell(t *testing.T) {
	entry, ok := entryFromRow([]string{"1", "2", "2026-01-15", "09:30", "reading", "", ""})
	require.True(t, ok)
	require.EqualValues(t, []string{"reading"}, []string(entry.Purposes))
}

func TestCollectVisitRecords(t *testing.T) {
	studentByID := map[uint]models.Student{
		1: sheetStudent(1, "S001", "ม.1", "1", "1", "Anan", "Srisuk"),
		2: sheetStudent(2, "S002", "ม.1", "1", "2", "Beam", "Chai"),
	}
	rows := [][]string{
		{"10", "1", "2026-01-10", "09:00", `["reading"]`, "", ""},
		{"11", "2", "2026-01-10", "14:20", `["homework"]`, "", ""},
		{"12", "1", "2026-01-12", "08:05", `["borrow"]`, "", ""},
		{"13", "9", "2026-01-11", "10:00", `["reading"]`, "", ""},
		{"14", "2", "2026-02-01", "09:00", `["reading"]`, "", ""},
		{"x", "2", "2026-01-11", "10:00", `["reading"]`, "", ""},
	}

	records := collectVisitRecords(rows, studentByID, VisitFilter{StartDate: "2026-01-01", EndDate: "2026-01-31"})

	// The unknown student, the out-of-range visit and the malformed row are
	// dropped; the rest come back newest first, time breaking date ties.
	require.Len(t, records, 3)
	require.EqualValues(t, 12, records[0].ID)
	require.EqualValues(t, 11, records[1].ID)
	require.EqualValues(t, 10, records[2].ID)
	require.Equal(t, "S001", records[0].StudentCode)
	require.Equal(t, "ม.1", records[0].ClassLevel)

	records = collectVisitRecords(rows, studentByID, VisitFilter{StartDate: "2026-01-01", EndDate: "2026-01-31", Search: "  BEAM "})
	require.Len(t, records, 1)
	require.Equal(t, "S002", records[0].StudentCode)
}

func TestRecordMatchesSearch(t *testing.T) {
	record := VisitRecord{StudentCode: "S001", FirstName: "Anan", LastName: "Srisuk"}

	require.True(t, recordMatchesSearch(record, ""))
	require.True(t, recordMatchesSearch(record, "s001"))
	require.True(t, recordMatchesSearch(record, "anan"))
	require.True(t, recordMatchesSearch(record, "srisuk"))
	require.False(t, recordMatchesSearch(record, "beam"))
}
