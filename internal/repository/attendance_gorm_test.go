package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"

	"github.com/acrlib/library-kiosk-api/internal/models"
)

func TestGormAttendanceRepositoryUpsertKeyedByStudentAndDate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "S001", "M1", "1", "1", "Anan", "Srisuk")

	first := models.AttendanceLog{
		StudentID:      student.ID,
		AttendanceDate: "2026-01-15",
		AttendanceTime: "09:30",
		Purposes:       datatypes.NewJSONSlice([]string{"reading"}),
	}
	require.NoError(t, repo.Upsert(ctx, &first))

	second := models.AttendanceLog{
		StudentID:      student.ID,
		AttendanceDate: "2026-01-15",
		AttendanceTime: "13:45",
		Purposes:       datatypes.NewJSONSlice([]string{"reading", "homework"}),
	}
	require.NoError(t, repo.Upsert(ctx, &second))

	var count int64
	require.NoError(t, db.Model(&models.AttendanceLog{}).Count(&count).Error)
	require.EqualValues(t, 1, count)

	entry, err := repo.FindForDate(ctx, student.ID, "2026-01-15")
	require.NoError(t, err)
	require.Equal(t, "13:45", entry.AttendanceTime)
	require.Equal(t, []string{"reading", "homework"}, []string(entry.Purposes))

	_, err = repo.FindForDate(ctx, student.ID, "2026-01-16")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestGormAttendanceRepositoryListOrdersAndFilters(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()

	anan := seedStudent(t, db, "S001", "M1", "1", "1", "Anan", "Srisuk")
	beam := seedStudent(t, db, "S002", "M1", "", "", "Beam", "Chai")

	entries := []models.AttendanceLog{
		{StudentID: anan.ID, AttendanceDate: "2026-01-10", AttendanceTime: "09:00", Purposes: datatypes.NewJSONSlice([]string{"reading"})},
		{StudentID: beam.ID, AttendanceDate: "2026-01-10", AttendanceTime: "14:20", Purposes: datatypes.NewJSONSlice([]string{"homework"})},
		{StudentID: anan.ID, AttendanceDate: "2026-01-12", AttendanceTime: "08:05", Purposes: datatypes.NewJSONSlice([]string{"borrow"})},
		{StudentID: beam.ID, AttendanceDate: "2026-02-01", AttendanceTime: "10:00", Purposes: datatypes.NewJSONSlice([]string{"reading"})},
	}
	for i := range entries {
		require.NoError(t, repo.Upsert(ctx, &entries[i]))
	}

	records, err := repo.List(ctx, VisitFilter{StartDate: "2026-01-01", EndDate: "2026-01-31"})
	require.NoError(t, err)
	require.Len(t, records, 3)
	// Newest date first, then latest time within the date.
	require.Equal(t, "2026-01-12", records[0].AttendanceDate)
	require.Equal(t, "14:20", records[1].AttendanceTime)
	require.Equal(t, "09:00", records[2].AttendanceTime)

	// Blank room and number surface as null in the joined record.
	require.Equal(t, "S002", records[1].StudentCode)
	require.Nil(t, records[1].Room)
	require.Nil(t, records[1].Number)
	require.Equal(t, []string{"homework"}, records[1].Purposes)

	records, err = repo.List(ctx, VisitFilter{StartDate: "2026-01-01", EndDate: "2026-01-31", Search: "beam"})
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "S002", records[0].StudentCode)

	records, err = repo.List(ctx, VisitFilter{StartDate: "2026-03-01", EndDate: "2026-03-31"})
	require.NoError(t, err)
	require.Empty(t, records)
}

func TestGormAttendanceRepositoryDeleteIsIdempotent(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormAttendanceRepository(db)
	ctx := context.Background()

	student := seedStudent(t, db, "S001", "M1", "1", "1", "Anan", "Srisuk")
	entry := models.AttendanceLog{
		StudentID:      student.ID,
		AttendanceDate: "2026-01-15",
		AttendanceTime: "09:30",
		Purposes:       datatypes.NewJSONSlice([]string{"reading"}),
	}
	require.NoError(t, repo.Upsert(ctx, &entry))

	require.NoError(t, repo.Delete(ctx, entry.ID))
	require.NoError(t, repo.Delete(ctx, entry.ID))

	var count int64
	require.NoError(t, db.Model(&models.AttendanceLog{}).Count(&count).Error)
	require.Zero(t, count)
}
