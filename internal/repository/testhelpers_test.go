package repository

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/acrlib/library-kiosk-api/internal/database"
	"github.com/acrlib/library-kiosk-api/internal/models"
)

// setupTestDB opens an isolated in-memory database per test so unique
// indexes never collide across tests.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(db))

	return db
}

func seedStudent(t *testing.T, db *gorm.DB, code, classLevel, room, number, firstName, lastName string) models.Student {
	t.Helper()

	student := models.Student{
		StudentCode: code,
		ClassLevel:  classLevel,
		Room:        models.NullableString(room),
		Number:      models.NullableString(number),
		FirstName:   firstName,
		LastName:    lastName,
	}
	require.NoError(t, db.Create(&student).Error)

	return student
}
