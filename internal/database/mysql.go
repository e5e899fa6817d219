package database

import (
	"fmt"
	"sync"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/acrlib/library-kiosk-api/internal/models"
)

type schemaState struct {
	once sync.Once
	err  error
}

var schemas sync.Map // *gorm.DB -> *schemaState

// ConnectMySQL establishes a pooled connection to the MySQL database using the provided DSN.
func ConnectMySQL(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("mysql dsn must not be empty")
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mysql: %w", err)
	}

	return db, nil
}

// EnsureSchema creates the kiosk tables on first use. The migration runs at
// most once per connection; concurrent first calls block until it completes.
func EnsureSchema(db *gorm.DB) error {
	entry, _ := schemas.LoadOrStore(db, &schemaState{})
	state := entry.(*schemaState)
	state.once.Do(func() {
		state.err = db.AutoMigrate(&models.Student{}, &models.AttendanceLog{}, &models.LibraryScore{})
	})

	return state.err
}
