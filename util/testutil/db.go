package testutil

import (
	"fmt"
	"testing"

	"github.com/APTrust/pharos/store"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// NewTestDB returns a migrated in-memory SQLite database private to
// the calling test. It goes away when the test's last connection
// closes.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.New().String())
	db, err := store.Open(store.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("Cannot open test database: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Cannot get test database handle: %v", err)
	}
	// One connection keeps SQLite from reporting locked tables.
	sqlDB.SetMaxOpenConns(1)
	if err = store.Migrate(db); err != nil {
		t.Fatalf("Cannot migrate test database: %v", err)
	}
	t.Cleanup(func() {
		sqlDB.Close()
	})
	return db
}

func Int64Pointer(i int64) *int64 {
	return &i
}
