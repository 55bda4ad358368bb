package store

import (
	"fmt"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Models lists every table this application owns, in an order that
// satisfies foreign keys.
var Models = []interface{}{
	&registry.Role{},
	&registry.Institution{},
	&registry.User{},
	&registry.IntellectualObject{},
	&registry.GenericFile{},
	&registry.Checksum{},
	&registry.StorageRecord{},
	&registry.PremisEvent{},
	&registry.WorkItem{},
	&registry.BulkDeleteJob{},
}

// Open connects to the database. Production uses Postgres through
// pgx. Dev and test use SQLite.
func Open(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite:
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("Unsupported database driver '%s'", driver)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("Cannot open %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates or updates tables and seeds the roles table.
// Schema evolution beyond that belongs to the DBAs.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models...); err != nil {
		return fmt.Errorf("Migration failed: %w", err)
	}
	return SeedRoles(db)
}

// SeedRoles makes sure the three roles exist.
func SeedRoles(db *gorm.DB) error {
	for _, name := range constants.Roles {
		role := registry.Role{Name: name}
		if err := db.Where(registry.Role{Name: name}).FirstOrCreate(&role).Error; err != nil {
			return err
		}
	}
	return nil
}

// CreateInstitution validates and saves a new institution. A
// subscriber's parent must exist and must be a member institution.
func CreateInstitution(db *gorm.DB, inst *registry.Institution) error {
	if err := inst.Validate(); err != nil {
		return err
	}
	if inst.IsSubscriber() {
		var parent registry.Institution
		err := db.First(&parent, *inst.MemberInstitutionID).Error
		if err != nil {
			return fmt.Errorf("Parent institution %d not found: %w", *inst.MemberInstitutionID, err)
		}
		if parent.Type != constants.InstTypeMember {
			return fmt.Errorf("Parent institution %s is not a member institution", parent.Identifier)
		}
	}
	return db.Create(inst).Error
}
