package policy

import (
	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"gorm.io/gorm"
)

// Scope narrows db, a query over kind's table, to the records user
// may see. A record is in the scope if and only if Evaluate allows
// user to show it. Admins see everything. A nil or role-less user
// sees nothing.
//
// Column names are qualified with their table, so the scoped query
// can be joined to other tables without ambiguity.
func Scope(db *gorm.DB, user *registry.User, kind ResourceKind) *gorm.DB {
	if !user.HasRole() {
		return nothing(db)
	}
	if user.IsAdmin() {
		return db
	}
	instID := user.InstitutionID
	switch kind {
	case KindInstitution:
		return db.Where("institutions.id = ?", instID)
	case KindUser:
		return db.Where("users.institution_id = ?", instID)
	case KindRole:
		if user.IsInstAdmin() {
			return db
		}
		return nothing(db)
	case KindIntellectualObject:
		return visibleObjects(db, user)
	case KindGenericFile:
		return db.Where("generic_files.intellectual_object_id IN (?)", visibleObjectIDs(db, user))
	case KindChecksum:
		return db.Where("checksums.generic_file_id IN (?)", visibleFileIDs(db, user))
	case KindStorageRecord:
		return db.Where("storage_records.generic_file_id IN (?)", visibleFileIDs(db, user))
	case KindPremisEvent:
		return db.Where("premis_events.institution_id = ?", instID)
	case KindWorkItem:
		return db.Where("work_items.institution_id = ?", instID)
	case KindBulkDeleteJob:
		if user.IsInstAdmin() {
			return db.Where("bulk_delete_jobs.institution_id = ?", instID)
		}
		return nothing(db)
	}
	return nothing(db)
}

func nothing(db *gorm.DB) *gorm.DB {
	return db.Where("1 = 0")
}

// visibleObjects mirrors canSeeContent for a non-admin user.
func visibleObjects(db *gorm.DB, user *registry.User) *gorm.DB {
	ownLevels := []string{constants.AccessInstitution}
	if user.IsInstAdmin() {
		ownLevels = append(ownLevels, constants.AccessRestricted)
	}
	return db.Where(
		"(intellectual_objects.access = ? OR (intellectual_objects.institution_id = ? AND intellectual_objects.access IN ?))",
		constants.AccessConsortia, user.InstitutionID, ownLevels)
}

func visibleObjectIDs(db *gorm.DB, user *registry.User) *gorm.DB {
	sub := db.Session(&gorm.Session{NewDB: true}).
		Model(&registry.IntellectualObject{}).
		Select("intellectual_objects.id")
	return visibleObjects(sub, user)
}

func visibleFileIDs(db *gorm.DB, user *registry.User) *gorm.DB {
	return db.Session(&gorm.Session{NewDB: true}).
		Model(&registry.GenericFile{}).
		Select("generic_files.id").
		Where("generic_files.intellectual_object_id IN (?)", visibleObjectIDs(db, user))
}
