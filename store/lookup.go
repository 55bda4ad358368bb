package store

import (
	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"gorm.io/gorm"
)

// LoadFileParent sets gf.IntellectualObject if it's not already set.
func LoadFileParent(db *gorm.DB, gf *registry.GenericFile) error {
	if gf.IntellectualObject != nil && gf.IntellectualObject.ID == gf.IntellectualObjectID {
		return nil
	}
	var obj registry.IntellectualObject
	if err := db.First(&obj, gf.IntellectualObjectID).Error; err != nil {
		return err
	}
	gf.IntellectualObject = &obj
	return nil
}

// FileWithParent returns the file with the specified ID, with its
// parent object loaded.
func FileWithParent(db *gorm.DB, fileID int64) (*registry.GenericFile, error) {
	var gf registry.GenericFile
	if err := db.Preload("IntellectualObject").First(&gf, fileID).Error; err != nil {
		return nil, err
	}
	return &gf, nil
}

// InstitutionAdmins returns the enabled institutional admins of the
// specified institution, ordered by email.
func InstitutionAdmins(db *gorm.DB, institutionID int64) ([]registry.User, error) {
	var users []registry.User
	err := db.Where("institution_id = ? AND role = ? AND enabled = ?",
		institutionID, constants.RoleInstAdmin, true).
		Order("email").Find(&users).Error
	return users, err
}

// UserByEmail returns the user with the specified email address.
func UserByEmail(db *gorm.DB, email string) (*registry.User, error) {
	var user registry.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}
