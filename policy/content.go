package policy

import (
	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
)

// canSeeContent applies the access level of an object (and by
// extension its files) to a non-admin user.
//
//	consortia:   anyone with a role
//	institution: users of the owning institution
//	restricted:  institutional admins of the owning institution
func canSeeContent(user *registry.User, access string, institutionID int64) bool {
	if user.IsAdmin() {
		return true
	}
	switch access {
	case constants.AccessConsortia:
		return true
	case constants.AccessInstitution:
		return sameInstitution(user, institutionID)
	case constants.AccessRestricted:
		return user.IsInstAdmin() && sameInstitution(user, institutionID)
	}
	return false
}

// Objects and files are edited only by the ingest workers, through
// create and update. Edit is denied even to admins.
func objectRule(user *registry.User, obj *registry.IntellectualObject, action Action) bool {
	if action == ActionEdit {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	switch action {
	case ActionIndex:
		return true
	case ActionShow:
		return canSeeContent(user, obj.Access, obj.InstitutionID)
	case ActionDestroy, ActionSoftDelete, ActionRestore:
		return user.IsInstAdmin() && sameInstitution(user, obj.InstitutionID)
	}
	return false
}

func fileRule(user *registry.User, gf *registry.GenericFile, action Action) bool {
	if action == ActionEdit {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	switch action {
	case ActionIndex:
		return true
	case ActionShow:
		return canSeeFile(user, gf)
	case ActionDestroy, ActionSoftDelete, ActionRestore:
		return user.IsInstAdmin() && sameInstitution(user, gf.InstitutionID)
	}
	return false
}

// canSeeFile requires the file's parent object. A file whose parent
// isn't loaded, or doesn't match, is hidden.
func canSeeFile(user *registry.User, gf *registry.GenericFile) bool {
	if user.IsAdmin() {
		return true
	}
	if gf == nil {
		return false
	}
	parent := gf.IntellectualObject
	if parent == nil || parent.ID != gf.IntellectualObjectID {
		return false
	}
	return canSeeContent(user, parent.Access, parent.InstitutionID)
}

// Checksums and storage records follow their file.
func checksumRule(user *registry.User, cs *registry.Checksum, action Action) bool {
	if user.IsAdmin() {
		return true
	}
	if action == ActionIndex || action == ActionShow {
		return cs.GenericFile != nil && cs.GenericFile.ID == cs.GenericFileID && canSeeFile(user, cs.GenericFile)
	}
	return false
}

func storageRecordRule(user *registry.User, sr *registry.StorageRecord, action Action) bool {
	if user.IsAdmin() {
		return true
	}
	if action == ActionIndex || action == ActionShow {
		return sr.GenericFile != nil && sr.GenericFile.ID == sr.GenericFileID && canSeeFile(user, sr.GenericFile)
	}
	return false
}
