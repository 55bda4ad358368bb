package policy

import (
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/store"
	"gorm.io/gorm"
)

// Authorizer evaluates policy against records fetched from db. It
// loads the parent records that file, checksum and storage record
// rules depend on. If a parent can't be loaded, the rule denies.
type Authorizer struct {
	db *gorm.DB
}

func NewAuthorizer(db *gorm.DB) *Authorizer {
	return &Authorizer{db: db}
}

// Allows returns true if user may perform action on record.
func (a *Authorizer) Allows(user *registry.User, kind ResourceKind, record any, action Action) bool {
	if !user.HasRole() {
		return false
	}
	if !user.IsAdmin() {
		a.loadParents(kind, record)
	}
	return Evaluate(user, kind, record, action)
}

// Scope returns a query over kind's table narrowed to what user may
// see.
func (a *Authorizer) Scope(user *registry.User, kind ResourceKind, model any) *gorm.DB {
	return Scope(a.db.Model(model), user, kind)
}

func (a *Authorizer) loadParents(kind ResourceKind, record any) {
	switch kind {
	case KindGenericFile:
		if gf, ok := record.(*registry.GenericFile); ok && gf != nil {
			store.LoadFileParent(a.db, gf)
		}
	case KindChecksum:
		if cs, ok := record.(*registry.Checksum); ok && cs != nil {
			cs.GenericFile = a.fileWithParent(cs.GenericFile, cs.GenericFileID)
		}
	case KindStorageRecord:
		if sr, ok := record.(*registry.StorageRecord); ok && sr != nil {
			sr.GenericFile = a.fileWithParent(sr.GenericFile, sr.GenericFileID)
		}
	}
}

func (a *Authorizer) fileWithParent(gf *registry.GenericFile, fileID int64) *registry.GenericFile {
	if gf != nil && gf.ID == fileID {
		if store.LoadFileParent(a.db, gf) == nil {
			return gf
		}
		return nil
	}
	loaded, err := store.FileWithParent(a.db, fileID)
	if err != nil {
		return nil
	}
	return loaded
}
