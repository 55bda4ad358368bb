package policy

import (
	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
)

func userRule(user *registry.User, target *registry.User, action Action) bool {
	isSelf := target.ID != 0 && target.ID == user.ID
	if action == ActionDestroy && isSelf {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	sameInst := sameInstitution(user, target.InstitutionID)
	// Institutional admins manage their own institution's users, but
	// never an APTrust admin.
	managesTarget := user.IsInstAdmin() && sameInst && !target.IsAdmin()
	switch action {
	case ActionIndex:
		return true
	case ActionShow:
		return sameInst
	case ActionCreate, ActionDestroy:
		return managesTarget
	case ActionUpdate, ActionEdit:
		return managesTarget || isSelf
	case ActionGenerateAPIKey:
		return isSelf
	}
	return false
}

func roleRule(user *registry.User, role *registry.Role, action Action) bool {
	if user.IsAdmin() {
		return true
	}
	if !user.IsInstAdmin() {
		return false
	}
	switch action {
	case ActionIndex, ActionShow:
		return true
	case ActionAssign:
		return role.Name != constants.RoleAdmin
	}
	return false
}
