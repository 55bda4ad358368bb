package policy

import (
	"github.com/APTrust/pharos/models/registry"
)

// Institutions are never destroyed, not even by admins. Scope
// limits non-admins' index to their own institution.
func institutionRule(user *registry.User, inst *registry.Institution, action Action) bool {
	if action == ActionDestroy {
		return false
	}
	if user.IsAdmin() {
		return true
	}
	switch action {
	case ActionIndex:
		return true
	case ActionShow:
		return sameInstitution(user, inst.ID)
	case ActionUpdate, ActionEdit, ActionEnableOTP, ActionDisableOTP:
		return user.IsInstAdmin() && sameInstitution(user, inst.ID)
	}
	return false
}
