package policy

import (
	"github.com/APTrust/pharos/models/registry"
)

// Events are visible to the owning institution regardless of the
// subject's access level. Only admins (and the workers, who act as
// admins) record them.
func eventRule(user *registry.User, event *registry.PremisEvent, action Action) bool {
	if user.IsAdmin() {
		return true
	}
	switch action {
	case ActionIndex:
		return true
	case ActionShow:
		return sameInstitution(user, event.InstitutionID)
	}
	return false
}
