package policy

import (
	"github.com/APTrust/pharos/models/registry"
)

// WorkItems are never destroyed one at a time. The only way to
// remove them is delete_test_items, which clears test data.
func workItemRule(user *registry.User, item *registry.WorkItem, action Action) bool {
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
		return sameInstitution(user, item.InstitutionID)
	case ActionMarkReviewed:
		return user.IsInstAdmin() && sameInstitution(user, item.InstitutionID)
	}
	return false
}

// Bulk deletions need an institutional admin's approval before an
// APTrust admin's.
func bulkDeleteJobRule(user *registry.User, job *registry.BulkDeleteJob, action Action) bool {
	if user.IsAdmin() {
		return true
	}
	if !user.IsInstAdmin() || !sameInstitution(user, job.InstitutionID) {
		return false
	}
	switch action {
	case ActionIndex, ActionShow, ActionInstitutionalApprove:
		return true
	}
	return false
}
