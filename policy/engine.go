// Package policy decides who may do what to which registry records,
// and narrows collections to the records a user may see.
package policy

import (
	"github.com/APTrust/pharos/models/registry"
)

// ResourceKind names the kinds of records the policy engine knows.
type ResourceKind int

const (
	KindInstitution ResourceKind = iota
	KindUser
	KindRole
	KindIntellectualObject
	KindGenericFile
	KindChecksum
	KindStorageRecord
	KindPremisEvent
	KindWorkItem
	KindBulkDeleteJob
)

var kindNames = map[ResourceKind]string{
	KindInstitution:        "Institution",
	KindUser:               "User",
	KindRole:               "Role",
	KindIntellectualObject: "IntellectualObject",
	KindGenericFile:        "GenericFile",
	KindChecksum:           "Checksum",
	KindStorageRecord:      "StorageRecord",
	KindPremisEvent:        "PremisEvent",
	KindWorkItem:           "WorkItem",
	KindBulkDeleteJob:      "BulkDeleteJob",
}

// Kinds lists every ResourceKind.
var Kinds = []ResourceKind{
	KindInstitution,
	KindUser,
	KindRole,
	KindIntellectualObject,
	KindGenericFile,
	KindChecksum,
	KindStorageRecord,
	KindPremisEvent,
	KindWorkItem,
	KindBulkDeleteJob,
}

func (k ResourceKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Action is something a user wants to do to a record.
type Action string

const (
	ActionIndex                Action = "index"
	ActionShow                 Action = "show"
	ActionCreate               Action = "create"
	ActionUpdate               Action = "update"
	ActionEdit                 Action = "edit"
	ActionDestroy              Action = "destroy"
	ActionSoftDelete           Action = "soft_delete"
	ActionRestore              Action = "restore"
	ActionEnableOTP            Action = "enable_otp"
	ActionDisableOTP           Action = "disable_otp"
	ActionGenerateAPIKey       Action = "generate_api_key"
	ActionAssign               Action = "assign"
	ActionRequeue              Action = "requeue"
	ActionSetRestorationStatus Action = "set_restoration_status"
	ActionMarkReviewed         Action = "mark_reviewed"
	ActionDeleteTestItems      Action = "delete_test_items"
	ActionAPTrustApprove       Action = "aptrust_approve"
	ActionInstitutionalApprove Action = "institutional_approve"
)

// Evaluate returns true if user may perform action on record. Record
// must be a pointer to the registry type matching kind. A nil user,
// a user without a role, a nil record or a record of the wrong type
// are all denied. Evaluate never panics and never touches the
// database. Rules that depend on a parent record read it from the
// record's association field, which the caller must load (see
// Authorizer).
func Evaluate(user *registry.User, kind ResourceKind, record any, action Action) bool {
	if !user.HasRole() || record == nil {
		return false
	}
	switch kind {
	case KindInstitution:
		inst, ok := record.(*registry.Institution)
		return ok && inst != nil && institutionRule(user, inst, action)
	case KindUser:
		target, ok := record.(*registry.User)
		return ok && target != nil && userRule(user, target, action)
	case KindRole:
		role, ok := record.(*registry.Role)
		return ok && role != nil && roleRule(user, role, action)
	case KindIntellectualObject:
		obj, ok := record.(*registry.IntellectualObject)
		return ok && obj != nil && objectRule(user, obj, action)
	case KindGenericFile:
		gf, ok := record.(*registry.GenericFile)
		return ok && gf != nil && fileRule(user, gf, action)
	case KindChecksum:
		cs, ok := record.(*registry.Checksum)
		return ok && cs != nil && checksumRule(user, cs, action)
	case KindStorageRecord:
		sr, ok := record.(*registry.StorageRecord)
		return ok && sr != nil && storageRecordRule(user, sr, action)
	case KindPremisEvent:
		event, ok := record.(*registry.PremisEvent)
		return ok && event != nil && eventRule(user, event, action)
	case KindWorkItem:
		item, ok := record.(*registry.WorkItem)
		return ok && item != nil && workItemRule(user, item, action)
	case KindBulkDeleteJob:
		job, ok := record.(*registry.BulkDeleteJob)
		return ok && job != nil && bulkDeleteJobRule(user, job, action)
	}
	return false
}

// sameInstitution returns true if the record belongs to the user's
// institution.
func sameInstitution(user *registry.User, institutionID int64) bool {
	return institutionID != 0 && user.InstitutionID == institutionID
}
