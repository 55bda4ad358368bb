package filter

import (
	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
)

// Target describes how the filters apply to one kind of record.
// Columns maps a query parameter to the table-qualified column it
// filters. A filter whose parameter has no column here doesn't apply
// to this kind and is skipped.
type Target struct {
	Kind          policy.ResourceKind
	Table         string
	Model         any
	Joins         []string
	Columns       map[string]string
	SearchColumns map[string]string
	DateColumn    string
	NameColumn    string
	Facets        []string
}

// Column returns the column param filters, or an empty string.
func (t Target) Column(param string) string {
	return t.Columns[param]
}

// PrimaryKey returns the qualified id column.
func (t Target) PrimaryKey() string {
	return t.Table + ".id"
}

var Institutions = Target{
	Kind:  policy.KindInstitution,
	Table: "institutions",
	Model: &registry.Institution{},
	Columns: map[string]string{
		constants.ParamState:         "institutions.state",
		constants.ParamType:          "institutions.type",
		constants.ParamUpdatedAfter:  "institutions.updated_at",
		constants.ParamUpdatedBefore: "institutions.updated_at",
	},
	SearchColumns: map[string]string{
		"identifier": "institutions.identifier",
		"name":       "institutions.name",
	},
	DateColumn: "institutions.updated_at",
	NameColumn: "institutions.name",
	Facets:     []string{constants.ParamType},
}

var Users = Target{
	Kind:  policy.KindUser,
	Table: "users",
	Model: &registry.User{},
	Columns: map[string]string{
		constants.ParamInstitution:   "users.institution_id",
		constants.ParamUpdatedAfter:  "users.updated_at",
		constants.ParamUpdatedBefore: "users.updated_at",
	},
	SearchColumns: map[string]string{
		"email": "users.email",
		"name":  "users.name",
	},
	DateColumn: "users.updated_at",
	NameColumn: "users.name",
	Facets:     []string{constants.ParamInstitution},
}

var IntellectualObjects = Target{
	Kind:  policy.KindIntellectualObject,
	Table: "intellectual_objects",
	Model: &registry.IntellectualObject{},
	Columns: map[string]string{
		constants.ParamAccess:        "intellectual_objects.access",
		constants.ParamInstitution:   "intellectual_objects.institution_id",
		constants.ParamState:         "intellectual_objects.state",
		constants.ParamUpdatedAfter:  "intellectual_objects.updated_at",
		constants.ParamUpdatedBefore: "intellectual_objects.updated_at",
	},
	SearchColumns: map[string]string{
		"alt_identifier":       "intellectual_objects.alt_identifier",
		"bag_group_identifier": "intellectual_objects.bag_group_identifier",
		"bag_name":             "intellectual_objects.bag_name",
		"identifier":           "intellectual_objects.identifier",
		"title":                "intellectual_objects.title",
	},
	DateColumn: "intellectual_objects.updated_at",
	NameColumn: "intellectual_objects.identifier",
	Facets: []string{
		constants.ParamInstitution,
		constants.ParamAccess,
		constants.ParamState,
	},
}

// Files take their access from the parent object, so file queries
// always join intellectual_objects.
var GenericFiles = Target{
	Kind:  policy.KindGenericFile,
	Table: "generic_files",
	Model: &registry.GenericFile{},
	Joins: []string{
		"JOIN intellectual_objects ON intellectual_objects.id = generic_files.intellectual_object_id",
	},
	Columns: map[string]string{
		constants.ParamAccess:            "intellectual_objects.access",
		constants.ParamFileFormat:        "generic_files.file_format",
		constants.ParamInstitution:       "generic_files.institution_id",
		constants.ParamObjectAssociation: "generic_files.intellectual_object_id",
		constants.ParamState:             "generic_files.state",
		constants.ParamUpdatedAfter:      "generic_files.updated_at",
		constants.ParamUpdatedBefore:     "generic_files.updated_at",
	},
	SearchColumns: map[string]string{
		"identifier": "generic_files.identifier",
		"uuid":       "generic_files.uuid",
	},
	DateColumn: "generic_files.updated_at",
	NameColumn: "generic_files.identifier",
	Facets: []string{
		constants.ParamFileFormat,
		constants.ParamInstitution,
		constants.ParamAccess,
		constants.ParamState,
	},
}

var PremisEvents = Target{
	Kind:  policy.KindPremisEvent,
	Table: "premis_events",
	Model: &registry.PremisEvent{},
	Columns: map[string]string{
		constants.ParamEventType:         "premis_events.event_type",
		constants.ParamFileAssociation:   "premis_events.generic_file_id",
		constants.ParamInstitution:       "premis_events.institution_id",
		constants.ParamObjectAssociation: "premis_events.intellectual_object_id",
		constants.ParamOutcome:           "premis_events.outcome",
		constants.ParamUpdatedAfter:      "premis_events.date_time",
		constants.ParamUpdatedBefore:     "premis_events.date_time",
	},
	SearchColumns: map[string]string{
		"identifier":     "premis_events.identifier",
		"outcome_detail": "premis_events.outcome_detail",
	},
	DateColumn: "premis_events.date_time",
	NameColumn: "premis_events.identifier",
	Facets: []string{
		constants.ParamEventType,
		constants.ParamOutcome,
		constants.ParamInstitution,
	},
}

var WorkItems = Target{
	Kind:  policy.KindWorkItem,
	Table: "work_items",
	Model: &registry.WorkItem{},
	Columns: map[string]string{
		constants.ParamFileAssociation:   "work_items.generic_file_id",
		constants.ParamInstitution:       "work_items.institution_id",
		constants.ParamItemAction:        "work_items.action",
		constants.ParamNeedsAdminReview:  "work_items.needs_admin_review",
		constants.ParamNode:              "work_items.node",
		constants.ParamObjectAssociation: "work_items.intellectual_object_id",
		constants.ParamQueued:            "work_items.queued_at",
		constants.ParamRemoteNode:        "work_items.node",
		constants.ParamRetry:             "work_items.retry",
		constants.ParamReviewed:          "work_items.reviewed",
		constants.ParamStage:             "work_items.stage",
		constants.ParamStatus:            "work_items.status",
		constants.ParamUpdatedAfter:      "work_items.date_processed",
		constants.ParamUpdatedBefore:     "work_items.date_processed",
	},
	SearchColumns: map[string]string{
		"etag":              "work_items.etag",
		"file_identifier":   "work_items.generic_file_identifier",
		"name":              "work_items.name",
		"object_identifier": "work_items.object_identifier",
	},
	DateColumn: "work_items.date_processed",
	NameColumn: "work_items.name",
	Facets: []string{
		constants.ParamStatus,
		constants.ParamStage,
		constants.ParamItemAction,
		constants.ParamInstitution,
	},
}

// Targets maps each filterable kind to its Target.
var Targets = map[policy.ResourceKind]Target{
	policy.KindInstitution:        Institutions,
	policy.KindUser:               Users,
	policy.KindIntellectualObject: IntellectualObjects,
	policy.KindGenericFile:        GenericFiles,
	policy.KindPremisEvent:        PremisEvents,
	policy.KindWorkItem:           WorkItems,
}
