package constants

const (
	AccessConsortia   = "consortia"
	AccessInstitution = "institution"
	AccessRestricted  = "restricted"
	AlgMd5            = "md5"
	AlgSha1           = "sha1"
	AlgSha256         = "sha256"
	AlgSha512         = "sha512"
	EmptyUUID         = "00000000-0000-0000-0000-000000000000"
	StateActive       = "A"
	StateDeleted      = "D"
	StateAll          = "all"
	StorageStandard   = "Standard"
)

// Institution types
const (
	InstTypeMember       = "MemberInstitution"
	InstTypeSubscription = "SubscriptionInstitution"
)

// Roles. A user has exactly one, and it applies everywhere,
// not just within the user's own institution.
const (
	RoleAdmin             = "admin"
	RoleInstAdmin         = "institutional_admin"
	RoleInstUser          = "institutional_user"
	RoleNone              = ""
	AlertTopicDefault     = "pharos_alerts"
	TwoFactorTopicDefault = "pharos_two_factor"
	SignatureHeader       = "X-Pharos-Signature"
	SessionCookieName     = "_pharos_session"
	APIUserHeader         = "X-Pharos-API-User"
	APIKeyHeader          = "X-Pharos-API-Key"
	DefaultPerPage        = 10
	DefaultMaxPerPage     = 200
	DefaultTwoFactorTTL   = 120
	TwoFactorPending      = "pending"
	TwoFactorApproved     = "approved"
	TwoFactorDenied       = "denied"
	ItemNoteRequeued      = "Requeued for reprocessing"
	ItemNoteDeleteRequest = "Deletion requested"
)

// EnvProduction is the PHAROS_ENV of the production deployment.
const EnvProduction = "production"

// TestInstitutionIdentifier is the only institution whose work items
// may be bulk deleted.
const TestInstitutionIdentifier = "test.edu"

// Work item actions
const (
	ActionDelete         = "Delete"
	ActionFixityCheck    = "Fixity Check"
	ActionGlacierRestore = "Glacier Restore"
	ActionIngest         = "Ingest"
	ActionRestoreFile    = "Restore File"
	ActionRestoreObject  = "Restore Object"
)

// Work item stages
const (
	StageAvailableInS3 = "Available in S3"
	StageCleanup       = "Cleanup"
	StageFetch         = "Fetch"
	StageRecord        = "Record"
	StageRequested     = "Requested"
	StageResolve       = "Resolve"
	StageStore         = "Store"
	StageUnpack        = "Unpack"
	StageValidate      = "Validate"
)

// Work item statuses
const (
	StatusCancelled = "Cancelled"
	StatusFailed    = "Failed"
	StatusPending   = "Pending"
	StatusStarted   = "Started"
	StatusSuccess   = "Success"
	StatusSuspended = "Suspended"
)

// PREMIS event types and outcomes
const (
	EventAccessAssignment     = "access assignment"
	EventCreation             = "creation"
	EventDeletion             = "deletion"
	EventDigestCalculation    = "message digest calculation"
	EventFixityCheck          = "fixity check"
	EventIdentifierAssignment = "identifier assignment"
	EventIngestion            = "ingestion"
	EventReplication          = "replication"
	OutcomeFailure            = "Failure"
	OutcomeSuccess            = "Success"
)

// Labels for PremisEvent subjects.
const (
	LabelEvent              = "Event"
	LabelGenericFile        = "Generic File"
	LabelIntellectualObject = "Intellectual Object"
)

// Query parameters recognized by the index views. Every one of
// these survives a trip through the pagination links.
const (
	ParamAccess            = "access"
	ParamEventType         = "event_type"
	ParamFileAssociation   = "file_association"
	ParamFileFormat        = "file_format"
	ParamInstitution       = "institution"
	ParamItemAction        = "item_action"
	ParamNeedsAdminReview  = "needs_admin_review"
	ParamNode              = "node"
	ParamObjectAssociation = "object_association"
	ParamOutcome           = "outcome"
	ParamPage              = "page"
	ParamPerPage           = "per_page"
	ParamQ                 = "q"
	ParamQueued            = "queued"
	ParamRemoteNode        = "remote_node"
	ParamRetry             = "retry"
	ParamReviewed          = "reviewed"
	ParamSearchField       = "search_field"
	ParamSort              = "sort"
	ParamStage             = "stage"
	ParamState             = "state"
	ParamStatus            = "status"
	ParamType              = "type"
	ParamUpdatedAfter      = "updated_after"
	ParamUpdatedBefore     = "updated_before"
)

const (
	QueuedYes = "is_queued"
	QueuedNo  = "is_not_queued"
	SortDate  = "date"
	SortName  = "name"
	SortInst  = "institution"
)

var AccessLevels = []string{
	AccessConsortia,
	AccessInstitution,
	AccessRestricted,
}

var DigestAlgorithms = []string{
	AlgMd5,
	AlgSha1,
	AlgSha256,
	AlgSha512,
}

var Roles = []string{
	RoleAdmin,
	RoleInstAdmin,
	RoleInstUser,
}

var States = []string{
	StateActive,
	StateDeleted,
}

var Statuses = []string{
	StatusCancelled,
	StatusFailed,
	StatusPending,
	StatusStarted,
	StatusSuccess,
	StatusSuspended,
}

// CompletedStatusValues are the statuses after which no worker
// will touch an item again unless someone requeues it.
var CompletedStatusValues = []string{
	StatusCancelled,
	StatusFailed,
	StatusSuccess,
}

// ReviewableStatusValues are the statuses an operator is expected
// to look at and mark reviewed.
var ReviewableStatusValues = []string{
	StatusCancelled,
	StatusFailed,
	StatusSuspended,
}

var Actions = []string{
	ActionDelete,
	ActionFixityCheck,
	ActionGlacierRestore,
	ActionIngest,
	ActionRestoreFile,
	ActionRestoreObject,
}

var Stages = []string{
	StageAvailableInS3,
	StageCleanup,
	StageFetch,
	StageRecord,
	StageRequested,
	StageResolve,
	StageStore,
	StageUnpack,
	StageValidate,
}

var InstTypes = []string{
	InstTypeMember,
	InstTypeSubscription,
}

var RestorationActions = []string{
	ActionGlacierRestore,
	ActionRestoreFile,
	ActionRestoreObject,
}

// RecognizedParams lists every query parameter the pagination
// links carry forward. Page and per_page are set by the pager.
var RecognizedParams = []string{
	ParamAccess,
	ParamEventType,
	ParamFileAssociation,
	ParamFileFormat,
	ParamInstitution,
	ParamItemAction,
	ParamNeedsAdminReview,
	ParamNode,
	ParamObjectAssociation,
	ParamOutcome,
	ParamQ,
	ParamQueued,
	ParamRemoteNode,
	ParamRetry,
	ParamReviewed,
	ParamSearchField,
	ParamSort,
	ParamStage,
	ParamState,
	ParamStatus,
	ParamType,
	ParamUpdatedAfter,
	ParamUpdatedBefore,
}
