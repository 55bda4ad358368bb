package registry

import (
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/util"
)

// WorkItem describes a task for the worker fleet and its current
// stage and status. Workers create and update these through the API.
type WorkItem struct {
	ID                    int64      `json:"id" gorm:"primaryKey"`
	Name                  string     `json:"name" gorm:"index"`
	ETag                  string     `json:"etag"`
	Bucket                string     `json:"bucket"`
	User                  string     `json:"user"`
	Note                  string     `json:"note"`
	Action                string     `json:"action" gorm:"index;not null"`
	Stage                 string     `json:"stage" gorm:"index"`
	Status                string     `json:"status" gorm:"index"`
	Outcome               string     `json:"outcome"`
	BagDate               time.Time  `json:"bag_date"`
	DateProcessed         time.Time  `json:"date_processed"`
	Retry                 bool       `json:"retry"`
	Node                  string     `json:"node"`
	Pid                   int        `json:"pid"`
	NeedsAdminReview      bool       `json:"needs_admin_review"`
	Reviewed              bool       `json:"reviewed"`
	QueuedAt              *time.Time `json:"queued_at"`
	Size                  int64      `json:"size"`
	StageStartedAt        *time.Time `json:"stage_started_at"`
	InstApprover          string     `json:"inst_approver"`
	APTrustApprover       string     `json:"aptrust_approver"`
	InstitutionID         int64      `json:"institution_id" gorm:"index;not null"`
	IntellectualObjectID  *int64     `json:"intellectual_object_id" gorm:"index"`
	GenericFileID         *int64     `json:"generic_file_id" gorm:"index"`
	ObjectIdentifier      string     `json:"object_identifier"`
	GenericFileIdentifier string     `json:"generic_file_identifier"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

func (WorkItem) TableName() string {
	return "work_items"
}

// ProcessingHasCompleted returns true if this WorkItem in an of
// the final states of "Success", "Failed", or "Cancelled." Those
// states indicate that no further processing should occur on this
// WorkItem.
func (item *WorkItem) ProcessingHasCompleted() bool {
	return util.StringListContains(constants.CompletedStatusValues, item.Status)
}

// IsRestoration returns true for object, file and Glacier restores.
func (item *WorkItem) IsRestoration() bool {
	return util.StringListContains(constants.RestorationActions, item.Action)
}

// IsReviewable returns true if an operator should look at this item.
func (item *WorkItem) IsReviewable() bool {
	return util.StringListContains(constants.ReviewableStatusValues, item.Status)
}

// ClearNodeAndPid sets this WorkItem's Node to an empty string and its
// Pid to zero, so any worker may pick it up.
func (item *WorkItem) ClearNodeAndPid() {
	item.Node = ""
	item.Pid = 0
}

// ResetForRequeue puts the item back at stage with status Pending,
// marked queued as of queuedAt.
func (item *WorkItem) ResetForRequeue(stage string, queuedAt time.Time) {
	item.ClearNodeAndPid()
	item.Stage = stage
	item.Status = constants.StatusPending
	item.Retry = true
	item.NeedsAdminReview = false
	item.Reviewed = false
	item.Note = constants.ItemNoteRequeued + " at " + stage
	item.QueuedAt = &queuedAt
	item.StageStartedAt = nil
}

// Identifier returns the most specific identifier this item has:
// file, then object, then the item's own name.
func (item *WorkItem) Identifier() string {
	if item.GenericFileIdentifier != "" {
		return item.GenericFileIdentifier
	}
	if item.ObjectIdentifier != "" {
		return item.ObjectIdentifier
	}
	return item.Name
}
