// Package workitems implements the transitions people make to work
// items: requeue, review, and restoration status updates from the
// restore workers. Workers do everything else through the API.
package workitems

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/notify"
	"github.com/APTrust/pharos/policy"
	"github.com/APTrust/pharos/util"
	"github.com/op/go-logging"
	"gorm.io/gorm"
)

var (
	ErrInvalidRequeueStage = errors.New("Invalid requeue stage")
	ErrInvalidStatus       = errors.New("Invalid status")
	ErrInvalidStage        = errors.New("Invalid stage")
	ErrNotRestoration      = errors.New("Work item is not a restoration")
)

// StateStore holds the workers' processing state for work items.
// network.RedisClient implements it.
type StateStore interface {
	WorkItemStateDelete(workItemID int64) error
}

// Enqueuer puts work item IDs into worker topics.
// network.NSQClient implements it.
type Enqueuer interface {
	Enqueue(topic string, workItemID int64) error
}

// RestorationNotifier tells depositors their restorations are ready.
// notify.Notifier implements it.
type RestorationNotifier interface {
	RestorationCompleted(ctx context.Context, item *registry.WorkItem) (*notify.Alert, error)
}

type Lifecycle struct {
	DB       *gorm.DB
	State    StateStore
	Queue    Enqueuer
	Notifier RestorationNotifier
	Logger   *logging.Logger
	Now      func() time.Time
}

func NewLifecycle(db *gorm.DB, state StateStore, queue Enqueuer, notifier RestorationNotifier, logger *logging.Logger) *Lifecycle {
	return &Lifecycle{
		DB:       db,
		State:    state,
		Queue:    queue,
		Notifier: notifier,
		Logger:   logger,
		Now:      func() time.Time { return time.Now().UTC() },
	}
}

type RequeueRequest struct {
	Stage           string `json:"stage" form:"stage"`
	DeleteStateItem bool   `json:"delete_state_item" form:"delete_state_item"`
}

// ValidRequeueStages returns the names of the stages an item with
// the specified action may be requeued to.
func ValidRequeueStages(action string) []string {
	stages := constants.RequeueStages(action)
	names := make([]string, len(stages))
	for i, stage := range stages {
		names[i] = stage.Name
	}
	return names
}

// Requeue sends item back to the workers at the requested stage.
// Ingests restart at Fetch, Store or Record. Everything else restarts
// at Requested. An invalid stage changes nothing.
//
// Requeueing an ingest at Fetch always clears the workers' saved
// state, since fetch rebuilds it from the bag. If clearing the state
// fails, the item is left as it was. If the item is saved but can't
// be queued, the error says so and the item, now Pending, can simply
// be requeued again.
func (l *Lifecycle) Requeue(ctx context.Context, item *registry.WorkItem, req RequeueRequest) error {
	stage, err := constants.RequeueStageFor(item.Action, req.Stage)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidRequeueStage, err.Error())
	}
	if req.DeleteStateItem || stage.Name == constants.StageFetch {
		if err = l.State.WorkItemStateDelete(item.ID); err != nil {
			return fmt.Errorf("Cannot clear processing state for work item %d: %w", item.ID, err)
		}
		l.Logger.Infof("Deleted processing state for work item %d", item.ID)
	}
	item.ResetForRequeue(stage.Name, l.Now())
	if err = l.DB.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("Cannot save work item %d: %w", item.ID, err)
	}
	if err = l.Queue.Enqueue(stage.NSQTopic, item.ID); err != nil {
		return fmt.Errorf("Work item %d was reset but not queued: %w", item.ID, err)
	}
	l.Logger.Infof("Requeued work item %d (%s) to %s", item.ID, item.Action, stage.NSQTopic)
	return nil
}

// MarkReviewed marks reviewed each of the specified items the user
// may review, and returns the IDs it marked. IDs the user can't
// review, or that don't exist, are skipped.
func (l *Lifecycle) MarkReviewed(ctx context.Context, user *registry.User, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db := l.DB.WithContext(ctx)
	var items []*registry.WorkItem
	if err := db.Where("id IN ?", ids).Order("id").Find(&items).Error; err != nil {
		return nil, err
	}
	reviewed := make([]int64, 0, len(items))
	for _, item := range items {
		if policy.Evaluate(user, policy.KindWorkItem, item, policy.ActionMarkReviewed) {
			reviewed = append(reviewed, item.ID)
		}
	}
	if len(reviewed) == 0 {
		return reviewed, nil
	}
	err := db.Model(&registry.WorkItem{}).
		Where("id IN ?", reviewed).
		Update("reviewed", true).Error
	if err != nil {
		return nil, err
	}
	return reviewed, nil
}

// ReviewAll marks reviewed every failed, cancelled or suspended item
// the user can see, if the user may review items at all. Returns the
// number of items marked.
func (l *Lifecycle) ReviewAll(ctx context.Context, user *registry.User) (int64, error) {
	sample := &registry.WorkItem{}
	if user != nil {
		sample.InstitutionID = user.InstitutionID
	}
	if !policy.Evaluate(user, policy.KindWorkItem, sample, policy.ActionMarkReviewed) {
		return 0, nil
	}
	query := l.DB.WithContext(ctx).Model(&registry.WorkItem{})
	result := policy.Scope(query, user, policy.KindWorkItem).
		Where("work_items.status IN ?", constants.ReviewableStatusValues).
		Where("work_items.reviewed = ?", false).
		Update("reviewed", true)
	return result.RowsAffected, result.Error
}

// RestorationStatus is what the restore workers report as they go.
// Empty Stage and Node leave those fields alone. Pid is only taken
// along with a Node.
type RestorationStatus struct {
	Stage            string `json:"stage"`
	Status           string `json:"status"`
	Note             string `json:"note"`
	Retry            bool   `json:"retry"`
	NeedsAdminReview bool   `json:"needs_admin_review"`
	Node             string `json:"node"`
	Pid              int    `json:"pid"`
}

// SetRestorationStatus records a restore worker's progress. When a
// restoration first succeeds, the institution's admins get a link
// to the restored bag. Failure to send that alert is logged and does
// not undo the update.
func (l *Lifecycle) SetRestorationStatus(ctx context.Context, item *registry.WorkItem, status RestorationStatus) error {
	if !item.IsRestoration() {
		return fmt.Errorf("%w: work item %d is %s", ErrNotRestoration, item.ID, item.Action)
	}
	if !util.StringListContains(constants.Statuses, status.Status) {
		return fmt.Errorf("%w: '%s'", ErrInvalidStatus, status.Status)
	}
	if status.Stage != "" && !util.StringListContains(constants.Stages, status.Stage) {
		return fmt.Errorf("%w: '%s'", ErrInvalidStage, status.Stage)
	}
	wasSuccessful := item.Status == constants.StatusSuccess
	if status.Stage != "" {
		item.Stage = status.Stage
	}
	item.Status = status.Status
	item.Note = status.Note
	item.Retry = status.Retry
	item.NeedsAdminReview = status.NeedsAdminReview
	if status.Node != "" {
		item.Node = status.Node
		item.Pid = status.Pid
	}
	item.DateProcessed = l.Now()
	if err := l.DB.WithContext(ctx).Save(item).Error; err != nil {
		return fmt.Errorf("Cannot save work item %d: %w", item.ID, err)
	}
	if item.Status == constants.StatusSuccess && !wasSuccessful && l.Notifier != nil {
		if _, err := l.Notifier.RestorationCompleted(ctx, item); err != nil {
			l.Logger.Errorf("Restoration alert for work item %d failed: %v", item.ID, err)
		}
	}
	return nil
}

// DeleteTestItems removes all work items belonging to the specified
// institution. It exists so integration tests can start clean, and
// refuses to run against any institution but the test institution.
func (l *Lifecycle) DeleteTestItems(ctx context.Context, institutionIdentifier string) (int64, error) {
	if institutionIdentifier != constants.TestInstitutionIdentifier {
		return 0, fmt.Errorf("Refusing to delete work items of %s", institutionIdentifier)
	}
	db := l.DB.WithContext(ctx)
	var inst registry.Institution
	if err := db.Where("identifier = ?", institutionIdentifier).First(&inst).Error; err != nil {
		return 0, err
	}
	result := db.Where("institution_id = ?", inst.ID).Delete(&registry.WorkItem{})
	return result.RowsAffected, result.Error
}

// HideReviewed returns the work item index params to use for a
// session. Reviewed items are hidden unless the session wants to see
// them or the request explicitly asks about reviewed status.
func HideReviewed(values url.Values, showReviewed bool) url.Values {
	if showReviewed || values.Get(constants.ParamReviewed) != "" {
		return values
	}
	copied := url.Values{}
	for key, list := range values {
		copied[key] = list
	}
	copied.Set(constants.ParamReviewed, "false")
	return copied
}
