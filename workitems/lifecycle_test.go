package workitems_test

import (
	"context"
	"errors"
	"net/http/httptest"
	"net/url"
	"strconv"
	"testing"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/network"
	"github.com/APTrust/pharos/notify"
	"github.com/APTrust/pharos/util/logger"
	"github.com/APTrust/pharos/util/testutil"
	"github.com/APTrust/pharos/workitems"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type harness struct {
	db        *gorm.DB
	fixtures  *testutil.Fixtures
	redis     *network.RedisClient
	queue     *testutil.NSQRecorder
	alerts    *testutil.NSQRecorder
	lifecycle *workitems.Lifecycle
}

func newHarness(t *testing.T) *harness {
	db := testutil.NewTestDB(t)
	f := testutil.LoadFixtures(t, db)
	redis, _ := testutil.NewRedisClient(t)

	queue := testutil.NewNSQRecorder()
	server := httptest.NewServer(queue)
	t.Cleanup(server.Close)

	s3, err := network.NewS3Client("localhost:9899", "key", "secret", false)
	require.Nil(t, err)
	alerts := testutil.NewNSQRecorder()
	log := logger.DiscardLogger("workitems_test")
	notifier := notify.NewNotifier(db, alerts, network.NewPresigner(s3, time.Hour), "", log)

	return &harness{
		db:        db,
		fixtures:  f,
		redis:     redis,
		queue:     queue,
		alerts:    alerts,
		lifecycle: workitems.NewLifecycle(db, redis, network.NewNSQClient(server.URL), notifier, log),
	}
}

func (h *harness) reload(t *testing.T, item *registry.WorkItem) *registry.WorkItem {
	var loaded registry.WorkItem
	require.Nil(t, h.db.First(&loaded, item.ID).Error)
	return &loaded
}

func (h *harness) createItem(t *testing.T, action, stage, status string) *registry.WorkItem {
	item := testutil.GetWorkItem(h.fixtures.Objects[0], action, stage, status)
	item.Node = "worker-9"
	item.Pid = 1234
	item.NeedsAdminReview = true
	require.Nil(t, h.db.Create(item).Error)
	return item
}

func TestValidRequeueStages(t *testing.T) {
	assert.Equal(t, []string{constants.StageFetch, constants.StageStore, constants.StageRecord},
		workitems.ValidRequeueStages(constants.ActionIngest))
	for _, action := range []string{
		constants.ActionDelete,
		constants.ActionFixityCheck,
		constants.ActionGlacierRestore,
		constants.ActionRestoreFile,
		constants.ActionRestoreObject,
	} {
		assert.Equal(t, []string{constants.StageRequested}, workitems.ValidRequeueStages(action), action)
	}
	assert.Empty(t, workitems.ValidRequeueStages("Explode"))
}

func TestRequeueStoreThenInvalid(t *testing.T) {
	h := newHarness(t)
	item := h.createItem(t, constants.ActionIngest, constants.StageRecord, constants.StatusFailed)
	require.Nil(t, h.redis.WorkItemStateSet(item.ID, "object", "{}"))

	err := h.lifecycle.Requeue(context.Background(), item, workitems.RequeueRequest{Stage: constants.StageStore})
	require.Nil(t, err)

	saved := h.reload(t, item)
	assert.Equal(t, constants.StageStore, saved.Stage)
	assert.Equal(t, constants.StatusPending, saved.Status)
	assert.True(t, saved.Retry)
	assert.False(t, saved.NeedsAdminReview)
	assert.Empty(t, saved.Node)
	assert.Equal(t, 0, saved.Pid)
	assert.NotNil(t, saved.QueuedAt)
	assert.Equal(t, "Requeued for reprocessing at Store", saved.Note)
	assert.Equal(t, []string{strconv.FormatInt(item.ID, 10)}, h.queue.Messages(constants.TopicStore))

	// Store keeps the workers' state.
	exists, err := h.redis.WorkItemStateExists(item.ID)
	require.Nil(t, err)
	assert.True(t, exists)

	err = h.lifecycle.Requeue(context.Background(), saved, workitems.RequeueRequest{Stage: "INVALID"})
	assert.ErrorIs(t, err, workitems.ErrInvalidRequeueStage)
	unchanged := h.reload(t, item)
	assert.Equal(t, saved.Stage, unchanged.Stage)
	assert.Equal(t, saved.Note, unchanged.Note)
	assert.Len(t, h.queue.Messages(constants.TopicStore), 1)
}

func TestRequeueFetchClearsState(t *testing.T) {
	h := newHarness(t)
	item := h.createItem(t, constants.ActionIngest, constants.StageStore, constants.StatusFailed)
	require.Nil(t, h.redis.WorkItemStateSet(item.ID, "object", "{}"))

	require.Nil(t, h.lifecycle.Requeue(context.Background(), item, workitems.RequeueRequest{Stage: constants.StageFetch}))
	exists, err := h.redis.WorkItemStateExists(item.ID)
	require.Nil(t, err)
	assert.False(t, exists)
	assert.Len(t, h.queue.Messages(constants.TopicFetch), 1)
}

func TestRequeueDeleteStateItem(t *testing.T) {
	h := newHarness(t)
	item := h.createItem(t, constants.ActionRestoreObject, constants.StageAvailableInS3, constants.StatusFailed)
	require.Nil(t, h.redis.WorkItemStateSet(item.ID, "object", "{}"))

	req := workitems.RequeueRequest{DeleteStateItem: true}
	require.Nil(t, h.lifecycle.Requeue(context.Background(), item, req))
	assert.Equal(t, constants.StageRequested, h.reload(t, item).Stage)
	exists, err := h.redis.WorkItemStateExists(item.ID)
	require.Nil(t, err)
	assert.False(t, exists)
	assert.Len(t, h.queue.Messages(constants.TopicRestore), 1)
}

type brokenState struct{}

func (brokenState) WorkItemStateDelete(workItemID int64) error {
	return errors.New("redis is down")
}

func TestRequeueStateDeleteFails(t *testing.T) {
	h := newHarness(t)
	h.lifecycle.State = brokenState{}
	item := h.createItem(t, constants.ActionIngest, constants.StageStore, constants.StatusFailed)

	err := h.lifecycle.Requeue(context.Background(), item, workitems.RequeueRequest{Stage: constants.StageFetch})
	require.NotNil(t, err)
	saved := h.reload(t, item)
	assert.Equal(t, constants.StageStore, saved.Stage)
	assert.Equal(t, constants.StatusFailed, saved.Status)
	assert.Nil(t, saved.QueuedAt)
	assert.Empty(t, h.queue.Messages(constants.TopicFetch))
}

func TestRequeueEnqueueFails(t *testing.T) {
	h := newHarness(t)
	working := h.lifecycle.Queue
	dead := httptest.NewServer(testutil.NewNSQRecorder())
	dead.Close()
	h.lifecycle.Queue = network.NewNSQClient(dead.URL)
	item := h.createItem(t, constants.ActionIngest, constants.StageRecord, constants.StatusFailed)

	err := h.lifecycle.Requeue(context.Background(), item, workitems.RequeueRequest{Stage: constants.StageStore})
	require.NotNil(t, err)
	assert.Contains(t, err.Error(), "not queued")
	assert.Equal(t, constants.StatusPending, h.reload(t, item).Status)

	// The saved item can be requeued once nsqd is back.
	h.lifecycle.Queue = working
	require.Nil(t, h.lifecycle.Requeue(context.Background(), h.reload(t, item), workitems.RequeueRequest{Stage: constants.StageStore}))
	assert.Equal(t, []string{strconv.FormatInt(item.ID, 10)}, h.queue.Messages(constants.TopicStore))
}

func TestRequeueNonIngestRejectsIngestStage(t *testing.T) {
	h := newHarness(t)
	item := h.createItem(t, constants.ActionFixityCheck, constants.StageRequested, constants.StatusFailed)
	err := h.lifecycle.Requeue(context.Background(), item, workitems.RequeueRequest{Stage: constants.StageStore})
	assert.ErrorIs(t, err, workitems.ErrInvalidRequeueStage)
	assert.Equal(t, constants.StatusFailed, h.reload(t, item).Status)
	assert.Empty(t, h.queue.Messages(constants.TopicFixity))
}

func TestMarkReviewed(t *testing.T) {
	h := newHarness(t)
	f := h.fixtures
	ownItem := f.WorkItems[0]
	otherItem := f.WorkItems[len(f.WorkItems)-1]
	require.Equal(t, f.InstOne.ID, ownItem.InstitutionID)
	require.Equal(t, f.InstTwo.ID, otherItem.InstitutionID)
	ids := []int64{ownItem.ID, otherItem.ID, 99999}

	// Plain users can't review anything.
	reviewed, err := h.lifecycle.MarkReviewed(context.Background(), f.InstUser, ids)
	require.Nil(t, err)
	assert.Empty(t, reviewed)

	reviewed, err = h.lifecycle.MarkReviewed(context.Background(), f.InstAdmin, ids)
	require.Nil(t, err)
	assert.Equal(t, []int64{ownItem.ID}, reviewed)
	assert.True(t, h.reload(t, ownItem).Reviewed)
	assert.False(t, h.reload(t, otherItem).Reviewed)

	reviewed, err = h.lifecycle.MarkReviewed(context.Background(), f.Admin, ids)
	require.Nil(t, err)
	assert.Equal(t, []int64{ownItem.ID, otherItem.ID}, reviewed)
	assert.True(t, h.reload(t, otherItem).Reviewed)
}

func TestReviewAll(t *testing.T) {
	h := newHarness(t)
	f := h.fixtures
	failed := h.createItem(t, constants.ActionIngest, constants.StageStore, constants.StatusFailed)
	cancelled := h.createItem(t, constants.ActionIngest, constants.StageStore, constants.StatusCancelled)
	other := testutil.GetWorkItem(f.Object(f.InstTwo, constants.AccessConsortia), constants.ActionIngest, constants.StageStore, constants.StatusSuspended)
	require.Nil(t, h.db.Create(other).Error)

	count, err := h.lifecycle.ReviewAll(context.Background(), f.InstUser)
	require.Nil(t, err)
	assert.Equal(t, int64(0), count)

	count, err = h.lifecycle.ReviewAll(context.Background(), f.InstAdmin)
	require.Nil(t, err)
	assert.Equal(t, int64(2), count)
	assert.True(t, h.reload(t, failed).Reviewed)
	assert.True(t, h.reload(t, cancelled).Reviewed)
	assert.False(t, h.reload(t, other).Reviewed)
	// Successful items aren't reviewable.
	assert.False(t, h.reload(t, f.WorkItems[0]).Reviewed)

	count, err = h.lifecycle.ReviewAll(context.Background(), f.Admin)
	require.Nil(t, err)
	assert.Equal(t, int64(1), count)
}

func TestSetRestorationStatus(t *testing.T) {
	h := newHarness(t)
	item := h.createItem(t, constants.ActionRestoreObject, constants.StageRequested, constants.StatusStarted)

	status := workitems.RestorationStatus{
		Stage:  constants.StageAvailableInS3,
		Status: constants.StatusSuccess,
		Note:   "Bag restored",
	}
	require.Nil(t, h.lifecycle.SetRestorationStatus(context.Background(), item, status))
	saved := h.reload(t, item)
	assert.Equal(t, constants.StageAvailableInS3, saved.Stage)
	assert.Equal(t, constants.StatusSuccess, saved.Status)
	assert.Equal(t, "Bag restored", saved.Note)
	assert.Equal(t, "worker-9", saved.Node)
	assert.Equal(t, 1234, saved.Pid)
	assert.False(t, saved.NeedsAdminReview)

	alerts := h.alerts.Messages(constants.AlertTopicDefault)
	require.Len(t, alerts, 1)
	assert.Contains(t, alerts[0], h.fixtures.InstOne.RestoreBucket)

	// A repeat success doesn't alert again.
	require.Nil(t, h.lifecycle.SetRestorationStatus(context.Background(), saved, status))
	assert.Len(t, h.alerts.Messages(constants.AlertTopicDefault), 1)
}

func TestSetRestorationStatusNode(t *testing.T) {
	h := newHarness(t)
	item := h.createItem(t, constants.ActionRestoreObject, constants.StageRequested, constants.StatusPending)

	// A report with no node leaves the worker's claim in place.
	status := workitems.RestorationStatus{Status: constants.StatusStarted}
	require.Nil(t, h.lifecycle.SetRestorationStatus(context.Background(), item, status))
	saved := h.reload(t, item)
	assert.Equal(t, constants.StageRequested, saved.Stage)
	assert.Equal(t, constants.StatusStarted, saved.Status)
	assert.Equal(t, "worker-9", saved.Node)
	assert.Equal(t, 1234, saved.Pid)

	status = workitems.RestorationStatus{Status: constants.StatusStarted, Node: "worker-2", Pid: 77}
	require.Nil(t, h.lifecycle.SetRestorationStatus(context.Background(), saved, status))
	saved = h.reload(t, item)
	assert.Equal(t, "worker-2", saved.Node)
	assert.Equal(t, 77, saved.Pid)

	// Pid without a node is ignored.
	status = workitems.RestorationStatus{Status: constants.StatusStarted, Pid: 5}
	require.Nil(t, h.lifecycle.SetRestorationStatus(context.Background(), saved, status))
	assert.Equal(t, 77, h.reload(t, item).Pid)
}

func TestSetRestorationStatusErrors(t *testing.T) {
	h := newHarness(t)
	restore := h.createItem(t, constants.ActionRestoreFile, constants.StageRequested, constants.StatusStarted)
	ingest := h.createItem(t, constants.ActionIngest, constants.StageStore, constants.StatusStarted)

	err := h.lifecycle.SetRestorationStatus(context.Background(), ingest,
		workitems.RestorationStatus{Status: constants.StatusSuccess})
	assert.ErrorIs(t, err, workitems.ErrNotRestoration)

	err = h.lifecycle.SetRestorationStatus(context.Background(), restore,
		workitems.RestorationStatus{Status: "Exploded"})
	assert.ErrorIs(t, err, workitems.ErrInvalidStatus)

	err = h.lifecycle.SetRestorationStatus(context.Background(), restore,
		workitems.RestorationStatus{Stage: "Nowhere", Status: constants.StatusFailed})
	assert.ErrorIs(t, err, workitems.ErrInvalidStage)

	saved := h.reload(t, restore)
	assert.Equal(t, constants.StatusStarted, saved.Status)
	assert.Equal(t, constants.StageRequested, saved.Stage)
	assert.Empty(t, h.alerts.Messages(constants.AlertTopicDefault))
}

func TestDeleteTestItems(t *testing.T) {
	h := newHarness(t)
	_, err := h.lifecycle.DeleteTestItems(context.Background(), testutil.InstTwoIdentifier)
	assert.NotNil(t, err)

	count, err := h.lifecycle.DeleteTestItems(context.Background(), constants.TestInstitutionIdentifier)
	require.Nil(t, err)
	assert.Equal(t, int64(3), count)

	var remaining int64
	require.Nil(t, h.db.Model(&registry.WorkItem{}).Count(&remaining).Error)
	assert.Equal(t, int64(3), remaining)
}

func TestHideReviewed(t *testing.T) {
	values := url.Values{}
	values.Set(constants.ParamStatus, constants.StatusFailed)

	hidden := workitems.HideReviewed(values, false)
	assert.Equal(t, "false", hidden.Get(constants.ParamReviewed))
	assert.Empty(t, values.Get(constants.ParamReviewed), "input is not modified")

	assert.Empty(t, workitems.HideReviewed(values, true).Get(constants.ParamReviewed))

	values.Set(constants.ParamReviewed, "true")
	assert.Equal(t, "true", workitems.HideReviewed(values, false).Get(constants.ParamReviewed))
}
