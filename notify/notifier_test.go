package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/network"
	"github.com/APTrust/pharos/notify"
	"github.com/APTrust/pharos/util/logger"
	"github.com/APTrust/pharos/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *testutil.Fixtures, *testutil.NSQRecorder, *notify.Notifier) {
	db := testutil.NewTestDB(t)
	f := testutil.LoadFixtures(t, db)
	client, err := network.NewS3Client("localhost:9899", "key", "secret", false)
	require.Nil(t, err)
	recorder := testutil.NewNSQRecorder()
	notifier := notify.NewNotifier(db, recorder, network.NewPresigner(client, time.Hour), "", logger.DiscardLogger("notify_test"))
	return db, f, recorder, notifier
}

func published(t *testing.T, recorder *testutil.NSQRecorder) []notify.Alert {
	var alerts []notify.Alert
	for _, message := range recorder.Messages(constants.AlertTopicDefault) {
		var alert notify.Alert
		require.Nil(t, json.Unmarshal([]byte(message), &alert))
		alerts = append(alerts, alert)
	}
	return alerts
}

func TestRecipients(t *testing.T) {
	db, f, _, notifier := setup(t)

	recipients, err := notifier.Recipients(f.InstOne.ID)
	require.Nil(t, err)
	assert.Equal(t, []string{f.InstAdmin.Email}, recipients)

	// Disabled admins and plain users don't get alerts.
	second := testutil.GetUser("admin2@test.edu", f.InstOne.ID, constants.RoleInstAdmin)
	require.Nil(t, db.Create(second).Error)
	require.Nil(t, db.Model(f.InstAdmin).Update("enabled", false).Error)
	recipients, err = notifier.Recipients(f.InstOne.ID)
	require.Nil(t, err)
	assert.Equal(t, []string{"admin2@test.edu"}, recipients)

	recipients, err = notifier.Recipients(f.APTrust.ID)
	require.Nil(t, err)
	assert.Empty(t, recipients)
}

func TestRestorationCompleted(t *testing.T) {
	db, f, recorder, notifier := setup(t)
	obj := f.Object(f.InstOne, constants.AccessInstitution)
	item := testutil.GetWorkItem(obj, constants.ActionRestoreObject, constants.StageAvailableInS3, constants.StatusSuccess)
	require.Nil(t, db.Create(item).Error)

	alert, err := notifier.RestorationCompleted(context.Background(), item)
	require.Nil(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, notify.KindRestoration, alert.Kind)
	assert.Equal(t, []string{f.InstAdmin.Email}, alert.Recipients)

	u, err := url.Parse(alert.DownloadURL)
	require.Nil(t, err)
	assert.Equal(t, "/"+f.InstOne.RestoreBucket+"/bag-institution.tar", u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))

	alerts := published(t, recorder)
	require.Len(t, alerts, 1)
	assert.Equal(t, item.ID, alerts[0].RecordID)
	assert.Equal(t, alert.DownloadURL, alerts[0].DownloadURL)
}

func TestFixityFailed(t *testing.T) {
	_, f, recorder, notifier := setup(t)
	gf := f.FileOf(f.Object(f.InstTwo, constants.AccessConsortia))

	success := testutil.GetFileEvent(gf, constants.EventFixityCheck)
	alert, err := notifier.FixityFailed(context.Background(), success)
	require.Nil(t, err)
	assert.Nil(t, alert)
	assert.Empty(t, published(t, recorder))

	failure := testutil.GetFileEvent(gf, constants.EventFixityCheck)
	failure.Outcome = constants.OutcomeFailure
	alert, err = notifier.FixityFailed(context.Background(), failure)
	require.Nil(t, err)
	require.NotNil(t, alert)
	assert.Equal(t, []string{f.OtherInstAdmin.Email}, alert.Recipients)
	assert.Contains(t, alert.Body, constants.LabelGenericFile)
	assert.Len(t, published(t, recorder), 1)
}

func TestNoRecipientsNoAlert(t *testing.T) {
	db, f, recorder, notifier := setup(t)
	require.Nil(t, db.Model(&registry.User{}).
		Where("institution_id = ?", f.InstOne.ID).
		Update("enabled", false).Error)

	obj := f.Object(f.InstOne, constants.AccessConsortia)
	item := testutil.GetWorkItem(obj, constants.ActionDelete, constants.StageRequested, constants.StatusPending)
	alert, err := notifier.DeletionRequested(context.Background(), item)
	require.Nil(t, err)
	assert.Empty(t, alert.Recipients)
	assert.Empty(t, published(t, recorder))
}

func TestPublishError(t *testing.T) {
	_, f, recorder, notifier := setup(t)
	recorder.PublishError = errors.New("nsqd is down")
	item := testutil.GetWorkItem(f.Objects[0], constants.ActionDelete, constants.StageRequested, constants.StatusPending)
	_, err := notifier.DeletionRequested(context.Background(), item)
	assert.NotNil(t, err)
}

func TestRestoredKey(t *testing.T) {
	item := &registry.WorkItem{
		Action:           constants.ActionRestoreObject,
		ObjectIdentifier: "test.edu/photos",
	}
	assert.Equal(t, "photos.tar", notify.RestoredKey(item))

	item.Action = constants.ActionRestoreFile
	item.GenericFileIdentifier = "test.edu/photos/data/img.jpg"
	assert.Equal(t, "photos/data/img.jpg", notify.RestoredKey(item))
}
