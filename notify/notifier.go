// Package notify tells institutional admins about things that need
// their attention. Pharos doesn't send email itself. It publishes
// alerts to NSQ, and the mailer delivers them.
package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/store"
	"github.com/APTrust/pharos/util"
	"github.com/op/go-logging"
	"gorm.io/gorm"
)

// Kinds of alert.
const (
	KindRestoration    = "restoration"
	KindFixityFailure  = "fixity_failure"
	KindDeletionQueued = "deletion_requested"
)

// Publisher puts a message on an NSQ topic. network.AlertProducer
// is the production implementation.
type Publisher interface {
	Publish(topic string, body []byte) error
}

// URLPresigner creates download links. network.Presigner is the
// production implementation.
type URLPresigner interface {
	PresignedGetURL(ctx context.Context, bucket, key string) (string, error)
}

// Alert is the message the mailer consumes.
type Alert struct {
	Kind        string    `json:"kind"`
	Subject     string    `json:"subject"`
	Body        string    `json:"body"`
	RecordKind  string    `json:"record_kind"`
	RecordID    int64     `json:"record_id"`
	Recipients  []string  `json:"recipients"`
	DownloadURL string    `json:"download_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func (alert *Alert) ToJSON() ([]byte, error) {
	return json.Marshal(alert)
}

type Notifier struct {
	db        *gorm.DB
	publisher Publisher
	presigner URLPresigner
	topic     string
	logger    *logging.Logger
}

func NewNotifier(db *gorm.DB, publisher Publisher, presigner URLPresigner, topic string, logger *logging.Logger) *Notifier {
	if topic == "" {
		topic = constants.AlertTopicDefault
	}
	return &Notifier{
		db:        db,
		publisher: publisher,
		presigner: presigner,
		topic:     topic,
		logger:    logger,
	}
}

// Recipients returns the email addresses of the enabled institutional
// admins of the specified institution.
func (n *Notifier) Recipients(institutionID int64) ([]string, error) {
	admins, err := store.InstitutionAdmins(n.db, institutionID)
	if err != nil {
		return nil, err
	}
	emails := make([]string, len(admins))
	for i, admin := range admins {
		emails[i] = admin.Email
	}
	return emails, nil
}

// RestorationCompleted tells the institution's admins that a restored
// bag or file is ready, with a presigned link to download it from the
// institution's restore bucket.
func (n *Notifier) RestorationCompleted(ctx context.Context, item *registry.WorkItem) (*Alert, error) {
	var inst registry.Institution
	if err := n.db.WithContext(ctx).First(&inst, item.InstitutionID).Error; err != nil {
		return nil, fmt.Errorf("Cannot load institution %d for work item %d: %w", item.InstitutionID, item.ID, err)
	}
	key := RestoredKey(item)
	downloadURL, err := n.presigner.PresignedGetURL(ctx, inst.RestoreBucket, key)
	if err != nil {
		return nil, err
	}
	alert := &Alert{
		Kind:        KindRestoration,
		Subject:     fmt.Sprintf("Restoration complete: %s", item.Identifier()),
		Body:        fmt.Sprintf("%s has been restored to %s/%s.", item.Identifier(), inst.RestoreBucket, key),
		RecordKind:  "WorkItem",
		RecordID:    item.ID,
		DownloadURL: downloadURL,
	}
	return alert, n.send(ctx, item.InstitutionID, alert)
}

// FixityFailed tells the institution's admins that a file failed a
// fixity check. Other events are ignored, and return a nil alert.
func (n *Notifier) FixityFailed(ctx context.Context, event *registry.PremisEvent) (*Alert, error) {
	if !event.IsFixityFailure() {
		return nil, nil
	}
	alert := &Alert{
		Kind:       KindFixityFailure,
		Subject:    fmt.Sprintf("Fixity check failed: %s", event.Object),
		Body:       fmt.Sprintf("%s: %s %s", event.Label(), event.OutcomeDetail, event.OutcomeInformation),
		RecordKind: "PremisEvent",
		RecordID:   event.ID,
	}
	return alert, n.send(ctx, event.InstitutionID, alert)
}

// DeletionRequested tells the institution's admins that someone asked
// to delete an object or file, so that an admin can object in time.
func (n *Notifier) DeletionRequested(ctx context.Context, item *registry.WorkItem) (*Alert, error) {
	alert := &Alert{
		Kind:       KindDeletionQueued,
		Subject:    fmt.Sprintf("Deletion requested: %s", item.Identifier()),
		Body:       fmt.Sprintf("%s requested deletion of %s.", item.User, item.Identifier()),
		RecordKind: "WorkItem",
		RecordID:   item.ID,
	}
	return alert, n.send(ctx, item.InstitutionID, alert)
}

// send fills in recipients and publishes the alert. An institution
// with no admins gets no alert. That's logged, not an error.
func (n *Notifier) send(ctx context.Context, institutionID int64, alert *Alert) error {
	recipients, err := n.Recipients(institutionID)
	if err != nil {
		return err
	}
	alert.Recipients = recipients
	alert.CreatedAt = time.Now().UTC()
	if len(recipients) == 0 {
		n.logger.Warningf("No admins at institution %d to receive alert '%s'", institutionID, alert.Subject)
		return nil
	}
	body, err := alert.ToJSON()
	if err != nil {
		return err
	}
	if err = n.publisher.Publish(n.topic, body); err != nil {
		return err
	}
	n.logger.Infof("Sent %s alert for %s %d to %s", alert.Kind, alert.RecordKind, alert.RecordID, strings.Join(recipients, ", "))
	return nil
}

// RestoredKey returns the key of a restored item in the restore
// bucket. Restored objects are tarred bags named for the object
// identifier, minus the institution prefix. Restored files keep
// their path inside the bag.
func RestoredKey(item *registry.WorkItem) string {
	identifier := item.Identifier()
	identifier = strings.TrimPrefix(identifier, util.IdentifierPrefix(identifier)+"/")
	if item.Action == constants.ActionRestoreFile || item.GenericFileIdentifier != "" {
		return identifier
	}
	return identifier + ".tar"
}
