package registry

import (
	"fmt"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/google/uuid"
)

// PremisEvent records a preservation action taken on an object or
// a file. Events with neither parent are orphans.
type PremisEvent struct {
	ID                   int64     `json:"id" gorm:"primaryKey"`
	Identifier           string    `json:"identifier" gorm:"uniqueIndex;not null"`
	EventType            string    `json:"event_type" gorm:"index;not null"`
	DateTime             time.Time `json:"date_time"`
	Detail               string    `json:"detail"`
	Outcome              string    `json:"outcome" gorm:"index"`
	OutcomeDetail        string    `json:"outcome_detail"`
	OutcomeInformation   string    `json:"outcome_information"`
	Object               string    `json:"object"`
	Agent                string    `json:"agent"`
	InstitutionID        int64     `json:"institution_id" gorm:"index;not null"`
	IntellectualObjectID *int64    `json:"intellectual_object_id" gorm:"index"`
	GenericFileID        *int64    `json:"generic_file_id" gorm:"index"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

func (PremisEvent) TableName() string {
	return "premis_events"
}

// Label describes what the event is about. A file event is a file
// event even if it also names the file's object.
func (event *PremisEvent) Label() string {
	if event.GenericFileID != nil && *event.GenericFileID != 0 {
		return constants.LabelGenericFile
	}
	if event.IntellectualObjectID != nil && *event.IntellectualObjectID != 0 {
		return constants.LabelIntellectualObject
	}
	return constants.LabelEvent
}

// IsFixityFailure returns true for failed fixity checks, which
// institutional admins must hear about.
func (event *PremisEvent) IsFixityFailure() bool {
	return event.EventType == constants.EventFixityCheck && event.Outcome == constants.OutcomeFailure
}

// EnsureIdentifier assigns a UUID identifier if the event has none.
func (event *PremisEvent) EnsureIdentifier() {
	if event.Identifier == "" {
		event.Identifier = uuid.New().String()
	}
}

// NewDeletionRequestEvent records that someone asked to delete an
// object or file. The deletion itself happens later, in a worker.
func NewDeletionRequestEvent(institutionID int64, objID, fileID *int64, identifier, requestedBy string) *PremisEvent {
	return &PremisEvent{
		Identifier:           uuid.New().String(),
		EventType:            constants.EventDeletion,
		DateTime:             time.Now().UTC(),
		Detail:               fmt.Sprintf("Deletion of %s requested", identifier),
		Outcome:              constants.StatusPending,
		OutcomeDetail:        requestedBy,
		Object:               "APTrust Pharos",
		Agent:                "https://github.com/APTrust/pharos",
		OutcomeInformation:   "Deletion request queued for processing",
		InstitutionID:        institutionID,
		IntellectualObjectID: objID,
		GenericFileID:        fileID,
	}
}
