package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/APTrust/pharos/constants"
)

// IntellectualObject is a logical bag belonging to one institution.
// Its Access setting governs who outside the owning institution can
// see it and its files.
type IntellectualObject struct {
	ID                 int64     `json:"id" gorm:"primaryKey"`
	Identifier         string    `json:"identifier" gorm:"uniqueIndex;not null"`
	Title              string    `json:"title"`
	Description        string    `json:"description"`
	AltIdentifier      string    `json:"alt_identifier"`
	BagName            string    `json:"bag_name"`
	BagGroupIdentifier string    `json:"bag_group_identifier"`
	Access             string    `json:"access" gorm:"not null;index"`
	State              string    `json:"state" gorm:"default:A;index"`
	StorageOption      string    `json:"storage_option"`
	ETag               string    `json:"etag"`
	InstitutionID      int64     `json:"institution_id" gorm:"index;not null"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (IntellectualObject) TableName() string {
	return "intellectual_objects"
}

// IdentifierMinusInstitution returns the identifier without the
// leading institution prefix. For "test.edu/bag", that's "bag".
func (obj *IntellectualObject) IdentifierMinusInstitution() (string, error) {
	parts := strings.SplitN(obj.Identifier, "/", 2)
	if len(parts) < 2 {
		return "", fmt.Errorf("Invalid identifier '%s': missing institution prefix", obj.Identifier)
	}
	return parts[1], nil
}

// IsActive returns true unless the object has been deleted.
func (obj *IntellectualObject) IsActive() bool {
	return obj.State != constants.StateDeleted
}
