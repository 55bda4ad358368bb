package registry

import (
	"time"

	"github.com/APTrust/pharos/constants"
)

// GenericFile is one file within an IntellectualObject. It has no
// access setting of its own. Its parent object's Access applies.
type GenericFile struct {
	ID                   int64               `json:"id" gorm:"primaryKey"`
	Identifier           string              `json:"identifier" gorm:"uniqueIndex;not null"`
	FileFormat           string              `json:"file_format" gorm:"index"`
	Size                 int64               `json:"size"`
	State                string              `json:"state" gorm:"default:A;index"`
	StorageOption        string              `json:"storage_option"`
	UUID                 string              `json:"uuid"`
	IntellectualObjectID int64               `json:"intellectual_object_id" gorm:"index;not null"`
	IntellectualObject   *IntellectualObject `json:"-"`
	InstitutionID        int64               `json:"institution_id" gorm:"index;not null"`
	LastFixityCheck      time.Time           `json:"last_fixity_check"`
	Checksums            []Checksum          `json:"checksums,omitempty" gorm:"foreignKey:GenericFileID"`
	StorageRecords       []StorageRecord     `json:"storage_records,omitempty" gorm:"foreignKey:GenericFileID"`
	CreatedAt            time.Time           `json:"created_at"`
	UpdatedAt            time.Time           `json:"updated_at"`
}

func (GenericFile) TableName() string {
	return "generic_files"
}

// IsActive returns true unless the file has been deleted.
func (gf *GenericFile) IsActive() bool {
	return gf.State != constants.StateDeleted
}

// LatestChecksum returns the most recent checksum with the specified
// algorithm, or nil. Checksums must be loaded.
func (gf *GenericFile) LatestChecksum(algorithm string) *Checksum {
	var latest *Checksum
	for i := range gf.Checksums {
		cs := &gf.Checksums[i]
		if cs.Algorithm == algorithm && (latest == nil || cs.DateTime.After(latest.DateTime)) {
			latest = cs
		}
	}
	return latest
}
