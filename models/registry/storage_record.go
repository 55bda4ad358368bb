package registry

import (
	"strings"
)

// StorageRecord describes where a GenericFile is stored in
// preservation. Each GenericFile can have multiple StorageRecords,
// one per replicated copy.
type StorageRecord struct {
	ID            int64        `json:"id" gorm:"primaryKey"`
	GenericFileID int64        `json:"generic_file_id" gorm:"index;not null"`
	GenericFile   *GenericFile `json:"-"`
	URL           string       `json:"url" gorm:"not null"`
}

func (StorageRecord) TableName() string {
	return "storage_records"
}

// UUID returns the last component of the URL, which should
// always be a UUID. The caller should verify that it is in
// fact a UUID, if the caller is concerned about this.
func (r *StorageRecord) UUID() string {
	parts := strings.Split(r.URL, "/")
	return parts[len(parts)-1]
}
