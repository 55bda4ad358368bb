package registry

import (
	"time"
)

type Checksum struct {
	ID            int64        `json:"id" gorm:"primaryKey"`
	GenericFileID int64        `json:"generic_file_id" gorm:"index;not null"`
	GenericFile   *GenericFile `json:"-"`
	Algorithm     string       `json:"algorithm" gorm:"not null"`
	DateTime      time.Time    `json:"datetime"`
	Digest        string       `json:"digest" gorm:"not null"`
	CreatedAt     time.Time    `json:"created_at"`
	UpdatedAt     time.Time    `json:"updated_at"`
}

func (Checksum) TableName() string {
	return "checksums"
}
