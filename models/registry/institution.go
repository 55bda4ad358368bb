package registry

import (
	"fmt"
	"strings"
	"time"

	"github.com/APTrust/pharos/constants"
)

// Institution is a tenant. Member institutions pay for themselves.
// Subscription institutions are sponsored by a member institution.
type Institution struct {
	ID                  int64     `json:"id" gorm:"primaryKey"`
	Identifier          string    `json:"identifier" gorm:"uniqueIndex;not null"`
	Name                string    `json:"name" gorm:"not null"`
	Type                string    `json:"type" gorm:"not null"`
	MemberInstitutionID *int64    `json:"member_institution_id"`
	OTPEnabled          bool      `json:"otp_enabled"`
	State               string    `json:"state" gorm:"default:A"`
	ReceivingBucket     string    `json:"receiving_bucket"`
	RestoreBucket       string    `json:"restore_bucket"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (Institution) TableName() string {
	return "institutions"
}

// IsSubscriber returns true if this is a SubscriptionInstitution.
func (inst *Institution) IsSubscriber() bool {
	return inst.Type == constants.InstTypeSubscription
}

// Validate checks the fields that don't require a database lookup.
// The store separately verifies that a subscriber's parent exists
// and is a member institution.
func (inst *Institution) Validate() error {
	if strings.TrimSpace(inst.Identifier) == "" || !strings.Contains(inst.Identifier, ".") {
		return fmt.Errorf("Institution identifier '%s' must be a domain name", inst.Identifier)
	}
	if strings.TrimSpace(inst.Name) == "" {
		return fmt.Errorf("Institution name is required")
	}
	switch inst.Type {
	case constants.InstTypeMember:
		if inst.MemberInstitutionID != nil {
			return fmt.Errorf("Member institution %s cannot have a parent", inst.Identifier)
		}
	case constants.InstTypeSubscription:
		if inst.MemberInstitutionID == nil || *inst.MemberInstitutionID == 0 {
			return fmt.Errorf("Subscription institution %s requires a member institution", inst.Identifier)
		}
	default:
		return fmt.Errorf("Invalid institution type '%s'", inst.Type)
	}
	return nil
}
