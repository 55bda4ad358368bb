package registry

import (
	"time"
)

// BulkDeleteJob groups objects and files proposed for deletion in
// one batch. It needs sign-off from an institutional admin and from
// an APTrust admin before workers may act on it.
type BulkDeleteJob struct {
	ID                      int64                `json:"id" gorm:"primaryKey"`
	InstitutionID           int64                `json:"institution_id" gorm:"index;not null"`
	RequestedBy             string               `json:"requested_by"`
	InstitutionalApprover   string               `json:"institutional_approver"`
	InstitutionalApprovedAt *time.Time           `json:"institutional_approved_at"`
	APTrustApprover         string               `json:"aptrust_approver"`
	APTrustApprovedAt       *time.Time           `json:"aptrust_approved_at"`
	Note                    string               `json:"note"`
	IntellectualObjects     []IntellectualObject `json:"intellectual_objects,omitempty" gorm:"many2many:bulk_delete_jobs_intellectual_objects"`
	GenericFiles            []GenericFile        `json:"generic_files,omitempty" gorm:"many2many:bulk_delete_jobs_generic_files"`
	CreatedAt               time.Time            `json:"created_at"`
	UpdatedAt               time.Time            `json:"updated_at"`
}

func (BulkDeleteJob) TableName() string {
	return "bulk_delete_jobs"
}

// IsFullyApproved returns true once both sides have signed off.
func (job *BulkDeleteJob) IsFullyApproved() bool {
	return job.InstitutionalApprovedAt != nil && job.APTrustApprovedAt != nil
}
