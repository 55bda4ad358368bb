package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/gin-gonic/gin"
)

// GET /bulk_delete_jobs/:id
func (s *Server) BulkDeleteJobShow(c *gin.Context) {
	job := loadRecord[registry.BulkDeleteJob](s, c, policy.KindBulkDeleteJob, policy.ActionShow)
	if job == nil {
		return
	}
	err := s.Context.DB.Model(job).Association("IntellectualObjects").Find(&job.IntellectualObjects)
	if err == nil {
		err = s.Context.DB.Model(job).Association("GenericFiles").Find(&job.GenericFiles)
	}
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

// PUT /bulk_delete_jobs/:id/approve
//
// An institutional admin approves first, then an APTrust admin. The
// second approval queues a Delete work item for every object and
// file in the job.
func (s *Server) BulkDeleteJobApprove(c *gin.Context) {
	user := currentUser(c)
	job := loadRecord[registry.BulkDeleteJob](s, c, policy.KindBulkDeleteJob, policy.ActionShow)
	if job == nil {
		return
	}
	now := time.Now().UTC()
	if user.IsAdmin() {
		if job.InstitutionalApprovedAt == nil {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "This job needs institutional approval first"})
			return
		}
		if !s.Auth.Allows(user, policy.KindBulkDeleteJob, job, policy.ActionAPTrustApprove) {
			forbid(c)
			return
		}
		if job.APTrustApprovedAt != nil {
			alreadyApproved(c)
			return
		}
		job.APTrustApprover = user.Email
		job.APTrustApprovedAt = &now
	} else {
		if !s.Auth.Allows(user, policy.KindBulkDeleteJob, job, policy.ActionInstitutionalApprove) {
			forbid(c)
			return
		}
		if job.InstitutionalApprovedAt != nil {
			alreadyApproved(c)
			return
		}
		job.InstitutionalApprover = user.Email
		job.InstitutionalApprovedAt = &now
	}
	if err := s.Context.DB.Save(job).Error; err != nil {
		s.renderError(c, err)
		return
	}
	if job.IsFullyApproved() {
		if err := s.queueBulkDeletion(c, job); err != nil {
			s.renderError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, job)
}

func alreadyApproved(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "This job already has that approval"})
}

func (s *Server) queueBulkDeletion(c *gin.Context, job *registry.BulkDeleteJob) error {
	db := s.Context.DB
	if err := db.Model(job).Association("IntellectualObjects").Find(&job.IntellectualObjects); err != nil {
		return err
	}
	if err := db.Model(job).Association("GenericFiles").Find(&job.GenericFiles); err != nil {
		return err
	}
	requester := &registry.User{Email: job.RequestedBy}
	ctx := c.Request.Context()
	for i := range job.IntellectualObjects {
		obj := &job.IntellectualObjects[i]
		item := deletionItem(requester, obj, nil)
		if err := createDeletionRequest(ctx, db, item); err != nil {
			if errors.Is(err, errDeletionPending) {
				continue
			}
			return err
		}
		s.queueDeletion(ctx, item)
	}
	for i := range job.GenericFiles {
		gf := &job.GenericFiles[i]
		var obj registry.IntellectualObject
		if err := db.First(&obj, gf.IntellectualObjectID).Error; err != nil {
			return err
		}
		item := deletionItem(requester, &obj, gf)
		if err := createDeletionRequest(ctx, db, item); err != nil {
			if errors.Is(err, errDeletionPending) {
				continue
			}
			return err
		}
		s.queueDeletion(ctx, item)
	}
	return nil
}
