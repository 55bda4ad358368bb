package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/filter"
	"github.com/APTrust/pharos/models/common"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errDeletionPending = errors.New("A deletion request for this item is already pending")

// GET /objects
func (s *Server) ObjectIndex(c *gin.Context) {
	listRecords[registry.IntellectualObject](s, c, filter.IntellectualObjects, &registry.IntellectualObject{}, c.Request.URL.Query())
}

// GET /objects/:id
func (s *Server) ObjectShow(c *gin.Context) {
	obj := loadRecord[registry.IntellectualObject](s, c, policy.KindIntellectualObject, policy.ActionShow)
	if obj != nil {
		c.JSON(http.StatusOK, obj)
	}
}

// DELETE /objects/:id
//
// Nothing is deleted here. This creates a Delete work item and queues
// it for the deletion workers.
func (s *Server) ObjectDelete(c *gin.Context) {
	obj := loadRecord[registry.IntellectualObject](s, c, policy.KindIntellectualObject, policy.ActionDestroy)
	if obj == nil {
		return
	}
	if !obj.IsActive() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "Object has already been deleted"})
		return
	}
	item := deletionItem(currentUser(c), obj, nil)
	s.requestDeletion(c, item)
}

// GET /files
func (s *Server) FileIndex(c *gin.Context) {
	listRecords[registry.GenericFile](s, c, filter.GenericFiles, &registry.GenericFile{}, c.Request.URL.Query())
}

// GET /files/:id
//
// The file comes with its checksums and storage records, which
// anyone who can see the file can see.
func (s *Server) FileShow(c *gin.Context) {
	gf := loadRecord[registry.GenericFile](s, c, policy.KindGenericFile, policy.ActionShow)
	if gf == nil {
		return
	}
	db := s.Context.DB
	if err := db.Where("generic_file_id = ?", gf.ID).Order("id").Find(&gf.Checksums).Error; err != nil {
		s.renderError(c, err)
		return
	}
	if err := db.Where("generic_file_id = ?", gf.ID).Order("id").Find(&gf.StorageRecords).Error; err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gf)
}

// DELETE /files/:id
func (s *Server) FileDelete(c *gin.Context) {
	gf := loadRecord[registry.GenericFile](s, c, policy.KindGenericFile, policy.ActionDestroy)
	if gf == nil {
		return
	}
	if !gf.IsActive() {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": "File has already been deleted"})
		return
	}
	var obj registry.IntellectualObject
	if err := s.Context.DB.First(&obj, gf.IntellectualObjectID).Error; err != nil {
		s.renderError(c, err)
		return
	}
	item := deletionItem(currentUser(c), &obj, gf)
	s.requestDeletion(c, item)
}

// deletionItem returns a new Delete work item for obj, or for gf if
// it's not nil.
func deletionItem(user *registry.User, obj *registry.IntellectualObject, gf *registry.GenericFile) *registry.WorkItem {
	now := time.Now().UTC()
	item := &registry.WorkItem{
		Action:               constants.ActionDelete,
		Stage:                constants.StageRequested,
		Status:               constants.StatusPending,
		Name:                 obj.BagName,
		Note:                 constants.ItemNoteDeleteRequest,
		User:                 user.Email,
		Retry:                true,
		DateProcessed:        now,
		QueuedAt:             &now,
		InstitutionID:        obj.InstitutionID,
		IntellectualObjectID: &obj.ID,
		ObjectIdentifier:     obj.Identifier,
	}
	if gf != nil {
		item.GenericFileID = &gf.ID
		item.GenericFileIdentifier = gf.Identifier
	}
	return item
}

// requestDeletion saves the Delete work item and a deletion request
// event together, queues the item, and tells the institution's
// admins. A failure to queue or alert is logged. The item is saved,
// so an admin can requeue it.
func (s *Server) requestDeletion(c *gin.Context, item *registry.WorkItem) {
	err := createDeletionRequest(c.Request.Context(), s.Context.DB, item)
	if errors.Is(err, errDeletionPending) {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		s.renderError(c, common.NewError("Cannot save deletion request", err, false))
		return
	}
	s.queueDeletion(c.Request.Context(), item)
	c.JSON(http.StatusAccepted, item)
}

func (s *Server) queueDeletion(ctx context.Context, item *registry.WorkItem) {
	log := s.Context.Logger
	if err := s.Context.NSQClient.Enqueue(constants.TopicDelete, item.ID); err != nil {
		log.Errorf("Deletion work item %d was saved but not queued: %v", item.ID, err)
	}
	if _, err := s.Notifier.DeletionRequested(ctx, item); err != nil {
		log.Errorf("Deletion alert for work item %d failed: %v", item.ID, err)
	}
	log.Infof("%s requested deletion of %s (work item %d)", item.User, item.Identifier(), item.ID)
}

func createDeletionRequest(ctx context.Context, db *gorm.DB, item *registry.WorkItem) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var pending int64
		query := tx.Model(&registry.WorkItem{}).
			Where("action = ? AND status IN ?", constants.ActionDelete,
				[]string{constants.StatusPending, constants.StatusStarted})
		if item.GenericFileID != nil {
			query = query.Where("generic_file_id = ?", *item.GenericFileID)
		} else {
			query = query.Where("intellectual_object_id = ? AND generic_file_id IS NULL", *item.IntellectualObjectID)
		}
		if err := query.Count(&pending).Error; err != nil {
			return err
		}
		if pending > 0 {
			return errDeletionPending
		}
		if err := tx.Create(item).Error; err != nil {
			return err
		}
		event := registry.NewDeletionRequestEvent(
			item.InstitutionID,
			item.IntellectualObjectID,
			item.GenericFileID,
			item.Identifier(),
			item.User)
		return tx.Create(event).Error
	})
}
