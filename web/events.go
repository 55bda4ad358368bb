package web

import (
	"net/http"

	"github.com/APTrust/pharos/filter"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/gin-gonic/gin"
)

// GET /events
func (s *Server) EventIndex(c *gin.Context) {
	listRecords[registry.PremisEvent](s, c, filter.PremisEvents, &registry.PremisEvent{}, c.Request.URL.Query())
}

// GET /events/:id
func (s *Server) EventShow(c *gin.Context) {
	event := loadRecord[registry.PremisEvent](s, c, policy.KindPremisEvent, policy.ActionShow)
	if event != nil {
		c.JSON(http.StatusOK, event)
	}
}

// POST /events
//
// The workers record events here. A failed fixity check alerts the
// institution's admins.
func (s *Server) EventCreate(c *gin.Context) {
	event := &registry.PremisEvent{}
	if err := c.ShouldBindJSON(event); err != nil {
		badRequest(c, "Invalid event JSON: "+err.Error())
		return
	}
	event.ID = 0
	if !s.Auth.Allows(currentUser(c), policy.KindPremisEvent, event, policy.ActionCreate) {
		forbid(c)
		return
	}
	if event.InstitutionID == 0 || event.EventType == "" {
		badRequest(c, "Event requires institution_id and event_type")
		return
	}
	event.EnsureIdentifier()
	if err := s.Context.DB.WithContext(c.Request.Context()).Create(event).Error; err != nil {
		s.renderError(c, err)
		return
	}
	if _, err := s.Notifier.FixityFailed(c.Request.Context(), event); err != nil {
		s.Context.Logger.Errorf("Fixity alert for event %d failed: %v", event.ID, err)
	}
	c.JSON(http.StatusCreated, event)
}
