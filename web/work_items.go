package web

import (
	"net/http"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/filter"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/policy"
	"github.com/APTrust/pharos/session"
	"github.com/APTrust/pharos/workitems"
	"github.com/gin-gonic/gin"
)

// GET /items
//
// Reviewed items are hidden unless the session says to show them or
// the query asks about reviewed status.
func (s *Server) WorkItemIndex(c *gin.Context) {
	sess := currentSession(c)
	values := workitems.HideReviewed(c.Request.URL.Query(), sess != nil && sess.ShowReviewed)
	listRecords[registry.WorkItem](s, c, filter.WorkItems, &registry.WorkItem{}, values)
}

// GET /items/:id
func (s *Server) WorkItemShow(c *gin.Context) {
	item := loadRecord[registry.WorkItem](s, c, policy.KindWorkItem, policy.ActionShow)
	if item != nil {
		c.JSON(http.StatusOK, item)
	}
}

// PUT /items/:id
//
// Workers report progress here.
func (s *Server) WorkItemUpdate(c *gin.Context) {
	item := loadRecord[registry.WorkItem](s, c, policy.KindWorkItem, policy.ActionUpdate)
	if item == nil {
		return
	}
	id := item.ID
	if err := c.ShouldBindJSON(item); err != nil {
		badRequest(c, "Invalid work item JSON: "+err.Error())
		return
	}
	item.ID = id
	if err := s.Context.DB.WithContext(c.Request.Context()).Save(item).Error; err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// GET /items/:id/requeue
//
// Lists the stages the item may be requeued to, so clients can offer
// only those.
func (s *Server) WorkItemRequeueStages(c *gin.Context) {
	item := loadRecord[registry.WorkItem](s, c, policy.KindWorkItem, policy.ActionRequeue)
	if item != nil {
		c.JSON(http.StatusOK, gin.H{"stages": workitems.ValidRequeueStages(item.Action)})
	}
}

// PUT /items/:id/requeue
func (s *Server) WorkItemRequeue(c *gin.Context) {
	item := loadRecord[registry.WorkItem](s, c, policy.KindWorkItem, policy.ActionRequeue)
	if item == nil {
		return
	}
	var req workitems.RequeueRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&req); err != nil {
			badRequest(c, "Invalid requeue request: "+err.Error())
			return
		}
	}
	if req.Stage == "" {
		req.Stage = c.Query("stage")
	}
	if err := s.Lifecycle.Requeue(c.Request.Context(), item, req); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

// PUT /items/:id/restoration_status
func (s *Server) WorkItemRestorationStatus(c *gin.Context) {
	item := loadRecord[registry.WorkItem](s, c, policy.KindWorkItem, policy.ActionSetRestorationStatus)
	if item == nil {
		return
	}
	var status workitems.RestorationStatus
	if err := c.ShouldBindJSON(&status); err != nil {
		badRequest(c, "Invalid restoration status: "+err.Error())
		return
	}
	if err := s.Lifecycle.SetRestorationStatus(c.Request.Context(), item, status); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

type reviewRequest struct {
	IDs []int64 `json:"ids"`
}

// POST /items/review
//
// Marks the IDs in the request body reviewed or, with no body, the
// IDs on the session's review list. With purge=true, the review list
// is emptied afterward.
func (s *Server) WorkItemReview(c *gin.Context) {
	var req reviewRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			badRequest(c, "Invalid review request: "+err.Error())
			return
		}
	}
	sess, err := s.sessionFor(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	ids := req.IDs
	if len(ids) == 0 {
		ids = sess.ReviewList
	}
	reviewed, err := s.Lifecycle.MarkReviewed(c.Request.Context(), currentUser(c), ids)
	if err != nil {
		s.renderError(c, err)
		return
	}
	if c.Query("purge") == "true" {
		sess.PurgeReviewList()
		if err = s.Sessions.Save(sess); err != nil {
			s.renderError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"reviewed": reviewed, "review_list": sess.ReviewList})
}

// POST /items/review_all
func (s *Server) WorkItemReviewAll(c *gin.Context) {
	user := currentUser(c)
	sample := &registry.WorkItem{InstitutionID: user.InstitutionID}
	if !s.Auth.Allows(user, policy.KindWorkItem, sample, policy.ActionMarkReviewed) {
		forbid(c)
		return
	}
	count, err := s.Lifecycle.ReviewAll(c.Request.Context(), user)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviewed": count})
}

// POST /items/review_list/:id
func (s *Server) ReviewListAdd(c *gin.Context) {
	s.changeReviewList(c, (*session.Session).AddToReviewList)
}

// DELETE /items/review_list/:id
func (s *Server) ReviewListRemove(c *gin.Context) {
	s.changeReviewList(c, (*session.Session).RemoveFromReviewList)
}

// changeReviewList applies change to the session's review list. Only
// users who may review an item can put it on the list.
func (s *Server) changeReviewList(c *gin.Context, change func(*session.Session, int64)) {
	item := loadRecord[registry.WorkItem](s, c, policy.KindWorkItem, policy.ActionMarkReviewed)
	if item == nil {
		return
	}
	sess, err := s.sessionFor(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	change(sess, item.ID)
	if err = s.Sessions.Save(sess); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"review_list": sess.ReviewList})
}

// POST /items/show_reviewed
func (s *Server) ToggleShowReviewed(c *gin.Context) {
	sess, err := s.sessionFor(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	show := sess.ToggleShowReviewed()
	if err = s.Sessions.Save(sess); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"show_reviewed": show})
}

// DELETE /items/test_data
//
// Clears the test institution's work items between integration test
// runs. Never allowed in production.
func (s *Server) DeleteTestItems(c *gin.Context) {
	allowed := s.Auth.Allows(currentUser(c), policy.KindWorkItem, &registry.WorkItem{}, policy.ActionDeleteTestItems)
	if !allowed || s.Context.Config.ConfigName == constants.EnvProduction {
		forbid(c)
		return
	}
	count, err := s.Lifecycle.DeleteTestItems(c.Request.Context(), constants.TestInstitutionIdentifier)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": count})
}
