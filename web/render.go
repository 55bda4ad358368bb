package web

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/APTrust/pharos/filter"
	"github.com/APTrust/pharos/models/common"
	"github.com/APTrust/pharos/pagination"
	"github.com/APTrust/pharos/policy"
	"github.com/APTrust/pharos/workitems"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ListResponse is the envelope for every index route. The workers'
// registry client follows Next until it's null.
type ListResponse struct {
	Count    int64         `json:"count"`
	Next     *string       `json:"next"`
	Previous *string       `json:"previous"`
	Results  any           `json:"results"`
	Facets   filter.Facets `json:"facets,omitempty"`
}

func forbid(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You are not authorized to do that"})
}

func notFound(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "Not found"})
}

func badRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": message})
}

// renderError picks the status for err. Validation errors go back to
// the client as is. Infrastructure errors are logged in detail and
// the client sees a generic message.
func (s *Server) renderError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, workitems.ErrInvalidRequeueStage),
		errors.Is(err, workitems.ErrInvalidStatus),
		errors.Is(err, workitems.ErrInvalidStage),
		errors.Is(err, workitems.ErrNotRestoration):
		badRequest(c, err.Error())
		return
	case errors.Is(err, gorm.ErrRecordNotFound):
		notFound(c)
		return
	}
	status := common.StatusCode(err)
	var httpErr *common.HttpError
	if status != http.StatusInternalServerError && errors.As(err, &httpErr) {
		c.AbortWithStatusJSON(status, gin.H{"error": httpErr.Message})
		return
	}
	var detailed common.DetailedError
	if errors.As(err, &detailed) {
		s.Context.Logger.Errorf("%s %s: %s", c.Request.Method, c.Request.URL.Path, detailed.Detail())
	} else {
		s.Context.Logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
}

// paramID returns the named path parameter as a record ID.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	return id, err == nil && id > 0
}

// listRecords renders one page of the target's records that the
// current user can see, filtered and sorted by filterValues, with
// facets. Page links carry only what the client asked for.
func listRecords[T any](s *Server, c *gin.Context, target filter.Target, sample any, filterValues url.Values) {
	user := currentUser(c)
	if !s.Auth.Allows(user, target.Kind, sample, policy.ActionIndex) {
		forbid(c)
		return
	}
	pipeline := filter.NewPipeline(target, filter.ParseParams(filterValues))
	base := pipeline.Base(s.Auth.Scope(user, target.Kind, target.Model))
	config := s.Context.Config
	pager := pagination.NewWithLimits(c.Request.URL.Path, c.Request.URL.Query(), config.DefaultPerPage, config.MaxPerPage)

	records := make([]T, 0)
	page, err := pager.Paginate(pipeline.Sort(pipeline.Filter(base)), &records)
	if err != nil {
		s.renderError(c, common.NewError("Cannot list records", err, false))
		return
	}
	facets, err := pipeline.Facets(base)
	if err != nil {
		s.renderError(c, common.NewError("Cannot count facets", err, false))
		return
	}
	c.JSON(http.StatusOK, ListResponse{
		Count:    page.Count,
		Next:     page.Next,
		Previous: page.Previous,
		Results:  records,
		Facets:   facets,
	})
}

// loadRecord loads the record named by the :id path parameter and
// checks that the current user may perform action on it. It renders
// 404 or 403 and returns nil if not.
func loadRecord[T any](s *Server, c *gin.Context, kind policy.ResourceKind, action policy.Action) *T {
	id, ok := paramID(c, "id")
	if !ok {
		notFound(c)
		return nil
	}
	record := new(T)
	if err := s.Context.DB.First(record, id).Error; err != nil {
		s.renderError(c, err)
		return nil
	}
	if !s.Auth.Allows(currentUser(c), kind, record, action) {
		forbid(c)
		return nil
	}
	return record
}
