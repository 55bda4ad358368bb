// Package web is Pharos' HTTP surface. Every route but the metrics
// endpoint and the two-factor callback requires a current user, and
// every handler asks the policy engine before it reads or writes.
package web

import (
	"fmt"
	"net/http"

	"github.com/APTrust/pharos/models/common"
	"github.com/APTrust/pharos/notify"
	"github.com/APTrust/pharos/policy"
	"github.com/APTrust/pharos/session"
	"github.com/APTrust/pharos/workitems"
	"github.com/gin-gonic/gin"
)

type Server struct {
	Context   *common.Context
	Auth      *policy.Authorizer
	Sessions  *session.Store
	Lifecycle *workitems.Lifecycle
	Notifier  *notify.Notifier
	Metrics   *Metrics
	engine    *gin.Engine
}

// NewServer wires handlers to the services in context.
func NewServer(context *common.Context) *Server {
	config := context.Config
	notifier := notify.NewNotifier(
		context.DB,
		context.AlertProducer,
		context.Presigner,
		config.AlertTopic,
		context.Logger)
	server := &Server{
		Context:  context,
		Auth:     policy.NewAuthorizer(context.DB),
		Sessions: session.NewStore(context.RedisClient, config.SessionTTL, config.TwoFactorTimeout),
		Lifecycle: workitems.NewLifecycle(
			context.DB,
			context.RedisClient,
			context.NSQClient,
			notifier,
			context.Logger),
		Notifier: notifier,
		Metrics:  NewMetrics(),
	}
	server.engine = server.routes()
	return server
}

// Handler returns the gin engine, for http.Server or httptest.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Run serves on the configured port until the listener fails.
func (s *Server) Run() error {
	address := fmt.Sprintf(":%d", s.Context.Config.HTTPPort)
	s.Context.Logger.Infof("Pharos listening on %s", address)
	return s.engine.Run(address)
}

func (s *Server) routes() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery(), RequestLogger(s.Context.Logger), s.Metrics.Middleware())

	engine.GET("/metrics", s.Metrics.Handler())
	// The push provider calls back with the challenge ID, which is
	// unguessable and expires in minutes. It has no Pharos user.
	engine.POST("/2fa/callback/:challenge_id", s.TwoFactorCallback)

	api := engine.Group("/", s.Authenticate(), s.RequireTwoFactor())

	api.POST("/2fa/challenge", s.TwoFactorChallenge)
	api.GET("/2fa/status", s.TwoFactorStatus)

	api.GET("/institutions", s.InstitutionIndex)
	api.GET("/institutions/:id", s.InstitutionShow)
	api.DELETE("/institutions/:id", s.InstitutionDelete)

	api.GET("/users", s.UserIndex)
	api.GET("/users/:id", s.UserShow)
	api.DELETE("/users/:id", s.UserDelete)
	api.GET("/roles", s.RoleIndex)

	api.GET("/objects", s.ObjectIndex)
	api.GET("/objects/:id", s.ObjectShow)
	api.DELETE("/objects/:id", s.ObjectDelete)

	api.GET("/files", s.FileIndex)
	api.GET("/files/:id", s.FileShow)
	api.DELETE("/files/:id", s.FileDelete)

	api.GET("/events", s.EventIndex)
	api.GET("/events/:id", s.EventShow)
	api.POST("/events", s.EventCreate)

	api.GET("/items", s.WorkItemIndex)
	api.GET("/items/:id", s.WorkItemShow)
	api.PUT("/items/:id", s.WorkItemUpdate)
	api.GET("/items/:id/requeue", s.WorkItemRequeueStages)
	api.PUT("/items/:id/requeue", s.WorkItemRequeue)
	api.PUT("/items/:id/restoration_status", s.WorkItemRestorationStatus)
	api.POST("/items/review", s.WorkItemReview)
	api.POST("/items/review_all", s.WorkItemReviewAll)
	api.POST("/items/review_list/:id", s.ReviewListAdd)
	api.DELETE("/items/review_list/:id", s.ReviewListRemove)
	api.POST("/items/show_reviewed", s.ToggleShowReviewed)
	api.DELETE("/items/test_data", s.DeleteTestItems)

	api.GET("/bulk_delete_jobs/:id", s.BulkDeleteJobShow)
	api.PUT("/bulk_delete_jobs/:id/approve", s.BulkDeleteJobApprove)

	return engine
}
