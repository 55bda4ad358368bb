package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/registry"
	"github.com/APTrust/pharos/session"
	"github.com/APTrust/pharos/store"
	"github.com/gin-gonic/gin"
	"github.com/op/go-logging"
)

// Keys for values the middleware puts into the gin context.
const (
	keyCurrentUser = "currentUser"
	keySession     = "session"
	keyAPIRequest  = "apiRequest"
)

// RequestLogger logs one line per request, after it completes.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Infof("%s %s %d %s",
			c.Request.Method,
			c.Request.URL.RequestURI(),
			c.Writer.Status(),
			time.Since(start))
	}
}

// Authenticate resolves the current user. API clients, including the
// preservation workers, send an email and API key in the request
// headers. Browsers send a session cookie. Requests with neither, or
// with a disabled user, get a 401.
func (s *Server) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, err := s.Sessions.Load(sessionID(c))
		if err != nil {
			s.renderError(c, err)
			c.Abort()
			return
		}
		var user *registry.User
		if email := c.GetHeader(constants.APIUserHeader); email != "" {
			user = s.apiUser(email, c.GetHeader(constants.APIKeyHeader))
			c.Set(keyAPIRequest, true)
		} else if sess != nil {
			user = s.sessionUser(sess)
		}
		if user == nil || !user.Enabled {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if sess != nil && sess.UserID == user.ID {
			c.Set(keySession, sess)
		}
		c.Set(keyCurrentUser, user)
		c.Next()
	}
}

func (s *Server) apiUser(email, apiKey string) *registry.User {
	user, err := store.UserByEmail(s.Context.DB, strings.TrimSpace(email))
	if err != nil || !user.APIKeyMatches(apiKey) {
		return nil
	}
	return user
}

func (s *Server) sessionUser(sess *session.Session) *registry.User {
	var user registry.User
	if err := s.Context.DB.First(&user, sess.UserID).Error; err != nil {
		return nil
	}
	return &user
}

// RequireTwoFactor keeps browser users of institutions that enforce
// two-factor auth out of everything but the two-factor routes until
// they've approved a challenge. API requests are exempt.
func (s *Server) RequireTwoFactor() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetBool(keyAPIRequest) || strings.HasPrefix(c.FullPath(), "/2fa/") {
			c.Next()
			return
		}
		sess := currentSession(c)
		if sess != nil && sess.TwoFactor.Verified {
			c.Next()
			return
		}
		var inst registry.Institution
		err := s.Context.DB.Select("id", "otp_enabled").First(&inst, currentUser(c).InstitutionID).Error
		if err == nil && inst.OTPEnabled {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Two-factor verification required"})
			return
		}
		c.Next()
	}
}

func sessionID(c *gin.Context) string {
	id, err := c.Cookie(constants.SessionCookieName)
	if err != nil {
		return ""
	}
	return id
}

func currentUser(c *gin.Context) *registry.User {
	if value, ok := c.Get(keyCurrentUser); ok {
		if user, ok := value.(*registry.User); ok {
			return user
		}
	}
	return nil
}

func currentSession(c *gin.Context) *session.Session {
	if value, ok := c.Get(keySession); ok {
		if sess, ok := value.(*session.Session); ok {
			return sess
		}
	}
	return nil
}

// sessionFor returns the current session, starting a new one and
// setting its cookie if there isn't one.
func (s *Server) sessionFor(c *gin.Context) (*session.Session, error) {
	if sess := currentSession(c); sess != nil {
		return sess, nil
	}
	sess, err := s.Sessions.New(currentUser(c).ID)
	if err != nil {
		return nil, err
	}
	maxAge := int(s.Context.Config.SessionTTL.Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(constants.SessionCookieName, sess.ID, maxAge, "/", "", false, true)
	c.Set(keySession, sess)
	return sess, nil
}
