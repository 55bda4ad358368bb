package web

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/models/common"
	"github.com/APTrust/pharos/session"
	"github.com/gin-gonic/gin"
)

// PushRequest asks the push provider to send a challenge to a user's
// device. The provider posts the user's answer to
// /2fa/callback/<ChallengeID>.
type PushRequest struct {
	ChallengeID    string `json:"challenge_id"`
	Email          string `json:"email"`
	TimeoutSeconds int    `json:"timeout_seconds"`
}

// POST /2fa/challenge
//
// Starts a push challenge for the current session. The challenge ID
// goes only to the push provider. The browser polls /2fa/status.
func (s *Server) TwoFactorChallenge(c *gin.Context) {
	sess, err := s.sessionFor(c)
	if err != nil {
		s.renderError(c, err)
		return
	}
	challengeID, err := s.Sessions.BeginChallenge(sess)
	if err != nil {
		s.renderError(c, err)
		return
	}
	push := PushRequest{
		ChallengeID:    challengeID,
		Email:          currentUser(c).Email,
		TimeoutSeconds: sess.TwoFactor.TimeoutSeconds,
	}
	if err = s.sendPush(push); err != nil {
		s.renderError(c, err)
		return
	}
	if err = s.Sessions.Save(sess); err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"status":          constants.TwoFactorPending,
		"timeout_seconds": sess.TwoFactor.TimeoutSeconds,
	})
}

func (s *Server) sendPush(push PushRequest) error {
	data, err := json.Marshal(push)
	if err != nil {
		return err
	}
	err = s.Context.AlertProducer.Publish(s.Context.Config.TwoFactorTopic, data)
	if err != nil {
		return common.NewError("Cannot send two-factor push", err, false)
	}
	return nil
}

// GET /2fa/status
//
// Browsers poll this while the user answers the push notification.
func (s *Server) TwoFactorStatus(c *gin.Context) {
	sess := currentSession(c)
	if sess == nil {
		c.JSON(http.StatusOK, gin.H{"status": constants.TwoFactorDenied})
		return
	}
	status, err := s.Sessions.ChallengeStatus(sess)
	if err == nil {
		err = s.Sessions.Save(sess)
	}
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": status})
}

type callbackRequest struct {
	Status string `json:"status"`
}

// POST /2fa/callback/:challenge_id
//
// Only the push provider calls this. It signs the raw body with the
// shared callback secret: hex HMAC-SHA256 in the X-Pharos-Signature
// header.
func (s *Server) TwoFactorCallback(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		badRequest(c, "Cannot read callback body")
		return
	}
	if !validSignature(s.Context.Config.TwoFactorSecret, body, c.GetHeader(constants.SignatureHeader)) {
		s.Context.Logger.Warningf("Rejected unsigned two-factor callback from %s", c.ClientIP())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid signature"})
		return
	}
	var req callbackRequest
	if err = json.Unmarshal(body, &req); err != nil {
		badRequest(c, "Invalid callback: "+err.Error())
		return
	}
	if req.Status != constants.TwoFactorApproved && req.Status != constants.TwoFactorDenied {
		badRequest(c, "Status must be approved or denied")
		return
	}
	err = s.Sessions.ResolveChallenge(c.Param("challenge_id"), req.Status == constants.TwoFactorApproved)
	if errors.Is(err, session.ErrUnknownChallenge) {
		notFound(c)
		return
	}
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": req.Status})
}

// validSignature is false when no secret is configured.
func validSignature(secret string, body []byte, signature string) bool {
	if secret == "" || signature == "" {
		return false
	}
	given, err := hex.DecodeString(signature)
	if err != nil {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hmac.Equal(given, mac.Sum(nil))
}
