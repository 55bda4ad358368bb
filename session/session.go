// Package session keeps per-login state in Redis: two-factor status,
// the work item review list, and display preferences. Handlers get
// the session from the request context and pass it explicitly.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/util"
	"github.com/google/uuid"
)

var ErrUnknownChallenge = errors.New("Two-factor challenge does not exist or has expired")

// Backend is where sessions and challenges live.
// network.RedisClient implements it.
type Backend interface {
	SessionGet(sessionID string) (string, error)
	SessionSave(sessionID, data string, ttl time.Duration) error
	SessionDelete(sessionID string) error
	ChallengeSet(challengeID, status string, ttl time.Duration) error
	ChallengeUpdate(challengeID, status string) (bool, error)
	ChallengeGet(challengeID string) (string, error)
}

type TwoFactor struct {
	Verified           bool    `json:"verified"`
	PendingChallengeID *string `json:"pending_challenge_id"`
	TimeoutSeconds     int     `json:"timeout_seconds"`
}

type Session struct {
	ID           string    `json:"id"`
	UserID       int64     `json:"user_id"`
	TwoFactor    TwoFactor `json:"two_factor"`
	ShowReviewed bool      `json:"show_reviewed"`
	ReviewList   []int64   `json:"review_list"`
}

// AddToReviewList adds a work item ID, once.
func (s *Session) AddToReviewList(workItemID int64) {
	if !util.Int64ListContains(s.ReviewList, workItemID) {
		s.ReviewList = append(s.ReviewList, workItemID)
	}
}

func (s *Session) RemoveFromReviewList(workItemID int64) {
	s.ReviewList = util.RemoveInt64(s.ReviewList, workItemID)
}

// PurgeReviewList empties the review list and returns what was in it.
func (s *Session) PurgeReviewList() []int64 {
	ids := s.ReviewList
	s.ReviewList = nil
	return ids
}

// ToggleShowReviewed flips the show-reviewed preference and returns
// the new value.
func (s *Session) ToggleShowReviewed() bool {
	s.ShowReviewed = !s.ShowReviewed
	return s.ShowReviewed
}

// Store loads and saves sessions. Saving resets the session's TTL.
type Store struct {
	backend          Backend
	ttl              time.Duration
	twoFactorTimeout int
}

func NewStore(backend Backend, ttl time.Duration, twoFactorTimeoutSeconds int) *Store {
	if twoFactorTimeoutSeconds <= 0 {
		twoFactorTimeoutSeconds = constants.DefaultTwoFactorTTL
	}
	return &Store{
		backend:          backend,
		ttl:              ttl,
		twoFactorTimeout: twoFactorTimeoutSeconds,
	}
}

// New creates and saves a session for the specified user.
func (store *Store) New(userID int64) (*Session, error) {
	s := &Session{
		ID:     uuid.New().String(),
		UserID: userID,
		TwoFactor: TwoFactor{
			TimeoutSeconds: store.twoFactorTimeout,
		},
	}
	return s, store.Save(s)
}

// Load returns the specified session, or nil if it doesn't exist or
// has expired.
func (store *Store) Load(sessionID string) (*Session, error) {
	if sessionID == "" {
		return nil, nil
	}
	data, err := store.backend.SessionGet(sessionID)
	if err != nil || data == "" {
		return nil, err
	}
	s := &Session{}
	if err = json.Unmarshal([]byte(data), s); err != nil {
		return nil, fmt.Errorf("Session %s is corrupt: %w", sessionID, err)
	}
	return s, nil
}

func (store *Store) Save(s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return store.backend.SessionSave(s.ID, string(data), store.ttl)
}

func (store *Store) Delete(s *Session) error {
	return store.backend.SessionDelete(s.ID)
}

// BeginChallenge starts a push two-factor challenge for the session.
// The challenge stays pending until the push provider resolves it or
// the session's timeout passes. The caller saves the session.
func (store *Store) BeginChallenge(s *Session) (string, error) {
	challengeID := uuid.New().String()
	timeout := time.Duration(s.TwoFactor.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Duration(store.twoFactorTimeout) * time.Second
	}
	err := store.backend.ChallengeSet(challengeID, constants.TwoFactorPending, timeout)
	if err != nil {
		return "", err
	}
	s.TwoFactor.Verified = false
	s.TwoFactor.PendingChallengeID = &challengeID
	return challengeID, nil
}

// ResolveChallenge records the push provider's answer. Returns
// ErrUnknownChallenge if the challenge has expired.
func (store *Store) ResolveChallenge(challengeID string, approved bool) error {
	status := constants.TwoFactorDenied
	if approved {
		status = constants.TwoFactorApproved
	}
	ok, err := store.backend.ChallengeUpdate(challengeID, status)
	if err != nil {
		return err
	}
	if !ok {
		return ErrUnknownChallenge
	}
	return nil
}

// ChallengeStatus returns pending, approved or denied. A session with
// no challenge, or whose challenge has expired, is denied. Approval
// marks the session verified. Asking again gives the same answer.
// The caller saves the session.
func (store *Store) ChallengeStatus(s *Session) (string, error) {
	if s.TwoFactor.Verified {
		return constants.TwoFactorApproved, nil
	}
	if s.TwoFactor.PendingChallengeID == nil {
		return constants.TwoFactorDenied, nil
	}
	status, err := store.backend.ChallengeGet(*s.TwoFactor.PendingChallengeID)
	if err != nil {
		return "", err
	}
	switch status {
	case constants.TwoFactorPending:
		return constants.TwoFactorPending, nil
	case constants.TwoFactorApproved:
		s.TwoFactor.Verified = true
		s.TwoFactor.PendingChallengeID = nil
		return constants.TwoFactorApproved, nil
	}
	s.TwoFactor.PendingChallengeID = nil
	return constants.TwoFactorDenied, nil
}
