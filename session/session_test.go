package session_test

import (
	"testing"
	"time"

	"github.com/APTrust/pharos/constants"
	"github.com/APTrust/pharos/session"
	"github.com/APTrust/pharos/util/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func getStore(t *testing.T) (*session.Store, *testutil.RedisServer) {
	client, server := testutil.NewRedisClient(t)
	return session.NewStore(client, time.Hour, 60), server
}

func TestNewLoadSave(t *testing.T) {
	store, _ := getStore(t)
	s, err := store.New(42)
	require.Nil(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, int64(42), s.UserID)
	assert.Equal(t, 60, s.TwoFactor.TimeoutSeconds)

	s.AddToReviewList(7)
	s.ToggleShowReviewed()
	require.Nil(t, store.Save(s))

	loaded, err := store.Load(s.ID)
	require.Nil(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, s, loaded)
}

func TestLoadMissingAndExpired(t *testing.T) {
	store, server := getStore(t)
	loaded, err := store.Load("")
	assert.Nil(t, err)
	assert.Nil(t, loaded)

	loaded, err = store.Load("no-such-session")
	assert.Nil(t, err)
	assert.Nil(t, loaded)

	s, err := store.New(1)
	require.Nil(t, err)
	server.FastForward(2 * time.Hour)
	loaded, err = store.Load(s.ID)
	assert.Nil(t, err)
	assert.Nil(t, loaded)
}

func TestDelete(t *testing.T) {
	store, _ := getStore(t)
	s, err := store.New(1)
	require.Nil(t, err)
	require.Nil(t, store.Delete(s))
	loaded, err := store.Load(s.ID)
	assert.Nil(t, err)
	assert.Nil(t, loaded)
}

func TestReviewList(t *testing.T) {
	s := &session.Session{}
	s.AddToReviewList(3)
	s.AddToReviewList(5)
	s.AddToReviewList(3)
	assert.Equal(t, []int64{3, 5}, s.ReviewList)

	s.RemoveFromReviewList(3)
	assert.Equal(t, []int64{5}, s.ReviewList)

	assert.Equal(t, []int64{5}, s.PurgeReviewList())
	assert.Empty(t, s.ReviewList)
}

func TestToggleShowReviewed(t *testing.T) {
	s := &session.Session{}
	assert.True(t, s.ToggleShowReviewed())
	assert.False(t, s.ToggleShowReviewed())
}

func TestChallengeApproved(t *testing.T) {
	store, _ := getStore(t)
	s, err := store.New(1)
	require.Nil(t, err)

	// No challenge yet.
	status, err := store.ChallengeStatus(s)
	require.Nil(t, err)
	assert.Equal(t, constants.TwoFactorDenied, status)

	challengeID, err := store.BeginChallenge(s)
	require.Nil(t, err)
	require.NotNil(t, s.TwoFactor.PendingChallengeID)
	assert.Equal(t, challengeID, *s.TwoFactor.PendingChallengeID)

	for i := 0; i < 2; i++ {
		status, err = store.ChallengeStatus(s)
		require.Nil(t, err)
		assert.Equal(t, constants.TwoFactorPending, status)
	}

	require.Nil(t, store.ResolveChallenge(challengeID, true))
	for i := 0; i < 2; i++ {
		status, err = store.ChallengeStatus(s)
		require.Nil(t, err)
		assert.Equal(t, constants.TwoFactorApproved, status)
	}
	assert.True(t, s.TwoFactor.Verified)
	assert.Nil(t, s.TwoFactor.PendingChallengeID)
}

func TestChallengeDenied(t *testing.T) {
	store, _ := getStore(t)
	s, err := store.New(1)
	require.Nil(t, err)
	challengeID, err := store.BeginChallenge(s)
	require.Nil(t, err)

	require.Nil(t, store.ResolveChallenge(challengeID, false))
	for i := 0; i < 2; i++ {
		status, err := store.ChallengeStatus(s)
		require.Nil(t, err)
		assert.Equal(t, constants.TwoFactorDenied, status)
	}
	assert.False(t, s.TwoFactor.Verified)
}

func TestChallengeExpires(t *testing.T) {
	store, server := getStore(t)
	s, err := store.New(1)
	require.Nil(t, err)
	challengeID, err := store.BeginChallenge(s)
	require.Nil(t, err)

	server.FastForward(61 * time.Second)

	status, err := store.ChallengeStatus(s)
	require.Nil(t, err)
	assert.Equal(t, constants.TwoFactorDenied, status)

	// Approval after expiry is too late.
	assert.ErrorIs(t, store.ResolveChallenge(challengeID, true), session.ErrUnknownChallenge)
	status, err = store.ChallengeStatus(s)
	require.Nil(t, err)
	assert.Equal(t, constants.TwoFactorDenied, status)
}
