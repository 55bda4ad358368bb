package network

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v7"
)

// RedisClient wraps the Redis connection Pharos shares with the
// workers. The workers keep per-WorkItem processing state in a hash
// keyed by the WorkItem ID. Pharos keeps sessions and two-factor
// challenges under prefixed keys.
type RedisClient struct {
	client *redis.Client
}

func NewRedisClient(address, password string, db int) *RedisClient {
	return &RedisClient{
		client: redis.NewClient(&redis.Options{
			Addr:     address,
			Password: password,
			DB:       db,
		}),
	}
}

func (c *RedisClient) Ping() (string, error) {
	return c.client.Ping().Result()
}

// WorkItemStateExists returns true if the workers have saved
// processing state for the specified WorkItem.
func (c *RedisClient) WorkItemStateExists(workItemID int64) (bool, error) {
	count, err := c.client.Exists(workItemKey(workItemID)).Result()
	if err != nil {
		return false, fmt.Errorf("WorkItemStateExists (%d): %w", workItemID, err)
	}
	return count > 0, nil
}

// WorkItemStateDelete deletes the workers' state hash for the
// specified WorkItem, so the next worker to pick it up starts
// from scratch.
func (c *RedisClient) WorkItemStateDelete(workItemID int64) error {
	_, err := c.client.Del(workItemKey(workItemID)).Result()
	if err != nil {
		return fmt.Errorf("WorkItemStateDelete (%d): %w", workItemID, err)
	}
	return nil
}

// WorkItemStateSet saves one field of a WorkItem's state hash.
// Pharos doesn't write worker state in production. Tests use this
// to set up state that requeue should clear.
func (c *RedisClient) WorkItemStateSet(workItemID int64, field, value string) error {
	_, err := c.client.HSet(workItemKey(workItemID), field, value).Result()
	return err
}

// SessionGet returns the JSON for the specified session, or an empty
// string if there is no such session.
func (c *RedisClient) SessionGet(sessionID string) (string, error) {
	return c.getString(sessionKey(sessionID))
}

// SessionSave saves session JSON and resets its expiration.
func (c *RedisClient) SessionSave(sessionID, data string, ttl time.Duration) error {
	return c.client.Set(sessionKey(sessionID), data, ttl).Err()
}

func (c *RedisClient) SessionDelete(sessionID string) error {
	return c.client.Del(sessionKey(sessionID)).Err()
}

// ChallengeSet records a new two-factor challenge with the specified
// status. The key expires after ttl, at which point the challenge
// no longer exists.
func (c *RedisClient) ChallengeSet(challengeID, status string, ttl time.Duration) error {
	return c.client.Set(challengeKey(challengeID), status, ttl).Err()
}

// ChallengeUpdate changes the status of an existing challenge without
// extending its life. It returns false if the challenge has expired
// or never existed.
func (c *RedisClient) ChallengeUpdate(challengeID, status string) (bool, error) {
	key := challengeKey(challengeID)
	ttl, err := c.client.TTL(key).Result()
	if err != nil {
		return false, err
	}
	if ttl <= 0 {
		return false, nil
	}
	return c.client.SetXX(key, status, ttl).Result()
}

// ChallengeGet returns the status of a challenge, or an empty string
// if it has expired or never existed.
func (c *RedisClient) ChallengeGet(challengeID string) (string, error) {
	return c.getString(challengeKey(challengeID))
}

func (c *RedisClient) getString(key string) (string, error) {
	value, err := c.client.Get(key).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("Redis GET %s: %w", key, err)
	}
	return value, nil
}

func (c *RedisClient) Close() error {
	return c.client.Close()
}

func workItemKey(workItemID int64) string {
	return strconv.FormatInt(workItemID, 10)
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}

func challengeKey(challengeID string) string {
	return "challenge:" + challengeID
}
