package testutil

import (
	"testing"
	"time"

	"github.com/APTrust/pharos/network"
	"github.com/alicebob/miniredis/v2"
)

// RedisServer is an in-memory Redis for tests.
type RedisServer struct {
	server *miniredis.Miniredis
}

func NewRedisServer() *RedisServer {
	var err error
	server, err := miniredis.Run()
	if err != nil {
		panic(err)
	}
	return &RedisServer{
		server: server,
	}
}

func (s *RedisServer) Addr() string {
	return s.server.Addr()
}

// FastForward moves the server's clock ahead, expiring any keys
// whose TTL runs out in the meantime.
func (s *RedisServer) FastForward(d time.Duration) {
	s.server.FastForward(d)
}

func (s *RedisServer) Close() {
	s.server.Close()
}

// NewRedisClient returns a client connected to a fresh in-memory
// server. Both close when the test ends.
func NewRedisClient(t *testing.T) (*network.RedisClient, *RedisServer) {
	t.Helper()
	server := NewRedisServer()
	client := network.NewRedisClient(server.Addr(), "", 0)
	t.Cleanup(func() {
		client.Close()
		server.Close()
	})
	return client, server
}
