package store

import (
	"context"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestRedisMirrorKeys(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close() //nolint:errcheck

	m := NewRedisMirrorWithClient(client, "")
	assert.Equal(t, "errorstack:current", m.key)
	assert.Equal(t, "errorstack:events", m.channel)
	assert.Same(t, client, m.Client())

	m = NewRedisMirrorWithClient(client, "staging")
	assert.Equal(t, "staging:current", m.key)
}

func TestRedisMirrorRejectsUnknownEvent(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	defer client.Close() //nolint:errcheck

	err := NewRedisMirrorWithClient(client, "test").Apply(context.Background(), Event{Kind: "renamed"})
	assert.ErrorContains(t, err, "unknown event kind")
}

func TestNewRedisMirrorBadURL(t *testing.T) {
	_, err := NewRedisMirror("not a url", "test")
	assert.Error(t, err)
}
