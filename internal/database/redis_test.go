package database

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Devarsh-42/InsureBuddy/internal/models"
)

func TestChatChannel(t *testing.T) {
	id := uuid.MustParse("5f0c7a52-8d0e-4f55-9a43-2c1b8f3e9d11")
	assert.Equal(t, "chat_updates:5f0c7a52-8d0e-4f55-9a43-2c1b8f3e9d11", ChatChannel(id))
}

func TestNewRedisClients_BadURL(t *testing.T) {
	_, err := NewRedisClients("not-a-redis-url")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse Redis URL")
}

func TestRedisPublisher_Unreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()

	p := NewRedisPublisher(client)
	err := p.Publish(context.Background(), uuid.New(), models.WSMessage{Type: models.WSChatMessage})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to publish update")
}
