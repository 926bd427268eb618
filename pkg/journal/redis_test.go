package journal

import (
	"bytes"
	"context"
	"log"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unreachableClient, bağlantı kuramayan bir client döndürür; testler Redis
// sunucusu gerektirmez.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestNewRedisJournal_Defaults(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	j := NewRedisJournal(client, log.New(&bytes.Buffer{}, "", 0), "", 0)

	assert.Equal(t, DefaultKey, j.key)
	assert.Equal(t, int64(DefaultSize), j.size)
}

func TestRedisJournal_UnreachableServer(t *testing.T) {
	client := unreachableClient()
	defer client.Close()

	var buf bytes.Buffer
	j := NewRedisJournal(client, log.New(&buf, "", 0), "test:journal", 10)

	err := j.Record(context.Background(), Entry{SQL: "SELECT 1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis journal record failed")

	_, err = j.Recent(context.Background(), 5)
	require.Error(t, err)
	assert.Contains(t, buf.String(), "test:journal")
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	cfg := DefaultRedisConfig()
	cfg.Port = 1
	cfg.DialTimeout = 100 * time.Millisecond

	var buf bytes.Buffer
	client, err := NewRedisClient(cfg, log.New(&buf, "", 0))
	require.Error(t, err)
	assert.Nil(t, client)
	assert.Contains(t, buf.String(), "Redis bağlantı hatası")
}
