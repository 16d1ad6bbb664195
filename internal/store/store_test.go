package store

import (
	"context"
	"os"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/marcogenualdo/taddoist/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	user := "user-" + uuid.NewString() + "@example.com"

	t.Run("missing", func(t *testing.T) {
		_, err := s.Get(ctx, user, TodoistTokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("upsert", func(t *testing.T) {
		require.NoError(t, s.Set(ctx, user, TodoistTokenKey, "tok-1"))
		require.NoError(t, s.Set(ctx, user, TodoistTokenKey, "tok-1"))

		got, err := s.Get(ctx, user, TodoistTokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-1", got)

		require.NoError(t, s.Set(ctx, user, TodoistTokenKey, "tok-2"))
		got, err = s.Get(ctx, user, TodoistTokenKey)
		require.NoError(t, err)
		assert.Equal(t, "tok-2", got)
	})

	t.Run("users_are_isolated", func(t *testing.T) {
		_, err := s.Get(ctx, "other-"+user, TodoistTokenKey)
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, s.Delete(ctx, user, TodoistTokenKey))
		_, err := s.Get(ctx, user, TodoistTokenKey)
		assert.ErrorIs(t, err, ErrNotFound)

		require.NoError(t, s.Delete(ctx, user, TodoistTokenKey))
	})

	t.Run("empty_identifiers", func(t *testing.T) {
		assert.Error(t, s.Set(ctx, "", TodoistTokenKey, "x"))
		_, err := s.Get(ctx, user, "")
		assert.Error(t, err)
	})

	t.Run("ping", func(t *testing.T) {
		assert.NoError(t, s.Ping(ctx))
	})
}

func TestMemoryStore(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()
	exerciseStore(t, s)
}

func TestRedisStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newRedisStore(client, "test")
	defer s.Close()

	exerciseStore(t, s)
}

func TestRedisStore_KeyLayout(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newRedisStore(client, "taddoist")
	defer s.Close()

	require.NoError(t, s.Set(context.Background(), "a@example.com", TodoistTokenKey, "tok"))

	raw, err := mr.Get("taddoist:settings:a@example.com:todoist.access_token")
	require.NoError(t, err)
	assert.Contains(t, raw, `"data":"tok"`)
	assert.Contains(t, raw, `"created":`)
}

func TestRedisStore_CorruptValue(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := newRedisStore(client, "taddoist")
	defer s.Close()

	require.NoError(t, mr.Set("taddoist:settings:a@example.com:todoist.access_token", "not json"))

	_, err := s.Get(context.Background(), "a@example.com", TodoistTokenKey)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestNewRedisStore_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisStore(context.Background(), config.RedisConfig{Address: addr})
	assert.ErrorContains(t, err, "failed to connect to Redis")
}

func TestFirestoreStore(t *testing.T) {
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	s, err := NewFirestoreStore(context.Background(), config.FirestoreConfig{ProjectID: "taddoist-test"})
	require.NoError(t, err)
	defer s.Close()

	exerciseStore(t, s)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.StoreConfig{Type: "memory"})
	require.NoError(t, err)
	assert.IsType(t, &MemoryStore{}, s)

	_, err = New(context.Background(), config.StoreConfig{Type: "redis"})
	assert.ErrorContains(t, err, "redis config is required")

	_, err = New(context.Background(), config.StoreConfig{Type: "datastore"})
	assert.ErrorContains(t, err, "unsupported store type")
}
