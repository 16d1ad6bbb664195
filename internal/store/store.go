package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/marcogenualdo/taddoist/internal/config"
)

var ErrNotFound = errors.New("setting not found")

// TodoistTokenKey holds the linked Todoist access token.
const TodoistTokenKey = "todoist.access_token"

// Store keeps per-user settings addressed by (userID, key). Set is an
// upsert, so repeating it with the same arguments is harmless.
type Store interface {
	Get(ctx context.Context, userID, key string) (string, error)
	Set(ctx context.Context, userID, key, value string) error
	Delete(ctx context.Context, userID, key string) error
	Ping(ctx context.Context) error
	Close() error
}

// record is the persisted shape shared by the remote backends.
type record struct {
	Data    string    `json:"data" firestore:"data"`
	Created time.Time `json:"created" firestore:"created"`
}

func New(ctx context.Context, cfg config.StoreConfig) (Store, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "redis":
		if cfg.Redis == nil {
			return nil, errors.New("redis config is required for redis store type")
		}
		return NewRedisStore(ctx, *cfg.Redis)
	case "firestore":
		if cfg.Firestore == nil {
			return nil, errors.New("firestore config is required for firestore store type")
		}
		return NewFirestoreStore(ctx, *cfg.Firestore)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", cfg.Type)
	}
}

func validateKey(userID, key string) error {
	if userID == "" {
		return errors.New("user id is required")
	}
	if key == "" {
		return errors.New("key is required")
	}
	return nil
}
