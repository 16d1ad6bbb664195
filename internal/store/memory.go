package store

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	data map[string]map[string]record
	mu   sync.RWMutex
	now  func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]map[string]record),
		now:  time.Now,
	}
}

func (ms *MemoryStore) Get(ctx context.Context, userID, key string) (string, error) {
	if err := validateKey(userID, key); err != nil {
		return "", err
	}

	ms.mu.RLock()
	defer ms.mu.RUnlock()

	rec, exists := ms.data[userID][key]
	if !exists {
		return "", ErrNotFound
	}
	return rec.Data, nil
}

func (ms *MemoryStore) Set(ctx context.Context, userID, key, value string) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	settings, exists := ms.data[userID]
	if !exists {
		settings = make(map[string]record)
		ms.data[userID] = settings
	}
	settings[key] = record{Data: value, Created: ms.now()}

	return nil
}

func (ms *MemoryStore) Delete(ctx context.Context, userID, key string) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	delete(ms.data[userID], key)
	if len(ms.data[userID]) == 0 {
		delete(ms.data, userID)
	}
	return nil
}

func (ms *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

func (ms *MemoryStore) Close() error {
	return nil
}
