package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/marcogenualdo/taddoist/internal/config"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreStore keeps each user's settings in a subcollection:
// <collection>/<userID>/settings/<key>.
type FirestoreStore struct {
	client     *firestore.Client
	collection string
}

func NewFirestoreStore(ctx context.Context, cfg config.FirestoreConfig) (*FirestoreStore, error) {
	if cfg.ProjectID == "" {
		return nil, errors.New("projectID is required")
	}

	var client *firestore.Client
	var err error

	if cfg.Database != "" && cfg.Database != "(default)" {
		client, err = firestore.NewClientWithDatabase(ctx, cfg.ProjectID, cfg.Database)
	} else {
		client, err = firestore.NewClient(ctx, cfg.ProjectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	collection := cfg.Collection
	if collection == "" {
		collection = "UserSettings"
	}

	return &FirestoreStore{client: client, collection: collection}, nil
}

func (fs *FirestoreStore) doc(userID, key string) *firestore.DocumentRef {
	return fs.client.Collection(fs.collection).Doc(userID).Collection("settings").Doc(key)
}

func (fs *FirestoreStore) Get(ctx context.Context, userID, key string) (string, error) {
	if err := validateKey(userID, key); err != nil {
		return "", err
	}

	snap, err := fs.doc(userID, key).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	var rec record
	if err := snap.DataTo(&rec); err != nil {
		return "", fmt.Errorf("failed to decode setting %s: %w", key, err)
	}
	return rec.Data, nil
}

func (fs *FirestoreStore) Set(ctx context.Context, userID, key, value string) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}

	_, err := fs.doc(userID, key).Set(ctx, record{Data: value, Created: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("failed to write setting %s: %w", key, err)
	}
	return nil
}

func (fs *FirestoreStore) Delete(ctx context.Context, userID, key string) error {
	if err := validateKey(userID, key); err != nil {
		return err
	}

	if _, err := fs.doc(userID, key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete setting %s: %w", key, err)
	}
	return nil
}

// Ping reads at most one document from the root collection.
func (fs *FirestoreStore) Ping(ctx context.Context) error {
	iter := fs.client.Collection(fs.collection).Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && !errors.Is(err, iterator.Done) {
		return fmt.Errorf("firestore unreachable: %w", err)
	}
	return nil
}

func (fs *FirestoreStore) Close() error {
	return fs.client.Close()
}
