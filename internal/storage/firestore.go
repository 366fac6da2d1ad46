package storage

import (
	"context"
	"fmt"
	"slices"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"

	"hub-go/internal/hub"
)

// DefaultFirestoreCollection is used when the config names no collection.
const DefaultFirestoreCollection = "hub"

// firestoreEntry is the document stored for each key. The document id is the key.
type firestoreEntry struct {
	Value     []byte    `firestore:"value"`
	UpdatedAt time.Time `firestore:"updatedAt"`
}

// FirestoreStorage keeps each key as a document in one Firestore collection.
type FirestoreStorage struct {
	client     *firestore.Client
	collection string
	now        func() time.Time
}

var _ hub.Storage = (*FirestoreStorage)(nil)

func NewFirestoreStorage(ctx context.Context, projectID, collection string) (*FirestoreStorage, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}
	if collection == "" {
		collection = DefaultFirestoreCollection
	}
	return &FirestoreStorage{client: client, collection: collection, now: time.Now}, nil
}

func (s *FirestoreStorage) doc(key string) *firestore.DocumentRef {
	return s.client.Collection(s.collection).Doc(key)
}

func (s *FirestoreStorage) Get(ctx context.Context, key string) ([]byte, error) {
	if err := hub.ValidateKey(key); err != nil {
		return nil, err
	}
	snap, err := s.doc(key).Get(ctx)
	if snap != nil && !snap.Exists() {
		return nil, fmt.Errorf("%s: %w", key, hub.ErrKeyNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", key, err)
	}

	var entry firestoreEntry
	if err := snap.DataTo(&entry); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return entry.Value, nil
}

func (s *FirestoreStorage) Set(ctx context.Context, key string, value []byte) error {
	if err := hub.ValidateKey(key); err != nil {
		return err
	}
	if value == nil {
		value = []byte{}
	}
	if _, err := s.doc(key).Set(ctx, firestoreEntry{Value: value, UpdatedAt: s.now()}); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}

// Remove deletes the document. Firestore treats deleting a missing document as success.
func (s *FirestoreStorage) Remove(ctx context.Context, key string) error {
	if err := hub.ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.doc(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete %s: %w", key, err)
	}
	return nil
}

func (s *FirestoreStorage) Keys(ctx context.Context) ([]string, error) {
	iter := s.client.Collection(s.collection).Select().Documents(ctx)
	defer iter.Stop()

	var keys []string
	for {
		doc, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate %s: %w", s.collection, err)
		}
		keys = append(keys, doc.Ref.ID)
	}
	slices.Sort(keys)
	return keys, nil
}

// ValidateSetup issues a one-document read to check credentials and project.
func (s *FirestoreStorage) ValidateSetup(ctx context.Context) error {
	iter := s.client.Collection(s.collection).Select().Limit(1).Documents(ctx)
	defer iter.Stop()

	if _, err := iter.Next(); err != nil && err != iterator.Done {
		return fmt.Errorf("firestore collection %s not accessible: %w", s.collection, err)
	}
	return nil
}

func (s *FirestoreStorage) Close() error {
	return s.client.Close()
}
