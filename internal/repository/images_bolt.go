package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.etcd.io/bbolt"

	"github.com/joseph-ayodele/receipt-vision/internal/common"
)

const imagesBucket = "images"

// BoltImageStore is the embedded, zero-infrastructure store for single-user
// installs. Images are JSON-encoded under their UUID.
type BoltImageStore struct {
	db *bbolt.DB
}

func NewBoltImageStore(path string) (*BoltImageStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening boltdb: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(imagesBucket))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating bucket: %w", err)
	}

	return &BoltImageStore{db: db}, nil
}

func (b *BoltImageStore) Put(_ context.Context, img StoredImage) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(imagesBucket))
		data, err := json.Marshal(img)
		if err != nil {
			return fmt.Errorf("marshaling image record: %w", err)
		}
		return bucket.Put([]byte(img.ID.String()), data)
	})
}

func (b *BoltImageStore) Get(_ context.Context, id uuid.UUID) (StoredImage, error) {
	var img StoredImage
	err := b.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(imagesBucket))
		data := bucket.Get([]byte(id.String()))
		if data == nil {
			return common.NotFoundError("image " + id.String())
		}
		return json.Unmarshal(data, &img)
	})
	if err != nil {
		return StoredImage{}, err
	}
	return img, nil
}

func (b *BoltImageStore) Delete(_ context.Context, id uuid.UUID) error {
	return b.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket([]byte(imagesBucket)).Delete([]byte(id.String()))
	})
}

func (b *BoltImageStore) Close() error {
	return b.db.Close()
}
