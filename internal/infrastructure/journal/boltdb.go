package journal

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/morning-sprint/backend/domain"
)

// Store keeps import receipts in a local BoltDB file. Keys are ordered as
// <userID>/<padded-unix-nanos>/<receiptID> so one user's receipts form a
// contiguous, chronologically sorted range.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the BoltDB file and ensures the bucket exists.
func Open(path string, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = "receipts"
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucket))
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{
		db:     db,
		bucket: []byte(bucket),
	}, nil
}

// Append stores one receipt.
func (s *Store) Append(_ context.Context, receipt domain.ImportReceipt) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}
	if receipt.UserID == "" || receipt.ID == "" {
		return domain.ErrInvalidPayload
	}
	if receipt.CreatedAt.IsZero() {
		receipt.CreatedAt = time.Now()
	}

	payload, err := json.Marshal(receipt)
	if err != nil {
		return err
	}

	key := buildKey(receipt)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put(key, payload)
	})
}

// ListByUser returns the user's receipts, newest first.
func (s *Store) ListByUser(_ context.Context, userID string) ([]domain.ImportReceipt, error) {
	if s == nil || s.db == nil {
		return nil, bolt.ErrDatabaseNotOpen
	}

	prefix := []byte(userID + "/")
	var receipts []domain.ImportReceipt
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var receipt domain.ImportReceipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				continue
			}
			receipts = append(receipts, receipt)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(receipts)-1; i < j; i, j = i+1, j-1 {
		receipts[i], receipts[j] = receipts[j], receipts[i]
	}
	return receipts, nil
}

// PruneBefore deletes receipts older than the cutoff and reports how many.
func (s *Store) PruneBefore(cutoff time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}

	pruned := 0
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var receipt domain.ImportReceipt
			if err := json.Unmarshal(v, &receipt); err != nil {
				// unreadable entries are pruned too
				if err := c.Delete(); err != nil {
					return err
				}
				pruned++
				continue
			}
			if receipt.CreatedAt.Before(cutoff) {
				if err := c.Delete(); err != nil {
					return err
				}
				pruned++
			}
		}
		return nil
	})
	if err != nil {
		return pruned, err
	}
	return pruned, nil
}

// Size returns the number of stored receipts.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	size := 0
	err := s.db.View(func(tx *bolt.Tx) error {
		size = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return size, err
}

// Close releases the underlying BoltDB handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func buildKey(receipt domain.ImportReceipt) []byte {
	return []byte(fmt.Sprintf("%s/%020d/%s", receipt.UserID, receipt.CreatedAt.UnixNano(), receipt.ID))
}
