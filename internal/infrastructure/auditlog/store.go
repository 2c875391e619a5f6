package auditlog

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"
)

// Entry is one recorded task mutation.
type Entry struct {
	ID        string    `json:"id"`
	TaskID    string    `json:"task_id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is an append-only bbolt record of task mutations. Keys are ordered by
// timestamp so retention sweeps can stop at the first young entry.
type Store struct {
	db     *bolt.DB
	bucket []byte
}

// Open initializes the bbolt file and ensures the bucket exists.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, err
	}

	bucket := []byte("audit")
	if err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucket)
		return err
	}); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, bucket: bucket}, nil
}

// RecordTaskAction appends a mutation entry. Satisfies usecase.AuditRecorder.
func (s *Store) RecordTaskAction(_ context.Context, action, taskID, userID string) error {
	if s == nil || s.db == nil {
		return bolt.ErrDatabaseNotOpen
	}

	entry := Entry{
		ID:        uuid.NewString(),
		TaskID:    taskID,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now().UTC(),
	}
	payload, err := json.Marshal(entry)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%020d_%s", entry.Timestamp.UnixNano(), entry.ID)
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(s.bucket).Put([]byte(key), payload)
	})
}

// Prune removes entries older than the cutoff and returns how many were
// deleted. Keys are timestamp-prefixed, so the scan stops early.
func (s *Store) Prune(olderThan time.Time) (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}

	cutoff := []byte(fmt.Sprintf("%020d", olderThan.UnixNano()))
	var removed int
	err := s.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket(s.bucket).Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			if string(k) >= string(cutoff) {
				break
			}
			if err := c.Delete(); err != nil {
				return err
			}
			removed++
		}
		return nil
	})
	return removed, err
}

// Size returns the number of recorded entries.
func (s *Store) Size() (int, error) {
	if s == nil || s.db == nil {
		return 0, bolt.ErrDatabaseNotOpen
	}
	var count int
	err := s.db.View(func(tx *bolt.Tx) error {
		count = tx.Bucket(s.bucket).Stats().KeyN
		return nil
	})
	return count, err
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}
