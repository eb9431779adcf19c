// Package store persists the records served by the ledger emulator in bbolt.
package store

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"

	bolt "go.etcd.io/bbolt"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// Bucket names.
const (
	BucketTokens         = "tokens"
	BucketAccounts       = "accounts"
	BucketInvoices       = "invoices"
	BucketBills          = "bills"
	BucketJournalEntries = "journal_entries"
	BucketJournalLines   = "journal_lines"
)

// Store represents the bbolt database wrapper.
type Store struct {
	db *bolt.DB
}

// New creates a new Store instance and initializes buckets.
func New(dbPath string) (*Store, error) {
	db, err := bolt.Open(dbPath, 0o600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		buckets := []string{BucketTokens, BucketAccounts, BucketInvoices, BucketBills, BucketJournalEntries, BucketJournalLines}
		for _, bucket := range buckets {
			if _, err := tx.CreateBucketIfNotExists([]byte(bucket)); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// NextID generates the next ID for a bucket.
func (s *Store) NextID(bucketName string) (int64, error) {
	var id int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		id = int64(seq)
		return nil
	})
	return id, err
}

// Put stores a value in the specified bucket with the given key.
func (s *Store) Put(bucketName string, key int64, value interface{}) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal value: %w", err)
		}

		return b.Put(itob(key), data)
	})
}

// Get retrieves a value from the specified bucket with the given key.
func (s *Store) Get(bucketName string, key int64, value interface{}) error {
	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		data := b.Get(itob(key))
		if data == nil {
			return ErrNotFound
		}

		return json.Unmarshal(data, value)
	})
}

// list decodes every value of a bucket in key order, keeping those accepted by keep.
func list[T any](s *Store, bucketName string, keep func(T) bool) ([]T, error) {
	var results []T

	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if b == nil {
			return fmt.Errorf("bucket %s not found", bucketName)
		}

		return b.ForEach(func(k, v []byte) error {
			var item T
			if err := json.Unmarshal(v, &item); err != nil {
				return fmt.Errorf("failed to unmarshal %s record: %w", bucketName, err)
			}
			if keep == nil || keep(item) {
				results = append(results, item)
			}
			return nil
		})
	})

	return results, err
}

// PutToken registers a bearer token.
func (s *Store) PutToken(token string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketTokens)).Put([]byte(token), []byte("active"))
	})
}

// ValidToken reports whether token was registered.
func (s *Store) ValidToken(token string) (bool, error) {
	var valid bool
	err := s.db.View(func(tx *bolt.Tx) error {
		valid = tx.Bucket([]byte(BucketTokens)).Get([]byte(token)) != nil
		return nil
	})
	return valid, err
}

// itob converts an int64 to a byte slice for use as a bbolt key.
func itob(v int64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, uint64(v))
	return b
}
