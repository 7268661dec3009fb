package credential

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/dmitrijs2005/receiptscan/internal/models"
	"go.etcd.io/bbolt"
)

const bucketName = "session"

const (
	keyToken     = "token"
	keyUser      = "user"
	keyExpiresAt = "expires_at"
)

// timeNow is a test seam for expiry checks.
var timeNow = time.Now

// BoltStore is a Store backed by a single-file bbolt database.
type BoltStore struct {
	db *bbolt.DB
}

// NewBoltStore opens (or creates) the database at path and ensures the
// session bucket exists.
func NewBoltStore(path string) (*BoltStore, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening credential db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating session bucket: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Save writes token, user and expiry in one transaction.
func (s *BoltStore) Save(token string, user models.User, ttl time.Duration) error {
	userData, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshaling user: %w", err)
	}
	expiresAt := timeNow().Add(ttl).Format(time.RFC3339Nano)

	err = s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		if err := b.Put([]byte(keyToken), []byte(token)); err != nil {
			return err
		}
		if err := b.Put([]byte(keyUser), userData); err != nil {
			return err
		}
		return b.Put([]byte(keyExpiresAt), []byte(expiresAt))
	})
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Load reads the stored credential. An expired credential is deleted and
// reported as absent.
func (s *BoltStore) Load() (*Credential, error) {
	var cred *Credential

	err := s.db.View(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		token := b.Get([]byte(keyToken))
		userData := b.Get([]byte(keyUser))
		expData := b.Get([]byte(keyExpiresAt))
		if token == nil || userData == nil || expData == nil {
			return nil
		}

		expiresAt, err := time.Parse(time.RFC3339Nano, string(expData))
		if err != nil {
			return fmt.Errorf("parsing expiry: %w", err)
		}

		var user models.User
		if err := json.Unmarshal(userData, &user); err != nil {
			return fmt.Errorf("unmarshaling user: %w", err)
		}

		cred = &Credential{Token: string(token), User: user, ExpiresAt: expiresAt}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("loading credential: %w", err)
	}

	if cred == nil {
		return nil, nil
	}
	if !timeNow().Before(cred.ExpiresAt) {
		if err := s.Clear(); err != nil {
			return nil, err
		}
		return nil, nil
	}
	return cred, nil
}

// Clear removes all session keys in one transaction.
func (s *BoltStore) Clear() error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		for _, key := range []string{keyToken, keyUser, keyExpiresAt} {
			if err := b.Delete([]byte(key)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error {
	return s.db.Close()
}
