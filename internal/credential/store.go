// Package credential persists the authenticated session: an opaque bearer
// token plus the minimal user profile, with an expiry. The pair is written and
// removed atomically so callers never observe a token without a user or vice
// versa.
package credential

import (
	"time"

	"github.com/dmitrijs2005/receiptscan/internal/models"
)

// DefaultTTL is how long a saved credential stays valid.
const DefaultTTL = 7 * 24 * time.Hour

// Credential couples the bearer token with its owner and expiry.
type Credential struct {
	Token     string
	User      models.User
	ExpiresAt time.Time
}

// Store is durable storage for at most one credential.
//
// Contract:
//   - Save persists token and user together with an expiry ttl from now.
//   - Load returns the credential, or nil when none is stored or the stored
//     one has expired (expired entries are purged on read).
//   - Clear removes everything; clearing an empty store is not an error.
type Store interface {
	Save(token string, user models.User, ttl time.Duration) error
	Load() (*Credential, error)
	Clear() error
	Close() error
}
