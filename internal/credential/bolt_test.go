package credential

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/dmitrijs2005/receiptscan/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *BoltStore {
	t.Helper()
	s, err := NewBoltStore(filepath.Join(t.TempDir(), "session.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := setupStore(t)

	user := models.User{ID: "u1", Email: "a@b.io", Name: "Ann"}
	require.NoError(t, s.Save("tok-123", user, DefaultTTL))

	cred, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok-123", cred.Token)
	assert.Equal(t, user, cred.User)
	assert.True(t, cred.ExpiresAt.After(time.Now()))
}

func TestLoadEmpty(t *testing.T) {
	s := setupStore(t)

	cred, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestClear(t *testing.T) {
	s := setupStore(t)

	require.NoError(t, s.Save("tok", models.User{ID: "u1"}, DefaultTTL))
	require.NoError(t, s.Clear())

	cred, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)

	// clearing an empty store succeeds
	require.NoError(t, s.Clear())
}

func TestExpiredCredentialIsPurged(t *testing.T) {
	s := setupStore(t)

	require.NoError(t, s.Save("tok", models.User{ID: "u1"}, time.Hour))

	orig := timeNow
	timeNow = func() time.Time { return time.Now().Add(2 * time.Hour) }
	t.Cleanup(func() { timeNow = orig })

	cred, err := s.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)

	// purged, still absent with the real clock
	timeNow = orig
	cred, err = s.Load()
	require.NoError(t, err)
	assert.Nil(t, cred)
}

func TestSaveOverwrites(t *testing.T) {
	s := setupStore(t)

	require.NoError(t, s.Save("old", models.User{ID: "u1", Name: "Old"}, DefaultTTL))
	require.NoError(t, s.Save("new", models.User{ID: "u2", Name: "New"}, DefaultTTL))

	cred, err := s.Load()
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "new", cred.Token)
	assert.Equal(t, "u2", cred.User.ID)
}

func TestDurableAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	s, err := NewBoltStore(path)
	require.NoError(t, err)
	require.NoError(t, s.Save("tok", models.User{ID: "u1", Email: "a@b.io"}, DefaultTTL))
	require.NoError(t, s.Close())

	s2, err := NewBoltStore(path)
	require.NoError(t, err)
	defer s2.Close()

	cred, err := s2.Load()
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok", cred.Token)
	assert.Equal(t, "a@b.io", cred.User.Email)
}
