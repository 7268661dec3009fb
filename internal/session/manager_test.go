package session

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/receiptscan/internal/credential"
	"github.com/dmitrijs2005/receiptscan/internal/gqlclient"
	"github.com/dmitrijs2005/receiptscan/internal/logging"
	"github.com/dmitrijs2005/receiptscan/internal/models"
	"github.com/dmitrijs2005/receiptscan/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

// fakeStore implements credential.Store in memory.
type fakeStore struct {
	mu   sync.Mutex
	cred *credential.Credential

	saveErr  error
	clearErr error
}

func (f *fakeStore) Save(token string, user models.User, ttl time.Duration) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cred = &credential.Credential{Token: token, User: user, ExpiresAt: time.Now().Add(ttl)}
	return nil
}

func (f *fakeStore) Load() (*credential.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cred, nil
}

func (f *fakeStore) Clear() error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cred = nil
	return nil
}

func (f *fakeStore) Close() error { return nil }

// fakeClient implements gqlclient.Client for session tests. Login/Register
// optionally block on Release to exercise the in-flight rejection.
type fakeClient struct {
	mu            sync.Mutex
	loginCalls    int
	registerCalls int

	payload *gqlclient.AuthPayload
	err     error

	Release chan struct{}
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (*gqlclient.AuthPayload, error) {
	f.mu.Lock()
	f.loginCalls++
	f.mu.Unlock()
	if f.Release != nil {
		<-f.Release
	}
	return f.payload, f.err
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (*gqlclient.AuthPayload, error) {
	f.mu.Lock()
	f.registerCalls++
	f.mu.Unlock()
	if f.Release != nil {
		<-f.Release
	}
	return f.payload, f.err
}

func (f *fakeClient) UploadReceipt(ctx context.Context, file gqlclient.Upload, category string) (*gqlclient.UploadResult, error) {
	return nil, nil
}

func (f *fakeClient) Receipts(ctx context.Context, page, limit int, category string) (*models.Page, error) {
	return nil, nil
}

func (f *fakeClient) Receipt(ctx context.Context, id string) (*models.Detail, error) {
	return nil, nil
}

func (f *fakeClient) calls() (int, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loginCalls, f.registerCalls
}

func newManager(store *fakeStore, client *fakeClient) *Manager {
	return NewManager(store, client, logging.NoopLogger{})
}

// ---- tests ----

func TestInitStates(t *testing.T) {
	ctx := context.Background()

	t.Run("loading before init", func(t *testing.T) {
		m := newManager(&fakeStore{}, &fakeClient{})
		status, _ := m.Snapshot()
		assert.Equal(t, StatusLoading, status)
	})

	t.Run("anonymous without credential", func(t *testing.T) {
		m := newManager(&fakeStore{}, &fakeClient{})
		require.NoError(t, m.Init(ctx))
		status, user := m.Snapshot()
		assert.Equal(t, StatusAnonymous, status)
		assert.Nil(t, user)
	})

	t.Run("authenticated with stored credential", func(t *testing.T) {
		store := &fakeStore{cred: &credential.Credential{
			Token: "tok",
			User:  models.User{ID: "u1", Email: "a@b.io", Name: "Ann"},
		}}
		m := newManager(store, &fakeClient{})
		require.NoError(t, m.Init(ctx))
		status, user := m.Snapshot()
		assert.Equal(t, StatusAuthenticated, status)
		require.NotNil(t, user)
		assert.Equal(t, "a@b.io", user.Email)
	})
}

func TestLoginValidationNeverReachesNetwork(t *testing.T) {
	client := &fakeClient{}
	m := newManager(&fakeStore{}, client)
	require.NoError(t, m.Init(context.Background()))

	_, err := m.Login(context.Background(), "not-an-email", "secret1")

	var ve *validate.ValidationError
	require.True(t, errors.As(err, &ve))
	logins, _ := client.calls()
	assert.Zero(t, logins)

	status, _ := m.Snapshot()
	assert.Equal(t, StatusAnonymous, status)
}

func TestLoginSuccess(t *testing.T) {
	store := &fakeStore{}
	client := &fakeClient{payload: &gqlclient.AuthPayload{
		Token:   "tok-1",
		Message: "Welcome back!",
		User:    models.User{ID: "u1", Email: "a@b.io", Name: "Ann"},
	}}
	m := newManager(store, client)
	require.NoError(t, m.Init(context.Background()))

	msg, err := m.Login(context.Background(), "a@b.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Welcome back!", msg)

	logins, _ := client.calls()
	assert.Equal(t, 1, logins)

	// credential store holds token and user together
	cred, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, cred)
	assert.Equal(t, "tok-1", cred.Token)
	assert.Equal(t, "u1", cred.User.ID)

	status, user := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, status)
	require.NotNil(t, user)
	assert.Equal(t, "Ann", user.Name)
}

func TestLoginFallbackMessage(t *testing.T) {
	client := &fakeClient{payload: &gqlclient.AuthPayload{Token: "t", User: models.User{ID: "u1"}}}
	m := newManager(&fakeStore{}, client)
	require.NoError(t, m.Init(context.Background()))

	msg, err := m.Login(context.Background(), "a@b.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Login successful!", msg)
}

func TestLoginProtocolErrorLeavesAnonymous(t *testing.T) {
	store := &fakeStore{}
	client := &fakeClient{err: &gqlclient.ProtocolError{Message: "Invalid credentials"}}
	m := newManager(store, client)
	require.NoError(t, m.Init(context.Background()))

	_, err := m.Login(context.Background(), "a@b.io", "wrong-pw")
	require.Error(t, err)

	var pe *gqlclient.ProtocolError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "Invalid credentials", pe.Message)

	status, _ := m.Snapshot()
	assert.Equal(t, StatusAnonymous, status)

	cred, _ := store.Load()
	assert.Nil(t, cred)
}

func TestConcurrentAuthRejected(t *testing.T) {
	client := &fakeClient{
		payload: &gqlclient.AuthPayload{Token: "t", User: models.User{ID: "u1"}},
		Release: make(chan struct{}),
	}
	m := newManager(&fakeStore{}, client)
	require.NoError(t, m.Init(context.Background()))

	firstDone := make(chan error, 1)
	go func() {
		_, err := m.Login(context.Background(), "a@b.io", "secret1")
		firstDone <- err
	}()

	// wait until the first attempt is inside the dispatcher
	require.Eventually(t, func() bool {
		logins, _ := client.calls()
		return logins == 1
	}, time.Second, time.Millisecond)

	_, err := m.Register(context.Background(), "Ann", "b@c.io", "secret1")
	assert.ErrorIs(t, err, ErrBusy)

	close(client.Release)
	require.NoError(t, <-firstDone)

	// subsequent attempts are allowed again
	client.Release = nil
	_, err = m.Login(context.Background(), "a@b.io", "secret1")
	assert.NoError(t, err)
}

func TestRegisterSuccess(t *testing.T) {
	store := &fakeStore{}
	client := &fakeClient{payload: &gqlclient.AuthPayload{
		Token: "tok-2",
		User:  models.User{ID: "u2", Email: "b@c.io", Name: "Bob"},
	}}
	m := newManager(store, client)
	require.NoError(t, m.Init(context.Background()))

	msg, err := m.Register(context.Background(), "Bob", "b@c.io", "secret1")
	require.NoError(t, err)
	assert.Equal(t, "Registration successful!", msg)

	_, registers := client.calls()
	assert.Equal(t, 1, registers)

	status, _ := m.Snapshot()
	assert.Equal(t, StatusAuthenticated, status)
}

func TestRegisterNameValidation(t *testing.T) {
	client := &fakeClient{}
	m := newManager(&fakeStore{}, client)
	require.NoError(t, m.Init(context.Background()))

	_, err := m.Register(context.Background(), "B", "b@c.io", "secret1")

	var ve *validate.ValidationError
	require.True(t, errors.As(err, &ve))
	_, registers := client.calls()
	assert.Zero(t, registers)
}

func TestLogoutIdempotent(t *testing.T) {
	store := &fakeStore{cred: &credential.Credential{Token: "tok", User: models.User{ID: "u1"}}}
	m := newManager(store, &fakeClient{})
	require.NoError(t, m.Init(context.Background()))

	m.Logout(context.Background())
	status, user := m.Snapshot()
	assert.Equal(t, StatusAnonymous, status)
	assert.Nil(t, user)

	cred, _ := store.Load()
	assert.Nil(t, cred)

	// second logout is a no-op, not an error
	m.Logout(context.Background())
	status, _ = m.Snapshot()
	assert.Equal(t, StatusAnonymous, status)
}
