// Package session owns the authentication state of the client: the
// login/register/logout transitions, the derived credential-store writes,
// and the current status exposed to the rest of the application.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/receiptscan/internal/credential"
	"github.com/dmitrijs2005/receiptscan/internal/gqlclient"
	"github.com/dmitrijs2005/receiptscan/internal/logging"
	"github.com/dmitrijs2005/receiptscan/internal/models"
	"github.com/dmitrijs2005/receiptscan/internal/validate"
)

// ErrBusy is returned when an authentication operation is already in
// flight. Concurrent attempts are rejected, not queued.
var ErrBusy = errors.New("authentication already in progress")

// Status is the session state machine position.
type Status string

const (
	StatusLoading       Status = "loading"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

// Manager drives the session lifecycle. It is the only writer of the
// credential store.
type Manager struct {
	store  credential.Store
	client gqlclient.Client
	log    logging.Logger

	mu           sync.Mutex
	status       Status
	user         *models.User
	authInFlight bool
}

// NewManager builds a Manager in the Loading state. Call Init to resolve it.
func NewManager(store credential.Store, client gqlclient.Client, log logging.Logger) *Manager {
	return &Manager{
		store:  store,
		client: client,
		log:    log.With("component", "session"),
		status: StatusLoading,
	}
}

// Init performs the startup credential read and resolves the Loading state:
// Authenticated when a valid credential exists, Anonymous otherwise.
func (m *Manager) Init(ctx context.Context) error {
	cred, err := m.store.Load()
	if err != nil {
		return fmt.Errorf("loading stored credential: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if cred != nil {
		user := cred.User
		m.status = StatusAuthenticated
		m.user = &user
		m.log.Info(ctx, "restored session", "email", user.Email)
	} else {
		m.status = StatusAnonymous
		m.user = nil
	}
	return nil
}

// Login validates the input locally, then dispatches the login mutation.
// On success the credential is persisted atomically and the session becomes
// Authenticated; the returned string is the confirmation message. On any
// dispatch failure the session stays Anonymous.
func (m *Manager) Login(ctx context.Context, email, password string) (string, error) {
	if err := (validate.LoginInput{Email: email, Password: password}).Validate(); err != nil {
		return "", err
	}

	if err := m.beginAuth(); err != nil {
		return "", err
	}
	defer m.endAuth()

	payload, err := m.client.Login(ctx, email, password)
	if err != nil {
		m.log.Warn(ctx, "login failed", "email", email, "error", err)
		return "", err
	}

	return m.applyAuth(ctx, payload, "Login successful!")
}

// Register has the same contract as Login, with the additional name check.
func (m *Manager) Register(ctx context.Context, name, email, password string) (string, error) {
	if err := (validate.RegisterInput{Name: name, Email: email, Password: password}).Validate(); err != nil {
		return "", err
	}

	if err := m.beginAuth(); err != nil {
		return "", err
	}
	defer m.endAuth()

	payload, err := m.client.Register(ctx, name, email, password)
	if err != nil {
		m.log.Warn(ctx, "registration failed", "email", email, "error", err)
		return "", err
	}

	return m.applyAuth(ctx, payload, "Registration successful!")
}

// Logout clears the stored credential and transitions to Anonymous. It is
// idempotent and always transitions, even if the store cannot be cleared.
func (m *Manager) Logout(ctx context.Context) {
	if err := m.store.Clear(); err != nil {
		m.log.Error(ctx, "clearing credential on logout", "error", err)
	}

	m.mu.Lock()
	m.status = StatusAnonymous
	m.user = nil
	m.mu.Unlock()
	m.log.Info(ctx, "logged out")
}

// Snapshot returns the current status and, when authenticated, a copy of
// the user profile.
func (m *Manager) Snapshot() (Status, *models.User) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.user == nil {
		return m.status, nil
	}
	user := *m.user
	return m.status, &user
}

func (m *Manager) beginAuth() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.authInFlight {
		return ErrBusy
	}
	m.authInFlight = true
	return nil
}

func (m *Manager) endAuth() {
	m.mu.Lock()
	m.authInFlight = false
	m.mu.Unlock()
}

func (m *Manager) applyAuth(ctx context.Context, payload *gqlclient.AuthPayload, fallbackMsg string) (string, error) {
	if err := m.store.Save(payload.Token, payload.User, credential.DefaultTTL); err != nil {
		return "", fmt.Errorf("persisting credential: %w", err)
	}

	m.mu.Lock()
	user := payload.User
	m.status = StatusAuthenticated
	m.user = &user
	m.mu.Unlock()

	m.log.Info(ctx, "authenticated", "email", payload.User.Email)

	if payload.Message != "" {
		return payload.Message, nil
	}
	return fallbackMsg, nil
}
