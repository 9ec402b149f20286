package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	evbus "github.com/asaskevich/EventBus"

	"github.com/dmitrijs2005/embauco/internal/client/models"
	"github.com/dmitrijs2005/embauco/internal/logging"
)

var (
	ErrInvalidCredential = errors.New("session: credential and identity are required")
	ErrNilValidator      = errors.New("session: validator is nil")
	ErrClosed            = errors.New("session: manager is closed")
)

const phaseTopic = "session:phase"

// Validator checks a resumed credential against the backend and returns the
// identity it belongs to.
type Validator interface {
	Validate(ctx context.Context, token string) (*models.Identity, error)
}

// Manager is the single authoritative session instance of the process.
//
// Every transition holds mu across the durable write and the in-memory
// update. Subscribers are notified after mu is released.
type Manager struct {
	store Store
	log   logging.Logger
	bus   evbus.Bus

	mu       sync.RWMutex
	phase    Phase
	token    string
	identity *models.Identity

	initOnce sync.Once
	ready    chan struct{}

	closed atomic.Bool
}

// NewManager returns a Manager in PhaseInitializing backed by store.
func NewManager(store Store, logger logging.Logger) *Manager {
	return &Manager{
		store: store,
		log:   logger.With("component", "session"),
		bus:   evbus.New(),
		phase: PhaseInitializing,
		ready: make(chan struct{}),
	}
}

// Initialize resumes a stored session. It runs once per Manager; later calls
// return immediately. Failures never surface as errors: the stored
// credential is discarded and the session ends up Unauthenticated.
func (m *Manager) Initialize(ctx context.Context, v Validator) error {
	if v == nil {
		return ErrNilValidator
	}
	m.initOnce.Do(func() {
		defer close(m.ready)
		m.resume(ctx, v)
	})
	return nil
}

// Ready is closed once Initialize has finished.
func (m *Manager) Ready() <-chan struct{} {
	return m.ready
}

func (m *Manager) resume(ctx context.Context, v Validator) {
	token, err := m.store.LoadCredential(ctx)
	if err != nil {
		m.log.Warn(ctx, "failed to read stored credential", "error", err)
		m.discardResume(ctx)
		return
	}
	if token == "" {
		m.settle(PhaseUnauthenticated, ReasonNoCredential)
		return
	}

	identity, err := v.Validate(ctx, token)
	if err == nil && identity == nil {
		err = errors.New("validator returned no identity")
	}
	if err != nil {
		m.log.Info(ctx, "stored session rejected", "error", err)
		m.discardResume(ctx)
		return
	}

	m.mu.Lock()
	if m.phase != PhaseInitializing {
		// a login or logout happened while validating; it wins
		m.mu.Unlock()
		return
	}
	id := *identity
	m.token, m.identity, m.phase = token, &id, PhaseAuthenticated
	m.mu.Unlock()

	m.log.Info(ctx, "session resumed", "user_id", id.UserID)
	m.publish(Transition{From: PhaseInitializing, To: PhaseAuthenticated, Reason: ReasonResumed})
}

func (m *Manager) discardResume(ctx context.Context) {
	m.mu.Lock()
	if m.phase != PhaseInitializing {
		m.mu.Unlock()
		return
	}
	if err := m.store.ClearCredential(ctx); err != nil {
		m.log.Error(ctx, "failed to clear stored credential", "error", err)
	}
	m.token, m.identity, m.phase = "", nil, PhaseUnauthenticated
	m.mu.Unlock()

	m.publish(Transition{From: PhaseInitializing, To: PhaseUnauthenticated, Reason: ReasonResumeFailed})
}

// settle moves Initializing to the given phase without touching the store.
func (m *Manager) settle(to Phase, reason string) {
	m.mu.Lock()
	if m.phase != PhaseInitializing {
		m.mu.Unlock()
		return
	}
	m.phase = to
	m.mu.Unlock()

	m.publish(Transition{From: PhaseInitializing, To: to, Reason: reason})
}

// Login installs a credential obtained from the auth endpoint. The durable
// store is written first; if that fails nothing changes.
func (m *Manager) Login(ctx context.Context, token string, identity *models.Identity) error {
	if strings.TrimSpace(token) == "" || identity == nil {
		return ErrInvalidCredential
	}

	m.mu.Lock()
	if err := m.store.SaveCredential(ctx, token); err != nil {
		m.mu.Unlock()
		return fmt.Errorf("persist credential: %w", err)
	}
	from := m.phase
	id := *identity
	m.token, m.identity, m.phase = token, &id, PhaseAuthenticated
	m.mu.Unlock()

	m.log.Info(ctx, "logged in", "user_id", id.UserID)
	m.publish(Transition{From: from, To: PhaseAuthenticated, Reason: ReasonLogin})
	return nil
}

// BeginAuthenticating marks a login attempt in flight. Only an
// Unauthenticated session can enter the phase.
func (m *Manager) BeginAuthenticating() bool {
	return m.swap(PhaseUnauthenticated, PhaseAuthenticating, ReasonAuthenticating)
}

// CancelAuthenticating returns to Unauthenticated after a failed attempt.
func (m *Manager) CancelAuthenticating() bool {
	return m.swap(PhaseAuthenticating, PhaseUnauthenticated, ReasonCancelled)
}

func (m *Manager) swap(from, to Phase, reason string) bool {
	m.mu.Lock()
	if m.phase != from {
		m.mu.Unlock()
		return false
	}
	m.phase = to
	m.mu.Unlock()

	m.publish(Transition{From: from, To: to, Reason: reason})
	return true
}

// Logout forgets the session. It is idempotent. Memory is cleared even when
// the durable delete fails; that error is returned for reporting only.
func (m *Manager) Logout(ctx context.Context) error {
	return m.clear(ctx, "", ReasonLogout)
}

// Expire is the forced logout issued after an authentication failure. The
// session is cleared only if it still holds token, so a late failure from an
// older credential cannot end a newer session.
func (m *Manager) Expire(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return m.clear(ctx, token, ReasonExpired)
}

func (m *Manager) clear(ctx context.Context, expect, reason string) error {
	m.mu.Lock()
	if expect != "" && m.token != expect {
		m.mu.Unlock()
		return nil
	}
	err := m.store.ClearCredential(ctx)
	from := m.phase
	m.token, m.identity, m.phase = "", nil, PhaseUnauthenticated
	m.mu.Unlock()

	if from != PhaseUnauthenticated {
		if reason == ReasonExpired {
			m.log.Warn(ctx, "session expired")
		} else {
			m.log.Info(ctx, "logged out")
		}
		m.publish(Transition{From: from, To: PhaseUnauthenticated, Reason: reason})
	}

	if err != nil {
		m.log.Error(ctx, "failed to clear stored credential", "error", err)
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// Phase reports the current lifecycle phase.
func (m *Manager) Phase() Phase {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.phase
}

// Identity returns a copy of the current identity.
func (m *Manager) Identity() (*models.Identity, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.identity == nil {
		return nil, false
	}
	id := *m.identity
	return &id, true
}

// Token returns the current credential, or "" when there is none. A stored
// credential is not exposed until it has been validated.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Authenticated reports whether the session holds a validated credential.
func (m *Manager) Authenticated() bool {
	return m.Phase() == PhaseAuthenticated
}

// Subscribe registers fn for phase transitions. Each notification runs on
// its own goroutine, so fn may call back into the Manager; delivery order
// across transitions is not guaranteed. fn is identified by its function
// value when unsubscribing.
func (m *Manager) Subscribe(fn func(Transition)) (func(), error) {
	if m.closed.Load() {
		return nil, ErrClosed
	}
	if err := m.bus.SubscribeAsync(phaseTopic, fn, false); err != nil {
		return nil, fmt.Errorf("subscribe: %w", err)
	}
	return func() { _ = m.bus.Unsubscribe(phaseTopic, fn) }, nil
}

// Wait blocks until every notification published so far has been handled.
func (m *Manager) Wait() {
	m.bus.WaitAsync()
}

// Close stops notifications and waits for the pending ones to finish.
// Transitions still apply after Close, but nobody is told about them and
// Subscribe fails with ErrClosed. Close is idempotent.
func (m *Manager) Close() {
	m.closed.Store(true)
	m.bus.WaitAsync()
}

func (m *Manager) publish(t Transition) {
	if m.closed.Load() {
		return
	}
	m.bus.Publish(phaseTopic, t)
}
