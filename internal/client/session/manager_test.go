package session

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/embauco/internal/client/models"
	"github.com/dmitrijs2005/embauco/internal/logging"
)

// ---- fakes ----

type fakeStore struct {
	mu       sync.Mutex
	token    string
	LoadErr  error
	SaveErr  error
	ClearErr error

	Saves  int
	Clears int
}

func (s *fakeStore) LoadCredential(context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return "", s.LoadErr
	}
	return s.token, nil
}

func (s *fakeStore) SaveCredential(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Saves++
	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.token = token
	return nil
}

func (s *fakeStore) ClearCredential(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Clears++
	if s.ClearErr != nil {
		return s.ClearErr
	}
	s.token = ""
	return nil
}

func (s *fakeStore) stored() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

type fakeValidator struct {
	Identity *models.Identity
	Err      error

	Calls     int
	LastToken string

	// hook runs inside Validate, before it returns
	hook func()
}

func (v *fakeValidator) Validate(_ context.Context, token string) (*models.Identity, error) {
	v.Calls++
	v.LastToken = token
	if v.hook != nil {
		v.hook()
	}
	return v.Identity, v.Err
}

type recorder struct {
	mu  sync.Mutex
	got []Transition
}

func (r *recorder) record(t Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.got = append(r.got, t)
}

func (r *recorder) all() []Transition {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Transition(nil), r.got...)
}

func newManager(t *testing.T, store Store) *Manager {
	t.Helper()
	m := NewManager(store, logging.Discard())
	t.Cleanup(m.Close)
	return m
}

var alice = &models.Identity{UserID: "u1", Email: "a@b.com", Name: "Alice"}

// ---- Initialize ----

func TestInitialize_NoStoredCredential(t *testing.T) {
	store := &fakeStore{}
	v := &fakeValidator{Identity: alice}
	m := newManager(t, store)

	require.Equal(t, PhaseInitializing, m.Phase())
	require.NoError(t, m.Initialize(context.Background(), v))

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Equal(t, 0, v.Calls, "no validation without a stored credential")
	assert.Equal(t, 0, store.Clears)
	_, ok := m.Identity()
	assert.False(t, ok)

	select {
	case <-m.Ready():
	default:
		t.Fatal("Ready must be closed after Initialize")
	}
}

func TestInitialize_ResumesValidCredential(t *testing.T) {
	store := &fakeStore{token: "T0"}
	v := &fakeValidator{Identity: alice}
	m := newManager(t, store)

	require.NoError(t, m.Initialize(context.Background(), v))

	assert.Equal(t, PhaseAuthenticated, m.Phase())
	assert.Equal(t, "T0", v.LastToken)
	assert.Equal(t, "T0", m.Token())
	id, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, "u1", id.UserID)
}

func TestInitialize_RejectedCredentialIsCleared(t *testing.T) {
	store := &fakeStore{token: "stale"}
	v := &fakeValidator{Err: errors.New("401")}
	m := newManager(t, store)

	require.NoError(t, m.Initialize(context.Background(), v))

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, store.stored(), "no stale credential may survive a failed resume")
	assert.Empty(t, m.Token())
	_, ok := m.Identity()
	assert.False(t, ok)
}

func TestInitialize_NilIdentityCountsAsFailure(t *testing.T) {
	store := &fakeStore{token: "T0"}
	m := newManager(t, store)

	require.NoError(t, m.Initialize(context.Background(), &fakeValidator{}))

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, store.stored())
}

func TestInitialize_StorageReadFailure(t *testing.T) {
	store := &fakeStore{LoadErr: errors.New("disk")}
	v := &fakeValidator{Identity: alice}
	m := newManager(t, store)

	require.NoError(t, m.Initialize(context.Background(), v))

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Equal(t, 0, v.Calls)
	assert.Equal(t, 1, store.Clears)
}

func TestInitialize_RunsOnce(t *testing.T) {
	store := &fakeStore{token: "T0"}
	v := &fakeValidator{Identity: alice}
	m := newManager(t, store)

	require.NoError(t, m.Initialize(context.Background(), v))
	require.NoError(t, m.Logout(context.Background()))
	store.token = "T-other"
	require.NoError(t, m.Initialize(context.Background(), v))

	assert.Equal(t, 1, v.Calls)
	assert.Equal(t, PhaseUnauthenticated, m.Phase())
}

func TestInitialize_NilValidator(t *testing.T) {
	m := newManager(t, &fakeStore{})
	require.ErrorIs(t, m.Initialize(context.Background(), nil), ErrNilValidator)
	assert.Equal(t, PhaseInitializing, m.Phase())
}

func TestInitialize_TokenHiddenWhileValidating(t *testing.T) {
	store := &fakeStore{token: "T0"}
	m := newManager(t, store)

	var seen string
	var phase Phase
	v := &fakeValidator{Identity: alice}
	v.hook = func() {
		seen = m.Token()
		phase = m.Phase()
	}

	require.NoError(t, m.Initialize(context.Background(), v))
	assert.Empty(t, seen)
	assert.Equal(t, PhaseInitializing, phase)
}

func TestInitialize_LoginDuringValidationWins(t *testing.T) {
	store := &fakeStore{token: "old"}
	m := newManager(t, store)

	v := &fakeValidator{Err: errors.New("rejected")}
	v.hook = func() {
		require.NoError(t, m.Login(context.Background(), "fresh", alice))
	}

	require.NoError(t, m.Initialize(context.Background(), v))

	assert.Equal(t, PhaseAuthenticated, m.Phase())
	assert.Equal(t, "fresh", m.Token())
	assert.Equal(t, "fresh", store.stored(), "failed resume must not delete the newer credential")
}

// ---- Login / Logout ----

func TestLogin_StoresAndAuthenticates(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	require.NoError(t, m.Initialize(context.Background(), &fakeValidator{}))

	require.NoError(t, m.Login(context.Background(), "T1", alice))

	assert.Equal(t, PhaseAuthenticated, m.Phase())
	assert.True(t, m.Authenticated())
	assert.Equal(t, "T1", m.Token())
	assert.Equal(t, "T1", store.stored())
}

func TestLogin_RejectsEmptyInputs(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	ctx := context.Background()

	require.ErrorIs(t, m.Login(ctx, "", alice), ErrInvalidCredential)
	require.ErrorIs(t, m.Login(ctx, "   ", alice), ErrInvalidCredential)
	require.ErrorIs(t, m.Login(ctx, "T1", nil), ErrInvalidCredential)
	assert.Equal(t, 0, store.Saves)
}

func TestLogin_StorageFailureChangesNothing(t *testing.T) {
	store := &fakeStore{SaveErr: errors.New("disk full")}
	m := newManager(t, store)
	require.NoError(t, m.Initialize(context.Background(), &fakeValidator{}))

	err := m.Login(context.Background(), "T1", alice)
	require.Error(t, err)
	require.ErrorIs(t, err, store.SaveErr)

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, m.Token())
}

func TestLogin_IdentityIsCopied(t *testing.T) {
	m := newManager(t, &fakeStore{})
	id := &models.Identity{UserID: "u1"}
	require.NoError(t, m.Login(context.Background(), "T1", id))

	id.UserID = "mutated"
	got, ok := m.Identity()
	require.True(t, ok)
	assert.Equal(t, "u1", got.UserID)

	got.UserID = "mutated again"
	again, _ := m.Identity()
	assert.Equal(t, "u1", again.UserID)
}

func TestLoginThenLogout_AlwaysEndsUnauthenticated(t *testing.T) {
	cases := []struct {
		token string
		id    *models.Identity
	}{
		{"T1", alice},
		{"x", &models.Identity{}},
		{"eyJhbGciOi.payload.sig", &models.Identity{UserID: "u9", Name: "Zoe"}},
	}

	for _, c := range cases {
		store := &fakeStore{}
		m := newManager(t, store)
		ctx := context.Background()

		require.NoError(t, m.Login(ctx, c.token, c.id))
		require.NoError(t, m.Logout(ctx))

		assert.Equal(t, PhaseUnauthenticated, m.Phase())
		assert.Empty(t, m.Token())
		assert.Empty(t, store.stored())
		_, ok := m.Identity()
		assert.False(t, ok)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	rec := &recorder{}
	_, err := m.Subscribe(rec.record)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Login(ctx, "T1", alice))
	require.NoError(t, m.Logout(ctx))
	require.NoError(t, m.Logout(ctx))
	m.Wait()

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, store.stored())

	var logouts int
	for _, tr := range rec.all() {
		if tr.Reason == ReasonLogout {
			logouts++
		}
	}
	assert.Equal(t, 1, logouts, "second logout is a no-op")
}

func TestLogout_StorageFailureStillClearsMemory(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "T1", alice))

	store.ClearErr = errors.New("locked")
	err := m.Logout(ctx)
	require.ErrorIs(t, err, store.ClearErr)

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, m.Token())
}

// ---- Expire ----

func TestExpire_ClearsMatchingCredential(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "T1", alice))

	require.NoError(t, m.Expire(ctx, "T1"))

	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, store.stored())
}

func TestExpire_IgnoresStaleCredential(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Login(ctx, "T2", alice))

	require.NoError(t, m.Expire(ctx, "T1"))
	require.NoError(t, m.Expire(ctx, ""))

	assert.Equal(t, PhaseAuthenticated, m.Phase())
	assert.Equal(t, "T2", store.stored())
	assert.Equal(t, 0, store.Clears)
}

// ---- Authenticating sub-phase ----

func TestAuthenticatingSubPhase(t *testing.T) {
	m := newManager(t, &fakeStore{})
	ctx := context.Background()

	assert.False(t, m.BeginAuthenticating(), "not allowed while initializing")

	require.NoError(t, m.Initialize(ctx, &fakeValidator{}))
	require.True(t, m.BeginAuthenticating())
	assert.Equal(t, PhaseAuthenticating, m.Phase())
	assert.False(t, m.BeginAuthenticating())

	require.True(t, m.CancelAuthenticating())
	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.False(t, m.CancelAuthenticating())

	require.True(t, m.BeginAuthenticating())
	require.NoError(t, m.Login(ctx, "T1", alice))
	assert.Equal(t, PhaseAuthenticated, m.Phase())
	assert.False(t, m.CancelAuthenticating())
}

// ---- notifications ----

func TestSubscribe_ReceivesTransitions(t *testing.T) {
	m := newManager(t, &fakeStore{token: "T0"})
	rec := &recorder{}
	_, err := m.Subscribe(rec.record)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, m.Initialize(ctx, &fakeValidator{Identity: alice}))
	require.NoError(t, m.Expire(ctx, "T0"))
	m.Wait()

	assert.ElementsMatch(t, []Transition{
		{From: PhaseInitializing, To: PhaseAuthenticated, Reason: ReasonResumed},
		{From: PhaseAuthenticated, To: PhaseUnauthenticated, Reason: ReasonExpired},
	}, rec.all())
}

func TestSubscribe_Unsubscribe(t *testing.T) {
	m := newManager(t, &fakeStore{})
	rec := &recorder{}
	unsubscribe, err := m.Subscribe(rec.record)
	require.NoError(t, err)

	unsubscribe()
	require.NoError(t, m.Login(context.Background(), "T1", alice))
	m.Wait()

	assert.Empty(t, rec.all())
}

func TestClose_DrainsThenStopsNotifications(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	ctx := context.Background()
	rec := &recorder{}
	_, err := m.Subscribe(rec.record)
	require.NoError(t, err)

	require.NoError(t, m.Login(ctx, "T1", alice))
	m.Close()
	require.Len(t, rec.all(), 1, "pending notification delivered before Close returns")

	require.NoError(t, m.Logout(ctx))
	m.Wait()
	assert.Len(t, rec.all(), 1)
	assert.Equal(t, PhaseUnauthenticated, m.Phase())
	assert.Empty(t, store.stored())

	_, err = m.Subscribe(func(Transition) {})
	require.ErrorIs(t, err, ErrClosed)

	m.Close()
}

func TestSubscribe_HandlerMayCallBack(t *testing.T) {
	m := newManager(t, &fakeStore{})
	ctx := context.Background()

	var mu sync.Mutex
	var phaseInHandler Phase
	_, err := m.Subscribe(func(tr Transition) {
		if tr.Reason != ReasonLogin {
			return
		}
		_ = m.Logout(ctx)
		mu.Lock()
		phaseInHandler = m.Phase()
		mu.Unlock()
	})
	require.NoError(t, err)

	require.NoError(t, m.Login(ctx, "T1", alice))
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, PhaseUnauthenticated, phaseInHandler)
	assert.Equal(t, PhaseUnauthenticated, m.Phase())
}

func TestConcurrentTransitions_StoreAndMemoryAgree(t *testing.T) {
	store := &fakeStore{}
	m := newManager(t, store)
	ctx := context.Background()
	require.NoError(t, m.Initialize(ctx, &fakeValidator{}))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			_ = m.Login(ctx, "T1", alice)
		}()
		go func() {
			defer wg.Done()
			_ = m.Logout(ctx)
		}()
	}
	wg.Wait()

	assert.Equal(t, store.stored(), m.Token())
	assert.Equal(t, m.Token() != "", m.Authenticated())
}

func TestPhase_String(t *testing.T) {
	assert.Equal(t, "initializing", PhaseInitializing.String())
	assert.Equal(t, "unauthenticated", PhaseUnauthenticated.String())
	assert.Equal(t, "authenticating", PhaseAuthenticating.String())
	assert.Equal(t, "authenticated", PhaseAuthenticated.String())
	assert.Equal(t, "unknown", Phase(42).String())
}
