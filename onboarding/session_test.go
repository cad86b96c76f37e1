package onboarding

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, storage Storage, clock *fixedClock) *Registry {
	t.Helper()
	bank := NewBank(rand.New(rand.NewSource(7)))
	return NewRegistry(storage, bank, Config{IdleTimeout: 30 * time.Minute}, WithRegistryClock(clock.now))
}

func createSession(t *testing.T, r *Registry) *Session {
	t.Helper()
	s, err := r.Create()
	require.NoError(t, err)
	return s
}

func getSession(t *testing.T, r *Registry, id string) *Session {
	t.Helper()
	s, err := r.Get(id)
	require.NoError(t, err)
	return s
}

func TestSessionFollowUpRoundTrip(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	s := createSession(t, r)
	require.NoError(t, s.SetAnswer(QMainConcern, "stress"))

	p, err := s.Continue("q2-main-concern", false)
	require.NoError(t, err)
	require.Len(t, p.Steps, 1)
	assert.Equal(t, StepFollowUpPrompt, p.Steps[0].Kind)
	require.NotNil(t, p.Pending)
	assert.False(t, p.Done)
	assert.Equal(t, 10, p.Coins)

	_, err = s.Continue("q2-main-concern", false)
	assert.ErrorIs(t, err, ErrInFlight)

	_, err = s.Acknowledge()
	assert.ErrorIs(t, err, ErrWrongStep)
	_, err = s.SelectOption(99)
	assert.ErrorIs(t, err, ErrUnknownOption)

	p, err = s.SelectOption(p.Pending.FollowUp.Options[3].ID)
	require.NoError(t, err)
	require.Len(t, p.Steps, 1)
	assert.Equal(t, StepCoinToast, p.Steps[0].Kind)
	assert.Equal(t, 25, p.Steps[0].Amount)

	p, err = s.Acknowledge()
	require.NoError(t, err)
	assert.True(t, p.Done)
	assert.Equal(t, "q3-biggest-challenge", p.Next)
	assert.Nil(t, p.Pending)
	assert.Empty(t, p.Steps)
	assert.Equal(t, 25, p.Coins)

	_, err = s.Acknowledge()
	assert.ErrorIs(t, err, ErrNoPendingStep)

	review := s.Review()
	require.Len(t, review.FollowUps, 1)
	assert.Equal(t, 4, review.FollowUps[0].OptionID)
}

func TestSessionRejectsUnknownPage(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	_, err := createSession(t, r).Continue("nowhere", false)
	assert.ErrorIs(t, err, ErrUnknownPage)
}

func TestSessionNeitherFinishesInOneCall(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	s := createSession(t, r)

	p, err := s.Continue("loading", false)
	require.NoError(t, err)
	assert.True(t, p.Done)
	assert.Equal(t, "q2-main-concern", p.Next)
	assert.Empty(t, p.Steps)
}

func TestSessionEditReturnsToReview(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	s := createSession(t, r)
	require.NoError(t, s.SetAnswer(QPastExperience, "failed"))

	p, err := s.Continue("q4-past-experience", true)
	require.NoError(t, err)
	require.Len(t, p.Steps, 1)
	assert.Equal(t, StepCoinToast, p.Steps[0].Kind)

	p, err = s.Acknowledge()
	require.NoError(t, err)
	assert.Equal(t, PageReview, p.Next)
}

func TestSessionCompleteReview(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	s := createSession(t, r)

	p, err := s.CompleteReview()
	require.NoError(t, err)
	require.Len(t, p.Steps, 2)
	assert.Equal(t, StepCelebration, p.Steps[0].Kind)
	assert.Equal(t, StepCoinToast, p.Steps[1].Kind)
	assert.Equal(t, 100, p.Steps[1].Amount)

	p, err = s.Acknowledge()
	require.NoError(t, err)
	assert.Equal(t, "challenges-intro", p.Next)

	p, err = s.CompleteReview()
	require.NoError(t, err)
	assert.True(t, p.Done)
	assert.Equal(t, 100, p.Coins)
}

func TestSessionConcurrentContinueIsSingleFlight(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	s := createSession(t, r)
	require.NoError(t, s.SetAnswer(QMotivation, "health"))

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, busy int
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Continue("q6-motivation", false)
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if assert.ErrorIs(t, err, ErrInFlight) {
				busy++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 15, busy)
	assert.Equal(t, 10, s.Snapshot().Coins)
}

func TestSessionReloadsFromStorage(t *testing.T) {
	storage := NewMemoryStorage()
	clock := newClock()
	s := createSession(t, newTestRegistry(t, storage, clock))
	require.NoError(t, s.SetAnswer(QHealthFeeling, "well"))
	_, err := s.Continue("q1-health-feeling", false)
	require.NoError(t, err)

	snap := getSession(t, newTestRegistry(t, storage, clock), s.ID()).Snapshot()
	assert.Equal(t, 10, snap.Coins)
	assert.Equal(t, "well", snap.Answers[QHealthFeeling])
	assert.Equal(t, StateIdle.String(), snap.State)
	assert.Nil(t, snap.Pending)
}

func TestSessionReset(t *testing.T) {
	r := newTestRegistry(t, NewMemoryStorage(), newClock())
	s := createSession(t, r)
	require.NoError(t, s.SetAnswer(QMainConcern, "sleep"))
	_, err := s.Continue("q2-main-concern", false)
	require.NoError(t, err)

	require.NoError(t, s.Reset())
	snap := s.Snapshot()
	assert.Zero(t, snap.Coins)
	assert.Empty(t, snap.Answers)
	assert.Nil(t, snap.Pending)
	assert.Equal(t, "idle", snap.State)

	_, err = s.Continue("q2-main-concern", false)
	assert.NoError(t, err)
}

func TestRegistryCompleteClearsState(t *testing.T) {
	storage := NewMemoryStorage()
	r := newTestRegistry(t, storage, newClock())
	s := createSession(t, r)
	require.NoError(t, s.SetAnswer(QCommitment, "all-in"))
	require.Positive(t, storage.Len())

	require.NoError(t, r.Complete(s.ID()))
	assert.Zero(t, r.Len())
	assert.Zero(t, storage.Len())
}

func TestCompletedSessionRejectsLateWrites(t *testing.T) {
	storage := NewMemoryStorage()
	r := newTestRegistry(t, storage, newClock())
	s := createSession(t, r)
	require.NoError(t, s.SetAnswer(QMainConcern, "stress"))

	// s is still held by an in-flight request when the session completes
	require.NoError(t, r.Complete(s.ID()))

	assert.ErrorIs(t, s.SetAnswer(QMotivation, "health"), ErrSessionClosed)
	_, err := s.Continue("q2-main-concern", false)
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.CompleteReview()
	assert.ErrorIs(t, err, ErrSessionClosed)
	_, err = s.Acknowledge()
	assert.ErrorIs(t, err, ErrSessionClosed)
	assert.ErrorIs(t, s.Reset(), ErrSessionClosed)
	assert.ErrorIs(t, r.Complete(s.ID()), ErrSessionClosed)
	assert.Zero(t, storage.Len())
}

func TestCompleteRacingWritesLeavesNoRecord(t *testing.T) {
	storage := NewMemoryStorage()
	r := newTestRegistry(t, storage, newClock())
	s := createSession(t, r)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = s.SetAnswer(QHealthFeeling, "well")
		}()
	}
	require.NoError(t, r.Complete(s.ID()))
	wg.Wait()

	assert.Zero(t, storage.Len())
}

func TestRegistryGetDoesNotCacheUnreadableSession(t *testing.T) {
	storage := &failingReads{MemoryStorage: NewMemoryStorage(), suffix: ":ts"}
	clock := newClock()
	s := createSession(t, newTestRegistry(t, storage, clock))
	require.NoError(t, s.SetAnswer(QMainConcern, "stress"))
	_, err := s.Continue("q2-main-concern", false)
	require.NoError(t, err)

	r := newTestRegistry(t, storage, clock)
	storage.failing.Store(true)
	_, err = r.Get(s.ID())
	assert.ErrorIs(t, err, ErrStateUnavailable)
	assert.Zero(t, r.Len())
	assert.Equal(t, 2, storage.Len())

	storage.failing.Store(false)
	assert.Equal(t, 10, getSession(t, r, s.ID()).Snapshot().Coins)
}

func TestRegistryEvictIdle(t *testing.T) {
	clock := newClock()
	r := newTestRegistry(t, NewMemoryStorage(), clock)
	idle := createSession(t, r)
	active := createSession(t, r)

	clock.advance(20 * time.Minute)
	active.Snapshot()
	clock.advance(20 * time.Minute)

	assert.Equal(t, 1, r.EvictIdle())
	assert.Equal(t, 1, r.Len())
	assert.Zero(t, r.EvictIdle())

	// evicted sessions come back from storage on demand
	assert.Equal(t, idle.ID(), getSession(t, r, idle.ID()).ID())
	assert.Equal(t, 2, r.Len())
}
