package onboarding

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrInFlight is returned when a sequence is started while another one waits on the client.
	ErrInFlight = errors.New("progression already in flight")
	// ErrUnknownPage is returned for pages outside the onboarding flow.
	ErrUnknownPage = errors.New("unknown onboarding page")
	// ErrSessionClosed is returned by a session that was already completed.
	ErrSessionClosed = errors.New("onboarding session completed")
)

// Config tunes the sessions a Registry creates.
type Config struct {
	Rewards            Rewards
	MaxAge             time.Duration
	KeyPrefix          string
	FollowUpPages      []string
	InformationalPages []string
	IdleTimeout        time.Duration
}

func (c Config) withDefaults() Config {
	if c.Rewards == (Rewards{}) {
		c.Rewards = DefaultRewards()
	}
	if c.MaxAge <= 0 {
		c.MaxAge = DefaultMaxAge
	}
	if c.KeyPrefix == "" {
		c.KeyPrefix = DefaultKeyPrefix
	}
	if c.IdleTimeout <= 0 {
		c.IdleTimeout = time.Hour
	}
	return c
}

// Progress is what a client receives after every session action.
type Progress struct {
	Steps   []Step `json:"steps"`
	Pending *Step  `json:"pending,omitempty"`
	Done    bool   `json:"done"`
	Next    string `json:"next,omitempty"`
	Coins   int    `json:"coins"`
}

// Snapshot is a read-only view of a session.
type Snapshot struct {
	SessionID  string                 `json:"session_id"`
	Answers    map[QuestionKey]string `json:"answers"`
	Coins      int                    `json:"coins"`
	Completion int                    `json:"completion"`
	Complete   bool                   `json:"complete"`
	State      string                 `json:"state"`
	Pending    *Step                  `json:"pending,omitempty"`
}

// Review lists everything the review page shows.
type Review struct {
	Questions []AnsweredQuestion `json:"questions"`
	FollowUps []FollowUpAnswer   `json:"follow_ups"`
	Coins     int                `json:"coins"`
}

// Session owns one onboarding attempt. Its methods serialise on a mutex so
// concurrent requests see the single-threaded model the controller expects.
type Session struct {
	mu sync.Mutex

	id         string
	registry   *Registry
	store      *Store
	presenter  *StepPresenter
	controller *Controller
	lastSeen   time.Time

	done   bool
	next   string
	closed bool
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

func (s *Session) build() {
	r := s.registry
	s.presenter = NewStepPresenter()
	s.controller = NewController(
		s.store,
		NewPolicy(r.bank, r.cfg.FollowUpPages, r.cfg.InformationalPages),
		NewRewardEngine(s.store, r.cfg.Rewards),
		s.presenter,
		WithAnalytics(r.analytics),
		WithControllerLogger(r.log.With(zap.String("session", s.id))),
	)
}

func (s *Session) touch() { s.lastSeen = s.registry.now() }

func (s *Session) progress() Progress {
	p := Progress{Steps: s.presenter.Drain(), Done: s.done, Next: s.next, Coins: s.store.CoinCount()}
	if p.Steps == nil {
		p.Steps = []Step{}
	}
	if step, ok := s.presenter.Pending(); ok {
		p.Pending = &step
	}
	return p
}

func (s *Session) begin() {
	s.done = false
	s.next = ""
	s.presenter.Drain()
}

// SetAnswer stores an answer to a main question.
func (s *Session) SetAnswer(key QuestionKey, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.touch()
	return s.store.SetAnswer(key, value)
}

// Continue runs the progression sequence for leaving page. With edit set the
// user is sent back to the review page and no bonus content is shown.
func (s *Session) Continue(page string, edit bool) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Progress{}, ErrSessionClosed
	}
	s.touch()
	if !KnownPage(page) {
		return Progress{}, ErrUnknownPage
	}
	if s.controller.InFlight() {
		return Progress{}, ErrInFlight
	}
	s.begin()
	next, _ := NextStep(page)
	if edit {
		next = PageReview
	}
	continuation := func() {
		s.done = true
		s.next = next
	}
	if edit {
		s.controller.ContinueEditing(page, continuation)
	} else {
		s.controller.Continue(page, continuation)
	}
	return s.progress(), nil
}

// CompleteReview pays the review bonus and moves past the review page.
func (s *Session) CompleteReview() (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Progress{}, ErrSessionClosed
	}
	s.touch()
	if s.controller.InFlight() {
		return Progress{}, ErrInFlight
	}
	s.begin()
	next, _ := NextStep(PageReview)
	s.controller.CompleteReview(func() {
		s.done = true
		s.next = next
	})
	return s.progress(), nil
}

func (s *Session) resolve(fn func(p *StepPresenter) error) (Progress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return Progress{}, ErrSessionClosed
	}
	s.touch()
	if err := fn(s.presenter); err != nil {
		return Progress{}, err
	}
	return s.progress(), nil
}

// SelectOption answers the pending follow-up question.
func (s *Session) SelectOption(optionID int) (Progress, error) {
	return s.resolve(func(p *StepPresenter) error { return p.SelectOption(optionID) })
}

// SkipFollowUp dismisses the pending follow-up question.
func (s *Session) SkipFollowUp() (Progress, error) {
	return s.resolve(func(p *StepPresenter) error { return p.Skip() })
}

// CloseInformational closes the pending informational prompt.
func (s *Session) CloseInformational(hideAgain bool) (Progress, error) {
	return s.resolve(func(p *StepPresenter) error { return p.CloseInformational(hideAgain) })
}

// Acknowledge dismisses the pending coin toast.
func (s *Session) Acknowledge() (Progress, error) {
	return s.resolve(func(p *StepPresenter) error { return p.Acknowledge() })
}

// Snapshot returns the current answers, coins and pending step.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	answers := map[QuestionKey]string{}
	for _, a := range s.store.AnsweredQuestions() {
		answers[a.Key] = a.Value
	}
	snap := Snapshot{
		SessionID:  s.id,
		Answers:    answers,
		Coins:      s.store.CoinCount(),
		Completion: s.store.CompletionPercentage(),
		Complete:   s.store.IsComplete(),
		State:      s.controller.State().String(),
	}
	if step, ok := s.presenter.Pending(); ok {
		snap.Pending = &step
	}
	return snap
}

// Review returns the answered questions and follow-up answers.
func (s *Session) Review() Review {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return Review{
		Questions: s.store.AnsweredQuestions(),
		FollowUps: s.store.FollowUpAnswers(),
		Coins:     s.store.CoinCount(),
	}
}

// Reset clears all state and abandons any sequence in flight.
func (s *Session) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrSessionClosed
	}
	s.touch()
	s.store.ResetAll()
	s.done, s.next = false, ""
	s.build()
	return nil
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithRegistryAnalytics sets the analytics sink shared by all sessions.
func WithRegistryAnalytics(a Analytics) RegistryOption {
	return func(r *Registry) {
		if a != nil {
			r.analytics = a
		}
	}
}

// WithRegistryLogger sets the logger shared by all sessions.
func WithRegistryLogger(l *zap.Logger) RegistryOption {
	return func(r *Registry) {
		if l != nil {
			r.log = l
		}
	}
}

// WithRegistryClock replaces time.Now for idle tracking and persistence.
func WithRegistryClock(now func() time.Time) RegistryOption {
	return func(r *Registry) {
		if now != nil {
			r.now = now
		}
	}
}

// Registry keeps the live sessions of the process. Sessions not in memory
// are reloaded from storage on demand.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	storage   Storage
	bank      *Bank
	cfg       Config
	analytics Analytics
	log       *zap.Logger
	now       func() time.Time
}

// NewRegistry returns a registry persisting into storage.
func NewRegistry(storage Storage, bank *Bank, cfg Config, opts ...RegistryOption) *Registry {
	r := &Registry{
		sessions:  map[string]*Session{},
		storage:   storage,
		bank:      bank,
		cfg:       cfg.withDefaults(),
		analytics: nopAnalytics{},
		log:       zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Config returns the effective session configuration.
func (r *Registry) Config() Config { return r.cfg }

func (r *Registry) open(id string) (*Session, error) {
	store, err := NewStore(id, r.storage,
		WithMaxAge(r.cfg.MaxAge),
		WithKeyPrefix(r.cfg.KeyPrefix),
		WithClock(r.now),
		WithStoreLogger(r.log),
	)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:       id,
		registry: r,
		store:    store,
		lastSeen: r.now(),
	}
	s.build()
	return s, nil
}

// Create starts a new session with a fresh id.
func (r *Registry) Create() (*Session, error) {
	s, err := r.open(uuid.NewString())
	if err != nil {
		return nil, err
	}
	r.mu.Lock()
	r.sessions[s.id] = s
	r.mu.Unlock()
	r.analytics.Track(Event{SessionID: s.id, Name: "session_started", At: r.now()})
	return s, nil
}

// Get returns the live session for id, loading it from storage if needed.
// A session whose record cannot be read is not cached.
func (r *Registry) Get(id string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.sessions[id]; ok {
		return s, nil
	}
	s, err := r.open(id)
	if err != nil {
		return nil, err
	}
	r.sessions[id] = s
	return s, nil
}

// Complete clears the session's state and forgets it. Callers still holding
// the session get ErrSessionClosed from then on.
func (r *Registry) Complete(id string) error {
	s, err := r.Get(id)
	if err != nil {
		return err
	}
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrSessionClosed
	}
	coins := s.store.CoinCount()
	s.closed = true
	s.store.ResetAll()
	s.mu.Unlock()
	r.Forget(id)
	r.analytics.Track(Event{SessionID: id, Name: "onboarding_completed", Coins: coins, At: r.now()})
	return nil
}

// Forget drops the in-memory session. Persisted state is left alone.
func (r *Registry) Forget(id string) {
	r.mu.Lock()
	delete(r.sessions, id)
	r.mu.Unlock()
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// EvictIdle forgets sessions idle for longer than the idle timeout and
// returns how many were dropped. A pending prompt of an evicted session is
// lost; its page stays marked as triggered.
func (r *Registry) EvictIdle() int {
	cutoff := r.now().Add(-r.cfg.IdleTimeout)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, s := range r.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(r.sessions, id)
			n++
		}
	}
	if n > 0 {
		r.log.Debug("evicted idle onboarding sessions", zap.Int("count", n))
	}
	return n
}
