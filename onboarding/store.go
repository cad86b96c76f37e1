package onboarding

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"go.uber.org/zap"
)

const (
	// SourceReviewCompletion is the ledger key of the one-time review bonus.
	SourceReviewCompletion = "review_completion"

	// DefaultMaxAge is how long a persisted record stays usable.
	DefaultMaxAge = 7 * 24 * time.Hour
	// DefaultKeyPrefix namespaces every persisted key.
	DefaultKeyPrefix = "betterfly"
)

var (
	// ErrUnknownQuestion is returned for answers to a key outside the question catalog.
	ErrUnknownQuestion = errors.New("unknown question key")
	// ErrStateUnavailable is returned when the persisted record cannot be read.
	// The record is left untouched so a later load can recover it.
	ErrStateUnavailable = errors.New("onboarding state unavailable")
)

// FollowUpAnswer is the option a user picked on a follow-up question.
type FollowUpAnswer struct {
	QuestionID  string      `json:"question_id"`
	QuestionKey QuestionKey `json:"question_key"`
	Title       string      `json:"title"`
	Prompt      string      `json:"prompt"`
	OptionID    int         `json:"option_id"`
	OptionText  string      `json:"option_text"`
}

// AnsweredQuestion is one entry of the review list.
type AnsweredQuestion struct {
	Key   QuestionKey `json:"key"`
	Value string      `json:"value"`
	Page  string      `json:"page"`
}

type stringSet map[string]struct{}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

func (s stringSet) add(v string) bool {
	if s.has(v) {
		return false
	}
	s[v] = struct{}{}
	return true
}

func (s stringSet) sorted() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func (s stringSet) clone() map[string]struct{} {
	out := make(map[string]struct{}, len(s))
	for v := range s {
		out[v] = struct{}{}
	}
	return out
}

func newStringSet(items []string) stringSet {
	s := make(stringSet, len(items))
	for _, v := range items {
		s[v] = struct{}{}
	}
	return s
}

type persistedCoins struct {
	Count            int      `json:"count"`
	CompletedSources []string `json:"completed_sources"`
}

type persistedSession struct {
	TriggeredPages         []string         `json:"triggered_pages"`
	ShownQuestions         []string         `json:"shown_questions"`
	InformationalTriggered []string         `json:"informational_triggered"`
	ShownInformational     []string         `json:"shown_informational"`
	HideInformational      bool             `json:"hide_informational"`
	Answers                []FollowUpAnswer `json:"answers"`
}

type persistedState struct {
	Answers  map[QuestionKey]string `json:"answers"`
	Coins    persistedCoins         `json:"coins"`
	FollowUp persistedSession       `json:"follow_up"`
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithMaxAge sets the staleness window of persisted records.
func WithMaxAge(d time.Duration) StoreOption {
	return func(s *Store) {
		if d > 0 {
			s.maxAge = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithKeyPrefix sets the storage key namespace.
func WithKeyPrefix(prefix string) StoreOption {
	return func(s *Store) {
		if prefix != "" {
			s.prefix = prefix
		}
	}
}

// WithStoreLogger attaches a logger for swallowed storage failures.
func WithStoreLogger(l *zap.Logger) StoreOption {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Store holds one session's answers, coin ledger and prompt bookkeeping.
// Every mutating method persists before it returns. A Store is not safe for
// concurrent use; callers serialise access per session.
type Store struct {
	sessionID string
	storage   Storage
	prefix    string
	maxAge    time.Duration
	now       func() time.Time
	log       *zap.Logger

	answers   map[QuestionKey]string
	coins     int
	completed stringSet

	triggeredPages         stringSet
	shownQuestions         stringSet
	informationalTriggered stringSet
	shownInformational     stringSet
	hideInformational      bool
	followUpAnswers        []FollowUpAnswer
}

// NewStore loads the persisted record for sessionID, falling back to an
// empty state when the record is absent, corrupt or stale. A storage read
// failure returns ErrStateUnavailable instead of an empty store.
func NewStore(sessionID string, storage Storage, opts ...StoreOption) (*Store, error) {
	s := &Store{
		sessionID: sessionID,
		storage:   storage,
		prefix:    DefaultKeyPrefix,
		maxAge:    DefaultMaxAge,
		now:       time.Now,
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.clear()
	if err := s.load(); err != nil {
		return nil, err
	}
	return s, nil
}

// SessionID returns the session this store belongs to.
func (s *Store) SessionID() string { return s.sessionID }

// SessionKeyPattern is the glob matching every persisted session record under prefix.
func SessionKeyPattern(prefix string) string {
	return prefix + ":onboarding:*:state"
}

func (s *Store) stateKey() string {
	return s.prefix + ":onboarding:" + s.sessionID + ":state"
}

func (s *Store) timestampKey() string {
	return s.prefix + ":onboarding:" + s.sessionID + ":ts"
}

func (s *Store) clear() {
	s.answers = map[QuestionKey]string{}
	s.coins = 0
	s.completed = stringSet{}
	s.triggeredPages = stringSet{}
	s.shownQuestions = stringSet{}
	s.informationalTriggered = stringSet{}
	s.shownInformational = stringSet{}
	s.hideInformational = false
	s.followUpAnswers = nil
}

func (s *Store) load() error {
	raw, ok, err := s.storage.Read(s.stateKey())
	if err != nil {
		s.log.Warn("read onboarding state failed", zap.String("session", s.sessionID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}
	if !ok {
		return nil
	}
	stale, err := s.stale()
	if err != nil {
		s.log.Warn("read onboarding timestamp failed", zap.String("session", s.sessionID), zap.Error(err))
		return fmt.Errorf("%w: %w", ErrStateUnavailable, err)
	}
	if stale {
		s.log.Info("discarding stale onboarding state", zap.String("session", s.sessionID))
		s.removePersisted()
		return nil
	}
	var st persistedState
	if err := json.Unmarshal([]byte(raw), &st); err != nil {
		s.log.Warn("discarding corrupt onboarding state", zap.String("session", s.sessionID), zap.Error(err))
		s.removePersisted()
		return nil
	}
	for k, v := range st.Answers {
		if ValidQuestionKey(k) && v != "" {
			s.answers[k] = v
		}
	}
	if st.Coins.Count > 0 {
		s.coins = st.Coins.Count
	}
	s.completed = newStringSet(st.Coins.CompletedSources)
	s.triggeredPages = newStringSet(st.FollowUp.TriggeredPages)
	s.shownQuestions = newStringSet(st.FollowUp.ShownQuestions)
	s.informationalTriggered = newStringSet(st.FollowUp.InformationalTriggered)
	s.shownInformational = newStringSet(st.FollowUp.ShownInformational)
	s.hideInformational = st.FollowUp.HideInformational
	s.followUpAnswers = st.FollowUp.Answers
	return nil
}

// stale treats a missing or unparseable timestamp as expired. A failed read
// is reported as an error, never as expiry.
func (s *Store) stale() (bool, error) {
	raw, ok, err := s.storage.Read(s.timestampKey())
	if err != nil {
		return false, err
	}
	if !ok {
		return true, nil
	}
	ms, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return true, nil
	}
	return s.now().Sub(time.UnixMilli(ms)) > s.maxAge, nil
}

func (s *Store) persist() {
	st := persistedState{
		Answers: s.answers,
		Coins: persistedCoins{
			Count:            s.coins,
			CompletedSources: s.completed.sorted(),
		},
		FollowUp: persistedSession{
			TriggeredPages:         s.triggeredPages.sorted(),
			ShownQuestions:         s.shownQuestions.sorted(),
			InformationalTriggered: s.informationalTriggered.sorted(),
			ShownInformational:     s.shownInformational.sorted(),
			HideInformational:      s.hideInformational,
			Answers:                s.followUpAnswers,
		},
	}
	b, err := json.Marshal(st)
	if err != nil {
		s.log.Error("encode onboarding state failed", zap.String("session", s.sessionID), zap.Error(err))
		return
	}
	if err := s.storage.Write(s.stateKey(), string(b)); err != nil {
		s.log.Warn("write onboarding state failed", zap.String("session", s.sessionID), zap.Error(err))
		return
	}
	ts := strconv.FormatInt(s.now().UnixMilli(), 10)
	if err := s.storage.Write(s.timestampKey(), ts); err != nil {
		s.log.Warn("write onboarding timestamp failed", zap.String("session", s.sessionID), zap.Error(err))
	}
}

func (s *Store) removePersisted() {
	for _, key := range []string{s.stateKey(), s.timestampKey()} {
		if err := s.storage.Remove(key); err != nil {
			s.log.Warn("remove onboarding key failed", zap.String("key", key), zap.Error(err))
		}
	}
}

// Answer returns the stored answer for key.
func (s *Store) Answer(key QuestionKey) (string, bool) {
	v, ok := s.answers[key]
	return v, ok
}

// SetAnswer overwrites the answer for key. An empty value clears it.
func (s *Store) SetAnswer(key QuestionKey, value string) error {
	if !ValidQuestionKey(key) {
		return ErrUnknownQuestion
	}
	if value == "" {
		delete(s.answers, key)
	} else {
		s.answers[key] = value
	}
	s.persist()
	return nil
}

// Award pays amount for source once. Repeated calls for the same source pay 0.
func (s *Store) Award(source string, amount int) int {
	if amount < 0 {
		amount = 0
	}
	if !s.completed.add(source) {
		return 0
	}
	s.coins += amount
	s.persist()
	return amount
}

// Paid reports whether source has already paid out.
func (s *Store) Paid(source string) bool { return s.completed.has(source) }

// CoinCount returns the cumulative earned coins.
func (s *Store) CoinCount() int { return s.coins }

// ResetAll clears every field and removes the persisted record.
func (s *Store) ResetAll() {
	s.clear()
	s.removePersisted()
}

// PageTriggered reports whether a follow-up was already shown on page.
func (s *Store) PageTriggered(page string) bool { return s.triggeredPages.has(page) }

// MarkPageTriggered records that a follow-up was shown on page.
func (s *Store) MarkPageTriggered(page string) {
	if s.triggeredPages.add(page) {
		s.persist()
	}
}

// ShownFollowUps returns a copy of the follow-up ids already presented.
func (s *Store) ShownFollowUps() map[string]struct{} { return s.shownQuestions.clone() }

// MarkFollowUpShown records a presented follow-up question.
func (s *Store) MarkFollowUpShown(id string) {
	if s.shownQuestions.add(id) {
		s.persist()
	}
}

// InformationalTriggered reports whether informational content was shown on page.
func (s *Store) InformationalTriggered(page string) bool {
	return s.informationalTriggered.has(page)
}

// MarkInformationalTriggered records informational content shown on page.
func (s *Store) MarkInformationalTriggered(page string) {
	if s.informationalTriggered.add(page) {
		s.persist()
	}
}

// ShownInformational returns a copy of the snippet ids already presented.
func (s *Store) ShownInformational() map[string]struct{} { return s.shownInformational.clone() }

// MarkInformationalShown records a presented snippet.
func (s *Store) MarkInformationalShown(id string) {
	if s.shownInformational.add(id) {
		s.persist()
	}
}

// InformationalOptedOut reports whether the user asked to stop seeing snippets.
func (s *Store) InformationalOptedOut() bool { return s.hideInformational }

// OptOutOfInformational stops informational content for the rest of the session.
func (s *Store) OptOutOfInformational() {
	if s.hideInformational {
		return
	}
	s.hideInformational = true
	s.persist()
}

// RecordFollowUpAnswer stores the selected option, replacing an earlier answer to the same question.
func (s *Store) RecordFollowUpAnswer(a FollowUpAnswer) {
	for i := range s.followUpAnswers {
		if s.followUpAnswers[i].QuestionID == a.QuestionID {
			s.followUpAnswers[i] = a
			s.persist()
			return
		}
	}
	s.followUpAnswers = append(s.followUpAnswers, a)
	s.persist()
}

// FollowUpAnswers returns the recorded follow-up answers in answer order.
func (s *Store) FollowUpAnswers() []FollowUpAnswer {
	out := make([]FollowUpAnswer, len(s.followUpAnswers))
	copy(out, s.followUpAnswers)
	return out
}

// AnsweredQuestions lists the answered main questions in catalog order.
func (s *Store) AnsweredQuestions() []AnsweredQuestion {
	var out []AnsweredQuestion
	for _, q := range Questions {
		if v, ok := s.answers[q.Key]; ok {
			out = append(out, AnsweredQuestion{Key: q.Key, Value: v, Page: q.Page})
		}
	}
	return out
}

// CompletionPercentage is the rounded share of answered main questions.
func (s *Store) CompletionPercentage() int {
	answered := len(s.AnsweredQuestions())
	return (answered*100 + len(Questions)/2) / len(Questions)
}

// IsComplete reports whether every main question has an answer.
func (s *Store) IsComplete() bool { return s.CompletionPercentage() == 100 }
