package onboarding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// scriptedPresenter records calls and lets the test resolve prompts later.
type scriptedPresenter struct {
	calls []string

	followUp     FollowUpQuestion
	onSelect     func(int)
	onSkip       func()
	snippet      Snippet
	onClose      func(bool)
	toasts       []int
	onAck        func()
	celebrations []string
}

func (p *scriptedPresenter) ShowFollowUpPrompt(q FollowUpQuestion, onSelect func(int), onSkip func()) {
	p.calls = append(p.calls, "follow_up")
	p.followUp, p.onSelect, p.onSkip = q, onSelect, onSkip
}

func (p *scriptedPresenter) ShowInformationalPrompt(s Snippet, onClose func(bool)) {
	p.calls = append(p.calls, "informational")
	p.snippet, p.onClose = s, onClose
}

func (p *scriptedPresenter) ShowCoinToast(amount int, onAck func()) {
	p.calls = append(p.calls, "toast")
	p.toasts = append(p.toasts, amount)
	p.onAck = onAck
}

func (p *scriptedPresenter) ShowCelebration(title, _ string) {
	p.calls = append(p.calls, "celebration")
	p.celebrations = append(p.celebrations, title)
}

type mockAnalytics struct{ mock.Mock }

func (m *mockAnalytics) Track(e Event) { m.Called(e) }

type controllerFixture struct {
	store     *Store
	presenter *scriptedPresenter
	ctrl      *Controller
	continued int
}

func newControllerFixture(t *testing.T, opts ...ControllerOption) *controllerFixture {
	t.Helper()
	f := &controllerFixture{
		store:     newStore(t, "c1", NewMemoryStorage()),
		presenter: &scriptedPresenter{},
	}
	bank := NewBank(rand.New(rand.NewSource(99)))
	f.ctrl = NewController(f.store, NewPolicy(bank, nil, nil), NewRewardEngine(f.store, DefaultRewards()), f.presenter, opts...)
	return f
}

func (f *controllerFixture) cont() { f.continued++ }

func TestFollowUpAnsweredPaysBaseAndBonus(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QMainConcern, "stress"))

	require.True(t, f.ctrl.Continue("q2-main-concern", f.cont))
	assert.Equal(t, StateAwaitingFollowUp, f.ctrl.State())
	assert.Equal(t, 10, f.store.CoinCount())
	assert.Zero(t, f.continued)

	f.presenter.onSelect(f.presenter.followUp.Options[0].ID)
	assert.Equal(t, StateAwaitingAck, f.ctrl.State())
	assert.Equal(t, []int{25}, f.presenter.toasts)
	assert.Equal(t, 25, f.store.CoinCount())
	assert.Zero(t, f.continued)

	f.presenter.onAck()
	assert.Equal(t, 1, f.continued)
	assert.Equal(t, StateIdle, f.ctrl.State())
	assert.Equal(t, []string{"follow_up", "toast"}, f.presenter.calls)

	answers := f.store.FollowUpAnswers()
	require.Len(t, answers, 1)
	assert.Equal(t, f.presenter.followUp.ID, answers[0].QuestionID)
}

func TestFollowUpSkippedPaysBaseOnly(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QMainConcern, "stress"))

	f.ctrl.Continue("q2-main-concern", f.cont)
	f.presenter.onSkip()
	assert.Equal(t, []int{10}, f.presenter.toasts)

	// late callbacks of a settled prompt are ignored
	f.presenter.onSelect(1)
	assert.Equal(t, 10, f.store.CoinCount())

	f.presenter.onAck()
	f.presenter.onAck()
	assert.Equal(t, 1, f.continued)
	assert.Empty(t, f.store.FollowUpAnswers())
}

func TestSingleFlight(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QMainConcern, "stress"))

	require.True(t, f.ctrl.Continue("q2-main-concern", f.cont))
	assert.False(t, f.ctrl.Continue("q2-main-concern", f.cont))
	assert.False(t, f.ctrl.CompleteReview(f.cont))
	assert.Equal(t, []string{"follow_up"}, f.presenter.calls)

	f.presenter.onSkip()
	f.presenter.onAck()
	assert.Equal(t, 1, f.continued)

	// repeating the page pays nothing and shows nothing
	require.True(t, f.ctrl.Continue("q2-main-concern", f.cont))
	assert.Equal(t, 2, f.continued)
	assert.Equal(t, 10, f.store.CoinCount())
	assert.Equal(t, []string{"follow_up", "toast"}, f.presenter.calls)
}

func TestInformationalClosePaysBaseOnly(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QPastExperience, "never"))

	f.ctrl.Continue("q4-past-experience", f.cont)
	require.Equal(t, StateAwaitingInformational, f.ctrl.State())
	assert.Equal(t, CategoryStruggling, f.presenter.snippet.Category)

	f.presenter.onClose(false)
	f.presenter.onAck()
	assert.Equal(t, []int{10}, f.presenter.toasts)
	assert.Equal(t, 10, f.store.CoinCount())
	assert.Equal(t, 1, f.continued)
	assert.False(t, f.store.InformationalOptedOut())
}

func TestInformationalOptOutSticks(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QPastExperience, "never"))

	f.ctrl.Continue("q4-past-experience", f.cont)
	f.presenter.onClose(true)
	f.presenter.onAck()
	require.True(t, f.store.InformationalOptedOut())

	require.NoError(t, f.store.SetAnswer(QLifestyle, "busy"))
	f.ctrl.Continue("q8-lifestyle", f.cont)
	f.presenter.onAck()
	assert.Equal(t, []string{"informational", "toast", "toast"}, f.presenter.calls)
	assert.Equal(t, 2, f.continued)
}

func TestNeitherWithoutRewardContinuesImmediately(t *testing.T) {
	f := newControllerFixture(t)

	require.True(t, f.ctrl.Continue("welcome", f.cont))
	assert.Equal(t, 1, f.continued)
	assert.Empty(t, f.presenter.calls)
	assert.Equal(t, StateIdle, f.ctrl.State())

	// unanswered question pages pay nothing either
	require.True(t, f.ctrl.Continue("q3-biggest-challenge", f.cont))
	assert.Equal(t, 2, f.continued)
	assert.Zero(t, f.store.CoinCount())
}

func TestContinueEditingSkipsBonusContent(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QMainConcern, "sleep"))

	f.ctrl.ContinueEditing("q2-main-concern", f.cont)
	assert.Equal(t, []string{"toast"}, f.presenter.calls)
	assert.False(t, f.store.PageTriggered("q2-main-concern"))
	f.presenter.onAck()
	assert.Equal(t, 1, f.continued)
}

func TestCompleteReviewPaysOnce(t *testing.T) {
	f := newControllerFixture(t)

	require.True(t, f.ctrl.CompleteReview(f.cont))
	assert.Equal(t, []string{"celebration", "toast"}, f.presenter.calls)
	assert.Equal(t, []int{100}, f.presenter.toasts)
	f.presenter.onAck()

	require.True(t, f.ctrl.CompleteReview(f.cont))
	assert.Equal(t, 2, f.continued)
	assert.Equal(t, 100, f.store.CoinCount())
	assert.Len(t, f.presenter.toasts, 1)
}

func TestContinuationMayStartNextSequence(t *testing.T) {
	f := newControllerFixture(t)
	require.NoError(t, f.store.SetAnswer(QHealthFeeling, "okay"))
	require.NoError(t, f.store.SetAnswer(QMainConcern, "weight"))

	var chained bool
	f.ctrl.Continue("q1-health-feeling", func() {
		chained = f.ctrl.Continue("welcome", f.cont)
	})
	f.presenter.onAck()
	assert.True(t, chained)
	assert.Equal(t, 1, f.continued)
}

func TestAnalyticsEvents(t *testing.T) {
	a := &mockAnalytics{}
	a.On("Track", mock.Anything).Return()
	f := newControllerFixture(t, WithAnalytics(a))
	require.NoError(t, f.store.SetAnswer(QMainConcern, "stress"))

	f.ctrl.Continue("q2-main-concern", f.cont)
	f.presenter.onSelect(2)
	f.presenter.onAck()

	var names []string
	for _, c := range a.Calls {
		e := c.Arguments.Get(0).(Event)
		assert.Equal(t, "c1", e.SessionID)
		names = append(names, e.Name)
	}
	assert.Equal(t, []string{"continue", "follow_up_shown", "follow_up_answered", "sequence_finished"}, names)
}

type panickingAnalytics struct{}

func (panickingAnalytics) Track(Event) { panic("sink down") }

func TestAnalyticsFailureDoesNotInterruptFlow(t *testing.T) {
	f := newControllerFixture(t, WithAnalytics(panickingAnalytics{}))
	require.NoError(t, f.store.SetAnswer(QHealthFeeling, "okay"))

	assert.NotPanics(t, func() {
		f.ctrl.Continue("q1-health-feeling", f.cont)
		f.presenter.onAck()
	})
	assert.Equal(t, 1, f.continued)
	assert.Equal(t, 10, f.store.CoinCount())
}
