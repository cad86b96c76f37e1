package onboarding

import (
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Presenter renders the steps of a progression sequence. Callbacks resume the
// sequence; only the first callback of a prompt takes effect.
type Presenter interface {
	ShowFollowUpPrompt(q FollowUpQuestion, onSelect func(optionID int), onSkip func())
	ShowInformationalPrompt(s Snippet, onClose func(hideAgain bool))
	ShowCoinToast(amount int, onAcknowledged func())
	ShowCelebration(title, message string)
}

// Event is an analytics record emitted by the controller.
type Event struct {
	SessionID string    `json:"session_id"`
	Name      string    `json:"name"`
	Page      string    `json:"page,omitempty"`
	Coins     int       `json:"coins,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	At        time.Time `json:"at"`
}

// Analytics receives fire-and-forget events. Implementations must not block.
type Analytics interface {
	Track(e Event)
}

type nopAnalytics struct{}

func (nopAnalytics) Track(Event) {}

// State is the controller's position in a progression sequence.
type State int

const (
	StateIdle State = iota
	StateEvaluating
	StateAwaitingFollowUp
	StateAwaitingInformational
	StateAwaitingAck
)

func (s State) String() string {
	switch s {
	case StateEvaluating:
		return "evaluating"
	case StateAwaitingFollowUp:
		return "awaiting_follow_up"
	case StateAwaitingInformational:
		return "awaiting_informational"
	case StateAwaitingAck:
		return "awaiting_ack"
	default:
		return "idle"
	}
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithAnalytics sets the analytics sink.
func WithAnalytics(a Analytics) ControllerOption {
	return func(c *Controller) {
		if a != nil {
			c.analytics = a
		}
	}
}

// WithControllerLogger sets the controller logger.
func WithControllerLogger(l *zap.Logger) ControllerOption {
	return func(c *Controller) {
		if l != nil {
			c.log = l
		}
	}
}

// Controller runs one progression sequence at a time: trigger evaluation,
// reward payment, prompts and coin toasts, then the caller's continuation.
type Controller struct {
	store     *Store
	policy    *Policy
	rewards   *RewardEngine
	presenter Presenter
	analytics Analytics
	log       *zap.Logger

	state State
}

// NewController wires the progression sequence over its collaborators.
func NewController(store *Store, policy *Policy, rewards *RewardEngine, presenter Presenter, opts ...ControllerOption) *Controller {
	c := &Controller{
		store:     store,
		policy:    policy,
		rewards:   rewards,
		presenter: presenter,
		analytics: nopAnalytics{},
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// State returns the current sequence state.
func (c *Controller) State() State { return c.state }

// InFlight reports whether a sequence is waiting on the presenter.
func (c *Controller) InFlight() bool { return c.state != StateIdle }

// Continue starts the sequence for leaving page. It returns false, and never
// calls continuation, when another sequence is still in flight.
func (c *Controller) Continue(page string, continuation func()) bool {
	return c.start(page, true, continuation)
}

// ContinueEditing is Continue for a page revisited from the review screen:
// no bonus content is evaluated, the base reward is still attempted.
func (c *Controller) ContinueEditing(page string, continuation func()) bool {
	return c.start(page, false, continuation)
}

// CompleteReview pays the review bonus once and celebrates it.
func (c *Controller) CompleteReview(continuation func()) bool {
	if c.state != StateIdle {
		c.log.Debug("review completion ignored, sequence in flight", zap.String("state", c.state.String()))
		return false
	}
	c.state = StateEvaluating
	finish := c.finisher(PageReview, continuation)

	bonus := c.rewards.PayReviewBonus()
	c.track("review_completed", PageReview, bonus, "")
	if bonus > 0 {
		c.presenter.ShowCelebration("Review complete!",
			fmt.Sprintf("You earned %d bonus coins for reviewing your answers.", bonus))
	}
	c.toastOrFinish(bonus, finish)
	return true
}

func (c *Controller) start(page string, evaluate bool, continuation func()) bool {
	if c.state != StateIdle {
		c.log.Debug("continue ignored, sequence in flight",
			zap.String("page", page), zap.String("state", c.state.String()))
		return false
	}
	c.state = StateEvaluating
	finish := c.finisher(page, continuation)

	decision := Decision{Outcome: OutcomeNeither, Page: page}
	if evaluate {
		decision = c.policy.Evaluate(c.store, page)
	}
	base := 0
	if q, ok := QuestionForPage(page); ok {
		base = c.rewards.PayBase(q.Key)
	}
	c.track("continue", page, base, decision.Outcome.String())

	switch decision.Outcome {
	case OutcomeFollowUp:
		c.presentFollowUp(page, decision.FollowUp, base, finish)
	case OutcomeInformational:
		c.presentInformational(page, decision.Snippet, base, finish)
	default:
		c.toastOrFinish(base, finish)
	}
	return true
}

func (c *Controller) presentFollowUp(page string, q FollowUpQuestion, base int, finish func()) {
	c.state = StateAwaitingFollowUp
	c.track("follow_up_shown", page, 0, q.ID)

	settled := false
	onSelect := func(optionID int) {
		if settled {
			return
		}
		settled = true
		opt, ok := q.Option(optionID)
		if !ok {
			c.log.Warn("unknown follow-up option, treating as skip",
				zap.String("question", q.ID), zap.Int("option", optionID))
			c.track("follow_up_skipped", page, 0, q.ID)
			c.toastOrFinish(base, finish)
			return
		}
		c.store.RecordFollowUpAnswer(FollowUpAnswer{
			QuestionID:  q.ID,
			QuestionKey: q.QuestionKey,
			Title:       q.Title,
			Prompt:      q.Prompt,
			OptionID:    opt.ID,
			OptionText:  opt.Text,
		})
		paid := c.rewards.PayFollowUp(q.ID)
		c.track("follow_up_answered", page, paid, q.ID)
		c.toastOrFinish(base+paid, finish)
	}
	onSkip := func() {
		if settled {
			return
		}
		settled = true
		c.track("follow_up_skipped", page, 0, q.ID)
		c.toastOrFinish(base, finish)
	}
	c.presenter.ShowFollowUpPrompt(q, onSelect, onSkip)
}

func (c *Controller) presentInformational(page string, s Snippet, base int, finish func()) {
	c.state = StateAwaitingInformational
	c.track("informational_shown", page, 0, s.ID)

	settled := false
	onClose := func(hideAgain bool) {
		if settled {
			return
		}
		settled = true
		if hideAgain {
			c.store.OptOutOfInformational()
			c.track("informational_opt_out", page, 0, s.ID)
		}
		c.toastOrFinish(base, finish)
	}
	c.presenter.ShowInformationalPrompt(s, onClose)
}

func (c *Controller) toastOrFinish(amount int, finish func()) {
	if amount <= 0 {
		finish()
		return
	}
	c.state = StateAwaitingAck
	c.presenter.ShowCoinToast(amount, finish)
}

// finisher returns the single-use end of a sequence. The controller is idle
// again before continuation runs, so continuation may start the next sequence.
func (c *Controller) finisher(page string, continuation func()) func() {
	done := false
	return func() {
		if done {
			return
		}
		done = true
		c.state = StateIdle
		c.track("sequence_finished", page, c.store.CoinCount(), "")
		if continuation != nil {
			continuation()
		}
	}
}

func (c *Controller) track(name, page string, coins int, detail string) {
	defer func() {
		if r := recover(); r != nil {
			c.log.Warn("analytics sink panicked", zap.String("event", name), zap.Any("panic", r))
		}
	}()
	c.analytics.Track(Event{
		SessionID: c.store.SessionID(),
		Name:      name,
		Page:      page,
		Coins:     coins,
		Detail:    detail,
		At:        time.Now(),
	})
}
