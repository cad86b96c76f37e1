package onboarding

import "errors"

var (
	// ErrNoPendingStep is returned when a step is resolved with nothing waiting.
	ErrNoPendingStep = errors.New("no pending step")
	// ErrWrongStep is returned when the pending step is of a different kind.
	ErrWrongStep = errors.New("pending step is of a different kind")
	// ErrUnknownOption is returned for an option id the pending question does not offer.
	ErrUnknownOption = errors.New("unknown follow-up option")
)

// StepKind names a presentation step.
type StepKind string

const (
	StepFollowUpPrompt      StepKind = "follow_up_prompt"
	StepInformationalPrompt StepKind = "informational_prompt"
	StepCoinToast           StepKind = "coin_toast"
	StepCelebration         StepKind = "celebration"
)

// Step is one presentation instruction for a remote client.
type Step struct {
	Kind        StepKind          `json:"kind"`
	FollowUp    *FollowUpQuestion `json:"follow_up,omitempty"`
	Snippet     *Snippet          `json:"snippet,omitempty"`
	AllowOptOut bool              `json:"allow_opt_out,omitempty"`
	Amount      int               `json:"amount,omitempty"`
	Title       string            `json:"title,omitempty"`
	Message     string            `json:"message,omitempty"`
}

// StepPresenter records emitted steps and holds the callbacks of the step the
// client has to resolve. It turns the controller's callbacks into calls a
// request handler can make later.
type StepPresenter struct {
	emitted []Step
	pending *Step

	onSelect func(int)
	onSkip   func()
	onClose  func(bool)
	onAck    func()
}

var _ Presenter = (*StepPresenter)(nil)

// NewStepPresenter returns an empty presenter.
func NewStepPresenter() *StepPresenter { return &StepPresenter{} }

func (p *StepPresenter) ShowFollowUpPrompt(q FollowUpQuestion, onSelect func(optionID int), onSkip func()) {
	p.push(Step{Kind: StepFollowUpPrompt, FollowUp: &q})
	p.onSelect, p.onSkip = onSelect, onSkip
}

func (p *StepPresenter) ShowInformationalPrompt(s Snippet, onClose func(hideAgain bool)) {
	p.push(Step{Kind: StepInformationalPrompt, Snippet: &s, AllowOptOut: true})
	p.onClose = onClose
}

func (p *StepPresenter) ShowCoinToast(amount int, onAcknowledged func()) {
	p.push(Step{Kind: StepCoinToast, Amount: amount})
	p.onAck = onAcknowledged
}

func (p *StepPresenter) ShowCelebration(title, message string) {
	p.emitted = append(p.emitted, Step{Kind: StepCelebration, Title: title, Message: message})
}

func (p *StepPresenter) push(s Step) {
	p.emitted = append(p.emitted, s)
	p.pending = &s
}

// Drain returns and forgets the steps emitted since the last call.
func (p *StepPresenter) Drain() []Step {
	out := p.emitted
	p.emitted = nil
	return out
}

// Pending returns the step waiting for the client.
func (p *StepPresenter) Pending() (Step, bool) {
	if p.pending == nil {
		return Step{}, false
	}
	return *p.pending, true
}

func (p *StepPresenter) take(kind StepKind) error {
	if p.pending == nil {
		return ErrNoPendingStep
	}
	if p.pending.Kind != kind {
		return ErrWrongStep
	}
	p.pending = nil
	return nil
}

func (p *StepPresenter) resetCallbacks() {
	p.onSelect, p.onSkip, p.onClose, p.onAck = nil, nil, nil, nil
}

// SelectOption answers the pending follow-up question.
func (p *StepPresenter) SelectOption(optionID int) error {
	if p.pending != nil && p.pending.Kind == StepFollowUpPrompt {
		if _, ok := p.pending.FollowUp.Option(optionID); !ok {
			return ErrUnknownOption
		}
	}
	if err := p.take(StepFollowUpPrompt); err != nil {
		return err
	}
	cb := p.onSelect
	p.resetCallbacks()
	cb(optionID)
	return nil
}

// Skip dismisses the pending follow-up question.
func (p *StepPresenter) Skip() error {
	if err := p.take(StepFollowUpPrompt); err != nil {
		return err
	}
	cb := p.onSkip
	p.resetCallbacks()
	cb()
	return nil
}

// CloseInformational closes the pending informational prompt.
func (p *StepPresenter) CloseInformational(hideAgain bool) error {
	if err := p.take(StepInformationalPrompt); err != nil {
		return err
	}
	cb := p.onClose
	p.resetCallbacks()
	cb(hideAgain)
	return nil
}

// Acknowledge dismisses the pending coin toast.
func (p *StepPresenter) Acknowledge() error {
	if err := p.take(StepCoinToast); err != nil {
		return err
	}
	cb := p.onAck
	p.resetCallbacks()
	cb()
	return nil
}

// Reset drops emitted and pending steps.
func (p *StepPresenter) Reset() {
	p.emitted = nil
	p.pending = nil
	p.resetCallbacks()
}
