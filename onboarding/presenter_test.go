package onboarding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepPresenterResolvesOnce(t *testing.T) {
	p := NewStepPresenter()
	q := FollowUpQuestion{ID: "f", Options: opts("a", "", "b", "")}
	var selected []int
	p.ShowFollowUpPrompt(q, func(id int) { selected = append(selected, id) }, func() { t.Fatal("skip called") })

	step, ok := p.Pending()
	require.True(t, ok)
	assert.Equal(t, StepFollowUpPrompt, step.Kind)

	require.NoError(t, p.SelectOption(2))
	assert.ErrorIs(t, p.SelectOption(1), ErrNoPendingStep)
	assert.Equal(t, []int{2}, selected)

	_, ok = p.Pending()
	assert.False(t, ok)
}

func TestStepPresenterKinds(t *testing.T) {
	p := NewStepPresenter()
	var hidden, acked bool
	p.ShowInformationalPrompt(Snippet{ID: "s"}, func(h bool) { hidden = h })

	assert.ErrorIs(t, p.Skip(), ErrWrongStep)
	assert.ErrorIs(t, p.Acknowledge(), ErrWrongStep)
	require.NoError(t, p.CloseInformational(true))
	assert.True(t, hidden)

	p.ShowCelebration("Done", "well done")
	_, ok := p.Pending()
	assert.False(t, ok, "celebrations need no answer")

	p.ShowCoinToast(10, func() { acked = true })
	require.NoError(t, p.Acknowledge())
	assert.True(t, acked)

	steps := p.Drain()
	require.Len(t, steps, 3)
	assert.Equal(t, []StepKind{StepInformationalPrompt, StepCelebration, StepCoinToast},
		[]StepKind{steps[0].Kind, steps[1].Kind, steps[2].Kind})
	assert.True(t, steps[0].AllowOptOut)
	assert.Empty(t, p.Drain())
}

func TestStepPresenterReset(t *testing.T) {
	p := NewStepPresenter()
	p.ShowCoinToast(10, func() { t.Fatal("acknowledged after reset") })
	p.Reset()
	assert.ErrorIs(t, p.Acknowledge(), ErrNoPendingStep)
	assert.Empty(t, p.Drain())
}
