package onboarding

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPolicyFixture(t *testing.T) (*Policy, *Store) {
	t.Helper()
	bank := NewBank(rand.New(rand.NewSource(11)))
	return NewPolicy(bank, nil, nil), newStore(t, "p1", NewMemoryStorage())
}

func TestExcludedPagesNeverTrigger(t *testing.T) {
	p, s := newPolicyFixture(t)
	for _, page := range []string{"loading", "review", "challenges-intro", "profile-prompt", "signup-name", "signup-phone", "welcome"} {
		assert.Equal(t, OutcomeNeither, p.Evaluate(s, page).Outcome, page)
	}
}

func TestFollowUpAtMostOncePerPage(t *testing.T) {
	p, s := newPolicyFixture(t)
	require.NoError(t, s.SetAnswer(QMainConcern, "stress"))

	d := p.Evaluate(s, "q2-main-concern")
	require.Equal(t, OutcomeFollowUp, d.Outcome)
	assert.Equal(t, QMainConcern, d.FollowUp.QuestionKey)
	assert.True(t, s.PageTriggered("q2-main-concern"))
	assert.Contains(t, s.ShownFollowUps(), d.FollowUp.ID)

	for i := 0; i < 5; i++ {
		again := p.Evaluate(s, "q2-main-concern")
		assert.Equal(t, OutcomeNeither, again.Outcome)
	}
}

func TestFollowUpOnlyOnTriggerPages(t *testing.T) {
	p, s := newPolicyFixture(t)
	require.NoError(t, s.SetAnswer(QHealthFeeling, "okay"))
	assert.Equal(t, OutcomeNeither, p.Evaluate(s, "q1-health-feeling").Outcome)
	assert.Equal(t, OutcomeFollowUp, p.Evaluate(s, "q6-motivation").Outcome)
}

func TestFollowUpExhaustionDegradesToNeither(t *testing.T) {
	p, s := newPolicyFixture(t)
	s.MarkFollowUpShown("q2_concern_duration")
	s.MarkFollowUpShown("q2_impact_level")

	d := p.Evaluate(s, "q2-main-concern")
	assert.Equal(t, OutcomeNeither, d.Outcome)
	assert.False(t, s.PageTriggered("q2-main-concern"))
}

func TestInformationalUsesMostRecentAnswer(t *testing.T) {
	p, s := newPolicyFixture(t)
	require.NoError(t, s.SetAnswer(QHealthFeeling, "thriving"))
	require.NoError(t, s.SetAnswer(QPastExperience, "never"))

	d := p.Evaluate(s, "q4-past-experience")
	require.Equal(t, OutcomeInformational, d.Outcome)
	assert.Equal(t, CategoryStruggling, d.Snippet.Category)
	assert.True(t, s.InformationalTriggered("q4-past-experience"))
	assert.Contains(t, s.ShownInformational(), d.Snippet.ID)

	assert.Equal(t, OutcomeNeither, p.Evaluate(s, "q4-past-experience").Outcome)
}

func TestInformationalNeedsAnAnswer(t *testing.T) {
	p, s := newPolicyFixture(t)
	assert.Equal(t, OutcomeNeither, p.Evaluate(s, "q8-lifestyle").Outcome)
	assert.False(t, s.InformationalTriggered("q8-lifestyle"))
}

func TestInformationalRespectsOptOut(t *testing.T) {
	p, s := newPolicyFixture(t)
	require.NoError(t, s.SetAnswer(QHealthFeeling, "okay"))
	s.OptOutOfInformational()

	assert.Equal(t, OutcomeNeither, p.Evaluate(s, "q4-past-experience").Outcome)
	assert.Equal(t, OutcomeNeither, p.Evaluate(s, "q8-lifestyle").Outcome)
}

func TestFollowUpPreemptsInformational(t *testing.T) {
	bank := NewBank(rand.New(rand.NewSource(5)))
	p := NewPolicy(bank, []string{"q4-past-experience"}, []string{"q4-past-experience"})
	s := newStore(t, "p2", NewMemoryStorage())
	require.NoError(t, s.SetAnswer(QPastExperience, "failed"))

	d := p.Evaluate(s, "q4-past-experience")
	require.Equal(t, OutcomeFollowUp, d.Outcome)
	assert.False(t, s.InformationalTriggered("q4-past-experience"))

	// the page already showed a follow-up, so informational stays off
	assert.Equal(t, OutcomeNeither, p.Evaluate(s, "q4-past-experience").Outcome)
	assert.False(t, s.InformationalTriggered("q4-past-experience"))
}

func TestExhaustedFollowUpFallsThroughToInformational(t *testing.T) {
	bank := NewBank(rand.New(rand.NewSource(5)))
	p := NewPolicy(bank, []string{"q4-past-experience"}, []string{"q4-past-experience"})
	s := newStore(t, "p3", NewMemoryStorage())
	require.NoError(t, s.SetAnswer(QPastExperience, "some-success"))
	s.MarkFollowUpShown("q4_program_length")
	s.MarkFollowUpShown("q4_success_factor")

	d := p.Evaluate(s, "q4-past-experience")
	require.Equal(t, OutcomeInformational, d.Outcome)
	assert.Equal(t, CategoryImproving, d.Snippet.Category)
}

func TestMostRecentCategory(t *testing.T) {
	s := newStore(t, "p4", NewMemoryStorage())
	_, ok := MostRecentCategory(s)
	assert.False(t, ok)

	require.NoError(t, s.SetAnswer(QHealthFeeling, "unsure"))
	c, ok := MostRecentCategory(s)
	require.True(t, ok)
	assert.Equal(t, CategoryUnsure, c)

	require.NoError(t, s.SetAnswer(QBiggestChallenge, "time"))
	c, _ = MostRecentCategory(s)
	assert.Equal(t, DefaultCategory, c)

	// answers past the fourth question do not change the category
	require.NoError(t, s.SetAnswer(QLifestyle, "busy"))
	c, _ = MostRecentCategory(s)
	assert.Equal(t, DefaultCategory, c)
}
