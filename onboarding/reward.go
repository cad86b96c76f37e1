package onboarding

// Rewards holds the coin amounts paid by the onboarding flow.
type Rewards struct {
	Base     int `json:"base"`
	FollowUp int `json:"follow_up"`
	Review   int `json:"review"`
}

// DefaultRewards pays 10 per main question, 15 per follow-up and a 100 coin review bonus.
func DefaultRewards() Rewards {
	return Rewards{Base: 10, FollowUp: 15, Review: 100}
}

// RewardEngine pays rewards through the store's idempotent ledger.
type RewardEngine struct {
	store   *Store
	rewards Rewards
}

// NewRewardEngine returns an engine paying rewards into store.
func NewRewardEngine(store *Store, rewards Rewards) *RewardEngine {
	return &RewardEngine{store: store, rewards: rewards}
}

// BaseRewardFor is the flat amount for completing a main question.
func (e *RewardEngine) BaseRewardFor(QuestionKey) int { return e.rewards.Base }

// FollowUpReward is the amount for answering a follow-up question.
func (e *RewardEngine) FollowUpReward() int { return e.rewards.FollowUp }

// ReviewBonus is the one-time amount for finishing the review page.
func (e *RewardEngine) ReviewBonus() int { return e.rewards.Review }

// PayBase pays the base reward for key. Unanswered questions pay nothing.
func (e *RewardEngine) PayBase(key QuestionKey) int {
	if _, answered := e.store.Answer(key); !answered {
		return 0
	}
	return e.store.Award(string(key), e.BaseRewardFor(key))
}

// PayFollowUp pays the follow-up reward keyed by the follow-up question id.
func (e *RewardEngine) PayFollowUp(questionID string) int {
	return e.store.Award(questionID, e.FollowUpReward())
}

// PayReviewBonus pays the review bonus once.
func (e *RewardEngine) PayReviewBonus() int {
	return e.store.Award(SourceReviewCompletion, e.ReviewBonus())
}
