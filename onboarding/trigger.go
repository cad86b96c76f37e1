package onboarding

import "strings"

// Outcome is what a page visit resolves to.
type Outcome int

const (
	OutcomeNeither Outcome = iota
	OutcomeFollowUp
	OutcomeInformational
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFollowUp:
		return "follow_up"
	case OutcomeInformational:
		return "informational"
	default:
		return "neither"
	}
}

// Decision is the result of evaluating a page visit.
type Decision struct {
	Outcome  Outcome
	Page     string
	FollowUp FollowUpQuestion
	Snippet  Snippet
}

var (
	// DefaultFollowUpPages are the pages that may show a follow-up question.
	DefaultFollowUpPages = []string{"q2-main-concern", "q6-motivation"}
	// DefaultInformationalPages are the pages that may show informational content.
	DefaultInformationalPages = []string{"q4-past-experience", "q8-lifestyle"}
	// excludedFragments match non-question pages.
	excludedFragments = []string{"loading", "review", "challenges-intro", "profile-prompt", "signup-"}
	// recencyOrder is scanned newest first to pick the informational category.
	recencyOrder = []QuestionKey{QHealthFeeling, QMainConcern, QBiggestChallenge, QPastExperience}
)

// Policy decides which bonus content, if any, a page visit shows.
type Policy struct {
	bank               *Bank
	followUpPages      stringSet
	informationalPages stringSet
}

// NewPolicy returns a policy over bank. Nil page lists use the defaults.
func NewPolicy(bank *Bank, followUpPages, informationalPages []string) *Policy {
	if followUpPages == nil {
		followUpPages = DefaultFollowUpPages
	}
	if informationalPages == nil {
		informationalPages = DefaultInformationalPages
	}
	return &Policy{
		bank:               bank,
		followUpPages:      newStringSet(followUpPages),
		informationalPages: newStringSet(informationalPages),
	}
}

// Excluded reports whether page is a non-question page that never triggers.
func Excluded(page string) bool {
	for _, frag := range excludedFragments {
		if strings.Contains(page, frag) {
			return true
		}
	}
	return false
}

// Evaluate resolves the visit to page. Pages are recorded as triggered in
// store before the prompt is answered, so each page prompts at most once.
func (p *Policy) Evaluate(store *Store, page string) Decision {
	d := Decision{Outcome: OutcomeNeither, Page: page}
	if Excluded(page) {
		return d
	}
	q, ok := QuestionForPage(page)
	if !ok {
		return d
	}

	if p.followUpPages.has(page) && !store.PageTriggered(page) {
		if fu, found := p.bank.RandomUnshownFollowUp(q.Key, store.ShownFollowUps()); found {
			store.MarkPageTriggered(page)
			store.MarkFollowUpShown(fu.ID)
			d.Outcome = OutcomeFollowUp
			d.FollowUp = fu
			return d
		}
	}

	// a page that already showed a follow-up never shows informational content
	if store.InformationalOptedOut() || store.PageTriggered(page) {
		return d
	}
	if !p.informationalPages.has(page) || store.InformationalTriggered(page) {
		return d
	}
	category, ok := MostRecentCategory(store)
	if !ok {
		return d
	}
	sn, found := p.bank.ContextualInformational(category, store.ShownInformational())
	if !found {
		return d
	}
	store.MarkInformationalTriggered(page)
	store.MarkInformationalShown(sn.ID)
	d.Outcome = OutcomeInformational
	d.Snippet = sn
	return d
}

// MostRecentCategory derives the content category from the latest answered
// question in the recency order. ok is false when none is answered.
func MostRecentCategory(store *Store) (Category, bool) {
	for i := len(recencyOrder) - 1; i >= 0; i-- {
		key := recencyOrder[i]
		if v, ok := store.Answer(key); ok {
			return CategoryForAnswer(key, v), true
		}
	}
	return "", false
}
