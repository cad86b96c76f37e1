package onboarding

import (
	"math/rand"
	"sync"
	"time"
)

// Category buckets informational content by how the user describes their health.
type Category string

const (
	CategoryStruggling Category = "struggling"
	CategoryImproving  Category = "improving"
	CategoryOptimizing Category = "optimizing"
	CategoryThriving   Category = "thriving"
	CategoryUnsure     Category = "unsure"

	// DefaultCategory is used for every answer without an explicit mapping,
	// so unmapped answers get generic content instead of an error.
	DefaultCategory = CategoryImproving
)

// Option is one selectable answer of a follow-up question.
type Option struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

// FollowUpQuestion is an optional bonus question attached to a main question.
type FollowUpQuestion struct {
	ID          string      `json:"id"`
	QuestionKey QuestionKey `json:"question_key"`
	Title       string      `json:"title"`
	Prompt      string      `json:"prompt"`
	Options     []Option    `json:"options"`
}

// Option returns the option with the given id.
func (q FollowUpQuestion) Option(id int) (Option, bool) {
	for _, o := range q.Options {
		if o.ID == id {
			return o, true
		}
	}
	return Option{}, false
}

// Citation points at the source of an informational snippet.
type Citation struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// Snippet is a short educational message shown between questions.
type Snippet struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
	Kind     string   `json:"kind"`
	Title    string   `json:"title"`
	Body     string   `json:"body"`
	Citation Citation `json:"citation"`
}

// Bank serves follow-up questions and informational snippets from immutable
// catalogs. Selection is uniform over the items not yet shown.
type Bank struct {
	followUps map[QuestionKey][]FollowUpQuestion
	snippets  map[Category][]Snippet

	mu  sync.Mutex
	rng *rand.Rand
}

// NewBank returns a bank over the built-in catalogs. A nil rng is seeded from the clock.
func NewBank(rng *rand.Rand) *Bank {
	return NewBankFrom(defaultFollowUps(), defaultSnippets(), rng)
}

// NewBankFrom returns a bank over the given catalogs.
func NewBankFrom(followUps map[QuestionKey][]FollowUpQuestion, snippets map[Category][]Snippet, rng *rand.Rand) *Bank {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Bank{followUps: followUps, snippets: snippets, rng: rng}
}

func (b *Bank) intn(n int) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.rng.Intn(n)
}

// RandomUnshownFollowUp picks a follow-up for key whose id is not in shown.
// shown is only read.
func (b *Bank) RandomUnshownFollowUp(key QuestionKey, shown map[string]struct{}) (FollowUpQuestion, bool) {
	var remaining []FollowUpQuestion
	for _, q := range b.followUps[key] {
		if _, seen := shown[q.ID]; !seen {
			remaining = append(remaining, q)
		}
	}
	if len(remaining) == 0 {
		return FollowUpQuestion{}, false
	}
	return remaining[b.intn(len(remaining))], true
}

// ContextualInformational picks a snippet of category whose id is not in shown.
func (b *Bank) ContextualInformational(category Category, shown map[string]struct{}) (Snippet, bool) {
	var remaining []Snippet
	for _, s := range b.snippets[category] {
		if _, seen := shown[s.ID]; !seen {
			remaining = append(remaining, s)
		}
	}
	if len(remaining) == 0 {
		return Snippet{}, false
	}
	return remaining[b.intn(len(remaining))], true
}

// FollowUpsFor returns the catalog entries for key.
func (b *Bank) FollowUpsFor(key QuestionKey) []FollowUpQuestion {
	return append([]FollowUpQuestion(nil), b.followUps[key]...)
}

var answerCategories = map[QuestionKey]map[string]Category{
	QHealthFeeling: {
		"struggling": CategoryStruggling,
		"okay":       CategoryImproving,
		"well":       CategoryOptimizing,
		"thriving":   CategoryThriving,
		"unsure":     CategoryUnsure,
	},
	QMainConcern: {
		"energy":    CategoryStruggling,
		"weight":    CategoryImproving,
		"stress":    CategoryStruggling,
		"sleep":     CategoryImproving,
		"nutrition": CategoryImproving,
		"fitness":   CategoryOptimizing,
	},
	QPastExperience: {
		"never":           CategoryStruggling,
		"failed":          CategoryStruggling,
		"some-success":    CategoryImproving,
		"very-successful": CategoryOptimizing,
	},
}

// CategoryForAnswer maps an answer to a content category, defaulting to DefaultCategory.
func CategoryForAnswer(key QuestionKey, value string) Category {
	if c, ok := answerCategories[key][value]; ok {
		return c
	}
	return DefaultCategory
}
