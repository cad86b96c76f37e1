package onboarding

const (
	// PageReview is where edits return to and where the review bonus is paid.
	PageReview = "review"
	// PageHome is the exit of the onboarding flow.
	PageHome = "home"
)

// stepFlow maps each onboarding page to the page that follows it.
var stepFlow = map[string]string{
	"welcome":               "get-started",
	"get-started":           "expectations",
	"expectations":          "q1-health-feeling",
	"q1-health-feeling":     "loading",
	"loading":               "q2-main-concern",
	"q2-main-concern":       "q3-biggest-challenge",
	"q3-biggest-challenge":  "q4-past-experience",
	"q4-past-experience":    "q5-wearable",
	"q5-wearable":           "q6-motivation",
	"q6-motivation":         "q7-support-preference",
	"q7-support-preference": "q8-lifestyle",
	"q8-lifestyle":          "q9-success",
	"q9-success":            "q10-commitment",
	"q10-commitment":        PageReview,
	PageReview:              "challenges-intro",
	"challenges-intro":      "profile-prompt",
	"profile-prompt":        "signup-name",
	"signup-name":           "signup-phone",
	"signup-phone":          "signup-verification",
	"signup-verification":   "profile-celebration",
	"profile-celebration":   "feedback",
	"feedback":              "completion",
	"completion":            PageHome,
}

// NextStep returns the page reached by continuing from page.
func NextStep(page string) (string, bool) {
	next, ok := stepFlow[page]
	return next, ok
}

// KnownPage reports whether page belongs to the onboarding flow.
func KnownPage(page string) bool {
	if page == PageHome {
		return true
	}
	_, ok := stepFlow[page]
	return ok
}
