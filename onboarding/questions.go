package onboarding

// QuestionKey identifies one of the ten main onboarding questions.
type QuestionKey string

const (
	QHealthFeeling     QuestionKey = "q1_healthFeeling"
	QMainConcern       QuestionKey = "q2_mainConcern"
	QBiggestChallenge  QuestionKey = "q3_biggestChallenge"
	QPastExperience    QuestionKey = "q4_pastExperience"
	QWearable          QuestionKey = "q5_wearable"
	QMotivation        QuestionKey = "q6_motivation"
	QSupportPreference QuestionKey = "q7_supportPref"
	QLifestyle         QuestionKey = "q8_lifestyle"
	QSuccess           QuestionKey = "q9_success"
	QCommitment        QuestionKey = "q10_commitment"
)

// Question ties a question key to the page that asks it.
type Question struct {
	Key    QuestionKey `json:"key"`
	Page   string      `json:"page"`
	Number int         `json:"number"`
}

// Questions lists the main questions in the order they are asked.
var Questions = []Question{
	{Key: QHealthFeeling, Page: "q1-health-feeling", Number: 1},
	{Key: QMainConcern, Page: "q2-main-concern", Number: 2},
	{Key: QBiggestChallenge, Page: "q3-biggest-challenge", Number: 3},
	{Key: QPastExperience, Page: "q4-past-experience", Number: 4},
	{Key: QWearable, Page: "q5-wearable", Number: 5},
	{Key: QMotivation, Page: "q6-motivation", Number: 6},
	{Key: QSupportPreference, Page: "q7-support-preference", Number: 7},
	{Key: QLifestyle, Page: "q8-lifestyle", Number: 8},
	{Key: QSuccess, Page: "q9-success", Number: 9},
	{Key: QCommitment, Page: "q10-commitment", Number: 10},
}

// QuestionForPage returns the question asked on page.
func QuestionForPage(page string) (Question, bool) {
	for _, q := range Questions {
		if q.Page == page {
			return q, true
		}
	}
	return Question{}, false
}

// QuestionByKey looks up a question by its key.
func QuestionByKey(key QuestionKey) (Question, bool) {
	for _, q := range Questions {
		if q.Key == key {
			return q, true
		}
	}
	return Question{}, false
}

// ValidQuestionKey reports whether key names one of the main questions.
func ValidQuestionKey(key QuestionKey) bool {
	_, ok := QuestionByKey(key)
	return ok
}
