package onboarding

func opts(pairs ...string) []Option {
	out := make([]Option, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, Option{ID: i/2 + 1, Text: pairs[i], Icon: pairs[i+1]})
	}
	return out
}

func defaultFollowUps() map[QuestionKey][]FollowUpQuestion {
	return map[QuestionKey][]FollowUpQuestion{
		QHealthFeeling: {
			{ID: "q1_energy_timing", QuestionKey: QHealthFeeling, Title: "Energy Patterns",
				Prompt:  "When do you typically feel most energized?",
				Options: opts("Morning hours", "🌅", "Afternoon", "☀️", "Evening", "🌆", "Late night", "🌙")},
			{ID: "q1_mood_factors", QuestionKey: QHealthFeeling, Title: "Mood Influences",
				Prompt:  "What affects your mood the most?",
				Options: opts("Sleep quality", "😴", "Exercise", "💪", "Social interactions", "👥", "Work stress", "💼")},
		},
		QMainConcern: {
			{ID: "q2_concern_duration", QuestionKey: QMainConcern, Title: "Duration Check",
				Prompt:  "How long have you been experiencing this concern?",
				Options: opts("Less than 1 month", "📅", "1-3 months", "📆", "3-6 months", "🗓️", "More than 6 months", "📋")},
			{ID: "q2_impact_level", QuestionKey: QMainConcern, Title: "Impact Assessment",
				Prompt:  "How much does this affect your daily life?",
				Options: opts("Minimal impact", "🟢", "Some disruption", "🟡", "Significant impact", "🟠", "Major disruption", "🔴")},
		},
		QBiggestChallenge: {
			{ID: "q3_challenge_frequency", QuestionKey: QBiggestChallenge, Title: "Challenge Frequency",
				Prompt:  "How often does this challenge occur?",
				Options: opts("Daily", "📊", "Few times a week", "📈", "Weekly", "📉", "Monthly", "📋")},
			{ID: "q3_coping_strategy", QuestionKey: QBiggestChallenge, Title: "Coping Methods",
				Prompt:  "What do you currently do to handle this challenge?",
				Options: opts("Talk to friends", "💬", "Exercise or walk", "🚶", "Take breaks", "⏸️", "Nothing specific", "🤷")},
		},
		QPastExperience: {
			{ID: "q4_program_length", QuestionKey: QPastExperience, Title: "Program Duration",
				Prompt:  "How long was your most successful wellness program?",
				Options: opts("1-2 weeks", "⏱️", "1 month", "📅", "2-3 months", "📆", "6+ months", "🗓️")},
			{ID: "q4_success_factor", QuestionKey: QPastExperience, Title: "Success Factors",
				Prompt:  "What made that program work for you?",
				Options: opts("Clear structure", "📋", "Community support", "👥", "Flexible schedule", "⏰", "Quick results", "⚡")},
		},
		QWearable: {
			{ID: "q5_tracking_preference", QuestionKey: QWearable, Title: "Tracking Style",
				Prompt:  "How do you prefer to track your progress?",
				Options: opts("Automatic tracking", "🤖", "Manual logging", "✍️", "Weekly check-ins", "📊", "No tracking needed", "🚫")},
			{ID: "q5_data_importance", QuestionKey: QWearable, Title: "Data Priority",
				Prompt:  "Which health metric is most important to you?",
				Options: opts("Steps/Activity", "👟", "Sleep quality", "💤", "Heart rate", "❤️", "Stress levels", "😌")},
		},
		QMotivation: {
			{ID: "q6_motivation_style", QuestionKey: QMotivation, Title: "Motivation Type",
				Prompt:  "What type of motivation works best for you?",
				Options: opts("Positive reinforcement", "🎉", "Goal achievement", "🎯", "Competition", "🏆", "Self-improvement", "📈")},
			{ID: "q6_reward_preference", QuestionKey: QMotivation, Title: "Reward System",
				Prompt:  "What kind of rewards motivate you most?",
				Options: opts("Digital badges", "🏅", "Progress tracking", "📊", "Social recognition", "👏", "Personal satisfaction", "😊")},
		},
		QSupportPreference: {
			{ID: "q7_support_timing", QuestionKey: QSupportPreference, Title: "Support Timing",
				Prompt:  "When do you most need support and encouragement?",
				Options: opts("Morning motivation", "🌅", "Midday check-ins", "☀️", "Evening reflection", "🌙", "When struggling", "💪")},
			{ID: "q7_communication_style", QuestionKey: QSupportPreference, Title: "Communication Style",
				Prompt:  "How do you prefer to receive guidance?",
				Options: opts("Gentle reminders", "🔔", "Direct coaching", "📢", "Tips and insights", "💡", "Celebration messages", "🎊")},
		},
		QLifestyle: {
			{ID: "q8_schedule_flexibility", QuestionKey: QLifestyle, Title: "Schedule Flexibility",
				Prompt:  "How flexible is your daily routine?",
				Options: opts("Very structured", "📋", "Mostly predictable", "⏰", "Somewhat variable", "🔄", "Highly unpredictable", "🌪️")},
			{ID: "q8_wellness_priority", QuestionKey: QLifestyle, Title: "Wellness Priority",
				Prompt:  "Where does wellness fit in your priorities?",
				Options: opts("Top priority", "⭐", "Important focus", "🎯", "When time allows", "⏳", "Would like more focus", "💭")},
		},
		QSuccess: {
			{ID: "q9_success_timeline", QuestionKey: QSuccess, Title: "Success Timeline",
				Prompt:  "How quickly do you expect to see results?",
				Options: opts("Within a week", "⚡", "2-4 weeks", "📅", "1-2 months", "📆", "3+ months", "🗓️")},
			{ID: "q9_measurement_method", QuestionKey: QSuccess, Title: "Success Measurement",
				Prompt:  "How will you know you're making progress?",
				Options: opts("How I feel", "😊", "Energy levels", "⚡", "Data metrics", "📊", "Others' feedback", "👥")},
		},
		QCommitment: {
			{ID: "q10_commitment_level", QuestionKey: QCommitment, Title: "Commitment Level",
				Prompt:  "How committed are you to making changes?",
				Options: opts("Extremely committed", "🔥", "Very committed", "💪", "Moderately committed", "👍", "Trying it out", "🤔")},
			{ID: "q10_obstacle_handling", QuestionKey: QCommitment, Title: "Obstacle Management",
				Prompt:  "How do you typically handle setbacks?",
				Options: opts("Learn and adjust", "🎓", "Get back on track", "🔄", "Seek support", "🤝", "Take a break", "⏸️")},
		},
	}
}

const (
	kindFinancial  = "financial"
	kindBehavioral = "behavioral"

	titleDidYouKnow = "Did You Know?"
	titleSmallWins  = "Small Changes, Big Impact"
)

func defaultSnippets() map[Category][]Snippet {
	return map[Category][]Snippet{
		CategoryStruggling: {
			{ID: "chronic_disease_costs", Category: CategoryStruggling, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "People with chronic conditions like diabetes spend an average of $9,601 more per year on medical costs. Early intervention can significantly reduce these expenses.",
				Citation: Citation{Label: "American Diabetes Association", URL: "https://diabetesjournal.org/action/showPdf?pii=S0149-2918%2818%2930368-0"}},
			{ID: "emergency_costs", Category: CategoryStruggling, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "Emergency room visits cost an average of $2,200 per visit. Many health issues leading to ER visits can be prevented with consistent self-care.",
				Citation: Citation{Label: "Healthcare Financial Management Association", URL: "https://www.hfma.org/topics/news/2019/03/the-true-cost-of-emergency-department-visits.html"}},
			{ID: "small_wins_motivation", Category: CategoryStruggling, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Starting with just 5 minutes of daily movement can improve energy levels by 20% and boost motivation for bigger changes.",
				Citation: Citation{Label: "Journal of Health Psychology", URL: "https://journals.sagepub.com/doi/abs/10.1177/1359105315618994"}},
			{ID: "stress_reduction_basics", Category: CategoryStruggling, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Three deep breaths taken 3 times per day can reduce cortisol levels by 15% and improve overall well-being.",
				Citation: Citation{Label: "American Psychological Association", URL: "https://www.apa.org/science/about/psa/2019/06/stress-relief"}},
		},
		CategoryImproving: {
			{ID: "prevention_savings", Category: CategoryImproving, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "Preventive care saves an average of $7 for every $1 spent. Regular health maintenance can prevent costly conditions later.",
				Citation: Citation{Label: "CDC - Prevention and Wellness", URL: "https://www.cdc.gov/chronicdisease/about/prevention.htm"}},
			{ID: "fitness_investment_roi", Category: CategoryImproving, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "Regular exercise can reduce healthcare costs by $2,500 per year through reduced doctor visits and medication needs.",
				Citation: Citation{Label: "Journal of American Heart Association", URL: "https://www.ahajournals.org/doi/full/10.1161/JAHA.116.003614"}},
			{ID: "habit_stacking_power", Category: CategoryImproving, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Adding one healthy habit to an existing routine increases success rates by 65% compared to starting from scratch.",
				Citation: Citation{Label: "British Journal of Health Psychology", URL: "https://bpspsychub.onlinelibrary.wiley.com/doi/abs/10.1348/135910706X96560"}},
			{ID: "incremental_improvements", Category: CategoryImproving, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Improving just 1% each day compounds to 37x better results over a year. Small, consistent changes create lasting transformation.",
				Citation: Citation{Label: "Harvard Business Review - The Power of Small Wins", URL: "https://hbr.org/2011/05/the-power-of-small-wins"}},
		},
		CategoryOptimizing: {
			{ID: "longevity_investment", Category: CategoryOptimizing, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "Maintaining optimal health can add 7-10 years to your lifespan, potentially saving $50,000+ in end-of-life medical costs.",
				Citation: Citation{Label: "Harvard T.H. Chan School of Public Health", URL: "https://www.hsph.harvard.edu/news/press-releases/healthy-lifestyle-longer-life/"}},
			{ID: "productivity_gains", Category: CategoryOptimizing, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "Peak physical condition can increase work productivity by 23%, potentially adding $15,000+ to annual earning potential.",
				Citation: Citation{Label: "Journal of Occupational and Environmental Medicine", URL: "https://journals.lww.com/joem/Abstract/2014/04000/Workplace_Physical_Activity_Programs.1.aspx"}},
			{ID: "performance_optimization", Category: CategoryOptimizing, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Elite athletes improve performance through 1% optimizations. Small tweaks to sleep, nutrition, and recovery compound significantly.",
				Citation: Citation{Label: "Sports Medicine Journal", URL: "https://link.springer.com/article/10.1007/s40279-017-0793-0"}},
			{ID: "biohacking_basics", Category: CategoryOptimizing, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Tracking HRV and optimizing circadian rhythms can improve cognitive performance by 12% and energy levels by 18%.",
				Citation: Citation{Label: "Nature - Circadian Rhythms and Health", URL: "https://www.nature.com/articles/nature23017"}},
		},
		CategoryThriving: {
			{ID: "health_legacy_value", Category: CategoryThriving, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "Maintaining excellent health can reduce family healthcare burdens by 40% and increase inheritance value by extending earning years.",
				Citation: Citation{Label: "National Institute on Aging", URL: "https://www.nia.nih.gov/health/healthy-aging"}},
			{ID: "insurance_premiums_healthy", Category: CategoryThriving, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "People in excellent health can qualify for life insurance premiums 75% lower than average, saving thousands annually.",
				Citation: Citation{Label: "American Council of Life Insurers", URL: "https://www.acli.com/posting/healthy-living-can-lower-life-insurance-premiums"}},
			{ID: "maintenance_consistency", Category: CategoryThriving, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Maintaining peak health requires only 80% consistency. Perfect is not necessary - sustainable excellence is the goal.",
				Citation: Citation{Label: "American Journal of Preventive Medicine", URL: "https://www.ajpmonline.org/article/S0749-3797(16)30513-6/fulltext"}},
			{ID: "influence_ripple_effect", Category: CategoryThriving, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Your healthy habits influence an average of 3 people in your network, creating positive ripple effects in your community.",
				Citation: Citation{Label: "New England Journal of Medicine", URL: "https://www.nejm.org/doi/full/10.1056/NEJMsa066082"}},
		},
		CategoryUnsure: {
			{ID: "health_assessment_value", Category: CategoryUnsure, Kind: kindFinancial, Title: titleDidYouKnow,
				Body:     "A comprehensive health assessment can identify risk factors early, potentially preventing $25,000+ in future medical costs.",
				Citation: Citation{Label: "Preventive Medicine Journal", URL: "https://www.sciencedirect.com/journal/preventive-medicine"}},
			{ID: "self_awareness_first_step", Category: CategoryUnsure, Kind: kindBehavioral, Title: titleSmallWins,
				Body:     "Simply tracking your current habits for one week can increase self-awareness by 40% and motivation for change by 25%.",
				Citation: Citation{Label: "Health Psychology Review", URL: "https://www.tandfonline.com/doi/abs/10.1080/17437199.2013.837729"}},
		},
	}
}
