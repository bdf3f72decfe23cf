package card

// starterDeck is the built-in deck seeded into a fresh household.
var starterDeck = []CreateRequest{
	{
		ID:           "dishes",
		Category:     CategoryDailyGrind,
		Title:        LocalizedText{EN: "Dishes", HE: "כלים"},
		Description:  LocalizedText{EN: "Wash and put away the dishes", HE: "לשטוף ולסדר את הכלים"},
		Difficulty:   1,
		Frequency:    FrequencyDaily,
		TimeEstimate: 20,
	},
	{
		ID:           "laundry",
		Category:     CategoryDailyGrind,
		Title:        LocalizedText{EN: "Laundry", HE: "כביסה"},
		Description:  LocalizedText{EN: "Wash, dry, fold and put away laundry", HE: "לכבס, לייבש, לקפל ולסדר"},
		Difficulty:   2,
		Frequency:    FrequencyWeekly,
		TimeEstimate: 45,
	},
	{
		ID:           "groceries",
		Category:     CategoryDailyGrind,
		Title:        LocalizedText{EN: "Groceries", HE: "קניות"},
		Description:  LocalizedText{EN: "Plan the list and do the weekly shop", HE: "לתכנן רשימה ולעשות קניות שבועיות"},
		Difficulty:   2,
		Frequency:    FrequencyWeekly,
		TimeEstimate: 60,
	},
	{
		ID:           "kids-morning-routine",
		Category:     CategoryKids,
		Title:        LocalizedText{EN: "Morning routine", HE: "שגרת בוקר"},
		Description:  LocalizedText{EN: "Wake, dress and feed the kids before school", HE: "להעיר, להלביש ולהאכיל לפני בית הספר"},
		Difficulty:   3,
		Frequency:    FrequencyDaily,
		TimeEstimate: 40,
	},
	{
		ID:           "kids-bedtime",
		Category:     CategoryKids,
		Title:        LocalizedText{EN: "Bedtime", HE: "השכבה"},
		Description:  LocalizedText{EN: "Bath, teeth, story, lights out", HE: "אמבטיה, שיניים, סיפור, כיבוי אורות"},
		Difficulty:   2,
		Frequency:    FrequencyDaily,
		TimeEstimate: 30,
	},
	{
		ID:           "bathrooms",
		Category:     CategoryHome,
		Title:        LocalizedText{EN: "Bathrooms", HE: "שירותים ואמבטיה"},
		Description:  LocalizedText{EN: "Deep clean the bathrooms", HE: "ניקוי יסודי של חדרי הרחצה"},
		Difficulty:   3,
		Frequency:    FrequencyWeekly,
		TimeEstimate: 35,
	},
	{
		ID:           "trash-recycling",
		Category:     CategoryHome,
		Title:        LocalizedText{EN: "Trash & recycling", HE: "זבל ומיחזור"},
		Description:  LocalizedText{EN: "Take out trash and sort recycling", HE: "להוציא זבל ולמיין מיחזור"},
		Difficulty:   1,
		Frequency:    FrequencyDaily,
		TimeEstimate: 10,
	},
	{
		ID:           "birthday-planning",
		Category:     CategoryMagic,
		Title:        LocalizedText{EN: "Birthday planning", HE: "תכנון ימי הולדת"},
		Description:  LocalizedText{EN: "Remember, plan and make it special", HE: "לזכור, לתכנן ולעשות את זה מיוחד"},
		Difficulty:   2,
		Frequency:    FrequencyOccasional,
		TimeEstimate: 90,
	},
	{
		ID:           "family-calendar",
		Category:     CategoryMagic,
		Title:        LocalizedText{EN: "Family calendar", HE: "לוח שנה משפחתי"},
		Description:  LocalizedText{EN: "Keep the shared calendar up to date", HE: "לעדכן את היומן המשותף"},
		Difficulty:   1,
		Frequency:    FrequencyWeekly,
		TimeEstimate: 15,
	},
	{
		ID:           "surprise-fix-it",
		Category:     CategoryWild,
		Title:        LocalizedText{EN: "Surprise fix-it", HE: "תיקון הפתעה"},
		Description:  LocalizedText{EN: "Whatever broke this week", HE: "מה שהתקלקל השבוע"},
		Difficulty:   2,
		Frequency:    FrequencyOccasional,
		TimeEstimate: 25,
	},
}
