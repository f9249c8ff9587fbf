package config

// DefaultEvent is the Elite Core Cup Mardi Gras 2026 event
func DefaultEvent() EventConfig {
	return EventConfig{
		Name:     "Elite Core Cup",
		Edition:  "Mardi Gras 2026",
		Venue:    "Elite Core Gymnastics",
		Address:  "999 W Main St, West Dundee, IL 60118",
		MapsURL:  "https://maps.google.com/?q=999+W+Main+St,+West+Dundee,+IL+60118",
		Timezone: "America/Chicago",
		Reminders: []string{
			"Bring your school's community service form",
			"Wear comfortable clothes, you may break a sweat",
			"Food & beverages provided!",
		},
		Days: []DayConfig{
			{
				Day:         "thursday",
				Label:       "Thursday, Feb 26",
				ShortLabel:  "Thu, Feb 26",
				TimeLabel:   "5-9 PM",
				Role:        "SETUP",
				Summary:     "Moving mats, equipment & decorations",
				Title:       "Elite Core Cup - SETUP Volunteer",
				Description: "Volunteer setup for Elite Core Cup Mardi Gras 2026\n\nBring your school community service form\nFood & beverages provided!",
				Start:       "2026-02-26 17:00",
				End:         "2026-02-26 21:00",
			},
			{
				Day:         "sunday",
				Label:       "Sunday, Mar 1",
				ShortLabel:  "Sun, Mar 1",
				TimeLabel:   "6-9 PM",
				Role:        "TAKEDOWN",
				Summary:     "Breaking down equipment & cleanup",
				Title:       "Elite Core Cup - TAKEDOWN Volunteer",
				Description: "Volunteer takedown for Elite Core Cup Mardi Gras 2026\n\nBring your school community service form\nFood & beverages provided!",
				Start:       "2026-03-01 18:00",
				End:         "2026-03-01 21:00",
			},
		},
	}
}
