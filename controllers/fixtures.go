package controllers

import (
	"time"

	"github.com/PrayerPraise/models"
)

// Test fixture data for use in tests. Dates are UTC noon, which the tests
// read in UTC.

func noonDaysFromNow(days int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day()+days, 12, 0, 0, 0, time.UTC)
}

// MockPrayer has one follow-up pending in three days.
func MockPrayer() models.Prayer {
	return models.Prayer{
		Prayer_ID:   "prayer-1",
		Person:      "Jane",
		Prayer_Text: "Healing after surgery",
		Followups:   []models.Followup{{Followup_At: noonDaysFromNow(3)}},
	}
}

// MockCompletedPrayer has two completed follow-ups and nothing pending.
func MockCompletedPrayer() models.Prayer {
	first := noonDaysFromNow(-10)
	second := noonDaysFromNow(-3)
	return models.Prayer{
		Prayer_ID:   "prayer-2",
		Person:      "Sam",
		Prayer_Text: "New job",
		Followups: []models.Followup{
			{Followup_At: first, Followedup_At: &first},
			{Followup_At: second, Followedup_At: &second},
		},
	}
}

func MockAnsweredPrayer() models.Prayer {
	return models.Prayer{
		Prayer_ID:   "prayer-3",
		Person:      "Ana",
		Prayer_Text: "Safe travel",
		Is_Answered: true,
		Followups:   []models.Followup{},
	}
}

func MockRemovedPrayer() models.Prayer {
	return models.Prayer{
		Prayer_ID:   "prayer-4",
		Person:      "Removed",
		Prayer_Text: "Gone",
		Is_Removed:  true,
		Followups:   []models.Followup{},
	}
}

func MockPrayers() []models.Prayer {
	return []models.Prayer{MockPrayer(), MockCompletedPrayer(), MockAnsweredPrayer(), MockRemovedPrayer()}
}

func MockPraise() models.Praise {
	return models.Praise{
		Praise_ID: "praise-1",
		Text:      "Surgery went well",
		Date:      noonDaysFromNow(-1),
	}
}

func MockArchivedPraise() models.Praise {
	return models.Praise{
		Praise_ID:   "praise-2",
		Text:        "Found a new home",
		Date:        noonDaysFromNow(-20),
		Is_Archived: true,
	}
}

func MockPraises() []models.Praise {
	return []models.Praise{MockPraise(), MockArchivedPraise()}
}
