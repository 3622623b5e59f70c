package models

type NotificationSettings struct {
	Enabled            bool   `json:"enabled"`
	Followup_Reminders bool   `json:"followupReminders"`
	Daily_Reminders    bool   `json:"dailyReminders"`
	Weekly_Summaries   bool   `json:"weeklySummaries"`
	Sound              bool   `json:"sound"`
	Vibration          bool   `json:"vibration"`
	Summary_Email      string `json:"summaryEmail,omitempty"`
}

type Settings struct {
	Notifications NotificationSettings `json:"notifications"`
	Theme         string               `json:"theme"`
	Language      string               `json:"language"`
}

// DefaultSettings is what a fresh install starts with.
func DefaultSettings() Settings {
	return Settings{
		Notifications: NotificationSettings{
			Enabled:            false,
			Followup_Reminders: true,
			Daily_Reminders:    true,
			Weekly_Summaries:   false,
			Sound:              true,
			Vibration:          true,
		},
		Theme:    "light",
		Language: "en",
	}
}

// SettingsUpdate is a partial update; nil fields keep their current value.
type SettingsUpdate struct {
	Notifications *NotificationSettingsUpdate `json:"notifications"`
	Theme         *string                     `json:"theme"`
	Language      *string                     `json:"language"`
}

type NotificationSettingsUpdate struct {
	Enabled            *bool   `json:"enabled"`
	Followup_Reminders *bool   `json:"followupReminders"`
	Daily_Reminders    *bool   `json:"dailyReminders"`
	Weekly_Summaries   *bool   `json:"weeklySummaries"`
	Sound              *bool   `json:"sound"`
	Vibration          *bool   `json:"vibration"`
	Summary_Email      *string `json:"summaryEmail"`
}

func (s Settings) Apply(update SettingsUpdate) Settings {
	if update.Theme != nil {
		s.Theme = *update.Theme
	}
	if update.Language != nil {
		s.Language = *update.Language
	}

	n := update.Notifications
	if n == nil {
		return s
	}
	if n.Enabled != nil {
		s.Notifications.Enabled = *n.Enabled
	}
	if n.Followup_Reminders != nil {
		s.Notifications.Followup_Reminders = *n.Followup_Reminders
	}
	if n.Daily_Reminders != nil {
		s.Notifications.Daily_Reminders = *n.Daily_Reminders
	}
	if n.Weekly_Summaries != nil {
		s.Notifications.Weekly_Summaries = *n.Weekly_Summaries
	}
	if n.Sound != nil {
		s.Notifications.Sound = *n.Sound
	}
	if n.Vibration != nil {
		s.Notifications.Vibration = *n.Vibration
	}
	if n.Summary_Email != nil {
		s.Notifications.Summary_Email = *n.Summary_Email
	}
	return s
}
