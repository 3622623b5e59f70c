package models

import "time"

// Reminder type constants
const (
	ReminderTypeDaily    = "daily_reminder"
	ReminderTypeFollowup = "followup_reminder"
	ReminderTypeWeekly   = "weekly_summary"
)

// Reminder is one local notification the app wants delivered.
type Reminder struct {
	Reminder_ID    string    `json:"id"`
	Reminder_Type  string    `json:"type"`
	Prayer_ID      RecordID  `json:"prayerId,omitempty"`
	Followup_Index int       `json:"followupIndex,omitempty"`
	Person         string    `json:"person,omitempty"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Fire_At        time.Time `json:"fireAt"`
	Sound          bool      `json:"sound"`
	Vibration      bool      `json:"vibration"`
}

// WeeklySummary is the digest sent when weekly summaries are on.
type WeeklySummary struct {
	Generated_At        time.Time  `json:"generatedAt"`
	Active_Prayers      int        `json:"activePrayers"`
	Answered_Prayers    int        `json:"answeredPrayers"`
	Archived_Prayers    int        `json:"archivedPrayers"`
	Pending_Followups   int        `json:"pendingFollowups"`
	Overdue_Followups   int        `json:"overdueFollowups"`
	Completed_Followups int        `json:"completedFollowups"`
	Upcoming_Followups  []Reminder `json:"upcomingFollowups"`
	Recent_Praises      []Praise   `json:"recentPraises"`
}
