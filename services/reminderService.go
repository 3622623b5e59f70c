package services

import (
	"context"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/PrayerPraise/models"
)

const (
	ReminderHour = 9

	// FollowupReminderWindowDays is how far ahead follow-up reminders are planned.
	FollowupReminderWindowDays = 7

	WeeklySummaryInterval = 7 * 24 * time.Hour
)

// Notifier delivers a reminder to the user.
type Notifier interface {
	Notify(ctx context.Context, reminder models.Reminder) error
}

// SummarySender delivers the weekly summary.
type SummarySender interface {
	SendWeeklySummary(ctx context.Context, to string, summary models.WeeklySummary) error
}

type ReminderStore interface {
	PrayerStore
	PraiseStore
	SettingsStore
}

// LogNotifier writes reminders to the log. Device delivery is left to the
// front ends.
type LogNotifier struct {
	Logger *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, reminder models.Reminder) error {
	logger := n.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Info(reminder.Title,
		zap.String("type", reminder.Reminder_Type),
		zap.String("message", reminder.Message),
		zap.String("prayer_id", reminder.Prayer_ID.String()),
		zap.Time("fire_at", reminder.Fire_At),
		zap.Bool("sound", reminder.Sound),
		zap.Bool("vibration", reminder.Vibration),
	)
	return nil
}

func followupReminderID(id models.RecordID, index int) string {
	return fmt.Sprintf("followup-reminder-%s-%d", id, index)
}

// UpcomingFollowupReminders plans one reminder per pending follow-up due in
// the next FollowupReminderWindowDays days, at ReminderHour local time on
// its day, or now when that moment has passed. Answered, archived and
// removed prayers get none.
func (c Calendar) UpcomingFollowupReminders(prayers []models.Prayer, settings models.NotificationSettings) []models.Reminder {
	now := c.CurrentTime()
	reminders := []models.Reminder{}

	for _, p := range prayers {
		if p.Is_Answered || p.Is_Archived || p.Is_Removed {
			continue
		}
		for i, f := range p.Followups {
			if f.IsComplete() {
				continue
			}
			days := c.DaysUntil(f.Followup_At)
			if days < 0 || days > FollowupReminderWindowDays {
				continue
			}

			fireAt := c.At(f.Followup_At, ReminderHour, 0)
			if fireAt.Before(now) {
				fireAt = now
			}
			reminders = append(reminders, models.Reminder{
				Reminder_ID:    followupReminderID(p.Prayer_ID, i),
				Reminder_Type:  models.ReminderTypeFollowup,
				Prayer_ID:      p.Prayer_ID,
				Followup_Index: i,
				Person:         p.Person,
				Title:          "Prayer Follow-up",
				Message:        fmt.Sprintf("Time to follow up on your prayer for %s", p.Person),
				Fire_At:        fireAt,
				Sound:          settings.Sound,
				Vibration:      settings.Vibration,
			})
		}
	}

	slices.SortStableFunc(reminders, func(a, b models.Reminder) int {
		return a.Fire_At.Compare(b.Fire_At)
	})
	return reminders
}

// NextDailyReminder is the next ReminderHour local time after now.
func (c Calendar) NextDailyReminder(settings models.NotificationSettings) models.Reminder {
	now := c.CurrentTime()
	y, m, d := now.Date()
	fireAt := time.Date(y, m, d, ReminderHour, 0, 0, 0, now.Location())
	if !fireAt.After(now) {
		fireAt = time.Date(y, m, d+1, ReminderHour, 0, 0, 0, now.Location())
	}

	return models.Reminder{
		Reminder_ID:   "daily-reminder",
		Reminder_Type: models.ReminderTypeDaily,
		Title:         "Daily Prayer Time",
		Message:       "Take a moment to pray and give thanks today.",
		Fire_At:       fireAt,
		Sound:         settings.Sound,
		Vibration:     settings.Vibration,
	}
}

// BuildWeeklySummary counts the journal as it stands and what changed in the
// last seven days.
func (c Calendar) BuildWeeklySummary(prayers []models.Prayer, praises []models.Praise, settings models.NotificationSettings) models.WeeklySummary {
	now := c.CurrentTime()
	weekAgo := now.Add(-WeeklySummaryInterval)

	summary := models.WeeklySummary{
		Generated_At:       now.UTC(),
		Upcoming_Followups: c.UpcomingFollowupReminders(prayers, settings),
		Recent_Praises:     []models.Praise{},
	}

	for _, p := range prayers {
		if p.Is_Removed {
			continue
		}
		switch {
		case p.Is_Archived:
			summary.Archived_Prayers++
		case p.Is_Answered:
			summary.Answered_Prayers++
		default:
			summary.Active_Prayers++
		}

		for _, f := range p.Followups {
			if f.IsComplete() {
				if f.Followedup_At.After(weekAgo) {
					summary.Completed_Followups++
				}
				continue
			}
			summary.Pending_Followups++
			if f.HasDate() && c.IsPastDue(f.Followup_At) {
				summary.Overdue_Followups++
			}
		}
	}

	for _, p := range praises {
		if !p.Is_Removed && p.Date.After(weekAgo) {
			summary.Recent_Praises = append(summary.Recent_Praises, p)
		}
	}
	slices.SortStableFunc(summary.Recent_Praises, func(a, b models.Praise) int {
		return b.Date.Compare(a.Date)
	})
	return summary
}

type scheduledJob struct {
	key        string
	generation int
	reminder   models.Reminder
}

// ReminderScheduler owns the reminder timers. Timers only hand their job
// back to Run, which re-reads storage before delivering anything.
type ReminderScheduler struct {
	store     ReminderStore
	calendar  Calendar
	notifier  Notifier
	summaries SummarySender
	logger    *zap.Logger

	reschedule chan struct{}
	fired      chan scheduledJob

	// owned by Run
	generation int
	sent       map[string]bool
	nextWeekly time.Time
}

var reminderScheduler *ReminderScheduler

func NewReminderScheduler(store ReminderStore, calendar Calendar, notifier Notifier, summaries SummarySender, logger *zap.Logger) *ReminderScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if notifier == nil {
		notifier = LogNotifier{Logger: logger}
	}
	return &ReminderScheduler{
		store:      store,
		calendar:   calendar,
		notifier:   notifier,
		summaries:  summaries,
		logger:     logger,
		reschedule: make(chan struct{}, 1),
		fired:      make(chan scheduledJob),
		sent:       make(map[string]bool),
	}
}

// InitReminderScheduler registers the scheduler that handlers signal after
// a change.
func InitReminderScheduler(scheduler *ReminderScheduler) {
	reminderScheduler = scheduler
}

func GetReminderScheduler() *ReminderScheduler {
	return reminderScheduler
}

// Reschedule asks Run to re-plan. It never blocks.
func (s *ReminderScheduler) Reschedule() {
	select {
	case s.reschedule <- struct{}{}:
	default:
	}
}

// Upcoming lists what is planned: follow-up reminders, and the daily
// reminder when it is on.
func (s *ReminderScheduler) Upcoming(ctx context.Context) ([]models.Reminder, error) {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		return nil, err
	}

	reminders := s.calendar.UpcomingFollowupReminders(prayers, settings.Notifications)
	if settings.Notifications.Enabled && settings.Notifications.Daily_Reminders {
		reminders = append(reminders, s.calendar.NextDailyReminder(settings.Notifications))
		slices.SortStableFunc(reminders, func(a, b models.Reminder) int {
			return a.Fire_At.Compare(b.Fire_At)
		})
	}
	return reminders, nil
}

// Run plans the reminders and delivers them until ctx is cancelled.
func (s *ReminderScheduler) Run(ctx context.Context) error {
	timers := make(map[string]*time.Timer)
	stopAll := func() {
		for key, timer := range timers {
			timer.Stop()
			delete(timers, key)
		}
	}
	defer stopAll()

	s.plan(ctx, timers)
	s.logger.Info("reminder scheduler started", zap.Int("timers", len(timers)))

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("reminder scheduler stopped")
			return nil
		case <-s.reschedule:
			stopAll()
			s.plan(ctx, timers)
			s.logger.Debug("reminders rescheduled", zap.Int("timers", len(timers)))
		case job := <-s.fired:
			if job.generation != s.generation {
				continue
			}
			delete(timers, job.key)
			s.deliver(ctx, job)
			stopAll()
			s.plan(ctx, timers)
		}
	}
}

func (s *ReminderScheduler) plan(ctx context.Context, timers map[string]*time.Timer) {
	s.generation++

	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		s.logger.Error("cannot load settings for reminders", zap.Error(err))
		return
	}
	n := settings.Notifications
	if !n.Enabled {
		s.nextWeekly = time.Time{}
		return
	}

	if n.Followup_Reminders {
		prayers, err := s.store.LoadPrayers(ctx)
		if err != nil {
			s.logger.Error("cannot load prayers for reminders", zap.Error(err))
		} else {
			upcoming := s.calendar.UpcomingFollowupReminders(prayers, n)
			s.forgetDelivered(upcoming)
			for _, r := range upcoming {
				if !s.sent[r.Reminder_ID] {
					s.schedule(ctx, timers, scheduledJob{key: r.Reminder_ID, reminder: r})
				}
			}
		}
	}

	if n.Daily_Reminders {
		daily := s.calendar.NextDailyReminder(n)
		s.schedule(ctx, timers, scheduledJob{key: daily.Reminder_ID, reminder: daily})
	}

	if n.Weekly_Summaries && n.Summary_Email != "" {
		if s.nextWeekly.IsZero() {
			s.nextWeekly = s.calendar.CurrentTime().Add(WeeklySummaryInterval)
		}
		s.schedule(ctx, timers, scheduledJob{
			key: "weekly-summary",
			reminder: models.Reminder{
				Reminder_ID:   "weekly-summary",
				Reminder_Type: models.ReminderTypeWeekly,
				Title:         "Weekly Prayer & Praise Summary",
				Fire_At:       s.nextWeekly,
			},
		})
	} else {
		s.nextWeekly = time.Time{}
	}
}

// forgetDelivered drops the delivery mark of every follow-up that is no
// longer upcoming, so a reopened follow-up is reminded again.
func (s *ReminderScheduler) forgetDelivered(upcoming []models.Reminder) {
	keep := make(map[string]bool, len(upcoming))
	for _, r := range upcoming {
		keep[r.Reminder_ID] = true
	}
	for key := range s.sent {
		if !keep[key] {
			delete(s.sent, key)
		}
	}
}

// advanceWeekly moves the weekly deadline to the first slot after now. A
// deadline missed several times over still yields a single summary.
func (s *ReminderScheduler) advanceWeekly() {
	now := s.calendar.CurrentTime()
	if s.nextWeekly.IsZero() {
		s.nextWeekly = now.Add(WeeklySummaryInterval)
		return
	}
	for !s.nextWeekly.After(now) {
		s.nextWeekly = s.nextWeekly.Add(WeeklySummaryInterval)
	}
}

func (s *ReminderScheduler) schedule(ctx context.Context, timers map[string]*time.Timer, job scheduledJob) {
	job.generation = s.generation
	delay := job.reminder.Fire_At.Sub(s.calendar.CurrentTime())
	if delay < 0 {
		delay = 0
	}
	timers[job.key] = time.AfterFunc(delay, func() {
		select {
		case s.fired <- job:
		case <-ctx.Done():
		}
	})
}

func (s *ReminderScheduler) deliver(ctx context.Context, job scheduledJob) {
	settings, err := s.store.LoadSettings(ctx)
	if err != nil {
		s.logger.Error("cannot load settings for reminder", zap.String("reminder", job.key), zap.Error(err))
		return
	}
	n := settings.Notifications

	switch job.reminder.Reminder_Type {
	case models.ReminderTypeFollowup:
		s.sent[job.key] = true
		if !n.Enabled || !n.Followup_Reminders || !s.stillPending(ctx, job.reminder) {
			s.logger.Debug("follow-up reminder no longer applies", zap.String("reminder", job.key))
			return
		}
		s.notify(ctx, job.reminder)

	case models.ReminderTypeDaily:
		if n.Enabled && n.Daily_Reminders {
			s.notify(ctx, job.reminder)
		}

	case models.ReminderTypeWeekly:
		s.advanceWeekly()
		if n.Enabled && n.Weekly_Summaries && n.Summary_Email != "" {
			s.sendSummary(ctx, n)
		}
	}
}

func (s *ReminderScheduler) stillPending(ctx context.Context, reminder models.Reminder) bool {
	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		s.logger.Error("cannot load prayers for reminder", zap.Error(err))
		return false
	}
	i := findPrayer(prayers, reminder.Prayer_ID)
	if i < 0 {
		return false
	}
	p := prayers[i]
	if p.Is_Answered || p.Is_Archived || reminder.Followup_Index >= len(p.Followups) {
		return false
	}
	return !p.Followups[reminder.Followup_Index].IsComplete()
}

func (s *ReminderScheduler) notify(ctx context.Context, reminder models.Reminder) {
	if err := s.notifier.Notify(ctx, reminder); err != nil {
		s.logger.Error("reminder delivery failed", zap.String("reminder", reminder.Reminder_ID), zap.Error(err))
	}
}

func (s *ReminderScheduler) sendSummary(ctx context.Context, n models.NotificationSettings) {
	if s.summaries == nil {
		s.logger.Warn("weekly summary skipped, email is not configured")
		return
	}

	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		s.logger.Error("cannot load prayers for weekly summary", zap.Error(err))
		return
	}
	praises, err := s.store.LoadPraises(ctx)
	if err != nil {
		s.logger.Error("cannot load praises for weekly summary", zap.Error(err))
		return
	}

	summary := s.calendar.BuildWeeklySummary(prayers, praises, n)
	if err := s.summaries.SendWeeklySummary(ctx, n.Summary_Email, summary); err != nil {
		s.logger.Error("weekly summary delivery failed", zap.Error(err))
	}
}
