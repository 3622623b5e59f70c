package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/PrayerPraise/models"
)

const (
	// DefaultFollowupDays is how far out a follow-up lands when no date is picked.
	DefaultFollowupDays = 7

	InvalidDateLabel = "Invalid date"
)

// Calendar turns stored instants into the calendar days the user sees. Dates
// picked by the user are stored as the UTC instant of local noon so that the
// day survives moving between time zones.
type Calendar struct {
	Now      func() time.Time
	Location *time.Location
	Logger   *zap.Logger
}

func NewCalendar(location *time.Location, logger *zap.Logger) Calendar {
	return Calendar{Now: time.Now, Location: location, Logger: logger}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.Local
	}
	return c.Location
}

func (c Calendar) logger() *zap.Logger {
	if c.Logger == nil {
		return zap.NewNop()
	}
	return c.Logger
}

// CurrentTime is the clock reading in the configured zone.
func (c Calendar) CurrentTime() time.Time {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return now().In(c.location())
}

// NormalizeDate is the stored form of a calendar day: local noon, in UTC.
func (c Calendar) NormalizeDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, c.location()).UTC()
}

// LocalDay is the calendar day a stored instant stands for. Values written at
// exactly UTC midnight come from older builds that stored bare dates, and are
// read as that UTC day.
func (c Calendar) LocalDay(t time.Time) (int, time.Month, int) {
	utc := t.UTC()
	if utc.Hour() == 0 && utc.Minute() == 0 && utc.Second() == 0 && utc.Nanosecond() == 0 {
		return utc.Date()
	}
	return t.In(c.location()).Date()
}

// Today is the stored form of the current local day.
func (c Calendar) Today() time.Time {
	return c.NormalizeDate(c.CurrentTime().Date())
}

// ParseDateInput reads a date picked in a form (YYYY-MM-DD) or an RFC 3339
// instant, and returns the stored form of its day.
func (c Calendar) ParseDateInput(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("%w: empty value", ErrInvalidDate)
	}

	if day, err := time.Parse(models.DateInputLayout, value); err == nil {
		return c.NormalizeDate(day.Date()), nil
	}

	t, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, value)
	}
	return c.NormalizeDate(c.LocalDay(t)), nil
}

// FormatDate renders the day of a stored instant, e.g. "SEP 5TH 2025".
func (c Calendar) FormatDate(t time.Time) string {
	year, month, day := c.LocalDay(t)
	return strings.ToUpper(fmt.Sprintf("%s %s %d", month.String()[:3], ordinal(day), year))
}

// FormatStored formats a persisted date string. Empty input renders as empty.
func (c Calendar) FormatStored(value string) string {
	if strings.TrimSpace(value) == "" {
		return ""
	}
	t, err := models.ParseStoredTime(value)
	if err != nil {
		c.logger().Warn("cannot format stored date", zap.String("value", value), zap.Error(err))
		return InvalidDateLabel
	}
	return c.FormatDate(t)
}

// DaysUntil counts whole local calendar days from today to t.
func (c Calendar) DaysUntil(t time.Time) int {
	y, m, d := c.LocalDay(t)
	ty, tm, td := c.CurrentTime().Date()
	target := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	today := time.Date(ty, tm, td, 0, 0, 0, 0, time.UTC)
	return int(target.Sub(today).Hours() / 24)
}

func (c Calendar) RelativeTime(t time.Time) string {
	days := c.DaysUntil(t)
	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0:
		return fmt.Sprintf("in %d days", days)
	default:
		return fmt.Sprintf("%d days ago", -days)
	}
}

func (c Calendar) IsPastDue(t time.Time) bool {
	return c.DaysUntil(t) < 0
}

func (c Calendar) IsToday(t time.Time) bool {
	return c.DaysUntil(t) == 0
}

// NextFollowupDate is the stored form of the day daysFromNow days ahead.
func (c Calendar) NextFollowupDate(daysFromNow int) time.Time {
	y, m, d := c.CurrentTime().Date()
	return c.NormalizeDate(y, m, d+daysFromNow)
}

// At is the instant of hour:minute local time on the day of t.
func (c Calendar) At(t time.Time, hour, minute int) time.Time {
	y, m, d := c.LocalDay(t)
	return time.Date(y, m, d, hour, minute, 0, 0, c.location())
}

func ordinal(day int) string {
	suffix := "th"
	switch day % 100 {
	case 11, 12, 13:
	default:
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return strconv.Itoa(day) + suffix
}
