package services

import (
	"context"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/PrayerPraise/models"
)

type PrayerStore interface {
	LoadPrayers(ctx context.Context) ([]models.Prayer, error)
	SavePrayers(ctx context.Context, prayers []models.Prayer) error
}

// PrayerEdit is a parsed edit; nil fields are left untouched.
type PrayerEdit struct {
	Person      *string
	Prayer_Text *string
	Is_Answered *bool
	Followup_At *time.Time
}

// The mutators below never modify their input. They return the complete
// collection with one change applied, ready to be saved, and the changed
// prayer. On error the input collection is returned as is.

func AddPrayer(prayers []models.Prayer, person, prayerText string, followupAt *time.Time) ([]models.Prayer, models.Prayer, error) {
	person = strings.TrimSpace(person)
	prayerText = strings.TrimSpace(prayerText)
	if person == "" || prayerText == "" {
		return prayers, models.Prayer{}, ErrInvalidPrayer
	}

	prayer := models.Prayer{
		Prayer_ID:   models.NewRecordID(),
		Person:      person,
		Prayer_Text: prayerText,
		Followups:   []models.Followup{},
	}
	if followupAt != nil {
		prayer.Followups = append(prayer.Followups, models.Followup{Followup_At: followupAt.UTC()})
	}

	out := make([]models.Prayer, 0, len(prayers)+1)
	out = append(out, prayers...)
	out = append(out, prayer)
	return out, prayer, nil
}

func ToggleAnswered(prayers []models.Prayer, id models.RecordID) ([]models.Prayer, models.Prayer, error) {
	return updatePrayer(prayers, id, func(p *models.Prayer) error {
		p.Is_Answered = !p.Is_Answered
		return nil
	})
}

func ToggleArchived(prayers []models.Prayer, id models.RecordID) ([]models.Prayer, models.Prayer, error) {
	return updatePrayer(prayers, id, func(p *models.Prayer) error {
		p.Is_Archived = !p.Is_Archived
		return nil
	})
}

// MarkRemoved hides a prayer from every view. The record stays in storage
// until the journal is reset.
func MarkRemoved(prayers []models.Prayer, id models.RecordID) ([]models.Prayer, models.Prayer, error) {
	return updatePrayer(prayers, id, func(p *models.Prayer) error {
		p.Is_Removed = true
		return nil
	})
}

func EditPrayer(prayers []models.Prayer, id models.RecordID, edit PrayerEdit) ([]models.Prayer, models.Prayer, error) {
	return updatePrayer(prayers, id, func(p *models.Prayer) error {
		if edit.Person != nil {
			p.Person = strings.TrimSpace(*edit.Person)
			if p.Person == "" {
				return ErrInvalidPrayer
			}
		}
		if edit.Prayer_Text != nil {
			p.Prayer_Text = strings.TrimSpace(*edit.Prayer_Text)
			if p.Prayer_Text == "" {
				return ErrInvalidPrayer
			}
		}
		if edit.Is_Answered != nil {
			p.Is_Answered = *edit.Is_Answered
		}
		if edit.Followup_At != nil {
			return appendFollowup(p, *edit.Followup_At, "")
		}
		return nil
	})
}

// PushFollowup schedules a new follow-up. It is rejected while any earlier
// follow-up is still pending.
func PushFollowup(prayers []models.Prayer, id models.RecordID, date time.Time, notes string) ([]models.Prayer, models.Prayer, error) {
	return updatePrayer(prayers, id, func(p *models.Prayer) error {
		return appendFollowup(p, date, notes)
	})
}

// ToggleFollowupStatus completes a pending follow-up, stamping now, or
// reopens a completed one. Only the latest follow-up can be reopened.
func ToggleFollowupStatus(prayers []models.Prayer, id models.RecordID, index int, now time.Time) ([]models.Prayer, models.Prayer, error) {
	return updatePrayer(prayers, id, func(p *models.Prayer) error {
		if index < 0 || index >= len(p.Followups) {
			return ErrFollowupNotFound
		}
		f := &p.Followups[index]
		if !f.IsComplete() {
			stamp := now.UTC()
			f.Followedup_At = &stamp
			return nil
		}
		if index != len(p.Followups)-1 {
			return ErrFollowupLocked
		}
		f.Followedup_At = nil
		return nil
	})
}

func appendFollowup(p *models.Prayer, date time.Time, notes string) error {
	if !p.AllFollowupsComplete() {
		return ErrFollowupPending
	}
	p.Followups = append(p.Followups, models.Followup{
		Followup_At: date.UTC(),
		Notes:       strings.TrimSpace(notes),
	})
	return nil
}

func findPrayer(prayers []models.Prayer, id models.RecordID) int {
	for i, p := range prayers {
		if p.Prayer_ID == id && !p.Is_Removed {
			return i
		}
	}
	return -1
}

func updatePrayer(prayers []models.Prayer, id models.RecordID, mutate func(*models.Prayer) error) ([]models.Prayer, models.Prayer, error) {
	i := findPrayer(prayers, id)
	if i < 0 {
		return prayers, models.Prayer{}, ErrPrayerNotFound
	}

	updated := prayers[i].Clone()
	if err := mutate(&updated); err != nil {
		return prayers, prayers[i], err
	}

	out := make([]models.Prayer, len(prayers))
	copy(out, prayers)
	out[i] = updated
	return out, updated, nil
}

// FilterPrayers returns the prayers in a view, ordered by next follow-up
// date with prayers that have none last. Removed prayers are in no view.
func FilterPrayers(prayers []models.Prayer, view string) ([]models.Prayer, error) {
	var keep func(models.Prayer) bool
	switch view {
	case models.PrayerViewActive, "":
		keep = func(p models.Prayer) bool { return !p.Is_Answered && !p.Is_Archived }
	case models.PrayerViewAnswered:
		keep = func(p models.Prayer) bool { return p.Is_Answered && !p.Is_Archived }
	case models.PrayerViewArchived:
		keep = func(p models.Prayer) bool { return p.Is_Archived }
	case models.PrayerViewAll:
		keep = func(models.Prayer) bool { return true }
	default:
		return nil, ErrInvalidView
	}

	out := []models.Prayer{}
	for _, p := range prayers {
		if !p.Is_Removed && keep(p) {
			out = append(out, p)
		}
	}

	slices.SortStableFunc(out, func(a, b models.Prayer) int {
		na, aok := a.NextFollowup()
		nb, bok := b.NextFollowup()
		switch {
		case aok && bok:
			return na.Followup_At.Compare(nb.Followup_At)
		case aok:
			return -1
		case bok:
			return 1
		}
		return 0
	})
	return out, nil
}

// DescribePrayer adds the values the prayer lists display.
func (c Calendar) DescribePrayer(p models.Prayer) models.PrayerDetails {
	details := models.PrayerDetails{
		Prayer:                p,
		Can_Schedule_Followup: p.AllFollowupsComplete(),
	}

	if next, ok := p.NextFollowup(); ok {
		at := next.Followup_At
		details.Next_Followup_At = &at
		details.Next_Followup_Label = c.FormatDate(at)
		details.Next_Followup_Relative = c.RelativeTime(at)
		details.Is_Overdue = c.IsPastDue(at)
	}

	if last := p.LastFollowedUpAt(); last != nil {
		details.Last_Followedup_At = last
		if !last.IsZero() {
			details.Last_Followedup_Label = c.FormatDate(*last)
		}
	}
	return details
}

// FollowupHistory lists a prayer's follow-ups, latest date first.
func (c Calendar) FollowupHistory(p models.Prayer) []models.FollowupHistoryEntry {
	entries := make([]models.FollowupHistoryEntry, 0, len(p.Followups))
	for i, f := range p.Followups {
		entry := models.FollowupHistoryEntry{
			Index:        i,
			Followup_At:  f.Followup_At,
			Did_Followup: f.IsComplete(),
			Is_Latest:    i == len(p.Followups)-1,
			Notes:        f.Notes,
		}
		if f.HasDate() {
			entry.Followup_Label = c.FormatDate(f.Followup_At)
		}
		if f.Followedup_At != nil {
			done := *f.Followedup_At
			entry.Followedup_At = &done
			if !done.IsZero() {
				entry.Done_Label = c.FormatDate(done)
			}
		}
		entries = append(entries, entry)
	}

	slices.SortStableFunc(entries, func(a, b models.FollowupHistoryEntry) int {
		return b.Followup_At.Compare(a.Followup_At)
	})
	return entries
}

// ResolveFollowup finds a follow-up by its position, or by its date
// (YYYY-MM-DD or RFC 3339) as older clients sent it. When several
// follow-ups fall on the same day the latest one wins.
func (c Calendar) ResolveFollowup(p models.Prayer, ref string) (int, error) {
	ref = strings.TrimSpace(ref)
	if index, err := strconv.Atoi(ref); err == nil {
		if index < 0 || index >= len(p.Followups) {
			return -1, ErrFollowupNotFound
		}
		return index, nil
	}

	day, err := c.ParseDateInput(ref)
	if err != nil {
		return -1, err
	}
	y, m, d := c.LocalDay(day)
	for i := len(p.Followups) - 1; i >= 0; i-- {
		if !p.Followups[i].HasDate() {
			continue
		}
		fy, fm, fd := c.LocalDay(p.Followups[i].Followup_At)
		if fy == y && fm == m && fd == d {
			return i, nil
		}
	}
	return -1, ErrFollowupNotFound
}

// PrayerService runs each operation as load, mutate, save.
type PrayerService struct {
	store    PrayerStore
	calendar Calendar
}

func NewPrayerService(store PrayerStore, calendar Calendar) *PrayerService {
	return &PrayerService{store: store, calendar: calendar}
}

func (s *PrayerService) List(ctx context.Context, view string) ([]models.PrayerDetails, error) {
	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		return nil, err
	}
	filtered, err := FilterPrayers(prayers, view)
	if err != nil {
		return nil, err
	}

	out := make([]models.PrayerDetails, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, s.calendar.DescribePrayer(p))
	}
	return out, nil
}

func (s *PrayerService) Get(ctx context.Context, id models.RecordID) (models.PrayerDetails, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return models.PrayerDetails{}, err
	}
	return s.calendar.DescribePrayer(p), nil
}

func (s *PrayerService) History(ctx context.Context, id models.RecordID) ([]models.FollowupHistoryEntry, error) {
	p, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.calendar.FollowupHistory(p), nil
}

func (s *PrayerService) Create(ctx context.Context, input models.PrayerCreate) (models.PrayerDetails, error) {
	var followupAt *time.Time
	if strings.TrimSpace(input.Followup_At) != "" {
		at, err := s.calendar.ParseDateInput(input.Followup_At)
		if err != nil {
			return models.PrayerDetails{}, err
		}
		followupAt = &at
	}

	return s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		return AddPrayer(prayers, input.Person, input.Prayer_Text, followupAt)
	})
}

func (s *PrayerService) Update(ctx context.Context, id models.RecordID, input models.PrayerUpdate) (models.PrayerDetails, error) {
	edit := PrayerEdit{
		Person:      input.Person,
		Prayer_Text: input.Prayer_Text,
		Is_Answered: input.Is_Answered,
	}
	if input.Followup_At != nil && strings.TrimSpace(*input.Followup_At) != "" {
		at, err := s.calendar.ParseDateInput(*input.Followup_At)
		if err != nil {
			return models.PrayerDetails{}, err
		}
		edit.Followup_At = &at
	}

	return s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		return EditPrayer(prayers, id, edit)
	})
}

func (s *PrayerService) ToggleAnswered(ctx context.Context, id models.RecordID) (models.PrayerDetails, error) {
	return s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		return ToggleAnswered(prayers, id)
	})
}

func (s *PrayerService) ToggleArchived(ctx context.Context, id models.RecordID) (models.PrayerDetails, error) {
	return s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		return ToggleArchived(prayers, id)
	})
}

func (s *PrayerService) Remove(ctx context.Context, id models.RecordID) error {
	_, err := s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		return MarkRemoved(prayers, id)
	})
	return err
}

// AddFollowup schedules a follow-up; without a date it lands
// DefaultFollowupDays from today.
func (s *PrayerService) AddFollowup(ctx context.Context, id models.RecordID, input models.FollowupCreate) (models.PrayerDetails, error) {
	date := s.calendar.NextFollowupDate(DefaultFollowupDays)
	if strings.TrimSpace(input.Followup_At) != "" {
		at, err := s.calendar.ParseDateInput(input.Followup_At)
		if err != nil {
			return models.PrayerDetails{}, err
		}
		date = at
	}

	return s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		return PushFollowup(prayers, id, date, input.Notes)
	})
}

func (s *PrayerService) ToggleFollowup(ctx context.Context, id models.RecordID, ref string) (models.PrayerDetails, error) {
	return s.apply(ctx, func(prayers []models.Prayer) ([]models.Prayer, models.Prayer, error) {
		i := findPrayer(prayers, id)
		if i < 0 {
			return prayers, models.Prayer{}, ErrPrayerNotFound
		}
		index, err := s.calendar.ResolveFollowup(prayers[i], ref)
		if err != nil {
			return prayers, prayers[i], err
		}
		return ToggleFollowupStatus(prayers, id, index, s.calendar.CurrentTime())
	})
}

func (s *PrayerService) find(ctx context.Context, id models.RecordID) (models.Prayer, error) {
	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		return models.Prayer{}, err
	}
	i := findPrayer(prayers, id)
	if i < 0 {
		return models.Prayer{}, ErrPrayerNotFound
	}
	return prayers[i], nil
}

func (s *PrayerService) apply(ctx context.Context, mutate func([]models.Prayer) ([]models.Prayer, models.Prayer, error)) (models.PrayerDetails, error) {
	prayers, err := s.store.LoadPrayers(ctx)
	if err != nil {
		return models.PrayerDetails{}, err
	}

	updated, prayer, err := mutate(prayers)
	if err != nil {
		return models.PrayerDetails{}, err
	}
	if err := s.store.SavePrayers(ctx, updated); err != nil {
		return models.PrayerDetails{}, err
	}
	return s.calendar.DescribePrayer(prayer), nil
}
