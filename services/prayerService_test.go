package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/PrayerPraise/models"
	"github.com/PrayerPraise/storage"
)

func ptr[T any](v T) *T { return &v }

func newTestCollections() *storage.Collections {
	return storage.NewCollections(storage.NewMemoryAdapter(), zap.NewNop())
}

func pending(at time.Time) models.Followup {
	return models.Followup{Followup_At: at}
}

func completed(at, done time.Time) models.Followup {
	return models.Followup{Followup_At: at, Followedup_At: &done}
}

func TestAddPrayer(t *testing.T) {
	c := testCalendar(eastern)
	date := c.NormalizeDate(2025, time.September, 10)

	tests := []struct {
		name            string
		person          string
		prayerText      string
		followupAt      *time.Time
		expectErr       error
		expectFollowups int
	}{
		{name: "with follow-up", person: " Jane ", prayerText: "Health", followupAt: &date, expectFollowups: 1},
		{name: "without follow-up", person: "Sam", prayerText: "Job"},
		{name: "missing person", person: "  ", prayerText: "Job", expectErr: ErrInvalidPrayer},
		{name: "missing prayer", person: "Sam", prayerText: "", expectErr: ErrInvalidPrayer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []models.Prayer{{Prayer_ID: "existing", Person: "Ana", Prayer_Text: "Peace", Followups: []models.Followup{}}}

			out, prayer, err := AddPrayer(existing, tt.person, tt.prayerText, tt.followupAt)

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				assert.Len(t, out, 1)
				return
			}
			require.NoError(t, err)
			require.Len(t, out, 2)
			assert.Len(t, existing, 1)
			assert.Equal(t, prayer, out[1])
			assert.NotEmpty(t, prayer.Prayer_ID)
			assert.NotNil(t, prayer.Followups)
			assert.Len(t, prayer.Followups, tt.expectFollowups)
			assert.Equal(t, strings.TrimSpace(tt.person), prayer.Person)
			for _, f := range prayer.Followups {
				assert.False(t, f.IsComplete())
			}
		})
	}
}

func TestToggleFlagsOnlyFlipOneField(t *testing.T) {
	prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health", Followups: []models.Followup{}}}

	answered, p, err := ToggleAnswered(prayers, "a")
	require.NoError(t, err)
	assert.True(t, p.Is_Answered)
	assert.False(t, p.Is_Archived)
	assert.False(t, prayers[0].Is_Answered, "input collection must not change")

	archived, p, err := ToggleArchived(answered, "a")
	require.NoError(t, err)
	assert.True(t, p.Is_Answered)
	assert.True(t, p.Is_Archived)

	back, p, err := ToggleAnswered(archived, "a")
	require.NoError(t, err)
	assert.False(t, p.Is_Answered)
	assert.True(t, back[0].Is_Archived)

	_, _, err = ToggleArchived(prayers, "missing")
	assert.ErrorIs(t, err, ErrPrayerNotFound)
}

func TestMarkRemovedIsSoftAndFinal(t *testing.T) {
	prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health", Followups: []models.Followup{}}}

	out, p, err := MarkRemoved(prayers, "a")
	require.NoError(t, err)
	assert.True(t, p.Is_Removed)
	assert.Len(t, out, 1)

	_, _, err = ToggleAnswered(out, "a")
	assert.ErrorIs(t, err, ErrPrayerNotFound)
	_, _, err = MarkRemoved(out, "a")
	assert.ErrorIs(t, err, ErrPrayerNotFound)
}

func TestPushFollowupRequiresAllComplete(t *testing.T) {
	c := testCalendar(eastern)
	first := c.NormalizeDate(2025, time.September, 1)
	next := c.NormalizeDate(2025, time.September, 20)
	done := time.Date(2025, 9, 2, 15, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		followups []models.Followup
		expectErr error
		expectLen int
	}{
		{name: "no follow-ups", followups: []models.Followup{}, expectLen: 1},
		{name: "all complete", followups: []models.Followup{completed(first, done)}, expectLen: 2},
		{name: "latest pending", followups: []models.Followup{completed(first, done), pending(first)}, expectErr: ErrFollowupPending, expectLen: 2},
		{name: "earlier pending", followups: []models.Followup{pending(first), completed(first, done)}, expectErr: ErrFollowupPending, expectLen: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health", Followups: tt.followups}}

			out, p, err := PushFollowup(prayers, "a", next, " call ")

			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				if diff := cmp.Diff(prayers, out); diff != "" {
					t.Errorf("rejected push changed the collection:\n%s", diff)
				}
			} else {
				require.NoError(t, err)
				latest, _ := p.LatestFollowup()
				assert.Equal(t, next, latest.Followup_At)
				assert.Equal(t, "call", latest.Notes)
				assert.False(t, latest.IsComplete())
			}
			assert.Len(t, out[0].Followups, tt.expectLen)
		})
	}
}

func TestToggleFollowupStatus(t *testing.T) {
	c := testCalendar(eastern)
	first := c.NormalizeDate(2025, time.September, 1)
	second := c.NormalizeDate(2025, time.September, 8)
	firstDone := time.Date(2025, 9, 1, 18, 0, 0, 0, time.UTC)
	secondDone := time.Date(2025, 9, 8, 18, 0, 0, 0, time.UTC)
	now := time.Date(2025, 9, 9, 13, 30, 0, 0, eastern)

	t.Run("completing stamps now", func(t *testing.T) {
		prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health",
			Followups: []models.Followup{completed(first, firstDone), pending(second)}}}

		out, p, err := ToggleFollowupStatus(prayers, "a", 1, now)
		require.NoError(t, err)
		require.NotNil(t, p.Followups[1].Followedup_At)
		assert.True(t, now.Equal(*p.Followups[1].Followedup_At))
		assert.Equal(t, time.UTC, p.Followups[1].Followedup_At.Location())
		assert.True(t, now.Equal(*out[0].LastFollowedUpAt()))
		assert.Nil(t, prayers[0].Followups[1].Followedup_At, "input collection must not change")
	})

	t.Run("reopening latest restores previous completion", func(t *testing.T) {
		prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health",
			Followups: []models.Followup{completed(first, firstDone), completed(second, secondDone)}}}

		_, p, err := ToggleFollowupStatus(prayers, "a", 1, now)
		require.NoError(t, err)
		assert.False(t, p.Followups[1].IsComplete())
		require.NotNil(t, p.LastFollowedUpAt())
		assert.True(t, firstDone.Equal(*p.LastFollowedUpAt()))
	})

	t.Run("reopening only follow-up clears last completion", func(t *testing.T) {
		prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health",
			Followups: []models.Followup{completed(first, firstDone)}}}

		_, p, err := ToggleFollowupStatus(prayers, "a", 0, now)
		require.NoError(t, err)
		assert.Nil(t, p.LastFollowedUpAt())
	})

	t.Run("earlier completed follow-up is locked", func(t *testing.T) {
		prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health",
			Followups: []models.Followup{completed(first, firstDone), pending(second)}}}

		out, _, err := ToggleFollowupStatus(prayers, "a", 0, now)
		assert.ErrorIs(t, err, ErrFollowupLocked)
		if diff := cmp.Diff(prayers, out); diff != "" {
			t.Errorf("locked toggle changed the collection:\n%s", diff)
		}
	})

	t.Run("index out of range", func(t *testing.T) {
		prayers := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health", Followups: []models.Followup{}}}

		_, _, err := ToggleFollowupStatus(prayers, "a", 0, now)
		assert.ErrorIs(t, err, ErrFollowupNotFound)
	})
}

func TestEditPrayer(t *testing.T) {
	c := testCalendar(eastern)
	date := c.NormalizeDate(2025, time.September, 12)
	base := []models.Prayer{{Prayer_ID: "a", Person: "Jane", Prayer_Text: "Health", Followups: []models.Followup{}}}

	out, p, err := EditPrayer(base, "a", PrayerEdit{
		Person:      ptr("Jane Doe"),
		Is_Answered: ptr(true),
		Followup_At: &date,
	})
	require.NoError(t, err)
	assert.Equal(t, "Jane Doe", p.Person)
	assert.Equal(t, "Health", p.Prayer_Text)
	assert.True(t, p.Is_Answered)
	require.Len(t, p.Followups, 1)

	_, _, err = EditPrayer(out, "a", PrayerEdit{Prayer_Text: ptr("More"), Followup_At: &date})
	assert.ErrorIs(t, err, ErrFollowupPending)

	_, _, err = EditPrayer(out, "a", PrayerEdit{Person: ptr(" ")})
	assert.ErrorIs(t, err, ErrInvalidPrayer)
}

func TestFilterPrayers(t *testing.T) {
	c := testCalendar(eastern)
	soon := c.NormalizeDate(2025, time.September, 6)
	later := c.NormalizeDate(2025, time.September, 20)
	done := time.Date(2025, 9, 1, 12, 0, 0, 0, time.UTC)

	prayers := []models.Prayer{
		{Prayer_ID: "no-followup", Followups: []models.Followup{}},
		{Prayer_ID: "later", Followups: []models.Followup{pending(later)}},
		{Prayer_ID: "completed", Followups: []models.Followup{completed(soon, done)}},
		{Prayer_ID: "soon", Followups: []models.Followup{pending(soon)}},
		{Prayer_ID: "answered", Is_Answered: true, Followups: []models.Followup{}},
		{Prayer_ID: "answered-archived", Is_Answered: true, Is_Archived: true, Followups: []models.Followup{}},
		{Prayer_ID: "archived", Is_Archived: true, Followups: []models.Followup{}},
		{Prayer_ID: "removed", Is_Removed: true, Followups: []models.Followup{}},
		{Prayer_ID: "removed-archived", Is_Removed: true, Is_Archived: true, Followups: []models.Followup{}},
	}

	ids := func(view string) []models.RecordID {
		filtered, err := FilterPrayers(prayers, view)
		require.NoError(t, err)
		out := []models.RecordID{}
		for _, p := range filtered {
			out = append(out, p.Prayer_ID)
		}
		return out
	}

	assert.Equal(t, []models.RecordID{"soon", "later", "no-followup", "completed"}, ids(models.PrayerViewActive))
	assert.Equal(t, []models.RecordID{"answered"}, ids(models.PrayerViewAnswered))
	assert.Equal(t, []models.RecordID{"answered-archived", "archived"}, ids(models.PrayerViewArchived))
	assert.NotContains(t, ids(models.PrayerViewAll), models.RecordID("removed"))
	assert.Len(t, ids(models.PrayerViewAll), 7)

	_, err := FilterPrayers(prayers, "deleted")
	assert.ErrorIs(t, err, ErrInvalidView)
}

func TestDescribePrayer(t *testing.T) {
	c := testCalendar(eastern)
	done := time.Date(2025, 9, 1, 14, 0, 0, 0, time.UTC)

	overdue := c.DescribePrayer(models.Prayer{Prayer_ID: "a", Followups: []models.Followup{
		completed(c.NormalizeDate(2025, time.August, 25), done),
		pending(c.NormalizeDate(2025, time.September, 3)),
	}})
	require.NotNil(t, overdue.Next_Followup_At)
	assert.Equal(t, "SEP 3RD 2025", overdue.Next_Followup_Label)
	assert.Equal(t, "2 days ago", overdue.Next_Followup_Relative)
	assert.True(t, overdue.Is_Overdue)
	assert.False(t, overdue.Can_Schedule_Followup)
	require.NotNil(t, overdue.Last_Followedup_At)
	assert.Equal(t, "SEP 1ST 2025", overdue.Last_Followedup_Label)

	idle := c.DescribePrayer(models.Prayer{Prayer_ID: "b", Followups: []models.Followup{}})
	assert.Nil(t, idle.Next_Followup_At)
	assert.Nil(t, idle.Last_Followedup_At)
	assert.False(t, idle.Is_Overdue)
	assert.True(t, idle.Can_Schedule_Followup)
}

func TestFollowupHistoryIsDateDescending(t *testing.T) {
	c := testCalendar(eastern)
	done := time.Date(2025, 9, 2, 14, 0, 0, 0, time.UTC)

	history := c.FollowupHistory(models.Prayer{Followups: []models.Followup{
		completed(c.NormalizeDate(2025, time.September, 1), done),
		pending(c.NormalizeDate(2025, time.September, 15)),
	}})

	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Index)
	assert.True(t, history[0].Is_Latest)
	assert.False(t, history[0].Did_Followup)
	assert.Equal(t, "SEP 15TH 2025", history[0].Followup_Label)
	assert.Equal(t, 0, history[1].Index)
	assert.True(t, history[1].Did_Followup)
	assert.Equal(t, "SEP 2ND 2025", history[1].Done_Label)
}

func TestResolveFollowup(t *testing.T) {
	c := testCalendar(eastern)
	done := time.Date(2025, 9, 2, 14, 0, 0, 0, time.UTC)
	p := models.Prayer{Followups: []models.Followup{
		completed(c.NormalizeDate(2025, time.September, 1), done),
		pending(c.NormalizeDate(2025, time.September, 10)),
	}}

	tests := []struct {
		ref       string
		expected  int
		expectErr error
	}{
		{ref: "0", expected: 0},
		{ref: "1", expected: 1},
		{ref: "2", expectErr: ErrFollowupNotFound},
		{ref: "-1", expectErr: ErrFollowupNotFound},
		{ref: "2025-09-10", expected: 1},
		{ref: "2025-09-01T16:00:00.000Z", expected: 0},
		{ref: "2025-09-11", expectErr: ErrFollowupNotFound},
		{ref: "soon", expectErr: ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.ref, func(t *testing.T) {
			index, err := c.ResolveFollowup(p, tt.ref)
			if tt.expectErr != nil {
				assert.ErrorIs(t, err, tt.expectErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, index)
		})
	}
}

func TestPrayerServiceJaneScenario(t *testing.T) {
	ctx := context.Background()
	c := testCalendar(eastern)
	collections := newTestCollections()
	service := NewPrayerService(collections, c)

	created, err := service.Create(ctx, models.PrayerCreate{Person: "Jane", Prayer_Text: "Health", Followup_At: "2025-09-10"})
	require.NoError(t, err)
	id := created.Prayer_ID

	prayers, err := collections.LoadPrayers(ctx)
	require.NoError(t, err)
	require.Len(t, prayers, 1)
	require.Len(t, prayers[0].Followups, 1)
	assert.False(t, prayers[0].Followups[0].IsComplete())
	assert.Equal(t, "SEP 10TH 2025", created.Next_Followup_Label)

	// scheduling before completing is rejected
	_, err = service.AddFollowup(ctx, id, models.FollowupCreate{Followup_At: "2025-09-20"})
	assert.ErrorIs(t, err, ErrFollowupPending)
	prayers, err = collections.LoadPrayers(ctx)
	require.NoError(t, err)
	assert.Len(t, prayers[0].Followups, 1)

	toggled, err := service.ToggleFollowup(ctx, id, "0")
	require.NoError(t, err)
	require.NotNil(t, toggled.Followups[0].Followedup_At)
	assert.True(t, c.CurrentTime().Equal(*toggled.Followups[0].Followedup_At))
	assert.True(t, toggled.Can_Schedule_Followup)

	pushed, err := service.AddFollowup(ctx, id, models.FollowupCreate{Followup_At: "2025-09-20"})
	require.NoError(t, err)
	require.Len(t, pushed.Followups, 2)
	assert.False(t, pushed.Followups[1].IsComplete())
	assert.Equal(t, c.NormalizeDate(2025, time.September, 20), pushed.Followups[1].Followup_At)

	prayers, err = collections.LoadPrayers(ctx)
	require.NoError(t, err)
	assert.Len(t, prayers[0].Followups, 2)
}

func TestPrayerServiceViewsAndRemoval(t *testing.T) {
	ctx := context.Background()
	service := NewPrayerService(newTestCollections(), testCalendar(eastern))

	a, err := service.Create(ctx, models.PrayerCreate{Person: "Jane", Prayer_Text: "Health"})
	require.NoError(t, err)
	b, err := service.Create(ctx, models.PrayerCreate{Person: "Sam", Prayer_Text: "Job"})
	require.NoError(t, err)

	_, err = service.ToggleArchived(ctx, a.Prayer_ID)
	require.NoError(t, err)
	_, err = service.ToggleAnswered(ctx, a.Prayer_ID)
	require.NoError(t, err)
	require.NoError(t, service.Remove(ctx, b.Prayer_ID))

	active, err := service.List(ctx, models.PrayerViewActive)
	require.NoError(t, err)
	assert.Empty(t, active)

	answered, err := service.List(ctx, models.PrayerViewAnswered)
	require.NoError(t, err)
	assert.Empty(t, answered, "archived prayers stay out of the answered view")

	archived, err := service.List(ctx, models.PrayerViewArchived)
	require.NoError(t, err)
	require.Len(t, archived, 1)
	assert.Equal(t, a.Prayer_ID, archived[0].Prayer_ID)

	_, err = service.Get(ctx, b.Prayer_ID)
	assert.ErrorIs(t, err, ErrPrayerNotFound)
}

func TestPrayerServiceAddFollowupDefaultsToAWeek(t *testing.T) {
	ctx := context.Background()
	c := testCalendar(eastern)
	service := NewPrayerService(newTestCollections(), c)

	created, err := service.Create(ctx, models.PrayerCreate{Person: "Jane", Prayer_Text: "Health"})
	require.NoError(t, err)

	updated, err := service.AddFollowup(ctx, created.Prayer_ID, models.FollowupCreate{})
	require.NoError(t, err)
	require.Len(t, updated.Followups, 1)
	assert.Equal(t, c.NormalizeDate(2025, time.September, 12), updated.Followups[0].Followup_At)

	_, err = service.AddFollowup(ctx, created.Prayer_ID, models.FollowupCreate{Followup_At: "someday"})
	assert.ErrorIs(t, err, ErrInvalidDate)
}
