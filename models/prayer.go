package models

import (
	"encoding/json"
	"time"
)

// Prayer views
const (
	PrayerViewActive   = "active"
	PrayerViewAnswered = "answered"
	PrayerViewArchived = "archived"
	PrayerViewAll      = "all"
)

type Prayer struct {
	Prayer_ID   RecordID   `json:"id"`
	Person      string     `json:"person"`
	Prayer_Text string     `json:"prayer"`
	Is_Answered bool       `json:"is_answered"`
	Is_Archived bool       `json:"is_archived"`
	Is_Removed  bool       `json:"is_removed"`
	Followups   []Followup `json:"followups"`
}

// Followup is a scheduled check-in on a prayer. Completion is recorded only
// through Followedup_At; did_followup on the wire is derived from it.
type Followup struct {
	Followup_At   time.Time
	Followedup_At *time.Time
	Notes         string
}

type followupJSON struct {
	Followup_At   *string `json:"followup_at"`
	Followedup_At *string `json:"followedup_at"`
	Did_Followup  *bool   `json:"did_followup,omitempty"`
	Notes         string  `json:"notes,omitempty"`
}

func (f Followup) IsComplete() bool {
	return f.Followedup_At != nil
}

// HasDate is false for follow-ups whose stored date was missing or
// unreadable. They stay in the history but are never due.
func (f Followup) HasDate() bool {
	return !f.Followup_At.IsZero()
}

func (f Followup) MarshalJSON() ([]byte, error) {
	done := f.IsComplete()
	out := followupJSON{
		Did_Followup: &done,
		Notes:        f.Notes,
	}
	if f.HasDate() {
		s := formatStoredTime(f.Followup_At)
		out.Followup_At = &s
	}
	if f.Followedup_At != nil {
		s := formatStoredTime(*f.Followedup_At)
		out.Followedup_At = &s
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts documents written by every earlier front end. A
// missing or unreadable followup_at leaves the follow-up undated rather than
// failing the whole prayer. When did_followup and followedup_at disagree,
// did_followup wins: a false flag drops the stamp, a true flag without a
// stamp is stamped with the target date.
func (f *Followup) UnmarshalJSON(data []byte) error {
	var in followupJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	var at time.Time
	if in.Followup_At != nil {
		if t, err := ParseStoredTime(*in.Followup_At); err == nil {
			at = t
		}
	}

	var doneAt *time.Time
	if in.Followedup_At != nil && *in.Followedup_At != "" {
		t, err := ParseStoredTime(*in.Followedup_At)
		if err != nil {
			// completed, at an unknown time
			t = at
		}
		doneAt = &t
	}

	if in.Did_Followup != nil {
		switch {
		case !*in.Did_Followup:
			doneAt = nil
		case doneAt == nil:
			stamp := at
			doneAt = &stamp
		}
	}

	*f = Followup{Followup_At: at, Followedup_At: doneAt, Notes: in.Notes}
	return nil
}

// UndatedFollowups counts follow-ups without a usable date.
func (p Prayer) UndatedFollowups() int {
	n := 0
	for _, f := range p.Followups {
		if !f.HasDate() {
			n++
		}
	}
	return n
}

// LatestFollowup returns the most recently added follow-up.
func (p Prayer) LatestFollowup() (Followup, bool) {
	if len(p.Followups) == 0 {
		return Followup{}, false
	}
	return p.Followups[len(p.Followups)-1], true
}

// NextFollowup is the latest follow-up while it is still pending and dated.
func (p Prayer) NextFollowup() (Followup, bool) {
	latest, ok := p.LatestFollowup()
	if !ok || latest.IsComplete() || !latest.HasDate() {
		return Followup{}, false
	}
	return latest, true
}

// LastFollowedUpAt is the completion time of the most recent completed
// follow-up, or nil when none has been completed.
func (p Prayer) LastFollowedUpAt() *time.Time {
	for i := len(p.Followups) - 1; i >= 0; i-- {
		if p.Followups[i].IsComplete() {
			t := *p.Followups[i].Followedup_At
			return &t
		}
	}
	return nil
}

// AllFollowupsComplete reports whether a new follow-up may be scheduled.
func (p Prayer) AllFollowupsComplete() bool {
	for _, f := range p.Followups {
		if !f.IsComplete() {
			return false
		}
	}
	return true
}

func (p Prayer) Clone() Prayer {
	out := p
	out.Followups = make([]Followup, len(p.Followups))
	for i, f := range p.Followups {
		out.Followups[i] = f
		if f.Followedup_At != nil {
			t := *f.Followedup_At
			out.Followups[i].Followedup_At = &t
		}
	}
	return out
}

type PrayerCreate struct {
	Person      string `json:"person"`
	Prayer_Text string `json:"prayer"`
	Followup_At string `json:"followup_at"`
}

// PrayerUpdate carries the edit form; nil fields are left untouched.
type PrayerUpdate struct {
	Person      *string `json:"person"`
	Prayer_Text *string `json:"prayer"`
	Is_Answered *bool   `json:"is_answered"`
	Followup_At *string `json:"followup_at"`
}

type FollowupCreate struct {
	Followup_At string `json:"followup_at"`
	Notes       string `json:"notes"`
}

// PrayerDetails is a prayer with the values the lists display.
type PrayerDetails struct {
	Prayer
	Next_Followup_At       *time.Time `json:"next_followup_at"`
	Next_Followup_Label    string     `json:"next_followup_label"`
	Next_Followup_Relative string     `json:"next_followup_relative"`
	Last_Followedup_At     *time.Time `json:"last_followedup_at"`
	Last_Followedup_Label  string     `json:"last_followedup_label"`
	Is_Overdue             bool       `json:"is_overdue"`
	Can_Schedule_Followup  bool       `json:"can_schedule_followup"`
}

type FollowupHistoryEntry struct {
	Index          int        `json:"index"`
	Followup_At    time.Time  `json:"followup_at"`
	Followup_Label string     `json:"followup_label"`
	Followedup_At  *time.Time `json:"followedup_at"`
	Done_Label     string     `json:"followedup_label"`
	Did_Followup   bool       `json:"did_followup"`
	Is_Latest      bool       `json:"is_latest"`
	Notes          string     `json:"notes,omitempty"`
}
