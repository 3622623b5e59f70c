package models

import (
	"encoding/json"
	"time"
)

type Praise struct {
	Praise_ID   RecordID  `json:"id"`
	Text        string    `json:"text"`
	Date        time.Time `json:"date"`
	Is_Archived bool      `json:"is_archived"`
	Is_Removed  bool      `json:"is_removed"`
}

type praiseJSON struct {
	Praise_ID   *RecordID `json:"id"`
	Text        *string   `json:"text"`
	Praise      *string   `json:"praise"`
	Date        string    `json:"date"`
	Praised_At  *string   `json:"praised_at"`
	Is_Archived bool      `json:"is_archived"`
	Is_Removed  bool      `json:"is_removed"`
}

func (p Praise) MarshalJSON() ([]byte, error) {
	date := ""
	if !p.Date.IsZero() {
		date = formatStoredTime(p.Date)
	}
	return json.Marshal(struct {
		Praise_ID   RecordID `json:"id"`
		Text        string   `json:"text"`
		Date        string   `json:"date"`
		Is_Archived bool     `json:"is_archived"`
		Is_Removed  bool     `json:"is_removed"`
	}{p.Praise_ID, p.Text, date, p.Is_Archived, p.Is_Removed})
}

// UnmarshalJSON reads both the current shape and the older one that used
// "praise" for the text and "praised_at" as identifier and date. An
// unreadable date leaves the praise undated.
func (p *Praise) UnmarshalJSON(data []byte) error {
	var in praiseJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	out := Praise{Is_Archived: in.Is_Archived, Is_Removed: in.Is_Removed}

	switch {
	case in.Text != nil:
		out.Text = *in.Text
	case in.Praise != nil:
		out.Text = *in.Praise
	}

	dateValue := in.Date
	if dateValue == "" && in.Praised_At != nil {
		dateValue = *in.Praised_At
	}
	if d, err := ParseStoredTime(dateValue); err == nil {
		out.Date = d
	}

	switch {
	case in.Praise_ID != nil && *in.Praise_ID != "":
		out.Praise_ID = *in.Praise_ID
	case in.Praised_At != nil:
		out.Praise_ID = RecordID(*in.Praised_At)
	}

	*p = out
	return nil
}

type PraiseCreate struct {
	Text string `json:"text"`
}

type PraiseUpdate struct {
	Text string `json:"text"`
}

// Praise views
const (
	PraiseViewActive   = "active"
	PraiseViewArchived = "archived"
	PraiseViewAll      = "all"
)
