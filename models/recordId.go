package models

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// RecordID identifies a prayer or a praise. New ids are UUIDs; older data
// stored numeric timestamps, which decode into the same type.
type RecordID string

func NewRecordID() RecordID {
	return RecordID(uuid.NewString())
}

func (id RecordID) String() string {
	return string(id)
}

func (id *RecordID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = RecordID(s)
		return nil
	}

	// legacy numeric ids (millisecond timestamps)
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("record id must be a string or number: %w", err)
	}
	*id = RecordID(n.String())
	return nil
}
