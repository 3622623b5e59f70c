package services

import "errors"

var (
	ErrPrayerNotFound   = errors.New("prayer not found")
	ErrPraiseNotFound   = errors.New("praise not found")
	ErrFollowupNotFound = errors.New("follow-up not found")

	// ErrFollowupPending rejects a new follow-up while an earlier one is open.
	ErrFollowupPending = errors.New("complete the pending follow-up before scheduling another")
	// ErrFollowupLocked rejects reopening a completed follow-up that is not the latest.
	ErrFollowupLocked = errors.New("only the latest follow-up can be reopened")

	ErrInvalidPrayer = errors.New("person and prayer are required")
	ErrInvalidPraise = errors.New("praise text is required")
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidView   = errors.New("unknown view")
	ErrInvalidImport = errors.New("invalid import file: prayers and praises must both be arrays")
)
