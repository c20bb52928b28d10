package model

import "time"

// ActivityRecord is one human-readable action entry in the bounded
// activity log, newest-first.
type ActivityRecord struct {
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}
