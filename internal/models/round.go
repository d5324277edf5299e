package models

import "time"

// Round is one timed betting cycle. Result is nil while the round is
// open; at most one round is open at any time (enforced by the store).
type Round struct {
	ID        int64      `json:"id"`
	Result    *string    `json:"result"`
	Bank      int64      `json:"bank"`
	StartedAt time.Time  `json:"started_at"`
	EndedAt   *time.Time `json:"ended_at"`
}

func (r Round) Open() bool { return r.Result == nil }
