package models

import "time"

type RoundAudit struct {
	ID        int64          `json:"id"`
	RoundID   int64          `json:"round_id"`
	Action    string         `json:"action"`
	Details   map[string]any `json:"details"`
	CreatedAt time.Time      `json:"created_at"`
}
