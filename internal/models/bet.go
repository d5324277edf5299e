package models

import "time"

// Bet is immutable once recorded and belongs exclusively to its round.
// Name is the player's display name snapshotted at bet time.
type Bet struct {
	ID        int64     `json:"id"`
	RoundID   int64     `json:"round_id"`
	UserID    int64     `json:"user_id"`
	Name      string    `json:"name"`
	Amount    int64     `json:"amount"`
	Mult      string    `json:"mult"`
	CreatedAt time.Time `json:"created_at"`
}
