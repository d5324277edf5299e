package models

// User is a player ledger row. Created lazily on first interaction,
// never deleted.
type User struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Balance int64  `json:"balance"`
}
