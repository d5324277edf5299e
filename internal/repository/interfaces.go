package repository

import (
	"context"
	"errors"

	"github.com/main0crine/wheel-backend/internal/models"
)

var (
	// ErrNoOpenRound signals that a close found nothing to close. Not a
	// failure: the scheduler treats it as a no-op tick.
	ErrNoOpenRound = errors.New("no open round")

	// ErrRoundClosed signals that a bet targeted a round that closed
	// between find-or-create and record.
	ErrRoundClosed = errors.New("round already closed")
)

type Users interface {
	// Ensure inserts the user row if absent. Idempotent, no error on
	// duplicate ids.
	Ensure(ctx context.Context, id int64, name string, startBalance int64) error

	// Balance returns the stored balance and whether the row exists.
	// No row is created on read.
	Balance(ctx context.Context, id int64) (int64, bool, error)

	// AdjustBalance applies balance += delta atomically and returns the
	// new balance. Negative results are permitted at this layer.
	AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error)
}

type Rounds interface {
	// Open returns the currently open round, creating one when none
	// exists. Two racing calls observe or create exactly one round.
	Open(ctx context.Context) (models.Round, error)

	// RecordBet inserts the bet and increments the round bank as one
	// atomic pair. Returns ErrRoundClosed when the round is no longer
	// open.
	RecordBet(ctx context.Context, roundID, userID int64, name string, amount int64, mult string) (models.Bet, error)

	// Close sets result and end timestamp on the open round and returns
	// its id, or ErrNoOpenRound.
	Close(ctx context.Context, result string) (int64, error)

	// BetsForRound returns the round's bets newest-first.
	BetsForRound(ctx context.Context, roundID int64) ([]models.Bet, error)

	// ListClosed returns closed rounds newest-first, bounded by limit.
	ListClosed(ctx context.Context, limit int) ([]models.Round, error)
}

type Audit interface {
	Record(ctx context.Context, a models.RoundAudit) error
}
