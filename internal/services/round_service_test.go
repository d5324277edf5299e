package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/main0crine/wheel-backend/internal/models"
	repo "github.com/main0crine/wheel-backend/internal/repository"
	"github.com/main0crine/wheel-backend/internal/repository/memory"
	"github.com/main0crine/wheel-backend/internal/worker"
)

func newRoundService(store *memory.Store) (*RoundService, *worker.Pool) {
	wp := worker.NewPool(1)
	return NewRoundService(store, store, store, wp, 1000, 30, 50), wp
}

func TestPlaceBet_Validation(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()

	tests := []struct {
		name    string
		amount  int64
		mult    string
		wantErr error
	}{
		{"zero_amount", 0, "x2", ErrInvalidAmount},
		{"negative_amount", -10, "x2", ErrInvalidAmount},
		{"unknown_label", 100, "x7", ErrUnknownMult},
		{"empty_label", 100, "", ErrUnknownMult},
		{"valid", 100, "x2", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.PlaceBet(context.Background(), 1, "alice", tt.amount, tt.mult)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestPlaceBet_AppearsNewestFirst(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()
	ctx := context.Background()

	_, err := svc.PlaceBet(ctx, 1, "alice", 100, "x2")
	require.NoError(t, err)
	_, err = svc.PlaceBet(ctx, 2, "bob", 250, "x50")
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Players, 2)
	require.Equal(t, Player{Name: "bob", Amount: 250, Mult: "x50"}, snap.Players[0])
	require.Equal(t, Player{Name: "alice", Amount: 100, Mult: "x2"}, snap.Players[1])
}

func TestBankEqualsSumOfBets(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()
	ctx := context.Background()

	amounts := []int64{100, 250, 50, 1}
	var sum int64
	for i, a := range amounts {
		_, err := svc.PlaceBet(ctx, int64(i+1), "p", a, "x3")
		require.NoError(t, err)
		sum += a
	}

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, sum, snap.Bank)
}

func TestSnapshotDoesNotCreateSecondRound(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()
	ctx := context.Background()

	first, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	second, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Equal(t, first.RoundID, second.RoundID)
}

func TestCloseOnFreshStoreReturnsSentinel(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()

	_, err := svc.Close(context.Background(), "x2")
	require.ErrorIs(t, err, repo.ErrNoOpenRound)
}

func TestCloseThenBetOpensNextRound(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()
	ctx := context.Background()

	firstID, err := svc.PlaceBet(ctx, 1, "alice", 100, "x2")
	require.NoError(t, err)

	closedID, err := svc.Close(ctx, "x5")
	require.NoError(t, err)
	require.Equal(t, firstID, closedID)

	nextID, err := svc.PlaceBet(ctx, 1, "alice", 100, "x2")
	require.NoError(t, err)
	require.Greater(t, nextID, firstID)
}

// closeRacingRounds closes the open round between the service's
// find-or-create and record, once, to exercise the retry path.
type closeRacingRounds struct {
	*memory.Store
	raced bool
}

func (c *closeRacingRounds) RecordBet(ctx context.Context, roundID, userID int64, name string, amount int64, mult string) (models.Bet, error) {
	if !c.raced {
		c.raced = true
		_, _ = c.Store.Close(ctx, "x2")
	}
	return c.Store.RecordBet(ctx, roundID, userID, name, amount, mult)
}

func TestPlaceBet_RetriesIntoNextRoundWhenClosedConcurrently(t *testing.T) {
	store := memory.NewStore()
	racing := &closeRacingRounds{Store: store}
	wp := worker.NewPool(1)
	defer wp.Stop()
	svc := NewRoundService(racing, store, store, wp, 1000, 30, 50)
	ctx := context.Background()

	roundID, err := svc.PlaceBet(ctx, 1, "alice", 100, "x3")
	require.NoError(t, err)

	closed, err := store.ListClosed(ctx, 10)
	require.NoError(t, err)
	require.Len(t, closed, 1)
	require.Greater(t, roundID, closed[0].ID, "bet should land in the round after the one that closed")

	bets, err := store.BetsForRound(ctx, roundID)
	require.NoError(t, err)
	require.Len(t, bets, 1)
}

func TestHistoryLimitNewestFirst(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	defer wp.Stop()
	ctx := context.Background()

	var ids []int64
	for i := 0; i < 5; i++ {
		_, err := svc.PlaceBet(ctx, 1, "alice", 10, "x2")
		require.NoError(t, err)
		id, err := svc.Close(ctx, "x2")
		require.NoError(t, err)
		ids = append(ids, id)
	}

	got, err := svc.History(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, ids[4], got[0].ID)
	require.Equal(t, ids[3], got[1].ID)
}

func TestHistoryDefaultLimit(t *testing.T) {
	store := memory.NewStore()
	wp := worker.NewPool(1)
	defer wp.Stop()
	svc := NewRoundService(store, store, store, wp, 1000, 30, 3)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := store.Open(ctx)
		require.NoError(t, err)
		_, err = store.Close(ctx, "x2")
		require.NoError(t, err)
	}

	got, err := svc.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
}

func TestAuditTrailWritten(t *testing.T) {
	store := memory.NewStore()
	svc, wp := newRoundService(store)
	ctx := context.Background()

	roundID, err := svc.PlaceBet(ctx, 1, "alice", 100, "x2")
	require.NoError(t, err)
	closedID, err := svc.Close(ctx, "x5")
	require.NoError(t, err)
	require.Equal(t, roundID, closedID)

	wp.Stop() // drain async writes

	audits := store.Audits()
	require.Len(t, audits, 2)
	require.Equal(t, "bet_placed", audits[0].Action)
	require.Equal(t, "round_closed", audits[1].Action)
	require.Equal(t, roundID, audits[0].RoundID)
}

func TestSecondsLeft(t *testing.T) {
	start := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name    string
		elapsed time.Duration
		want    int64
	}{
		{"at_start", 0, 30},
		{"mid_round", 10 * time.Second, 20},
		{"past_one_period", 45 * time.Second, 15},
		{"exact_boundary", 30 * time.Second, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := secondsLeft(start, start.Add(tt.elapsed), 30*time.Second)
			require.Equal(t, tt.want, got)
		})
	}
}
