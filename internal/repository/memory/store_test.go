package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	repo "github.com/main0crine/wheel-backend/internal/repository"
)

func TestOpenIsFindOrCreate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	first, err := s.Open(ctx)
	require.NoError(t, err)
	second, err := s.Open(ctx)
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Nil(t, second.Result)
}

func TestRecordBetIntoClosedRound(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	rnd, err := s.Open(ctx)
	require.NoError(t, err)
	_, err = s.Close(ctx, "x2")
	require.NoError(t, err)

	_, err = s.RecordBet(ctx, rnd.ID, 1, "alice", 100, "x2")
	require.ErrorIs(t, err, repo.ErrRoundClosed)
}

func TestAtMostOneOpenRoundUnderRace(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				rnd, err := s.Open(ctx)
				if err != nil {
					continue
				}
				_, _ = s.RecordBet(ctx, rnd.ID, int64(n), "p", 1, "x2")
				if j%10 == 0 {
					_, _ = s.Close(ctx, "x2")
				}
			}
		}(i)
	}
	wg.Wait()

	// drain: close whatever is open, a second close must find nothing
	if _, err := s.Close(ctx, "x2"); err != nil {
		require.ErrorIs(t, err, repo.ErrNoOpenRound)
	}
	_, err := s.Close(ctx, "x2")
	require.ErrorIs(t, err, repo.ErrNoOpenRound)

	// every round is closed and its bank equals the sum of its bets
	closed, err := s.ListClosed(ctx, 10_000)
	require.NoError(t, err)
	require.NotEmpty(t, closed)
	for _, rnd := range closed {
		require.NotNil(t, rnd.Result)
		bets, err := s.BetsForRound(ctx, rnd.ID)
		require.NoError(t, err)
		var sum int64
		for _, b := range bets {
			sum += b.Amount
		}
		require.Equalf(t, sum, rnd.Bank, "round %d bank drifted from bet sum", rnd.ID)
	}
}

func TestAdjustBalanceConcurrent(t *testing.T) {
	s := NewStore()
	ctx := context.Background()
	require.NoError(t, s.Ensure(ctx, 1, "alice", 1000))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_, _ = s.AdjustBalance(ctx, 1, 1)
			}
		}()
	}
	wg.Wait()

	balance, ok, err := s.Balance(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, int64(1800), balance)
}
