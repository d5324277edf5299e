package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/main0crine/wheel-backend/internal/metrics"
	"github.com/main0crine/wheel-backend/internal/models"
	repo "github.com/main0crine/wheel-backend/internal/repository"
	"github.com/main0crine/wheel-backend/internal/wheel"
	"github.com/main0crine/wheel-backend/internal/worker"
)

var (
	ErrInvalidAmount = errors.New("amount must be > 0")
	ErrUnknownMult   = errors.New("unknown multiplier label")
)

// Player is one bet as shown in the current-round feed.
type Player struct {
	Name   string `json:"name"`
	Amount int64  `json:"amount"`
	Mult   string `json:"mult"`
}

// Snapshot is the open round with its bets, newest bet first.
type Snapshot struct {
	RoundID   int64
	Bank      int64
	Players   []Player
	StartedAt time.Time
}

// RoundView is a Snapshot plus the advisory countdown.
type RoundView struct {
	Snapshot
	SecondsLeft  int64
	RoundSeconds int
}

type RoundService struct {
	rounds       repo.Rounds
	users        repo.Users
	audit        repo.Audit
	wp           *worker.Pool
	startBalance int64
	period       time.Duration
	historyLimit int
}

func NewRoundService(r repo.Rounds, u repo.Users, a repo.Audit, wp *worker.Pool, startBalance int64, roundSeconds, historyLimit int) *RoundService {
	return &RoundService{
		rounds:       r,
		users:        u,
		audit:        a,
		wp:           wp,
		startBalance: startBalance,
		period:       time.Duration(roundSeconds) * time.Second,
		historyLimit: historyLimit,
	}
}

// Snapshot returns the open round (creating one if needed) and its bets
// newest-first. The ordering is the live activity feed, not incidental.
func (s *RoundService) Snapshot(ctx context.Context) (Snapshot, error) {
	rnd, err := s.rounds.Open(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("open round: %w", err)
	}
	bets, err := s.rounds.BetsForRound(ctx, rnd.ID)
	if err != nil {
		return Snapshot{}, fmt.Errorf("bets for round %d: %w", rnd.ID, err)
	}
	players := make([]Player, 0, len(bets))
	for _, b := range bets {
		players = append(players, Player{Name: b.Name, Amount: b.Amount, Mult: b.Mult})
	}
	return Snapshot{RoundID: rnd.ID, Bank: rnd.Bank, Players: players, StartedAt: rnd.StartedAt}, nil
}

// View is Snapshot plus seconds_left. The countdown is advisory: it is
// derived from the round start and the wall clock alone, never from
// scheduler state.
func (s *RoundService) View(ctx context.Context) (RoundView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return RoundView{}, err
	}
	return RoundView{
		Snapshot:     snap,
		SecondsLeft:  secondsLeft(snap.StartedAt, time.Now(), s.period),
		RoundSeconds: int(s.period / time.Second),
	}, nil
}

func secondsLeft(startedAt, now time.Time, period time.Duration) int64 {
	p := int64(period / time.Second)
	elapsed := now.Unix() - startedAt.Unix()
	return p - elapsed%p
}

// PlaceBet records a bet against whichever round is open right now and
// returns that round's id. The user row is created lazily. If the round
// closes between find-or-create and record, the bet is retried once and
// lands in the next round.
func (s *RoundService) PlaceBet(ctx context.Context, userID int64, name string, amount int64, mult string) (int64, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	if !wheel.IsLabel(mult) {
		return 0, ErrUnknownMult
	}
	if err := s.users.Ensure(ctx, userID, name, s.startBalance); err != nil {
		return 0, fmt.Errorf("ensure user %d: %w", userID, err)
	}

	bet, err := s.recordOnce(ctx, userID, name, amount, mult)
	if errors.Is(err, repo.ErrRoundClosed) {
		bet, err = s.recordOnce(ctx, userID, name, amount, mult)
	}
	if err != nil {
		return 0, err
	}

	metrics.BetsTotal.Inc()
	metrics.OpenRoundBank.Add(float64(amount))

	roundID := bet.RoundID
	s.wp.Submit(func() {
		_ = s.audit.Record(context.Background(), models.RoundAudit{
			RoundID: roundID,
			Action:  "bet_placed",
			Details: map[string]any{"user_id": userID, "amount": amount, "mult": mult},
		})
	})
	return roundID, nil
}

func (s *RoundService) recordOnce(ctx context.Context, userID int64, name string, amount int64, mult string) (models.Bet, error) {
	rnd, err := s.rounds.Open(ctx)
	if err != nil {
		return models.Bet{}, fmt.Errorf("open round: %w", err)
	}
	return s.rounds.RecordBet(ctx, rnd.ID, userID, name, amount, mult)
}

// Close resolves the open round with the drawn result. ErrNoOpenRound
// passes through untouched as the "nothing to close" signal.
func (s *RoundService) Close(ctx context.Context, result string) (int64, error) {
	id, err := s.rounds.Close(ctx, result)
	if err != nil {
		return 0, err
	}

	metrics.RoundsClosedTotal.WithLabelValues(result).Inc()
	metrics.OpenRoundBank.Set(0)

	s.wp.Submit(func() {
		_ = s.audit.Record(context.Background(), models.RoundAudit{
			RoundID: id,
			Action:  "round_closed",
			Details: map[string]any{"result": result},
		})
	})
	return id, nil
}

// History returns closed rounds newest-first. A non-positive limit falls
// back to the configured default.
func (s *RoundService) History(ctx context.Context, limit int) ([]models.Round, error) {
	if limit <= 0 {
		limit = s.historyLimit
	}
	return s.rounds.ListClosed(ctx, limit)
}
