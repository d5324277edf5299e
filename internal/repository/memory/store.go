// Package memory holds a concurrency-safe in-memory implementation of
// the repository interfaces, used by tests in place of Postgres.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/main0crine/wheel-backend/internal/models"
	repo "github.com/main0crine/wheel-backend/internal/repository"
)

type Store struct {
	mu sync.Mutex

	users  map[int64]*models.User
	rounds []*models.Round
	bets   []*models.Bet
	audits []models.RoundAudit

	nextRoundID int64
	nextBetID   int64
}

func NewStore() *Store {
	return &Store{users: make(map[int64]*models.User)}
}

var _ repo.Users = (*Store)(nil)
var _ repo.Rounds = (*Store)(nil)
var _ repo.Audit = (*Store)(nil)

// ---------- Users ----------

func (s *Store) Ensure(_ context.Context, id int64, name string, startBalance int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; ok {
		return nil
	}
	s.users[id] = &models.User{ID: id, Name: name, Balance: startBalance}
	return nil
}

func (s *Store) Balance(_ context.Context, id int64) (int64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return 0, false, nil
	}
	return u.Balance, true, nil
}

func (s *Store) AdjustBalance(_ context.Context, id int64, delta int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return 0, errors.New("unknown user")
	}
	u.Balance += delta
	return u.Balance, nil
}

// ---------- Rounds ----------

func (s *Store) Open(_ context.Context) (models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rnd := s.openLocked(); rnd != nil {
		return *rnd, nil
	}
	s.nextRoundID++
	rnd := &models.Round{ID: s.nextRoundID, StartedAt: time.Now()}
	s.rounds = append(s.rounds, rnd)
	return *rnd, nil
}

func (s *Store) openLocked() *models.Round {
	for i := len(s.rounds) - 1; i >= 0; i-- {
		if s.rounds[i].Result == nil {
			return s.rounds[i]
		}
	}
	return nil
}

func (s *Store) RecordBet(_ context.Context, roundID, userID int64, name string, amount int64, mult string) (models.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var rnd *models.Round
	for _, r := range s.rounds {
		if r.ID == roundID {
			rnd = r
			break
		}
	}
	if rnd == nil || rnd.Result != nil {
		return models.Bet{}, repo.ErrRoundClosed
	}

	s.nextBetID++
	bet := &models.Bet{
		ID:        s.nextBetID,
		RoundID:   roundID,
		UserID:    userID,
		Name:      name,
		Amount:    amount,
		Mult:      mult,
		CreatedAt: time.Now(),
	}
	s.bets = append(s.bets, bet)
	rnd.Bank += amount
	return *bet, nil
}

func (s *Store) Close(_ context.Context, result string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rnd := s.openLocked()
	if rnd == nil {
		return 0, repo.ErrNoOpenRound
	}
	now := time.Now()
	rnd.Result = &result
	rnd.EndedAt = &now
	return rnd.ID, nil
}

func (s *Store) BetsForRound(_ context.Context, roundID int64) ([]models.Bet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Bet
	for i := len(s.bets) - 1; i >= 0; i-- {
		if s.bets[i].RoundID == roundID {
			out = append(out, *s.bets[i])
		}
	}
	return out, nil
}

func (s *Store) ListClosed(_ context.Context, limit int) ([]models.Round, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Round
	for _, r := range s.rounds {
		if r.Result != nil {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// ---------- Audit ----------

func (s *Store) Record(_ context.Context, a models.RoundAudit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	a.ID = int64(len(s.audits) + 1)
	a.CreatedAt = time.Now()
	s.audits = append(s.audits, a)
	return nil
}

// Audits returns a copy of the recorded audit entries, for assertions.
func (s *Store) Audits() []models.RoundAudit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RoundAudit, len(s.audits))
	copy(out, s.audits)
	return out
}
