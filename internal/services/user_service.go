package services

import (
	"context"

	repo "github.com/main0crine/wheel-backend/internal/repository"
)

type UserService struct {
	r            repo.Users
	startBalance int64
}

func NewUserService(r repo.Users, startBalance int64) *UserService {
	return &UserService{r: r, startBalance: startBalance}
}

// Ensure lazily creates the user with the configured starting balance.
func (s *UserService) Ensure(ctx context.Context, id int64, name string) error {
	return s.r.Ensure(ctx, id, name, s.startBalance)
}

// Balance returns the stored balance, or the starting-balance default
// for ids that have never been seen. No row is created.
func (s *UserService) Balance(ctx context.Context, id int64) (int64, error) {
	balance, ok, err := s.r.Balance(ctx, id)
	if err != nil {
		return 0, err
	}
	if !ok {
		return s.startBalance, nil
	}
	return balance, nil
}

// Adjust applies balance += delta. No bounds policy lives here; negative
// balances are permitted.
func (s *UserService) Adjust(ctx context.Context, id int64, delta int64) (int64, error) {
	return s.r.AdjustBalance(ctx, id, delta)
}
