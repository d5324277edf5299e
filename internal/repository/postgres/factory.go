package postgres

import (
	repo "github.com/main0crine/wheel-backend/internal/repository"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repositories struct {
	Users  repo.Users
	Rounds repo.Rounds
	Audit  repo.Audit
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:  &usersRepo{pool},
		Rounds: &roundsRepo{pool},
		Audit:  &auditRepo{pool},
	}
}
