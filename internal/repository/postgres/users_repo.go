package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type usersRepo struct{ pool *pgxpool.Pool }

func (r *usersRepo) Ensure(ctx context.Context, id int64, name string, startBalance int64) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO users(id, name, balance)
		 VALUES($1, $2, $3)
		 ON CONFLICT (id) DO NOTHING`,
		id, name, startBalance,
	)
	return err
}

func (r *usersRepo) Balance(ctx context.Context, id int64) (int64, bool, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`SELECT balance FROM users WHERE id=$1`, id,
	).Scan(&balance)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return balance, true, nil
}

func (r *usersRepo) AdjustBalance(ctx context.Context, id int64, delta int64) (int64, error) {
	var balance int64
	err := r.pool.QueryRow(ctx,
		`UPDATE users
		    SET balance = balance + $2
		  WHERE id = $1
		  RETURNING balance`,
		id, delta,
	).Scan(&balance)
	return balance, err
}
