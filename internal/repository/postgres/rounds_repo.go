package postgres

import (
	"context"
	"errors"

	"github.com/main0crine/wheel-backend/internal/models"
	repo "github.com/main0crine/wheel-backend/internal/repository"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type roundsRepo struct{ pool *pgxpool.Pool }

const roundCols = `id, result, bank, started_at, ended_at`

func scanRound(row pgx.Row) (models.Round, error) {
	var rnd models.Round
	err := row.Scan(&rnd.ID, &rnd.Result, &rnd.Bank, &rnd.StartedAt, &rnd.EndedAt)
	return rnd, err
}

func (r *roundsRepo) Open(ctx context.Context) (models.Round, error) {
	rnd, err := r.getOpen(ctx)
	if err == nil {
		return rnd, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return models.Round{}, err
	}

	// No open round: create one. The rounds_one_open partial unique
	// index makes this safe under races; the losing insert is dropped
	// and both callers read back the same row.
	_, err = r.pool.Exec(ctx,
		`INSERT INTO rounds(result, bank, started_at)
		 VALUES(NULL, 0, now())
		 ON CONFLICT DO NOTHING`,
	)
	if err != nil {
		return models.Round{}, err
	}
	return r.getOpen(ctx)
}

func (r *roundsRepo) getOpen(ctx context.Context) (models.Round, error) {
	return scanRound(r.pool.QueryRow(ctx,
		`SELECT `+roundCols+`
		   FROM rounds
		  WHERE result IS NULL
		  ORDER BY id DESC
		  LIMIT 1`,
	))
}

func (r *roundsRepo) RecordBet(ctx context.Context, roundID, userID int64, name string, amount int64, mult string) (models.Bet, error) {
	bet := models.Bet{RoundID: roundID, UserID: userID, Name: name, Amount: amount, Mult: mult}

	err := r.withTx(ctx, func(tx pgx.Tx) error {
		// Lock the round row so a concurrent close waits; a bet never
		// lands in a round that already has a result.
		var id int64
		err := tx.QueryRow(ctx,
			`SELECT id FROM rounds WHERE id=$1 AND result IS NULL FOR UPDATE`,
			roundID,
		).Scan(&id)
		if errors.Is(err, pgx.ErrNoRows) {
			return repo.ErrRoundClosed
		}
		if err != nil {
			return err
		}

		if err := tx.QueryRow(ctx,
			`INSERT INTO bets(round_id, user_id, name, amount, mult, created_at)
			 VALUES($1, $2, $3, $4, $5, now())
			 RETURNING id, created_at`,
			roundID, userID, name, amount, mult,
		).Scan(&bet.ID, &bet.CreatedAt); err != nil {
			return err
		}

		_, err = tx.Exec(ctx,
			`UPDATE rounds SET bank = bank + $2 WHERE id=$1`,
			roundID, amount,
		)
		return err
	})
	if err != nil {
		return models.Bet{}, err
	}
	return bet, nil
}

func (r *roundsRepo) Close(ctx context.Context, result string) (int64, error) {
	var id int64
	err := r.pool.QueryRow(ctx,
		`UPDATE rounds
		    SET result=$1, ended_at=now()
		  WHERE result IS NULL
		  RETURNING id`,
		result,
	).Scan(&id)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, repo.ErrNoOpenRound
	}
	return id, err
}

func (r *roundsRepo) BetsForRound(ctx context.Context, roundID int64) ([]models.Bet, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, round_id, user_id, name, amount, mult, created_at
		   FROM bets
		  WHERE round_id=$1
		  ORDER BY id DESC`,
		roundID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Bet
	for rows.Next() {
		var b models.Bet
		if err := rows.Scan(&b.ID, &b.RoundID, &b.UserID, &b.Name, &b.Amount, &b.Mult, &b.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *roundsRepo) ListClosed(ctx context.Context, limit int) ([]models.Round, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+roundCols+`
		   FROM rounds
		  WHERE result IS NOT NULL
		  ORDER BY id DESC
		  LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Round
	for rows.Next() {
		rnd, err := scanRound(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rnd)
	}
	return out, rows.Err()
}

// withTx runs fn inside one serializable transaction.
func (r *roundsRepo) withTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{
		IsoLevel:   pgx.Serializable,
		AccessMode: pgx.ReadWrite,
	})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
