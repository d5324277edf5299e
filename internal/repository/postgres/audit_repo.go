package postgres

import (
	"context"

	"github.com/main0crine/wheel-backend/internal/models"
	"github.com/jackc/pgx/v5/pgxpool"
)

type auditRepo struct{ pool *pgxpool.Pool }

func (r *auditRepo) Record(ctx context.Context, a models.RoundAudit) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO round_audit(round_id, action, details)
		 VALUES($1, $2, $3)`,
		a.RoundID, a.Action, a.Details,
	)
	return err
}
