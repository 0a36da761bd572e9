package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ANOUAR90ESS/veto7/internal/model"
)

type ProfileRepository struct {
	db *sql.DB
}

func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByID(ctx context.Context, id string) (*model.Profile, error) {
	var p model.Profile
	var email, role, plan sql.NullString
	var end sql.NullTime
	var count sql.NullInt64

	err := r.db.QueryRowContext(ctx, `
		SELECT id, email, role, plan, subscription_end, generations_count
		FROM profiles
		WHERE id = $1
	`, id).Scan(&p.ID, &email, &role, &plan, &end, &count)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	p.Email = email.String
	p.Role = role.String
	if p.Role == "" {
		p.Role = model.RoleUser
	}
	p.Plan = plan.String
	if p.Plan == "" {
		p.Plan = model.PlanFree
	}
	if end.Valid {
		p.SubscriptionEnd = &end.Time
	}
	p.GenerationsCount = int(count.Int64)

	return &p, nil
}

// SetPlan records a lifetime purchase; subscription_end is cleared.
func (r *ProfileRepository) SetPlan(ctx context.Context, id, plan string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE profiles SET plan = $1, subscription_end = NULL WHERE id = $2
	`, plan, id)
	if err != nil {
		return fmt.Errorf("set plan: %w", err)
	}
	return expectAffected(res)
}

// IncrementGenerations bumps the usage counter through the atomic database function.
func (r *ProfileRepository) IncrementGenerations(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `SELECT increment_generations($1)`, id)
	if err != nil {
		return fmt.Errorf("increment generations: %w", err)
	}
	return nil
}
