package suspension

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines suspension data access
type Repository interface {
	Create(ctx context.Context, s *Suspension) error
	GetByID(ctx context.Context, id uuid.UUID) (*Suspension, error)
	Update(ctx context.Context, s *Suspension) error
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Suspension, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Suspension, error)
	ListActive(ctx context.Context) ([]*Suspension, error)
	// ListDue returns active suspensions whose end date has passed
	ListDue(ctx context.Context, now time.Time) ([]*Suspension, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new suspension repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, s *Suspension) error {
	query := `
		INSERT INTO suspensions (
			id, user_id, reason, type, ban_type, moderator_id,
			start_date, end_date, is_active
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		s.ID,
		s.UserID,
		s.Reason,
		s.Type,
		s.BanType,
		s.ModeratorID,
		s.StartDate,
		s.EndDate,
		s.IsActive,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Suspension, error) {
	query := `SELECT * FROM suspensions WHERE id = $1`
	var s Suspension
	err := r.db.GetContext(ctx, &s, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Suspension) error {
	query := `
		UPDATE suspensions
		SET type = $2, ban_type = $3, end_date = $4, is_active = $5
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query, s.ID, s.Type, s.BanType, s.EndDate, s.IsActive)
	return err
}

func (r *repository) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*Suspension, error) {
	query := `
		SELECT * FROM suspensions
		WHERE user_id = $1 AND is_active = TRUE AND end_date > NOW()
		ORDER BY start_date DESC
	`
	var suspensions []*Suspension
	err := r.db.SelectContext(ctx, &suspensions, query, userID)
	return suspensions, err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Suspension, error) {
	query := `
		SELECT * FROM suspensions
		WHERE user_id = $1
		ORDER BY start_date DESC
	`
	var suspensions []*Suspension
	err := r.db.SelectContext(ctx, &suspensions, query, userID)
	return suspensions, err
}

func (r *repository) ListActive(ctx context.Context) ([]*Suspension, error) {
	query := `
		SELECT * FROM suspensions
		WHERE is_active = TRUE AND end_date > NOW()
		ORDER BY start_date DESC
	`
	var suspensions []*Suspension
	err := r.db.SelectContext(ctx, &suspensions, query)
	return suspensions, err
}

func (r *repository) ListDue(ctx context.Context, now time.Time) ([]*Suspension, error) {
	query := `
		SELECT * FROM suspensions
		WHERE is_active = TRUE AND end_date <= $1
		ORDER BY end_date ASC
	`
	var suspensions []*Suspension
	err := r.db.SelectContext(ctx, &suspensions, query, now)
	return suspensions, err
}
