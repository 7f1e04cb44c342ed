package appeal

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines appeal data access
type Repository interface {
	Create(ctx context.Context, a *Appeal) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appeal, error)
	Update(ctx context.Context, a *Appeal) error
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*Appeal, error)
	ListPending(ctx context.Context) ([]*Appeal, error)
	GetByViolation(ctx context.Context, violationID uuid.UUID) ([]*Appeal, error)
	GetPendingByViolation(ctx context.Context, violationID uuid.UUID) (*Appeal, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new appeal repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, a *Appeal) error {
	query := `
		INSERT INTO appeals (
			id, user_id, whisper_id, violation_id, reason, evidence, status,
			submitted_at, reviewed_at, reviewed_by,
			resolution_action, resolution_reason, reputation_adjustment
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.UserID,
		a.WhisperID,
		a.ViolationID,
		a.Reason,
		a.Evidence,
		a.Status,
		a.SubmittedAt,
		a.ReviewedAt,
		a.ReviewedBy,
		a.ResolutionAction,
		a.ResolutionReason,
		a.ReputationAdjustment,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Appeal, error) {
	query := `SELECT * FROM appeals WHERE id = $1`
	var a Appeal
	err := r.db.GetContext(ctx, &a, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Appeal) error {
	query := `
		UPDATE appeals
		SET status = $2, reviewed_at = $3, reviewed_by = $4,
		    resolution_action = $5, resolution_reason = $6, reputation_adjustment = $7
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		a.ID,
		a.Status,
		a.ReviewedAt,
		a.ReviewedBy,
		a.ResolutionAction,
		a.ResolutionReason,
		a.ReputationAdjustment,
	)
	return err
}

func (r *repository) ListByUser(ctx context.Context, userID uuid.UUID) ([]*Appeal, error) {
	query := `
		SELECT * FROM appeals
		WHERE user_id = $1
		ORDER BY submitted_at DESC
	`
	var appeals []*Appeal
	err := r.db.SelectContext(ctx, &appeals, query, userID)
	return appeals, err
}

func (r *repository) ListPending(ctx context.Context) ([]*Appeal, error) {
	query := `
		SELECT * FROM appeals
		WHERE status = 'pending'
		ORDER BY submitted_at ASC
	`
	var appeals []*Appeal
	err := r.db.SelectContext(ctx, &appeals, query)
	return appeals, err
}

func (r *repository) GetByViolation(ctx context.Context, violationID uuid.UUID) ([]*Appeal, error) {
	query := `
		SELECT * FROM appeals
		WHERE violation_id = $1
		ORDER BY submitted_at DESC
	`
	var appeals []*Appeal
	err := r.db.SelectContext(ctx, &appeals, query, violationID)
	return appeals, err
}

func (r *repository) GetPendingByViolation(ctx context.Context, violationID uuid.UUID) (*Appeal, error) {
	query := `
		SELECT * FROM appeals
		WHERE violation_id = $1 AND status = 'pending'
		LIMIT 1
	`
	var a Appeal
	err := r.db.GetContext(ctx, &a, query, violationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}
