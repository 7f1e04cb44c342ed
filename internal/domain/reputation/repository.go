package reputation

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines reputation data access
type Repository interface {
	GetByUserID(ctx context.Context, userID uuid.UUID) (*UserReputation, error)
	Create(ctx context.Context, rep *UserReputation) error
	Update(ctx context.Context, rep *UserReputation) error

	AppendViolation(ctx context.Context, v *ViolationRecord) error
	GetViolation(ctx context.Context, id uuid.UUID) (*ViolationRecord, error)
	ListViolations(ctx context.Context, userID uuid.UUID) ([]*ViolationRecord, error)
	CountViolations(ctx context.Context, userID uuid.UUID) (int, error)
	MarkViolationResolved(ctx context.Context, id uuid.UUID) error

	// ListRecoverable returns reputations eligible for the recovery sweep:
	// a violation on record and a score below the maximum.
	ListRecoverable(ctx context.Context) ([]*UserReputation, error)

	GetStats(ctx context.Context) (*Stats, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new reputation repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetByUserID(ctx context.Context, userID uuid.UUID) (*UserReputation, error) {
	query := `SELECT * FROM user_reputations WHERE user_id = $1`
	var rep UserReputation
	err := r.db.GetContext(ctx, &rep, query, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

func (r *repository) Create(ctx context.Context, rep *UserReputation) error {
	query := `
		INSERT INTO user_reputations (
			user_id, score, level, total_whispers, approved_whispers,
			flagged_whispers, rejected_whispers, last_violation, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.UserID,
		rep.Score,
		rep.Level,
		rep.TotalWhispers,
		rep.ApprovedWhispers,
		rep.FlaggedWhispers,
		rep.RejectedWhispers,
		rep.LastViolation,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	return err
}

func (r *repository) Update(ctx context.Context, rep *UserReputation) error {
	rep.UpdatedAt = time.Now()
	query := `
		UPDATE user_reputations
		SET score = $2, level = $3, total_whispers = $4, approved_whispers = $5,
		    flagged_whispers = $6, rejected_whispers = $7, last_violation = $8,
		    updated_at = $9
		WHERE user_id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.UserID,
		rep.Score,
		rep.Level,
		rep.TotalWhispers,
		rep.ApprovedWhispers,
		rep.FlaggedWhispers,
		rep.RejectedWhispers,
		rep.LastViolation,
		rep.UpdatedAt,
	)
	return err
}

func (r *repository) AppendViolation(ctx context.Context, v *ViolationRecord) error {
	query := `
		INSERT INTO violation_records (
			id, user_id, whisper_id, violation_type, severity, resolved, notes, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		v.ID,
		v.UserID,
		v.WhisperID,
		v.ViolationType,
		v.Severity,
		v.Resolved,
		v.Notes,
		v.CreatedAt,
	)
	return err
}

func (r *repository) GetViolation(ctx context.Context, id uuid.UUID) (*ViolationRecord, error) {
	query := `SELECT * FROM violation_records WHERE id = $1`
	var v ViolationRecord
	err := r.db.GetContext(ctx, &v, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &v, nil
}

func (r *repository) ListViolations(ctx context.Context, userID uuid.UUID) ([]*ViolationRecord, error) {
	query := `
		SELECT * FROM violation_records
		WHERE user_id = $1
		ORDER BY created_at ASC
	`
	var records []*ViolationRecord
	err := r.db.SelectContext(ctx, &records, query, userID)
	return records, err
}

func (r *repository) CountViolations(ctx context.Context, userID uuid.UUID) (int, error) {
	query := `SELECT COUNT(*) FROM violation_records WHERE user_id = $1`
	var count int
	err := r.db.GetContext(ctx, &count, query, userID)
	return count, err
}

func (r *repository) MarkViolationResolved(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE violation_records SET resolved = TRUE WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrViolationNotFound
	}
	return nil
}

func (r *repository) ListRecoverable(ctx context.Context) ([]*UserReputation, error) {
	query := `
		SELECT * FROM user_reputations
		WHERE last_violation IS NOT NULL
		  AND score < $1
		ORDER BY updated_at ASC
	`
	var reps []*UserReputation
	err := r.db.SelectContext(ctx, &reps, query, ScoreMax)
	return reps, err
}

func (r *repository) GetStats(ctx context.Context) (*Stats, error) {
	query := `
		SELECT
			COUNT(*) AS total_users,
			COALESCE(AVG(score), 0) AS average_score,
			COUNT(*) FILTER (WHERE level = 'trusted') AS trusted_users,
			COUNT(*) FILTER (WHERE level = 'verified') AS verified_users,
			COUNT(*) FILTER (WHERE level = 'standard') AS standard_users,
			COUNT(*) FILTER (WHERE level = 'flagged') AS flagged_users,
			COUNT(*) FILTER (WHERE level = 'banned') AS banned_users,
			(SELECT COUNT(*) FROM violation_records) AS total_violations
		FROM user_reputations
	`
	var stats Stats
	err := r.db.GetContext(ctx, &stats, query)
	if err != nil {
		return nil, err
	}
	return &stats, nil
}
