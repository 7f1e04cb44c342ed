package report

import (
	"context"
	"database/sql"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository defines report data access
type Repository interface {
	Create(ctx context.Context, rep *Report) error
	GetByID(ctx context.Context, id uuid.UUID) (*Report, error)
	Update(ctx context.Context, rep *Report) error

	// GetLiveByTarget finds the reporter's open report against the exact
	// target and category, if any. CommentID invalid means a whisper report.
	GetLiveByTarget(ctx context.Context, reporterID, whisperID uuid.UUID, commentID uuid.NullUUID, category Category) (*Report, error)

	ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*Report, error)
	ListQueue(ctx context.Context, filter *ListFilter) ([]*Report, int, error)

	CountUniqueWhisperReporters(ctx context.Context, whisperID uuid.UUID, since time.Time) (int, error)
	CountUniqueCommentReporters(ctx context.Context, commentID uuid.UUID, since time.Time) (int, error)
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new report repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, rep *Report) error {
	query := `
		INSERT INTO reports (
			id, whisper_id, comment_id,
			reporter_id, reporter_display_name, reporter_reputation,
			category, priority, status, reason, evidence, reputation_weight,
			resolution_action, resolution_reason, resolution_moderator,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17
		)
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.WhisperID,
		rep.CommentID,
		rep.ReporterID,
		rep.ReporterDisplayName,
		rep.ReporterReputation,
		rep.Category,
		rep.Priority,
		rep.Status,
		rep.Reason,
		rep.Evidence,
		rep.ReputationWeight,
		rep.ResolutionAction,
		rep.ResolutionReason,
		rep.ResolutionModerator,
		rep.CreatedAt,
		rep.UpdatedAt,
	)
	return err
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Report, error) {
	query := `SELECT * FROM reports WHERE id = $1`
	var rep Report
	err := r.db.GetContext(ctx, &rep, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

func (r *repository) Update(ctx context.Context, rep *Report) error {
	query := `
		UPDATE reports
		SET priority = $2, status = $3, reason = $4, evidence = $5,
		    resolution_action = $6, resolution_reason = $7, resolution_moderator = $8,
		    updated_at = $9
		WHERE id = $1
	`
	_, err := r.db.ExecContext(ctx, query,
		rep.ID,
		rep.Priority,
		rep.Status,
		rep.Reason,
		rep.Evidence,
		rep.ResolutionAction,
		rep.ResolutionReason,
		rep.ResolutionModerator,
		rep.UpdatedAt,
	)
	return err
}

func (r *repository) GetLiveByTarget(ctx context.Context, reporterID, whisperID uuid.UUID, commentID uuid.NullUUID, category Category) (*Report, error) {
	query := `
		SELECT * FROM reports
		WHERE reporter_id = $1
		  AND whisper_id = $2
		  AND comment_id IS NOT DISTINCT FROM $3
		  AND category = $4
		  AND status IN ('pending', 'under_review')
		LIMIT 1
	`
	var rep Report
	err := r.db.GetContext(ctx, &rep, query, reporterID, whisperID, commentID, category)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &rep, nil
}

func (r *repository) ListByReporter(ctx context.Context, reporterID uuid.UUID) ([]*Report, error) {
	query := `
		SELECT * FROM reports
		WHERE reporter_id = $1
		ORDER BY created_at DESC
	`
	var reports []*Report
	err := r.db.SelectContext(ctx, &reports, query, reporterID)
	return reports, err
}

// ListQueue returns the moderator queue ordered by priority tier, then
// oldest first, with the unpaginated total.
func (r *repository) ListQueue(ctx context.Context, filter *ListFilter) ([]*Report, int, error) {
	where := `WHERE 1=1`
	args := []interface{}{}
	argIdx := 1

	if filter.Status != "" {
		where += ` AND status = $` + strconv.Itoa(argIdx)
		args = append(args, filter.Status)
		argIdx++
	}
	if filter.Priority != "" {
		where += ` AND priority = $` + strconv.Itoa(argIdx)
		args = append(args, filter.Priority)
		argIdx++
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM reports `+where, args...); err != nil {
		return nil, 0, err
	}

	query := `
		SELECT * FROM reports ` + where + `
		ORDER BY CASE priority
			WHEN 'critical' THEN 0
			WHEN 'high' THEN 1
			WHEN 'medium' THEN 2
			ELSE 3
		END, created_at ASC
		LIMIT $` + strconv.Itoa(argIdx) + ` OFFSET $` + strconv.Itoa(argIdx+1)
	args = append(args, filter.Limit, filter.Offset)

	var reports []*Report
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, err
	}
	return reports, total, nil
}

func (r *repository) CountUniqueWhisperReporters(ctx context.Context, whisperID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT reporter_id) FROM reports
		WHERE whisper_id = $1
		  AND comment_id IS NULL
		  AND status IN ('pending', 'under_review')
		  AND created_at >= $2
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, whisperID, since)
	return count, err
}

func (r *repository) CountUniqueCommentReporters(ctx context.Context, commentID uuid.UUID, since time.Time) (int, error) {
	query := `
		SELECT COUNT(DISTINCT reporter_id) FROM reports
		WHERE comment_id = $1
		  AND status IN ('pending', 'under_review')
		  AND created_at >= $2
	`
	var count int
	err := r.db.GetContext(ctx, &count, query, commentID, since)
	return count, err
}
