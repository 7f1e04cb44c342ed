package whisper

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository is the narrow content-store contract consumed by the trust
// engine: look up ownership, flag, hide, and delete.
type Repository interface {
	GetWhisper(ctx context.Context, id uuid.UUID) (*Whisper, error)
	FlagWhisper(ctx context.Context, id uuid.UUID) error
	DeleteWhisper(ctx context.Context, id uuid.UUID) error

	GetComment(ctx context.Context, id uuid.UUID) (*Comment, error)
	HideComment(ctx context.Context, id uuid.UUID) error
	DeleteComment(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *sqlx.DB
}

// NewRepository creates new whisper repository
func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetWhisper(ctx context.Context, id uuid.UUID) (*Whisper, error) {
	query := `SELECT * FROM whispers WHERE id = $1`
	var w Whisper
	err := r.db.GetContext(ctx, &w, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &w, nil
}

func (r *repository) FlagWhisper(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE whispers SET flagged = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) DeleteWhisper(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM whispers WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) GetComment(ctx context.Context, id uuid.UUID) (*Comment, error) {
	query := `SELECT * FROM comments WHERE id = $1`
	var c Comment
	err := r.db.GetContext(ctx, &c, query, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &c, nil
}

func (r *repository) HideComment(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE comments SET hidden = TRUE WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *repository) DeleteComment(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM comments WHERE id = $1`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}
