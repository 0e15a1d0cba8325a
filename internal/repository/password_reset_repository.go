package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"stockmana/internal/db"
	"stockmana/internal/models"
)

type PasswordResetRepository interface {
	Create(ctx context.Context, token *models.PasswordResetToken) error
	DeleteByUserID(ctx context.Context, userID string) error
	GetValidByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error)
	DeleteByID(ctx context.Context, id string) error
}

type passwordResetRepository struct {
	conn db.DBTX
}

func NewPasswordResetRepository(conn db.DBTX) PasswordResetRepository {
	return &passwordResetRepository{conn: conn}
}

func (r *passwordResetRepository) Create(ctx context.Context, token *models.PasswordResetToken) error {
	query := `
		INSERT INTO password_reset_tokens (id, user_id, token_hash, created_at, expires_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := r.conn.ExecContext(ctx, query, token.ID, token.UserID, token.TokenHash, token.CreatedAt, token.ExpiresAt); err != nil {
		return fmt.Errorf("insert reset token: %w", err)
	}
	return nil
}

func (r *passwordResetRepository) DeleteByUserID(ctx context.Context, userID string) error {
	if _, err := r.conn.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("delete reset tokens: %w", err)
	}
	return nil
}

// GetValidByTokenHash returns the record with the given hash whose expiry is
// after now. A missing and an expired record look the same to the caller.
func (r *passwordResetRepository) GetValidByTokenHash(ctx context.Context, tokenHash string, now time.Time) (*models.PasswordResetToken, error) {
	query := `
		SELECT id, user_id, token_hash, created_at, expires_at
		FROM password_reset_tokens
		WHERE token_hash = $1
		AND expires_at > $2
		LIMIT 1
	`

	var t models.PasswordResetToken
	err := r.conn.QueryRowContext(ctx, query, tokenHash, now).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrResetTokenNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *passwordResetRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.conn.ExecContext(ctx, `DELETE FROM password_reset_tokens WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete reset token: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrResetTokenNotFound
	}
	return nil
}
