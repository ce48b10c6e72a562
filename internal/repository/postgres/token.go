package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

func (r *tokenRepository) Generate(ctx context.Context, userID uuid.UUID) (*model.UserToken, error) {
	token := &model.UserToken{
		ID:        uuid.New(),
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	query := `
		INSERT INTO user_tokens (id, token, user_id, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.db.ExecContext(ctx, query, token.ID, token.Token, token.UserID, token.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	return token, nil
}

func (r *tokenRepository) FindByToken(ctx context.Context, token string) (*model.UserToken, error) {
	query := `
		SELECT id, token, user_id, created_at
		FROM user_tokens
		WHERE token = $1
	`
	var userToken model.UserToken
	err := r.db.GetContext(ctx, &userToken, query, token)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	return &userToken, nil
}

func (r *tokenRepository) Invalidate(ctx context.Context, token string) error {
	query := `DELETE FROM user_tokens WHERE token = $1`
	if _, err := r.db.ExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("failed to invalidate token: %w", err)
	}
	return nil
}
