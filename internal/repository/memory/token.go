package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

// TokenRepository is an in-memory adapter used in tests
type TokenRepository struct {
	mu     sync.Mutex
	tokens map[string]*model.UserToken
}

func NewTokenRepository() *TokenRepository {
	return &TokenRepository{tokens: make(map[string]*model.UserToken)}
}

func (r *TokenRepository) Generate(_ context.Context, userID uuid.UUID) (*model.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	token := &model.UserToken{
		ID:        uuid.New(),
		Token:     uuid.New().String(),
		UserID:    userID,
		CreatedAt: time.Now(),
	}
	r.tokens[token.Token] = token

	found := *token
	return &found, nil
}

func (r *TokenRepository) FindByToken(_ context.Context, token string) (*model.UserToken, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userToken, ok := r.tokens[token]; ok {
		found := *userToken
		return &found, nil
	}
	return nil, repository.ErrNotFound
}

func (r *TokenRepository) Invalidate(_ context.Context, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.tokens, token)
	return nil
}

// Backdate shifts a token's creation time, for expiry tests
func (r *TokenRepository) Backdate(token string, d time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if userToken, ok := r.tokens[token]; ok {
		userToken.CreatedAt = userToken.CreatedAt.Add(-d)
	}
}
