package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
	"github.com/chenoli/gostack-gobarber/pkg/auth"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/security"
)

type Service struct {
	repo   repository.UserRepository
	hasher security.PasswordHasher
	jwt    auth.JWTService
}

func NewService(repo repository.UserRepository, hasher security.PasswordHasher, jwtSvc auth.JWTService) *Service {
	return &Service{repo: repo, hasher: hasher, jwt: jwtSvc}
}

// Session is a logged-in user plus their bearer token
type Session struct {
	User  *model.User `json:"user"`
	Token string      `json:"token"`
}

// Authenticate verifies credentials and issues a JWT
func (s *Service) Authenticate(ctx context.Context, email, password string) (*Session, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("incorrect email or password", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, apperrors.Unauthorized("incorrect email or password", err)
	}

	token, err := s.jwt.GenerateToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &Session{User: user, Token: token}, nil
}
