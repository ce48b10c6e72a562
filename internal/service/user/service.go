package user

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/cache"
	"github.com/chenoli/gostack-gobarber/internal/clock"
	"github.com/chenoli/gostack-gobarber/internal/email"
	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
	"github.com/chenoli/gostack-gobarber/internal/storage"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/security"
)

type Service struct {
	repo     repository.UserRepository
	tokens   repository.TokenRepository
	hasher   security.PasswordHasher
	emailSvc email.Service
	storage  storage.Provider
	cache    cache.Provider
	clock    clock.Clock
}

func NewService(
	repo repository.UserRepository,
	tokens repository.TokenRepository,
	hasher security.PasswordHasher,
	emailSvc email.Service,
	storageProvider storage.Provider,
	cacheProvider cache.Provider,
	clk clock.Clock,
) *Service {
	return &Service{
		repo:     repo,
		tokens:   tokens,
		hasher:   hasher,
		emailSvc: emailSvc,
		storage:  storageProvider,
		cache:    cacheProvider,
		clock:    clk,
	}
}

// CreateUser registers a new user. Every user may act as a provider, so
// the cached provider listings are invalidated by prefix.
func (s *Service) CreateUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	existing, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, apperrors.Conflict("email address already used")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password")
	}

	user := &model.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if err := s.cache.InvalidatePrefix(ctx, cache.NamespaceProvidersList); err != nil {
		return nil, fmt.Errorf("failed to invalidate provider listings: %w", err)
	}

	// welcome mail is best effort; sign-up never fails on SMTP trouble
	_ = s.emailSvc.SendWelcome(ctx, user.Email, user.Name)

	return user, nil
}

// ShowProfile returns a user by id
func (s *Service) ShowProfile(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateProfile updates name, email and optionally the password. A
// password change requires the current password.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *model.UpdateProfileRequest) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	withEmail, err := s.repo.FindByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if withEmail != nil && withEmail.ID != userID {
		return nil, apperrors.Conflict("email address already used")
	}

	user.Name = req.Name
	user.Email = req.Email

	if req.Password != nil {
		if req.OldPassword == nil {
			return nil, apperrors.Validation("old password is required to set a new password")
		}
		if err := s.hasher.Compare(user.PasswordHash, *req.OldPassword); err != nil {
			return nil, apperrors.Validation("old password does not match")
		}
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperrors.Validation("invalid password")
		}
		user.PasswordHash = hash
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// UpdateAvatar replaces the user's avatar file and record
func (s *Service) UpdateAvatar(ctx context.Context, userID uuid.UUID, filename string, content io.Reader) (*model.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized("only authenticated users can change the avatar", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if user.Avatar != nil {
		if err := s.storage.Delete(ctx, *user.Avatar); err != nil {
			return nil, fmt.Errorf("failed to delete old avatar: %w", err)
		}
	}

	if err := s.storage.Save(ctx, filename, content); err != nil {
		return nil, fmt.Errorf("failed to store avatar: %w", err)
	}

	user.Avatar = &filename
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// SendPasswordRecovery emails a reset token to the user
func (s *Service) SendPasswordRecovery(ctx context.Context, emailAddr string) error {
	user, err := s.repo.FindByEmail(ctx, emailAddr)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("user", err)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	token, err := s.tokens.Generate(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	if err := s.emailSvc.SendPasswordReset(ctx, user.Email, token.Token); err != nil {
		return fmt.Errorf("failed to send recovery email: %w", err)
	}
	return nil
}

// ResetPassword sets a new password from a valid, unexpired reset token
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	userToken, err := s.tokens.FindByToken(ctx, token)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("reset token", err)
	}
	if err != nil {
		return fmt.Errorf("failed to get reset token: %w", err)
	}

	user, err := s.repo.FindByID(ctx, userToken.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("user", err)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if s.clock.Now().After(userToken.CreatedAt.Add(model.ResetTokenTTL)) {
		return apperrors.Validation("reset token has expired")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return apperrors.Validation("invalid password")
	}
	user.PasswordHash = hash

	if err := s.repo.Update(ctx, user); err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}

	return s.tokens.Invalidate(ctx, token)
}
