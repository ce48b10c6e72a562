package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository/memory"
	"github.com/chenoli/gostack-gobarber/pkg/auth"
	apperrors "github.com/chenoli/gostack-gobarber/pkg/errors"
	"github.com/chenoli/gostack-gobarber/pkg/security"
)

func newService(t *testing.T) (*Service, *memory.UserRepository, auth.JWTService) {
	t.Helper()
	users := memory.NewUserRepository()
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	return NewService(users, hasher, jwtSvc), users, jwtSvc
}

func seedUser(t *testing.T, users *memory.UserRepository, email, password string) *model.User {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := &model.User{Name: "John Doe", Email: email, PasswordHash: string(hash)}
	require.NoError(t, users.Create(context.Background(), user))
	return user
}

func TestAuthenticate(t *testing.T) {
	svc, users, jwtSvc := newService(t)
	user := seedUser(t, users, "john@example.com", "123456")

	session, err := svc.Authenticate(context.Background(), "john@example.com", "123456")
	require.NoError(t, err)
	assert.Equal(t, user.ID, session.User.ID)
	require.NotEmpty(t, session.Token)

	claims, err := jwtSvc.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthenticateWrongPassword(t *testing.T) {
	svc, users, _ := newService(t)
	seedUser(t, users, "john@example.com", "123456")

	_, err := svc.Authenticate(context.Background(), "john@example.com", "wrong")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}

func TestAuthenticateUnknownEmail(t *testing.T) {
	svc, _, _ := newService(t)

	_, err := svc.Authenticate(context.Background(), "nobody@example.com", "123456")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrUnauthorized, appErr.Code)
}
