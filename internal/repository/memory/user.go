package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/chenoli/gostack-gobarber/internal/model"
	"github.com/chenoli/gostack-gobarber/internal/repository"
)

// UserRepository is an in-memory adapter used in tests
type UserRepository struct {
	mu    sync.Mutex
	users []*model.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{}
}

func (r *UserRepository) Create(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = uuid.New()
	user.CreatedAt = time.Now()
	user.UpdatedAt = time.Now()

	stored := *user
	r.users = append(r.users, &stored)
	return nil
}

func (r *UserRepository) FindByID(_ context.Context, id uuid.UUID) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.ID == id {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, user := range r.users {
		if user.Email == email {
			found := *user
			return &found, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *UserRepository) FindProviders(_ context.Context, exceptUserID uuid.UUID) ([]*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	result := []*model.User{}
	for _, user := range r.users {
		if user.ID == exceptUserID {
			continue
		}
		found := *user
		result = append(result, &found)
	}
	return result, nil
}

func (r *UserRepository) Update(_ context.Context, user *model.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, existing := range r.users {
		if existing.ID == user.ID {
			user.UpdatedAt = time.Now()
			stored := *user
			r.users[i] = &stored
			return nil
		}
	}
	return repository.ErrNotFound
}
