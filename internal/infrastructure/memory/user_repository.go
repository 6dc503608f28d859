package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
)

type UserRepository struct {
	mu      sync.RWMutex
	users   map[string]*domain.User
	byEmail map[string]string // lowercase email -> user id
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:   make(map[string]*domain.User),
		byEmail: make(map[string]string),
	}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_ = ctx
	if user == nil || user.ID == "" {
		return fmt.Errorf("user repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	email := strings.ToLower(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return domain.ErrAlreadyExists
	}
	r.users[user.ID] = user.Clone()
	r.byEmail[email] = user.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return user.Clone(), nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx

	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[strings.ToLower(email)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return r.users[id].Clone(), nil
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_ = ctx
	if user == nil || user.ID == "" {
		return fmt.Errorf("user repository: id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	current, exists := r.users[user.ID]
	if !exists {
		return domain.ErrNotFound
	}
	if !strings.EqualFold(current.Email, user.Email) {
		delete(r.byEmail, strings.ToLower(current.Email))
		r.byEmail[strings.ToLower(user.Email)] = user.ID
	}
	r.users[user.ID] = user.Clone()
	return nil
}
