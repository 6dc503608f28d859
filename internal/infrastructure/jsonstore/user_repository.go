package jsonstore

import (
	"context"
	"strings"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, rec := range r.store.data.Users {
		if strings.EqualFold(rec.Email, user.Email) {
			return domain.ErrAlreadyExists
		}
	}
	r.store.data.Users = append(r.store.data.Users, toUserRecord(user))
	return r.store.flush()
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.data.Users {
		if rec.ID == id {
			return rec.toDomain(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	_ = ctx

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, rec := range r.store.data.Users {
		if strings.EqualFold(rec.Email, email) {
			return rec.toDomain(), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	_ = ctx

	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for i, rec := range r.store.data.Users {
		if rec.ID == user.ID {
			r.store.data.Users[i] = toUserRecord(user)
			return r.store.flush()
		}
	}
	return domain.ErrNotFound
}
