package user

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	domain "github.com/Jfdeev/eccomerce-qualidade-software/internal/domain/user"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability"
	"github.com/Jfdeev/eccomerce-qualidade-software/internal/observability/logctx"
)

// IDGenerator produces identities for new users.
type IDGenerator interface {
	NewID() string
}

type Service struct {
	users domain.Repository
	ids   IDGenerator
	log   observability.Logger
}

func NewService(users domain.Repository, ids IDGenerator, logger observability.Logger) *Service {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Service{
		users: users,
		ids:   ids,
		log:   logger.With(observability.F("service", "user-service")),
	}
}

type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Address  string
	Phone    string
}

// Register creates a user with a unique email. The password is stored as a
// sha256 hex digest.
func (s *Service) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if _, err := s.users.GetByEmail(ctx, input.Email); err == nil {
		return nil, domain.ErrAlreadyExists
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("user: email lookup: %w", err)
	}

	entity := &domain.User{
		ID:           s.ids.NewID(),
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: hashPassword(input.Password),
		Address:      input.Address,
		Phone:        input.Phone,
	}
	if err := s.users.Create(ctx, entity); err != nil {
		return nil, fmt.Errorf("user: create: %w", err)
	}

	logctx.FromOr(ctx, s.log).Info("user_registered",
		observability.F("user_id", entity.ID),
	)
	return entity, nil
}

// Login authenticates by email and password. Unknown email and wrong
// password are indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.User, error) {
	entity, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("user: email lookup: %w", err)
	}
	if entity.PasswordHash != hashPassword(password) {
		return nil, domain.ErrInvalidCredentials
	}
	return entity, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return s.users.GetByID(ctx, id)
}

type UpdateProfileInput struct {
	Name    *string
	Address *string
	Phone   *string
}

// UpdateProfile applies a partial update; nil fields are left untouched.
func (s *Service) UpdateProfile(ctx context.Context, userID string, input UpdateProfileInput) (*domain.User, error) {
	entity, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if input.Name != nil && *input.Name != "" {
		entity.Name = *input.Name
	}
	if input.Address != nil {
		entity.Address = *input.Address
	}
	if input.Phone != nil {
		entity.Phone = *input.Phone
	}
	if err := s.users.Update(ctx, entity); err != nil {
		return nil, fmt.Errorf("user: update: %w", err)
	}
	return entity, nil
}

func hashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
