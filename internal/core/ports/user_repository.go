package ports

import (
	"context"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

// UserRepository is the credential store contract. Finders return
// domain.ErrUserNotFound when nothing matches; Create returns
// domain.ErrUserExists when the email or api key is already taken.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
