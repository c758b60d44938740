package ports

import (
	"context"
	"time"

	"github.com/campusevent/campusevent-api/internal/core/domain"
)

// RegisterInput carries the fields accepted by registration.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, *domain.User, error)
}

// Authenticator resolves request credentials to a stored identity.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.User, error)
	AuthorizeAPIKey(ctx context.Context, apiKey string) (*domain.User, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// TokenCodec issues and verifies session tokens bound to a user id.
type TokenCodec interface {
	Issue(userID string, ttl time.Duration) (string, error)
	Verify(token string) (string, error)
}
