package ports

import (
	"context"
	"time"

	"github.com/taskhive/task-api/internal/core/domain"
)

// UserUpdate lists the mutable account fields. Nil fields are left untouched.
type UserUpdate struct {
	Mobile     *string
	Role       *string
	BlockUser  *bool
	LastLogged *time.Time
}

// UserRepository defines the persistence contract for accounts. Create must
// enforce email uniqueness and return domain.ErrUserExists on a duplicate.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	Update(ctx context.Context, id string, fields UserUpdate) (*domain.User, error)
}
