package repositories

import (
	"context"
	"time"

	"notaria-digital/internal/adapters/persistence/models"
	"notaria-digital/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	List(ctx context.Context) ([]*domain.User, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, userID, tokenHash string, expiresAt time.Time) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id string) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID string) error
	DeleteExpired(ctx context.Context) error
}

// RequestRepository defines the request store. Every status write goes
// through a conditional update keyed on the previously observed status so
// concurrent callers cannot both take the same lifecycle edge.
type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Request, error)
	ListAll(ctx context.Context) ([]*domain.Request, error)
	ListByStatus(ctx context.Context, status domain.Status) ([]*domain.Request, error)
	// UpdateStatus persists req's status and payload fields only if the
	// stored status still equals expected. Returns ErrStatusConflict when
	// another caller already moved the request, ErrRequestNotFound when
	// the id is unknown.
	UpdateStatus(ctx context.Context, req *domain.Request, expected domain.Status) error
	// MarkValidated flips pdf_validated on a PAID, not-yet-validated
	// request under the same conditional-write discipline.
	MarkValidated(ctx context.Context, id string) error
}
