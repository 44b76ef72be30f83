package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"notaria-digital/internal/adapters/persistence/repositories"
	"notaria-digital/internal/core/domain"
	"notaria-digital/internal/core/policy"
	"notaria-digital/internal/pkg/password"
)

// UserService handles the administrative user surface
type UserService struct {
	userRepo repositories.UserRepository
}

// NewUserService creates a new user service
func NewUserService(userRepo repositories.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// CreateUserInput represents admin user creation input
type CreateUserInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
	Role     string `json:"role"`
}

// List lists all users (admin only)
func (s *UserService) List(ctx context.Context, caller domain.Identity) ([]*UserInfo, error) {
	if !policy.Allowed(policy.OpListUsers, caller, "") {
		return nil, domain.ErrForbidden
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]*UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, NewUserInfo(u))
	}
	return result, nil
}

// Create creates a user with an explicit role (admin only)
func (s *UserService) Create(ctx context.Context, caller domain.Identity, input *CreateUserInput) (*UserInfo, error) {
	if !policy.Allowed(policy.OpCreateUser, caller, "") {
		return nil, domain.ErrForbidden
	}

	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	if !domain.ValidRole(input.Role) {
		return nil, domain.ErrInvalidRole
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrEmailTaken
	}

	hashed, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Email:    input.Email,
		Password: hashed,
		Name:     input.Name,
		Role:     domain.Role(input.Role),
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserAlreadyExists) {
			return nil, ErrEmailTaken
		}
		return nil, err
	}

	log.Printf("✅ User created by admin %s: %s [%s]", caller.Email, user.Email, user.Role)
	return NewUserInfo(user), nil
}
