package application

import (
	"context"
	"strings"

	"github.com/atvirokodosprendimai/labelhub/internal/domain"
)

const defaultUserRole = "artist"

type CreateUserInput struct {
	Email     *string `json:"email" validate:"required"`
	Username  *string `json:"username" validate:"required"`
	FullName  *string `json:"full_name"`
	Role      *string `json:"role"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type UserService struct {
	repo domain.UserRepository
}

func NewUserService(repo domain.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func (s *UserService) Profile(ctx context.Context, id uint) (domain.UserProfile, error) {
	return s.repo.GetUserProfile(ctx, id)
}

func (s *UserService) ByUsername(ctx context.Context, username string) (domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return domain.User{}, domain.Invalid("username is required")
	}
	return s.repo.GetUserByUsername(ctx, username)
}

func (s *UserService) List(ctx context.Context, role string) ([]domain.UserListItem, error) {
	return s.repo.ListUsers(ctx, domain.UserFilter{Role: role})
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (domain.User, error) {
	if err := validateInput(in); err != nil {
		return domain.User{}, err
	}

	return s.repo.CreateUser(ctx, domain.User{
		Email:              strings.TrimSpace(*in.Email),
		Username:           strings.TrimSpace(*in.Username),
		FullName:           in.FullName,
		Role:               defaultString(in.Role, defaultUserRole),
		Bio:                in.Bio,
		AvatarURL:          in.AvatarURL,
		EmailNotifications: true,
		PushNotifications:  true,
	})
}

func (s *UserService) Update(ctx context.Context, patch Patch) (domain.User, error) {
	id, changes, err := patch.target(userPatchFields)
	if err != nil {
		return domain.User{}, err
	}
	return s.repo.UpdateUser(ctx, id, changes)
}
