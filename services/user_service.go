package services

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/repositories"
	"fmt"
	"strings"
)

type IUserService interface {
	Resolve(ctx context.Context, userID string) (domain.UserRef, error)
	DisplayInfo(ctx context.Context, userID string) (domain.Profile, error)
	Me(ctx context.Context, userID string) (domain.User, error)
	UpdateProfile(ctx context.Context, userID, name, avatarRef string) (domain.User, error)
}

// UserService backs both the identity provider and the profile lookup with
// the user directory.
type UserService struct {
	users repositories.IUserRepository
}

func NewUserService(users repositories.IUserRepository) *UserService {
	return &UserService{users: users}
}

func (s *UserService) Resolve(ctx context.Context, userID string) (domain.UserRef, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.UserRef{}, err
	}
	return user.Ref(), nil
}

func (s *UserService) DisplayInfo(ctx context.Context, userID string) (domain.Profile, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.Profile{}, err
	}
	return domain.Profile{Name: user.Name, AvatarRef: user.AvatarRef}, nil
}

func (s *UserService) Me(ctx context.Context, userID string) (domain.User, error) {
	return s.users.GetUser(ctx, userID)
}

// UpdateProfile registers the caller in the directory on first use.
func (s *UserService) UpdateProfile(ctx context.Context, userID, name, avatarRef string) (domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.User{}, fmt.Errorf("%w: name is required", errors.ErrInvalidRequest)
	}
	return s.users.SaveUser(ctx, domain.User{ID: userID, Name: name, AvatarRef: strings.TrimSpace(avatarRef)})
}
