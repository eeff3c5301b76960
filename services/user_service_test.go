package services

import (
	"context"
	"dm-lab/domain"
	"dm-lab/errors"
	"dm-lab/mocks"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestUserService(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := mocks.NewMockIUserRepository(ctrl)
	svc := NewUserService(mockRepo)
	ctx := context.Background()

	t.Run("should resolve a known user", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUser(ctx, "bob").
			Return(domain.User{ID: "bob", Name: "Bob", AvatarRef: "bob.png"}, nil).Times(1)

		ref, err := svc.Resolve(ctx, "bob")

		req.NoError(err)
		req.Equal(domain.UserRef{ID: "bob", Name: "Bob", AvatarRef: "bob.png"}, ref)
	})

	t.Run("should report unknown users as identity errors", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().GetUser(ctx, "ghost").Return(domain.User{}, errors.ErrUnknownUser).Times(1)

		_, err := svc.DisplayInfo(ctx, "ghost")

		req.True(errors.IsIdentity(err))
	})

	t.Run("should trim the profile before saving", func(t *testing.T) {
		req := require.New(t)
		expected := domain.User{ID: "alice", Name: "Alice", AvatarRef: "a.png"}
		mockRepo.EXPECT().SaveUser(ctx, expected).Return(expected, nil).Times(1)

		user, err := svc.UpdateProfile(ctx, "alice", "  Alice ", " a.png ")

		req.NoError(err)
		req.Equal(expected, user)
	})

	t.Run("should refuse an empty name", func(t *testing.T) {
		req := require.New(t)
		mockRepo.EXPECT().SaveUser(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.UpdateProfile(ctx, "alice", "   ", "")

		req.ErrorIs(err, errors.ErrInvalidRequest)
	})
}
