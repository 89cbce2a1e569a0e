package service

import (
	"context"
	"testing"

	"cookboard/auth-service/internal/app/auth/entity"
	"cookboard/auth-service/internal/app/auth/repository"
	"cookboard/auth-service/internal/app/auth/repository/mocks"
	"cookboard/auth-service/internal/app/auth/util"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestUserService() (*UserService, *mocks.MockUserRepository, *mocks.MockTokenRepository) {
	userRepo := new(mocks.MockUserRepository)
	tokenRepo := new(mocks.MockTokenRepository)
	return NewUserService(userRepo, tokenRepo), userRepo, tokenRepo
}

func TestUserService_GetByID_NotFound(t *testing.T) {
	svc, userRepo, _ := newTestUserService()
	id := uuid.New()

	userRepo.On("GetByID", mock.Anything, id).Return(nil, repository.ErrNotFound)

	user, err := svc.GetByID(context.Background(), id)

	assert.Nil(t, user)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUpdateProfile_ChangesEmail(t *testing.T) {
	svc, userRepo, _ := newTestUserService()
	user := newStoredUser("securepassword123")

	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return u.Email == "new@example.com"
	})).Return(nil)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, &entity.UpdateProfileRequest{
		Email: "new@example.com",
	})

	require.NoError(t, err)
	assert.Equal(t, "new@example.com", updated.Email)
	userRepo.AssertExpectations(t)
}

func TestUpdateProfile_EmailTaken(t *testing.T) {
	svc, userRepo, _ := newTestUserService()
	user := newStoredUser("securepassword123")

	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.Anything).Return(repository.ErrDuplicate)

	updated, err := svc.UpdateProfile(context.Background(), user.ID, &entity.UpdateProfileRequest{
		Email: "taken@example.com",
	})

	assert.Nil(t, updated)
	assert.ErrorIs(t, err, ErrUserExists)
}

func TestChangePassword_Success(t *testing.T) {
	svc, userRepo, tokenRepo := newTestUserService()
	user := newStoredUser("oldpassword123")

	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)
	userRepo.On("Update", mock.Anything, mock.MatchedBy(func(u *entity.User) bool {
		return util.CheckPassword("newpassword123", u.PasswordHash)
	})).Return(nil)
	tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, user.ID).Return(nil)

	err := svc.ChangePassword(context.Background(), user.ID, &entity.UpdatePasswordRequest{
		OldPassword: "oldpassword123",
		NewPassword: "newpassword123",
	})

	require.NoError(t, err)
	// Смена пароля отзывает все сессии пользователя
	tokenRepo.AssertCalled(t, "DeleteUserRefreshTokens", mock.Anything, user.ID)
}

func TestChangePassword_WrongOldPassword(t *testing.T) {
	svc, userRepo, tokenRepo := newTestUserService()
	user := newStoredUser("oldpassword123")

	userRepo.On("GetByID", mock.Anything, user.ID).Return(user, nil)

	err := svc.ChangePassword(context.Background(), user.ID, &entity.UpdatePasswordRequest{
		OldPassword: "wrongpassword",
		NewPassword: "newpassword123",
	})

	assert.ErrorIs(t, err, ErrInvalidCredentials)
	userRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	tokenRepo.AssertNotCalled(t, "DeleteUserRefreshTokens", mock.Anything, mock.Anything)
}

func TestDeleteUser_RevokesTokens(t *testing.T) {
	svc, userRepo, tokenRepo := newTestUserService()
	id := uuid.New()

	userRepo.On("Delete", mock.Anything, id).Return(nil)
	tokenRepo.On("DeleteUserRefreshTokens", mock.Anything, id).Return(nil)

	err := svc.Delete(context.Background(), id)

	require.NoError(t, err)
	tokenRepo.AssertExpectations(t)
}

func TestDeleteUser_NotFound(t *testing.T) {
	svc, userRepo, tokenRepo := newTestUserService()
	id := uuid.New()

	userRepo.On("Delete", mock.Anything, id).Return(repository.ErrNotFound)

	err := svc.Delete(context.Background(), id)

	assert.ErrorIs(t, err, ErrUserNotFound)
	tokenRepo.AssertNotCalled(t, "DeleteUserRefreshTokens", mock.Anything, mock.Anything)
}
