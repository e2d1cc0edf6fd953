package handler_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/usecase"
)

type mockAuthUsecase struct {
	mock.Mock
}

func (m *mockAuthUsecase) SignUp(ctx context.Context, params usecase.SignUpParams) (*usecase.AuthResult, error) {
	args := m.Called(ctx, params)
	result, _ := args.Get(0).(*usecase.AuthResult)
	return result, args.Error(1)
}

func (m *mockAuthUsecase) SignIn(ctx context.Context, params usecase.SignInParams) (*usecase.AuthResult, error) {
	args := m.Called(ctx, params)
	result, _ := args.Get(0).(*usecase.AuthResult)
	return result, args.Error(1)
}

func (m *mockAuthUsecase) Me(ctx context.Context, userID string) (*model.User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*model.User)
	return user, args.Error(1)
}

func (m *mockAuthUsecase) ChangePassword(ctx context.Context, userID string, params usecase.ChangePasswordParams) error {
	return m.Called(ctx, userID, params).Error(0)
}

func (m *mockAuthUsecase) CheckUsername(ctx context.Context, username string) (bool, error) {
	args := m.Called(ctx, username)
	return args.Bool(0), args.Error(1)
}

type mockVerificationUsecase struct {
	mock.Mock
}

func (m *mockVerificationUsecase) Send(ctx context.Context, user *model.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *mockVerificationUsecase) Resend(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func (m *mockVerificationUsecase) Verify(ctx context.Context, userID, code string) error {
	return m.Called(ctx, userID, code).Error(0)
}

type mockPasswordResetUsecase struct {
	mock.Mock
}

func (m *mockPasswordResetUsecase) ForgotPassword(ctx context.Context, username string) error {
	return m.Called(ctx, username).Error(0)
}

func (m *mockPasswordResetUsecase) ResetPassword(ctx context.Context, secret, newPassword string) error {
	return m.Called(ctx, secret, newPassword).Error(0)
}
