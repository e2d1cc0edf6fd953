package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/middleware"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/token"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/account-api/shared/apperror"
	"github.com/vasapolrittideah/account-api/shared/validator"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Code    string          `json:"code"`
	Data    json.RawMessage `json:"data"`
	Errors  json.RawMessage `json:"errors"`
}

type verifierFunc func(string) (*token.Claims, error)

func (f verifierFunc) Verify(s string) (*token.Claims, error) { return f(s) }

type testServer struct {
	auth         *mockAuthUsecase
	verification *mockVerificationUsecase
	reset        *mockPasswordResetUsecase
	handler      http.Handler
	healthErr    error
}

const callerID = "64b7f0c2a1b2c3d4e5f60718"

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	s := &testServer{
		auth:         &mockAuthUsecase{},
		verification: &mockVerificationUsecase{},
		reset:        &mockPasswordResetUsecase{},
	}

	logger := zerolog.Nop()
	verifier := verifierFunc(func(tok string) (*token.Claims, error) {
		if tok != "valid" {
			return nil, token.ErrTokenInvalid
		}
		return &token.Claims{UserID: callerID, Role: model.RoleUser}, nil
	})
	gate := middleware.NewGate(verifier, middleware.GateConfig{RoleBasedAuth: true}, &logger)

	authHandler := handler.NewAuthHTTPHandler(s.auth, s.verification, s.reset, validator.New(), &logger)
	s.handler = handler.NewRouter(&logger, authHandler, gate, func(context.Context) error { return s.healthErr })

	t.Cleanup(func() {
		s.auth.AssertExpectations(t)
		s.verification.AssertExpectations(t)
		s.reset.AssertExpectations(t)
	})

	return s
}

func (s *testServer) do(t *testing.T, method, path, body string, authed bool) (int, envelope) {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer valid")
	}

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env), rec.Body.String())
	return rec.Code, env
}

const signUpBody = `{
	"firstName": "Alice",
	"lastName": "Smith",
	"email": "alice@example.com",
	"mobile": "0771234567",
	"nic": "199012345678",
	"username": "alice_smith",
	"password": "correct horse"
}`

func TestSignUp_Created(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	user := &model.User{ID: bson.NewObjectID(), Username: "alice_smith", PasswordHash: "hash", Role: model.RoleUser}
	s.auth.On("SignUp", mock.Anything, mock.MatchedBy(func(p usecase.SignUpParams) bool {
		return p.Username == "alice_smith" && p.Password == "correct horse" && p.Sponsor == ""
	})).Return(&usecase.AuthResult{Token: "tok", User: user}, nil)

	status, env := s.do(t, http.MethodPost, "/auth/signup", signUpBody, false)

	assert.Equal(t, http.StatusCreated, status)
	assert.True(t, env.Success)
	assert.Equal(t, apperror.CodeSuccess, env.Code)
	assert.Contains(t, string(env.Data), `"token":"tok"`)
	assert.NotContains(t, string(env.Data), "hash", "password hash never leaves the service")
}

func TestSignUp_ShortUsernameFailsValidation(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	body := strings.Replace(signUpBody, `"alice_smith"`, `"short"`, 1)

	status, env := s.do(t, http.MethodPost, "/auth/signup", body, false)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.False(t, env.Success)
	assert.Equal(t, apperror.CodeValidationFailed, env.Code)
	assert.True(t, strings.HasPrefix(env.Message, "Validation Error: "))
	assert.Contains(t, string(env.Errors), `"field":"username"`)
	s.auth.AssertNotCalled(t, "SignUp", mock.Anything, mock.Anything)
}

func TestSignUp_CredentialsTaken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.auth.On("SignUp", mock.Anything, mock.Anything).Return(nil, usecase.ErrUsernameTaken)

	status, env := s.do(t, http.MethodPost, "/auth/signup", signUpBody, false)

	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperror.CodeCredentialsTaken, env.Code)
	assert.Equal(t, "Username already exists", env.Message)
}

func TestSignIn_InvalidBody(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	status, env := s.do(t, http.MethodPost, "/auth/signin", `{"username":`, false)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperror.CodeBadRequest, env.Code)

	status, env = s.do(t, http.MethodPost, "/auth/signin", "", false)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperror.CodeBadRequest, env.Code)
}

func TestSignIn_InvalidCredentials(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.auth.On("SignIn", mock.Anything, usecase.SignInParams{Username: "ALICE", Password: "nope"}).
		Return(nil, usecase.ErrInvalidCredentials)

	status, env := s.do(t, http.MethodPost, "/auth/signin", `{"username":"ALICE","password":"nope"}`, false)

	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, apperror.CodeInvalidCredentials, env.Code)
}

func TestMe(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.auth.On("Me", mock.Anything, callerID).Return(&model.User{Username: "alice_smith"}, nil)

	status, env := s.do(t, http.MethodGet, "/auth/me", "", true)

	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), `"username":"alice_smith"`)
}

func TestProtectedRoutes_RequireToken(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/auth/me"},
		{http.MethodPost, "/auth/resend-verification-email"},
		{http.MethodPost, "/auth/verify-email"},
		{http.MethodPost, "/auth/change-password"},
	} {
		status, env := s.do(t, route.method, route.path, "", false)
		assert.Equal(t, http.StatusUnauthorized, status, route.path)
		assert.Equal(t, apperror.CodeUnauthorizedAccess, env.Code, route.path)
	}
}

func TestVerifyEmail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.verification.On("Verify", mock.Anything, callerID, "123456").Return(nil).Once()
	s.verification.On("Verify", mock.Anything, callerID, "654321").Return(usecase.ErrInvalidOTP).Once()

	status, env := s.do(t, http.MethodPost, "/auth/verify-email", `{"otp":"123456"}`, true)
	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)

	status, env = s.do(t, http.MethodPost, "/auth/verify-email", `{"otp":"654321"}`, true)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperror.CodeInvalidOTP, env.Code)

	status, env = s.do(t, http.MethodPost, "/auth/verify-email", `{"otp":"12345"}`, true)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperror.CodeValidationFailed, env.Code)
}

func TestResendVerificationEmail(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.verification.On("Resend", mock.Anything, callerID).Return(usecase.ErrEmailAlreadyVerified)

	status, env := s.do(t, http.MethodPost, "/auth/resend-verification-email", "", true)

	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, apperror.CodeEmailAlreadyVerified, env.Code)
}

func TestChangePassword(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.auth.On("ChangePassword", mock.Anything, callerID, usecase.ChangePasswordParams{
		OldPassword: "old password",
		NewPassword: "new password",
	}).Return(nil)

	status, env := s.do(t, http.MethodPost, "/auth/change-password",
		`{"oldPassword":"old password","password":"new password"}`, true)

	assert.Equal(t, http.StatusOK, status)
	assert.True(t, env.Success)
}

func TestForgotAndResetPassword(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.reset.On("ForgotPassword", mock.Anything, "alice_smith").Return(nil)
	s.reset.On("ResetPassword", mock.Anything, "deadbeef", "brand new password").Return(usecase.ErrSecretExpired)

	status, _ := s.do(t, http.MethodPost, "/auth/forgot-password", `{"username":"alice_smith"}`, false)
	assert.Equal(t, http.StatusOK, status)

	status, env := s.do(t, http.MethodPost, "/auth/reset-password",
		`{"secret":"deadbeef","password":"brand new password"}`, false)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, apperror.CodeSecretExpired, env.Code)
}

func TestCheckUsername(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.auth.On("CheckUsername", mock.Anything, "alice_smith").Return(false, nil)

	status, env := s.do(t, http.MethodPost, "/auth/check-username", `{"username":"alice_smith"}`, false)

	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"available":false}`, string(env.Data))
}

func TestInternalErrorsAreHidden(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	s.auth.On("CheckUsername", mock.Anything, "alice_smith").Return(false, errors.New("connection refused"))

	status, env := s.do(t, http.MethodPost, "/auth/check-username", `{"username":"alice_smith"}`, false)

	assert.Equal(t, http.StatusInternalServerError, status)
	assert.Equal(t, apperror.CodeInternalServerError, env.Code)
	assert.NotContains(t, env.Message, "connection refused")
}

func TestNotFound(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)
	status, env := s.do(t, http.MethodGet, "/nope", "", false)

	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, apperror.CodeRouteNotFound, env.Code)
}

func TestHealth(t *testing.T) {
	t.Parallel()

	s := newTestServer(t)

	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"SERVER UP"}`, rec.Body.String())

	s.healthErr = errors.New("no primary")
	rec = httptest.NewRecorder()
	s.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
