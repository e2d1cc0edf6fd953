package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/middleware"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/account-api/shared/apperror"
	"github.com/vasapolrittideah/account-api/shared/response"
	"github.com/vasapolrittideah/account-api/shared/validator"
)

const maxBodySize = 1 << 20

// AuthHTTPHandler serves the /auth endpoints.
type AuthHTTPHandler struct {
	authUsecase          usecase.AuthUsecase
	verificationUsecase  usecase.EmailVerificationUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	validator            *validator.Validator
	logger               *zerolog.Logger
}

func NewAuthHTTPHandler(
	authUsecase usecase.AuthUsecase,
	verificationUsecase usecase.EmailVerificationUsecase,
	passwordResetUsecase usecase.PasswordResetUsecase,
	validator *validator.Validator,
	logger *zerolog.Logger,
) *AuthHTTPHandler {
	return &AuthHTTPHandler{
		authUsecase:          authUsecase,
		verificationUsecase:  verificationUsecase,
		passwordResetUsecase: passwordResetUsecase,
		validator:            validator,
		logger:               logger,
	}
}

// RegisterRoutes mounts the handlers on r. Routes that need a caller go
// through gate.
func (h *AuthHTTPHandler) RegisterRoutes(r chi.Router, gate *middleware.Gate) {
	r.Route("/auth", func(r chi.Router) {
		r.Post("/signup", h.SignUp)
		r.Post("/signin", h.SignIn)
		r.Post("/forgot-password", h.ForgotPassword)
		r.Post("/reset-password", h.ResetPassword)
		r.Post("/check-username", h.CheckUsername)

		r.Group(func(r chi.Router) {
			r.Use(gate.Authenticate())

			r.Get("/me", h.Me)
			r.Post("/resend-verification-email", h.ResendVerificationEmail)
			r.Post("/verify-email", h.VerifyEmail)
			r.Post("/change-password", h.ChangePassword)
		})
	})
}

func (h *AuthHTTPHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req payload.SignUpRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	result, err := h.authUsecase.SignUp(r.Context(), usecase.SignUpParams{
		FirstName:  req.FirstName,
		LastName:   req.LastName,
		Email:      req.Email,
		Mobile:     req.Mobile,
		NIC:        req.NIC,
		Sponsor:    req.Sponsor,
		Username:   req.Username,
		Password:   req.Password,
		ProfilePic: req.ProfilePic,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusCreated, "User created successfully", payload.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

func (h *AuthHTTPHandler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req payload.SignInRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	result, err := h.authUsecase.SignIn(r.Context(), usecase.SignInParams{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Signed in successfully", payload.AuthResponse{
		Token: result.Token,
		User:  result.User,
	})
}

func (h *AuthHTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, middleware.ErrUnauthorizedAccess)
		return
	}

	user, err := h.authUsecase.Me(r.Context(), principal.UserID)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "", user)
}

func (h *AuthHTTPHandler) ResendVerificationEmail(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, middleware.ErrUnauthorizedAccess)
		return
	}

	if err := h.verificationUsecase.Resend(r.Context(), principal.UserID); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Verification email sent", nil)
}

func (h *AuthHTTPHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, middleware.ErrUnauthorizedAccess)
		return
	}

	var req payload.VerifyEmailRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.verificationUsecase.Verify(r.Context(), principal.UserID, req.OTP); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Email verified successfully", nil)
}

func (h *AuthHTTPHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		response.WriteError(w, r, middleware.ErrUnauthorizedAccess)
		return
	}

	var req payload.ChangePasswordRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	err := h.authUsecase.ChangePassword(r.Context(), principal.UserID, usecase.ChangePasswordParams{
		OldPassword: req.OldPassword,
		NewPassword: req.Password,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Password changed successfully", nil)
}

func (h *AuthHTTPHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ForgotPasswordRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.passwordResetUsecase.ForgotPassword(r.Context(), req.Username); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Password reset email sent", nil)
}

func (h *AuthHTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	if err := h.passwordResetUsecase.ResetPassword(r.Context(), req.Secret, req.Password); err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "Password reset successfully", nil)
}

func (h *AuthHTTPHandler) CheckUsername(w http.ResponseWriter, r *http.Request) {
	var req payload.CheckUsernameRequest
	if err := h.bind(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	available, err := h.authUsecase.CheckUsername(r.Context(), req.Username)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	response.Success(w, http.StatusOK, "", payload.CheckUsernameResponse{Available: available})
}

// bind decodes the JSON body into dst and validates it.
func (h *AuthHTTPHandler) bind(r *http.Request, dst any) error {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.Wrap(apperror.KindBadRequest, apperror.CodeBadRequest, "Request body is empty", err)
		}
		return apperror.Wrap(apperror.KindBadRequest, apperror.CodeBadRequest, "Invalid request body", err)
	}

	return h.validator.Struct(dst)
}
