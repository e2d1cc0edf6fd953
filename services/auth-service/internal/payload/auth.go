package payload

import "github.com/vasapolrittideah/account-api/services/auth-service/internal/model"

type SignUpRequest struct {
	FirstName  string `json:"firstName"  validate:"required"`
	LastName   string `json:"lastName"   validate:"required"`
	Email      string `json:"email"      validate:"required,email"`
	Mobile     string `json:"mobile"     validate:"required"`
	NIC        string `json:"nic"        validate:"required"`
	Sponsor    string `json:"sponsor"`
	Username   string `json:"username"   validate:"required,min=6,max=20"`
	Password   string `json:"password"   validate:"required,min=8"`
	ProfilePic string `json:"profilePic" validate:"omitempty"`
}

type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type VerifyEmailRequest struct {
	OTP string `json:"otp" validate:"required,len=6"`
}

type ChangePasswordRequest struct {
	Password    string `json:"password"    validate:"required,min=8"`
	OldPassword string `json:"oldPassword" validate:"required"`
}

type ForgotPasswordRequest struct {
	Username string `json:"username" validate:"required"`
}

type ResetPasswordRequest struct {
	Secret   string `json:"secret"   validate:"required"`
	Password string `json:"password" validate:"required,min=8"`
}

type CheckUsernameRequest struct {
	Username string `json:"username" validate:"required"`
}

type CheckUsernameResponse struct {
	Available bool `json:"available"`
}
