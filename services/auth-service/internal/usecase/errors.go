package usecase

import "github.com/vasapolrittideah/account-api/shared/apperror"

var (
	ErrEmailTaken    = apperror.New(apperror.KindForbidden, apperror.CodeCredentialsTaken, "Email already exists")
	ErrUsernameTaken = apperror.New(apperror.KindForbidden, apperror.CodeCredentialsTaken, "Username already exists")
	ErrMobileTaken   = apperror.New(apperror.KindForbidden, apperror.CodeCredentialsTaken, "Mobile already exists")
	ErrNICTaken      = apperror.New(apperror.KindForbidden, apperror.CodeCredentialsTaken, "NIC already exists")

	ErrSponsorNotFound    = apperror.New(apperror.KindNotFound, apperror.CodeSponsorNotFound, "Sponsor not found")
	ErrUserNotFound       = apperror.New(apperror.KindNotFound, apperror.CodeUserNotFound, "User not found")
	ErrInvalidCredentials = apperror.New(apperror.KindUnauthorized, apperror.CodeInvalidCredentials, "Invalid username or password")
	ErrIncorrectPassword  = apperror.New(apperror.KindForbidden, apperror.CodeIncorrectPassword, "Incorrect password")

	ErrSecretNotFound       = apperror.New(apperror.KindNotFound, apperror.CodeSecretNotFound, "Secret not found")
	ErrInvalidSecret        = apperror.New(apperror.KindForbidden, apperror.CodeInvalidSecret, "Invalid secret")
	ErrSecretExpired        = apperror.New(apperror.KindForbidden, apperror.CodeSecretExpired, "Secret expired")
	ErrInvalidOTP           = apperror.New(apperror.KindForbidden, apperror.CodeInvalidOTP, "Invalid OTP")
	ErrEmailAlreadyVerified = apperror.New(apperror.KindBadRequest, apperror.CodeEmailAlreadyVerified, "Email already verified")
)
