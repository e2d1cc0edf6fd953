package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/templates"
	"github.com/vasapolrittideah/account-api/shared/mailer"
	"github.com/vasapolrittideah/account-api/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset operations.
type PasswordResetUsecase interface {
	// ForgotPassword issues a reset token for the user identified by username
	// or email and mails a reset link.
	ForgotPassword(ctx context.Context, username string) error

	// ResetPassword sets a new password for the owner of secret.
	ResetPassword(ctx context.Context, secret, newPassword string) error
}

type passwordResetUsecase struct {
	userRepo       repository.UserRepository
	secretRepo     repository.SecretRepository
	mailer         mailer.Sender
	authServiceCfg *config.AuthServiceConfig
	logger         *zerolog.Logger
	now            func() time.Time
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(
	userRepo repository.UserRepository,
	secretRepo repository.SecretRepository,
	mailer mailer.Sender,
	authServiceCfg *config.AuthServiceConfig,
	logger *zerolog.Logger,
) PasswordResetUsecase {
	return &passwordResetUsecase{
		userRepo:       userRepo,
		secretRepo:     secretRepo,
		mailer:         mailer,
		authServiceCfg: authServiceCfg,
		logger:         logger,
		now:            time.Now,
	}
}

func (u *passwordResetUsecase) ForgotPassword(ctx context.Context, username string) error {
	user, err := u.userRepo.GetUserByUsernameOrEmail(ctx, username)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	resetToken, err := generateResetToken()
	if err != nil {
		return err
	}

	ttl := u.authServiceCfg.Token.PasswordResetTokenExpiresIn
	expiresAt := u.now().Add(ttl).UnixMilli()
	if err := u.secretRepo.Put(ctx, user.ID.Hex(), resetToken, model.SecretPurposePasswordReset, expiresAt); err != nil {
		return err
	}

	link, err := resetLink(u.authServiceCfg.AppPasswordResetURL, resetToken)
	if err != nil {
		return err
	}

	body, err := templates.RenderPasswordReset(templates.PasswordResetData{
		AppName:   u.authServiceCfg.AppName,
		LogoURL:   u.authServiceCfg.AppLogoURL,
		Name:      user.FirstName,
		Link:      link,
		ExpiresIn: ttl.String(),
	})
	if err != nil {
		return fmt.Errorf("failed to render password reset email: %w", err)
	}

	if err := u.mailer.SendHTML([]string{user.Email}, "Password Reset Request", body); err != nil {
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to deliver password reset email")
	}

	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, secret, newPassword string) error {
	record, err := u.secretRepo.GetByValue(ctx, secret)
	if err != nil {
		return err
	}
	if record == nil {
		return ErrSecretNotFound
	}

	// Expiry is checked before anything else about the record.
	if record.Expired(u.now()) {
		return ErrSecretExpired
	}

	if record.Purpose != model.SecretPurposePasswordReset {
		return ErrInvalidSecret
	}

	passwordHash, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	ownerID := record.ID.Hex()
	user, err := u.userRepo.UpdateUser(ctx, ownerID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return u.secretRepo.Remove(ctx, ownerID)
}

// generateResetToken returns 20 random bytes, hex encoded.
func generateResetToken() (string, error) {
	bytes := make([]byte, 20)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

func resetLink(base, token string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("invalid password reset url: %w", err)
	}

	query := u.Query()
	query.Set("secret", token)
	u.RawQuery = query.Encode()

	return u.String(), nil
}
