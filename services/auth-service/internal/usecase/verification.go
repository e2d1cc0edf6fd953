package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/templates"
	"github.com/vasapolrittideah/account-api/shared/mailer"
	"github.com/vasapolrittideah/account-api/shared/otp"
)

// EmailVerificationUsecase issues and checks email verification codes.
type EmailVerificationUsecase interface {
	// Send replaces the user's secret with a fresh verification seed and mails
	// the current code. Mail delivery failures are logged, not returned.
	Send(ctx context.Context, user *model.User) error

	// Resend sends a new code to a user whose email is not verified yet.
	Resend(ctx context.Context, userID string) error

	// Verify checks code against the user's outstanding verification secret
	// and marks the email verified on success.
	Verify(ctx context.Context, userID, code string) error
}

type emailVerificationUsecase struct {
	userRepo       repository.UserRepository
	secretRepo     repository.SecretRepository
	otp            *otp.Generator
	mailer         mailer.Sender
	authServiceCfg *config.AuthServiceConfig
	logger         *zerolog.Logger
	now            func() time.Time
}

func NewEmailVerificationUsecase(
	userRepo repository.UserRepository,
	secretRepo repository.SecretRepository,
	otpGenerator *otp.Generator,
	mailer mailer.Sender,
	authServiceCfg *config.AuthServiceConfig,
	logger *zerolog.Logger,
) EmailVerificationUsecase {
	return &emailVerificationUsecase{
		userRepo:       userRepo,
		secretRepo:     secretRepo,
		otp:            otpGenerator,
		mailer:         mailer,
		authServiceCfg: authServiceCfg,
		logger:         logger,
		now:            time.Now,
	}
}

func (u *emailVerificationUsecase) Send(ctx context.Context, user *model.User) error {
	seed, err := otp.NewSecret()
	if err != nil {
		return err
	}

	now := u.now()
	expiresAt := now.Add(u.otp.Period()).UnixMilli()
	if err := u.secretRepo.Put(ctx, user.ID.Hex(), seed, model.SecretPurposeEmailVerification, expiresAt); err != nil {
		return err
	}

	code, err := u.otp.Generate(seed, now)
	if err != nil {
		return fmt.Errorf("failed to generate otp: %w", err)
	}

	body, err := templates.RenderVerification(templates.VerificationData{
		AppName:   u.authServiceCfg.AppName,
		LogoURL:   u.authServiceCfg.AppLogoURL,
		Name:      user.FirstName,
		Code:      code,
		ExpiresIn: u.otp.Period().String(),
	})
	if err != nil {
		return fmt.Errorf("failed to render verification email: %w", err)
	}

	if err := u.mailer.SendHTML([]string{user.Email}, "Verify your email address", body); err != nil {
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to deliver verification email")
	}

	return nil
}

func (u *emailVerificationUsecase) Resend(ctx context.Context, userID string) error {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	if user.IsEmailVerified {
		return ErrEmailAlreadyVerified
	}

	return u.Send(ctx, user)
}

func (u *emailVerificationUsecase) Verify(ctx context.Context, userID, code string) error {
	secret, err := u.secretRepo.GetByOwner(ctx, userID)
	if err != nil {
		return err
	}
	if secret == nil {
		return ErrSecretNotFound
	}

	if secret.Purpose != model.SecretPurposeEmailVerification {
		return ErrInvalidSecret
	}

	now := u.now()
	if secret.Expired(now) {
		return ErrSecretExpired
	}

	if !u.otp.Verify(code, secret.Secret, now) {
		return ErrInvalidOTP
	}

	verified := true
	user, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		IsEmailVerified: &verified,
	})
	if err != nil {
		return err
	}
	if user == nil {
		return ErrUserNotFound
	}

	return u.secretRepo.Remove(ctx, userID)
}
