package usecase

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/security"
)

// AuthUsecase defines the interface for authentication-related use cases.
type AuthUsecase interface {
	SignUp(ctx context.Context, params SignUpParams) (*AuthResult, error)
	SignIn(ctx context.Context, params SignInParams) (*AuthResult, error)
	Me(ctx context.Context, userID string) (*model.User, error)
	ChangePassword(ctx context.Context, userID string, params ChangePasswordParams) error
	CheckUsername(ctx context.Context, username string) (bool, error)
}

// TokenIssuer issues credentials for a user.
type TokenIssuer interface {
	Issue(userID string, role model.Role) (string, error)
}

// SignUpParams defines the parameters for user registration.
type SignUpParams struct {
	FirstName  string
	LastName   string
	Email      string
	Mobile     string
	NIC        string
	Sponsor    string
	Username   string
	Password   string
	ProfilePic string
}

// SignInParams defines the parameters for user login.
// Username may also hold the email address.
type SignInParams struct {
	Username string
	Password string
}

type ChangePasswordParams struct {
	OldPassword string
	NewPassword string
}

// AuthResult is returned by signup and signin.
type AuthResult struct {
	Token string      `json:"token"`
	User  *model.User `json:"user"`
}

type authUsecase struct {
	userRepo     repository.UserRepository
	tokens       TokenIssuer
	verification EmailVerificationUsecase
	logger       *zerolog.Logger
}

func NewAuthUsecase(
	userRepo repository.UserRepository,
	tokens TokenIssuer,
	verification EmailVerificationUsecase,
	logger *zerolog.Logger,
) AuthUsecase {
	return &authUsecase{
		userRepo:     userRepo,
		tokens:       tokens,
		verification: verification,
		logger:       logger,
	}
}

func (u *authUsecase) SignUp(ctx context.Context, params SignUpParams) (*AuthResult, error) {
	if err := u.ensureCredentialsAvailable(ctx, params); err != nil {
		return nil, err
	}

	user := &model.User{
		FirstName:  params.FirstName,
		LastName:   params.LastName,
		Email:      params.Email,
		Mobile:     params.Mobile,
		NIC:        params.NIC,
		Username:   params.Username,
		ProfilePic: params.ProfilePic,
		Role:       model.RoleUser,
	}

	if params.Sponsor != "" {
		sponsorID, err := repository.ParseID(params.Sponsor)
		if err != nil {
			return nil, err
		}

		sponsor, err := u.userRepo.GetUser(ctx, params.Sponsor)
		if err != nil {
			return nil, err
		}
		if sponsor == nil {
			return nil, ErrSponsorNotFound
		}

		user.Sponsor = &sponsorID
	}

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.PasswordHash = passwordHash

	user, err = u.userRepo.CreateUser(ctx, user)
	if err != nil {
		return nil, err
	}

	if err := u.verification.Send(ctx, user); err != nil {
		u.logger.Error().Err(err).Str("user_id", user.ID.Hex()).Msg("failed to send verification email")
	}

	return u.issue(user)
}

// ensureCredentialsAvailable checks email, username, mobile and nic in that order.
func (u *authUsecase) ensureCredentialsAvailable(ctx context.Context, params SignUpParams) error {
	checks := []struct {
		lookup func(context.Context, string) (*model.User, error)
		value  string
		taken  error
	}{
		{u.userRepo.GetUserByEmail, params.Email, ErrEmailTaken},
		{u.userRepo.GetUserByUsername, params.Username, ErrUsernameTaken},
		{u.userRepo.GetUserByMobile, params.Mobile, ErrMobileTaken},
		{u.userRepo.GetUserByNIC, params.NIC, ErrNICTaken},
	}

	for _, check := range checks {
		existing, err := check.lookup(ctx, check.value)
		if err != nil {
			return err
		}
		if existing != nil {
			return check.taken
		}
	}

	return nil
}

func (u *authUsecase) SignIn(ctx context.Context, params SignInParams) (*AuthResult, error) {
	user, err := u.userRepo.GetUserByUsernameOrEmail(ctx, params.Username)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if ok, err := security.VerifyPassword(params.Password, user.PasswordHash); err != nil {
		return nil, err
	} else if !ok {
		return nil, ErrInvalidCredentials
	}

	return u.issue(user)
}

func (u *authUsecase) Me(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	return user, nil
}

func (u *authUsecase) ChangePassword(ctx context.Context, userID string, params ChangePasswordParams) error {
	user, err := u.Me(ctx, userID)
	if err != nil {
		return err
	}

	if ok, err := security.VerifyPassword(params.OldPassword, user.PasswordHash); err != nil {
		return err
	} else if !ok {
		return ErrIncorrectPassword
	}

	passwordHash, err := security.HashPassword(params.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	_, err = u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	})
	return err
}

func (u *authUsecase) CheckUsername(ctx context.Context, username string) (bool, error) {
	user, err := u.userRepo.GetUserByUsername(ctx, username)
	if err != nil {
		return false, err
	}

	return user == nil, nil
}

func (u *authUsecase) issue(user *model.User) (*AuthResult, error) {
	token, err := u.tokens.Issue(user.ID.Hex(), user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	return &AuthResult{Token: token, User: user}, nil
}
