package usecase

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/otp"
)

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[bson.ObjectID]model.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[bson.ObjectID]model.User{}}
}

func (r *fakeUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user.ID = bson.NewObjectID()
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	r.users[user.ID] = *user
	return user, nil
}

func (r *fakeUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	objectID, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}
	return r.find(func(u model.User) bool { return u.ID == objectID }), nil
}

func (r *fakeUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Email == email }), nil
}

func (r *fakeUserRepo) GetUserByUsername(_ context.Context, username string) (*model.User, error) {
	return r.find(func(u model.User) bool { return strings.EqualFold(u.Username, username) }), nil
}

func (r *fakeUserRepo) GetUserByMobile(_ context.Context, mobile string) (*model.User, error) {
	return r.find(func(u model.User) bool { return u.Mobile == mobile }), nil
}

func (r *fakeUserRepo) GetUserByNIC(_ context.Context, nic string) (*model.User, error) {
	return r.find(func(u model.User) bool { return strings.EqualFold(u.NIC, nic) }), nil
}

func (r *fakeUserRepo) GetUserByUsernameOrEmail(_ context.Context, identifier string) (*model.User, error) {
	return r.find(func(u model.User) bool {
		return strings.EqualFold(u.Username, identifier) || u.Email == identifier
	}), nil
}

func (r *fakeUserRepo) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	objectID, err := repository.ParseID(id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[objectID]
	if !ok {
		return nil, nil
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.IsEmailVerified != nil {
		user.IsEmailVerified = *params.IsEmailVerified
	}
	r.users[objectID] = user
	return &user, nil
}

func (r *fakeUserRepo) find(match func(model.User) bool) *model.User {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if match(u) {
			return &u
		}
	}
	return nil
}

func (r *fakeUserRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.users)
}

type fakeSecretRepo struct {
	mu      sync.Mutex
	secrets map[bson.ObjectID]model.Secret
}

func newFakeSecretRepo() *fakeSecretRepo {
	return &fakeSecretRepo{secrets: map[bson.ObjectID]model.Secret{}}
}

func (r *fakeSecretRepo) Put(_ context.Context, userID, value string, purpose model.SecretPurpose, expiresAt int64) error {
	objectID, err := repository.ParseID(userID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.secrets[objectID] = model.Secret{ID: objectID, Secret: value, Purpose: purpose, ExpiresAt: expiresAt}
	return nil
}

func (r *fakeSecretRepo) GetByOwner(_ context.Context, userID string) (*model.Secret, error) {
	objectID, err := repository.ParseID(userID)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.secrets[objectID]; ok {
		return &s, nil
	}
	return nil, nil
}

func (r *fakeSecretRepo) GetByValue(_ context.Context, value string) (*model.Secret, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.secrets {
		if s.Secret == value {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *fakeSecretRepo) Remove(_ context.Context, userID string) error {
	objectID, err := repository.ParseID(userID)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.secrets, objectID)
	return nil
}

type mockMailer struct {
	mock.Mock
}

func (m *mockMailer) SendHTML(to []string, subject, htmlBody string) error {
	args := m.Called(to, subject, htmlBody)
	return args.Error(0)
}

// lastBody returns the html body of the most recent send.
func (m *mockMailer) lastBody() string {
	calls := m.Calls
	if len(calls) == 0 {
		return ""
	}
	return calls[len(calls)-1].Arguments.String(2)
}

type stubIssuer struct{}

func (stubIssuer) Issue(userID string, role model.Role) (string, error) {
	return "token:" + userID + ":" + string(role), nil
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	users        *fakeUserRepo
	secrets      *fakeSecretRepo
	mailer       *mockMailer
	clock        *testClock
	otp          *otp.Generator
	verification *emailVerificationUsecase
	reset        *passwordResetUsecase
	auth         AuthUsecase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	logger := zerolog.Nop()
	cfg := &config.AuthServiceConfig{
		AppName:             "Account",
		AppPasswordResetURL: "https://app.example.com/reset-password",
		Token:               config.TokenConfig{PasswordResetTokenExpiresIn: time.Hour},
		OTP:                 config.OTPConfig{StepSeconds: 300},
	}

	f := &fixture{
		users:   newFakeUserRepo(),
		secrets: newFakeSecretRepo(),
		mailer:  &mockMailer{},
		// Start of a 300s step.
		clock: &testClock{now: time.Unix(300*5_700_000, 0)},
		otp:   otp.NewGenerator(cfg.OTP.Step()),
	}
	f.mailer.On("SendHTML", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()

	f.verification = NewEmailVerificationUsecase(f.users, f.secrets, f.otp, f.mailer, cfg, &logger).(*emailVerificationUsecase)
	f.verification.now = f.clock.Now

	f.reset = NewPasswordResetUsecase(f.users, f.secrets, f.mailer, cfg, &logger).(*passwordResetUsecase)
	f.reset.now = f.clock.Now

	f.auth = NewAuthUsecase(f.users, stubIssuer{}, f.verification, &logger)

	return f
}

func signUpParams() SignUpParams {
	return SignUpParams{
		FirstName: "Alice",
		LastName:  "Smith",
		Email:     "alice@example.com",
		Mobile:    "0771234567",
		NIC:       "199012345678",
		Username:  "alice_smith",
		Password:  "correct horse",
	}
}
