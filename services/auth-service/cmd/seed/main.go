// Command seed creates the initial admin account. Running it again is a no-op
// once the admin username exists.
package main

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/account-api/shared/database"
	"github.com/vasapolrittideah/account-api/shared/logger"
	"github.com/vasapolrittideah/account-api/shared/security"
)

type seedConfig struct {
	Environment string          `env:"APP_ENV" envDefault:"development"`
	Mongo       database.Config `envPrefix:"MONGO_"`
	Admin       adminConfig     `envPrefix:"SEED_ADMIN_"`
}

type adminConfig struct {
	FirstName string `env:"FIRST_NAME" envDefault:"System"`
	LastName  string `env:"LAST_NAME"  envDefault:"Admin"`
	Username  string `env:"USERNAME"   envDefault:"admin"`
	Email     string `env:"EMAIL"      envDefault:"admin@system.com"`
	Mobile    string `env:"MOBILE"     envDefault:"0000000000"`
	NIC       string `env:"NIC"        envDefault:"000000000000"`
	Password  string `env:"PASSWORD,required,notEmpty"`
}

func main() {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[seedConfig]()
	log := logger.New(cfg.Environment, "auth-seed")
	if err != nil {
		log.Fatal().Err(err).Msg("failed to parse seed config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	client, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	userRepo := repository.NewUserMongoRepository(ctx, log, client.Database(cfg.Mongo.Database))

	existing, err := userRepo.GetUserByUsername(ctx, cfg.Admin.Username)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to look up admin")
	}
	if existing != nil {
		log.Info().Str("username", existing.Username).Msg("admin already exists, nothing to do")
		return
	}

	passwordHash, err := security.HashPassword(cfg.Admin.Password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash admin password")
	}

	admin, err := userRepo.CreateUser(ctx, &model.User{
		FirstName:       cfg.Admin.FirstName,
		LastName:        cfg.Admin.LastName,
		Email:           cfg.Admin.Email,
		Mobile:          cfg.Admin.Mobile,
		NIC:             cfg.Admin.NIC,
		Username:        cfg.Admin.Username,
		PasswordHash:    passwordHash,
		IsEmailVerified: true,
		Role:            model.RoleAdmin,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create admin")
	}

	log.Info().Str("id", admin.ID.Hex()).Str("username", admin.Username).Msg("admin created")
}
