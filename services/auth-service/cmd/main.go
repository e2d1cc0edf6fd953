package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"

	"github.com/vasapolrittideah/account-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/handler"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/middleware"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/token"
	"github.com/vasapolrittideah/account-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/account-api/shared/auth"
	"github.com/vasapolrittideah/account-api/shared/database"
	"github.com/vasapolrittideah/account-api/shared/discovery"
	"github.com/vasapolrittideah/account-api/shared/logger"
	"github.com/vasapolrittideah/account-api/shared/mailer"
	"github.com/vasapolrittideah/account-api/shared/otp"
	"github.com/vasapolrittideah/account-api/shared/utilities"
	"github.com/vasapolrittideah/account-api/shared/validator"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment, cfg.ServiceName)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("auth service stopped with error")
	}
}

func run(ctx context.Context, cfg *config.AuthServiceConfig, log *zerolog.Logger) error {
	mongoClient, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		return err
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := mongoClient.Disconnect(disconnectCtx); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from mongo")
		}
	}()

	db := mongoClient.Database(cfg.Mongo.Database)
	userRepo := repository.NewUserMongoRepository(ctx, log, db)
	secretRepo := repository.NewSecretMongoRepository(ctx, log, db)

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)
	codec := token.NewCodec(jwtAuth, cfg.Token.Secret)
	mail := mailer.NewMailer(log, cfg.SMTP)

	verificationUsecase := usecase.NewEmailVerificationUsecase(
		userRepo, secretRepo, otp.NewGenerator(cfg.OTP.Step()), mail, cfg, log,
	)
	authUsecase := usecase.NewAuthUsecase(userRepo, codec, verificationUsecase, log)
	passwordResetUsecase := usecase.NewPasswordResetUsecase(userRepo, secretRepo, mail, cfg, log)

	gate := middleware.NewGate(codec, middleware.GateConfig{
		RoleBasedAuth:        cfg.Security.RoleBasedAuth,
		AltCredentialsInBody: cfg.Security.AltAuthCredentialsInBody,
	}, log)
	if cfg.Security.AltAuthCredentialsInBody {
		log.Warn().Msg("credentials in request body are accepted without signature checks")
	}

	authHandler := handler.NewAuthHTTPHandler(authUsecase, verificationUsecase, passwordResetUsecase, validator.New(), log)
	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           handler.NewRouter(log, authHandler, gate, database.Healthcheck(mongoClient)),
		ReadHeaderTimeout: 10 * time.Second,
	}

	grpcServer := grpc.NewServer()
	healthServer := utilities.RegisterHealthServer(grpcServer, cfg.ServiceName)

	grpcListener, err := net.Listen("tcp", fmt.Sprintf(":%d", cfg.GRPCHealthPort))
	if err != nil {
		return fmt.Errorf("failed to listen on grpc health port: %w", err)
	}

	errCh := make(chan error, 2)

	go func() {
		log.Info().Int("port", cfg.GRPCHealthPort).Msg("grpc health server listening")
		if err := grpcServer.Serve(grpcListener); err != nil {
			errCh <- fmt.Errorf("grpc health server: %w", err)
		}
	}()

	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("http server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	var registrar *discovery.Registrar
	var serviceID string
	if cfg.Consul.Address != "" {
		registrar, serviceID, err = register(cfg)
		if err != nil {
			log.Error().Err(err).Msg("failed to register with consul")
		} else {
			log.Info().Str("service_id", serviceID).Msg("registered with consul")
		}
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case runErr = <-errCh:
	}

	if registrar != nil && serviceID != "" {
		if err := registrar.Deregister(serviceID); err != nil {
			log.Error().Err(err).Msg("failed to deregister from consul")
		}
	}

	healthServer.Shutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("failed to shut down http server")
	}
	grpcServer.GracefulStop()

	return runErr
}

func register(cfg *config.AuthServiceConfig) (*discovery.Registrar, string, error) {
	registrar, err := discovery.NewRegistrar(cfg.Consul.Address)
	if err != nil {
		return nil, "", err
	}

	serviceID, err := registrar.Register(discovery.Registration{
		ServiceName:    cfg.ServiceName,
		Address:        cfg.HTTP.Host,
		Port:           cfg.HTTP.Port,
		GRPCHealthPort: cfg.GRPCHealthPort,
		Tags:           []string{"http", "auth"},
	})
	if err != nil {
		return nil, "", err
	}

	return registrar, serviceID, nil
}
