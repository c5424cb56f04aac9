package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/stockroom-backend/internal/users"
	"github.com/angelmondragon/stockroom-backend/pkg/config"
	"github.com/angelmondragon/stockroom-backend/pkg/db"
	pkgerrors "github.com/angelmondragon/stockroom-backend/pkg/errors"
	"github.com/angelmondragon/stockroom-backend/pkg/logger"
	"github.com/angelmondragon/stockroom-backend/pkg/migrate"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "createsuperuser"})
	_ = godotenv.Load()

	email := flag.String("email", "", "superuser email (defaults to STOCKROOM_SUPERUSER_EMAIL)")
	password := flag.String("password", "", "superuser password (defaults to STOCKROOM_SUPERUSER_PASSWORD)")
	name := flag.String("name", "", "display name (defaults to STOCKROOM_SUPERUSER_NAME)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}
	logg = logger.New(logger.Options{
		ServiceName: "createsuperuser",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
	})

	input := users.CreateInput{
		Email:       firstNonEmpty(*email, cfg.Bootstrap.SuperuserEmail),
		Password:    firstNonEmpty(*password, cfg.Bootstrap.SuperuserPassword),
		Name:        firstNonEmpty(*name, cfg.Bootstrap.SuperuserName),
		IsSuperuser: true,
	}
	ctx := logg.WithField(context.Background(), "email", users.NormalizeEmail(input.Email))

	if err := run(ctx, cfg, logg, input); err != nil {
		if errors.Is(err, errAlreadyExists) {
			logg.Info(ctx, "superuser already exists")
			return
		}
		logg.Error(ctx, "failed to create superuser", err)
		os.Exit(1)
	}
	logg.Info(ctx, "superuser created")
}

var errAlreadyExists = errors.New("user already exists")

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, input users.CreateInput) error {
	if input.Email == "" || input.Password == "" {
		return fmt.Errorf("email and password are required")
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return fmt.Errorf("dev migrations: %w", err)
	}

	svc, err := users.NewService(users.NewRepository(dbClient.DB()), cfg.Password)
	if err != nil {
		return err
	}
	if _, err := svc.Create(ctx, input); err != nil {
		if pkgerrors.IsCode(err, pkgerrors.CodeConflict) {
			return errAlreadyExists
		}
		return err
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
