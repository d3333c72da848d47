package main

import (
	"context"
	"errors"
	"flag"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

// Demo accounts for local development
var testUsers = []types.SignUpRequest{
	{Email: "john.doe@example.com", Username: "johndoe", FirstName: "John", LastName: "Doe"},
	{Email: "jane.smith@example.com", Username: "janesmith", FirstName: "Jane", LastName: "Smith"},
	{Email: "chef.mike@example.com", Username: "chefmike", FirstName: "Mike", LastName: "Johnson"},
}

func main() {
	password := flag.String("password", "testpassword123", "Password given to every seeded user")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if config.IsProduction() {
		logging.Fatal().Msg("refusing to seed test users in production")
	}

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, ""); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	users := service.NewUserService(db)
	ctx := context.Background()
	for _, req := range testUsers {
		req.Password = *password
		user, err := users.SignUp(ctx, &req)
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr) && (verr.Field == "username" || verr.Field == "email"):
			logging.Info().Str("username", req.Username).Msg("user already exists, skipping")
		case err != nil:
			logging.Fatal().Err(err).Str("username", req.Username).Msg("failed to create user")
		default:
			logging.Info().Uint("id", user.ID).Str("username", user.Username).Msg("created test user")
		}
	}
}
