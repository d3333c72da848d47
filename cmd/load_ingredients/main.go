package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/database"
	"github.com/pageza/foodgram/backend/internal/logging"
	"github.com/pageza/foodgram/backend/internal/service"
	"github.com/pageza/foodgram/backend/internal/types"
)

func main() {
	file := flag.String("file", "data/ingredients.json", "JSON array of {name, measurement_unit} objects")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load configuration")
	}
	logging.Init(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	raw, err := os.ReadFile(*file)
	if err != nil {
		logging.Fatal().Err(err).Str("file", *file).Msg("failed to read ingredients file")
	}
	var items []types.Ingredient
	if err := json.Unmarshal(raw, &items); err != nil {
		logging.Fatal().Err(err).Str("file", *file).Msg("failed to parse ingredients file")
	}

	db, err := database.New(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.RunMigrations(db, ""); err != nil {
		logging.Fatal().Err(err).Msg("failed to run migrations")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	created, err := service.NewIngredientService(db).LoadIngredients(ctx, items)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load ingredients")
	}
	logging.Info().Int("read", len(items)).Int("created", created).Msg("ingredients loaded")
}
