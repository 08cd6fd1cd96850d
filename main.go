package main

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/pietrosantos15/termomultiplayer/internal/gateway"
	"github.com/pietrosantos15/termomultiplayer/internal/httpserver"
	"github.com/pietrosantos15/termomultiplayer/internal/room"
	"github.com/pietrosantos15/termomultiplayer/internal/words"
)

func main() {
	_ = godotenv.Load()
	if lvl, err := zerolog.ParseLevel(getEnv("LOG_LEVEL", "info")); err == nil {
		zerolog.SetGlobalLevel(lvl)
	}

	dict, err := words.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load dictionary")
	}
	answers, index := dict.Stats()
	log.Info().Int("answers", answers).Int("words", index).Msg("dictionary loaded")

	cfg := room.DefaultConfig()
	if v := os.Getenv("TERMO_ROUND_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.RoundSeconds = n
		}
	}

	registry := room.NewRegistry(dict, cfg)
	gw := gateway.New(registry)
	srv := httpserver.New(registry, dict, gw)

	port := getEnv("PORT", "3001")
	log.Info().Str("port", port).Msg("starting termo server")
	if err := srv.Start(":" + port); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
