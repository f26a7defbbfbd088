// Command seed loads the built-in question pools and optionally promotes admins.
//
//	go run ./cmd/seed -replace -admin alice -admin bob
package main

import (
	"context"
	"flag"
	"strings"

	"numberhunt/config"
	"numberhunt/models"
	"numberhunt/services"

	"github.com/rs/zerolog/log"
)

type adminList []string

func (a *adminList) String() string     { return strings.Join(*a, ",") }
func (a *adminList) Set(v string) error { *a = append(*a, v); return nil }

func main() {
	var admins adminList
	replace := flag.Bool("replace", false, "delete existing questions and decoys before seeding")
	skipContent := flag.Bool("skip-content", false, "only promote admins")
	recompute := flag.Bool("recompute", false, "rebuild the leaderboard from the outcome ledger")
	flag.Var(&admins, "admin", "username to promote to admin (repeatable)")
	flag.Parse()

	cfg := config.Load()
	config.InitLogger(cfg.LogLevel, cfg.LogFormat)

	db, err := config.InitDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := db.AutoMigrate(models.All()...); err != nil {
		log.Fatal().Err(err).Msg("failed to migrate database")
	}

	ctx := context.Background()

	if !*skipContent {
		questions, decoys, err := services.SeedContent(ctx, db, *replace)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to seed content")
		}
		log.Info().Int("questions", questions).Int("decoys", decoys).Bool("replace", *replace).Msg("content seeded")
	}

	for _, username := range admins {
		if err := services.PromoteAdmin(ctx, db, username); err != nil {
			log.Error().Err(err).Str("username", username).Msg("failed to promote admin")
			continue
		}
		log.Info().Str("username", username).Msg("admin promoted")
	}

	if *recompute {
		board := services.NewLeaderboardService(db, nil, 0, cfg.Location())
		if err := board.Recompute(ctx); err != nil {
			log.Fatal().Err(err).Msg("failed to recompute leaderboard")
		}
	}
}
