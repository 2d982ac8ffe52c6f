// Package main is the entry point for the simulation harness. It only
// handles dependency injection and the experiment loop.
// NO game rules belong here.
package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/dgurjar/monopoly-ai-simulator/internal/domain/player"
	"github.com/dgurjar/monopoly-ai-simulator/internal/engine"
	"github.com/dgurjar/monopoly-ai-simulator/internal/events"
	"github.com/dgurjar/monopoly-ai-simulator/internal/infra/boarddata"
	"github.com/dgurjar/monopoly-ai-simulator/internal/infra/storage"
	"github.com/dgurjar/monopoly-ai-simulator/internal/network"
	"github.com/dgurjar/monopoly-ai-simulator/internal/platform/config"
	"github.com/dgurjar/monopoly-ai-simulator/internal/platform/logger"
	"github.com/dgurjar/monopoly-ai-simulator/internal/platform/stats"
	"github.com/dgurjar/monopoly-ai-simulator/internal/policy/greedy"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	appLogger, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The shared recorder feeds both the sqlite persister and the
	// spectator hub. Games run without one when nobody is observing.
	var recorder *events.Log
	var resultRepo *storage.ResultRepository

	if cfg.DatabasePath != "" {
		appLogger.Info("initializing sqlite database", zap.String("path", cfg.DatabasePath))
		db, err := storage.InitSQLite(cfg.DatabasePath)
		if err != nil {
			appLogger.Error("failed to initialize sqlite", zap.Error(err))
			os.Exit(1)
		}
		defer db.Close()
		recorder = events.NewLog(storage.NewEventRepository(db))
		resultRepo = storage.NewResultRepository(db)
	}

	collector := stats.NewCollector()

	if cfg.SpectatorAddr != "" {
		if recorder == nil {
			recorder = events.NewLog(nil)
		}
		hub := network.NewHub(appLogger)
		go hub.Run(ctx)
		hub.StartEventPoller(ctx, recorder)

		mux := http.NewServeMux()
		mux.HandleFunc("/ws", hub.ServeWS)
		mux.HandleFunc("/stats", collector.Handler())
		go func() {
			appLogger.Info("spectator server listening", zap.String("addr", cfg.SpectatorAddr))
			if err := http.ListenAndServe(cfg.SpectatorAddr, mux); err != nil {
				appLogger.Error("spectator server failed", zap.Error(err))
			}
		}()
	}

	baseSeed := cfg.Seed
	if baseSeed == 0 {
		baseSeed = time.Now().UnixNano()
	}

	rules := engine.DefaultConfig()
	if cfg.TurnCap > 0 {
		rules.TurnCap = cfg.TurnCap
	}

	appLogger.Info("starting experiment",
		zap.Int("games", cfg.Games),
		zap.Int("players", cfg.Players),
		zap.Int("workers", cfg.Workers),
		zap.Int64("seed", baseSeed),
	)
	start := time.Now()

	jobs := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < cfg.Workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				seed := baseSeed + int64(i)
				runOne(rules, cfg.Players, seed, appLogger, recorder, resultRepo, collector)
			}
		}()
	}
	for i := 0; i < cfg.Games; i++ {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	summary := collector.Snapshot()
	appLogger.Info("experiment finished",
		zap.Int("games", summary.Games),
		zap.Int("draws", summary.Draws),
		zap.Any("win_rates", summary.WinRates),
		zap.Float64("average_turns", summary.AverageTurns),
		zap.Duration("elapsed", time.Since(start)),
	)
}

// runOne plays a single game on a fresh board with its own seeded
// random source, so games are independent and individually
// reproducible.
func runOne(rules engine.Config, players int, seed int64, appLogger *logger.Logger, recorder *events.Log, resultRepo *storage.ResultRepository, collector *stats.Collector) {
	layout, err := boarddata.NewLayout()
	if err != nil {
		appLogger.Error("board data", zap.Error(err))
		return
	}
	chance, fortune, err := boarddata.NewDecks()
	if err != nil {
		appLogger.Error("deck data", zap.Error(err))
		return
	}

	seats := make([]engine.Seat, 0, players)
	for n := 1; n <= players; n++ {
		id := fmt.Sprintf("P%d", n)
		seats = append(seats, engine.Seat{
			Player: player.New(id, id),
			Policy: greedy.New(),
		})
	}

	rng := rand.New(rand.NewSource(seed))
	game := engine.NewGame(rules, layout, chance, fortune, seats, rng, appLogger, recorder)

	winner, err := game.Run()
	if err != nil {
		appLogger.Error("game aborted", zap.String("game_id", game.ID), zap.Error(err))
		return
	}

	winnerID := ""
	if winner != nil {
		winnerID = winner.ID
	}
	collector.RecordResult(winnerID, game.Turn())

	if resultRepo != nil {
		result := storage.GameResult{
			GameID:     game.ID,
			WinnerID:   winnerID,
			Turns:      game.Turn(),
			Draw:       winner == nil,
			Seed:       seed,
			FinishedAt: time.Now(),
		}
		if err := resultRepo.Insert(result); err != nil {
			appLogger.Warn("failed to persist result", zap.String("game_id", game.ID), zap.Error(err))
		}
	}
}
