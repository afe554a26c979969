package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tagarena/server/internal/ability"
	"github.com/tagarena/server/internal/config"
	"github.com/tagarena/server/internal/core/clock"
	"github.com/tagarena/server/internal/core/event"
	coresys "github.com/tagarena/server/internal/core/system"
	"github.com/tagarena/server/internal/data"
	"github.com/tagarena/server/internal/game"
	"github.com/tagarena/server/internal/item"
	"github.com/tagarena/server/internal/persist"
	"github.com/tagarena/server/internal/physics"
	"github.com/tagarena/server/internal/scripting"
	"github.com/tagarena/server/internal/sfx"
	"github.com/tagarena/server/internal/system"
	"github.com/tagarena/server/internal/world"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

// ── Startup display helpers ────────────────────────────────────────

func printBanner(serverName string, serverID int) {
	fmt.Println()
	fmt.Println("\033[36;1m  ┌───────────────────────────────────────────┐\033[0m")
	fmt.Println("\033[36;1m  │\033[0m            arenad  v0.1.0                 \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  │\033[0m       arena tag ability server            \033[36;1m│\033[0m")
	fmt.Println("\033[36;1m  └───────────────────────────────────────────┘\033[0m")
	fmt.Println()
	fmt.Printf("  \033[1mserver:\033[0m %s \033[90m(id: %d)\033[0m\n\n", serverName, serverID)
}

func printSection(title string) {
	lineLen := 46 - len(title) - 1
	if lineLen < 3 {
		lineLen = 3
	}
	fmt.Printf("  \033[33m── %s %s\033[0m\n", title, strings.Repeat("─", lineLen))
}

func printStat(label string, count int) {
	numStr := fmt.Sprintf("%d", count)
	dotsLen := 42 - len(label) - len(numStr)
	if dotsLen < 3 {
		dotsLen = 3
	}
	fmt.Printf("  %s \033[90m%s\033[0m \033[32m%s\033[0m\n", label, strings.Repeat("·", dotsLen), numStr)
}

func printOK(msg string) {
	fmt.Printf("  \033[32m✓\033[0m %s\n", msg)
}

func printReady(msg string) {
	fmt.Printf("  \033[32m▶\033[0m %s\n", msg)
}

// ── Main server logic ─────────────────────────────────────────────

func run() error {
	// 1. Load config
	cfgPath := "config/server.toml"
	if p := os.Getenv("ARENAD_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner(cfg.Server.Name, cfg.Server.ID)

	// 3. Connect to PostgreSQL and run migrations (stats only; the server
	// runs without a database when disabled)
	var statsRepo *persist.StatsRepo
	if cfg.Database.StatsEnabled {
		printSection("database")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		db, err := persist.NewDB(ctx, cfg.Database, log)
		if err != nil {
			cancel()
			return fmt.Errorf("database: %w", err)
		}
		defer db.Close()
		printOK("postgres connected")

		if err := persist.RunMigrations(ctx, db.Pool); err != nil {
			cancel()
			return fmt.Errorf("migrations: %w", err)
		}
		cancel()
		printOK("migrations applied")
		fmt.Println()

		statsRepo = persist.NewStatsRepo(db)
	}

	// 4. Load data tables and scripts
	printSection("data")

	abilityTable, err := data.LoadAbilityTable("data/yaml/ability_items.yaml")
	if err != nil {
		return fmt.Errorf("load ability table: %w", err)
	}
	printStat("ability templates", abilityTable.Count())

	luaEngine, err := scripting.NewEngine("scripts", log)
	if err != nil {
		return fmt.Errorf("lua engine: %w", err)
	}
	defer luaEngine.Close()
	printOK("lua scripts loaded")

	// 5. Build the game core
	bus := event.NewBus()
	effects := sfx.NewBusSink(bus)
	worldState := world.NewState()
	cooldowns := world.NewCooldownStore()
	arena := world.NewArena(cfg.Arena.FloorY, cfg.Arena.MinX, cfg.Arena.MaxX, cfg.Arena.MinZ, cfg.Arena.MaxZ)
	scheduler := ability.NewScheduler(worldState, worldState, effects, log)
	engine := physics.NewEngine(arena, worldState, effects, log)

	deps := &game.Deps{
		Config:    cfg,
		Log:       log,
		Clock:     &game.Clock{},
		Bus:       bus,
		World:     worldState,
		Arena:     arena,
		Cooldowns: cooldowns,
		Effects:   effects,
		Scheduler: scheduler,
		Physics:   engine,
		Scripting: luaEngine,
		Abilities: abilityTable,
		Items:     item.NewRegistry(),
	}
	if err := game.BuildItems(deps); err != nil {
		return fmt.Errorf("build ability items: %w", err)
	}
	printStat("ability items", deps.Items.Count())
	fmt.Println()

	round := game.NewRound(deps)

	// 6. Register tick systems
	runner := coresys.NewRunner()
	runner.Register(system.NewClockSystem(deps.Clock))
	runner.Register(system.NewEventDispatchSystem(bus))
	runner.Register(system.NewRoundSystem(round))
	runner.Register(system.NewCooldownSystem(cooldowns))
	runner.Register(system.NewAbilitySystem(scheduler))
	runner.Register(system.NewProjectileSystem(engine))
	runner.Register(system.NewDebuffSystem(worldState))
	runner.Register(system.NewCleanupSystem(worldState, cooldowns))

	var stats *system.StatsSystem
	if statsRepo != nil {
		stats = system.NewStatsSystem(
			statsRepo, bus, cfg.Server.ID,
			clock.SecondsToTicks(cfg.Game.StatsFlushSeconds), log)
		runner.Register(stats)
	}

	// 7. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	printSection("server ready")
	printReady(fmt.Sprintf("game loop running (tick: %s)", cfg.Game.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			runner.Tick(cfg.Game.TickRate)
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			if round.Phase() == game.RoundCountdown || round.Phase() == game.RoundRunning {
				round.End()
			}
			// Deliver the teardown events so the stats buffer sees them.
			bus.SwapBuffers()
			bus.DispatchAll()
			if stats != nil {
				stats.Flush()
			}
			log.Info("server stopped",
				zap.Duration("uptime", time.Since(time.Unix(cfg.Server.StartTime, 0))))
			return nil
		}
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		level = zapcore.InfoLevel
	}

	var zapCfg zap.Config
	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		zapCfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05")
		zapCfg.EncoderConfig.ConsoleSeparator = "  "
		zapCfg.DisableCaller = true
		zapCfg.DisableStacktrace = true
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}
