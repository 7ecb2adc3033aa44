package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"community-event-planner/config"
	"community-event-planner/internal/attendance"
	"community-event-planner/internal/cache"
	"community-event-planner/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var (
	cfgPath string
	cfg     config.Config
)

var rootCmd = &cobra.Command{
	Use:          "event-planner",
	Short:        "Community event planner API",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.LoadConfig(cfgPath)
		if err != nil {
			return err
		}
		setupLogger(cfg)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := InitDB(cfg.DB)
		return err
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print a session token for a display name and role",
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		role, _ := cmd.Flags().GetString("role")
		if cfg.JWT.Secret == "" {
			return fmt.Errorf("JWT_SECRET is missing")
		}
		token, err := GenerateToken(cfg.JWT.Secret, cfg.JWT.TTL, Session{Name: name, Role: attendance.ParseRole(role)})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "Import events from a JSON export of the old planner",
	Args:  cobra.ExactArgs(1),
	RunE:  runImport,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", ".", "directory containing config.yaml")

	tokenCmd.Flags().String("name", "", "display name")
	tokenCmd.Flags().String("role", "user", "user or admin")
	_ = tokenCmd.MarkFlagRequired("name")

	rootCmd.AddCommand(serveCmd, migrateCmd, tokenCmd, importCmd)
}

// newEventStore wraps the database store with the Redis cache when enabled.
// Redis being unreachable is not fatal. The returned func releases the
// cache connection.
func newEventStore(db *gorm.DB) (store.EventStore, func()) {
	var s store.EventStore = store.NewGormStore(db)
	if !cfg.Redis.Enabled {
		return s, func() {}
	}

	rc, err := cache.NewRedisCache(cfg.Redis)
	if err != nil {
		log.Warn().Err(err).Msg("Failed to initialize Redis cache, continuing without caching")
		return s, func() {}
	}
	log.Info().Str("host", cfg.Redis.Host).Msg("event cache enabled")
	return store.NewCachedStore(s, rc, cfg.Redis.TTL), func() { _ = rc.Close() }
}

func runServe(cmd *cobra.Command, args []string) error {
	if cfg.JWT.Secret == "" {
		log.Fatal().Msg("❌ JWT_SECRET is missing in .env")
	}

	db, err := InitDB(cfg.DB)
	if err != nil {
		return err
	}
	events, closeStore := newEventStore(db)
	defer closeStore()

	if err := registerValidators(); err != nil {
		return err
	}

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}
	svc := NewEventService(events)
	h := NewHandler(svc, cfg.JWT.Secret, cfg.JWT.TTL, cfg.PublicURL)

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), RequestLogger())
	r.Use(CORSMiddleware(cfg.Server.CorsOrigins))
	SetupRoutes(r, h)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      r,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("addr", srv.Addr).Msg("🚀 Server running")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	if cfg.Scheduler.Enabled {
		g.Go(func() error {
			return runReminderDigest(gctx, svc, cfg.Scheduler.Interval)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	log.Info().Msg("Server exited properly")
	return nil
}

func runImport(cmd *cobra.Command, args []string) error {
	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()

	legacy, err := ReadLegacyEvents(f)
	if err != nil {
		return err
	}

	db, err := InitDB(cfg.DB)
	if err != nil {
		return err
	}
	events, closeStore := newEventStore(db)
	defer closeStore()

	res, err := NewEventService(events).Import(cmd.Context(), legacy)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d events, skipped %d\n", res.Imported, res.Skipped)
	return nil
}
