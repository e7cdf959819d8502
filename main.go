package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"yashubustudio/slotguide/internal/logger"
	"yashubustudio/slotguide/internal/metrics"
	"yashubustudio/slotguide/internal/server"
	"yashubustudio/slotguide/internal/store"
	"yashubustudio/slotguide/slots"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "slotguide:", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := applyEnv(defaultServerConfig(), nil)
	cmd := &cobra.Command{
		Use:           "slotguide",
		Short:         "Slot validation action server for Rasa assistants",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, sanitizeServerConfig(cfg))
		},
	}
	f := cmd.Flags()
	f.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	f.StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "path to slotguide.yml (default ./slotguide.yml)")
	f.StringVar(&cfg.LogMode, "log-mode", cfg.LogMode, "log encoder: dev or prod")
	f.BoolVar(&cfg.RedactLogs, "redact-logs", cfg.RedactLogs, "hash conversation ids and drop user text in logs")
	f.StringVar(&cfg.Store, "store", cfg.Store, "pending-state store for /v1/turns: memory or redis")
	f.StringVar(&cfg.RedisAddr, "redis-addr", cfg.RedisAddr, "redis address when --store=redis")
	f.IntVar(&cfg.RedisDB, "redis-db", cfg.RedisDB, "redis database number")
	f.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "idle time before a conversation's pending flag expires")
	return cmd
}

func run(ctx context.Context, cfg serverConfig) error {
	log, err := logger.New(cfg.LogMode, cfg.RedactLogs)
	if err != nil {
		return err
	}
	defer log.Sync()

	engineCfg, err := slots.LoadConfig(cfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	lookup, intents, err := slots.LoadAssets(engineCfg, log)
	if err != nil {
		return err
	}
	rec := metrics.New()
	svc, err := slots.NewService(engineCfg, lookup, intents, log.With("component", "engine"), rec)
	if err != nil {
		return fmt.Errorf("init service: %w", err)
	}
	st, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	srv, err := server.New(svc, st, rec, log)
	if err != nil {
		return fmt.Errorf("init server: %w", err)
	}
	log.Info("starting", "addr", cfg.Addr, "store", cfg.Store, "lookup_slots", lookup.Len(), "require_all", engineCfg.RequireAll)
	return srv.Run(ctx, cfg.Addr)
}

func openStore(ctx context.Context, cfg serverConfig) (store.Store, error) {
	if cfg.Store != StoreRedis {
		return store.NewMemoryStore(cfg.SessionTTL), nil
	}
	st, err := store.NewRedisStore(ctx, store.RedisOptions{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		TTL:      cfg.SessionTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("open redis store: %w", err)
	}
	return st, nil
}
