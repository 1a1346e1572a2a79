package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"careercoach/internal/ai"
	"careercoach/internal/ai/gemini"
	"careercoach/internal/ai/groq"
	"careercoach/internal/career"
	"careercoach/internal/jobs"
	"careercoach/internal/logger"
	"careercoach/internal/server"
	"careercoach/internal/store"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	defaultAddress      = ":8080"
	defaultDatabasePath = "careercoach.db"
	shutdownGrace       = 15 * time.Second
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  serve,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, _ []string) error {
	log, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("parsing config: %w", err)
	}

	address := defaultAddress
	var rps float64
	if config.Server != nil {
		if config.Server.Address != "" {
			address = config.Server.Address
		}
		rps = config.Server.RequestsPerSecond
	}

	dbPath := defaultDatabasePath
	if config.Database != nil && config.Database.Path != "" {
		dbPath = config.Database.Path
	}

	st, err := store.Open(dbPath)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	log.Info("store opened", zap.String("path", dbPath))

	invoker := buildInvoker(config.AI, log)

	var board *jobs.BoardClient
	if config.Jobs != nil {
		board = jobs.NewBoardClient(jobs.BoardConfig{
			AppID:   config.Jobs.AppID,
			AppKey:  config.Jobs.AppKey,
			Country: config.Jobs.Country,
		}, log)
	} else {
		board = jobs.NewBoardClient(jobs.BoardConfig{
			AppID:  viper.GetString("jobs.app-id"),
			AppKey: viper.GetString("jobs.app-key"),
		}, log)
	}

	srv := server.New(server.Config{
		Address:           address,
		Store:             st,
		Coach:             career.NewService(invoker, log),
		Generator:         invoker,
		Board:             board,
		Logger:            log,
		RequestsPerSecond: rps,
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Run() }()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case sig := <-stop:
		log.Info("shutting down", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancel := context.WithTimeout(cmd.Context(), shutdownGrace)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// buildInvoker assembles the provider chain: gemini primary, groq fallback.
// Empty credential pools are allowed; the chain degrades at request time
// instead of refusing to start.
func buildInvoker(cfg *AIConfig, log *zap.Logger) *ai.Invoker {
	var cooldown, breakerTimeout time.Duration
	var geminiCfg, groqCfg ProviderConfig
	if cfg != nil {
		cooldown = cfg.RateLimitCooldown
		breakerTimeout = cfg.BreakerTimeout
		if cfg.Gemini != nil {
			geminiCfg = *cfg.Gemini
		}
		if cfg.Groq != nil {
			groqCfg = *cfg.Groq
		}
	}

	groqPool := ai.LoadPool("groq", ai.PoolSources{
		KeyFile:        groqCfg.APIKeysFile,
		ListVar:        "GROQ_API_KEYS",
		NumberedPrefix: "GROQ_API_KEY",
		LegacyVar:      "GROQ_API_KEY",
	}, os.Getenv, log)

	fallback := ai.NewInvoker(ai.InvokerConfig{
		Provider: groq.NewClient(groqCfg.Model, groqCfg.BaseURL, log),
		Pool:     groqPool,
		Breaker:  ai.NewBreaker(breakerTimeout),
		Cooldown: cooldown,
		Logger:   log,
	})

	geminiPool := ai.LoadPool("gemini", ai.PoolSources{
		KeyFile:        geminiCfg.APIKeysFile,
		ListVar:        "GEMINI_API_KEYS",
		NumberedPrefix: "GEMINI_API_KEY",
		LegacyVar:      "GOOGLE_API_KEY",
	}, os.Getenv, log)

	return ai.NewInvoker(ai.InvokerConfig{
		Provider: gemini.NewClient(geminiCfg.Model, log),
		Pool:     geminiPool,
		Breaker:  ai.NewBreaker(breakerTimeout),
		Cooldown: cooldown,
		Fallback: fallback,
		Logger:   log,
	})
}
