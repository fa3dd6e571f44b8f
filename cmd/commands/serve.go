package commands

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"example.com/socialfeed/cmd/server"
	appkafka "example.com/socialfeed/internal/broker"
	"example.com/socialfeed/internal/store"
	"github.com/spf13/cobra"
)

var addr string

// serveCmd starts the HTTP API
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start the HTTP API server. Postgres databases are migrated on startup
unless DB_AUTO_MIGRATE=false; sqlite:// URLs are created from the models.

The server stops gracefully on SIGINT or SIGTERM.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides SERVER_ADDR)")
}

func runServe() error {
	cfg := loadConfig()
	if addr != "" {
		cfg.ServerAddr = addr
	}
	if cfg.JWTSecret == "" {
		return errors.New("JWT_SECRET must be set")
	}

	// Initialize database connection
	st, err := store.New(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	// Activity events are optional
	pub := appkafka.NewPublisher(appkafka.KafkaConfig{
		Brokers:      []string{cfg.KafkaBroker},
		Topic:        cfg.KafkaTopic,
		WriteTimeout: cfg.KafkaWriteTO,
	})
	defer func() {
		if err := pub.Close(); err != nil {
			logg.Error("main", "Failed to close Kafka writer", err)
		}
	}()

	// Setup OS signal handling for graceful shutdown (SIGINT, SIGTERM)
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := server.New(st, pub, cfg)
	if err := server.Run(ctx, s, cfg.ServerAddr, cfg.TLSCertFile, cfg.TLSKeyFile); err != nil {
		return err
	}

	logg.Info("main", "Shutdown completed")
	return nil
}
