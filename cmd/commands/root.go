package commands

import (
	"fmt"
	"os"

	config "example.com/socialfeed/internal/init"
	"example.com/socialfeed/internal/logger"
	"github.com/spf13/cobra"
)

var logg = logger.New()

// Global flags
var dbURL string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "socialfeed",
	Short: "Social network backend: profiles, follows, posts, hashtags and notifications",
	Long: `socialfeed serves the social network HTTP API and manages its database schema.

Configuration comes from environment variables or an optional config.yaml
(DATABASE_URL, JWT_SECRET, SERVER_ADDR, KAFKA_BROKER, MEDIA_ROOT, ...).`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL (overrides DATABASE_URL)")
}

// loadConfig reads the application config and applies command line overrides.
func loadConfig() *config.Config {
	cfg := config.Init()
	if dbURL != "" {
		cfg.DatabaseURL = dbURL
	}
	return cfg
}
