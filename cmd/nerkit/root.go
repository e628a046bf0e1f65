package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cognicore/nerkit/internal/logger"
	"github.com/cognicore/nerkit/pkg/nerkit/config"
)

var (
	configPath string

	cfg *config.Config
	log *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "nerkit",
	Short: "Named-entity recognition toolkit",
	Long: `nerkit encodes text into model feature lines, runs an external sequence
tagger and rebuilds entities with exact offsets. It also ingests annotated
ENAMEX corpora for training export and evaluation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		log = logger.New("nerkit")
		if configPath == "" {
			cfg = config.Default()
			return nil
		}
		var err error
		cfg, err = config.Load(configPath)
		return err
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "configuration file (.yaml or .toml)")
}

// components builds the pipeline from the loaded configuration.
func components(cmd *cobra.Command) (*config.Components, error) {
	return (&config.Loader{Config: cfg, Logger: log}).Load(cmd.Context())
}
