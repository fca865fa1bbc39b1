package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/zhouzirui/genie/internal/config"
	"github.com/zhouzirui/genie/internal/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs after the root command has run.
type app struct {
	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "genie",
		Short:         "Genie chat page and chat backend",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Load .env file
			envErr := godotenv.Load()

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logging.Setup(cfg.Log)
			if envErr != nil {
				log.Debug().Err(envErr).Msg("no .env file loaded, using system environment only")
			}

			a.cfg = cfg
			return nil
		},
	}

	root.AddCommand(
		newAPICmd(a),
		newWebCmd(a),
		newAskCmd(a),
		newHistoryCmd(a),
	)
	return root
}
