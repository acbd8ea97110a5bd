package cmd

import (
	"os"

	"github.com/Taichi-iskw/rmtrans/internal/console"
	"github.com/Taichi-iskw/rmtrans/internal/logging"
	"github.com/spf13/cobra"
)

// logLevel overrides the configured log level when set
var logLevel string

var rootCmd = &cobra.Command{
	Use:   "rmtrans",
	Short: "Content repository translation admin tool",
	Long: `rmtrans maintains the translations of content items in a multi-language
content repository.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if logLevel == "" {
			return nil
		}
		_, err := logging.Setup(logLevel, cmd.ErrOrStderr())
		return err
	},
}

// Execute runs the root command and exits non-zero on error
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		console.Errorln(os.Stderr, "%v", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace|debug|info|warn|error), overrides log_level in the config file")
}
