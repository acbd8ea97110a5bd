package cmd

import (
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/Taichi-iskw/rmtrans/internal/config"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration settings",
	Long:  `Manage configuration settings for rmtrans.`,
}

// configInitCmd represents the config init command
var configInitCmd = &cobra.Command{
	Use:   "init [DATABASE_URL]",
	Short: "Initialize configuration file",
	Long:  `Create a new configuration file with database, cache and default flag settings.`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var databaseURL string
		if len(args) > 0 {
			databaseURL = args[0]
		}

		if err := config.InitConfig(databaseURL); err != nil {
			return err
		}

		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created configuration file: %s\n", configPath)
		fmt.Fprintln(out, "Please edit the database_url in this file to match your content repository database.")

		return nil
	},
}

// configShowCmd represents the config show command
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the configuration file path and the effective settings, environment overrides included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.GetConfigPath()
		if err != nil {
			return err
		}

		cfg, err := config.NewConfig()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Configuration file: %s\n\n", configPath)
		fmt.Fprintf(out, "DATABASE_URL: %s\n", redactURL(cfg.DatabaseURL))
		fmt.Fprintf(out, "REDIS_URL: %s\n", redactURL(cfg.RedisURL))
		fmt.Fprintf(out, "cache.prefix: %s\n", cfg.Cache.Prefix)
		fmt.Fprintf(out, "cache.purge_url: %s\n", cfg.Cache.PurgeURL)
		fmt.Fprintf(out, "cache.timeout: %s\n", cfg.Cache.Timeout)
		fmt.Fprintf(out, "defaults.language: %s\n", cfg.Defaults.Language)
		fmt.Fprintf(out, "defaults.admin_user_id: %d\n", cfg.Defaults.AdminUserID)
		fmt.Fprintf(out, "log_level: %s\n", cfg.LogLevel)

		return nil
	},
}

// redactURL hides the password of a connection URL
func redactURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "<invalid url>"
	}
	return u.Redacted()
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configShowCmd)
}
