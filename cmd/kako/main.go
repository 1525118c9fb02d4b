package main

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/pders01/kako/internal/config"
	"github.com/pders01/kako/internal/debuglog"
	"github.com/pders01/kako/internal/theme"
	"github.com/pders01/kako/internal/tui"
	"github.com/pders01/kako/internal/validation"
)

// Version is the version of the application, set at build time
var Version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		archiveSource  string
		configPath     string
		generateConfig bool
		quiet          bool
		allowLocal     bool
	)

	cmd := &cobra.Command{
		Use:           "kako",
		Short:         "Terminal viewer for thread archives",
		Long:          "kako loads a thread archive from a JSON document and lets you browse,\nsearch, and filter it entirely in memory.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if generateConfig {
				home, _ := os.UserHomeDir()
				configFile := filepath.Join(home, ".config", "kako", "config.toml")

				if err := config.GenerateDefaultConfig(configFile); err != nil {
					return fmt.Errorf("generating config: %w", err)
				}
				fmt.Printf("Generated default configuration at: %s\n", configFile)
				return nil
			}

			return run(archiveSource, configPath, quiet, allowLocal)
		},
	}

	cmd.Flags().StringVarP(&archiveSource, "archive", "a", "", "Path or URL of the archive JSON (overrides config)")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Path to configuration file")
	cmd.Flags().BoolVar(&generateConfig, "generate-config", false, "Generate default config file")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Skip startup banner")
	cmd.Flags().BoolVar(&allowLocal, "allow-local", false, "Permit localhost and private-network archive URLs")

	return cmd
}

func run(archiveSource, configPath string, quiet, allowLocal bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if archiveSource != "" {
		cfg.Archive.Source = archiveSource
	}

	validator := validation.NewSourceValidator()
	if allowLocal {
		validator = validation.NewPermissiveSourceValidator()
	}
	source, err := validator.ValidateAndNormalize(cfg.Archive.Source)
	if err != nil {
		return fmt.Errorf("invalid archive source: %w", err)
	}
	cfg.Archive.Source = source

	level := debuglog.ParseLogLevel(cfg.Logging.Level)
	if err := debuglog.Setup(level, cfg.Logging.File); err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer debuglog.Close()

	colors, err := theme.Resolve(cfg)
	if err != nil {
		return fmt.Errorf("resolving theme: %w", err)
	}
	tui.ApplyColors(
		colors.Primary, colors.Secondary, colors.Accent,
		colors.Background, colors.Surface, colors.Text,
		colors.Muted, colors.Error, colors.Success,
	)

	if !quiet {
		tui.ShowBanner(Version)
	}

	app := tui.NewApp(cfg)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return err
	}
	return nil
}
