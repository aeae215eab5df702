package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"mambascraper/pkg/auth"
	"mambascraper/pkg/config"
	"mambascraper/pkg/logger"
)

var (
	// Version information
	version   = "1.0.0"
	gitCommit = "unknown"
	buildDate = "unknown"

	setFilters bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "mambascraper",
	Short: "Resumable image crawler for the mamba.ru profile search",
	Long: `mambascraper walks the mamba.ru search results page by page and saves
every profile picture to the image directory.

Progress is kept in the cursor file after each page, so an interrupted crawl
continues where it stopped. Run with --set-filters to log in through a browser
window, choose the search filters and start the crawl from the beginning.

Configuration is read from .mambascraper.yaml (or the file named by
MAMBASCRAPER_CONFIG) and MAMBASCRAPER_* environment variables.`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, gitCommit, buildDate),
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runScrape,
}

// Execute runs the root command. The crawl has no successful end, so any
// run that reaches it exits with status 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.Flags().BoolVar(&setFilters, "set-filters", false, "log in through a browser, set search filters and restart the crawl")

	rootCmd.SetVersionTemplate(`mambascraper {{.Version}}
Go Version: ` + runtime.Version() + `
OS/Arch: ` + runtime.GOOS + `/` + runtime.GOARCH + `
`)

	rootCmd.CompletionOptions.DisableDefaultCmd = true
}

func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(os.Getenv("MAMBASCRAPER_CONFIG"))
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.WithField("run_id", uuid.NewString())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := &app{
		cfg:      cfg,
		logger:   log,
		provider: auth.NewBrowserLogin(cfg.API, cfg.Login, log),
	}
	return a.run(ctx, setFilters)
}
