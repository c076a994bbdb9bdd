// =============================================================================
// Ennovatis Header Converter - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. Started without a
// subcommand (for example by double-clicking the executable) it runs the
// interactive batch flow: pick a folder, convert every file below it.
//
// COBRA CLI STRUCTURE:
//   rootCmd (konverter)
//   ├── folderCmd  (konverter folder [ROOT])
//   ├── filesCmd   (konverter files [FILE...])
//   ├── headerCmd  (konverter header TEXT...)
//   ├── configCmd  (konverter config)
//   └── versionCmd (konverter version)
//
// CONFIGURATION:
//   The root command is responsible for:
//   1. Setting up global flags (--config, --verbose, --log-format, --pause)
//   2. Loading the configuration (defaults, file, .env, environment, flags)
//   3. Setting up logging
//
// EXIT BEHAVIOUR:
//   An error is logged and the process exits with status 1. When stdin is a
//   terminal and pause_on_exit is on, the process first waits for Enter so
//   the console window stays open.
//
// =============================================================================

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/ginjaninja78/ennovatis-konverter/internal/config"
	"github.com/ginjaninja78/ennovatis-konverter/internal/logging"
	"github.com/ginjaninja78/ennovatis-konverter/internal/picker"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
// This can be overridden using the --config flag.
var cfgFile string

// verbose switches the log level to debug when set to true.
var verbose bool

// logFormat and pause back the flags of the same name. They only take
// effect when set; the configuration decides otherwise.
var (
	logFormat string
	pause     bool
)

// appConfig and logger are set up by loadApp before any command runs.
var (
	appConfig *config.Config
	logger    *slog.Logger
)

// interactiveRun records that the root command ran its interactive flow,
// which pauses before exit even on success.
var interactiveRun bool

// pickableTypes are the extensions the file browser lets the user select.
var pickableTypes = []string{".csv", ".xlsx", ".xls"}

// newTerminalPicker creates the picker used when no paths are given.
var newTerminalPicker = func() picker.Picker {
	return picker.Terminal{AllowedTypes: pickableTypes}
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "konverter",
	Short: "Ennovatis Header Converter - Rewrite export headers for Ennovatis ingestion",

	Long: `Ennovatis Header Converter rewrites the column headers of CSV and Excel
exports into the header format the Ennovatis ingestion system expects.

Every data column header is cleaned in two steps:
  - ä, ö, ü and ß are replaced by ae, oe, ue and ss
  - everything from the second comma on is cut off

The first column is the row index and keeps its name. Row data is never
changed.

Example Usage:
  konverter                          # Pick a folder and convert it
  konverter folder ./exports         # Convert ./exports into ./exports_converted
  konverter files report.xlsx        # Write report_geändert.xlsx
  konverter header "Wärme, kWh, Z1"  # Show the converted header`,

	Args:          cobra.NoArgs,
	SilenceErrors: true,
	SilenceUsage:  true,

	RunE: func(cmd *cobra.Command, args []string) error {
		interactiveRun = true
		return runFolder(cmd, newTerminalPicker())
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute runs the CLI. It is called by main.main(). Errors are logged
// here; the process exits with status 1 on failure.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			currentLogger().Info("conversion cancelled")
		} else {
			currentLogger().Error("conversion failed", slog.Any("error", err))
		}
	}

	if shouldPause(err) {
		waitForEnter(os.Stdin, os.Stderr)
	}

	if err != nil {
		os.Exit(1)
	}
}

// shouldPause reports whether to wait for Enter before exiting.
func shouldPause(err error) bool {
	if err == nil && !interactiveRun {
		return false
	}
	if !pauseEnabled() {
		return false
	}
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// pauseEnabled resolves pause_on_exit, also when loading the
// configuration failed.
func pauseEnabled() bool {
	if appConfig != nil {
		return appConfig.PauseOnExit
	}
	if rootCmd.PersistentFlags().Changed("pause") {
		return pause
	}
	return config.Default().PauseOnExit
}

// waitForEnter prints the exit prompt and blocks until a line is read.
func waitForEnter(in io.Reader, out io.Writer) {
	fmt.Fprint(out, "\nPress the enter key to exit.")
	_, _ = bufio.NewReader(in).ReadString('\n')
}

// currentLogger returns the configured logger, or a plain stderr logger
// when configuration has not been loaded.
func currentLogger() *slog.Logger {
	if logger != nil {
		return logger
	}
	l, err := logging.New(logging.Options{Output: os.Stderr})
	if err != nil {
		return slog.Default()
	}
	return l
}

// =============================================================================
// CONFIGURATION AND LOGGING SETUP
// =============================================================================

// loadApp loads the configuration and sets up logging. It runs before
// every command.
func loadApp(cmd *cobra.Command, args []string) error {
	if err := config.LoadDotEnv(".env"); err != nil {
		return err
	}

	flags := rootCmd.PersistentFlags()
	loader := config.NewLoader()
	if err := loader.BindFlag("log_format", flags.Lookup("log-format")); err != nil {
		return err
	}
	if err := loader.BindFlag("pause_on_exit", flags.Lookup("pause")); err != nil {
		return err
	}

	cfg, err := loader.Load(cfgFile, flags.Changed("config"))
	if err != nil {
		return err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	l, err := logging.New(logging.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	appConfig = cfg
	logger = l

	logger.Debug("configuration loaded",
		slog.String("config", cfgFile),
		slog.String("delimiter", cfg.CSV.Delimiter),
		slog.String("encoding", cfg.CSV.Encoding))

	return nil
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	// Assigned here rather than in the literal: loadApp refers to rootCmd,
	// which would otherwise be an initialization cycle.
	rootCmd.PersistentPreRunE = loadApp

	// Persistent flags are available to this command and all subcommands.
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		config.DefaultFile,
		"Path to the configuration file (a missing default file is ignored)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable debug logging",
	)

	rootCmd.PersistentFlags().StringVar(
		&logFormat,
		"log-format",
		config.Default().LogFormat,
		"Log format: text or json",
	)

	rootCmd.PersistentFlags().BoolVar(
		&pause,
		"pause",
		config.Default().PauseOnExit,
		"Wait for Enter before exiting after a failure",
	)
}
