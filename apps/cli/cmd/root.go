package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/clueassert/packages/core/config"
	"github.com/abdul-hamid-achik/clueassert/packages/logging"
	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var (
	configFlag   string
	debugFlag    bool
	logLevelFlag string

	// resolved in loadSettings before any command runs
	settings = config.DefaultConfig()
	logger   = logging.Nop()
)

var rootCmd = &cobra.Command{
	Use:   "clueassert",
	Short: "Readable assertion reports with clues.",
	Long: `clueassert renders recorded assertion reports: each failing check is shown
with where it happened and the labeled values that explain it.

Reports are JSON files written by report.Recorder during go test.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

// Execute runs the root command and exits with the code carried by the error.
func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(handleError(err))
	}
}

func handleError(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", exitErr.Err)
		}
		return exitErr.Code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return ExitUsageError
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", getEnvString("CLUEASSERT_CONFIG", ""), "Path to config file (env: CLUEASSERT_CONFIG)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", getEnvBool("CLUEASSERT_DEBUG", false), "Log debug diagnostics to stderr (env: CLUEASSERT_DEBUG)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", getEnvString("CLUEASSERT_LOG_LEVEL", ""), "Log level: debug, info, warn, error (env: CLUEASSERT_LOG_LEVEL)")

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(diffCmd)
	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadSettings reads the config file and builds the logger. Flags given on
// the command line override the file.
func loadSettings(cmd *cobra.Command, args []string) error {
	fileConfig, err := config.LoadConfig(configFlag)
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	level := fileConfig.LogLevel
	if logLevelFlag != "" {
		level = logLevelFlag
	}
	if debugFlag {
		level = "debug"
	}

	l, err := logging.New(level, cmd.ErrOrStderr())
	if err != nil {
		return &ExitError{Code: ExitConfigError, Err: err}
	}

	settings = fileConfig
	logger = l.With(logging.String("cmd", cmd.Name()))
	logger.Debug("configuration loaded",
		logging.String("config", configFlag),
		logging.String("output", settings.Output),
		logging.String("logLevel", level),
	)
	return nil
}

// Environment variable helpers
func getEnvString(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		return val == "true" || val == "1" || val == "yes"
	}
	return defaultVal
}
