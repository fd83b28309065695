package main

import (
	"fmt"
	"os"

	"github.com/seiya-sugimoto/trade-gate-log/internal/cli"
	"github.com/seiya-sugimoto/trade-gate-log/internal/config"
	"github.com/seiya-sugimoto/trade-gate-log/internal/logging"
)

func main() {
	configDir := configDirFromArgs(os.Args[1:])

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logCfg.File = cfg.Logging.File
	logCfg.Console = false
	logger := logging.NewLoggerWithConfig(logCfg)

	rootCmd, app, err := cli.NewRootCmd(cfg, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

// configDirFromArgs extracts the --config flag before cobra parsing, since
// configuration is needed to build the command tree.
func configDirFromArgs(args []string) string {
	for i, arg := range args {
		if arg == "--config" && i+1 < len(args) {
			return args[i+1]
		}
		if len(arg) > len("--config=") && arg[:len("--config=")] == "--config=" {
			return arg[len("--config="):]
		}
	}
	return ""
}
