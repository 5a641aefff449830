package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonderfulspam/config-warden/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "config-warden",
	Short: "Configuration regression gate",
	Long: `ConfigWarden validates a proposed configuration change against the
history of past accepted states, flagging deviations that resemble known
misconfiguration patterns or unprecedented changes to sensitive fields.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Configure(logFormat, logLevel)
	},
}

var (
	storePath string
	logLevel  string
	logFormat string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", "config-warden.db", "Path to the snapshot history database")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format: text, json")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errFlagged) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
