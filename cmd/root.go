// Package cmd is the factwing command-line interface: a small Cobra tree
// (root, check, config, version) around the internal/pipeline orchestrator.
package cmd

import (
	"os"
	"strings"

	"github.com/josephgoksu/factwing/internal/config"
	"github.com/josephgoksu/factwing/internal/logger"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is set via ldflags at build time:
// -ldflags "-X github.com/josephgoksu/factwing/cmd.version=1.0.0"
var version = "dev"

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "factwing",
	Short: "factwing - Vietnamese fact-checking evidence engine",
	Long: `factwing builds a heterogeneous text graph from a claim and a context
document, runs a scored beam search from the claim, and ranks context
sentences by evidence relevance.`,
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			_ = cmd.Help()
			os.Exit(0)
		}
	},
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main().
func Execute() {
	logger.SetVersion(version)
	defer logger.HandlePanic()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default .factwing/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "print full technical error detail")
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	logger.SetCommand(strings.Join(os.Args[1:], " "))
	logger.SetBasePath(config.ConfigDir())

	if err := config.Load(cfgFile); err != nil {
		PrintError("Error loading configuration.", err)
		os.Exit(1)
	}
}
