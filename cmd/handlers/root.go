package handlers

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"letterly/internal/config"
	"letterly/internal/logger"
)

var cfgFile string

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "letterly",
		Short: "Generate and publish AI-written newsletters from a topic",
		Long: `Letterly - AI Newsletter Generator

Turns a topic into a block-structured newsletter: web research, image
discovery and validation, LLM drafting, and a repair pass that keeps every
link and image pointing at a real, validated source.

Examples:
  # Generate a newsletter about a topic
  letterly generate "open source LLM inference"

  # Pick the model and tone
  letterly generate "robotics funding" --model gpt --tone witty

  # Run the HTTP API
  letterly serve --port 8000

  # Send a rendered newsletter
  letterly publish --title "This week in robotics" --html-file letter.html`,
		Version: "1.0.0",
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .letterly.yaml)")

	rootCmd.AddCommand(NewGenerateCmd())
	rootCmd.AddCommand(NewPublishCmd())
	rootCmd.AddCommand(NewServeCmd())

	cobra.OnInitialize(initConfig)

	return rootCmd
}

// initConfig reads in config file and ENV variables
func initConfig() {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to load config: %v\n", err)
		// Don't exit - allow running with just environment variables
		return
	}
	logger.Init(cfg.App.LogLevel)
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}
