package cmd

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/ai"
	"github.com/spigell/job-ranker/internal/logger"
)

const (
	checkPrompt    = "Say hello!"
	checkMaxTokens = 20
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Send a short test request to the configured AI provider",
	Run: func(cmd *cobra.Command, _ []string) {
		check(cmd)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func check(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai generator", zap.Error(err))
	}

	reply, err := generator.GenerateContent(ctx, ai.Request{
		Prompt:          checkPrompt,
		Model:           generator.Model(),
		MaxOutputTokens: checkMaxTokens,
	})
	if err != nil {
		logger.Fatal("api key check failed", zap.Error(err))
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	logger.Info("api key works", zap.String("provider", config.AI.Provider), zap.String("model", generator.Model()))
}
