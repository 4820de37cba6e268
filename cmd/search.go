package cmd

import (
	"context"
	"encoding/json"
	"log"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/search"
	"github.com/spigell/job-ranker/internal/secrets"
	"github.com/spigell/job-ranker/internal/store"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Fetch job search results and save them for ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		runSearch(cmd)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringP("query", "q", "", "search query")
	searchCmd.Flags().StringP("snapshot", "s", "", "file to write the search results to")
	searchCmd.Flags().Int("max-results", 0, "maximum number of result pages to fetch")

	viper.BindPFlag("search.query", searchCmd.Flags().Lookup("query"))
	viper.BindPFlag("search.max-results", searchCmd.Flags().Lookup("max-results"))
}

func runSearch(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "google api key",
		Value: config.Search.APIKey,
		File:  config.Search.APIKeyFile,
		Env:   "GOOGLE_API_KEY",
	})
	if err != nil {
		logger.Fatal("loading search api key", zap.Error(err), zap.String("hint", "or set search.api-key-file"))
	}

	output := config.Snapshot
	if flag, _ := cmd.Flags().GetString("snapshot"); strings.TrimSpace(flag) != "" {
		output = flag
	}

	params := config.Search.Params
	logger.Info("starting the search",
		zap.String("query", params.Query),
		zap.String("date_restrict", params.DateRestrict),
		zap.Int("max_results", params.MaxResults),
	)

	pages, err := search.New(apiKey, logger).Search(ctx, &params)
	if err != nil {
		logger.Fatal("searching jobs", zap.Error(err), zap.Int("pages_fetched", len(pages)))
	}

	items := 0
	for _, page := range pages {
		var p struct {
			Items []json.RawMessage `json:"items"`
		}
		if json.Unmarshal(page, &p) == nil {
			items += len(p.Items)
		}
	}

	if err := store.SaveSnapshot(output, pages); err != nil {
		logger.Fatal("saving search results", zap.Error(err))
	}

	logger.Info("saved search results",
		zap.String("path", output),
		zap.Int("pages", len(pages)),
		zap.Int("items", items),
	)
}
