package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/job-ranker/internal/filtering"
	"github.com/spigell/job-ranker/internal/jobs"
	"github.com/spigell/job-ranker/internal/logger"
	"github.com/spigell/job-ranker/internal/ranking"
	"github.com/spigell/job-ranker/internal/report"
	"github.com/spigell/job-ranker/internal/store"
)

const (
	PromptYes               = "Yes"
	PromptNo                = "No"
	PromptReportByCompanies = "Report by companies"
	PromptRecordsToFile     = "Dump jobs to file"
)

var (
	errExit    = errors.New("exit requested")
	errProceed = errors.New("proceed requested")
)

var prompt = promptui.Select{
	Label: "Analyze these jobs?",
	Items: []string{PromptYes, PromptNo, PromptReportByCompanies, PromptRecordsToFile},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Score saved search results against the resume and write the ranking",
	Run: func(cmd *cobra.Command, _ []string) {
		rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation before analyzing jobs")
	rankCmd.Flags().StringP("resume", "r", "", "resume text file")
	rankCmd.Flags().StringP("snapshot", "s", "", "saved search results file")
	rankCmd.Flags().StringP("output", "o", "", "file to write the ranking to")
	rankCmd.Flags().Duration("delay", 0, "pause between analysis requests")
	rankCmd.Flags().StringSliceP("url", "u", nil, "job posting URL to rank in addition to the search results (repeatable)")
	rankCmd.Flags().StringP("exclude-file", "e", "", "file with job URLs to skip")
	rankCmd.Flags().Bool("append-exclude", false, "append ranked jobs to the exclude file")
	rankCmd.Flags().Bool("dedupe", false, "drop jobs with the same URL before analysis")
	rankCmd.Flags().Bool("fetch-descriptions", false, "fetch full job descriptions (not supported yet)")

	viper.BindPFlag("resume", rankCmd.Flags().Lookup("resume"))
	viper.BindPFlag("snapshot", rankCmd.Flags().Lookup("snapshot"))
	viper.BindPFlag("output", rankCmd.Flags().Lookup("output"))
	viper.BindPFlag("delay", rankCmd.Flags().Lookup("delay"))
	viper.BindPFlag("exclude.file", rankCmd.Flags().Lookup("exclude-file"))
	viper.BindPFlag("exclude.duplicates", rankCmd.Flags().Lookup("dedupe"))
}

// rank is the main command for the cli.
func rank(cmd *cobra.Command) {
	ctx := context.Background()

	baseLogger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	logger := logger.WithRunID(baseLogger, uuid.NewString())

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the job-ranker", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(redacted(config), "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	resume, err := store.LoadResume(config.Resume)
	if err != nil {
		logger.Fatal("loading resume", zap.Error(err), zap.String("hint", "set RESUME_PATH or the 'resume' key"))
	}
	logger.Info("resume loaded", zap.String("path", config.Resume), zap.Int("length", len(resume)))

	records, err := loadRecords(cmd, config, logger)
	if err != nil {
		logger.Fatal("loading jobs", zap.Error(err))
	}

	if fetch, _ := cmd.Flags().GetBool("fetch-descriptions"); fetch {
		logger.Warn("fetching full job descriptions is not supported, using search snippets",
			zap.Int("jobs", len(records)),
		)
	}

	records, err = runFilters(ctx, config, records, logger)
	if err != nil {
		logger.Fatal("filtering failed", zap.Error(err))
	}

	if len(records) == 0 {
		logger.Info("exiting", zap.String("reason", "no jobs to analyze"))
		return
	}

	logger.Info("total jobs to analyze", zap.Int("count", len(records)))

	generator, err := newGenerator(ctx, config.AI, logger)
	if err != nil {
		logger.Fatal("building ai generator", zap.Error(err))
	}

	if yes, _ := cmd.Flags().GetBool("yes"); !yes {
		if err := confirm(logger, records); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}

	pipeline := ranking.New(newMatcher(generator, config.AI, logger), config.Delay, logger)
	ranked := pipeline.Rank(ctx, resume, records)

	if err := report.NewPrinter(os.Stdout, !viper.GetBool("json")).Rankings(ranked); err != nil {
		logger.Warn("printing rankings", zap.Error(err))
	}

	if err := store.SaveResults(config.Output, ranked); err != nil {
		logger.Fatal("saving results", zap.Error(err), zap.String("path", config.Output))
	}

	logger.Info("results saved", append(ranking.Summarize(ranked).Fields(), zap.String("path", config.Output))...)

	if appendExclude, _ := cmd.Flags().GetBool("append-exclude"); appendExclude {
		if err := appendToExcludeFile(config.Exclude.File, ranked, logger); err != nil {
			logger.Fatal("appending to exclude file", zap.Error(err))
		}
	}

	logger.Info("job ranking complete")
}

// loadRecords parses the snapshot and adds records for the configured URLs.
func loadRecords(cmd *cobra.Command, config *Config, logger *zap.Logger) ([]jobs.Record, error) {
	urls := append([]string{}, config.URLs...)
	if extra, err := cmd.Flags().GetStringSlice("url"); err == nil {
		urls = append(urls, extra...)
	}

	var records []jobs.Record

	snapshotPath := strings.TrimSpace(config.Snapshot)
	switch {
	case snapshotPath != "":
		snapshot, err := store.LoadSnapshot(snapshotPath)
		if err != nil {
			return nil, fmt.Errorf("loading search results: %w", err)
		}
		logger.Info("loaded search results", zap.String("path", snapshotPath))
		records = jobs.ParseSnapshot(snapshot, logger)
	case len(urls) == 0:
		return nil, errors.New("neither a search results file nor job urls are configured")
	}

	return append(records, jobs.FromURLs(urls, logger)...), nil
}

// runFilters drops records only through filters the user asked for.
// With an empty exclude config every parsed record reaches the ranking.
func runFilters(ctx context.Context, config *Config, records []jobs.Record, logger *zap.Logger) ([]jobs.Record, error) {
	steps := filtering.Default()

	if !config.Exclude.Duplicates {
		filtering.DisableByName(steps, "duplicates", "not requested (set exclude.duplicates or --dedupe)")
	}

	for _, status := range filtering.Describe(steps) {
		logger.Debug("filter configured",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
		)
	}

	cfg := &filtering.Config{
		Companies:   config.Exclude.Companies,
		ExcludeFile: config.Exclude.File,
	}

	return filtering.Run(ctx, cfg, filtering.Deps{Logger: logger}, steps, records)
}

// confirm asks the user before any analysis request is spent.
func confirm(logger *zap.Logger, records []jobs.Record) error {
	for {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(action, logger, records); err != nil {
			if errors.Is(err, errProceed) {
				return nil
			}
			return err
		}
	}
}

func handleAction(action string, logger *zap.Logger, records []jobs.Record) error {
	switch action {
	case PromptYes:
		return errProceed
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByCompanies:
		pretty, _ := json.MarshalIndent(jobs.ReportByCompany(records), "", "  ")
		logger.Info(string(pretty), zap.Int("jobs count", len(records)))
		return nil
	case PromptRecordsToFile:
		filename, err := store.DumpRecordsToTmpFile(records)
		if err != nil {
			return fmt.Errorf("dump jobs to file: %w", err)
		}
		logger.Info("dumping jobs to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

func appendToExcludeFile(path string, ranked []jobs.ScoredRecord, logger *zap.Logger) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return errors.New("exclude file is not configured (set exclude.file or --exclude-file)")
	}

	excluded, err := store.LoadExcluded(path)
	if err != nil {
		return err
	}

	added := excluded.Append(store.ExcludeScored(ranked, time.Now()))

	if err := excluded.ToFile(path); err != nil {
		return err
	}

	logger.Info("appended to exclude file", zap.String("filename", path), zap.Int("added", added))
	return nil
}

// redacted returns a copy of config safe for logging.
func redacted(config *Config) *Config {
	if config == nil {
		return nil
	}

	out := *config
	if config.Search != nil {
		search := *config.Search
		search.APIKey = mask(search.APIKey)
		out.Search = &search
	}
	if config.AI != nil {
		aiCfg := *config.AI
		if aiCfg.Anthropic != nil {
			anthropicCfg := *aiCfg.Anthropic
			anthropicCfg.APIKey = mask(anthropicCfg.APIKey)
			aiCfg.Anthropic = &anthropicCfg
		}
		if aiCfg.Gemini != nil {
			geminiCfg := *aiCfg.Gemini
			geminiCfg.APIKey = mask(geminiCfg.APIKey)
			aiCfg.Gemini = &geminiCfg
		}
		out.AI = &aiCfg
	}
	return &out
}

func mask(secret string) string {
	if secret == "" {
		return ""
	}
	return "***"
}
