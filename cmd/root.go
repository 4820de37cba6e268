package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/spigell/job-ranker/internal/search"
)

const (
	app = "job-ranker"
)

type Config struct {
	Resume   string         `mapstructure:"resume"`
	Snapshot string         `mapstructure:"snapshot"`
	Output   string         `mapstructure:"output"`
	Delay    time.Duration  `mapstructure:"delay"`
	URLs     []string       `mapstructure:"urls"`
	Exclude  *ExcludeConfig `mapstructure:"exclude"`
	Search   *SearchConfig  `mapstructure:"search"`
	AI       *AIConfig      `mapstructure:"ai"`
}

type ExcludeConfig struct {
	Duplicates bool     `mapstructure:"duplicates"`
	Companies  []string `mapstructure:"companies"`
	File       string   `mapstructure:"file"`
}

type SearchConfig struct {
	search.Params `mapstructure:",squash"`

	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

type AIConfig struct {
	Provider        string           `mapstructure:"provider"`
	Model           string           `mapstructure:"model"`
	MaxOutputTokens int              `mapstructure:"max-output-tokens"`
	MaxRetries      int              `mapstructure:"max-retries"`
	MaxLogLength    int              `mapstructure:"max-log-length"`
	Anthropic       *AnthropicConfig `mapstructure:"anthropic"`
	Gemini          *GeminiConfig    `mapstructure:"gemini"`
}

type AnthropicConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
	BaseURL    string `mapstructure:"base-url"`
}

type GeminiConfig struct {
	APIKey     string `mapstructure:"api-key"`
	APIKeyFile string `mapstructure:"api-key-file"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "job-ranker scores job postings against your resume with a language model and ranks them",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("resume", "RESUME_PATH"); err != nil {
		log.Fatalf("binding RESUME_PATH environment variable: %v", err)
	}
	if err := viper.BindEnv("snapshot", "JOB_SEARCH_LIST_PATH"); err != nil {
		log.Fatalf("binding JOB_SEARCH_LIST_PATH environment variable: %v", err)
	}

	setDefaults()

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is job-ranker.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func setDefaults() {
	viper.SetDefault("resume", "resume.txt")
	viper.SetDefault("snapshot", "job_search_results.json")
	viper.SetDefault("output", "job_rankings.json")
	viper.SetDefault("delay", "2s")

	viper.SetDefault("search.date-restrict", "d3")
	viper.SetDefault("search.per-page", 10)
	viper.SetDefault("search.max-results", 50)

	viper.SetDefault("ai.provider", providerAnthropic)
	viper.SetDefault("ai.max-output-tokens", 1000)
	viper.SetDefault("ai.max-retries", 2)
	viper.SetDefault("ai.max-log-length", 200)
}

func initConfig() {
	// Version output does not need a config.
	if versionCmd.CalledAs() != "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		// Without a config file defaults and environment variables are used.
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
		// We can't proceed if the config file parsed with error.
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		config = &Config{}
	}
	if config.Exclude == nil {
		config.Exclude = &ExcludeConfig{}
	}
	if config.Search == nil {
		config.Search = &SearchConfig{}
	}
	if config.AI == nil {
		config.AI = &AIConfig{}
	}

	return config, nil
}
