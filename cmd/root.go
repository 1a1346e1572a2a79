package cmd

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "careercoach"
)

type Config struct {
	Server   *ServerConfig   `mapstructure:"server"`
	Database *DatabaseConfig `mapstructure:"database"`
	AI       *AIConfig       `mapstructure:"ai"`
	Jobs     *JobsConfig     `mapstructure:"jobs"`
}

type ServerConfig struct {
	Address           string  `mapstructure:"address"`
	RequestsPerSecond float64 `mapstructure:"requests-per-second"`
}

type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

type AIConfig struct {
	RateLimitCooldown time.Duration   `mapstructure:"rate-limit-cooldown"`
	BreakerTimeout    time.Duration   `mapstructure:"breaker-timeout"`
	Gemini            *ProviderConfig `mapstructure:"gemini"`
	Groq              *ProviderConfig `mapstructure:"groq"`
}

type ProviderConfig struct {
	Model       string `mapstructure:"model"`
	APIKeysFile string `mapstructure:"api-keys-file"`
	BaseURL     string `mapstructure:"base-url"`
}

type JobsConfig struct {
	AppID   string `mapstructure:"app-id"`
	AppKey  string `mapstructure:"app-key"`
	Country string `mapstructure:"country"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "careercoach is an AI career coaching backend: resumes, roadmaps, assessments and mock interviews",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("jobs.app-id", "ADZUNA_APP_ID"); err != nil {
		log.Fatalf("binding ADZUNA_APP_ID environment variable: %v", err)
	}
	if err := viper.BindEnv("jobs.app-key", "ADZUNA_APP_KEY"); err != nil {
		log.Fatalf("binding ADZUNA_APP_KEY environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is careercoach.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// The config file is optional: every setting has a default or an
	// environment binding. A file that exists but fails to parse is fatal.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile == "" && errors.As(err, &notFound) {
			return
		}
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
	return config, nil
}
