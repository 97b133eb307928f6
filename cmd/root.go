package cmd

import (
	"errors"
	"io/fs"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app       = "assessor"
	envPrefix = "ASSESSOR"
)

type Config struct {
	HTTP     HTTPConfig     `mapstructure:"http"`
	Store    string         `mapstructure:"store"`
	Database DatabaseConfig `mapstructure:"database"`
	HR       HRConfig       `mapstructure:"hr"`
	Scoring  ScoringConfig  `mapstructure:"scoring"`
}

type HTTPConfig struct {
	Listen         string        `mapstructure:"listen"`
	RequestTimeout time.Duration `mapstructure:"request-timeout"`
	Debug          bool          `mapstructure:"debug"`
	ShutdownGrace  time.Duration `mapstructure:"shutdown-grace"`
	// DrainDelay keeps serving with a failing /healthz before shutdown starts.
	DrainDelay time.Duration `mapstructure:"drain-delay"`
}

type DatabaseConfig struct {
	URL      string `mapstructure:"url"`
	MaxConns int32  `mapstructure:"max-conns"`
	Migrate  bool   `mapstructure:"migrate"`
}

type HRConfig struct {
	BaseURL   string        `mapstructure:"base-url"`
	Path      string        `mapstructure:"path"`
	Method    string        `mapstructure:"method"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	UserAgent string        `mapstructure:"user-agent"`
}

type ScoringConfig struct {
	Provider  string        `mapstructure:"provider"`
	URL       string        `mapstructure:"url"`
	Timeout   time.Duration `mapstructure:"timeout"`
	Token     string        `mapstructure:"token"`
	TokenFile string        `mapstructure:"token-file"`
	Gemini    GeminiConfig  `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKey       string `mapstructure:"api-key"`
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "assessor provisions candidates, hands out timed tests and records their scores",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is assessor.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))

	setDefaults(viper.GetViper())
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("http.listen", ":8000")
	v.SetDefault("http.request-timeout", 90*time.Second)
	v.SetDefault("http.debug", false)
	v.SetDefault("http.shutdown-grace", 15*time.Second)
	v.SetDefault("http.drain-delay", time.Duration(0))

	v.SetDefault("store", storePostgres)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max-conns", 10)
	v.SetDefault("database.migrate", false)

	v.SetDefault("hr.base-url", "")
	v.SetDefault("hr.path", "/api/jd/get-filteredCandidateByEmail")
	v.SetDefault("hr.method", "POST")
	v.SetDefault("hr.timeout", 30*time.Second)
	v.SetDefault("hr.token", "")
	v.SetDefault("hr.token-file", "")
	v.SetDefault("hr.user-agent", "")

	v.SetDefault("scoring.provider", "remote")
	v.SetDefault("scoring.url", "")
	v.SetDefault("scoring.timeout", 60*time.Second)
	v.SetDefault("scoring.token", "")
	v.SetDefault("scoring.token-file", "")
	v.SetDefault("scoring.gemini.api-key", "")
	v.SetDefault("scoring.gemini.api-key-file", "")
	v.SetDefault("scoring.gemini.model", "gemini-2.5-pro")
	v.SetDefault("scoring.gemini.max-log-length", 300)
}

func initConfig() {
	// A .env file is a convenience for local runs; variables already set win.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env: %v", err)
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app)
		viper.SetConfigType("yaml")
	}

	// The config file is optional unless it was given explicitly.
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			log.Fatal(err)
		}
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	return config, nil
}
