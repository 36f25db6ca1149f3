package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	App      App      `mapstructure:"app"`
	AI       AI       `mapstructure:"ai"`
	Search   Search   `mapstructure:"search"`
	Validate Validate `mapstructure:"validate"`
	Render   Render   `mapstructure:"render"`
	Email    Email    `mapstructure:"email"`
	Server   Server   `mapstructure:"server"`
}

// App holds general application configuration
type App struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// AI holds AI/LLM configuration
type AI struct {
	Gemini GeminiConfig `mapstructure:"gemini"`
	OpenAI OpenAIConfig `mapstructure:"openai"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// OpenAIConfig holds OpenAI configuration
type OpenAIConfig struct {
	APIKey string `mapstructure:"api_key"`
	Model  string `mapstructure:"model"`
}

// Search holds search provider configuration
type Search struct {
	Provider   string        `mapstructure:"provider"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
	Tavily     TavilyConfig  `mapstructure:"tavily"`
}

// TavilyConfig holds Tavily search configuration
type TavilyConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
}

// Validate holds URL validation configuration
type Validate struct {
	Timeout       time.Duration `mapstructure:"timeout"`         // Budget per URL check
	MinImageBytes int64         `mapstructure:"min_image_bytes"` // Smaller declared sizes are treated as decorative assets
	Concurrency   int           `mapstructure:"concurrency"`     // Simultaneous checks in a batch
}

// Render holds page-render (headless browser) configuration
type Render struct {
	Timeout     time.Duration `mapstructure:"timeout"`      // Navigation budget, independent of validate.timeout
	SettleDelay time.Duration `mapstructure:"settle_delay"` // Wait after navigation before reading the DOM
	Concurrency int           `mapstructure:"concurrency"`  // Simultaneous per-article discovery tasks
}

// Email holds email delivery (Stibee) configuration
type Email struct {
	APIKey      string `mapstructure:"api_key"`
	ListID      string `mapstructure:"list_id"`
	SenderEmail string `mapstructure:"sender_email"`
	SenderName  string `mapstructure:"sender_name"`
	BaseURL     string `mapstructure:"base_url"`
}

// Server holds HTTP server configuration
type Server struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

var globalConfig *Config

// Load reads configuration from .env, a config file and environment
// variables, in that order of increasing precedence.
func Load(configFile string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	// Load .env file if it exists
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Printf("Warning: Error loading .env file: %v\n", err)
		}
	}

	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME")
		viper.SetConfigName(".letterly")
		viper.SetConfigType("yaml")
	}

	setDefaults()
	bindEnvironmentVariables()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, err
	}

	globalConfig = config
	return config, nil
}

// Get returns the global configuration, loading it if necessary
func Get() *Config {
	if globalConfig == nil {
		config, err := Load("")
		if err != nil {
			panic(fmt.Sprintf("Failed to load configuration: %v", err))
		}
		return config
	}
	return globalConfig
}

// Reset clears the cached global configuration. Intended for tests.
func Reset() {
	globalConfig = nil
	viper.Reset()
}

func setDefaults() {
	viper.SetDefault("app.debug", false)
	viper.SetDefault("app.log_level", "info")

	viper.SetDefault("ai.gemini.model", "gemini-2.0-flash")
	viper.SetDefault("ai.openai.model", "gpt-4o")

	viper.SetDefault("search.provider", "tavily")
	viper.SetDefault("search.max_results", 5)
	viper.SetDefault("search.timeout", "30s")
	viper.SetDefault("search.tavily.base_url", "https://api.tavily.com")

	viper.SetDefault("validate.timeout", "3s")
	viper.SetDefault("validate.min_image_bytes", 5120)
	viper.SetDefault("validate.concurrency", 10)

	viper.SetDefault("render.timeout", "10s")
	viper.SetDefault("render.settle_delay", "2s")
	viper.SetDefault("render.concurrency", 5)

	viper.SetDefault("email.base_url", "https://api.stibee.com/v2")

	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8000)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "120s")
	viper.SetDefault("server.allowed_origins", []string{"*"})
}

func bindEnvironmentVariables() {
	envBindings := map[string][]string{
		"ai.gemini.api_key":     {"GEMINI_API_KEY", "GOOGLE_AI_API_KEY"},
		"ai.openai.api_key":     {"OPENAI_API_KEY"},
		"search.tavily.api_key": {"TAVILY_API_KEY"},
		"email.api_key":         {"STIBEE_API_KEY"},
		"email.list_id":         {"STIBEE_LIST_ID"},
		"email.sender_email":    {"STIBEE_SENDER_EMAIL"},
		"email.sender_name":     {"STIBEE_SENDER_NAME"},
	}

	for viperKey, envKeys := range envBindings {
		args := append([]string{viperKey}, envKeys...)
		if err := viper.BindEnv(args...); err != nil {
			fmt.Printf("Warning: Failed to bind env var for %s: %v\n", viperKey, err)
		}
	}
}

func validateConfig(config *Config) error {
	if config.Search.MaxResults <= 0 {
		return fmt.Errorf("search.max_results must be positive, got %d", config.Search.MaxResults)
	}
	if config.Validate.Concurrency <= 0 {
		return fmt.Errorf("validate.concurrency must be positive, got %d", config.Validate.Concurrency)
	}
	if config.Render.Concurrency <= 0 {
		return fmt.Errorf("render.concurrency must be positive, got %d", config.Render.Concurrency)
	}
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1-65535, got %d", config.Server.Port)
	}
	return nil
}

// Convenience accessors
func GetApp() App           { return Get().App }
func GetAI() AI             { return Get().AI }
func GetSearch() Search     { return Get().Search }
func GetValidate() Validate { return Get().Validate }
func GetRender() Render     { return Get().Render }
func GetEmail() Email       { return Get().Email }
func GetServer() Server     { return Get().Server }
