package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/timmy/memegpt/internal/domain"
)

type Config struct {
	LLM      LLMConfig      `mapstructure:"llm"`
	Imgflip  ImgflipConfig  `mapstructure:"imgflip"`
	Catalog  CatalogConfig  `mapstructure:"catalog"`
	Captions CaptionsConfig `mapstructure:"captions"`
	Browser  BrowserConfig  `mapstructure:"browser"`
	Log      LogConfig      `mapstructure:"log"`
}

// LLMConfig configures the OpenAI-compatible completion service.
type LLMConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	Temperature float32       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// ImgflipConfig configures the captioning service.
type ImgflipConfig struct {
	Username string        `mapstructure:"username"`
	Password string        `mapstructure:"password"`
	BaseURL  string        `mapstructure:"base_url"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

type CatalogConfig struct {
	Path string `mapstructure:"path"` // empty uses the embedded catalog
}

type CaptionsConfig struct {
	Strict bool `mapstructure:"strict"`
}

type BrowserConfig struct {
	Open bool `mapstructure:"open"`
}

type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	File       string `mapstructure:"file"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
}

// Load reads configuration from .env, an optional YAML file and the environment.
// Parameters:
//   - configPath: explicit config file; empty searches ./configs and . for config.yaml.
//
// Returns:
//   - *Config: loaded configuration (not yet validated).
//   - error: matches domain.ErrConfig if the file cannot be read or decoded.
func Load(configPath string) (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, domain.ConfigErrorf("failed to read config file: %v", err)
		}
	}

	// Conventional env names for secrets and the usual knobs
	bindEnv(v, "llm.api_key", "OPENAI_API_KEY", "LLM_API_KEY")
	bindEnv(v, "llm.base_url", "OPENAI_BASE_URL", "LLM_BASE_URL")
	bindEnv(v, "llm.model", "LLM_MODEL", "OPENAI_MODEL")
	bindEnv(v, "llm.temperature", "LLM_TEMPERATURE")
	bindEnv(v, "llm.timeout", "LLM_TIMEOUT")
	bindEnv(v, "imgflip.username", "IMGFLIP_USERNAME")
	bindEnv(v, "imgflip.password", "IMGFLIP_PASSWORD")
	bindEnv(v, "imgflip.base_url", "IMGFLIP_BASE_URL")
	bindEnv(v, "imgflip.timeout", "IMGFLIP_TIMEOUT")
	bindEnv(v, "catalog.path", "TEMPLATES_PATH")
	bindEnv(v, "captions.strict", "CAPTIONS_STRICT")
	bindEnv(v, "browser.open", "OPEN_BROWSER")
	bindEnv(v, "log.level", "LOG_LEVEL")
	bindEnv(v, "log.format", "LOG_FORMAT")
	bindEnv(v, "log.file", "LOG_FILE")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, domain.ConfigErrorf("failed to unmarshal config: %v", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("llm.base_url", "https://api.openai.com/v1")
	v.SetDefault("llm.model", "gpt-3.5-turbo")
	v.SetDefault("llm.temperature", 1.0)
	v.SetDefault("llm.timeout", 60*time.Second)
	v.SetDefault("imgflip.base_url", "https://api.imgflip.com")
	v.SetDefault("imgflip.timeout", 30*time.Second)
	v.SetDefault("catalog.path", "")
	v.SetDefault("captions.strict", true)
	v.SetDefault("browser.open", true)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 3)
	v.SetDefault("log.max_age_days", 28)
}

func bindEnv(v *viper.Viper, key string, envs ...string) {
	// BindEnv only fails when called without a key.
	_ = v.BindEnv(append([]string{key}, envs...)...)
}

// Validate checks that every value the generator needs is present.
// Returns an error matching domain.ErrConfig that names every problem found.
func (c *Config) Validate() error {
	var problems []string

	if c.LLM.APIKey == "" {
		problems = append(problems, "llm.api_key is required (set OPENAI_API_KEY)")
	}
	if c.LLM.Model == "" {
		problems = append(problems, "llm.model is required")
	}
	if c.LLM.BaseURL == "" {
		problems = append(problems, "llm.base_url is required")
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		problems = append(problems, fmt.Sprintf("llm.temperature must be between 0 and 2, got %g", c.LLM.Temperature))
	}
	if c.LLM.Timeout < 0 {
		problems = append(problems, "llm.timeout must not be negative")
	}
	if c.Imgflip.Username == "" {
		problems = append(problems, "imgflip.username is required (set IMGFLIP_USERNAME)")
	}
	if c.Imgflip.Password == "" {
		problems = append(problems, "imgflip.password is required (set IMGFLIP_PASSWORD)")
	}
	if c.Imgflip.BaseURL == "" {
		problems = append(problems, "imgflip.base_url is required")
	}
	if c.Imgflip.Timeout < 0 {
		problems = append(problems, "imgflip.timeout must not be negative")
	}

	if len(problems) > 0 {
		return domain.ConfigErrorf("%s", strings.Join(problems, "; "))
	}
	return nil
}
