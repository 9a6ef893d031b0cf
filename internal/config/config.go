package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/pders01/homepage/internal/validation"
)

const (
	DefaultPriceURL     = "https://api.whatsonchain.com/v1/bsv/main/exchangerate"
	DefaultSentimentURL = "https://api.alternative.me/fng/?limit=1"
)

type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Feeds    FeedsConfig    `mapstructure:"feeds"`
	Ticker   TickerConfig   `mapstructure:"ticker"`
	Tooltip  TooltipConfig  `mapstructure:"tooltip"`
	Content  ContentConfig  `mapstructure:"content"`
	UI       UIConfig       `mapstructure:"ui"`
	Keys     KeyConfig      `mapstructure:"keys"`
	Log      LogConfig      `mapstructure:"log"`
}

type DatabaseConfig struct {
	Path    string        `mapstructure:"path"`
	Timeout time.Duration `mapstructure:"timeout"`
}

type FeedsConfig struct {
	HTTPTimeout     time.Duration `mapstructure:"http_timeout"`
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	UserAgent       string        `mapstructure:"user_agent"`
	AllowPrivate    bool          `mapstructure:"allow_private"`
	// ShowPlaceholders keeps "unknown" fragments of feeds that never
	// produced a value in the ticker instead of hiding them.
	ShowPlaceholders bool           `mapstructure:"show_placeholders"`
	Price            EndpointConfig `mapstructure:"price"`
	Sentiment        EndpointConfig `mapstructure:"sentiment"`
}

type EndpointConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	URL     string        `mapstructure:"url"`
	TTL     time.Duration `mapstructure:"ttl"`
}

type TickerConfig struct {
	MessageSource  string `mapstructure:"message_source"`
	DefaultMessage string `mapstructure:"default_message"`
	Repeat         int    `mapstructure:"repeat"`
}

type TooltipConfig struct {
	RevertDelay time.Duration `mapstructure:"revert_delay"`
	TapPrompt   string        `mapstructure:"tap_prompt"`
}

type ContentConfig struct {
	ListPath string `mapstructure:"list_path"`
}

type UIConfig struct {
	Mobile bool `mapstructure:"mobile"`
	// Opener launches followed links. Empty means the platform default.
	Opener string   `mapstructure:"opener"`
	Colors UIColors `mapstructure:"colors"`
}

type UIColors struct {
	Primary   string `mapstructure:"primary"`
	Secondary string `mapstructure:"secondary"`
	Accent    string `mapstructure:"accent"`
	Text      string `mapstructure:"text"`
	Muted     string `mapstructure:"muted"`
}

type KeyConfig struct {
	Bindings KeyBindings `mapstructure:"bindings"`
}

type KeyBindings struct {
	Quit       string `mapstructure:"quit"`
	Tap        string `mapstructure:"tap"`
	Outside    string `mapstructure:"outside"`
	Escape     string `mapstructure:"escape"`
	Blur       string `mapstructure:"blur"`
	Hide       string `mapstructure:"hide"`
	ToggleMode string `mapstructure:"toggle_mode"`
	Refresh    string `mapstructure:"refresh"`
	Help       string `mapstructure:"help"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Path  string `mapstructure:"path"`
}

func defaultConfig() *Config {
	homeDir, _ := os.UserHomeDir()

	return &Config{
		Database: DatabaseConfig{
			Path:    filepath.Join(homeDir, ".homepage", "cache.db"),
			Timeout: 1 * time.Second,
		},
		Feeds: FeedsConfig{
			HTTPTimeout:     10 * time.Second,
			RefreshInterval: 5 * time.Minute,
			UserAgent:       "homepage/1.0 (+https://github.com/pders01/homepage)",
			Price: EndpointConfig{
				Enabled: true,
				URL:     DefaultPriceURL,
				TTL:     10 * time.Minute,
			},
			Sentiment: EndpointConfig{
				Enabled: true,
				URL:     DefaultSentimentURL,
				TTL:     24 * time.Hour,
			},
		},
		Ticker: TickerConfig{
			MessageSource:  "tooltip-message.txt",
			DefaultMessage: "Loading...",
			Repeat:         5,
		},
		Tooltip: TooltipConfig{
			RevertDelay: 2 * time.Second,
			TapPrompt:   "Tap again to open",
		},
		Content: ContentConfig{
			ListPath: "list.json",
		},
		UI: UIConfig{
			Colors: UIColors{
				Primary:   "#FF6B6B",
				Secondary: "#4ECDC4",
				Accent:    "#95E1D3",
				Text:      "#EAEAEA",
				Muted:     "#94A3B8",
			},
		},
		Keys: KeyConfig{
			Bindings: KeyBindings{
				Quit:       "q",
				Tap:        "enter",
				Outside:    "o",
				Escape:     "esc",
				Blur:       "b",
				Hide:       "h",
				ToggleMode: "m",
				Refresh:    "r",
				Help:       "?",
			},
		},
		Log: LogConfig{
			Level: "off",
		},
	}
}

// Default returns a fresh copy of the built-in configuration.
func Default() *Config {
	return defaultConfig()
}

// flatten maps every leaf setting to its dotted viper key. Defaults are
// registered per leaf so a file that overrides one field of a section keeps
// the defaults of its siblings.
func flatten(cfg *Config) map[string]any {
	return map[string]any{
		"database.path":    cfg.Database.Path,
		"database.timeout": cfg.Database.Timeout,

		"feeds.http_timeout":      cfg.Feeds.HTTPTimeout,
		"feeds.refresh_interval":  cfg.Feeds.RefreshInterval,
		"feeds.user_agent":        cfg.Feeds.UserAgent,
		"feeds.allow_private":     cfg.Feeds.AllowPrivate,
		"feeds.show_placeholders": cfg.Feeds.ShowPlaceholders,
		"feeds.price.enabled":     cfg.Feeds.Price.Enabled,
		"feeds.price.url":         cfg.Feeds.Price.URL,
		"feeds.price.ttl":         cfg.Feeds.Price.TTL,
		"feeds.sentiment.enabled": cfg.Feeds.Sentiment.Enabled,
		"feeds.sentiment.url":     cfg.Feeds.Sentiment.URL,
		"feeds.sentiment.ttl":     cfg.Feeds.Sentiment.TTL,

		"ticker.message_source":  cfg.Ticker.MessageSource,
		"ticker.default_message": cfg.Ticker.DefaultMessage,
		"ticker.repeat":          cfg.Ticker.Repeat,

		"tooltip.revert_delay": cfg.Tooltip.RevertDelay,
		"tooltip.tap_prompt":   cfg.Tooltip.TapPrompt,

		"content.list_path": cfg.Content.ListPath,

		"ui.mobile":           cfg.UI.Mobile,
		"ui.opener":           cfg.UI.Opener,
		"ui.colors.primary":   cfg.UI.Colors.Primary,
		"ui.colors.secondary": cfg.UI.Colors.Secondary,
		"ui.colors.accent":    cfg.UI.Colors.Accent,
		"ui.colors.text":      cfg.UI.Colors.Text,
		"ui.colors.muted":     cfg.UI.Colors.Muted,

		"keys.bindings.quit":        cfg.Keys.Bindings.Quit,
		"keys.bindings.tap":         cfg.Keys.Bindings.Tap,
		"keys.bindings.outside":     cfg.Keys.Bindings.Outside,
		"keys.bindings.escape":      cfg.Keys.Bindings.Escape,
		"keys.bindings.blur":        cfg.Keys.Bindings.Blur,
		"keys.bindings.hide":        cfg.Keys.Bindings.Hide,
		"keys.bindings.toggle_mode": cfg.Keys.Bindings.ToggleMode,
		"keys.bindings.refresh":     cfg.Keys.Bindings.Refresh,
		"keys.bindings.help":        cfg.Keys.Bindings.Help,

		"log.level": cfg.Log.Level,
		"log.path":  cfg.Log.Path,
	}
}

func Load(configPath string) (*Config, error) {
	v := viper.New()

	for key, value := range flatten(defaultConfig()) {
		v.SetDefault(key, value)
	}

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		homeDir, _ := os.UserHomeDir()
		configDir := filepath.Join(homeDir, ".config", "homepage")

		v.SetConfigName("config")
		v.SetConfigType("toml")
		v.AddConfigPath(configDir)
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("HOMEPAGE")
	// HOMEPAGE_FEEDS_PRICE_TTL overrides feeds.price.ttl
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	expandPaths(&config)

	return &config, nil
}

// Validate checks the settings that would otherwise only fail at runtime.
func (c *Config) Validate() error {
	validator := validation.NewEndpointValidator()
	if c.Feeds.AllowPrivate {
		validator = validation.NewPermissiveEndpointValidator()
	}

	var errs []error
	for name, ep := range map[string]EndpointConfig{"price": c.Feeds.Price, "sentiment": c.Feeds.Sentiment} {
		if !ep.Enabled {
			continue
		}
		if _, err := validator.Validate(ep.URL); err != nil {
			errs = append(errs, fmt.Errorf("feeds.%s.url: %w", name, err))
		}
		if ep.TTL <= 0 {
			errs = append(errs, fmt.Errorf("feeds.%s.ttl must be positive", name))
		}
	}
	if c.Ticker.Repeat < 1 {
		errs = append(errs, fmt.Errorf("ticker.repeat must be at least 1"))
	}
	if c.Tooltip.RevertDelay < 0 {
		errs = append(errs, fmt.Errorf("tooltip.revert_delay must not be negative"))
	}
	return errors.Join(errs...)
}

// expandPath expands ~ to home directory and converts to absolute path
func expandPath(path string) string {
	if path == "" {
		return path
	}

	if len(path) >= 2 && path[:2] == "~/" {
		home, _ := os.UserHomeDir()
		path = filepath.Join(home, path[2:])
	}

	if !filepath.IsAbs(path) {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
	}

	return path
}

func expandPaths(cfg *Config) {
	cfg.Database.Path = expandPath(cfg.Database.Path)
	cfg.Log.Path = expandPath(cfg.Log.Path)
}

// Save writes the config as TOML. Durations are written in their string
// form so the file stays hand-editable.
func Save(config *Config, path string) error {
	doc := map[string]any{
		"database": map[string]any{
			"path":    config.Database.Path,
			"timeout": config.Database.Timeout.String(),
		},
		"feeds": map[string]any{
			"http_timeout":      config.Feeds.HTTPTimeout.String(),
			"refresh_interval":  config.Feeds.RefreshInterval.String(),
			"user_agent":        config.Feeds.UserAgent,
			"allow_private":     config.Feeds.AllowPrivate,
			"show_placeholders": config.Feeds.ShowPlaceholders,
			"price":             endpointDoc(config.Feeds.Price),
			"sentiment":         endpointDoc(config.Feeds.Sentiment),
		},
		"ticker": map[string]any{
			"message_source":  config.Ticker.MessageSource,
			"default_message": config.Ticker.DefaultMessage,
			"repeat":          config.Ticker.Repeat,
		},
		"tooltip": map[string]any{
			"revert_delay": config.Tooltip.RevertDelay.String(),
			"tap_prompt":   config.Tooltip.TapPrompt,
		},
		"content": map[string]any{
			"list_path": config.Content.ListPath,
		},
		"ui": map[string]any{
			"mobile": config.UI.Mobile,
			"opener": config.UI.Opener,
			"colors": map[string]any{
				"primary":   config.UI.Colors.Primary,
				"secondary": config.UI.Colors.Secondary,
				"accent":    config.UI.Colors.Accent,
				"text":      config.UI.Colors.Text,
				"muted":     config.UI.Colors.Muted,
			},
		},
		"keys": map[string]any{
			"bindings": map[string]any{
				"quit":        config.Keys.Bindings.Quit,
				"tap":         config.Keys.Bindings.Tap,
				"outside":     config.Keys.Bindings.Outside,
				"escape":      config.Keys.Bindings.Escape,
				"blur":        config.Keys.Bindings.Blur,
				"hide":        config.Keys.Bindings.Hide,
				"toggle_mode": config.Keys.Bindings.ToggleMode,
				"refresh":     config.Keys.Bindings.Refresh,
				"help":        config.Keys.Bindings.Help,
			},
		},
		"log": map[string]any{
			"level": config.Log.Level,
			"path":  config.Log.Path,
		},
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

func endpointDoc(ep EndpointConfig) map[string]any {
	return map[string]any{
		"enabled": ep.Enabled,
		"url":     ep.URL,
		"ttl":     ep.TTL.String(),
	}
}

// DefaultPath is where GenerateDefaultConfig writes when no path is given.
func DefaultPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "homepage", "config.toml")
}

func GenerateDefaultConfig(path string) error {
	return Save(defaultConfig(), path)
}
