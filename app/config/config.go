// Package config loads folio settings from defaults, a yaml file, FOLIO_*
// environment variables and command-line flags, in increasing precedence.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the full application configuration.
type Config struct {
	DataDir string        `mapstructure:"data_dir"`
	Listen  string        `mapstructure:"listen"`
	Log     LogConfig     `mapstructure:"log"`
	Session SessionConfig `mapstructure:"session"`
	Store   StoreConfig   `mapstructure:"store"`
	Auth    AuthConfig    `mapstructure:"auth"`
	Filter  FilterConfig  `mapstructure:"filter"`
}

type LogConfig struct {
	Level string `mapstructure:"level"`
}

type SessionConfig struct {
	Secret string        `mapstructure:"secret"`
	TTL    time.Duration `mapstructure:"ttl"`
	Secure bool          `mapstructure:"secure"`
}

// StoreConfig bounds every repository call.
type StoreConfig struct {
	Timeout      time.Duration `mapstructure:"timeout"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff"`
}

type AuthConfig struct {
	Hasher     string `mapstructure:"hasher"`
	BcryptCost int    `mapstructure:"bcrypt_cost"`
}

// FilterConfig carries the comment rules. RulesFile, when set, replaces the
// inline patterns.
type FilterConfig struct {
	MaxLength       int      `mapstructure:"max_length"`
	MaxAuthorLength int      `mapstructure:"max_author_length"`
	Patterns        []string `mapstructure:"patterns"`
	Regexps         []string `mapstructure:"regexps"`
	RulesFile       string   `mapstructure:"rules_file"`
}

// DefaultSessionSecret is the placeholder cookie secret shipped in Defaults.
const DefaultSessionSecret = "dev-insecure-secret-change-me"

// Defaults returns the built-in settings.
func Defaults() map[string]any {
	return map[string]any{
		"data_dir":                 "data/badger",
		"listen":                   ":8080",
		"log.level":                "info",
		"session.secret":           DefaultSessionSecret,
		"session.ttl":              "168h",
		"session.secure":           false,
		"store.timeout":            "5s",
		"store.retry_backoff":      "25ms",
		"auth.hasher":              "bcrypt",
		"auth.bcrypt_cost":         10,
		"filter.max_length":        500,
		"filter.max_author_length": 50,
		"filter.patterns":          []string{"badword1", "badword2"},
		"filter.regexps":           []string{},
		"filter.rules_file":        "",
	}
}

// flagKeys maps command-line flag names onto config keys.
var flagKeys = map[string]string{
	"data-dir":  "data_dir",
	"listen":    "listen",
	"log-level": "log.level",
}

// Load builds a Config. file may be empty, in which case folio.yaml is looked
// up in the working directory; a missing file is not an error. flags may be nil.
func Load(file string, flags *pflag.FlagSet) (Config, error) {
	var c Config
	v := viper.New()

	for key, value := range Defaults() {
		v.SetDefault(key, value)
	}

	v.SetConfigType("yaml")
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("folio")
		v.AddConfigPath(".")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if file != "" || !errors.As(err, &notFound) {
			return c, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("folio")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for name, key := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return c, fmt.Errorf("bind flag %s: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, fmt.Errorf("decode config: %w", err)
	}
	return c, c.Validate()
}

// InsecureSecret reports whether cookies are still signed with the
// placeholder secret.
func (c Config) InsecureSecret() bool {
	return c.Session.Secret == DefaultSessionSecret
}

// Validate rejects settings the rest of the program cannot work with.
func (c Config) Validate() error {
	if c.DataDir == "" {
		return errors.New("data_dir must be set")
	}
	if c.Session.TTL <= 0 {
		return errors.New("session.ttl must be positive")
	}
	if c.Store.Timeout <= 0 {
		return errors.New("store.timeout must be positive")
	}
	if c.Filter.MaxLength <= 0 {
		return errors.New("filter.max_length must be positive")
	}
	switch c.Auth.Hasher {
	case "bcrypt", "argon2id":
	default:
		return fmt.Errorf("auth.hasher %q is not supported", c.Auth.Hasher)
	}
	return nil
}
