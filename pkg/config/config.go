// Package config loads crashviz settings.
//
// Settings come from three layers, later ones winning:
//
//  1. built-in defaults
//  2. a TOML file (crashviz.toml, or the path in CRASHVIZ_CONFIG)
//  3. CRASHVIZ_* environment variables, which may be set in a .env file
//
// Command-line flags are applied on top by the CLI.
//
// # File format
//
//	[chart]
//	width = 960
//	height = 600
//	padding = 2
//
//	[tooltip]
//	char_width = 7
//	line_height = 16
//
//	[source]
//	kind = "csv"
//	path = "data/crashes.csv"
//
//	[cache]
//	backend = "redis"
//	redis_url = "redis://localhost:6379/0"
//
//	[server]
//	addr = ":8080"
package config

import (
	"errors"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	apperrors "github.com/matzehuels/crashviz/pkg/errors"
	"github.com/matzehuels/crashviz/pkg/interact"
	"github.com/matzehuels/crashviz/pkg/source/mongosource"
)

// AppName names config, cache and env artifacts.
const AppName = "crashviz"

// Source kinds.
const (
	SourceCSV   = "csv"
	SourceMongo = "mongo"
)

// Cache backends.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Defaults.
const (
	DefaultWidth   = 960.0
	DefaultHeight  = 600.0
	DefaultPadding = 2.0
	DefaultAddr    = "127.0.0.1:8080"
	DefaultFile    = "crashviz.toml"
	DefaultEnvFile = ".env"
)

// Config is the complete crashviz configuration.
type Config struct {
	Chart   ChartConfig      `toml:"chart"`
	Tooltip interact.Metrics `toml:"tooltip"`
	Source  SourceConfig     `toml:"source"`
	Cache   CacheConfig      `toml:"cache"`
	Server  ServerConfig     `toml:"server"`

	// paddingSet records an explicit padding, since 0 is a valid value.
	paddingSet bool
}

// ChartConfig sizes the charts.
type ChartConfig struct {
	Width   float64 `toml:"width"`
	Height  float64 `toml:"height"`
	Padding float64 `toml:"padding"`
}

// SourceConfig selects where records come from.
type SourceConfig struct {
	Kind  string             `toml:"kind"`
	Path  string             `toml:"path"`
	Comma string             `toml:"comma"`
	Mongo mongosource.Config `toml:"mongo"`
}

// CacheConfig selects the render cache.
type CacheConfig struct {
	Backend  string `toml:"backend"`
	Dir      string `toml:"dir"`
	RedisURL string `toml:"redis_url"`
	Prefix   string `toml:"prefix"`
}

// ServerConfig configures `crashviz serve`.
type ServerConfig struct {
	Addr         string        `toml:"addr"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
}

// Default returns a configuration with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero fields with defaults.
func (c *Config) SetDefaults() {
	if c.Chart.Width == 0 {
		c.Chart.Width = DefaultWidth
	}
	if c.Chart.Height == 0 {
		c.Chart.Height = DefaultHeight
	}
	if !c.paddingSet && c.Chart.Padding == 0 {
		c.Chart.Padding = DefaultPadding
	}
	if c.Tooltip.CharWidth == 0 {
		c.Tooltip.CharWidth = interact.DefaultMetrics.CharWidth
	}
	if c.Tooltip.LineHeight == 0 {
		c.Tooltip.LineHeight = interact.DefaultMetrics.LineHeight
	}
	if c.Tooltip.Padding == 0 {
		c.Tooltip.Padding = interact.DefaultMetrics.Padding
	}
	if c.Source.Kind == "" {
		c.Source.Kind = SourceCSV
	}
	if c.Source.Comma == "" {
		c.Source.Comma = ","
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = CacheFile
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = 10 * time.Second
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = 30 * time.Second
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	invalid := func(format string, args ...any) error {
		return apperrors.New(apperrors.ErrCodeInvalidConfig, format, args...)
	}
	if !positive(c.Chart.Width) || !positive(c.Chart.Height) {
		return invalid("chart size must be positive, got %vx%v", c.Chart.Width, c.Chart.Height)
	}
	if math.IsNaN(c.Chart.Padding) || c.Chart.Padding < 0 {
		return invalid("chart padding must not be negative, got %v", c.Chart.Padding)
	}
	if c.Tooltip.CharWidth <= 0 || c.Tooltip.LineHeight <= 0 || c.Tooltip.Padding < 0 {
		return invalid("tooltip metrics must be positive")
	}

	switch c.Source.Kind {
	case SourceCSV:
		if c.Source.Path != "" {
			if err := apperrors.ValidateSourcePath(c.Source.Path); err != nil {
				return err
			}
		}
		if len([]rune(c.Source.Comma)) != 1 {
			return invalid("source comma must be a single character, got %q", c.Source.Comma)
		}
	case SourceMongo:
		m := c.Source.Mongo
		if err := apperrors.ValidateURL(m.URI, "mongodb", "mongodb+srv"); err != nil {
			return err
		}
		if m.Database == "" || m.Collection == "" {
			return invalid("mongo source needs database and collection")
		}
	default:
		return invalid("unknown source kind %q (must be csv or mongo)", c.Source.Kind)
	}

	switch c.Cache.Backend {
	case CacheFile, CacheNone:
	case CacheRedis:
		if err := apperrors.ValidateURL(c.Cache.RedisURL, "redis", "rediss"); err != nil {
			return err
		}
	default:
		return invalid("unknown cache backend %q (must be file, redis or none)", c.Cache.Backend)
	}
	return nil
}

// CommaRune returns the CSV delimiter as a rune.
func (s SourceConfig) CommaRune() rune {
	for _, r := range s.Comma {
		return r
	}
	return ','
}

func positive(v float64) bool { return v > 0 && !math.IsInf(v, 0) }

// =============================================================================
// Loading
// =============================================================================

// Load reads the config file at path (DefaultPath when empty), loads envFiles
// (DefaultEnvFile when none are given), applies environment overrides,
// fills defaults and validates the result.
func Load(path string, envFiles ...string) (*Config, error) {
	if err := LoadEnv(envFiles...); err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPath()
	}

	c := &Config{}
	if path != "" {
		if err := c.decodeFile(path); err != nil {
			return nil, err
		}
	}
	if err := c.ApplyEnv(); err != nil {
		return nil, err
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) decodeFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if errors.Is(err, fs.ErrNotExist) {
		return apperrors.Wrap(apperrors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	c.paddingSet = md.IsDefined("chart", "padding")
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return apperrors.New(apperrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadEnv loads .env files into the process environment without overriding
// variables that are already set. Missing files are skipped.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{DefaultEnvFile}
	}
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "load %s", f)
		}
	}
	return nil
}

// DefaultPath returns $CRASHVIZ_CONFIG, or DefaultFile when it exists in the
// working directory, or "".
func DefaultPath() string {
	if p := os.Getenv("CRASHVIZ_CONFIG"); p != "" {
		return p
	}
	if _, err := os.Stat(DefaultFile); err == nil {
		return DefaultFile
	}
	return ""
}

// DefaultCacheDir returns $XDG_CACHE_HOME/crashviz or ~/.cache/crashviz.
func DefaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", AppName), nil
}

// =============================================================================
// Environment
// =============================================================================

type envVar struct {
	name  string
	apply func(c *Config, v string) error
}

func setString(dst func(*Config) *string) func(*Config, string) error {
	return func(c *Config, v string) error {
		*dst(c) = v
		return nil
	}
}

func setFloat(name string, dst func(*Config) *float64) func(*Config, string) error {
	return func(c *Config, v string) error {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInvalidConfig, err, "%s", name)
		}
		*dst(c) = f
		return nil
	}
}

var envVars = []envVar{
	{"CRASHVIZ_WIDTH", setFloat("CRASHVIZ_WIDTH", func(c *Config) *float64 { return &c.Chart.Width })},
	{"CRASHVIZ_HEIGHT", setFloat("CRASHVIZ_HEIGHT", func(c *Config) *float64 { return &c.Chart.Height })},
	{"CRASHVIZ_PADDING", setFloat("CRASHVIZ_PADDING", func(c *Config) *float64 { return &c.Chart.Padding })},
	{"CRASHVIZ_SOURCE_KIND", setString(func(c *Config) *string { return &c.Source.Kind })},
	{"CRASHVIZ_SOURCE", setString(func(c *Config) *string { return &c.Source.Path })},
	{"CRASHVIZ_MONGO_URI", setString(func(c *Config) *string { return &c.Source.Mongo.URI })},
	{"CRASHVIZ_MONGO_DATABASE", setString(func(c *Config) *string { return &c.Source.Mongo.Database })},
	{"CRASHVIZ_MONGO_COLLECTION", setString(func(c *Config) *string { return &c.Source.Mongo.Collection })},
	{"CRASHVIZ_CACHE", setString(func(c *Config) *string { return &c.Cache.Backend })},
	{"CRASHVIZ_CACHE_DIR", setString(func(c *Config) *string { return &c.Cache.Dir })},
	{"CRASHVIZ_REDIS_URL", setString(func(c *Config) *string { return &c.Cache.RedisURL })},
	{"CRASHVIZ_ADDR", setString(func(c *Config) *string { return &c.Server.Addr })},
}

// ApplyEnv overrides settings from CRASHVIZ_* variables.
func (c *Config) ApplyEnv() error {
	for _, ev := range envVars {
		v, ok := os.LookupEnv(ev.name)
		if !ok || v == "" {
			continue
		}
		if err := ev.apply(c, v); err != nil {
			return err
		}
		if ev.name == "CRASHVIZ_PADDING" {
			c.paddingSet = true
		}
	}
	return nil
}
