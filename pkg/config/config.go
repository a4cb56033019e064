// Package config loads dropkit settings from a TOML file.
//
// Every field has a default, so a missing file or an empty section is
// valid. Load applies defaults before validating.
package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/dropkit/pkg/cache"
	"github.com/matzehuels/dropkit/pkg/errors"
	"github.com/matzehuels/dropkit/pkg/placement"
	"github.com/matzehuels/dropkit/pkg/transition"
)

const (
	appName  = "dropkit"
	fileName = "config.toml"

	DefaultItemHeight      = 30
	DefaultFrameIntervalMS = 16
	DefaultAddr            = ":8080"
	DefaultCacheTTLS       = 3600
)

// Config is the root of the TOML document.
type Config struct {
	Placement  Placement  `toml:"placement"`
	Transition Transition `toml:"transition"`
	Dropdown   Dropdown   `toml:"dropdown"`
	Server     Server     `toml:"server"`
}

// Placement configures the position engine.
type Placement struct {
	Margin        float64 `toml:"margin"`
	FlipPolicy    string  `toml:"flip_policy"`
	ThresholdRows int     `toml:"threshold_rows"`
}

// Transition configures the open/close animation.
type Transition struct {
	DurationMS      int     `toml:"duration_ms"`
	FadeFraction    float64 `toml:"fade_fraction"`
	FrameIntervalMS int     `toml:"frame_interval_ms"`
}

// Dropdown configures widget metrics. Zero font size and width are derived.
type Dropdown struct {
	ItemHeight float64 `toml:"item_height"`
	Width      float64 `toml:"width"`
	FontSize   float64 `toml:"font_size"`
}

// Server configures the HTTP API. Cache selects where simulation traces
// are kept between identical requests: "none", "file" or "redis".
type Server struct {
	Addr      string `toml:"addr"`
	Cache     string `toml:"cache"`
	CacheDir  string `toml:"cache_dir"`
	RedisAddr string `toml:"redis_addr"`
	CacheTTLS int    `toml:"cache_ttl_s"`
}

// Default returns a Config with every default applied.
func Default() *Config {
	c := &Config{}
	c.SetDefaults()
	return c
}

// SetDefaults fills zero-valued fields.
func (c *Config) SetDefaults() {
	if c.Placement.Margin == 0 {
		c.Placement.Margin = placement.DefaultMargin
	}
	if c.Placement.FlipPolicy == "" {
		c.Placement.FlipPolicy = placement.PolicySpace
	}
	if c.Placement.ThresholdRows == 0 {
		c.Placement.ThresholdRows = placement.DefaultThresholdRows
	}
	if c.Transition.DurationMS == 0 {
		c.Transition.DurationMS = int(transition.DefaultDuration / time.Millisecond)
	}
	if c.Transition.FadeFraction == 0 {
		c.Transition.FadeFraction = transition.DefaultFadeFraction
	}
	if c.Transition.FrameIntervalMS == 0 {
		c.Transition.FrameIntervalMS = DefaultFrameIntervalMS
	}
	if c.Dropdown.ItemHeight == 0 {
		c.Dropdown.ItemHeight = DefaultItemHeight
	}
	if c.Server.Addr == "" {
		c.Server.Addr = DefaultAddr
	}
	if c.Server.Cache == "" {
		c.Server.Cache = cache.BackendNone
	}
	if c.Server.CacheTTLS == 0 {
		c.Server.CacheTTLS = DefaultCacheTTLS
	}
}

// Validate checks ranges and names. Call SetDefaults first.
func (c *Config) Validate() error {
	if err := errors.ValidateNonNegative("placement.margin", c.Placement.Margin); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "placement")
	}
	if err := errors.ValidateChoice("placement.flip_policy", c.Placement.FlipPolicy,
		placement.PolicySpace, placement.PolicyRows); err != nil {
		return err
	}
	if c.Placement.ThresholdRows < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "placement.threshold_rows must be at least 1 (got %d)", c.Placement.ThresholdRows)
	}
	if c.Transition.DurationMS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "transition.duration_ms cannot be negative (got %d)", c.Transition.DurationMS)
	}
	if err := errors.ValidateFraction("transition.fade_fraction", c.Transition.FadeFraction); err != nil {
		return err
	}
	if c.Transition.FrameIntervalMS < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "transition.frame_interval_ms must be at least 1 (got %d)", c.Transition.FrameIntervalMS)
	}
	if err := errors.ValidatePositive("dropdown.item_height", c.Dropdown.ItemHeight); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dropdown")
	}
	if err := errors.ValidateNonNegative("dropdown.width", c.Dropdown.Width); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dropdown")
	}
	if err := errors.ValidateNonNegative("dropdown.font_size", c.Dropdown.FontSize); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "dropdown")
	}
	if err := errors.ValidateChoice("server.cache", c.Server.Cache,
		cache.BackendNone, cache.BackendFile, cache.BackendRedis); err != nil {
		return err
	}
	if strings.EqualFold(c.Server.Cache, cache.BackendRedis) && c.Server.RedisAddr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "server.redis_addr is required when server.cache is %q", cache.BackendRedis)
	}
	if c.Server.CacheTTLS < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "server.cache_ttl_s cannot be negative (got %d)", c.Server.CacheTTLS)
	}
	return nil
}

// Duration returns the transition duration.
func (c *Config) Duration() time.Duration {
	return time.Duration(c.Transition.DurationMS) * time.Millisecond
}

// FrameInterval returns the delay between animation frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Duration(c.Transition.FrameIntervalMS) * time.Millisecond
}

// CacheTTL returns how long cached traces live.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Server.CacheTTLS) * time.Second
}

// CacheOptions maps the server section onto cache backend options. An empty
// cache_dir resolves to the user cache directory
// (~/.cache/dropkit/traces).
func (c *Config) CacheOptions() cache.Options {
	backend := strings.ToLower(c.Server.Cache)
	dir := c.Server.CacheDir
	if dir == "" && backend == cache.BackendFile {
		dir = cacheDir()
	}
	return cache.Options{
		Backend:   backend,
		Dir:       dir,
		RedisAddr: c.Server.RedisAddr,
	}
}

func cacheDir() string {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName, "traces")
	}
	if base, err := os.UserCacheDir(); err == nil {
		return filepath.Join(base, appName, "traces")
	}
	return filepath.Join(os.TempDir(), appName, "traces")
}

// Policy resolves the configured flip policy.
func (c *Config) Policy() (placement.FlipPolicy, error) {
	return placement.PolicyByName(c.Placement.FlipPolicy, c.Placement.ThresholdRows)
}

// Engine builds a placement engine with the configured margin and policy.
func (c *Config) Engine(probe placement.ScrollProbe) (*placement.Engine, error) {
	policy, err := c.Policy()
	if err != nil {
		return nil, err
	}
	return placement.NewEngine(c.Placement.Margin, probe, policy), nil
}

// Path returns the default config file location using the XDG standard
// (~/.config/dropkit/config.toml).
func Path() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, fileName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName, fileName), nil
}

// Load reads path, applies defaults and validates. An empty path means the
// default location; a missing file at the default location yields the
// defaults, while a missing explicit path is an error.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := Path()
		if err != nil {
			return Default(), nil
		}
		path = p
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if explicit {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
		return Default(), nil
	}

	c := &Config{}
	if _, err := toml.DecodeFile(path, c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Parse decodes a TOML document, applies defaults and validates.
func Parse(data []byte) (*Config, error) {
	c := &Config{}
	if err := toml.Unmarshal(data, c); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config")
	}
	c.SetDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return c, nil
}

// Encode renders c as TOML.
func (c *Config) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write saves c to path, creating parent directories. It refuses to
// overwrite an existing file unless force is set.
func (c *Config) Write(path string, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
		}
	}
	data, err := c.Encode()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
