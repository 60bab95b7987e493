// Package config holds the runtime configuration for the bridge: where the
// BokehJS assets are served from, which plugins and fonts to load, and the
// sizing defaults applied when a chart definition carries none.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/bokehbridge/bokehbridge/internal/bokeh"
)

// Config represents the top-level configuration.
type Config struct {
	CDN      CDNConfig      `yaml:"cdn"`
	Font     FontConfig     `yaml:"font"`
	Timeouts TimeoutConfig  `yaml:"timeouts"`
	Defaults DefaultsConfig `yaml:"defaults"`
	Server   ServerConfig   `yaml:"server"`
}

// CDNConfig describes where the charting library's scripts and styles live.
type CDNConfig struct {
	// BaseURL is the release root, without a trailing slash.
	BaseURL string `yaml:"baseUrl"`

	// Version selects the release. Must match the version the server-side
	// serializer pins, or the embed payload will not deserialize.
	Version string `yaml:"version"`

	// Plugins are the library extensions loaded after the core bundle.
	Plugins []string `yaml:"plugins"`

	// Stylesheets are additional stylesheet URLs loaded alongside plugins.
	Stylesheets []string `yaml:"stylesheets,omitempty"`
}

// FontConfig describes the host font registered before drawing.
type FontConfig struct {
	Family string `yaml:"family"`

	// Weights lists the weight variants to register individually.
	Weights []int `yaml:"weights"`

	// URLTemplate produces a font file URL from a weight, e.g.
	// "https://fonts.example.com/source-sans-pro-%d.woff2".
	URLTemplate string `yaml:"urlTemplate"`
}

// TimeoutConfig bounds the waits on external resources.
type TimeoutConfig struct {
	// AssetLoad caps a single resource load, including the post-load probe
	// for the library's global entry point.
	AssetLoad time.Duration `yaml:"assetLoad"`
}

// UnmarshalYAML accepts Go duration strings ("5s", "1m30s") for the timeout
// fields.
func (t *TimeoutConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		AssetLoad string `yaml:"assetLoad"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}

	if raw.AssetLoad != "" {
		d, err := time.ParseDuration(raw.AssetLoad)
		if err != nil {
			return fmt.Errorf("invalid assetLoad timeout %q: %w", raw.AssetLoad, err)
		}
		t.AssetLoad = d
	}
	return nil
}

// DefaultsConfig carries fallbacks applied when the host or the chart
// definition leaves something unspecified.
type DefaultsConfig struct {
	// Width and Height are used when a chart definition has no native size.
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`

	// Theme is the theme selection applied when the host sends none.
	Theme string `yaml:"theme"`
}

// ServerConfig configures the dev server started by `bokehbridge serve`.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	return &Config{
		CDN: CDNConfig{
			BaseURL: "https://cdn.bokeh.org/bokeh/release",
			Version: bokeh.Version,
			Plugins: []string{"widgets", "tables", "gl", "mathjax"},
		},
		Font: FontConfig{
			Family:      "Source Sans Pro",
			Weights:     []int{400, 600, 700},
			URLTemplate: "https://fonts.cdn.snowflake.com/source-sans-pro/source-sans-pro-%d.woff2",
		},
		Timeouts: TimeoutConfig{
			AssetLoad: 8 * time.Second,
		},
		Defaults: DefaultsConfig{
			Width:  400,
			Height: 350,
			Theme:  "streamlit",
		},
		Server: ServerConfig{
			Addr: ":7342",
		},
	}
}

// Load loads a configuration file, layering it over the defaults so a
// partial file only overrides what it mentions.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return config, nil
}

// Validate checks the configuration for values the bridge cannot work with.
func (c *Config) Validate() error {
	if c.CDN.BaseURL == "" {
		return fmt.Errorf("cdn baseUrl cannot be empty")
	}
	if c.CDN.Version == "" {
		return fmt.Errorf("cdn version cannot be empty")
	}

	if c.Font.Family == "" {
		return fmt.Errorf("font family cannot be empty")
	}
	if len(c.Font.Weights) > 0 && c.Font.URLTemplate == "" {
		return fmt.Errorf("font urlTemplate required when weights are configured")
	}
	for _, w := range c.Font.Weights {
		if w < 100 || w > 900 {
			return fmt.Errorf("invalid font weight %d", w)
		}
	}

	if c.Timeouts.AssetLoad <= 0 {
		return fmt.Errorf("assetLoad timeout must be positive")
	}

	if c.Defaults.Width <= 0 || c.Defaults.Height <= 0 {
		return fmt.Errorf("default dimensions must be positive")
	}

	return nil
}

// CoreURL returns the URL of the core library bundle.
func (c *Config) CoreURL() string {
	return fmt.Sprintf("%s/bokeh-%s.min.js", c.CDN.BaseURL, c.CDN.Version)
}

// PluginURLs returns the URLs of the configured plugin bundles.
func (c *Config) PluginURLs() []string {
	urls := make([]string, 0, len(c.CDN.Plugins))
	for _, p := range c.CDN.Plugins {
		urls = append(urls, fmt.Sprintf("%s/bokeh-%s-%s.min.js", c.CDN.BaseURL, p, c.CDN.Version))
	}
	return urls
}

// FontURL returns the font file URL for one weight variant.
func (c *Config) FontURL(weight int) string {
	return fmt.Sprintf(c.Font.URLTemplate, weight)
}
