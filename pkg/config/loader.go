package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/gameplay-tools/gameplay-mcp/pkg/logging"
)

// EnvConfigFile names the environment variable holding the config file path.
const EnvConfigFile = "GAMEPLAY_MCP_CONFIG"

// Common errors for configuration loading.
var (
	ErrFileNotFound = errors.New("configuration file not found")
	ErrInvalidYAML  = errors.New("invalid YAML syntax")
)

// ConfigError represents a configuration file error with location info.
type ConfigError struct {
	Path    string
	Line    int
	Message string
}

func (e *ConfigError) Error() string {
	if e.Line > 0 {
		return e.Path + " (line " + strconv.Itoa(e.Line) + "): " + e.Message
	}
	return e.Path + ": " + e.Message
}

func (e *ConfigError) Unwrap() error { return ErrInvalidYAML }

// LoadFile reads a partial Config from a YAML file. Only the settings present
// in the file are populated.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, &ConfigError{Path: path, Line: yamlErrorLine(err.Error()), Message: err.Error()}
	}
	return &cfg, nil
}

// yamlErrorLine extracts the first "line N" reference from a yaml.v3 error.
func yamlErrorLine(msg string) int {
	i := strings.Index(msg, "line ")
	if i < 0 {
		return 0
	}
	rest := msg[i+len("line "):]
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end < 0 {
		end = len(rest)
	}
	n, err := strconv.Atoi(rest[:end])
	if err != nil {
		return 0
	}
	return n
}

// Load resolves the full configuration from defaults, the config file and
// the environment, then validates it. An empty path falls back to
// $GAMEPLAY_MCP_CONFIG; with neither, no file is read.
func Load(path string) (*Config, error) {
	return load(path, os.LookupEnv)
}

func load(path string, lookup func(string) (string, bool)) (*Config, error) {
	cfg := NewDefault()

	if path == "" {
		path, _ = lookup(EnvConfigFile)
	}
	if path != "" {
		fileCfg, err := LoadFile(path)
		if err != nil {
			return nil, err
		}
		Merge(cfg, fileCfg, SourceFile)
	}

	if err := ApplyEnv(cfg, lookup); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Merge copies the non-zero settings of source into target and records
// sourceType for each of them.
func Merge(target, source *Config, sourceType string) {
	if source == nil {
		return
	}
	if target.Sources == nil {
		target.Sources = make(map[string]string)
	}
	set := func(key string) { target.Sources[key] = sourceType }

	mergeString(&target.Server.Host, source.Server.Host, func() { set("server.host") })
	if source.Server.Port != 0 {
		target.Server.Port = source.Server.Port
		set("server.port")
	}
	mergeDuration(&target.Server.ReadTimeout, source.Server.ReadTimeout, func() { set("server.readTimeout") })
	mergeDuration(&target.Server.WriteTimeout, source.Server.WriteTimeout, func() { set("server.writeTimeout") })

	mergeUpstream(&target.Upstreams.P4Diff, source.Upstreams.P4Diff, "upstreams.p4diff", set)
	mergeUpstream(&target.Upstreams.SprintInsights, source.Upstreams.SprintInsights, "upstreams.sprintInsights", set)
	mergeMetricsSource(&target.Upstreams.SkillsMetrics, source.Upstreams.SkillsMetrics, "upstreams.skillsMetrics", set)
	mergeMetricsSource(&target.Upstreams.ReviewMetrics, source.Upstreams.ReviewMetrics, "upstreams.reviewMetrics", set)

	mergeString(&target.Log.Level, source.Log.Level, func() { set("log.level") })
	mergeString(&target.Log.Format, source.Log.Format, func() { set("log.format") })
}

func mergeUpstream(target *UpstreamConfig, source UpstreamConfig, prefix string, set func(string)) {
	mergeString(&target.BaseURL, source.BaseURL, func() { set(prefix + ".baseUrl") })
	mergeDuration(&target.Timeout, source.Timeout, func() { set(prefix + ".timeout") })
}

func mergeMetricsSource(target *MetricsSourceConfig, source MetricsSourceConfig, prefix string, set func(string)) {
	mergeString(&target.URL, source.URL, func() { set(prefix + ".url") })
	mergeDuration(&target.Timeout, source.Timeout, func() { set(prefix + ".timeout") })
	if len(source.Families) > 0 {
		target.Families = append([]string(nil), source.Families...)
		set(prefix + ".families")
	}
}

func mergeString(target *string, value string, mark func()) {
	if value != "" {
		*target = value
		mark()
	}
}

func mergeDuration(target *time.Duration, value time.Duration, mark func()) {
	if value != 0 {
		*target = value
		mark()
	}
}

// ApplyEnv overlays environment variables onto cfg.
func ApplyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := func(name string, target *string, key string) {
		if v, ok := lookup(name); ok && v != "" {
			*target = v
			cfg.Sources[key] = SourceEnv
		}
	}

	str("P4DIFF_BASE_URL", &cfg.Upstreams.P4Diff.BaseURL, "upstreams.p4diff.baseUrl")
	str("SPRINT_INSIGHTS_BASE_URL", &cfg.Upstreams.SprintInsights.BaseURL, "upstreams.sprintInsights.baseUrl")
	str("SKILLS_METRICS_URL", &cfg.Upstreams.SkillsMetrics.URL, "upstreams.skillsMetrics.url")
	str("REVIEW_METRICS_URL", &cfg.Upstreams.ReviewMetrics.URL, "upstreams.reviewMetrics.url")
	str("GAMEPLAY_MCP_HOST", &cfg.Server.Host, "server.host")
	str("GAMEPLAY_MCP_LOG_LEVEL", &cfg.Log.Level, "log.level")
	str("GAMEPLAY_MCP_LOG_FORMAT", &cfg.Log.Format, "log.format")

	if v, ok := lookup("GAMEPLAY_MCP_PORT"); ok && v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("GAMEPLAY_MCP_PORT: invalid port %q", v)
		}
		cfg.Server.Port = port
		cfg.Sources["server.port"] = SourceEnv
	}
	return nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		errs = append(errs, errors.New("server timeouts must be positive"))
	}

	errs = append(errs, checkURL("upstreams.p4diff.baseUrl", c.Upstreams.P4Diff.BaseURL))
	errs = append(errs, checkURL("upstreams.sprintInsights.baseUrl", c.Upstreams.SprintInsights.BaseURL))
	errs = append(errs, checkURL("upstreams.skillsMetrics.url", c.Upstreams.SkillsMetrics.URL))
	errs = append(errs, checkURL("upstreams.reviewMetrics.url", c.Upstreams.ReviewMetrics.URL))

	for _, timeout := range []struct {
		name string
		d    time.Duration
	}{
		{"upstreams.p4diff.timeout", c.Upstreams.P4Diff.Timeout},
		{"upstreams.sprintInsights.timeout", c.Upstreams.SprintInsights.Timeout},
		{"upstreams.skillsMetrics.timeout", c.Upstreams.SkillsMetrics.Timeout},
		{"upstreams.reviewMetrics.timeout", c.Upstreams.ReviewMetrics.Timeout},
	} {
		if timeout.d <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive", timeout.name))
		}
	}

	if _, err := logging.CheckLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Errorf("log.level: %w", err))
	}
	if _, err := logging.CheckFormat(c.Log.Format); err != nil {
		errs = append(errs, fmt.Errorf("log.format: %w", err))
	}

	return errors.Join(errs...)
}

func checkURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%s must be an absolute http(s) URL, got %q", name, raw)
	}
	return nil
}

// Address returns the listen address in host:port form.
func (c *Config) Address() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// Source returns where the named setting came from.
func (c *Config) Source(key string) string {
	return c.Sources[key]
}
