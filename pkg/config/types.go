package config

import "time"

// Config is the complete gateway configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" json:"server"`
	Upstreams UpstreamsConfig `yaml:"upstreams" json:"upstreams"`
	Log       LogConfig       `yaml:"log" json:"log"`

	// Sources tracks where each value came from (for debugging)
	Sources map[string]string `yaml:"-" json:"-"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	Host         string        `yaml:"host" json:"host"`
	Port         int           `yaml:"port" json:"port"`
	ReadTimeout  time.Duration `yaml:"readTimeout" json:"readTimeout"`
	WriteTimeout time.Duration `yaml:"writeTimeout" json:"writeTimeout"`
}

// UpstreamConfig configures a JSON lookup service.
type UpstreamConfig struct {
	BaseURL string        `yaml:"baseUrl" json:"baseUrl"`
	Timeout time.Duration `yaml:"timeout" json:"timeout"`
}

// MetricsSourceConfig configures an exposition endpoint and the metric
// families the gateway reads from it.
type MetricsSourceConfig struct {
	URL      string        `yaml:"url" json:"url"`
	Timeout  time.Duration `yaml:"timeout" json:"timeout"`
	Families []string      `yaml:"families,omitempty" json:"families,omitempty"`
}

// UpstreamsConfig groups every collaborator the gateway talks to.
type UpstreamsConfig struct {
	P4Diff         UpstreamConfig      `yaml:"p4diff" json:"p4diff"`
	SprintInsights UpstreamConfig      `yaml:"sprintInsights" json:"sprintInsights"`
	SkillsMetrics  MetricsSourceConfig `yaml:"skillsMetrics" json:"skillsMetrics"`
	ReviewMetrics  MetricsSourceConfig `yaml:"reviewMetrics" json:"reviewMetrics"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" json:"level"`
	Format string `yaml:"format" json:"format"`
}

// ConfigSource identifies where a config value originated.
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)
