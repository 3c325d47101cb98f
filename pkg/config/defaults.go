package config

import (
	"time"

	"github.com/gameplay-tools/gameplay-mcp/pkg/projection"
)

const (
	DefaultHost                  = "0.0.0.0"
	DefaultPort                  = 8000
	DefaultP4DiffBaseURL         = "http://localhost:9001"
	DefaultSprintInsightsBaseURL = "http://localhost:9002"
	DefaultSkillsMetricsURL      = "http://localhost:9003/metrics"
	DefaultReviewMetricsURL      = "http://localhost:9004/metrics"
	DefaultLogLevel              = "info"
	DefaultLogFormat             = "text"
)

const (
	// DefaultLookupTimeout bounds a JSON lookup against P4Diff or SprintInsights.
	DefaultLookupTimeout = 30 * time.Second
	// DefaultMetricsTimeout bounds an exposition document fetch.
	DefaultMetricsTimeout = 60 * time.Second
	DefaultReadTimeout    = 30 * time.Second
	DefaultWriteTimeout   = 90 * time.Second
)

// NewDefault creates a new Config with default values.
func NewDefault() *Config {
	cfg := &Config{
		Server: ServerConfig{
			Host:         DefaultHost,
			Port:         DefaultPort,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
		Upstreams: UpstreamsConfig{
			P4Diff:         UpstreamConfig{BaseURL: DefaultP4DiffBaseURL, Timeout: DefaultLookupTimeout},
			SprintInsights: UpstreamConfig{BaseURL: DefaultSprintInsightsBaseURL, Timeout: DefaultLookupTimeout},
			SkillsMetrics: MetricsSourceConfig{
				URL:      DefaultSkillsMetricsURL,
				Timeout:  DefaultMetricsTimeout,
				Families: projection.SkillsFamilies(),
			},
			ReviewMetrics: MetricsSourceConfig{
				URL:      DefaultReviewMetricsURL,
				Timeout:  DefaultMetricsTimeout,
				Families: projection.ReviewFamilies(),
			},
		},
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Sources: make(map[string]string),
	}

	for _, key := range fieldKeys {
		cfg.Sources[key] = SourceDefault
	}
	return cfg
}

// fieldKeys names every tracked setting.
var fieldKeys = []string{
	"server.host",
	"server.port",
	"server.readTimeout",
	"server.writeTimeout",
	"upstreams.p4diff.baseUrl",
	"upstreams.p4diff.timeout",
	"upstreams.sprintInsights.baseUrl",
	"upstreams.sprintInsights.timeout",
	"upstreams.skillsMetrics.url",
	"upstreams.skillsMetrics.timeout",
	"upstreams.skillsMetrics.families",
	"upstreams.reviewMetrics.url",
	"upstreams.reviewMetrics.timeout",
	"upstreams.reviewMetrics.families",
	"log.level",
	"log.format",
}
