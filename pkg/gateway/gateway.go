// Package gateway implements every operation the gateway exposes. Each
// operation returns a types.Envelope and never an error: upstream failures,
// missing entities and invalid arguments all become failed envelopes.
package gateway

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/gameplay-tools/gameplay-mcp/internal/matching"
	"github.com/gameplay-tools/gameplay-mcp/pkg/api/types"
	"github.com/gameplay-tools/gameplay-mcp/pkg/config"
	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
	"github.com/gameplay-tools/gameplay-mcp/pkg/logging"
	"github.com/gameplay-tools/gameplay-mcp/pkg/metrics"
	"github.com/gameplay-tools/gameplay-mcp/pkg/upstream"
)

// Upstream names used in logs and metrics.
const (
	UpstreamP4Diff         = "p4diff"
	UpstreamSprintInsights = "sprint_insights"
	SourceSkillsMetrics    = "skills_metrics"
	SourceReviewMetrics    = "review_metrics"
)

// Gateway runs operations against the configured upstreams.
type Gateway struct {
	cfg     config.Config
	client  *upstream.Client
	log     *slog.Logger
	metrics *metrics.Metrics
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithLogger sets the logger.
func WithLogger(log *slog.Logger) Option {
	return func(g *Gateway) {
		g.log = logging.OrNop(log)
	}
}

// WithMetrics records upstream and document metrics into m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Gateway) {
		g.metrics = m
	}
}

// New creates a Gateway. The configuration is copied; later changes to cfg
// have no effect.
func New(cfg *config.Config, opts ...Option) *Gateway {
	g := &Gateway{
		cfg: *cfg,
		log: logging.Nop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	g.client = upstream.New(
		upstream.WithLogger(g.log),
		upstream.WithObserver(g.metrics.ObserveUpstream),
	)
	return g
}

// Config returns a copy of the gateway's configuration.
func (g *Gateway) Config() config.Config {
	return g.cfg
}

// service is a JSON lookup upstream.
type service struct {
	name  string
	label string
	cfg   config.UpstreamConfig
}

func (g *Gateway) p4diff() service {
	return service{name: UpstreamP4Diff, label: "p4diff", cfg: g.cfg.Upstreams.P4Diff}
}

func (g *Gateway) sprintInsights() service {
	return service{name: UpstreamSprintInsights, label: "SprintInsights", cfg: g.cfg.Upstreams.SprintInsights}
}

// proxy forwards a lookup and returns the upstream JSON verbatim.
func (g *Gateway) proxy(ctx context.Context, svc service, path string, query url.Values, notFound string) types.Envelope[json.RawMessage] {
	body, err := g.client.GetJSON(ctx, upstream.Request{
		Upstream: svc.name,
		URL:      svc.cfg.BaseURL,
		Path:     path,
		Query:    query,
		Timeout:  svc.cfg.Timeout,
	})
	if err != nil {
		if upstream.IsNotFound(err) {
			return types.Failure[json.RawMessage](notFound)
		}
		return types.Failure[json.RawMessage](fmt.Sprintf("%s call failed: %v", svc.label, err))
	}
	return types.Success(body)
}

// Narrow replaces a successful envelope's data with the matches of a
// JSONPath expression. An empty path leaves the envelope unchanged.
func Narrow(env types.Envelope[json.RawMessage], path string) types.Envelope[json.RawMessage] {
	if path == "" || !env.OK {
		return env
	}
	matches, err := matching.SelectJSONPath(*env.Data, path)
	if err != nil {
		return types.Failure[json.RawMessage](fmt.Sprintf("select failed: %v", err))
	}
	out, err := json.Marshal(matches)
	if err != nil {
		return types.Failure[json.RawMessage](fmt.Sprintf("select failed: %v", err))
	}
	return types.Success(json.RawMessage(out))
}

// metricsSource is an exposition endpoint.
type metricsSource struct {
	name  string
	label string
	cfg   config.MetricsSourceConfig
}

func (g *Gateway) skillsMetrics() metricsSource {
	return metricsSource{name: SourceSkillsMetrics, label: "skills metrics", cfg: g.cfg.Upstreams.SkillsMetrics}
}

func (g *Gateway) reviewMetrics() metricsSource {
	return metricsSource{name: SourceReviewMetrics, label: "review metrics", cfg: g.cfg.Upstreams.ReviewMetrics}
}

// Document fetches, filters and parses the named metrics source. It is
// exported for batching: one document can serve several projections.
func (g *Gateway) Document(ctx context.Context, source string) (*exposition.Document, error) {
	switch source {
	case SourceSkillsMetrics:
		return g.document(ctx, g.skillsMetrics())
	case SourceReviewMetrics:
		return g.document(ctx, g.reviewMetrics())
	default:
		return nil, fmt.Errorf("unknown metrics source %q", source)
	}
}

func (g *Gateway) document(ctx context.Context, src metricsSource) (*exposition.Document, error) {
	text, err := g.client.GetText(ctx, upstream.Request{
		Upstream: src.name,
		URL:      src.cfg.URL,
		Timeout:  src.cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	doc := exposition.Parse(exposition.FilterRelevant(text, src.cfg.Families))
	g.metrics.ObserveDocument(src.name, doc)
	if doc.Diagnostics.SkippedLines > 0 || len(doc.Diagnostics.Redefined) > 0 {
		g.log.Debug("exposition anomalies",
			"source", src.name,
			"skipped", doc.Diagnostics.SkippedLines,
			"redefined", doc.Diagnostics.Redefined)
	}
	g.log.Debug("exposition parsed", "source", src.name, "families", len(doc.Families), "samples", doc.SampleCount())
	return doc, nil
}

// project fetches a metrics document and runs view over it.
func project[T any](ctx context.Context, g *Gateway, src metricsSource, view func(*exposition.Document) T) types.Envelope[T] {
	doc, err := g.document(ctx, src)
	if err != nil {
		if upstream.IsNotFound(err) {
			return types.Failure[T](fmt.Sprintf("%s endpoint not found: %s", src.label, src.cfg.URL))
		}
		return types.Failure[T](fmt.Sprintf("%s fetch failed: %v", src.label, err))
	}
	return types.Success(view(doc))
}
