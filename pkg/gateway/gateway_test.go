package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameplay-tools/gameplay-mcp/pkg/config"
	"github.com/gameplay-tools/gameplay-mcp/pkg/metrics"
	"github.com/gameplay-tools/gameplay-mcp/pkg/projection"
)

const skillsText = `# HELP proficiency_by_user_initiative Proficiency per submitter and initiative.
# TYPE proficiency_by_user_initiative gauge
proficiency_by_user_initiative{submitter="alice",initiative="Foo",epic_team="T1"} 3
proficiency_by_user_initiative{submitter="bob",initiative="Foo",epic_team="T1"} 2
proficiency_by_user_initiative{submitter="carol",initiative="foo",epic_team="T2"} 4
# TYPE initiative_coverage gauge
initiative_coverage{submitter="alice",initiative="Foo",epic_team="T1"} 75
initiative_coverage{submitter="carol",initiative="Foo",epic_team="T2"} 40
# TYPE submitter_experience_by_initiative gauge
submitter_experience_by_initiative{initiative="Foo",epic_team="T1"} 2
submitter_experience_by_initiative{initiative="Foo",epic_team="T2"} 1
# TYPE process_cpu_seconds_total counter
process_cpu_seconds_total 12.5
`

const reviewText = `# TYPE group_members gauge
group_members{group="engine"} 8
group_reviews_total{group="engine"} 120
group_members{group="tools"} 3
# TYPE group_daily_reviews gauge
group_daily_reviews{group="engine",date="2026-10-15"} 4
# TYPE group_top_contributor gauge
group_top_contributor{group="engine",user="a"} 5
group_top_contributor{group="engine",user="b"} 5
group_top_contributor{group="engine",user="c"} 3
`

// upstreams serves canned answers for every collaborator and counts
// metrics document fetches.
type upstreams struct {
	*httptest.Server
	skillsHits atomic.Int64
	reviewHits atomic.Int64
}

func newUpstreams(t *testing.T) *upstreams {
	t.Helper()
	u := &upstreams{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/compare_streams", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("stream_b") == "//depot/missing" {
			http.NotFound(w, r)
			return
		}
		writeJSON(w, `{"stream_a":"`+r.URL.Query().Get("stream_a")+`","files":[{"path":"a.cpp"},{"path":"b.cpp"}]}`)
	})
	mux.HandleFunc("GET /api/changelist", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"changelist":`+r.URL.Query().Get("changelist")+`}`)
	})
	mux.HandleFunc("GET /api/stream_changelists", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"limit":`+r.URL.Query().Get("limit")+`}`)
	})
	mux.HandleFunc("GET /api/sprint_metrics", func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /api/sprint_tasks", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("GET /api/user_tasks", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, `{"user":"`+r.URL.Query().Get("user")+`","sprint":"`+r.URL.Query().Get("sprint_name")+`"}`)
	})
	mux.HandleFunc("GET /skills", func(w http.ResponseWriter, r *http.Request) {
		u.skillsHits.Add(1)
		_, _ = w.Write([]byte(skillsText))
	})
	mux.HandleFunc("GET /review", func(w http.ResponseWriter, r *http.Request) {
		u.reviewHits.Add(1)
		_, _ = w.Write([]byte(reviewText))
	})
	u.Server = httptest.NewServer(mux)
	t.Cleanup(u.Close)
	return u
}

func writeJSON(w http.ResponseWriter, body string) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write([]byte(body))
}

func newTestGateway(t *testing.T, u *upstreams, opts ...Option) *Gateway {
	t.Helper()
	cfg := config.NewDefault()
	cfg.Upstreams.P4Diff.BaseURL = u.URL
	cfg.Upstreams.SprintInsights.BaseURL = u.URL
	cfg.Upstreams.SkillsMetrics.URL = u.URL + "/skills"
	cfg.Upstreams.ReviewMetrics.URL = u.URL + "/review"
	return New(cfg, opts...)
}

func TestProxies(t *testing.T) {
	u := newUpstreams(t)
	g := newTestGateway(t, u)
	ctx := context.Background()

	t.Run("success returns upstream JSON verbatim", func(t *testing.T) {
		env := g.P4Diff(ctx, "//depot/main", "//depot/dev")
		require.True(t, env.OK, env.Message())
		assert.JSONEq(t, `{"stream_a":"//depot/main","files":[{"path":"a.cpp"},{"path":"b.cpp"}]}`, string(*env.Data))
	})

	t.Run("not found names the entity", func(t *testing.T) {
		env := g.P4Diff(ctx, "//depot/main", "//depot/missing")
		assert.False(t, env.OK)
		assert.Equal(t, "streams not found: //depot/main, //depot/missing", env.Message())

		env = g.SprintMetrics(ctx, "Gameplay Sprint 42")
		assert.Equal(t, "sprint not found: Gameplay Sprint 42", env.Message())
	})

	t.Run("other status is a call failure", func(t *testing.T) {
		env := g.SprintTasks(ctx, "Sprint 1", "done")
		assert.False(t, env.OK)
		assert.True(t, strings.HasPrefix(env.Message(), "SprintInsights call failed: "), env.Message())
	})

	t.Run("missing arguments", func(t *testing.T) {
		assert.Equal(t, "stream_a and stream_b are required", g.P4Diff(ctx, "a", "").Message())
		assert.Equal(t, "stream is required", g.StreamInfo(ctx, "").Message())
		assert.Equal(t, "changelist is required", g.Changelist(ctx, 0).Message())
		assert.Equal(t, "user is required", g.UserTasks(ctx, "", "").Message())
	})

	t.Run("defaults and optional parameters", func(t *testing.T) {
		env := g.StreamChangelists(ctx, "//depot/main", 0)
		require.True(t, env.OK)
		assert.JSONEq(t, `{"limit":20}`, string(*env.Data))

		env = g.Changelist(ctx, 12345)
		require.True(t, env.OK)
		assert.JSONEq(t, `{"changelist":12345}`, string(*env.Data))

		env = g.UserTasks(ctx, "alice", "Sprint 7")
		require.True(t, env.OK)
		assert.JSONEq(t, `{"user":"alice","sprint":"Sprint 7"}`, string(*env.Data))
	})

	t.Run("unreachable upstream", func(t *testing.T) {
		cfg := config.NewDefault()
		cfg.Upstreams.P4Diff.BaseURL = "http://127.0.0.1:1"
		env := New(cfg).StreamInfo(ctx, "//depot/main")
		assert.False(t, env.OK)
		assert.True(t, strings.HasPrefix(env.Message(), "p4diff call failed: "), env.Message())
	})
}

func TestNarrow(t *testing.T) {
	u := newUpstreams(t)
	g := newTestGateway(t, u)

	env := Narrow(g.P4Diff(context.Background(), "a", "b"), "$.files[*].path")
	require.True(t, env.OK, env.Message())
	assert.JSONEq(t, `["a.cpp","b.cpp"]`, string(*env.Data))

	env = Narrow(g.P4Diff(context.Background(), "a", "b"), "$.nothing")
	require.True(t, env.OK)
	assert.JSONEq(t, `[]`, string(*env.Data))

	failed := g.P4Diff(context.Background(), "a", "")
	assert.Equal(t, failed, Narrow(failed, "$.files"))

	env = Narrow(g.P4Diff(context.Background(), "a", "b"), "$[?(")
	assert.False(t, env.OK)
	assert.True(t, strings.HasPrefix(env.Message(), "select failed: "))
}

func TestSkillViews(t *testing.T) {
	u := newUpstreams(t)
	g := newTestGateway(t, u)
	ctx := context.Background()

	t.Run("skill profile", func(t *testing.T) {
		env := g.SkillProfile(ctx, "alice")
		require.True(t, env.OK, env.Message())
		assert.Equal(t, []projection.InitiativeSkill{{Initiative: "Foo", EpicTeam: "T1", ProficiencyLevel: 3}}, env.Data.ByInitiative)
		assert.Empty(t, env.Data.ByEpic)
		assert.NotNil(t, env.Data.ByEpic)
	})

	t.Run("best submitters", func(t *testing.T) {
		env := g.BestSubmitters(ctx, "Foo", projection.DefaultMinLevel)
		require.True(t, env.OK)
		require.Len(t, env.Data.Submitters, 2)
		assert.Equal(t, "carol", env.Data.Submitters[0].Submitter)
		assert.Equal(t, "alice", env.Data.Submitters[1].Submitter)
	})

	t.Run("coverage narrowed by team", func(t *testing.T) {
		env := g.InitiativeCoverage(ctx, "Foo", "T2")
		require.True(t, env.OK)
		assert.Equal(t, map[string]float64{"T2": 1}, env.Data.SubmittersByTeam)
		require.Len(t, env.Data.Coverage, 1)
		assert.Equal(t, "carol", env.Data.Coverage[0].Submitter)
	})

	t.Run("readiness", func(t *testing.T) {
		env := g.InitiativeReadiness(ctx, "Foo", "")
		require.True(t, env.OK)
		require.Len(t, env.Data.Entries, 2)
		assert.Equal(t, "alice", env.Data.Entries[0].Submitter)
		assert.Equal(t, 75.0, env.Data.Entries[0].CoveragePct)
	})

	t.Run("empty result is success", func(t *testing.T) {
		env := g.EpicExpertise(ctx, "Unknown Epic")
		require.True(t, env.OK)
		assert.Nil(t, env.Data.SubmitterCount)
		assert.Empty(t, env.Data.Experts)
	})

	t.Run("missing argument", func(t *testing.T) {
		env := g.SkillProfile(ctx, "")
		assert.Equal(t, "submitter is required", env.Message())
		assert.Equal(t, "initiative is required", g.BestSubmitters(ctx, "", 3).Message())
	})
}

func TestReviewViews(t *testing.T) {
	u := newUpstreams(t)
	g := newTestGateway(t, u)
	ctx := context.Background()

	summary := g.GroupSummary(ctx, "engine")
	require.True(t, summary.OK)
	require.NotNil(t, summary.Data.Members)
	assert.Equal(t, 8.0, *summary.Data.Members)
	assert.Equal(t, 120.0, *summary.Data.ReviewsTotal)
	assert.Nil(t, summary.Data.OpenReviews)

	top := g.TopContributors(ctx, "engine", 2)
	require.True(t, top.OK)
	assert.Equal(t, []projection.Contributor{{User: "a", ActivityCount: 5}, {User: "b", ActivityCount: 5}}, top.Data.Contributors)

	before := u.reviewHits.Load()
	overview := g.GroupOverview(ctx, "engine", 0)
	require.True(t, overview.OK)
	assert.Equal(t, before+1, u.reviewHits.Load())
	require.NotNil(t, overview.Data.Daily.Date)
	assert.Equal(t, "2026-10-15", *overview.Data.Daily.Date)
	assert.Equal(t, projection.DefaultTopContributors, overview.Data.TopContributors.Limit)
	assert.Len(t, overview.Data.TopContributors.Contributors, 3)
}

func TestMetricsSourceFailures(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/slow" {
			time.Sleep(200 * time.Millisecond)
		}
		http.NotFound(w, r)
	}))
	defer srv.Close()

	cfg := config.NewDefault()
	cfg.Upstreams.SkillsMetrics.URL = srv.URL + "/gone"
	cfg.Upstreams.ReviewMetrics.URL = srv.URL + "/slow"
	cfg.Upstreams.ReviewMetrics.Timeout = 20 * time.Millisecond
	g := New(cfg)

	env := g.SkillProfile(context.Background(), "alice")
	assert.False(t, env.OK)
	assert.Equal(t, "skills metrics endpoint not found: "+srv.URL+"/gone", env.Message())

	review := g.GroupSummary(context.Background(), "engine")
	assert.False(t, review.OK)
	assert.True(t, strings.HasPrefix(review.Message(), "review metrics fetch failed: "), review.Message())
}

func TestCanceledContext(t *testing.T) {
	u := newUpstreams(t)
	g := newTestGateway(t, u)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	env := g.GroupSummary(ctx, "engine")
	assert.False(t, env.OK)
	assert.Nil(t, env.Data)
}

func TestDocument(t *testing.T) {
	u := newUpstreams(t)
	m := metrics.New()
	g := newTestGateway(t, u, WithMetrics(m))

	doc, err := g.Document(context.Background(), SourceSkillsMetrics)
	require.NoError(t, err)
	assert.Nil(t, doc.Family("process_cpu_seconds_total"), "filtered out by the allow-list")
	assert.NotNil(t, doc.Family(projection.ProficiencyByUserInitiative))
	assert.Equal(t, int64(1), u.skillsHits.Load())

	_, err = g.Document(context.Background(), "nope")
	assert.Error(t, err)
}

func TestDocument_NoFamiliesKeepsEverything(t *testing.T) {
	u := newUpstreams(t)
	cfg := config.NewDefault()
	cfg.Upstreams.SkillsMetrics.URL = u.URL + "/skills"
	cfg.Upstreams.SkillsMetrics.Families = nil
	g := New(cfg)

	doc, err := g.Document(context.Background(), SourceSkillsMetrics)
	require.NoError(t, err)
	assert.NotNil(t, doc.Family("process_cpu_seconds_total"))
	assert.Len(t, doc.Families, 4)
}

func TestEnvelopeInvariant(t *testing.T) {
	u := newUpstreams(t)
	g := newTestGateway(t, u)
	ctx := context.Background()

	checks := map[string]func() bool{
		"p4diff ok":        func() bool { return g.P4Diff(ctx, "a", "b").Valid() },
		"p4diff not found": func() bool { return g.P4Diff(ctx, "a", "//depot/missing").Valid() },
		"sprint tasks 500": func() bool { return g.SprintTasks(ctx, "s", "").Valid() },
		"missing arg":      func() bool { return g.StreamInfo(ctx, "").Valid() },
		"profile":          func() bool { return g.SkillProfile(ctx, "nobody").Valid() },
		"coverage":         func() bool { return g.InitiativeCoverage(ctx, "Foo", "").Valid() },
		"expertise":        func() bool { return g.EpicExpertise(ctx, "x").Valid() },
		"daily":            func() bool { return g.DailySnapshot(ctx, "tools").Valid() },
		"overview":         func() bool { return g.GroupOverview(ctx, "", 1).Valid() },
	}
	for name, check := range checks {
		assert.True(t, check(), name)
	}

	// A successful envelope encodes exactly ok, data and error.
	raw, err := json.Marshal(g.SkillProfile(ctx, "alice"))
	require.NoError(t, err)
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(raw, &fields))
	assert.Len(t, fields, 3)
	assert.Equal(t, "null", string(fields["error"]))
}
