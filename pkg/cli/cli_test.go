package cli

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameplay-tools/gameplay-mcp/pkg/mcp"
)

const skillsExposition = `# HELP proficiency_by_user_initiative Proficiency per submitter and initiative.
# TYPE proficiency_by_user_initiative gauge
proficiency_by_user_initiative{epic_team="T1",initiative="Combat",submitter="alice"} 4
# TYPE process_cpu_seconds_total counter
process_cpu_seconds_total 12.5
`

// execute runs the command tree in-process with fresh flag values.
func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	configFile, logLevel, logFormat, logFile = "", "", "", ""
	jsonOutput, parseStats, fetchStats = false, false, false
	callArgs, filterNames = nil, nil

	var stdout, stderr bytes.Buffer
	rootCmd.SetArgs(args)
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
	})

	err := rootCmd.Execute()
	return stdout.String(), stderr.String(), err
}

// withUpstreams points every upstream at one fake server.
func withUpstreams(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/changelist", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("changelist") != "12345" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"number":12345,"author":"alice","files":[{"path":"//depot/main/a.cpp"}]}`))
	})
	mux.HandleFunc("GET /skills", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(skillsExposition))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	t.Setenv("GAMEPLAY_MCP_CONFIG", "")
	t.Setenv("P4DIFF_BASE_URL", srv.URL)
	t.Setenv("SPRINT_INSIGHTS_BASE_URL", srv.URL)
	t.Setenv("SKILLS_METRICS_URL", srv.URL+"/skills")
	t.Setenv("REVIEW_METRICS_URL", srv.URL+"/review")
	return srv
}

func decodeEnvelope(t *testing.T, s string) map[string]interface{} {
	t.Helper()
	var env map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(s), &env), s)
	return env
}

func TestCallSuccess(t *testing.T) {
	withUpstreams(t)

	stdout, _, err := execute(t, "", "call", "get_changelist", "--arg", "changelist=12345")
	require.NoError(t, err)

	env := decodeEnvelope(t, stdout)
	assert.Equal(t, true, env["ok"])
	assert.Nil(t, env["error"])
	data := env["data"].(map[string]interface{})
	assert.Equal(t, "alice", data["author"])
}

func TestCallSelect(t *testing.T) {
	withUpstreams(t)

	stdout, _, err := execute(t, "", "call", "get_changelist",
		"--arg", "changelist=12345", "--arg", "select=$.files[*].path")
	require.NoError(t, err)

	env := decodeEnvelope(t, stdout)
	assert.Equal(t, []interface{}{"//depot/main/a.cpp"}, env["data"])
}

func TestCallFailureEnvelope(t *testing.T) {
	withUpstreams(t)

	stdout, _, err := execute(t, "", "call", "get_changelist", "--arg", "changelist=999")
	require.ErrorIs(t, err, ErrToolFailed)

	env := decodeEnvelope(t, stdout)
	assert.Equal(t, false, env["ok"])
	assert.Nil(t, env["data"])
	assert.Equal(t, "changelist not found: 999", env["error"])
}

func TestCallUnknownTool(t *testing.T) {
	withUpstreams(t)

	stdout, _, err := execute(t, "", "call", "get_weather")
	require.ErrorIs(t, err, ErrToolFailed)
	assert.Equal(t, "Unknown tool: get_weather", decodeEnvelope(t, stdout)["error"])
}

func TestCallBadArgument(t *testing.T) {
	withUpstreams(t)

	_, _, err := execute(t, "", "call", "get_changelist", "--arg", "changelist")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrToolFailed)
	assert.Contains(t, err.Error(), "expected key=value")
}

func TestToolsTable(t *testing.T) {
	stdout, _, err := execute(t, "", "tools")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 17)
	assert.True(t, strings.HasPrefix(lines[0], "NAME"))
	assert.True(t, strings.HasPrefix(lines[1], "get_p4_diff"))
	assert.Contains(t, stdout, "stream,limit?,select?")
}

func TestToolsJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "tools", "--json")
	require.NoError(t, err)

	var defs []mcp.ToolDefinition
	require.NoError(t, json.Unmarshal([]byte(stdout), &defs))
	assert.Len(t, defs, 16)
	assert.Equal(t, "get_group_overview", defs[15].Name)
}

func TestParseStdin(t *testing.T) {
	input := "# TYPE up gauge\nup{job=\"b\",instance=\"a\"} 1\nthis is not a sample\n"

	stdout, stderr, err := execute(t, input, "parse", "--stats")
	require.NoError(t, err)
	assert.Equal(t, "# TYPE up gauge\nup{instance=\"a\",job=\"b\"} 1\n", stdout)
	assert.Equal(t, "families=1 samples=1 skipped=1\n", stderr)
}

func TestParseFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.txt")
	require.NoError(t, os.WriteFile(path, []byte(skillsExposition), 0o600))

	stdout, _, err := execute(t, "", "parse", path)
	require.NoError(t, err)
	assert.Equal(t, skillsExposition, stdout)
}

func TestParseMissingFile(t *testing.T) {
	_, _, err := execute(t, "", "parse", filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}

func TestFilter(t *testing.T) {
	stdout, _, err := execute(t, skillsExposition, "filter", "-", "--name", "proficiency_by_user_initiative")
	require.NoError(t, err)
	assert.Equal(t, `# HELP proficiency_by_user_initiative Proficiency per submitter and initiative.
# TYPE proficiency_by_user_initiative gauge
proficiency_by_user_initiative{epic_team="T1",initiative="Combat",submitter="alice"} 4
`, stdout)
}

func TestFetch(t *testing.T) {
	withUpstreams(t)

	stdout, stderr, err := execute(t, "", "fetch", "skills", "--stats")
	require.NoError(t, err)
	assert.Contains(t, stdout, `proficiency_by_user_initiative{epic_team="T1",initiative="Combat",submitter="alice"} 4`)
	assert.NotContains(t, stdout, "process_cpu_seconds_total")
	assert.Equal(t, "families=1 samples=1 skipped=0\n", stderr)
}

func TestFetchUnknownSource(t *testing.T) {
	withUpstreams(t)

	_, _, err := execute(t, "", "fetch", "builds")
	assert.EqualError(t, err, `unknown metrics source "builds" (want skills or review)`)
}

func TestVersionJSON(t *testing.T) {
	stdout, _, err := execute(t, "", "version", "--json")
	require.NoError(t, err)

	var v VersionOutput
	require.NoError(t, json.Unmarshal([]byte(stdout), &v))
	assert.Equal(t, mcp.ProtocolVersion, v.Protocol)
	assert.NotEmpty(t, v.Go)
}

func TestLogFileReceivesRecords(t *testing.T) {
	withUpstreams(t)
	path := filepath.Join(t.TempDir(), "gateway.log")

	_, _, err := execute(t, "", "call", "get_changelist", "--arg", "changelist=999",
		"--log-level", "info", "--log-file", path)
	require.ErrorIs(t, err, ErrToolFailed)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"msg":"tool call failed"`)
}

func TestArgumentSummary(t *testing.T) {
	registry := mcp.NewToolRegistry(nil, nil, nil)

	assert.Equal(t, "stream,limit?,select?", argumentSummary(registry.Get("get_stream_changelists").Definition))
	assert.Equal(t, "-", argumentSummary(mcp.ToolDefinition{InputSchema: map[string]interface{}{"type": "object"}}))
}

func TestFirstSentence(t *testing.T) {
	assert.Equal(t, "Compare streams.", firstSentence("Compare streams. Returns files."))
	assert.Equal(t, "No period", firstSentence("No period"))
}
