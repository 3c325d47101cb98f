package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/gameplay-tools/gameplay-mcp/pkg/api/types"
	"github.com/gameplay-tools/gameplay-mcp/pkg/gateway"
	"github.com/gameplay-tools/gameplay-mcp/pkg/logging"
	"github.com/gameplay-tools/gameplay-mcp/pkg/metrics"
)

// ToolHandler is the signature for tool execution functions.
type ToolHandler func(ctx context.Context, gw *gateway.Gateway, args map[string]interface{}) types.Envelope[any]

// Tool represents a registered MCP tool.
type Tool struct {
	Definition ToolDefinition
	Handler    ToolHandler

	schema *jsonschema.Schema
}

// ToolRegistry manages all registered MCP tools.
// Tools are stored in a slice to preserve registration order for tools/list.
type ToolRegistry struct {
	tools   []*Tool
	byName  map[string]*Tool
	gateway *gateway.Gateway
	metrics *metrics.Metrics
	log     *slog.Logger
}

// NewToolRegistry creates a new tool registry and registers all built-in tools.
func NewToolRegistry(gw *gateway.Gateway, m *metrics.Metrics, log *slog.Logger) *ToolRegistry {
	r := &ToolRegistry{
		tools:   make([]*Tool, 0, 16),
		byName:  make(map[string]*Tool, 16),
		gateway: gw,
		metrics: m,
		log:     logging.OrNop(log),
	}

	r.registerBuiltinTools()
	return r
}

// registerBuiltinTools registers every tool from tool_defs.go with its handler.
func (r *ToolRegistry) registerBuiltinTools() {
	handlers := builtinHandlers()

	// Register in definition order (from tool_defs.go) to guarantee
	// consistent ordering in tools/list responses.
	for _, def := range allToolDefinitions() {
		handler, ok := handlers[def.Name]
		if !ok {
			continue
		}
		if err := r.Register(&Tool{Definition: def, Handler: handler}); err != nil {
			panic(err)
		}
	}
}

// Register compiles the tool's input schema and adds it to the registry.
func (r *ToolRegistry) Register(tool *Tool) error {
	schema, err := compileInputSchema(tool.Definition)
	if err != nil {
		return fmt.Errorf("tool %s: %w", tool.Definition.Name, err)
	}
	tool.schema = schema
	r.tools = append(r.tools, tool)
	r.byName[tool.Definition.Name] = tool
	return nil
}

// Get retrieves a tool by name.
func (r *ToolRegistry) Get(name string) *Tool {
	return r.byName[name]
}

// List returns all tool definitions in registration order.
func (r *ToolRegistry) List() []ToolDefinition {
	defs := make([]ToolDefinition, 0, len(r.tools))
	for _, tool := range r.tools {
		defs = append(defs, tool.Definition)
	}
	return defs
}

// Call validates args against the tool's schema and runs it. Every outcome,
// including an unknown tool, is reported through the envelope.
func (r *ToolRegistry) Call(ctx context.Context, name string, args map[string]interface{}) types.Envelope[any] {
	tool := r.byName[name]
	if tool == nil {
		return types.Failure[any]("Unknown tool: " + name)
	}

	start := time.Now()
	env := r.call(ctx, tool, args)
	elapsed := time.Since(start)
	r.metrics.ObserveTool(name, env.OK, elapsed)

	if env.OK {
		r.log.Debug("tool call completed", "tool", name, "duration", elapsed)
	} else {
		r.log.Info("tool call failed", "tool", name, "error", env.Message(), "duration", elapsed)
	}
	return env
}

func (r *ToolRegistry) call(ctx context.Context, tool *Tool, args map[string]interface{}) types.Envelope[any] {
	normalized, err := normalizeArgs(args)
	if err != nil {
		return types.Failure[any](fmt.Sprintf("invalid arguments for %s: %v", tool.Definition.Name, err))
	}
	if err := tool.schema.Validate(normalized); err != nil {
		return types.Failure[any](fmt.Sprintf("invalid arguments for %s: %s", tool.Definition.Name, validationDetail(err)))
	}
	return tool.Handler(ctx, r.gateway, normalized)
}

// compileInputSchema compiles the schema arguments are checked against.
// The advertised "required" list is left out so a missing argument reaches
// the operation and is reported in its own words.
func compileInputSchema(def ToolDefinition) (*jsonschema.Schema, error) {
	schema := maps.Clone(def.InputSchema)
	delete(schema, "required")

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	url := def.Name + ".json"
	if err := compiler.AddResource(url, strings.NewReader(string(data))); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	return compiler.Compile(url)
}

// normalizeArgs round-trips args through JSON so values carry the types
// the schema validator and the handlers expect.
func normalizeArgs(args map[string]interface{}) (map[string]interface{}, error) {
	if len(args) == 0 {
		return map[string]interface{}{}, nil
	}
	data, err := json.Marshal(args)
	if err != nil {
		return nil, err
	}
	var out map[string]interface{}
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// validationDetail flattens a schema validation error into one line.
func validationDetail(err error) string {
	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return err.Error()
	}
	var parts []string
	collectCauses(ve, &parts)
	return strings.Join(parts, "; ")
}

func collectCauses(ve *jsonschema.ValidationError, parts *[]string) {
	if len(ve.Causes) == 0 {
		field := strings.ReplaceAll(strings.TrimPrefix(ve.InstanceLocation, "/"), "/", ".")
		if field == "" {
			*parts = append(*parts, ve.Message)
		} else {
			*parts = append(*parts, field+": "+ve.Message)
		}
		return
	}
	for _, cause := range ve.Causes {
		collectCauses(cause, parts)
	}
}

// =============================================================================
// Argument extraction helpers
// =============================================================================

func getString(args map[string]interface{}, key, defaultVal string) string {
	if v, ok := args[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return defaultVal
}

// getInt accepts JSON numbers and numeric strings. A value that is present
// but does not fit an int is an error rather than the default.
func getInt(args map[string]interface{}, key string, defaultVal int) (int, error) {
	v, ok := args[key]
	if !ok {
		return defaultVal, nil
	}
	switch n := v.(type) {
	case float64:
		if n != math.Trunc(n) || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, fmt.Errorf("invalid %s: %v", key, n)
		}
		return int(n), nil
	case int:
		return n, nil
	case int64:
		return int(n), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %q", key, n)
		}
		return i, nil
	}
	return defaultVal, nil
}

func getFloat(args map[string]interface{}, key string, defaultVal float64) float64 {
	if v, ok := args[key]; ok {
		switch n := v.(type) {
		case float64:
			return n
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return defaultVal
}
