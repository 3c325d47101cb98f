package matching

import (
	"encoding/json"
	"fmt"

	"github.com/ohler55/ojg/jp"
)

// SelectJSONPath evaluates a JSONPath expression against a JSON document and
// returns every match, in evaluation order. An empty result is a non-nil
// empty slice.
func SelectJSONPath(body []byte, path string) ([]interface{}, error) {
	expr, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid JSONPath %q: %w", path, err)
	}

	var data interface{}
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("response is not JSON: %w", err)
	}

	results := expr.Get(data)
	if results == nil {
		results = []interface{}{}
	}
	return results, nil
}

// ValidateJSONPathExpression checks that a JSONPath expression is syntactically valid.
func ValidateJSONPathExpression(path string) error {
	if _, err := jp.ParseString(path); err != nil {
		return fmt.Errorf("invalid JSONPath expression: %w", err)
	}
	return nil
}
