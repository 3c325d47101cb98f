// Package matching selects and correlates exposition samples by label.
//
// A Constraint pins one label to an expected value under a Normalization:
//
//   - Exact: byte-for-byte equality
//   - TrimLower: both sides trimmed and lower-cased before comparing
//
// A constraint with an empty value is inactive and matches every sample, so
// optional filters can be passed straight through. An active constraint never
// matches a sample that lacks the label; a missing label is not the same as
// an empty one.
//
// Select walks families in the requested order and yields every sample that
// satisfies all constraints. Join correlates two selections on a set of
// shared labels.
//
// SelectJSONPath narrows decoded upstream JSON with a JSONPath expression.
package matching
