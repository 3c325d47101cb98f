// Package projection turns a parsed exposition document into the fixed-shape
// answers served by the gateway's metrics tools.
//
// Each view is a pure function of one *exposition.Document plus its query
// parameters. Views never fail: no matching samples yields empty lists and
// null fields. Results are fully materialized values ready for JSON encoding.
//
// Label comparisons follow each view's established convention. Initiative
// and epic names are compared trimmed and lower-cased; submitter, group and
// epic team identities are compared exactly.
//
// Samples whose value is NaN or infinite carry no usable number for a JSON
// answer and are ignored by every view.
package projection
