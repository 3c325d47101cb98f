// Package exposition reads and writes the Prometheus text exposition format
// (text/plain; version=0.0.4).
//
// Parsing is best-effort: exporters feeding the gateway are not under our
// control, so a malformed line is skipped and counted rather than failing the
// whole document. The only thing that can make a parse fail is an I/O error
// from the underlying reader.
//
// # Usage
//
//	doc := exposition.Parse(text)
//	for _, f := range doc.Families {
//	    fmt.Println(f.Name, f.Kind, len(f.Samples))
//	}
//
// FilterRelevant narrows a raw document to an allow-list of metric names
// before parsing:
//
//	small := exposition.FilterRelevant(text, []string{"group_members", "group_open_reviews"})
//	doc := exposition.Parse(small)
//
// Samples are keyed strictly by the literal name token of the sample line.
// A histogram's foo_bucket samples land in a family named foo_bucket unless
// the document declares that family explicitly; regrouping suffixed series is
// left to the caller.
package exposition
