package exposition

// Kind is the declared type of a metric family.
type Kind string

const (
	KindCounter   Kind = "counter"
	KindGauge     Kind = "gauge"
	KindHistogram Kind = "histogram"
	KindSummary   Kind = "summary"
	KindUntyped   Kind = "untyped"
)

// ParseKind maps a # TYPE token to a Kind. Unrecognized values are untyped.
func ParseKind(s string) Kind {
	switch k := Kind(s); k {
	case KindCounter, KindGauge, KindHistogram, KindSummary:
		return k
	default:
		return KindUntyped
	}
}

// Sample is one labeled observation.
type Sample struct {
	// MetricName is the literal name token of the sample line. For suffixed
	// series (foo_bucket, foo_sum) it may differ from the declaring family.
	MetricName      string
	Labels          map[string]string
	Value           float64
	TimestampMillis *int64
}

// Label returns the value of a label and whether the sample carries it.
func (s Sample) Label(name string) (string, bool) {
	v, ok := s.Labels[name]
	return v, ok
}

// Family is a named group of samples.
type Family struct {
	Name    string
	Help    string
	Kind    Kind
	Samples []Sample
}

// Diagnostics records the anomalies seen while parsing a document.
// They are informational only and never surface as errors.
type Diagnostics struct {
	// SkippedLines counts lines that could not be parsed.
	SkippedLines int
	// Redefined lists families whose metadata was declared again after the
	// family had already been completed. The later definition wins.
	Redefined []string
}

// Document is the parsed form of one exposition text blob.
// Families appear in the order they were first seen.
type Document struct {
	Families    []*Family
	Diagnostics Diagnostics

	index map[string]int
}

// Family returns the family with the given name, or nil.
func (d *Document) Family(name string) *Family {
	if d == nil {
		return nil
	}
	if i, ok := d.index[name]; ok {
		return d.Families[i]
	}
	return nil
}

// SampleCount returns the total number of samples across all families.
func (d *Document) SampleCount() int {
	n := 0
	for _, f := range d.Families {
		n += len(f.Samples)
	}
	return n
}

// family returns the named family, creating an untyped one at the end of the
// document if it does not exist yet.
func (d *Document) family(name string) *Family {
	if i, ok := d.index[name]; ok {
		return d.Families[i]
	}
	f := &Family{Name: name, Kind: KindUntyped}
	d.index[name] = len(d.Families)
	d.Families = append(d.Families, f)
	return f
}
