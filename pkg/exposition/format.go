package exposition

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ContentType is the media type of the text exposition format.
const ContentType = "text/plain; version=0.0.4; charset=utf-8"

// Write writes doc in text exposition format. Families without samples are
// written with their descriptors only.
func Write(w io.Writer, doc *Document) error {
	bw := bufio.NewWriter(w)
	for _, f := range doc.Families {
		writeFamily(bw, f)
	}
	return bw.Flush()
}

// Format returns doc in text exposition format.
func Format(doc *Document) string {
	var b strings.Builder
	_ = Write(&b, doc)
	return b.String()
}

func writeFamily(w *bufio.Writer, f *Family) {
	if f.Help != "" {
		_, _ = w.WriteString("# HELP " + f.Name + " " + escapeHelp(f.Help) + "\n")
	}
	if f.Kind != "" && f.Kind != KindUntyped {
		_, _ = w.WriteString("# TYPE " + f.Name + " " + string(f.Kind) + "\n")
	}
	for _, s := range f.Samples {
		_, _ = w.WriteString(FormatSample(s))
		_ = w.WriteByte('\n')
	}
}

// FormatSample formats a sample as one exposition line without the trailing
// newline. Labels are written in sorted key order.
func FormatSample(s Sample) string {
	var b strings.Builder
	b.WriteString(s.MetricName)
	if len(s.Labels) > 0 {
		keys := make([]string, 0, len(s.Labels))
		for k := range s.Labels {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteByte('{')
		for i, k := range keys {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(k)
			b.WriteString(`="`)
			b.WriteString(escapeLabelValue(s.Labels[k]))
			b.WriteByte('"')
		}
		b.WriteByte('}')
	}
	b.WriteByte(' ')
	b.WriteString(FormatValue(s.Value))
	if s.TimestampMillis != nil {
		b.WriteByte(' ')
		b.WriteString(strconv.FormatInt(*s.TimestampMillis, 10))
	}
	return b.String()
}

// FormatValue formats a sample value so that ParseValue returns it exactly.
func FormatValue(v float64) string {
	switch {
	case math.IsNaN(v):
		return "NaN"
	case math.IsInf(v, 1):
		return "+Inf"
	case math.IsInf(v, -1):
		return "-Inf"
	}
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func escapeHelp(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "\n", `\n`)
}

func escapeLabelValue(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return strings.ReplaceAll(s, "\n", `\n`)
}
