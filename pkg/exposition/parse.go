package exposition

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/prometheus/common/model"
)

// maxLineSize bounds a single exposition line read by ParseReader.
const maxLineSize = 10 * 1024 * 1024

var (
	errEmptyName       = errors.New("empty metric name")
	errInvalidName     = errors.New("invalid metric name")
	errUnterminated    = errors.New("unterminated label block")
	errMissingValue    = errors.New("missing sample value")
	errTrailingGarbage = errors.New("unexpected tokens after timestamp")
)

// familyState tracks per-family metadata while a document is being built.
type familyState struct {
	hasHelp bool
	hasType bool
	// closed is set once a line for another family follows this family's samples.
	closed bool
}

type parser struct {
	doc     *Document
	states  map[string]*familyState
	current string
}

func newParser() *parser {
	return &parser{
		doc:    &Document{index: make(map[string]int)},
		states: make(map[string]*familyState),
	}
}

// Parse parses exposition text. It never fails: malformed lines are skipped
// and counted in the document's Diagnostics.
func Parse(text string) *Document {
	p := newParser()
	for _, line := range strings.Split(text, "\n") {
		p.line(line)
	}
	return p.doc
}

// ParseReader parses exposition text from r. The only errors returned are
// read errors; a document is never returned partially.
func ParseReader(r io.Reader) (*Document, error) {
	p := newParser()
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	for scanner.Scan() {
		p.line(scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading exposition: %w", err)
	}
	return p.doc, nil
}

func (p *parser) line(raw string) {
	line := strings.TrimSpace(strings.TrimSuffix(raw, "\r"))
	if line == "" {
		return
	}
	if line[0] == '#' {
		p.comment(line)
		return
	}

	s, err := ParseSample(line)
	if err != nil {
		p.doc.Diagnostics.SkippedLines++
		return
	}
	p.enter(s.MetricName)
	f := p.doc.family(s.MetricName)
	f.Samples = append(f.Samples, s)
}

// comment handles HELP and TYPE descriptors. Every other comment is ignored.
func (p *parser) comment(line string) {
	rest := strings.TrimLeft(line[1:], " \t")
	keyword, rest := splitToken(rest)
	if keyword != "HELP" && keyword != "TYPE" {
		return
	}
	name, rest := splitToken(rest)
	if !model.IsValidLegacyMetricName(name) {
		p.doc.Diagnostics.SkippedLines++
		return
	}

	f, st := p.declare(name, keyword)
	switch keyword {
	case "HELP":
		f.Help = unescapeHelp(rest)
		st.hasHelp = true
	case "TYPE":
		kind, _ := splitToken(rest)
		f.Kind = ParseKind(kind)
		st.hasType = true
	}
}

// declare returns the family a descriptor applies to. A descriptor repeated
// for a family, or arriving after the family was completed, starts the family
// over.
func (p *parser) declare(name, keyword string) (*Family, *familyState) {
	st, seen := p.states[name]
	p.enter(name)
	f := p.doc.family(name)
	if !seen {
		return f, p.states[name]
	}
	if (keyword == "HELP" && st.hasHelp) || (keyword == "TYPE" && st.hasType) || st.closed {
		f.Help = ""
		f.Kind = KindUntyped
		f.Samples = nil
		*st = familyState{}
		p.doc.Diagnostics.Redefined = append(p.doc.Diagnostics.Redefined, name)
	}
	return f, st
}

// enter marks name as the family currently being read, closing the previous one.
func (p *parser) enter(name string) {
	if p.current != "" && p.current != name {
		if prev := p.states[p.current]; prev != nil {
			if f := p.doc.Family(p.current); f != nil && len(f.Samples) > 0 {
				prev.closed = true
			}
		}
	}
	if _, ok := p.states[name]; !ok {
		p.states[name] = &familyState{}
	}
	p.current = name
}

// ParseSample parses a single sample line:
//
//	metric_name{label="value",...} value [timestamp]
func ParseSample(line string) (Sample, error) {
	line = strings.TrimSpace(line)
	end := strings.IndexAny(line, "{ \t")
	if end < 0 {
		return Sample{}, errMissingValue
	}
	name := line[:end]
	if name == "" {
		return Sample{}, errEmptyName
	}
	if !model.IsValidLegacyMetricName(name) {
		return Sample{}, fmt.Errorf("%w: %q", errInvalidName, name)
	}

	s := Sample{MetricName: name, Labels: map[string]string{}}
	rest := strings.TrimLeft(line[end:], " \t")
	if rest != "" && rest[0] == '{' {
		labels, n, err := parseLabels(rest)
		if err != nil {
			return Sample{}, err
		}
		s.Labels = labels
		rest = rest[n:]
	}

	fields := strings.Fields(rest)
	switch len(fields) {
	case 0:
		return Sample{}, errMissingValue
	case 1, 2:
	default:
		return Sample{}, errTrailingGarbage
	}

	v, err := ParseValue(fields[0])
	if err != nil {
		return Sample{}, err
	}
	s.Value = v

	if len(fields) == 2 {
		ts, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return Sample{}, fmt.Errorf("invalid timestamp %q: %w", fields[1], err)
		}
		s.TimestampMillis = &ts
	}
	return s, nil
}

// ParseValue parses a sample value, accepting NaN, +Inf and -Inf.
func ParseValue(tok string) (float64, error) {
	switch tok {
	case "NaN":
		return math.NaN(), nil
	case "+Inf", "Inf":
		return math.Inf(1), nil
	case "-Inf":
		return math.Inf(-1), nil
	}
	v, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid sample value %q", tok)
	}
	return v, nil
}

// parseLabels parses a label block starting at s[0] == '{'. It returns the
// labels and the number of bytes consumed, including the closing brace.
func parseLabels(s string) (map[string]string, int, error) {
	labels := make(map[string]string)
	i := 1
	for {
		for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == ',') {
			i++
		}
		if i >= len(s) {
			return nil, 0, errUnterminated
		}
		if s[i] == '}' {
			return labels, i + 1, nil
		}

		start := i
		for i < len(s) && s[i] != '=' && s[i] != ' ' && s[i] != '\t' {
			i++
		}
		key := s[start:i]
		if !model.LabelName(key).IsValidLegacy() {
			return nil, 0, fmt.Errorf("invalid label name %q", key)
		}
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) || s[i] != '=' {
			return nil, 0, fmt.Errorf("label %q: missing '='", key)
		}
		i++
		for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
			i++
		}
		if i >= len(s) || s[i] != '"' {
			return nil, 0, fmt.Errorf("label %q: missing opening quote", key)
		}
		i++

		var b strings.Builder
		closed := false
		for i < len(s) {
			ch := s[i]
			if ch == '"' {
				closed = true
				i++
				break
			}
			if ch == '\\' && i+1 < len(s) {
				switch s[i+1] {
				case '\\':
					b.WriteByte('\\')
				case '"':
					b.WriteByte('"')
				case 'n':
					b.WriteByte('\n')
				default:
					b.WriteByte('\\')
					b.WriteByte(s[i+1])
				}
				i += 2
				continue
			}
			b.WriteByte(ch)
			i++
		}
		if !closed {
			return nil, 0, fmt.Errorf("label %q: unterminated value", key)
		}
		if _, dup := labels[key]; dup {
			return nil, 0, fmt.Errorf("duplicate label %q", key)
		}
		v := b.String()
		if !model.LabelValue(v).IsValid() {
			return nil, 0, fmt.Errorf("label %q: value is not valid UTF-8", key)
		}
		labels[key] = v

		if i < len(s) && s[i] != ',' && s[i] != '}' && s[i] != ' ' && s[i] != '\t' {
			return nil, 0, fmt.Errorf("label %q: unexpected %q after value", key, s[i])
		}
	}
}

func unescapeHelp(s string) string {
	if !strings.Contains(s, `\`) {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			switch s[i+1] {
			case '\\':
				b.WriteByte('\\')
				i++
				continue
			case 'n':
				b.WriteByte('\n')
				i++
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

// splitToken returns the first whitespace-delimited token of s and the
// remainder with leading whitespace removed.
func splitToken(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}
