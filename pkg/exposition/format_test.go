package exposition

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatSample(t *testing.T) {
	t.Parallel()

	ts := int64(42)
	line := FormatSample(Sample{
		MetricName:      "m",
		Labels:          map[string]string{"z": "last", "a": `q"uo\te` + "\n"},
		Value:           1.5,
		TimestampMillis: &ts,
	})
	assert.Equal(t, `m{a="q\"uo\\te\n",z="last"} 1.5 42`, line)

	assert.Equal(t, "up 1", FormatSample(Sample{MetricName: "up", Value: 1}))
}

func TestFormatValue(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NaN", FormatValue(math.NaN()))
	assert.Equal(t, "+Inf", FormatValue(math.Inf(1)))
	assert.Equal(t, "-Inf", FormatValue(math.Inf(-1)))
	assert.Equal(t, "3", FormatValue(3))
	assert.Equal(t, "0.1", FormatValue(0.1))
	assert.Equal(t, "1e+21", FormatValue(1e21))
}

func TestSampleRoundTrip(t *testing.T) {
	t.Parallel()

	ts := int64(-17)
	samples := []Sample{
		{MetricName: "a", Labels: map[string]string{}, Value: 0},
		{MetricName: "ns:metric_total", Labels: map[string]string{"k": "v"}, Value: 123456789.125},
		{MetricName: "b", Labels: map[string]string{"x": `\`, "y": `"`, "z": "\n", "w": `\n`}, Value: -2.5e-300},
		{MetricName: "c", Labels: map[string]string{"empty": ""}, Value: math.MaxFloat64, TimestampMillis: &ts},
		{MetricName: "d", Labels: map[string]string{"sp": "  padded  ", "u": "ünï"}, Value: math.SmallestNonzeroFloat64},
		{MetricName: "e", Labels: map[string]string{}, Value: math.Inf(1)},
	}

	for _, want := range samples {
		got, err := ParseSample(FormatSample(want))
		require.NoError(t, err, want.MetricName)
		assert.Equal(t, want, got, want.MetricName)
	}

	got, err := ParseSample(FormatSample(Sample{MetricName: "n", Value: math.NaN()}))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got.Value))
}

func TestWrite_DocumentRoundTrip(t *testing.T) {
	t.Parallel()

	doc := Parse(skillsDoc)
	again := Parse(Format(doc))

	assert.Equal(t, doc.Families, again.Families)
	assert.Zero(t, again.Diagnostics.SkippedLines)
}
