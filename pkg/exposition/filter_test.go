package exposition

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const reviewDoc = `# HELP group_members Members per group.
# TYPE group_members gauge
group_members{group="engine"} 12
# HELP group_daily_reviews Reviews today.
# TYPE group_daily_reviews gauge
group_daily_reviews{group="engine",date="2026-10-16"} 7
# HELP process_cpu_seconds_total CPU.
# TYPE process_cpu_seconds_total counter
process_cpu_seconds_total 3.2
# some comment about group_members

go_goroutines 14
`

func TestFilterRelevant(t *testing.T) {
	t.Parallel()

	got := FilterRelevant(reviewDoc, []string{"group_members", "group_daily_reviews"})
	assert.Equal(t, `# HELP group_members Members per group.
# TYPE group_members gauge
group_members{group="engine"} 12
# HELP group_daily_reviews Reviews today.
# TYPE group_daily_reviews gauge
group_daily_reviews{group="engine",date="2026-10-16"} 7
`, got)
}

func TestFilterRelevant_DescriptorSubstringMatch(t *testing.T) {
	t.Parallel()

	text := "# TYPE group_members_total counter\ngroup_members_total 3\n# TYPE members gauge\nmembers 1\n"
	got := FilterRelevant(text, []string{"group_members"})
	assert.Equal(t, "# TYPE group_members_total counter\ngroup_members_total 3\n", got)
}

func TestFilterRelevant_SamplePrefixMatch(t *testing.T) {
	t.Parallel()

	text := "x_group_members 1\ngroup_members_extra 2\n"
	assert.Equal(t, "group_members_extra 2\n", FilterRelevant(text, []string{"group_members"}))
}

func TestFilterRelevant_Idempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{
		reviewDoc,
		"",
		"\r\n\r\n",
		"group_members 1\r\ngroup_members 2",
		"  group_members 1\n# HELP group_members   spaced\n",
	}
	names := []string{"group_members", "group_daily_reviews"}

	for _, in := range inputs {
		once := FilterRelevant(in, names)
		assert.Equal(t, once, FilterRelevant(once, names), "input %q", in)
	}
}

func TestFilterRelevant_EmptyAllowList(t *testing.T) {
	t.Parallel()

	assert.Equal(t, reviewDoc, FilterRelevant(reviewDoc, nil))
}

func TestFilterRelevant_ParsesLikeUnfiltered(t *testing.T) {
	t.Parallel()

	names := []string{"group_members"}
	full := Parse(reviewDoc).Family("group_members")
	filtered := Parse(FilterRelevant(reviewDoc, names)).Family("group_members")
	assert.Equal(t, full, filtered)
}
