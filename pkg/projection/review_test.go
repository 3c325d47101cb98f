package projection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

const reviewText = `# TYPE group_members gauge
group_members{group="engine"} 12
group_members{group="Engine"} 99
# TYPE group_reviews_total gauge
group_reviews_total{group="engine"} 340
# TYPE group_avg_review_turnaround_hours gauge
group_avg_review_turnaround_hours{group="engine"} 5.25
# TYPE group_unknown_metric gauge
group_unknown_metric{group="engine"} 1
# TYPE group_daily_reviews gauge
group_daily_reviews{group="engine",date="2026-10-15"} 4
group_daily_reviews{group="engine",date="2026-10-16"} 7
# TYPE group_daily_comments gauge
group_daily_comments{group="engine",date="2026-10-16"} 21
# TYPE group_top_contributor gauge
group_top_contributor{group="engine",user="a"} 5
group_top_contributor{group="engine",user="b"} 5
group_top_contributor{group="engine",user="c"} 3
group_top_contributor{group="tools",user="z"} 50
`

func TestProjectGroupSummary(t *testing.T) {
	t.Parallel()

	doc := exposition.Parse(reviewText)
	got := ProjectGroupSummary(doc, "engine")

	require.NotNil(t, got.Members)
	assert.Equal(t, 12.0, *got.Members)
	require.NotNil(t, got.ReviewsTotal)
	assert.Equal(t, 340.0, *got.ReviewsTotal)
	require.NotNil(t, got.AvgReviewTurnaroundHours)
	assert.Equal(t, 5.25, *got.AvgReviewTurnaroundHours)
	assert.Nil(t, got.CommentsTotal)
	assert.Nil(t, got.ApprovalsTotal)
	assert.Nil(t, got.OpenReviews)
	assert.Nil(t, got.ActiveReviewers)

	b, err := json.Marshal(got)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"group": "engine",
		"members": 12,
		"reviews_total": 340,
		"comments_total": null,
		"approvals_total": null,
		"open_reviews": null,
		"active_reviewers": null,
		"avg_review_turnaround_hours": 5.25
	}`, string(b))
}

func TestProjectGroupSummary_NoData(t *testing.T) {
	t.Parallel()

	got := ProjectGroupSummary(exposition.Parse(reviewText), "art")
	assert.Equal(t, GroupSummary{Group: "art"}, got)
}

func TestProjectDailySnapshot(t *testing.T) {
	t.Parallel()

	got := ProjectDailySnapshot(exposition.Parse(reviewText), "engine")

	require.NotNil(t, got.Reviews)
	assert.Equal(t, 7.0, *got.Reviews)
	require.NotNil(t, got.Comments)
	assert.Equal(t, 21.0, *got.Comments)
	require.NotNil(t, got.Date)
	assert.Equal(t, "2026-10-16", *got.Date)
	assert.Nil(t, got.Approvals)
	assert.Nil(t, got.ChangelistsSubmitted)
}

func TestProjectTopContributors(t *testing.T) {
	t.Parallel()

	doc := exposition.Parse(reviewText)

	t.Run("stable top-k", func(t *testing.T) {
		t.Parallel()

		got := ProjectTopContributors(doc, "engine", 2)
		assert.Equal(t, []Contributor{{User: "a", ActivityCount: 5}, {User: "b", ActivityCount: 5}}, got.Contributors)
		assert.Equal(t, 2, got.Limit)
	})

	t.Run("default limit", func(t *testing.T) {
		t.Parallel()

		got := ProjectTopContributors(doc, "engine", 0)
		assert.Equal(t, DefaultTopContributors, got.Limit)
		assert.Len(t, got.Contributors, 3)
	})

	t.Run("exact group", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, ProjectTopContributors(doc, "Tools", 5).Contributors)
	})
}

func TestProjectGroupOverview(t *testing.T) {
	t.Parallel()

	got := ProjectGroupOverview(exposition.Parse(reviewText), "engine", 1)
	require.NotNil(t, got.Summary.Members)
	require.NotNil(t, got.Daily.Reviews)
	require.Len(t, got.TopContributors.Contributors, 1)
	assert.Equal(t, "a", got.TopContributors.Contributors[0].User)
}
