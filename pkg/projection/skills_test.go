package projection

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

const skillsText = `# HELP proficiency_by_user_initiative Proficiency per submitter and initiative.
# TYPE proficiency_by_user_initiative gauge
proficiency_by_user_initiative{submitter="alice",initiative="Foo",epic_team="T1"} 3
proficiency_by_user_initiative{submitter="bob",initiative="foo",epic_team="T2"} 2
proficiency_by_user_initiative{submitter="carol",initiative=" FOO",epic_team="T1"} 4
proficiency_by_user_initiative{submitter="dave",initiative="Bar",epic_team="T1"} 5
proficiency_by_user_initiative{submitter="erin",initiative="Foo",epic_team="T3"} 4
proficiency_by_user_initiative{submitter="frank",initiative="Foo",epic_team="T3"} NaN
# TYPE proficiency_by_user_epic gauge
proficiency_by_user_epic{submitter="alice",epic="Physics",epic_team="T1"} 2
proficiency_by_user_epic{submitter="bob",epic="physics ",epic_team="T2"} 5
proficiency_by_user_epic{submitter="carol",epic="Physics",epic_team="T1"} 5
# TYPE submitter_experience_by_initiative gauge
submitter_experience_by_initiative{initiative="Foo",epic_team="T1"} 2
submitter_experience_by_initiative{initiative="Foo",epic_team="T2"} 1
submitter_experience_by_initiative{initiative="Foo"} 9
submitter_experience_by_initiative{initiative="Bar",epic_team="T1"} 1
# TYPE submitter_experience_by_epic gauge
submitter_experience_by_epic{epic="Physics"} 2
submitter_experience_by_epic{epic="physics"} 3
# TYPE initiative_coverage gauge
initiative_coverage{submitter="alice",initiative="Foo",epic_team="T1"} 80
initiative_coverage{submitter="bob",initiative="Foo",epic_team="T2"} 40
initiative_coverage{submitter="dave",initiative="Bar",epic_team="T1"} 10
`

func TestProjectSkillProfile(t *testing.T) {
	t.Parallel()

	t.Run("single initiative sample", func(t *testing.T) {
		t.Parallel()

		doc := exposition.Parse(`proficiency_by_user_initiative{submitter="alice",initiative="Foo",epic_team="T1"} 3`)
		got := ProjectSkillProfile(doc, "alice")
		assert.Equal(t, []InitiativeSkill{{Initiative: "Foo", EpicTeam: "T1", ProficiencyLevel: 3}}, got.ByInitiative)
		assert.Equal(t, []EpicSkill{}, got.ByEpic)
	})

	t.Run("source order, exact identity", func(t *testing.T) {
		t.Parallel()

		doc := exposition.Parse(skillsText)
		got := ProjectSkillProfile(doc, "alice")
		assert.Equal(t, []InitiativeSkill{{Initiative: "Foo", EpicTeam: "T1", ProficiencyLevel: 3}}, got.ByInitiative)
		assert.Equal(t, []EpicSkill{{Epic: "Physics", EpicTeam: "T1", ProficiencyLevel: 2}}, got.ByEpic)

		assert.Empty(t, ProjectSkillProfile(doc, "Alice").ByInitiative)
		assert.Empty(t, ProjectSkillProfile(doc, "alice ").ByEpic)
	})

	t.Run("empty lists encode as arrays", func(t *testing.T) {
		t.Parallel()

		b, err := json.Marshal(ProjectSkillProfile(exposition.Parse(""), "nobody"))
		require.NoError(t, err)
		assert.JSONEq(t, `{"submitter":"nobody","by_initiative":[],"by_epic":[]}`, string(b))
	})
}

func TestProjectInitiativeCoverage(t *testing.T) {
	t.Parallel()

	doc := exposition.Parse(skillsText)

	t.Run("all teams", func(t *testing.T) {
		t.Parallel()

		got := ProjectInitiativeCoverage(doc, "foo ", "")
		assert.Equal(t, map[string]float64{"T1": 2, "T2": 1}, got.SubmittersByTeam)
		assert.Equal(t, []CoverageEntry{
			{Submitter: "alice", Initiative: "Foo", EpicTeam: "T1", CoveragePct: 80},
			{Submitter: "bob", Initiative: "Foo", EpicTeam: "T2", CoveragePct: 40},
		}, got.Coverage)
	})

	t.Run("one team, exact", func(t *testing.T) {
		t.Parallel()

		got := ProjectInitiativeCoverage(doc, "Foo", "T2")
		assert.Equal(t, map[string]float64{"T2": 1}, got.SubmittersByTeam)
		require.Len(t, got.Coverage, 1)
		assert.Equal(t, "bob", got.Coverage[0].Submitter)

		assert.Empty(t, ProjectInitiativeCoverage(doc, "Foo", "t2").Coverage)
	})

	t.Run("no match", func(t *testing.T) {
		t.Parallel()

		got := ProjectInitiativeCoverage(doc, "Baz", "")
		assert.Empty(t, got.SubmittersByTeam)
		assert.Empty(t, got.Coverage)
	})
}

func TestProjectBestSubmitters(t *testing.T) {
	t.Parallel()

	t.Run("filters by level and sorts descending", func(t *testing.T) {
		t.Parallel()

		doc := exposition.Parse(`proficiency_by_user_initiative{submitter="a",initiative="X",epic_team="T"} 2
proficiency_by_user_initiative{submitter="b",initiative="X",epic_team="T"} 3
proficiency_by_user_initiative{submitter="c",initiative="X",epic_team="T"} 4
`)
		got := ProjectBestSubmitters(doc, "X", DefaultMinLevel)
		require.Len(t, got.Submitters, 2)
		assert.Equal(t, "c", got.Submitters[0].Submitter)
		assert.Equal(t, 4.0, got.Submitters[0].ProficiencyLevel)
		assert.Equal(t, "b", got.Submitters[1].Submitter)
		assert.Equal(t, 3.0, got.Submitters[1].ProficiencyLevel)
	})

	t.Run("stable ties, trimLower initiative, NaN dropped", func(t *testing.T) {
		t.Parallel()

		got := ProjectBestSubmitters(exposition.Parse(skillsText), "FOO", 3)
		names := make([]string, 0, len(got.Submitters))
		for _, s := range got.Submitters {
			names = append(names, s.Submitter)
		}
		assert.Equal(t, []string{"carol", "erin", "alice"}, names)
		assert.Equal(t, 3.0, got.MinLevel)
	})
}

func TestProjectEpicExpertise(t *testing.T) {
	t.Parallel()

	doc := exposition.Parse(skillsText)
	got := ProjectEpicExpertise(doc, "PHYSICS")

	require.NotNil(t, got.SubmitterCount)
	assert.Equal(t, 3.0, *got.SubmitterCount)
	assert.Equal(t, []EpicExpert{
		{Submitter: "bob", EpicTeam: "T2", ProficiencyLevel: 5},
		{Submitter: "carol", EpicTeam: "T1", ProficiencyLevel: 5},
		{Submitter: "alice", EpicTeam: "T1", ProficiencyLevel: 2},
	}, got.Experts)

	none := ProjectEpicExpertise(doc, "Rendering")
	assert.Nil(t, none.SubmitterCount)
	assert.Empty(t, none.Experts)

	b, err := json.Marshal(none)
	require.NoError(t, err)
	assert.JSONEq(t, `{"epic":"Rendering","submitter_count":null,"experts":[]}`, string(b))
}

func TestProjectInitiativeReadiness(t *testing.T) {
	t.Parallel()

	doc := exposition.Parse(skillsText)

	got := ProjectInitiativeReadiness(doc, "Foo", "")
	assert.Equal(t, []ReadinessEntry{
		{Submitter: "alice", Initiative: "Foo", EpicTeam: "T1", ProficiencyLevel: 3, CoveragePct: 80},
		{Submitter: "bob", Initiative: "foo", EpicTeam: "T2", ProficiencyLevel: 2, CoveragePct: 40},
	}, got.Entries)

	narrowed := ProjectInitiativeReadiness(doc, "Foo", "T1")
	require.Len(t, narrowed.Entries, 1)
	assert.Equal(t, "alice", narrowed.Entries[0].Submitter)
}

func TestFamilyLists(t *testing.T) {
	t.Parallel()

	assert.Contains(t, SkillsFamilies(), InitiativeCoverageFamily)
	review := ReviewFamilies()
	assert.Contains(t, review, "group_members")
	assert.Contains(t, review, "group_daily_changelists_submitted")
	assert.Contains(t, review, GroupTopContributor)
	assert.Len(t, review, 13)
}
