package projection

import (
	"math"

	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

// Skills metrics families.
const (
	ProficiencyByUserInitiative     = "proficiency_by_user_initiative"
	ProficiencyByUserEpic           = "proficiency_by_user_epic"
	SubmitterExperienceByInitiative = "submitter_experience_by_initiative"
	SubmitterExperienceByEpic       = "submitter_experience_by_epic"
	InitiativeCoverageFamily        = "initiative_coverage"
)

// Review metrics families.
const (
	GroupTopContributor = "group_top_contributor"
)

// Label names.
const (
	LabelSubmitter  = "submitter"
	LabelInitiative = "initiative"
	LabelEpic       = "epic"
	LabelEpicTeam   = "epic_team"
	LabelGroup      = "group"
	LabelUser       = "user"
	LabelDate       = "date"
)

// SkillsFamilies lists every family read by the skills views.
func SkillsFamilies() []string {
	return []string{
		ProficiencyByUserInitiative,
		ProficiencyByUserEpic,
		SubmitterExperienceByInitiative,
		SubmitterExperienceByEpic,
		InitiativeCoverageFamily,
	}
}

// ReviewFamilies lists every family read by the review views.
func ReviewFamilies() []string {
	names := make([]string, 0, len(groupSummaryFields)+len(dailySnapshotFields)+1)
	for _, f := range groupSummaryFields {
		names = append(names, f.metric)
	}
	for _, f := range dailySnapshotFields {
		names = append(names, f.metric)
	}
	return append(names, GroupTopContributor)
}

func finite(s exposition.Sample) bool {
	return !math.IsNaN(s.Value) && !math.IsInf(s.Value, 0)
}

func usable(samples []exposition.Sample) []exposition.Sample {
	out := samples[:0:0]
	for _, s := range samples {
		if finite(s) {
			out = append(out, s)
		}
	}
	return out
}
