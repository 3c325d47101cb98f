package projection

import (
	"sort"

	"github.com/gameplay-tools/gameplay-mcp/internal/matching"
	"github.com/gameplay-tools/gameplay-mcp/pkg/exposition"
)

// DefaultMinLevel is the proficiency floor used by BestSubmitters when the
// caller does not pass one.
const DefaultMinLevel = 3.0

// InitiativeSkill is one proficiency reading for an initiative.
type InitiativeSkill struct {
	Initiative       string  `json:"initiative"`
	EpicTeam         string  `json:"epic_team"`
	ProficiencyLevel float64 `json:"proficiency_level"`
}

// EpicSkill is one proficiency reading for an epic.
type EpicSkill struct {
	Epic             string  `json:"epic"`
	EpicTeam         string  `json:"epic_team"`
	ProficiencyLevel float64 `json:"proficiency_level"`
}

// SkillProfile lists a submitter's proficiency readings in source order.
type SkillProfile struct {
	Submitter    string            `json:"submitter"`
	ByInitiative []InitiativeSkill `json:"by_initiative"`
	ByEpic       []EpicSkill       `json:"by_epic"`
}

// ProjectSkillProfile selects every proficiency sample for submitter.
func ProjectSkillProfile(doc *exposition.Document, submitter string) SkillProfile {
	who := matching.Eq(LabelSubmitter, submitter)
	p := SkillProfile{
		Submitter:    submitter,
		ByInitiative: []InitiativeSkill{},
		ByEpic:       []EpicSkill{},
	}
	// An empty identity would otherwise disable the filter.
	if submitter == "" {
		return p
	}

	for _, s := range usable(matching.Samples(doc, ProficiencyByUserInitiative, who)) {
		p.ByInitiative = append(p.ByInitiative, InitiativeSkill{
			Initiative:       s.Labels[LabelInitiative],
			EpicTeam:         s.Labels[LabelEpicTeam],
			ProficiencyLevel: s.Value,
		})
	}
	for _, s := range usable(matching.Samples(doc, ProficiencyByUserEpic, who)) {
		p.ByEpic = append(p.ByEpic, EpicSkill{
			Epic:             s.Labels[LabelEpic],
			EpicTeam:         s.Labels[LabelEpicTeam],
			ProficiencyLevel: s.Value,
		})
	}
	return p
}

// CoverageEntry is one submitter's coverage of an initiative.
type CoverageEntry struct {
	Submitter   string  `json:"submitter"`
	Initiative  string  `json:"initiative"`
	EpicTeam    string  `json:"epic_team"`
	CoveragePct float64 `json:"coverage_pct"`
}

// InitiativeCoverage summarizes who covers an initiative.
type InitiativeCoverage struct {
	Initiative string `json:"initiative"`
	EpicTeam   string `json:"epic_team,omitempty"`
	// SubmittersByTeam maps epic team to its experienced-submitter count.
	SubmittersByTeam map[string]float64 `json:"submitters_by_team"`
	Coverage         []CoverageEntry    `json:"coverage"`
}

// ProjectInitiativeCoverage builds the team counts and coverage list for an
// initiative, optionally narrowed to one epic team.
func ProjectInitiativeCoverage(doc *exposition.Document, initiative, epicTeam string) InitiativeCoverage {
	c := InitiativeCoverage{
		Initiative:       initiative,
		EpicTeam:         epicTeam,
		SubmittersByTeam: map[string]float64{},
		Coverage:         []CoverageEntry{},
	}
	if initiative == "" {
		return c
	}
	filter := []matching.Constraint{
		matching.Fold(LabelInitiative, initiative),
		matching.Eq(LabelEpicTeam, epicTeam),
	}

	for _, s := range usable(matching.Samples(doc, SubmitterExperienceByInitiative, filter...)) {
		team, ok := s.Label(LabelEpicTeam)
		if !ok {
			continue
		}
		c.SubmittersByTeam[team] = s.Value
	}
	for _, s := range usable(matching.Samples(doc, InitiativeCoverageFamily, filter...)) {
		c.Coverage = append(c.Coverage, CoverageEntry{
			Submitter:   s.Labels[LabelSubmitter],
			Initiative:  s.Labels[LabelInitiative],
			EpicTeam:    s.Labels[LabelEpicTeam],
			CoveragePct: s.Value,
		})
	}
	return c
}

// RankedSubmitter is a submitter ranked by proficiency.
type RankedSubmitter struct {
	Submitter        string  `json:"submitter"`
	EpicTeam         string  `json:"epic_team"`
	ProficiencyLevel float64 `json:"proficiency_level"`
}

// BestSubmitters ranks submitters for an initiative.
type BestSubmitters struct {
	Initiative string            `json:"initiative"`
	MinLevel   float64           `json:"min_level"`
	Submitters []RankedSubmitter `json:"submitters"`
}

// ProjectBestSubmitters keeps the initiative's submitters at or above
// minLevel, highest first. Equal levels keep their document order.
func ProjectBestSubmitters(doc *exposition.Document, initiative string, minLevel float64) BestSubmitters {
	b := BestSubmitters{
		Initiative: initiative,
		MinLevel:   minLevel,
		Submitters: []RankedSubmitter{},
	}
	if initiative == "" {
		return b
	}

	for _, s := range usable(matching.Samples(doc, ProficiencyByUserInitiative, matching.Fold(LabelInitiative, initiative))) {
		if s.Value < minLevel {
			continue
		}
		b.Submitters = append(b.Submitters, RankedSubmitter{
			Submitter:        s.Labels[LabelSubmitter],
			EpicTeam:         s.Labels[LabelEpicTeam],
			ProficiencyLevel: s.Value,
		})
	}
	sort.SliceStable(b.Submitters, func(i, j int) bool {
		return b.Submitters[i].ProficiencyLevel > b.Submitters[j].ProficiencyLevel
	})
	return b
}

// EpicExpert is one submitter's proficiency on an epic.
type EpicExpert struct {
	Submitter        string  `json:"submitter"`
	EpicTeam         string  `json:"epic_team"`
	ProficiencyLevel float64 `json:"proficiency_level"`
}

// EpicExpertise reports how many submitters know an epic and who they are.
type EpicExpertise struct {
	Epic string `json:"epic"`
	// SubmitterCount is null when the document has no count for the epic.
	SubmitterCount *float64     `json:"submitter_count"`
	Experts        []EpicExpert `json:"experts"`
}

// ProjectEpicExpertise reads the epic's submitter count (last sample wins)
// and its experts ordered by proficiency, highest first.
func ProjectEpicExpertise(doc *exposition.Document, epic string) EpicExpertise {
	e := EpicExpertise{Epic: epic, Experts: []EpicExpert{}}
	if epic == "" {
		return e
	}
	which := matching.Fold(LabelEpic, epic)

	for _, s := range usable(matching.Samples(doc, SubmitterExperienceByEpic, which)) {
		v := s.Value
		e.SubmitterCount = &v
	}
	for _, s := range usable(matching.Samples(doc, ProficiencyByUserEpic, which)) {
		e.Experts = append(e.Experts, EpicExpert{
			Submitter:        s.Labels[LabelSubmitter],
			EpicTeam:         s.Labels[LabelEpicTeam],
			ProficiencyLevel: s.Value,
		})
	}
	sort.SliceStable(e.Experts, func(i, j int) bool {
		return e.Experts[i].ProficiencyLevel > e.Experts[j].ProficiencyLevel
	})
	return e
}

// ReadinessEntry pairs a submitter's proficiency with their coverage.
type ReadinessEntry struct {
	Submitter        string  `json:"submitter"`
	Initiative       string  `json:"initiative"`
	EpicTeam         string  `json:"epic_team"`
	ProficiencyLevel float64 `json:"proficiency_level"`
	CoveragePct      float64 `json:"coverage_pct"`
}

// InitiativeReadiness correlates proficiency and coverage for an initiative.
type InitiativeReadiness struct {
	Initiative string           `json:"initiative"`
	EpicTeam   string           `json:"epic_team,omitempty"`
	Entries    []ReadinessEntry `json:"entries"`
}

// ProjectInitiativeReadiness joins proficiency_by_user_initiative with
// initiative_coverage on submitter, initiative and epic team. Proficiency
// readings without a coverage partner are left out.
func ProjectInitiativeReadiness(doc *exposition.Document, initiative, epicTeam string) InitiativeReadiness {
	r := InitiativeReadiness{Initiative: initiative, EpicTeam: epicTeam, Entries: []ReadinessEntry{}}
	if initiative == "" {
		return r
	}
	filter := []matching.Constraint{
		matching.Fold(LabelInitiative, initiative),
		matching.Eq(LabelEpicTeam, epicTeam),
	}

	left := matching.Select(doc, filter, ProficiencyByUserInitiative)
	right := matching.Select(doc, filter, InitiativeCoverageFamily)
	for _, p := range matching.Join(left, right, matching.TrimLower, LabelSubmitter, LabelInitiative, LabelEpicTeam) {
		if !finite(p.Left.Sample) || !finite(p.Right.Sample) {
			continue
		}
		r.Entries = append(r.Entries, ReadinessEntry{
			Submitter:        p.Left.Sample.Labels[LabelSubmitter],
			Initiative:       p.Left.Sample.Labels[LabelInitiative],
			EpicTeam:         p.Left.Sample.Labels[LabelEpicTeam],
			ProficiencyLevel: p.Left.Sample.Value,
			CoveragePct:      p.Right.Sample.Value,
		})
	}
	return r
}
