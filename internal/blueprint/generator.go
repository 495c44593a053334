package blueprint

import (
	"fmt"
	"math"
	"sort"
	"time"

	"readiness-service/internal/models"
)

// Generator deterministically selects and orders exam questions under the
// structure templates and anti-repetition constraints. Same candidate pool
// and mastery state, same blueprint.
type Generator struct {
	config *Config
}

func NewGenerator(config *Config) *Generator {
	if config == nil {
		config = DefaultConfig()
	}
	return &Generator{config: config}
}

// Generate builds a blueprint from the candidate pool. The caller resolves
// the pool (enrolled subjects with fallbacks); an unknown exam type is the
// only hard failure here.
func (g *Generator) Generate(
	examType models.ExamType,
	subjectIDs []string,
	candidates []models.Question,
	insights map[string]TopicInsight,
	now time.Time,
) (*models.ExamBlueprint, error) {
	tpl, ok := g.config.Templates[examType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidExamType, examType)
	}

	sections, source := g.resolveStructure(tpl, candidates)
	freq, maxFreq := topicFrequencies(candidates)

	bp := &models.ExamBlueprint{
		ExamType:        examType,
		SubjectIDs:      subjectIDs,
		TotalMarks:      0,
		DurationMinutes: tpl.DurationMinutes,
		Sections:        make([]models.BlueprintSection, 0, len(sections)),
		StructureSource: source,
		GeneratedAt:     now,
	}

	usedIDs := make(map[string]bool)
	prevTopic := "" // carried across sections: the no-repeat rule is over the flattened sequence

	for _, st := range sections {
		pool := g.sectionPool(candidates, st.MarksPerQuestion, usedIDs)
		ranked := g.rank(pool, insights, freq, maxFreq)
		selected, lastTopic := g.selectFromRanked(ranked, st.QuestionCount, usedIDs, prevTopic)
		if lastTopic != "" {
			prevTopic = lastTopic
		}

		section := models.BlueprintSection{
			Name:             st.Name,
			MarksPerQuestion: st.MarksPerQuestion,
			QuestionCount:    len(selected),
			TotalMarks:       st.MarksPerQuestion * len(selected),
			Questions:        selected,
		}
		bp.TotalMarks += section.TotalMarks
		bp.Sections = append(bp.Sections, section)
	}

	bp.Coverage = g.coverage(bp, insights)
	return bp, nil
}

// resolveStructure infers per-section marks values from the pool's actual
// marks distribution when enough distinct values exist; otherwise the static
// template stands. Inference is all-or-nothing and never changes the section
// count or duration.
func (g *Generator) resolveStructure(tpl Template, candidates []models.Question) ([]SectionTemplate, string) {
	distinct := map[int]bool{}
	for _, q := range candidates {
		if q.Marks > 0 {
			distinct[q.Marks] = true
		}
	}
	if len(distinct) < g.config.MinDistinctMarksForInference {
		return tpl.Sections, "template"
	}

	values := make([]int, 0, len(distinct))
	for v := range distinct {
		values = append(values, v)
	}
	sort.Ints(values)

	inferred := make([]SectionTemplate, len(tpl.Sections))
	for i, st := range tpl.Sections {
		inferred[i] = st
		inferred[i].MarksPerQuestion = nearestMarks(values, st.MarksPerQuestion)
	}
	return inferred, "inferred"
}

func nearestMarks(sorted []int, target int) int {
	best := sorted[0]
	bestDist := abs(sorted[0] - target)
	for _, v := range sorted[1:] {
		d := abs(v - target)
		if d < bestDist {
			best, bestDist = v, d
		}
	}
	return best
}

// sectionPool filters candidates by the section's marks value and type
// whitelist, falling back to any unused question when nothing matches.
func (g *Generator) sectionPool(candidates []models.Question, marks int, usedIDs map[string]bool) []models.Question {
	allowed := map[models.QuestionType]bool{}
	for _, t := range typesForMarks(marks) {
		allowed[t] = true
	}

	pool := make([]models.Question, 0)
	for _, q := range candidates {
		if usedIDs[q.ID] {
			continue
		}
		if q.Marks == marks && allowed[q.Type] {
			pool = append(pool, q)
		}
	}
	if len(pool) > 0 {
		return pool
	}

	// Defined degradation: any available question from the subject set.
	for _, q := range candidates {
		if !usedIDs[q.ID] {
			pool = append(pool, q)
		}
	}
	return pool
}

func (g *Generator) rank(
	pool []models.Question,
	insights map[string]TopicInsight,
	freq map[string]int,
	maxFreq int,
) []scoredQuestion {
	cfg := g.config
	ranked := make([]scoredQuestion, 0, len(pool))

	for _, q := range pool {
		topic := q.PrimaryTopic()

		deficit := cfg.DefaultDeficit
		staleness := cfg.DefaultStaleness
		days := cfg.StalenessWindowDays
		weak := false
		if ins, ok := insights[topic]; ok && ins.AttemptCount > 0 {
			deficit = 1 - ins.MasteryScore
			staleness = math.Min(ins.DaysSincePractice/cfg.StalenessWindowDays, 1)
			days = ins.DaysSincePractice
			weak = ins.MasteryScore < cfg.WeakMasteryScore
		}

		frequency := 0.0
		if maxFreq > 0 {
			frequency = float64(freq[topic]) / float64(maxFreq)
		}

		// Weak topics get easier questions; strong ones get harder ones.
		alignment := q.DifficultyWeight()
		if weak {
			alignment = 1 - alignment
		}

		sq := scoredQuestion{
			question:       q,
			deficitPart:    cfg.MasteryDeficitWeight * deficit,
			frequencyPart:  cfg.FrequencyWeight * frequency,
			stalenessPart:  cfg.StalenessWeight * staleness,
			difficultyPart: cfg.DifficultyWeight * alignment,
			daysSince:      days,
			weakTopic:      weak,
		}
		sq.score = sq.deficitPart + sq.frequencyPart + sq.stalenessPart + sq.difficultyPart
		ranked = append(ranked, sq)
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].score != ranked[j].score {
			return ranked[i].score > ranked[j].score
		}
		return ranked[i].question.ID < ranked[j].question.ID
	})
	return ranked
}

// selectFromRanked walks the ranked list greedily. A candidate sharing the
// immediately-preceding topic is skipped in favour of the next one down; the
// topic constraint is relaxed only when the remaining pool cannot fill the
// position at all.
func (g *Generator) selectFromRanked(
	ranked []scoredQuestion,
	quota int,
	usedIDs map[string]bool,
	prevTopic string,
) ([]models.BlueprintQuestion, string) {
	selected := make([]models.BlueprintQuestion, 0, quota)

	for len(selected) < quota {
		pick := -1
		for i, sq := range ranked {
			if usedIDs[sq.question.ID] {
				continue
			}
			if sq.question.PrimaryTopic() == prevTopic && prevTopic != "" {
				continue
			}
			pick = i
			break
		}
		if pick < 0 {
			// Pool exhausted under the anti-repetition rule: allow a repeat
			// rather than under-fill the section.
			for i, sq := range ranked {
				if !usedIDs[sq.question.ID] {
					pick = i
					break
				}
			}
		}
		if pick < 0 {
			break // nothing left at all
		}

		sq := ranked[pick]
		usedIDs[sq.question.ID] = true
		prevTopic = sq.question.PrimaryTopic()
		selected = append(selected, models.BlueprintQuestion{
			QuestionID:     sq.question.ID,
			Text:           sq.question.Text,
			Type:           sq.question.Type,
			Marks:          sq.question.Marks,
			Difficulty:     sq.question.Difficulty,
			TopicTags:      sq.question.TopicTags,
			PrimaryTopic:   sq.question.PrimaryTopic(),
			SelectionScore: round2(sq.score),
			WhySelected:    g.whySelected(sq),
		})
	}

	return selected, prevTopic
}

// whySelected names the dominant scoring component.
func (g *Generator) whySelected(sq scoredQuestion) string {
	type part struct {
		value  float64
		reason string
	}
	parts := []part{
		{sq.deficitPart, fmt.Sprintf("weak mastery on %s", sq.question.PrimaryTopic())},
		{sq.frequencyPart, "frequently examined topic"},
		{sq.stalenessPart, fmt.Sprintf("not practiced in %.0f days", sq.daysSince)},
		{sq.difficultyPart, "difficulty suited to current level"},
	}
	best := parts[0]
	for _, p := range parts[1:] {
		if p.value > best.value {
			best = p
		}
	}
	return best.reason
}

func (g *Generator) coverage(bp *models.ExamBlueprint, insights map[string]TopicInsight) models.BlueprintCoverage {
	topics := map[string]bool{}
	typeCounts := map[string]int{}
	weak := 0

	for _, s := range bp.Sections {
		for _, q := range s.Questions {
			if q.PrimaryTopic != "" {
				topics[q.PrimaryTopic] = true
			}
			typeCounts[string(q.Type)]++
			if ins, ok := insights[q.PrimaryTopic]; ok && ins.AttemptCount > 0 &&
				ins.MasteryScore < g.config.WeakMasteryScore {
				weak++
			}
		}
	}

	covered := make([]string, 0, len(topics))
	for t := range topics {
		covered = append(covered, t)
	}
	sort.Strings(covered)

	return models.BlueprintCoverage{
		DistinctTopics:     len(covered),
		TopicsCovered:      covered,
		QuestionTypeCounts: typeCounts,
		WeakTopicQuestions: weak,
	}
}

func topicFrequencies(candidates []models.Question) (map[string]int, int) {
	freq := map[string]int{}
	max := 0
	for _, q := range candidates {
		t := q.PrimaryTopic()
		if t == "" {
			continue
		}
		freq[t]++
		if freq[t] > max {
			max = freq[t]
		}
	}
	return freq, max
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
