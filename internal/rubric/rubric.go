package rubric

import (
	"fmt"
	"math"
	"sort"

	"readiness-service/internal/models"
)

// Criterion is one weighted scoring dimension of a rubric.
type Criterion struct {
	Name     string  `json:"name"`
	Weight   float64 `json:"weight"`
	MaxMarks float64 `json:"max_marks"`
}

// Rubric is the fixed criterion set used to grade one question.
type Rubric struct {
	QuestionType models.QuestionType `json:"question_type"`
	TotalMarks   int                 `json:"total_marks"`
	Criteria     []Criterion         `json:"criteria"`
}

// Build constructs the rubric for (question type, total marks). Criterion max
// marks are integer allocations that always sum exactly to the total: plain
// rounding of weight*total can drift by a mark, so the remainder after
// flooring is handed out by largest fractional part.
func Build(cfg *Config, questionType models.QuestionType, totalMarks int) (*Rubric, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	weights, ok := cfg.Weights[questionType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", models.ErrInvalidQuestionType, questionType)
	}
	if totalMarks <= 0 {
		return nil, fmt.Errorf("total marks must be positive, got %d", totalMarks)
	}

	type allocation struct {
		name      string
		weight    float64
		floor     int
		remainder float64
		order     int
	}

	allocs := make([]allocation, 0, len(criterionOrder))
	assigned := 0
	for i, name := range criterionOrder {
		raw := weights[name] * float64(totalMarks)
		fl := int(math.Floor(raw))
		allocs = append(allocs, allocation{
			name:      name,
			weight:    weights[name],
			floor:     fl,
			remainder: raw - float64(fl),
			order:     i,
		})
		assigned += fl
	}

	leftover := totalMarks - assigned
	sort.Slice(allocs, func(i, j int) bool {
		if allocs[i].remainder != allocs[j].remainder {
			return allocs[i].remainder > allocs[j].remainder
		}
		return allocs[i].order < allocs[j].order
	})
	for i := 0; i < leftover; i++ {
		allocs[i%len(allocs)].floor++
	}
	sort.Slice(allocs, func(i, j int) bool { return allocs[i].order < allocs[j].order })

	criteria := make([]Criterion, 0, len(allocs))
	for _, a := range allocs {
		criteria = append(criteria, Criterion{
			Name:     a.name,
			Weight:   a.weight,
			MaxMarks: float64(a.floor),
		})
	}

	return &Rubric{
		QuestionType: questionType,
		TotalMarks:   totalMarks,
		Criteria:     criteria,
	}, nil
}

// GradeBand maps a session percentage to its named band. Boundaries are
// inclusive on the lower bound of each band.
func GradeBand(percentage float64) string {
	switch {
	case percentage >= 75:
		return "Distinction"
	case percentage >= 60:
		return "First Class"
	case percentage >= 50:
		return "Second Class"
	case percentage >= 40:
		return "Pass"
	default:
		return "Fail"
	}
}
