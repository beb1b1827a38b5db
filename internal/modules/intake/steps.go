package intake

import (
	"strconv"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

// RatableChunkSize is the most ratable questions shown together on one step.
const RatableChunkSize = 3

// BuildSteps splits a question list into on-screen steps: headline scores first (primary
// before employee), then ratable questions in chunks, then one step per free-text question.
func BuildSteps(questions []survey.Question) []survey.Step {
	var (
		primary  []survey.Question
		employee []survey.Question
		ratable  []survey.Question
		freeText []survey.Question
	)
	for _, q := range questions {
		switch q.Type {
		case survey.TypeScore:
			primary = append(primary, q)
		case survey.TypeEmployeeScore:
			employee = append(employee, q)
		case survey.TypeFreeText:
			freeText = append(freeText, q)
		default:
			ratable = append(ratable, q)
		}
	}

	groups := make([][]survey.Question, 0, len(questions))
	for _, q := range primary {
		groups = append(groups, []survey.Question{q})
	}
	for _, q := range employee {
		groups = append(groups, []survey.Question{q})
	}
	for start := 0; start < len(ratable); start += RatableChunkSize {
		end := start + RatableChunkSize
		if end > len(ratable) {
			end = len(ratable)
		}
		chunk := make([]survey.Question, end-start)
		copy(chunk, ratable[start:end])
		groups = append(groups, chunk)
	}
	for _, q := range freeText {
		groups = append(groups, []survey.Question{q})
	}

	steps := make([]survey.Step, 0, len(groups))
	for i, g := range groups {
		steps = append(steps, survey.Step{ID: StepID(i), Questions: g})
	}
	return steps
}

func StepID(i int) string { return "step-" + strconv.Itoa(i) }

// FindStep returns the step with the given id.
func FindStep(steps []survey.Step, id string) (survey.Step, bool) {
	for _, s := range steps {
		if s.ID == id {
			return s, true
		}
	}
	return survey.Step{}, false
}
