package survey

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSchema = errors.New("invalid question schema")

// ValidateSchema checks a question list as an admin template would be checked on save.
func ValidateSchema(questions []Question) error {
	var problems []string
	seen := make(map[string]struct{}, len(questions))
	counts := map[QuestionType]int{}

	for i, q := range questions {
		id := strings.TrimSpace(q.ID)
		switch {
		case id == "":
			problems = append(problems, fmt.Sprintf("question %d: id is required", i))
		case id != q.ID:
			problems = append(problems, fmt.Sprintf("question %q: id has surrounding whitespace", q.ID))
		default:
			if _, dup := seen[id]; dup {
				problems = append(problems, fmt.Sprintf("question %q: duplicate id", id))
			}
			seen[id] = struct{}{}
		}

		if !q.Type.Valid() {
			problems = append(problems, fmt.Sprintf("question %q: unknown type %q", q.ID, q.Type))
			continue
		}
		counts[q.Type]++

		if q.Type == TypeSingleChoice {
			if len(q.Options) == 0 || len(q.Options) > MaxOptions {
				problems = append(problems, fmt.Sprintf("question %q: single-choice needs 1 to %d options", q.ID, MaxOptions))
			}
		} else if len(q.Options) > 0 {
			problems = append(problems, fmt.Sprintf("question %q: options are only allowed on single-choice", q.ID))
		}
	}

	if counts[TypeScore] > 1 {
		problems = append(problems, "at most one score-0-10 question is allowed")
	}
	if counts[TypeEmployeeScore] > 1 {
		problems = append(problems, "at most one employee-score-0-10 question is allowed")
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidSchema, strings.Join(problems, "; "))
	}
	return nil
}
