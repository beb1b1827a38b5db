package intake

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"unicode/utf8"

	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

// rule checks a present answer value; it returns "" when the value is acceptable.
type rule func(q survey.Question, v any) string

var rules = map[survey.QuestionType]rule{
	survey.TypeScore:         intRange(0, 10),
	survey.TypeEmployeeScore: intRange(0, 10),
	survey.TypeStar:          intRange(1, 5),
	survey.TypeLikert:        intRange(1, 5),
	survey.TypeFreeText:      freeTextRule,
	survey.TypeSingleChoice:  singleChoiceRule,
	survey.TypeYesNo:         yesNoRule,
}

// ValidateAnswers reports every problem with answers against questions: per-question
// problems in schema order, then one per unknown key in sorted order. An empty result
// means the answers may be persisted.
func ValidateAnswers(questions []survey.Question, answers survey.AnswerMap) []string {
	var out []string
	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
		if msg := checkQuestion(q, answers); msg != "" {
			out = append(out, msg)
		}
	}

	var unknown []string
	for k := range answers {
		if _, ok := known[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		out = append(out, fmt.Sprintf("unknown field %q", k))
	}
	return out
}

// StepProblems applies the same rules to the questions of a single step, ignoring answers
// for other steps. Optional questions left blank never block.
func StepProblems(step survey.Step, answers survey.AnswerMap) []string {
	var out []string
	for _, q := range step.Questions {
		if msg := checkQuestion(q, answers); msg != "" {
			out = append(out, msg)
		}
	}
	return out
}

// CanAdvance reports whether the respondent may move past step.
func CanAdvance(step survey.Step, answers survey.AnswerMap) bool {
	return len(StepProblems(step, answers)) == 0
}

func checkQuestion(q survey.Question, answers survey.AnswerMap) string {
	v, present := answers[q.ID]
	if !present || isBlank(v) {
		if q.Required {
			return fmt.Sprintf("%s is required", displayName(q))
		}
		return ""
	}
	check, ok := rules[q.Type]
	if !ok {
		return fmt.Sprintf("%s has unsupported question type %q", displayName(q), q.Type)
	}
	return check(q, v)
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

func displayName(q survey.Question) string {
	if q.Label != "" {
		return fmt.Sprintf("%q", q.Label)
	}
	return fmt.Sprintf("%q", q.ID)
}

func intRange(lo, hi int) rule {
	return func(q survey.Question, v any) string {
		n, ok := AsInt(v)
		if !ok || n < lo || n > hi {
			return fmt.Sprintf("%s must be a whole number from %d to %d", displayName(q), lo, hi)
		}
		return ""
	}
}

func freeTextRule(q survey.Question, v any) string {
	s, ok := v.(string)
	if !ok {
		return fmt.Sprintf("%s must be text", displayName(q))
	}
	if utf8.RuneCountInString(s) > survey.MaxFreeTextLen {
		return fmt.Sprintf("%s must be at most %d characters", displayName(q), survey.MaxFreeTextLen)
	}
	return ""
}

func singleChoiceRule(q survey.Question, v any) string {
	s, ok := v.(string)
	if ok {
		for _, opt := range q.Options {
			if s == opt {
				return ""
			}
		}
	}
	return fmt.Sprintf("%s must be one of the listed options", displayName(q))
}

func yesNoRule(q survey.Question, v any) string {
	if _, ok := v.(bool); !ok {
		return fmt.Sprintf("%s must be yes or no", displayName(q))
	}
	return ""
}

// AsInt accepts integral JSON numbers and Go integer kinds. Strings and booleans are
// never coerced.
func AsInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) || n > math.MaxInt32 || n < math.MinInt32 {
			return 0, false
		}
		return int(n), true
	case float32:
		return AsInt(float64(n))
	case json.Number:
		i, err := n.Int64()
		if err != nil || i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		if i > math.MaxInt32 || i < math.MinInt32 {
			return 0, false
		}
		return int(i), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt32 {
			return 0, false
		}
		return int(u), true
	default:
		return 0, false
	}
}
