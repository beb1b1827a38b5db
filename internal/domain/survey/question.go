package survey

// QuestionType is the closed set of question variants a template may use.
type QuestionType string

const (
	TypeScore         QuestionType = "score-0-10"
	TypeEmployeeScore QuestionType = "employee-score-0-10"
	TypeStar          QuestionType = "star-1-5"
	TypeLikert        QuestionType = "likert-1-5"
	TypeFreeText      QuestionType = "free-text"
	TypeSingleChoice  QuestionType = "single-choice"
	TypeYesNo         QuestionType = "yes-no"
)

// MaxOptions bounds the options of a single-choice question.
const MaxOptions = 10

// MaxFreeTextLen is measured in characters, not bytes.
const MaxFreeTextLen = 2000

var QuestionTypes = []QuestionType{
	TypeScore,
	TypeEmployeeScore,
	TypeStar,
	TypeLikert,
	TypeFreeText,
	TypeSingleChoice,
	TypeYesNo,
}

func (t QuestionType) Valid() bool {
	for _, qt := range QuestionTypes {
		if t == qt {
			return true
		}
	}
	return false
}

// IsSingleton reports whether questions of this type always get a step of their own
// ahead of everything else.
func (t QuestionType) IsSingleton() bool {
	return t == TypeScore || t == TypeEmployeeScore
}

// IsScore reports whether the type carries the 0..10 satisfaction score.
func (t QuestionType) IsScore() bool {
	return t == TypeScore || t == TypeEmployeeScore
}

type Question struct {
	ID       string       `json:"id" yaml:"id"`
	Type     QuestionType `json:"type" yaml:"type"`
	Label    string       `json:"label" yaml:"label"`
	Required bool         `json:"required" yaml:"required"`
	Options  []string     `json:"options,omitempty" yaml:"options,omitempty"`
}

// AnswerMap holds decoded JSON values keyed by question id.
type AnswerMap map[string]any

type Step struct {
	ID        string     `json:"id"`
	Questions []Question `json:"questions"`
}

// Find returns the first question of type t, if any.
func Find(questions []Question, t QuestionType) (Question, bool) {
	for _, q := range questions {
		if q.Type == t {
			return q, true
		}
	}
	return Question{}, false
}
