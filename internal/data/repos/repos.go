package repos

import (
	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/data/repos/feedback"
	"github.com/yungbote/reviewloop-backend/internal/data/repos/surveys"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type SurveyRepo = surveys.SurveyRepo
type PracticeRepo = surveys.PracticeRepo

type ResponseRepo = feedback.ResponseRepo
type AlertRepo = feedback.AlertRepo
type UsageRepo = feedback.UsageRepo

// Set holds one instance of every repo over a shared handle.
type Set struct {
	Surveys   SurveyRepo
	Practices PracticeRepo
	Responses ResponseRepo
	Alerts    AlertRepo
	Usage     UsageRepo
}

func NewSet(db *gorm.DB, baseLog *logger.Logger) Set {
	return Set{
		Surveys:   surveys.NewSurveyRepo(db, baseLog),
		Practices: surveys.NewPracticeRepo(db, baseLog),
		Responses: feedback.NewResponseRepo(db, baseLog),
		Alerts:    feedback.NewAlertRepo(db, baseLog),
		Usage:     feedback.NewUsageRepo(db, baseLog),
	}
}
