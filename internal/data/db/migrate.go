package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/yungbote/reviewloop-backend/internal/domain/feedback"
	"github.com/yungbote/reviewloop-backend/internal/domain/survey"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// =========================
		// Survey configuration
		// =========================
		&survey.Practice{},
		&survey.Survey{},

		// =========================
		// Intake
		// =========================
		&feedback.Response{},
		&feedback.Alert{},
		&feedback.PracticeUsage{},
	)
}

var indexes = []struct {
	name string
	sql  string
}{
	{
		// NULL session hashes never collide, so anonymous submissions without a
		// fingerprint are unaffected.
		name: "idx_response_survey_session",
		sql:  `CREATE UNIQUE INDEX IF NOT EXISTS idx_response_survey_session ON responses(survey_id, session_hash);`,
	},
	{
		name: "idx_response_practice_created",
		sql:  `CREATE INDEX IF NOT EXISTS idx_response_practice_created ON responses(practice_id, created_at);`,
	},
	{
		name: "idx_alert_practice_created",
		sql:  `CREATE INDEX IF NOT EXISTS idx_alert_practice_created ON alerts(practice_id, created_at);`,
	},
}

// EnsureIndexes creates the indexes AutoMigrate cannot express. The statements are
// valid on both Postgres and SQLite.
func EnsureIndexes(db *gorm.DB) error {
	for _, idx := range indexes {
		if err := db.Exec(idx.sql).Error; err != nil {
			return fmt.Errorf("create %s: %w", idx.name, err)
		}
	}
	return nil
}

// Migrate runs AutoMigrateAll then EnsureIndexes.
func Migrate(db *gorm.DB) error {
	if err := AutoMigrateAll(db); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return EnsureIndexes(db)
}
