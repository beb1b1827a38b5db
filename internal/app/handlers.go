package app

import (
	"context"

	"gorm.io/gorm"

	httpH "github.com/yungbote/reviewloop-backend/internal/http/handlers"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type Handlers struct {
	Health *httpH.HealthHandler
	Intake *httpH.IntakeHandler
}

func wireHandlers(db *gorm.DB, log *logger.Logger, services Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Health: httpH.NewHealthHandler(dbPinger(db)),
		Intake: httpH.NewIntakeHandler(log, services.Intake),
	}
}

func dbPinger(db *gorm.DB) httpH.Pinger {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
