package app

import (
	"github.com/gin-gonic/gin"

	server "github.com/yungbote/reviewloop-backend/internal/http"
	"github.com/yungbote/reviewloop-backend/internal/observability"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

func wireRouter(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *gin.Engine {
	serviceName := ""
	if cfg.Otel.Enabled {
		serviceName = cfg.Otel.ServiceName
	}
	return server.NewRouter(server.RouterConfig{
		Log:            log,
		ServiceName:    serviceName,
		AllowedOrigins: cfg.AllowedOrigins,
		Metrics:        metrics,
		IntakeHandler:  handlers.Intake,
		HealthHandler:  handlers.Health,
	})
}
