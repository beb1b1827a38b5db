package http

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/yungbote/reviewloop-backend/internal/http/handlers"
	httpMW "github.com/yungbote/reviewloop-backend/internal/http/middleware"
	"github.com/yungbote/reviewloop-backend/internal/observability"
	"github.com/yungbote/reviewloop-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	ServiceName    string
	AllowedOrigins []string
	Metrics        *observability.Metrics

	IntakeHandler *httpH.IntakeHandler
	HealthHandler *httpH.HealthHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.ServiceName != "" {
		r.Use(otelgin.Middleware(cfg.ServiceName))
	}
	r.Use(httpMW.AttachTraceContext())
	r.Use(httpMW.RequestLogger(cfg.Log))
	r.Use(httpMW.Metrics(cfg.Metrics))
	r.Use(httpMW.CORS(cfg.AllowedOrigins))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Metrics != nil {
		r.GET(cfg.Metrics.Path(), gin.WrapF(cfg.Metrics.WriteHTTP))
	}

	public := r.Group("/api/public")
	{
		if cfg.IntakeHandler != nil {
			public.POST("/submissions", cfg.IntakeHandler.Submit)
			public.GET("/surveys/:id/steps", cfg.IntakeHandler.Steps)
			public.POST("/surveys/:id/steps/:stepId/check", cfg.IntakeHandler.CheckStep)
		}
	}

	return r
}
