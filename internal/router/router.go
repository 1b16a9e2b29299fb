// internal/router/router.go
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/smartadega/smartadega-api/internal/config"
	"github.com/smartadega/smartadega-api/internal/handlers"
	"github.com/smartadega/smartadega-api/internal/middleware"
	"github.com/smartadega/smartadega-api/internal/repository"
	"github.com/smartadega/smartadega-api/internal/services"
	"github.com/smartadega/smartadega-api/internal/utils"
)

// Dependencies are the long-lived collaborators built by the entry point.
// Cache and Archive are optional.
type Dependencies struct {
	Config  *config.Config
	Wines   repository.WineRepository
	Cache   services.SummaryCache
	Archive services.LabelArchiver
}

// Initialize builds the engine. The returned stop func releases background
// work started for it, such as rate limiter cleanup.
func Initialize(deps Dependencies) (*gin.Engine, func()) {
	cfg := deps.Config

	// Initialize services
	verifier := utils.NewTokenVerifier(cfg.JWT.SecretKey, cfg.JWT.Audience)
	validator := utils.NewWineValidator(cfg.Validation.Mode, nil)
	wineService := services.NewWineService(deps.Wines, validator)
	recognitionService := services.NewRecognitionService(cfg.Recognition, deps.Cache, deps.Archive)

	// Initialize handlers
	wineHandler := handlers.NewWineHandler(wineService)
	recognitionHandler := handlers.NewRecognitionHandler(recognitionService, cfg.Recognition.MaxUploadSize)
	systemHandler := handlers.NewSystemHandler(cfg.Environment)
	metrics := middleware.NewMetrics()

	// Initialize Gin router
	r := gin.New()
	r.HandleMethodNotAllowed = true

	// Global middleware
	r.Use(gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logrus.WithFields(logrus.Fields{
			"request_id": c.GetString("request_id"),
			"panic":      recovered,
		}).Error("Recovered from panic")
		utils.InternalErrorResponse(c)
		c.Abort()
	}))
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(metrics.Middleware())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.I18nMiddleware(cfg.I18n.DefaultLocale))
	var limiters []*middleware.RateLimiter
	if cfg.RateLimit.RequestsPerSecond > 0 {
		general := middleware.NewGeneralLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst)
		limiters = append(limiters, general)
		r.Use(general.Middleware())
	}

	r.NoRoute(systemHandler.NotFound)
	r.NoMethod(systemHandler.MethodNotAllowed)

	r.GET("/", systemHandler.Root)
	r.GET("/health", systemHandler.Health)
	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	api := r.Group("/api")
	api.Use(middleware.AuthRequired(verifier))
	{
		wines := api.Group("/wines")
		{
			wines.POST("", wineHandler.CreateWine)
			wines.GET("", wineHandler.GetWines)
			wines.GET("/:id", wineHandler.GetWine)
			wines.PUT("/:id", wineHandler.UpdateWine)
			wines.DELETE("/:id", wineHandler.DeleteWine)
		}

		recognition := api.Group("/recognition")
		if cfg.RateLimit.UploadsPerMinute > 0 {
			uploads := middleware.NewUploadLimiter(cfg.RateLimit.UploadsPerMinute, cfg.RateLimit.UploadBurst)
			limiters = append(limiters, uploads)
			recognition.Use(uploads.Middleware())
		}
		{
			recognition.POST("/analyze", recognitionHandler.AnalyzeLabel)
		}
	}

	stop := func() {
		for _, l := range limiters {
			l.Stop()
		}
	}
	return r, stop
}
