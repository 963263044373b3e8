package bootstrap

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"

	appControllers "github.com/yigit/regwizard/internal/app/controllers"
	appRepos "github.com/yigit/regwizard/internal/app/repositories"
	appRoutes "github.com/yigit/regwizard/internal/app/routes"
	appServices "github.com/yigit/regwizard/internal/app/services"
	"github.com/yigit/regwizard/internal/app/views"
	"github.com/yigit/regwizard/internal/config"
	"github.com/yigit/regwizard/internal/metrics"
	appMiddleware "github.com/yigit/regwizard/internal/middleware"
	pkgAuth "github.com/yigit/regwizard/internal/pkg/auth"
	"github.com/yigit/regwizard/internal/pkg/helpers"
	"github.com/yigit/regwizard/internal/pkg/logger"
)

// Dependencies holds all the application dependencies
type Dependencies struct {
	Registry          *prometheus.Registry
	Metrics           *metrics.Metrics
	SessionRepository *appRepos.SessionRepository
	TokenService      *pkgAuth.TokenService
	FormService       *appServices.FormService
	FormController    *appControllers.FormController
	PageController    *appControllers.PageController
	SessionMiddleware *appMiddleware.SessionMiddleware
	Logger            zerolog.Logger
}

// LoadConfigAndSetupLogger loads configuration and initializes the logger.
func LoadConfigAndSetupLogger(configPath string) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		logger.Error().Err(err).Str("path", configPath).Msg("Failed to load configuration")
		return nil, zerolog.Logger{}, err
	}

	lgr := ConfigureLogger(cfg)
	lgr.Info().Str("logLevel", cfg.Logging.Level).Str("logFormat", cfg.Logging.Format).Msg("Logger configured")
	return cfg, lgr, nil
}

// ConfigureLogger applies the logging section of the configuration
func ConfigureLogger(cfg *config.Config) zerolog.Logger {
	return logger.Configure(logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Pretty: cfg.Logging.Format == "text",
	})
}

// BuildDependencies initializes the session store, services and controllers.
func BuildDependencies(cfg *config.Config, lgr zerolog.Logger) (*Dependencies, error) {
	deps := &Dependencies{Logger: lgr}

	deps.Registry = prometheus.NewRegistry()
	deps.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	deps.Metrics = metrics.New(deps.Registry)

	deps.SessionRepository = appRepos.NewSessionRepository()

	deps.TokenService = pkgAuth.NewTokenService(pkgAuth.TokenConfig{
		SecretKey:   cfg.Session.Secret,
		TTL:         helpers.ParseDuration(cfg.Session.TTL, 30*time.Minute),
		TokenIssuer: cfg.Session.Issuer,
	})

	deps.FormService = appServices.NewFormService(
		deps.SessionRepository,
		deps.TokenService,
		deps.Metrics,
		lgr,
	)

	deps.SessionMiddleware = appMiddleware.NewSessionMiddleware(deps.FormService)

	deps.FormController = appControllers.NewFormController(deps.FormService, lgr)
	deps.PageController = appControllers.NewPageController(
		deps.FormService,
		appControllers.CookieConfig{Name: cfg.Session.CookieName, Secure: cfg.Session.CookieSecure},
		cfg.Form.Years,
		lgr,
	)

	return deps, nil
}

// SetupRouter configures the Gin engine with middleware, templates and routes.
func SetupRouter(cfg *config.Config, deps *Dependencies, lgr zerolog.Logger) (*gin.Engine, error) {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		lgr.Info().Msg("Setting Gin mode to release")
	} else {
		gin.SetMode(gin.DebugMode)
		lgr.Info().Msg("Setting Gin mode to debug")
	}

	router := gin.New()
	router.Use(appMiddleware.Recovery(lgr), appMiddleware.RequestLogger(lgr))

	tmpl, err := views.Templates()
	if err != nil {
		return nil, fmt.Errorf("failed to load page templates: %w", err)
	}
	router.SetHTMLTemplate(tmpl)

	appRoutes.SetupRouter(router,
		deps.PageController,
		deps.FormController,
		deps.SessionMiddleware,
		deps.Registry,
	)

	return router, nil
}
