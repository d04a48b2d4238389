package routes

import (
	"net/http"
	"time"

	"piercing-studio-site/config"
	"piercing-studio-site/controllers"
	"piercing-studio-site/services"
	"piercing-studio-site/templates"
	"piercing-studio-site/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type Deps struct {
	Config   config.Config
	Logger   *zap.Logger
	Metrics  *config.Metrics
	Gatherer prometheus.Gatherer
	API      services.StudioAPI
	Sessions *services.SessionManager
	Tokens   *utils.SessionTokens
	Version  string
}

func SetupRouter(d Deps) (*gin.Engine, error) {
	r := gin.New()
	r.Use(gin.Recovery())

	tmpl, err := templates.Parse()
	if err != nil {
		return nil, err
	}
	r.SetHTMLTemplate(tmpl)

	r.Use(config.PerformanceLogger(d.Logger, d.Metrics.RequestDuration))

	site := &controllers.SiteController{
		Sessions: d.Sessions,
		Tokens:   d.Tokens,
		Logger:   d.Logger,
	}
	health := &controllers.HealthController{
		API:       d.API,
		Version:   d.Version,
		StartTime: time.Now(),
	}

	r.GET("/healthz", health.Live)
	r.GET("/healthz/ready", health.Ready)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{})))

	pages := r.Group("/", utils.SessionMiddleware(d.Tokens))
	{
		pages.GET("", site.Page)
		pages.POST("/tab/:tab", site.SelectTab)
		pages.POST("/release-form", site.SubmitReleaseForm)
	}

	view := r.Group("/view", cors.New(cors.Config{
		AllowOrigins:     d.Config.AllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}), utils.SessionMiddleware(d.Tokens))
	{
		view.GET("", site.GetView)
		view.POST("/tab", site.APISelectTab)
		view.POST("/field", site.APIUpdateField)
		view.POST("/submit", site.APISubmit)
	}
	// Older clients read /view.json.
	r.GET("/view.json", utils.SessionMiddleware(d.Tokens), site.GetView)

	return r, nil
}
