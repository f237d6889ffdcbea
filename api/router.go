package api

import (
	"io/fs"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/TETRIX8/youtubesave/api/handlers"
	"github.com/TETRIX8/youtubesave/api/middleware"
	"github.com/TETRIX8/youtubesave/internal/app"
	"github.com/TETRIX8/youtubesave/web"
)

// Dependencies are the services the router wires into handlers
type Dependencies struct {
	Metadata  *app.MetadataService
	Downloads *app.DownloadService
	History   *app.HistoryRecorder
	Probe     handlers.ExtractorProbe
	Version   string

	// RateLimiter guards the extraction routes; nil disables limiting
	RateLimiter middleware.RateLimiter
	Logger      *zap.Logger

	// TrustedProxies may set X-Forwarded-For and X-Real-IP; nil trusts no one
	TrustedProxies []string
}

// SetupRouter sets up the HTTP router
func SetupRouter(deps Dependencies) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(deps.TrustedProxies); err != nil {
		log.Warn("Ignoring invalid trusted proxies", zap.Error(err))
		_ = router.SetTrustedProxies(nil)
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger(log))
	router.Use(middleware.Recovery(log))
	router.Use(middleware.CORS())

	// Health endpoints
	healthHandler := handlers.NewHealthHandler(deps.Version, deps.Probe)
	router.GET("/health", healthHandler.Health)
	router.GET("/ready", healthHandler.Ready)

	infoHandler := handlers.NewInfoHandler(deps.Metadata)
	downloadHandler := handlers.NewDownloadHandler(deps.Downloads)
	historyHandler := handlers.NewHistoryHandler(deps.History)

	router.POST("/api/info", middleware.RateLimit(deps.RateLimiter, "info", log), infoHandler.GetInfo)
	router.GET("/download", middleware.RateLimit(deps.RateLimiter, "download", log), downloadHandler.Download)

	history := router.Group("/api/history")
	{
		history.GET("", historyHandler.ListHistory)
		history.GET("/stats", historyHandler.GetStats)
	}

	// Embedded page
	staticFS := web.GetStaticFS()
	router.StaticFS("/static", http.FS(staticFS))
	router.GET("/", func(c *gin.Context) {
		serveIndexHTML(c, staticFS)
	})

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	})

	return router
}

// serveIndexHTML serves index.html from the embedded filesystem
func serveIndexHTML(c *gin.Context, staticFS fs.FS) {
	content, err := fs.ReadFile(staticFS, "index.html")
	if err != nil {
		c.String(http.StatusNotFound, "File not found: %v", err)
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", content)
}
