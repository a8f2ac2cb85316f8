package api

import (
	"net/http"
	"strings"
	"time"

	"academy/lms-backend/internal/config"
	"academy/lms-backend/internal/domain"
	"academy/lms-backend/internal/logger"
	"academy/lms-backend/internal/metrics"
	"academy/lms-backend/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Services bundles what the handlers depend on.
type Services struct {
	Auth    service.AuthService
	Course  service.CourseService
	Section service.SectionService
	Session service.SessionService
	Upload  service.UploadService
}

// RouterOptions carries the HTTP-facing settings.
type RouterOptions struct {
	JWTSecret     string
	Production    bool
	CORSOrigins   string // comma separated, "*" for any
	UploadTimeout time.Duration
	Upload        config.UploadConfig
}

// NewRouter builds the gin engine with the global middleware chain and all routes.
func NewRouter(opts RouterOptions, services Services, rec *metrics.Recorder, log logrus.FieldLogger) *gin.Engine {
	if opts.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	useJSONFieldNames()

	router := gin.New()
	router.Use(
		logger.GinMiddleware(log),
		Recovery(log, opts.Production),
		rec.Middleware(),
		cors.New(corsConfig(opts.CORSOrigins)),
	)
	router.NoRoute(func(c *gin.Context) {
		abortWithError(c, http.StatusNotFound, "Route not found")
	})

	SetupRoutes(router, opts, services, rec, log)
	return router
}

func SetupRoutes(router *gin.Engine, opts RouterOptions, services Services, rec *metrics.Recorder, log logrus.FieldLogger) {
	authHandler := NewAuthHandler(services.Auth, log)
	courseHandler := NewCourseHandler(services.Course, log)
	sectionHandler := NewSectionHandler(services.Section, log)
	sessionHandler := NewSessionHandler(services.Session, log)
	uploadHandler := NewUploadHandler(services.Upload, log)

	authMiddleware := AuthMiddleware(opts.JWTSecret)
	adminOnly := RoleMiddleware(domain.RoleAdmin)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})
	router.GET("/metrics", rec.Handler())

	apiGroup := router.Group("/api")
	{
		authGroup := apiGroup.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.GET("/me", authMiddleware, authHandler.Me)
		}
	}

	// Reads need any signed-in user, writes need an admin.
	protected := apiGroup.Group("")
	protected.Use(authMiddleware)
	{
		courseGroup := protected.Group("/courses")
		{
			courseGroup.GET("", courseHandler.ListCourses)
			courseGroup.GET("/:id", courseHandler.GetCourse)
			courseGroup.POST("", adminOnly, courseHandler.CreateCourse)
		}

		sectionGroup := protected.Group("/sections")
		{
			sectionGroup.GET("/by-course/:courseId", sectionHandler.ListSectionsByCourse)
			sectionGroup.POST("", adminOnly, sectionHandler.CreateSection)
		}

		sessionGroup := protected.Group("/sessions")
		{
			sessionGroup.GET("/by-section/:sectionId", sessionHandler.ListSessionsBySection)
			sessionGroup.GET("/:id", sessionHandler.GetSession)
			sessionGroup.POST("", adminOnly, sessionHandler.CreateSession)
			sessionGroup.PUT("/:id/add-content", adminOnly, sessionHandler.AddContent)
		}

		uploadGroup := protected.Group("/uploads")
		uploadGroup.Use(adminOnly)
		{
			uploadGroup.POST("/config", uploadHandler.Config)

			extend := ExtendDeadlines(opts.UploadTimeout, log)
			for name, kind := range service.UploadKinds(opts.Upload) {
				uploadGroup.POST("/"+name, extend, UploadGate(kind, services.Upload, rec, log), uploadHandler.Upload)
			}
		}
	}
}

func corsConfig(origins string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", logger.RequestIDHeader},
		ExposeHeaders: []string{logger.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	var list []string
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			list = append(list, o)
		}
	}
	if len(list) == 0 || (len(list) == 1 && list[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = list
	cfg.AllowCredentials = true
	return cfg
}
