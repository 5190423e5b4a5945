package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pensao-tracker/internal/middleware"
	"github.com/pensao-tracker/internal/service"
	"github.com/pensao-tracker/internal/session"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// BuildInfo is reported by the health endpoint
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// Services are the dependencies of the HTTP API
type Services struct {
	Auth     *service.AuthService
	Password *service.PasswordService
	Children *service.ChildService
	Payments *service.PaymentService
	Sessions *session.Manager
}

// NewRouter builds the gin engine with every route mounted under /api
func NewRouter(svc Services, build BuildInfo) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":     "ok",
			"version":    build.Version,
			"commit":     build.Commit,
			"build_time": build.BuildTime,
			"time":       time.Now().Unix(),
		})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	authHandler := NewAuthHandler(svc.Auth, svc.Sessions)
	passwordHandler := NewPasswordHandler(svc.Password)
	childHandler := NewChildHandler(svc.Children)
	paymentHandler := NewPaymentHandler(svc.Payments)

	api := router.Group("/api")
	{
		// Public routes
		authHandler.RegisterRoutes(api)
		passwordHandler.RegisterRoutes(api)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(svc.Auth, svc.Sessions.CookieName()))
		authHandler.RegisterProtectedRoutes(protected)
		childHandler.RegisterRoutes(protected)
		paymentHandler.RegisterRoutes(protected)
	}

	return router
}
