package main

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"wealth/internal/config"
	"wealth/internal/database"
	"wealth/internal/handlers"
	"wealth/internal/health"
	"wealth/internal/identity"
	"wealth/internal/middleware"
	"wealth/internal/revalidate"
	"wealth/internal/serialize"
	"wealth/internal/services"
)

// newRouter assembles the HTTP surface. Without a database handle only the
// health probe, metrics and docs work; every /api/v1 route answers 503 and
// the probe reports dbErr.
func newRouter(appConfig *config.Config, dbManager *database.Manager, dbErr error) *gin.Engine {
	var pinger health.Pinger
	if dbManager != nil {
		pinger = dbManager
	} else {
		if dbErr == nil {
			dbErr = errors.New("database is not configured")
		}
		pinger = health.Unreachable(dbErr)
	}
	checker := health.NewChecker(pinger, appConfig.Env)
	checker.LogStatus()
	healthHandler := handlers.NewHealthHandler(checker)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.Metrics())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.CORS())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", middleware.MetricsAuth(appConfig.MetricsAPIKey), gin.WrapH(promhttp.Handler()))
	router.GET("/api/health", healthHandler.Check)

	if dbManager == nil {
		router.Any("/api/v1/*path", middleware.StorageUnavailable(dbErr))
		return router
	}

	serializer := serialize.New(serialize.PolicyDefined)
	if appConfig.DecimalZeroQuirk {
		serializer = serialize.New(serialize.PolicyTruthy)
	}

	// Initialize services
	db := dbManager.DB()
	views := revalidate.NewCache()
	resolver := identity.NewResolver(db)
	userService := services.NewUserService(resolver)
	accountService := services.NewAccountService(db, resolver, views, serializer)
	transactionService := services.NewTransactionService(db, resolver, views, serializer)
	dashboardService := services.NewDashboardService(accountService, transactionService)
	auditService := services.NewAuditService(db)

	// Initialize handlers
	profileHandler := handlers.NewProfileHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, views)

	provider := identity.NewJWTProvider(appConfig.AuthSecretKey, appConfig.AuthIssuer)

	// Protected routes
	protected := router.Group("/api/v1")
	protected.Use(middleware.RequireIdentity(provider))
	protected.Use(middleware.ProvisionUser(resolver))

	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.GET("/transactions", transactionHandler.ListRecentTransactions)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	return router
}
