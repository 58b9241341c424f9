package integration

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"wealth/internal/database"
	"wealth/internal/handlers"
	"wealth/internal/health"
	"wealth/internal/identity"
	"wealth/internal/logger"
	"wealth/internal/middleware"
	"wealth/internal/revalidate"
	"wealth/internal/serialize"
	"wealth/internal/services"
	"wealth/internal/testutil"
	"wealth/internal/validator"
)

const (
	testSecret = "integration-secret"
	testIssuer = "https://auth.test"
)

// testApp holds the full application stack for integration tests.
type testApp struct {
	DB       *gorm.DB
	Router   *gin.Engine
	Provider *identity.JWTProvider
	Views    *revalidate.Cache
}

func init() {
	gin.SetMode(gin.TestMode)
	logger.Init("test")
	validator.Register()
}

// setupApp creates a full application stack backed by an isolated in-memory SQLite.
func setupApp(t *testing.T) *testApp {
	t.Helper()
	t.Setenv("AUTH_SECRET_KEY", testSecret)
	t.Setenv("AUTH_PUBLISHABLE_KEY", "pk_test")
	t.Setenv("DATABASE_URL", "file::memory:")

	db := testutil.SetupTestDB(t)
	t.Cleanup(func() { testutil.TeardownTestDB(t, db) })

	views := revalidate.NewCache()
	serializer := serialize.New(serialize.PolicyDefined)
	provider := identity.NewJWTProvider(testSecret, testIssuer)

	// Services
	resolver := identity.NewResolver(db)
	userService := services.NewUserService(resolver)
	accountService := services.NewAccountService(db, resolver, views, serializer)
	transactionService := services.NewTransactionService(db, resolver, views, serializer)
	dashboardService := services.NewDashboardService(accountService, transactionService)
	auditService := services.NewAuditService(db)

	// Handlers
	profileHandler := handlers.NewProfileHandler(userService)
	accountHandler := handlers.NewAccountHandler(accountService, auditService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService, views)
	healthHandler := handlers.NewHealthHandler(health.NewChecker(database.NewManagerFromDB(db), "test"))

	// Router
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/api/health", healthHandler.Check)

	protected := router.Group("/api/v1")
	protected.Use(middleware.RequireIdentity(provider))
	protected.Use(middleware.ProvisionUser(resolver))

	protected.GET("/profile", profileHandler.GetProfile)
	protected.POST("/accounts", accountHandler.CreateAccount)
	protected.GET("/accounts", accountHandler.ListAccounts)
	protected.GET("/transactions", transactionHandler.ListRecentTransactions)
	protected.GET("/dashboard", dashboardHandler.GetDashboard)

	return &testApp{DB: db, Router: router, Provider: provider, Views: views}
}

// setupUnavailableApp mirrors the server started without a database handle:
// the health probe reports dbErr and the API answers 503.
func setupUnavailableApp(t *testing.T, dbErr error) *testApp {
	t.Helper()
	t.Setenv("AUTH_SECRET_KEY", testSecret)
	t.Setenv("AUTH_PUBLISHABLE_KEY", "pk_test")
	t.Setenv("DATABASE_URL", "postgres://u:p@127.0.0.1:1/x")

	healthHandler := handlers.NewHealthHandler(health.NewChecker(health.Unreachable(dbErr), "test"))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogging())
	router.Use(middleware.ErrorHandler())

	router.GET("/api/health", healthHandler.Check)
	router.Any("/api/v1/*path", middleware.StorageUnavailable(dbErr))

	return &testApp{Router: router, Provider: identity.NewJWTProvider(testSecret, testIssuer)}
}

// token issues a session token for a caller with the given external id.
func (app *testApp) token(t *testing.T, externalID, email string) string {
	t.Helper()
	tok, err := app.Provider.Issue(identity.Identity{
		ExternalID: externalID,
		FirstName:  "Test",
		LastName:   "User",
		Email:      email,
	}, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return tok
}

// request makes an HTTP request to the test router and returns the recorder.
func (app *testApp) request(method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	return rec
}

// parseJSON parses the response body into a map.
func parseJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var result map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("failed to parse JSON: %v\nbody: %s", err, rec.Body.String())
	}
	return result
}
