package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/glowpos/backend/internal/application/catalog"
	commissionapp "github.com/glowpos/backend/internal/application/commission"
	identityapp "github.com/glowpos/backend/internal/application/identity"
	realtimeapp "github.com/glowpos/backend/internal/application/realtime"
	reconapp "github.com/glowpos/backend/internal/application/reconciliation"
	salesapp "github.com/glowpos/backend/internal/application/sales"
	tillapp "github.com/glowpos/backend/internal/application/till"
	"github.com/glowpos/backend/internal/domain/reconciliation"
	"github.com/glowpos/backend/internal/infrastructure/auth"
	"github.com/glowpos/backend/internal/infrastructure/cache"
	"github.com/glowpos/backend/internal/infrastructure/config"
	"github.com/glowpos/backend/internal/infrastructure/event"
	"github.com/glowpos/backend/internal/infrastructure/persistence"
	"github.com/glowpos/backend/internal/infrastructure/persistence/models"
	"github.com/glowpos/backend/internal/interfaces/http/dto"
	"github.com/glowpos/backend/internal/interfaces/http/middleware"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

// apiFixture is a full HTTP stack over an in-memory SQLite database
type apiFixture struct {
	engine   *gin.Engine
	relay    *realtimeapp.EventRelay
	jwt      *auth.JWTService
	tenantID uuid.UUID
	storeID  uuid.UUID
	userID   uuid.UUID
	token    string
}

// envelope mirrors dto.Response with the payload left raw
type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *dto.ErrorInfo  `json:"error"`
	Meta    *dto.Meta       `json:"meta"`
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(models.All()...))

	sessionRepo := persistence.NewGormTillSessionRepository(db)
	orderRepo := persistence.NewGormOrderRepository(db)
	productRepo := persistence.NewGormProductRepository(db)
	employeeRepo := persistence.NewGormEmployeeRepository(db)

	bus := event.NewInMemoryEventBus(zap.NewNop())

	sessions := tillapp.NewSessionService(sessionRepo, decimal.NewFromInt(5), nil)
	sessions.SetEventPublisher(bus)

	orders := salesapp.NewOrderService(orderRepo, productRepo, sessionRepo, persistence.NewGormCheckoutScope(db), nil)
	orders.SetEventPublisher(bus)

	reports := reconapp.NewReportService(
		persistence.NewGormReconciliationReportRepository(db),
		orderRepo, sessionRepo, nil, reconciliation.Thresholds{}, nil)

	commissions := commissionapp.NewService(
		persistence.NewGormCommissionTierRepository(db),
		persistence.NewGormCommissionCalculationRepository(db),
		orderRepo, employeeRepo, "", nil)
	commissions.SetEventPublisher(bus)

	relay := realtimeapp.NewEventRelay(persistence.NewGormCounterSource(db), cache.NewDirectory(employeeRepo, productRepo))
	bus.Subscribe(relay)
	t.Cleanup(relay.Close)

	jwtService := auth.NewJWTService(config.JWTConfig{
		Secret:                "handler-test-secret-with-enough-length",
		Issuer:                "glowpos",
		AccessTokenExpiration: time.Hour,
	})

	f := &apiFixture{
		relay:    relay,
		jwt:      jwtService,
		tenantID: uuid.New(),
		storeID:  uuid.New(),
		userID:   uuid.New(),
	}
	f.token = f.issueToken(t, f.userID)

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.GET("/health", NewSystemHandler("glowpos", "test", sqlDB).Health)

	jwtCfg := middleware.DefaultJWTConfig(jwtService)
	jwtCfg.AllowAnonymous = true
	api := engine.Group("/api/v1", middleware.JWTAuth(jwtCfg), middleware.TenantResolver(f.tenantID))

	tillH := NewTillHandler(sessions)
	api.POST("/till/sessions", tillH.OpenSession)
	api.GET("/till/sessions", tillH.ListSessions)
	api.GET("/till/sessions/active", tillH.GetActiveSession)
	api.GET("/till/sessions/:id", tillH.GetSession)
	api.GET("/till/sessions/:id/operations", tillH.ListOperations)
	api.POST("/till/sessions/:id/cash-drops", tillH.RecordCashDrop)
	api.POST("/till/sessions/:id/counts", tillH.RecordTillCount)
	api.POST("/till/sessions/:id/no-sale", tillH.RecordNoSale)
	api.POST("/till/sessions/:id/close", tillH.CloseSession)

	orderH := NewOrderHandler(orders)
	api.POST("/sales/orders", orderH.Create)
	api.GET("/sales/orders", orderH.List)
	api.GET("/sales/orders/:id", orderH.GetByID)
	api.POST("/sales/orders/:id/complete", orderH.Complete)
	api.POST("/sales/orders/:id/cancel", orderH.Cancel)

	reconH := NewReconciliationHandler(reports)
	api.GET("/reconciliation/preview", reconH.Preview)
	api.POST("/reconciliation/reports", reconH.Save)
	api.GET("/reconciliation/reports", reconH.List)
	api.GET("/reconciliation/reports/:id", reconH.GetByID)

	commissionH := NewCommissionHandler(commissions)
	api.POST("/commission/tiers", commissionH.CreateTier)
	api.GET("/commission/tiers", commissionH.ListTiers)
	api.GET("/commission/tiers/resolve", commissionH.ResolveTier)
	api.DELETE("/commission/tiers/:id", commissionH.DeleteTier)

	dirH := NewDirectoryHandler(identityapp.NewEmployeeService(employeeRepo, nil), catalogapp.NewProductService(productRepo, nil))
	api.GET("/me/context", dirH.GetMyContext)
	api.POST("/staff/employees", dirH.CreateEmployee)
	api.GET("/staff/employees", dirH.ListEmployees)
	api.GET("/staff/employees/:id", dirH.GetEmployee)
	api.PUT("/staff/employees/:id", dirH.UpdateEmployee)
	api.POST("/catalog/products", dirH.CreateProduct)
	api.GET("/catalog/products", dirH.ListProducts)
	api.GET("/catalog/products/:id", dirH.GetProduct)

	rtH := NewRealtimeHandler(relay, time.Hour, nil)
	api.GET("/realtime/feed", rtH.Feed)
	api.DELETE("/realtime/feed/:id", rtH.Dismiss)
	api.GET("/realtime/counters", rtH.Counters)
	api.POST("/realtime/refresh", rtH.Refresh)
	api.GET("/realtime/stream", rtH.Stream)

	f.engine = engine
	return f
}

func (f *apiFixture) issueToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, _, err := f.jwt.GenerateAccessToken(auth.TokenInput{
		TenantID: f.tenantID,
		UserID:   userID,
		StoreID:  f.storeID,
		RoleType: "manager",
	})
	require.NoError(t, err)
	return token
}

// do sends an authenticated request; body is marshalled unless nil
func (f *apiFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	return f.doAs(t, f.token, method, path, body)
}

func (f *apiFixture) doAs(t *testing.T, token, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	return w
}

// decode unwraps the envelope into out and returns it
func decode(t *testing.T, w *httptest.ResponseRecorder, out any) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	if out != nil && len(env.Data) > 0 {
		require.NoError(t, json.Unmarshal(env.Data, out))
	}
	return env
}

// seedProduct creates a catalog product through the API
func (f *apiFixture) seedProduct(t *testing.T, sku, name, price string) catalogapp.ProductResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/catalog/products", map[string]any{
		"sku":   sku,
		"name":  name,
		"price": price,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var product catalogapp.ProductResponse
	decode(t, w, &product)
	return product
}

// openSession opens a till session for the fixture user
func (f *apiFixture) openSession(t *testing.T, openingCash string) tillapp.SessionResponse {
	t.Helper()
	w := f.do(t, http.MethodPost, "/api/v1/till/sessions", map[string]any{
		"store_id":     f.storeID,
		"opening_cash": openingCash,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var session tillapp.SessionResponse
	decode(t, w, &session)
	return session
}
