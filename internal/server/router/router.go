package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/server/handlers"
)

// Handlers groups the HTTP adapters the router wires up.
type Handlers struct {
	Farmers     *handlers.FarmerHandler
	Ledger      *handlers.LedgerHandler
	Samples     *handlers.SampleHandler
	Settlements *handlers.SettlementHandler
	Dashboard   *handlers.DashboardHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/")
	api.Use(operatorMiddleware(logger))

	api.POST("/farmers", h.Farmers.Enroll)
	api.GET("/farmers", h.Farmers.List)
	api.PUT("/farmers/:id/bank", h.Farmers.UpdateBank)

	api.POST("/stock", h.Farmers.AddStock)
	api.GET("/stock", h.Farmers.ListStock)

	api.POST("/sales", h.Ledger.RecordSale)
	api.GET("/sales/farmer/:id", h.Ledger.FarmerSales)
	api.POST("/advances", h.Ledger.RecordAdvance)
	api.GET("/advances/farmer/:id", h.Ledger.FarmerAdvances)

	api.POST("/samples", h.Samples.Submit)
	api.PUT("/samples/:id", h.Samples.Grade)
	api.GET("/samples/farmer/:id", h.Samples.FarmerSamples)

	api.POST("/settlements/preview", h.Settlements.Preview)
	api.POST("/settlements/confirm", h.Settlements.Confirm)
	api.GET("/settlements/farmer/:id", h.Settlements.FarmerSettlements)

	api.GET("/dashboard", h.Dashboard.Stats)
	api.GET("/reports/daily", h.Dashboard.DailyReport)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

// operatorMiddleware requires the operator identity the auth gateway stamps
// on every request after validating the session token. Token validation
// itself happens upstream.
func operatorMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		operator := c.GetHeader("X-Operator-Id")
		if operator == "" {
			logger.Warn("request without operator identity",
				zap.String("path", c.Request.URL.Path))
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing operator identity"})
			return
		}
		c.Set("operator_id", operator)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
