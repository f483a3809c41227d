// Package api exposes the dashboard views to the browser over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"sales_dashboard/internal/dashboard"
)

// Deps are what the routes need.
type Deps struct {
	Dashboard *dashboard.Dashboard
	Logger    *zap.Logger
	// Registry receives the HTTP metrics and is served at /metrics.
	Registry    *prometheus.Registry
	CORSOrigins []string
	Production  bool
	// Now stamps export file names. Nil means time.Now.
	Now func() time.Time
}

// InitRoutes installs the middleware chain and binds every dashboard endpoint on e.
func InitRoutes(e *gin.Engine, deps Deps) error {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	reg := deps.Registry
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	metrics, err := newHTTPMetrics(reg)
	if err != nil {
		return err
	}

	e.Use(
		requestID(),
		accessLog(logger),
		metrics.handler(),
		recovery(logger),
		securityHeaders(deps.Production),
		corsPolicy(deps.CORSOrigins),
	)

	h := NewDashboardHandler(deps.Dashboard, logger, deps.Now)
	d := deps.Dashboard

	e.GET("/customers", listHandler(h, d.Customers.List))
	e.POST("/customers", saveHandler(h, d.Customers.Save, dashboard.MsgCustomerCreated, dashboard.MsgCustomerUpdated))
	e.PUT("/customers/:id", saveHandler(h, d.Customers.Save, dashboard.MsgCustomerCreated, dashboard.MsgCustomerUpdated))
	e.GET("/customers/:id/eligibility", h.handleCustomerEligibility)
	e.DELETE("/customers/:id", deleteHandler(h, d.Customers.Delete))

	e.GET("/sales", listHandler(h, d.Sales.List))
	e.POST("/sales/validate", h.handleValidateSale)
	e.POST("/sales", saveHandler(h, d.Sales.Save, "", ""))
	e.PUT("/sales/:id", saveHandler(h, d.Sales.Save, "", ""))
	e.DELETE("/sales/:id", deleteHandler(h, d.Sales.Delete))

	e.GET("/payments", listHandler(h, d.Payments.List))
	e.POST("/payments/validate", h.handleValidatePayment)
	e.POST("/payments", saveHandler(h, d.Payments.Save, "", ""))
	e.PUT("/payments/:id", saveHandler(h, d.Payments.Save, "", ""))
	e.DELETE("/payments/:id", deleteHandler(h, d.Payments.Delete))

	e.GET("/transactions", listHandler(h, d.Transactions.List))
	e.GET("/balances", listHandler(h, d.Balances.List))
	e.GET("/logs", listHandler(h, d.Logs.List))
	e.DELETE("/logs", h.handleClearLogs)

	e.GET("/backups", listHandler(h, d.Backups.List))
	e.POST("/backups", h.handleCreateBackup)
	e.POST("/backups/cleanup", h.handleCleanupBackups)
	e.POST("/reset", h.handleReset)

	e.GET("/overview", h.handleOverview)
	e.GET("/export/:entity", h.handleExport)

	e.GET("/metrics", gin.WrapH(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))
	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
	return nil
}
