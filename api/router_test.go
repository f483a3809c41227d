package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"sales_dashboard/internal/apiclient"
	"sales_dashboard/internal/dashboard"
	"sales_dashboard/internal/forms"
	"sales_dashboard/internal/store"
)

var testNow = time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

// InitRoutesTests builds the router against a mock bookkeeping API.
func InitRoutesTests(t *testing.T, upstream *http.ServeMux) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	srv := httptest.NewServer(upstream)
	t.Cleanup(srv.Close)

	logger := zaptest.NewLogger(t)
	now := func() time.Time { return testNow }
	client := apiclient.New(srv.URL, 5*time.Second, logger)
	d := dashboard.New(client, store.New(), forms.NewRules(now), logger, dashboard.Options{Now: now})

	router := gin.New()
	err := InitRoutes(router, Deps{
		Dashboard:   d,
		Logger:      logger,
		Registry:    prometheus.NewRegistry(),
		CORSOrigins: []string{"http://localhost:5173"},
		Now:         now,
	})
	require.NoError(t, err)
	return router
}

func reply(mux *http.ServeMux, pattern string, status int, body string) {
	mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	})
}

func do(router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// TestCustomers_FullFlow walks list -> create -> refused delete -> eligibility.
func TestCustomers_FullFlow(t *testing.T) {
	upstream := http.NewServeMux()
	reply(upstream, "GET /api/customers", http.StatusOK, `{"status":"success","data":[{"CustomerID":"C1","CustomerName":"Acme"}],"total":1}`)
	reply(upstream, "POST /api/customers", http.StatusCreated, `{"CustomerID":"C2","CustomerName":"Bolt Traders"}`)
	reply(upstream, "GET /api/sales", http.StatusOK, `{"status":"success","data":[{"SaleID":"S1","CustomerID":"C1"}],"total":1}`)
	reply(upstream, "GET /api/payments", http.StatusOK, `[]`)
	router := InitRoutesTests(t, upstream)

	t.Run("GET_Customers", func(t *testing.T) {
		w := do(router, http.MethodGet, "/customers?sort=CustomerName&order=desc", nil)

		assert.Equal(t, http.StatusOK, w.Code, "Expected HTTP 200 for the customer list")
		body := decode(t, w)
		assert.Len(t, body["rows"], 1)
		assert.Equal(t, "desc", body["order"])
		assert.Equal(t, float64(1), body["total_pages"])
	})

	t.Run("POST_CreateCustomer", func(t *testing.T) {
		w := do(router, http.MethodPost, "/customers", map[string]any{"CustomerName": "bolt traders"})

		assert.Equal(t, http.StatusCreated, w.Code, "Expected HTTP 201 for a new customer")
		body := decode(t, w)
		assert.Equal(t, dashboard.MsgCustomerCreated, body["message"])
		assert.Equal(t, "C2", body["data"].(map[string]any)["CustomerID"])
	})

	t.Run("POST_CreateCustomer_Invalid", func(t *testing.T) {
		w := do(router, http.MethodPost, "/customers", map[string]any{"CustomerName": "   "})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.JSONEq(t, `{"errors":{"CustomerName":"Customer name cannot be empty"}}`, w.Body.String())
	})

	t.Run("DELETE_CustomerWithSales", func(t *testing.T) {
		w := do(router, http.MethodDelete, "/customers/C1", nil)

		assert.Equal(t, http.StatusConflict, w.Code, "Expected deletion to be refused")
		assert.JSONEq(t, `{"error":"Cannot delete customer with associated sales."}`, w.Body.String())
	})

	t.Run("GET_Eligibility", func(t *testing.T) {
		w := do(router, http.MethodGet, "/customers/C2/eligibility", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"can_delete":true,"message":"Customer can be deleted."}`, w.Body.String())
	})
}

func TestSales(t *testing.T) {
	upstream := http.NewServeMux()
	reply(upstream, "GET /api/sales", http.StatusServiceUnavailable, `{"error":"db down"}`)
	reply(upstream, "POST /api/sales", http.StatusBadRequest, `{"error":"Customer not found"}`)
	router := InitRoutesTests(t, upstream)

	t.Run("GET_Sales_UpstreamDown", func(t *testing.T) {
		w := do(router, http.MethodGet, "/sales", nil)

		assert.Equal(t, http.StatusBadGateway, w.Code)
		body := decode(t, w)
		assert.Equal(t, "Failed to fetch sales: db down", body["error"])
		assert.Empty(t, body["rows"])
	})

	t.Run("GET_Sales_UnknownColumn", func(t *testing.T) {
		w := do(router, http.MethodGet, "/sales?sort=Colour", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("GET_Sales_BadPage", func(t *testing.T) {
		w := do(router, http.MethodGet, "/sales?page=two", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST_ValidateSale", func(t *testing.T) {
		w := do(router, http.MethodPost, "/sales/validate", map[string]any{"Quantity": 4, "Rate": "2.5", "VehicleRent": 10})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"errors":{},"amount":20}`, w.Body.String())
	})

	t.Run("POST_ValidateSale_UnknownField", func(t *testing.T) {
		w := do(router, http.MethodPost, "/sales/validate", map[string]any{"Colour": "red"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("POST_CreateSale_Invalid", func(t *testing.T) {
		w := do(router, http.MethodPost, "/sales", map[string]any{"Quantity": 0})

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		errs := decode(t, w)["errors"].(map[string]any)
		assert.Equal(t, "Please select a customer", errs["CustomerID"])
		assert.Equal(t, "Please enter a valid integer quantity greater than 0", errs["Quantity"])
	})

	t.Run("POST_CreateSale_Rejected", func(t *testing.T) {
		w := do(router, http.MethodPost, "/sales", map[string]any{
			"CustomerID": "C404", "Date": "2026-10-01", "Quantity": 1, "Rate": 1,
		})

		assert.Equal(t, http.StatusBadGateway, w.Code)
		assert.JSONEq(t, `{"error":"Failed to save sale: Customer not found","errors":{"api":"Failed to save sale: Customer not found"}}`, w.Body.String())
	})

	t.Run("POST_CreateSale_BadBody", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/sales", strings.NewReader("{"))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBackupsAndLogs(t *testing.T) {
	upstream := http.NewServeMux()
	reply(upstream, "POST /api/backup", http.StatusOK, `{"file":"backup-1.db"}`)
	reply(upstream, "POST /api/backup/cleanup", http.StatusOK, `{"deleted":["backup-0.db"]}`)
	reply(upstream, "POST /api/reset", http.StatusOK, `{"message":"ok"}`)
	reply(upstream, "DELETE /api/logs", http.StatusOK, `{"message":"ok"}`)
	router := InitRoutesTests(t, upstream)

	w := do(router, http.MethodPost, "/backups", nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Backup created successfully: backup-1.db", decode(t, w)["message"])

	w = do(router, http.MethodPost, "/backups/cleanup", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"deleted":["backup-0.db"],"message":"Deleted 1 old backups"}`, w.Body.String())

	w = do(router, http.MethodPost, "/reset", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Database reset successfully"}`, w.Body.String())

	w = do(router, http.MethodDelete, "/logs", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Logs cleared successfully"}`, w.Body.String())
}

func TestExport(t *testing.T) {
	upstream := http.NewServeMux()
	reply(upstream, "GET /api/sales", http.StatusOK, `{"status":"success","data":[{"SaleID":"S1","CustomerName":"Acme","Date":"2026-10-01","Quantity":10,"Rate":125,"Amount":1250}],"total":1}`)
	router := InitRoutesTests(t, upstream)

	t.Run("GET_ExportSales_Excel", func(t *testing.T) {
		w := do(router, http.MethodGet, "/export/sales?format=xlsx", nil)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.Equal(t, `attachment; filename="sales_report_2026-10-15.xlsx"`, w.Header().Get("Content-Disposition"))
		f, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
		require.NoError(t, err)
		defer f.Close()
		rows, err := f.GetRows("Sales")
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, "Sale ID", rows[0][0])
		assert.Equal(t, "S1", rows[1][0])
	})

	t.Run("GET_ExportSales_PDF", func(t *testing.T) {
		w := do(router, http.MethodGet, "/export/sales", nil)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
		assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("%PDF")))
	})

	t.Run("GET_Export_UnknownEntity", func(t *testing.T) {
		w := do(router, http.MethodGet, "/export/invoices", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("GET_Export_UnknownFormat", func(t *testing.T) {
		w := do(router, http.MethodGet, "/export/sales?format=docx", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestOverview(t *testing.T) {
	upstream := http.NewServeMux()
	reply(upstream, "GET /api/customers", http.StatusOK, `[{"CustomerID":"C1","CustomerName":"Acme"}]`)
	reply(upstream, "GET /api/sales", http.StatusOK, `[]`)
	reply(upstream, "GET /api/payments", http.StatusOK, `[]`)
	reply(upstream, "GET /api/transactions", http.StatusOK, `[]`)
	reply(upstream, "GET /api/balances", http.StatusOK, `[{"CustomerID":"C1","CustomerName":"Acme","TotalSales":500,"TotalPayments":700,"PendingBalance":-200}]`)
	reply(upstream, "GET /api/logs", http.StatusOK, `[]`)
	router := InitRoutesTests(t, upstream)

	w := do(router, http.MethodGet, "/overview", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(1), body["customer_count"])
	assert.Equal(t, float64(500), body["total_sales"])
	assert.Len(t, body["negative_balances"], 1)
	assert.Empty(t, body["errors"])
}

func TestMiddleware(t *testing.T) {
	router := InitRoutesTests(t, http.NewServeMux())
	router.GET("/boom", func(c *gin.Context) { panic("kaboom") })

	t.Run("Recovery", func(t *testing.T) {
		w := do(router, http.MethodGet, "/boom", nil)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.JSONEq(t, `{"error":"something went wrong","detail":"kaboom"}`, w.Body.String())
	})

	t.Run("SecurityHeadersAndRequestID", func(t *testing.T) {
		w := do(router, http.MethodGet, "/ping", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.NotEmpty(t, w.Header().Get(requestIDHeader))
	})

	t.Run("RequestIDPassthrough", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(requestIDHeader, "abc-123")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get(requestIDHeader))
	})

	t.Run("CORSPreflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/sales", nil)
		req.Header.Set("Origin", "http://localhost:5173")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Equal(t, "http://localhost:5173", w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("Metrics", func(t *testing.T) {
		w := do(router, http.MethodGet, "/metrics", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `sales_dashboard_http_requests_total{method="GET",route="/ping",status="200"}`)
	})
}
