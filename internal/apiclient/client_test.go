package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"sales_dashboard/internal/ledger"
)

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func newTestClient(t *testing.T, h http.HandlerFunc) (*Client, *Metrics) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	return New(srv.URL, 5*time.Second, zaptest.NewLogger(t), WithMetrics(m)), m
}

func TestListSales_Envelope(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/sales", r.URL.Path)
		assert.Equal(t, "10", r.URL.Query().Get("limit"))
		assert.Equal(t, "20", r.URL.Query().Get("offset"))
		writeJSON(w, http.StatusOK, `{"status":"success","data":[{"SaleID":"S1","CustomerID":"C1","Quantity":3,"Rate":100,"Amount":300}],"total":42}`)
	})

	page, err := client.ListSales(context.Background(), 10, 20)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "S1", page.Items[0].SaleID)
	assert.Equal(t, 300.0, page.Items[0].Amount)
	assert.Equal(t, 42, page.Total)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(ResourceSales, http.MethodGet, "success")))
}

func TestListCustomers_BareArray(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.URL.Query().Get("limit"))
		writeJSON(w, http.StatusOK, `[{"CustomerID":"C1","CustomerName":"Acme"},{"CustomerID":"C2","CustomerName":"Beta"}]`)
	})

	page, err := client.ListCustomers(context.Background())

	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, 2, page.Total)
}

func TestListBalances_DataNotAList(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"success","data":{"CustomerID":"C1"}}`)
	})

	page, err := client.ListBalances(context.Background(), 10, 0)

	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.NotNil(t, page.Items)
	assert.Empty(t, page.Items)
}

func TestListLogs_UnexpectedBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `"maintenance"`)
	})

	_, err := client.ListLogs(context.Background(), 10, 0)

	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestListSales_HTMLBody(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, "<html>maintenance</html>")
	})

	page, err := client.ListSales(context.Background(), 10, 0)

	assert.ErrorIs(t, err, ErrMalformedResponse)
	assert.Empty(t, page.Items)
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(ResourceSales, http.MethodGet, "malformed")))
}

func TestListSales_EnvelopeServedAsText(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, `{"status":"success","data":[{"SaleID":"S1"}],"total":1}`)
	})

	page, err := client.ListSales(context.Background(), 10, 0)

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "S1", page.Items[0].SaleID)
}

func TestListTransactions_StatusNotSuccess(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"status":"error","error":"query failed"}`)
	})

	_, err := client.ListTransactions(context.Background(), 10, 0)

	assert.ErrorIs(t, err, ErrUpstreamStatus)
	assert.Contains(t, err.Error(), "query failed")
}

func TestCall_HTTPErrorStatus(t *testing.T) {
	client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{"error":"database is locked"}`)
	})

	_, err := client.ListPayments(context.Background(), 10, 0)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	assert.Equal(t, "database is locked", Message(err))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.requests.WithLabelValues(ResourcePayments, http.MethodGet, "http_error")))
}

func TestCall_HTTPErrorWithoutBody(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.DeleteSale(context.Background(), "missing")

	assert.True(t, IsNotFound(err))
	assert.Equal(t, "Not Found", Message(err))
}

func TestCall_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()
	client := New(url, time.Second, zaptest.NewLogger(t))

	_, err := client.ListCustomers(context.Background())

	require.Error(t, err)
	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.NotEmpty(t, Message(err))
}

func TestCreateCustomer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/customers", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		var in ledger.CustomerInput
		require.NoError(t, json.Unmarshal(body, &in))
		assert.Equal(t, "Acme Traders", in.CustomerName)
		writeJSON(w, http.StatusCreated, `{"CustomerID":"C7","CustomerName":"Acme Traders"}`)
	})

	got, err := client.CreateCustomer(context.Background(), ledger.CustomerInput{CustomerName: "Acme Traders"})

	require.NoError(t, err)
	assert.Equal(t, "C7", got.CustomerID)
}

func TestSaveSale_UpdateUsesPut(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/sales/S1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"SaleID":"S1","UpdatedAt":"2024-01-06T10:00:00Z"}`)
	})

	got, err := client.SaveSale(context.Background(), "S1", ledger.SaleInput{CustomerID: "C1", Quantity: 1, Rate: 10})

	require.NoError(t, err)
	assert.Equal(t, "2024-01-06T10:00:00Z", got.UpdatedAt)
}

func TestDeleteCustomer(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/customers/C1", r.URL.Path)
		writeJSON(w, http.StatusOK, `{"message":"Customer deleted"}`)
	})

	msg, err := client.DeleteCustomer(context.Background(), "C1")

	require.NoError(t, err)
	assert.Equal(t, "Customer deleted", msg)
}

func TestBackups(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/backups":
			writeJSON(w, http.StatusOK, `[{"file":"backup-1.db","createdAt":"2024-01-01T00:00:00Z"}]`)
		case "/api/backup":
			writeJSON(w, http.StatusOK, `{"file":"backup-2.db"}`)
		case "/api/backup/cleanup":
			writeJSON(w, http.StatusOK, `{"deleted":["backup-1.db"]}`)
		case "/api/reset":
			writeJSON(w, http.StatusOK, `{"message":"Database reset"}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})
	ctx := context.Background()

	backups, err := client.ListBackups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []ledger.Backup{{File: "backup-1.db", CreatedAt: "2024-01-01T00:00:00Z"}}, backups)

	file, err := client.CreateBackup(ctx)
	require.NoError(t, err)
	assert.Equal(t, "backup-2.db", file)

	deleted, err := client.CleanupBackups(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"backup-1.db"}, deleted)

	msg, err := client.ResetDatabase(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Database reset", msg)
}

func TestDecodeList(t *testing.T) {
	page, err := decodeList[ledger.Customer]([]byte(`{"status":"success","data":[{"CustomerID":"C1","CustomerName":"Acme"}],"total":1}`))
	require.NoError(t, err)
	assert.Equal(t, Page[ledger.Customer]{Items: []ledger.Customer{{CustomerID: "C1", CustomerName: "Acme"}}, Total: 1}, page)

	page, err = decodeList[ledger.Customer]([]byte(`{"status":"success","data":null}`))
	require.NoError(t, err)
	assert.Empty(t, page.Items)

	page, err = decodeList[ledger.Customer]([]byte(`{"data":[{"CustomerID":"C1"},{"CustomerID":"C2"}]}`))
	require.NoError(t, err)
	assert.Equal(t, 2, page.Total, "total falls back to the item count")

	_, err = decodeList[ledger.Customer]([]byte(`[{"CustomerID": 12}]`))
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestNewMetrics_ReusesRegisteredCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	first, err := NewMetrics(reg)
	require.NoError(t, err)
	second, err := NewMetrics(reg)
	require.NoError(t, err)
	assert.Same(t, first.requests, second.requests)
}

func TestCall_RateLimited(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		writeJSON(w, http.StatusOK, `[]`)
	}))
	t.Cleanup(srv.Close)
	m, err := NewMetrics(prometheus.NewRegistry())
	require.NoError(t, err)
	client := New(srv.URL, 5*time.Second, zaptest.NewLogger(t), WithMetrics(m), WithRateLimit(0.001, 1))

	_, err = client.ListCustomers(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.ListCustomers(ctx)

	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load(), "the second request waits for a token and never reaches the API")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues(ResourceCustomers, http.MethodGet, "throttled")))
}
