package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"sales_dashboard/internal/dashboard"
	"sales_dashboard/internal/export"
	"sales_dashboard/internal/forms"
	"sales_dashboard/internal/listview"
)

// dashboardHandler serves the dashboard views over HTTP.
type dashboardHandler struct {
	dashboard *dashboard.Dashboard
	logger    *zap.Logger
	now       func() time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(d *dashboard.Dashboard, logger *zap.Logger, now func() time.Time) *dashboardHandler {
	if now == nil {
		now = time.Now
	}
	return &dashboardHandler{dashboard: d, logger: logger, now: now}
}

// listQuery is the query string every list endpoint accepts.
type listQuery struct {
	Term    string `form:"q"`
	Sort    string `form:"sort"`
	Order   string `form:"order"`
	Toggle  string `form:"toggle"`
	Page    int    `form:"page"`
	Refresh bool   `form:"refresh"`
}

func bindQuery(ctx *gin.Context) (dashboard.Query, bool) {
	var lq listQuery
	if err := ctx.ShouldBindQuery(&lq); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters"})
		return dashboard.Query{}, false
	}
	return dashboard.Query{
		Query: listview.Query{
			Term:   lq.Term,
			Sort:   lq.Sort,
			Order:  listview.Direction(lq.Order),
			Toggle: lq.Toggle,
			Page:   lq.Page,
		},
		Refresh: lq.Refresh,
	}, true
}

// bindValues reads a dialog body such as {"Quantity": 10, "Rate": "12.5"} as raw field text.
func bindValues(ctx *gin.Context) (map[string]string, error) {
	var raw map[string]any
	if err := ctx.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}
	values := make(map[string]string, len(raw))
	for field, v := range raw {
		switch v := v.(type) {
		case nil:
			values[field] = ""
		case string:
			values[field] = v
		case float64:
			values[field] = strconv.FormatFloat(v, 'f', -1, 64)
		case bool:
			values[field] = strconv.FormatBool(v)
		default:
			return nil, fmt.Errorf("field %s: unsupported value", field)
		}
	}
	return values, nil
}

// respondError maps a view error to a status. errs are the dialog errors, if any.
func (h *dashboardHandler) respondError(ctx *gin.Context, err error, errs forms.Errors) {
	_ = ctx.Error(err)

	var failure *dashboard.Failure
	switch {
	case errors.Is(err, forms.ErrInvalid):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"errors": errs})
	case errors.Is(err, dashboard.ErrDeleteRefused):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &failure):
		body := gin.H{"error": failure.Error()}
		if len(errs) > 0 {
			body["errors"] = errs
		}
		ctx.JSON(http.StatusBadGateway, body)
	case errors.Is(err, listview.ErrUnknownColumn),
		errors.Is(err, listview.ErrPageOutOfRange),
		errors.Is(err, export.ErrUnknownFormat),
		errors.Is(err, forms.ErrUnknownField):
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, dashboard.ErrUnknownEntity):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		h.logger.Error("unexpected dashboard error", zap.Error(err), zap.String("path", ctx.FullPath()))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// listHandler serves one page of a view. A failed fetch still answers with the empty list and
// its message, under 502.
func listHandler[T any](h *dashboardHandler, list func(context.Context, dashboard.Query) (dashboard.List[T], error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		q, ok := bindQuery(ctx)
		if !ok {
			return
		}
		page, err := list(ctx.Request.Context(), q)
		if err != nil {
			var failure *dashboard.Failure
			if errors.As(err, &failure) {
				_ = ctx.Error(err)
				ctx.JSON(http.StatusBadGateway, page)
				return
			}
			h.respondError(ctx, err, nil)
			return
		}
		ctx.JSON(http.StatusOK, page)
	}
}

// saveHandler creates when the route has no :id and updates otherwise.
func saveHandler[T any](h *dashboardHandler, save func(context.Context, string, map[string]string) (T, forms.Errors, error), created, updated string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		values, err := bindValues(ctx)
		if err != nil {
			h.logger.Warn("failed to bind JSON request", zap.Error(err))
			ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
			return
		}

		id := ctx.Param("id")
		saved, errs, err := save(ctx.Request.Context(), id, values)
		if err != nil {
			h.respondError(ctx, err, errs)
			return
		}

		status, msg := http.StatusCreated, created
		if id != "" {
			status, msg = http.StatusOK, updated
		}
		body := gin.H{"data": saved}
		if msg != "" {
			body["message"] = msg
		}
		ctx.JSON(status, body)
	}
}

func deleteHandler(h *dashboardHandler, del func(context.Context, string) (string, error)) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		msg, err := del(ctx.Request.Context(), ctx.Param("id"))
		if err != nil {
			h.respondError(ctx, err, nil)
			return
		}
		ctx.JSON(http.StatusOK, gin.H{"message": msg})
	}
}

func (h *dashboardHandler) handleCustomerEligibility(ctx *gin.Context) {
	elig, err := h.dashboard.Customers.CheckDelete(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, elig)
}

// handleValidateSale re-validates the sale dialog as the user types and returns the amount.
func (h *dashboardHandler) handleValidateSale(ctx *gin.Context) {
	values, err := bindValues(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	errs, amount, err := h.dashboard.Sales.Check(ctx.Query("id"), values)
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"errors": errs, "amount": amount})
}

func (h *dashboardHandler) handleValidatePayment(ctx *gin.Context) {
	values, err := bindValues(ctx)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload"})
		return
	}
	errs, err := h.dashboard.Payments.Check(ctx.Query("id"), values)
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"errors": errs})
}

func (h *dashboardHandler) handleClearLogs(ctx *gin.Context) {
	msg, err := h.dashboard.Logs.Clear(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *dashboardHandler) handleCreateBackup(ctx *gin.Context) {
	backup, msg, err := h.dashboard.Backups.Create(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusCreated, gin.H{"data": backup, "message": msg})
}

func (h *dashboardHandler) handleCleanupBackups(ctx *gin.Context) {
	deleted, msg, err := h.dashboard.Backups.Cleanup(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"deleted": deleted, "message": msg})
}

func (h *dashboardHandler) handleReset(ctx *gin.Context) {
	msg, err := h.dashboard.Backups.Reset(ctx.Request.Context())
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}
	h.logger.Warn("database reset requested", zap.String("request_id", ctx.GetString(requestIDKey)))
	ctx.JSON(http.StatusOK, gin.H{"message": msg})
}

func (h *dashboardHandler) handleOverview(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, h.dashboard.Overview(ctx.Request.Context()))
}

// handleExport renders the filtered, sorted rows of a view as a PDF or Excel download.
func (h *dashboardHandler) handleExport(ctx *gin.Context) {
	entity := ctx.Param("entity")
	outFormat := ctx.DefaultQuery("format", export.FormatPDF)
	q, ok := bindQuery(ctx)
	if !ok {
		return
	}

	table, err := h.dashboard.Export(ctx.Request.Context(), entity, outFormat, q)
	if err != nil {
		h.respondError(ctx, err, nil)
		return
	}

	var buf bytes.Buffer
	if err := export.Write(&buf, table, outFormat); err != nil {
		h.logger.Error("failed to render export", zap.String("entity", entity), zap.String("format", outFormat), zap.Error(err))
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render export"})
		return
	}

	name := export.FileName(entity, outFormat, h.now())
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	ctx.Data(http.StatusOK, export.ContentType(outFormat), buf.Bytes())
}
