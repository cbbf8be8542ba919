package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/fx"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/finacct/ledgercore/internal/middleware"

	"github.com/gin-gonic/gin"
)

// reportingHandler handles HTTP requests for financial reports.
type reportingHandler struct {
	reportingService portssvc.ReportingService
	baseCurrency     string
}

// newReportingHandler creates a new reportingHandler.
func newReportingHandler(rs portssvc.ReportingService, baseCurrency string) *reportingHandler {
	return &reportingHandler{
		reportingService: rs,
		baseCurrency:     baseCurrency,
	}
}

// registerReportingRoutes registers all reporting routes.
func registerReportingRoutes(rg *gin.RouterGroup, reportingService portssvc.ReportingService, baseCurrency string) {
	h := newReportingHandler(reportingService, baseCurrency)

	reports := rg.Group("/reports")
	{
		reports.GET("/trial-balance", h.trialBalance)
		reports.GET("/receivables-aging", h.receivablesAging)
		reports.GET("/payables-aging", h.payablesAging)
		reports.GET("/budget-variance", h.budgetVariance)
	}
}

// reportCurrency returns the requested report currency, falling back to
// the ledger's base currency.
func (h *reportingHandler) reportCurrency(code string) string {
	if code == "" {
		return h.baseCurrency
	}
	return code
}

// trialBalance godoc
// @Summary Trial balance report
// @Description Generates a trial balance as of a date, with every amount converted into the report currency at the rate effective on that date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param currencyCode query string false "Report currency, defaults to the base currency"
// @Success 200 {object} dto.TrialBalanceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate for report currency"
// @Security BearerAuth
// @Router /reports/trial-balance [get]
func (h *reportingHandler) trialBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}
	currency := h.reportCurrency(params.CurrencyCode)

	report, err := h.reportingService.TrialBalance(c.Request.Context(), asOf, currency)
	if err != nil {
		if errors.Is(err, fx.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Missing exchange rate for report currency"})
			return
		}
		logger.Error("Failed to generate trial balance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate trial balance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToTrialBalanceResponse(report, asOf, currency))
}

// receivablesAging godoc
// @Summary Receivables aging report
// @Description Buckets open receivables by days past due as of a date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param currencyCode query string false "Report currency, defaults to the base currency"
// @Success 200 {object} dto.AgingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate for report currency"
// @Security BearerAuth
// @Router /reports/receivables-aging [get]
func (h *reportingHandler) receivablesAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}
	currency := h.reportCurrency(params.CurrencyCode)

	report, err := h.reportingService.ReceivablesAging(c.Request.Context(), asOf, currency)
	if err != nil {
		if errors.Is(err, fx.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Missing exchange rate for report currency"})
			return
		}
		logger.Error("Failed to generate receivables aging", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate receivables aging"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAgingResponse(report, currency))
}

// payablesAging godoc
// @Summary Payables aging report
// @Description Buckets open vendor payables by days past due as of a date
// @Tags reports
// @Produce json
// @Param asOf query string false "Report date (YYYY-MM-DD), defaults to today"
// @Param currencyCode query string false "Report currency, defaults to the base currency"
// @Success 200 {object} dto.AgingResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate for report currency"
// @Security BearerAuth
// @Router /reports/payables-aging [get]
func (h *reportingHandler) payablesAging(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ReportParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if params.AsOf != nil {
		asOf = *params.AsOf
	}
	currency := h.reportCurrency(params.CurrencyCode)

	report, err := h.reportingService.PayablesAging(c.Request.Context(), asOf, currency)
	if err != nil {
		if errors.Is(err, fx.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Missing exchange rate for report currency"})
			return
		}
		logger.Error("Failed to generate payables aging", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate payables aging"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAgingResponse(report, currency))
}

// budgetVariance godoc
// @Summary Budget variance report
// @Description Compares budgeted and actual amounts over a period, with qualitative banding per budget line
// @Tags reports
// @Produce json
// @Param from query string true "Period start (YYYY-MM-DD)"
// @Param to query string true "Period end (YYYY-MM-DD)"
// @Param currencyCode query string false "Report currency, defaults to the base currency"
// @Success 200 {object} dto.VarianceResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse "Missing exchange rate for report currency"
// @Security BearerAuth
// @Router /reports/budget-variance [get]
func (h *reportingHandler) budgetVariance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.VarianceParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}
	if params.To.Before(params.From) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "to must not be before from"})
		return
	}
	currency := h.reportCurrency(params.CurrencyCode)

	report, err := h.reportingService.BudgetVariance(c.Request.Context(), params.From, params.To, currency)
	if err != nil {
		if errors.Is(err, fx.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "Missing exchange rate for report currency"})
			return
		}
		logger.Error("Failed to generate budget variance", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate budget variance"})
		return
	}

	c.JSON(http.StatusOK, dto.ToVarianceResponse(report, params.From, params.To, currency))
}
