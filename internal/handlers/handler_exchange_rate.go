package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/fx"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/finacct/ledgercore/internal/middleware"

	"github.com/gin-gonic/gin"
)

// exchangeRateHandler handles HTTP requests related to exchange rates.
type exchangeRateHandler struct {
	rateService portssvc.ExchangeRateSvcFacade
}

// newExchangeRateHandler creates a new exchangeRateHandler.
func newExchangeRateHandler(rs portssvc.ExchangeRateSvcFacade) *exchangeRateHandler {
	return &exchangeRateHandler{
		rateService: rs,
	}
}

// registerExchangeRateRoutes registers all exchange rate-related routes.
func registerExchangeRateRoutes(rg *gin.RouterGroup, rateService portssvc.ExchangeRateSvcFacade) {
	h := newExchangeRateHandler(rateService)

	rates := rg.Group("/exchange-rates")
	{
		rates.POST("", h.createExchangeRate)
		rates.GET("", h.listRates)
		rates.GET("/resolve", h.resolveRate)
		rates.POST("/convert", h.convertAmount)
	}
}

// createExchangeRate godoc
// @Summary Create an exchange rate
// @Description Records a new rate for a currency pair effective from a date
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param rate body dto.CreateExchangeRateRequest true "Exchange rate details"
// @Success 201 {object} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown currency"
// @Security BearerAuth
// @Router /exchange-rates [post]
func (h *exchangeRateHandler) createExchangeRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateExchangeRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	rate, err := h.rateService.CreateExchangeRate(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Unknown currency in pair"})
			return
		}
		logger.Error("Failed to create exchange rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create exchange rate"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToExchangeRateResponse(rate))
}

// listRates godoc
// @Summary List exchange rates
// @Description Retrieves the rate history for a currency pair, newest first
// @Tags exchange-rates
// @Produce json
// @Param from query string true "From currency code"
// @Param to query string true "To currency code"
// @Param limit query int false "Maximum number of rates to return" default(20)
// @Param offset query int false "Number of rates to skip" default(0)
// @Success 200 {array} dto.ExchangeRateResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /exchange-rates [get]
func (h *exchangeRateHandler) listRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if len(from) != 3 || len(to) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to must be 3-letter currency codes"})
		return
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	rates, err := h.rateService.ListRates(c.Request.Context(), from, to, limit, offset)
	if err != nil {
		logger.Error("Failed to list exchange rates", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list exchange rates"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeRateResponse(rates))
}

// resolveRate godoc
// @Summary Resolve a conversion rate
// @Description Resolves the rate between two currencies as of a date, falling back to the reciprocal of the inverse pair when no direct rate exists
// @Tags exchange-rates
// @Produce json
// @Param from query string true "From currency code"
// @Param to query string true "To currency code"
// @Param asOf query string false "Effective date (YYYY-MM-DD), defaults to today"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No rate available"
// @Security BearerAuth
// @Router /exchange-rates/resolve [get]
func (h *exchangeRateHandler) resolveRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	from := c.Query("from")
	to := c.Query("to")
	if len(from) != 3 || len(to) != 3 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "from and to must be 3-letter currency codes"})
		return
	}

	asOf := time.Now().UTC()
	if raw := c.Query("asOf"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "asOf must be formatted YYYY-MM-DD"})
			return
		}
		asOf = parsed
	}

	resolution, err := h.rateService.ResolveRate(c.Request.Context(), from, to, asOf)
	if err != nil {
		if errors.Is(err, fx.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No rate available for pair as of date"})
			return
		}
		logger.Error("Failed to resolve rate", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to resolve rate"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"fromCurrencyCode": from,
		"toCurrencyCode":   to,
		"rate":             resolution.Rate,
		"rateSource":       string(resolution.Source),
		"dateEffective":    resolution.DateEffective,
	})
}

// convertAmount godoc
// @Summary Convert an amount between currencies
// @Description Converts an amount at the rate effective on the given date
// @Tags exchange-rates
// @Accept json
// @Produce json
// @Param conversion body dto.ConvertAmountRequest true "Conversion details"
// @Success 200 {object} dto.ConvertAmountResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "No rate available"
// @Security BearerAuth
// @Router /exchange-rates/convert [post]
func (h *exchangeRateHandler) convertAmount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ConvertAmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	asOf := time.Now().UTC()
	if req.AsOf != nil {
		asOf = *req.AsOf
	}

	resolution, err := h.rateService.ResolveRate(c.Request.Context(), req.FromCurrencyCode, req.ToCurrencyCode, asOf)
	if err != nil {
		if errors.Is(err, fx.ErrRateNotFound) || errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "No rate available for pair as of date"})
			return
		}
		logger.Error("Failed to resolve rate for conversion", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert amount"})
		return
	}

	conversion, err := h.rateService.ConvertAmount(c.Request.Context(), req.Amount, req.FromCurrencyCode, req.ToCurrencyCode, asOf)
	if err != nil {
		logger.Error("Failed to convert amount", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to convert amount"})
		return
	}

	c.JSON(http.StatusOK, dto.ConvertAmountResponse{
		Amount:           req.Amount,
		FromCurrencyCode: req.FromCurrencyCode,
		ToCurrencyCode:   req.ToCurrencyCode,
		ConvertedAmount:  conversion.Amount,
		RateUsed:         conversion.RateUsed,
		RateSource:       string(resolution.Source),
		DateEffective:    resolution.DateEffective,
	})
}
