package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finacct/ledgercore/internal/apperrors"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/core/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/finacct/ledgercore/internal/middleware"

	"github.com/gin-gonic/gin"
)

// assetHandler handles HTTP requests related to fixed assets and depreciation.
type assetHandler struct {
	assetService portssvc.AssetSvcFacade
}

// newAssetHandler creates a new assetHandler.
func newAssetHandler(as portssvc.AssetSvcFacade) *assetHandler {
	return &assetHandler{
		assetService: as,
	}
}

// registerAssetRoutes registers all asset and depreciation routes.
func registerAssetRoutes(rg *gin.RouterGroup, assetService portssvc.AssetSvcFacade) {
	h := newAssetHandler(assetService)

	assets := rg.Group("/assets")
	{
		assets.POST("", h.createAsset)
		assets.GET("", h.listAssets)
		assets.GET("/:id", h.getAsset)
		assets.GET("/:id/depreciations", h.listDepreciations)
		assets.POST("/:id/depreciations", h.runDepreciation)
	}

	depreciations := rg.Group("/depreciations")
	{
		depreciations.POST("/batch", h.runBatchDepreciation)
		depreciations.DELETE("/:id", h.deleteDepreciation)
	}
}

// createAsset godoc
// @Summary Register a fixed asset
// @Description Registers a new depreciable asset. Its current value starts at the acquisition cost.
// @Tags assets
// @Accept json
// @Produce json
// @Param asset body dto.CreateAssetRequest true "Asset details"
// @Success 201 {object} dto.AssetResponse
// @Failure 400 {object} ErrorResponse "Salvage above cost, or missing rate for declining balance"
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /assets [post]
func (h *assetHandler) createAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	asset, err := h.assetService.CreateAsset(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to create asset", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create asset"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToAssetResponse(asset))
}

// getAsset godoc
// @Summary Get an asset by ID
// @Description Retrieves details for a specific fixed asset
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {object} dto.AssetResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assets/{id} [get]
func (h *assetHandler) getAsset(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("id")

	asset, err := h.assetService.GetAssetByID(c.Request.Context(), assetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset not found"})
			return
		}
		logger.Error("Failed to get asset", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get asset"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAssetResponse(asset))
}

// listAssets godoc
// @Summary List assets
// @Description Retrieves a paginated list of fixed assets, optionally filtered by status
// @Tags assets
// @Produce json
// @Param status query string false "Filter by status" Enums(ACTIVE, DISPOSED)
// @Param limit query int false "Maximum number of assets to return" default(20)
// @Param offset query int false "Number of assets to skip" default(0)
// @Success 200 {array} dto.AssetResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /assets [get]
func (h *assetHandler) listAssets(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListAssetsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	assets, err := h.assetService.ListAssets(c.Request.Context(), params)
	if err != nil {
		logger.Error("Failed to list assets", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list assets"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListAssetResponse(assets))
}

// listDepreciations godoc
// @Summary List an asset's depreciation history
// @Description Retrieves all depreciation records for an asset, oldest period first
// @Tags assets
// @Produce json
// @Param id path string true "Asset ID"
// @Success 200 {array} dto.DepreciationResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /assets/{id}/depreciations [get]
func (h *assetHandler) listDepreciations(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("id")

	records, err := h.assetService.ListDepreciations(c.Request.Context(), assetID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset not found"})
			return
		}
		logger.Error("Failed to list depreciations", slog.String("asset_id", assetID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list depreciations"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListDepreciationResponse(records))
}

// runDepreciation godoc
// @Summary Run depreciation for an asset
// @Description Computes and records one period's depreciation for a single asset. A period already covered by an existing record is rejected.
// @Tags assets
// @Accept json
// @Produce json
// @Param id path string true "Asset ID"
// @Param run body dto.RunDepreciationRequest true "Depreciation period"
// @Success 201 {object} dto.DepreciationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Period already depreciated or asset not active"
// @Security BearerAuth
// @Router /assets/{id}/depreciations [post]
func (h *assetHandler) runDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	assetID := c.Param("id")

	var req dto.RunDepreciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	record, err := h.assetService.RunDepreciation(c.Request.Context(), assetID, req, requestingUserID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrPeriodAlreadyDepreciated):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "A depreciation record already covers this period"})
		case errors.Is(err, services.ErrAssetNotActive):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Asset is not active"})
		case errors.Is(err, services.ErrJournalAccountsNotSet):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Depreciation journal accounts are not configured"})
		case errors.Is(err, apperrors.ErrValidation):
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Asset not found"})
		default:
			logger.Error("Failed to run depreciation", slog.String("asset_id", assetID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to run depreciation"})
		}
		return
	}

	c.JSON(http.StatusCreated, dto.ToDepreciationResponse(record))
}

// runBatchDepreciation godoc
// @Summary Run depreciation for all active assets
// @Description Runs one period's depreciation across every active asset. Per-asset failures are reported in the response and do not abort the batch.
// @Tags assets
// @Accept json
// @Produce json
// @Param run body dto.BatchDepreciationRequest true "Depreciation period"
// @Success 200 {object} dto.BatchDepreciationResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /depreciations/batch [post]
func (h *assetHandler) runBatchDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.BatchDepreciationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	result, err := h.assetService.RunBatchDepreciation(c.Request.Context(), req, requestingUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
			return
		}
		logger.Error("Failed to run batch depreciation", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to run batch depreciation"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// deleteDepreciation godoc
// @Summary Delete a depreciation record
// @Description Removes a depreciation record and restores the asset's current value, provided no journal entry references the record
// @Tags assets
// @Produce json
// @Param id path string true "Depreciation record ID"
// @Success 204 "No Content"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Record is referenced by a journal entry"
// @Security BearerAuth
// @Router /depreciations/{id} [delete]
func (h *assetHandler) deleteDepreciation(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	depreciationID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.assetService.DeleteDepreciation(c.Request.Context(), depreciationID, requestingUserID); err != nil {
		switch {
		case errors.Is(err, services.ErrDepreciationJournaled):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Depreciation record is referenced by a journal entry"})
		case errors.Is(err, apperrors.ErrConflict):
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Depreciation record is referenced by a journal entry"})
		case errors.Is(err, apperrors.ErrNotFound):
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Depreciation record not found"})
		default:
			logger.Error("Failed to delete depreciation", slog.String("depreciation_id", depreciationID), slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to delete depreciation"})
		}
		return
	}

	c.Status(http.StatusNoContent)
}
