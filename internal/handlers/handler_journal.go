package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/finacct/ledgercore/internal/apperrors"
	"github.com/finacct/ledgercore/internal/core/ledger"
	portssvc "github.com/finacct/ledgercore/internal/core/ports/services"
	"github.com/finacct/ledgercore/internal/core/services"
	"github.com/finacct/ledgercore/internal/dto"
	"github.com/finacct/ledgercore/internal/middleware"

	"github.com/gin-gonic/gin"
)

// journalHandler handles HTTP requests related to journal entries.
type journalHandler struct {
	journalService portssvc.JournalSvcFacade
}

// newJournalHandler creates a new journalHandler.
func newJournalHandler(js portssvc.JournalSvcFacade) *journalHandler {
	return &journalHandler{
		journalService: js,
	}
}

// registerJournalRoutes registers all journal-related routes.
func registerJournalRoutes(rg *gin.RouterGroup, journalService portssvc.JournalSvcFacade) {
	h := newJournalHandler(journalService)

	entries := rg.Group("/journal-entries")
	{
		entries.POST("", h.createEntry)
		entries.GET("", h.listEntries)
		entries.GET("/:id", h.getEntry)
		entries.POST("/:id/post", h.postEntry)
		entries.POST("/:id/reverse", h.reverseEntry)
	}
}

// writeValidationError maps the typed validation failures from entry
// creation onto HTTP responses.
func writeValidationError(c *gin.Context, err error) bool {
	var unbalanced *ledger.UnbalancedError
	if errors.As(err, &unbalanced) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: unbalanced.Error()})
		return true
	}
	var missingRate *ledger.MissingExchangeRateError
	if errors.As(err, &missingRate) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: missingRate.Error()})
		return true
	}
	var missingForeign *ledger.MissingForeignAmountError
	if errors.As(err, &missingForeign) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: missingForeign.Error()})
		return true
	}
	if errors.Is(err, services.ErrAccountInactive) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "One or more accounts are inactive"})
		return true
	}
	if errors.Is(err, apperrors.ErrValidation) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return true
	}
	return false
}

// createEntry godoc
// @Summary Create a journal entry
// @Description Validates and persists a balanced journal entry in draft status. Foreign-currency lines are converted to the base currency at the rate effective on the entry date.
// @Tags journal-entries
// @Accept json
// @Produce json
// @Param entry body dto.CreateJournalEntryRequest true "Entry details"
// @Success 201 {object} dto.GetJournalEntryResponse
// @Failure 400 {object} ErrorResponse "Unbalanced entry, missing rate or inactive account"
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse "Unknown account"
// @Security BearerAuth
// @Router /journal-entries [post]
func (h *journalHandler) createEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.CreateJournalEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	creatorUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, lines, err := h.journalService.CreateEntry(c.Request.Context(), req, creatorUserID)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "One or more accounts do not exist"})
			return
		}
		logger.Error("Failed to create journal entry", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create journal entry"})
		return
	}

	c.JSON(http.StatusCreated, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Lines: dto.ToJournalLineResponses(lines),
	})
}

// getEntry godoc
// @Summary Get a journal entry
// @Description Retrieves a journal entry with its lines
// @Tags journal-entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.GetJournalEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal-entries/{id} [get]
func (h *journalHandler) getEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	entry, lines, err := h.journalService.GetEntryByID(c.Request.Context(), entryID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal entry not found"})
			return
		}
		logger.Error("Failed to get journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to get journal entry"})
		return
	}

	c.JSON(http.StatusOK, dto.GetJournalEntryResponse{
		Entry: dto.ToJournalEntryResponse(entry),
		Lines: dto.ToJournalLineResponses(lines),
	})
}

// listEntries godoc
// @Summary List journal entries
// @Description Retrieves a page of journal entries, newest first. Reversal entries are folded under their originals unless includeReversals is set.
// @Tags journal-entries
// @Produce json
// @Param limit query int false "Maximum number of entries to return" default(20)
// @Param nextToken query string false "Pagination token from a previous response"
// @Param includeReversals query bool false "Include reversal entries as top-level rows" default(false)
// @Success 200 {object} dto.ListJournalEntriesResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /journal-entries [get]
func (h *journalHandler) listEntries(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var params dto.ListJournalEntriesParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	page, err := h.journalService.ListEntries(c.Request.Context(), params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid pagination token"})
			return
		}
		logger.Error("Failed to list journal entries", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to list journal entries"})
		return
	}

	c.JSON(http.StatusOK, page)
}

// postEntry godoc
// @Summary Post a journal entry
// @Description Re-validates a draft entry and transitions it to posted. A posted entry is immutable.
// @Tags journal-entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 200 {object} dto.JournalEntryResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not in draft status"
// @Security BearerAuth
// @Router /journal-entries/{id}/post [post]
func (h *journalHandler) postEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	entry, err := h.journalService.PostEntry(c.Request.Context(), entryID, requestingUserID)
	if err != nil {
		if writeValidationError(c, err) {
			return
		}
		if errors.Is(err, services.ErrEntryNotDraft) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Journal entry is not in draft status"})
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal entry not found"})
			return
		}
		logger.Error("Failed to post journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to post journal entry"})
		return
	}

	c.JSON(http.StatusOK, dto.ToJournalEntryResponse(entry))
}

// reverseEntry godoc
// @Summary Reverse a journal entry
// @Description Creates and posts a reversing entry that mirrors the original's lines at the original's stored rates, and marks the original reversed
// @Tags journal-entries
// @Produce json
// @Param id path string true "Entry ID"
// @Success 201 {object} dto.JournalEntryResponse
// @Failure 401 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Entry is not posted or already reversed"
// @Security BearerAuth
// @Router /journal-entries/{id}/reverse [post]
func (h *journalHandler) reverseEntry(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	entryID := c.Param("id")

	requestingUserID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	reversal, err := h.journalService.ReverseEntry(c.Request.Context(), entryID, requestingUserID)
	if err != nil {
		if errors.Is(err, services.ErrEntryNotPosted) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Only posted entries can be reversed"})
			return
		}
		if errors.Is(err, services.ErrEntryAlreadyReversed) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Journal entry is already reversed"})
			return
		}
		if errors.Is(err, apperrors.ErrConflict) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Journal entry was reversed concurrently"})
			return
		}
		if errors.Is(err, apperrors.ErrNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "Journal entry not found"})
			return
		}
		logger.Error("Failed to reverse journal entry", slog.String("entry_id", entryID), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to reverse journal entry"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToJournalEntryResponse(reversal))
}
