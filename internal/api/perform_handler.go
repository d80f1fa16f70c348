package api

import (
	"fmt"
	"net/http"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// PerformHandler holds the perform service dependency.
type PerformHandler struct {
	performService service.PerformService
}

// NewPerformHandler creates a new PerformHandler.
func NewPerformHandler(performService service.PerformService) *PerformHandler {
	return &PerformHandler{performService: performService}
}

// PerformStateResponse is the DTO for today's checklist. Session is null when
// the user has no current routine or today's slot is empty.
type PerformStateResponse struct {
	Session   *domain.PerformSession `json:"session"`
	Committed bool                   `json:"committed"`
}

func mapPerformState(state service.PerformState) PerformStateResponse {
	return PerformStateResponse{Session: state.Session, Committed: state.Committed}
}

// Today godoc
// @Summary Fetch today's checklist
// @Description Derives the session from today's slice of the current routine,
// @Description rebuilding it whenever the routine changed since the last look.
// @Tags Perform
// @Produce json
// @Security BearerAuth
// @Success 200 {object} PerformStateResponse
// @Failure 401 {object} gin.H "Unknown user"
// @Router /perform [get]
func (h *PerformHandler) Today(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	state, err := h.performService.Today(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPerformState(state))
}

// ToggleSet godoc
// @Summary Toggle one set check
// @Description Sets check front to back and uncheck back to front; a toggle
// @Description that violates the order is silently ignored.
// @Tags Perform
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{itemIndex, setIndex}"
// @Success 200 {object} PerformStateResponse
// @Failure 404 {object} gin.H "Nothing to perform today"
// @Router /perform/toggle [post]
func (h *PerformHandler) ToggleSet(c *gin.Context) {
	var req struct {
		ItemIndex int `json:"itemIndex" binding:"gte=0"`
		SetIndex  int `json:"setIndex" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	state, err := h.performService.ToggleSet(c.Request.Context(), username, req.ItemIndex, req.SetIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPerformState(state))
}

// CheckAllSets godoc
// @Summary Check every set of one exercise
// @Tags Perform
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{itemIndex}"
// @Success 200 {object} PerformStateResponse
// @Failure 404 {object} gin.H "Nothing to perform today"
// @Router /perform/checkall [post]
func (h *PerformHandler) CheckAllSets(c *gin.Context) {
	var req struct {
		ItemIndex int `json:"itemIndex" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	state, err := h.performService.CheckAllSets(c.Request.Context(), username, req.ItemIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapPerformState(state))
}

// Commit godoc
// @Summary Commit today's fully checked session
// @Description Records today's planned exercises as a completion entry and
// @Description discards the session. Requires every set to be checked.
// @Tags Perform
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{memo}"
// @Success 201 {object} domain.CompletionRecord
// @Failure 400 {object} gin.H "Memo too long"
// @Failure 404 {object} gin.H "Nothing to perform today"
// @Failure 409 {object} gin.H "Incomplete sets or date already recorded"
// @Router /perform/commit [post]
func (h *PerformHandler) Commit(c *gin.Context) {
	var req struct {
		Memo string `json:"memo" binding:"max=100"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	record, err := h.performService.Commit(c.Request.Context(), username, req.Memo)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}
