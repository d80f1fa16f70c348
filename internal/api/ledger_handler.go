package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// LedgerHandler holds the ledger service dependency.
type LedgerHandler struct {
	ledgerService service.LedgerService
}

// NewLedgerHandler creates a new LedgerHandler.
func NewLedgerHandler(ledgerService service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledgerService: ledgerService}
}

// --- DTOs for API (Data Transfer Objects) ---

// CompletionRequest is a manually entered completion record.
type CompletionRequest struct {
	Date string                `json:"date" binding:"required"`
	List []ExerciseItemRequest `json:"list"`
	Memo string                `json:"memo"`
}

func (r CompletionRequest) toDomain() domain.CompletionRecord {
	record := domain.CompletionRecord{
		Date:      r.Date,
		Exercises: make([]domain.ExerciseItem, 0, len(r.List)),
		Memo:      r.Memo,
	}
	for _, item := range r.List {
		record.Exercises = append(record.Exercises, item.toDomain())
	}
	return record
}

// ProgressPointRequest is one {x, y} chart point as the client submits it.
type ProgressPointRequest struct {
	X string  `json:"x" binding:"required"`
	Y float64 `json:"y" binding:"required,gt=0"`
}

// --- Handler Methods ---

// AddCompletion godoc
// @Summary Record a completion manually
// @Description Appends a completion record; at most one record per date.
// @Tags Ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, complete}"
// @Success 201 {object} domain.CompletionRecord
// @Failure 400 {object} gin.H "Invalid date or memo"
// @Failure 401 {object} gin.H "Unknown user or token mismatch"
// @Failure 409 {object} gin.H "Date already recorded"
// @Router /complete/add [post]
func (h *LedgerHandler) AddCompletion(c *gin.Context) {
	var req struct {
		Username string            `json:"username" binding:"required"`
		Complete CompletionRequest `json:"complete" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	record := req.Complete.toDomain()
	if err := h.ledgerService.AddCompletion(c.Request.Context(), username, record); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// RemoveCompletion godoc
// @Summary Remove a completion record by date
// @Tags Ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, date}"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "No record for that date"
// @Router /complete/remove [post]
func (h *LedgerHandler) RemoveCompletion(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Date     string `json:"date" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	if err := h.ledgerService.RemoveCompletion(c.Request.Context(), username, req.Date); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": req.Date})
}

// ListCompletions godoc
// @Summary List all completion records in insertion order
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{completions: [...]}"
// @Failure 401 {object} gin.H "Unknown user"
// @Router /complete/list [get]
func (h *LedgerHandler) ListCompletions(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	records, err := h.ledgerService.ListCompletions(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if records == nil {
		records = []domain.CompletionRecord{}
	}
	c.JSON(http.StatusOK, gin.H{"completions": records})
}

// Calendar godoc
// @Summary Render a month as a 35- or 42-cell grid
// @Description Cells outside the month are filler and never carry a completion.
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Param year query int true "Year, e.g. 2026"
// @Param month query int true "Month 1-12"
// @Success 200 {object} gin.H "{year, month, cells}"
// @Failure 400 {object} gin.H "Malformed year or month"
// @Router /complete/calendar [get]
func (h *LedgerHandler) Calendar(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, "year must be an integer")
		return
	}
	month, err := strconv.Atoi(c.Query("month"))
	if err != nil || month < 1 || month > 12 {
		abortWithError(c, http.StatusBadRequest, "month must be 1-12")
		return
	}

	cells, err := h.ledgerService.Calendar(c.Request.Context(), username, year, time.Month(month))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "month": month, "cells": cells})
}

// AddProgress godoc
// @Summary Record a body-composition measurement
// @Description Expects exactly three {x, y} points sharing one date: weight,
// @Description muscle mass, fat mass, in that order.
// @Tags Ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, progress}"
// @Success 201 {object} domain.ProgressEntry
// @Failure 400 {object} gin.H "Invalid points"
// @Failure 409 {object} gin.H "Same date as the latest entry"
// @Router /progress/add [post]
func (h *LedgerHandler) AddProgress(c *gin.Context) {
	var req struct {
		Username string                 `json:"username" binding:"required"`
		Progress []ProgressPointRequest `json:"progress" binding:"required,len=3,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}
	if req.Progress[1].X != req.Progress[0].X || req.Progress[2].X != req.Progress[0].X {
		abortWithError(c, http.StatusBadRequest, "progress points must share one date")
		return
	}

	entry := domain.ProgressEntry{
		Date:       req.Progress[0].X,
		Weight:     req.Progress[0].Y,
		MuscleMass: req.Progress[1].Y,
		FatMass:    req.Progress[2].Y,
	}
	if err := h.ledgerService.AddProgress(c.Request.Context(), username, entry); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, entry)
}

// RemoveProgress godoc
// @Summary Remove the progress entry for a date
// @Tags Ledger
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, progressDate}"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "No entry for that date"
// @Router /progress/remove [post]
func (h *LedgerHandler) RemoveProgress(c *gin.Context) {
	var req struct {
		Username     string `json:"username" binding:"required"`
		ProgressDate string `json:"progressDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	if err := h.ledgerService.RemoveProgress(c.Request.Context(), username, req.ProgressDate); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": req.ProgressDate})
}

// GetProgress godoc
// @Summary Fetch the three measurement series for charting
// @Description Returns a positional triple of point lists: weight, muscle
// @Description mass, fat mass. The three always share length and dates.
// @Tags Ledger
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{progress: [[{x,y}], [{x,y}], [{x,y}]]}"
// @Failure 401 {object} gin.H "Unknown user"
// @Router /progress [get]
func (h *LedgerHandler) GetProgress(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	series, err := h.ledgerService.Progress(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"progress": [3][]domain.SeriesPoint{series.Weight, series.MuscleMass, series.FatMass},
	})
}
