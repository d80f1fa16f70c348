package api

import (
	"fmt"
	"net/http"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// RoutineHandler holds the routine service dependency.
type RoutineHandler struct {
	routineService service.RoutineService
}

// NewRoutineHandler creates a new RoutineHandler.
func NewRoutineHandler(routineService service.RoutineService) *RoutineHandler {
	return &RoutineHandler{routineService: routineService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ExerciseItemRequest is one exercise as submitted by the client.
type ExerciseItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Weight      float64 `json:"weight" binding:"required,gt=0"`
	Repetitions int     `json:"repetitions" binding:"required,gte=1"`
	SetCount    int     `json:"setCount" binding:"required,gte=1,lte=20"`
}

func (r ExerciseItemRequest) toDomain() domain.ExerciseItem {
	return domain.ExerciseItem{
		Name:        r.Name,
		Weight:      r.Weight,
		Repetitions: r.Repetitions,
		SetCount:    r.SetCount,
	}
}

// RoutineRequest is the full-routine payload for add/edit. The week plan is
// optional on add (a brand-new routine starts empty) and must have exactly
// 7 day slots when present.
type RoutineRequest struct {
	ID       string                  `json:"id"`
	Title    string                  `json:"title"`
	WeekPlan [][]ExerciseItemRequest `json:"weekPlan"`
}

func (r RoutineRequest) weekPlan() (domain.WeekPlan, error) {
	var plan domain.WeekPlan
	if r.WeekPlan == nil {
		return plan, nil
	}
	if len(r.WeekPlan) != domain.DaysPerWeek {
		return plan, fmt.Errorf("weekPlan must have exactly %d day slots", domain.DaysPerWeek)
	}
	for day, items := range r.WeekPlan {
		for _, item := range items {
			plan[day] = append(plan[day], item.toDomain())
		}
	}
	return plan, nil
}

// RoutineResponse is the DTO for returning routine details.
type RoutineResponse struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	LastModified int64           `json:"lastModified"`
	WeekPlan     domain.WeekPlan `json:"weekPlan"`
}

// MapRoutineToResponse converts a domain.Routine to RoutineResponse DTO.
func MapRoutineToResponse(r *domain.Routine) RoutineResponse {
	if r == nil {
		return RoutineResponse{}
	}
	return RoutineResponse{
		ID:           r.ID,
		Title:        r.Title,
		LastModified: r.LastModified,
		WeekPlan:     r.WeekPlan,
	}
}

// RoutineListResponse pairs the routine collection with the current pointer.
type RoutineListResponse struct {
	Routines         []RoutineResponse `json:"routines"`
	CurrentRoutineID string            `json:"currentRoutineId,omitempty"`
}

// --- Handler Methods ---

// AddRoutine godoc
// @Summary Create a routine
// @Description Creates a routine for the authenticated user; at most 10 per user.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routine}"
// @Success 201 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unknown user or token mismatch"
// @Failure 409 {object} gin.H "Routine limit reached"
// @Router /routine/add [post]
func (h *RoutineHandler) AddRoutine(c *gin.Context) {
	var req struct {
		Username string         `json:"username" binding:"required"`
		Routine  RoutineRequest `json:"routine"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}
	plan, err := req.Routine.weekPlan()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	routine, err := h.routineService.Create(c.Request.Context(), username, req.Routine.Title, plan)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, MapRoutineToResponse(routine))
}

// EditRoutine godoc
// @Summary Edit a routine
// @Description Replaces the stored routine with the same id.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routine}"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unknown user or token mismatch"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routine/edit [post]
func (h *RoutineHandler) EditRoutine(c *gin.Context) {
	var req struct {
		Username string         `json:"username" binding:"required"`
		Routine  RoutineRequest `json:"routine" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}
	if req.Routine.ID == "" {
		abortWithError(c, http.StatusBadRequest, "routine.id is required")
		return
	}
	plan, err := req.Routine.weekPlan()
	if err != nil {
		abortWithError(c, http.StatusBadRequest, err.Error())
		return
	}

	routine, err := h.routineService.Replace(c.Request.Context(), username, domain.Routine{
		ID:       req.Routine.ID,
		Title:    req.Routine.Title,
		WeekPlan: plan,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// RemoveRoutine godoc
// @Summary Delete a routine
// @Description Deletes a routine by id; clears the current pointer if it referenced it.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routineId}"
// @Success 200 {object} gin.H
// @Failure 401 {object} gin.H "Unknown user or token mismatch"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routine/remove [post]
func (h *RoutineHandler) RemoveRoutine(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		RoutineID string `json:"routineId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	if err := h.routineService.Delete(c.Request.Context(), username, req.RoutineID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": req.RoutineID})
}

// RenameRoutine godoc
// @Summary Rename a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routineId, title}"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid title"
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routine/rename [post]
func (h *RoutineHandler) RenameRoutine(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		RoutineID string `json:"routineId" binding:"required"`
		Title     string `json:"title" binding:"required,min=1,max=12"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	routine, err := h.routineService.Rename(c.Request.Context(), username, req.RoutineID, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// AddExercise godoc
// @Summary Add an exercise to one day of a routine
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routineId, day, exercise}"
// @Success 200 {object} RoutineResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 404 {object} gin.H "Routine not found"
// @Failure 409 {object} gin.H "Day already holds 20 exercises"
// @Router /routine/exercise/add [post]
func (h *RoutineHandler) AddExercise(c *gin.Context) {
	var req struct {
		Username  string              `json:"username" binding:"required"`
		RoutineID string              `json:"routineId" binding:"required"`
		Day       int                 `json:"day" binding:"gte=0,lte=6"`
		Exercise  ExerciseItemRequest `json:"exercise" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	routine, err := h.routineService.AddExercise(c.Request.Context(), username, req.RoutineID, req.Day, req.Exercise.toDomain())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// RemoveExercise godoc
// @Summary Remove an exercise by position
// @Description Out-of-range positions are a no-op, matching the reducer.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routineId, day, index}"
// @Success 200 {object} RoutineResponse
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routine/exercise/remove [post]
func (h *RoutineHandler) RemoveExercise(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		RoutineID string `json:"routineId" binding:"required"`
		Day       int    `json:"day" binding:"gte=0,lte=6"`
		Index     int    `json:"index" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	routine, err := h.routineService.RemoveExercise(c.Request.Context(), username, req.RoutineID, req.Day, req.Index)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// MoveExercise godoc
// @Summary Reorder an exercise within one day
// @Description toIndex addresses the list with the moved item already removed.
// @Tags Routines
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routineId, day, fromIndex, toIndex}"
// @Success 200 {object} RoutineResponse
// @Failure 404 {object} gin.H "Routine not found"
// @Router /routine/exercise/move [post]
func (h *RoutineHandler) MoveExercise(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		RoutineID string `json:"routineId" binding:"required"`
		Day       int    `json:"day" binding:"gte=0,lte=6"`
		FromIndex int    `json:"fromIndex" binding:"gte=0"`
		ToIndex   int    `json:"toIndex" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	routine, err := h.routineService.MoveExercise(c.Request.Context(), username, req.RoutineID, req.Day, req.FromIndex, req.ToIndex)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapRoutineToResponse(routine))
}

// ListRoutines godoc
// @Summary List the user's routines
// @Tags Routines
// @Produce json
// @Security BearerAuth
// @Success 200 {object} RoutineListResponse
// @Failure 401 {object} gin.H "Unknown user"
// @Router /routine/list [get]
func (h *RoutineHandler) ListRoutines(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	routines, currentID, err := h.routineService.List(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	resp := RoutineListResponse{
		Routines:         make([]RoutineResponse, 0, len(routines)),
		CurrentRoutineID: currentID,
	}
	for i := range routines {
		resp.Routines = append(resp.Routines, MapRoutineToResponse(&routines[i]))
	}
	c.JSON(http.StatusOK, resp)
}
