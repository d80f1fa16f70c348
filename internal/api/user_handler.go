package api

import (
	"fmt"
	"net/http"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler holds the services backing the account endpoints.
type UserHandler struct {
	profileService service.ProfileService
	routineService service.RoutineService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(profileService service.ProfileService, routineService service.RoutineService) *UserHandler {
	return &UserHandler{profileService: profileService, routineService: routineService}
}

// --- DTOs for API (Data Transfer Objects) ---

// ProfileResponse is the full account view behind GET /user/me.
type ProfileResponse struct {
	Username         string          `json:"username"`
	Provider         domain.Provider `json:"provider"`
	Nickname         string          `json:"nickname"`
	Height           float64         `json:"height,omitempty"`
	GoalMemo         string          `json:"goalMemo,omitempty"`
	CurrentRoutineID string          `json:"currentRoutineId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
	UpdatedAt        time.Time       `json:"updatedAt"`
}

func mapProfileResponse(user *domain.User) ProfileResponse {
	if user == nil {
		return ProfileResponse{}
	}
	return ProfileResponse{
		Username:         user.Username,
		Provider:         user.Provider,
		Nickname:         user.Profile.Nickname,
		Height:           user.Profile.Height,
		GoalMemo:         user.Profile.GoalMemo,
		CurrentRoutineID: user.CurrentRoutineID,
		CreatedAt:        user.CreatedAt,
		UpdatedAt:        user.UpdatedAt,
	}
}

// UpdateProfileRequest carries the user-editable fields. The avatar is
// managed through the dedicated avatar endpoints, never through this one.
type UpdateProfileRequest struct {
	Username string  `json:"username" binding:"required"`
	Nickname string  `json:"nickname" binding:"max=30"`
	Height   float64 `json:"height" binding:"omitempty,gt=0"`
	GoalMemo string  `json:"goalMemo" binding:"max=100"`
}

// --- Handler Methods ---

// GetMe godoc
// @Summary Fetch the authenticated account
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} ProfileResponse
// @Failure 401 {object} gin.H "Unknown user"
// @Router /user/me [get]
func (h *UserHandler) GetMe(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	user, err := h.profileService.Get(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfileResponse(user))
}

// UpdateProfile godoc
// @Summary Update the editable profile fields
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param profile body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 401 {object} gin.H "Unknown user or token mismatch"
// @Router /user/profile [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	user, err := h.profileService.UpdateProfile(c.Request.Context(), username, domain.Profile{
		Nickname: req.Nickname,
		Height:   req.Height,
		GoalMemo: req.GoalMemo,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, mapProfileResponse(user))
}

// SetCurrentRoutine godoc
// @Summary Set or clear the current routine
// @Description An empty routineId clears the pointer.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{username, routineId}"
// @Success 200 {object} gin.H
// @Failure 401 {object} gin.H "Unknown user or token mismatch"
// @Router /user/curroutine [post]
func (h *UserHandler) SetCurrentRoutine(c *gin.Context) {
	var req struct {
		Username  string `json:"username" binding:"required"`
		RoutineID string `json:"routineId"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, req.Username)
	if !ok {
		return
	}

	if err := h.routineService.SetCurrent(c.Request.Context(), username, req.RoutineID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"currentRoutineId": req.RoutineID})
}

// RequestAvatarUpload godoc
// @Summary Get a pre-signed URL for uploading an avatar
// @Description Allocates a fresh object key and returns a pre-signed PUT URL;
// @Description the previous avatar object is deleted best-effort.
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object true "{contentType}"
// @Success 200 {object} gin.H "{uploadUrl}"
// @Failure 400 {object} gin.H "Unsupported content type"
// @Failure 500 {object} gin.H "Failed to generate URL"
// @Router /user/avatar [post]
func (h *UserHandler) RequestAvatarUpload(c *gin.Context) {
	var req struct {
		ContentType string `json:"contentType" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}
	switch req.ContentType {
	case "image/jpeg", "image/png", "image/webp":
	default:
		abortWithError(c, http.StatusBadRequest, "contentType must be image/jpeg, image/png or image/webp")
		return
	}

	uploadURL, err := h.profileService.AvatarUploadURL(c.Request.Context(), username, req.ContentType)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"uploadUrl": uploadURL})
}

// GetAvatar godoc
// @Summary Get a pre-signed URL for downloading the avatar
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} gin.H "{downloadUrl}"
// @Failure 404 {object} gin.H "No avatar uploaded"
// @Router /user/avatar [get]
func (h *UserHandler) GetAvatar(c *gin.Context) {
	username, ok := authorizedUsername(c, "")
	if !ok {
		return
	}

	downloadURL, err := h.profileService.AvatarDownloadURL(c.Request.Context(), username)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"downloadUrl": downloadURL})
}
