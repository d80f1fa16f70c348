package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// The OAuth state nonce is minted per login attempt and carried back to the
// callback in a short-lived cookie; the provider must echo the same value.
const (
	oauthStateCookie = "oauth_state"
	oauthStateMaxAge = 300 // seconds
)

// --- Request/Response Structs ---

// RegisterRequest carries a new local account. The 3-20 alphanumeric
// username rule is the canonical one for the whole API.
type RegisterRequest struct {
	Username string `json:"username" binding:"required,alphanum,min=3,max=20"`
	Password string `json:"password" binding:"required,min=8"`
}

// UserResponse excludes sensitive fields like the password hash.
type UserResponse struct {
	Username         string          `json:"username"`
	Provider         domain.Provider `json:"provider"`
	Nickname         string          `json:"nickname"`
	CurrentRoutineID string          `json:"currentRoutineId,omitempty"`
	CreatedAt        time.Time       `json:"createdAt"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// MapUserToResponse converts a domain User to a UserResponse DTO.
func MapUserToResponse(user *domain.User) UserResponse {
	if user == nil {
		return UserResponse{}
	}
	return UserResponse{
		Username:         user.Username,
		Provider:         user.Provider,
		Nickname:         user.Profile.Nickname,
		CurrentRoutineID: user.CurrentRoutineID,
		CreatedAt:        user.CreatedAt,
	}
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Description Creates a new local account.
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 409 {object} gin.H "Conflict (username already exists)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrUserAlreadyExists) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during registration")
		}
		return
	}

	c.JSON(http.StatusCreated, MapUserToResponse(user))
}

// Login godoc
// @Summary Log in a user
// @Description Authenticates a local account and returns a JWT token.
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Invalid input (validation error)"
// @Failure 401 {object} gin.H "Unauthorized (invalid credentials)"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAuthenticationFailed) {
			abortWithError(c, http.StatusUnauthorized, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred during login")
		}
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}

// OAuthLogin godoc
// @Summary Start the OAuth login flow
// @Description Redirects to the identity provider's consent page.
// @Tags Auth
// @Success 302 "Redirect to provider"
// @Router /auth/oauth/login [get]
func (h *AuthHandler) OAuthLogin(c *gin.Context) {
	state := uuid.NewString()
	c.SetCookie(oauthStateCookie, state, oauthStateMaxAge, "/", "", false, true)
	c.Redirect(http.StatusFound, h.authService.OAuthCodeURL(state))
}

// OAuthCallback godoc
// @Summary Finish the OAuth login flow
// @Description Receives the provider callback, exchanges the code and returns a JWT token.
// @Tags Auth
// @Produce json
// @Param state query string true "State nonce"
// @Param code query string true "Authorization code"
// @Success 200 {object} LoginResponse "Login successful"
// @Failure 400 {object} gin.H "Missing or mismatched state/code"
// @Failure 401 {object} gin.H "Code exchange failed"
// @Router /auth/oauth/callback [get]
func (h *AuthHandler) OAuthCallback(c *gin.Context) {
	state, err := c.Cookie(oauthStateCookie)
	c.SetCookie(oauthStateCookie, "", -1, "/", "", false, true)
	if err != nil || state == "" || c.Query("state") != state {
		abortWithError(c, http.StatusBadRequest, "State invalid")
		return
	}
	code := c.Query("code")
	if code == "" {
		abortWithError(c, http.StatusBadRequest, "Code not found")
		return
	}

	token, user, err := h.authService.LoginWithOAuthCode(c.Request.Context(), code)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token: token,
		User:  MapUserToResponse(user),
	})
}
