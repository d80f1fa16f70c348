package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"fitweek/fitness-tracker/internal/config"
	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
)

// --- Error Definitions ---
var (
	ErrUserAlreadyExists    = errors.New("user with this username already exists")
	ErrAuthenticationFailed = errors.New("authentication failed: invalid username or password")
	ErrHashingFailed        = errors.New("failed to hash password")
	ErrTokenGeneration      = errors.New("failed to generate authentication token")
	ErrOAuthExchange        = errors.New("failed to exchange authorization code")
)

// AuthService handles registration and both login paths (local credentials
// and third-party OAuth). Both paths reduce to a stable username plus a
// signed session token.
type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (token string, user *domain.User, err error)
	OAuthCodeURL(state string) string
	LoginWithOAuthCode(ctx context.Context, code string) (token string, user *domain.User, err error)
	GetJWTSecret() string
}

// authService implements the AuthService interface.
type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	jwtExpiration time.Duration
	oauth         *oauth2.Config
	profileURL    string
}

// NewAuthService creates a new instance of authService.
func NewAuthService(userRepo repository.UserRepository, jwtCfg config.JWTConfig, oauthCfg config.OAuthConfig) AuthService {
	if jwtCfg.Secret == "" {
		panic("JWT secret cannot be empty") // Critical configuration
	}
	expiration := jwtCfg.Expiration
	if expiration <= 0 {
		expiration = 24 * time.Hour
	}
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtCfg.Secret,
		jwtExpiration: expiration,
		oauth: &oauth2.Config{
			ClientID:     oauthCfg.ClientID,
			ClientSecret: oauthCfg.ClientSecret,
			RedirectURL:  oauthCfg.RedirectURL,
			Endpoint: oauth2.Endpoint{
				AuthURL:  oauthCfg.AuthURL,
				TokenURL: oauthCfg.TokenURL,
			},
		},
		profileURL: oauthCfg.ProfileURL,
	}
}

// Register handles new local-account registration. Username shape (3-20
// alphanumeric) is validated at the API boundary; this layer guards
// uniqueness.
func (s *authService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	if username == "" || password == "" {
		return nil, errors.New("username and password cannot be empty")
	}

	_, err := s.userRepo.GetByUsername(ctx, username)
	if err == nil {
		return nil, ErrUserAlreadyExists
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, ErrHashingFailed
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: string(hashedPassword),
		Provider:     domain.ProviderLocal,
		Profile:      domain.Profile{Nickname: username},
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// The unique index catches a race between the lookup and the insert.
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrUserAlreadyExists
		}
		return nil, err
	}

	user.PasswordHash = ""
	return user, nil
}

// Login handles local authentication and JWT generation.
func (s *authService) Login(ctx context.Context, username, password string) (token string, user *domain.User, err error) {
	if username == "" || password == "" {
		err = errors.New("username and password cannot be empty")
		return
	}

	user, err = s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			err = ErrAuthenticationFailed // unknown user maps to auth failure
			return
		}
		return
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password))
	if err != nil {
		err = ErrAuthenticationFailed
		user = nil
		return
	}

	token, err = s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// OAuthCodeURL returns the provider's consent page URL for the given state.
func (s *authService) OAuthCodeURL(state string) string {
	return s.oauth.AuthCodeURL(state)
}

// LoginWithOAuthCode exchanges the authorization code, resolves the
// provider's stable account id and logs the matching user in, registering
// the account on first contact.
func (s *authService) LoginWithOAuthCode(ctx context.Context, code string) (string, *domain.User, error) {
	oauthToken, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return "", nil, ErrOAuthExchange
	}

	providerID, err := s.fetchProviderID(ctx, oauthToken)
	if err != nil {
		return "", nil, err
	}
	username := "oauth_" + providerID

	user, err := s.userRepo.GetByUsername(ctx, username)
	if errors.Is(err, repository.ErrNotFound) {
		user = &domain.User{
			Username: username,
			Provider: domain.ProviderOAuth,
			Profile:  domain.Profile{Nickname: username},
		}
		if err = s.userRepo.Create(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicateKey) {
			return "", nil, err
		}
	} else if err != nil {
		return "", nil, err
	}

	token, err := s.generateJWT(user)
	if err != nil {
		return "", nil, ErrTokenGeneration
	}

	user.PasswordHash = ""
	return token, user, nil
}

// fetchProviderID calls the provider's profile endpoint with the exchanged
// token and extracts the account id.
func (s *authService) fetchProviderID(ctx context.Context, token *oauth2.Token) (string, error) {
	resp, err := s.oauth.Client(ctx, token).Get(s.profileURL)
	if err != nil {
		return "", ErrOAuthExchange
	}
	defer resp.Body.Close()

	// Providers disagree on whether the id is a number or a string.
	var profile struct {
		ID any `json:"id"`
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&profile); err != nil || profile.ID == nil {
		return "", ErrOAuthExchange
	}
	return fmt.Sprint(profile.ID), nil
}

// --- JWT Helper ---

// jwtClaims defines the structure of the JWT payload.
type jwtClaims struct {
	Username string `json:"uname"`
	jwt.RegisteredClaims
}

// generateJWT creates a new JWT token for the given user.
func (s *authService) generateJWT(user *domain.User) (string, error) {
	expirationTime := time.Now().Add(s.jwtExpiration)
	claims := &jwtClaims{
		Username: user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.Username,
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			Issuer:    "fitweek",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.jwtSecret))
}

// GetJWTSecret returns the JWT secret for middleware authentication
func (s *authService) GetJWTSecret() string {
	return s.jwtSecret
}
