package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	authdomain "mailmate-backend/internal/auth/domain"
	authdto "mailmate-backend/internal/auth/dto"
	"mailmate-backend/internal/auth/repository"
	"mailmate-backend/pkg/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const userInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// gmailScopes are requested during the code exchange so the stored token can
// read, send and modify the user's mailbox.
var gmailScopes = []string{
	"https://www.googleapis.com/auth/gmail.readonly",
	"https://www.googleapis.com/auth/gmail.send",
	"https://www.googleapis.com/auth/gmail.modify",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
}

// authUsecase implements AuthUsecase interface
type authUsecase struct {
	userRepo repository.UserRepository
	config   *config.Config
}

// NewAuthUsecase creates a new instance of authUsecase
func NewAuthUsecase(userRepo repository.UserRepository, cfg *config.Config) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		config:   cfg,
	}
}

// googleUserInfo mirrors Google's userinfo response
type googleUserInfo struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
}

// GoogleSignIn links a Google account. It accepts either an authorization
// code (exchanged for access + refresh tokens) or a bare access token from
// the implicit flow, then issues our own session tokens.
func (u *authUsecase) GoogleSignIn(ctx context.Context, req *authdto.GoogleAuthRequest) (*authdto.TokenResponse, error) {
	var gmailToken *oauth2.Token
	var err error

	switch {
	case req.Code != "":
		gmailToken, err = u.exchangeCode(ctx, req.Code)
	case req.AccessToken != "":
		gmailToken = &oauth2.Token{AccessToken: req.AccessToken, TokenType: "Bearer"}
	default:
		return nil, errors.New("either code or access_token is required")
	}
	if err != nil {
		return nil, err
	}

	info, err := fetchUserInfo(ctx, gmailToken.AccessToken)
	if err != nil {
		return nil, err
	}
	if info.Email == "" {
		return nil, errors.New("google account has no email address")
	}

	// Find or create user, always refreshing the stored Gmail tokens
	user, err := u.userRepo.FindByEmail(info.Email)
	if err != nil {
		return nil, err
	}

	if user == nil {
		user = &authdomain.User{
			Email:        info.Email,
			Name:         info.Name,
			AvatarURL:    info.Picture,
			Provider:     "google",
			AccessToken:  gmailToken.AccessToken,
			RefreshToken: gmailToken.RefreshToken,
			TokenExpiry:  gmailToken.Expiry,
		}
		if err := u.userRepo.Create(user); err != nil {
			return nil, err
		}
	} else {
		user.Name = info.Name
		user.AvatarURL = info.Picture
		user.AccessToken = gmailToken.AccessToken
		if gmailToken.RefreshToken != "" {
			user.RefreshToken = gmailToken.RefreshToken
		}
		user.TokenExpiry = gmailToken.Expiry
		if err := u.userRepo.Update(user); err != nil {
			return nil, err
		}
	}

	return u.generateTokens(user)
}

// exchangeCode tries the configured redirect URI first, then the other
// redirect URIs browsers commonly send, since the code is only valid for the
// exact URI used by the frontend.
func (u *authUsecase) exchangeCode(ctx context.Context, code string) (*oauth2.Token, error) {
	candidates := []string{
		u.config.GoogleRedirectURI,
		"postmessage",
		"http://localhost:5173/",
		"http://localhost:5173",
	}

	var lastErr error
	for _, redirectURI := range candidates {
		if redirectURI == "" {
			continue
		}
		cfg := &oauth2.Config{
			ClientID:     u.config.GoogleClientID,
			ClientSecret: u.config.GoogleClientSecret,
			RedirectURL:  redirectURI,
			Scopes:       gmailScopes,
			Endpoint:     google.Endpoint,
		}
		token, err := cfg.Exchange(ctx, code)
		if err == nil {
			return token, nil
		}
		log.Printf("[Auth] code exchange with redirect %q failed: %v", redirectURI, err)
		lastErr = err
	}

	return nil, fmt.Errorf("failed to exchange authorization code: %w", lastErr)
}

// fetchUserInfo resolves the account behind the access token. This doubles
// as token validation for the implicit flow.
func fetchUserInfo(ctx context.Context, accessToken string) (*googleUserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", userInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to verify Google token: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to verify Google token: status %d, body: %s", resp.StatusCode, string(body))
	}

	var info googleUserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode Google user info: %w", err)
	}
	return &info, nil
}

func (u *authUsecase) RefreshToken(refreshToken string) (*authdto.TokenResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid refresh token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	// The token must also still exist in the repository
	storedToken, err := u.userRepo.FindRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	if storedToken == nil || storedToken.ExpiresAt.Before(time.Now()) {
		return nil, errors.New("refresh token expired")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	// Rotate: the old refresh token is replaced by the new one
	if err := u.userRepo.DeleteRefreshToken(refreshToken); err != nil {
		return nil, err
	}

	return u.generateTokens(user)
}

func (u *authUsecase) Logout(refreshToken string) error {
	return u.userRepo.DeleteRefreshToken(refreshToken)
}

func (u *authUsecase) generateTokens(user *authdomain.User) (*authdto.TokenResponse, error) {
	accessToken, err := u.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := u.generateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	refreshTokenEntity := &authdomain.RefreshToken{
		Token:     refreshToken,
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(u.config.JWTRefreshExpiry),
	}
	if err := u.userRepo.ReplaceRefreshToken(refreshTokenEntity); err != nil {
		return nil, err
	}

	return &authdto.TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

func (u *authUsecase) generateAccessToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id": user.ID,
		"email":   user.Email,
		"exp":     time.Now().Add(u.config.JWTAccessExpiry).Unix(),
		"iat":     time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) generateRefreshToken(user *authdomain.User) (string, error) {
	claims := jwt.MapClaims{
		"user_id":  user.ID,
		"token_id": uuid.New().String(),
		"exp":      time.Now().Add(u.config.JWTRefreshExpiry).Unix(),
		"iat":      time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(u.config.JWTSecret))
}

func (u *authUsecase) ValidateToken(tokenString string) (*authdomain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte(u.config.JWTSecret), nil
	})

	if err != nil || !token.Valid {
		return nil, errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	userID, ok := claims["user_id"].(string)
	if !ok {
		return nil, errors.New("invalid token claims")
	}

	user, err := u.userRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	if user == nil {
		return nil, errors.New("user not found")
	}

	return user, nil
}
