package handler

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sourcingops/backend/internal/infrastructure/auth"
	"github.com/sourcingops/backend/internal/interfaces/http/dto"
)

// LoginRequest is the single-operator login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued access token
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
	Operator    string    `json:"operator"`
}

// AuthHandler handles operator authentication
type AuthHandler struct {
	BaseHandler
	credentials *auth.CredentialChecker
	jwtService  *auth.JWTService
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(credentials *auth.CredentialChecker, jwtService *auth.JWTService) *AuthHandler {
	return &AuthHandler{credentials: credentials, jwtService: jwtService}
}

// RegisterRoutes registers auth routes
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

// Login verifies the operator credentials and issues a JWT
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.ErrCodeInvalidJSON, "Invalid login payload")
		return
	}

	if err := h.credentials.Verify(req.Username, req.Password); err != nil {
		if errors.Is(err, auth.ErrBadCredentials) {
			h.Error(c, dto.ErrCodeBadCredentials, "Invalid username or password")
			return
		}
		h.HandleError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(req.Username)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, LoginResponse{
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   token.ExpiresAt,
		Operator:    req.Username,
	})
}
