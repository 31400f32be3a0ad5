package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/interviewday-backend/internal/services"
)

type AuthHandler struct {
	tokens services.TokenService
}

func NewAuthHandler(tokens services.TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

// POST /api/auth/token
func (ah *AuthHandler) IssueToken(c *gin.Context) {
	var req struct {
		APIKey string `json:"api_key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	token, expiresAt, err := ah.tokens.Issue(req.APIKey)
	if err != nil {
		RespondError(c, http.StatusUnauthorized, "invalid_api_key", err)
		return
	}
	RespondOK(c, gin.H{"token": token, "expires_at": expiresAt})
}
