package handlers

import (
	"crypto/subtle"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"timeclock-system/internal/utils"
)

type AuthHTTPHandler struct {
	adminPIN []byte
	secret   []byte
	ttl      time.Duration
}

func NewAuthHTTPHandler(adminPIN string, secret []byte, ttl time.Duration) *AuthHTTPHandler {
	return &AuthHTTPHandler{adminPIN: []byte(adminPIN), secret: secret, ttl: ttl}
}

type AdminLoginRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// AdminLogin exchanges the configured admin PIN for a session token.
func (h *AuthHTTPHandler) AdminLogin(c *gin.Context) {
	var req AdminLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("Invalid request format"))
		return
	}

	if len(h.adminPIN) == 0 || subtle.ConstantTimeCompare([]byte(req.PIN), h.adminPIN) != 1 {
		log.Printf("rejected admin login from %s", c.ClientIP())
		c.JSON(http.StatusUnauthorized, errorResponse("Invalid PIN"))
		return
	}

	token, exp, err := utils.GenerateToken(h.secret, utils.RoleAdmin, utils.RoleAdmin, h.ttl)
	if err != nil {
		c.JSON(http.StatusInternalServerError, errorResponse("Failed to issue token"))
		return
	}

	c.JSON(http.StatusOK, successResponse("Login successful", map[string]interface{}{
		"token":      token,
		"expires_at": exp,
	}))
}
