package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	appauth "fnb-insights/internal/application/auth"
)

func (s *Server) handleLogin(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid body", "error_code": errCodeBadRequest})
		return
	}

	res, err := s.loginUC.Execute(c.Request.Context(), appauth.LoginInput{
		Email:    body.Email,
		Password: body.Password,
	})
	if err != nil {
		s.log.WithField("email", body.Email).WithError(err).Warn("login failed")
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid email or password", "error_code": errCodeInvalidCredentials})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":    res.User.ID,
			"email": res.User.Email,
			"role":  res.User.Role,
		},
		"access_token": res.Token.AccessToken,
		"token_type":   "Bearer",
		"expiry":       res.Token.ExpiresAt.Format(time.RFC3339),
	})
}
