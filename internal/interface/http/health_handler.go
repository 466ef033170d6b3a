package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) handlePing(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"message":   "pong",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	dbStatus := "not_configured"
	if s.db != nil {
		dbStatus = "unavailable"
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()
		if err := s.db.PingContext(ctx); err == nil {
			dbStatus = "ok"
		}
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"db":      dbStatus,
	})
}
