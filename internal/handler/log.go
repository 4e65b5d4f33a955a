package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/mpaulosky/blogsite/internal/logger"
	"github.com/mpaulosky/blogsite/internal/middleware"
)

// requestLog returns a logger carrying the request id for correlation.
func requestLog(c *gin.Context) *slog.Logger {
	return logger.WithRequestID(middleware.GetRequestID(c))
}
