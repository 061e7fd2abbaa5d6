package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Envelope is the body of every JSON response
type Envelope struct {
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

func respond(c *gin.Context, status int, data any) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data})
}

func respondError(c *gin.Context, logger *zap.Logger, err error) {
	apiErr := fromError(err)
	if apiErr.Status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
	}
	c.Header("Cache-Control", "no-store")
	c.AbortWithStatusJSON(apiErr.Status, Envelope{Error: apiErr})
}
