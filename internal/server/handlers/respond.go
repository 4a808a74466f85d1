package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/coop/internal/domain/apperr"
)

// respondError maps a domain error to its HTTP status and a structured body
// carrying the failure kind and offending field, so the client can show a
// specific message.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	status := apperr.HTTPStatus(err)
	kind := apperr.KindOf(err)

	if kind == apperr.KindStoreUnavailable {
		logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	} else {
		logger.Warn("request rejected", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}

	body := gin.H{"error": err.Error(), "kind": string(kind)}
	if field := apperr.FieldOf(err); field != "" {
		body["field"] = field
	}
	c.JSON(status, body)
}

// respondBindError reports a malformed request body.
func respondBindError(c *gin.Context, logger *zap.Logger, err error) {
	logger.Warn("invalid request payload", zap.String("path", c.Request.URL.Path), zap.Error(err))
	c.JSON(400, gin.H{"error": "invalid request body", "kind": string(apperr.KindValidation)})
}
