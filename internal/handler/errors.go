package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/corvid-chat/corvid/internal/apperrors"
	"github.com/corvid-chat/corvid/internal/middleware"
	"github.com/corvid-chat/corvid/internal/models"
	"github.com/corvid-chat/corvid/internal/service"
	"github.com/corvid-chat/corvid/pkg/logger"
)

// handleError maps service errors onto HTTP responses.
func handleError(c *gin.Context, err error) {
	log := logger.Named("http")
	path := c.Request.URL.Path

	var processing *service.ProcessingError
	switch {
	case apperrors.IsValidation(err), apperrors.IsUnknownCommand(err):
		log.Warn("Validation error", zap.Error(err), zap.String("path", path))
		writeError(c, http.StatusBadRequest, err.Error())
	case apperrors.IsNotFound(err):
		log.Info("Not found", zap.Error(err), zap.String("path", path))
		writeError(c, http.StatusNotFound, err.Error())
	case apperrors.IsInvalidSource(err):
		log.Warn("Invalid source", zap.Error(err), zap.String("path", path))
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	case apperrors.IsForbidden(err):
		log.Warn("Forbidden", zap.Error(err), zap.String("path", path))
		writeError(c, http.StatusForbidden, err.Error())
	case errors.As(err, &processing):
		log.Error("Processing error", zap.Error(err), zap.String("path", path))
		writeError(c, http.StatusInternalServerError, processing.Message)
	default:
		log.Error("Unexpected error", zap.Error(err), zap.String("path", path))
		writeError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
	_ = c.Error(err)
}

func writeError(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Timestamp: time.Now(),
		Status:    status,
		Error:     http.StatusText(status),
		Message:   message,
		Path:      c.Request.URL.Path,
	})
}

// bindJSON decodes the request body into dst, answering 400 on failure.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		writeError(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return false
	}
	return true
}

// requireIdentity returns the caller set by middleware.Auth.
func requireIdentity(c *gin.Context) (*middleware.Identity, bool) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok || identity == nil {
		writeError(c, http.StatusUnauthorized, "Access token required")
		return nil, false
	}
	return identity, true
}

func uuidParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperrors.NewValidation(name, "must be a valid id")
	}
	return id, nil
}

func intQuery(c *gin.Context, name string, fallback int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.NewValidation(name, "must be an integer")
	}
	return v, nil
}

func boolQuery(c *gin.Context, name string) (*bool, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, apperrors.NewValidation(name, "must be true or false")
	}
	return &v, nil
}
