// Package handler implements the HTTP request handlers of the API.
package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/storeops/backend/internal/domain/shared"
	"github.com/storeops/backend/internal/interfaces/http/dto"
	"github.com/storeops/backend/internal/interfaces/http/middleware"
)

// BaseHandler carries the helpers shared by all handlers.
type BaseHandler struct {
	logger *zap.Logger
}

// NewBaseHandler creates a BaseHandler
func NewBaseHandler(logger *zap.Logger) BaseHandler {
	return BaseHandler{logger: logger}
}

// Session extracts the authenticated session. A missing session means the
// route was wired without the JWT middleware; respond 401 and abort.
func (h BaseHandler) Session(c *gin.Context) (shared.Session, bool) {
	session, ok := middleware.GetSession(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", middleware.GetRequestID(c)))
		return shared.Session{}, false
	}
	return session, true
}

// Success writes a 200 response with data
func (h BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta writes a 200 list response with pagination metadata
func (h BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, meta dto.Meta) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, meta))
}

// Created writes a 201 response with data
func (h BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent writes a 204 response
func (h BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest writes a 400 for malformed request syntax. Validation errors
// carry per-field details; anything else gets the raw message.
func (h BaseHandler) BadRequest(c *gin.Context, err error) {
	if details := middleware.ValidationDetails(err); details != nil {
		resp := dto.NewErrorResponseWithDetails(dto.ErrCodeBadRequest, "Request validation failed", details)
		resp.Error.RequestID = middleware.GetRequestID(c)
		c.JSON(http.StatusBadRequest, resp)
		return
	}

	message := "Invalid request"
	if err != nil {
		message = err.Error()
	}
	c.JSON(http.StatusBadRequest,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeBadRequest, message, middleware.GetRequestID(c)))
}

// HandleError translates service errors into HTTP responses. Domain errors
// map to their status via the error code table; backing store failures and
// anything unrecognized become a 500 without leaking internals.
func (h BaseHandler) HandleError(c *gin.Context, err error) {
	requestID := middleware.GetRequestID(c)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.HTTPStatusForCode(domainErr.Code)
		if status >= http.StatusInternalServerError {
			h.logError(c, err)
		}
		c.JSON(status, dto.NewErrorResponseWithRequestID(domainErr.Code, domainErr.Message, requestID))
		return
	}

	var storeErr *shared.BackingStoreError
	if errors.As(err, &storeErr) {
		h.logError(c, err)
		c.JSON(http.StatusInternalServerError,
			dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "A storage error occurred", requestID))
		return
	}

	h.logError(c, err)
	c.JSON(http.StatusInternalServerError,
		dto.NewErrorResponseWithRequestID(dto.ErrCodeInternal, "An unexpected error occurred", requestID))
}

func (h BaseHandler) logError(c *gin.Context, err error) {
	if h.logger == nil {
		return
	}
	h.logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path),
		zap.String("request_id", middleware.GetRequestID(c)),
		zap.Error(err),
	)
}
