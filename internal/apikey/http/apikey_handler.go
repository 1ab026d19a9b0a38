// Package http provides HTTP handlers for the API key vault. Every handler runs behind
// AuthenticationMiddleware and scopes its operation to the authenticated owner.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/apivault/internal/apikey/http/dto"
	apikeyUseCase "github.com/allisson/apivault/internal/apikey/usecase"
	authHTTP "github.com/allisson/apivault/internal/auth/http"
	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
	apperrors "github.com/allisson/apivault/internal/errors"
	"github.com/allisson/apivault/internal/httputil"
)

// APIKeyHandler handles HTTP requests for API key operations.
type APIKeyHandler struct {
	apiKeyUseCase apikeyUseCase.APIKeyUseCase
	logger        *slog.Logger
}

// NewAPIKeyHandler creates a new API key handler.
func NewAPIKeyHandler(apiKeyUseCase apikeyUseCase.APIKeyUseCase, logger *slog.Logger) *APIKeyHandler {
	return &APIKeyHandler{
		apiKeyUseCase: apiKeyUseCase,
		logger:        logger,
	}
}

// owner returns the authenticated owner, writing a 401 when there is none.
func (h *APIKeyHandler) owner(c *gin.Context) (uuid.UUID, bool) {
	ownerID, ok := authHTTP.OwnerID(c.Request.Context())
	if !ok {
		httputil.HandleErrorGin(c, apperrors.ErrUnauthorized, h.logger)
		return uuid.Nil, false
	}
	return ownerID, true
}

// ownerAndID returns the owner and the :id path parameter, writing the error response itself.
func (h *APIKeyHandler) ownerAndID(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	ownerID, ok := h.owner(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.HandleBadRequestGin(c, fmt.Errorf("invalid api key id: %w", err), h.logger)
		return uuid.Nil, uuid.Nil, false
	}
	return ownerID, id, true
}

// CreateHandler stores a new credential.
// POST /v1/api-keys - Returns 201 Created with metadata only.
func (h *APIKeyHandler) CreateHandler(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	var req dto.CreateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	key, err := h.apiKeyUseCase.Create(c.Request.Context(), ownerID, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusCreated, dto.MapAPIKeyToResponse(key))
}

// ListHandler lists the owner's active keys.
// GET /v1/api-keys?category=&search= - Returns 200 OK with metadata only.
func (h *APIKeyHandler) ListHandler(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	var query dto.ListAPIKeysQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	keys, err := h.apiKeyUseCase.List(c.Request.Context(), ownerID, query.ToFilter())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeysToListResponse(keys))
}

// RevealHandler decrypts one key.
// GET /v1/api-keys/:id - Returns 200 OK with metadata and key_value.
// SECURITY: the plaintext is zeroed after the response is written.
func (h *APIKeyHandler) RevealHandler(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	key, err := h.apiKeyUseCase.Reveal(c.Request.Context(), ownerID, id)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}
	defer cryptoDomain.Zero(key.KeyValue)

	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, dto.MapAPIKeyToRevealResponse(key))
}

// UpdateHandler changes a key's metadata.
// PUT /v1/api-keys/:id - Returns 200 OK with metadata only.
func (h *APIKeyHandler) UpdateHandler(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	var req dto.UpdateAPIKeyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	key, err := h.apiKeyUseCase.Update(c.Request.Context(), ownerID, id, req.ToInput())
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapAPIKeyToResponse(key))
}

// DeleteHandler soft deletes a key.
// DELETE /v1/api-keys/:id - Returns 204 No Content.
func (h *APIKeyHandler) DeleteHandler(c *gin.Context) {
	ownerID, id, ok := h.ownerAndID(c)
	if !ok {
		return
	}

	if err := h.apiKeyUseCase.SoftDelete(c.Request.Context(), ownerID, id); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Data(http.StatusNoContent, "application/json", nil)
}

// CategoryStatsHandler returns the per-category breakdown.
// GET /v1/api-keys/stats/categories - Returns 200 OK.
func (h *APIKeyHandler) CategoryStatsHandler(c *gin.Context) {
	ownerID, ok := h.owner(c)
	if !ok {
		return
	}

	stats, err := h.apiKeyUseCase.CategoryStats(c.Request.Context(), ownerID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapCategoryStatsToResponse(stats))
}
