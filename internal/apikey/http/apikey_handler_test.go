package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	jvalidation "github.com/jellydator/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	"github.com/allisson/apivault/internal/apikey/http/dto"
	"github.com/allisson/apivault/internal/apikey/usecase/mocks"
	authDomain "github.com/allisson/apivault/internal/auth/domain"
	authHTTP "github.com/allisson/apivault/internal/auth/http"
	cryptoDomain "github.com/allisson/apivault/internal/crypto/domain"
	apperrors "github.com/allisson/apivault/internal/errors"
	"github.com/allisson/apivault/internal/httputil"
	"github.com/allisson/apivault/internal/validation"
)

var testOwnerID = uuid.Must(uuid.NewV7())

func setupTestHandler(t *testing.T) (*APIKeyHandler, *mocks.MockAPIKeyUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &mocks.MockAPIKeyUseCase{}
	t.Cleanup(func() { mockUseCase.AssertExpectations(t) })
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	return NewAPIKeyHandler(mockUseCase, logger), mockUseCase
}

// createTestContext builds a request already authenticated as testOwnerID.
func createTestContext(method, path string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req := httptest.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req.WithContext(
		authHTTP.WithPrincipal(req.Context(), &authDomain.Principal{UserID: testOwnerID}),
	)

	return c, w
}

func newTestKey() *apikeyDomain.APIKey {
	now := time.Now().UTC()
	return &apikeyDomain.APIKey{
		ID:        uuid.Must(uuid.NewV7()),
		OwnerID:   testOwnerID,
		Name:      "Stripe Prod",
		Category:  apikeyDomain.CategoryPayment,
		Service:   "stripe",
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestAPIKeyHandler_CreateHandler(t *testing.T) {
	t.Run("Success_ValidRequest", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		key := newTestKey()
		request := dto.CreateAPIKeyRequest{Name: "Stripe Prod", KeyValue: "sk_live_1", Category: "Payment"}

		mockUseCase.On("Create", mock.Anything, testOwnerID, request.ToInput()).Return(key, nil).Once()

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", request)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		var response dto.APIKeyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, key.ID.String(), response.ID)
		assert.Empty(t, response.KeyValue)
		assert.NotContains(t, w.Body.String(), "sk_live_1")
	})

	t.Run("Error_InvalidJSON", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", nil)
		c.Request.Body = io.NopCloser(bytes.NewReader([]byte("invalid json")))
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("Error_ValidationFields", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		verr := validation.WrapValidationError(jvalidation.Errors{"name": errors.New("name is required")})

		mockUseCase.On("Create", mock.Anything, testOwnerID, mock.Anything).Return(nil, verr).Once()

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", dto.CreateAPIKeyRequest{KeyValue: "x"})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		var response httputil.ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Contains(t, response.Fields, "name")
	})

	t.Run("Error_DuplicateName", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("Create", mock.Anything, testOwnerID, mock.Anything).
			Return(nil, apikeyDomain.ErrDuplicateName).
			Once()

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", dto.CreateAPIKeyRequest{Name: "dup", KeyValue: "x"})
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Error_Unauthenticated", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodPost, "/v1/api-keys", dto.CreateAPIKeyRequest{})
		c.Request = httptest.NewRequest(http.MethodPost, "/v1/api-keys", nil)
		handler.CreateHandler(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestAPIKeyHandler_ListHandler(t *testing.T) {
	t.Run("Success_WithFilters", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		key := newTestKey()
		filter := apikeyDomain.ListFilter{Category: "Payment", Search: "prod"}

		mockUseCase.On("List", mock.Anything, testOwnerID, filter).
			Return([]*apikeyDomain.APIKey{key}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/api-keys?category=Payment&search=prod", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.ListAPIKeysResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 1)
		assert.Equal(t, key.ID.String(), response.Data[0].ID)
	})

	t.Run("Success_Empty", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)

		mockUseCase.On("List", mock.Anything, testOwnerID, apikeyDomain.ListFilter{}).
			Return([]*apikeyDomain.APIKey{}, nil).
			Once()

		c, w := createTestContext(http.MethodGet, "/v1/api-keys", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})
}

func TestAPIKeyHandler_RevealHandler(t *testing.T) {
	t.Run("Success_ZeroesPlaintext", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		key := newTestKey()
		key.KeyValue = []byte("sk_live_secret")

		mockUseCase.On("Reveal", mock.Anything, testOwnerID, key.ID).Return(key, nil).Once()

		c, w := createTestContext(http.MethodGet, "/v1/api-keys/"+key.ID.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: key.ID.String()}}
		handler.RevealHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var response dto.APIKeyResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "sk_live_secret", response.KeyValue)
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
		assert.Equal(t, make([]byte, len("sk_live_secret")), key.KeyValue)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		id := uuid.Must(uuid.NewV7())
		err := apperrors.Join(apikeyDomain.ErrAPIKeyNotFound, cryptoDomain.ErrDecryptionFailed)

		mockUseCase.On("Reveal", mock.Anything, testOwnerID, id).Return(nil, err).Once()

		c, w := createTestContext(http.MethodGet, "/v1/api-keys/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.RevealHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.NotContains(t, w.Body.String(), "decrypt")
	})

	t.Run("Error_InvalidID", func(t *testing.T) {
		handler, _ := setupTestHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/api-keys/not-a-uuid", nil)
		c.Params = gin.Params{{Key: "id", Value: "not-a-uuid"}}
		handler.RevealHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAPIKeyHandler_UpdateHandler(t *testing.T) {
	t.Run("Success_PartialUpdate", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		key := newTestKey()
		newName := "Stripe Live"
		key.Name = newName

		mockUseCase.On("Update", mock.Anything, testOwnerID, key.ID, mock.MatchedBy(
			func(in apikeyDomain.UpdateAPIKeyInput) bool {
				return in.Name != nil && *in.Name == newName && in.Category == nil
			},
		)).Return(key, nil).Once()

		c, w := createTestContext(http.MethodPut, "/v1/api-keys/"+key.ID.String(), map[string]string{
			"name": newName,
		})
		c.Params = gin.Params{{Key: "id", Value: key.ID.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), newName)
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		id := uuid.Must(uuid.NewV7())

		mockUseCase.On("Update", mock.Anything, testOwnerID, id, mock.Anything).
			Return(nil, apikeyDomain.ErrAPIKeyNotFound).
			Once()

		c, w := createTestContext(http.MethodPut, "/v1/api-keys/"+id.String(), map[string]string{})
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.UpdateHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAPIKeyHandler_DeleteHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		id := uuid.Must(uuid.NewV7())

		mockUseCase.On("SoftDelete", mock.Anything, testOwnerID, id).Return(nil).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/api-keys/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("Error_NotFound", func(t *testing.T) {
		handler, mockUseCase := setupTestHandler(t)
		id := uuid.Must(uuid.NewV7())

		mockUseCase.On("SoftDelete", mock.Anything, testOwnerID, id).Return(apikeyDomain.ErrAPIKeyNotFound).Once()

		c, w := createTestContext(http.MethodDelete, "/v1/api-keys/"+id.String(), nil)
		c.Params = gin.Params{{Key: "id", Value: id.String()}}
		handler.DeleteHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestAPIKeyHandler_CategoryStatsHandler(t *testing.T) {
	handler, mockUseCase := setupTestHandler(t)

	mockUseCase.On("CategoryStats", mock.Anything, testOwnerID).Return(&apikeyDomain.CategoryStats{
		Stats: []apikeyDomain.CategoryCount{{Category: apikeyDomain.CategoryPayment, Count: 2}},
		Total: 2,
	}, nil).Once()

	c, w := createTestContext(http.MethodGet, "/v1/api-keys/stats/categories", nil)
	handler.CategoryStatsHandler(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"stats":[{"category":"Payment","count":2}],"total":2}`, w.Body.String())
}
