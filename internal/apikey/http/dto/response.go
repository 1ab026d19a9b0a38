package dto

import (
	"time"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
)

// APIKeyResponse represents an API key in responses. KeyValue is only set by reveal.
type APIKeyResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	Service     string     `json:"service"`
	KeyValue    string     `json:"key_value,omitempty"`
	IsActive    bool       `json:"is_active"`
	LastUsedAt  *time.Time `json:"last_used_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListAPIKeysResponse wraps a listing.
type ListAPIKeysResponse struct {
	Data []APIKeyResponse `json:"data"`
}

// CategoryCountResponse is one row of the category breakdown.
type CategoryCountResponse struct {
	Category string `json:"category"`
	Count    int64  `json:"count"`
}

// CategoryStatsResponse is the body of GET /v1/api-keys/stats/categories.
type CategoryStatsResponse struct {
	Stats []CategoryCountResponse `json:"stats"`
	Total int64                   `json:"total"`
}

// MapAPIKeyToResponse converts a key to its metadata-only response.
func MapAPIKeyToResponse(key *apikeyDomain.APIKey) APIKeyResponse {
	return APIKeyResponse{
		ID:          key.ID.String(),
		Name:        key.Name,
		Description: key.Description,
		Category:    string(key.Category),
		Service:     key.Service,
		IsActive:    key.IsActive,
		LastUsedAt:  key.LastUsedAt,
		CreatedAt:   key.CreatedAt,
		UpdatedAt:   key.UpdatedAt,
	}
}

// MapAPIKeyToRevealResponse includes the decrypted credential. The caller must zero
// key.KeyValue once the response has been written.
func MapAPIKeyToRevealResponse(key *apikeyDomain.APIKey) APIKeyResponse {
	response := MapAPIKeyToResponse(key)
	response.KeyValue = string(key.KeyValue)
	return response
}

// MapAPIKeysToListResponse converts a listing. An empty listing encodes as an empty array.
func MapAPIKeysToListResponse(keys []*apikeyDomain.APIKey) ListAPIKeysResponse {
	data := make([]APIKeyResponse, 0, len(keys))
	for _, key := range keys {
		data = append(data, MapAPIKeyToResponse(key))
	}
	return ListAPIKeysResponse{Data: data}
}

// MapCategoryStatsToResponse converts the category breakdown.
func MapCategoryStatsToResponse(stats *apikeyDomain.CategoryStats) CategoryStatsResponse {
	rows := make([]CategoryCountResponse, 0, len(stats.Stats))
	for _, s := range stats.Stats {
		rows = append(rows, CategoryCountResponse{Category: string(s.Category), Count: s.Count})
	}
	return CategoryStatsResponse{Stats: rows, Total: stats.Total}
}
