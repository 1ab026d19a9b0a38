// Package dto provides data transfer objects for the API key HTTP layer.
package dto

import (
	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
)

// CreateAPIKeyRequest is the body of POST /v1/api-keys.
type CreateAPIKeyRequest struct {
	Name        string `json:"name"`
	KeyValue    string `json:"key_value"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Service     string `json:"service"`
}

// ToInput converts the request to the use case input.
func (r CreateAPIKeyRequest) ToInput() apikeyDomain.CreateAPIKeyInput {
	return apikeyDomain.CreateAPIKeyInput{
		Name:        r.Name,
		KeyValue:    r.KeyValue,
		Category:    r.Category,
		Description: r.Description,
		Service:     r.Service,
	}
}

// UpdateAPIKeyRequest is the body of PUT /v1/api-keys/:id. Omitted fields keep their value.
type UpdateAPIKeyRequest struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Service     *string `json:"service"`
}

// ToInput converts the request to the use case input.
func (r UpdateAPIKeyRequest) ToInput() apikeyDomain.UpdateAPIKeyInput {
	return apikeyDomain.UpdateAPIKeyInput{
		Name:        r.Name,
		Category:    r.Category,
		Description: r.Description,
		Service:     r.Service,
	}
}

// ListAPIKeysQuery holds the query string of GET /v1/api-keys.
type ListAPIKeysQuery struct {
	Category string `form:"category"`
	Search   string `form:"search"`
}

// ToFilter converts the query to a list filter.
func (q ListAPIKeysQuery) ToFilter() apikeyDomain.ListFilter {
	return apikeyDomain.ListFilter{
		Category: apikeyDomain.Category(q.Category),
		Search:   q.Search,
	}
}
