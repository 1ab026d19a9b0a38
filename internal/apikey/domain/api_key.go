// Package domain defines the API key vault entities, inputs and errors.
//
// An APIKey is a third-party credential stored on behalf of a single owner. The credential itself
// is only ever held as AEAD ciphertext plus the nonce that produced it; the plaintext exists in
// memory only while being sealed on create or opened on reveal.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// APIKey is a stored credential and its metadata.
type APIKey struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Name        string
	Description string
	Category    Category
	Service     string
	// Ciphertext and IV are written once at creation and never exposed outside the vault.
	Ciphertext []byte
	IV         []byte
	// KeyValue holds the decrypted credential after a reveal; callers must zero it after use.
	KeyValue   []byte `json:"-"`
	IsActive   bool
	LastUsedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssociatedData returns the bytes bound into the AEAD seal for this record. Binding owner and
// record ids means a ciphertext moved onto another row will not open.
func (k *APIKey) AssociatedData() []byte {
	aad := make([]byte, 0, 32)
	aad = append(aad, k.OwnerID[:]...)
	return append(aad, k.ID[:]...)
}

// CreateAPIKeyInput carries the fields accepted when storing a new credential.
type CreateAPIKeyInput struct {
	Name        string `json:"name"`
	KeyValue    string `json:"key_value"`
	Category    string `json:"category"`
	Description string `json:"description"`
	Service     string `json:"service"`
}

// UpdateAPIKeyInput carries a partial metadata update. Nil fields are left unchanged.
type UpdateAPIKeyInput struct {
	Name        *string `json:"name"`
	Category    *string `json:"category"`
	Description *string `json:"description"`
	Service     *string `json:"service"`
}

// ListFilter narrows a listing. An empty Category or CategoryAll means every category; Search is a
// case-insensitive literal substring matched against name, description and service.
type ListFilter struct {
	Category Category
	Search   string
}

// CategoryCount is the number of active keys an owner holds in one category.
type CategoryCount struct {
	Category Category
	Count    int64
}

// CategoryStats is the per-category breakdown and the total across categories.
type CategoryStats struct {
	Stats []CategoryCount
	Total int64
}
