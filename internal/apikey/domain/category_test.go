package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCategory_IsValid(t *testing.T) {
	for _, category := range Categories() {
		assert.True(t, category.IsValid(), category)
	}

	assert.False(t, Category("payment").IsValid())
	assert.False(t, Category("").IsValid())
	assert.False(t, CategoryAll.IsValid())
}

func TestCategory_IsAll(t *testing.T) {
	tests := []struct {
		category Category
		expected bool
	}{
		{"", true},
		{"all", true},
		{"ALL", true},
		{"All", true},
		{CategoryPayment, false},
		{"allx", false},
	}

	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.category.IsAll())
		})
	}
}

func TestCategoryValues(t *testing.T) {
	values := CategoryValues()
	assert.Len(t, values, len(Categories()))
	assert.Contains(t, values, "Social Media")
	assert.NotContains(t, values, "all")
}

func TestAPIKey_AssociatedData(t *testing.T) {
	key := &APIKey{ID: uuid.Must(uuid.NewV7()), OwnerID: uuid.Must(uuid.NewV7())}

	aad := key.AssociatedData()
	assert.Len(t, aad, 32)
	assert.Equal(t, key.OwnerID[:], aad[:16])
	assert.Equal(t, key.ID[:], aad[16:])

	other := *key
	other.OwnerID = uuid.Must(uuid.NewV7())
	assert.NotEqual(t, aad, other.AssociatedData())
}
