package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
)

func TestAPIKeyDocument_RoundTrip(t *testing.T) {
	key := newTestAPIKey()
	usedAt := time.Now().UTC()
	key.LastUsedAt = &usedAt

	doc := toAPIKeyDocument(key)
	assert.Equal(t, key.ID.String(), doc.ID)
	assert.Equal(t, key.OwnerID.String(), doc.OwnerID)
	assert.Equal(t, "Payment", doc.Category)

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	assert.Equal(t, key.ID.String(), bson.Raw(raw).Lookup("_id").StringValue())
	assert.True(t, bson.Raw(raw).Lookup("is_active").Boolean())

	var decoded apiKeyDocument
	require.NoError(t, bson.Unmarshal(raw, &decoded))

	got, err := decoded.toDomain()
	require.NoError(t, err)
	assert.Equal(t, key.ID, got.ID)
	assert.Equal(t, key.OwnerID, got.OwnerID)
	assert.Equal(t, key.Ciphertext, got.Ciphertext)
	assert.Equal(t, key.IV, got.IV)
	require.NotNil(t, got.LastUsedAt)
	assert.WithinDuration(t, usedAt, *got.LastUsedAt, time.Millisecond)
}

func TestAPIKeyDocument_OmitsNilLastUsed(t *testing.T) {
	raw, err := bson.Marshal(toAPIKeyDocument(newTestAPIKey()))
	require.NoError(t, err)

	_, err = bson.Raw(raw).LookupErr("last_used_at")
	assert.Error(t, err)
}

func TestAPIKeyDocument_InvalidID(t *testing.T) {
	doc := apiKeyDocument{ID: "nope", OwnerID: uuid.Must(uuid.NewV7()).String()}

	_, err := doc.toDomain()
	assert.ErrorContains(t, err, "failed to parse api key id")
}

func TestListFilter(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())

	t.Run("OwnerAndActiveOnly", func(t *testing.T) {
		filter := listFilter(owner, apikeyDomain.ListFilter{})
		assert.Equal(t, bson.D{
			{Key: "owner_id", Value: owner.String()},
			{Key: "is_active", Value: true},
		}, filter)
	})

	t.Run("SearchIsQuoted", func(t *testing.T) {
		filter := listFilter(owner, apikeyDomain.ListFilter{
			Category: apikeyDomain.CategoryEmail,
			Search:   "a.b*",
		})
		require.Len(t, filter, 4)
		assert.Equal(t, bson.E{Key: "category", Value: "Email"}, filter[2])

		or := filter[3]
		assert.Equal(t, "$or", or.Key)
		clauses := or.Value.(bson.A)
		require.Len(t, clauses, 3)
		assert.Equal(t,
			bson.D{{Key: "name", Value: bson.Regex{Pattern: `a\.b\*`, Options: "i"}}},
			clauses[0],
		)
	})
}

func TestAPIKeyIndexes(t *testing.T) {
	indexes := APIKeyIndexes()
	require.Len(t, indexes, 3)

	assert.Equal(t, bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}}, indexes[0].Keys)
	assert.NotNil(t, indexes[0].Options)
}

func TestCategoryStatsPipeline(t *testing.T) {
	owner := uuid.Must(uuid.NewV7())
	pipeline := categoryStatsPipeline(owner)

	require.Len(t, pipeline, 3)
	assert.Equal(t, "$match", pipeline[0][0].Key)
	assert.Equal(t, "$group", pipeline[1][0].Key)
	assert.Equal(t, "$sort", pipeline[2][0].Key)
}
