package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func TestUserDocument_RoundTrip(t *testing.T) {
	user := newTestUser()

	raw, err := bson.Marshal(toUserDocument(user))
	require.NoError(t, err)

	var decoded bson.M
	require.NoError(t, bson.Unmarshal(raw, &decoded))
	assert.Equal(t, user.ID.String(), decoded["_id"])
	assert.Equal(t, user.Email, decoded["email"])

	var doc userDocument
	require.NoError(t, bson.Unmarshal(raw, &doc))
	got, err := doc.toDomain()
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.True(t, got.IsActive)
}

func TestUserDocument_InvalidID(t *testing.T) {
	doc := userDocument{ID: "not-a-uuid"}

	_, err := doc.toDomain()
	assert.ErrorContains(t, err, "failed to parse user id")
}

func TestUserIndexes(t *testing.T) {
	indexes := UserIndexes()

	require.Len(t, indexes, 1)
	assert.Equal(t, bson.D{{Key: "email", Value: 1}}, indexes[0].Keys)
}
