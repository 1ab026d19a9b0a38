package repository

import (
	"context"
	"errors"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apikeyDomain "github.com/allisson/apivault/internal/apikey/domain"
	apperrors "github.com/allisson/apivault/internal/errors"
)

// APIKeysCollection is the MongoDB collection holding API keys.
const APIKeysCollection = "api_keys"

// apiKeyDocument is the BSON shape of an API key. Ids are stored as canonical UUID strings so
// that _id ordering follows UUIDv7 creation order.
type apiKeyDocument struct {
	ID          string     `bson:"_id"`
	OwnerID     string     `bson:"owner_id"`
	Name        string     `bson:"name"`
	Description string     `bson:"description"`
	Category    string     `bson:"category"`
	Service     string     `bson:"service"`
	Ciphertext  []byte     `bson:"ciphertext"`
	IV          []byte     `bson:"iv"`
	IsActive    bool       `bson:"is_active"`
	LastUsedAt  *time.Time `bson:"last_used_at,omitempty"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func toAPIKeyDocument(key *apikeyDomain.APIKey) apiKeyDocument {
	return apiKeyDocument{
		ID:          key.ID.String(),
		OwnerID:     key.OwnerID.String(),
		Name:        key.Name,
		Description: key.Description,
		Category:    string(key.Category),
		Service:     key.Service,
		Ciphertext:  key.Ciphertext,
		IV:          key.IV,
		IsActive:    key.IsActive,
		LastUsedAt:  key.LastUsedAt,
		CreatedAt:   key.CreatedAt,
		UpdatedAt:   key.UpdatedAt,
	}
}

func (d *apiKeyDocument) toDomain() (*apikeyDomain.APIKey, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse api key id")
	}
	ownerID, err := uuid.Parse(d.OwnerID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse owner id")
	}

	key := &apikeyDomain.APIKey{
		ID:          id,
		OwnerID:     ownerID,
		Name:        d.Name,
		Description: d.Description,
		Category:    apikeyDomain.Category(d.Category),
		Service:     d.Service,
		Ciphertext:  d.Ciphertext,
		IV:          d.IV,
		IsActive:    d.IsActive,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
	if d.LastUsedAt != nil {
		usedAt := d.LastUsedAt.UTC()
		key.LastUsedAt = &usedAt
	}
	return key, nil
}

// MongoAPIKeyRepository implements APIKey persistence for MongoDB.
type MongoAPIKeyRepository struct {
	collection *mongo.Collection
}

// NewMongoAPIKeyRepository creates a new MongoDB APIKey repository instance.
func NewMongoAPIKeyRepository(db *mongo.Database) *MongoAPIKeyRepository {
	return &MongoAPIKeyRepository{collection: db.Collection(APIKeysCollection)}
}

// APIKeyIndexes returns the indexes the repository relies on. The partial unique index is what
// keeps two active keys of one owner from sharing a name.
func APIKeyIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "owner_id", Value: 1}, {Key: "name", Value: 1}},
			Options: options.Index().
				SetName("api_keys_owner_active_name_idx").
				SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "is_active", Value: true}}),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "is_active", Value: 1}, {Key: "category", Value: 1}},
			Options: options.Index().SetName("api_keys_owner_category_idx"),
		},
		{
			Keys:    bson.D{{Key: "owner_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("api_keys_owner_created_idx"),
		},
	}
}

// EnsureIndexes creates the collection indexes. It is idempotent.
func (r *MongoAPIKeyRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.collection.Indexes().CreateMany(ctx, APIKeyIndexes()); err != nil {
		return apperrors.Wrap(err, "failed to create api key indexes")
	}
	return nil
}

func activeKeyFilter(ownerID, id uuid.UUID) bson.D {
	return bson.D{
		{Key: "_id", Value: id.String()},
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "is_active", Value: true},
	}
}

// listFilter builds the query for List. Search input is quoted so it matches literally.
func listFilter(ownerID uuid.UUID, filter apikeyDomain.ListFilter) bson.D {
	query := bson.D{
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "is_active", Value: true},
	}
	if filter.Category != "" {
		query = append(query, bson.E{Key: "category", Value: string(filter.Category)})
	}
	if filter.Search != "" {
		pattern := bson.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "name", Value: pattern}},
			bson.D{{Key: "description", Value: pattern}},
			bson.D{{Key: "service", Value: pattern}},
		}})
	}
	return query
}

// Create inserts a new API key.
func (r *MongoAPIKeyRepository) Create(ctx context.Context, key *apikeyDomain.APIKey) error {
	if _, err := r.collection.InsertOne(ctx, toAPIKeyDocument(key)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apikeyDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to create api key")
	}
	return nil
}

// GetActive retrieves an active key by id for its owner.
func (r *MongoAPIKeyRepository) GetActive(
	ctx context.Context,
	ownerID, id uuid.UUID,
) (*apikeyDomain.APIKey, error) {
	var doc apiKeyDocument
	err := r.collection.FindOne(ctx, activeKeyFilter(ownerID, id)).Decode(&doc)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, apikeyDomain.ErrAPIKeyNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get api key")
	}
	return doc.toDomain()
}

// ExistsActiveName reports whether the owner has another active key with this name.
func (r *MongoAPIKeyRepository) ExistsActiveName(
	ctx context.Context,
	ownerID uuid.UUID,
	name string,
	excludeID uuid.UUID,
) (bool, error) {
	filter := bson.D{
		{Key: "owner_id", Value: ownerID.String()},
		{Key: "name", Value: name},
		{Key: "is_active", Value: true},
		{Key: "_id", Value: bson.D{{Key: "$ne", Value: excludeID.String()}}},
	}

	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, apperrors.Wrap(err, "failed to check api key name")
	}
	return count > 0, nil
}

// List returns the owner's active keys ordered newest first.
func (r *MongoAPIKeyRepository) List(
	ctx context.Context,
	ownerID uuid.UUID,
	filter apikeyDomain.ListFilter,
) ([]*apikeyDomain.APIKey, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}})

	cursor, err := r.collection.Find(ctx, listFilter(ownerID, filter), opts)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list api keys")
	}

	var docs []apiKeyDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode api keys")
	}

	keys := make([]*apikeyDomain.APIKey, 0, len(docs))
	for i := range docs {
		key, err := docs[i].toDomain()
		if err != nil {
			return nil, err
		}
		keys = append(keys, key)
	}
	return keys, nil
}

// Update writes the key's metadata fields.
func (r *MongoAPIKeyRepository) Update(ctx context.Context, key *apikeyDomain.APIKey) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "name", Value: key.Name},
		{Key: "description", Value: key.Description},
		{Key: "category", Value: string(key.Category)},
		{Key: "service", Value: key.Service},
		{Key: "updated_at", Value: key.UpdatedAt},
	}}}

	result, err := r.collection.UpdateOne(ctx, activeKeyFilter(key.OwnerID, key.ID), update)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return apikeyDomain.ErrDuplicateName
		}
		return apperrors.Wrap(err, "failed to update api key")
	}
	return requireMatched(result)
}

// TouchLastUsed stamps last_used_at without changing updated_at.
func (r *MongoAPIKeyRepository) TouchLastUsed(
	ctx context.Context,
	ownerID, id uuid.UUID,
	usedAt time.Time,
) error {
	update := bson.D{{Key: "$set", Value: bson.D{{Key: "last_used_at", Value: usedAt}}}}

	result, err := r.collection.UpdateOne(ctx, activeKeyFilter(ownerID, id), update)
	if err != nil {
		return apperrors.Wrap(err, "failed to touch api key")
	}
	return requireMatched(result)
}

// Deactivate soft-deletes the key in a single conditional update.
func (r *MongoAPIKeyRepository) Deactivate(
	ctx context.Context,
	ownerID, id uuid.UUID,
	deletedAt time.Time,
) error {
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "is_active", Value: false},
		{Key: "updated_at", Value: deletedAt},
	}}}

	result, err := r.collection.UpdateOne(ctx, activeKeyFilter(ownerID, id), update)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete api key")
	}
	return requireMatched(result)
}

// categoryStatsPipeline groups an owner's active keys by category, largest group first.
func categoryStatsPipeline(ownerID uuid.UUID) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{
			{Key: "owner_id", Value: ownerID.String()},
			{Key: "is_active", Value: true},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$category"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
}

// CountByCategory groups the owner's active keys by category.
func (r *MongoAPIKeyRepository) CountByCategory(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]apikeyDomain.CategoryCount, error) {
	cursor, err := r.collection.Aggregate(ctx, categoryStatsPipeline(ownerID))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to count api keys")
	}

	var groups []struct {
		Category string `bson:"_id"`
		Count    int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, apperrors.Wrap(err, "failed to decode category counts")
	}

	counts := make([]apikeyDomain.CategoryCount, 0, len(groups))
	for _, group := range groups {
		counts = append(counts, apikeyDomain.CategoryCount{
			Category: apikeyDomain.Category(group.Category),
			Count:    group.Count,
		})
	}
	return counts, nil
}

func requireMatched(result *mongo.UpdateResult) error {
	if result.MatchedCount == 0 {
		return apikeyDomain.ErrAPIKeyNotFound
	}
	return nil
}
