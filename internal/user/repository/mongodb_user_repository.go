package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	apperrors "github.com/allisson/apivault/internal/errors"
	"github.com/allisson/apivault/internal/user/domain"
)

// UsersCollection is the MongoDB collection holding user accounts.
const UsersCollection = "users"

type userDocument struct {
	ID        string    `bson:"_id"`
	Name      string    `bson:"name"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	IsActive  bool      `bson:"is_active"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func toUserDocument(user *domain.User) userDocument {
	return userDocument{
		ID:        user.ID.String(),
		Name:      user.Name,
		Email:     user.Email,
		Password:  user.Password,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

func (d *userDocument) toDomain() (*domain.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to parse user id")
	}
	return &domain.User{
		ID:        id,
		Name:      d.Name,
		Email:     d.Email,
		Password:  d.Password,
		IsActive:  d.IsActive,
		CreatedAt: d.CreatedAt.UTC(),
		UpdatedAt: d.UpdatedAt.UTC(),
	}, nil
}

// MongoUserRepository handles user persistence for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection(UsersCollection)}
}

// UserIndexes returns the indexes the repository relies on.
func UserIndexes() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("users_email_idx").SetUnique(true),
		},
	}
}

// EnsureIndexes creates the collection indexes. It is idempotent.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	if _, err := r.collection.Indexes().CreateMany(ctx, UserIndexes()); err != nil {
		return apperrors.Wrap(err, "failed to create user indexes")
	}
	return nil
}

// Create inserts a new user
func (r *MongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if _, err := r.collection.InsertOne(ctx, toUserDocument(user)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserAlreadyExists
		}
		return apperrors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByID retrieves a user by ID
func (r *MongoUserRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "_id", Value: id.String()}}, "failed to get user by id")
}

// GetByEmail retrieves a user by email
func (r *MongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.D{{Key: "email", Value: email}}, "failed to get user by email")
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.D, msg string) (*domain.User, error) {
	var doc userDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, msg)
	}
	return doc.toDomain()
}
