package mongo

import (
	"alcyxob/workout-buddy/internal/domain"
	"alcyxob/workout-buddy/internal/repository"
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	userCollectionName = "users"

	usernameIndexName = "username_1"
	emailIndexName    = "email_1"
)

// E11000 messages name the violated index: "... index: email_1 dup key: { ... }"
var dupIndexPattern = regexp.MustCompile(`index: (\S+) dup key`)

// mongoUserRepository implements the repository.UserRepository interface using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user. Emails are stored lower-cased.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	if user.Username == "" || user.Email == "" || user.PasswordHash == "" {
		return primitive.NilObjectID, errors.New("user username, email and password hash are required")
	}

	user.ID = primitive.NewObjectID()
	user.Email = normalizeEmail(user.Email)
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Profile.Goals == nil {
		user.Profile.Goals = []domain.Goal{}
	}

	result, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, &repository.DuplicateKeyError{Field: duplicateField(err)}
		}
		return primitive.NilObjectID, err
	}

	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return insertedID, nil
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"email": normalizeEmail(email)})
}

func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *mongoUserRepository) GetByLogin(ctx context.Context, login string) (*domain.User, error) {
	filter := bson.M{"$or": bson.A{
		bson.M{"email": normalizeEmail(login)},
		bson.M{"username": strings.TrimSpace(login)},
	}}
	return r.findOne(ctx, filter)
}

// UpdateProfile replaces the profile sub-document and returns the updated user.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile domain.Profile) (*domain.User, error) {
	if profile.Goals == nil {
		profile.Goals = []domain.Goal{}
	}
	update := bson.M{
		"$set": bson.M{
			"profile":   profile,
			"updatedAt": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// duplicateField maps the unique index named in the server's write errors
// onto the user field it guards.
func duplicateField(err error) string {
	var we mongo.WriteException
	if !errors.As(err, &we) {
		return "unknown"
	}
	for _, writeErr := range we.WriteErrors {
		m := dupIndexPattern.FindStringSubmatch(writeErr.Message)
		if m == nil {
			continue
		}
		switch m[1] {
		case usernameIndexName:
			return "username"
		case emailIndexName:
			return "email"
		}
	}
	return "unknown"
}

// EnsureUserIndexes creates the unique username and email indexes.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName(emailIndexName).SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName(usernameIndexName).SetUnique(true),
		},
	}

	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
