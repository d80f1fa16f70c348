package mongo

import (
	"context"
	"errors"
	"time"

	"fitweek/fitness-tracker/internal/domain"
	"fitweek/fitness-tracker/internal/repository"

	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const userCollectionName = "users"

// mongoUserRepository implements repository.UserRepository using MongoDB.
type mongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new instance of mongoUserRepository.
// It expects a connected *mongo.Database instance.
func NewMongoUserRepository(db *mongo.Database) repository.UserRepository {
	return &mongoUserRepository{
		collection: db.Collection(userCollectionName),
	}
}

// Create inserts a new user aggregate.
func (r *mongoUserRepository) Create(ctx context.Context, user *domain.User) error {
	if user.Username == "" {
		return errors.New("username is required")
	}

	user.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Routines == nil {
		user.Routines = []domain.Routine{}
	}
	if user.Completions == nil {
		user.Completions = []domain.CompletionRecord{}
	}
	if user.Progress == nil {
		user.Progress = []domain.ProgressEntry{}
	}

	_, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		// The unique index on username turns a registration race into a
		// duplicate key error.
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicateKey
		}
		return err
	}
	return nil
}

// GetByUsername retrieves the aggregate for one user.
func (r *mongoUserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	filter := bson.M{"username": username}

	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// Save replaces the whole user document.
func (r *mongoUserRepository) Save(ctx context.Context, user *domain.User) error {
	user.UpdatedAt = time.Now().UTC()
	filter := bson.M{"username": user.Username}

	result, err := r.collection.ReplaceOne(ctx, filter, user)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// setField atomically $sets one top-level field of the user document.
func (r *mongoUserRepository) setField(ctx context.Context, username string, fields bson.M) error {
	fields["updatedAt"] = time.Now().UTC()
	filter := bson.M{"username": username}
	update := bson.M{"$set": fields}

	result, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// UpdateRoutines writes the routine collection and the current-routine
// pointer together: deleting the current routine must clear the pointer in
// the same write.
func (r *mongoUserRepository) UpdateRoutines(ctx context.Context, username string, routines []domain.Routine, currentRoutineID string) error {
	if routines == nil {
		routines = []domain.Routine{}
	}
	return r.setField(ctx, username, bson.M{
		"routines":         routines,
		"currentRoutineId": currentRoutineID,
	})
}

// UpdateCurrentRoutine writes only the current-routine pointer.
func (r *mongoUserRepository) UpdateCurrentRoutine(ctx context.Context, username string, currentRoutineID string) error {
	return r.setField(ctx, username, bson.M{"currentRoutineId": currentRoutineID})
}

// UpdateCompletions writes the completion ledger.
func (r *mongoUserRepository) UpdateCompletions(ctx context.Context, username string, completions []domain.CompletionRecord) error {
	if completions == nil {
		completions = []domain.CompletionRecord{}
	}
	return r.setField(ctx, username, bson.M{"completions": completions})
}

// UpdateProgress writes the progress ledger.
func (r *mongoUserRepository) UpdateProgress(ctx context.Context, username string, progress []domain.ProgressEntry) error {
	if progress == nil {
		progress = []domain.ProgressEntry{}
	}
	return r.setField(ctx, username, bson.M{"progress": progress})
}

// UpdateProfile writes the profile fields.
func (r *mongoUserRepository) UpdateProfile(ctx context.Context, username string, profile domain.Profile) error {
	return r.setField(ctx, username, bson.M{"profile": profile})
}

// EnsureUserIndexes creates necessary indexes for the users collection.
// Call this once during application startup.
func EnsureUserIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := collection.Indexes().CreateMany(ctx, indexes)
	if err != nil {
		// Not fatal: the unique check degrades to the pre-insert lookup in
		// the auth service.
		log.Warn().Err(err).Str("collection", collection.Name()).Msg("failed to create indexes")
	}
}
