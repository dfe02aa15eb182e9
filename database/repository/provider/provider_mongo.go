package providerRepo

import (
	"context"
	"fmt"
	"time"

	"slotwise/database/repository"
	"slotwise/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a new instance of ProviderRepository using MongoDB.
func NewMongoProviderRepo(db *mongo.Database) ProviderRepository {
	repo := &MongoProviderRepo{coll: db.Collection("providers")}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create provider indexes", zap.Error(err))
	}
	return repo
}

var defaultSort = bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}}

func (r *MongoProviderRepo) findOne(ctx context.Context, filter bson.M) (*models.Provider, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	var p models.Provider
	if err := r.coll.FindOne(ctx, filter).Decode(&p); err != nil {
		return nil, repository.MapFindError(err)
	}
	return &p, nil
}

func (r *MongoProviderRepo) find(ctx context.Context, filter bson.M) ([]models.Provider, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	providers, err := repository.FindAll[models.Provider](ctx, r.coll, filter, options.Find().SetSort(defaultSort))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve providers: %w", err)
	}
	return providers, nil
}

func (r *MongoProviderRepo) findPage(ctx context.Context, filter bson.M, req models.PageRequest) ([]models.Provider, int64, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count providers: %w", err)
	}
	providers, err := repository.FindAll[models.Provider](ctx, r.coll, filter, repository.PageOptions(req, defaultSort))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve providers page: %w", err)
	}
	return providers, total, nil
}

// Create inserts a new provider document.
func (r *MongoProviderRepo) Create(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	provider.CreatedAt = now
	provider.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, provider); err != nil {
		if err = repository.MapWriteError(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to create provider: %w", err)
	}
	return nil
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoProviderRepo) GetByUserID(ctx context.Context, userID string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"userId": userID})
}

func (r *MongoProviderRepo) GetByUsername(ctx context.Context, username string) (*models.Provider, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoProviderRepo) GetAll(ctx context.Context) ([]models.Provider, error) {
	return r.find(ctx, bson.M{})
}

func (r *MongoProviderRepo) GetPage(ctx context.Context, req models.PageRequest) ([]models.Provider, int64, error) {
	return r.findPage(ctx, bson.M{}, req)
}

// Update replaces the provider document, keeping its owner and creation time.
func (r *MongoProviderRepo) Update(ctx context.Context, provider *models.Provider) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	provider.UpdatedAt = time.Now().UTC()
	result, err := r.coll.ReplaceOne(ctx, bson.M{"id": provider.ID, "userId": provider.UserID}, provider)
	if err != nil {
		return fmt.Errorf("failed to update provider with id %s: %w", provider.ID, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoProviderRepo) SyncUsername(ctx context.Context, userID, username string) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"username": username, "updatedAt": time.Now().UTC()}}
	if _, err := r.coll.UpdateOne(ctx, bson.M{"userId": userID}, update); err != nil {
		return fmt.Errorf("failed to sync username for user %s: %w", userID, err)
	}
	return nil
}

func (r *MongoProviderRepo) SetProfileImage(ctx context.Context, id, url string) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	update := bson.M{"$set": bson.M{"profileImage": url, "updatedAt": time.Now().UTC()}}
	result, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to set profile image for provider %s: %w", id, err)
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a provider document by its ID.
func (r *MongoProviderRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	result, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete provider with id %s: %w", id, err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *MongoProviderRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count providers: %w", err)
	}
	return n, nil
}
