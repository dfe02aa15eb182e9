package providerRepo

import (
	"fmt"

	"slotwise/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoProviderRepo) ensureIndexes() error {
	ctx, cancel := repository.WithIndexTimeout()
	defer cancel()

	indexModels := []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_id")},
		// One profile per user.
		{Keys: bson.D{{Key: "userId", Value: 1}}, Options: options.Index().SetUnique(true).SetName("unique_user")},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetName("username_idx")},
		{Keys: bson.D{{Key: "city", Value: 1}}, Options: options.Index().SetName("city_idx")},
		{Keys: bson.D{{Key: "createdAt", Value: 1}, {Key: "id", Value: 1}}, Options: options.Index().SetName("created_idx")},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create provider indexes: %w", err)
	}
	return nil
}
