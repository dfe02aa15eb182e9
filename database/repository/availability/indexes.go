package availabilityRepo

import (
	"fmt"

	"slotwise/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the necessary indexes on the availabilities collection.
func (r *mongoAvailabilityRepo) EnsureIndexes() error {
	ctx, cancel := repository.WithIndexTimeout()
	defer cancel()

	indexModels := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("unique_id"),
		},
		// A provider cannot publish two slots with the same start.
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "availableDate", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("provider_start_unique"),
		},
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "booked", Value: 1}, {Key: "availableDate", Value: 1}},
			Options: options.Index().SetName("provider_booked_start_idx"),
		},
	}

	if _, err := r.coll.Indexes().CreateMany(ctx, indexModels); err != nil {
		return fmt.Errorf("failed to create availability indexes: %w", err)
	}
	return nil
}
