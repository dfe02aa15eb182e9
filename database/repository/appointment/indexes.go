package appointmentRepo

import (
	"fmt"

	"slotwise/database/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoAppointmentRepo) ensureIndexes() error {
	ctx, cancel := repository.WithIndexTimeout()
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("appointment_id_unique"),
		},
		{
			Keys:    bson.D{{Key: "userId", Value: 1}, {Key: "appointmentDate", Value: -1}},
			Options: options.Index().SetName("appointment_user_date"),
		},
		{
			Keys:    bson.D{{Key: "providerId", Value: 1}, {Key: "appointmentDate", Value: -1}},
			Options: options.Index().SetName("appointment_provider_date"),
		},
		{
			Keys:    bson.D{{Key: "availabilityId", Value: 1}, {Key: "status", Value: 1}},
			Options: options.Index().SetName("appointment_slot_status"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}},
			Options: options.Index().SetName("appointment_status"),
		},
	}
	if _, err := r.coll.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("failed to create appointment indexes: %w", err)
	}
	return nil
}
