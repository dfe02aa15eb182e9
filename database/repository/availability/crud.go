package availabilityRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"slotwise/database/repository"
	"slotwise/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// NewMongoAvailabilityRepo constructs a new MongoDB AvailabilityRepository.
func NewMongoAvailabilityRepo(db *mongo.Database) AvailabilityRepository {
	repo := &mongoAvailabilityRepo{coll: db.Collection("availabilities")}
	if err := repo.EnsureIndexes(); err != nil {
		zap.L().Error("failed to create availability indexes", zap.Error(err))
	}
	return repo
}

var byStart = bson.D{{Key: "availableDate", Value: 1}, {Key: "id", Value: 1}}

func prepare(slot *models.Availability, now time.Time) {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.DurationMinutes <= 0 {
		slot.DurationMinutes = models.DefaultSlotMinutes
	}
	slot.AvailableDate = slot.AvailableDate.UTC().Truncate(time.Millisecond)
	slot.CreatedAt = now
	slot.UpdatedAt = now
}

func (r *mongoAvailabilityRepo) Create(ctx context.Context, slot *models.Availability) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	prepare(slot, time.Now().UTC())
	if _, err := r.coll.InsertOne(ctx, slot); err != nil {
		if err = repository.MapWriteError(err); err == repository.ErrDuplicate {
			return err
		}
		return fmt.Errorf("failed to create availability: %w", err)
	}
	return nil
}

func (r *mongoAvailabilityRepo) CreateMany(ctx context.Context, slots []models.Availability) ([]models.Availability, error) {
	if len(slots) == 0 {
		return []models.Availability{}, nil
	}
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	docs := make([]interface{}, len(slots))
	for i := range slots {
		prepare(&slots[i], now)
		docs[i] = slots[i]
	}

	_, err := r.coll.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	if err == nil {
		return slots, nil
	}

	// Unordered inserts keep going past duplicates; report only what landed.
	var bulkErr mongo.BulkWriteException
	if !errors.As(err, &bulkErr) || bulkErr.WriteConcernError != nil {
		return nil, fmt.Errorf("failed to create availabilities: %w", err)
	}
	failed := make(map[int]bool, len(bulkErr.WriteErrors))
	for _, we := range bulkErr.WriteErrors {
		if !mongo.IsDuplicateKeyError(we) {
			return nil, fmt.Errorf("failed to create availabilities: %w", err)
		}
		failed[we.Index] = true
	}
	created := make([]models.Availability, 0, len(slots)-len(failed))
	for i, s := range slots {
		if !failed[i] {
			created = append(created, s)
		}
	}
	return created, nil
}

func (r *mongoAvailabilityRepo) GetByID(ctx context.Context, id string) (*models.Availability, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	var slot models.Availability
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&slot); err != nil {
		return nil, repository.MapFindError(err)
	}
	return &slot, nil
}

func (r *mongoAvailabilityRepo) GetAll(ctx context.Context) ([]models.Availability, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	slots, err := repository.FindAll[models.Availability](ctx, r.coll, bson.M{}, options.Find().SetSort(byStart))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve availabilities: %w", err)
	}
	return slots, nil
}

func (r *mongoAvailabilityRepo) ListByProvider(ctx context.Context, providerID string, onlyFree bool, from time.Time) ([]models.Availability, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	filter := bson.M{"providerId": providerID}
	if onlyFree {
		filter["booked"] = false
		filter["availableDate"] = bson.M{"$gte": from.UTC()}
	}
	slots, err := repository.FindAll[models.Availability](ctx, r.coll, filter, options.Find().SetSort(byStart))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve availabilities for provider %s: %w", providerID, err)
	}
	return slots, nil
}

func (r *mongoAvailabilityRepo) ListFreeByProviders(ctx context.Context, providerIDs []string, from time.Time) (map[string][]models.Availability, error) {
	grouped := make(map[string][]models.Availability, len(providerIDs))
	if len(providerIDs) == 0 {
		return grouped, nil
	}
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	filter := bson.M{
		"providerId":    bson.M{"$in": providerIDs},
		"booked":        false,
		"availableDate": bson.M{"$gte": from.UTC()},
	}
	slots, err := repository.FindAll[models.Availability](ctx, r.coll, filter, options.Find().SetSort(byStart))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve free availabilities: %w", err)
	}
	for _, s := range slots {
		grouped[s.ProviderID] = append(grouped[s.ProviderID], s)
	}
	return grouped, nil
}

// updateFree applies update to a slot that is still unbooked and matches extra.
func (r *mongoAvailabilityRepo) updateFree(ctx context.Context, id, providerID string, extra bson.M, update bson.M) (*models.Availability, error) {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	filter := bson.M{"id": id, "providerId": providerID, "booked": false}
	for k, v := range extra {
		filter[k] = v
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var slot models.Availability
	err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&slot)
	switch {
	case err == nil:
		return &slot, nil
	case errors.Is(err, mongo.ErrNoDocuments):
		return nil, repository.ErrSlotUnavailable
	case mongo.IsDuplicateKeyError(err):
		return nil, repository.ErrDuplicate
	default:
		return nil, fmt.Errorf("failed to update availability %s: %w", id, err)
	}
}

func (r *mongoAvailabilityRepo) Reschedule(ctx context.Context, id, providerID string, start time.Time, durationMinutes, version int) (*models.Availability, error) {
	if durationMinutes <= 0 {
		durationMinutes = models.DefaultSlotMinutes
	}
	update := bson.M{
		"$set": bson.M{
			"availableDate":   start.UTC().Truncate(time.Millisecond),
			"durationMinutes": durationMinutes,
			"updatedAt":       time.Now().UTC(),
		},
		"$inc": bson.M{"version": 1},
	}
	return r.updateFree(ctx, id, providerID, bson.M{"version": version}, update)
}

func (r *mongoAvailabilityRepo) Hold(ctx context.Context, id, providerID string) (*models.Availability, error) {
	update := bson.M{
		"$set": bson.M{"booked": true, "updatedAt": time.Now().UTC()},
		"$inc": bson.M{"version": 1},
	}
	return r.updateFree(ctx, id, providerID, nil, update)
}

func (r *mongoAvailabilityRepo) DeleteFree(ctx context.Context, id, providerID string) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id, "providerId": providerID, "booked": false})
	if err != nil {
		return fmt.Errorf("failed to delete availability %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return repository.ErrSlotUnavailable
	}
	return nil
}

func (r *mongoAvailabilityRepo) DeleteByProvider(ctx context.Context, providerID string) (int64, error) {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"providerId": providerID})
	if err != nil {
		return 0, fmt.Errorf("failed to delete availabilities of provider %s: %w", providerID, err)
	}
	return res.DeletedCount, nil
}

func (r *mongoAvailabilityRepo) CountBooked(ctx context.Context, providerID string) (int64, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"providerId": providerID, "booked": true})
	if err != nil {
		return 0, fmt.Errorf("failed to count booked availabilities: %w", err)
	}
	return n, nil
}
