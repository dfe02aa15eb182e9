package appointmentRepo

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

// MongoAppointmentRepo implements AppointmentRepository using MongoDB.
// Slot bookkeeping is written to the availabilities collection in the same transactions.
type MongoAppointmentRepo struct {
	client   *mongo.Client
	coll     *mongo.Collection
	slotColl *mongo.Collection
}

// NewMongoAppointmentRepo constructs a new MongoDB AppointmentRepository.
func NewMongoAppointmentRepo(db *mongo.Database) AppointmentRepository {
	repo := &MongoAppointmentRepo{
		client:   db.Client(),
		coll:     db.Collection("appointments"),
		slotColl: db.Collection("availabilities"),
	}
	if err := repo.ensureIndexes(); err != nil {
		zap.L().Error("failed to create appointment indexes", zap.Error(err))
	}
	return repo
}

var newestFirst = bson.D{{Key: "appointmentDate", Value: -1}, {Key: "id", Value: 1}}

var activeStatuses = bson.M{"$in": bson.A{models.StatusPending, models.StatusConfirmed}}

func (r *MongoAppointmentRepo) Book(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	appt.Status = models.StatusPending
	appt.CreatedAt = now
	appt.UpdatedAt = now

	err := repository.RunInTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		filter := bson.M{"id": appt.AvailabilityID, "providerId": appt.ProviderID, "booked": false}
		update := bson.M{
			"$set": bson.M{"booked": true, "appointmentId": appt.ID, "updatedAt": now},
			"$inc": bson.M{"version": 1},
		}
		res, err := r.slotColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to mark availability booked: %w", err)
		}
		if res.MatchedCount == 0 {
			return repository.ErrSlotUnavailable
		}
		if _, err := r.coll.InsertOne(sc, appt); err != nil {
			return fmt.Errorf("insert appointment failed: %w", err)
		}
		return nil
	})
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrSlotUnavailable), repository.IsTransientTxnError(err):
		return repository.ErrSlotUnavailable
	default:
		return fmt.Errorf("booking transaction failed: %w", err)
	}
}

func (r *MongoAppointmentRepo) GetByID(ctx context.Context, id string) (*models.Appointment, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	var appt models.Appointment
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&appt); err != nil {
		return nil, repository.MapFindError(err)
	}
	return &appt, nil
}

func (r *MongoAppointmentRepo) list(ctx context.Context, filter bson.M) ([]models.Appointment, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	appts, err := repository.FindAll[models.Appointment](ctx, r.coll, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve appointments: %w", err)
	}
	return appts, nil
}

func (r *MongoAppointmentRepo) page(ctx context.Context, filter bson.M, req models.PageRequest) ([]models.Appointment, int64, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	appts, err := repository.FindAll[models.Appointment](ctx, r.coll, filter, repository.PageOptions(req, newestFirst))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to retrieve appointments page: %w", err)
	}
	return appts, total, nil
}

func (r *MongoAppointmentRepo) ListAll(ctx context.Context) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{})
}

func (r *MongoAppointmentRepo) PageAll(ctx context.Context, req models.PageRequest) ([]models.Appointment, int64, error) {
	return r.page(ctx, bson.M{}, req)
}

func (r *MongoAppointmentRepo) ListByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"userId": userID})
}

func (r *MongoAppointmentRepo) PageByUser(ctx context.Context, userID string, req models.PageRequest) ([]models.Appointment, int64, error) {
	return r.page(ctx, bson.M{"userId": userID}, req)
}

func (r *MongoAppointmentRepo) ListByProvider(ctx context.Context, providerID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"providerId": providerID})
}

func (r *MongoAppointmentRepo) PageByProvider(ctx context.Context, providerID string, req models.PageRequest) ([]models.Appointment, int64, error) {
	return r.page(ctx, bson.M{"providerId": providerID}, req)
}

func (r *MongoAppointmentRepo) ListActiveByUser(ctx context.Context, userID string) ([]models.Appointment, error) {
	return r.list(ctx, bson.M{"userId": userID, "status": activeStatuses})
}

func (r *MongoAppointmentRepo) exists(ctx context.Context, filter bson.M) (bool, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n > 0, nil
}

func (r *MongoAppointmentRepo) HasActiveForProvider(ctx context.Context, providerID string) (bool, error) {
	return r.exists(ctx, bson.M{"providerId": providerID, "status": activeStatuses})
}

func (r *MongoAppointmentRepo) HasActiveForAvailability(ctx context.Context, availabilityID string) (bool, error) {
	return r.exists(ctx, bson.M{"availabilityId": availabilityID, "status": activeStatuses})
}

// releaseSlot frees the slot held by appt, if it still is.
func (r *MongoAppointmentRepo) releaseSlot(sc mongo.SessionContext, appt *models.Appointment, now time.Time) error {
	filter := bson.M{"id": appt.AvailabilityID, "appointmentId": appt.ID}
	update := bson.M{
		"$set":   bson.M{"booked": false, "updatedAt": now},
		"$unset": bson.M{"appointmentId": ""},
		"$inc":   bson.M{"version": 1},
	}
	if _, err := r.slotColl.UpdateOne(sc, filter, update); err != nil {
		return fmt.Errorf("failed to release availability %s: %w", appt.AvailabilityID, err)
	}
	return nil
}

func (r *MongoAppointmentRepo) TransitionStatus(ctx context.Context, appt *models.Appointment, next models.AppointmentStatus) (*models.Appointment, error) {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	now := time.Now().UTC()
	filter := bson.M{"id": appt.ID, "status": appt.Status}
	update := bson.M{"$set": bson.M{"status": next, "updatedAt": now}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	apply := func(ctx context.Context) (*models.Appointment, error) {
		var updated models.Appointment
		err := r.coll.FindOneAndUpdate(ctx, filter, update, opts).Decode(&updated)
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrStatusChanged
		}
		if err != nil {
			return nil, fmt.Errorf("failed to update status of appointment %s: %w", appt.ID, err)
		}
		return &updated, nil
	}

	if next != models.StatusCancelled {
		return apply(ctx)
	}

	var updated *models.Appointment
	err := repository.RunInTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		var err error
		if updated, err = apply(sc); err != nil {
			return err
		}
		return r.releaseSlot(sc, appt, now)
	})
	switch {
	case err == nil:
		return updated, nil
	case errors.Is(err, repository.ErrStatusChanged), repository.IsTransientTxnError(err):
		return nil, repository.ErrStatusChanged
	default:
		return nil, fmt.Errorf("cancel transaction failed: %w", err)
	}
}

func (r *MongoAppointmentRepo) Delete(ctx context.Context, appt *models.Appointment) error {
	ctx, cancel := repository.WithWriteTimeout(ctx)
	defer cancel()

	err := repository.RunInTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		res, err := r.coll.DeleteOne(sc, bson.M{"id": appt.ID})
		if err != nil {
			return fmt.Errorf("failed to delete appointment %s: %w", appt.ID, err)
		}
		if res.DeletedCount == 0 {
			return repository.ErrNotFound
		}
		if !appt.Status.Active() {
			return nil
		}
		return r.releaseSlot(sc, appt, time.Now().UTC())
	})
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("delete transaction failed: %w", err)
	}
	return err
}

func (r *MongoAppointmentRepo) Count(ctx context.Context) (int64, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count appointments: %w", err)
	}
	return n, nil
}

func (r *MongoAppointmentRepo) CountByStatus(ctx context.Context, status models.AppointmentStatus) (int64, error) {
	ctx, cancel := repository.WithReadTimeout(ctx)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"status": status})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s appointments: %w", status, err)
	}
	return n, nil
}
