package availabilityRepo

import (
	"context"
	"time"

	"slotwise/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type AvailabilityRepository interface {
	// Create inserts one slot; a taken (providerId, availableDate) yields repository.ErrDuplicate.
	Create(ctx context.Context, slot *models.Availability) error
	// CreateMany inserts slots, skipping starts already taken, and returns the inserted ones.
	CreateMany(ctx context.Context, slots []models.Availability) ([]models.Availability, error)
	GetByID(ctx context.Context, id string) (*models.Availability, error)
	GetAll(ctx context.Context) ([]models.Availability, error)
	// ListByProvider returns a provider's slots by date; onlyFree restricts to unbooked slots starting at or after from.
	ListByProvider(ctx context.Context, providerID string, onlyFree bool, from time.Time) ([]models.Availability, error)
	// ListFreeByProviders groups the free future slots of many providers by provider id.
	ListFreeByProviders(ctx context.Context, providerIDs []string, from time.Time) (map[string][]models.Availability, error)
	// Reschedule moves a free slot; it yields repository.ErrSlotUnavailable if the slot was booked or changed since version.
	Reschedule(ctx context.Context, id, providerID string, start time.Time, durationMinutes, version int) (*models.Availability, error)
	// Hold marks a free slot booked without an appointment.
	Hold(ctx context.Context, id, providerID string) (*models.Availability, error)
	// DeleteFree removes a slot only while it is unbooked.
	DeleteFree(ctx context.Context, id, providerID string) error
	// DeleteByProvider removes every slot of a provider, held or booked ones included.
	DeleteByProvider(ctx context.Context, providerID string) (int64, error)
	CountBooked(ctx context.Context, providerID string) (int64, error)
}

type mongoAvailabilityRepo struct {
	coll *mongo.Collection
}
