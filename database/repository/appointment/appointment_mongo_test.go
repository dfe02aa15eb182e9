package appointmentRepo_test

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"slotwise/database/repository"
	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// testDB connects to the replica set named by SLOTWISE_TEST_MONGO_URL.
func testDB(t *testing.T) *mongo.Database {
	t.Helper()
	url := os.Getenv("SLOTWISE_TEST_MONGO_URL")
	if url == "" {
		t.Skip("SLOTWISE_TEST_MONGO_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	require.NoError(t, err)
	require.NoError(t, client.Ping(ctx, nil))

	db := client.Database("slotwise_test_" + uuid.New().String()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return db
}

func seedSlot(t *testing.T, slots availabilityRepo.AvailabilityRepository, providerID string) *models.Availability {
	t.Helper()
	slot := &models.Availability{
		ProviderID:    providerID,
		AvailableDate: time.Now().Add(48 * time.Hour).Truncate(time.Minute),
	}
	require.NoError(t, slots.Create(context.Background(), slot))
	return slot
}

func TestBook_SecondBookingConflicts(t *testing.T) {
	db := testDB(t)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)
	ctx := context.Background()

	slot := seedSlot(t, slots, "p1")
	first := &models.Appointment{UserID: "u1", ProviderID: "p1", AvailabilityID: slot.ID, AppointmentDate: slot.AvailableDate}
	require.NoError(t, appts.Book(ctx, first))
	assert.Equal(t, models.StatusPending, first.Status)

	stored, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.True(t, stored.Booked)
	assert.Equal(t, first.ID, stored.AppointmentID)

	second := &models.Appointment{UserID: "u2", ProviderID: "p1", AvailabilityID: slot.ID, AppointmentDate: slot.AvailableDate}
	assert.ErrorIs(t, appts.Book(ctx, second), repository.ErrSlotUnavailable)
}

func TestBook_WrongProviderIsUnavailable(t *testing.T) {
	db := testDB(t)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)

	slot := seedSlot(t, slots, "p1")
	appt := &models.Appointment{UserID: "u1", ProviderID: "p2", AvailabilityID: slot.ID}
	assert.ErrorIs(t, appts.Book(context.Background(), appt), repository.ErrSlotUnavailable)
}

func TestBook_ConcurrentBookingsYieldOneSuccess(t *testing.T) {
	db := testDB(t)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)

	slot := seedSlot(t, slots, "p1")

	const workers = 10
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			appt := &models.Appointment{
				UserID:          uuid.New().String(),
				ProviderID:      "p1",
				AvailabilityID:  slot.ID,
				AppointmentDate: slot.AvailableDate,
			}
			err := appts.Book(context.Background(), appt)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				successes++
			case err == repository.ErrSlotUnavailable:
				conflicts++
			default:
				t.Errorf("worker %d: unexpected error %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	all, err := appts.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestTransitionStatus_CancelReleasesSlot(t *testing.T) {
	db := testDB(t)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)
	ctx := context.Background()

	slot := seedSlot(t, slots, "p1")
	appt := &models.Appointment{UserID: "u1", ProviderID: "p1", AvailabilityID: slot.ID}
	require.NoError(t, appts.Book(ctx, appt))

	cancelled, err := appts.TransitionStatus(ctx, appt, models.StatusCancelled)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	freed, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, freed.Booked)
	assert.Empty(t, freed.AppointmentID)

	again := &models.Appointment{UserID: "u2", ProviderID: "p1", AvailabilityID: slot.ID}
	assert.NoError(t, appts.Book(ctx, again))
}

func TestTransitionStatus_StaleStatusIsRejected(t *testing.T) {
	db := testDB(t)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)
	ctx := context.Background()

	slot := seedSlot(t, slots, "p1")
	appt := &models.Appointment{UserID: "u1", ProviderID: "p1", AvailabilityID: slot.ID}
	require.NoError(t, appts.Book(ctx, appt))

	_, err := appts.TransitionStatus(ctx, appt, models.StatusConfirmed)
	require.NoError(t, err)

	// appt still says PENDING.
	_, err = appts.TransitionStatus(ctx, appt, models.StatusCancelled)
	assert.ErrorIs(t, err, repository.ErrStatusChanged)
}

func TestDelete_ActiveAppointmentFreesSlot(t *testing.T) {
	db := testDB(t)
	slots := availabilityRepo.NewMongoAvailabilityRepo(db)
	appts := appointmentRepo.NewMongoAppointmentRepo(db)
	ctx := context.Background()

	slot := seedSlot(t, slots, "p1")
	appt := &models.Appointment{UserID: "u1", ProviderID: "p1", AvailabilityID: slot.ID}
	require.NoError(t, appts.Book(ctx, appt))

	require.NoError(t, appts.Delete(ctx, appt))
	_, err := appts.GetByID(ctx, appt.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)

	freed, err := slots.GetByID(ctx, slot.ID)
	require.NoError(t, err)
	assert.False(t, freed.Booked)
}
