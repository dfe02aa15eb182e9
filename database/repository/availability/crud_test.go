package availabilityRepo_test

import (
	"context"
	"os"
	"testing"
	"time"

	"slotwise/database/repository"
	availabilityRepo "slotwise/database/repository/availability"
	"slotwise/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testRepo(t *testing.T) availabilityRepo.AvailabilityRepository {
	t.Helper()
	url := os.Getenv("SLOTWISE_TEST_MONGO_URL")
	if url == "" {
		t.Skip("SLOTWISE_TEST_MONGO_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(url))
	require.NoError(t, err)
	db := client.Database("slotwise_test_" + uuid.New().String()[:8])
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = client.Disconnect(context.Background())
	})
	return availabilityRepo.NewMongoAvailabilityRepo(db)
}

func TestCreate_DuplicateStartRejected(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Minute)

	require.NoError(t, repo.Create(ctx, &models.Availability{ProviderID: "p1", AvailableDate: start}))
	err := repo.Create(ctx, &models.Availability{ProviderID: "p1", AvailableDate: start})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	// Another provider may use the same start.
	assert.NoError(t, repo.Create(ctx, &models.Availability{ProviderID: "p2", AvailableDate: start}))
}

func TestCreateMany_SkipsTakenStarts(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	start := time.Now().Add(24 * time.Hour).Truncate(time.Hour)

	require.NoError(t, repo.Create(ctx, &models.Availability{ProviderID: "p1", AvailableDate: start.Add(30 * time.Minute)}))

	batch := make([]models.Availability, 0, 3)
	for i := 0; i < 3; i++ {
		batch = append(batch, models.Availability{ProviderID: "p1", AvailableDate: start.Add(time.Duration(i*30) * time.Minute)})
	}
	created, err := repo.CreateMany(ctx, batch)
	require.NoError(t, err)
	assert.Len(t, created, 2)

	all, err := repo.ListByProvider(ctx, "p1", false, time.Time{})
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestHoldAndDeleteFree(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	slot := &models.Availability{ProviderID: "p1", AvailableDate: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, slot))

	held, err := repo.Hold(ctx, slot.ID, "p1")
	require.NoError(t, err)
	assert.True(t, held.Booked)
	assert.Equal(t, 1, held.Version)

	_, err = repo.Hold(ctx, slot.ID, "p1")
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
	assert.ErrorIs(t, repo.DeleteFree(ctx, slot.ID, "p1"), repository.ErrSlotUnavailable)

	free, err := repo.ListByProvider(ctx, "p1", true, time.Now())
	require.NoError(t, err)
	assert.Empty(t, free)
}

func TestReschedule_RequiresCurrentVersion(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	slot := &models.Availability{ProviderID: "p1", AvailableDate: time.Now().Add(time.Hour)}
	require.NoError(t, repo.Create(ctx, slot))

	moved, err := repo.Reschedule(ctx, slot.ID, "p1", slot.AvailableDate.Add(time.Hour), 45, slot.Version)
	require.NoError(t, err)
	assert.Equal(t, 45, moved.DurationMinutes)

	_, err = repo.Reschedule(ctx, slot.ID, "p1", slot.AvailableDate.Add(2*time.Hour), 45, slot.Version)
	assert.ErrorIs(t, err, repository.ErrSlotUnavailable)
}

func TestDeleteByProvider_RemovesHeldSlots(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	free := &models.Availability{ProviderID: "p1", AvailableDate: time.Now().Add(time.Hour)}
	held := &models.Availability{ProviderID: "p1", AvailableDate: time.Now().Add(2 * time.Hour)}
	other := &models.Availability{ProviderID: "p2", AvailableDate: time.Now().Add(time.Hour)}
	for _, s := range []*models.Availability{free, held, other} {
		require.NoError(t, repo.Create(ctx, s))
	}
	_, err := repo.Hold(ctx, held.ID, "p1")
	require.NoError(t, err)

	n, err := repo.DeleteByProvider(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	left, err := repo.ListByProvider(ctx, "p1", false, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, left)
	_, err = repo.GetByID(ctx, other.ID)
	assert.NoError(t, err)
}
