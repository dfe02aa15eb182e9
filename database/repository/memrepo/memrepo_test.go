package memrepo

import (
	"context"
	"testing"

	appointmentRepo "slotwise/database/repository/appointment"
	availabilityRepo "slotwise/database/repository/availability"
	providerRepo "slotwise/database/repository/provider"
	userRepo "slotwise/database/repository/user"
	"slotwise/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ userRepo.UserRepository                 = (*Users)(nil)
	_ providerRepo.ProviderRepository         = (*Providers)(nil)
	_ availabilityRepo.AvailabilityRepository = (*Slots)(nil)
	_ appointmentRepo.AppointmentRepository   = (*Appointments)(nil)
)

func TestUsersUpdate_KeepsTokenHash(t *testing.T) {
	store := NewStore()
	users := store.Users()
	ctx := context.Background()
	require.NoError(t, users.Create(ctx, &models.User{ID: "u1", Username: "alice", Email: "alice@example.com"}))

	stale, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, users.SetTokenHash(ctx, "u1", "fresh-hash"))

	stale.Username = "alicia"
	require.NoError(t, users.Update(ctx, stale))

	got, err := users.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.Equal(t, "fresh-hash", got.TokenHash)
}
