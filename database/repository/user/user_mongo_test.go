package userRepo_test

import (
	"context"
	"os"
	"testing"
	"time"

	userRepo "slotwise/database/repository/user"
	"slotwise/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func testRepo(t *testing.T) userRepo.UserRepository {
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
	return userRepo.NewMongoUserRepo(db)
}

func TestUpdate_LeavesTokenHashAlone(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Create(ctx, &models.User{ID: "u1", Username: "alice", Email: "alice@example.com", Role: models.RoleUser}))

	stale, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, repo.SetTokenHash(ctx, "u1", "fresh-hash"))

	stale.Username = "alicia"
	require.NoError(t, repo.Update(ctx, stale))

	got, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "alicia", got.Username)
	assert.Equal(t, "fresh-hash", got.TokenHash)
}
