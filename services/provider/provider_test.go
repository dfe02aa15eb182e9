package provider

import (
	"context"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"slotwise/database/repository/memrepo"
	"slotwise/models"
	"slotwise/services/storage"
	"slotwise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeImages struct {
	publicID string
	body     string
}

func (f *fakeImages) UploadImage(_ context.Context, r io.Reader, publicID string) (string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	f.publicID, f.body = publicID, string(b)
	return "https://img.example.com/" + publicID, nil
}

var (
	owner    = models.Actor{UserID: "u-owner", Username: "salon", Role: models.RoleProvider}
	stranger = models.Actor{UserID: "u-other", Username: "other", Role: models.RoleProvider}
)

func newService(t *testing.T, images storage.ImageStorage) (*DefaultProviderService, *memrepo.Store) {
	t.Helper()
	store := memrepo.NewStore()
	for _, a := range []models.Actor{owner, stranger} {
		require.NoError(t, store.Users().Create(context.Background(), &models.User{
			ID: a.UserID, Username: a.Username, Email: a.Username + "@example.com", Role: a.Role,
		}))
	}
	svc, err := NewDefaultProviderService(store.Providers(), store.Users(), store.Availabilities(), store.Appointments(), images)
	require.NoError(t, err)
	return svc, store
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return utils.AsAppError(err).Code
}

func profileReq() models.ProviderProfileRequest {
	return models.ProviderProfileRequest{
		ServiceName: "Haircuts",
		Description: "Walk-ins welcome",
		PhoneNumber: "555-0100",
		City:        "Nairobi",
	}
}

func TestNewDefaultProviderService_RequiresRepos(t *testing.T) {
	_, err := NewDefaultProviderService(nil, nil, nil, nil, nil)
	assert.Error(t, err)
}

func TestCreateProfile(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()

	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)
	assert.Equal(t, owner.UserID, p.UserID)
	assert.Equal(t, "salon", p.Username)
	assert.True(t, p.ProfileCompleted)

	_, err = svc.CreateProfile(ctx, owner, profileReq())
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	_, err = svc.CreateProfile(ctx, models.Actor{UserID: "u3", Role: models.RoleUser}, profileReq())
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
}

func TestUpdateProfile_OwnerOnly(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)

	req := profileReq()
	req.City = ""
	_, err = svc.UpdateProfile(ctx, stranger, p.ID, req)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	updated, err := svc.UpdateProfile(ctx, owner, p.ID, req)
	require.NoError(t, err)
	assert.False(t, updated.ProfileCompleted)
	assert.Equal(t, owner.UserID, updated.UserID)

	_, err = svc.UpdateProfile(ctx, owner, "missing", req)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestGetProvider_AttachesOnlyFreeFutureSlots(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)

	now := time.Now()
	free := &models.Availability{ProviderID: p.ID, AvailableDate: now.Add(time.Hour)}
	past := &models.Availability{ProviderID: p.ID, AvailableDate: now.Add(-time.Hour)}
	held := &models.Availability{ProviderID: p.ID, AvailableDate: now.Add(2 * time.Hour)}
	for _, s := range []*models.Availability{free, past, held} {
		require.NoError(t, store.Availabilities().Create(ctx, s))
	}
	_, err = store.Availabilities().Hold(ctx, held.ID, p.ID)
	require.NoError(t, err)

	got, err := svc.GetProvider(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Availabilities, 1)
	assert.Equal(t, free.ID, got.Availabilities[0].ID)

	list, err := svc.ListProviders(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Len(t, list[0].Availabilities, 1)
}

func TestSearch(t *testing.T) {
	svc, _ := newService(t, nil)
	ctx := context.Background()
	_, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)
	req := profileReq()
	req.ServiceName, req.City = "Dental care", "Mombasa"
	_, err = svc.CreateProfile(ctx, stranger, req)
	require.NoError(t, err)

	byCity, err := svc.Search(ctx, models.SearchCity, "NAIROBI")
	require.NoError(t, err)
	assert.Len(t, byCity, 1)

	byService, err := svc.Search(ctx, models.SearchServiceName, "dent")
	require.NoError(t, err)
	require.Len(t, byService, 1)
	assert.Equal(t, "Dental care", byService[0].ServiceName)

	everything, err := svc.Search(ctx, models.SearchAll, "  ")
	require.NoError(t, err)
	assert.Len(t, everything, 2)

	page, err := svc.SearchPage(ctx, models.SearchAll, "", models.NewPageRequest(0, 1, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.TotalElements)
	assert.Equal(t, 2, page.TotalPages)
	assert.True(t, page.HasNext)
	assert.False(t, page.HasPrevious)
}

func TestUploadProfileImage(t *testing.T) {
	images := &fakeImages{}
	svc, _ := newService(t, images)
	ctx := context.Background()
	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)

	updated, err := svc.UploadProfileImage(ctx, owner, strings.NewReader("png-bytes"))
	require.NoError(t, err)
	assert.Equal(t, p.ID, images.publicID)
	assert.Equal(t, "png-bytes", images.body)
	assert.Equal(t, "https://img.example.com/"+p.ID, updated.ProfileImage)

	disabled, _ := newService(t, storage.DisabledStorage{})
	_, err = disabled.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)
	_, err = disabled.UploadProfileImage(ctx, owner, strings.NewReader("x"))
	assert.Equal(t, http.StatusServiceUnavailable, statusOf(t, err))
}

func TestDeleteProvider_RefusesWithActiveAppointments(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)
	slot := &models.Availability{ProviderID: p.ID, AvailableDate: time.Now().Add(time.Hour)}
	require.NoError(t, store.Availabilities().Create(ctx, slot))
	appt := &models.Appointment{UserID: "u-client", ProviderID: p.ID, AvailabilityID: slot.ID}
	require.NoError(t, store.Appointments().Book(ctx, appt))

	assert.Equal(t, http.StatusConflict, statusOf(t, svc.DeleteProvider(ctx, p.ID)))

	_, err = store.Appointments().TransitionStatus(ctx, appt, models.StatusCancelled)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteProvider(ctx, p.ID))

	_, err = svc.GetProvider(ctx, p.ID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
	remaining, _ := store.Availabilities().ListByProvider(ctx, p.ID, false, time.Time{})
	assert.Empty(t, remaining)
}

func TestCreateProfile_UsesStoredUsername(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	renamed, err := store.Users().GetByID(ctx, owner.UserID)
	require.NoError(t, err)
	renamed.Username = "salon-renamed"
	require.NoError(t, store.Users().Update(ctx, renamed))

	// owner still carries the name from before the rename.
	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)
	assert.Equal(t, "salon-renamed", p.Username)

	got, err := svc.GetByUsername(ctx, "salon-renamed")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)

	ghost := models.Actor{UserID: "u-ghost", Username: "ghost", Role: models.RoleProvider}
	_, err = svc.CreateProfile(ctx, ghost, profileReq())
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestDeleteProvider_RemovesHeldAndFinishedSlots(t *testing.T) {
	svc, store := newService(t, nil)
	ctx := context.Background()
	p, err := svc.CreateProfile(ctx, owner, profileReq())
	require.NoError(t, err)

	held := &models.Availability{ProviderID: p.ID, AvailableDate: time.Now().Add(time.Hour)}
	done := &models.Availability{ProviderID: p.ID, AvailableDate: time.Now().Add(2 * time.Hour)}
	require.NoError(t, store.Availabilities().Create(ctx, held))
	require.NoError(t, store.Availabilities().Create(ctx, done))
	_, err = store.Availabilities().Hold(ctx, held.ID, p.ID)
	require.NoError(t, err)

	appt := &models.Appointment{UserID: "u-client", ProviderID: p.ID, AvailabilityID: done.ID}
	require.NoError(t, store.Appointments().Book(ctx, appt))
	confirmed, err := store.Appointments().TransitionStatus(ctx, appt, models.StatusConfirmed)
	require.NoError(t, err)
	_, err = store.Appointments().TransitionStatus(ctx, confirmed, models.StatusCompleted)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProvider(ctx, p.ID))
	remaining, err := store.Availabilities().ListByProvider(ctx, p.ID, false, time.Time{})
	require.NoError(t, err)
	assert.Empty(t, remaining)
}
