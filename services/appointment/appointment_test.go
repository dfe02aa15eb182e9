package appointment

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"slotwise/database/repository/memrepo"
	"slotwise/models"
	"slotwise/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingScheduler struct {
	mu        sync.Mutex
	scheduled []string
}

func (r *recordingScheduler) ScheduleCompletion(_ context.Context, appt *models.Appointment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scheduled = append(r.scheduled, appt.ID)
	return nil
}

var (
	client   = models.Actor{UserID: "u-client", Role: models.RoleUser}
	other    = models.Actor{UserID: "u-other", Role: models.RoleUser}
	owner    = models.Actor{UserID: "u-owner", Role: models.RoleProvider}
	rival    = models.Actor{UserID: "u-rival", Role: models.RoleProvider}
	admin    = models.Actor{UserID: "u-admin", Role: models.RoleAdmin}
	clock    = time.Date(2026, 5, 4, 8, 0, 0, 0, time.UTC)
	noSuchID = "does-not-exist"
)

type fixture struct {
	svc       *DefaultAppointmentService
	store     *memrepo.Store
	scheduler *recordingScheduler
	profile   *models.Provider
	slot      *models.Availability
}

func setup(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := memrepo.NewStore()
	profile := &models.Provider{UserID: owner.UserID, ServiceName: "Massage"}
	require.NoError(t, store.Providers().Create(ctx, profile))
	require.NoError(t, store.Providers().Create(ctx, &models.Provider{UserID: rival.UserID, ServiceName: "Rival"}))
	slot := &models.Availability{ProviderID: profile.ID, AvailableDate: clock.Add(24 * time.Hour), DurationMinutes: 60}
	require.NoError(t, store.Availabilities().Create(ctx, slot))

	scheduler := &recordingScheduler{}
	svc, err := NewDefaultAppointmentService(store.Appointments(), store.Availabilities(), store.Providers(), scheduler, true)
	require.NoError(t, err)
	svc.Now = func() time.Time { return clock }
	return fixture{svc: svc, store: store, scheduler: scheduler, profile: profile, slot: slot}
}

func (f fixture) book(t *testing.T) *models.Appointment {
	t.Helper()
	appt, err := f.svc.Book(context.Background(), client, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: f.slot.ID})
	require.NoError(t, err)
	return appt
}

func statusOf(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	return utils.AsAppError(err).Code
}

func TestBook_CopiesSlotAndMarksItBooked(t *testing.T) {
	f := setup(t)
	appt := f.book(t)

	assert.Equal(t, models.StatusPending, appt.Status)
	assert.True(t, appt.AppointmentDate.Equal(f.slot.AvailableDate))
	assert.Equal(t, 60, appt.DurationMinutes)
	assert.Equal(t, client.UserID, appt.UserID)

	slot, err := f.store.Availabilities().GetByID(context.Background(), f.slot.ID)
	require.NoError(t, err)
	assert.True(t, slot.Booked)
	assert.Equal(t, appt.ID, slot.AppointmentID)
}

func TestBook_AlreadyBookedReturnsConflict(t *testing.T) {
	f := setup(t)
	f.book(t)

	_, err := f.svc.Book(context.Background(), other, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: f.slot.ID})
	appErr := utils.AsAppError(err)
	assert.Equal(t, http.StatusConflict, appErr.Code)
	assert.Equal(t, "This time slot is already booked", appErr.Message)
}

func TestBook_Validation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	past := &models.Availability{ProviderID: f.profile.ID, AvailableDate: clock.Add(-time.Hour)}
	require.NoError(t, f.store.Availabilities().Create(ctx, past))

	cases := []struct {
		name  string
		actor models.Actor
		req   models.BookAppointmentRequest
		code  int
	}{
		{"provider cannot book", owner, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: f.slot.ID}, http.StatusForbidden},
		{"missing ids", client, models.BookAppointmentRequest{}, http.StatusBadRequest},
		{"unknown provider", client, models.BookAppointmentRequest{ProviderID: noSuchID, AvailabilityID: f.slot.ID}, http.StatusNotFound},
		{"unknown slot", client, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: noSuchID}, http.StatusNotFound},
		{"slot in the past", client, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: past.ID}, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Book(ctx, tc.actor, tc.req)
			assert.Equal(t, tc.code, statusOf(t, err))
		})
	}

	rivalProfile, err := f.store.Providers().GetByUserID(ctx, rival.UserID)
	require.NoError(t, err)
	_, err = f.svc.Book(ctx, client, models.BookAppointmentRequest{ProviderID: rivalProfile.ID, AvailabilityID: f.slot.ID})
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
}

func TestBook_ConcurrentRequestsYieldOneSuccess(t *testing.T) {
	f := setup(t)
	const workers = 10

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
		conflicts int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.svc.Book(context.Background(), client, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: f.slot.ID})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				successes++
			} else if utils.AsAppError(err).Code == http.StatusConflict {
				conflicts++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)
}

func TestGet_AccessControl(t *testing.T) {
	f := setup(t)
	appt := f.book(t)
	ctx := context.Background()

	for _, actor := range []models.Actor{client, owner, admin} {
		_, err := f.svc.Get(ctx, actor, appt.ID)
		assert.NoError(t, err, actor.UserID)
	}
	for _, actor := range []models.Actor{other, rival} {
		_, err := f.svc.Get(ctx, actor, appt.ID)
		assert.Equal(t, http.StatusForbidden, statusOf(t, err), actor.UserID)
	}
	_, err := f.svc.Get(ctx, admin, noSuchID)
	assert.Equal(t, http.StatusNotFound, statusOf(t, err))
}

func TestConfirm_SchedulesCompletion(t *testing.T) {
	f := setup(t)
	appt := f.book(t)

	confirmed, err := f.svc.Confirm(context.Background(), owner, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, confirmed.Status)
	assert.Equal(t, []string{appt.ID}, f.scheduler.scheduled)

	_, err = f.svc.Confirm(context.Background(), client, appt.ID)
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestCancel_ReleasesSlotForRebooking(t *testing.T) {
	f := setup(t)
	appt := f.book(t)
	ctx := context.Background()

	_, err := f.svc.Cancel(ctx, other, appt.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	_, err = f.svc.Cancel(ctx, admin, appt.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))

	cancelled, err := f.svc.Cancel(ctx, client, appt.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCancelled, cancelled.Status)

	slot, err := f.store.Availabilities().GetByID(ctx, f.slot.ID)
	require.NoError(t, err)
	assert.False(t, slot.Booked)

	_, err = f.svc.Book(ctx, other, models.BookAppointmentRequest{ProviderID: f.profile.ID, AvailabilityID: f.slot.ID})
	assert.NoError(t, err)
}

func TestUpdateStatus(t *testing.T) {
	f := setup(t)
	appt := f.book(t)
	ctx := context.Background()

	_, err := f.svc.UpdateStatus(ctx, owner, appt.ID, "nonsense")
	assert.Equal(t, http.StatusBadRequest, statusOf(t, err))
	_, err = f.svc.UpdateStatus(ctx, client, appt.ID, "CONFIRMED")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	_, err = f.svc.UpdateStatus(ctx, rival, appt.ID, "CONFIRMED")
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	_, err = f.svc.UpdateStatus(ctx, owner, appt.ID, "completed")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))

	updated, err := f.svc.UpdateStatus(ctx, owner, appt.ID, "confirmed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusConfirmed, updated.Status)

	updated, err = f.svc.UpdateStatus(ctx, admin, appt.ID, `"COMPLETED"`)
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, updated.Status)

	_, err = f.svc.UpdateStatus(ctx, admin, appt.ID, "CANCELLED")
	assert.Equal(t, http.StatusConflict, statusOf(t, err))
}

func TestComplete_OnlyConfirmedAppointments(t *testing.T) {
	f := setup(t)
	appt := f.book(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Complete(ctx, appt.ID))
	got, _ := f.store.Appointments().GetByID(ctx, appt.ID)
	assert.Equal(t, models.StatusPending, got.Status)

	_, err := f.svc.Confirm(ctx, client, appt.ID)
	require.NoError(t, err)
	require.NoError(t, f.svc.Complete(ctx, appt.ID))
	got, _ = f.store.Appointments().GetByID(ctx, appt.ID)
	assert.Equal(t, models.StatusCompleted, got.Status)

	assert.NoError(t, f.svc.Complete(ctx, noSuchID))
}

func TestListings(t *testing.T) {
	f := setup(t)
	appt := f.book(t)
	ctx := context.Background()

	mine, err := f.svc.ListMine(ctx, owner)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, appt.ID, mine[0].ID)

	none, err := f.svc.ListMine(ctx, models.Actor{UserID: "no-profile", Role: models.RoleProvider})
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = f.svc.ListForUser(ctx, other, client.UserID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	byUser, err := f.svc.ListForUser(ctx, client, client.UserID)
	require.NoError(t, err)
	assert.Len(t, byUser, 1)

	_, err = f.svc.ListForProvider(ctx, rival, f.profile.ID)
	assert.Equal(t, http.StatusForbidden, statusOf(t, err))
	page, err := f.svc.PageForProvider(ctx, admin, f.profile.ID, models.NewPageRequest(0, 10, 10, 100))
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.TotalElements)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext)
}

func TestDelete_FreesActiveSlot(t *testing.T) {
	f := setup(t)
	appt := f.book(t)
	ctx := context.Background()

	require.NoError(t, f.svc.Delete(ctx, appt.ID))
	slot, err := f.store.Availabilities().GetByID(ctx, f.slot.ID)
	require.NoError(t, err)
	assert.False(t, slot.Booked)

	assert.Equal(t, http.StatusNotFound, statusOf(t, f.svc.Delete(ctx, appt.ID)))
}
