package memrepo

import (
	"context"
	"sort"
	"time"

	"slotwise/database/repository"
	"slotwise/models"

	"github.com/google/uuid"
)

// Slots implements availabilityRepo.AvailabilityRepository.
type Slots struct{ s *Store }

func (r *Slots) startTaken(providerID string, start time.Time, except string) bool {
	for id, slot := range r.s.slots {
		if id != except && slot.ProviderID == providerID && slot.AvailableDate.Equal(start) {
			return true
		}
	}
	return false
}

func (r *Slots) insert(slot *models.Availability, now time.Time) error {
	if slot.ID == "" {
		slot.ID = uuid.New().String()
	}
	if slot.DurationMinutes <= 0 {
		slot.DurationMinutes = models.DefaultSlotMinutes
	}
	slot.AvailableDate = slot.AvailableDate.UTC().Truncate(time.Millisecond)
	if _, ok := r.s.slots[slot.ID]; ok || r.startTaken(slot.ProviderID, slot.AvailableDate, "") {
		return repository.ErrDuplicate
	}
	slot.CreatedAt, slot.UpdatedAt = now, now
	r.s.slots[slot.ID] = *slot
	return nil
}

func (r *Slots) Create(_ context.Context, slot *models.Availability) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.insert(slot, time.Now().UTC())
}

func (r *Slots) CreateMany(_ context.Context, slots []models.Availability) ([]models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	created := []models.Availability{}
	for i := range slots {
		if err := r.insert(&slots[i], now); err == nil {
			created = append(created, slots[i])
		}
	}
	return created, nil
}

func (r *Slots) GetByID(_ context.Context, id string) (*models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &slot, nil
}

func sortByStart(slots []models.Availability) {
	sort.Slice(slots, func(i, j int) bool {
		if !slots[i].AvailableDate.Equal(slots[j].AvailableDate) {
			return slots[i].AvailableDate.Before(slots[j].AvailableDate)
		}
		return slots[i].ID < slots[j].ID
	})
}

func (r *Slots) GetAll(_ context.Context) ([]models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Availability{}
	for _, slot := range r.s.slots {
		out = append(out, slot)
	}
	sortByStart(out)
	return out, nil
}

func (r *Slots) ListByProvider(_ context.Context, providerID string, onlyFree bool, from time.Time) ([]models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Availability{}
	for _, slot := range r.s.slots {
		if slot.ProviderID != providerID {
			continue
		}
		if onlyFree && (slot.Booked || slot.AvailableDate.Before(from)) {
			continue
		}
		out = append(out, slot)
	}
	sortByStart(out)
	return out, nil
}

func (r *Slots) ListFreeByProviders(ctx context.Context, providerIDs []string, from time.Time) (map[string][]models.Availability, error) {
	grouped := make(map[string][]models.Availability, len(providerIDs))
	for _, id := range providerIDs {
		free, _ := r.ListByProvider(ctx, id, true, from)
		if len(free) > 0 {
			grouped[id] = free
		}
	}
	return grouped, nil
}

func (r *Slots) freeSlot(id, providerID string) (models.Availability, error) {
	slot, ok := r.s.slots[id]
	if !ok || slot.ProviderID != providerID || slot.Booked {
		return models.Availability{}, repository.ErrSlotUnavailable
	}
	return slot, nil
}

func (r *Slots) Reschedule(_ context.Context, id, providerID string, start time.Time, durationMinutes, version int) (*models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, err := r.freeSlot(id, providerID)
	if err != nil {
		return nil, err
	}
	if slot.Version != version {
		return nil, repository.ErrSlotUnavailable
	}
	start = start.UTC().Truncate(time.Millisecond)
	if r.startTaken(providerID, start, id) {
		return nil, repository.ErrDuplicate
	}
	if durationMinutes <= 0 {
		durationMinutes = models.DefaultSlotMinutes
	}
	slot.AvailableDate = start
	slot.DurationMinutes = durationMinutes
	slot.Version++
	slot.UpdatedAt = time.Now().UTC()
	r.s.slots[id] = slot
	return &slot, nil
}

func (r *Slots) Hold(_ context.Context, id, providerID string) (*models.Availability, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, err := r.freeSlot(id, providerID)
	if err != nil {
		return nil, err
	}
	slot.Booked = true
	slot.Version++
	r.s.slots[id] = slot
	return &slot, nil
}

func (r *Slots) DeleteFree(_ context.Context, id, providerID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, err := r.freeSlot(id, providerID); err != nil {
		return err
	}
	delete(r.s.slots, id)
	return nil
}

func (r *Slots) DeleteByProvider(_ context.Context, providerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, slot := range r.s.slots {
		if slot.ProviderID == providerID {
			delete(r.s.slots, id)
			n++
		}
	}
	return n, nil
}

func (r *Slots) CountBooked(_ context.Context, providerID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, slot := range r.s.slots {
		if slot.ProviderID == providerID && slot.Booked {
			n++
		}
	}
	return n, nil
}

// Appointments implements appointmentRepo.AppointmentRepository.
type Appointments struct{ s *Store }

func (r *Appointments) Book(_ context.Context, appt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	slot, ok := r.s.slots[appt.AvailabilityID]
	if !ok || slot.ProviderID != appt.ProviderID || slot.Booked {
		return repository.ErrSlotUnavailable
	}
	if appt.ID == "" {
		appt.ID = uuid.New().String()
	}
	now := time.Now().UTC()
	appt.Status = models.StatusPending
	appt.CreatedAt, appt.UpdatedAt = now, now

	slot.Booked = true
	slot.AppointmentID = appt.ID
	slot.Version++
	r.s.slots[slot.ID] = slot
	r.s.appointments[appt.ID] = *appt
	return nil
}

func (r *Appointments) GetByID(_ context.Context, id string) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	appt, ok := r.s.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &appt, nil
}

func (r *Appointments) filter(match func(models.Appointment) bool) []models.Appointment {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := []models.Appointment{}
	for _, a := range r.s.appointments {
		if match(a) {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].AppointmentDate.Equal(out[j].AppointmentDate) {
			return out[i].AppointmentDate.After(out[j].AppointmentDate)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func all(models.Appointment) bool { return true }

func byUser(id string) func(models.Appointment) bool {
	return func(a models.Appointment) bool { return a.UserID == id }
}

func byProvider(id string) func(models.Appointment) bool {
	return func(a models.Appointment) bool { return a.ProviderID == id }
}

func (r *Appointments) page(match func(models.Appointment) bool, req models.PageRequest) ([]models.Appointment, int64, error) {
	items := r.filter(match)
	return window(items, req), int64(len(items)), nil
}

func (r *Appointments) ListAll(_ context.Context) ([]models.Appointment, error) {
	return r.filter(all), nil
}

func (r *Appointments) PageAll(_ context.Context, req models.PageRequest) ([]models.Appointment, int64, error) {
	return r.page(all, req)
}

func (r *Appointments) ListByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	return r.filter(byUser(userID)), nil
}

func (r *Appointments) PageByUser(_ context.Context, userID string, req models.PageRequest) ([]models.Appointment, int64, error) {
	return r.page(byUser(userID), req)
}

func (r *Appointments) ListByProvider(_ context.Context, providerID string) ([]models.Appointment, error) {
	return r.filter(byProvider(providerID)), nil
}

func (r *Appointments) PageByProvider(_ context.Context, providerID string, req models.PageRequest) ([]models.Appointment, int64, error) {
	return r.page(byProvider(providerID), req)
}

func (r *Appointments) ListActiveByUser(_ context.Context, userID string) ([]models.Appointment, error) {
	return r.filter(func(a models.Appointment) bool { return a.UserID == userID && a.Status.Active() }), nil
}

func (r *Appointments) HasActiveForProvider(_ context.Context, providerID string) (bool, error) {
	return len(r.filter(func(a models.Appointment) bool { return a.ProviderID == providerID && a.Status.Active() })) > 0, nil
}

func (r *Appointments) HasActiveForAvailability(_ context.Context, availabilityID string) (bool, error) {
	return len(r.filter(func(a models.Appointment) bool { return a.AvailabilityID == availabilityID && a.Status.Active() })) > 0, nil
}

func (r *Appointments) release(appt models.Appointment) {
	slot, ok := r.s.slots[appt.AvailabilityID]
	if !ok || slot.AppointmentID != appt.ID {
		return
	}
	slot.Booked = false
	slot.AppointmentID = ""
	slot.Version++
	r.s.slots[slot.ID] = slot
}

func (r *Appointments) TransitionStatus(_ context.Context, appt *models.Appointment, next models.AppointmentStatus) (*models.Appointment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.appointments[appt.ID]
	if !ok || stored.Status != appt.Status {
		return nil, repository.ErrStatusChanged
	}
	stored.Status = next
	stored.UpdatedAt = time.Now().UTC()
	r.s.appointments[stored.ID] = stored
	if next == models.StatusCancelled {
		r.release(stored)
	}
	return &stored, nil
}

func (r *Appointments) Delete(_ context.Context, appt *models.Appointment) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.appointments[appt.ID]
	if !ok {
		return repository.ErrNotFound
	}
	delete(r.s.appointments, appt.ID)
	if stored.Status.Active() {
		r.release(stored)
	}
	return nil
}

func (r *Appointments) Count(_ context.Context) (int64, error) {
	return int64(len(r.filter(all))), nil
}

func (r *Appointments) CountByStatus(_ context.Context, status models.AppointmentStatus) (int64, error) {
	return int64(len(r.filter(func(a models.Appointment) bool { return a.Status == status }))), nil
}
