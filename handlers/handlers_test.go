package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"slotwise/config"
	"slotwise/models"
	"slotwise/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	config.AppConfig.DefaultPageSize = 10
	config.AppConfig.MaxPageSize = 50
	utils.RegisterValidators()
}

type mockDashboard struct {
	mock.Mock
}

func (m *mockDashboard) Stats(ctx context.Context) (*models.DashboardStats, error) {
	args := m.Called(ctx)
	stats, _ := args.Get(0).(*models.DashboardStats)
	return stats, args.Error(1)
}

func TestDashboardStats(t *testing.T) {
	ds := new(mockDashboard)
	ds.On("Stats", mock.Anything).Return(&models.DashboardStats{TotalProviders: 2, TotalUsers: 5}, nil).Once()
	ds.On("Stats", mock.Anything).Return(nil, errors.New("mongo down")).Once()

	r := gin.New()
	r.GET("/stats", NewDashboardHandler(ds).Stats)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.DashboardStats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(2), stats.TotalProviders)
	assert.Equal(t, int64(5), stats.TotalUsers)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/stats", nil))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Failed to fetch dashboard statistics"}`, w.Body.String())

	ds.AssertExpectations(t)
}

func TestStatusFromBody(t *testing.T) {
	cases := map[string]struct {
		body    string
		want    string
		wantErr string
	}{
		"bare string":    {`"CONFIRMED"`, "CONFIRMED", ""},
		"object":         {`{"status":"CANCELLED"}`, "CANCELLED", ""},
		"lowercase":      {`{"status":"confirmed"}`, "confirmed", ""},
		"padded":         {`" PENDING "`, "PENDING", ""},
		"empty object":   {`{}`, "", "status: required"},
		"unknown status": {`{"status":"bogus"}`, "", "status: appointment_status"},
		"garbage":        {`status=CONFIRMED`, "", "status is required"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			got, err := statusFromBody([]byte(tc.body))
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Equal(t, tc.wantErr, utils.FormatValidationErrors(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestUpdateStatus_RejectsUnknownStatusBeforeService(t *testing.T) {
	r := gin.New()
	// A nil service panics if reached.
	h := NewAppointmentHandler(nil)
	r.PUT("/appointments/:id/status", h.UpdateStatus)

	req := httptest.NewRequest(http.MethodPut, "/appointments/a1/status", strings.NewReader(`{"status":"bogus"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "appointment_status")
}

func TestRegisterValidators_Idempotent(t *testing.T) {
	assert.NotPanics(t, utils.RegisterValidators)
	assert.NotPanics(t, utils.RegisterValidators)
}

func TestPageRequestClampsQuery(t *testing.T) {
	cases := map[string]models.PageRequest{
		"/":                  {Page: 0, Size: 10},
		"/?page=2&size=5":    {Page: 2, Size: 5},
		"/?page=-1&size=500": {Page: 0, Size: 50},
		"/?page=x&size=y":    {Page: 0, Size: 10},
	}
	for target, want := range cases {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodGet, target, nil)
		assert.Equal(t, want, pageRequest(c), target)
	}
}

func TestHealthCheck(t *testing.T) {
	r := gin.New()
	r.GET("/health", NewHealthHandler().Check)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), `"status":"ok"`))
}
