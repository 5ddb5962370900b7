package policies

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/RST-ReservationService/internal/domain"
	policyRepo "github.com/m04kA/RST-ReservationService/internal/infra/storage/policy"
	"github.com/m04kA/RST-ReservationService/internal/integrations/restaurantservice"
	"github.com/m04kA/RST-ReservationService/internal/service/policies/models"
	"github.com/m04kA/RST-ReservationService/pkg/ptr"
)

type fakePolicyRepo struct {
	pol      *domain.ReservationPolicy
	upserted *domain.ReservationPolicy
}

func (f *fakePolicyRepo) GetByRestaurant(ctx context.Context, restaurantID int64) (*domain.ReservationPolicy, error) {
	if f.pol == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.pol, nil
}

func (f *fakePolicyRepo) Upsert(ctx context.Context, p *domain.ReservationPolicy) (*domain.ReservationPolicy, error) {
	f.upserted = p
	saved := *p
	saved.ID = 1
	return &saved, nil
}

type fakeRestaurantClient struct {
	restaurant *restaurantservice.Restaurant
	err        error
}

func (f *fakeRestaurantClient) GetRestaurant(ctx context.Context, restaurantID int64) (*restaurantservice.Restaurant, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.restaurant, nil
}

type noopLogger struct{}

func (noopLogger) Info(format string, v ...interface{})  {}
func (noopLogger) Warn(format string, v ...interface{})  {}
func (noopLogger) Error(format string, v ...interface{}) {}

const managerID int64 = 600

func newService(pol *domain.ReservationPolicy) (*Service, *fakePolicyRepo) {
	repo := &fakePolicyRepo{pol: pol}
	client := &fakeRestaurantClient{restaurant: &restaurantservice.Restaurant{
		ID:         1,
		StaffIDs:   []int64{500},
		ManagerIDs: []int64{managerID},
	}}
	return NewService(repo, client, noopLogger{}), repo
}

func configuredPolicy() *domain.ReservationPolicy {
	return &domain.ReservationPolicy{
		ID:                      1,
		RestaurantID:            1,
		MinPartySize:            2,
		MaxPartySize:            10,
		ReservationDurationMin:  90,
		AdvanceBookingDays:      14,
		ModificationDeadlineHrs: 12,
		CancellationDeadlineHrs: 12,
		CancellationFeeFlat:     10,
		DepositPartySize:        6,
		DepositPerGuest:         25,
		ReminderLeadMinutes:     60,
	}
}

func TestGetByRestaurant_Configured(t *testing.T) {
	svc, _ := newService(configuredPolicy())

	resp, err := svc.GetByRestaurant(context.Background(), 1)
	require.NoError(t, err)
	assert.False(t, resp.IsDefault)
	assert.Equal(t, 90, resp.ReservationDurationMin)
	assert.Equal(t, 6, resp.DepositPartySize)
	assert.NotNil(t, resp.CreatedAt)
}

func TestGetByRestaurant_FallsBackToDefaults(t *testing.T) {
	svc, _ := newService(nil)

	resp, err := svc.GetByRestaurant(context.Background(), 1)
	require.NoError(t, err)
	assert.True(t, resp.IsDefault)
	assert.Equal(t, domain.DefaultMaxPartySize, resp.MaxPartySize)
	assert.Equal(t, domain.DefaultReservationDurationMin, resp.ReservationDurationMin)
	assert.Nil(t, resp.CreatedAt)
}

func TestUpdate_PartialMerge(t *testing.T) {
	svc, repo := newService(configuredPolicy())

	resp, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		UserID:       managerID,
		MaxPartySize: ptr.Ptr(8),
	})
	require.NoError(t, err)

	// Only the passed field changes, the rest of the policy stays.
	assert.Equal(t, 8, resp.MaxPartySize)
	assert.Equal(t, 2, resp.MinPartySize)
	assert.Equal(t, 90, resp.ReservationDurationMin)
	require.NotNil(t, repo.upserted)
	assert.Equal(t, 8, repo.upserted.MaxPartySize)
}

func TestUpdate_DefaultsAsBaseWhenNotConfigured(t *testing.T) {
	svc, repo := newService(nil)

	resp, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		UserID:                 managerID,
		ReservationDurationMin: ptr.Ptr(60),
	})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.ReservationDurationMin)
	assert.Equal(t, domain.DefaultMaxPartySize, resp.MaxPartySize)
	assert.Equal(t, int64(1), repo.upserted.RestaurantID)
}

func TestUpdate_ManagerOnly(t *testing.T) {
	svc, repo := newService(configuredPolicy())

	// Staff without the manager role cannot change the policy.
	_, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		UserID:       500,
		MaxPartySize: ptr.Ptr(8),
	})
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.Nil(t, repo.upserted)
}

func TestUpdate_RestaurantNotFound(t *testing.T) {
	svc, _ := newService(nil)
	svc.restaurantClient.(*fakeRestaurantClient).err = restaurantservice.ErrRestaurantNotFound

	_, err := svc.Update(context.Background(), 99, &models.UpdatePolicyRequest{UserID: managerID})
	assert.ErrorIs(t, err, ErrRestaurantNotFound)
}

func TestUpdate_ValidationRejectsBadBounds(t *testing.T) {
	cases := []struct {
		name string
		req  *models.UpdatePolicyRequest
	}{
		{"min party below one", &models.UpdatePolicyRequest{UserID: managerID, MinPartySize: ptr.Ptr(0)}},
		{"min above max", &models.UpdatePolicyRequest{UserID: managerID, MinPartySize: ptr.Ptr(11)}},
		{"party size over bound", &models.UpdatePolicyRequest{UserID: managerID, MaxPartySize: ptr.Ptr(domain.MaxPartySizeBound + 1)}},
		{"duration too short", &models.UpdatePolicyRequest{UserID: managerID, ReservationDurationMin: ptr.Ptr(10)}},
		{"duration too long", &models.UpdatePolicyRequest{UserID: managerID, ReservationDurationMin: ptr.Ptr(domain.MaxReservationDurationMin + 1)}},
		{"advance days negative", &models.UpdatePolicyRequest{UserID: managerID, AdvanceBookingDays: ptr.Ptr(-1)}},
		{"advance days over bound", &models.UpdatePolicyRequest{UserID: managerID, AdvanceBookingDays: ptr.Ptr(domain.MaxAdvanceBookingDays + 1)}},
		{"negative modification deadline", &models.UpdatePolicyRequest{UserID: managerID, ModificationDeadlineHrs: ptr.Ptr(-1)}},
		{"negative cancellation fee", &models.UpdatePolicyRequest{UserID: managerID, CancellationFeeFlat: ptr.Ptr(-5.0)}},
		{"negative deposit party size", &models.UpdatePolicyRequest{UserID: managerID, DepositPartySize: ptr.Ptr(-1)}},
		{"negative deposit per guest", &models.UpdatePolicyRequest{UserID: managerID, DepositPerGuest: ptr.Ptr(-10.0)}},
		{"negative reminder lead", &models.UpdatePolicyRequest{UserID: managerID, ReminderLeadMinutes: ptr.Ptr(-30)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc, repo := newService(configuredPolicy())

			_, err := svc.Update(context.Background(), 1, tc.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, repo.upserted)
		})
	}
}

func TestUpdate_ZeroDeadlinesDisableChecks(t *testing.T) {
	svc, _ := newService(configuredPolicy())

	// 0 is a legal value: no deadline, no advance limit, deposits off.
	resp, err := svc.Update(context.Background(), 1, &models.UpdatePolicyRequest{
		UserID:                  managerID,
		AdvanceBookingDays:      ptr.Ptr(0),
		ModificationDeadlineHrs: ptr.Ptr(0),
		CancellationDeadlineHrs: ptr.Ptr(0),
		DepositPartySize:        ptr.Ptr(0),
	})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.AdvanceBookingDays)
	assert.Equal(t, 0, resp.DepositPartySize)
}
