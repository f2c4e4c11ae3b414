package lease

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/mkante/gestloc/internal/api"
	"github.com/mkante/gestloc/internal/collections"
	"github.com/mkante/gestloc/internal/domain"
)

func testSnapshot() *collections.Snapshot {
	s := collections.NewSnapshot()

	s.Tenants.SetAll([]domain.Tenant{{ID: 3, Name: "Awa"}})
	s.Units.SetAll([]domain.Unit{{ID: 2, Label: "A1"}})
	s.Leases.SetAll([]domain.Lease{{
		ID:          5,
		UnitID:      2,
		TenantID:    3,
		StartDate:   domain.NewDate(2024, time.January, 1),
		MonthlyRent: 500000,
		Deposit:     1000000,
		Status:      domain.LeaseActive,
	}})

	return s
}

func testService(t *testing.T, snap *collections.Snapshot) (*Service, *MockGateway) {
	t.Helper()

	ctrl := gomock.NewController(t)
	gw := NewMockGateway(ctrl)

	svc := NewService(gw, snap)
	svc.now = func() domain.Date { return domain.NewDate(2025, time.February, 1) }

	return svc, gw
}

func TestService_OpenExitDefaults(t *testing.T) {
	snap := testSnapshot()
	lease, _ := snap.Leases.Get(5)

	tests := []struct {
		name     string
		motif    api.ExitMotif
		endDate  *domain.Date
		wantDate domain.Date
	}{
		{
			name:     "termination gets one month of notice",
			motif:    api.MotifTermination,
			wantDate: domain.NewDate(2025, time.March, 1),
		},
		{
			name:     "contract end keeps the agreed date",
			motif:    api.MotifContractEnd,
			endDate:  ptr(domain.NewDate(2025, time.June, 30)),
			wantDate: domain.NewDate(2025, time.June, 30),
		},
		{
			name:     "contract end without a date falls back to today",
			motif:    api.MotifContractEnd,
			wantDate: domain.NewDate(2025, time.February, 1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := testService(t, snap)

			l := lease
			l.EndDate = tt.endDate

			exit, err := svc.OpenExit(l, tt.motif)
			require.NoError(t, err)

			assert.Equal(t, tt.wantDate.String(), exit.ExitDate.String())
			assert.EqualValues(t, 1000000, exit.RestitutionAmount, "restitution defaults to the full deposit")
			assert.Equal(t, "Awa", exit.TenantName)
			assert.Equal(t, "A1", exit.UnitLabel)
			assert.NotEmpty(t, exit.Key())
		})
	}
}

func TestService_OpenExitRejectsEndedLease(t *testing.T) {
	svc, _ := testService(t, testSnapshot())

	_, err := svc.OpenExit(domain.Lease{ID: 5, Status: domain.LeaseEnded}, api.MotifTermination)
	assert.ErrorIs(t, err, ErrAlreadyEnded)
}

func TestService_SubmitPatchesFromServerResponse(t *testing.T) {
	snap := testSnapshot()
	svc, gw := testService(t, snap)

	lease, _ := snap.Leases.Get(5)
	exit, err := svc.OpenExit(lease, api.MotifTermination)
	require.NoError(t, err)

	serverEnd := domain.NewDate(2025, time.March, 1)
	restitutionID := int64(41)

	gw.EXPECT().
		SubmitLeaseExit(gomock.Any(), int64(5), gomock.Any(), exit.Key()).
		DoAndReturn(func(_ any, _ int64, req api.ExitRequest, _ string) (*api.ExitResponse, error) {
			assert.Equal(t, api.MotifTermination, req.Motif)
			assert.Equal(t, "2025-03-01", req.ExitDate.String())
			require.NotNil(t, req.RestitutionAmount)
			assert.EqualValues(t, 1000000, *req.RestitutionAmount)

			return &api.ExitResponse{
				Message: "Sortie enregistrée",
				Lease: domain.Lease{
					ID:      5,
					EndDate: &serverEnd,
					Status:  domain.LeaseEnded,
				},
				UnpaidWarning: "1 loyer impayé",
				RestitutionID: &restitutionID,
			}, nil
		})

	result, err := svc.Submit(t.Context(), exit)
	require.NoError(t, err)

	assert.Equal(t, "1 loyer impayé", result.UnpaidWarning)
	require.NotNil(t, result.RestitutionID)
	assert.EqualValues(t, 41, *result.RestitutionID)
	assert.Nil(t, result.InspectionID)

	patched, ok := snap.Leases.Get(5)
	require.True(t, ok)
	assert.Equal(t, domain.LeaseEnded, patched.Status)
	require.NotNil(t, patched.EndDate)
	assert.Equal(t, "2025-03-01", patched.EndDate.String())

	// Fields the server did not confirm stay as the refresh left them.
	assert.EqualValues(t, 500000, patched.MonthlyRent)
}

func TestService_SubmitFailureLeavesLeaseUntouched(t *testing.T) {
	snap := testSnapshot()
	svc, gw := testService(t, snap)

	lease, _ := snap.Leases.Get(5)
	exit, err := svc.OpenExit(lease, api.MotifTermination)
	require.NoError(t, err)

	apiErr := &api.Error{Status: 409, Message: "Sortie déjà enregistrée"}

	gw.EXPECT().
		SubmitLeaseExit(gomock.Any(), int64(5), gomock.Any(), exit.Key()).
		Return(nil, apiErr)

	_, err = svc.Submit(t.Context(), exit)
	assert.ErrorIs(t, err, apiErr)

	// Lease stays active; the form keeps its key for the retry.
	kept, _ := snap.Leases.Get(5)
	assert.Equal(t, domain.LeaseActive, kept.Status)
	assert.Nil(t, kept.EndDate)
	assert.NotEmpty(t, exit.Key())
}

func TestService_SubmitRetryReusesIdempotencyKey(t *testing.T) {
	snap := testSnapshot()
	svc, gw := testService(t, snap)

	lease, _ := snap.Leases.Get(5)
	exit, err := svc.OpenExit(lease, api.MotifTermination)
	require.NoError(t, err)

	var keys []string

	gw.EXPECT().
		SubmitLeaseExit(gomock.Any(), int64(5), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ any, _ int64, _ api.ExitRequest, key string) (*api.ExitResponse, error) {
			keys = append(keys, key)
			return nil, &api.Error{Status: 500}
		}).
		Times(2)

	_, _ = svc.Submit(t.Context(), exit)
	_, _ = svc.Submit(t.Context(), exit)

	require.Len(t, keys, 2)
	assert.Equal(t, keys[0], keys[1], "a retry must replay as the same operation")
}

func TestService_SubmitValidation(t *testing.T) {
	svc, _ := testService(t, testSnapshot())

	_, err := svc.Submit(t.Context(), &Exit{LeaseID: 5})
	assert.ErrorIs(t, err, ErrExitDateRequired)

	_, err = svc.Submit(t.Context(), &Exit{
		LeaseID:           5,
		ExitDate:          domain.NewDate(2025, time.March, 1),
		RestitutionAmount: -1,
	})
	assert.ErrorIs(t, err, ErrNegativeAmount)
}

func ptr[T any](v T) *T { return &v }
