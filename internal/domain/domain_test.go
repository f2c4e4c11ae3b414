package domain_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mkante/gestloc/internal/domain"
)

func TestAmount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Amount
		wantErr bool
	}{
		{name: "Number", input: `500000`, want: 500000},
		{name: "NumericString", input: `"300000"`, want: 300000},
		{name: "DecimalString", input: `"1250.75"`, want: 1251},
		{name: "Null", input: `null`, want: 0},
		{name: "EmptyString", input: `""`, want: 0},
		{name: "Garbage", input: `"abc"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var a domain.Amount

			err := json.Unmarshal([]byte(tt.input), &a)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, a)
		})
	}
}

func TestDate_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    domain.Date
		wantErr bool
	}{
		{name: "DateOnly", input: `"2025-03-01"`, want: domain.NewDate(2025, time.March, 1)},
		{name: "RFC3339", input: `"2025-03-01T14:30:00Z"`, want: domain.NewDate(2025, time.March, 1)},
		{name: "Null", input: `null`, want: domain.Date{}},
		{name: "Garbage", input: `"01/03/2025"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d domain.Date

			err := json.Unmarshal([]byte(tt.input), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.True(t, tt.want.Equal(d.Time), "got %s", d)
		})
	}
}

func TestDate_RoundTrip(t *testing.T) {
	lease := domain.Lease{
		ID:          1,
		UnitID:      2,
		TenantID:    3,
		StartDate:   domain.NewDate(2024, time.June, 1),
		MonthlyRent: 500000,
		Deposit:     1000000,
	}

	data, err := json.Marshal(lease)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date_debut":"2024-06-01"`)
	assert.Contains(t, string(data), `"date_fin":null`)

	var back domain.Lease
	require.NoError(t, json.Unmarshal(data, &back))
	assert.Nil(t, back.EndDate)
	assert.True(t, back.Ongoing())
}

func TestDate_DaysUntil(t *testing.T) {
	d := domain.NewDate(2025, time.January, 1)
	assert.Equal(t, 29, d.DaysUntil(domain.NewDate(2025, time.January, 30)))
	assert.Equal(t, -1, d.DaysUntil(domain.NewDate(2024, time.December, 31)))
}

func TestParams_Validate(t *testing.T) {
	tests := []struct {
		name    string
		params  interface{ Validate() error }
		wantErr bool
	}{
		{
			name: "ValidLease",
			params: domain.LeaseParams{
				UnitID:      1,
				TenantID:    2,
				StartDate:   domain.NewDate(2025, time.January, 1),
				MonthlyRent: 500000,
				Deposit:     1000000,
			},
		},
		{
			name: "LeaseZeroRent",
			params: domain.LeaseParams{
				UnitID:    1,
				TenantID:  2,
				StartDate: domain.NewDate(2025, time.January, 1),
			},
			wantErr: true,
		},
		{
			name: "LeaseNegativeDeposit",
			params: domain.LeaseParams{
				UnitID:      1,
				TenantID:    2,
				StartDate:   domain.NewDate(2025, time.January, 1),
				MonthlyRent: 500000,
				Deposit:     -1,
			},
			wantErr: true,
		},
		{
			name: "LeaseMissingStartDate",
			params: domain.LeaseParams{
				UnitID:      1,
				TenantID:    2,
				MonthlyRent: 500000,
			},
			wantErr: true,
		},
		{
			name:   "ValidTenant",
			params: domain.TenantParams{Name: "Mamadou Diallo"},
		},
		{
			name:    "TenantMissingName",
			params:  domain.TenantParams{Email: "x@y.com"},
			wantErr: true,
		},
		{
			name:    "TenantBadEmail",
			params:  domain.TenantParams{Name: "Mamadou Diallo", Email: "not-an-email"},
			wantErr: true,
		},
		{
			name: "ValidPayment",
			params: domain.PaymentParams{
				LeaseID: 1,
				Amount:  250000,
				Date:    domain.NewDate(2025, time.February, 5),
			},
		},
		{
			name:    "PaymentZeroAmount",
			params:  domain.PaymentParams{LeaseID: 1, Date: domain.NewDate(2025, time.February, 5)},
			wantErr: true,
		},
		{
			name:    "BuildingZeroFloors",
			params:  domain.BuildingParams{Name: "Kipe A", Address: "Conakry", CityID: 1},
			wantErr: true,
		},
		{
			name:    "CityBadCurrency",
			params:  domain.CityParams{Name: "Conakry", Country: "Guinée", Currency: "BTC"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.params.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}
}
