package cost

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/servis/internal/model"
)

// brakeJob is a single brake-pad line with labour 50 and VAT 16 whose
// derived fields were left unset by the client.
func brakeJob() *model.Booking {
	return &model.Booking{
		Car:        model.Car{Registration: "AB12CDE"},
		Parts:      []model.BookingPartLine{line("15", 2)},
		LabourCost: d("50"),
		VAT:        d("16"),
	}
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"", PolicyTrust, false},
		{"trust", PolicyTrust, false},
		{"verify", PolicyVerify, false},
		{"recompute", PolicyRecompute, false},
		{"strict", "", true},
		{"TRUST", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			assert.Errorf(t, err, "ParsePolicy(%q)", tt.in)
			continue
		}
		require.NoErrorf(t, err, "ParsePolicy(%q)", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestTrustStoresAsGiven(t *testing.T) {
	b := brakeJob()
	b.PartsCost = d("1")
	b.Subtotal = d("2")
	b.Total = d("3")

	require.NoError(t, Checker{}.Apply(b))
	require.NoError(t, Checker{Policy: PolicyTrust}.Apply(b))

	assert.True(t, d("1").Equal(b.PartsCost))
	assert.True(t, d("2").Equal(b.Subtotal))
	assert.True(t, d("3").Equal(b.Total))
}

func TestRecomputeOverwritesDerivedFields(t *testing.T) {
	b := brakeJob()
	b.Total = d("1000")

	require.NoError(t, Checker{Policy: PolicyRecompute}.Apply(b))

	assert.True(t, d("30").Equal(b.PartsCost))
	assert.True(t, d("80").Equal(b.Subtotal))
	assert.True(t, d("16").Equal(b.VAT))
	assert.True(t, d("96").Equal(b.Total))
}

func TestRecomputeWithVATRate(t *testing.T) {
	b := brakeJob()
	b.VAT = decimal.Zero

	require.NoError(t, Checker{Policy: PolicyRecompute, VATRate: d("0.2")}.Apply(b))

	assert.True(t, d("16").Equal(b.VAT))
	assert.True(t, d("96").Equal(b.Total))
}

func TestVerifyAcceptsConsistentBooking(t *testing.T) {
	b := brakeJob()
	b.PartsCost = d("30")
	b.Subtotal = d("80")
	b.Total = d("96.00")

	assert.NoError(t, Checker{Policy: PolicyVerify}.Apply(b))
}

func TestVerifyRejectsInconsistentBooking(t *testing.T) {
	tests := []struct {
		name  string
		mod   func(b *model.Booking)
		field string
	}{
		{"parts cost", func(b *model.Booking) { b.PartsCost = d("25") }, "partsCost"},
		{"subtotal", func(b *model.Booking) { b.Subtotal = d("79") }, "subtotal"},
		{"total", func(b *model.Booking) { b.Total = d("80") }, "total"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := brakeJob()
			b.PartsCost = d("30")
			b.Subtotal = d("80")
			b.Total = d("96")
			tt.mod(b)

			err := Checker{Policy: PolicyVerify}.Apply(b)
			var verr *model.ValidationError
			require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestUnknownPolicyErrors(t *testing.T) {
	assert.Error(t, Checker{Policy: "lenient"}.Apply(brakeJob()))
}
