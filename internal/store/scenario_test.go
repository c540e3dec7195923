package store

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/servis/internal/cost"
	"github.com/erazemk/servis/internal/db"
	"github.com/erazemk/servis/internal/model"
)

// brakeBooking adds one brake pad to an empty ledger and builds a booking
// from it with labour 50 and VAT 16. The client left the derived figures
// unset.
func brakeBooking(t *testing.T) (*model.Booking, *model.Part) {
	t.Helper()
	database := db.NewTestDB(t)
	ctx := context.Background()

	part, err := CreatePart(ctx, database, model.PartInput{
		PartNumber: "P1", Name: "Brake Pad",
		Cost: dec("10"), Profit: dec("5"), Price: dec("15"), Qty: 2,
	})
	require.NoError(t, err)

	parts, err := ListParts(ctx, database)
	require.NoError(t, err)
	require.Len(t, parts, 1)
	require.Equal(t, "30", parts[0].LineValue().String())

	return &model.Booking{
		Car:        model.Car{Registration: "AB12CDE"},
		Parts:      []model.BookingPartLine{part.Line(part.Qty)},
		LabourCost: dec("50"),
		VAT:        dec("16"),
		Date:       "2024-03-01",
	}, part
}

func TestScenarioTrustStoresAsGiven(t *testing.T) {
	database := db.NewTestDB(t)
	b, _ := brakeBooking(t)

	require.NoError(t, cost.Checker{Policy: cost.PolicyTrust}.Apply(b))
	got, err := CreateBooking(context.Background(), database, b)
	require.NoError(t, err)

	assert.True(t, got.PartsCost.IsZero())
	assert.True(t, got.Subtotal.IsZero())
	assert.True(t, got.Total.IsZero())
	assert.True(t, dec("16").Equal(got.VAT))

	// The figures the booking should have carried are still derivable.
	want := cost.Of(got)
	assert.True(t, dec("30").Equal(want.PartsCost))
	assert.True(t, dec("80").Equal(want.Subtotal))
	assert.True(t, dec("96").Equal(want.Total))
}

func TestScenarioRecomputeStoresComputed(t *testing.T) {
	database := db.NewTestDB(t)
	b, _ := brakeBooking(t)

	require.NoError(t, cost.Checker{Policy: cost.PolicyRecompute}.Apply(b))
	got, err := CreateBooking(context.Background(), database, b)
	require.NoError(t, err)

	assert.True(t, dec("30").Equal(got.PartsCost))
	assert.True(t, dec("80").Equal(got.Subtotal))
	assert.True(t, dec("16").Equal(got.VAT))
	assert.True(t, dec("96").Equal(got.Total))
}

func TestScenarioVerifyRejectsBeforeWrite(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()
	b, _ := brakeBooking(t)
	b.Total = decimal.NewFromInt(96)

	err := cost.Checker{Policy: cost.PolicyVerify}.Apply(b)
	var verr *model.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "partsCost", verr.Field)

	all, err := ListBookings(ctx, database, model.BookingFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
}
