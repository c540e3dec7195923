package cost

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/erazemk/servis/internal/model"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func line(price string, qty int) model.BookingPartLine {
	l := model.BookingPartLine{Qty: model.NewLineQty(qty)}
	if price != "" {
		l.Price = model.NewLineValue(d(price))
	}
	return l
}

func TestPartsCostEmpty(t *testing.T) {
	assert.True(t, PartsCost(nil).IsZero())
	assert.True(t, PartsCost([]model.BookingPartLine{}).IsZero())
}

func TestPartsCostSumsPriceTimesQty(t *testing.T) {
	lines := []model.BookingPartLine{
		line("15", 2),
		line("4.99", 3),
		line("0.01", 1),
	}
	assert.Equal(t, "44.98", PartsCost(lines).String())
}

func TestPartsCostMissingValuesContributeZero(t *testing.T) {
	lines := []model.BookingPartLine{
		line("", 4),     // no price
		line("12.5", 0), // no qty
		line("10", 1),
	}
	assert.True(t, d("10").Equal(PartsCost(lines)))
}

func TestPartsCostNonNumericValuesContributeZero(t *testing.T) {
	lines := []model.BookingPartLine{
		{Price: model.LineText(""), Qty: model.NewLineQty(2)},
		{Price: model.LineText("n/a"), Qty: model.NewLineQty(1)},
		{Price: model.LineText("15"), Qty: model.LineText("lots")},
		{Price: model.LineText("true"), Qty: model.NewLineQty(1)},
		{Price: model.LineText("15")},
		{Price: model.LineText(" 7.5 "), Qty: model.LineText("2")},
	}
	assert.True(t, d("15").Equal(PartsCost(lines)), "got %s", PartsCost(lines))
}

func TestPartsCostNegativeValuesAreSummed(t *testing.T) {
	lines := []model.BookingPartLine{line("-5", 2), line("3", 1)}
	assert.True(t, d("-7").Equal(PartsCost(lines)))
}

func TestSubtotal(t *testing.T) {
	tests := []struct{ labour, parts, want string }{
		{"0", "0", "0"},
		{"50", "30", "80"},
		{"0.1", "0.2", "0.3"},
		{"123.45", "0.55", "124"},
	}
	for _, tt := range tests {
		got := Subtotal(d(tt.labour), d(tt.parts))
		assert.Truef(t, d(tt.want).Equal(got), "Subtotal(%s, %s) = %s, want %s", tt.labour, tt.parts, got, tt.want)
	}
}

func TestSubtotalCommutativeAndAssociative(t *testing.T) {
	values := []decimal.Decimal{d("0"), d("1.5"), d("99.99"), d("1000"), d("0.333")}
	for _, a := range values {
		for _, b := range values {
			assert.True(t, Subtotal(a, b).Equal(Subtotal(b, a)))
			for _, c := range values {
				left := Subtotal(Subtotal(a, b), c)
				right := Subtotal(a, Subtotal(b, c))
				assert.True(t, left.Equal(right))
			}
		}
	}
}

func TestTotalAddsVAT(t *testing.T) {
	assert.True(t, d("96").Equal(Total(d("80"), d("16"))))
	assert.True(t, d("80").Equal(Total(d("80"), decimal.Zero)))
}

func TestVATFromRate(t *testing.T) {
	assert.Equal(t, "16", VAT(d("80"), d("0.2")).String())
	assert.Equal(t, "2.47", VAT(d("12.345"), d("0.2")).String())
}

func TestComputeDeterministic(t *testing.T) {
	lines := []model.BookingPartLine{line("15", 2)}
	first := Compute(lines, d("50"), d("16"))
	for i := 0; i < 10; i++ {
		again := Compute(lines, d("50"), d("16"))
		require.True(t, first.Total.Equal(again.Total))
		require.True(t, first.Subtotal.Equal(again.Subtotal))
	}
	assert.True(t, d("30").Equal(first.PartsCost))
	assert.True(t, d("80").Equal(first.Subtotal))
	assert.True(t, d("16").Equal(first.VAT))
	assert.True(t, d("96").Equal(first.Total))
}
