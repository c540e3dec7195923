// Package cost derives a booking's cost breakdown from its part lines and
// labour figures. Everything here is pure and deterministic.
package cost

import (
	"github.com/shopspring/decimal"

	"github.com/erazemk/servis/internal/model"
)

// Breakdown holds the derived monetary fields of a booking.
type Breakdown struct {
	PartsCost decimal.Decimal `json:"partsCost"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	VAT       decimal.Decimal `json:"vat"`
	Total     decimal.Decimal `json:"total"`
}

// PartsCost sums price * qty over lines. A line whose price or qty is
// missing or not a number contributes zero.
func PartsCost(lines []model.BookingPartLine) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		price, qty := l.Price.Decimal(), l.Qty.Decimal()
		if !price.Valid || !qty.Valid {
			continue
		}
		sum = sum.Add(price.Decimal.Mul(qty.Decimal))
	}
	return sum
}

// Subtotal returns labourCost + partsCost.
func Subtotal(labourCost, partsCost decimal.Decimal) decimal.Decimal {
	return labourCost.Add(partsCost)
}

// Total returns subtotal + vat. VAT is supplied by the caller.
func Total(subtotal, vat decimal.Decimal) decimal.Decimal {
	return subtotal.Add(vat)
}

// VAT derives a VAT amount from a rate such as 0.2, rounded to pennies.
// Only the recompute policy with a configured rate uses it.
func VAT(subtotal, rate decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(rate).Round(2)
}

// Compute derives the full breakdown for lines and labour with a given VAT
// amount.
func Compute(lines []model.BookingPartLine, labourCost, vat decimal.Decimal) Breakdown {
	parts := PartsCost(lines)
	sub := Subtotal(labourCost, parts)
	return Breakdown{
		PartsCost: parts,
		Subtotal:  sub,
		VAT:       vat,
		Total:     Total(sub, vat),
	}
}

// Of returns the breakdown a booking should carry given its lines, labour
// cost and VAT as stored.
func Of(b *model.Booking) Breakdown {
	return Compute(b.Parts, b.LabourCost, b.VAT)
}
