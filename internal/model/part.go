package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Part is a priced replacement part held in the parts ledger.
// Price is expected to equal Cost + Profit but nothing enforces it.
type Part struct {
	ID         int64           `json:"id"`
	PartNumber string          `json:"partNumber"`
	Name       string          `json:"name"`
	Supplier   string          `json:"supplier"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	Price      decimal.Decimal `json:"price"`
	Qty        int             `json:"qty"`
	Booked     string          `json:"booked,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// PartInput holds the caller-supplied fields of a new part.
type PartInput struct {
	PartNumber string          `json:"partNumber"`
	Name       string          `json:"name"`
	Supplier   string          `json:"supplier"`
	Cost       decimal.Decimal `json:"cost"`
	Profit     decimal.Decimal `json:"profit"`
	Price      decimal.Decimal `json:"price"`
	Qty        int             `json:"qty"`
	Booked     string          `json:"booked"`
}

// LineValue returns Price * Qty.
func (p Part) LineValue() decimal.Decimal {
	return p.Price.Mul(decimal.NewFromInt(int64(p.Qty)))
}

// Line snapshots the part's identity and pricing into a booking line
// carrying qty units.
func (p Part) Line(qty int) BookingPartLine {
	return BookingPartLine{
		PartNumber: p.PartNumber,
		Name:       p.Name,
		Supplier:   p.Supplier,
		Cost:       NewLineValue(p.Cost),
		Profit:     NewLineValue(p.Profit),
		Price:      NewLineValue(p.Price),
		Qty:        NewLineQty(qty),
	}
}
