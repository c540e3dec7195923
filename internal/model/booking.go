package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Car identifies the vehicle being serviced. Registration is the lookup key
// and is stored in the case it was supplied.
type Car struct {
	Make         string `json:"make"`
	Model        string `json:"model"`
	Year         string `json:"year"`
	Registration string `json:"registration"`
}

// Customer holds free-text contact details.
type Customer struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Postcode string `json:"postcode"`
	Address  string `json:"address"`
}

// Service is the chosen service category and subcategory.
type Service struct {
	Label string `json:"label"`
	Sub   string `json:"sub"`
}

// BookingPartLine is a copy of a part's pricing taken when the booking was
// made. Values are kept as sent; missing or non-numeric ones count as zero.
type BookingPartLine struct {
	PartNumber string    `json:"partNumber"`
	Name       string    `json:"name"`
	Supplier   string    `json:"supplier"`
	Cost       LineValue `json:"cost"`
	Profit     LineValue `json:"profit"`
	Price      LineValue `json:"price"`
	Qty        LineValue `json:"qty"`
}

// Booking is one vehicle-service job with its cost breakdown.
type Booking struct {
	ID          int64             `json:"id"`
	Car         Car               `json:"car"`
	Customer    Customer          `json:"customer"`
	Service     Service           `json:"service"`
	Parts       []BookingPartLine `json:"parts"`
	LabourHours decimal.Decimal   `json:"labourHours"`
	LabourCost  decimal.Decimal   `json:"labourCost"`
	PartsCost   decimal.Decimal   `json:"partsCost"`
	Subtotal    decimal.Decimal   `json:"subtotal"`
	VAT         decimal.Decimal   `json:"vat"`
	Total       decimal.Decimal   `json:"total"`
	Date        string            `json:"date"`
	Time        string            `json:"time"`
	Category    string            `json:"category"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// BookingFilter narrows a booking listing. An empty Registration means no
// filter.
type BookingFilter struct {
	Registration string
}
