package cost

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/erazemk/servis/internal/model"
)

// Policy selects how submitted cost fields are treated before a booking is
// stored.
type Policy string

const (
	// PolicyTrust stores the caller's figures as given.
	PolicyTrust Policy = "trust"
	// PolicyVerify rejects bookings whose figures disagree with their lines.
	PolicyVerify Policy = "verify"
	// PolicyRecompute overwrites the derived figures with computed ones.
	PolicyRecompute Policy = "recompute"
)

// ParsePolicy parses a policy name. The empty string selects PolicyTrust.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case "", PolicyTrust:
		return PolicyTrust, nil
	case PolicyVerify, PolicyRecompute:
		return Policy(s), nil
	}
	return "", fmt.Errorf("unknown cost policy %q", s)
}

// Checker applies a Policy to bookings. The zero value trusts the caller.
type Checker struct {
	Policy Policy
	// VATRate, when non-zero, makes PolicyRecompute derive VAT from the
	// subtotal instead of keeping the submitted amount.
	VATRate decimal.Decimal
}

// Apply enforces the policy on b, possibly rewriting its derived fields.
// Under PolicyVerify a mismatch is reported as a *model.ValidationError
// naming the first inconsistent field.
func (c Checker) Apply(b *model.Booking) error {
	switch c.Policy {
	case "", PolicyTrust:
		return nil
	case PolicyVerify:
		return verify(b)
	case PolicyRecompute:
		vat := b.VAT
		if !c.VATRate.IsZero() {
			vat = VAT(Subtotal(b.LabourCost, PartsCost(b.Parts)), c.VATRate)
		}
		bd := Compute(b.Parts, b.LabourCost, vat)
		b.PartsCost = bd.PartsCost
		b.Subtotal = bd.Subtotal
		b.VAT = bd.VAT
		b.Total = bd.Total
		return nil
	}
	return fmt.Errorf("unknown cost policy %q", c.Policy)
}

func verify(b *model.Booking) error {
	want := Of(b)
	checks := []struct {
		field     string
		got, want decimal.Decimal
	}{
		{"partsCost", b.PartsCost, want.PartsCost},
		{"subtotal", b.Subtotal, Subtotal(b.LabourCost, b.PartsCost)},
		{"total", b.Total, Total(b.Subtotal, b.VAT)},
	}
	for _, c := range checks {
		if !c.got.Equal(c.want) {
			return &model.ValidationError{
				Field:   c.field,
				Message: fmt.Sprintf("is %s, expected %s", c.got.String(), c.want.String()),
			}
		}
	}
	return nil
}
