package model

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// LineValue is a booking line's cost, profit, price or qty exactly as the
// client sent it. Any JSON value is accepted and its text kept; text that is
// not a number counts as zero in calculations. The zero value means absent.
type LineValue struct {
	Raw   string
	Valid bool
}

// NewLineValue returns a LineValue holding d.
func NewLineValue(d decimal.Decimal) LineValue {
	return LineValue{Raw: d.String(), Valid: true}
}

// NewLineQty returns a LineValue holding n.
func NewLineQty(n int) LineValue {
	return LineValue{Raw: strconv.Itoa(n), Valid: true}
}

// LineText returns a LineValue holding s verbatim.
func LineText(s string) LineValue {
	return LineValue{Raw: s, Valid: true}
}

// Decimal parses the value. The result is invalid when the value is absent
// or not a number.
func (v LineValue) Decimal() decimal.NullDecimal {
	if !v.Valid {
		return decimal.NullDecimal{}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(v.Raw))
	if err != nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(d)
}

// UnmarshalJSON never fails on well-formed JSON. Strings are kept unquoted,
// other values as their JSON text, and null leaves the value absent.
func (v *LineValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*v = LineValue{}
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = LineText(s)
		return nil
	}
	*v = LineText(string(b))
	return nil
}

// MarshalJSON writes numbers as JSON numbers and anything else as a string.
func (v LineValue) MarshalJSON() ([]byte, error) {
	if !v.Valid {
		return []byte("null"), nil
	}
	raw := strings.TrimSpace(v.Raw)
	if v.Decimal().Valid && json.Valid([]byte(raw)) {
		return []byte(raw), nil
	}
	return json.Marshal(v.Raw)
}

// Value stores the text as given, or NULL when absent.
func (v LineValue) Value() (driver.Value, error) {
	if !v.Valid {
		return nil, nil
	}
	return v.Raw, nil
}

// Scan reads a stored value back.
func (v *LineValue) Scan(src any) error {
	switch s := src.(type) {
	case nil:
		*v = LineValue{}
	case string:
		*v = LineText(s)
	case []byte:
		*v = LineText(string(s))
	case int64:
		*v = LineText(strconv.FormatInt(s, 10))
	case float64:
		*v = LineText(strconv.FormatFloat(s, 'f', -1, 64))
	default:
		return fmt.Errorf("scanning line value: unsupported type %T", src)
	}
	return nil
}
