// Package vehicle looks up vehicle details by registration in the DVLA
// vehicle enquiry service so bookings can be pre-filled.
package vehicle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/erazemk/servis/internal/model"
)

// DefaultURL is the DVLA vehicle enquiry endpoint.
const DefaultURL = "https://driver-vehicle-licensing.api.gov.uk/vehicle-enquiry/v1/vehicles"

// Vehicle holds the attributes returned for a registration.
type Vehicle struct {
	Registration      string `json:"registrationNumber"`
	Make              string `json:"make"`
	Colour            string `json:"colour,omitempty"`
	FuelType          string `json:"fuelType,omitempty"`
	EngineCapacity    int64  `json:"engineCapacity,omitempty"`
	YearOfManufacture int64  `json:"yearOfManufacture,omitempty"`
	MOTStatus         string `json:"motStatus,omitempty"`
	TaxStatus         string `json:"taxStatus,omitempty"`
}

// Car converts v into the car block of a booking. The registry does not
// report a model, so Model is left empty.
func (v Vehicle) Car() model.Car {
	year := ""
	if v.YearOfManufacture > 0 {
		year = fmt.Sprint(v.YearOfManufacture)
	}
	return model.Car{
		Make:         v.Make,
		Year:         year,
		Registration: v.Registration,
	}
}

// LookupError is an unsuccessful answer from the registry.
type LookupError struct {
	Status  int
	Message string
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("vehicle lookup failed with status %d: %s", e.Status, e.Message)
}

// Client calls the registry.
type Client struct {
	APIKey string
	URL    string
	HTTP   *http.Client
}

// NewClient returns a client for the DVLA endpoint.
func NewClient(apiKey, url string) *Client {
	if url == "" {
		url = DefaultURL
	}
	return &Client{
		APIKey: apiKey,
		URL:    url,
		HTTP:   &http.Client{Timeout: 10 * time.Second},
	}
}

// Lookup fetches the vehicle registered as registration. Spaces are removed
// and letters upper-cased as the registry expects.
func (c *Client) Lookup(ctx context.Context, registration string) (*Vehicle, error) {
	reg := strings.ToUpper(strings.ReplaceAll(registration, " ", ""))
	if reg == "" {
		return nil, &model.ValidationError{Field: "registrationNumber", Message: "required"}
	}

	payload, err := json.Marshal(map[string]string{"registrationNumber": reg})
	if err != nil {
		return nil, fmt.Errorf("encoding lookup request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.URL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("building lookup request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-api-key", c.APIKey)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling vehicle registry: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("reading vehicle registry response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		msg := gjson.GetBytes(body, "errors.0.detail").String()
		if msg == "" {
			msg = gjson.GetBytes(body, "message").String()
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &LookupError{Status: resp.StatusCode, Message: msg}
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("vehicle registry returned invalid JSON")
	}
	return parseVehicle(body, reg), nil
}

func parseVehicle(body []byte, reg string) *Vehicle {
	r := gjson.ParseBytes(body)
	v := &Vehicle{
		Registration:      r.Get("registrationNumber").String(),
		Make:              r.Get("make").String(),
		Colour:            r.Get("colour").String(),
		FuelType:          r.Get("fuelType").String(),
		EngineCapacity:    r.Get("engineCapacity").Int(),
		YearOfManufacture: r.Get("yearOfManufacture").Int(),
		MOTStatus:         r.Get("motStatus").String(),
		TaxStatus:         r.Get("taxStatus").String(),
	}
	if v.Registration == "" {
		v.Registration = reg
	}
	return v
}
