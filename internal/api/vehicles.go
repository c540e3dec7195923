package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/vehicle"
)

// VehicleLookup finds vehicle details by registration.
type VehicleLookup interface {
	Lookup(ctx context.Context, registration string) (*vehicle.Vehicle, error)
}

// VehiclesHandler proxies registration lookups to the vehicle registry.
type VehiclesHandler struct {
	Vehicles VehicleLookup
}

type lookupRequest struct {
	RegistrationNumber string `json:"registrationNumber"`
}

type lookupResponse struct {
	Vehicle *vehicle.Vehicle `json:"vehicle"`
	Car     model.Car        `json:"car"`
}

// Lookup handles POST /api/vehicles/lookup.
func (h *VehiclesHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	if h.Vehicles == nil {
		jsonError(w, http.StatusServiceUnavailable, "vehicle lookup not configured")
		return
	}

	var req lookupRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	v, err := h.Vehicles.Lookup(r.Context(), req.RegistrationNumber)
	if err != nil {
		var verr *model.ValidationError
		var lerr *vehicle.LookupError
		switch {
		case errors.As(err, &verr):
			jsonError(w, http.StatusBadRequest, verr.Error())
		case errors.As(err, &lerr):
			jsonError(w, lerr.Status, lerr.Message)
		default:
			slog.Error("vehicle lookup failed", "error", err)
			jsonErrorDetails(w, http.StatusBadGateway, "vehicle lookup failed", err.Error())
		}
		return
	}

	jsonResponse(w, http.StatusOK, lookupResponse{Vehicle: v, Car: v.Car()})
}
