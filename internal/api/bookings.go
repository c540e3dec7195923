package api

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/servis/internal/cost"
	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

// BookingsHandler handles booking endpoints.
type BookingsHandler struct {
	DB      *sql.DB
	Checker cost.Checker
}

// Create handles POST /api/bookings. The cost policy runs before anything is
// written.
func (h *BookingsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var b model.Booking
	if err := decodeJSON(r, &b); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Checker.Apply(&b); err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			jsonError(w, http.StatusBadRequest, verr.Error())
			return
		}
		slog.Error("failed to apply cost policy", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}

	saved, err := store.CreateBooking(r.Context(), h.DB, &b)
	if err != nil {
		storeError(w, err, "failed to save booking")
		return
	}

	slog.Info("booking created",
		"id", saved.ID,
		"registration", saved.Car.Registration,
		"total", saved.Total.String(),
	)
	jsonResponse(w, http.StatusCreated, saved)
}

// List handles GET /api/bookings. An empty or absent registration lists
// everything.
func (h *BookingsHandler) List(w http.ResponseWriter, r *http.Request) {
	filter := model.BookingFilter{Registration: r.URL.Query().Get("registration")}
	bookings, err := store.ListBookings(r.Context(), h.DB, filter)
	if err != nil {
		storeError(w, err, "failed to list bookings")
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}

// ByRegistration handles GET /api/bookings/{registration}.
func (h *BookingsHandler) ByRegistration(w http.ResponseWriter, r *http.Request) {
	bookings, err := store.FindBookingsByRegistration(r.Context(), h.DB, r.PathValue("registration"))
	if err != nil {
		storeError(w, err, "failed to find bookings")
		return
	}
	if bookings == nil {
		bookings = []model.Booking{}
	}
	jsonResponse(w, http.StatusOK, bookings)
}
