package handler

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"

	bookingserrors "boatsafari/internal/bookings/errors"
	"boatsafari/internal/bookings/repository"
	"boatsafari/internal/bookings/service"
	apperrors "boatsafari/pkg/errors"
	httputil "boatsafari/pkg/http"
	"boatsafari/pkg/logger"
)

type TripHandler struct {
	trips  repository.TripRepository
	ledger *service.CapacityLedger
	log    *logger.Logger
}

func NewTripHandler(trips repository.TripRepository, ledger *service.CapacityLedger, log *logger.Logger) *TripHandler {
	return &TripHandler{
		trips:  trips,
		ledger: ledger,
		log:    log,
	}
}

func (h *TripHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	trips, err := h.trips.FindAll(r.Context(), limit, offset)
	if err != nil {
		h.log.Error("Failed to list trips", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("Failed to retrieve trips", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	total, err := h.trips.Count(r.Context())
	if err != nil {
		h.log.Error("Failed to count trips", "error", err)
		if writeErr := httputil.WriteError(w, apperrors.Internal("Failed to count trips", err)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetAll", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WritePaginated(w, trips, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "GetAll", "operation", "WritePaginated", "error", err)
	}
}

func (h *TripHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	trip, err := h.trips.FindByID(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, h.mapTripError(err, id)); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "GetByID", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, trip); err != nil {
		h.log.Error("failed to write success response", "handler", "GetByID", "operation", "WriteSuccess", "error", err)
	}
}

// Availability reports how many seats remain on a trip right now,
// with lapsed holds already excluded.
func (h *TripHandler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")

	available, err := h.ledger.AvailableSeats(r.Context(), id)
	if err != nil {
		if writeErr := httputil.WriteError(w, err); writeErr != nil {
			h.log.Error("failed to write error response", "handler", "Availability", "operation", "WriteError", "error", writeErr)
		}
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{
		"trip_id":         id,
		"available_seats": available,
	}); err != nil {
		h.log.Error("failed to write success response", "handler", "Availability", "operation", "WriteSuccess", "error", err)
	}
}

func (h *TripHandler) mapTripError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrTripNotFound) {
		return apperrors.NotFoundWithID("Trip", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid trip ID format")
	}
	return apperrors.Internal("Failed to retrieve trip", err)
}

func (h *TripHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/trips", h.GetAll)
	router.GET("/api/v1/trips/id/:id", h.GetByID)
	router.GET("/api/v1/trips/id/:id/availability", h.Availability)
}
