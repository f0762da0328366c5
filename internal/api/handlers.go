package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/salonware/booking-engine/internal/booking"
	"github.com/salonware/booking-engine/internal/timeutil"
)

func availabilityHandler(engine *booking.Engine) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		serviceID, err := uuid.Parse(q.Get("service"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service must be a valid UUID")
			return
		}

		selector := booking.AnyStaff()
		if staffParam := q.Get("staff"); staffParam != "" && staffParam != "any" {
			staffID, err := uuid.Parse(staffParam)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid_staff_id", "staff must be a valid UUID or \"any\"")
				return
			}
			selector = booking.SelectStaff(staffID)
		}

		date, err := timeutil.ParseDate(q.Get("date"), time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		slots, err := engine.ListSlots(r.Context(), serviceID, selector, date)
		if err != nil {
			handleListError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, AvailabilityResponse{
			Date:  timeutil.FormatDate(date),
			Slots: slots,
		})
	}
}

func createBookingHandler(adm *booking.Admission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req CreateBookingRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_request_body", "could not parse JSON")
			return
		}

		serviceID, err := uuid.Parse(req.ServiceID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_service_id", "service_id must be a valid UUID")
			return
		}

		staffID, err := uuid.Parse(req.StaffID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_staff_id", "staff_id must be a valid UUID")
			return
		}

		date, err := timeutil.ParseDate(req.Date, time.Local)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_date", "date must be YYYY-MM-DD")
			return
		}

		start, err := timeutil.ParseTimeOfDay(req.Start)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_start", "start must be HH:MM")
			return
		}

		b, err := adm.Admit(r.Context(), booking.AdmitRequest{
			ServiceID:   serviceID,
			StaffID:     staffID,
			Date:        date,
			Start:       start,
			ClientName:  req.ClientName,
			ClientEmail: req.ClientEmail,
			Notes:       req.Notes,
		})
		if err != nil {
			handleAdmitError(w, err)
			return
		}

		writeJSON(w, http.StatusCreated, toBookingResponse(b))
	}
}

func getBookingHandler(adm *booking.Admission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		b, err := adm.Get(r.Context(), id)
		if err != nil {
			handleCancelError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func cancelBookingHandler(adm *booking.Admission) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := uuid.Parse(chi.URLParam(r, "id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_booking_id", "id must be a valid UUID")
			return
		}

		b, err := adm.Cancel(r.Context(), id)
		if err != nil {
			handleCancelError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, toBookingResponse(b))
	}
}

func handleListError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, booking.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidBusinessHours):
		writeError(w, http.StatusInternalServerError, "invalid_business_hours", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleAdmitError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, "service_not_found", err.Error())
	case errors.Is(err, booking.ErrStaffNotFound):
		writeError(w, http.StatusNotFound, "staff_not_found", err.Error())
	case errors.Is(err, booking.ErrInvalidService):
		writeError(w, http.StatusUnprocessableEntity, "invalid_service", err.Error())
	case errors.Is(err, booking.ErrPastBooking):
		writeError(w, http.StatusConflict, "past_booking", err.Error())
	case errors.Is(err, booking.ErrOutsideBusinessHours):
		writeError(w, http.StatusConflict, "outside_business_hours", err.Error())
	case errors.Is(err, booking.ErrOutsideStaffAvailability):
		writeError(w, http.StatusConflict, "outside_staff_availability", err.Error())
	case errors.Is(err, booking.ErrBookingConflict):
		writeError(w, http.StatusConflict, "booking_conflict", err.Error())
	case errors.Is(err, booking.ErrStaffBeingBooked):
		writeError(w, http.StatusConflict, "staff_being_booked", "another booking for this staff is in progress, please retry shortly")
	case errors.Is(err, booking.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}

func handleCancelError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, booking.ErrBookingNotFound):
		writeError(w, http.StatusNotFound, "booking_not_found", err.Error())
	case errors.Is(err, booking.ErrAlreadyCancelled):
		writeError(w, http.StatusConflict, "already_cancelled", err.Error())
	case errors.Is(err, booking.ErrInvalidStatusTransition):
		writeError(w, http.StatusConflict, "invalid_status_transition", err.Error())
	case errors.Is(err, booking.ErrStorageUnavailable):
		writeError(w, http.StatusServiceUnavailable, "storage_unavailable", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
