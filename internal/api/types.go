package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/salonware/booking-engine/internal/booking"
	"github.com/salonware/booking-engine/internal/timeutil"
)

type CreateBookingRequest struct {
	ServiceID   string `json:"service_id"`
	StaffID     string `json:"staff_id"`
	Date        string `json:"date"`  // YYYY-MM-DD
	Start       string `json:"start"` // HH:MM
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	Notes       string `json:"notes,omitempty"`
}

type BookingResponse struct {
	ID          uuid.UUID  `json:"id"`
	ServiceID   uuid.UUID  `json:"service_id"`
	StaffID     uuid.UUID  `json:"staff_id"`
	Date        string     `json:"date"`
	Start       string     `json:"start"`
	End         string     `json:"end"`
	Status      string     `json:"status"`
	ClientName  string     `json:"client_name,omitempty"`
	ClientEmail string     `json:"client_email,omitempty"`
	Notes       string     `json:"notes,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}

func toBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:          b.ID,
		ServiceID:   b.ServiceID,
		StaffID:     b.StaffID,
		Date:        timeutil.FormatDate(b.Date),
		Start:       b.Interval.Start.String(),
		End:         b.Interval.End.String(),
		Status:      string(b.Status),
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
		Notes:       b.Notes,
		CreatedAt:   b.CreatedAt,
		CancelledAt: b.CancelledAt,
	}
}

type AvailabilityResponse struct {
	Date  string         `json:"date"`
	Slots []booking.Slot `json:"slots"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
