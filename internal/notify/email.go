package notify

import (
	"context"
	"errors"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/salonware/booking-engine/internal/booking"
	"github.com/salonware/booking-engine/internal/timeutil"
)

var errNoRecipient = errors.New("booking has no client email")

// EmailNotifier sends booking emails via unauthenticated SMTP
// (Mailpit-compatible in development).
type EmailNotifier struct {
	addr string
	from string
}

func NewEmailNotifier(host, port, from string) *EmailNotifier {
	from = strings.TrimSpace(from)
	if from == "" {
		from = "no-reply@salonware.local"
	}
	return &EmailNotifier{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
		from: from,
	}
}

func (n *EmailNotifier) NotifyConfirmation(_ context.Context, b *booking.Booking) error {
	return n.send(b, "Your booking is confirmed",
		fmt.Sprintf("Your appointment on %s at %s is confirmed.",
			timeutil.FormatDate(b.Date), b.Interval.Start))
}

func (n *EmailNotifier) NotifyCancellation(_ context.Context, b *booking.Booking) error {
	return n.send(b, "Your booking was cancelled",
		fmt.Sprintf("Your appointment on %s at %s has been cancelled.",
			timeutil.FormatDate(b.Date), b.Interval.Start))
}

func (n *EmailNotifier) NotifyReminder(_ context.Context, b *booking.Booking) error {
	return n.send(b, "Appointment reminder",
		fmt.Sprintf("Reminder: your appointment is on %s at %s.",
			timeutil.FormatDate(b.Date), b.Interval.Start))
}

func (n *EmailNotifier) send(b *booking.Booking, subject, body string) error {
	if b.ClientEmail == "" {
		return errNoRecipient
	}
	msg := buildMessage(n.from, b.ClientEmail, subject, body)
	return smtp.SendMail(n.addr, nil, n.from, []string{b.ClientEmail}, []byte(msg))
}

func buildMessage(from, to, subject, body string) string {
	// Minimal RFC 5322 message, enough for most relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		from,
		to,
		subject,
		body,
	)
}
