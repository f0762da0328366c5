package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/salonware/booking-engine/internal/booking"
	"github.com/salonware/booking-engine/internal/timeutil"
)

const (
	EventBookingConfirmed = "BOOKING_CONFIRMED"
	EventBookingCancelled = "BOOKING_CANCELLED"
	EventBookingReminder  = "BOOKING_REMINDER"
)

// KafkaNotifier publishes booking notification events to a Kafka topic.
// Downstream consumers (email, SMS, analytics) fan out from there.
type KafkaNotifier struct {
	writer *kafka.Writer
}

func NewKafkaNotifier(brokers []string, topic string) *KafkaNotifier {
	return &KafkaNotifier{
		writer: &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{},
			RequiredAcks: kafka.RequireOne,
			BatchTimeout: 50 * time.Millisecond,
		},
	}
}

func (n *KafkaNotifier) Close() error {
	return n.writer.Close()
}

type bookingEvent struct {
	BookingID   string `json:"booking_id"`
	ServiceID   string `json:"service_id"`
	StaffID     string `json:"staff_id"`
	Date        string `json:"date"`
	Start       string `json:"start"`
	End         string `json:"end"`
	Status      string `json:"status"`
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
}

func (n *KafkaNotifier) NotifyConfirmation(ctx context.Context, b *booking.Booking) error {
	return n.publish(ctx, EventBookingConfirmed, b)
}

func (n *KafkaNotifier) NotifyCancellation(ctx context.Context, b *booking.Booking) error {
	return n.publish(ctx, EventBookingCancelled, b)
}

func (n *KafkaNotifier) NotifyReminder(ctx context.Context, b *booking.Booking) error {
	return n.publish(ctx, EventBookingReminder, b)
}

func (n *KafkaNotifier) publish(ctx context.Context, eventType string, b *booking.Booking) error {
	payload, err := json.Marshal(bookingEvent{
		BookingID:   b.ID.String(),
		ServiceID:   b.ServiceID.String(),
		StaffID:     b.StaffID.String(),
		Date:        timeutil.FormatDate(b.Date),
		Start:       b.Interval.Start.String(),
		End:         b.Interval.End.String(),
		Status:      string(b.Status),
		ClientName:  b.ClientName,
		ClientEmail: b.ClientEmail,
	})
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}

	msg := kafka.Message{
		Key:   []byte(b.ID.String()),
		Value: payload,
		Headers: []kafka.Header{
			{Key: "event_id", Value: []byte(uuid.NewString())},
			{Key: "event_type", Value: []byte(eventType)},
		},
	}

	if err := n.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish %s event: %w", eventType, err)
	}
	return nil
}
