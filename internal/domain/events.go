package domain

import "time"

// Event types carried on the payment_events topic.
const (
	EventPaymentCompleted = "PaymentCompleted"
	EventPaymentCancelled = "PaymentCancelled"
)

type PaymentCompletedEvent struct {
	TransactionID string    `json:"transaction_id"`
	BookingID     int64     `json:"booking_id"`
	Amount        float64   `json:"amount"`
	GuestEmail    string    `json:"guest_email"`
	GuestName     string    `json:"guest_name"`
	CompletedAt   time.Time `json:"completed_at"`
}

type PaymentCancelledEvent struct {
	TransactionID string    `json:"transaction_id"`
	BookingID     int64     `json:"booking_id"`
	Amount        float64   `json:"amount"`
	GuestEmail    string    `json:"guest_email"`
	CancelledAt   time.Time `json:"cancelled_at"`
}
