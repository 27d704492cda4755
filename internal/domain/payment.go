package domain

import "time"

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "PENDING"
	PaymentStatusCompleted PaymentStatus = "COMPLETED"
	PaymentStatusCancelled PaymentStatus = "CANCELLED"
)

// Payment tracks a single Chapa transaction for a booking. TransactionID
// is the provider-facing tx_ref: assigned once at creation, never reused.
type Payment struct {
	ID            int64         `db:"id"`
	TransactionID string        `db:"transaction_id"`
	BookingID     int64         `db:"booking_id"`
	Amount        float64       `db:"amount"`
	Status        PaymentStatus `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

func (p *Payment) IsPending() bool {
	return p.Status == PaymentStatusPending
}

func (p *Payment) IsTerminal() bool {
	return p.Status == PaymentStatusCompleted || p.Status == PaymentStatusCancelled
}
