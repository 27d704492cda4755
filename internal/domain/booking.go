package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Booking struct {
	ID         int64         `db:"id"`
	ListingID  int64         `db:"listing_id"`
	GuestID    int64         `db:"guest_id"`
	StartDate  time.Time     `db:"start_date"`
	EndDate    time.Time     `db:"end_date"`
	TotalPrice float64       `db:"total_price"`
	Status     BookingStatus `db:"status"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Cancellable reports whether the booking may still be cancelled by the
// guest; CANCELLED is terminal.
func (b *Booking) Cancellable() bool {
	return b.Status == BookingStatusPending || b.Status == BookingStatusConfirmed
}

func (b *Booking) Nights() int {
	return int(b.EndDate.Sub(b.StartDate).Hours() / 24)
}
