package domain

import "time"

type Listing struct {
	ID            int64   `db:"id"`
	OwnerID       int64   `db:"owner_id"`
	Title         string  `db:"title"`
	Slug          string  `db:"slug"`
	Description   string  `db:"description"`
	Location      string  `db:"location"`
	PricePerNight float64 `db:"price_per_night"`

	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type UpdateListingInput struct {
	Title         *string
	Description   *string
	Location      *string
	PricePerNight *float64
}
