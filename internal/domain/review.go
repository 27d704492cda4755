package domain

import "time"

type Review struct {
	ID        int64  `db:"id"`
	ListingID int64  `db:"listing_id"`
	AuthorID  int64  `db:"author_id"`
	Rating    int32  `db:"rating"`
	Comment   string `db:"comment"`

	CreatedAt time.Time `db:"created_at"`
}
