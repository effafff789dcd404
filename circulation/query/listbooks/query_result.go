package listbooks

import (
	"github.com/google/uuid"

	"libraria/inventory"
	"libraria/reviews"
)

// BookInfo represents one book in the listing, with the availability the
// caller should display and the reviews attached as-is.
type BookInfo struct {
	BookID            uuid.UUID
	Title             string
	Author            string
	Year              int
	Category          string
	TotalQuantity     int
	AvailableQuantity int
	Status            inventory.BookStatus
	Reviews           []reviews.Review
}

// Books represents the query result containing all books.
type Books struct {
	Books []BookInfo
	Count int
}
