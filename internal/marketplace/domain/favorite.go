package domain

import "time"

// Favorite is a bookmark of a listing by a user. The (UserID, ListingID)
// pair is unique; ID is only a row key.
type Favorite struct {
	ID        string
	UserID    string
	ListingID string
	CreatedAt time.Time
}
