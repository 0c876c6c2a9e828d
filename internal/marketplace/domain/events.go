package domain

import "time"

const (
	SubjectListingCreated  = "listing.created"
	SubjectListingUpdated  = "listing.updated"
	SubjectListingApproved = "listing.approved"
	SubjectListingRejected = "listing.rejected"
	SubjectListingDeleted  = "listing.deleted"
	SubjectUserDeleted     = "user.deleted"
)

type ListingEvent struct {
	ListingID string        `json:"listing_id"`
	OwnerID   string        `json:"owner_id"`
	Status    ListingStatus `json:"status"`
	At        time.Time     `json:"at"`
}

// ListingModeratedEvent carries what the seller notification needs so the
// subscriber does not have to read the listing back.
type ListingModeratedEvent struct {
	ListingID   string        `json:"listing_id"`
	OwnerID     string        `json:"owner_id"`
	Title       string        `json:"title"`
	SellerName  string        `json:"seller_name"`
	SellerEmail string        `json:"seller_email"`
	Status      ListingStatus `json:"status"`
	ModeratedBy string        `json:"moderated_by"`
	At          time.Time     `json:"at"`
}

type UserDeletedEvent struct {
	UserID          string    `json:"user_id"`
	DeletedBy       string    `json:"deleted_by"`
	ListingsDeleted int       `json:"listings_deleted"`
	IdentityDeleted bool      `json:"identity_deleted"`
	At              time.Time `json:"at"`
}
