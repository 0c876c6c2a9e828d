package domain

import (
	"context"
	"time"
)

type ListingRepository interface {
	Create(ctx context.Context, listing *Listing) error
	FindByID(ctx context.Context, id string) (*Listing, error)
	FindByStatus(ctx context.Context, status ListingStatus) ([]*Listing, error)
	FindByOwner(ctx context.Context, ownerID string) ([]*Listing, error)
	// Update overwrites the editable fields only; status and owner are kept.
	Update(ctx context.Context, listing *Listing) error
	// TransitionStatus moves a listing from one status to another atomically.
	// It returns ErrInvalidTransition when the stored status is not from.
	TransitionStatus(ctx context.Context, id string, from, to ListingStatus, at time.Time) error
	Delete(ctx context.Context, id string) error
}

type FavoriteRepository interface {
	Exists(ctx context.Context, userID, listingID string) (bool, error)
	Add(ctx context.Context, favorite *Favorite) error
	FindIDs(ctx context.Context, userID, listingID string) ([]string, error)
	DeleteByID(ctx context.Context, id string) error
	ListingIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *Profile) error
	FindByID(ctx context.Context, userID string) (*Profile, error)
	FindAll(ctx context.Context) ([]*Profile, error)
	// Update writes the self-service fields; role is not touched.
	Update(ctx context.Context, profile *Profile) error
	UpdateRole(ctx context.Context, userID string, role Role, at time.Time) error
	Delete(ctx context.Context, userID string) error
}

type ListingCache interface {
	Get(ctx context.Context, id string) (*Listing, error)
	Set(ctx context.Context, listing *Listing) error
	Delete(ctx context.Context, id string) error
}

type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// BlobStore stores listing images and hands out public URLs for them.
type BlobStore interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) (string, error)
	PublicURL(ref string) string
}

// IdentityProvider is the external authentication service.
type IdentityProvider interface {
	CreateIdentity(ctx context.Context, email, password string) (*Identity, error)
	Authenticate(ctx context.Context, email, password string) (*Session, error)
	VerifySession(ctx context.Context, token string) (*Session, error)
	EndSession(ctx context.Context, session *Session) error
	// DeleteIdentity removes the identity behind an active session.
	DeleteIdentity(ctx context.Context, session *Session) error
	// AdminDeleteIdentity removes any identity with elevated credentials.
	AdminDeleteIdentity(ctx context.Context, userID string) error
}

type Mailer interface {
	SendListingModeratedEmail(to, name, title string, status ListingStatus) error
}
