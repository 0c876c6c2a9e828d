package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/middleware"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/usecase"
)

type AuthService interface {
	Register(ctx context.Context, in usecase.RegisterInput) (*domain.Profile, error)
	Login(ctx context.Context, email, password string) (*usecase.LoginResult, error)
	Logout(ctx context.Context, session *domain.Session) error
}

type AccountService interface {
	DeleteUserCascade(ctx context.Context, actor domain.Actor, userID string) error
}

type ProfileService interface {
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	UpdateProfile(ctx context.Context, actor domain.Actor, userID string, update domain.ProfileUpdate) (*domain.Profile, error)
	SetRole(ctx context.Context, actor domain.Actor, userID string, role domain.Role) error
	ListProfiles(ctx context.Context, actor domain.Actor) ([]*domain.Profile, error)
}

type ListingService interface {
	CreateListing(ctx context.Context, actor domain.Actor, fields domain.ListingFields) (*domain.Listing, error)
	GetListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error)
	ListApproved(ctx context.Context, filter domain.ListingFilter) ([]*domain.Listing, error)
	ListPending(ctx context.Context, actor domain.Actor) ([]*domain.Listing, error)
	ListByOwner(ctx context.Context, ownerID string) ([]*domain.Listing, error)
	UpdateListing(ctx context.Context, actor domain.Actor, id string, fields domain.ListingFields) (*domain.Listing, error)
	ApproveListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error)
	RejectListing(ctx context.Context, actor domain.Actor, id string) (*domain.Listing, error)
	DeleteListing(ctx context.Context, actor domain.Actor, id string) error
}

type FavoriteService interface {
	AddFavorite(ctx context.Context, userID, listingID string) error
	RemoveFavorite(ctx context.Context, userID, listingID string) error
	ListFavoriteListingIDs(ctx context.Context, userID string) ([]string, error)
}

type PhotoService interface {
	UploadListingImage(ctx context.Context, actor domain.Actor, data []byte) (string, error)
}

func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: malformed request body: %v", domain.ErrInvalidInput, err)
	}
	return nil
}

// currentActor is only empty when a route was mounted without Auth.
func currentActor(r *http.Request) (domain.Actor, error) {
	actor, ok := middleware.ActorFromContext(r.Context())
	if !ok {
		return domain.Actor{}, domain.ErrNoCurrentUser
	}
	return actor, nil
}

// listingsOrEmpty keeps list responses as JSON arrays rather than null.
func listingsOrEmpty(listings []*domain.Listing) []*domain.Listing {
	if listings == nil {
		return []*domain.Listing{}
	}
	return listings
}
