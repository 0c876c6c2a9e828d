package mongodb

import (
	"time"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/identity/local"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
)

type sellerDocument struct {
	Name  string `bson:"name"`
	Phone string `bson:"phone"`
	Email string `bson:"email"`
}

type listingDocument struct {
	ID           string         `bson:"_id"`
	Brand        string         `bson:"brand"`
	Model        string         `bson:"model"`
	Year         int            `bson:"year"`
	Price        int64          `bson:"price"`
	Mileage      int64          `bson:"mileage"`
	FuelType     string         `bson:"fuel_type,omitempty"`
	Transmission string         `bson:"transmission,omitempty"`
	Description  string         `bson:"description"`
	Images       []string       `bson:"images"`
	OwnerID      string         `bson:"owner_id"`
	Seller       sellerDocument `bson:"seller"`
	Status       string         `bson:"status"`
	CreatedAt    time.Time      `bson:"created_at"`
	UpdatedAt    time.Time      `bson:"updated_at"`
}

type favoriteDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ListingID string    `bson:"listing_id"`
	CreatedAt time.Time `bson:"created_at"`
}

type profileDocument struct {
	UserID    string    `bson:"_id"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Phone     string    `bson:"phone"`
	Email     string    `bson:"email"`
	Role      string    `bson:"role,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type credentialDocument struct {
	UserID       string    `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash string    `bson:"password_hash"`
	Disabled     bool      `bson:"disabled"`
	CreatedAt    time.Time `bson:"created_at"`
}

func fromDomainListing(l *domain.Listing) *listingDocument {
	images := l.Images
	if images == nil {
		images = []string{}
	}
	return &listingDocument{
		ID:           l.ID,
		Brand:        l.Brand,
		Model:        l.Model,
		Year:         l.Year,
		Price:        l.Price,
		Mileage:      l.Mileage,
		FuelType:     string(l.FuelType),
		Transmission: string(l.Transmission),
		Description:  l.Description,
		Images:       images,
		OwnerID:      l.OwnerID,
		Seller: sellerDocument{
			Name:  l.Seller.Name,
			Phone: l.Seller.Phone,
			Email: l.Seller.Email,
		},
		Status:    string(l.Status),
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

func (d *listingDocument) toDomain() *domain.Listing {
	images := d.Images
	if images == nil {
		images = []string{}
	}
	return &domain.Listing{
		ID:           d.ID,
		Brand:        d.Brand,
		Model:        d.Model,
		Year:         d.Year,
		Price:        d.Price,
		Mileage:      d.Mileage,
		FuelType:     domain.FuelType(d.FuelType),
		Transmission: domain.Transmission(d.Transmission),
		Description:  d.Description,
		Images:       images,
		OwnerID:      d.OwnerID,
		Seller: domain.SellerContact{
			Name:  d.Seller.Name,
			Phone: d.Seller.Phone,
			Email: d.Seller.Email,
		},
		Status:    domain.ListingStatus(d.Status),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromDomainFavorite(f *domain.Favorite) *favoriteDocument {
	return &favoriteDocument{
		ID:        f.ID,
		UserID:    f.UserID,
		ListingID: f.ListingID,
		CreatedAt: f.CreatedAt,
	}
}

func fromDomainProfile(p *domain.Profile) *profileDocument {
	return &profileDocument{
		UserID:    p.UserID,
		FirstName: p.FirstName,
		LastName:  p.LastName,
		Phone:     p.Phone,
		Email:     p.Email,
		Role:      string(p.Role),
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func (d *profileDocument) toDomain() *domain.Profile {
	return &domain.Profile{
		UserID:    d.UserID,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Phone:     d.Phone,
		Email:     d.Email,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

func fromCredential(c *local.Credential) *credentialDocument {
	return &credentialDocument{
		UserID:       c.UserID,
		Email:        c.Email,
		PasswordHash: c.PasswordHash,
		Disabled:     c.Disabled,
		CreatedAt:    c.CreatedAt,
	}
}

func (d *credentialDocument) toCredential() *local.Credential {
	return &local.Credential{
		UserID:       d.UserID,
		Email:        d.Email,
		PasswordHash: d.PasswordHash,
		Disabled:     d.Disabled,
		CreatedAt:    d.CreatedAt,
	}
}
