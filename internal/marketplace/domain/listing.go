package domain

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type ListingStatus string

const (
	StatusPending  ListingStatus = "pending"
	StatusApproved ListingStatus = "approved"
	StatusRejected ListingStatus = "rejected"
)

func (s ListingStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// CanTransitionTo reports whether moderation may move a listing from s to next.
// Approved and rejected are terminal.
func (s ListingStatus) CanTransitionTo(next ListingStatus) bool {
	return s == StatusPending && (next == StatusApproved || next == StatusRejected)
}

// Editable reports whether the owner may still change the listing fields.
func (s ListingStatus) Editable() bool {
	return s == StatusPending || s == StatusApproved
}

type FuelType string

const (
	FuelGasoline FuelType = "Gasoline"
	FuelDiesel   FuelType = "Diesel"
	FuelLPG      FuelType = "LPG"
	FuelElectric FuelType = "Electric"
	FuelHybrid   FuelType = "Hybrid"
)

func (f FuelType) IsValid() bool {
	switch f {
	case FuelGasoline, FuelDiesel, FuelLPG, FuelElectric, FuelHybrid:
		return true
	}
	return false
}

type Transmission string

const (
	TransmissionManual        Transmission = "Manual"
	TransmissionAutomatic     Transmission = "Automatic"
	TransmissionSemiAutomatic Transmission = "Semi-automatic"
)

func (t Transmission) IsValid() bool {
	switch t {
	case TransmissionManual, TransmissionAutomatic, TransmissionSemiAutomatic:
		return true
	}
	return false
}

const (
	MinListingYear   = 1900
	maxPriceDigits   = 10
	maxMileageDigits = 7
)

// SellerContact is copied from the owner's profile when the listing is
// created and is never refreshed afterwards.
type SellerContact struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

type Listing struct {
	ID           string        `json:"id"`
	Brand        string        `json:"brand"`
	Model        string        `json:"model"`
	Year         int           `json:"year"`
	Price        int64         `json:"price"`
	Mileage      int64         `json:"mileage"`
	FuelType     FuelType      `json:"fuel_type,omitempty"`
	Transmission Transmission  `json:"transmission,omitempty"`
	Description  string        `json:"description"`
	Images       []string      `json:"images"`
	OwnerID      string        `json:"owner_id"`
	Seller       SellerContact `json:"seller"`
	Status       ListingStatus `json:"status"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ListingFields is the owner-editable part of a listing.
type ListingFields struct {
	Brand        string       `json:"brand"`
	Model        string       `json:"model"`
	Year         int          `json:"year"`
	Price        int64        `json:"price"`
	Mileage      int64        `json:"mileage"`
	FuelType     FuelType     `json:"fuel_type,omitempty"`
	Transmission Transmission `json:"transmission,omitempty"`
	Description  string       `json:"description"`
	Images       []string     `json:"images"`
}

func (f *ListingFields) Normalize() {
	f.Brand = strings.TrimSpace(f.Brand)
	f.Model = strings.TrimSpace(f.Model)
	f.Description = strings.TrimSpace(f.Description)
	if f.Images == nil {
		f.Images = []string{}
	}
}

func (f ListingFields) Validate(now time.Time) error {
	if f.Brand == "" || f.Model == "" {
		return fmt.Errorf("%w: brand and model are required", ErrInvalidInput)
	}
	if f.Year < MinListingYear || f.Year > now.Year() {
		return fmt.Errorf("%w: year must be between %d and %d", ErrInvalidInput, MinListingYear, now.Year())
	}
	if f.Price <= 0 {
		return fmt.Errorf("%w: price must be greater than zero", ErrInvalidInput)
	}
	if len(strconv.FormatInt(f.Price, 10)) > maxPriceDigits {
		return fmt.Errorf("%w: price is too high", ErrInvalidInput)
	}
	if f.Mileage < 0 {
		return fmt.Errorf("%w: mileage cannot be negative", ErrInvalidInput)
	}
	if len(strconv.FormatInt(f.Mileage, 10)) > maxMileageDigits {
		return fmt.Errorf("%w: mileage is too high", ErrInvalidInput)
	}
	if f.FuelType != "" && !f.FuelType.IsValid() {
		return fmt.Errorf("%w: unknown fuel type %q", ErrInvalidInput, f.FuelType)
	}
	if f.Transmission != "" && !f.Transmission.IsValid() {
		return fmt.Errorf("%w: unknown transmission %q", ErrInvalidInput, f.Transmission)
	}
	return nil
}

// NewListing builds a pending listing owned by owner. Status is always pending.
func NewListing(id string, owner *Profile, fields ListingFields, now time.Time) *Listing {
	l := &Listing{
		ID:      id,
		OwnerID: owner.UserID,
		Seller: SellerContact{
			Name:  owner.FullName(),
			Phone: owner.Phone,
			Email: owner.Email,
		},
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	l.Apply(fields, now)
	return l
}

// Apply overwrites the editable fields and refreshes UpdatedAt. Status and
// owner are left untouched.
func (l *Listing) Apply(fields ListingFields, now time.Time) {
	l.Brand = fields.Brand
	l.Model = fields.Model
	l.Year = fields.Year
	l.Price = fields.Price
	l.Mileage = fields.Mileage
	l.FuelType = fields.FuelType
	l.Transmission = fields.Transmission
	l.Description = fields.Description
	l.Images = fields.Images
	l.UpdatedAt = now
}

func (l *Listing) Title() string {
	return strings.TrimSpace(l.Brand + " " + l.Model)
}

// VisibleTo reports whether actor may read a listing outside the public browse set.
func (l *Listing) VisibleTo(actor Actor) bool {
	return l.Status == StatusApproved || actor.IsAdmin() || actor.UserID == l.OwnerID
}
