package domain

import "strings"

// ListingFilter narrows an already fetched set of listings. Nil bounds and
// empty strings mean "no constraint"; ranges are inclusive.
type ListingFilter struct {
	Brand        string
	Model        string
	MinYear      *int
	MaxYear      *int
	MinPrice     *int64
	MaxPrice     *int64
	MinMileage   *int64
	MaxMileage   *int64
	FuelType     FuelType
	Transmission Transmission
}

func (f ListingFilter) IsZero() bool {
	return f.Brand == "" && f.Model == "" &&
		f.MinYear == nil && f.MaxYear == nil &&
		f.MinPrice == nil && f.MaxPrice == nil &&
		f.MinMileage == nil && f.MaxMileage == nil &&
		f.FuelType == "" && f.Transmission == ""
}

func (f ListingFilter) Matches(l *Listing) bool {
	if f.Brand != "" && !strings.EqualFold(l.Brand, f.Brand) {
		return false
	}
	if f.Model != "" && !strings.EqualFold(l.Model, f.Model) {
		return false
	}
	if f.MinYear != nil && l.Year < *f.MinYear {
		return false
	}
	if f.MaxYear != nil && l.Year > *f.MaxYear {
		return false
	}
	if f.MinPrice != nil && l.Price < *f.MinPrice {
		return false
	}
	if f.MaxPrice != nil && l.Price > *f.MaxPrice {
		return false
	}
	if f.MinMileage != nil && l.Mileage < *f.MinMileage {
		return false
	}
	if f.MaxMileage != nil && l.Mileage > *f.MaxMileage {
		return false
	}
	if f.FuelType != "" && l.FuelType != f.FuelType {
		return false
	}
	if f.Transmission != "" && l.Transmission != f.Transmission {
		return false
	}
	return true
}

// Apply returns the matching listings in their original order. The input
// slice is not modified.
func (f ListingFilter) Apply(listings []*Listing) []*Listing {
	out := make([]*Listing, 0, len(listings))
	for _, l := range listings {
		if f.Matches(l) {
			out = append(out, l)
		}
	}
	return out
}
