package handler

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestListingHandler() (*ListingHandler, *MockListingService, *metrics.MetricsManager) {
	listings := new(MockListingService)
	m := metrics.NewMetricsManager("test")
	return NewListingHandler(listings, m, logger.NewNop()), listings, m
}

func corolla() domain.ListingFields {
	return domain.ListingFields{
		Brand:        "Toyota",
		Model:        "Corolla",
		Year:         2018,
		Price:        8500000,
		Mileage:      92000,
		FuelType:     domain.FuelGasoline,
		Transmission: domain.TransmissionAutomatic,
		Description:  "One owner",
		Images:       []string{"http://localhost:9000/car-images/car_images/a.jpg"},
	}
}

func TestParseFilter(t *testing.T) {
	t.Run("full query", func(t *testing.T) {
		q, err := url.ParseQuery("brand=toyota&model=Corolla&min_year=2015&max_year=2020&min_price=1000&max_price=9000000&min_mileage=0&max_mileage=150000&fuel_type=Hybrid&transmission=Manual")
		require.NoError(t, err)

		f, err := parseFilter(q)
		require.NoError(t, err)
		assert.Equal(t, "toyota", f.Brand)
		assert.Equal(t, 2015, *f.MinYear)
		assert.Equal(t, 2020, *f.MaxYear)
		assert.Equal(t, int64(9000000), *f.MaxPrice)
		assert.Equal(t, int64(0), *f.MinMileage)
		assert.Equal(t, domain.FuelHybrid, f.FuelType)
		assert.Equal(t, domain.TransmissionManual, f.Transmission)
	})

	t.Run("empty query", func(t *testing.T) {
		f, err := parseFilter(url.Values{})
		require.NoError(t, err)
		assert.True(t, f.IsZero())
	})

	testCases := []string{"min_year=abc", "max_price=1.5", "fuel_type=Steam", "transmission=CVT"}
	for _, raw := range testCases {
		t.Run("invalid "+raw, func(t *testing.T) {
			q, _ := url.ParseQuery(raw)
			_, err := parseFilter(q)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}
}

func TestListingHandler_Browse(t *testing.T) {
	h, listings, _ := newTestListingHandler()
	year := 2015
	listings.On("ListApproved", mock.Anything, domain.ListingFilter{Brand: "Toyota", MinYear: &year}).
		Return([]*domain.Listing{{ID: "l1", Brand: "Toyota", Status: domain.StatusApproved}}, nil).Once()

	rec := httptest.NewRecorder()
	h.Browse(rec, newRequest(t, http.MethodGet, "/api/listings?brand=Toyota&min_year=2015", nil, &userActor, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	var got []domain.Listing
	decode(t, rec, &got)
	require.Len(t, got, 1)
	assert.Equal(t, "l1", got[0].ID)

	rec = httptest.NewRecorder()
	h.Browse(rec, newRequest(t, http.MethodGet, "/api/listings?max_mileage=lots", nil, &userActor, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	listings.AssertExpectations(t)
}

func TestListingHandler_Create(t *testing.T) {
	h, listings, m := newTestListingHandler()
	fields := corolla()

	listings.On("CreateListing", mock.Anything, userActor, fields).
		Return(&domain.Listing{ID: "l1", OwnerID: "u1", Status: domain.StatusPending}, nil).Once()
	rec := httptest.NewRecorder()
	h.Create(rec, newRequest(t, http.MethodPost, "/api/listings", fields, &userActor, nil))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListingsCreated))

	fields.Year = 1800
	listings.On("CreateListing", mock.Anything, userActor, fields).Return(nil, domain.ErrInvalidInput).Once()
	rec = httptest.NewRecorder()
	h.Create(rec, newRequest(t, http.MethodPost, "/api/listings", fields, &userActor, nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ListingsCreated))

	listings.AssertExpectations(t)
}

func TestListingHandler_GetUpdateDelete(t *testing.T) {
	h, listings, _ := newTestListingHandler()
	params := map[string]string{"id": "l1"}

	listings.On("GetListing", mock.Anything, userActor, "l1").Return(nil, domain.ErrListingNotFound).Once()
	rec := httptest.NewRecorder()
	h.Get(rec, newRequest(t, http.MethodGet, "/api/listings/l1", nil, &userActor, params))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	fields := corolla()
	listings.On("UpdateListing", mock.Anything, userActor, "l1", fields).Return(nil, domain.ErrInvalidTransition).Once()
	rec = httptest.NewRecorder()
	h.Update(rec, newRequest(t, http.MethodPut, "/api/listings/l1", fields, &userActor, params))
	assert.Equal(t, http.StatusConflict, rec.Code)

	listings.On("DeleteListing", mock.Anything, userActor, "l1").Return(domain.ErrForbidden).Once()
	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(t, http.MethodDelete, "/api/listings/l1", nil, &userActor, params))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	listings.On("DeleteListing", mock.Anything, adminActor, "l1").Return(nil).Once()
	rec = httptest.NewRecorder()
	h.Delete(rec, newRequest(t, http.MethodDelete, "/api/listings/l1", nil, &adminActor, params))
	assert.Equal(t, http.StatusNoContent, rec.Code)

	listings.AssertExpectations(t)
}

func TestListingHandler_Mine(t *testing.T) {
	h, listings, _ := newTestListingHandler()
	listings.On("ListByOwner", mock.Anything, "u1").Return([]*domain.Listing{}, nil).Once()

	rec := httptest.NewRecorder()
	h.Mine(rec, newRequest(t, http.MethodGet, "/api/me/listings", nil, &userActor, nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())

	listings.AssertExpectations(t)
}

func TestListingHandler_Moderation(t *testing.T) {
	h, listings, m := newTestListingHandler()
	params := map[string]string{"id": "l1"}

	listings.On("ListPending", mock.Anything, adminActor).Return([]*domain.Listing{{ID: "l1", Status: domain.StatusPending}}, nil).Once()
	rec := httptest.NewRecorder()
	h.Pending(rec, newRequest(t, http.MethodGet, "/api/admin/listings/pending", nil, &adminActor, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	listings.On("ApproveListing", mock.Anything, adminActor, "l1").Return(&domain.Listing{ID: "l1", Status: domain.StatusApproved}, nil).Once()
	rec = httptest.NewRecorder()
	h.Approve(rec, newRequest(t, http.MethodPost, "/api/admin/listings/l1/approve", nil, &adminActor, params))
	assert.Equal(t, http.StatusOK, rec.Code)
	var got domain.Listing
	decode(t, rec, &got)
	assert.Equal(t, domain.StatusApproved, got.Status)

	listings.On("RejectListing", mock.Anything, adminActor, "l1").Return(nil, domain.ErrInvalidTransition).Once()
	rec = httptest.NewRecorder()
	h.Reject(rec, newRequest(t, http.MethodPost, "/api/admin/listings/l1/reject", nil, &adminActor, params))
	assert.Equal(t, http.StatusConflict, rec.Code)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.ModerationDecisions.WithLabelValues("approved")))
	assert.Equal(t, float64(0), testutil.ToFloat64(m.ModerationDecisions.WithLabelValues("rejected")))
	listings.AssertExpectations(t)
}
