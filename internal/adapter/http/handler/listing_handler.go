package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
)

type ListingHandler struct {
	listings ListingService
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewListingHandler(listings ListingService, m *metrics.MetricsManager, log *logger.Logger) *ListingHandler {
	return &ListingHandler{listings: listings, metrics: m, logger: log.Named("ListingHandler")}
}

func queryInt(q url.Values, key string) (*int, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return &v, nil
}

func queryInt64(q url.Values, key string) (*int64, error) {
	raw := q.Get(key)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be an integer", domain.ErrInvalidInput, key)
	}
	return &v, nil
}

// parseFilter reads the browse query string. Unknown parameters are ignored.
func parseFilter(q url.Values) (domain.ListingFilter, error) {
	f := domain.ListingFilter{
		Brand:        q.Get("brand"),
		Model:        q.Get("model"),
		FuelType:     domain.FuelType(q.Get("fuel_type")),
		Transmission: domain.Transmission(q.Get("transmission")),
	}
	if f.FuelType != "" && !f.FuelType.IsValid() {
		return f, fmt.Errorf("%w: unknown fuel_type %q", domain.ErrInvalidInput, f.FuelType)
	}
	if f.Transmission != "" && !f.Transmission.IsValid() {
		return f, fmt.Errorf("%w: unknown transmission %q", domain.ErrInvalidInput, f.Transmission)
	}

	var err error
	if f.MinYear, err = queryInt(q, "min_year"); err != nil {
		return f, err
	}
	if f.MaxYear, err = queryInt(q, "max_year"); err != nil {
		return f, err
	}
	if f.MinPrice, err = queryInt64(q, "min_price"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = queryInt64(q, "max_price"); err != nil {
		return f, err
	}
	if f.MinMileage, err = queryInt64(q, "min_mileage"); err != nil {
		return f, err
	}
	if f.MaxMileage, err = queryInt64(q, "max_mileage"); err != nil {
		return f, err
	}
	return f, nil
}

func (h *ListingHandler) Browse(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r.URL.Query())
	if err != nil {
		response.Error(w, err)
		return
	}
	listings, err := h.listings.ListApproved(r.Context(), filter)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, listingsOrEmpty(listings))
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	listing, err := h.listings.GetListing(r.Context(), actor, chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Mine(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	listings, err := h.listings.ListByOwner(r.Context(), actor.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, listingsOrEmpty(listings))
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var fields domain.ListingFields
	if err := decodeJSON(r, &fields); err != nil {
		response.Error(w, err)
		return
	}
	listing, err := h.listings.CreateListing(r.Context(), actor, fields)
	if err != nil {
		response.Error(w, err)
		return
	}
	h.metrics.ListingsCreated.Inc()
	response.JSON(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var fields domain.ListingFields
	if err := decodeJSON(r, &fields); err != nil {
		response.Error(w, err)
		return
	}
	listing, err := h.listings.UpdateListing(r.Context(), actor, chi.URLParam(r, "id"), fields)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, listing)
}

func (h *ListingHandler) Delete(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.listings.DeleteListing(r.Context(), actor, chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

func (h *ListingHandler) Pending(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	listings, err := h.listings.ListPending(r.Context(), actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, listingsOrEmpty(listings))
}

func (h *ListingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, domain.StatusApproved)
}

func (h *ListingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.moderate(w, r, domain.StatusRejected)
}

func (h *ListingHandler) moderate(w http.ResponseWriter, r *http.Request, to domain.ListingStatus) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	id := chi.URLParam(r, "id")

	var listing *domain.Listing
	if to == domain.StatusApproved {
		listing, err = h.listings.ApproveListing(r.Context(), actor, id)
	} else {
		listing, err = h.listings.RejectListing(r.Context(), actor, id)
	}
	if err != nil {
		response.Error(w, err)
		return
	}
	h.metrics.ModerationDecisions.WithLabelValues(string(to)).Inc()
	response.JSON(w, http.StatusOK, listing)
}
