package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
)

type FavoriteHandler struct {
	favorites FavoriteService
	metrics   *metrics.MetricsManager
	logger    *logger.Logger
}

func NewFavoriteHandler(favorites FavoriteService, m *metrics.MetricsManager, log *logger.Logger) *FavoriteHandler {
	return &FavoriteHandler{favorites: favorites, metrics: m, logger: log.Named("FavoriteHandler")}
}

type favoriteRequest struct {
	ListingID string `json:"listing_id"`
}

type favoritesResponse struct {
	ListingIDs []string `json:"listing_ids"`
}

func (h *FavoriteHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	ids, err := h.favorites.ListFavoriteListingIDs(r.Context(), actor.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	response.JSON(w, http.StatusOK, favoritesResponse{ListingIDs: ids})
}

func (h *FavoriteHandler) Add(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req favoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	listingID := strings.TrimSpace(req.ListingID)
	if listingID == "" {
		response.Error(w, fmt.Errorf("%w: listing_id is required", domain.ErrInvalidInput))
		return
	}
	if err := h.favorites.AddFavorite(r.Context(), actor.UserID, listingID); err != nil {
		response.Error(w, err)
		return
	}
	h.metrics.FavoriteChanges.WithLabelValues("add").Inc()
	response.JSON(w, http.StatusCreated, favoriteRequest{ListingID: listingID})
}

func (h *FavoriteHandler) Remove(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	if err := h.favorites.RemoveFavorite(r.Context(), actor.UserID, chi.URLParam(r, "listingID")); err != nil {
		response.Error(w, err)
		return
	}
	h.metrics.FavoriteChanges.WithLabelValues("remove").Inc()
	response.NoContent(w)
}
