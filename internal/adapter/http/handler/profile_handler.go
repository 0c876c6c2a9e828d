package handler

import (
	"net/http"

	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/adapter/http/response"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/marketplace/domain"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/carmarket-service/internal/platform/metrics"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ProfileHandler struct {
	profiles ProfileService
	accounts AccountService
	metrics  *metrics.MetricsManager
	logger   *logger.Logger
}

func NewProfileHandler(profiles ProfileService, accounts AccountService, m *metrics.MetricsManager, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{profiles: profiles, accounts: accounts, metrics: m, logger: log.Named("ProfileHandler")}
}

type roleRequest struct {
	Role domain.Role `json:"role"`
}

func (h *ProfileHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	profile, err := h.profiles.GetProfile(r.Context(), actor.UserID)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var update domain.ProfileUpdate
	if err := decodeJSON(r, &update); err != nil {
		response.Error(w, err)
		return
	}
	profile, err := h.profiles.UpdateProfile(r.Context(), actor, actor.UserID, update)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	profiles, err := h.profiles.ListProfiles(r.Context(), actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	if profiles == nil {
		profiles = []*domain.Profile{}
	}
	response.JSON(w, http.StatusOK, profiles)
}

func (h *ProfileHandler) SetRole(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req roleRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	userID := chi.URLParam(r, "id")
	if err := h.profiles.SetRole(r.Context(), actor, userID, req.Role); err != nil {
		response.Error(w, err)
		return
	}
	response.NoContent(w)
}

func (h *ProfileHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor, err := currentActor(r)
	if err != nil {
		response.Error(w, err)
		return
	}
	userID := chi.URLParam(r, "id")
	if err := h.accounts.DeleteUserCascade(r.Context(), actor, userID); err != nil {
		h.logger.Error("User deletion failed", zap.String("user_id", userID), zap.String("admin_id", actor.UserID), zap.Error(err))
		response.Error(w, err)
		return
	}
	h.metrics.UsersDeleted.Inc()
	response.NoContent(w)
}
