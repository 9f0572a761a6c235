package report

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/auth"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/utils"
)

// ActorSource resolves the authenticated actor row.
type ActorSource interface {
	FindActor(id uint) (*estate.Actor, error)
}

type Handler struct {
	Service *Service
	Actors  ActorSource
}

func NewHandler(service *Service, actors ActorSource) *Handler {
	return &Handler{Service: service, Actors: actors}
}

func (h *Handler) actor(r *http.Request) (*estate.Actor, error) {
	id, ok := auth.ActorID(r.Context())
	if !ok {
		return nil, apperr.Denied("authenticate")
	}
	return h.Actors.FindActor(id)
}

func pathID(r *http.Request, key string) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil || id <= 0 {
		return 0, apperr.Validation(key, "invalid id")
	}
	return uint(id), nil
}

// GET /fees/{id}/status
func (h *Handler) FeePaymentStatus(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	feeID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	status, err := h.Service.FeePaymentStatus(actor, feeID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, status)
}

// GET /estates/{id}/reports/summary
func (h *Handler) EstateSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	estateID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	summary, err := h.Service.EstateSummary(actor, estateID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}

// GET /reports/summary
func (h *Handler) OverallSummary(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	summary, err := h.Service.OverallSummary(actor)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, summary)
}
