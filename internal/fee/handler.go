package fee

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/auth"
	"github.com/condovia/api-estates/internal/estate"
	"github.com/condovia/api-estates/internal/utils"
)

var validate = validator.New()

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

// POST /estates/{id}/fees
func (h *Handler) CreateFee(w http.ResponseWriter, r *http.Request) {
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
	var req CreateFeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	resp, err := h.Service.CreateFee(actor, estateID, req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, resp)
}

// GET /estates/{id}/fees
func (h *Handler) ListFees(w http.ResponseWriter, r *http.Request) {
	estateID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	list, err := h.Service.ListFees(estateID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

// GET /fees/{id}
func (h *Handler) GetFee(w http.ResponseWriter, r *http.Request) {
	feeID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	f, err := h.Service.GetFee(feeID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, f)
}

// POST /fees/{id}/assignments
func (h *Handler) AssignUnits(w http.ResponseWriter, r *http.Request) {
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
	var req AssignUnitsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	assignments, err := h.Service.AssignToUnits(actor, feeID, req.UnitIDs)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, assignments)
}

// GET /fees/{id}/assignments
func (h *Handler) ListAssignments(w http.ResponseWriter, r *http.Request) {
	feeID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	list, err := h.Service.ListAssignments(feeID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

// DELETE /fees/{id}
func (h *Handler) DeleteFee(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Service.DeleteFee(actor, feeID); err != nil {
		utils.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// DELETE /assignments/{id}
func (h *Handler) DeleteAssignment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := h.Service.DeleteAssignment(actor, id); err != nil {
		utils.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
