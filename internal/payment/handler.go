package payment

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

// POST /assignments/{id}/payments
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	assignmentID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var req RecordPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	resp, err := h.Service.RecordPayment(actor, assignmentID, req)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, resp)
}

// GET /payments/{id}
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	p, err := h.Service.GetPayment(id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, p)
}

// DELETE /payments/{id}
func (h *Handler) DeletePayment(w http.ResponseWriter, r *http.Request) {
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
	if err := h.Service.DeletePayment(actor, id); err != nil {
		utils.RespondError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GET /payments/{id}/receipt
func (h *Handler) LookupReceipt(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	lookup, err := h.Service.LookupReceipt(id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, lookup)
}

// PATCH /receipts/{id}/document — callback for the external document
// renderer to report its result.
func (h *Handler) UpdateDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var req UpdateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	rcpt, err := h.Service.SetDocumentStatus(id, req.Status)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, rcpt)
}
