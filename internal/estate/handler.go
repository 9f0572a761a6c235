package estate

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"gorm.io/gorm"

	"github.com/condovia/api-estates/internal/apperr"
	"github.com/condovia/api-estates/internal/auth"
	"github.com/condovia/api-estates/internal/authz"
	"github.com/condovia/api-estates/internal/utils"
)

var validate = validator.New()

type Handler struct {
	DB         *gorm.DB
	Repository *Repository
}

func NewHandler(db *gorm.DB) *Handler {
	return &Handler{DB: db, Repository: NewRepository(db)}
}

// actor resolves the authenticated Actor row for the request.
func (h *Handler) actor(r *http.Request) (*Actor, error) {
	id, ok := auth.ActorID(r.Context())
	if !ok {
		return nil, apperr.Denied("authenticate")
	}
	return h.Repository.FindActor(id)
}

func pathID(r *http.Request, key string) (uint, error) {
	id, err := strconv.Atoi(mux.Vars(r)[key])
	if err != nil || id <= 0 {
		return 0, apperr.Validation(key, "invalid id")
	}
	return uint(id), nil
}

/* ================================= Login ================================= */

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// POST /login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	actor, err := h.Repository.FindActorByEmail(req.Email)
	if err != nil || !utils.CheckPassword(actor.PasswordHash, req.Password) {
		utils.RespondJSON(w, http.StatusUnauthorized, map[string]string{"error": "invalid credentials"})
		return
	}
	token, err := auth.GenerateAccessToken(actor.ID, actor.Role)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]interface{}{
		"token": token,
		"actor": actor,
	})
}

/* ================================ Estates ================================ */

// POST /estates
func (h *Handler) CreateEstate(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	var req CreateEstateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	if err := authz.Can(authz.ManageEstates, actor.Role, 0); err != nil {
		utils.RespondError(w, err)
		return
	}
	e := &Estate{Name: req.Name, Address: req.Address}
	if err := h.Repository.CreateEstate(e); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, e)
}

// GET /estates
func (h *Handler) ListEstates(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.ListEstates()
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

// GET /estates/{id}
func (h *Handler) GetEstate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	e, err := h.Repository.FindEstate(id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, e)
}

/* ================================= Units ================================= */

// POST /estates/{id}/units
func (h *Handler) CreateUnit(w http.ResponseWriter, r *http.Request) {
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
	if err := authz.Can(authz.ManageEstates, actor.Role, estateID); err != nil {
		utils.RespondError(w, err)
		return
	}
	if _, err := h.Repository.FindEstate(estateID); err != nil {
		utils.RespondError(w, err)
		return
	}
	var req CreateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	u := &Unit{EstateID: estateID, Identifier: req.Identifier, IsOccupied: req.IsOccupied}
	if err := h.Repository.CreateUnit(u); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, u)
}

// GET /estates/{id}/units
func (h *Handler) ListUnits(w http.ResponseWriter, r *http.Request) {
	estateID, err := pathID(r, "id")
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	list, err := h.Repository.ListUnits(estateID)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}

// PUT /units/{id}
func (h *Handler) UpdateUnit(w http.ResponseWriter, r *http.Request) {
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
	u, err := h.Repository.FindUnit(id)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := authz.Can(authz.ManageEstates, actor.Role, u.EstateID); err != nil {
		utils.RespondError(w, err)
		return
	}
	var req UpdateUnitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if req.Identifier != "" {
		u.Identifier = req.Identifier
	}
	if req.IsOccupied != nil {
		u.IsOccupied = *req.IsOccupied
	}
	if err := h.Repository.UpdateUnit(u); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, u)
}

/* ================================= Actors ================================ */

// POST /actors
func (h *Handler) CreateActor(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := authz.Can(authz.ManageEstates, actor.Role, 0); err != nil {
		utils.RespondError(w, err)
		return
	}
	var req CreateActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.RespondError(w, apperr.Validation("body", "invalid JSON"))
		return
	}
	if err := validate.Struct(req); err != nil {
		utils.RespondError(w, apperr.Validation("body", err.Error()))
		return
	}
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	a := &Actor{
		DisplayName:  req.DisplayName,
		Email:        req.Email,
		PasswordHash: hash,
		Role:         req.Role,
	}
	if err := h.Repository.CreateActor(a); err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusCreated, a)
}

// GET /actors
func (h *Handler) ListActors(w http.ResponseWriter, r *http.Request) {
	actor, err := h.actor(r)
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	if err := authz.Can(authz.ManageEstates, actor.Role, 0); err != nil {
		utils.RespondError(w, err)
		return
	}
	list, err := h.Repository.ListActors()
	if err != nil {
		utils.RespondError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, list)
}
