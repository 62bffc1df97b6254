package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/planwise/engine/internal/api/types"
	"github.com/planwise/engine/internal/services"
)

type IntentionsHandler struct {
	svc      services.IntentionService
	validate *validator.Validate
}

func NewIntentionsHandler(svc services.IntentionService, v *validator.Validate) *IntentionsHandler {
	return &IntentionsHandler{svc: svc, validate: v}
}

func (h *IntentionsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.IntentionCreateRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}
	i, err := h.svc.Create(r.Context(), currentUser(r).ID, &services.IntentionInput{Title: req.Title, Description: req.Description})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, types.IntentionCreated{ID: i.ID, Title: i.Title, Description: i.Description})
}

func (h *IntentionsHandler) List(w http.ResponseWriter, r *http.Request) {
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.List(r.Context(), currentUser(r).ID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

func (h *IntentionsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	i, err := h.svc.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, i)
}

func (h *IntentionsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.IntentionUpdateRequest
	if !decode(w, r, h.validate, &req, http.StatusUnprocessableEntity) {
		return
	}
	i, err := h.svc.Update(r.Context(), currentUser(r).ID, id, &services.IntentionPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, i)
}

func (h *IntentionsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.svc.Delete(r.Context(), currentUser(r).ID, id); err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, map[string]any{"id": id})
}
