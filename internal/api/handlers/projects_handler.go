package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/planwise/engine/internal/api/types"
	"github.com/planwise/engine/internal/services"
)

type ProjectsHandler struct {
	svc      services.ProjectService
	validate *validator.Validate
}

func NewProjectsHandler(svc services.ProjectService, v *validator.Validate) *ProjectsHandler {
	return &ProjectsHandler{svc: svc, validate: v}
}

func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.ProjectCreateRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}
	intentionID, err := parseID(req.IntentionID, "intentionId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	p, err := h.svc.Create(r.Context(), currentUser(r).ID, &services.ProjectInput{
		IntentionID: intentionID,
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Key:         req.Key,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, types.ProjectCreated{
		ID:          p.ID,
		IntentionID: p.IntentionID,
		Title:       p.Title,
		Subtitle:    p.Subtitle,
		Description: p.Description,
		Key:         p.Key,
	})
}

func (h *ProjectsHandler) List(w http.ResponseWriter, r *http.Request) {
	intentionID, err := parseID(r.URL.Query().Get("intentionId"), "intentionId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.List(r.Context(), currentUser(r).ID, intentionID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := h.svc.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.ProjectUpdateRequest
	if !decode(w, r, h.validate, &req, http.StatusUnprocessableEntity) {
		return
	}
	p, err := h.svc.Update(r.Context(), currentUser(r).ID, id, &services.ProjectPatch{
		Title:       req.Title,
		Subtitle:    req.Subtitle,
		Description: req.Description,
		Key:         req.Key,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, p)
}

func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
