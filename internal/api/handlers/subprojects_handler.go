package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/planwise/engine/internal/api/types"
	"github.com/planwise/engine/internal/services"
)

type SubprojectsHandler struct {
	svc      services.SubprojectService
	validate *validator.Validate
}

func NewSubprojectsHandler(svc services.SubprojectService, v *validator.Validate) *SubprojectsHandler {
	return &SubprojectsHandler{svc: svc, validate: v}
}

func (h *SubprojectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.SubprojectCreateRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}
	projectID, err := parseID(req.ProjectID, "projectId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	sp, err := h.svc.Create(r.Context(), currentUser(r).ID, &services.SubprojectInput{
		ProjectID:   projectID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, types.SubprojectCreated{ID: sp.ID, ProjectID: sp.ProjectID, Title: sp.Title, Description: sp.Description})
}

func (h *SubprojectsHandler) List(w http.ResponseWriter, r *http.Request) {
	projectID, err := parseID(r.URL.Query().Get("projectId"), "projectId")
	if err != nil {
		writeError(w, r, err)
		return
	}
	q, err := pageQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	page, err := h.svc.List(r.Context(), currentUser(r).ID, projectID, q)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, page)
}

func (h *SubprojectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	sp, err := h.svc.Get(r.Context(), currentUser(r).ID, id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, sp)
}

func (h *SubprojectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.SubprojectUpdateRequest
	if !decode(w, r, h.validate, &req, http.StatusUnprocessableEntity) {
		return
	}
	sp, err := h.svc.Update(r.Context(), currentUser(r).ID, id, &services.SubprojectPatch{Title: req.Title, Description: req.Description})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, sp)
}

func (h *SubprojectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
