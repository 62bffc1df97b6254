package handlers

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/planwise/engine/internal/api/types"
	"github.com/planwise/engine/internal/models"
	"github.com/planwise/engine/internal/services"
)

type IssuesHandler struct {
	svc      services.IssueService
	validate *validator.Validate
}

func NewIssuesHandler(svc services.IssueService, v *validator.Validate) *IssuesHandler {
	return &IssuesHandler{svc: svc, validate: v}
}

// optionalID parses an already validated uuid pointer.
func optionalID(s *string) *uuid.UUID {
	if s == nil {
		return nil
	}
	id := uuid.MustParse(*s)
	return &id
}

func (h *IssuesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req types.IssueCreateRequest
	if !decode(w, r, h.validate, &req, http.StatusBadRequest) {
		return
	}
	projectID, err := parseID(req.ProjectID, "projectId")
	if err != nil {
		writeError(w, r, err)
		return
	}

	i, err := h.svc.Create(r.Context(), currentUser(r).ID, &services.IssueInput{
		ProjectID:      projectID,
		Title:          req.Title,
		Description:    req.Description,
		Type:           models.IssueType(req.Type),
		Status:         models.IssueStatus(req.Status),
		Priority:       models.IssuePriority(req.Priority),
		EstimationTime: req.EstimationTime,
		RemainingTime:  req.RemainingTime,
		AssigneeID:     optionalID(req.Assignee),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusCreated, types.IssueCreated{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Key:         i.Key,
		Title:       i.Title,
		Description: i.Description,
		Type:        i.Type,
		Status:      i.Status,
		Priority:    i.Priority,
	})
}

func (h *IssuesHandler) List(w http.ResponseWriter, r *http.Request) {
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

func (h *IssuesHandler) Get(w http.ResponseWriter, r *http.Request) {
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

func (h *IssuesHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req types.IssueUpdateRequest
	if !decode(w, r, h.validate, &req, http.StatusUnprocessableEntity) {
		return
	}

	patch := &services.IssuePatch{
		Title:          req.Title,
		Description:    req.Description,
		EstimationTime: req.EstimationTime,
		RemainingTime:  req.RemainingTime,
		AssigneeID:     optionalID(req.Assignee),
	}
	if req.Type != nil {
		t := models.IssueType(*req.Type)
		patch.Type = &t
	}
	if req.Status != nil {
		s := models.IssueStatus(*req.Status)
		patch.Status = &s
	}
	if req.Priority != nil {
		p := models.IssuePriority(*req.Priority)
		patch.Priority = &p
	}

	i, err := h.svc.Update(r.Context(), currentUser(r).ID, id, patch)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeOK(w, http.StatusOK, i)
}

func (h *IssuesHandler) Delete(w http.ResponseWriter, r *http.Request) {
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
