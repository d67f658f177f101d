package server

import (
	"encoding/json"
	"net/http"

	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/service"
	"github.com/gorilla/mux"
)

type createRelationRequest struct {
	ToDocumentID string `json:"to_document_id"`
	Type         string `json:"type"`
}

func (h *Handler) createRelation(w http.ResponseWriter, r *http.Request) {
	var req createRelationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	relation, err := h.relations.Link(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"], service.LinkInput{
		ToDocumentID: req.ToDocumentID,
		Type:         model.RelationType(req.Type),
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newRelationResponse(relation))
}

func (h *Handler) listRelations(w http.ResponseWriter, r *http.Request) {
	direction, ok := service.ParseDirection(r.URL.Query().Get("direction"))
	if !ok {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	var relType *model.RelationType
	if raw := r.URL.Query().Get("type"); raw != "" {
		t, ok := service.ParseRelationType(raw)
		if !ok {
			writeError(w, service.ErrInvalidArgument)
			return
		}
		relType = &t
	}

	relations, err := h.relations.List(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"], direction, relType)
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]relationResponse, 0, len(relations))
	for _, relation := range relations {
		out = append(out, newRelationResponse(relation))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"relations": out,
		"total":     len(out),
	})
}

func (h *Handler) deleteRelation(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	err := h.relations.Unlink(r.Context(), PrincipalID(r.Context()), vars["id"], vars["relationId"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
