package server

import (
	"encoding/json"
	"net/http"

	"github.com/emrgen/compliance/internal/model"
	"github.com/emrgen/compliance/internal/service"
	"github.com/gorilla/mux"
)

type createDocumentRequest struct {
	EstablishmentID string `json:"establishment_id"`
	Kind            string `json:"kind"`
	Name            string `json:"name"`
	Description     string `json:"description"`
}

type updateDocumentRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

func (h *Handler) createDocument(w http.ResponseWriter, r *http.Request) {
	var req createDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	doc, err := h.documents.CreateDocument(r.Context(), PrincipalID(r.Context()), service.CreateDocumentInput{
		EstablishmentID: req.EstablishmentID,
		Kind:            model.DocumentKind(req.Kind),
		Name:            req.Name,
		Description:     req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newDocumentResponse(doc))
}

func (h *Handler) getDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := h.documents.GetDocument(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newDocumentResponse(doc))
}

func (h *Handler) listDocuments(w http.ResponseWriter, r *http.Request) {
	docs, total, err := h.documents.ListDocuments(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]documentResponse, 0, len(docs))
	for _, doc := range docs {
		out = append(out, newDocumentResponse(doc))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"documents": out,
		"total":     total,
	})
}

func (h *Handler) updateDocument(w http.ResponseWriter, r *http.Request) {
	var req updateDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	doc, err := h.documents.UpdateDocument(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"], service.UpdateDocumentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newDocumentResponse(doc))
}

func (h *Handler) deleteDocument(w http.ResponseWriter, r *http.Request) {
	err := h.documents.DeleteDocument(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
