package server

import (
	"net/http"

	"github.com/emrgen/compliance/internal/service"
	"github.com/gorilla/mux"
)

// Handler bundles the HTTP handlers of the compliance API.
type Handler struct {
	documents *service.DocumentService
	versions  *service.VersionService
	relations *service.RelationService
}

func NewHandler(documents *service.DocumentService, versions *service.VersionService, relations *service.RelationService) *Handler {
	return &Handler{
		documents: documents,
		versions:  versions,
		relations: relations,
	}
}

// Router builds the v1 API router with authentication and request logging
// applied to every route.
func (h *Handler) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(requestTimeMiddleware)

	v1 := r.PathPrefix("/v1").Subrouter()
	v1.Use(principalMiddleware)

	v1.HandleFunc("/documents", h.createDocument).Methods(http.MethodPost)
	v1.HandleFunc("/documents/{id}", h.getDocument).Methods(http.MethodGet)
	v1.HandleFunc("/documents/{id}", h.updateDocument).Methods(http.MethodPut)
	v1.HandleFunc("/documents/{id}", h.deleteDocument).Methods(http.MethodDelete)
	v1.HandleFunc("/establishments/{id}/documents", h.listDocuments).Methods(http.MethodGet)

	v1.HandleFunc("/documents/{id}/versions", h.listVersions).Methods(http.MethodGet)
	v1.HandleFunc("/documents/{id}/versions", h.createVersion).Methods(http.MethodPost)
	v1.HandleFunc("/documents/{id}/versions/{versionId}", h.updateVersion).Methods(http.MethodPut)
	v1.HandleFunc("/documents/{id}/versions/{versionId}/activate", h.activateVersion).Methods(http.MethodPost)
	v1.HandleFunc("/documents/{id}/versions/{versionId}/archive", h.archiveVersion).Methods(http.MethodPost)
	v1.HandleFunc("/documents/{id}/versions/{versionId}/file", h.versionFile).Methods(http.MethodGet)

	v1.HandleFunc("/documents/{id}/relations", h.listRelations).Methods(http.MethodGet)
	v1.HandleFunc("/documents/{id}/relations", h.createRelation).Methods(http.MethodPost)
	v1.HandleFunc("/documents/{id}/relations/{relationId}", h.deleteRelation).Methods(http.MethodDelete)

	return r
}
