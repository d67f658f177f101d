package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/emrgen/compliance/internal/service"
	"github.com/gorilla/mux"
)

// maxUploadSize bounds multipart version uploads.
const maxUploadSize = 128 << 20

func (h *Handler) listVersions(w http.ResponseWriter, r *http.Request) {
	versions, err := h.versions.ListVersions(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}

	out := make([]versionResponse, 0, len(versions))
	for _, version := range versions {
		out = append(out, newVersionResponse(version))
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"versions": out,
		"total":    len(out),
	})
}

func (h *Handler) createVersion(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, service.ErrInvalidArgument)
		return
	}
	defer file.Close()

	version, err := h.versions.CreateVersion(r.Context(), PrincipalID(r.Context()), mux.Vars(r)["id"], service.CreateVersionInput{
		FileName:          header.Filename,
		ChangeDescription: r.FormValue("change_description"),
		Content:           file,
	})
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, newVersionResponse(version))
}

func (h *Handler) activateVersion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	version, err := h.versions.Activate(r.Context(), PrincipalID(r.Context()), vars["id"], vars["versionId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newVersionResponse(version))
}

func (h *Handler) archiveVersion(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	version, err := h.versions.Archive(r.Context(), PrincipalID(r.Context()), vars["id"], vars["versionId"])
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newVersionResponse(version))
}

type updateVersionRequest struct {
	ChangeDescription string `json:"change_description"`
}

func (h *Handler) updateVersion(w http.ResponseWriter, r *http.Request) {
	var req updateVersionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, service.ErrInvalidArgument)
		return
	}

	vars := mux.Vars(r)
	version, err := h.versions.UpdateVersion(r.Context(), PrincipalID(r.Context()), vars["id"], vars["versionId"], req.ChangeDescription)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, newVersionResponse(version))
}

func (h *Handler) versionFile(w http.ResponseWriter, r *http.Request) {
	mode := service.FileModeView
	if r.URL.Query().Get("mode") == string(service.FileModeDownload) {
		mode = service.FileModeDownload
	}

	vars := mux.Vars(r)
	rc, version, err := h.versions.OpenFile(r.Context(), PrincipalID(r.Context()), vars["id"], vars["versionId"], mode)
	if err != nil {
		writeError(w, err)
		return
	}
	defer rc.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if mode == service.FileModeDownload {
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", version.FileName))
	}

	if _, err := io.Copy(w, rc); err != nil {
		// headers already sent, nothing more we can report to the client
		return
	}
}
