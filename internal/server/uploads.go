package server

import (
	"net/http"
	"strings"

	"bookmart/internal/app"
	"bookmart/pkg/token"
)

const maxUploadMemory = 32 << 20

// POST /uploads/image and /uploads/document. The optional bookId form field
// becomes a naming hint for the stored key.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, identity token.Identity) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}
	kind, ok := app.ParseFileKind(strings.TrimPrefix(r.URL.Path, "/uploads/"))
	if !ok {
		notFound(w)
		return
	}
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		writeError(w, http.StatusBadRequest, "invalid form data")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file is required (field: file)")
		return
	}
	defer file.Close()

	stored, err := s.app.AcceptUpload(r.Context(), identity.UserID, kind, header.Filename, header.Size, file, r.FormValue("bookId"))
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, stored)
}

// DELETE /uploads/{kind}/{fileName}
func (s *Server) handleDeleteUpload(w http.ResponseWriter, r *http.Request, _ token.Identity) {
	if r.Method != http.MethodDelete {
		methodNotAllowed(w)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/uploads/")
	parts := strings.SplitN(rest, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		notFound(w)
		return
	}
	kind, ok := app.ParseFileKind(parts[0])
	if !ok {
		notFound(w)
		return
	}
	deleted, err := s.app.DeleteUpload(r.Context(), kind, parts[1])
	if err != nil {
		writeAppError(w, r, err)
		return
	}
	if !deleted {
		notFound(w)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
