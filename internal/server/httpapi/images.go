package httpapi

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/inkpost/internal/common"
	"github.com/dmitrijs2005/inkpost/internal/logging"
	"github.com/dmitrijs2005/inkpost/internal/server/auth"
	"github.com/dmitrijs2005/inkpost/internal/server/images"
	"github.com/go-chi/chi/v5"
)

const (
	maxUploadSize  = 10 << 20
	imageFormField = "image"
)

type uploadResponse struct {
	Message  string `json:"message"`
	FilePath string `json:"filePath,omitempty"`
}

type imageHandler struct {
	store images.Store
	log   logging.Logger
}

// upload stores the "image" part of a multipart form. Unsupported types are
// dropped and reported as a missing file. Nothing is deleted here; a replaced
// image is removed by the owner-checked post update.
func (h *imageHandler) upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if _, err := auth.RequireAuth(auth.FromContext(ctx)); err != nil {
		writeError(w, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, common.Validation("Malformed upload"))
		return
	}

	file, header, err := r.FormFile(imageFormField)
	if err != nil || !images.Allowed(header.Header.Get("Content-Type")) {
		if file != nil {
			_ = file.Close()
		}
		writeJSON(w, http.StatusOK, uploadResponse{Message: "No file provided!"})
		return
	}
	defer file.Close()

	path, err := h.store.Save(ctx, header.Header.Get("Content-Type"), file)
	if err != nil {
		h.log.Error(ctx, "store image", "error", err)
		writeError(w, common.Internal(err))
		return
	}

	writeJSON(w, http.StatusCreated, uploadResponse{Message: "File stored.", FilePath: path})
}

func (h *imageHandler) serve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	path := images.PathPrefix + strings.TrimPrefix(chi.URLParam(r, "*"), "/")

	rc, contentType, err := h.store.Open(ctx, path)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			writeError(w, common.NotFound("Image not found"))
			return
		}
		h.log.Error(ctx, "open image", "path", path, "error", err)
		writeError(w, common.Internal(err))
		return
	}
	defer rc.Close()

	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=86400")
	if _, err := io.Copy(w, rc); err != nil {
		h.log.Warn(ctx, "stream image", "path", path, "error", err)
	}
}
