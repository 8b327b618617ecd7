package handler

import (
	"errors"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/templui/intake/internal/apperr"
	"github.com/templui/intake/internal/service"
	"github.com/templui/intake/internal/storage"
)

// uploadField is the repeatable multipart field carrying files.
const uploadField = "files"

type BlobHandler struct {
	blobService     *service.BlobService
	maxUploadMemory int64
}

func NewBlobHandler(blobService *service.BlobService, maxUploadMemory int64) *BlobHandler {
	return &BlobHandler{
		blobService:     blobService,
		maxUploadMemory: maxUploadMemory,
	}
}

type uploadedFile struct {
	ID       string `json:"id"`
	Filename string `json:"filename"`
	Size     int64  `json:"size"`
}

// Upload stores every part of the "files" field concurrently.
func (h *BlobHandler) Upload(w http.ResponseWriter, r *http.Request) {
	err := r.ParseMultipartForm(h.maxUploadMemory)
	if err != nil && !errors.Is(err, http.ErrNotMultipart) {
		Fallback(w, r, err)
		return
	}
	// A body that is not multipart simply carries no files
	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
		headers = r.MultipartForm.File[uploadField]
	}

	if len(headers) == 0 {
		writeJSON(w, apperr.HTTPStatus(apperr.ErrBadRequest), map[string]string{"message": "No files uploaded"})
		return
	}

	files, err := h.blobService.UploadAll(r.Context(), headers)
	if err != nil {
		slog.Error("failed to upload files", "error", err, "count", len(headers))
		writeJSON(w, apperr.HTTPStatus(err), map[string]string{
			"message": "Error uploading files",
			"error":   err.Error(),
		})
		return
	}

	results := make([]uploadedFile, len(files))
	for i, f := range files {
		results[i] = uploadedFile{ID: f.ID, Filename: f.Filename, Size: f.Size}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Files uploaded successfully",
		"files":   results,
	})
}

// Download streams the first file with the requested name.
func (h *BlobHandler) Download(w http.ResponseWriter, r *http.Request) {
	filename := filenameParam(r)

	stream, err := h.blobService.Download(r.Context(), filename)
	if err != nil {
		slog.Warn("failed to open file stream", "error", err, "filename", filename)
		writeJSON(w, apperr.HTTPStatus(err), map[string]string{"err": "Error reading file stream"})
		return
	}
	defer stream.Close()

	file := stream.File()
	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	if file.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(file.Size, 10))
	}
	w.WriteHeader(http.StatusOK)

	if _, err := io.Copy(w, stream); err != nil {
		// Headers are gone; the client sees a truncated body
		slog.Error("failed to stream file", "error", err, "filename", filename)
	}
}

// Delete removes the first file with the requested name.
func (h *BlobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	filename := filenameParam(r)

	err := h.blobService.Delete(r.Context(), filename)
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]string{"message": "File deleted successfully"})
	case errors.Is(err, apperr.ErrNotFound):
		writeJSON(w, apperr.HTTPStatus(err), map[string]string{"err": "No file exists"})
	case storage.IsLookupFailure(err):
		slog.Error("failed to find file to delete", "error", err, "filename", filename)
		writeJSON(w, apperr.HTTPStatus(err), map[string]string{"err": "Error finding file to delete"})
	default:
		slog.Error("failed to delete file", "error", err, "filename", filename)
		writeJSON(w, apperr.HTTPStatus(err), map[string]string{"err": "Error deleting file"})
	}
}

// filenameParam returns the decoded {filename} path segment. chi matches on
// the raw path when the URL carries escapes such as %2F.
func filenameParam(r *http.Request) string {
	name := chi.URLParam(r, "filename")
	if r.URL.RawPath != "" {
		if unescaped, err := url.PathUnescape(name); err == nil {
			return unescaped
		}
	}
	return name
}
