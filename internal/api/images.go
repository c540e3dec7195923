package api

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/servis/internal/imagestore"
	"github.com/erazemk/servis/internal/imaging"
	"github.com/erazemk/servis/internal/model"
	"github.com/erazemk/servis/internal/store"
)

// DefaultMaxUpload bounds a whole multipart upload when no limit is set.
const DefaultMaxUpload = 32 << 20

// ImagesHandler handles service image uploads and listings.
type ImagesHandler struct {
	DB        *sql.DB
	Store     imagestore.Store
	Processor imaging.Processor
	MaxUpload int64
}

// Upload handles POST /api/service-images.
func (h *ImagesHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.Store == nil {
		jsonError(w, http.StatusServiceUnavailable, "image storage not configured")
		return
	}

	limit := h.MaxUpload
	if limit <= 0 {
		limit = DefaultMaxUpload
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	if err := r.ParseMultipartForm(limit); err != nil {
		jsonError(w, http.StatusBadRequest, "upload too large or invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	userID := r.FormValue("userId")
	serviceID := r.FormValue("serviceId")
	files := r.MultipartForm.File["images"]
	if userID == "" || serviceID == "" || len(files) == 0 {
		jsonError(w, http.StatusBadRequest, "missing required fields")
		return
	}

	keys := make([]string, 0, len(files))
	urls := make([]string, 0, len(files))
	for _, fh := range files {
		key, url, err := h.storeFile(r, fh)
		if err != nil {
			h.discard(r.Context(), keys)
			if errors.Is(err, imaging.ErrUnsupported) || errors.Is(err, imaging.ErrTooLarge) {
				jsonError(w, http.StatusBadRequest, fh.Filename+": "+err.Error())
				return
			}
			slog.Error("failed to store image", "file", fh.Filename, "error", err)
			jsonErrorDetails(w, http.StatusInternalServerError, "failed to upload image", err.Error())
			return
		}
		keys = append(keys, key)
		urls = append(urls, url)
	}

	images, err := store.CreateServiceImages(r.Context(), h.DB, userID, serviceID, urls)
	if err != nil {
		h.discard(r.Context(), keys)
		storeError(w, err, "failed to save images")
		return
	}

	slog.Info("service images uploaded", "user_id", userID, "service_id", serviceID, "count", len(images))
	jsonResponse(w, http.StatusOK, map[string]any{
		"message": "images uploaded",
		"images":  images,
	})
}

func (h *ImagesHandler) storeFile(r *http.Request, fh *multipart.FileHeader) (key, url string, err error) {
	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	res, err := h.Processor.Process(f)
	if err != nil {
		return "", "", err
	}
	key = imagestore.NewKey(res.Ext)
	url, err = h.Store.Put(r.Context(), key, res.Data, res.MIME)
	if err != nil {
		return "", "", err
	}
	return key, url, nil
}

// discard removes blobs stored earlier in a failed upload.
func (h *ImagesHandler) discard(ctx context.Context, keys []string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := h.Store.Delete(ctx, key); err != nil {
			slog.Warn("failed to remove orphaned image", "key", key, "error", err)
		}
	}
}

// List handles GET /api/service-images.
func (h *ImagesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	images, err := store.ListServiceImages(r.Context(), h.DB, q.Get("userId"), q.Get("serviceId"))
	if err != nil {
		storeError(w, err, "failed to list images")
		return
	}
	if images == nil {
		images = []model.ServiceImage{}
	}
	jsonResponse(w, http.StatusOK, images)
}
