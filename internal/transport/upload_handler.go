package transport

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"prime-pizza/internal/imagekit"
	"prime-pizza/internal/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// maxImageSize caps product image uploads at 5MB
const maxImageSize = 5 << 20

var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

// UploadHandler handles product image uploads to the blob store
type UploadHandler struct {
	client  *imagekit.Client
	logger  *zap.Logger
	devMode bool
}

// NewUploadHandler creates a new UploadHandler
func NewUploadHandler(client *imagekit.Client, logger *zap.Logger, devMode bool) *UploadHandler {
	return &UploadHandler{
		client:  client,
		logger:  logger,
		devMode: devMode,
	}
}

// RegisterRoutes registers the admin-only upload routes
func (h *UploadHandler) RegisterRoutes(r chi.Router, authMiddleware func(http.Handler) http.Handler) {
	r.Route("/api/upload", func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(middleware.RequireAdmin(h.logger))
		r.Post("/", h.Upload)
		r.Delete("/{fileId}", h.Delete)
	})
}

// Upload stores a product image and returns its URL and file id
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize)

	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Please upload an image file")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "Please upload an image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		middleware.RespondWithError(w, http.StatusBadRequest, "failed to read image")
		return
	}

	mimeType := header.Header.Get("Content-Type")
	if !allowedImageTypes[strings.ToLower(mimeType)] {
		middleware.RespondWithError(w, http.StatusBadRequest, "Only image files are allowed")
		return
	}

	fileName := fmt.Sprintf("product-%d-%s", time.Now().UnixMilli(), header.Filename)

	result, err := h.client.Upload(r.Context(), data, mimeType, fileName)
	if err != nil {
		h.logger.Error("Image upload failed", zap.Error(err))
		message := "Server Error"
		if h.devMode {
			message = err.Error()
		}
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
		return
	}

	h.logger.Info("Image uploaded",
		zap.String("file_id", result.FileID),
		zap.String("url", result.URL),
	)
	middleware.RespondWithData(w, http.StatusOK, result)
}

// Delete removes a stored image by file id
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	fileID := chi.URLParam(r, "fileId")
	if fileID == "" {
		middleware.RespondWithError(w, http.StatusBadRequest, "File ID is required")
		return
	}

	if err := h.client.Delete(r.Context(), fileID); err != nil {
		h.logger.Error("Image delete failed", zap.Error(err))
		message := "Server Error"
		if h.devMode {
			message = err.Error()
		}
		middleware.RespondWithError(w, http.StatusInternalServerError, message)
		return
	}

	middleware.RespondWithMessage(w, http.StatusOK, "Image deleted successfully")
}
