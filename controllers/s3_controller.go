package controllers

import (
	"encoding/json"
	"net/http"

	"styleswipe_server/services"
)

// S3Controller hands out presigned URLs for card image upload and read.
type S3Controller struct {
	S3Service *services.S3Service
}

func NewS3Controller(service *services.S3Service) *S3Controller {
	return &S3Controller{S3Service: service}
}

// HandleGenerateUploadURL returns a presigned PUT URL for a new card image.
func (c *S3Controller) HandleGenerateUploadURL(w http.ResponseWriter, r *http.Request) {
	var request struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if request.FileName == "" {
		writeError(w, http.StatusBadRequest, "fileName is required")
		return
	}

	url, key, err := c.S3Service.GenerateUploadURL(r.Context(), request.FileName, request.FileType)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate upload URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"uploadUrl": url, "key": key})
}

// HandleGenerateReadURL returns a presigned GET URL for an existing image.
func (c *S3Controller) HandleGenerateReadURL(w http.ResponseWriter, r *http.Request) {
	key := r.URL.Query().Get("key")
	if key == "" {
		writeError(w, http.StatusBadRequest, "key is required")
		return
	}

	url, err := c.S3Service.GenerateReadURL(r.Context(), key)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to generate read URL")
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"readUrl": url})
}
