package routes

import (
	"styleswipe_server/controllers"
	"styleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterS3Routes sets up routes for card image URLs under /api/images
func RegisterS3Routes(r *mux.Router, s3Service *services.S3Service) {
	controller := controllers.NewS3Controller(s3Service)

	imageRouter := r.PathPrefix("/api/images").Subrouter()
	imageRouter.HandleFunc("/upload-url", controller.HandleGenerateUploadURL).Methods("POST")
	imageRouter.HandleFunc("/read-url", controller.HandleGenerateReadURL).Methods("GET")
}
