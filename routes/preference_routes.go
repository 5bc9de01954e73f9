package routes

import (
	"styleswipe_server/controllers"
	"styleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterPreferenceRoutes sets up routes for preference operations under /api/preferences
func RegisterPreferenceRoutes(r *mux.Router, preferenceService *services.PreferenceService) {
	controller := controllers.NewPreferenceController(preferenceService)

	preferenceRouter := r.PathPrefix("/api/preferences").Subrouter()
	preferenceRouter.HandleFunc("", controller.HandleGetPreference).Methods("GET")
	preferenceRouter.HandleFunc("/analyze", controller.HandleAnalyze).Methods("POST")
}
