package routes

import (
	"styleswipe_server/controllers"
	"styleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterSessionRoutes sets up routes for browsing sessions under /api/session
func RegisterSessionRoutes(r *mux.Router, sessionService *services.SessionService) {
	controller := controllers.NewSessionController(sessionService)

	sessionRouter := r.PathPrefix("/api/session").Subrouter()
	sessionRouter.HandleFunc("/start", controller.HandleStartSession).Methods("POST")
	sessionRouter.HandleFunc("/swipe", controller.HandleSwipe).Methods("POST")
	sessionRouter.HandleFunc("/stack", controller.HandleGetStack).Methods("GET")
	sessionRouter.HandleFunc("/end", controller.HandleEndSession).Methods("POST")
}
