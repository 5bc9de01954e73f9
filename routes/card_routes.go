package routes

import (
	"styleswipe_server/controllers"
	"styleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterCardRoutes sets up routes for deck and catalog operations under /api/cards
func RegisterCardRoutes(r *mux.Router, cardService *services.CardService) {
	controller := controllers.NewCardController(cardService)

	cardRouter := r.PathPrefix("/api/cards").Subrouter()
	cardRouter.HandleFunc("/deck", controller.HandleGetDeck).Methods("POST")
	cardRouter.HandleFunc("/liked", controller.HandleGetLikedCards).Methods("GET")
	cardRouter.HandleFunc("/card", controller.HandleGetCard).Methods("GET")
	cardRouter.HandleFunc("/create", controller.HandleCreateCard).Methods("POST")
	cardRouter.HandleFunc("/import", controller.HandleImportCards).Methods("POST")
}
