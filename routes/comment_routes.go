package routes

import (
	"styleswipe_server/controllers"
	"styleswipe_server/services"

	"github.com/gorilla/mux"
)

// RegisterCommentRoutes sets up routes for comments and card stats under /api/comments
func RegisterCommentRoutes(r *mux.Router, commentService *services.CommentService, statsService *services.StatsService) {
	controller := controllers.NewCommentController(commentService, statsService)

	commentRouter := r.PathPrefix("/api/comments").Subrouter()
	commentRouter.HandleFunc("/add", controller.HandleAddComment).Methods("POST")
	commentRouter.HandleFunc("", controller.HandleGetComments).Methods("GET")
	commentRouter.HandleFunc("/mine", controller.HandleGetUserComments).Methods("GET")
	commentRouter.HandleFunc("/react", controller.HandleReactToComment).Methods("POST")
	commentRouter.HandleFunc("/delete", controller.HandleDeleteComment).Methods("POST")
	commentRouter.HandleFunc("/stats", controller.HandleGetCardStats).Methods("GET")
}
