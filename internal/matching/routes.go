package matching

import (
	"github.com/gorilla/mux"

	"github.com/YS8610/matcha-backend/internal/auth"
)

func RegisterRoutes(router *mux.Router, handler *Handler, authMiddleware *auth.Middleware) {
	api := router.PathPrefix("/api/v1/matching").Subrouter()
	api.Use(authMiddleware.Authenticate)

	// Browse
	api.HandleFunc("/browse", handler.Browse).Methods("GET")

	// Connection status and actions
	api.HandleFunc("/status/{userId}", handler.Status).Methods("GET")
	api.HandleFunc("/like/{userId}", handler.Like).Methods("POST")
	api.HandleFunc("/like/{userId}", handler.Unlike).Methods("DELETE")
	api.HandleFunc("/block/{userId}", handler.Block).Methods("POST")
	api.HandleFunc("/block/{userId}", handler.Unblock).Methods("DELETE")

	// Compatibility and counters
	api.HandleFunc("/compatibility/{userId}", handler.Compatibility).Methods("GET")
	api.HandleFunc("/likes/received", handler.LikesReceived).Methods("GET")
}
