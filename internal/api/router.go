package api

import (
	"net/http"

	"github.com/gorilla/mux"
)

// NewRouter wires the movie and log routes. The audit middleware wraps every
// route; auth guards only the mutating ones.
func NewRouter(handler *MovieHandler, auth, audit mux.MiddlewareFunc) *mux.Router {
	router := mux.NewRouter()
	router.Use(audit)

	router.HandleFunc("/movie", handler.ListMovies).Methods(http.MethodGet)
	router.HandleFunc("/movie/{movieId}", handler.GetMovieByID).Methods(http.MethodGet)
	router.HandleFunc("/movie/{movieId}/history", handler.GetMovieHistory).Methods(http.MethodGet)
	router.HandleFunc("/log", handler.GetLogs).Methods(http.MethodGet)

	protected := router.NewRoute().Subrouter()
	protected.Use(auth)
	protected.HandleFunc("/movie", handler.AddMovie).Methods(http.MethodPost)
	protected.HandleFunc("/movie/{movieId}/state", handler.UpdateMovieState).Methods(http.MethodPut)
	protected.HandleFunc("/movie/{movieId}/rate", handler.RateMovie).Methods(http.MethodPost)

	return router
}
