// Package handlers implements the HTTP API of the movie catalog.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/amaumene/dvmovies/internal/constants"
	"github.com/amaumene/dvmovies/internal/services"
)

// Handler handles HTTP requests for the movie catalog.
type Handler struct {
	services *services.Container
}

// New creates a new Handler with the provided services.
func New(services *services.Container) *Handler {
	return &Handler{services: services}
}

// RegisterRoutes registers all HTTP routes.
func (h *Handler) RegisterRoutes(r *gin.Engine) {
	// Remote catalog
	r.GET("/movies/", h.handleReadMovies)
	r.GET("/movieid/:movie_code", h.handleMovieID)

	// Local store
	r.GET("/movies/search/", h.handleSearchMovies)
	r.POST("/movies/upload/", h.handleUploadMovies)
	r.GET("/movies/filter_by_opendate/", h.handleFilterByOpenDate)
	r.GET("/movies/filter_by_genre/", h.handleFilterByGenre)
	r.POST("/delete_all_records/", h.handleDeleteAll)

	// Screening state
	r.GET("/movies/today", h.handleToday)
	r.GET("/movies/onscreen", h.handleOnscreen)
	r.GET("/movies/comingsoon", h.handleComingSoon)
	r.GET("/movies/offscreen", h.handleOffscreen)

	r.GET("/healthz", h.handleHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"name":    constants.AppName,
		"version": constants.AppVersion,
	})
}
