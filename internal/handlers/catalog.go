package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/dvmovies/internal/constants"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/services"
)

func (h *Handler) handleReadMovies(c *gin.Context) {
	q := c.Query("q")

	outcome := h.services.Catalog.Search(c.Request.Context(), q)
	if outcome.Status == services.SearchFailed {
		h.services.Logger.Warnf("[CatalogHandler] search %q failed: %v", q, outcome.Err)
		abortWithDetail(c, http.StatusBadGateway, constants.MsgNoSearchResults)
		return
	}

	h.services.Logger.Debugf("[CatalogHandler] search %q: %s, %d movies", q, outcome.Status, len(outcome.Movies))
	c.JSON(http.StatusOK, outcome.Movies)
}

func (h *Handler) handleMovieID(c *gin.Context) {
	code := c.Param("movie_code")

	movie, err := h.services.Catalog.LookupByMovieCode(c.Request.Context(), code)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeLookupMiss) {
			h.services.Logger.Infof("[CatalogHandler] no catalog match for movie code %s: %v", code, err)
			c.JSON(http.StatusOK, nil)
			return
		}
		h.services.Logger.Errorf("[CatalogHandler] movie code %s lookup failed: %v", code, err)
		abortWithDetail(c, statusFor(err), err.Error())
		return
	}

	c.JSON(http.StatusOK, movie)
}
