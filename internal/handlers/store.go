package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/amaumene/dvmovies/internal/constants"
	apperrors "github.com/amaumene/dvmovies/internal/errors"
	"github.com/amaumene/dvmovies/internal/metrics"
	"github.com/amaumene/dvmovies/internal/models"
)

func (h *Handler) handleSearchMovies(c *gin.Context) {
	movies, err := h.services.Store.SearchMovies(c.Request.Context(), c.Query("search_query"))
	if err != nil {
		h.services.Logger.Errorf("[StoreHandler] search failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "failed to search movies")
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleUploadMovies(c *gin.Context) {
	var movies []models.Movie
	if err := c.ShouldBindJSON(&movies); err != nil {
		abortWithDetail(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	stored, err := h.services.Store.InsertMovies(c.Request.Context(), movies)
	if err != nil {
		if apperrors.IsType(err, apperrors.ErrorTypeDuplicateRecord) {
			metrics.AddUploaded("duplicate", len(movies))
			h.services.Logger.Infof("[StoreHandler] upload rejected: %v", err)
			abortWithDetail(c, http.StatusBadRequest, constants.MsgAlreadyRegistered)
			return
		}
		metrics.AddUploaded("error", len(movies))
		h.services.Logger.Errorf("[StoreHandler] upload failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "failed to store movies")
		return
	}

	metrics.AddUploaded("stored", len(stored))
	h.services.Logger.Infof("[StoreHandler] stored %d movies", len(stored))
	c.JSON(http.StatusOK, stored)
}

func (h *Handler) handleFilterByOpenDate(c *gin.Context) {
	from, err := optionalYear(c, "openyear")
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}
	to, err := optionalYear(c, "endyear")
	if err != nil {
		abortWithDetail(c, http.StatusBadRequest, err.Error())
		return
	}

	movies, err := h.services.Store.FilterByOpenYear(c.Request.Context(), from, to)
	if err != nil {
		h.services.Logger.Errorf("[StoreHandler] filter by open date failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "failed to filter movies")
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleFilterByGenre(c *gin.Context) {
	movies, err := h.services.Store.FilterByGenres(c.Request.Context(), c.QueryArray("genres"))
	if err != nil {
		h.services.Logger.Errorf("[StoreHandler] filter by genre failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "failed to filter movies")
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleDeleteAll(c *gin.Context) {
	n, err := h.services.Store.DeleteAll(c.Request.Context())
	if err != nil {
		h.services.Logger.Errorf("[StoreHandler] delete failed: %v", err)
		abortWithDetail(c, http.StatusInternalServerError, "failed to delete movies")
		return
	}

	h.services.Logger.Infof("[StoreHandler] deleted %d movies", n)
	c.JSON(http.StatusOK, gin.H{"message": constants.MsgAllDeleted})
}

// optionalYear reads an integer query parameter; absent or blank is nil.
func optionalYear(c *gin.Context, name string) (*int, error) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil {
		return nil, apperrors.NewParseError(name+" must be an integer year", err)
	}
	return &year, nil
}
