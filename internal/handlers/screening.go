package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func (h *Handler) handleToday(c *gin.Context) {
	c.JSON(http.StatusOK, h.services.Snapshots.Current().Titles())
}

func (h *Handler) handleOnscreen(c *gin.Context) {
	snap := h.services.Snapshots.Current()
	if snap.Len() == 0 {
		h.services.Logger.Warnf("[ScreeningHandler] box office snapshot is empty")
	}

	movies, err := h.services.Catalog.Onscreen(c.Request.Context(), snap)
	if err != nil {
		h.services.Logger.Errorf("[ScreeningHandler] onscreen failed: %v", err)
		abortWithDetail(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleComingSoon(c *gin.Context) {
	movies, err := h.services.Catalog.ComingSoon(c.Request.Context(), h.services.Classifier.Today())
	if err != nil {
		h.services.Logger.Errorf("[ScreeningHandler] comingsoon failed: %v", err)
		abortWithDetail(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, movies)
}

func (h *Handler) handleOffscreen(c *gin.Context) {
	snap := h.services.Snapshots.Current()
	movies, err := h.services.Catalog.Offscreen(c.Request.Context(), snap, h.services.Classifier.Today())
	if err != nil {
		h.services.Logger.Errorf("[ScreeningHandler] offscreen failed: %v", err)
		abortWithDetail(c, statusFor(err), err.Error())
		return
	}
	c.JSON(http.StatusOK, movies)
}
