package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/wolkenticket/internal/airports"
	"github.com/gin-gonic/gin"
)

type AirportHandler struct {
	service airports.AirportsUseCase
}

func NewAirportHandler(service airports.AirportsUseCase) *AirportHandler {
	return &AirportHandler{service: service}
}

func (h *AirportHandler) Register(router *gin.RouterGroup) {
	router.GET("", h.search)
}

func (h *AirportHandler) search(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, errorResponse{Error: "limit must be a positive number", Code: "bad_request"})
			return
		}
		limit = n
	}

	options, err := h.service.Search(c.Request.Context(), c.Query("q"), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"options": options})
}
