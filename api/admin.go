package api

import (
	"net/http"
	"strconv"

	"github.com/Domenick1991/wolkenticket/internal/airports"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/service/auth"
	"github.com/Domenick1991/wolkenticket/internal/service/booking"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminHandler struct {
	auth     auth.AuthUseCase
	bookings booking.BookingUseCase
	airports airports.AirportsUseCase
	logger   *zap.Logger
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type statusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

func NewAdminHandler(auth auth.AuthUseCase, bookings booking.BookingUseCase, airports airports.AirportsUseCase, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{auth: auth, bookings: bookings, airports: airports, logger: logger}
}

// Register mounts login publicly and everything else behind authMW.
func (h *AdminHandler) Register(router *gin.RouterGroup, authMW gin.HandlerFunc) {
	router.POST("/login", h.login)

	protected := router.Group("", authMW)
	protected.GET("/bookings", h.listBookings)
	protected.PATCH("/bookings/:id/status", h.updateStatus)
	protected.POST("/airports/refresh", h.refreshAirports)
}

func (h *AdminHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, token)
}

func (h *AdminHandler) listBookings(c *gin.Context) {
	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	list, err := h.bookings.List(c.Request.Context(), domain.BookingFilter{
		Status: domain.BookingStatus(c.Query("status")),
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := make([]bookingResponse, 0, len(list))
	for i := range list {
		resp = append(resp, newBookingResponse(&list[i]))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": resp})
}

func (h *AdminHandler) updateStatus(c *gin.Context) {
	var req statusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	updated, err := h.bookings.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		writeError(c, err)
		return
	}
	if claims := currentClaims(c); claims != nil {
		h.logger.Info("admin changed booking status",
			zap.String("admin", claims.Email),
			zap.String("booking_id", updated.ID),
			zap.String("status", string(updated.Status)))
	}
	c.JSON(http.StatusOK, newBookingResponse(updated))
}

// refreshAirports schedules a debounced reload; bursts of calls collapse into one fetch.
func (h *AdminHandler) refreshAirports(c *gin.Context) {
	h.airports.RequestRefresh()
	c.JSON(http.StatusAccepted, gin.H{"status": "scheduled"})
}
