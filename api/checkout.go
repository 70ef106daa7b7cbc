package api

import (
	"net/http"

	"github.com/Domenick1991/wolkenticket/internal/checkout"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/gin-gonic/gin"
)

type CheckoutHandler struct {
	service checkout.CheckoutUseCase
}

type advanceResponse struct {
	Form     *checkout.Form     `json:"form"`
	Advanced bool               `json:"advanced"`
	Fields   domain.FieldErrors `json:"fields,omitempty"`
}

func NewCheckoutHandler(service checkout.CheckoutUseCase) *CheckoutHandler {
	return &CheckoutHandler{service: service}
}

func (h *CheckoutHandler) Register(router *gin.RouterGroup) {
	router.POST("", h.start)
	router.GET("/:id", h.get)
	router.PUT("/:id/draft", h.updateDraft)
	router.POST("/:id/advance", h.advance)
	router.POST("/:id/retreat", h.retreat)
}

func (h *CheckoutHandler) start(c *gin.Context) {
	form, err := h.service.Start(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, form)
}

func (h *CheckoutHandler) get(c *gin.Context) {
	form, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

func (h *CheckoutHandler) updateDraft(c *gin.Context) {
	var draft domain.Draft
	if err := c.ShouldBindJSON(&draft); err != nil {
		badRequest(c, err)
		return
	}

	form, err := h.service.UpdateDraft(c.Request.Context(), c.Param("id"), draft)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}

// advance answers 200 either way; a step that does not validate comes back with its field errors.
func (h *CheckoutHandler) advance(c *gin.Context) {
	form, advanced, fields, err := h.service.Advance(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	resp := advanceResponse{Form: form, Advanced: advanced}
	if !fields.Empty() {
		resp.Fields = fields
	}
	c.JSON(http.StatusOK, resp)
}

func (h *CheckoutHandler) retreat(c *gin.Context) {
	form, err := h.service.Retreat(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, form)
}
