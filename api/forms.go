package api

import (
	"net/http"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/service/forms"
	"github.com/gin-gonic/gin"
)

type FormHandler struct {
	service forms.FormsUseCase
}

type formResponse struct {
	ID                string             `json:"id"`
	Title             string             `json:"title"`
	Fields            []domain.FormField `json:"fields"`
	SubmitButtonLabel string             `json:"submit_button_label,omitempty"`
	ConfirmationText  string             `json:"confirmation_text,omitempty"`
	Defaults          map[string]string  `json:"defaults"`
}

type submitRequest struct {
	Values map[string]string `json:"values" binding:"required"`
}

type submissionResponse struct {
	ID             string                   `json:"id"`
	FormID         string                   `json:"form_id"`
	SubmissionData []domain.SubmissionValue `json:"submission_data"`
}

func NewFormHandler(service forms.FormsUseCase) *FormHandler {
	return &FormHandler{service: service}
}

func (h *FormHandler) Register(router *gin.RouterGroup) {
	router.GET("/:id", h.get)
	router.POST("/:id/submissions", h.submit)
}

func (h *FormHandler) get(c *gin.Context) {
	form, err := h.service.GetForm(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, formResponse{
		ID:                form.ID,
		Title:             form.Title,
		Fields:            form.Fields,
		SubmitButtonLabel: form.SubmitButtonLabel,
		ConfirmationText:  form.ConfirmationText,
		Defaults:          forms.BuildValidator(form).Defaults(),
	})
}

func (h *FormHandler) submit(c *gin.Context) {
	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	submission, err := h.service.Submit(c.Request.Context(), c.Param("id"), req.Values)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, submissionResponse{
		ID:             submission.ID,
		FormID:         submission.FormID,
		SubmissionData: submission.Values,
	})
}
