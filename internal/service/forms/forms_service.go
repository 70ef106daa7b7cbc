package forms

import (
	"context"
	"fmt"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/Domenick1991/wolkenticket/internal/repository"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type FormsUseCase interface {
	GetForm(ctx context.Context, id string) (*domain.Form, error)
	Submit(ctx context.Context, formID string, values map[string]string) (*domain.Submission, error)
}

type FormsService struct {
	forms  repository.FormRepository
	logger *zap.Logger
}

func NewFormsService(forms repository.FormRepository, logger *zap.Logger) *FormsService {
	return &FormsService{forms: forms, logger: logger}
}

func (s *FormsService) GetForm(ctx context.Context, id string) (*domain.Form, error) {
	form, err := s.forms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch form with ID %s: %w", id, err)
	}
	return form, nil
}

// Submit validates values against the form and stores them as an ordered submission.
func (s *FormsService) Submit(ctx context.Context, formID string, values map[string]string) (*domain.Submission, error) {
	form, err := s.GetForm(ctx, formID)
	if err != nil {
		return nil, err
	}

	v := BuildValidator(form)
	if errs := v.Validate(values); !errs.Empty() {
		return nil, domain.NewValidationError(errs)
	}

	submission := &domain.Submission{
		ID:     uuid.NewString(),
		FormID: form.ID,
		Values: v.Transform(values),
	}
	if err := s.forms.CreateSubmission(ctx, submission); err != nil {
		return nil, fmt.Errorf("failed to submit form data for form ID %s: %w", formID, err)
	}

	s.logger.Info("form submitted", zap.String("form_id", formID), zap.String("submission_id", submission.ID))
	return submission, nil
}

var _ FormsUseCase = (*FormsService)(nil)
