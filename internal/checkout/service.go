package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/clock"
	"github.com/Domenick1991/wolkenticket/internal/domain"
	"github.com/google/uuid"
)

type CheckoutUseCase interface {
	Start(ctx context.Context) (*Form, error)
	Get(ctx context.Context, id string) (*Form, error)
	UpdateDraft(ctx context.Context, id string, draft domain.Draft) (*Form, error)
	Advance(ctx context.Context, id string) (*Form, bool, domain.FieldErrors, error)
	Retreat(ctx context.Context, id string) (*Form, error)
}

// Store keeps checkout forms between requests. GetCheckout returns nil, nil for an unknown id.
type Store interface {
	GetCheckout(ctx context.Context, id string) (*Form, error)
	SaveCheckout(ctx context.Context, form *Form, ttl time.Duration) error
}

type Service struct {
	store Store
	clock clock.Clock
	ttl   time.Duration
}

func NewService(store Store, clk clock.Clock, ttl time.Duration) *Service {
	return &Service{store: store, clock: clk, ttl: ttl}
}

func (s *Service) Start(ctx context.Context) (*Form, error) {
	form := NewForm(uuid.NewString())
	if err := s.save(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *Service) Get(ctx context.Context, id string) (*Form, error) {
	form, err := s.store.GetCheckout(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to load checkout %s: %w", id, err)
	}
	if form == nil {
		return nil, domain.ErrSessionNotFound
	}
	return form, nil
}

// UpdateDraft replaces the draft but keeps the current step.
func (s *Service) UpdateDraft(ctx context.Context, id string, draft domain.Draft) (*Form, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Draft = draft
	if err := s.save(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *Service) Advance(ctx context.Context, id string) (*Form, bool, domain.FieldErrors, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, false, nil, err
	}
	advanced, errs := form.Advance(clock.Today(s.clock))
	if !advanced {
		return form, false, errs, nil
	}
	if err := s.save(ctx, form); err != nil {
		return nil, false, nil, err
	}
	return form, true, errs, nil
}

func (s *Service) Retreat(ctx context.Context, id string) (*Form, error) {
	form, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	form.Retreat()
	if err := s.save(ctx, form); err != nil {
		return nil, err
	}
	return form, nil
}

func (s *Service) save(ctx context.Context, form *Form) error {
	form.UpdatedAt = s.clock.Now()
	if err := s.store.SaveCheckout(ctx, form, s.ttl); err != nil {
		return fmt.Errorf("failed to save checkout %s: %w", form.ID, err)
	}
	return nil
}

var _ CheckoutUseCase = (*Service)(nil)
