package airports

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Domenick1991/wolkenticket/internal/domain"
	"go.uber.org/zap"
)

type AirportsUseCase interface {
	Search(ctx context.Context, query string, limit int) ([]domain.AirportOption, error)
	Refresh(ctx context.Context) (int, error)
	RequestRefresh()
}

type Fetcher interface {
	Fetch(ctx context.Context) ([]domain.AirportOption, error)
}

type Cache interface {
	GetAirports(ctx context.Context) ([]domain.AirportOption, error)
	SetAirports(ctx context.Context, options []domain.AirportOption) error
}

type Service struct {
	fetcher   Fetcher
	cache     Cache
	debouncer *Debouncer
	logger    *zap.Logger

	refreshTimeout time.Duration

	mu    sync.RWMutex
	index *Index
}

type Option func(*Service)

func WithRefreshTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.refreshTimeout = d
	}
}

func NewService(fetcher Fetcher, cache Cache, debounce time.Duration, logger *zap.Logger, opts ...Option) *Service {
	s := &Service{
		fetcher:        fetcher,
		cache:          cache,
		debouncer:      NewDebouncer(debounce),
		logger:         logger,
		refreshTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) Search(ctx context.Context, query string, limit int) ([]domain.AirportOption, error) {
	index, err := s.loadIndex(ctx)
	if err != nil {
		return nil, err
	}
	return index.Search(query, limit), nil
}

// Refresh downloads the list again and replaces both the cached copy and the index.
func (s *Service) Refresh(ctx context.Context) (int, error) {
	options, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.cache.SetAirports(ctx, options); err != nil {
		s.logger.Warn("failed to cache airports", zap.Error(err))
	}
	s.setIndex(NewIndex(options))
	return len(options), nil
}

// RequestRefresh schedules a Refresh. Requests arriving within the debounce delay collapse into one.
func (s *Service) RequestRefresh() {
	s.debouncer.Trigger(func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.refreshTimeout)
		defer cancel()
		n, err := s.Refresh(ctx)
		if err != nil {
			s.logger.Error("airport refresh failed", zap.Error(err))
			return
		}
		s.logger.Info("airports refreshed", zap.Int("count", n))
	})
}

func (s *Service) Close() {
	s.debouncer.Cancel()
}

func (s *Service) loadIndex(ctx context.Context) (*Index, error) {
	s.mu.RLock()
	index := s.index
	s.mu.RUnlock()
	if index != nil {
		return index, nil
	}

	options, err := s.cache.GetAirports(ctx)
	if err != nil {
		s.logger.Warn("failed to read cached airports", zap.Error(err))
	}
	if len(options) > 0 {
		index = NewIndex(options)
		s.setIndex(index)
		return index, nil
	}

	if _, err := s.Refresh(ctx); err != nil {
		return nil, fmt.Errorf("failed to load airports: %w", err)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index, nil
}

func (s *Service) setIndex(index *Index) {
	s.mu.Lock()
	s.index = index
	s.mu.Unlock()
}

var _ AirportsUseCase = (*Service)(nil)
