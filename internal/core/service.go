package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrOrderNotFound is returned by callers that need an error for an absent order.
var ErrOrderNotFound = errors.New("order not found")

// Service is the read-only query surface over the current snapshot.
// It is safe for concurrent use.
type Service struct {
	source   Source
	observer AnalysisObserver

	mu       sync.Mutex
	cachedID string
	cached   []AnalyzedOrder
}

// ServiceOption configures a Service.
type ServiceOption func(*Service)

// WithAnalysisObserver reports each fresh analysis to o.
func WithAnalysisObserver(o AnalysisObserver) ServiceOption {
	return func(s *Service) { s.observer = o }
}

// NewService creates a Service reading from source.
func NewService(source Source, opts ...ServiceOption) *Service {
	s := &Service{source: source}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListAnalyzedOrders returns every header joined with its movements and
// classified, in header file order.
//
// The result is shared with other callers of the same snapshot and must not
// be modified.
func (s *Service) ListAnalyzedOrders(ctx context.Context) ([]AnalyzedOrder, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Snapshots without an ID are never cached.
	if snap.ID != "" && s.cached != nil && s.cachedID == snap.ID {
		return s.cached, nil
	}

	start := time.Now()
	orders := Analyze(snap.Headers, snap.Movements)
	if s.observer != nil {
		s.observer.ObserveAnalysis(Summarize(orders), time.Since(start))
	}

	s.cachedID = snap.ID
	s.cached = orders
	return orders, nil
}

// GetAnalyzedOrder returns the first order whose number equals orderNumber.
// The boolean is false when no such order exists; that is not an error.
func (s *Service) GetAnalyzedOrder(ctx context.Context, orderNumber string) (AnalyzedOrder, bool, error) {
	orders, err := s.ListAnalyzedOrders(ctx)
	if err != nil {
		return AnalyzedOrder{}, false, err
	}
	for _, o := range orders {
		if o.OrderNumber == orderNumber {
			return o, true, nil
		}
	}
	return AnalyzedOrder{}, false, nil
}

// FindOrders lists analyzed orders narrowed by f.
func (s *Service) FindOrders(ctx context.Context, f Filter) ([]AnalyzedOrder, error) {
	orders, err := s.ListAnalyzedOrders(ctx)
	if err != nil {
		return nil, err
	}
	return FilterOrders(orders, f), nil
}

// Summary tallies the current snapshot.
func (s *Service) Summary(ctx context.Context) (Summary, error) {
	orders, err := s.ListAnalyzedOrders(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(orders), nil
}

// ListRawHeaders returns the normalized header rows without joining.
func (s *Service) ListRawHeaders(ctx context.Context) ([]OrderHeader, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Headers, nil
}

// ListRawMovements returns the normalized movement rows without joining.
func (s *Service) ListRawMovements(ctx context.Context) ([]MaterialMovement, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.Movements, nil
}

func (s *Service) snapshot(ctx context.Context) (*Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := s.source.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if snap == nil {
		return &Snapshot{}, nil
	}
	return snap, nil
}
