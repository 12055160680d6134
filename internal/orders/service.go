package orders

import (
	"context"
	"fmt"
	"log"
	"sync"

	"sandyadmin/internal/model"
)

// API is the slice of the remote client the order dashboard needs.
type API interface {
	GetAllOrders(ctx context.Context) ([]model.Order, error)
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
}

// Service holds the dashboard's local mirror of the order list. The mirror
// is only mutated to reflect a confirmed server update; a failed call leaves
// it untouched.
type Service struct {
	api API

	mu     sync.RWMutex
	orders []model.Order
	loaded bool
}

func NewService(api API) *Service {
	return &Service{api: api}
}

// List returns the cached order list, fetching it first if the cache is
// empty or refresh is set (the tap-navigation cache-bust).
func (s *Service) List(ctx context.Context, refresh bool) ([]model.Order, error) {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()

	if loaded && !refresh {
		return s.snapshot(), nil
	}
	return s.Refresh(ctx)
}

// Refresh refetches the order list from the backend.
func (s *Service) Refresh(ctx context.Context) ([]model.Order, error) {
	orders, err := s.api.GetAllOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch orders: %w", err)
	}

	s.mu.Lock()
	s.orders = orders
	s.loaded = true
	s.mu.Unlock()

	log.Printf("[Orders] Fetched %d orders", len(orders))
	return s.snapshot(), nil
}

// Get returns the cached order with the given ID.
func (s *Service) Get(orderID int64) (model.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, o := range s.orders {
		if o.ID == orderID {
			return o, nil
		}
	}
	return model.Order{}, model.ErrOrderNotFound
}

// UpdateStatus moves an order to the given status. Only the next forward
// step is accepted (pending -> preparing -> ready -> delivered); the local
// mirror updates only after the server acknowledges.
func (s *Service) UpdateStatus(ctx context.Context, orderID int64, status string) (model.Order, error) {
	current, err := s.Get(orderID)
	if err != nil {
		return model.Order{}, err
	}

	if !model.ValidTransition(current.Status, status) {
		return model.Order{}, fmt.Errorf("%w: %s -> %s", model.ErrInvalidTransition, current.Status, status)
	}

	if err := s.api.UpdateOrderStatus(ctx, orderID, status); err != nil {
		return model.Order{}, fmt.Errorf("update order %d: %w", orderID, err)
	}

	s.mu.Lock()
	for i := range s.orders {
		if s.orders[i].ID == orderID {
			s.orders[i].Status = status
			current = s.orders[i]
			break
		}
	}
	s.mu.Unlock()

	log.Printf("[Orders] Order %d -> %s", orderID, status)
	return current, nil
}

// Advance moves an order one step forward from its current status.
func (s *Service) Advance(ctx context.Context, orderID int64) (model.Order, error) {
	current, err := s.Get(orderID)
	if err != nil {
		return model.Order{}, err
	}

	next, ok := model.NextStatus(current.Status)
	if !ok {
		return model.Order{}, fmt.Errorf("%w: %s is terminal", model.ErrInvalidTransition, current.Status)
	}
	return s.UpdateStatus(ctx, orderID, next)
}

func (s *Service) snapshot() []model.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.Order, len(s.orders))
	copy(out, s.orders)
	return out
}
