package orders

import (
	"context"
	"errors"
	"testing"

	"sandyadmin/internal/model"
)

type mockAPI struct {
	orders      []model.Order
	ordersErr   error
	updateErr   error
	fetchCalls  int
	updateCalls []string
}

func (m *mockAPI) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	m.fetchCalls++
	if m.ordersErr != nil {
		return nil, m.ordersErr
	}
	out := make([]model.Order, len(m.orders))
	copy(out, m.orders)
	return out, nil
}

func (m *mockAPI) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	m.updateCalls = append(m.updateCalls, status)
	return m.updateErr
}

func seededAPI() *mockAPI {
	return &mockAPI{orders: []model.Order{
		{ID: 1, CustomerName: "An", Status: model.StatusPending, TotalAmount: 125000},
		{ID: 2, CustomerName: "Binh", Status: model.StatusReady, TotalAmount: 89000},
		{ID: 3, CustomerName: "Chi", Status: model.StatusDelivered, TotalAmount: 50000},
	}}
}

func TestListCachesUntilRefresh(t *testing.T) {
	api := seededAPI()
	s := NewService(api)
	ctx := context.Background()

	if _, err := s.List(ctx, false); err != nil {
		t.Fatalf("first list: %v", err)
	}
	if _, err := s.List(ctx, false); err != nil {
		t.Fatalf("second list: %v", err)
	}
	if api.fetchCalls != 1 {
		t.Errorf("fetch calls = %d, want 1 (second list served from cache)", api.fetchCalls)
	}

	// The refresh param forces a refetch.
	if _, err := s.List(ctx, true); err != nil {
		t.Fatalf("refresh list: %v", err)
	}
	if api.fetchCalls != 2 {
		t.Errorf("fetch calls = %d, want 2 after refresh", api.fetchCalls)
	}
}

func TestListReturnsCopy(t *testing.T) {
	s := NewService(seededAPI())
	ctx := context.Background()

	first, err := s.List(ctx, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	first[0].Status = "mangled"

	again, _ := s.List(ctx, false)
	if again[0].Status != model.StatusPending {
		t.Error("caller mutation leaked into the cached mirror")
	}
}

func TestUpdateStatusForwardOnly(t *testing.T) {
	api := seededAPI()
	s := NewService(api)
	ctx := context.Background()
	if _, err := s.List(ctx, false); err != nil {
		t.Fatalf("list: %v", err)
	}

	// pending -> preparing is the legal forward step.
	updated, err := s.UpdateStatus(ctx, 1, model.StatusPreparing)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != model.StatusPreparing {
		t.Errorf("status = %q", updated.Status)
	}

	// Skipping a step is rejected without a server call.
	before := len(api.updateCalls)
	if _, err := s.UpdateStatus(ctx, 1, model.StatusDelivered); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
	if len(api.updateCalls) != before {
		t.Error("invalid transition reached the backend")
	}

	// Delivered is terminal.
	if _, err := s.UpdateStatus(ctx, 3, model.StatusPending); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestUpdateStatusMirrorsOnlyAfterAck(t *testing.T) {
	api := seededAPI()
	api.updateErr = errors.New("backend down")
	s := NewService(api)
	ctx := context.Background()
	if _, err := s.List(ctx, false); err != nil {
		t.Fatalf("list: %v", err)
	}

	if _, err := s.UpdateStatus(ctx, 1, model.StatusPreparing); err == nil {
		t.Fatal("expected error from backend")
	}

	order, err := s.Get(1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if order.Status != model.StatusPending {
		t.Errorf("mirror status = %q, want unchanged pending", order.Status)
	}
}

func TestAdvance(t *testing.T) {
	api := seededAPI()
	s := NewService(api)
	ctx := context.Background()
	if _, err := s.List(ctx, false); err != nil {
		t.Fatalf("list: %v", err)
	}

	updated, err := s.Advance(ctx, 2)
	if err != nil {
		t.Fatalf("advance: %v", err)
	}
	if updated.Status != model.StatusDelivered {
		t.Errorf("status = %q, want delivered", updated.Status)
	}

	if _, err := s.Advance(ctx, 2); !errors.Is(err, model.ErrInvalidTransition) {
		t.Fatalf("advancing a delivered order: err = %v", err)
	}
}

func TestGetUnknownOrder(t *testing.T) {
	s := NewService(seededAPI())
	if _, err := s.Get(999); !errors.Is(err, model.ErrOrderNotFound) {
		t.Fatalf("err = %v, want ErrOrderNotFound", err)
	}
}
