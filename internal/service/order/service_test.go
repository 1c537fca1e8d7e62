package order

import (
	"context"
	"errors"
	"testing"

	"greenhaven/internal/domain"
)

type stubOrderRepo struct {
	order      *domain.Order
	getErr     error
	orders     []domain.Order
	listErr    error
	cancelled  *domain.Order
	cancelErr  error
	lastUser   string
	lastOrder  string
	cancelHits int
}

func (s *stubOrderRepo) GetByID(_ context.Context, userID, orderID string) (*domain.Order, error) {
	s.lastUser = userID
	s.lastOrder = orderID
	return s.order, s.getErr
}

func (s *stubOrderRepo) ListByUser(context.Context, string) ([]domain.Order, error) {
	return s.orders, s.listErr
}

func (s *stubOrderRepo) Cancel(_ context.Context, userID, orderID string) (*domain.Order, error) {
	s.cancelHits++
	s.lastUser = userID
	s.lastOrder = orderID
	return s.cancelled, s.cancelErr
}

func TestListReturnsEmptySlice(t *testing.T) {
	svc := New(&stubOrderRepo{}, nil)
	orders, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders == nil || len(orders) != 0 {
		t.Fatalf("expected empty slice, got %#v", orders)
	}
}

func TestGetScopesToUser(t *testing.T) {
	repo := &stubOrderRepo{order: &domain.Order{ID: "o1"}}
	svc := New(repo, nil)
	got, err := svc.Get(context.Background(), "u1", "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ID != "o1" || repo.lastUser != "u1" || repo.lastOrder != "o1" {
		t.Fatalf("get not scoped as expected")
	}
}

func TestCancelHappyPath(t *testing.T) {
	repo := &stubOrderRepo{cancelled: &domain.Order{ID: "o1", Status: domain.OrderStatusCancelled}}
	svc := New(repo, nil)
	got, err := svc.Cancel(context.Background(), "u1", "o1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Status != domain.OrderStatusCancelled || repo.cancelHits != 1 {
		t.Fatalf("unexpected cancel result: %+v", got)
	}
}

func TestCancelInvalidTransition(t *testing.T) {
	repo := &stubOrderRepo{cancelErr: domain.ErrInvalidTransition}
	svc := New(repo, nil)
	_, err := svc.Cancel(context.Background(), "u1", "o1")
	if !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("expected invalid transition, got %v", err)
	}
}
