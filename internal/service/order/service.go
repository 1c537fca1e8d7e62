package order

import (
	"context"
	"log"

	"greenhaven/internal/domain"
	"greenhaven/internal/notify"
)

type Service struct {
	repo      orderRepo
	publisher *notify.Publisher
}

type orderRepo interface {
	GetByID(ctx context.Context, userID, orderID string) (*domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error)
}

func New(repo orderRepo, publisher *notify.Publisher) *Service {
	return &Service{repo: repo, publisher: publisher}
}

func (s *Service) List(ctx context.Context, userID string) ([]domain.Order, error) {
	orders, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if orders == nil {
		orders = []domain.Order{}
	}
	return orders, nil
}

func (s *Service) Get(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	return s.repo.GetByID(ctx, userID, orderID)
}

// Cancel releases the order. The repository enforces the lifecycle guard and
// restores the inventory its lines held.
func (s *Service) Cancel(ctx context.Context, userID, orderID string) (*domain.Order, error) {
	o, err := s.repo.Cancel(ctx, userID, orderID)
	if err != nil {
		return nil, err
	}
	if err := s.publisher.Publish(ctx, notify.KeyOrderCancelled, notify.OrderEvent{
		OrderID:     o.ID,
		OrderNumber: o.OrderNumber,
		Email:       o.Email,
		TotalCents:  o.TotalCents,
		Currency:    o.Currency,
	}); err != nil {
		log.Printf("order: publish order.cancelled %s: %v", o.ID, err)
	}
	return o, nil
}
