package checkout

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"greenhaven/internal/config"
	"greenhaven/internal/domain"
)

var testParams = config.Pricing{
	TaxRateBasisPoints:         800,
	FreeShippingThresholdCents: 10000,
	FlatShippingFeeCents:       1000,
	Currency:                   "USD",
}

type stubCartRepo struct {
	items []domain.CartItem
	err   error
}

func (s *stubCartRepo) ListByUser(context.Context, string) ([]domain.CartItem, error) {
	return s.items, s.err
}

type stubAddressRepo struct {
	addresses map[string]*domain.Address
}

func (s *stubAddressRepo) GetByID(_ context.Context, _, id string) (*domain.Address, error) {
	if a, ok := s.addresses[id]; ok {
		return a, nil
	}
	return nil, domain.ErrNotFound
}

type stubOrderRepo struct {
	placeErrs    []error
	placeCalls   int
	placed       []domain.Order
	statusErr    error
	lastOrderID  string
	lastStatus   domain.OrderStatus
	lastPayment  domain.PaymentStatus
	statusCalled int
}

func (s *stubOrderRepo) Place(_ context.Context, o *domain.Order) (*domain.Order, error) {
	s.placeCalls++
	s.placed = append(s.placed, *o)
	if len(s.placeErrs) > 0 {
		err := s.placeErrs[0]
		s.placeErrs = s.placeErrs[1:]
		if err != nil {
			return nil, err
		}
	}
	out := *o
	out.ID = "order-1"
	return &out, nil
}

func (s *stubOrderRepo) SetStatus(_ context.Context, orderID string, status domain.OrderStatus, payment domain.PaymentStatus) error {
	s.statusCalled++
	s.lastOrderID = orderID
	s.lastStatus = status
	s.lastPayment = payment
	return s.statusErr
}

type stubInventoryRepo struct {
	short map[string]bool
	err   error
}

func (s *stubInventoryRepo) CheckAvailable(_ context.Context, productID string, _ *string, _ int) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return !s.short[productID], nil
}

type failingProcessor struct{ err error }

func (p failingProcessor) Charge(context.Context, *domain.Order) error { return p.err }

func price(cents int64) *domain.Product {
	return &domain.Product{ID: "p1", Name: "Monstera", PriceCents: cents}
}

func testUser() *domain.User {
	return &domain.User{ID: "u1", Email: "ada@example.com"}
}

func newService(carts *stubCartRepo, addresses *stubAddressRepo, orders *stubOrderRepo, payments PaymentProcessor) *Service {
	svc := New(carts, addresses, orders, &stubInventoryRepo{}, payments, nil, testParams)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc
}

func TestCheckoutEmptyCart(t *testing.T) {
	svc := newService(&stubCartRepo{}, &stubAddressRepo{}, &stubOrderRepo{}, nil)
	_, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if !errors.Is(err, domain.ErrEmptyCart) {
		t.Fatalf("expected empty cart error, got %v", err)
	}
}

func TestCheckoutMissingShippingAddress(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Product: price(1000)}}}
	svc := newService(carts, &stubAddressRepo{}, &stubOrderRepo{}, nil)

	_, err := svc.Checkout(context.Background(), testUser(), Input{})
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected invalid address for blank id, got %v", err)
	}

	_, err = svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "nope"})
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected invalid address for unknown id, got %v", err)
	}
}

func TestCheckoutUnknownBillingAddress(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Product: price(1000)}}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	svc := newService(carts, addresses, &stubOrderRepo{}, nil)

	_, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1", BillingAddressID: "nope"})
	if !errors.Is(err, domain.ErrInvalidAddress) {
		t.Fatalf("expected invalid address, got %v", err)
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	variantPrice := int64(5000)
	carts := &stubCartRepo{items: []domain.CartItem{
		{ProductID: "p1", Quantity: 2, Product: price(7500)},
		{ProductID: "p2", Quantity: 1, Product: &domain.Product{ID: "p2", Name: "Pot", PriceCents: 1200},
			Variant: &domain.Variant{ID: "v1", Name: "Large", PriceCents: variantPrice}},
	}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{}
	svc := newService(carts, addresses, orders, nil)

	got, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 2*7500 + 1*5000 = 20000; tax 8% = 1600; free shipping above 10000.
	if got.SubtotalCents != 20000 || got.TaxCents != 1600 || got.ShippingCents != 0 || got.TotalCents != 21600 {
		t.Fatalf("unexpected totals: %+v", got)
	}
	if got.Status != domain.OrderStatusConfirmed || got.PaymentStatus != domain.PaymentStatusPaid {
		t.Fatalf("expected confirmed/paid, got %s/%s", got.Status, got.PaymentStatus)
	}
	if got.BillingAddressID != "a1" {
		t.Fatalf("billing should default to shipping, got %s", got.BillingAddressID)
	}
	if !strings.HasPrefix(got.OrderNumber, "ORD-1700000000000-") {
		t.Fatalf("unexpected order number %s", got.OrderNumber)
	}
	if got.Email != "ada@example.com" {
		t.Fatalf("unexpected email %s", got.Email)
	}

	placed := orders.placed[0]
	if placed.Status != domain.OrderStatusPending || placed.PaymentStatus != domain.PaymentStatusPending {
		t.Fatalf("order must be placed pending, got %s/%s", placed.Status, placed.PaymentStatus)
	}
	if len(placed.Items) != 2 {
		t.Fatalf("expected 2 order items, got %d", len(placed.Items))
	}
	if placed.Items[1].UnitPriceCents != variantPrice {
		t.Fatalf("variant price must win, got %d", placed.Items[1].UnitPriceCents)
	}
	if placed.Items[1].ProductName != "Pot (Large)" {
		t.Fatalf("unexpected product name %s", placed.Items[1].ProductName)
	}
	if orders.lastStatus != domain.OrderStatusConfirmed || orders.lastPayment != domain.PaymentStatusPaid {
		t.Fatalf("unexpected status update: %s/%s", orders.lastStatus, orders.lastPayment)
	}
}

func TestCheckoutShippingBelowThreshold(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Product: price(5000)}}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{}
	svc := newService(carts, addresses, orders, nil)

	got, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.ShippingCents != 1000 {
		t.Fatalf("expected flat shipping fee, got %d", got.ShippingCents)
	}
	// 5000 + 400 tax + 1000 shipping
	if got.TotalCents != 6400 {
		t.Fatalf("unexpected total %d", got.TotalCents)
	}
}

func TestCheckoutInsufficientStock(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 3, Product: price(1000)}}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{placeErrs: []error{domain.ErrInsufficientStock}}
	svc := newService(carts, addresses, orders, nil)

	_, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if orders.placeCalls != 1 {
		t.Fatalf("stock failures must not be retried, got %d calls", orders.placeCalls)
	}
	if orders.statusCalled != 0 {
		t.Fatalf("no status update expected after failed placement")
	}
}

func TestCheckoutStockPrecheckNamesLine(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{
		{ProductID: "p1", Quantity: 1, Product: price(1000)},
		{ProductID: "p2", Quantity: 5, Product: &domain.Product{ID: "p2", Name: "Pot", PriceCents: 1200}},
	}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{}
	inv := &stubInventoryRepo{short: map[string]bool{"p2": true}}
	svc := New(carts, addresses, orders, inv, nil, nil, testParams)

	_, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if !errors.Is(err, domain.ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock, got %v", err)
	}
	if !strings.Contains(err.Error(), "p2") {
		t.Fatalf("error must name the offending line, got %v", err)
	}
	if orders.placeCalls != 0 {
		t.Fatalf("nothing may be placed after a failed precheck, got %d calls", orders.placeCalls)
	}
}

func TestCheckoutRetriesOrderNumberCollision(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Product: price(1000)}}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{placeErrs: []error{domain.ErrAlreadyExists, domain.ErrAlreadyExists, nil}}
	svc := newService(carts, addresses, orders, nil)

	got, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if orders.placeCalls != 3 {
		t.Fatalf("expected 3 placement attempts, got %d", orders.placeCalls)
	}
	if orders.placed[0].OrderNumber == orders.placed[1].OrderNumber {
		t.Fatalf("collision retry must regenerate the order number")
	}
	if got.ID == "" {
		t.Fatalf("expected placed order")
	}
}

func TestCheckoutGivesUpAfterRepeatedCollisions(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Product: price(1000)}}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{placeErrs: []error{domain.ErrAlreadyExists, domain.ErrAlreadyExists, domain.ErrAlreadyExists}}
	svc := newService(carts, addresses, orders, nil)

	_, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if err == nil {
		t.Fatalf("expected an error after exhausted retries")
	}
	if errors.Is(err, domain.ErrAlreadyExists) {
		t.Fatalf("exhausted retries must surface opaquely, got %v", err)
	}
	if orders.placeCalls != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", orders.placeCalls)
	}
}

func TestCheckoutPaymentFailure(t *testing.T) {
	carts := &stubCartRepo{items: []domain.CartItem{{ProductID: "p1", Quantity: 1, Product: price(1000)}}}
	addresses := &stubAddressRepo{addresses: map[string]*domain.Address{"a1": {ID: "a1"}}}
	orders := &stubOrderRepo{}
	boom := errors.New("card declined")
	svc := newService(carts, addresses, orders, failingProcessor{err: boom})

	_, err := svc.Checkout(context.Background(), testUser(), Input{ShippingAddressID: "a1"})
	if !errors.Is(err, boom) {
		t.Fatalf("expected payment error, got %v", err)
	}
	if orders.lastStatus != domain.OrderStatusPending || orders.lastPayment != domain.PaymentStatusFailed {
		t.Fatalf("expected pending/failed after declined payment, got %s/%s", orders.lastStatus, orders.lastPayment)
	}
}
