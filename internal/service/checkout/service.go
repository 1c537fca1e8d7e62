package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"greenhaven/internal/config"
	"greenhaven/internal/domain"
	"greenhaven/internal/notify"
	"greenhaven/internal/pricing"

	"github.com/google/uuid"
)

// Service turns a cart into an order: validate, price, place atomically,
// capture payment, confirm.
type Service struct {
	carts     cartRepo
	addresses addressRepo
	orders    orderRepo
	inventory inventoryRepo
	payments  PaymentProcessor
	publisher *notify.Publisher
	params    config.Pricing
	now       func() time.Time
}

type cartRepo interface {
	ListByUser(ctx context.Context, userID string) ([]domain.CartItem, error)
}

type addressRepo interface {
	GetByID(ctx context.Context, userID, id string) (*domain.Address, error)
}

type orderRepo interface {
	Place(ctx context.Context, o *domain.Order) (*domain.Order, error)
	SetStatus(ctx context.Context, orderID string, status domain.OrderStatus, paymentStatus domain.PaymentStatus) error
}

type inventoryRepo interface {
	CheckAvailable(ctx context.Context, productID string, variantID *string, quantity int) (bool, error)
}

// PaymentProcessor captures payment for a placed order. The synchronous stub
// in this package stands in for a real gateway.
type PaymentProcessor interface {
	Charge(ctx context.Context, o *domain.Order) error
}

// StubProcessor approves every charge.
type StubProcessor struct{}

func (StubProcessor) Charge(context.Context, *domain.Order) error { return nil }

func New(carts cartRepo, addresses addressRepo, orders orderRepo, inventory inventoryRepo, payments PaymentProcessor, publisher *notify.Publisher, params config.Pricing) *Service {
	if payments == nil {
		payments = StubProcessor{}
	}
	return &Service{
		carts:     carts,
		addresses: addresses,
		orders:    orders,
		inventory: inventory,
		payments:  payments,
		publisher: publisher,
		params:    params,
		now:       time.Now,
	}
}

type Input struct {
	ShippingAddressID string `json:"shippingAddressId"`
	BillingAddressID  string `json:"billingAddressId"`
	Phone             string `json:"phone"`
	Notes             string `json:"notes"`
}

// Checkout places an order from the user's current cart.
//
// The flow is: reject an empty cart, resolve both addresses under the user's
// ownership, check every line against current stock, price the lines, then
// hand the repository one transaction that inserts the order, decrements
// every line's stock, and clears the cart. The precheck gives a fast failure
// naming the offending line; the conditional decrement inside the placement
// transaction is the authoritative guard against races. Payment is captured
// after placement; on success the order moves PENDING -> CONFIRMED with
// payment PAID.
func (s *Service) Checkout(ctx context.Context, user *domain.User, in Input) (*domain.Order, error) {
	items, err := s.carts.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, domain.ErrEmptyCart
	}

	if strings.TrimSpace(in.ShippingAddressID) == "" {
		return nil, domain.ErrInvalidAddress
	}
	shipping, err := s.addresses.GetByID(ctx, user.ID, in.ShippingAddressID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrInvalidAddress
		}
		return nil, err
	}
	billingID := strings.TrimSpace(in.BillingAddressID)
	if billingID == "" {
		billingID = shipping.ID
	} else if billingID != shipping.ID {
		if _, err := s.addresses.GetByID(ctx, user.ID, billingID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, domain.ErrInvalidAddress
			}
			return nil, err
		}
	}

	for _, item := range items {
		ok, err := s.inventory.CheckAvailable(ctx, item.ProductID, item.VariantID, item.Quantity)
		if err != nil {
			return nil, err
		}
		if !ok {
			if item.VariantID != nil {
				return nil, fmt.Errorf("product %s variant %s: %w", item.ProductID, *item.VariantID, domain.ErrInsufficientStock)
			}
			return nil, fmt.Errorf("product %s: %w", item.ProductID, domain.ErrInsufficientStock)
		}
	}

	lines := make([]pricing.Line, len(items))
	orderItems := make([]domain.OrderItem, len(items))
	for i, item := range items {
		unit := item.UnitPriceCents()
		lines[i] = pricing.Line{UnitPriceCents: unit, Quantity: item.Quantity}
		name := ""
		if item.Product != nil {
			name = item.Product.Name
		}
		if item.Variant != nil {
			name = name + " (" + item.Variant.Name + ")"
		}
		orderItems[i] = domain.OrderItem{
			ProductID:      item.ProductID,
			VariantID:      item.VariantID,
			Quantity:       item.Quantity,
			UnitPriceCents: unit,
			TotalCents:     unit * int64(item.Quantity),
			ProductName:    name,
		}
	}
	totals := pricing.Compute(lines, 0, pricing.Params{
		TaxRateBasisPoints:         s.params.TaxRateBasisPoints,
		FreeShippingThresholdCents: s.params.FreeShippingThresholdCents,
		FlatShippingFeeCents:       s.params.FlatShippingFeeCents,
	})

	order := &domain.Order{
		UserID:            user.ID,
		Email:             user.Email,
		Phone:             in.Phone,
		Status:            domain.OrderStatusPending,
		PaymentStatus:     domain.PaymentStatusPending,
		SubtotalCents:     totals.SubtotalCents,
		TaxCents:          totals.TaxCents,
		ShippingCents:     totals.ShippingCents,
		DiscountCents:     totals.DiscountCents,
		TotalCents:        totals.TotalCents,
		Currency:          s.params.Currency,
		ShippingAddressID: shipping.ID,
		BillingAddressID:  billingID,
		Notes:             in.Notes,
		Items:             orderItems,
	}

	// Order numbers are unique; regenerate on the rare collision instead of
	// surfacing it.
	var placed *domain.Order
	for attempt := 0; attempt < 3; attempt++ {
		order.OrderNumber = s.orderNumber()
		placed, err = s.orders.Place(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, domain.ErrAlreadyExists) {
			return nil, err
		}
	}
	if placed == nil {
		// Collisions are an internal concern; when the retries run out the
		// caller sees an opaque failure, not a conflict.
		return nil, fmt.Errorf("order number collision persisted across retries: %v", err)
	}

	if err := s.payments.Charge(ctx, placed); err != nil {
		if stErr := s.orders.SetStatus(ctx, placed.ID, domain.OrderStatusPending, domain.PaymentStatusFailed); stErr != nil {
			log.Printf("checkout: mark payment failed %s: %v", placed.ID, stErr)
		}
		return nil, err
	}
	if err := s.orders.SetStatus(ctx, placed.ID, domain.OrderStatusConfirmed, domain.PaymentStatusPaid); err != nil {
		return nil, err
	}
	placed.Status = domain.OrderStatusConfirmed
	placed.PaymentStatus = domain.PaymentStatusPaid

	if err := s.publisher.Publish(ctx, notify.KeyOrderConfirmed, notify.OrderEvent{
		OrderID:     placed.ID,
		OrderNumber: placed.OrderNumber,
		Email:       placed.Email,
		TotalCents:  placed.TotalCents,
		Currency:    placed.Currency,
	}); err != nil {
		// The order is committed; event delivery must not fail the checkout.
		log.Printf("checkout: publish order.confirmed %s: %v", placed.ID, err)
	}

	return placed, nil
}

func (s *Service) orderNumber() string {
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("ORD-%d-%s", s.now().UnixMilli(), suffix)
}
