package domain

import "time"

// OrderStatus is the fulfillment lifecycle of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// PaymentStatus tracks payment capture independently of fulfillment.
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "PENDING"
	PaymentStatusPaid     PaymentStatus = "PAID"
	PaymentStatusFailed   PaymentStatus = "FAILED"
	PaymentStatusRefunded PaymentStatus = "REFUNDED"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:    {OrderStatusConfirmed, OrderStatusCancelled},
	OrderStatusConfirmed:  {OrderStatusProcessing, OrderStatusCancelled},
	OrderStatusProcessing: {OrderStatusShipped},
	OrderStatusShipped:    {OrderStatusDelivered},
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range orderTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Order is an immutable-once-created snapshot of a checkout. Line prices and
// totals are captured at placement and never recomputed; only Status and
// PaymentStatus change afterwards.
type Order struct {
	ID                string        `json:"id"`
	OrderNumber       string        `json:"orderNumber"`
	UserID            string        `json:"-"`
	Email             string        `json:"email"`
	Phone             string        `json:"phone,omitempty"`
	Status            OrderStatus   `json:"status"`
	PaymentStatus     PaymentStatus `json:"paymentStatus"`
	SubtotalCents     int64         `json:"subtotalCents"`
	TaxCents          int64         `json:"taxCents"`
	ShippingCents     int64         `json:"shippingCents"`
	DiscountCents     int64         `json:"discountCents"`
	TotalCents        int64         `json:"totalCents"`
	Currency          string        `json:"currency"`
	ShippingAddressID string        `json:"shippingAddressId"`
	BillingAddressID  string        `json:"billingAddressId"`
	Notes             string        `json:"notes,omitempty"`
	Items             []OrderItem   `json:"items,omitempty"`
	ShippingAddress   *Address      `json:"shippingAddress,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

// OrderItem is an immutable copy of a cart line at placement time.
type OrderItem struct {
	ID             string   `json:"id"`
	OrderID        string   `json:"orderId"`
	ProductID      string   `json:"productId"`
	VariantID      *string  `json:"variantId,omitempty"`
	Quantity       int      `json:"quantity"`
	UnitPriceCents int64    `json:"unitPriceCents"`
	TotalCents     int64    `json:"totalCents"`
	ProductName    string   `json:"productName"`
	Product        *Product `json:"product,omitempty"`
}
