package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderStatus string
type PaymentStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusRefunded   OrderStatus = "refunded"

	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

// Address is the shipping/billing snapshot stored on the order header.
type Address struct {
	Name       string `json:"name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone,omitempty"`
}

// Order is the immutable record created at checkout. Monetary fields are
// fixed at compile time; total = subtotal - discount + shipping + tax,
// floored at zero.
type Order struct {
	ID              uuid.UUID       `json:"id" db:"id"`
	OrderNumber     string          `json:"orderNumber" db:"order_number"`
	UserID          string          `json:"userId" db:"user_id"`
	Status          OrderStatus     `json:"status" db:"status"`
	PaymentStatus   PaymentStatus   `json:"paymentStatus" db:"payment_status"`
	PaymentMethod   string          `json:"paymentMethod" db:"payment_method"`
	Subtotal        decimal.Decimal `json:"subtotal" db:"subtotal"`
	DiscountAmount  decimal.Decimal `json:"discountAmount" db:"discount_amount"`
	ShippingAmount  decimal.Decimal `json:"shippingAmount" db:"shipping_amount"`
	TaxAmount       decimal.Decimal `json:"taxAmount" db:"tax_amount"`
	Total           decimal.Decimal `json:"total" db:"total"`
	DiscountCode    *string         `json:"discountCode,omitempty" db:"discount_code"`
	ShippingAddress Address         `json:"shippingAddress" db:"shipping_address"`
	BillingAddress  Address         `json:"billingAddress" db:"billing_address"`
	Notes           string          `json:"notes,omitempty" db:"notes"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time       `json:"updatedAt" db:"updated_at"`
}

// OrderLine is a write-once line of an order. Add-ons are recorded as
// sibling lines with IsAddon set, so every purchased unit appears in the
// immutable record.
type OrderLine struct {
	ID        uuid.UUID       `json:"id" db:"id"`
	OrderID   uuid.UUID       `json:"-" db:"order_id"`
	ProductID int64           `json:"productId" db:"product_id"`
	Quantity  int             `json:"quantity" db:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice" db:"price"`
	LineTotal decimal.Decimal `json:"lineTotal" db:"total"`
	IsAddon   bool            `json:"isAddon" db:"is_addon"`
	Snapshot  ProductSnapshot `json:"productSnapshot" db:"product_snapshot"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
}

// CompileRequest is the checkout input for turning a cart into an order.
type CompileRequest struct {
	DiscountCode    *string         `json:"discountCode,omitempty"`
	ShippingAmount  decimal.Decimal `json:"shippingAmount"`
	TaxAmount       decimal.Decimal `json:"taxAmount"`
	ShippingAddress Address         `json:"shippingAddress"`
	BillingAddress  Address         `json:"billingAddress"`
	PaymentMethod   string          `json:"paymentMethod"`
	Notes           string          `json:"notes,omitempty"`
}

// OrderResponse is the payload for order reads: the header plus its lines.
type OrderResponse struct {
	Order Order       `json:"order"`
	Lines []OrderLine `json:"lines"`
}
