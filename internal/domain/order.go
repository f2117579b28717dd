package domain

import (
	"fmt"
	"strings"
	"time"
)

// OrderStatus is the server-owned lifecycle state of an order.
type OrderStatus string

const (
	OrderStatusPendingPayment   OrderStatus = "PENDING_PAYMENT"
	OrderStatusPaymentCompleted OrderStatus = "PAYMENT_COMPLETED"
	OrderStatusProcessing       OrderStatus = "PROCESSING"
	OrderStatusShipped          OrderStatus = "SHIPPED"
	OrderStatusDelivered        OrderStatus = "DELIVERED"
	OrderStatusCancelled        OrderStatus = "CANCELLED"
	OrderStatusRefunded         OrderStatus = "REFUNDED"
)

// OrderStatuses lists every status in display order.
var OrderStatuses = []OrderStatus{
	OrderStatusPendingPayment,
	OrderStatusPaymentCompleted,
	OrderStatusProcessing,
	OrderStatusShipped,
	OrderStatusDelivered,
	OrderStatusCancelled,
	OrderStatusRefunded,
}

// ParseOrderStatus normalises s and checks it against the known statuses.
func ParseOrderStatus(s string) (OrderStatus, error) {
	candidate := OrderStatus(strings.ToUpper(strings.TrimSpace(s)))
	for _, st := range OrderStatuses {
		if st == candidate {
			return st, nil
		}
	}
	return "", fmt.Errorf("unknown order status %q", s)
}

func (s OrderStatus) String() string {
	return string(s)
}

// ShippingMethod is a named fixed-price delivery option.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "Standard"
	ShippingExpress  ShippingMethod = "Express"
	ShippingPickup   ShippingMethod = "Pickup"
)

// PaymentMethod selects how the buyer pays at checkout.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentEFT        PaymentMethod = "EFT"
)

// OrderItemRequest references a listing and quantity in an order creation call.
type OrderItemRequest struct {
	ListingID int64 `json:"listingId"`
	Quantity  int   `json:"quantity"`
}

// OrderCreationRequest is sent once to create an order from the cart.
type OrderCreationRequest struct {
	Items           []OrderItemRequest `json:"items"`
	ShippingAddress string             `json:"shippingAddress"`
	ShippingCity    string             `json:"shippingCity"`
	ShippingState   string             `json:"shippingState"`
	ShippingZip     string             `json:"shippingZip"`
	ShippingCountry string             `json:"shippingCountry"`
	ShippingMethod  ShippingMethod     `json:"shippingMethod"`
	PaymentMethod   PaymentMethod      `json:"paymentMethod"`
	Notes           string             `json:"notes"`
}

// OrderItem is a line of a server-side order.
type OrderItem struct {
	ID         int64   `json:"id"`
	ListingID  int64   `json:"listingId,omitempty"`
	Title      string  `json:"title"`
	Price      float64 `json:"price"`
	Quantity   int     `json:"quantity"`
	SellerName string  `json:"sellerName,omitempty"`
	Image      string  `json:"image,omitempty"`
}

// Order is owned by the marketplace backend and consumed read-only here.
type Order struct {
	ID              int64       `json:"id"`
	OrderNumber     string      `json:"orderNumber"`
	Status          OrderStatus `json:"status"`
	Items           []OrderItem `json:"items"`
	Subtotal        float64     `json:"subtotal"`
	ShippingCost    float64     `json:"shippingCost"`
	Total           float64     `json:"total"`
	ShippingAddress string      `json:"shippingAddress"`
	ShippingCity    string      `json:"shippingCity"`
	ShippingState   string      `json:"shippingState"`
	ShippingZip     string      `json:"shippingZip"`
	ShippingCountry string      `json:"shippingCountry"`
	ShippingMethod  string      `json:"shippingMethod,omitempty"`
	PaymentMethod   string      `json:"paymentMethod"`
	Notes           string      `json:"notes,omitempty"`
	TrackingNumber  string      `json:"trackingNumber,omitempty"`
	BuyerName       string      `json:"buyerName,omitempty"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"updatedAt"`
}

// OrderPage is one page of an order listing.
type OrderPage struct {
	Content       []Order `json:"content"`
	TotalPages    int     `json:"totalPages"`
	TotalElements int     `json:"totalElements,omitempty"`
	Number        int     `json:"number,omitempty"`
}

// OrderQuery filters an order listing.
type OrderQuery struct {
	Page    int
	Size    int
	Status  OrderStatus
	SortBy  string
	SortDir string
}

// PaymentRequest initiates payment for an existing order.
type PaymentRequest struct {
	OrderID     int64   `json:"orderId"`
	Amount      float64 `json:"amount"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
	ReturnURL   string  `json:"returnUrl"`
	CancelURL   string  `json:"cancelUrl"`
}

// PaymentResult is the payment provider hand-off returned by the backend.
type PaymentResult struct {
	RedirectURL string `json:"redirectUrl,omitempty"`
	PaymentID   string `json:"paymentId,omitempty"`
	Status      string `json:"status,omitempty"`
}

// NewPaymentRequest builds the payment hand-off for order. Provider return and
// cancel links point back at the order page under publicURL.
func NewPaymentRequest(order Order, publicURL, currency string) PaymentRequest {
	base := strings.TrimRight(publicURL, "/")
	return PaymentRequest{
		OrderID:     order.ID,
		Amount:      order.Total,
		Currency:    currency,
		Description: fmt.Sprintf("Payment for Order #%s", order.OrderNumber),
		ReturnURL:   fmt.Sprintf("%s/orders/%d?status=success", base, order.ID),
		CancelURL:   fmt.Sprintf("%s/orders/%d?status=cancel", base, order.ID),
	}
}
