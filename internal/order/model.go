package order

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusShipped   Status = "shipped"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

// Address is the delivery address captured at checkout.
type Address struct {
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Pincode  string `json:"pincode"`
	Line     string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	Landmark string `json:"landmark,omitempty"`
}

// Order is a checkout snapshot: the line items plus all derived amounts
// frozen at the moment the order was placed.
type Order struct {
	ID             string          `json:"orderId"`
	SessionID      string          `json:"sessionId"`
	Items          []cart.LineItem `json:"items"`
	Subtotal       float64         `json:"subtotal"`
	TaxAmount      float64         `json:"taxAmount"`
	DeliveryCharge float64         `json:"deliveryCharge"`
	CouponAmount   float64         `json:"couponAmount"`
	Total          float64         `json:"total"`
	PaymentMethod  string          `json:"paymentMethod"`
	Address        Address         `json:"address"`
	Status         Status          `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// NewOrderID generates a display order number: ORD + unix millis + a random
// 3-digit suffix.
func NewOrderID() string {
	return fmt.Sprintf("ORD%d%d", time.Now().UnixMilli(), rand.Intn(1000))
}
