package cart

// LineItem is a product snapshot plus a quantity. The snapshot is taken at
// add-to-cart time, so later catalog price changes do not affect the cart.
type LineItem struct {
	ProductID     int      `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountPrice"`
	GSTRate       *float64 `json:"gstRate,omitempty"`
	Quantity      int      `json:"quantity"`
}

// EffectivePrice is the unit price actually charged: the discounted price
// when one is set, else the original price.
func (it LineItem) EffectivePrice() float64 {
	if it.DiscountPrice > 0 {
		return it.DiscountPrice
	}
	if it.Price > 0 {
		return it.Price
	}
	return 0
}

// Coupon is the single active promotional discount. An empty Code means no
// coupon is applied. Amount is an absolute discount in currency units,
// frozen at apply time.
type Coupon struct {
	Code   string  `json:"code"`
	Amount float64 `json:"amount"`
}

// State is the full mutable cart state for one session. It is what gets
// persisted and what gets broadcast to peer instances.
type State struct {
	Items         []LineItem `json:"items"`
	SavedForLater []LineItem `json:"savedForLater"`
	Coupon        Coupon     `json:"coupon"`
}

// Totals is derived from State on every call and never persisted, so it can
// not go stale relative to the items.
type Totals struct {
	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"taxAmount"`
	DeliveryCharge float64 `json:"deliveryCharge"`
	CouponAmount   float64 `json:"couponAmount"`
	FinalTotal     float64 `json:"finalTotal"`
}
