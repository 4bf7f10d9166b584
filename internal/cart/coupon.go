package cart

import (
	"fmt"
	"math"
	"strings"
)

const (
	couponCode        = "jay0101"
	couponCanonical   = "JAY0101"
	couponPercent     = 0.10
	couponMaxDiscount = 1000
)

// CouponResult is a user-facing validation outcome, not an error. The
// caller is expected to display Message verbatim.
type CouponResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
}

// ApplyCoupon validates a code against the current subtotal and returns the
// next coupon state alongside the outcome. Matching is case-insensitive with
// surrounding whitespace ignored. A rejected code leaves the current coupon
// untouched, except for a recognized code on an empty cart, which resets it.
// The discount is computed once from the subtotal at apply time and stays
// frozen until the coupon is reapplied or removed.
func ApplyCoupon(code string, subtotal float64, current Coupon) (Coupon, CouponResult) {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if normalized == "" {
		return current, CouponResult{OK: false, Message: "Enter a coupon code"}
	}
	if normalized != couponCode {
		return current, CouponResult{OK: false, Message: "Invalid coupon code"}
	}

	discount := math.Round(subtotal * couponPercent)
	if discount > couponMaxDiscount {
		discount = couponMaxDiscount
	}
	if discount <= 0 {
		return Coupon{}, CouponResult{OK: false, Message: "Cart is empty"}
	}

	return Coupon{Code: couponCanonical, Amount: discount},
		CouponResult{OK: true, Message: fmt.Sprintf("Coupon applied: ₹%.0f off", discount)}
}
