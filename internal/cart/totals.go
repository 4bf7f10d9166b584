package cart

const (
	freeDeliveryThreshold = 500
	deliveryFlatFee       = 40
)

// Subtotal is the sum of effective unit price times quantity across all
// items, before tax, delivery and coupon.
func Subtotal(items []LineItem) float64 {
	var total float64
	for _, it := range items {
		total += it.EffectivePrice() * float64(it.Quantity)
	}
	return total
}

// ItemCount is the total number of units across all items.
func ItemCount(items []LineItem) int {
	var count int
	for _, it := range items {
		count += it.Quantity
	}
	return count
}

// DeliveryCharge is a step function with a single threshold: free at or
// above the threshold, a flat fee below it.
func DeliveryCharge(subtotal float64) float64 {
	if subtotal >= freeDeliveryThreshold {
		return 0
	}
	return deliveryFlatFee
}

// CalculateTotals recomputes all derived amounts from scratch. The final
// total is floored at zero so a coupon frozen against a since-shrunk cart
// can never drive it negative.
func CalculateTotals(items []LineItem, coupon Coupon) Totals {
	subtotal := Subtotal(items)
	tax := CartTax(items)
	delivery := DeliveryCharge(subtotal)

	final := subtotal + tax + delivery - coupon.Amount
	if final < 0 {
		final = 0
	}

	return Totals{
		Subtotal:       subtotal,
		TaxAmount:      tax,
		DeliveryCharge: delivery,
		CouponAmount:   coupon.Amount,
		FinalTotal:     final,
	}
}
