package cart

// Default GST rates in percent by catalog category. A per-item GSTRate
// override on the line item always wins over the category default.
var gstRatesByCategory = map[string]float64{
	"books":        3,
	"grocery":      3,
	"fashion":      12,
	"toys":         12,
	"sports":       12,
	"electronics":  18,
	"home-kitchen": 18,
	"beauty":       18,
	"furniture":    18,
	"automotive":   18,
}

const defaultGSTRate = 18

// ResolveRate returns the GST rate in percent for a line item. Unknown
// categories fall back to the default rate silently: every item must always
// yield some rate, so this is a fallback policy rather than an error path.
func ResolveRate(it LineItem) float64 {
	if it.GSTRate != nil {
		return *it.GSTRate
	}
	if rate, ok := gstRatesByCategory[it.Category]; ok {
		return rate
	}
	return defaultGSTRate
}

// ItemTax computes the GST owed for one line item. A zero quantity is
// treated as 1 (a bare product snapshot taxes like a single unit).
func ItemTax(it LineItem) float64 {
	qty := it.Quantity
	if qty <= 0 {
		qty = 1
	}
	return it.EffectivePrice() * float64(qty) * ResolveRate(it) / 100
}

// CartTax sums ItemTax over all items.
func CartTax(items []LineItem) float64 {
	var sum float64
	for _, it := range items {
		sum += ItemTax(it)
	}
	return sum
}
