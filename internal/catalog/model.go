package catalog

// Product is a catalog entry. GSTRate, when set, overrides the category
// default tax rate for that product.
type Product struct {
	ID            int      `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Brand         string   `json:"brand,omitempty"`
	Price         float64  `json:"price"`
	DiscountPrice float64  `json:"discountPrice"`
	GSTRate       *float64 `json:"gstRate,omitempty"`
	Rating        float64  `json:"rating"`
	Reviews       int      `json:"reviews"`
	Stock         int      `json:"stock"`
	IsPrime       bool     `json:"isPrime"`
	Description   string   `json:"description,omitempty"`
}

// StockStatus classifies availability for display.
type StockStatus struct {
	Text string `json:"text"`
	Low  bool   `json:"low"`
}
