package catalog

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

var ErrNotFound = errors.New("not found")

// Catalog is an immutable in-memory product catalog. Lookups never mutate
// it, so it is safe for concurrent use without locking.
type Catalog struct {
	products []Product
	byID     map[int]Product
}

func New(products []Product) *Catalog {
	byID := make(map[int]Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	return &Catalog{products: products, byID: byID}
}

// NewSeeded returns a catalog loaded with the built-in dataset.
func NewSeeded() *Catalog {
	return New(seedProducts)
}

func (c *Catalog) Get(id int) (Product, error) {
	p, ok := c.byID[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (c *Catalog) List() []Product {
	return append([]Product(nil), c.products...)
}

func (c *Catalog) ByCategory(category string) []Product {
	var out []Product
	for _, p := range c.products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}

// Search matches the query as a character subsequence of the product name,
// case-insensitively ("mbok" matches "MacBook"). Regex metacharacters in
// the query are taken literally.
func (c *Catalog) Search(query string) []Product {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}

	var pattern strings.Builder
	for i, ch := range query {
		if i > 0 {
			pattern.WriteString(".*")
		}
		pattern.WriteString(regexp.QuoteMeta(string(ch)))
	}
	re, err := regexp.Compile(pattern.String())
	if err != nil {
		return nil
	}

	var out []Product
	for _, p := range c.products {
		if re.MatchString(strings.ToLower(p.Name)) {
			out = append(out, p)
		}
	}
	return out
}

// Filters narrows a product listing. Zero values mean "no constraint".
type Filters struct {
	Category  string
	PriceMin  float64
	PriceMax  float64
	MinRating float64
	Brands    []string
	PrimeOnly bool
}

func Filter(products []Product, f Filters) []Product {
	var out []Product
	for _, p := range products {
		if f.Category != "" && p.Category != f.Category {
			continue
		}
		if f.PriceMax > 0 && (p.DiscountPrice < f.PriceMin || p.DiscountPrice > f.PriceMax) {
			continue
		}
		if f.MinRating > 0 && p.Rating < f.MinRating {
			continue
		}
		if len(f.Brands) > 0 && !containsString(f.Brands, p.Brand) {
			continue
		}
		if f.PrimeOnly && !p.IsPrime {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Sort orders a copy of the listing by the given key: price-low, price-high,
// rating, newest (highest ID first) or popularity (most reviewed first).
// Unknown keys leave the order untouched.
func Sort(products []Product, sortBy string) []Product {
	out := append([]Product(nil), products...)
	switch sortBy {
	case "price-low":
		sort.SliceStable(out, func(i, j int) bool { return out[i].DiscountPrice < out[j].DiscountPrice })
	case "price-high":
		sort.SliceStable(out, func(i, j int) bool { return out[i].DiscountPrice > out[j].DiscountPrice })
	case "rating":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case "newest":
		sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	case "popularity":
		sort.SliceStable(out, func(i, j int) bool { return out[i].Reviews > out[j].Reviews })
	}
	return out
}

// DiscountPercent is the advertised percentage saved off the original price.
func DiscountPercent(price, discountPrice float64) int {
	if price <= 0 {
		return 0
	}
	return int(math.Round((price - discountPrice) / price * 100))
}

// MonthlyEMI estimates the equated monthly installment at 12% annual
// interest over the given number of months, rounded to the nearest unit.
func MonthlyEMI(price float64, months int) int {
	if months <= 0 || price <= 0 {
		return 0
	}
	monthlyRate := 0.12 / 12
	factor := math.Pow(1+monthlyRate, float64(months))
	emi := price * monthlyRate * factor / (factor - 1)
	return int(math.Round(emi))
}

// StockStatusFor mirrors the storefront's availability labels.
func StockStatusFor(stock int) StockStatus {
	switch {
	case stock == 0:
		return StockStatus{Text: "Out of Stock", Low: true}
	case stock < 10:
		return StockStatus{Text: fmt.Sprintf("Only %d left", stock), Low: true}
	case stock < 50:
		return StockStatus{Text: "Limited Stock", Low: false}
	default:
		return StockStatus{Text: "In Stock", Low: false}
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
