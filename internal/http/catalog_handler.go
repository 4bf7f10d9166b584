package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/catalog"
)

// ListProducts serves the catalog listing. Query parameters:
//
//	q          fuzzy name search (subsequence match)
//	category   exact category
//	priceMin   lower bound on discount price (with priceMax)
//	priceMax   upper bound on discount price
//	minRating  minimum rating
//	brands     comma-separated brand names
//	prime      "true" restricts to prime-eligible products
//	sort       price-low | price-high | rating | newest | popularity
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var products []catalog.Product
	if search := q.Get("q"); search != "" {
		products = h.catalog.Search(search)
	} else {
		products = h.catalog.List()
	}

	filters := catalog.Filters{
		Category:  q.Get("category"),
		PriceMin:  parseFloat(q.Get("priceMin")),
		PriceMax:  parseFloat(q.Get("priceMax")),
		MinRating: parseFloat(q.Get("minRating")),
		PrimeOnly: q.Get("prime") == "true",
	}
	if brands := q.Get("brands"); brands != "" {
		for _, b := range strings.Split(brands, ",") {
			if b = strings.TrimSpace(b); b != "" {
				filters.Brands = append(filters.Brands, b)
			}
		}
	}

	products = catalog.Filter(products, filters)
	products = catalog.Sort(products, q.Get("sort"))

	if products == nil {
		products = []catalog.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

type productDetailResponse struct {
	catalog.Product
	StockStatus     catalog.StockStatus `json:"stockStatus"`
	DiscountPercent int                 `json:"discountPercent"`
	MonthlyEMI      int                 `json:"monthlyEmi"`
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Get(id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "not found", http.StatusNotFound)
			return
		}
		h.internalError(w, "get product", err)
		return
	}

	writeJSON(w, http.StatusOK, productDetailResponse{
		Product:         p,
		StockStatus:     catalog.StockStatusFor(p.Stock),
		DiscountPercent: catalog.DiscountPercent(p.Price, p.DiscountPrice),
		MonthlyEMI:      catalog.MonthlyEMI(p.DiscountPrice, 12),
	})
}

func parseFloat(v string) float64 {
	if v == "" {
		return 0
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}
	return f
}
