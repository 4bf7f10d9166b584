package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/catalog"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/order"
)

// CheckoutPublisher announces completed checkouts to downstream consumers.
type CheckoutPublisher interface {
	PublishCartCheckedOut(ctx context.Context, orderID, sessionID string, items []cart.LineItem, total float64, correlationID string) error
}

type Handler struct {
	store     *cart.Store
	catalog   *catalog.Catalog
	orders    order.Repository
	publisher CheckoutPublisher
	logger    *log.Logger
}

func NewHandler(store *cart.Store, cat *catalog.Catalog, orders order.Repository, publisher CheckoutPublisher, logger *log.Logger) *Handler {
	return &Handler{
		store:     store,
		catalog:   cat,
		orders:    orders,
		publisher: publisher,
		logger:    logger,
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// stateResponse is the common payload for every cart mutation: the new state
// plus the recomputed totals.
type stateResponse struct {
	Items         []cart.LineItem `json:"items"`
	SavedForLater []cart.LineItem `json:"savedForLater"`
	Coupon        cart.Coupon     `json:"coupon"`
	Totals        cart.Totals     `json:"totals"`
}

func newStateResponse(st cart.State) stateResponse {
	resp := stateResponse{
		Items:         st.Items,
		SavedForLater: st.SavedForLater,
		Coupon:        st.Coupon,
		Totals:        cart.CalculateTotals(st.Items, st.Coupon),
	}
	if resp.Items == nil {
		resp.Items = []cart.LineItem{}
	}
	if resp.SavedForLater == nil {
		resp.SavedForLater = []cart.LineItem{}
	}
	return resp
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Get(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.internalError(w, "get cart", err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

func (h *Handler) GetTotals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.store.Totals(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.internalError(w, "get totals", err)
		return
	}
	writeJSON(w, http.StatusOK, totals)
}

type addItemRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req addItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	p, err := h.catalog.Get(req.ProductID)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			http.Error(w, "product not found", http.StatusNotFound)
			return
		}
		h.internalError(w, "resolve product", err)
		return
	}

	item := cart.LineItem{
		ProductID:     p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		GSTRate:       p.GSTRate,
		Quantity:      req.Quantity,
	}

	st, err := h.store.AddItem(r.Context(), chi.URLParam(r, "sessionId"), item)
	if err != nil {
		h.internalError(w, "add item", err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	var req updateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	st, err := h.store.UpdateQuantity(r.Context(), chi.URLParam(r, "sessionId"), productID, req.Quantity)
	if err != nil {
		h.internalError(w, "update quantity", err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

func (h *Handler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	h.mutateByProduct(w, r, h.store.RemoveItem, "remove item")
}

func (h *Handler) MoveToSaved(w http.ResponseWriter, r *http.Request) {
	h.mutateByProduct(w, r, h.store.MoveToSaved, "save for later")
}

func (h *Handler) MoveToCart(w http.ResponseWriter, r *http.Request) {
	h.mutateByProduct(w, r, h.store.MoveToCart, "move to cart")
}

func (h *Handler) RemoveSaved(w http.ResponseWriter, r *http.Request) {
	h.mutateByProduct(w, r, h.store.RemoveSaved, "remove saved")
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.Clear(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.internalError(w, "clear cart", err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

type applyCouponRequest struct {
	Code string `json:"code"`
}

type couponResponse struct {
	OK      bool        `json:"ok"`
	Message string      `json:"message"`
	Coupon  cart.Coupon `json:"coupon"`
	Totals  cart.Totals `json:"totals"`
}

func (h *Handler) ApplyCoupon(w http.ResponseWriter, r *http.Request) {
	var req applyCouponRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	result, st, err := h.store.ApplyCoupon(r.Context(), chi.URLParam(r, "sessionId"), req.Code)
	if err != nil {
		h.internalError(w, "apply coupon", err)
		return
	}

	// Rejections are outcomes for the client to display, not errors.
	writeJSON(w, http.StatusOK, couponResponse{
		OK:      result.OK,
		Message: result.Message,
		Coupon:  st.Coupon,
		Totals:  cart.CalculateTotals(st.Items, st.Coupon),
	})
}

func (h *Handler) RemoveCoupon(w http.ResponseWriter, r *http.Request) {
	st, err := h.store.RemoveCoupon(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.internalError(w, "remove coupon", err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

type checkoutRequest struct {
	PaymentMethod string        `json:"paymentMethod"`
	Address       order.Address `json:"address"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}
	if msg := validateAddress(req.Address); msg != "" {
		http.Error(w, msg, http.StatusBadRequest)
		return
	}

	st, err := h.store.Get(r.Context(), sessionID)
	if err != nil {
		h.internalError(w, "get cart", err)
		return
	}
	if len(st.Items) == 0 {
		http.Error(w, "cart is empty", http.StatusBadRequest)
		return
	}

	totals := cart.CalculateTotals(st.Items, st.Coupon)
	o := order.Order{
		ID:             order.NewOrderID(),
		SessionID:      sessionID,
		Items:          st.Items,
		Subtotal:       totals.Subtotal,
		TaxAmount:      totals.TaxAmount,
		DeliveryCharge: totals.DeliveryCharge,
		CouponAmount:   totals.CouponAmount,
		Total:          totals.FinalTotal,
		PaymentMethod:  req.PaymentMethod,
		Address:        req.Address,
		Status:         order.StatusConfirmed,
		CreatedAt:      time.Now().UTC(),
	}

	if err := h.orders.Create(r.Context(), &o); err != nil {
		h.internalError(w, "create order", err)
		return
	}

	correlationID := r.Header.Get("X-Correlation-Id")
	if correlationID == "" {
		correlationID = uuid.NewString()
	}
	if h.publisher != nil {
		if err := h.publisher.PublishCartCheckedOut(r.Context(), o.ID, sessionID, o.Items, o.Total, correlationID); err != nil {
			// The order is already committed; downstream consumers catch up
			// through the next broadcast for this session.
			h.logger.Printf("publish checkout for order %s: %v", o.ID, err)
		}
	}

	if _, err := h.store.Clear(r.Context(), sessionID); err != nil {
		h.logger.Printf("clear cart after checkout %s: %v", o.ID, err)
	}

	writeJSON(w, http.StatusCreated, o)
}

func (h *Handler) ListOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListBySession(r.Context(), chi.URLParam(r, "sessionId"))
	if err != nil {
		h.internalError(w, "list orders", err)
		return
	}
	if orders == nil {
		orders = []order.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetByID(r.Context(), chi.URLParam(r, "orderId"))
	if err != nil {
		h.internalError(w, "get order", err)
		return
	}
	if o == nil || o.SessionID != chi.URLParam(r, "sessionId") {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func validateAddress(a order.Address) string {
	switch {
	case a.FullName == "":
		return "full name is required"
	case !validEmail(a.Email):
		return "invalid email"
	case !validPhone(a.Phone):
		return "invalid phone number"
	case !validPincode(a.Pincode):
		return "invalid pincode"
	case a.Line == "":
		return "address is required"
	case a.City == "":
		return "city is required"
	case a.State == "":
		return "state is required"
	}
	return ""
}

type mutateFn func(ctx context.Context, sessionID string, productID int) (cart.State, error)

func (h *Handler) mutateByProduct(w http.ResponseWriter, r *http.Request, fn mutateFn, op string) {
	productID, ok := productIDParam(w, r)
	if !ok {
		return
	}

	st, err := fn(r.Context(), chi.URLParam(r, "sessionId"), productID)
	if err != nil {
		h.internalError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newStateResponse(st))
}

func productIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "productId"))
	if err != nil {
		http.Error(w, "bad product id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Printf("%s: %v", op, err)
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
