package cart

import (
	"context"
	"errors"
	"testing"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/storage"
)

type notifierMock struct {
	NotifyStateChangedFunc func(ctx context.Context, sessionID string, st State) error
	calls                  []State
}

func (m *notifierMock) NotifyStateChanged(ctx context.Context, sessionID string, st State) error {
	m.calls = append(m.calls, st)
	if m.NotifyStateChangedFunc != nil {
		return m.NotifyStateChangedFunc(ctx, sessionID, st)
	}
	return nil
}

func newTestStore() (*Store, *storage.MemoryStorage, *notifierMock) {
	mem := storage.NewMemoryStorage()
	notifier := &notifierMock{}
	return NewStore(mem, notifier, nil), mem, notifier
}

func phone(quantity int) LineItem {
	return LineItem{ProductID: 1, Name: "Phone", Category: "electronics", Price: 300, DiscountPrice: 250, Quantity: quantity}
}

func book(quantity int) LineItem {
	return LineItem{ProductID: 2, Name: "Book", Category: "books", Price: 120, Quantity: quantity}
}

func TestStoreAddItemMergesByID(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	if _, err := store.AddItem(ctx, "s1", phone(2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	st, err := store.AddItem(ctx, "s1", phone(3))
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	if len(st.Items) != 1 {
		t.Fatalf("expected exactly one line item, got %d", len(st.Items))
	}
	if st.Items[0].Quantity != 5 {
		t.Fatalf("expected merged quantity 5, got %d", st.Items[0].Quantity)
	}
}

func TestStoreAddItemDefaultsQuantity(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	st, err := store.AddItem(ctx, "s1", phone(0))
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if st.Items[0].Quantity != 1 {
		t.Fatalf("expected default quantity 1, got %d", st.Items[0].Quantity)
	}
}

func TestStoreUpdateQuantity(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	if _, err := store.AddItem(ctx, "s1", phone(2)); err != nil {
		t.Fatalf("add: %v", err)
	}

	t.Run("sets exact quantity", func(t *testing.T) {
		st, err := store.UpdateQuantity(ctx, "s1", 1, 7)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if st.Items[0].Quantity != 7 {
			t.Fatalf("expected quantity 7, got %d", st.Items[0].Quantity)
		}
	})

	t.Run("zero removes the item", func(t *testing.T) {
		st, err := store.UpdateQuantity(ctx, "s1", 1, 0)
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if len(st.Items) != 0 {
			t.Fatalf("expected empty cart, got %+v", st.Items)
		}
		if Subtotal(st.Items) != 0 {
			t.Fatalf("removed item still contributes to subtotal")
		}
	})

	t.Run("unknown item is a no-op", func(t *testing.T) {
		if _, err := store.UpdateQuantity(ctx, "s1", 99, 3); err != nil {
			t.Fatalf("update: %v", err)
		}
	})
}

func TestStoreRemoveItemAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	st, err := store.RemoveItem(ctx, "s1", 42)
	if err != nil {
		t.Fatalf("remove: %v", err)
	}
	if len(st.Items) != 0 {
		t.Fatalf("expected empty cart, got %+v", st.Items)
	}
}

func TestStoreSavedForLaterRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	if _, err := store.AddItem(ctx, "s1", phone(3)); err != nil {
		t.Fatalf("add: %v", err)
	}

	st, err := store.MoveToSaved(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("move to saved: %v", err)
	}
	if len(st.Items) != 0 || len(st.SavedForLater) != 1 {
		t.Fatalf("expected item moved, got items=%d saved=%d", len(st.Items), len(st.SavedForLater))
	}
	if st.SavedForLater[0].Quantity != 3 {
		t.Fatalf("quantity not preserved: %d", st.SavedForLater[0].Quantity)
	}

	st, err = store.MoveToCart(ctx, "s1", 1)
	if err != nil {
		t.Fatalf("move to cart: %v", err)
	}
	if len(st.SavedForLater) != 0 || len(st.Items) != 1 {
		t.Fatalf("expected item restored, got items=%d saved=%d", len(st.Items), len(st.SavedForLater))
	}
	if st.Items[0].Quantity != 3 {
		t.Fatalf("quantity not preserved on restore: %d", st.Items[0].Quantity)
	}
}

func TestStoreMoveToSavedAbsentIsNoop(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	st, err := store.MoveToSaved(ctx, "s1", 42)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if len(st.SavedForLater) != 0 {
		t.Fatalf("expected nothing saved, got %+v", st.SavedForLater)
	}
}

func TestStoreRemoveSaved(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	if _, err := store.AddItem(ctx, "s1", book(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.MoveToSaved(ctx, "s1", 2); err != nil {
		t.Fatalf("save: %v", err)
	}
	st, err := store.RemoveSaved(ctx, "s1", 2)
	if err != nil {
		t.Fatalf("remove saved: %v", err)
	}
	if len(st.SavedForLater) != 0 {
		t.Fatalf("expected saved list emptied, got %+v", st.SavedForLater)
	}
}

func TestStoreClearLeavesSavedAndCoupon(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	if _, err := store.AddItem(ctx, "s1", phone(2)); err != nil { // subtotal 500
		t.Fatalf("add: %v", err)
	}
	if _, err := store.AddItem(ctx, "s1", book(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.MoveToSaved(ctx, "s1", 2); err != nil {
		t.Fatalf("save: %v", err)
	}
	if res, _, err := store.ApplyCoupon(ctx, "s1", "jay0101"); err != nil || !res.OK {
		t.Fatalf("apply coupon: res=%+v err=%v", res, err)
	}

	st, err := store.Clear(ctx, "s1")
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if len(st.Items) != 0 {
		t.Fatalf("expected items cleared, got %+v", st.Items)
	}
	if len(st.SavedForLater) != 1 {
		t.Fatalf("clear must not touch saved-for-later, got %+v", st.SavedForLater)
	}
	if st.Coupon.Code == "" {
		t.Fatalf("clear must not touch the coupon")
	}
}

func TestStoreCouponLifecycle(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	t.Run("apply on empty cart resets", func(t *testing.T) {
		res, st, err := store.ApplyCoupon(ctx, "s1", "jay0101")
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if res.OK || res.Message != "Cart is empty" {
			t.Fatalf("unexpected result %+v", res)
		}
		if st.Coupon != (Coupon{}) {
			t.Fatalf("coupon state should stay empty, got %+v", st.Coupon)
		}
	})

	t.Run("apply against live subtotal", func(t *testing.T) {
		if _, err := store.AddItem(ctx, "s1", LineItem{ProductID: 3, Category: "fashion", Price: 1000, Quantity: 1}); err != nil {
			t.Fatalf("add: %v", err)
		}
		res, st, err := store.ApplyCoupon(ctx, "s1", " JAY0101 ")
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if !res.OK {
			t.Fatalf("expected coupon accepted, got %+v", res)
		}
		if st.Coupon.Amount != 100 {
			t.Fatalf("expected discount 100, got %v", st.Coupon.Amount)
		}
	})

	t.Run("invalid code leaves state alone", func(t *testing.T) {
		res, st, err := store.ApplyCoupon(ctx, "s1", "ABC123")
		if err != nil {
			t.Fatalf("apply: %v", err)
		}
		if res.OK {
			t.Fatalf("expected rejection")
		}
		if st.Coupon.Code != "JAY0101" || st.Coupon.Amount != 100 {
			t.Fatalf("coupon state mutated by invalid code: %+v", st.Coupon)
		}
	})

	t.Run("amount stays frozen when cart shrinks", func(t *testing.T) {
		if _, err := store.RemoveItem(ctx, "s1", 3); err != nil {
			t.Fatalf("remove: %v", err)
		}
		tot, err := store.Totals(ctx, "s1")
		if err != nil {
			t.Fatalf("totals: %v", err)
		}
		if tot.CouponAmount != 100 {
			t.Fatalf("coupon amount should stay frozen at 100, got %v", tot.CouponAmount)
		}
		if tot.FinalTotal != 0 {
			t.Fatalf("final total must clamp at 0, got %v", tot.FinalTotal)
		}
	})

	t.Run("remove coupon is idempotent", func(t *testing.T) {
		st, err := store.RemoveCoupon(ctx, "s1")
		if err != nil {
			t.Fatalf("remove coupon: %v", err)
		}
		if st.Coupon != (Coupon{}) {
			t.Fatalf("expected coupon reset, got %+v", st.Coupon)
		}
		st, err = store.RemoveCoupon(ctx, "s1")
		if err != nil {
			t.Fatalf("remove coupon twice: %v", err)
		}
		if st.Coupon != (Coupon{}) {
			t.Fatalf("expected coupon still reset, got %+v", st.Coupon)
		}
	})
}

func TestStoreRehydratesFromStorage(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStorage()

	first := NewStore(mem, nil, nil)
	if _, err := first.AddItem(ctx, "s1", phone(2)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, _, err := first.ApplyCoupon(ctx, "s1", "jay0101"); err != nil {
		t.Fatalf("apply: %v", err)
	}

	// A fresh store over the same storage sees the persisted state.
	second := NewStore(mem, nil, nil)
	st, err := second.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(st.Items) != 1 || st.Items[0].Quantity != 2 {
		t.Fatalf("items not rehydrated: %+v", st.Items)
	}
	if st.Coupon.Code != "JAY0101" {
		t.Fatalf("coupon not rehydrated: %+v", st.Coupon)
	}
}

func TestStoreNotifiesAfterMutation(t *testing.T) {
	ctx := context.Background()
	store, _, notifier := newTestStore()

	if _, err := store.AddItem(ctx, "s1", phone(1)); err != nil {
		t.Fatalf("add: %v", err)
	}
	if len(notifier.calls) != 1 {
		t.Fatalf("expected one broadcast, got %d", len(notifier.calls))
	}
	if len(notifier.calls[0].Items) != 1 {
		t.Fatalf("broadcast should carry the full state, got %+v", notifier.calls[0])
	}
}

func TestStoreNotifierFailureDoesNotFailMutation(t *testing.T) {
	ctx := context.Background()
	mem := storage.NewMemoryStorage()
	notifier := &notifierMock{NotifyStateChangedFunc: func(ctx context.Context, sessionID string, st State) error {
		return errors.New("broker down")
	}}
	store := NewStore(mem, notifier, nil)

	st, err := store.AddItem(ctx, "s1", phone(1))
	if err != nil {
		t.Fatalf("mutation should survive broadcast failure: %v", err)
	}
	if len(st.Items) != 1 {
		t.Fatalf("state not mutated: %+v", st)
	}
}

func TestStoreApplySnapshot(t *testing.T) {
	ctx := context.Background()
	store, _, _ := newTestStore()

	if _, err := store.AddItem(ctx, "s1", phone(1)); err != nil {
		t.Fatalf("add: %v", err)
	}

	// A peer instance broadcast a newer state; last writer wins.
	store.ApplySnapshot("s1", State{Items: []LineItem{book(4)}})

	st, err := store.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if len(st.Items) != 1 || st.Items[0].ProductID != 2 || st.Items[0].Quantity != 4 {
		t.Fatalf("snapshot not applied: %+v", st.Items)
	}
}
