package cart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/storage"
)

// Storage keys the store mirrors its state under. One key per list plus one
// for the coupon, matching the persisted layout of the original storefront.
const (
	KeyCart          = "cart"
	KeySavedForLater = "savedForLater"
	KeyCoupon        = "coupon"
)

// ChangeNotifier broadcasts a session's full state to peer instances after
// a local mutation has been persisted. Peers apply it last-writer-wins.
type ChangeNotifier interface {
	NotifyStateChanged(ctx context.Context, sessionID string, st State) error
}

// Store owns the mutable cart state for all active sessions. Every mutation
// runs synchronously to completion: mutate in memory, persist all three
// keys, then broadcast. Reads hydrate from storage on first access.
type Store struct {
	storage  storage.Storage
	notifier ChangeNotifier
	logger   *log.Logger

	mu       sync.Mutex
	sessions map[string]*State
}

func NewStore(st storage.Storage, notifier ChangeNotifier, logger *log.Logger) *Store {
	return &Store{
		storage:  st,
		notifier: notifier,
		logger:   logger,
		sessions: make(map[string]*State),
	}
}

// Get returns a copy of the session's current state.
func (s *Store) Get(ctx context.Context, sessionID string) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.session(ctx, sessionID)
	if err != nil {
		return State{}, err
	}
	return st.clone(), nil
}

// Totals recomputes the derived amounts for the session.
func (s *Store) Totals(ctx context.Context, sessionID string) (Totals, error) {
	st, err := s.Get(ctx, sessionID)
	if err != nil {
		return Totals{}, err
	}
	return CalculateTotals(st.Items, st.Coupon), nil
}

// AddItem merges the item into the cart. An existing entry with the same
// product ID has its quantity incremented; otherwise the item is appended.
// A non-positive quantity on the incoming item defaults to 1.
func (s *Store) AddItem(ctx context.Context, sessionID string, item LineItem) (State, error) {
	if item.Quantity <= 0 {
		item.Quantity = 1
	}

	return s.mutate(ctx, sessionID, func(st *State) {
		for i := range st.Items {
			if st.Items[i].ProductID == item.ProductID {
				st.Items[i].Quantity += item.Quantity
				return
			}
		}
		st.Items = append(st.Items, item)
	})
}

// RemoveItem deletes the matching line item. Removing an absent item is a
// no-op, not an error.
func (s *Store) RemoveItem(ctx context.Context, sessionID string, productID int) (State, error) {
	return s.mutate(ctx, sessionID, func(st *State) {
		st.Items = removeByID(st.Items, productID)
	})
}

// UpdateQuantity sets the matching item's quantity exactly. A non-positive
// quantity removes the item instead: zero-quantity items never exist in the
// active cart.
func (s *Store) UpdateQuantity(ctx context.Context, sessionID string, productID, quantity int) (State, error) {
	if quantity <= 0 {
		return s.RemoveItem(ctx, sessionID, productID)
	}

	return s.mutate(ctx, sessionID, func(st *State) {
		for i := range st.Items {
			if st.Items[i].ProductID == productID {
				st.Items[i].Quantity = quantity
				return
			}
		}
	})
}

// MoveToSaved transfers an item from the cart to the saved-for-later list,
// preserving its quantity. No-op if the item is not in the cart.
func (s *Store) MoveToSaved(ctx context.Context, sessionID string, productID int) (State, error) {
	return s.mutate(ctx, sessionID, func(st *State) {
		for _, it := range st.Items {
			if it.ProductID == productID {
				st.SavedForLater = append(st.SavedForLater, it)
				st.Items = removeByID(st.Items, productID)
				return
			}
		}
	})
}

// MoveToCart transfers an item from the saved-for-later list back into the
// cart, merging by product ID. No-op if the item is not in the saved list.
func (s *Store) MoveToCart(ctx context.Context, sessionID string, productID int) (State, error) {
	return s.mutate(ctx, sessionID, func(st *State) {
		for _, saved := range st.SavedForLater {
			if saved.ProductID != productID {
				continue
			}

			merged := false
			for i := range st.Items {
				if st.Items[i].ProductID == productID {
					st.Items[i].Quantity += saved.Quantity
					merged = true
					break
				}
			}
			if !merged {
				st.Items = append(st.Items, saved)
			}
			st.SavedForLater = removeByID(st.SavedForLater, productID)
			return
		}
	})
}

// RemoveSaved deletes an item from the saved-for-later list.
func (s *Store) RemoveSaved(ctx context.Context, sessionID string, productID int) (State, error) {
	return s.mutate(ctx, sessionID, func(st *State) {
		st.SavedForLater = removeByID(st.SavedForLater, productID)
	})
}

// Clear empties the cart list only. Saved-for-later items and the coupon
// survive a clear.
func (s *Store) Clear(ctx context.Context, sessionID string) (State, error) {
	return s.mutate(ctx, sessionID, func(st *State) {
		st.Items = nil
	})
}

// ApplyCoupon runs the coupon engine against the session's live subtotal
// and stores the resulting coupon state. A rejected code leaves the stored
// coupon untouched and skips the persistence write.
func (s *Store) ApplyCoupon(ctx context.Context, sessionID, code string) (CouponResult, State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.session(ctx, sessionID)
	if err != nil {
		return CouponResult{}, State{}, err
	}

	next, result := ApplyCoupon(code, Subtotal(st.Items), st.Coupon)
	if next == st.Coupon {
		return result, st.clone(), nil
	}

	st.Coupon = next
	if err := s.persistAndNotify(ctx, sessionID, st); err != nil {
		return CouponResult{}, State{}, err
	}
	return result, st.clone(), nil
}

// RemoveCoupon unconditionally resets the coupon. Idempotent.
func (s *Store) RemoveCoupon(ctx context.Context, sessionID string) (State, error) {
	return s.mutate(ctx, sessionID, func(st *State) {
		st.Coupon = Coupon{}
	})
}

// ApplySnapshot replaces the in-memory state for a session with one
// broadcast by a peer instance. The peer already persisted it, so this only
// touches memory; ordering is enforced upstream by the consumer.
func (s *Store) ApplySnapshot(sessionID string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := st.clone()
	s.sessions[sessionID] = &cp
}

// session returns the live state for a session, hydrating from storage on
// first access. Callers must hold s.mu.
func (s *Store) session(ctx context.Context, sessionID string) (*State, error) {
	if st, ok := s.sessions[sessionID]; ok {
		return st, nil
	}

	st := &State{}
	if err := s.loadKey(ctx, sessionID, KeyCart, &st.Items); err != nil {
		return nil, err
	}
	if err := s.loadKey(ctx, sessionID, KeySavedForLater, &st.SavedForLater); err != nil {
		return nil, err
	}
	if err := s.loadKey(ctx, sessionID, KeyCoupon, &st.Coupon); err != nil {
		return nil, err
	}

	s.sessions[sessionID] = st
	return st, nil
}

func (s *Store) loadKey(ctx context.Context, sessionID, key string, dest any) error {
	data, err := s.storage.Get(ctx, sessionID, key)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func (s *Store) mutate(ctx context.Context, sessionID string, fn func(st *State)) (State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.session(ctx, sessionID)
	if err != nil {
		return State{}, err
	}

	fn(st)

	if err := s.persistAndNotify(ctx, sessionID, st); err != nil {
		return State{}, err
	}
	return st.clone(), nil
}

func (s *Store) persistAndNotify(ctx context.Context, sessionID string, st *State) error {
	if err := s.persistKey(ctx, sessionID, KeyCart, st.Items); err != nil {
		return err
	}
	if err := s.persistKey(ctx, sessionID, KeySavedForLater, st.SavedForLater); err != nil {
		return err
	}
	if err := s.persistKey(ctx, sessionID, KeyCoupon, st.Coupon); err != nil {
		return err
	}

	if s.notifier != nil {
		if err := s.notifier.NotifyStateChanged(ctx, sessionID, st.clone()); err != nil {
			// The local write already landed; peers will converge on the
			// next successful broadcast for this session.
			if s.logger != nil {
				s.logger.Printf("broadcast state change for session %s: %v", sessionID, err)
			}
		}
	}
	return nil
}

func (s *Store) persistKey(ctx context.Context, sessionID, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.storage.Set(ctx, sessionID, key, data); err != nil {
		return fmt.Errorf("persist %s: %w", key, err)
	}
	return nil
}

func (st *State) clone() State {
	cp := State{Coupon: st.Coupon}
	if st.Items != nil {
		cp.Items = append([]LineItem(nil), st.Items...)
	}
	if st.SavedForLater != nil {
		cp.SavedForLater = append([]LineItem(nil), st.SavedForLater...)
	}
	return cp
}

func removeByID(items []LineItem, productID int) []LineItem {
	out := items[:0]
	for _, it := range items {
		if it.ProductID != productID {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
