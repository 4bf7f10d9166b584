package events

import (
	"context"
	"encoding/json"
	"io"
	"log"
	"testing"

	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/cart"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/contracts"
	"github.com/Jaypanchal00/amazon-web/cart-service-go/internal/dedup"
)

type applierMock struct {
	snapshots map[string]cart.State
	applied   int
}

func (m *applierMock) ApplySnapshot(sessionID string, st cart.State) {
	if m.snapshots == nil {
		m.snapshots = make(map[string]cart.State)
	}
	m.snapshots[sessionID] = st
	m.applied++
}

func stateChangedBody(t *testing.T, sessionID string, st cart.State, seq int64, producer string) []byte {
	t.Helper()

	env, err := contracts.BuildCartStateChangedEvent(sessionID, st, seq, contracts.EnvelopeOptions{Producer: producer})
	if err != nil {
		t.Fatalf("build event: %v", err)
	}
	body, err := json.Marshal(env)
	if err != nil {
		t.Fatalf("marshal envelope: %v", err)
	}
	return body
}

func TestHandleStateChanged(t *testing.T) {
	ctx := context.Background()
	logger := log.New(io.Discard, "", 0)
	st := cart.State{Items: []cart.LineItem{{ProductID: 1, Category: "books", Price: 100, Quantity: 2}}}

	t.Run("applies peer snapshot and records checkpoint", func(t *testing.T) {
		store := &applierMock{}
		checkpoints := dedup.NewMemoryRepository()

		body := stateChangedBody(t, "s1", st, 5, "cart-service/peer")
		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", body, logger); err != nil {
			t.Fatalf("handle: %v", err)
		}

		if store.applied != 1 {
			t.Fatalf("expected one snapshot applied, got %d", store.applied)
		}
		if len(store.snapshots["s1"].Items) != 1 {
			t.Fatalf("snapshot content lost: %+v", store.snapshots["s1"])
		}
		last, ok, _ := checkpoints.GetLastSequence(ctx, "me", "s1")
		if !ok || last != 5 {
			t.Fatalf("checkpoint not recorded: %d %v", last, ok)
		}
	})

	t.Run("skips own broadcasts", func(t *testing.T) {
		store := &applierMock{}
		checkpoints := dedup.NewMemoryRepository()

		body := stateChangedBody(t, "s1", st, 5, "cart-service/me")
		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", body, logger); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if store.applied != 0 {
			t.Fatalf("own broadcast must not be applied")
		}
	})

	t.Run("drops stale sequences", func(t *testing.T) {
		store := &applierMock{}
		checkpoints := dedup.NewMemoryRepository()
		_ = checkpoints.SetLastSequence(ctx, "me", "s1", 9)

		body := stateChangedBody(t, "s1", st, 7, "cart-service/peer")
		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", body, logger); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if store.applied != 0 {
			t.Fatalf("stale broadcast must be dropped, got %d applies", store.applied)
		}
	})

	t.Run("drops duplicate sequences", func(t *testing.T) {
		store := &applierMock{}
		checkpoints := dedup.NewMemoryRepository()

		body := stateChangedBody(t, "s1", st, 3, "cart-service/peer")
		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", body, logger); err != nil {
			t.Fatalf("handle: %v", err)
		}
		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", body, logger); err != nil {
			t.Fatalf("handle duplicate: %v", err)
		}
		if store.applied != 1 {
			t.Fatalf("duplicate must be applied exactly once, got %d", store.applied)
		}
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		store := &applierMock{}
		checkpoints := dedup.NewMemoryRepository()

		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", []byte("{"), logger); err == nil {
			t.Fatalf("expected parse error")
		}
	})

	t.Run("rejects wrong event name", func(t *testing.T) {
		store := &applierMock{}
		checkpoints := dedup.NewMemoryRepository()

		env, err := contracts.BuildCartCheckedOutEvent("ORD1", "s1", nil, 0, 1, contracts.EnvelopeOptions{Producer: "cart-service/peer"})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		body, _ := json.Marshal(env)
		if err := handleStateChanged(ctx, store, checkpoints, "me", "cart-service/me", body, logger); err == nil {
			t.Fatalf("expected validation error")
		}
	})
}
