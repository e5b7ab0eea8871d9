package store

import (
	"fmt"
	"sync"
)

// Subscription is the paywall state surfaced to the client. Billing itself
// is an external concern; this store only tracks the resolved tier and the
// developer-mode override.
type Subscription struct {
	Tier              string `json:"tier"`
	Active            bool   `json:"active"`
	DeveloperOverride bool   `json:"developer_override"`
}

// SubscriptionStore keeps per-user subscription state. The developer
// override is mirrored into the durable slot so it survives restarts.
type SubscriptionStore struct {
	kv *FileKV

	mu   sync.RWMutex
	subs map[uint64]Subscription
}

// NewSubscriptionStore creates the store over a durable slot.
func NewSubscriptionStore(kv *FileKV) *SubscriptionStore {
	return &SubscriptionStore{kv: kv, subs: map[uint64]Subscription{}}
}

func subscriptionKey(userID uint64) string {
	return fmt.Sprintf("subscription:%d", userID)
}

// Get resolves the user's subscription, applying a persisted developer
// override when present.
func (s *SubscriptionStore) Get(userID uint64) Subscription {
	s.mu.RLock()
	sub, ok := s.subs[userID]
	s.mu.RUnlock()
	if ok {
		return sub
	}

	sub = Subscription{Tier: "free"}
	var override bool
	if found, err := s.kv.Get(subscriptionKey(userID), &override); err == nil && found && override {
		sub.DeveloperOverride = true
		sub.Tier = "premium"
		sub.Active = true
	}

	s.mu.Lock()
	s.subs[userID] = sub
	s.mu.Unlock()
	return sub
}

// SetDeveloperOverride toggles the premium override and persists it.
func (s *SubscriptionStore) SetDeveloperOverride(userID uint64, enabled bool) (Subscription, error) {
	if err := s.kv.Set(subscriptionKey(userID), enabled); err != nil {
		return Subscription{}, err
	}

	sub := Subscription{Tier: "free"}
	if enabled {
		sub = Subscription{Tier: "premium", Active: true, DeveloperOverride: true}
	}

	s.mu.Lock()
	s.subs[userID] = sub
	s.mu.Unlock()
	return sub, nil
}

// SetActive records the billing-provider resolved state for a user.
func (s *SubscriptionStore) SetActive(userID uint64, tier string, active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing := s.subs[userID]
	if existing.DeveloperOverride {
		return
	}
	s.subs[userID] = Subscription{Tier: tier, Active: active}
}
