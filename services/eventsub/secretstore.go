package eventsub

import (
	"sync"

	"streambingo/models"
)

// SubscriptionStore holds the process-wide EventSub subscription records and
// their signing secrets. It is injected into the service at startup rather
// than living as a package singleton, and it is deliberately not persisted: a
// restart drops every subscription, which must then be recreated.
type SubscriptionStore interface {
	Get(subscriptionID string) (*models.EventSubSubscription, bool)
	Put(subscription *models.EventSubSubscription)
	Delete(subscriptionID string)
	All() []*models.EventSubSubscription
}

// MemorySubscriptionStore is the mutex-guarded in-memory implementation.
// Writes happen only on subscription create/delete; verification reads it.
type MemorySubscriptionStore struct {
	mutex         sync.RWMutex
	subscriptions map[string]*models.EventSubSubscription
}

func NewMemorySubscriptionStore() *MemorySubscriptionStore {
	return &MemorySubscriptionStore{
		subscriptions: make(map[string]*models.EventSubSubscription),
	}
}

func (s *MemorySubscriptionStore) Get(subscriptionID string) (*models.EventSubSubscription, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	subscription, ok := s.subscriptions[subscriptionID]
	return subscription, ok
}

func (s *MemorySubscriptionStore) Put(subscription *models.EventSubSubscription) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.subscriptions[subscription.ID] = subscription
}

func (s *MemorySubscriptionStore) Delete(subscriptionID string) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.subscriptions, subscriptionID)
}

func (s *MemorySubscriptionStore) All() []*models.EventSubSubscription {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	subscriptions := make([]*models.EventSubSubscription, 0, len(s.subscriptions))
	for _, subscription := range s.subscriptions {
		subscriptions = append(subscriptions, subscription)
	}
	return subscriptions
}
