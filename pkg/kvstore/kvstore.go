package kvstore

import (
	"context"
	"errors"
	"fmt"

	"movie-storefront/pkg/utils"
)

// ErrKeyNotFound is returned by Get when a key has never been written.
var ErrKeyNotFound = errors.New("kvstore: key not found")

// Store is the persistence port for the storefront. Each fixed key holds one
// serialized JSON document (the layout list, the order queue, the profile
// list). Watch is an advisory change notification: subscribers are told that
// the key changed and are expected to re-read it; no payload, no ordering
// guarantee across writers.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error

	// Watch subscribes to change notifications for key. The returned cancel
	// func releases the subscription. Notifications are coalesced; a slow
	// reader sees at least one signal for any burst of writes.
	Watch(key string) (<-chan struct{}, func())

	Close() error
}

// New builds a Store from config. Unknown backends are a configuration error.
func New(cfg *utils.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(cfg.Store.FilePath)
	case "postgres":
		return NewPostgresStore(context.Background(), cfg.Database)
	case "redis":
		return NewRedisStore(cfg.Redis)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// notifier implements the coalescing Watch contract shared by the in-process
// backends.
type notifier struct {
	watchers map[string]map[int]chan struct{}
	nextID   int
}

func newNotifier() *notifier {
	return &notifier{watchers: make(map[string]map[int]chan struct{})}
}

// subscribe must be called with the owning store's lock held.
func (n *notifier) subscribe(key string) (chan struct{}, int) {
	ch := make(chan struct{}, 1)
	if n.watchers[key] == nil {
		n.watchers[key] = make(map[int]chan struct{})
	}
	id := n.nextID
	n.nextID++
	n.watchers[key][id] = ch
	return ch, id
}

// unsubscribe must be called with the owning store's lock held.
func (n *notifier) unsubscribe(key string, id int) {
	if subs, ok := n.watchers[key]; ok {
		delete(subs, id)
		if len(subs) == 0 {
			delete(n.watchers, key)
		}
	}
}

// notify must be called with the owning store's lock held. Sends never block:
// a full buffer already carries the "changed" signal.
func (n *notifier) notify(key string) {
	for _, ch := range n.watchers[key] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
