package sqlite

import "sync"

// notifier рассылает сигналы об изменении коллекции подписчикам.
// Сигналы схлопываются: канал подписчика держит не больше одного.
type notifier struct {
	mu   sync.Mutex
	next int
	subs map[string]map[int]chan struct{}
}

func newNotifier() *notifier {
	return &notifier{subs: make(map[string]map[int]chan struct{})}
}

func (n *notifier) subscribe(collection string) (<-chan struct{}, func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	ch := make(chan struct{}, 1)
	id := n.next
	n.next++
	if n.subs[collection] == nil {
		n.subs[collection] = make(map[int]chan struct{})
	}
	n.subs[collection][id] = ch

	return ch, func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		delete(n.subs[collection], id)
		if len(n.subs[collection]) == 0 {
			delete(n.subs, collection)
		}
	}
}

func (n *notifier) notify(collection string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, ch := range n.subs[collection] {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

func (n *notifier) listeners(collection string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subs[collection])
}
