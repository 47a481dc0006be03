package server

import (
	"sync"
)

const ReloadRoute = "GET /dev/reload"

// Reloader fans out change notifications of the dev watcher to the open
// /dev/reload connections. Each subscriber has a channel holding at most one
// pending notification.
type Reloader struct {
	mutex   sync.Mutex
	closed  bool
	nextID  int
	clients map[int]chan struct{}
}

func newReloader() *Reloader {
	return &Reloader{
		clients: make(map[int]chan struct{}),
	}
}

// Subscribe registers a listener and returns a function removing it again
// and its channel. A closed Reloader returns a closed channel.
func (r *Reloader) Subscribe() (func(), <-chan struct{}) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		ch := make(chan struct{})
		close(ch)
		return func() {}, ch
	}

	id := r.nextID
	r.nextID++

	ch := make(chan struct{}, 1)
	r.clients[id] = ch

	return func() {
		r.unsubscribe(id)
	}, ch
}

func (r *Reloader) unsubscribe(id int) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if ch, ok := r.clients[id]; ok {
		close(ch)
		delete(r.clients, id)
	}
}

// Notify signals every listener without blocking. A listener with a pending
// notification keeps just that one.
func (r *Reloader) Notify() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}

	for _, ch := range r.clients {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// Close closes every listener channel. No further notifications are sent.
func (r *Reloader) Close() {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.closed {
		return
	}

	r.closed = true

	for id, ch := range r.clients {
		close(ch)
		delete(r.clients, id)
	}
}
