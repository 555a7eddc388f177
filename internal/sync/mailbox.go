// Package sync implements the per-domain synchronizers: fetch the remote
// collection, convert DTOs to cache entities, reconcile the on-device store,
// and republish the result to subscribers.
//
// Safety model: neither the SQLite cache nor the published snapshot is
// guarded by locks. Every mutation for a domain is funneled through that
// domain's mailbox, a single-consumer queue whose one goroutine exclusively
// owns the domain's state. Network calls run on the caller's goroutine;
// only their completions enter the mailbox.
package sync

import "sync"

// mailbox serializes state mutations onto one goroutine.
type mailbox struct {
	jobs chan func()
	quit chan struct{}
	once sync.Once
	wg   sync.WaitGroup
}

func newMailbox() *mailbox {
	m := &mailbox{
		jobs: make(chan func(), 64),
		quit: make(chan struct{}),
	}
	m.wg.Add(1)
	go m.loop()
	return m
}

func (m *mailbox) loop() {
	defer m.wg.Done()
	for {
		select {
		case job := <-m.jobs:
			job()
		case <-m.quit:
			// Drain what was already enqueued, then stop.
			for {
				select {
				case job := <-m.jobs:
					job()
				default:
					return
				}
			}
		}
	}
}

// do enqueues fn. Jobs enqueued after Close are dropped.
func (m *mailbox) do(fn func()) {
	select {
	case <-m.quit:
	case m.jobs <- fn:
	}
}

// doWait enqueues fn and blocks until it has run. Returns immediately when
// the mailbox is closed.
func (m *mailbox) doWait(fn func()) {
	done := make(chan struct{})
	m.do(func() {
		fn()
		close(done)
	})
	select {
	case <-done:
	case <-m.quit:
	}
}

// close stops the consumer after draining enqueued jobs.
func (m *mailbox) close() {
	m.once.Do(func() { close(m.quit) })
	m.wg.Wait()
}
