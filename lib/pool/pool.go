// Package pool provides a fixed set of consumer goroutines fed by a
// producer queue. Consumers sleep while the queue is empty. The event loop
// uses it to push slow disposal work off the request path; tasks must not
// touch keyspace state.
package pool

import (
	"time"

	"github.com/DrStiev/MyRedis/lib/sync/atomic"
	"github.com/DrStiev/MyRedis/lib/sync/wait"
)

const defaultWorkers = 4

// Pool is a fixed-size worker pool
type Pool struct {
	queue   chan func()
	workers wait.Wait
	closing atomic.Boolean
}

// New starts num consumer goroutines
func New(num int) *Pool {
	if num <= 0 {
		num = defaultWorkers
	}
	p := &Pool{
		queue: make(chan func(), num*16),
	}
	for i := 0; i < num; i++ {
		p.workers.Add(1)
		go p.consume()
	}
	return p
}

func (p *Pool) consume() {
	defer p.workers.Done()
	for task := range p.queue {
		task()
	}
}

// Queue hands a task to the workers, blocking while the queue is full.
// After Close the task runs on the caller instead.
func (p *Pool) Queue(task func()) {
	if p.closing.Get() {
		task()
		return
	}
	p.queue <- task
}

// Close stops accepting tasks and waits for the workers to drain the queue
func (p *Pool) Close() {
	if p.closing.Get() {
		return
	}
	p.closing.Set(true)
	close(p.queue)
	p.workers.WaitWithTimeout(10 * time.Second)
}
