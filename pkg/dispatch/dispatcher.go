// Package dispatch drains an intrusive queue of envelope headers with a pool
// of workers and routes each header to the handler bound to its command.
package dispatch

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rawbytedev/envelope"
	"github.com/rawbytedev/envelope/pkg/iqueue"
)

var ErrAlreadyRunning = errors.New("dispatch: already running")

// Node is the queue link type the dispatcher consumes.
type Node = iqueue.Node[*envelope.Header]

// NewNode wraps h in a heap-allocated node.
func NewNode(h *envelope.Header) *Node {
	return iqueue.NewNode(h)
}

type Config struct {
	Workers int
}

type Option func(*Dispatcher)

func WithLogger(l *zap.Logger) Option {
	return func(d *Dispatcher) { d.log = l }
}

func WithMetrics(m *Metrics) Option {
	return func(d *Dispatcher) { d.metrics = m }
}

// WithErrorHook is called from worker goroutines for every failed dispatch.
func WithErrorHook(fn func(cmd uint64, err error)) Option {
	return func(d *Dispatcher) { d.onError = fn }
}

type Dispatcher struct {
	id      string
	workers int
	queue   *iqueue.Queue[*envelope.Header]
	router  *Router
	log     *zap.Logger
	metrics *Metrics
	onError func(cmd uint64, err error)
	running atomic.Bool
}

func New(cfg Config, r *Router, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		id:      uuid.NewString(),
		workers: cfg.Workers,
		queue:   iqueue.New[*envelope.Header](),
		router:  r,
		log:     zap.NewNop(),
	}
	if d.workers <= 0 {
		d.workers = 1
	}
	for _, o := range opts {
		o(d)
	}
	if d.log == nil {
		d.log = zap.NewNop()
	}
	if d.metrics == nil {
		d.metrics = NewMetrics(nil)
	}
	d.log = d.log.With(zap.String("dispatcher", d.id))
	return d
}

func (d *Dispatcher) ID() string { return d.id }

// Len is the number of envelopes waiting.
func (d *Dispatcher) Len() int { return d.queue.Len() }

// Submit queues n. The envelope behind n.Value must stay alive and in place
// until its handler returns.
func (d *Dispatcher) Submit(n *Node) error {
	if n == nil || n.Value == nil {
		return ErrNilHeader
	}
	// depth rises before the node is visible to workers
	d.metrics.QueueDepth.Inc()
	if err := d.queue.Push(n); err != nil {
		d.metrics.QueueDepth.Dec()
		return err
	}
	d.metrics.Enqueued.Inc()
	return nil
}

// Run blocks until ctx is done or Close has been called and the queue is
// drained, then waits for in-flight handlers.
func (d *Dispatcher) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer d.running.Store(false)

	d.log.Info("dispatcher started", zap.Int("workers", d.workers))
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			d.work(ctx, worker)
		}(i)
	}
	wg.Wait()
	d.log.Info("dispatcher stopped", zap.Int("pending", d.queue.Len()))
	if err := ctx.Err(); err != nil {
		return err
	}
	return nil
}

// Close stops accepting envelopes; workers exit once the queue is empty.
func (d *Dispatcher) Close() {
	d.queue.Close()
}

func (d *Dispatcher) work(ctx context.Context, worker int) {
	for {
		n, err := d.queue.PopWait(ctx)
		if err != nil {
			if !errors.Is(err, iqueue.ErrClosed) && !errors.Is(err, context.Canceled) {
				d.log.Debug("worker exit", zap.Int("worker", worker), zap.Error(err))
			}
			return
		}
		d.metrics.QueueDepth.Dec()
		d.handle(ctx, worker, n.Value)
	}
}

func (d *Dispatcher) handle(ctx context.Context, worker int, h *envelope.Header) {
	err := d.router.Dispatch(ctx, h)
	if err == nil {
		d.metrics.incDispatched(h.Cmd)
		return
	}
	if errors.Is(err, ErrUnknownCommand) {
		d.metrics.incError(reasonUnknown)
	} else {
		d.metrics.incError(reasonHandler)
	}
	d.log.Warn("dispatch failed",
		zap.Int("worker", worker),
		zap.Uint64("cmd", h.Cmd),
		zap.Error(err),
	)
	if d.onError != nil {
		d.onError(h.Cmd, err)
	}
}
