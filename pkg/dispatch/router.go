package dispatch

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/rawbytedev/envelope"
)

var (
	ErrUnknownCommand   = errors.New("dispatch: unknown command")
	ErrDuplicateCommand = errors.New("dispatch: command already registered")
	ErrNilHandler       = errors.New("dispatch: nil handler")
	ErrNilHeader        = errors.New("dispatch: nil header")
)

// HandlerFunc receives a header whose envelope type has already been pinned
// by registration.
type HandlerFunc func(ctx context.Context, h *envelope.Header) error

// Router maps command ids to handlers. Each command is bound to exactly one
// body type, which makes recovery checked from the caller's point of view.
type Router struct {
	mu     sync.RWMutex
	byCmd  map[uint64]HandlerFunc
	layout map[uint64]envelope.Layout
}

func NewRouter() *Router {
	return &Router{
		byCmd:  make(map[uint64]HandlerFunc),
		layout: make(map[uint64]envelope.Layout),
	}
}

// Handle binds cmd to body type P.
func Handle[P any](r *Router, cmd uint64, fn func(ctx context.Context, e *envelope.Envelope[P]) error) error {
	if fn == nil {
		return ErrNilHandler
	}
	if err := envelope.CheckLayout[P](); err != nil {
		return fmt.Errorf("dispatch: cmd %d: %w", cmd, err)
	}
	h := func(ctx context.Context, hdr *envelope.Header) error {
		return fn(ctx, envelope.Recover[P](hdr))
	}
	return r.register(cmd, h, envelope.LayoutOf[P]())
}

func (r *Router) register(cmd uint64, h HandlerFunc, l envelope.Layout) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byCmd[cmd]; ok {
		return fmt.Errorf("%w: %d", ErrDuplicateCommand, cmd)
	}
	r.byCmd[cmd] = h
	r.layout[cmd] = l
	return nil
}

// Dispatch routes h to the handler registered for h.Cmd.
func (r *Router) Dispatch(ctx context.Context, h *envelope.Header) error {
	if h == nil {
		return ErrNilHeader
	}
	r.mu.RLock()
	fn, ok := r.byCmd[h.Cmd]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownCommand, h.Cmd)
	}
	return fn(ctx, h)
}

// Layout returns the envelope layout bound to cmd.
func (r *Router) Layout(cmd uint64) (envelope.Layout, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.layout[cmd]
	return l, ok
}

// Commands lists registered command ids in ascending order.
func (r *Router) Commands() []uint64 {
	r.mu.RLock()
	out := make([]uint64, 0, len(r.byCmd))
	for c := range r.byCmd {
		out = append(out, c)
	}
	r.mu.RUnlock()
	slices.Sort(out)
	return out
}
