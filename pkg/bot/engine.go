package bot

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/supportdesk/ticketbot/pkg/model"
)

// Adapter produces inbound messages. Start blocks until the source is
// exhausted or ctx is done, and must not send on out after returning.
type Adapter interface {
	Name() string
	Start(ctx context.Context, out chan<- model.Message) error
}

// Handler processes one message.
type Handler interface {
	Handle(ctx context.Context, msg model.Message)
}

// Engine runs adapters and feeds their messages to a Handler.
//
// Messages are spread over a fixed pool of workers by author, so one
// author's messages are handled in the order they arrived while
// different authors proceed in parallel.
type Engine struct {
	logger    *slog.Logger
	handler   Handler
	adapters  []Adapter
	workers   int
	queueSize int
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithEngineLogger sets the engine's logger.
func WithEngineLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

// WithWorkers sets the worker count. Values below one mean one.
func WithWorkers(n int) EngineOption {
	return func(e *Engine) { e.workers = n }
}

// WithQueueSize sets the per-worker queue length.
func WithQueueSize(n int) EngineOption {
	return func(e *Engine) { e.queueSize = n }
}

// NewEngine creates an Engine.
func NewEngine(h Handler, opts ...EngineOption) *Engine {
	e := &Engine{
		logger:    slog.Default(),
		handler:   h,
		workers:   4,
		queueSize: 64,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = 1
	}
	return e
}

// RegisterAdapter adds a message source. Call before Run.
func (e *Engine) RegisterAdapter(a Adapter) {
	e.adapters = append(e.adapters, a)
}

// Run starts every adapter and handles messages until all adapters have
// returned, then waits for in-flight messages. It returns the first
// adapter error other than context cancellation.
func (e *Engine) Run(ctx context.Context) error {
	if len(e.adapters) == 0 {
		return errors.New("engine: no adapters registered")
	}
	in := make(chan model.Message)
	errs := make(chan error, len(e.adapters))

	var adapters sync.WaitGroup
	for _, a := range e.adapters {
		adapters.Add(1)
		go func(a Adapter) {
			defer adapters.Done()
			e.logger.Debug("adapter started", "adapter", a.Name())
			if err := a.Start(ctx, in); err != nil && !errors.Is(err, context.Canceled) {
				errs <- fmt.Errorf("adapter %s: %w", a.Name(), err)
			}
			e.logger.Debug("adapter stopped", "adapter", a.Name())
		}(a)
	}
	go func() {
		adapters.Wait()
		close(in)
	}()

	pool := newWorkerPool(e.workers, e.queueSize)
	pool.start()
	for msg := range in {
		msg := msg
		pool.submit(uint64(msg.Author.ID), func() { e.handler.Handle(ctx, msg) })
	}
	pool.stop()

	close(errs)
	return <-errs
}

// workerPool runs tasks on a fixed set of goroutines. Tasks with the
// same key run on the same worker, in submission order.
type workerPool struct {
	queues []chan func()
	wg     sync.WaitGroup
}

func newWorkerPool(workers, queueSize int) *workerPool {
	wp := &workerPool{queues: make([]chan func(), workers)}
	for i := range wp.queues {
		wp.queues[i] = make(chan func(), queueSize)
	}
	return wp
}

func (wp *workerPool) start() {
	wp.wg.Add(len(wp.queues))
	for _, q := range wp.queues {
		go func(q chan func()) {
			defer wp.wg.Done()
			for task := range q {
				task()
			}
		}(q)
	}
}

func (wp *workerPool) submit(key uint64, task func()) {
	wp.queues[key%uint64(len(wp.queues))] <- task
}

func (wp *workerPool) stop() {
	for _, q := range wp.queues {
		close(q)
	}
	wp.wg.Wait()
}
