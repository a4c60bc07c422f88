package highlight

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"

	"github.com/walteh/yurinview/pkg/diagnostic"
	"github.com/walteh/yurinview/pkg/style"
)

var ErrWorkerClosed = errors.Base("worker closed")

// Highlighter is the part of Engine a Worker drives.
type Highlighter interface {
	Highlight(ctx context.Context, source string) ([]style.Highlight, []diagnostic.Diagnostic, error)
}

var _ Highlighter = (*Engine)(nil)

// Result is the outcome of one submitted source.
type Result struct {
	RequestID   uuid.UUID
	Generation  uint64
	Highlights  []style.Highlight
	Diagnostics []diagnostic.Diagnostic
	Err         error
}

// Worker highlights sources in the background, last edit wins. Each Submit
// cancels the invocation still running for the previous source, and only
// the result of the newest submission is ever delivered.
type Worker struct {
	h       Highlighter
	results chan Result

	mu         sync.Mutex
	generation uint64
	cancel     context.CancelFunc
	closed     bool
	wg         sync.WaitGroup
}

func NewWorker(h Highlighter) *Worker {
	return &Worker{
		h:       h,
		results: make(chan Result, 1),
	}
}

// Results delivers the newest result. An undelivered result is replaced
// when a newer one is ready. The channel is closed by Close.
func (w *Worker) Results() <-chan Result {
	return w.results
}

// Submit starts highlighting source and returns the request id its result
// will carry.
func (w *Worker) Submit(ctx context.Context, source string) (uuid.UUID, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return uuid.Nil, ErrWorkerClosed
	}
	if w.cancel != nil {
		w.cancel()
	}

	w.generation++
	gen := w.generation
	id := uuid.New()

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	zerolog.Ctx(ctx).Debug().
		Str("request_id", id.String()).
		Uint64("generation", gen).
		Int("bytes", len(source)).
		Msg("highlight submitted")

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer cancel()

		hs, diags, err := w.h.Highlight(runCtx, source)
		w.deliver(runCtx, Result{
			RequestID:   id,
			Generation:  gen,
			Highlights:  hs,
			Diagnostics: diags,
			Err:         err,
		})
	}()

	return id, nil
}

func (w *Worker) deliver(ctx context.Context, r Result) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if r.Generation != w.generation {
		zerolog.Ctx(ctx).Debug().
			Str("request_id", r.RequestID.String()).
			Uint64("generation", r.Generation).
			Msg("discarding superseded result")
		return
	}

	select {
	case <-w.results:
	default:
	}
	w.results <- r
}

// Close cancels the running invocation, waits for it to return and closes
// the results channel. Submit fails after Close.
func (w *Worker) Close() {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.generation++
	if w.cancel != nil {
		w.cancel()
	}
	w.mu.Unlock()

	w.wg.Wait()
	close(w.results)
}
