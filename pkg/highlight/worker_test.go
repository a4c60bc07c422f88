package highlight_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/walteh/yurinview/pkg/diagnostic"
	"github.com/walteh/yurinview/pkg/highlight"
	"github.com/walteh/yurinview/pkg/style"
)

// blockingHighlighter holds every source named "slow" until its context is
// cancelled and answers everything else at once.
type blockingHighlighter struct {
	started chan string
}

func (b *blockingHighlighter) Highlight(ctx context.Context, source string) ([]style.Highlight, []diagnostic.Diagnostic, error) {
	b.started <- source
	if source == "slow" {
		<-ctx.Done()
		return nil, nil, ctx.Err()
	}
	return []style.Highlight{{Start: 0, End: len(source), Category: style.CategoryKeyword}}, nil, nil
}

func receive(t *testing.T, ch <-chan highlight.Result) highlight.Result {
	t.Helper()
	select {
	case r, ok := <-ch:
		require.True(t, ok, "results closed")
		return r
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for a result")
		return highlight.Result{}
	}
}

func TestWorkerLastEditWins(t *testing.T) {
	h := &blockingHighlighter{started: make(chan string, 4)}
	w := highlight.NewWorker(h)

	_, err := w.Submit(context.Background(), "slow")
	require.NoError(t, err)
	require.Equal(t, "slow", <-h.started)

	id, err := w.Submit(context.Background(), "data")
	require.NoError(t, err)
	require.Equal(t, "data", <-h.started)

	r := receive(t, w.Results())
	assert.Equal(t, id, r.RequestID)
	assert.Equal(t, uint64(2), r.Generation)
	require.NoError(t, r.Err)
	assert.Len(t, r.Highlights, 1)

	w.Close()
	_, ok := <-w.Results()
	assert.False(t, ok, "the superseded result is never delivered")
}

func TestWorkerWithEngine(t *testing.T) {
	w := highlight.NewWorker(highlight.NewEngine())
	defer w.Close()

	id, err := w.Submit(context.Background(), "data Foo(")
	require.NoError(t, err)

	r := receive(t, w.Results())
	assert.Equal(t, id, r.RequestID)
	require.NoError(t, r.Err)
	assert.NotEmpty(t, r.Highlights)
	assert.Len(t, r.Diagnostics, 1)
}

func TestWorkerClose(t *testing.T) {
	h := &blockingHighlighter{started: make(chan string, 1)}
	w := highlight.NewWorker(h)

	_, err := w.Submit(context.Background(), "slow")
	require.NoError(t, err)
	<-h.started

	w.Close()
	w.Close()

	_, ok := <-w.Results()
	assert.False(t, ok)

	_, err = w.Submit(context.Background(), "data")
	assert.ErrorIs(t, err, highlight.ErrWorkerClosed)
}
