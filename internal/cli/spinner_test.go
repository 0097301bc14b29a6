package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// syncBuffer guards a buffer shared with the spinner goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func TestSpinnerDrawsMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "Loading fig.toml...")
	s.Start()
	time.Sleep(120 * time.Millisecond)
	s.SetMessage("Rendering svg...")
	time.Sleep(120 * time.Millisecond)
	s.Stop()

	got := out.String()
	for _, want := range []string{"Loading fig.toml...", "Rendering svg..."} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q: %q", want, got)
		}
	}
	if s.Cancelled() {
		t.Error("Stop should not count as cancellation")
	}
}

func TestSpinnerClearsWidestMessage(t *testing.T) {
	var out syncBuffer
	s := newSpinnerTo(context.Background(), &out, "short")
	s.SetMessage("a much longer stage message")
	s.SetMessage("tiny")
	s.Start()
	s.Stop()

	blank := "\r" + strings.Repeat(" ", len("a much longer stage message")+4) + "\r"
	if !strings.HasSuffix(out.String(), blank) {
		t.Errorf("last write should blank the widest message, got %q", out.String())
	}
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
	}{
		{"cancel", func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		}},
		{"timeout", func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			s := newSpinnerTo(ctx, &syncBuffer{}, "Rendering...")
			s.Start()
			cancel()
			time.Sleep(50 * time.Millisecond)
			if !s.Cancelled() {
				t.Error("spinner should report cancellation")
			}
			s.Stop()
		})
	}
}

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Rendering...")
	s.Start()
	s.Stop()
	s.Stop()
	s.StopWithSuccess("Rendered fig.toml")
}

func TestHooksDriveSpinner(t *testing.T) {
	s := newSpinnerTo(context.Background(), &syncBuffer{}, "Checking cache...")
	h := &logHooks{logger: newLogger(&bytes.Buffer{}, log.InfoLevel), spinner: s}
	ctx := context.Background()

	steps := []struct {
		fire func()
		want string
	}{
		{func() { h.OnLoadStart(ctx, "plots/fig.toml") }, "Loading fig.toml..."},
		{func() { h.OnRenderStart(ctx, []string{"json", "svg"}) }, "Rendering json, svg..."},
		{func() { h.OnDataExported(ctx, "lc", 120, 3, false) }, "Exported table lc (120 rows)..."},
		{func() { h.OnFileWritten(ctx, "out/fig.svg", 2048) }, "Wrote fig.svg..."},
	}
	for _, step := range steps {
		step.fire()
		if got := s.Message(); got != step.want {
			t.Errorf("Message() = %q, want %q", got, step.want)
		}
	}

	// Without a spinner the hooks only log.
	quiet := &logHooks{logger: newLogger(&bytes.Buffer{}, log.InfoLevel)}
	quiet.OnLoadStart(ctx, "fig.toml")
}
