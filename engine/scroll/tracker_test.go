package scroll

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-scroll/engine/logger"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestTracker() (*Tracker, *Document, *fakeClock) {
	clk := &fakeClock{t: time.Unix(0, 0)}
	tr := NewTracker(WithSampleInterval(16*time.Millisecond), WithClock(clk.now))
	doc := NewDocument(3000, 1000)
	return tr, doc, clk
}

func TestTrackerPublishesNormalizedState(t *testing.T) {
	tr, doc, clk := newTestTracker()
	tr.Initialize(doc)

	var got []State
	tr.Subscribe(func(s State) { got = append(got, s) })

	clk.advance(20 * time.Millisecond)
	doc.ScrollTo(1000)

	if len(got) != 1 {
		t.Fatalf("samples = %d, want 1", len(got))
	}
	want := State{ScrollY: 1000, Progress: 0.5, Direction: Down}
	if got[0] != want {
		t.Errorf("State = %+v, want %+v", got[0], want)
	}

	clk.advance(20 * time.Millisecond)
	doc.ScrollTo(500)
	if s := tr.State(); s.Direction != Up || s.Progress != 0.25 {
		t.Errorf("State() = %+v, want direction up progress 0.25", s)
	}
}

func TestTrackerThrottleKeepsFinalPosition(t *testing.T) {
	tr, doc, clk := newTestTracker()
	tr.Initialize(doc)

	count := 0
	tr.Subscribe(func(State) { count++ })

	clk.advance(20 * time.Millisecond)
	doc.ScrollTo(100)
	clk.advance(time.Millisecond)
	doc.ScrollTo(200)
	clk.advance(time.Millisecond)
	doc.ScrollTo(300)

	if count != 1 {
		t.Fatalf("samples inside one interval = %d, want 1", count)
	}

	tr.Poll()
	if count != 1 {
		t.Fatalf("Poll() before interval elapsed published a sample")
	}

	clk.advance(20 * time.Millisecond)
	tr.Poll()
	if count != 2 {
		t.Fatalf("samples after Poll = %d, want 2", count)
	}
	if got := tr.State().ScrollY; got != 300 {
		t.Errorf("ScrollY = %v, want 300", got)
	}

	clk.advance(20 * time.Millisecond)
	tr.Poll()
	if count != 2 {
		t.Errorf("Poll() without a pending event published a sample")
	}
}

func TestTrackerDoubleInitializeWarns(t *testing.T) {
	orig := logger.Logger()
	defer logger.SetLogger(orig)
	var buf bytes.Buffer
	logger.SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))

	tr, doc, _ := newTestTracker()
	tr.Initialize(doc)
	tr.Initialize(doc)

	if !strings.Contains(buf.String(), "already initialized") {
		t.Errorf("log = %q, want already-initialized warning", buf.String())
	}
}

func TestTrackerDispose(t *testing.T) {
	tr, doc, clk := newTestTracker()
	tr.Initialize(doc)
	count := 0
	tr.Subscribe(func(State) { count++ })

	tr.Dispose()
	clk.advance(time.Second)
	doc.ScrollTo(800)
	tr.Poll()

	if count != 0 {
		t.Errorf("samples after Dispose = %d, want 0", count)
	}
}
