package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/pdfforms/fieldplacer/internal/field"
)

// ErrLoadCancelled reports that a document load was superseded by a newer
// one (or its context expired) before completing. Its partial results are
// discarded; they must never reach the session state of a newer document.
var ErrLoadCancelled = errors.New("document load cancelled")

// FieldDetector converts a document's existing form fields into importable
// field records. Optional: a nil detector skips the detection phase.
type FieldDetector interface {
	DetectFields(rs io.ReadSeeker) ([]field.Field, error)
}

// Session is the outcome of one completed document load: per-page metrics
// for every page plus any auto-detected fields. Consumers must treat the
// metrics slice as read-only; it is shared by reference.
type Session struct {
	PageCount int
	Metrics   []PageMetrics
	Detected  []field.Field
}

// MetricsFor returns the metrics of a 0-based page.
func (s *Session) MetricsFor(page int) (PageMetrics, bool) {
	if s == nil || page < 0 || page >= len(s.Metrics) {
		return PageMetrics{}, false
	}
	return s.Metrics[page], true
}

// ReadyFunc is notified once all pages of a load have reported metrics.
type ReadyFunc func(*Session)

// Coordinator loads documents, renders every page at the session zoom and
// aggregates metrics. Pages render independently, but listeners are
// notified only once all pages have reported: the field-import step needs
// the full page-height table up front.
//
// Replacing the document cancels the in-flight load as a whole; a stale
// load's results are dropped before they can touch newer state.
type Coordinator struct {
	renderer Renderer
	detector FieldDetector

	mu      sync.Mutex
	gen     uint64
	cancel  context.CancelFunc
	current *Session
	onReady []ReadyFunc
}

// NewCoordinator creates a coordinator over the given renderer. detector
// may be nil.
func NewCoordinator(renderer Renderer, detector FieldDetector) *Coordinator {
	return &Coordinator{renderer: renderer, detector: detector}
}

// OnReady registers a listener invoked after each successful load.
func (c *Coordinator) OnReady(fn ReadyFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onReady = append(c.onReady, fn)
}

// Current returns the session of the most recent completed load, or nil.
func (c *Coordinator) Current() *Session {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// MetricsFor returns the metrics of a page in the current session. Shaped
// for direct use as an editor MetricsFunc.
func (c *Coordinator) MetricsFor(page int) (PageMetrics, bool) {
	return c.Current().MetricsFor(page)
}

// LoadDocument runs one complete load: open, render all pages concurrently,
// detect fields, commit. Calling it again while a load is in flight cancels
// the older load atomically; the superseded call returns ErrLoadCancelled
// and leaves no trace in coordinator state.
func (c *Coordinator) LoadDocument(ctx context.Context, data []byte) (*Session, error) {
	c.mu.Lock()
	c.gen++
	gen := c.gen
	if c.cancel != nil {
		c.cancel()
	}
	loadCtx, cancel := context.WithCancel(ctx)
	c.cancel = cancel
	c.current = nil
	c.mu.Unlock()
	defer cancel()

	doc, err := c.renderer.Open(data)
	if err != nil {
		return nil, fmt.Errorf("failed to open document: %w", err)
	}

	n := doc.PageCount()
	if n == 0 {
		return nil, fmt.Errorf("document has no pages")
	}

	metrics := make([]PageMetrics, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			rp, err := c.renderer.RenderPage(loadCtx, doc, page)
			if err != nil {
				errs[page] = err
				return
			}
			metrics[page] = rp.Metrics
		}(i)
	}
	wg.Wait()

	if loadCtx.Err() != nil {
		return nil, ErrLoadCancelled
	}
	for _, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("page render failed: %w", err)
		}
	}

	session := &Session{PageCount: n, Metrics: metrics}

	if c.detector != nil {
		detected, err := c.detector.DetectFields(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("field detection failed: %w", err)
		}
		if loadCtx.Err() != nil {
			return nil, ErrLoadCancelled
		}
		session.Detected = detected
	}

	// Commit only if no newer load started meanwhile. A stale result is
	// dropped here, before any listener can observe it.
	c.mu.Lock()
	if gen != c.gen {
		c.mu.Unlock()
		return nil, ErrLoadCancelled
	}
	c.current = session
	listeners := make([]ReadyFunc, len(c.onReady))
	copy(listeners, c.onReady)
	c.mu.Unlock()

	for _, fn := range listeners {
		fn(session)
	}
	return session, nil
}
