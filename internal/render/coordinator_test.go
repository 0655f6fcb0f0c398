package render

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/pdfforms/fieldplacer/internal/field"
	"github.com/pdfforms/fieldplacer/internal/geometry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDocument carries per-page point sizes keyed by the document payload.
type fakeDocument struct {
	heights []float64
}

func (d *fakeDocument) PageCount() int {
	return len(d.heights)
}

func (d *fakeDocument) PageSize(pageIndex int) (float64, float64, error) {
	if pageIndex < 0 || pageIndex >= len(d.heights) {
		return 0, 0, errors.New("page out of range")
	}
	return 612, d.heights[pageIndex], nil
}

// fakeRenderer renders fakeDocuments, optionally stalling each page until
// released so cancellation races can be exercised deterministically.
type fakeRenderer struct {
	zoom    float64
	docs    map[string]*fakeDocument
	openErr error

	mu      sync.Mutex
	gate    chan struct{}
	renders int
}

func newFakeRenderer() *fakeRenderer {
	return &fakeRenderer{zoom: 1.5, docs: make(map[string]*fakeDocument)}
}

func (r *fakeRenderer) Zoom() float64 { return r.zoom }

func (r *fakeRenderer) Open(data []byte) (Document, error) {
	if r.openErr != nil {
		return nil, r.openErr
	}
	doc, ok := r.docs[string(data)]
	if !ok {
		return nil, errors.New("unknown document")
	}
	return doc, nil
}

func (r *fakeRenderer) RenderPage(ctx context.Context, doc Document, pageIndex int) (RenderedPage, error) {
	r.mu.Lock()
	gate := r.gate
	r.renders++
	r.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return RenderedPage{}, ctx.Err()
		}
	}
	if err := ctx.Err(); err != nil {
		return RenderedPage{}, err
	}

	_, hPt, err := doc.PageSize(pageIndex)
	if err != nil {
		return RenderedPage{}, err
	}
	return RenderedPage{Metrics: PageMetrics{
		Page:             pageIndex,
		ZoomFactor:       r.zoom,
		PageHeightPoints: hPt,
		PageWidthPoints:  612,
		PixelWidth:       918,
		PixelHeight:      int(hPt * r.zoom),
	}}, nil
}

func TestLoadDocumentAggregatesAllPages(t *testing.T) {
	r := newFakeRenderer()
	r.docs["doc"] = &fakeDocument{heights: []float64{792, 792, 841.89}}
	c := NewCoordinator(r, nil)

	var notified *Session
	c.OnReady(func(s *Session) { notified = s })

	session, err := c.LoadDocument(context.Background(), []byte("doc"))
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, 3, session.PageCount)
	require.Len(t, session.Metrics, 3)
	for i, m := range session.Metrics {
		assert.Equal(t, i, m.Page, "metrics must be ordered by page")
		assert.Equal(t, 1.5, m.ZoomFactor)
	}
	assert.Equal(t, 841.89, session.Metrics[2].PageHeightPoints)

	assert.Same(t, session, notified, "listener must see the completed session")
	assert.Same(t, session, c.Current())

	m, ok := c.MetricsFor(1)
	require.True(t, ok)
	assert.Equal(t, 792.0, m.PageHeightPoints)
	_, ok = c.MetricsFor(3)
	assert.False(t, ok)
}

func TestLoadDocumentOpenFailure(t *testing.T) {
	r := newFakeRenderer()
	r.openErr = errors.New("corrupt header")
	c := NewCoordinator(r, nil)

	_, err := c.LoadDocument(context.Background(), []byte("doc"))
	require.Error(t, err)
	assert.Nil(t, c.Current())
}

func TestReplacementCancelsInFlightLoad(t *testing.T) {
	r := newFakeRenderer()
	r.docs["old"] = &fakeDocument{heights: []float64{792, 792}}
	r.docs["new"] = &fakeDocument{heights: []float64{612}}
	c := NewCoordinator(r, nil)

	var readyMu sync.Mutex
	var ready []*Session
	c.OnReady(func(s *Session) {
		readyMu.Lock()
		ready = append(ready, s)
		readyMu.Unlock()
	})

	// Hold the first load's page renders open.
	gate := make(chan struct{})
	r.mu.Lock()
	r.gate = gate
	r.mu.Unlock()

	firstErr := make(chan error, 1)
	go func() {
		_, err := c.LoadDocument(context.Background(), []byte("old"))
		firstErr <- err
	}()

	// Wait until the first load has reached its page renders.
	require.Eventually(t, func() bool {
		r.mu.Lock()
		defer r.mu.Unlock()
		return r.renders >= 2
	}, time.Second, time.Millisecond)

	// Replace the document. The second load may proceed immediately.
	r.mu.Lock()
	r.gate = nil
	r.mu.Unlock()
	session, err := c.LoadDocument(context.Background(), []byte("new"))
	require.NoError(t, err)
	assert.Equal(t, 1, session.PageCount)

	close(gate)
	require.ErrorIs(t, <-firstErr, ErrLoadCancelled)

	// The stale load left no trace: current state and notifications belong
	// to the newer document only.
	assert.Same(t, session, c.Current())
	readyMu.Lock()
	defer readyMu.Unlock()
	require.Len(t, ready, 1)
	assert.Same(t, session, ready[0])
}

func TestContextCancellationAbortsLoad(t *testing.T) {
	r := newFakeRenderer()
	r.docs["doc"] = &fakeDocument{heights: []float64{792}}
	c := NewCoordinator(r, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.LoadDocument(ctx, []byte("doc"))
	require.ErrorIs(t, err, ErrLoadCancelled)
	assert.Nil(t, c.Current())
}

type staticDetector struct {
	fields []field.Field
	err    error
}

func (d *staticDetector) DetectFields(_ io.ReadSeeker) ([]field.Field, error) {
	return d.fields, d.err
}

func TestLoadDocumentRunsDetection(t *testing.T) {
	r := newFakeRenderer()
	r.docs["doc"] = &fakeDocument{heights: []float64{792}}
	detected := []field.Field{{
		FieldName: "name", Type: field.TypeText, Page: 0,
		Rect: geometry.Rect{X: 100, Y: 600, Width: 150, Height: 20},
	}}
	c := NewCoordinator(r, &staticDetector{fields: detected})

	session, err := c.LoadDocument(context.Background(), []byte("doc"))
	require.NoError(t, err)
	assert.Equal(t, detected, session.Detected)
}

func TestLoadDocumentDetectionFailure(t *testing.T) {
	r := newFakeRenderer()
	r.docs["doc"] = &fakeDocument{heights: []float64{792}}
	c := NewCoordinator(r, &staticDetector{err: errors.New("bad acroform")})

	_, err := c.LoadDocument(context.Background(), []byte("doc"))
	require.Error(t, err)
	assert.Nil(t, c.Current())
}
