package gen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ArtifactWriter writes the artifact of a graph to a directory, one file per
// encoding, in parallel.
type ArtifactWriter struct {
	graph     *Graph
	outDir    string
	base      string
	encodings []Encoding
	workers   int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks the written output.
type WriterMetrics struct {
	FilesWritten int
	TotalBytes   int64
}

// NewArtifactWriter creates a writer of the given graph artifact. Files are
// named "schema.<encoding>" unless WithBaseName is used.
func NewArtifactWriter(g *Graph, outDir string, encodings ...Encoding) *ArtifactWriter {
	if len(encodings) == 0 {
		encodings = []Encoding{EncodingJSON}
	}
	return &ArtifactWriter{
		graph:     g,
		outDir:    outDir,
		base:      "schema",
		encodings: encodings,
		workers:   runtime.GOMAXPROCS(0),
		metrics:   &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *ArtifactWriter) WithWorkers(n int) *ArtifactWriter {
	if n > 0 {
		w.workers = n
	}
	return w
}

// WithBaseName sets the base name of the written files.
func (w *ArtifactWriter) WithBaseName(name string) *ArtifactWriter {
	if name != "" {
		w.base = name
	}
	return w
}

// Metrics returns the writer metrics.
func (w *ArtifactWriter) Metrics() *WriterMetrics {
	return w.metrics
}

// Path returns the output path of the given encoding.
func (w *ArtifactWriter) Path(e Encoding) string {
	return filepath.Join(w.outDir, w.base+"."+string(e))
}

// WriteAll writes the artifact in every configured encoding, and the
// diagnostics of the graph next to it when there are any.
func (w *ArtifactWriter) WriteAll(ctx context.Context) error {
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	a := w.graph.Artifact()
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, e := range w.encodings {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				var buf bytes.Buffer
				if err := a.Encode(&buf, e); err != nil {
					return fmt.Errorf("encode %s artifact: %w", e, err)
				}
				return w.writeFile(w.Path(e), buf.Bytes())
			}
		})
	}
	if d := w.graph.Diagnostics; d != nil && d.Len() > 0 {
		eg.Go(func() error {
			buf, err := json.MarshalIndent(d.All(), "", "  ")
			if err != nil {
				return err
			}
			return w.writeFile(filepath.Join(w.outDir, w.base+".diagnostics.json"), buf)
		})
	}
	return eg.Wait()
}

// writeFile replaces path atomically with the given content.
func (w *ArtifactWriter) writeFile(path string, b []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if _, err := tmp.Write(b); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write %s: %w", path, err)
	}

	// Update metrics
	w.mu.Lock()
	w.metrics.FilesWritten++
	w.metrics.TotalBytes += int64(len(b))
	w.mu.Unlock()

	return nil
}
