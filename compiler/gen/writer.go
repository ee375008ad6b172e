package gen

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// Writer writes generated files to disk with parallel execution. Go sources
// are formatted with goimports before they are written, and files whose
// content did not change are left untouched.
type Writer struct {
	outDir  string
	workers int

	// Metrics for performance monitoring
	mu      sync.Mutex
	metrics *WriterMetrics
}

// WriterMetrics tracks write performance.
type WriterMetrics struct {
	FilesWritten   int
	FilesUnchanged int
	TotalBytes     int64
	FormatTime     int64 // nanoseconds
	WriteTime      int64 // nanoseconds
}

// NewWriter creates a new writer for the given output directory.
func NewWriter(outDir string) *Writer {
	return &Writer{
		outDir:  outDir,
		workers: runtime.GOMAXPROCS(0),
		metrics: &WriterMetrics{},
	}
}

// WithWorkers sets the number of parallel workers.
func (w *Writer) WithWorkers(n int) *Writer {
	if n > 0 {
		w.workers = n
	}
	return w
}

// Metrics returns a copy of the write metrics.
func (w *Writer) Metrics() WriterMetrics {
	w.mu.Lock()
	defer w.mu.Unlock()
	return *w.metrics
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.outDir }

// WriteAll writes all files in parallel.
func (w *Writer) WriteAll(ctx context.Context, files ...*File) error {
	// Ensure output directory exists
	if err := os.MkdirAll(w.outDir, 0o755); err != nil {
		return NewGenerationError("write", w.outDir, "create output directory", err)
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(w.workers)
	for _, f := range files {
		eg.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
				return w.writeFile(f)
			}
		})
	}
	return eg.Wait()
}

// writeFile writes a single file.
func (w *Writer) writeFile(f *File) error {
	fullPath := filepath.Join(w.outDir, f.Name)
	data := f.Data

	// 1. Format Go sources (removes unused imports and adds missing ones)
	if strings.HasSuffix(f.Name, ".go") {
		start := time.Now()
		formatted, err := imports.Process(fullPath, data, nil)
		if err != nil {
			// Write unformatted file for debugging (errors intentionally ignored as we're already in error state)
			debugPath := fullPath + ".error"
			_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
			_ = os.WriteFile(debugPath, data, 0o644)
			return NewGenerationError("format", f.Name, fmt.Sprintf("unformatted written to %s", debugPath), err)
		}
		data = formatted
		w.record(func(m *WriterMetrics) { m.FormatTime += int64(time.Since(start)) })
	}

	// 2. Skip unchanged files
	if old, err := os.ReadFile(fullPath); err == nil && bytes.Equal(old, data) {
		w.record(func(m *WriterMetrics) { m.FilesUnchanged++ })
		return nil
	}

	// 3. Ensure directory exists
	start := time.Now()
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return NewGenerationError("write", f.Name, "create directory", err)
	}

	// 4. Write file
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return NewGenerationError("write", f.Name, "write file", err)
	}

	// Update metrics
	w.record(func(m *WriterMetrics) {
		m.FilesWritten++
		m.TotalBytes += int64(len(data))
		m.WriteTime += int64(time.Since(start))
	})
	return nil
}

func (w *Writer) record(fn func(*WriterMetrics)) {
	w.mu.Lock()
	fn(w.metrics)
	w.mu.Unlock()
}
