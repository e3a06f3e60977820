// Package batch encodes rendered figures and writes them to the output
// directory. Either every artifact of a run is written or none is.
package batch

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
)

// Output formats.
const (
	FormatPNG  = "png"
	FormatWebP = "webp"
)

// ManifestFile is written next to the artifacts.
const ManifestFile = "manifest.json"

// Config holds the shared settings of a batch run.
type Config struct {
	OutputDir string
	Format    string
	Workers   int
	Tool      string
	Logger    *slog.Logger
}

// Figure is one image to be written. Name has no extension.
type Figure struct {
	Name  string
	Image image.Image
}

// Result holds the outcome of encoding one figure.
type Result struct {
	Name    string
	File    string
	Width   int
	Height  int
	Bytes   int
	Success bool
	Error   string

	data []byte
}

// Encoder writes img to w in one output format.
type Encoder func(w io.Writer, img image.Image) error

// EncoderFor returns the encoder and file extension for format.
func EncoderFor(format string) (Encoder, string, error) {
	switch format {
	case FormatPNG, "":
		enc := png.Encoder{CompressionLevel: png.BestCompression}
		return enc.Encode, ".png", nil
	case FormatWebP:
		return func(w io.Writer, img image.Image) error {
			return nativewebp.Encode(w, img, nil)
		}, ".webp", nil
	default:
		return nil, "", fmt.Errorf("batch: unknown format %q (want png or webp)", format)
	}
}

// Run encodes every figure in memory using a worker pool. Files and the
// manifest are written only if all encodes succeed; a failure while writing
// removes what was already written.
func Run(cfg Config, figs []Figure) ([]Result, error) {
	enc, ext, err := EncoderFor(cfg.Format)
	if err != nil {
		return nil, err
	}
	if err := checkNames(figs); err != nil {
		return nil, err
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}

	results := encodeAll(enc, ext, workers, figs, logger)

	var errs []error
	for _, r := range results {
		if !r.Success {
			errs = append(errs, fmt.Errorf("%s: %s", r.Name, r.Error))
		}
	}
	if len(errs) > 0 {
		return results, fmt.Errorf("batch: encode failed, nothing written: %w", errors.Join(errs...))
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return results, fmt.Errorf("batch: create %s: %w", cfg.OutputDir, err)
	}
	var written []string
	for i := range results {
		path := filepath.Join(cfg.OutputDir, results[i].File)
		if err := os.WriteFile(path, results[i].data, 0644); err != nil {
			rollback(written)
			return results, fmt.Errorf("batch: write %s: %w", path, err)
		}
		written = append(written, path)
		logger.Debug("artifact written", "path", path, "bytes", results[i].Bytes)
	}

	mpath := filepath.Join(cfg.OutputDir, ManifestFile)
	if err := WriteManifest(mpath, cfg.Tool, results); err != nil {
		rollback(written)
		return results, fmt.Errorf("batch: write %s: %w", mpath, err)
	}
	return results, nil
}

func checkNames(figs []Figure) error {
	seen := make(map[string]bool, len(figs))
	for _, f := range figs {
		if f.Name == "" || f.Name != filepath.Base(f.Name) {
			return fmt.Errorf("batch: invalid figure name %q", f.Name)
		}
		if seen[f.Name] {
			return fmt.Errorf("batch: duplicate figure name %q", f.Name)
		}
		seen[f.Name] = true
	}
	return nil
}

func encodeAll(enc Encoder, ext string, workers int, figs []Figure, logger *slog.Logger) []Result {
	total := len(figs)
	results := make([]Result, total)
	var processed atomic.Int64

	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if p := processed.Load(); p > 0 {
					logger.Info("encoding", "done", p, "total", total, "elapsed", time.Since(start).Round(time.Millisecond))
				}
			}
		}
	}()

	// Worker pool
	figChan := make(chan int, workers*2)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range figChan {
				results[idx] = encodeFigure(enc, ext, figs[idx])
				processed.Add(1)
			}
		}()
	}

	for i := range figs {
		figChan <- i
	}
	close(figChan)

	wg.Wait()
	close(done)

	return results
}

func encodeFigure(enc Encoder, ext string, fig Figure) Result {
	r := Result{Name: fig.Name, File: fig.Name + ext}
	if fig.Image == nil {
		r.Error = "no image"
		return r
	}
	b := fig.Image.Bounds()
	if b.Empty() {
		r.Error = "empty image"
		return r
	}
	r.Width, r.Height = b.Dx(), b.Dy()

	var buf bytes.Buffer
	if err := enc(&buf, fig.Image); err != nil {
		r.Error = fmt.Sprintf("encode: %v", err)
		return r
	}
	r.data = buf.Bytes()
	r.Bytes = len(r.data)
	r.Success = true
	return r
}

func rollback(paths []string) {
	for _, p := range paths {
		os.Remove(p)
	}
}
