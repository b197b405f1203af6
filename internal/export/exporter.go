package export

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"github.com/san-kum/backlight/internal/grid"
	"github.com/san-kum/backlight/internal/render"
	"github.com/san-kum/backlight/internal/sequence"
	"github.com/san-kum/backlight/internal/storage"
)

var (
	ErrInFlight = errors.New("export: another export is in progress")

	// ErrMediaWrite wraps any failure to produce the GIF file. No record is
	// saved when it is returned.
	ErrMediaWrite = errors.New("export: media write failed")
)

// RecordSaver persists a finished export.
type RecordSaver interface {
	Save(rec storage.Record) (storage.Record, error)
}

// Job is a self-contained export request. Extended must not be shared with
// anything that still mutates it.
type Job struct {
	Name        string
	Extended    grid.Matrix
	DisplayCols int
	DelayMs     int
}

// JobFromSnapshot copies what an export needs out of a display snapshot.
func JobFromSnapshot(s grid.Snapshot, name string, delayMs int) Job {
	return Job{
		Name:        name,
		Extended:    s.Source().Clone(),
		DisplayCols: s.Display.Cols(),
		DelayMs:     delayMs,
	}
}

type Exporter struct {
	renderer render.Renderer
	records  RecordSaver
	mediaDir string
	logger   *slog.Logger
	now      func() time.Time
	busy     atomic.Bool
}

func New(r render.Renderer, records RecordSaver, mediaDir string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{
		renderer: r,
		records:  records,
		mediaDir: mediaDir,
		logger:   logger,
		now:      time.Now,
	}
}

// Busy reports whether an export is running.
func (e *Exporter) Busy() bool { return e.busy.Load() }

// Run renders the marquee cycle of job, writes the GIF and then saves the
// record. Only one Run may be in progress; a concurrent call returns
// ErrInFlight. If the record cannot be saved the GIF is removed again.
func (e *Exporter) Run(ctx context.Context, job Job) (storage.Record, error) {
	if !e.busy.CompareAndSwap(false, true) {
		return storage.Record{}, ErrInFlight
	}
	defer e.busy.Store(false)

	name := strings.TrimSpace(job.Name)
	if name == "" {
		return storage.Record{}, storage.ErrEmptyName
	}

	seq, err := sequence.Cycle(job.Extended, job.DisplayCols, job.DelayMs)
	if err != nil {
		return storage.Record{}, err
	}

	start := e.now()
	path, err := e.writeMedia(ctx, name, seq)
	if err != nil {
		return storage.Record{}, err
	}

	rec, err := e.records.Save(storage.Record{
		Name:      name,
		Mode:      storage.ModeMarquee,
		Frames:    seq.Encode(),
		DelayMs:   seq.DelayMs,
		MediaPath: path,
	})
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			e.logger.Warn("export rollback failed", "path", path, "err", rmErr)
		}
		return storage.Record{}, fmt.Errorf("save record: %w", err)
	}

	e.logger.Info("export complete",
		"id", rec.ID,
		"frames", seq.Len(),
		"delay_ms", seq.DelayMs,
		"path", path,
		"elapsed", e.now().Sub(start))
	return rec, nil
}

// writeMedia encodes into a temp file and renames it into place so a
// partial GIF is never visible under the final name.
func (e *Exporter) writeMedia(ctx context.Context, name string, seq sequence.Sequence) (string, error) {
	if err := os.MkdirAll(e.mediaDir, 0755); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaWrite, err)
	}
	tmp, err := os.CreateTemp(e.mediaDir, ".export-*.gif")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaWrite, err)
	}
	renamed := false
	defer func() {
		if !renamed {
			os.Remove(tmp.Name())
		}
	}()

	if err := EncodeGIF(ctx, tmp, seq, e.renderer); err != nil {
		tmp.Close()
		if ctx.Err() != nil {
			return "", err
		}
		return "", fmt.Errorf("%w: %v", ErrMediaWrite, err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaWrite, err)
	}

	path := filepath.Join(e.mediaDir, fmt.Sprintf("%s_%d.gif", storage.Slug(name), e.now().UnixNano()))
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("%w: %v", ErrMediaWrite, err)
	}
	renamed = true
	return path, nil
}
