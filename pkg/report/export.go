package report

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jeffersonbalde/CPC-Accounting-System-client-sub001/pkg/pathutil"
)

// ErrExportBlocked is returned when the printable document cannot be opened.
// The CSV export is a separate action and is not attempted in its place.
var ErrExportBlocked = errors.New("export blocked: printable report could not be opened")

// Destination receives one rendered artifact.
type Destination interface {
	io.Writer
	// Commit finalizes the artifact and returns where it was stored.
	Commit() (string, error)
	// Discard drops a partially written artifact.
	Discard() error
}

// Sink opens destinations for report artifacts.
type Sink interface {
	Open(rpt *Report, filename string) (Destination, error)
}

// DirSink writes artifacts under the report root, in a directory per year.
type DirSink struct {
	paths *pathutil.PathResolver
}

// NewDirSink creates a sink backed by the report directory tree.
func NewDirSink(paths *pathutil.PathResolver) *DirSink {
	return &DirSink{paths: paths}
}

// Open creates a temporary file beside the final path. The final file only
// appears once Commit succeeds.
func (s *DirSink) Open(rpt *Report, filename string) (Destination, error) {
	path, err := s.paths.GetReportPath(rpt.StartDate, filename)
	if err != nil {
		return nil, err
	}
	if err := s.paths.EnsureParentDir(path); err != nil {
		return nil, err
	}

	f, err := os.CreateTemp(filepath.Dir(path), "."+filename+".*.tmp")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	return &fileDestination{f: f, path: path}, nil
}

type fileDestination struct {
	f    *os.File
	path string
}

func (d *fileDestination) Write(p []byte) (int, error) {
	return d.f.Write(p)
}

func (d *fileDestination) Commit() (string, error) {
	if err := d.f.Close(); err != nil {
		os.Remove(d.f.Name())
		return "", fmt.Errorf("failed to close %s: %w", d.f.Name(), err)
	}
	if err := os.Rename(d.f.Name(), d.path); err != nil {
		os.Remove(d.f.Name())
		return "", fmt.Errorf("failed to move report into place: %w", err)
	}
	return d.path, nil
}

func (d *fileDestination) Discard() error {
	d.f.Close()
	if err := os.Remove(d.f.Name()); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove %s: %w", d.f.Name(), err)
	}
	return nil
}

// Exporter writes report artifacts to a sink. A failed export never leaves a
// partial artifact behind.
type Exporter struct {
	sink   Sink
	now    func() time.Time
	logger *slog.Logger
}

// NewExporter creates an exporter. A nil logger uses slog.Default.
func NewExporter(sink Sink, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Exporter{sink: sink, now: time.Now, logger: logger}
}

// ExportHTML writes the printable document. Failure to open the destination
// is reported as ErrExportBlocked.
func (e *Exporter) ExportHTML(rpt *Report) (string, error) {
	dest, err := e.sink.Open(rpt, rpt.HTMLFilename())
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrExportBlocked, err)
	}
	return e.finish(dest, func(w io.Writer) error {
		return WriteHTML(w, rpt, e.now())
	})
}

// ExportCSV writes the CSV document.
func (e *Exporter) ExportCSV(rpt *Report) (string, error) {
	dest, err := e.sink.Open(rpt, rpt.CSVFilename())
	if err != nil {
		return "", fmt.Errorf("failed to open csv destination: %w", err)
	}
	return e.finish(dest, func(w io.Writer) error {
		return WriteCSV(w, rpt)
	})
}

func (e *Exporter) finish(dest Destination, render func(io.Writer) error) (string, error) {
	if err := render(dest); err != nil {
		if derr := dest.Discard(); derr != nil {
			e.logger.Warn("failed to discard partial report", "error", derr)
		}
		return "", err
	}

	location, err := dest.Commit()
	if err != nil {
		return "", err
	}
	e.logger.Debug("report exported", "location", location)
	return location, nil
}
