package rdfio

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/c360studio/groupsheets/graph"
)

// FileStore loads graphs from files and writes them back in place. The
// output format is the format the file was read in.
type FileStore struct {
	logger *slog.Logger
}

// NewFileStore creates a new file store.
func NewFileStore(logger *slog.Logger) *FileStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{logger: logger}
}

// Load parses the file at path.
func (s *FileStore) Load(path string) (*graph.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	format := DetectFormat(path, data)
	g, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse %s as %s: %w", path, format, err)
	}
	s.logger.Debug("Loaded graph", "path", path, "format", format, "triples", g.Len())
	return g, nil
}

// Save serializes g and atomically replaces the file at path.
func (s *FileStore) Save(path string, g *graph.Graph) error {
	format, err := saveFormat(path)
	if err != nil {
		return err
	}
	err = WriteFileAtomic(path, func(w io.Writer) error {
		return Encode(w, g, format)
	})
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	s.logger.Debug("Wrote graph", "path", path, "format", format, "triples", g.Len())
	return nil
}

// saveFormat resolves the format for path, sniffing the current content when
// the extension is not registered.
func saveFormat(path string) (Format, error) {
	if f, ok := FormatForPath(path); ok {
		return f, nil
	}
	head := make([]byte, 512)
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return FormatTurtle, nil
	}
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	n, _ := io.ReadFull(f, head)
	return Sniff(head[:n]), nil
}

// WriteFileAtomic writes path through a temporary file in the same
// directory that is renamed over path once fully written. On failure the
// original file is untouched and the temporary file is removed.
func WriteFileAtomic(path string, write func(io.Writer) error) (err error) {
	perm := os.FileMode(0644)
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return err
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync temp file: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace file: %w", err)
	}
	return nil
}

// DryRunStore loads like FileStore but never writes. Save still serializes
// the graph so that encoding errors surface.
type DryRunStore struct {
	*FileStore
}

// NewDryRunStore creates a store that discards writes.
func NewDryRunStore(logger *slog.Logger) *DryRunStore {
	return &DryRunStore{FileStore: NewFileStore(logger)}
}

// Save encodes g and discards the output.
func (s *DryRunStore) Save(path string, g *graph.Graph) error {
	format, err := saveFormat(path)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := Encode(&buf, g, format); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	s.logger.Info("Dry run: skipped write", "path", path, "format", format, "bytes", buf.Len())
	return nil
}
