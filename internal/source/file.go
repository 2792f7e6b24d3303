// Package source loads ERP export files from disk into core snapshots.
//
// A FileSource resolves the header and movement exports against an ordered
// list of candidate directories, decodes and normalizes them, and caches the
// result until either file's size or modification time changes. Concurrent
// callers that observe the same change share one rebuild.
package source

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/JonMunkholm/ordercheck/internal/core"
	"github.com/JonMunkholm/ordercheck/internal/decode"
)

// Default export file names.
const (
	DefaultHeaderFile   = "header.csv"
	DefaultMaterialFile = "material.csv"
)

// Table names reported to a LoadObserver.
const (
	TableHeaders   = "headers"
	TableMovements = "movements"
)

// DefaultDirs mirrors where the exports are usually dropped relative to the
// working directory.
var DefaultDirs = []string{"data", "../data", "public/data"}

// Config locates and decodes the two export files.
type Config struct {
	// Dirs are searched in order; the first directory holding a file wins.
	// Absolute file names bypass the search.
	Dirs         []string
	HeaderFile   string
	MaterialFile string
	Decode       decode.Options
}

func (c Config) withDefaults() Config {
	if len(c.Dirs) == 0 {
		c.Dirs = DefaultDirs
	}
	if c.HeaderFile == "" {
		c.HeaderFile = DefaultHeaderFile
	}
	if c.MaterialFile == "" {
		c.MaterialFile = DefaultMaterialFile
	}
	return c
}

// LoadObserver is told about every table load attempt.
type LoadObserver interface {
	ObserveLoad(table string, rows int, elapsed time.Duration, err error)
}

// Option configures a FileSource.
type Option func(*FileSource)

// WithLoadObserver reports table loads to o.
func WithLoadObserver(o LoadObserver) Option {
	return func(s *FileSource) { s.observer = o }
}

// FileSource is a core.Source backed by two files on disk.
// It is safe for concurrent use.
type FileSource struct {
	cfg      Config
	observer LoadObserver
	group    singleflight.Group

	mu   sync.RWMutex
	sig  signature
	snap *core.Snapshot
}

var _ core.Source = (*FileSource)(nil)

// New creates a FileSource. Nothing is read until the first Snapshot call.
func New(cfg Config, opts ...Option) *FileSource {
	s := &FileSource{cfg: cfg.withDefaults()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Config returns the effective configuration.
func (s *FileSource) Config() Config {
	return s.cfg
}

// Snapshot returns the cached snapshot when neither file has changed since it
// was built, and rebuilds it otherwise.
//
// A missing or unreadable file yields an empty table and a warning. A file
// that is not valid text in the configured encoding is an error, and nothing
// is cached.
func (s *FileSource) Snapshot(ctx context.Context) (*core.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sig := s.currentSignature()

	s.mu.RLock()
	if s.snap != nil && s.sig == sig {
		snap := s.snap
		s.mu.RUnlock()
		return snap, nil
	}
	s.mu.RUnlock()

	// The build is shared, so one caller giving up must not fail the others.
	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(sig.key(), func() (any, error) {
		snap, complete, err := s.build(buildCtx, sig)
		if err != nil {
			return nil, err
		}
		// A file that could not be read may become readable without its size
		// or mtime changing, so only a complete load is cached.
		if complete {
			s.mu.Lock()
			s.sig = sig
			s.snap = snap
			s.mu.Unlock()
		}
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*core.Snapshot), nil
	}
}

// Invalidate drops the cached snapshot so the next call rebuilds even if the
// file signatures look unchanged.
func (s *FileSource) Invalidate() {
	s.mu.Lock()
	s.snap = nil
	s.sig = signature{}
	s.mu.Unlock()
}

// Paths returns the resolved header and material paths, empty when a file is
// not found in any candidate directory.
func (s *FileSource) Paths() (header, material string) {
	sig := s.currentSignature()
	return sig.header.path, sig.material.path
}

func (s *FileSource) build(ctx context.Context, sig signature) (*core.Snapshot, bool, error) {
	start := time.Now()
	id := uuid.NewString()
	logger := slog.Default().With("snapshot_id", id)

	headerTable, headerOK, err := s.loadTable(logger, TableHeaders, s.cfg.HeaderFile, sig.header)
	if err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	movementTable, movementOK, err := s.loadTable(logger, TableMovements, s.cfg.MaterialFile, sig.material)
	if err != nil {
		return nil, false, err
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	warnMissingColumns(logger, TableHeaders, headerTable, core.HeaderFields)
	warnMissingColumns(logger, TableMovements, movementTable, core.MovementFields)

	snap := &core.Snapshot{
		ID:        id,
		Headers:   core.NormalizeHeaders(headerTable),
		Movements: core.NormalizeMovements(movementTable),
		LoadedAt:  time.Now(),
	}

	logger.Info("source loaded",
		"headers", len(snap.Headers),
		"movements", len(snap.Movements),
		"duration", time.Since(start),
	)
	return snap, headerOK && movementOK, nil
}

// loadTable reads one export. The bool is false when the resolved file could
// not be read and an empty table stands in for it.
func (s *FileSource) loadTable(logger *slog.Logger, table, name string, st fileStat) (*decode.Table, bool, error) {
	start := time.Now()

	if st.skipped != "" {
		logger.Warn("source candidates unreadable, skipped",
			"table", table,
			"file", name,
			"skipped", st.skipped,
		)
	}

	if !st.exists {
		logger.Warn("source file not found, using empty table",
			"table", table,
			"file", name,
			"dirs", s.cfg.Dirs,
		)
		s.observe(table, 0, start, nil)
		return nil, true, nil
	}

	t, err := readTable(st.path, s.cfg.Decode)
	s.observe(table, t.Len(), start, err)
	if err != nil {
		if isDecodeFailure(err) {
			logger.Error("source file undecodable", "table", table, "path", st.path, "error", err)
			return nil, false, err
		}
		logger.Warn("source file unreadable, using empty table", "table", table, "path", st.path, "error", err)
		return nil, false, nil
	}

	logger.Debug("source table decoded", "table", table, "path", st.path, "rows", t.Len())
	return t, true, nil
}

// isDecodeFailure reports whether err means the file was read but its
// contents cannot be trusted. Only these fail a load; I/O problems degrade to
// an empty table like a missing file.
func isDecodeFailure(err error) bool {
	var decErr *decode.DecodeError
	return errors.As(err, &decErr) || errors.Is(err, decode.ErrUnknownEncoding)
}

func readTable(path string, opts decode.Options) (*decode.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read source %s: %w", path, err)
	}
	defer f.Close()

	t, err := decode.Decode(f, opts)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return t, nil
}

func (s *FileSource) observe(table string, rows int, start time.Time, err error) {
	if s.observer != nil {
		s.observer.ObserveLoad(table, rows, time.Since(start), err)
	}
}

func warnMissingColumns(logger *slog.Logger, table string, t *decode.Table, specs []core.FieldSpec) {
	if t == nil || t.Header == nil || t.Header.Len() == 0 {
		return
	}
	if missing := core.MissingColumns(t.Header, specs); len(missing) > 0 {
		logger.Warn("source columns missing, fields will be empty",
			"table", table,
			"fields", missing,
		)
	}
}

// fileStat is the part of a file's metadata that decides cache validity.
type fileStat struct {
	path    string
	exists  bool
	size    int64
	modTime int64 // UnixNano

	// skipped lists earlier candidates whose metadata could not be read. It
	// is part of the signature, so fixing one of them triggers a rebuild.
	skipped string
}

type signature struct {
	header   fileStat
	material fileStat
}

func (g signature) key() string {
	return fmt.Sprintf("%s|%t|%d|%d|%s;%s|%t|%d|%d|%s",
		g.header.path, g.header.exists, g.header.size, g.header.modTime, g.header.skipped,
		g.material.path, g.material.exists, g.material.size, g.material.modTime, g.material.skipped,
	)
}

func (s *FileSource) currentSignature() signature {
	return signature{
		header:   resolve(s.cfg.Dirs, s.cfg.HeaderFile),
		material: resolve(s.cfg.Dirs, s.cfg.MaterialFile),
	}
}

// resolve finds name in the first candidate directory that holds it as a
// regular file. Candidates that cannot be inspected, for example because a
// path component is not a directory or access is denied, count as absent and
// the search moves on.
func resolve(dirs []string, name string) fileStat {
	if filepath.IsAbs(name) {
		st, err := stat(name)
		if err != nil {
			st.skipped = err.Error()
		}
		return st
	}

	var skipped []string
	for _, dir := range dirs {
		st, err := stat(filepath.Join(dir, name))
		if err != nil {
			skipped = append(skipped, err.Error())
			continue
		}
		if st.exists {
			st.skipped = strings.Join(skipped, "; ")
			return st
		}
	}
	return fileStat{skipped: strings.Join(skipped, "; ")}
}

// stat returns an error only for metadata that exists but cannot be read.
func stat(path string) (fileStat, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fileStat{}, nil
		}
		return fileStat{}, err
	}
	if !info.Mode().IsRegular() {
		return fileStat{}, nil
	}
	return fileStat{
		path:    path,
		exists:  true,
		size:    info.Size(),
		modTime: info.ModTime().UnixNano(),
	}, nil
}
