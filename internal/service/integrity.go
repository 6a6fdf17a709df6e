package service

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/atinyakov/GophGate/internal/checksum"
	"github.com/atinyakov/GophGate/internal/repository"
)

// ManifestRepository defines the sidecar operations required by the scanner.
type ManifestRepository interface {
	// Load returns the stored manifest and whether it exists.
	Load() (repository.Manifest, bool, error)
	// Save replaces the stored manifest.
	Save(m repository.Manifest) error
	// Path returns the sidecar location, which is excluded from scans.
	Path() string
}

// SkippedFile is a file the scanner could not hash.
type SkippedFile struct {
	Path string
	Err  error
}

// Snapshot is the result of hashing a directory tree.
type Snapshot struct {
	Files   repository.Manifest
	Skipped []SkippedFile
}

// Changes lists the differences between two manifests. Every list is sorted.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether there are no differences.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares a stored manifest with a fresh one.
func Diff(old, cur repository.Manifest) Changes {
	var c Changes
	for path, sum := range old {
		now, ok := cur[path]
		switch {
		case !ok:
			c.Removed = append(c.Removed, path)
		case now != sum:
			c.Changed = append(c.Changed, path)
		}
	}
	for path := range cur {
		if _, ok := old[path]; !ok {
			c.Added = append(c.Added, path)
		}
	}
	sort.Strings(c.Added)
	sort.Strings(c.Removed)
	sort.Strings(c.Changed)
	return c
}

// ScanResult is the outcome of Scanner.Run.
type ScanResult struct {
	// FirstRun is true when no sidecar existed and one was created.
	FirstRun bool
	Snapshot Snapshot
	// Changes is empty on the first run.
	Changes Changes
}

// Scanner hashes a directory tree and compares it with its sidecar manifest.
type Scanner struct {
	root    string
	store   ManifestRepository
	workers int
	log     *zap.Logger
}

// NewScanner constructs a Scanner for root. workers <= 0 means one worker
// per CPU. A nil logger disables logging.
func NewScanner(root string, store ManifestRepository, workers int, log *zap.Logger) *Scanner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Scanner{root: root, store: store, workers: workers, log: log}
}

// Run scans the tree. Without a sidecar it stores the snapshot and reports a
// first run. With one, it reports the differences; update also stores the
// new snapshot.
func (s *Scanner) Run(ctx context.Context, update bool) (ScanResult, error) {
	old, exists, err := s.store.Load()
	if err != nil {
		return ScanResult{}, err
	}

	snap, err := s.Snapshot(ctx)
	if err != nil {
		return ScanResult{}, err
	}

	if !exists {
		if err := s.store.Save(snap.Files); err != nil {
			return ScanResult{}, err
		}
		s.log.Info("manifest created", zap.String("sidecar", s.store.Path()), zap.Int("files", len(snap.Files)))
		return ScanResult{FirstRun: true, Snapshot: snap}, nil
	}

	changes := Diff(old, snap.Files)
	s.log.Info("manifest compared",
		zap.Int("added", len(changes.Added)),
		zap.Int("removed", len(changes.Removed)),
		zap.Int("changed", len(changes.Changed)))

	if update && !changes.Empty() {
		if err := s.store.Save(snap.Files); err != nil {
			return ScanResult{}, err
		}
		s.log.Info("manifest updated", zap.String("sidecar", s.store.Path()))
	}
	return ScanResult{Snapshot: snap, Changes: changes}, nil
}

// Snapshot hashes every regular file under the root except the sidecar.
// Files that cannot be read are listed in Skipped; a failing walk aborts.
func (s *Scanner) Snapshot(ctx context.Context) (Snapshot, error) {
	sidecar, err := filepath.Abs(s.store.Path())
	if err != nil {
		return Snapshot{}, fmt.Errorf("resolve sidecar: %w", err)
	}
	root, err := filepath.Abs(s.root)
	if err != nil {
		return Snapshot{}, fmt.Errorf("resolve root: %w", err)
	}

	var (
		mu   sync.Mutex
		snap = Snapshot{Files: repository.Manifest{}}
	)
	skip := func(rel string, err error) {
		mu.Lock()
		snap.Skipped = append(snap.Skipped, SkippedFile{Path: rel, Err: err})
		mu.Unlock()
		s.log.Warn("file skipped", zap.String("path", rel), zap.Error(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			rel, _ := filepath.Rel(root, path)
			skip(filepath.ToSlash(rel), err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if gctx.Err() != nil {
			return gctx.Err()
		}
		if !d.Type().IsRegular() || path == sidecar {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		g.Go(func() error {
			sum, err := hashFile(path)
			if err != nil {
				skip(rel, err)
				return nil
			}
			mu.Lock()
			snap.Files[rel] = sum
			mu.Unlock()
			return nil
		})
		return nil
	})
	if err := g.Wait(); err != nil {
		return Snapshot{}, err
	}
	if walkErr != nil {
		return Snapshot{}, fmt.Errorf("walk %s: %w", s.root, walkErr)
	}

	sort.Slice(snap.Skipped, func(i, j int) bool { return snap.Skipped[i].Path < snap.Skipped[j].Path })
	return snap, nil
}

func hashFile(path string) (uint16, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()
	return checksum.SumReader(f)
}
