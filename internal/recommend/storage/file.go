// Movierec - Hybrid Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/movierec

package storage

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultRetainVersions is how many versions of each model FileStore keeps.
const DefaultRetainVersions = 2

const fileSuffix = ".gob.gz"

// FileStore keeps each model version in its own file under a directory.
type FileStore struct {
	baseDir string
	retain  int

	mu sync.RWMutex

	// latest version per model name
	versions map[string]int
}

// storedFile is the on-disk format of one version.
type storedFile struct {
	Metadata       Metadata
	CompressedData []byte
}

// NewFileStore opens (creating if needed) a store rooted at baseDir.
func NewFileStore(baseDir string) (*FileStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}

	s := &FileStore{
		baseDir:  baseDir,
		retain:   DefaultRetainVersions,
		versions: make(map[string]int),
	}

	entries, err := s.scan()
	if err != nil {
		return nil, fmt.Errorf("scan existing models: %w", err)
	}
	for name, vs := range entries {
		s.versions[name] = vs[0]
	}

	return s, nil
}

// SetRetainVersions changes how many versions survive a save. Values below
// one are treated as one.
func (s *FileStore) SetRetainVersions(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.retain = max(n, 1)
}

// scan maps every model name in the directory to its versions, newest first.
func (s *FileStore) scan() (map[string][]int, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, err
	}

	out := make(map[string][]int)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), fileSuffix) {
			continue
		}
		name, version := parseModelFilename(strings.TrimSuffix(entry.Name(), fileSuffix))
		if name == "" {
			continue
		}
		out[name] = append(out[name], version)
	}
	for _, vs := range out {
		sort.Sort(sort.Reverse(sort.IntSlice(vs)))
	}
	return out, nil
}

// parseModelFilename splits "cf_v3" into ("cf", 3).
func parseModelFilename(base string) (name string, version int) {
	i := strings.LastIndex(base, "_v")
	if i < 1 {
		return "", 0
	}
	v, err := strconv.Atoi(base[i+2:])
	if err != nil || v < 1 {
		return "", 0
	}
	return base[:i], v
}

func (s *FileStore) modelPath(name string, version int) string {
	return filepath.Join(s.baseDir, fmt.Sprintf("%s_v%d%s", name, version, fileSuffix))
}

// Save writes blob as version latest+1 and prunes older versions.
//
//nolint:gocritic // meta passed by value is acceptable for this write operation
func (s *FileStore) Save(ctx context.Context, name string, blob []byte, meta Metadata) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var compressed bytes.Buffer
	gzw := gzip.NewWriter(&compressed)
	if _, err := gzw.Write(blob); err != nil {
		return fmt.Errorf("compress model: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("finalize compression: %w", err)
	}

	version := s.versions[name] + 1
	meta.Name = name
	meta.Version = version
	meta.SavedAt = time.Now()
	meta.Checksum = checksum(blob)
	meta.SizeBytes = int64(compressed.Len())

	tmp, err := os.CreateTemp(s.baseDir, "."+name+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create model file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }() //nolint:errcheck // no-op after a successful rename

	if err := gob.NewEncoder(tmp).Encode(storedFile{Metadata: meta, CompressedData: compressed.Bytes()}); err != nil {
		_ = tmp.Close() //nolint:errcheck // write error takes precedence
		return fmt.Errorf("write model file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close model file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.modelPath(name, version)); err != nil {
		return fmt.Errorf("commit model file: %w", err)
	}

	s.versions[name] = version
	return s.prune(name)
}

// prune removes all but the newest retain versions of name. Caller holds mu.
func (s *FileStore) prune(name string) error {
	all, err := s.scan()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	vs := all[name]
	for i := s.retain; i < len(vs); i++ {
		if err := os.Remove(s.modelPath(name, vs[i])); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("prune %s v%d: %w", name, vs[i], err)
		}
	}
	return nil
}

// Load returns the newest version of name.
func (s *FileStore) Load(ctx context.Context, name string) ([]byte, Metadata, error) {
	s.mu.RLock()
	version, ok := s.versions[name]
	s.mu.RUnlock()
	if !ok {
		return nil, Metadata{}, fmt.Errorf("%s: %w", name, ErrModelNotFound)
	}
	return s.LoadVersion(ctx, name, version)
}

// LoadVersion returns a specific version of name.
func (s *FileStore) LoadVersion(ctx context.Context, name string, version int) ([]byte, Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, Metadata{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	sf, err := s.readFile(name, version)
	if err != nil {
		return nil, Metadata{}, err
	}

	gzr, err := gzip.NewReader(bytes.NewReader(sf.CompressedData))
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("decompress model: %w", err)
	}
	defer func() { _ = gzr.Close() }() //nolint:errcheck // error on gzip close after read is not actionable

	blob, err := io.ReadAll(gzr)
	if err != nil {
		return nil, Metadata{}, fmt.Errorf("read decompressed data: %w", err)
	}

	if got := checksum(blob); got != sf.Metadata.Checksum {
		return nil, Metadata{}, fmt.Errorf("%s v%d: %w: expected %s, got %s",
			name, version, ErrChecksumMismatch, sf.Metadata.Checksum, got)
	}

	return blob, sf.Metadata, nil
}

func (s *FileStore) readFile(name string, version int) (*storedFile, error) {
	f, err := os.Open(s.modelPath(name, version))
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%s v%d: %w", name, version, ErrModelNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open model file: %w", err)
	}
	defer func() { _ = f.Close() }() //nolint:errcheck // error on close after read is not actionable

	var sf storedFile
	if err := gob.NewDecoder(f).Decode(&sf); err != nil {
		return nil, fmt.Errorf("read model file: %w", err)
	}
	return &sf, nil
}

// Exists reports whether name has a stored version.
func (s *FileStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.versions[name]
	return ok, nil
}

// LatestVersion returns the newest version number of name.
func (s *FileStore) LatestVersion(name string) (int, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.versions[name]
	return v, ok
}

// List returns metadata of the newest version of each model. Unreadable files
// are skipped.
func (s *FileStore) List(_ context.Context) ([]Metadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Metadata, 0, len(s.versions))
	for name, version := range s.versions {
		sf, err := s.readFile(name, version)
		if err != nil {
			continue
		}
		out = append(out, sf.Metadata)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Delete removes every version of name.
func (s *FileStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	all, err := s.scan()
	if err != nil {
		return fmt.Errorf("read directory: %w", err)
	}
	vs, ok := all[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrModelNotFound)
	}
	for _, v := range vs {
		if err := os.Remove(s.modelPath(name, v)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("delete model: %w", err)
		}
	}
	delete(s.versions, name)
	return nil
}

// Close is a no-op; FileStore holds no open handles.
func (s *FileStore) Close() error { return nil }
