package ktb

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

// fingerprintCacheSize bounds the per-process fingerprint cache. 4096 entries
// comfortably cover a large multi-root project.
const fingerprintCacheSize = 4096

// fingerprintKey identifies cached content by path and stat identity, so a
// rewritten file never serves a stale fingerprint.
type fingerprintKey struct {
	path  string
	mtime int64
	size  int64
}

// Fingerprinter computes sha256 content fingerprints with a bounded cache.
// Create with NewFingerprinter; safe for concurrent use.
type Fingerprinter struct {
	cache *lru.Cache[fingerprintKey, string]
}

// NewFingerprinter returns a ready Fingerprinter.
func NewFingerprinter() *Fingerprinter {
	cache, err := lru.New[fingerprintKey, string](fingerprintCacheSize)
	Must(err) // Only fails for a non-positive size.
	return &Fingerprinter{cache: cache}
}

// File returns the hex sha256 fingerprint of the file at path.
func (f *Fingerprinter) File(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	key := fingerprintKey{path: path, mtime: info.ModTime().UnixNano(), size: info.Size()}
	if sum, ok := f.cache.Get(key); ok {
		return sum, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer file.Close()

	h := sha256.New()
	if _, err := io.Copy(h, file); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	sum := hex.EncodeToString(h.Sum(nil))
	f.cache.Add(key, sum)
	return sum, nil
}

// Files fingerprints the given base-relative slash paths, hashing large sets
// in parallel. The returned map is keyed by the paths as given.
func (f *Fingerprinter) Files(ctx context.Context, baseDir string, paths []string) (map[string]string, error) {
	prints := make(map[string]string, len(paths))
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sum, err := f.File(filepath.Join(baseDir, filepath.FromSlash(path)))
			if err != nil {
				return err
			}
			mu.Lock()
			prints[path] = sum
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return prints, nil
}

// SetFingerprint derives one fingerprint for a whole input set. The result
// is independent of map iteration order: paths are sorted and every field is
// length-prefixed so adjacent fields cannot collide.
func SetFingerprint(files map[string]string) string {
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	h := sha256.New()
	for _, p := range paths {
		writeField(h, []byte(p))
		writeField(h, []byte(files[p]))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// ConfigFingerprint hashes an ordered list of configuration fields.
func ConfigFingerprint(fields ...string) string {
	h := sha256.New()
	for _, field := range fields {
		writeField(h, []byte(field))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// writeField writes data with an 8-byte big-endian length prefix.
func writeField(h hash.Hash, data []byte) {
	var length [8]byte
	binary.BigEndian.PutUint64(length[:], uint64(len(data)))
	h.Write(length[:])
	h.Write(data)
}
