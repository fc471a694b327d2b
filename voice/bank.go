package voice

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/fermion-go/fermion/signal"
)

// Bank resolves sample names — either a ":n" variant index ("bd:3") or a
// literal "dir/basename" path ("bd/BT0A0A7") — to decoded buffers. Directory
// discovery is grounded
// on the config-driven resource loading style used elsewhere in the pack:
// a directory is walked once at startup, its files sorted for deterministic
// variant numbering, and everything after that is an in-memory lookup.
type Bank struct {
	dir       string
	variants  map[string][]string // base name -> sorted file paths
	decode    func(path string) (*signal.SampleBuffer, error)
	cache     map[string]*signal.SampleBuffer
}

// NewBank walks dir (one subdirectory per sample base name, matching the
// dirt-samples layout mini-notation sample names assume) and indexes every
// file it finds. decode is injected so the bank stays agnostic of any
// particular audio codec (spec §1 Non-goals: sample decoding itself is out
// of scope beyond WAV, which wavio provides).
func NewBank(dir string, decode func(path string) (*signal.SampleBuffer, error)) (*Bank, error) {
	b := &Bank{
		dir:      dir,
		variants: make(map[string][]string),
		decode:   decode,
		cache:    make(map[string]*signal.SampleBuffer),
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("voice: reading sample bank %q: %w", dir, err)
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		sub := filepath.Join(dir, e.Name())
		files, err := os.ReadDir(sub)
		if err != nil {
			continue
		}
		var paths []string
		for _, f := range files {
			if f.IsDir() {
				continue
			}
			paths = append(paths, filepath.Join(sub, f.Name()))
		}
		sort.Strings(paths)
		if len(paths) > 0 {
			b.variants[e.Name()] = paths
		}
	}
	return b, nil
}

// Lookup resolves a sample name. The primary scheme is a ":n" variant
// suffix (e.g. "bd:3" selects the fourth file in "bd"'s sorted directory
// listing, 0-indexed; an out-of-range or omitted index wraps modulo the
// variant count, matching Tidal's sample-bank indexing convention). A name
// containing a "/" is instead treated as a literal "dir/basename" path
// into the bank, matching the fully-qualified form a sample bank's own
// filenames use — both forms address the same underlying directory walk.
func (b *Bank) Lookup(name string) (*signal.SampleBuffer, error) {
	if strings.Contains(name, "/") {
		return b.lookupPath(name)
	}

	base, variant := splitVariant(name)

	key := fmt.Sprintf("%s:%d", base, variant)
	if buf, ok := b.cache[key]; ok {
		return buf, nil
	}

	paths, ok := b.variants[base]
	if !ok || len(paths) == 0 {
		return nil, fmt.Errorf("voice: unknown sample %q", base)
	}
	idx := variant % len(paths)
	if idx < 0 {
		idx += len(paths)
	}
	buf, err := b.decode(paths[idx])
	if err != nil {
		return nil, fmt.Errorf("voice: decoding %q: %w", paths[idx], err)
	}
	b.cache[key] = buf
	return buf, nil
}

// lookupPath resolves a literal "dir/basename" sample name by matching the
// basename (with or without extension) against the indexed directory's
// files directly, rather than by variant index.
func (b *Bank) lookupPath(name string) (*signal.SampleBuffer, error) {
	if buf, ok := b.cache[name]; ok {
		return buf, nil
	}
	dir, base := path.Split(name)
	dir = strings.TrimSuffix(dir, "/")
	paths, ok := b.variants[dir]
	if !ok {
		return nil, fmt.Errorf("voice: unknown sample %q", name)
	}
	for _, p := range paths {
		fname := filepath.Base(p)
		if fname == base || strings.TrimSuffix(fname, filepath.Ext(fname)) == base {
			buf, err := b.decode(p)
			if err != nil {
				return nil, fmt.Errorf("voice: decoding %q: %w", p, err)
			}
			b.cache[name] = buf
			return buf, nil
		}
	}
	return nil, fmt.Errorf("voice: unknown sample %q", name)
}

func splitVariant(name string) (string, int) {
	colon := strings.LastIndexByte(name, ':')
	if colon < 0 {
		return name, 0
	}
	n, err := strconv.Atoi(name[colon+1:])
	if err != nil {
		return name, 0
	}
	return name[:colon], n
}
