// Package catalog loads animation documents from layered JSON files, keeps
// the merged result live behind a resolver, and reloads it when the files
// change on disk.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"rune-and-ruin/graphics/animations"
)

// source abstracts where documents come from so tests can feed in-memory
// fixtures through the same loading path as files on disk.
type source interface {
	Load() ([]byte, error)
	Path() string
}

type fileSource struct {
	path string
}

func (s fileSource) Load() ([]byte, error) {
	return os.ReadFile(s.path)
}

func (s fileSource) Path() string {
	return s.path
}

// Entry is one merged roll option: either an alias naming another key or the
// animation entries played for it. Source records which document supplied
// the winning value.
type Entry struct {
	Key     string
	Alias   string
	Objects []animations.AnimationObject
	Source  string
}

func (e Entry) clone() Entry {
	out := e
	if len(e.Objects) > 0 {
		out.Objects = append([]animations.AnimationObject(nil), e.Objects...)
	}
	return out
}

// ValidationError carries every issue found in a single document, so a bad
// file surfaces all of its problems in one reload instead of one per attempt.
type ValidationError struct {
	Path   string
	Issues []animations.Issue
}

func (e *ValidationError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "catalog: %s failed validation with %d issue(s)", e.Path, len(e.Issues))
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %s at %s: %s", issue.Code, issue.Path, issue.Message)
	}
	return b.String()
}

// ReferenceError reports aliases and reference fields that do not resolve
// anywhere in the merged catalog. These checks only make sense after every
// document has been layered, so they live here rather than in the per-file
// grammar.
type ReferenceError struct {
	Issues []animations.Issue
}

func (e *ReferenceError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "catalog: %d unresolved reference(s)", len(e.Issues))
	for _, issue := range e.Issues {
		fmt.Fprintf(&b, "\n  %s: %s", issue.Path, issue.Message)
	}
	return b.String()
}

// Resolver loads documents from an ordered list of sources and serves the
// merged catalog from an atomically swapped snapshot. Later sources override
// earlier ones key by key, which is how module packs layer their tweaks on
// top of a base catalog.
type Resolver struct {
	mu        sync.RWMutex
	sources   []source
	validator animations.Validator
	entries   map[string]Entry
	images    []animations.TokenImage
}

// DefaultPaths returns the standard catalog locations relative to the
// working directory, base document first so local overlays win.
func DefaultPaths() []string {
	candidates := []string{
		filepath.Join("config", "animations.json"),
		filepath.Join("config", "animations.local.json"),
	}
	paths := make([]string, 0, len(candidates))
	seen := make(map[string]struct{}, len(candidates))
	for _, candidate := range candidates {
		cleaned := filepath.Clean(candidate)
		if _, ok := seen[cleaned]; ok {
			continue
		}
		seen[cleaned] = struct{}{}
		paths = append(paths, cleaned)
	}
	return paths
}

// Load builds a resolver over the given file paths; blank paths are skipped.
// Files that do not exist yet are tolerated so optional overlays can appear
// later and be picked up by Reload or Watch.
func Load(paths ...string) (*Resolver, error) {
	return NewResolver(fileSources(paths)...)
}

// LoadLenient builds a resolver over the given file paths like Load, but the
// resolver comes back usable even when the initial read fails: the snapshot
// starts empty and the error is returned alongside for reporting. Meant for
// the dev server, which outlives a broken catalog and goes green on the next
// successful reload.
func LoadLenient(paths ...string) (*Resolver, error) {
	r := &Resolver{
		sources:   fileSources(paths),
		validator: animations.Validator{CrossEntry: CheckEntries},
		entries:   make(map[string]Entry),
	}
	return r, r.Reload()
}

func fileSources(paths []string) []source {
	sources := make([]source, 0, len(paths))
	for _, path := range paths {
		trimmed := strings.TrimSpace(path)
		if trimmed == "" {
			continue
		}
		sources = append(sources, fileSource{path: trimmed})
	}
	return sources
}

// NewResolver wires the cross-entry hook into the validator and performs the
// initial load.
func NewResolver(sources ...source) (*Resolver, error) {
	r := &Resolver{
		sources:   sources,
		validator: animations.Validator{CrossEntry: CheckEntries},
		entries:   make(map[string]Entry),
	}
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Reload re-reads every source and swaps the merged snapshot in one step. On
// any error the previous snapshot stays live, so one bad edit never takes
// down a catalog that was healthy before it.
func (r *Resolver) Reload() error {
	if r == nil {
		return errors.New("catalog: resolver is nil")
	}
	entries := make(map[string]Entry)
	var images []animations.TokenImage
	imageIndex := make(map[string]int)
	var failures []error
	for _, src := range r.sources {
		data, err := src.Load()
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return fmt.Errorf("catalog: failed loading %s: %w", src.Path(), err)
		}
		var doc any
		if err := json.Unmarshal(data, &doc); err != nil {
			return fmt.Errorf("catalog: failed parsing %s: %w", src.Path(), err)
		}
		if result := r.validator.Validate(doc); !result.Success {
			failures = append(failures, &ValidationError{Path: src.Path(), Issues: result.Issues})
			continue
		}
		decoded, err := animations.DecodeDocument(data)
		if err != nil {
			return fmt.Errorf("catalog: failed decoding %s: %w", src.Path(), err)
		}
		for key, target := range decoded.Aliases {
			entries[key] = Entry{Key: key, Alias: target, Source: src.Path()}
		}
		for key, objects := range decoded.Entries {
			entries[key] = Entry{Key: key, Objects: objects, Source: src.Path()}
		}
		for _, image := range decoded.TokenImages {
			if at, ok := imageIndex[image.UUID]; ok {
				images[at] = image
				continue
			}
			imageIndex[image.UUID] = len(images)
			images = append(images, image)
		}
	}
	if len(failures) > 0 {
		return errors.Join(failures...)
	}
	if issues := CheckReferences(entries); len(issues) > 0 {
		return &ReferenceError{Issues: issues}
	}
	r.mu.Lock()
	r.entries = entries
	r.images = images
	r.mu.Unlock()
	return nil
}

// Resolve follows alias chains to the entry played for key. The second
// return is false when the key is unknown or its alias chain loops.
func (r *Resolver) Resolve(key string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	seen := make(map[string]struct{})
	current := key
	for {
		entry, ok := r.entries[current]
		if !ok {
			return Entry{}, false
		}
		if entry.Alias == "" {
			return entry.clone(), true
		}
		if _, looped := seen[current]; looped {
			return Entry{}, false
		}
		seen[current] = struct{}{}
		current = entry.Alias
	}
}

// Lookup returns the entry stored for key without following aliases.
func (r *Resolver) Lookup(key string) (Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	entry, ok := r.entries[key]
	if !ok {
		return Entry{}, false
	}
	return entry.clone(), true
}

// Entries returns a copy of the merged catalog keyed by roll option.
func (r *Resolver) Entries() map[string]Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Entry, len(r.entries))
	for key, entry := range r.entries {
		out[key] = entry.clone()
	}
	return out
}

// Keys returns the merged roll options in sorted order.
func (r *Resolver) Keys() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.entries))
	for key := range r.entries {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// TokenImages returns a copy of the merged token image descriptors in
// document order, later documents overriding earlier ones by UUID.
func (r *Resolver) TokenImages() []animations.TokenImage {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]animations.TokenImage(nil), r.images...)
}
