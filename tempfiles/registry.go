// Package tempfiles tracks every intermediate file a render run creates so
// cleanup is deterministic: no directory globbing, no leftover scratch
// files from concurrent runs.
package tempfiles

import (
	"os"
	"sort"
	"sync"

	"github.com/rs/zerolog/log"
)

// Registry is the per-run set of temp file paths. Registration is safe
// under concurrent scene renders.
type Registry struct {
	mu    sync.Mutex
	paths map[string]struct{}
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{paths: make(map[string]struct{})}
}

// Register records a file for later cleanup. Empty paths are ignored so
// callers can register unconditionally.
func (r *Registry) Register(path string) {
	if path == "" {
		return
	}
	r.mu.Lock()
	r.paths[path] = struct{}{}
	r.mu.Unlock()
}

// Paths returns the registered paths in sorted order.
func (r *Registry) Paths() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.paths))
	for p := range r.paths {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Cleanup deletes every registered path that still exists. It is
// best-effort and idempotent: missing or unremovable files are logged and
// skipped, and the registry is emptied so a second call is a no-op.
func (r *Registry) Cleanup() {
	r.mu.Lock()
	paths := make([]string, 0, len(r.paths))
	for p := range r.paths {
		paths = append(paths, p)
	}
	r.paths = make(map[string]struct{})
	r.mu.Unlock()

	sort.Strings(paths)
	removed := 0
	for _, p := range paths {
		err := os.Remove(p)
		switch {
		case err == nil:
			removed++
		case os.IsNotExist(err):
			// already gone, nothing to do
		default:
			log.Warn().Str("path", p).Err(err).Msg("could not remove temp file")
		}
	}
	if removed > 0 {
		log.Debug().Int("removed", removed).Msg("temp files cleaned up")
	}
}
