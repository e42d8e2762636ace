// Package naming maps source basenames to collision-free output paths in the
// output directory.
package naming

import (
	"fmt"
	"os"
	"path/filepath"
)

// Resolver hands out free output paths of the form base.<ext>, base_1.<ext>,
// base_2.<ext>, … in a fixed output directory. Each returned path is claimed
// with an exclusive create, so two workers resolving the same base name
// concurrently can never receive the same path. All methods are
// goroutine-safe.
type Resolver struct {
	dir string
	ext string // without dot, e.g. "webp"
}

// NewResolver creates a resolver for dir producing .ext files.
func NewResolver(dir, ext string) *Resolver {
	return &Resolver{dir: dir, ext: ext}
}

// Resolve returns the first free path for base, reserving it on disk as an
// empty placeholder file that the caller is expected to overwrite.
// Candidate order: base.<ext>, then base_1.<ext>, base_2.<ext>, …
func (r *Resolver) Resolve(base string) (string, error) {
	for i := 0; ; i++ {
		name := fmt.Sprintf("%s.%s", base, r.ext)
		if i > 0 {
			name = fmt.Sprintf("%s_%d.%s", base, i, r.ext)
		}
		path := filepath.Join(r.dir, name)

		f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
		if err == nil {
			if cerr := f.Close(); cerr != nil {
				return "", cerr
			}
			return path, nil
		}
		if !os.IsExist(err) {
			return "", err
		}
	}
}
