package ktb

import (
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Filter narrows a root's candidate files with ant-style glob patterns.
// Patterns use forward slashes; `**` crosses directory boundaries, so
// `**/generated.kt` also matches a top-level generated.kt. The zero value
// keeps everything.
type Filter struct {
	include []string
	exclude []string
}

// NewFilter builds a filter from include and exclude pattern lists, rejecting
// malformed patterns with an error naming the pattern.
func NewFilter(include, exclude []string) (Filter, error) {
	for _, pat := range include {
		if !doublestar.ValidatePattern(pat) {
			return Filter{}, fmt.Errorf("invalid filter pattern %q", pat)
		}
	}
	for _, pat := range exclude {
		if !doublestar.ValidatePattern(pat) {
			return Filter{}, fmt.Errorf("invalid filter pattern %q", pat)
		}
	}
	return Filter{include: slices.Clone(include), exclude: slices.Clone(exclude)}, nil
}

// Include adds include patterns. When any include pattern is set, only
// matching files are kept. Panics on a malformed pattern.
// Returns a new Filter (immutable).
func (f Filter) Include(patterns ...string) Filter {
	cp := f.clone()
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			panic(fmt.Sprintf("ktb: invalid filter pattern %q", pat))
		}
		cp.include = append(cp.include, pat)
	}
	return cp
}

// Exclude adds exclude patterns. Excluded files are removed before includes
// apply. Panics on a malformed pattern.
// Returns a new Filter (immutable).
func (f Filter) Exclude(patterns ...string) Filter {
	cp := f.clone()
	for _, pat := range patterns {
		if !doublestar.ValidatePattern(pat) {
			panic(fmt.Sprintf("ktb: invalid filter pattern %q", pat))
		}
		cp.exclude = append(cp.exclude, pat)
	}
	return cp
}

// clone creates a copy of f for immutability.
func (f Filter) clone() Filter {
	return Filter{
		include: slices.Clone(f.include),
		exclude: slices.Clone(f.exclude),
	}
}

// Apply filters candidates in order: excluded files are removed, then when
// include patterns exist only matching files are kept, then the restriction
// intersects what remains. The restriction only narrows; it never brings an
// excluded file back.
func (f Filter) Apply(candidates []string, restriction *Restriction) []string {
	var kept []string
	for _, candidate := range candidates {
		path := NormalizePath(candidate)
		if matchAny(f.exclude, path) {
			continue
		}
		if len(f.include) > 0 && !matchAny(f.include, path) {
			continue
		}
		if !restriction.Contains(path) {
			continue
		}
		kept = append(kept, candidate)
	}
	return kept
}

// matchAny reports whether path matches any of the patterns. Patterns are
// validated at construction, so matching cannot fail.
func matchAny(patterns []string, path string) bool {
	for _, pat := range patterns {
		if doublestar.MatchUnvalidated(pat, path) {
			return true
		}
	}
	return false
}

// Restriction is an externally supplied "only these paths" set. A nil
// *Restriction means unrestricted; a non-nil restriction over zero paths
// matches nothing.
type Restriction struct {
	paths map[string]struct{}
}

// NewRestriction builds a restriction from explicit paths. Separators are
// normalized, so `/` and `\` spellings of the same path are one entry.
func NewRestriction(paths []string) *Restriction {
	r := &Restriction{paths: make(map[string]struct{}, len(paths))}
	for _, p := range paths {
		r.paths[NormalizePath(p)] = struct{}{}
	}
	return r
}

// ParseRestriction parses a comma- or newline-separated path list. An empty
// list yields nil, meaning unrestricted.
func ParseRestriction(raw string) *Restriction {
	fields := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == '\n' || r == '\r'
	})
	var paths []string
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			paths = append(paths, field)
		}
	}
	if len(paths) == 0 {
		return nil
	}
	return NewRestriction(paths)
}

// Contains reports whether path is covered by the restriction. The nil
// restriction covers every path.
func (r *Restriction) Contains(path string) bool {
	if r == nil {
		return true
	}
	_, ok := r.paths[NormalizePath(path)]
	return ok
}

// Len returns the number of restricted paths.
func (r *Restriction) Len() int {
	if r == nil {
		return 0
	}
	return len(r.paths)
}

// NormalizePath rewrites backslash separators to forward slashes and strips
// a leading "./".
func NormalizePath(path string) string {
	path = strings.ReplaceAll(path, `\`, "/")
	return strings.TrimPrefix(path, "./")
}
